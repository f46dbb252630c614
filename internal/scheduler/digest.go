package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"jobmate/application-tracker/internal/application"
	"jobmate/application-tracker/internal/events"
	"jobmate/application-tracker/internal/insights"
)

type candidateLister interface {
	ListFollowUpCandidates(ctx context.Context) ([]application.JobApplication, error)
}

type digestObserver interface {
	ObserveDigest(result string, due int)
}

// Digest outcomes reported to the observer.
const (
	ResultSent    = "sent"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// Digest runs one reminder digest cycle: it loads every follow-up candidate,
// selects each user's reminders as of today and publishes one
// EVENT_FOLLOW_UP_DUE per user that has any.
type Digest struct {
	store     candidateLister
	publisher events.Publisher
	obs       digestObserver
	now       func() time.Time
	loc       *time.Location
}

// NewDigest constructs a Digest. now and loc define "today"; obs may be nil.
func NewDigest(store candidateLister, pub events.Publisher, obs digestObserver, now func() time.Time, loc *time.Location) *Digest {
	if obs == nil {
		obs = nopObserver{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Digest{store: store, publisher: pub, obs: obs, now: now, loc: loc}
}

// Summary counts the outcome of one cycle.
type Summary struct {
	Users   int
	Sent    int
	Skipped int
	Failed  int
}

// Run executes one cycle. It fails only when the candidates cannot be
// loaded; a user whose event cannot be published is logged and skipped.
func (d *Digest) Run(ctx context.Context) (Summary, error) {
	candidates, err := d.store.ListFollowUpCandidates(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load follow-up candidates: %w", err)
	}

	today := application.DateOf(d.now(), d.loc)
	order, byUser := groupByUser(candidates)

	sum := Summary{Users: len(order)}
	for _, userID := range order {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		reminders := insights.SelectReminders(byUser[userID], today)
		if len(reminders) == 0 {
			sum.Skipped++
			d.obs.ObserveDigest(ResultSkipped, 0)
			continue
		}

		due := insights.CountDue(reminders)
		if err := d.publisher.Publish(ctx, digestEvent(userID, reminders, due, d.now())); err != nil {
			slog.Warn("publish follow-up digest failed", "userId", userID, "err", err)
			sum.Failed++
			d.obs.ObserveDigest(ResultFailed, 0)
			continue
		}
		sum.Sent++
		d.obs.ObserveDigest(ResultSent, due)
	}
	return sum, nil
}

func digestEvent(userID uuid.UUID, reminders []insights.Reminder, due int, at time.Time) events.Event {
	overdue := 0
	ids := make([]string, 0, len(reminders))
	for _, r := range reminders {
		if r.IsOverdue {
			overdue++
		}
		ids = append(ids, r.Application.ID.String())
	}
	return events.Event{
		Type:   events.TypeFollowUpDue,
		UserID: userID,
		At:     at.UTC(),
		Data: map[string]any{
			"due":            due,
			"overdue":        overdue,
			"upcoming":       len(reminders) - due,
			"applicationIds": ids,
		},
	}
}

// groupByUser buckets applications by owner, keeping first-seen user order.
func groupByUser(apps []application.JobApplication) ([]uuid.UUID, map[uuid.UUID][]application.JobApplication) {
	var order []uuid.UUID
	byUser := make(map[uuid.UUID][]application.JobApplication)
	for _, a := range apps {
		if _, seen := byUser[a.UserID]; !seen {
			order = append(order, a.UserID)
		}
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}
	return order, byUser
}

type nopObserver struct{}

func (nopObserver) ObserveDigest(string, int) {}
