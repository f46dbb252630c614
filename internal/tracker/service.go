// Package tracker contains the application-tracking use cases. The Service is
// transport-agnostic: it is shared by the REST handler, the gRPC server and
// the CLI export command.
package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"jobmate/application-tracker/internal/application"
	"jobmate/application-tracker/internal/events"
	"jobmate/application-tracker/internal/insights"
	"jobmate/application-tracker/internal/store"
)

// ─── Dependencies ────────────────────────────────────────────────────────────

type applicationStore interface {
	List(ctx context.Context, userID uuid.UUID, opts store.ListOptions) ([]application.JobApplication, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*application.JobApplication, error)
	Create(ctx context.Context, userID uuid.UUID, in application.Input) (*application.JobApplication, error)
	Update(ctx context.Context, userID, id uuid.UUID, in application.Input) (*application.JobApplication, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Dismissals remembers which reminders a user has hidden for now.
type Dismissals interface {
	Dismiss(ctx context.Context, userID, appID uuid.UUID) error
	Dismissed(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
}

type exportObserver interface {
	ObserveExport(rows int)
	ObservePublishFailure(eventType string)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the reference zone for calendar-day logic. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithObserver records exports and publish failures.
func WithObserver(o exportObserver) Option {
	return func(s *Service) { s.obs = o }
}

// ─── Service ─────────────────────────────────────────────────────────────────

// Service orchestrates the record store, the pure insights derivations and
// event publishing. It has no dependency on net/http.
type Service struct {
	store      applicationStore
	publisher  events.Publisher
	dismissals Dismissals
	obs        exportObserver
	now        func() time.Time
	loc        *time.Location
}

// NewService returns a configured Service.
func NewService(st applicationStore, pub events.Publisher, dis Dismissals, opts ...Option) *Service {
	s := &Service{
		store:      st,
		publisher:  pub,
		dismissals: dis,
		obs:        nopObserver{},
		now:        time.Now,
		loc:        time.UTC,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Today is the current calendar date in the reference zone.
func (s *Service) Today() application.Date {
	return application.DateOf(s.now(), s.loc)
}

// Location is the reference zone used for dates and export timestamps.
func (s *Service) Location() *time.Location { return s.loc }

// ─── Reads ───────────────────────────────────────────────────────────────────

// ListApplications returns the user's applications matching q, newest first.
func (s *Service) ListApplications(ctx context.Context, userID uuid.UUID, q insights.Query) ([]application.JobApplication, error) {
	var opts store.ListOptions
	if st, ok := q.Status.Value(); ok {
		opts.Status = &st
	}
	if jt, ok := q.Type.Value(); ok {
		opts.JobType = &jt
	}

	apps, err := s.store.List(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	return insights.Filter(apps, q), nil
}

// GetApplication returns one application owned by userID.
func (s *Service) GetApplication(ctx context.Context, userID, id uuid.UUID) (*application.JobApplication, error) {
	return s.store.Get(ctx, userID, id)
}

// Dashboard aggregates the user's applications as of today.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (insights.Stats, error) {
	apps, err := s.snapshot(ctx, userID)
	if err != nil {
		return insights.Stats{}, err
	}
	return insights.Aggregate(apps, s.Today()), nil
}

// Reminders returns the user's follow-up reminders, minus dismissed ones.
// A dismissal lookup failure is logged and the full list is returned.
func (s *Service) Reminders(ctx context.Context, userID uuid.UUID) ([]insights.Reminder, error) {
	apps, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	reminders := insights.SelectReminders(apps, s.Today())

	dismissed, err := s.dismissals.Dismissed(ctx, userID)
	if err != nil {
		slog.Warn("load dismissed reminders failed", "userId", userID, "err", err)
		return reminders, nil
	}
	if len(dismissed) == 0 {
		return reminders, nil
	}

	visible := make([]insights.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if !dismissed[r.Application.ID] {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// Timeline groups the user's applications by application date, newest first.
func (s *Service) Timeline(ctx context.Context, userID uuid.UUID) ([]insights.DayGroup, error) {
	apps, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return insights.GroupByDate(apps), nil
}

// ExportCSV renders every application of the user as CSV and returns the
// suggested download filename with the body.
func (s *Service) ExportCSV(ctx context.Context, userID uuid.UUID) (filename, body string, err error) {
	apps, err := s.snapshot(ctx, userID)
	if err != nil {
		return "", "", err
	}
	s.obs.ObserveExport(len(apps))
	return insights.ExportFilename(s.Today()), insights.ToCSV(apps, s.loc), nil
}

func (s *Service) snapshot(ctx context.Context, userID uuid.UUID) ([]application.JobApplication, error) {
	return s.store.List(ctx, userID, store.ListOptions{})
}

// ─── Writes ──────────────────────────────────────────────────────────────────

// CreateApplication validates in and stores a new application.
func (s *Service) CreateApplication(ctx context.Context, userID uuid.UUID, in application.Input) (*application.JobApplication, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	app, err := s.store.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeApplicationCreated, userID, app.ID, map[string]any{"status": app.Status})
	return app, nil
}

// UpdateApplication replaces every editable field of an existing application.
func (s *Service) UpdateApplication(ctx context.Context, userID, id uuid.UUID, in application.Input) (*application.JobApplication, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	app, err := s.store.Update(ctx, userID, id, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeApplicationUpdated, userID, app.ID, map[string]any{"status": app.Status})
	return app, nil
}

// DeleteApplication removes an application.
func (s *Service) DeleteApplication(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, events.TypeApplicationDeleted, userID, id, nil)
	return nil
}

// DismissReminder hides the reminder for one application until the
// dismissal expires. Returns ErrNotFound if the user does not own it.
func (s *Service) DismissReminder(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.store.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.dismissals.Dismiss(ctx, userID, id)
}

// publish is non-fatal: a failed publish is logged and counted.
func (s *Service) publish(ctx context.Context, eventType string, userID, appID uuid.UUID, data map[string]any) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:          eventType,
		UserID:        userID,
		ApplicationID: &appID,
		At:            s.now().UTC(),
		Data:          data,
	})
	if err != nil {
		s.obs.ObservePublishFailure(eventType)
		slog.Warn("publish event failed", "type", eventType, "applicationId", appID, "err", err)
	}
}

type nopObserver struct{}

func (nopObserver) ObserveExport(int)            {}
func (nopObserver) ObservePublishFailure(string) {}
