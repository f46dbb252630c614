package insights

import (
	"fmt"
	"slices"

	"jobmate/application-tracker/internal/application"
)

// ReminderWindowDays is how far ahead upcoming follow-ups are surfaced.
const ReminderWindowDays = 7

// Urgency classifies a reminder for display.
type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyTomorrow Urgency = "tomorrow"
	UrgencyUpcoming Urgency = "upcoming"
)

// Reminder is a follow-up nudge for one active application.
type Reminder struct {
	Application  application.JobApplication `json:"application"`
	FollowUpDate application.Date           `json:"follow_up_date"`
	DaysUntil    int                        `json:"days_until"`
	IsOverdue    bool                       `json:"is_overdue"`
	IsToday      bool                       `json:"is_today"`
	IsTomorrow   bool                       `json:"is_tomorrow"`
	Urgency      Urgency                    `json:"urgency"`
	Message      string                     `json:"message"`
}

// SelectReminders returns the follow-ups that need attention as of today:
// every overdue one plus those due within ReminderWindowDays. Only Applied and
// Interview applications with a follow-up date are candidates. The result is
// ordered by follow-up date, earliest first; ties keep input order.
func SelectReminders(records []application.JobApplication, today application.Date) []Reminder {
	out := make([]Reminder, 0)
	for _, app := range records {
		if app.FollowUpDate == nil || !app.Status.IsActive() {
			continue
		}
		r := newReminder(app, today)
		if r.DaysUntil <= ReminderWindowDays || r.IsOverdue {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b Reminder) int {
		return a.FollowUpDate.Compare(b.FollowUpDate)
	})
	return out
}

func newReminder(app application.JobApplication, today application.Date) Reminder {
	due := *app.FollowUpDate
	days := application.DaysBetween(today, due)
	r := Reminder{
		Application:  app,
		FollowUpDate: due,
		DaysUntil:    days,
		IsOverdue:    due.Before(today),
		IsToday:      days == 0,
		IsTomorrow:   days == 1,
	}
	switch {
	case r.IsOverdue:
		r.Urgency = UrgencyOverdue
		r.Message = fmt.Sprintf("Overdue by %d %s", -days, plural(-days, "day"))
	case r.IsToday:
		r.Urgency = UrgencyToday
		r.Message = "Follow up today!"
	case r.IsTomorrow:
		r.Urgency = UrgencyTomorrow
		r.Message = "Follow up tomorrow"
	default:
		r.Urgency = UrgencyUpcoming
		r.Message = fmt.Sprintf("Follow up in %d days", days)
	}
	return r
}

// CountDue returns how many reminders are overdue or due today.
func CountDue(reminders []Reminder) int {
	n := 0
	for _, r := range reminders {
		if r.IsOverdue || r.IsToday {
			n++
		}
	}
	return n
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
