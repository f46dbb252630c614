package insights

import (
	"jobmate/application-tracker/internal/application"
)

// TrendDays is the length of the weekly trend window, today included.
const TrendDays = 7

// TrendPoint is the number of applications sent on one calendar day.
type TrendPoint struct {
	Date  application.Date `json:"date"`
	Label string           `json:"label"` // short weekday, e.g. "Mon"
	Count int              `json:"count"`
}

// Stats is the dashboard summary of one record set.
type Stats struct {
	Total            int                         `json:"total"`
	CountsByStatus   map[application.Status]int  `json:"counts_by_status"`
	CountsByType     map[application.JobType]int `json:"counts_by_type"`
	SuccessRatePct   int                         `json:"success_rate_pct"`
	InterviewRatePct int                         `json:"interview_rate_pct"`
	ActiveCount      int                         `json:"active_count"`
	WeeklyTrend      []TrendPoint                `json:"weekly_trend"`
}

// Aggregate computes dashboard statistics. today anchors the weekly trend,
// which always covers today-6 through today in ascending order.
func Aggregate(records []application.JobApplication, today application.Date) Stats {
	st := Stats{
		Total:          len(records),
		CountsByStatus: make(map[application.Status]int, len(application.Statuses)),
		CountsByType:   make(map[application.JobType]int, len(application.JobTypes)),
	}
	for _, s := range application.Statuses {
		st.CountsByStatus[s] = 0
	}
	for _, t := range application.JobTypes {
		st.CountsByType[t] = 0
	}

	perDay := make(map[application.Date]int)
	for _, app := range records {
		st.CountsByStatus[app.Status]++
		st.CountsByType[app.JobType]++
		if app.Status.IsActive() {
			st.ActiveCount++
		}
		perDay[app.ApplicationDate]++
	}

	offers := st.CountsByStatus[application.StatusOffer]
	interviews := st.CountsByStatus[application.StatusInterview] + offers
	st.SuccessRatePct = percent(offers, st.Total)
	st.InterviewRatePct = percent(interviews, st.Total)

	st.WeeklyTrend = make([]TrendPoint, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		st.WeeklyTrend = append(st.WeeklyTrend, TrendPoint{
			Date:  day,
			Label: day.Weekday().String()[:3],
			Count: perDay[day],
		})
	}
	return st
}

// percent is round-half-up of 100*n/total in integer arithmetic; 0 when total is 0.
func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*n + total) / (2 * total)
}
