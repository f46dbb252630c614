package insights

import (
	"slices"

	"jobmate/application-tracker/internal/application"
)

// DayGroup holds the applications sent on one calendar day.
type DayGroup struct {
	Date         application.Date             `json:"date"`
	Applications []application.JobApplication `json:"applications"`
}

// GroupByDate orders records newest application date first and groups them
// by that date. Records sharing a date keep their input order.
func GroupByDate(records []application.JobApplication) []DayGroup {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b application.JobApplication) int {
		return b.ApplicationDate.Compare(a.ApplicationDate)
	})

	groups := make([]DayGroup, 0)
	for _, app := range sorted {
		n := len(groups)
		if n > 0 && groups[n-1].Date.Equal(app.ApplicationDate) {
			groups[n-1].Applications = append(groups[n-1].Applications, app)
			continue
		}
		groups = append(groups, DayGroup{
			Date:         app.ApplicationDate,
			Applications: []application.JobApplication{app},
		})
	}
	return groups
}
