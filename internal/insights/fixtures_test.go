package insights_test

import (
	"time"

	"github.com/google/uuid"

	"jobmate/application-tracker/internal/application"
)

var today = application.MustParseDate("2024-03-13") // a Wednesday

type appOpt func(*application.JobApplication)

func newApp(company, role string, opts ...appOpt) application.JobApplication {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	app := application.JobApplication{
		ID:              uuid.New(),
		UserID:          uuid.Nil,
		CompanyName:     company,
		JobRole:         role,
		JobType:         application.JobTypeFullTime,
		Status:          application.StatusApplied,
		ApplicationDate: today,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	for _, o := range opts {
		o(&app)
	}
	return app
}

func withStatus(s application.Status) appOpt {
	return func(a *application.JobApplication) { a.Status = s }
}

func withType(t application.JobType) appOpt {
	return func(a *application.JobApplication) { a.JobType = t }
}

func appliedOn(d application.Date) appOpt {
	return func(a *application.JobApplication) { a.ApplicationDate = d }
}

func followUpOn(d application.Date) appOpt {
	return func(a *application.JobApplication) { a.FollowUpDate = &d }
}

func withNotes(s string) appOpt {
	return func(a *application.JobApplication) { a.Notes = &s }
}

func companies(apps []application.JobApplication) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.CompanyName
	}
	return out
}
