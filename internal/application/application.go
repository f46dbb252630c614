package application

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobApplication is one tracked application, scoped to a single account.
type JobApplication struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	CompanyName     string    `json:"company_name"`
	JobRole         string    `json:"job_role"`
	JobType         JobType   `json:"job_type"`
	Status          Status    `json:"status"`
	ApplicationDate Date      `json:"application_date"`
	FollowUpDate    *Date     `json:"follow_up_date"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Input is the full form payload submitted on create and update.
// Partial updates are not supported: every field is replaced.
type Input struct {
	CompanyName     string  `json:"company_name"`
	JobRole         string  `json:"job_role"`
	JobType         JobType `json:"job_type"`
	Status          Status  `json:"status"`
	ApplicationDate Date    `json:"application_date"`
	FollowUpDate    *Date   `json:"follow_up_date"`
	Notes           *string `json:"notes"`
}

// Normalize trims the name fields and drops blank notes. Note text is kept
// verbatim.
func (in Input) Normalize() Input {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.JobRole = strings.TrimSpace(in.JobRole)
	in.Notes = blankToNil(in.Notes)
	if in.FollowUpDate != nil && in.FollowUpDate.IsZero() {
		in.FollowUpDate = nil
	}
	return in
}

// Validate checks a normalized Input. All problems are reported at once.
func (in Input) Validate() error {
	fields := make(map[string]string)
	if in.CompanyName == "" {
		fields["company_name"] = "company name is required"
	}
	if in.JobRole == "" {
		fields["job_role"] = "job role is required"
	}
	if _, err := ParseJobType(string(in.JobType)); err != nil {
		fields["job_type"] = "job type must be Full-time or Internship"
	}
	if _, err := ParseStatus(string(in.Status)); err != nil {
		fields["status"] = "status must be Applied, Interview, Offer, or Rejected"
	}
	if in.ApplicationDate.IsZero() {
		fields["application_date"] = "application date is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Msg: "invalid application", Fields: fields}
	}
	return nil
}

// Apply copies the input onto app, leaving store-owned fields untouched.
func (in Input) Apply(app *JobApplication) {
	app.CompanyName = in.CompanyName
	app.JobRole = in.JobRole
	app.JobType = in.JobType
	app.Status = in.Status
	app.ApplicationDate = in.ApplicationDate
	app.FollowUpDate = in.FollowUpDate
	app.Notes = in.Notes
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
