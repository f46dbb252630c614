// Package application defines the job application record and its closed
// enumerations.
//
// Status values carry no transition rules: any status may follow any other.
//
//	Applied ──► Interview ──► Offer
//	   ▲            │            │
//	   └────────────┴──► Rejected ◄┘
//
// Applied and Interview are the "active" statuses: only they are counted as
// active on the dashboard and only they can produce follow-up reminders.
package application

// Status values mirror the application_status enum in PostgreSQL.
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// ParseStatus converts a raw string to a Status, returning a ValidationError
// for unknown values. Matching is exact and case-sensitive.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return st, nil
	}
	return "", fieldError("status", "unknown application status %q", s)
}

// IsActive reports whether the application is still in progress.
func (s Status) IsActive() bool { return s == StatusApplied || s == StatusInterview }

// UnmarshalText rejects unknown statuses at decode time.
func (s *Status) UnmarshalText(b []byte) error {
	st, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// JobType values mirror the job_type enum in PostgreSQL.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypeInternship JobType = "Internship"
)

// JobTypes lists every job type in display order.
var JobTypes = []JobType{JobTypeFullTime, JobTypeInternship}

// ParseJobType converts a raw string to a JobType. Matching is exact.
func ParseJobType(s string) (JobType, error) {
	jt := JobType(s)
	switch jt {
	case JobTypeFullTime, JobTypeInternship:
		return jt, nil
	}
	return "", fieldError("job_type", "unknown job type %q", s)
}

func (t *JobType) UnmarshalText(b []byte) error {
	jt, err := ParseJobType(string(b))
	if err != nil {
		return err
	}
	*t = jt
	return nil
}
