// Package insights derives views from a snapshot of one account's job
// applications: filtered lists, dashboard statistics, follow-up reminders,
// a date-grouped timeline and a CSV export.
//
// Every function here is pure. Inputs are never mutated and the same inputs
// always produce the same output, so callers simply re-run them whenever the
// record set or the query changes.
package insights

import (
	"strings"

	"jobmate/application-tracker/internal/application"
)

// AllValue is the wire sentinel that disables a status or type filter.
const AllValue = "all"

// StatusFilter selects a single status. The zero value matches every status.
type StatusFilter struct {
	status application.Status
}

// StatusIs restricts results to one status.
func StatusIs(s application.Status) StatusFilter { return StatusFilter{status: s} }

func (f StatusFilter) IsAll() bool { return f.status == "" }

// Value returns the selected status and false when the filter matches all.
func (f StatusFilter) Value() (application.Status, bool) { return f.status, !f.IsAll() }

func (f StatusFilter) matches(s application.Status) bool { return f.IsAll() || f.status == s }

func (f StatusFilter) String() string {
	if f.IsAll() {
		return AllValue
	}
	return string(f.status)
}

// TypeFilter selects a single job type. The zero value matches every type.
type TypeFilter struct {
	jobType application.JobType
}

// TypeIs restricts results to one job type.
func TypeIs(t application.JobType) TypeFilter { return TypeFilter{jobType: t} }

func (f TypeFilter) IsAll() bool { return f.jobType == "" }

func (f TypeFilter) Value() (application.JobType, bool) { return f.jobType, !f.IsAll() }

func (f TypeFilter) matches(t application.JobType) bool { return f.IsAll() || f.jobType == t }

func (f TypeFilter) String() string {
	if f.IsAll() {
		return AllValue
	}
	return string(f.jobType)
}

// Query is the filter bar state. The zero Query matches everything.
type Query struct {
	Search string
	Status StatusFilter
	Type   TypeFilter
}

// ParseQuery builds a Query from raw request values. Empty strings and "all"
// disable the corresponding dimension; unknown enum values are rejected.
func ParseQuery(search, status, jobType string) (Query, error) {
	q := Query{Search: search}
	if status != "" && status != AllValue {
		st, err := application.ParseStatus(status)
		if err != nil {
			return Query{}, err
		}
		q.Status = StatusIs(st)
	}
	if jobType != "" && jobType != AllValue {
		jt, err := application.ParseJobType(jobType)
		if err != nil {
			return Query{}, err
		}
		q.Type = TypeIs(jt)
	}
	return q, nil
}

// HasFilters reports whether any dimension narrows the result.
func (q Query) HasFilters() bool {
	return q.Search != "" || !q.Status.IsAll() || !q.Type.IsAll()
}

// Matches reports whether a single record passes all three predicates.
func (q Query) Matches(app application.JobApplication) bool {
	return q.matchesSearch(app, strings.ToLower(q.Search)) &&
		q.Status.matches(app.Status) &&
		q.Type.matches(app.JobType)
}

func (q Query) matchesSearch(app application.JobApplication, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(app.CompanyName), needle) ||
		strings.Contains(strings.ToLower(app.JobRole), needle)
}

// Filter returns the records matching q, in input order. The result is a new
// slice; it is empty (not nil) when nothing matches.
func Filter(records []application.JobApplication, q Query) []application.JobApplication {
	needle := strings.ToLower(q.Search)
	out := make([]application.JobApplication, 0, len(records))
	for _, app := range records {
		if q.matchesSearch(app, needle) && q.Status.matches(app.Status) && q.Type.matches(app.JobType) {
			out = append(out, app)
		}
	}
	return out
}
