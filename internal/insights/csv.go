package insights

import (
	"strings"
	"time"

	"jobmate/application-tracker/internal/application"
)

// TimestampLayout renders created_at/updated_at in the export.
const TimestampLayout = "2006-01-02 15:04:05"

// CSVHeader is the fixed column order of the export.
var CSVHeader = []string{
	"Company Name",
	"Job Role",
	"Job Type",
	"Status",
	"Application Date",
	"Follow-up Date",
	"Notes",
	"Created At",
	"Updated At",
}

// ToCSV serializes records, in input order, under CSVHeader. Timestamps are
// rendered in loc (UTC when nil). Rows are separated by "\n" with no trailing
// separator, so an empty record set yields the header line alone.
//
// A field is quoted only when it contains a comma, a double quote or a
// newline; embedded quotes are doubled.
func ToCSV(records []application.JobApplication, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	var b strings.Builder
	writeRow(&b, CSVHeader)
	for _, app := range records {
		b.WriteByte('\n')
		writeRow(&b, csvRow(app, loc))
	}
	return b.String()
}

func csvRow(app application.JobApplication, loc *time.Location) []string {
	followUp := ""
	if app.FollowUpDate != nil {
		followUp = app.FollowUpDate.String()
	}
	notes := ""
	if app.Notes != nil {
		notes = *app.Notes
	}
	return []string{
		app.CompanyName,
		app.JobRole,
		string(app.JobType),
		string(app.Status),
		app.ApplicationDate.String(),
		followUp,
		notes,
		app.CreatedAt.In(loc).Format(TimestampLayout),
		app.UpdatedAt.In(loc).Format(TimestampLayout),
	}
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(f))
	}
}

func escapeField(s string) string {
	escaped := strings.ReplaceAll(s, `"`, `""`)
	if strings.ContainsAny(escaped, ",\"\n") {
		return `"` + escaped + `"`
	}
	return escaped
}

// ExportFilename is the suggested download name for an export made today.
func ExportFilename(today application.Date) string {
	return "job-applications-" + today.String() + ".csv"
}
