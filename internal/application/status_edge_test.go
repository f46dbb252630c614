package application_test

// ── Edge cases for enum decoding and form payloads ─────────────────────────

import (
	"encoding/json"
	"testing"

	"jobmate/application-tracker/internal/application"
)

// ParseStatus must be case-sensitive: lowercase variants must not be valid.
func TestParseStatus_CaseSensitive(t *testing.T) {
	lowercase := []string{"applied", "interview", "offer", "rejected", "APPLIED"}
	for _, s := range lowercase {
		_, err := application.ParseStatus(s)
		if err == nil {
			t.Errorf("ParseStatus(%q) should reject non-canonical case, got nil error", s)
		}
	}
}

// ParseStatus must reject whitespace-padded strings.
func TestParseStatus_WithWhitespace(t *testing.T) {
	padded := []string{" Applied", "Applied ", " Applied "}
	for _, s := range padded {
		_, err := application.ParseStatus(s)
		if err == nil {
			t.Errorf("ParseStatus(%q) should reject padded value, got nil error", s)
		}
	}
}

// All constants must round-trip through ParseStatus without error.
func TestParseStatus_AllConstantsRoundTrip(t *testing.T) {
	for _, s := range application.Statuses {
		got, err := application.ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

// Unknown enum values are rejected while decoding, not silently carried.
func TestInput_DecodeRejectsUnknownEnums(t *testing.T) {
	payloads := []string{
		`{"company_name":"Acme","job_role":"Dev","job_type":"Contract","status":"Applied","application_date":"2024-03-01"}`,
		`{"company_name":"Acme","job_role":"Dev","job_type":"Full-time","status":"Ghosted","application_date":"2024-03-01"}`,
		`{"company_name":"Acme","job_role":"Dev","job_type":"Full-time","status":"Applied","application_date":"03/01/2024"}`,
	}
	for _, p := range payloads {
		var in application.Input
		if err := json.Unmarshal([]byte(p), &in); err == nil {
			t.Errorf("Unmarshal(%s) should fail", p)
		}
	}
}

// A blank follow-up date from the form means "no reminder tracked".
func TestInput_BlankFollowUpNormalizesToNil(t *testing.T) {
	p := `{"company_name":" Acme ","job_role":"Dev","job_type":"Internship","status":"Interview",
	       "application_date":"2024-03-01","follow_up_date":"","notes":"   "}`
	var in application.Input
	if err := json.Unmarshal([]byte(p), &in); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	in = in.Normalize()
	if in.FollowUpDate != nil {
		t.Errorf("FollowUpDate = %v, want nil", in.FollowUpDate)
	}
	if in.Notes != nil {
		t.Errorf("Notes = %q, want nil", *in.Notes)
	}
	if in.CompanyName != "Acme" {
		t.Errorf("CompanyName = %q, want trimmed %q", in.CompanyName, "Acme")
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

// Validate reports every missing field in one error.
func TestInput_ValidateReportsAllFields(t *testing.T) {
	err := application.Input{}.Normalize().Validate()
	if err == nil {
		t.Fatal("Validate() on empty input should fail")
	}
	ve, ok := err.(*application.ValidationError)
	if !ok {
		t.Fatalf("Validate() error type = %T, want *ValidationError", err)
	}
	for _, f := range []string{"company_name", "job_role", "job_type", "status", "application_date"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Errorf("Fields missing %q: %v", f, ve.Fields)
		}
	}
}

// Note text keeps its inner whitespace and punctuation untouched.
func TestInput_NotesKeptVerbatim(t *testing.T) {
	note := "He said, \"yes\"\n"
	in := application.Input{Notes: &note}.Normalize()
	if in.Notes == nil || *in.Notes != note {
		t.Errorf("Notes = %v, want %q", in.Notes, note)
	}
}
