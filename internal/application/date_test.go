package application_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"jobmate/application-tracker/internal/application"
)

func TestParseDate_Valid(t *testing.T) {
	d, err := application.ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("String() = %q, want %q", d.String(), "2024-02-29")
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2023-02-29", "2024-13-01", "2024-1-5", "2024-01-05T00:00:00Z", "yesterday"} {
		_, err := application.ParseDate(s)
		var de *application.InvalidDateError
		if !errors.As(err, &de) {
			t.Errorf("ParseDate(%q) error = %v, want *InvalidDateError", s, err)
			continue
		}
		if de.Value != s {
			t.Errorf("InvalidDateError.Value = %q, want %q", de.Value, s)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2024-03-10", "2024-03-10", 0},
		{"2024-03-10", "2024-03-11", 1},
		{"2024-03-10", "2024-03-09", -1},
		{"2024-02-28", "2024-03-01", 2},
		{"2024-03-30", "2024-04-01", 2},
		{"2023-12-31", "2024-12-31", 366},
	}
	for _, c := range cases {
		got := application.DaysBetween(application.MustParseDate(c.a), application.MustParseDate(c.b))
		if got != c.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDateOf_UsesLocation(t *testing.T) {
	// 23:30 UTC on March 10 is already March 11 in Tokyo.
	ts := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	if got := application.DateOf(ts, nil).String(); got != "2024-03-10" {
		t.Errorf("DateOf(UTC) = %s, want 2024-03-10", got)
	}
	if got := application.DateOf(ts, tokyo).String(); got != "2024-03-11" {
		t.Errorf("DateOf(JST) = %s, want 2024-03-11", got)
	}
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		D  application.Date  `json:"d"`
		FD *application.Date `json:"fd"`
	}
	in := payload{D: application.NewDate(2024, time.May, 1)}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"d":"2024-05-01","fd":null}` {
		t.Errorf("Marshal = %s", b)
	}

	var out payload
	if err := json.Unmarshal([]byte(`{"d":"2024-05-01","fd":"2024-05-08"}`), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !out.D.Equal(in.D) {
		t.Errorf("D = %s, want %s", out.D, in.D)
	}
	if out.FD == nil || out.FD.String() != "2024-05-08" {
		t.Errorf("FD = %v, want 2024-05-08", out.FD)
	}
}

func TestDate_Ordering(t *testing.T) {
	a := application.MustParseDate("2024-01-01")
	b := a.AddDays(1)
	if !a.Before(b) || !b.After(a) || a.Equal(b) {
		t.Error("expected a < b")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare mismatch")
	}
	if b.Weekday() != time.Tuesday {
		t.Errorf("2024-01-02 weekday = %s, want Tuesday", b.Weekday())
	}
}
