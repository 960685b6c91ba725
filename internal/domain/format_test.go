package domain

import (
	"testing"
	"time"
)

func TestEscapeHTML_ReservedCharacters(t *testing.T) {
	got := EscapeHTML(`<b>"A&B"</b>`)
	want := "&lt;b&gt;&quot;A&amp;B&quot;&lt;/b&gt;"
	if got != want {
		t.Fatalf("EscapeHTML() = %q, want %q", got, want)
	}
}

func TestEscapeHTML_PlainPassesThrough(t *testing.T) {
	for _, s := range []string{"", "abc", "Invoice42", "ACME Corp"} {
		if got := EscapeHTML(s); got != s {
			t.Errorf("EscapeHTML(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestEscapeHTML_EscapesExistingEntities(t *testing.T) {
	// a literal entity in the input is escaped exactly once
	if got := EscapeHTML("&lt;"); got != "&amp;lt;" {
		t.Fatalf("EscapeHTML(&lt;) = %q", got)
	}
}

func TestFormatDateShort(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-03-05T10:00:00Z", "2024-03-05"},
		{"2024-03-05", "2024-03-05"},
		{"2024-03-05T10:00:00.123456Z", "2024-03-05"},
		{"2024-03-05 23:59:59", "2024-03-05"},
		{"not-a-date", "not-a-date"},
		{"garbage-value-longer", "garbage-va"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := FormatDateShortIn(tc.in, time.UTC); got != tc.want {
			t.Errorf("FormatDateShortIn(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDateShort_UsesLocalComponents(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	if got := FormatDateShortIn("2024-03-05T02:00:00Z", loc); got != "2024-03-04" {
		t.Fatalf("expected local date 2024-03-04, got %q", got)
	}
	// date-only values are local dates and never shift
	if got := FormatDateShortIn("2024-03-05", loc); got != "2024-03-05" {
		t.Fatalf("expected 2024-03-05, got %q", got)
	}
}

func TestSanitizeTerminal(t *testing.T) {
	got := SanitizeTerminal("\x1b[31mRed\x1b[0m Corp\r\n\x07")
	if got != "Red Corp" {
		t.Fatalf("SanitizeTerminal() = %q, want %q", got, "Red Corp")
	}
	if got := SanitizeTerminal("Großhandel"); got != "Großhandel" {
		t.Fatalf("expected plain text unchanged, got %q", got)
	}
}
