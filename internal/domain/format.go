package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML escapes &, <, > and " so the string can be interpolated into markup.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// SanitizeTerminal strips escape sequences and control characters from
// server-provided text so it cannot restyle or move the terminal cursor.
func SanitizeTerminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// dateTimeLayouts are tried in order; date-only values are read as local dates.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// FormatDateShort renders a date-like string as yyyy-mm-dd in local time.
// Unparseable input falls back to its first 10 characters.
func FormatDateShort(s string) string {
	return FormatDateShortIn(s, time.Local)
}

// FormatDateShortIn is FormatDateShort with an explicit location
func FormatDateShortIn(s string, loc *time.Location) string {
	if s == "" {
		return ""
	}
	raw := strings.TrimSpace(s)

	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return formatYMD(t)
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return formatYMD(t.In(loc))
		}
	}

	r := []rune(s)
	if len(r) > 10 {
		r = r[:10]
	}
	return string(r)
}

func formatYMD(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}
