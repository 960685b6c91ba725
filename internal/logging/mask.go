package logging

import (
	"net/http"
	"strings"
)

// MaskCookie masks cookie values while preserving cookie names.
func MaskCookie(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.Split(value, ";")
	masked := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		if idx := strings.Index(segment, "="); idx >= 0 {
			key := strings.TrimSpace(segment[:idx])
			val := strings.TrimSpace(segment[idx+1:])
			segment = key + "=" + MaskValue(val)
		} else {
			segment = MaskValue(segment)
		}
		masked = append(masked, segment)
	}
	return strings.Join(masked, "; ")
}

// MaskHeaders returns a flat copy of headers with cookies and CSRF tokens masked.
func MaskHeaders(headers http.Header) map[string]string {
	masked := make(map[string]string, len(headers))
	for key, values := range headers {
		joined := strings.Join(values, ",")
		lower := strings.ToLower(strings.TrimSpace(key))
		switch {
		case lower == "cookie":
			masked[key] = MaskCookie(joined)
		case lower == "set-cookie":
			masked[key] = MaskCookie(strings.Join(values, "; "))
		case strings.Contains(lower, "csrf"), lower == "authorization":
			masked[key] = MaskValue(joined)
		default:
			masked[key] = joined
		}
	}
	return masked
}

// MaskValue keeps only the last 4 characters.
func MaskValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
