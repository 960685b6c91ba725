package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is a non-2xx response from the invoice server
type Error struct {
	StatusCode int
	Detail     string // "detail" field of the body, if any
	FieldError string // first field validation error, e.g. "customer: This field is required."
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.FieldError != "":
		return e.FieldError
	default:
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
}

// newError builds an Error from a response body, tolerating any shape
func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return e
	}

	if raw, ok := obj["detail"]; ok {
		var detail string
		if json.Unmarshal(raw, &detail) == nil {
			e.Detail = detail
		}
	}

	// DRF reports validation failures as {"field": ["message", ...]}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if k != "detail" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		var msgs []string
		if json.Unmarshal(obj[k], &msgs) == nil && len(msgs) > 0 {
			if k == "non_field_errors" {
				e.FieldError = msgs[0]
			} else {
				e.FieldError = k + ": " + msgs[0]
			}
			break
		}
	}

	return e
}

// Message resolves the text to show the user for a failed action.
// Server detail wins, then the first field error, then fallback.
// Errors that never reached the server are shown by their own message.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Detail != "":
			return apiErr.Detail
		case apiErr.FieldError != "":
			return apiErr.FieldError
		default:
			return fallback
		}
	}
	return err.Error()
}

// StatusCode returns the HTTP status of an *Error, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether the server answered 404
func IsNotFound(err error) bool {
	return StatusCode(err) == 404
}

func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
