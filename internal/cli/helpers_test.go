package cli

import (
	"errors"
	"testing"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/domain"
	"github.com/andy/invoicedesk/internal/service"
)

func TestFailure_PrefersServerDetail(t *testing.T) {
	apiErr := &api.Error{StatusCode: 400, Detail: "duplicate customer"}

	err := failure(apiErr, service.MsgCreateFailed)
	if err.Error() != "duplicate customer" {
		t.Fatalf("expected server detail, got %q", err.Error())
	}
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected the api error to stay in the chain")
	}
}

func TestFailure_FallbackAndValidation(t *testing.T) {
	if err := failure(&api.Error{StatusCode: 500}, service.MsgCreateFailed); err.Error() != service.MsgCreateFailed {
		t.Fatalf("expected fallback, got %q", err.Error())
	}

	v := domain.NewValidationError(service.MsgMissingCreate)
	if err := failure(v, service.MsgCreateFailed); err != v {
		t.Fatalf("expected validation error unchanged, got %v", err)
	}

	if failure(nil, "x") != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID(" 42 ", "invoice"); err != nil || id != 42 {
		t.Fatalf("parseID = %d, %v", id, err)
	}
	for _, s := range []string{"", "0", "-3", "abc"} {
		if _, err := parseID(s, "invoice"); err == nil {
			t.Errorf("parseID(%q): expected error", s)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("Großhandel GmbH & Co", 10); got != "Großhan..." {
		t.Fatalf("truncate = %q", got)
	}
}

func TestPickInvoiceID(t *testing.T) {
	last := func() (int64, bool) { return 42, true }
	none := func() (int64, bool) { return 0, false }

	if id, err := pickInvoiceID(true, 7, last); err != nil || id != 7 {
		t.Fatalf("explicit flag: got %d, %v", id, err)
	}
	if id, err := pickInvoiceID(false, 0, last); err != nil || id != 42 {
		t.Fatalf("default: got %d, %v", id, err)
	}
	// an explicit id is passed through even when nothing is listed
	if id, err := pickInvoiceID(true, 7, none); err != nil || id != 7 {
		t.Fatalf("explicit flag on empty list: got %d, %v", id, err)
	}
	if _, err := pickInvoiceID(false, 0, none); !domain.IsValidation(err) {
		t.Fatalf("expected validation error on empty list, got %v", err)
	}
}
