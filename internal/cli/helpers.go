package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/domain"
)

// actionError carries the message shown to the user for a failed action
type actionError struct {
	msg string
	err error
}

func (e *actionError) Error() string { return e.msg }
func (e *actionError) Unwrap() error { return e.err }

// failure resolves err to the same message the TUI would show
func failure(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if domain.IsValidation(err) {
		return err
	}
	return &actionError{msg: api.Message(err, fallback), err: err}
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %s", what, s)
	}
	return id, nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
