package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/datalakehq/lakectl/cli/tui/models"
)

// CliError is a structured error for CLI output
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCliError creates a new structured CLI error
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithContext adds a context entry to the error
func (e *CliError) WithContext(key string, value any) *CliError {
	e.Context[key] = value
	return e
}

// reportedError marks an error whose message was already written to the
// user by a mode-aware handler, so the top level only sets the exit code.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// MarkReported wraps err as already printed.
func MarkReported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was already printed downstream.
func IsReported(err error) bool {
	var reported *reportedError
	return errors.As(err, &reported)
}

// IsTimeoutError detects timeouts
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(strings.ToLower(err.Error()), "timeout") ||
		strings.Contains(strings.ToLower(err.Error()), "timed out")
}

// IsNetworkError detects connection-level failures
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused", "connection reset", "connection timeout",
		"no route to host", "network unreachable", "dns",
		"name resolution failed", "temporary failure",
	}
	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// IsAuthError detects authentication/authorization failures
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	authKeywords := []string{
		"unauthorized", "authentication", "invalid token",
		"permission denied", "forbidden", "access denied",
		"api key", "credential",
	}
	for _, keyword := range authKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// FormatError renders an error for the given output mode
func FormatError(err error, mode models.Mode) string {
	if err == nil {
		return ""
	}
	if mode == models.ModeJSON {
		return formatErrorJSON(err)
	}
	return formatErrorTUI(err)
}

func formatErrorJSON(err error) string {
	var cliErr *CliError
	if !errors.As(err, &cliErr) {
		cliErr = NewCliError("ERROR", err.Error())
	}
	data, marshalErr := json.MarshalIndent(cliErr, "", "  ")
	if marshalErr != nil {
		return fmt.Sprintf(`{"code":"ERROR","message":%q}`, err.Error())
	}
	return string(data)
}

func formatErrorTUI(err error) string {
	var cliErr *CliError
	if errors.As(err, &cliErr) && cliErr.Details != "" {
		return fmt.Sprintf("Error: %s\n  %s", cliErr.Message, cliErr.Details)
	}
	if cliErr != nil {
		return fmt.Sprintf("Error: %s", cliErr.Message)
	}
	return fmt.Sprintf("Error: %v", err)
}

// OutputError writes a formatted error to stderr
func OutputError(err error, mode models.Mode) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err, mode))
}
