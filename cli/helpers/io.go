package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// OutputJSON writes a value to stdout as indented JSON.
func OutputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// OutputJSONError writes an error payload to stdout and returns the error
// so non-interactive callers still get a non-zero exit.
func OutputJSONError(message string) error {
	if err := OutputJSON(map[string]any{"error": message}); err != nil {
		return err
	}
	return fmt.Errorf("%s", message)
}

// ParseConnectionID parses a numeric connection id argument.
func ParseConnectionID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewCliError("INVALID_ARGUMENT", fmt.Sprintf("invalid connection id %q", arg))
	}
	return id, nil
}
