package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalakehq/lakectl/cli/tui/models"
)

func TestNewCliError(t *testing.T) {
	t.Run("Should create error with code and message", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message")
		assert.Equal(t, "TEST_ERROR", err.Code)
		assert.Equal(t, "Test message", err.Message)
		assert.Empty(t, err.Details)
		assert.NotNil(t, err.Context)
	})

	t.Run("Should implement error interface", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message")
		assert.Equal(t, "TEST_ERROR: Test message", err.Error())

		errWithDetails := NewCliError("TEST_ERROR", "Test message", "Details")
		assert.Equal(t, "TEST_ERROR: Test message (Details)", errWithDetails.Error())
	})

	t.Run("Should add context entries", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message").
			WithContext("plugin", "github").
			WithContext("connection_id", 42)
		assert.Equal(t, "github", err.Context["plugin"])
		assert.Equal(t, 42, err.Context["connection_id"])
	})
}

func TestMarkReported(t *testing.T) {
	t.Run("Should mark and detect already-printed errors", func(t *testing.T) {
		base := NewCliError("NETWORK_ERROR", "Network connection failed")
		reported := MarkReported(base)
		require.Error(t, reported)
		assert.True(t, IsReported(reported))
		assert.Equal(t, base.Error(), reported.Error())
	})

	t.Run("Should preserve the wrapped error for errors.As", func(t *testing.T) {
		reported := MarkReported(NewCliError("AUTH_ERROR", "Authentication failed"))
		var cliErr *CliError
		require.ErrorAs(t, reported, &cliErr)
		assert.Equal(t, "AUTH_ERROR", cliErr.Code)
	})

	t.Run("Should pass nil and plain errors through", func(t *testing.T) {
		assert.NoError(t, MarkReported(nil))
		assert.False(t, IsReported(context.DeadlineExceeded))
		assert.False(t, IsReported(nil))
	})
}

func TestErrorClassification(t *testing.T) {
	t.Run("Should detect timeout errors", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()
		time.Sleep(2 * time.Millisecond)
		assert.True(t, IsTimeoutError(ctx.Err()))
		assert.True(t, IsTimeoutError(NewCliError("TIMEOUT", "request timed out")))
		assert.False(t, IsTimeoutError(nil))
	})

	t.Run("Should detect network errors", func(t *testing.T) {
		assert.True(t, IsNetworkError(NewCliError("NET", "connection refused")))
		assert.False(t, IsNetworkError(NewCliError("OTHER", "boom")))
	})

	t.Run("Should detect auth errors", func(t *testing.T) {
		assert.True(t, IsAuthError(NewCliError("AUTH", "invalid token")))
		assert.False(t, IsAuthError(NewCliError("OTHER", "boom")))
	})
}

func TestFormatError(t *testing.T) {
	t.Run("Should format JSON mode errors as JSON", func(t *testing.T) {
		out := FormatError(NewCliError("TEST", "broken"), models.ModeJSON)
		assert.Contains(t, out, `"code": "TEST"`)
		assert.Contains(t, out, `"message": "broken"`)
	})

	t.Run("Should format TUI mode errors as plain text", func(t *testing.T) {
		out := FormatError(NewCliError("TEST", "broken", "details here"), models.ModeTUI)
		assert.Contains(t, out, "Error: broken")
		assert.Contains(t, out, "details here")
	})
}

func TestParseConnectionID(t *testing.T) {
	t.Run("Should parse valid ids", func(t *testing.T) {
		id, err := ParseConnectionID("42")
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("Should reject non-numeric and non-positive ids", func(t *testing.T) {
		_, err := ParseConnectionID("abc")
		require.Error(t, err)
		_, err = ParseConnectionID("0")
		require.Error(t, err)
	})
}
