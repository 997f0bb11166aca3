package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalakehq/lakectl/cli/helpers"
	"github.com/datalakehq/lakectl/pkg/config"
)

func TestSetupGlobalConfig(t *testing.T) {
	t.Run("Should inject loaded config into the command context", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, setupGlobalConfig(cmd))
		cfg := config.FromContext(cmd.Context())
		require.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.Server.Host)
	})
	t.Run("Should let environment variables override defaults", func(t *testing.T) {
		t.Setenv("LAKECTL_SERVER_PORT", "9090")
		cmd := RootCmd()
		require.NoError(t, setupGlobalConfig(cmd))
		assert.Equal(t, 9090, config.FromContext(cmd.Context()).Server.Port)
	})
	t.Run("Should let flags win over everything", func(t *testing.T) {
		t.Setenv("LAKECTL_SERVER_HOST", "env-host")
		cmd := RootCmd()
		require.NoError(t, cmd.PersistentFlags().Set("host", "flag-host"))
		require.NoError(t, setupGlobalConfig(cmd))
		assert.Equal(t, "flag-host", config.FromContext(cmd.Context()).Server.Host)
	})
	t.Run("Should reject an invalid format flag", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, cmd.PersistentFlags().Set("format", "yaml"))
		assert.Error(t, setupGlobalConfig(cmd))
	})
}

func TestRootCmdErrors(t *testing.T) {
	t.Run("Should return a printable error for a wrong argument count", func(t *testing.T) {
		cmd := RootCmd()
		var out, errOut bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{"connection", "show", "github"})
		err := cmd.Execute()
		require.Error(t, err)
		assert.False(t, helpers.IsReported(err))
	})
	t.Run("Should return a printable error for an invalid format flag", func(t *testing.T) {
		cmd := RootCmd()
		var out, errOut bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{"--format", "yaml", "connection", "show", "github", "1"})
		err := cmd.Execute()
		require.Error(t, err)
		assert.False(t, helpers.IsReported(err))
		assert.Contains(t, err.Error(), "format")
	})
}

func TestRootCmd(t *testing.T) {
	t.Run("Should register the command groups", func(t *testing.T) {
		cmd := RootCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		assert.Contains(t, names, "connection")
		assert.Contains(t, names, "scope")
	})
}
