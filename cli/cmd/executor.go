package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalakehq/lakectl/cli/api"
	"github.com/datalakehq/lakectl/cli/helpers"
	"github.com/datalakehq/lakectl/cli/tui/models"
	"github.com/datalakehq/lakectl/pkg/config"
	"github.com/datalakehq/lakectl/pkg/logger"
)

// CommandExecutor handles common setup and execution patterns for CLI
// commands: client creation, mode detection, context cancellation, and
// error handling at the edge.
type CommandExecutor struct {
	mode   models.Mode
	client *api.Client
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers contains handlers for different execution modes.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

// ExecutorOptions allows customization of the command executor
type ExecutorOptions struct {
	RequireClient bool
}

// NewCommandExecutor creates a new command executor with all necessary setup.
func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	mode := helpers.DetectMode(cmd)
	log.Debug("detected execution mode", "mode", mode)
	executor := &CommandExecutor{mode: mode}
	if opts.RequireClient {
		cfg := config.FromContext(ctx)
		if cfg == nil {
			return nil, fmt.Errorf("configuration manager not found in context")
		}
		apiKey := apiKeyFromConfigOrFlag(cmd, cfg)
		client, err := api.NewClient(cfg, apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create API client: %w", err)
		}
		executor.client = client
	}
	return executor, nil
}

// apiKeyFromConfigOrFlag retrieves the API key from --api-key or config
func apiKeyFromConfigOrFlag(cmd *cobra.Command, cfg *config.Config) string {
	if flagValue, err := cmd.Flags().GetString("api-key"); err == nil && flagValue != "" {
		return flagValue
	}
	return cfg.CLI.APIKey.Value()
}

// Execute runs the appropriate handler based on the detected mode.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	switch e.mode {
	case models.ModeJSON:
		if handlers.JSON == nil {
			return fmt.Errorf("JSON mode handler not implemented")
		}
		return handlers.JSON(ctx, cmd, e, args)
	case models.ModeTUI:
		if handlers.TUI == nil {
			return fmt.Errorf("TUI mode handler not implemented")
		}
		return handlers.TUI(ctx, cmd, e, args)
	default:
		return fmt.Errorf("unsupported mode: %s", e.mode)
	}
}

// GetClient returns the configured API client.
func (e *CommandExecutor) GetClient() *api.Client {
	return e.client
}

// GetMode returns the detected execution mode.
func (e *CommandExecutor) GetMode() models.Mode {
	return e.mode
}

// ExecuteCommand combines executor creation and execution.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	executor, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(err, helpers.DetectMode(cmd))
	}
	return HandleCommonErrors(executor.Execute(cmd.Context(), cmd, handlers, args), executor.GetMode())
}

// HandleCommonErrors provides consistent error handling across commands.
func HandleCommonErrors(err error, mode models.Mode) error {
	if err == nil {
		return nil
	}
	if cliErr := categorizeError(err); cliErr != nil {
		helpers.OutputError(cliErr, mode)
		return helpers.MarkReported(cliErr)
	}
	helpers.OutputError(err, mode)
	return helpers.MarkReported(err)
}

// categorizeError converts errors to structured CLI errors
func categorizeError(err error) *helpers.CliError {
	switch {
	case errors.Is(err, context.Canceled):
		return helpers.NewCliError("OPERATION_CANCELED", "Operation was canceled by user")
	case errors.Is(err, context.DeadlineExceeded):
		return helpers.NewCliError("OPERATION_TIMEOUT", "Operation timed out")
	case helpers.IsNetworkError(err):
		return helpers.NewCliError("NETWORK_ERROR", "Network connection failed", err.Error())
	case helpers.IsAuthError(err):
		return helpers.NewCliError("AUTH_ERROR", "Authentication failed", err.Error())
	default:
		return nil
	}
}
