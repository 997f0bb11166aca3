package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalakehq/lakectl/cli/cmd/connection"
	"github.com/datalakehq/lakectl/cli/cmd/scope"
	"github.com/datalakehq/lakectl/pkg/config"
	"github.com/datalakehq/lakectl/pkg/logger"
	"github.com/datalakehq/lakectl/pkg/version"
)

// RootCmd creates the lakectl root command.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lakectl",
		Short: "Manage data connections and their data scopes",
		Long: `lakectl is a terminal client for the data-platform admin API. It manages
data connections, their data scopes, and scope config associations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupGlobalConfig(cmd)
		},
	}

	addGlobalFlags(root)

	root.AddCommand(
		connection.Cmd(),
		scope.Cmd(),
		versionCmd(),
	)

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			info := version.Get()
			fmt.Printf("lakectl version %s\n", info.Version)
			fmt.Printf("commit: %s\n", info.CommitHash)
			fmt.Printf("built: %s\n", info.BuildDate)
		},
	}
}

// addGlobalFlags registers the flags shared by every command.
func addGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().String("host", "", "API server host")
	root.PersistentFlags().Int("port", 0, "API server port")
	root.PersistentFlags().String("base-path", "", "API base path")
	root.PersistentFlags().String("api-key", "", "API key for authentication")
	root.PersistentFlags().String("format", "", "Output format: auto, json, or tui")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// setupGlobalConfig loads configuration, applies flag overrides, sets up the
// logger, and installs the config manager into the command context.
func setupGlobalConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}
	logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, false)
	manager := config.NewManager(cfg)
	cmd.SetContext(config.ContextWithManager(ctx, manager))
	return nil
}

// applyFlagOverrides lets explicit CLI flags win over environment config.
// Flags are read from the root's persistent set, which is shared with every
// subcommand's parsed flag set.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("base-path") {
		cfg.Server.BasePath, _ = flags.GetString("base-path")
	}
	if flags.Changed("api-key") {
		apiKey, _ := flags.GetString("api-key")
		cfg.CLI.APIKey = config.SensitiveString(apiKey)
	}
	if flags.Changed("format") {
		format, _ := flags.GetString("format")
		switch format {
		case "auto", "json", "tui":
			cfg.CLI.DefaultFormat = format
		default:
			return fmt.Errorf("invalid --format value %q: expected auto, json, or tui", format)
		}
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Runtime.LogLevel = "debug"
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		cfg.CLI.NoColor = true
	}
	return nil
}
