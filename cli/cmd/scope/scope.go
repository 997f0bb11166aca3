package scope

import (
	"github.com/spf13/cobra"

	cliCmd "github.com/datalakehq/lakectl/cli/cmd"
	"github.com/datalakehq/lakectl/cli/cmd/handlers"
)

// Cmd creates the scope command group.
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Manage the data scopes of a connection",
		Long:  "List, add, remove, and configure the data scopes collected under a connection.",
	}
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(AddCmd())
	cmd.AddCommand(RemoveCmd())
	cmd.AddCommand(AssociateCmd())
	return cmd
}

// ListCmd creates the scope list command. In TUI mode it opens the
// connection detail page.
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <plugin> <connection-id>",
		Short: "List the data scopes of a connection",
		Example: `  lakectl scope list github 1
  lakectl scope list github 1 --page 2 --blueprints`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return cliCmd.ExecuteCommand(c, cliCmd.ExecutorOptions{RequireClient: true}, cliCmd.ModeHandlers{
				JSON: handlers.ScopeListJSON,
				TUI:  handlers.DetailPageTUI,
			}, args)
		},
	}
	cmd.Flags().Int("page", 1, "Page of data scopes to list")
	cmd.Flags().Int("page-size", 0, "Number of data scopes per page")
	cmd.Flags().Bool("blueprints", true, "Include the blueprints using each scope")
	return cmd
}

// AddCmd creates the scope add command.
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <plugin> <connection-id> [scope-id...]",
		Short: "Add data scopes to a connection",
		Long: `Add data scopes from the plugin upstream to the connection. Without scope
ids an interactive picker shows the available scopes; already-added scopes
cannot be picked again.`,
		Example: `  lakectl scope add github 1
  lakectl scope add github 1 my-org/repo-a my-org/repo-b`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return cliCmd.ExecuteCommand(c, cliCmd.ExecutorOptions{RequireClient: true}, cliCmd.ModeHandlers{
				JSON: handlers.ScopeAddJSON,
				TUI:  handlers.ScopeAddTUI,
			}, args)
		},
	}
	return cmd
}

// RemoveCmd creates the scope remove command.
func RemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <plugin> <connection-id> <scope-id>",
		Short: "Remove a data scope or clear its historical data",
		Long: `Remove a data scope and everything collected under it. With --only-data
the scope definition stays and only the collected historical data is
cleared.`,
		Example: `  lakectl scope remove github 1 my-org/repo-a
  lakectl scope remove github 1 my-org/repo-a --only-data`,
		Args: cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			return cliCmd.ExecuteCommand(c, cliCmd.ExecutorOptions{RequireClient: true}, cliCmd.ModeHandlers{
				JSON: handlers.ScopeRemoveJSON,
				TUI:  handlers.ScopeRemoveTUI,
			}, args)
		},
	}
	cmd.Flags().Bool("only-data", false, "Keep the scope and clear only its historical data")
	cmd.Flags().Bool("force", false, "Skip the confirmation prompt")
	return cmd
}

// AssociateCmd creates the scope associate command.
func AssociateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "associate <plugin> <connection-id> <scope-id...>",
		Short: "Associate a scope config with data scopes",
		Long: `Associate a scope config with one or more data scopes of the connection.
Pass --scope-config with a config id, or "none" to clear the association.
Without the flag an interactive select lists the available configs.

After changing the association, re-run data collection and transformation
for the change to take effect.`,
		Example: `  lakectl scope associate github 1 my-org/repo-a --scope-config 3
  lakectl scope associate github 1 my-org/repo-a my-org/repo-b --scope-config none`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			return cliCmd.ExecuteCommand(c, cliCmd.ExecutorOptions{RequireClient: true}, cliCmd.ModeHandlers{
				JSON: handlers.AssociateJSON,
				TUI:  handlers.AssociateTUI,
			}, args)
		},
	}
	cmd.Flags().String("scope-config", "", "Scope config id to associate, or \"none\" to clear")
	return cmd
}
