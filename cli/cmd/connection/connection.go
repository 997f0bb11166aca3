package connection

import (
	"github.com/spf13/cobra"

	cliCmd "github.com/datalakehq/lakectl/cli/cmd"
	"github.com/datalakehq/lakectl/cli/cmd/handlers"
)

// Cmd creates the connection command group.
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connection",
		Short: "Manage data connections",
		Long:  "Inspect data connections and their data scopes, or delete a connection.",
	}
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(DeleteCmd())
	return cmd
}

// ShowCmd creates the connection show command: the detail page with the
// scope table in TUI mode, a JSON snapshot otherwise.
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <plugin> <connection-id>",
		Short: "Show a connection and its data scopes",
		Long: `Show a connection's detail page: one page of its data scopes with the
projects and scope config of each. In TUI mode this is interactive: select
scopes, associate a scope config, add scopes, clear historical data, delete
scopes, or delete the whole connection.`,
		Example: `  lakectl connection show github 1
  lakectl connection show github 1 --page 2 --page-size 20`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return cliCmd.ExecuteCommand(c, cliCmd.ExecutorOptions{RequireClient: true}, cliCmd.ModeHandlers{
				JSON: handlers.DetailPageJSON,
				TUI:  handlers.DetailPageTUI,
			}, args)
		},
	}
	cmd.Flags().Int("page", 1, "Page of data scopes to show")
	cmd.Flags().Int("page-size", 0, "Number of data scopes per page")
	return cmd
}

// DeleteCmd creates the connection delete command.
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <plugin> <connection-id>",
		Short: "Delete a connection and all its data",
		Long: `Delete a connection. This removes the connection, its data scopes, and
everything collected under them. The deletion is refused while projects or
blueprints still use the connection.`,
		Example: `  lakectl connection delete github 1
  lakectl connection delete github 1 --force`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return cliCmd.ExecuteCommand(c, cliCmd.ExecutorOptions{RequireClient: true}, cliCmd.ModeHandlers{
				JSON: handlers.ConnectionDeleteJSON,
				TUI:  handlers.ConnectionDeleteTUI,
			}, args)
		},
	}
	cmd.Flags().Bool("force", false, "Skip the confirmation prompt")
	return cmd
}
