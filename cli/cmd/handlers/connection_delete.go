package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/datalakehq/lakectl/cli/api"
	"github.com/datalakehq/lakectl/cli/cmd"
	"github.com/datalakehq/lakectl/cli/helpers"
	"github.com/datalakehq/lakectl/cli/tui/components"
	"github.com/datalakehq/lakectl/cli/tui/models"
	"github.com/datalakehq/lakectl/pkg/logger"
)

// ConnectionDeleteJSON deletes a connection in non-interactive mode. A
// conflict surfaces as a structured error listing the blocking references.
func ConnectionDeleteJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	plugin, connectionID, err := connectionArgs(args)
	if err != nil {
		return err
	}
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	if err := client.Connections().Remove(ctx, plugin, connectionID); err != nil {
		if conflict, ok := api.AsConflict(err); ok {
			return conflictCliError(conflict)
		}
		return err
	}
	return helpers.OutputJSON(map[string]any{
		"deleted":      true,
		"plugin":       plugin,
		"connectionId": connectionID,
	})
}

// conflictCliError converts a 409 into a CLI error carrying the names of the
// projects and blueprints that block the deletion.
func conflictCliError(conflict *api.ConflictError) *helpers.CliError {
	return helpers.NewCliError(
		"CONFLICT",
		conflict.Message,
		strings.Join(conflict.References(), ", "),
	)
}

// ConnectionDeleteTUI runs an interactive confirm-then-delete flow.
// --force skips the confirmation.
func ConnectionDeleteTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	plugin, connectionID, err := connectionArgs(args)
	if err != nil {
		return err
	}
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	force, _ := cobraCmd.Flags().GetBool("force")
	log := logger.FromContext(ctx)
	log.Debug("deleting connection", "plugin", plugin, "connection_id", connectionID, "force", force)
	m := newDeleteConnectionModel(ctx, client.Connections(), plugin, connectionID, force)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if model, ok := finalModel.(*deleteConnectionModel); ok {
		if model.Error() != nil {
			return model.Error()
		}
		if model.state == stateDeleteConnCompleted {
			fmt.Fprintln(os.Stdout, msgConnectionDeleted)
		}
	}
	return nil
}

type deleteConnState int

const (
	stateDeleteConnConfirming deleteConnState = iota
	stateDeleteConnDeleting
	stateDeleteConnCompleted
	stateDeleteConnBlocked
	stateDeleteConnCanceled
)

type deleteConnectionModel struct {
	models.BaseModel
	connections  api.ConnectionService
	plugin       string
	connectionID int64
	state        deleteConnState
	conflict     *api.ConflictError
	spinner      spinner.Model
}

func newDeleteConnectionModel(
	ctx context.Context,
	connections api.ConnectionService,
	plugin string,
	connectionID int64,
	force bool,
) *deleteConnectionModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	state := stateDeleteConnConfirming
	if force {
		state = stateDeleteConnDeleting
	}
	return &deleteConnectionModel{
		BaseModel:    models.NewBaseModel(ctx, models.ModeTUI),
		connections:  connections,
		plugin:       plugin,
		connectionID: connectionID,
		state:        state,
		spinner:      s,
	}
}

func (m *deleteConnectionModel) Init() tea.Cmd {
	if m.state == stateDeleteConnDeleting {
		return tea.Batch(m.spinner.Tick, m.performDelete())
	}
	return nil
}

func (m *deleteConnectionModel) performDelete() tea.Cmd {
	ctx, connections, plugin, id := m.Context(), m.connections, m.plugin, m.connectionID
	return func() tea.Msg {
		if err := connections.Remove(ctx, plugin, id); err != nil {
			if conflict, ok := api.AsConflict(err); ok {
				return conflictMsg{failed: dialogDeleteConnectionFailed, conflict: conflict}
			}
			return errMsg{err}
		}
		return connectionRemovedMsg{}
	}
}

func (m *deleteConnectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case stateDeleteConnConfirming:
			switch msg.String() {
			case "y", "Y":
				m.state = stateDeleteConnDeleting
				return m, tea.Batch(m.spinner.Tick, m.performDelete())
			case "n", "N", keyEsc, keyCtrlC:
				m.state = stateDeleteConnCanceled
				m.Quit()
				return m, tea.Quit
			}
		case stateDeleteConnBlocked:
			switch msg.String() {
			case keyEnter, keyEsc, "q", keyCtrlC:
				m.Quit()
				return m, tea.Quit
			}
		default:
			if msg.String() == keyCtrlC {
				m.Quit()
				return m, tea.Quit
			}
		}

	case connectionRemovedMsg:
		m.state = stateDeleteConnCompleted
		m.Quit()
		return m, tea.Quit

	case conflictMsg:
		m.state = stateDeleteConnBlocked
		m.conflict = msg.conflict

	case errMsg:
		m.SetError(msg.err)
		m.Quit()
		return m, tea.Quit

	case spinner.TickMsg:
		if m.state == stateDeleteConnDeleting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *deleteConnectionModel) View() string {
	switch m.state {
	case stateDeleteConnConfirming:
		return components.ConfirmDialog(
			"Delete Connection",
			fmt.Sprintf("You are about to delete connection %s #%d.", m.plugin, m.connectionID),
			"This permanently removes the connection and all data collected under it!",
		) + "\n"
	case stateDeleteConnDeleting:
		return fmt.Sprintf("\n   %s Deleting connection...\n", m.spinner.View())
	case stateDeleteConnBlocked:
		return components.BlockedDialog(
			"This connection can not be deleted",
			m.conflict.Message,
			m.conflict.References(),
		) + "\n"
	}
	return ""
}
