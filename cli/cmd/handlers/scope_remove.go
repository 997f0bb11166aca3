package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/datalakehq/lakectl/cli/api"
	"github.com/datalakehq/lakectl/cli/cmd"
	"github.com/datalakehq/lakectl/cli/helpers"
	"github.com/datalakehq/lakectl/cli/tui/components"
	"github.com/datalakehq/lakectl/cli/tui/models"
)

// scopeArgs extracts plugin, connection id, and scope id from positional
// arguments.
func scopeArgs(args []string) (string, int64, string, error) {
	plugin, connectionID, err := connectionArgs(args)
	if err != nil {
		return "", 0, "", err
	}
	if len(args) < 3 || args[2] == "" {
		return "", 0, "", fmt.Errorf("scope id is required")
	}
	return plugin, connectionID, args[2], nil
}

// ScopeRemoveJSON deletes a data scope, or clears only its historical data
// when --only-data is set.
func ScopeRemoveJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	plugin, connectionID, scopeID, err := scopeArgs(args)
	if err != nil {
		return err
	}
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	onlyData, _ := cobraCmd.Flags().GetBool("only-data")
	if err := client.Scopes().Remove(ctx, plugin, connectionID, scopeID, onlyData); err != nil {
		if conflict, ok := api.AsConflict(err); ok {
			return conflictCliError(conflict)
		}
		return err
	}
	return helpers.OutputJSON(map[string]any{
		"plugin":       plugin,
		"connectionId": connectionID,
		"scopeId":      scopeID,
		"deleted":      !onlyData,
		"dataCleared":  true,
	})
}

// ScopeRemoveTUI runs an interactive confirm-then-remove flow for a scope.
func ScopeRemoveTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	plugin, connectionID, scopeID, err := scopeArgs(args)
	if err != nil {
		return err
	}
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	onlyData, _ := cobraCmd.Flags().GetBool("only-data")
	force, _ := cobraCmd.Flags().GetBool("force")
	m := newRemoveScopeModel(ctx, client.Scopes(), plugin, connectionID, scopeID, onlyData, force)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if model, ok := finalModel.(*removeScopeModel); ok {
		if model.Error() != nil {
			return model.Error()
		}
		if model.state == stateRemoveScopeCompleted {
			if onlyData {
				fmt.Fprintln(os.Stdout, msgScopeDataCleared)
			} else {
				fmt.Fprintln(os.Stdout, msgScopeDeleted)
			}
		}
	}
	return nil
}

type removeScopeState int

const (
	stateRemoveScopeConfirming removeScopeState = iota
	stateRemoveScopeRemoving
	stateRemoveScopeCompleted
	stateRemoveScopeBlocked
	stateRemoveScopeCanceled
)

type removeScopeModel struct {
	models.BaseModel
	scopes       api.ScopeService
	plugin       string
	connectionID int64
	scopeID      string
	onlyData     bool
	state        removeScopeState
	conflict     *api.ConflictError
	spinner      spinner.Model
}

func newRemoveScopeModel(
	ctx context.Context,
	scopes api.ScopeService,
	plugin string,
	connectionID int64,
	scopeID string,
	onlyData bool,
	force bool,
) *removeScopeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	state := stateRemoveScopeConfirming
	if force {
		state = stateRemoveScopeRemoving
	}
	return &removeScopeModel{
		BaseModel:    models.NewBaseModel(ctx, models.ModeTUI),
		scopes:       scopes,
		plugin:       plugin,
		connectionID: connectionID,
		scopeID:      scopeID,
		onlyData:     onlyData,
		state:        state,
		spinner:      s,
	}
}

func (m *removeScopeModel) Init() tea.Cmd {
	if m.state == stateRemoveScopeRemoving {
		return tea.Batch(m.spinner.Tick, m.performRemove())
	}
	return nil
}

func (m *removeScopeModel) performRemove() tea.Cmd {
	ctx, scopes := m.Context(), m.scopes
	plugin, id, scopeID, onlyData := m.plugin, m.connectionID, m.scopeID, m.onlyData
	return func() tea.Msg {
		if err := scopes.Remove(ctx, plugin, id, scopeID, onlyData); err != nil {
			if conflict, ok := api.AsConflict(err); ok {
				return conflictMsg{failed: dialogDeleteScopeFailed, conflict: conflict}
			}
			return errMsg{err}
		}
		return scopeRemovedMsg{onlyData: onlyData}
	}
}

func (m *removeScopeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case stateRemoveScopeConfirming:
			switch msg.String() {
			case "y", "Y":
				m.state = stateRemoveScopeRemoving
				return m, tea.Batch(m.spinner.Tick, m.performRemove())
			case "n", "N", keyEsc, keyCtrlC:
				m.state = stateRemoveScopeCanceled
				m.Quit()
				return m, tea.Quit
			}
		case stateRemoveScopeBlocked:
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

	case scopeRemovedMsg:
		m.state = stateRemoveScopeCompleted
		m.Quit()
		return m, tea.Quit

	case conflictMsg:
		m.state = stateRemoveScopeBlocked
		m.conflict = msg.conflict

	case errMsg:
		m.SetError(msg.err)
		m.Quit()
		return m, tea.Quit

	case spinner.TickMsg:
		if m.state == stateRemoveScopeRemoving {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *removeScopeModel) View() string {
	switch m.state {
	case stateRemoveScopeConfirming:
		if m.onlyData {
			return components.ConfirmDialog(
				"Clear Historical Data",
				fmt.Sprintf("You are about to clear all historical data of scope %s.", m.scopeID),
				"",
			) + "\n"
		}
		return components.ConfirmDialog(
			"Delete Data Scope",
			fmt.Sprintf("You are about to delete scope %s and its data.", m.scopeID),
			"This action cannot be undone!",
		) + "\n"
	case stateRemoveScopeRemoving:
		if m.onlyData {
			return fmt.Sprintf("\n   %s Clearing historical data...\n", m.spinner.View())
		}
		return fmt.Sprintf("\n   %s Deleting data scope...\n", m.spinner.View())
	case stateRemoveScopeBlocked:
		return components.BlockedDialog(
			"This data scope can not be deleted",
			m.conflict.Message,
			m.conflict.References(),
		) + "\n"
	}
	return ""
}
