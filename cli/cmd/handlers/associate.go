package handlers

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/datalakehq/lakectl/cli/api"
	"github.com/datalakehq/lakectl/cli/cmd"
	"github.com/datalakehq/lakectl/cli/helpers"
	"github.com/datalakehq/lakectl/cli/tui/components"
	"github.com/datalakehq/lakectl/pkg/logger"
)

// AssociateJSON attaches a scope config to one or more data scopes. The
// target comes from --scope-config: a numeric id, or "none" to clear the
// association.
func AssociateJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	plugin, connectionID, err := connectionArgs(args)
	if err != nil {
		return err
	}
	scopeIDs := args[2:]
	if len(scopeIDs) == 0 {
		return fmt.Errorf("at least one scope id is required")
	}
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	raw, _ := cobraCmd.Flags().GetString("scope-config")
	configID, ok := parseScopeConfigTarget(raw)
	if !ok {
		return fmt.Errorf("invalid --scope-config value %q: expected a numeric id or %q", raw, api.ScopeConfigNone)
	}
	if err := associateScopeConfig(ctx, client.Scopes(), plugin, connectionID, scopeIDs, configID); err != nil {
		return err
	}
	return helpers.OutputJSON(map[string]any{
		"plugin":        plugin,
		"connectionId":  connectionID,
		"scopeIds":      scopeIDs,
		"scopeConfigId": configID,
		"updated":       len(scopeIDs),
	})
}

// AssociateTUI picks a scope config from an interactive select, then runs
// the same association flow.
func AssociateTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	plugin, connectionID, err := connectionArgs(args)
	if err != nil {
		return err
	}
	scopeIDs := args[2:]
	if len(scopeIDs) == 0 {
		return fmt.Errorf("at least one scope id is required")
	}
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	log := logger.FromContext(ctx)
	var configID *int64
	if raw, _ := cobraCmd.Flags().GetString("scope-config"); raw != "" {
		// An explicit --scope-config skips the interactive picker.
		var ok bool
		configID, ok = parseScopeConfigTarget(raw)
		if !ok {
			return fmt.Errorf("invalid --scope-config value %q: expected a numeric id or %q", raw, api.ScopeConfigNone)
		}
	} else {
		configs, err := client.ScopeConfigs().List(ctx, plugin, connectionID)
		if err != nil {
			return fmt.Errorf("failed to list scope configs: %w", err)
		}
		picked, canceled, err := pickScopeConfig(ctx, configs)
		if err != nil {
			return err
		}
		if canceled {
			log.Debug("scope config selection canceled")
			return nil
		}
		configID = picked
	}
	if err := associateScopeConfig(ctx, client.Scopes(), plugin, connectionID, scopeIDs, configID); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, msgConfigAssociated)
	return nil
}

// pickScopeConfig runs a select form over the available configs plus the
// None option. A nil id means the association gets cleared.
func pickScopeConfig(ctx context.Context, configs []api.ScopeConfig) (*int64, bool, error) {
	const noneValue = int64(0)
	options := make([]huh.Option[int64], 0, len(configs)+1)
	options = append(options, huh.NewOption("None", noneValue))
	for _, c := range configs {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}
	var picked int64
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Scope Config").
				Description("Associate a scope config with the selected data scopes.").
				Options(options...).
				Value(&picked),
		),
	)
	wrapper := components.NewFormWrapper(ctx, form)
	p := tea.NewProgram(wrapper)
	finalModel, err := p.Run()
	if err != nil {
		return nil, false, fmt.Errorf("failed to run TUI: %w", err)
	}
	if model, ok := finalModel.(*components.FormWrapper); ok && model.IsCanceled() {
		return nil, true, nil
	}
	if picked == noneValue {
		return nil, false, nil
	}
	return &picked, false, nil
}
