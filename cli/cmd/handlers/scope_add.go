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

// ScopeAddJSON registers remote scopes under the connection by id. Each id
// must exist upstream and not already be configured.
func ScopeAddJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
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
	candidates, existing, err := scopeCandidates(ctx, client.Scopes(), plugin, connectionID)
	if err != nil {
		return err
	}
	byID := make(map[string]api.RemoteScope, len(candidates))
	for _, r := range candidates {
		byID[r.ID] = r
	}
	picked := make([]api.RemoteScope, 0, len(scopeIDs))
	for _, id := range scopeIDs {
		r, ok := byID[id]
		if !ok {
			return fmt.Errorf("scope %q not found upstream", id)
		}
		if _, configured := existing[id]; configured {
			return fmt.Errorf("scope %q is already added", id)
		}
		picked = append(picked, r)
	}
	if err := addRemoteScopes(ctx, client.Scopes(), plugin, connectionID, picked); err != nil {
		return err
	}
	return helpers.OutputJSON(map[string]any{
		"plugin":       plugin,
		"connectionId": connectionID,
		"added":        len(picked),
		"scopeIds":     scopeIDs,
	})
}

// ScopeAddTUI picks remote scopes from an interactive multi-select, hiding
// the ones already configured, then registers them.
func ScopeAddTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	plugin, connectionID, err := connectionArgs(args)
	if err != nil {
		return err
	}
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	log := logger.FromContext(ctx)
	candidates, existing, err := scopeCandidates(ctx, client.Scopes(), plugin, connectionID)
	if err != nil {
		return err
	}
	available := make([]api.RemoteScope, 0, len(candidates))
	for _, r := range candidates {
		if r.Group {
			continue
		}
		if _, configured := existing[r.ID]; configured {
			continue
		}
		available = append(available, r)
	}
	if len(available) == 0 {
		fmt.Fprintln(os.Stdout, "All available scopes are already added.")
		return nil
	}
	picked, canceled, err := pickRemoteScopes(ctx, available)
	if err != nil {
		return err
	}
	if canceled || len(picked) == 0 {
		log.Debug("scope selection canceled or empty")
		return nil
	}
	if err := addRemoteScopes(ctx, client.Scopes(), plugin, connectionID, picked); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, msgScopesAdded)
	return nil
}

// scopeCandidates fetches the upstream scope candidates together with the
// ids already configured under the connection.
func scopeCandidates(
	ctx context.Context,
	scopes api.ScopeService,
	plugin string,
	connectionID int64,
) ([]api.RemoteScope, map[string]struct{}, error) {
	remote, err := scopes.Remote(ctx, plugin, connectionID, "", "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list remote scopes: %w", err)
	}
	existing, err := configuredScopeIDs(ctx, scopes, plugin, connectionID)
	if err != nil {
		return nil, nil, err
	}
	return remote.Children, existing, nil
}

// addRemoteScopes converts the picked remote scopes and batch-upserts them.
func addRemoteScopes(
	ctx context.Context,
	scopes api.ScopeService,
	plugin string,
	connectionID int64,
	picked []api.RemoteScope,
) error {
	toAdd := make([]api.DataScope, 0, len(picked))
	for _, r := range picked {
		toAdd = append(toAdd, api.DataScope{
			ID:           r.ID,
			Name:         r.Name,
			FullName:     r.FullName,
			ConnectionID: connectionID,
		})
	}
	return scopes.Add(ctx, plugin, connectionID, toAdd)
}

func pickRemoteScopes(ctx context.Context, available []api.RemoteScope) ([]api.RemoteScope, bool, error) {
	options := make([]huh.Option[string], 0, len(available))
	byID := make(map[string]api.RemoteScope, len(available))
	for _, r := range available {
		label := r.Name
		if r.FullName != "" {
			label = r.FullName
		}
		options = append(options, huh.NewOption(label, r.ID))
		byID[r.ID] = r
	}
	var pickedIDs []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Add Data Scopes").
				Description("Select the scopes to add to this connection.").
				Options(options...).
				Value(&pickedIDs),
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
	picked := make([]api.RemoteScope, 0, len(pickedIDs))
	for _, id := range pickedIDs {
		picked = append(picked, byID[id])
	}
	return picked, false, nil
}
