package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalakehq/lakectl/cli/api"
	"github.com/datalakehq/lakectl/cli/cmd"
	"github.com/datalakehq/lakectl/cli/helpers"
)

// ScopeListJSON outputs one page of the connection's data scopes.
func ScopeListJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	plugin, connectionID, err := connectionArgs(args)
	if err != nil {
		return err
	}
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	page, pageSize := pagingFlags(ctx, cobraCmd)
	blueprints, _ := cobraCmd.Flags().GetBool("blueprints")
	scopePage, err := client.Scopes().List(ctx, plugin, connectionID, api.ListScopesOptions{
		Page:       page,
		PageSize:   pageSize,
		Blueprints: blueprints,
	})
	if err != nil {
		return err
	}
	return helpers.OutputJSON(map[string]any{
		"scopes":   scopePage.Scopes,
		"count":    scopePage.Count,
		"page":     page,
		"pageSize": pageSize,
	})
}
