package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalakehq/lakectl/cli/api"
	"github.com/datalakehq/lakectl/cli/cmd"
	"github.com/datalakehq/lakectl/cli/helpers"
	"github.com/datalakehq/lakectl/pkg/config"
)

// ConnectionDetail is the JSON payload of the connection detail view.
type ConnectionDetail struct {
	Connection *api.Connection `json:"connection,omitempty"`
	Scopes     []api.DataScope `json:"scopes"`
	Count      int             `json:"count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
}

// DetailPageJSON outputs the connection and one page of its data scopes.
func DetailPageJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	plugin, connectionID, err := connectionArgs(args)
	if err != nil {
		return err
	}
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	page, pageSize := pagingFlags(ctx, cobraCmd)
	connection, err := client.Connections().Get(ctx, plugin, connectionID)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	scopePage, err := client.Scopes().List(ctx, plugin, connectionID, api.ListScopesOptions{
		Page:       page,
		PageSize:   pageSize,
		Blueprints: true,
	})
	if err != nil {
		return err
	}
	return helpers.OutputJSON(ConnectionDetail{
		Connection: connection,
		Scopes:     scopePage.Scopes,
		Count:      scopePage.Count,
		Page:       page,
		PageSize:   pageSize,
	})
}

// pagingFlags resolves --page and --page-size, falling back to config.
func pagingFlags(ctx context.Context, cobraCmd *cobra.Command) (int, int) {
	page, _ := cobraCmd.Flags().GetInt("page")
	if page <= 0 {
		page = 1
	}
	pageSize, _ := cobraCmd.Flags().GetInt("page-size")
	if pageSize <= 0 {
		pageSize = config.FromContext(ctx).CLI.PageSize
	}
	return page, pageSize
}
