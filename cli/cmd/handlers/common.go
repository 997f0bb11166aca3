package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/datalakehq/lakectl/cli/api"
	"github.com/datalakehq/lakectl/cli/helpers"
)

const (
	keyCtrlC = helpers.KeyCtrlC
	keyEnter = helpers.KeyEnter
	keyEsc   = helpers.KeyEsc
	keySpace = helpers.KeySpace
)

// User-facing outcome messages. Clearing historical data and deleting the
// scope are the same endpoint with a different flag, so the wording is the
// only visible difference.
const (
	msgConnectionDeleted = "Connection deleted."
	msgScopeDeleted      = "Data scope deleted."
	msgScopeDataCleared  = "Historical data cleared."
	msgScopesAdded       = "Data scopes added."
	msgConfigAssociated  = "Scope config updated. Re-run collection and transformation for the changes to take effect."
	msgOperationFailed   = "Operation failed."
)

// connectionArgs extracts the plugin name and connection id from positional
// command arguments.
func connectionArgs(args []string) (string, int64, error) {
	if len(args) < 2 {
		return "", 0, fmt.Errorf("plugin and connection id are required")
	}
	plugin := strings.TrimSpace(args[0])
	if plugin == "" {
		return "", 0, fmt.Errorf("plugin name must not be empty")
	}
	connectionID, err := helpers.ParseConnectionID(args[1])
	if err != nil {
		return "", 0, err
	}
	return plugin, connectionID, nil
}

// configuredScopeIDs walks every page of the connection's scopes and returns
// the full id set.
func configuredScopeIDs(
	ctx context.Context,
	scopes api.ScopeService,
	plugin string,
	connectionID int64,
) (map[string]struct{}, error) {
	const pageSize = 100
	ids := make(map[string]struct{})
	for page := 1; ; page++ {
		result, err := scopes.List(ctx, plugin, connectionID, api.ListScopesOptions{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		for i := range result.Scopes {
			ids[result.Scopes[i].ID] = struct{}{}
		}
		if len(result.Scopes) < pageSize || len(ids) >= result.Count {
			return ids, nil
		}
	}
}

// errMsg is a common message type for TUI error handling
type errMsg struct {
	err error
}

// parseScopeConfigTarget resolves the --scope-config argument: a numeric id,
// or the sentinel "none" which clears the association.
func parseScopeConfigTarget(raw string) (*int64, bool) {
	if strings.EqualFold(strings.TrimSpace(raw), api.ScopeConfigNone) {
		return nil, true
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

// associateScopeConfig performs the read-modify-write for every scope id,
// overwriting scopeConfigId with configID (nil clears it). Writes run
// concurrently; the first failure fails the whole operation and there is no
// rollback for writes that already landed.
func associateScopeConfig(
	ctx context.Context,
	scopes api.ScopeService,
	plugin string,
	connectionID int64,
	scopeIDs []string,
	configID *int64,
) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, scopeID := range scopeIDs {
		g.Go(func() error {
			scope, err := scopes.Get(ctx, plugin, connectionID, scopeID)
			if err != nil {
				return err
			}
			scope.ScopeConfigID = configID
			_, err = scopes.Update(ctx, plugin, connectionID, scopeID, scope)
			return err
		})
	}
	return g.Wait()
}
