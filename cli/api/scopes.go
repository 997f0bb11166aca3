package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ScopeService manages the data scopes of a connection.
type ScopeService interface {
	List(ctx context.Context, plugin string, connectionID int64, opts ListScopesOptions) (*ScopePage, error)
	Get(ctx context.Context, plugin string, connectionID int64, scopeID string) (*DataScope, error)
	Update(ctx context.Context, plugin string, connectionID int64, scopeID string, scope *DataScope) (*DataScope, error)
	Remove(ctx context.Context, plugin string, connectionID int64, scopeID string, onlyData bool) error
	Remote(ctx context.Context, plugin string, connectionID int64, groupID, pageToken string) (*RemoteScopePage, error)
	Add(ctx context.Context, plugin string, connectionID int64, scopes []DataScope) error
}

type scopeService struct {
	client *Client
}

func scopesPath(plugin string, connectionID int64) string {
	return fmt.Sprintf("/plugins/%s/connections/%d/scopes", plugin, connectionID)
}

// scopePath addresses a single scope. Scope ids are plugin-specific strings
// and routinely contain slashes (github repo ids like "my-org/repo-a"), so
// the id must travel as one escaped path segment.
func scopePath(plugin string, connectionID int64, scopeID string) string {
	return scopesPath(plugin, connectionID) + "/" + url.PathEscape(scopeID)
}

func (s *scopeService) List(
	ctx context.Context,
	plugin string,
	connectionID int64,
	opts ListScopesOptions,
) (*ScopePage, error) {
	var page ScopePage
	req := s.client.client.R().SetContext(ctx).SetResult(&page)
	if opts.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		req.SetQueryParam("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Blueprints {
		req.SetQueryParam("blueprints", "true")
	}
	resp, err := req.Get(scopesPath(plugin, connectionID))
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	if err := decodeErrorResponse(resp); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *scopeService) Get(
	ctx context.Context,
	plugin string,
	connectionID int64,
	scopeID string,
) (*DataScope, error) {
	var scope DataScope
	path := scopePath(plugin, connectionID, scopeID)
	if err := s.client.doRequest(ctx, "GET", path, nil, &scope); err != nil {
		return nil, fmt.Errorf("failed to get scope: %w", err)
	}
	return &scope, nil
}

func (s *scopeService) Update(
	ctx context.Context,
	plugin string,
	connectionID int64,
	scopeID string,
	scope *DataScope,
) (*DataScope, error) {
	var updated DataScope
	path := scopePath(plugin, connectionID, scopeID)
	if err := s.client.doRequest(ctx, "PATCH", path, scope, &updated); err != nil {
		return nil, fmt.Errorf("failed to update scope: %w", err)
	}
	return &updated, nil
}

// Remove deletes a scope. With onlyData the scope definition is kept and
// only collected historical data is wiped.
func (s *scopeService) Remove(
	ctx context.Context,
	plugin string,
	connectionID int64,
	scopeID string,
	onlyData bool,
) error {
	path := scopePath(plugin, connectionID, scopeID)
	req := s.client.client.R().
		SetContext(ctx).
		SetQueryParam("delete_data_only", strconv.FormatBool(onlyData))
	resp, err := req.Delete(path)
	if err != nil {
		return fmt.Errorf("failed to remove scope: %w", err)
	}
	return decodeErrorResponse(resp)
}

func (s *scopeService) Remote(
	ctx context.Context,
	plugin string,
	connectionID int64,
	groupID, pageToken string,
) (*RemoteScopePage, error) {
	var page RemoteScopePage
	req := s.client.client.R().SetContext(ctx).SetResult(&page)
	if groupID != "" {
		req.SetQueryParam("groupId", groupID)
	}
	if pageToken != "" {
		req.SetQueryParam("pageToken", pageToken)
	}
	path := fmt.Sprintf("/plugins/%s/connections/%d/remote-scopes", plugin, connectionID)
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote scopes: %w", err)
	}
	if err := decodeErrorResponse(resp); err != nil {
		return nil, err
	}
	return &page, nil
}

// Add registers scopes under the connection as a batch upsert.
func (s *scopeService) Add(ctx context.Context, plugin string, connectionID int64, scopes []DataScope) error {
	body := struct {
		Data []DataScope `json:"data"`
	}{Data: scopes}
	return s.client.doRequest(ctx, "PUT", scopesPath(plugin, connectionID), body, nil)
}
