package api

import (
	"context"
	"fmt"
)

// ScopeConfigService lists the scope configs available on a connection.
type ScopeConfigService interface {
	List(ctx context.Context, plugin string, connectionID int64) ([]ScopeConfig, error)
}

type scopeConfigService struct {
	client *Client
}

func (s *scopeConfigService) List(ctx context.Context, plugin string, connectionID int64) ([]ScopeConfig, error) {
	var configs []ScopeConfig
	path := fmt.Sprintf("/plugins/%s/connections/%d/scope-configs", plugin, connectionID)
	if err := s.client.doRequest(ctx, "GET", path, nil, &configs); err != nil {
		return nil, fmt.Errorf("failed to list scope configs: %w", err)
	}
	return configs, nil
}
