package api

import (
	"context"
	"fmt"
)

// ConnectionService reads and deletes data connections.
type ConnectionService interface {
	Get(ctx context.Context, plugin string, connectionID int64) (*Connection, error)
	Remove(ctx context.Context, plugin string, connectionID int64) error
}

type connectionService struct {
	client *Client
}

func (s *connectionService) Get(ctx context.Context, plugin string, connectionID int64) (*Connection, error) {
	var conn Connection
	path := fmt.Sprintf("/plugins/%s/connections/%d", plugin, connectionID)
	if err := s.client.doRequest(ctx, "GET", path, nil, &conn); err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	conn.Plugin = plugin
	return &conn, nil
}

func (s *connectionService) Remove(ctx context.Context, plugin string, connectionID int64) error {
	path := fmt.Sprintf("/plugins/%s/connections/%d", plugin, connectionID)
	return s.client.doRequest(ctx, "DELETE", path, nil, nil)
}
