package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/datalakehq/lakectl/pkg/config"
	"github.com/datalakehq/lakectl/pkg/logger"
)

// Client provides unified access to the data-platform admin API.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string

	connections ConnectionService
	scopes      ScopeService
	scopeCfgs   ScopeConfigService
}

// NewClient creates a new API client from configuration.
func NewClient(cfg *config.Config, apiKey string) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	baseURL, err := buildBaseURL(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{
		client:  buildHTTPClient(cfg, baseURL, apiKey),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
	c.connections = &connectionService{client: c}
	c.scopes = &scopeService{client: c}
	c.scopeCfgs = &scopeConfigService{client: c}
	return c, nil
}

// buildBaseURL derives and validates the API base URL.
func buildBaseURL(cfg *config.Config) (string, error) {
	// HTTP for localhost development, HTTPS otherwise
	scheme := "https"
	if cfg.Server.Host == "localhost" || cfg.Server.Host == "127.0.0.1" {
		scheme = "http"
	}
	baseURL := fmt.Sprintf("%s://%s:%d%s", scheme, cfg.Server.Host, cfg.Server.Port, cfg.Server.BasePath)
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("base URL must be absolute with a host, got: %s", baseURL)
	}
	return baseURL, nil
}

// buildHTTPClient creates and configures the HTTP client.
func buildHTTPClient(cfg *config.Config, baseURL, apiKey string) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.CLI.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(3).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}
	client.AddRetryCondition(retryCondition)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})
	if cfg.Runtime.LogLevel == "debug" {
		client.SetDebug(true)
	}
	return client
}

// retryCondition determines if a request should be retried. Mutations on
// this API are idempotent, so retrying transient failures is safe.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// Connections returns the connection service.
func (c *Client) Connections() ConnectionService {
	return c.connections
}

// Scopes returns the data-scope service.
func (c *Client) Scopes() ScopeService {
	return c.scopes
}

// ScopeConfigs returns the scope-config service.
func (c *Client) ScopeConfigs() ScopeConfigService {
	return c.scopeCfgs
}

// doRequest performs a request with context cancellation support and decodes
// failures into the typed error union (ConflictError for 409, APIError for
// everything else).
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	log := logger.FromContext(ctx)
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := decodeErrorResponse(resp); err != nil {
		return err
	}
	log.Debug("API request completed", "method", method, "path", path, "status", resp.StatusCode())
	return nil
}

// decodeErrorResponse maps non-2xx responses to typed errors.
func decodeErrorResponse(resp *resty.Response) error {
	status := resp.StatusCode()
	if status < 400 {
		return nil
	}
	if status == http.StatusConflict {
		conflict := &ConflictError{}
		if err := json.Unmarshal(resp.Body(), conflict); err != nil || conflict.Message == "" && len(conflict.References()) == 0 {
			conflict.Message = resp.String()
		}
		return conflict
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = resp.String()
	}
	return apiErr
}
