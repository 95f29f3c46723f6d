package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tel9980/KVideo/internal/shared"
)

const defaultBaseURL = "http://localhost:8090"

// configPath is the endpoint shared by config fetch (GET) and password
// validation (POST).
const configPath = "/api/config"

// ConfigClient implements [ConfigAPI] against the hosted aggregator.
type ConfigClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewConfigClient creates a config client for the given aggregator base URL.
func NewConfigClient(baseURL string, client *http.Client) *ConfigClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ConfigClient{
		baseURL:    baseURL,
		httpClient: client,
	}
}

var _ ConfigAPI = (*ConfigClient)(nil)

// FetchConfig retrieves the authoritative gate configuration.
func (c *ConfigClient) FetchConfig(ctx context.Context) (*RemoteConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+configPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrConfigRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrConfigRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var config RemoteConfig
	if err := json.Unmarshal(body, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrConfigRequest, err)
	}

	return &config, nil
}

// ValidatePassword submits a candidate password for server-side validation.
// Any transport or decode failure is an error; the gate treats those the same
// as a rejection.
func (c *ConfigClient) ValidatePassword(ctx context.Context, password string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return false, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+configPath, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrConfigRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("%w: status %d", shared.ErrConfigRequest, resp.StatusCode)
	}

	var result struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrConfigRequest, err)
	}

	return result.Valid, nil
}
