// Package registry provides a CredentialProvider implementation backed by a
// content credential registry HTTP service.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/infrastructure/config"
)

const defaultTimeout = 15 * time.Second

// Client implements the CredentialProvider interface against a registry
// service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new credential registry client.
func NewClient(cfg config.ResolverConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("resolver base URL is required")
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type credentialResponse struct {
	Status           string     `json:"status"`
	IssuanceDate     *time.Time `json:"issuance_date,omitempty"`
	RevocationStatus string     `json:"revocation_status,omitempty"`
}

// Verify resolves the credential attached to the given content URL.
func (c *Client) Verify(ctx context.Context, contentURL string) (entities.CredentialVerificationResult, error) {
	if contentURL == "" {
		return entities.CredentialVerificationResult{}, errors.New("content URL is empty")
	}

	endpoint := fmt.Sprintf("%s/v1/credentials?url=%s", c.baseURL, url.QueryEscape(contentURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.CredentialVerificationResult{}, fmt.Errorf("building credential request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.CredentialVerificationResult{}, fmt.Errorf("calling credential registry: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entities.CredentialVerificationResult{}, fmt.Errorf("reading registry response: %w", err)
	}

	// A content URL with no registered credential is a normal outcome,
	// not a transport failure.
	if resp.StatusCode == http.StatusNotFound {
		return entities.CredentialVerificationResult{Status: entities.StatusUnknown}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return entities.CredentialVerificationResult{}, fmt.Errorf("credential registry returned status %d", resp.StatusCode)
	}

	var result credentialResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return entities.CredentialVerificationResult{}, fmt.Errorf("parsing registry response: %w", err)
	}

	return entities.CredentialVerificationResult{
		Status:           entities.ParseCredentialStatus(result.Status),
		IssuanceDate:     result.IssuanceDate,
		RevocationStatus: result.RevocationStatus,
	}, nil
}
