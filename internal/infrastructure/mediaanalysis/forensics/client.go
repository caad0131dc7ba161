// Package forensics provides a MediaAnalyzer implementation backed by a
// media forensics HTTP service.
package forensics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/infrastructure/config"
)

const defaultTimeout = 30 * time.Second

// Client implements the MediaAnalyzer interface against a forensics service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new forensics client.
func NewClient(cfg config.ForensicsConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("forensics base URL is required")
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

type analyzeRequest struct {
	MediaURL string `json:"media_url"`
}

type analyzeResponse struct {
	ManipulationProbability float64 `json:"manipulation_probability"`
	Confidence              float64 `json:"confidence"`
	ManipulationType        string  `json:"manipulation_type,omitempty"`
}

// Analyze submits the media URL to the forensics service.
func (c *Client) Analyze(ctx context.Context, mediaURL string) (*entities.MediaAnalysis, error) {
	if mediaURL == "" {
		return nil, errors.New("media URL is empty")
	}

	payload, err := json.Marshal(analyzeRequest{MediaURL: mediaURL})
	if err != nil {
		return nil, fmt.Errorf("marshaling analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling forensics service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading forensics response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forensics service returned status %d", resp.StatusCode)
	}

	var result analyzeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing forensics response: %w", err)
	}

	return &entities.MediaAnalysis{
		ManipulationProbability: clampProbability(result.ManipulationProbability),
		Confidence:              clampProbability(result.Confidence),
		ManipulationType:        result.ManipulationType,
	}, nil
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
