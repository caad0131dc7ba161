// Package openai provides a TextAnalyzer implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/infrastructure/config"
)

const analysisPrompt = `You are a misinformation analyst. Assess how likely the given text contains misinformation.

Look for unverifiable claims, misleading framing, fabricated statistics, and appeals designed to provoke rather than inform.

Return ONLY a valid JSON object, no other text:
- misinformation_probability: 0.0 (certainly accurate) to 1.0 (certainly misinformation)
- confidence: how confident you are in the assessment, 0.0 to 1.0
- indicators: short labels for the signals found, e.g. ["unverifiable claim", "emotive framing"]

Example:
Output: {"misinformation_probability": 0.7, "confidence": 0.8, "indicators": ["fabricated statistic", "misattributed quote"]}`

// Client implements the TextAnalyzer interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI text analysis client.
func NewClient(cfg config.AnalyzerConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Analyze inspects the given text for misinformation signals.
func (c *Client) Analyze(ctx context.Context, text string) (*entities.TextAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text is empty")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: analysisPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	content = cleanJSONResponse(content)

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parsing analysis JSON: %w (response: %s)", err, content)
	}

	return &entities.TextAnalysis{
		MisinformationProbability: clampProbability(raw.MisinformationProbability),
		Confidence:                clampProbability(raw.Confidence),
		Indicators:                raw.Indicators,
	}, nil
}

// rawAnalysis is the JSON structure for analysis responses.
type rawAnalysis struct {
	MisinformationProbability float64  `json:"misinformation_probability"`
	Confidence                float64  `json:"confidence"`
	Indicators                []string `json:"indicators"`
}

// clampProbability keeps model output inside the 0..1 scale.
func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// cleanJSONResponse removes markdown code blocks if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
