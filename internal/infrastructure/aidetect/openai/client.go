// Package openai provides an AIContentDetector implementation using OpenAI.
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

const detectionPrompt = `You are an AI-generated content detector. Assess how likely the given content is AI-generated.

Consider stylistic uniformity, templated phrasing, hallucination patterns, and metadata hints in the URL.

Return ONLY a valid JSON object, no other text:
- score: likelihood the content is AI-generated, 0 (certainly human) to 100 (certainly AI)
- content_types: which kinds of content the assessment covers, e.g. ["text"], ["image"], ["text", "image"]
- details: one short sentence explaining the assessment

Example:
Output: {"score": 85, "content_types": ["text"], "details": "Highly uniform sentence structure and templated transitions."}`

// Client implements the AIContentDetector interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI detection client.
func NewClient(cfg config.DetectorConfig) (*Client, error) {
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

// Detect scores the content at the given URL.
func (c *Client) Detect(ctx context.Context, contentURL, text string) (*entities.AIContentAnalysis, error) {
	var input strings.Builder
	fmt.Fprintf(&input, "Content URL: %s\n", contentURL)
	if text != "" {
		fmt.Fprintf(&input, "\nContent text:\n%s\n", text)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: detectionPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input.String(),
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

	var raw rawDetection
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parsing detection JSON: %w (response: %s)", err, content)
	}

	return &entities.AIContentAnalysis{
		Score:        clampScore(raw.Score),
		ContentTypes: raw.ContentTypes,
		Details:      raw.Details,
	}, nil
}

// rawDetection is the JSON structure for detection responses.
type rawDetection struct {
	Score        float64  `json:"score"`
	ContentTypes []string `json:"content_types"`
	Details      string   `json:"details"`
}

// clampScore keeps model output inside the 0..100 scale.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
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
