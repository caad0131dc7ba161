// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/trustlens/trustlens/internal/domain/entities"
)

// CredentialProvider is a mock implementation of ports.CredentialProvider.
type CredentialProvider struct {
	Result entities.CredentialVerificationResult
	Err    error

	Calls int
}

// Verify returns the configured result or error.
func (m *CredentialProvider) Verify(ctx context.Context, contentURL string) (entities.CredentialVerificationResult, error) {
	m.Calls++
	if m.Err != nil {
		return entities.CredentialVerificationResult{}, m.Err
	}
	return m.Result, nil
}

// MediaAnalyzer is a mock implementation of ports.MediaAnalyzer.
type MediaAnalyzer struct {
	Analysis *entities.MediaAnalysis
	Err      error
}

// Analyze returns the configured analysis or error.
func (m *MediaAnalyzer) Analyze(ctx context.Context, mediaURL string) (*entities.MediaAnalysis, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Analysis, nil
}

// TextAnalyzer is a mock implementation of ports.TextAnalyzer.
type TextAnalyzer struct {
	Analysis *entities.TextAnalysis
	Err      error
}

// Analyze returns the configured analysis or error.
func (m *TextAnalyzer) Analyze(ctx context.Context, text string) (*entities.TextAnalysis, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Analysis, nil
}

// AIContentDetector is a mock implementation of ports.AIContentDetector.
type AIContentDetector struct {
	Analysis *entities.AIContentAnalysis
	Err      error

	Calls int
}

// Detect returns the configured analysis or error.
func (m *AIContentDetector) Detect(ctx context.Context, contentURL, text string) (*entities.AIContentAnalysis, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Analysis, nil
}

// CrossValidator is a mock implementation of ports.CrossValidator.
type CrossValidator struct {
	Tally *entities.CrossValidation
	Err   error
}

// Corroborate returns the configured tally or error.
func (m *CrossValidator) Corroborate(ctx context.Context, claim string) (*entities.CrossValidation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tally, nil
}
