// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/trustlens/trustlens/internal/domain/entities"
)

const (
	// DefaultConfigDir is the directory name for trustlens configuration.
	DefaultConfigDir = ".trustlens"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "trustlens.db"

	// DefaultWarningThreshold flags content whose trust score falls below it.
	DefaultWarningThreshold = 50.0
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Weights          WeightsConfig   `yaml:"weights,omitempty"`
	WarningThreshold float64         `yaml:"warning_threshold,omitempty"`
	Detector         DetectorConfig  `yaml:"detector,omitempty"`
	TextAnalyzer     AnalyzerConfig  `yaml:"text_analyzer,omitempty"`
	Embedder         EmbedderConfig  `yaml:"embedder,omitempty"`
	Qdrant           QdrantConfig    `yaml:"qdrant,omitempty"`
	SQLite           SQLiteConfig    `yaml:"sqlite,omitempty"`
	Resolver         ResolverConfig  `yaml:"resolver,omitempty"`
	Forensics        ForensicsConfig `yaml:"forensics,omitempty"`
}

// WeightsConfig holds the factor weights used by the aggregator.
type WeightsConfig struct {
	SourceVerification float64 `yaml:"source_verification"`
	TechnicalAnalysis  float64 `yaml:"technical_analysis"`
	CommunityRating    float64 `yaml:"community_rating"`
	TemporalFreshness  float64 `yaml:"temporal_freshness"`
	CrossValidation    float64 `yaml:"cross_validation"`
	AIContentAnalysis  float64 `yaml:"ai_content_analysis"`
}

// ToWeightConfig converts to the domain weight configuration.
func (w WeightsConfig) ToWeightConfig() entities.WeightConfig {
	return entities.WeightConfig{
		SourceVerification: w.SourceVerification,
		TechnicalAnalysis:  w.TechnicalAnalysis,
		CommunityRating:    w.CommunityRating,
		TemporalFreshness:  w.TemporalFreshness,
		CrossValidation:    w.CrossValidation,
		AIContentAnalysis:  w.AIContentAnalysis,
	}
}

// FromWeightConfig converts a domain weight configuration for persistence.
func FromWeightConfig(w entities.WeightConfig) WeightsConfig {
	return WeightsConfig{
		SourceVerification: w.SourceVerification,
		TechnicalAnalysis:  w.TechnicalAnalysis,
		CommunityRating:    w.CommunityRating,
		TemporalFreshness:  w.TemporalFreshness,
		CrossValidation:    w.CrossValidation,
		AIContentAnalysis:  w.AIContentAnalysis,
	}
}

// DetectorConfig holds configuration for the AI-content detection provider.
type DetectorConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// AnalyzerConfig holds configuration for the text misinformation analyzer.
type AnalyzerConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// EmbedderConfig holds configuration for the embedding provider.
type EmbedderConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// QdrantConfig holds configuration for the Qdrant corroboration corpus.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite history store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// ResolverConfig holds configuration for the credential registry client.
type ResolverConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	APIKey         string `yaml:"api_key,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// ForensicsConfig holds configuration for the media forensics client.
type ForensicsConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	APIKey         string `yaml:"api_key,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Weights:          FromWeightConfig(entities.DefaultWeights()),
		WarningThreshold: DefaultWarningThreshold,
		Detector: DetectorConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		TextAnalyzer: AnalyzerConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Embedder: EmbedderConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "trustlens_reports",
		},
	}
}

// Load loads configuration from the .trustlens directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'trustlens init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.Detector.APIKey == "" {
			c.Detector.APIKey = key
		}
		if c.TextAnalyzer.APIKey == "" {
			c.TextAnalyzer.APIKey = key
		}
		if c.Embedder.APIKey == "" {
			c.Embedder.APIKey = key
		}
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		if c.Qdrant.APIKey == "" {
			c.Qdrant.APIKey = key
		}
	}
	if key := os.Getenv("TRUSTLENS_RESOLVER_KEY"); key != "" {
		if c.Resolver.APIKey == "" {
			c.Resolver.APIKey = key
		}
	}
	if key := os.Getenv("TRUSTLENS_FORENSICS_KEY"); key != "" {
		if c.Forensics.APIKey == "" {
			c.Forensics.APIKey = key
		}
	}
}

// ConfigDir returns the path to the .trustlens config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// SQLitePath returns the SQLite database path, honoring any configured
// override.
func (c *Config) SQLitePath(basePath string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
}

// Exists checks if a trustlens config exists in the given path.
func Exists(basePath string) bool {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
	_, err := os.Stat(configFile)
	return err == nil
}
