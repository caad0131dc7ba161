package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trustlens/trustlens/internal/application/handlers"
	"github.com/trustlens/trustlens/internal/domain/ports"
	"github.com/trustlens/trustlens/internal/domain/services"
	detector "github.com/trustlens/trustlens/internal/infrastructure/aidetect/openai"
	"github.com/trustlens/trustlens/internal/infrastructure/config"
	"github.com/trustlens/trustlens/internal/infrastructure/credential/registry"
	embedder "github.com/trustlens/trustlens/internal/infrastructure/embedder/openai"
	"github.com/trustlens/trustlens/internal/infrastructure/mediaanalysis/forensics"
	"github.com/trustlens/trustlens/internal/infrastructure/relationaldb/sqlite"
	textanalysis "github.com/trustlens/trustlens/internal/infrastructure/textanalysis/openai"
	"github.com/trustlens/trustlens/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	VerifyHandler  *handlers.VerifyHandler
	HistoryHandler *handlers.HistoryHandler
	WeightsHandler *handlers.WeightsHandler
	ImportHandler  *handlers.ImportHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	store    *sqlite.Repository
	vectorDB *qdrant.Repository
	corpus   *services.CorpusService
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level
// components. Signal providers are optional: a provider whose configuration
// is incomplete is left out and its signal omitted from verification.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.SQLitePath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	aggregator, err := services.NewAggregator(cfg.Weights.ToWeightConfig())
	if err != nil {
		return fmt.Errorf("configuring aggregator: %w", err)
	}

	var credentials ports.CredentialProvider
	if cfg.Resolver.BaseURL != "" {
		credentials, err = registry.NewClient(cfg.Resolver)
		if err != nil {
			return fmt.Errorf("creating credential client: %w", err)
		}
	}

	var media ports.MediaAnalyzer
	if cfg.Forensics.BaseURL != "" {
		media, err = forensics.NewClient(cfg.Forensics)
		if err != nil {
			return fmt.Errorf("creating forensics client: %w", err)
		}
	}

	var text ports.TextAnalyzer
	if cfg.TextAnalyzer.APIKey != "" {
		text, err = textanalysis.NewClient(cfg.TextAnalyzer)
		if err != nil {
			return fmt.Errorf("creating text analysis client: %w", err)
		}
	}

	var aiDetector ports.AIContentDetector
	if cfg.Detector.APIKey != "" {
		aiDetector, err = detector.NewClient(cfg.Detector)
		if err != nil {
			return fmt.Errorf("creating detection client: %w", err)
		}
	}

	var vectorDB *qdrant.Repository
	var crossValidator ports.CrossValidator
	var corpus *services.CorpusService
	if cfg.Embedder.APIKey != "" {
		emb, err := embedder.NewEmbedder(cfg.Embedder)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		vectorDB, err = qdrant.NewRepository(cfg.Qdrant)
		if err != nil {
			return fmt.Errorf("creating qdrant repository: %w", err)
		}
		defer vectorDB.Close()

		crossValidator = services.NewCrossValidationService(emb, vectorDB)
		corpus = services.NewCorpusService(emb, vectorDB)
	}

	verificationService := services.NewVerificationService(
		aggregator, credentials, media, text, crossValidator, aiDetector, store,
	)

	deps := &internalDeps{
		Deps: Deps{
			Config:         cfg,
			VerifyHandler:  handlers.NewVerifyHandler(verificationService),
			HistoryHandler: handlers.NewHistoryHandler(verificationService),
			WeightsHandler: handlers.NewWeightsHandler(aggregator, cfg, cwd),
		},
		store:    store,
		vectorDB: vectorDB,
		corpus:   corpus,
	}
	if corpus != nil {
		deps.ImportHandler = handlers.NewImportHandler(corpus)
	}

	return fn(deps)
}

// withImportHandler provides the import handler for corpus commands. It
// fails early when the embedder is not configured.
func withImportHandler(fn func(*handlers.ImportHandler, *services.CorpusService) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		if d.ImportHandler == nil {
			return fmt.Errorf("corpus indexing requires an embedder API key (set OPENAI_API_KEY or embedder.api_key)")
		}
		return fn(d.ImportHandler, d.corpus)
	})
}
