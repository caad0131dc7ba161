package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trustlens/trustlens/internal/infrastructure/config"
	embedder "github.com/trustlens/trustlens/internal/infrastructure/embedder/openai"
	"github.com/trustlens/trustlens/internal/infrastructure/relationaldb/sqlite"
	"github.com/trustlens/trustlens/internal/infrastructure/vectordb/qdrant"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new trustlens workspace",
		Long:  "Creates a .trustlens directory with default configuration, the local history database, and the Qdrant corpus collection.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("trustlens already initialized in %s", cwd)
	}

	if err := config.WriteDefault(cwd); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	fmt.Printf("Created %s\n", config.ConfigFilePath(cwd))

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
		return fmt.Errorf("creating history schema: %w", err)
	}
	fmt.Printf("Created history database: %s\n", store.Path())

	repo, err := qdrant.NewRepository(cfg.Qdrant)
	if err != nil {
		return fmt.Errorf("connecting to qdrant: %w", err)
	}
	defer repo.Close()

	// The corpus is optional; verification works without it.
	if err := repo.EnsureCollection(ctx, embedder.VectorSize); err != nil {
		fmt.Printf("Warning: Qdrant collection not created (%v); cross-validation stays disabled until it is\n", err)
	} else {
		fmt.Printf("Created Qdrant collection: %s\n", cfg.Qdrant.Collection)
	}

	fmt.Println("Trustlens initialized successfully!")

	return nil
}
