package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/trustlens/trustlens/internal/domain/services"
	"github.com/trustlens/trustlens/internal/infrastructure/parsers"
)

// ImportHandler handles importing source reports into the corroboration
// corpus.
type ImportHandler struct {
	service *services.CorpusService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.CorpusService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format string // "json", "csv", or "auto"
	DryRun bool   // Validate and embed without saving
}

// Handle imports source reports from a file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*services.ImportResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	rawReports, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if len(rawReports) == 0 {
		return &services.ImportResult{}, nil
	}

	return h.service.Import(ctx, rawReports, opts.DryRun)
}
