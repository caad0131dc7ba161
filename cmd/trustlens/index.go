package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustlens/trustlens/internal/application/handlers"
	"github.com/trustlens/trustlens/internal/domain/services"
)

func newIndexCmd() *cobra.Command {
	var (
		format string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "index <file>",
		Short: "Import source reports into the corroboration corpus",
		Long:  "Parses source reports from a JSON or CSV file, embeds their summaries and stores them in the corpus used for cross-validation.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "" && format != "auto" && !isValidFormat(format) {
				return fmt.Errorf("invalid format %q, valid formats: %v", format, validFormats)
			}
			return runIndex(cmd, args[0], handlers.ImportOptions{
				Format: format,
				DryRun: dryRun,
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "File format (json, csv, or auto)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and embed without saving")

	return cmd
}

func runIndex(cmd *cobra.Command, filePath string, opts handlers.ImportOptions) error {
	ctx := cmd.Context()

	return withImportHandler(func(handler *handlers.ImportHandler, corpus *services.CorpusService) error {
		result, err := handler.Handle(ctx, filePath, opts)
		if err != nil {
			return fmt.Errorf("importing reports: %w", err)
		}

		if opts.DryRun {
			fmt.Printf("Dry run: %d reports would be imported\n", result.Imported)
		} else {
			fmt.Printf("Imported %d reports\n", result.Imported)
		}

		if len(result.Errors) > 0 {
			fmt.Printf("Skipped %d invalid reports:\n", len(result.Errors))
			for _, importErr := range result.Errors {
				fmt.Printf("  line %d, %s: %s\n", importErr.Line, importErr.Field, importErr.Message)
			}
		}

		if !opts.DryRun {
			count, err := corpus.Count(ctx)
			if err == nil {
				fmt.Printf("Corpus now holds %d reports\n", count)
			}
		}

		return nil
	})
}

func isValidFormat(format string) bool {
	for _, valid := range validFormats {
		if format == valid {
			return true
		}
	}
	return false
}
