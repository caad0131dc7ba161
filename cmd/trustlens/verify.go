package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trustlens/trustlens/internal/application/handlers"
	"github.com/trustlens/trustlens/internal/domain/entities"
)

func newVerifyCmd() *cobra.Command {
	var (
		text     string
		textFile string
		mediaURL string
		skipAI   bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "verify <content-url>",
		Short: "Verify a content URL and print its trust assessment",
		Long:  "Resolves all configured signals for the content URL, computes the weighted trust score and stores the result in history.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if text != "" && textFile != "" {
				return fmt.Errorf("--text and --text-file are mutually exclusive")
			}
			if textFile != "" {
				data, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("reading text file: %w", err)
				}
				text = string(data)
			}
			return runVerify(cmd, args[0], handlers.VerifyOptions{
				Text:     text,
				MediaURL: mediaURL,
				SkipAI:   skipAI,
			}, asJSON)
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Content text to analyze")
	cmd.Flags().StringVar(&textFile, "text-file", "", "Read content text from a file")
	cmd.Flags().StringVarP(&mediaURL, "media", "m", "", "Media URL to analyze")
	cmd.Flags().BoolVar(&skipAI, "skip-ai", false, "Skip AI-content detection")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func runVerify(cmd *cobra.Command, contentURL string, opts handlers.VerifyOptions, asJSON bool) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		result, err := d.VerifyHandler.Handle(ctx, contentURL, opts)
		if err != nil {
			return fmt.Errorf("verifying content: %w", err)
		}

		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}

		printResult(result, d.Config.WarningThreshold)
		return nil
	})
}

func printResult(result *entities.VerificationResult, warningThreshold float64) {
	fmt.Printf("URL:         %s\n", result.ContentURL)
	fmt.Printf("Trust score: %.1f / 100\n", result.TrustScore)
	if result.TrustScore < warningThreshold {
		fmt.Printf("Warning:     score below threshold (%.0f)\n", warningThreshold)
	}
	fmt.Printf("Verified at: %s\n\n", result.VerificationTimestamp.Format("2006-01-02 15:04:05"))

	fmt.Println("Factors:")
	for _, f := range result.Factors {
		fmt.Printf("  %-22s %6.1f  (weight %.2f)\n", f.Name, f.Score, f.Weight)
		if f.Details != "" {
			fmt.Printf("    %s\n", f.Details)
		}
	}

	if result.AIContentAnalysis != nil {
		fmt.Printf("\nAI content score: %.1f", result.AIContentAnalysis.Score)
		if result.AIContentAnalysis.Details != "" {
			fmt.Printf(" (%s)", result.AIContentAnalysis.Details)
		}
		fmt.Println()
	}

	if result.CrossValidation != nil {
		fmt.Printf("Corroboration: %d of %d sources\n",
			result.CrossValidation.SourcesCorroborating, result.CrossValidation.SourcesChecked)
	}

	if result.CommunityRating != nil {
		fmt.Printf("Community rating: %.1f\n", *result.CommunityRating)
	}
}
