package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		offset int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past verification results",
		Long:  "Lists stored verification results, most recent first. History is bounded; the oldest results are evicted as new ones arrive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit, offset, asJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultHistoryLimit, "Maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of results to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, limit, offset int, asJSON bool) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		results, err := d.HistoryHandler.Handle(ctx, limit, offset)
		if err != nil {
			return fmt.Errorf("listing history: %w", err)
		}

		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(results)
		}

		if len(results) == 0 {
			fmt.Println("No verification results stored.")
			return nil
		}

		fmt.Printf("Found %d results:\n\n", len(results))
		for i, result := range results {
			marker := " "
			if result.TrustScore < d.Config.WarningThreshold {
				marker = "!"
			}
			fmt.Printf("%2d. %s %6.1f  %s  %s\n",
				i+1, marker, result.TrustScore,
				result.VerificationTimestamp.Format("2006-01-02 15:04"),
				result.ContentURL)
		}

		return nil
	})
}
