package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRateCmd() *cobra.Command {
	var raterID string

	cmd := &cobra.Command{
		Use:   "rate <content-url> <rating>",
		Short: "Submit a community rating for a content URL",
		Long:  "Records a rating between 0 and 100. When the URL has a stored verification result, its community factor is refreshed from the new mean.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid rating %q: %w", args[1], err)
			}
			return runRate(cmd, args[0], rating, raterID)
		},
	}

	cmd.Flags().StringVar(&raterID, "rater", "", "Identifier of the rater")

	return cmd
}

func runRate(cmd *cobra.Command, contentURL string, rating float64, raterID string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		result, err := d.VerifyHandler.Rate(ctx, contentURL, rating, raterID)
		if err != nil {
			return fmt.Errorf("recording rating: %w", err)
		}

		if result == nil {
			fmt.Println("Rating recorded. The URL has no verification result yet; the rating will count once it is verified.")
			return nil
		}

		fmt.Printf("Rating recorded. Updated trust score: %.1f\n", result.TrustScore)
		if result.CommunityRating != nil {
			fmt.Printf("Community mean: %.1f\n", *result.CommunityRating)
		}
		return nil
	})
}
