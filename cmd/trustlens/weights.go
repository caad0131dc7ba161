package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newWeightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Show the active scoring weights",
		RunE:  runWeightsShow,
	}

	cmd.AddCommand(newWeightsSetCmd())

	return cmd
}

func newWeightsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key=value> [key=value ...]",
		Short: "Update scoring weights",
		Long:  "Updates one or more scoring weights and persists them to the config file. Invalid updates are rejected as a whole; keys are e.g. sourceVerification, communityRating.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWeightsSet,
	}
}

func runWeightsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		printWeights(d.WeightsHandler.Get(ctx).AsMap())
		return nil
	})
}

func runWeightsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	updates, err := parseWeightArgs(args)
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		weights, err := d.WeightsHandler.Set(ctx, updates)
		if err != nil {
			return fmt.Errorf("updating weights: %w", err)
		}

		fmt.Println("Weights updated:")
		printWeights(weights.AsMap())
		return nil
	})
}

// parseWeightArgs parses key=value pairs into a weight update map.
func parseWeightArgs(args []string) (map[string]float64, error) {
	updates := make(map[string]float64, len(args))
	for _, arg := range args {
		key, raw, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid weight argument %q, expected key=value", arg)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight value in %q: %w", arg, err)
		}
		updates[key] = value
	}
	return updates, nil
}

func printWeights(weights map[string]float64) {
	keys := make([]string, 0, len(weights))
	for key := range weights {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("  %-22s %.2f\n", key, weights[key])
	}
}
