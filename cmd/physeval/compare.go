package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/phys-eval/internal/dataset"
)

type compareOptions struct {
	category           string
	predictionCategory string
	unit               string
	output             string
}

func newCompareCmd(st *cliState) *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare <prediction> <reference>",
		Short: "Compare one answer against a reference",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, st, &opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "declared reference category")
	cmd.Flags().StringVar(&opts.predictionCategory, "prediction-category", "", "declared prediction category")
	cmd.Flags().StringVar(&opts.unit, "unit", "", "expected unit for quantity answers")
	cmd.Flags().StringVar(&opts.output, "output", "table", "output format: table|json")

	return cmd
}

func runCompare(cmd *cobra.Command, st *cliState, opts *compareOptions, prediction, reference string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("compare: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("compare: nil options")
	}

	run, err := buildRunner(st.cfg)
	if err != nil {
		return err
	}

	pair := dataset.Pair{
		ID:                 "cli",
		Prediction:         prediction,
		Reference:          reference,
		Category:           opts.category,
		PredictionCategory: opts.predictionCategory,
		Unit:               opts.unit,
	}

	res, err := run.RunPair(cmd.Context(), pair)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(strings.TrimSpace(opts.output)) {
	case "", "table":
		matched := res.Result != nil && res.Result.Matched
		fmt.Fprintf(out, "Result: %s\n", statusLabel(matched))
		fmt.Fprintf(out, "Prediction category: %s\n", res.PredictionCategory)
		fmt.Fprintf(out, "Reference category: %s\n", res.ReferenceCategory)
		if res.Result != nil {
			fmt.Fprintf(out, "Method: %s\n", res.Result.Method)
			fmt.Fprintf(out, "Confidence: %.2f\n", res.Result.Confidence)
			if res.Result.Reason != "" {
				fmt.Fprintf(out, "Reason: %s\n", res.Result.Reason)
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return fmt.Errorf("compare: unknown output format %q", opts.output)
	}
}
