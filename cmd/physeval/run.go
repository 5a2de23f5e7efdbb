package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/phys-eval/internal/app"
	"github.com/stellarlinkco/phys-eval/internal/dataset"
)

var errPairsMismatched = errors.New("physeval: pairs mismatched")

type runOptions struct {
	datasetPath string
	dir         string
	output      string
	save        bool
	strict      bool
	concurrency int
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run answer suites",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.datasetPath, "dataset", "", "path to a suite file")
	cmd.Flags().StringVar(&opts.dir, "dir", "datasets", "directory of suite files")
	cmd.Flags().StringVar(&opts.output, "output", "table", "output format: table|json")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist results to the store")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when any pair mismatches")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "max concurrent comparisons (overrides config)")

	return cmd
}

func runSuites(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("run: nil options")
	}

	if opts.concurrency > 0 {
		st.cfg.Evaluation.Concurrency = opts.concurrency
	}

	var (
		suites []*dataset.Suite
		err    error
	)
	if path := strings.TrimSpace(opts.datasetPath); path != "" {
		var suite *dataset.Suite
		suite, err = dataset.LoadFromFile(path)
		if suite != nil {
			suites = append(suites, suite)
		}
	} else {
		suites, err = dataset.LoadFromDir(strings.TrimSpace(opts.dir))
	}
	if err != nil {
		return err
	}
	if len(suites) == 0 {
		return fmt.Errorf("run: no suites found")
	}

	run, err := buildRunner(st.cfg)
	if err != nil {
		return err
	}

	startedAt := time.Now().UTC()
	runs, err := app.ExecuteSuites(cmd.Context(), run, suites)
	if err != nil {
		return err
	}
	finishedAt := time.Now().UTC()

	if opts.save {
		stor, err := openStore(st.cfg)
		if err != nil {
			return err
		}
		defer stor.Close()

		for _, r := range runs {
			record, err := app.SaveRun(cmd.Context(), stor, r, startedAt, finishedAt, runConfigSnapshot(st))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved run %s (suite %s)\n", record.ID, r.Suite.Suite)
		}
	}

	if err := printRuns(cmd, runs, opts.output); err != nil {
		return err
	}

	summary := app.Summarize(runs)
	if opts.strict && summary.Matched < summary.TotalPairs {
		return errPairsMismatched
	}
	return nil
}

func printRuns(cmd *cobra.Command, runs []app.SuiteRun, output string) error {
	out := cmd.OutOrStdout()

	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "table":
		for _, r := range runs {
			fmt.Fprintf(out, "\nSuite: %s (%d pairs, accuracy %.2f%%)\n",
				r.Suite.Suite, r.Result.Total, r.Result.Accuracy*100)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PAIR\tRESULT\tMETHOD\tCONF\tLAT(ms)\tREASON")
			for _, pr := range r.Result.Results {
				method, conf, reason := "", 0.0, ""
				if pr.Result != nil {
					method = pr.Result.Method
					conf = pr.Result.Confidence
					reason = pr.Result.Reason
				}
				matched := pr.Result != nil && pr.Result.Matched
				if pr.Error != nil {
					reason = pr.Error.Error()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%s\n",
					pr.ID, statusLabel(matched), method, conf, pr.LatencyMs, reason)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}

		summary := app.Summarize(runs)
		fmt.Fprintf(out, "\nTotal: %d pairs, %d matched, accuracy %.2f%%\n",
			summary.TotalPairs, summary.Matched, summary.Accuracy*100)
		return nil
	case "json":
		payload := struct {
			Summary app.RunSummary `json:"summary"`
			Suites  []suitePayload `json:"suites"`
		}{Summary: app.Summarize(runs)}
		for _, r := range runs {
			payload.Suites = append(payload.Suites, suitePayload{
				Suite:    r.Suite.Suite,
				Total:    r.Result.Total,
				Matched:  r.Result.Matched,
				Accuracy: r.Result.Accuracy,
				Results:  r.Result.Results,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("run: unknown output format %q", output)
	}
}

type suitePayload struct {
	Suite    string  `json:"suite"`
	Total    int     `json:"total"`
	Matched  int     `json:"matched"`
	Accuracy float64 `json:"accuracy"`
	Results  any     `json:"results"`
}

func runConfigSnapshot(st *cliState) map[string]any {
	if st == nil || st.cfg == nil {
		return nil
	}
	return map[string]any{
		"sig_figs":             st.cfg.Evaluation.SigFigs,
		"similarity_threshold": st.cfg.Evaluation.SimilarityThreshold,
		"use_similarity":       st.cfg.Evaluation.UseSimilarity,
		"concurrency":          st.cfg.Evaluation.Concurrency,
	}
}
