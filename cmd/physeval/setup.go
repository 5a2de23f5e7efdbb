package main

import (
	"fmt"
	"time"

	"github.com/stellarlinkco/phys-eval/internal/compare"
	"github.com/stellarlinkco/phys-eval/internal/config"
	"github.com/stellarlinkco/phys-eval/internal/llm"
	"github.com/stellarlinkco/phys-eval/internal/runner"
)

// buildRunner assembles the comparison router and runner from config. The LLM
// judge is only wired when similarity is enabled, so offline evaluation never
// needs credentials.
func buildRunner(cfg *config.Config) (*runner.Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("physeval: missing config")
	}

	table, err := cfg.UnitTable()
	if err != nil {
		return nil, err
	}

	compareCfg := compare.Config{
		SigFigs:             cfg.Evaluation.SigFigs,
		Units:               table,
		SimilarityThreshold: cfg.Evaluation.SimilarityThreshold,
	}

	if cfg.Evaluation.UseSimilarity {
		provider, err := defaultProviderFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		judge := &llm.Judge{Provider: provider}
		compareCfg.Similarity = judge.Score
	}

	router, err := compare.NewRouter(compareCfg)
	if err != nil {
		return nil, err
	}

	return runner.NewRunner(router, runner.Config{
		Concurrency: cfg.Evaluation.Concurrency,
		Timeout:     cfg.Evaluation.Timeout,
	}), nil
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.UTC().Format(time.RFC3339)
}

func statusLabel(matched bool) string {
	if matched {
		return "MATCH"
	}
	return "DIFF"
}
