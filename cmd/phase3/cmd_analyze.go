package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/phase3/internal/adapters/dataset"
	"github.com/okian/phase3/internal/adapters/sink"
	"github.com/okian/phase3/internal/config"
	"github.com/okian/phase3/internal/domain/analytics"
	"github.com/okian/phase3/internal/domain/resolve"
)

var analyzeFlags struct {
	awards      string
	transitions string
	out         string
	preset      string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate a detection run into award- and company-level metrics",
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.awards, "awards", "", "path to awards JSON (required)")
	f.StringVar(&analyzeFlags.transitions, "transitions", "", "path to transitions JSONL (required)")
	f.StringVar(&analyzeFlags.out, "out", "", "report output path (default stdout)")
	f.StringVar(&analyzeFlags.preset, "preset", config.PresetBalanced, "preset whose name normalization to reuse")
	_ = analyzeCmd.MarkFlagRequired("awards")
	_ = analyzeCmd.MarkFlagRequired("transitions")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	awards, err := dataset.LoadAwards(analyzeFlags.awards)
	if err != nil {
		return err
	}

	tf, err := os.Open(analyzeFlags.transitions)
	if err != nil {
		return fmt.Errorf("open transitions: %w", err)
	}
	transitions, err := sink.ReadJSONL(tf)
	_ = tf.Close()
	if err != nil {
		return err
	}

	cfg, err := config.New(analyzeFlags.preset)
	if err != nil {
		return err
	}
	resolver := resolve.New(resolve.WithStopWords(cfg.Detection.NameStopWords))

	report := analytics.BuildReport(awards, transitions, resolver.CompanyKey)

	out := os.Stdout
	if analyzeFlags.out != "" {
		f, err := os.Create(analyzeFlags.out)
		if err != nil {
			return fmt.Errorf("create report output: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
