package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/civicworks/civic-cli/internal/classify"
)

var classifyFlags struct {
	title         string
	description   string
	location      string
	remote        bool
	fallbackLocal bool
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify freeform issue text",
	RunE: func(cmd *cobra.Command, args []string) error {
		classifierCfg := cfg.Classifier
		if !classifyFlags.remote {
			classifierCfg.Provider = "local"
		}
		classifierCfg.FallbackLocal = classifyFlags.fallbackLocal

		classifier, err := initClassifier(classifierCfg)
		if err != nil {
			return err
		}

		c, err := classifier.Classify(cmd.Context(), classify.Input{
			Title:       classifyFlags.title,
			Description: classifyFlags.description,
			Location:    classifyFlags.location,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	},
}

var backfillFlags struct {
	concurrency int
	rps         float64
	dryRun      bool
}

var classifyBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Re-classify stored issues still categorized Other",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("classify"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		classifier, err := initClassifier(cfg.Classifier)
		if err != nil {
			return err
		}

		concurrency := backfillFlags.concurrency
		if concurrency == 0 {
			concurrency = cfg.Classifier.BackfillConcurrency
		}
		rps := backfillFlags.rps
		if rps == 0 {
			rps = cfg.Classifier.BackfillRPS
		}

		result, err := classifier.Backfill(ctx, st, classify.BackfillOptions{
			Concurrency: concurrency,
			RPS:         rps,
			DryRun:      backfillFlags.dryRun,
		})
		if err != nil {
			return err
		}

		fmt.Printf("scanned %d, updated %d, unchanged %d, failed %d\n",
			result.Scanned, result.Updated, result.Unchanged, result.Failed)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyFlags.title, "title", "", "issue title")
	classifyCmd.Flags().StringVar(&classifyFlags.description, "description", "", "issue description")
	classifyCmd.Flags().StringVar(&classifyFlags.location, "location", "", "optional location hint")
	classifyCmd.Flags().BoolVar(&classifyFlags.remote, "remote", false, "use the configured remote classifier")
	classifyCmd.Flags().BoolVar(&classifyFlags.fallbackLocal, "fallback-local", false, "fall back to the rule table on remote failure")

	classifyBackfillCmd.Flags().IntVar(&backfillFlags.concurrency, "concurrency", 0, "worker count (default from config)")
	classifyBackfillCmd.Flags().Float64Var(&backfillFlags.rps, "rps", 0, "classifier requests per second (default from config)")
	classifyBackfillCmd.Flags().BoolVar(&backfillFlags.dryRun, "dry-run", false, "classify without writing categories back")

	classifyCmd.AddCommand(classifyBackfillCmd)
	rootCmd.AddCommand(classifyCmd)
}
