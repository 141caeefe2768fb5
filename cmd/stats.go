package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/civicworks/civic-cli/internal/admin"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print an aggregation snapshot of all issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := admin.NewAggregator(st).Stats(ctx)
		if err != nil {
			return err
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		fmt.Printf("total issues:   %d\n", stats.Total)
		fmt.Printf("flagged:        %d\n", stats.Flagged)
		fmt.Printf("today:          %d\n", stats.Today)
		fmt.Printf("this week:      %d\n", stats.ThisWeek)
		fmt.Println("by status:")
		for status, n := range stats.ByStatus {
			fmt.Printf("  %-13s %d\n", status, n)
		}
		fmt.Println("by category:")
		for _, cc := range stats.ByCategory {
			fmt.Printf("  %-13s %d\n", cc.Category, cc.Count)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(statsCmd)
}
