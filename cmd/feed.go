package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/civicworks/civic-cli/internal/feed"
	"github.com/civicworks/civic-cli/internal/model"
)

var feedFlags struct {
	lat      float64
	lng      float64
	radiusKm float64
	search   string
	category string
	status   string
	flagged  bool
	geojson  bool
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print nearby issues ranked by distance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := feed.NewService(st, initResolver(cfg.Geo))

		q := feed.Query{
			RadiusKm:       feedFlags.radiusKm,
			Search:         feedFlags.search,
			IncludeFlagged: feedFlags.flagged,
		}
		if q.RadiusKm == 0 {
			q.RadiusKm = cfg.Geo.DefaultRadiusKm
		}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
			q.Center = &model.Coordinate{Lat: feedFlags.lat, Lng: feedFlags.lng}
		}
		if feedFlags.category != "" {
			c, err := parseCategory(feedFlags.category)
			if err != nil {
				return err
			}
			q.Categories = []model.Category{c}
		}
		if feedFlags.status != "" {
			status := model.IssueStatus(feedFlags.status)
			if !model.ValidStatus(status) {
				return fmt.Errorf("unknown status %q", feedFlags.status)
			}
			q.Statuses = []model.IssueStatus{status}
		}

		ranked, err := svc.Nearby(ctx, q)
		if err != nil {
			return err
		}

		if feedFlags.geojson {
			data, err := feed.GeoJSON(ranked)
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
			fmt.Println()
			return nil
		}

		if len(ranked) == 0 {
			fmt.Println("no issues within radius")
			return nil
		}
		for _, ri := range ranked {
			fmt.Printf("%6.2fkm  [%s/%s]  %s  %s\n",
				ri.Distance, ri.Category, ri.Status, ri.ID, ri.Title)
		}
		return nil
	},
}

func init() {
	feedCmd.Flags().Float64Var(&feedFlags.lat, "lat", 0, "feed center latitude")
	feedCmd.Flags().Float64Var(&feedFlags.lng, "lng", 0, "feed center longitude")
	feedCmd.Flags().Float64Var(&feedFlags.radiusKm, "radius-km", 0, "radius in kilometers (default from config)")
	feedCmd.Flags().StringVar(&feedFlags.search, "search", "", "case-insensitive title/description filter")
	feedCmd.Flags().StringVar(&feedFlags.category, "category", "", "category filter")
	feedCmd.Flags().StringVar(&feedFlags.status, "status", "", "status filter")
	feedCmd.Flags().BoolVar(&feedFlags.flagged, "include-flagged", false, "include flagged issues")
	feedCmd.Flags().BoolVar(&feedFlags.geojson, "geojson", false, "emit a GeoJSON FeatureCollection")
	rootCmd.AddCommand(feedCmd)
}
