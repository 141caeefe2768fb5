package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicworks/civic-cli/internal/classify"
	"github.com/civicworks/civic-cli/internal/model"
)

var reportFlags struct {
	title       string
	description string
	category    string
	lat         float64
	lng         float64
	reporter    string
	anonymous   bool
	classify    bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Submit a civic issue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		category := model.CategoryOther
		if reportFlags.category != "" {
			category, err = parseCategory(reportFlags.category)
			if err != nil {
				return eris.Wrap(err, "report")
			}
		} else if reportFlags.classify {
			classifier, err := initClassifier(cfg.Classifier)
			if err != nil {
				return err
			}
			c, err := classifier.Classify(ctx, classify.Input{
				Title:       reportFlags.title,
				Description: reportFlags.description,
			})
			if err != nil {
				return eris.Wrap(err, "report: classify")
			}
			category = c.Category
			zap.L().Info("classifier suggestion adopted",
				zap.String("category", string(c.Category)),
				zap.String("urgency", string(c.Urgency)),
			)
		}

		issue, err := st.CreateIssue(ctx, model.IssueDraft{
			Title:       reportFlags.title,
			Description: reportFlags.description,
			Category:    category,
			Coordinates: model.Coordinate{Lat: reportFlags.lat, Lng: reportFlags.lng},
			ReportedBy:  reportFlags.reporter,
			Anonymous:   reportFlags.anonymous,
		})
		if err != nil {
			return err
		}

		fmt.Printf("reported issue %s (%s, %s)\n", issue.ID, issue.Category, issue.Status)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFlags.title, "title", "", "issue title (required)")
	reportCmd.Flags().StringVar(&reportFlags.description, "description", "", "issue description")
	reportCmd.Flags().StringVar(&reportFlags.category, "category", "", "issue category or slug")
	reportCmd.Flags().Float64Var(&reportFlags.lat, "lat", 0, "latitude (required)")
	reportCmd.Flags().Float64Var(&reportFlags.lng, "lng", 0, "longitude (required)")
	reportCmd.Flags().StringVar(&reportFlags.reporter, "reporter", "", "reporter identifier")
	reportCmd.Flags().BoolVar(&reportFlags.anonymous, "anonymous", false, "hide reporter identity")
	reportCmd.Flags().BoolVar(&reportFlags.classify, "classify", false, "run the classifier and adopt its category")
	reportCmd.MarkFlagRequired("title")
	reportCmd.MarkFlagRequired("lat")
	reportCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(reportCmd)
}
