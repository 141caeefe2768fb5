package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/civicworks/civic-cli/internal/model"
	"github.com/civicworks/civic-cli/internal/store"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Triage stored issues",
}

var issueListFlags struct {
	category string
	status   string
	reporter string
	flagged  bool
	limit    int
	jsonOut  bool
}

var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		filter := store.IssueFilter{
			ReportedBy:     issueListFlags.reporter,
			IncludeFlagged: issueListFlags.flagged,
			Limit:          issueListFlags.limit,
		}
		if issueListFlags.category != "" {
			filter.Category, err = parseCategory(issueListFlags.category)
			if err != nil {
				return err
			}
		}
		if issueListFlags.status != "" {
			status := model.IssueStatus(issueListFlags.status)
			if !model.ValidStatus(status) {
				return fmt.Errorf("unknown status %q", issueListFlags.status)
			}
			filter.Status = status
		}

		issues, err := st.ListIssues(ctx, filter)
		if err != nil {
			return err
		}

		if issueListFlags.jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(issues)
		}

		if len(issues) == 0 {
			fmt.Println("no issues found")
			return nil
		}
		for _, issue := range issues {
			flag := " "
			if issue.Flagged {
				flag = "!"
			}
			fmt.Printf("%s %-36s  %-12s  %-13s  %3d  %s\n",
				flag, issue.ID, issue.Category, issue.Status, issue.Upvotes, issue.Title)
		}
		return nil
	},
}

var issueStatusCmd = &cobra.Command{
	Use:   "status <id> <reported|in_progress|resolved>",
	Short: "Update an issue's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.UpdateStatus(ctx, args[0], model.IssueStatus(args[1])); err != nil {
			return err
		}
		fmt.Printf("issue %s is now %s\n", args[0], args[1])
		return nil
	},
}

var issueUpvoteCmd = &cobra.Command{
	Use:   "upvote <id>",
	Short: "Upvote an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		upvotes, err := st.Upvote(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("issue %s has %d upvotes\n", args[0], upvotes)
		return nil
	},
}

var issueFlagCmd = &cobra.Command{
	Use:   "flag <id>",
	Short: "Flag an issue for moderation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Flag(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("issue %s flagged\n", args[0])
		return nil
	},
}

var issueDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteIssue(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("issue %s deleted\n", args[0])
		return nil
	},
}

func init() {
	issueListCmd.Flags().StringVar(&issueListFlags.category, "category", "", "category filter")
	issueListCmd.Flags().StringVar(&issueListFlags.status, "status", "", "status filter")
	issueListCmd.Flags().StringVar(&issueListFlags.reporter, "reporter", "", "reporter filter")
	issueListCmd.Flags().BoolVar(&issueListFlags.flagged, "include-flagged", false, "include flagged issues")
	issueListCmd.Flags().IntVar(&issueListFlags.limit, "limit", 0, "max results (default 100, -1 for all)")
	issueListCmd.Flags().BoolVar(&issueListFlags.jsonOut, "json", false, "emit JSON")

	issueCmd.AddCommand(issueListCmd, issueStatusCmd, issueUpvoteCmd, issueFlagCmd, issueDeleteCmd)
	rootCmd.AddCommand(issueCmd)
}
