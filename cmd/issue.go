package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/rivet/internal/jira"
	"github.com/danielolaszy/rivet/internal/logging"
)

// issueCmd groups the issue-level operations.
var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Create, inspect and transition JIRA issues",
}

var issueCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new JIRA issue",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")
		summary, _ := cmd.Flags().GetString("summary")
		description, _ := cmd.Flags().GetString("description")
		issueType, _ := cmd.Flags().GetString("type")
		assignee, _ := cmd.Flags().GetString("assignee")
		reporter, _ := cmd.Flags().GetString("reporter")

		if project == "" || summary == "" {
			return fmt.Errorf("--project and --summary flags are required")
		}

		client, err := newJiraClient()
		if err != nil {
			return err
		}

		key, err := client.CreateIssue(cmd.Context(), jira.CreateIssueInput{
			ProjectKey:    project,
			Summary:       summary,
			Description:   description,
			IssueType:     issueType,
			AssigneeEmail: assignee,
			ReporterEmail: reporter,
		})
		if err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}

		fmt.Printf("Created issue %s\n", key)
		return nil
	},
}

var issueShowCmd = &cobra.Command{
	Use:   "show KEY",
	Short: "Show the details of a JIRA issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newJiraClient()
		if err != nil {
			return err
		}

		details, err := client.GetIssueDetails(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch issue: %w", err)
		}

		fmt.Printf("%s: %s\n", details.Key, details.Summary)
		fmt.Printf("  Status:   %s\n", details.Status)
		if details.Priority != "" {
			fmt.Printf("  Priority: %s\n", details.Priority)
		}
		fmt.Printf("  Reporter: %s\n", details.Reporter)
		if details.Assignee != "" {
			fmt.Printf("  Assignee: %s\n", details.Assignee)
		}
		fmt.Printf("  URL:      %s\n", details.URL)
		return nil
	},
}

var issueSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search JIRA issues with JQL or by user",
	Long: `Search issues with a raw JQL query, or list the latest issues a user
reported or is assigned to within a project:

  rivet issue search --jql "project = ABC AND status = Open"
  rivet issue search --mine user@example.com --project ABC`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jql, _ := cmd.Flags().GetString("jql")
		mine, _ := cmd.Flags().GetString("mine")
		project, _ := cmd.Flags().GetString("project")
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newJiraClient()
		if err != nil {
			return err
		}

		switch {
		case jql != "":
			issues, err := client.SearchIssues(cmd.Context(), jql, limit)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			for _, issue := range issues {
				fmt.Printf("%s: %s (%s)\n", issue.Key, issue.Summary, issue.URL)
			}
		case mine != "":
			if project == "" {
				return fmt.Errorf("--project is required with --mine")
			}
			issues, err := client.SearchUserIssues(cmd.Context(), mine, project, limit)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			for _, issue := range issues {
				fmt.Printf("%s: %s (%s)\n", issue.Key, issue.Summary, issue.URL)
			}
		default:
			return fmt.Errorf("either --jql or --mine is required")
		}
		return nil
	},
}

var issueTransitionCmd = &cobra.Command{
	Use:   "transition KEY NAME",
	Short: "Transition a JIRA issue to a new workflow state",
	Long: `Transition an issue by transition name. Matching is case- and
hyphen-insensitive. With no NAME argument the available transitions are
listed instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newJiraClient()
		if err != nil {
			return err
		}

		issueKey := args[0]
		if len(args) == 1 {
			transitions, err := client.ListTransitions(cmd.Context(), issueKey)
			if err != nil {
				return fmt.Errorf("failed to list transitions: %w", err)
			}
			for _, t := range transitions {
				fmt.Printf("%s: %s\n", t.ID, t.Name)
			}
			return nil
		}

		resolution, _ := cmd.Flags().GetString("resolution")
		if err := client.PerformTransition(cmd.Context(), issueKey, args[1], resolution); err != nil {
			return fmt.Errorf("transition failed: %w", err)
		}

		fmt.Printf("Issue %s transitioned to '%s'\n", issueKey, args[1])
		return nil
	},
}

var issueAssignCmd = &cobra.Command{
	Use:   "assign KEY EMAIL",
	Short: "Assign a JIRA issue to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newJiraClient()
		if err != nil {
			return err
		}

		if err := client.AssignIssue(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("assignment failed: %w", err)
		}

		logging.Info("issue assigned", "issue", args[0], "assignee", args[1])
		fmt.Printf("Issue %s assigned to %s\n", args[0], args[1])
		return nil
	},
}

var issueLabelCmd = &cobra.Command{
	Use:   "label KEY LABEL",
	Short: "Add a label to a JIRA issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newJiraClient()
		if err != nil {
			return err
		}

		if err := client.AddLabel(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("labeling failed: %w", err)
		}

		fmt.Printf("Label '%s' added to %s\n", args[1], args[0])
		return nil
	},
}

func init() {
	issueCreateCmd.Flags().StringP("project", "p", "", "Project key (e.g., 'ABC')")
	issueCreateCmd.Flags().StringP("summary", "s", "", "Issue summary")
	issueCreateCmd.Flags().StringP("description", "d", "", "Issue description")
	issueCreateCmd.Flags().StringP("type", "t", "Task", "Issue type (e.g., 'Task', 'Bug', 'Story')")
	issueCreateCmd.Flags().String("assignee", "", "Assignee email")
	issueCreateCmd.Flags().String("reporter", "", "Reporter email")

	issueSearchCmd.Flags().String("jql", "", "Raw JQL query")
	issueSearchCmd.Flags().String("mine", "", "List latest issues for this user email")
	issueSearchCmd.Flags().StringP("project", "p", "", "Project key, used with --mine")
	issueSearchCmd.Flags().Int("limit", 10, "Maximum number of results")

	issueTransitionCmd.Flags().String("resolution", "", "Resolution ID when the transition requires one")

	issueCmd.AddCommand(issueCreateCmd)
	issueCmd.AddCommand(issueShowCmd)
	issueCmd.AddCommand(issueSearchCmd)
	issueCmd.AddCommand(issueTransitionCmd)
	issueCmd.AddCommand(issueAssignCmd)
	issueCmd.AddCommand(issueLabelCmd)
}
