package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/rivet/internal/jira"
)

// projectCmd groups the project-level operations.
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Look up, create and update JIRA projects",
}

var projectShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Look up a JIRA project by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newJiraClient()
		if err != nil {
			return err
		}

		ref, err := client.ProjectByName(cmd.Context(), args[0])
		if err != nil {
			var ambiguous *jira.AmbiguousResultError
			if errors.As(err, &ambiguous) {
				return fmt.Errorf("multiple projects match '%s' (%v), retry with the unique project key", args[0], ambiguous.Matches)
			}
			if errors.Is(err, jira.ErrProjectNotFound) {
				fmt.Printf("No project named '%s'\n", args[0])
				return nil
			}
			return fmt.Errorf("lookup failed: %w", err)
		}

		fmt.Printf("%s (%s): %s\n", ref.Name, ref.Key, ref.URL)
		return nil
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new JIRA project",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		key, _ := cmd.Flags().GetString("key")
		lead, _ := cmd.Flags().GetString("lead")
		projectType, _ := cmd.Flags().GetString("type")
		description, _ := cmd.Flags().GetString("description")

		if name == "" || key == "" || lead == "" {
			return fmt.Errorf("--name, --key and --lead flags are required")
		}

		client, err := newJiraClient()
		if err != nil {
			return err
		}

		ref, err := client.CreateProject(cmd.Context(), jira.CreateProjectInput{
			Name:           name,
			Key:            key,
			Lead:           lead,
			ProjectTypeKey: projectType,
			Description:    description,
		})
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		fmt.Printf("Created project %s (%s)\n", ref.Key, ref.URL)
		return nil
	},
}

var projectDescribeCmd = &cobra.Command{
	Use:   "describe KEY DESCRIPTION",
	Short: "Update a project's description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newJiraClient()
		if err != nil {
			return err
		}

		if err := client.UpdateProjectDescription(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("update failed: %w", err)
		}

		fmt.Printf("Project %s description updated\n", args[0])
		return nil
	},
}

var projectLeadCmd = &cobra.Command{
	Use:   "lead KEY LEAD",
	Short: "Update a project's lead (account ID or email)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newJiraClient()
		if err != nil {
			return err
		}

		if err := client.UpdateProjectLead(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("update failed: %w", err)
		}

		fmt.Printf("Project %s lead updated\n", args[0])
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringP("name", "n", "", "Project name")
	projectCreateCmd.Flags().StringP("key", "k", "", "Project key (e.g., 'ABC')")
	projectCreateCmd.Flags().StringP("lead", "l", "", "Project lead (account ID or email)")
	projectCreateCmd.Flags().StringP("type", "t", "software", "Project type key")
	projectCreateCmd.Flags().StringP("description", "d", "", "Project description")

	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectDescribeCmd)
	projectCmd.AddCommand(projectLeadCmd)
}
