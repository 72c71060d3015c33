package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/rivet/internal/jira"
)

// userCmd groups the user-level operations.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Resolve JIRA user accounts",
}

var userResolveCmd = &cobra.Command{
	Use:   "resolve EMAIL",
	Short: "Resolve an email to a JIRA account ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newJiraClient()
		if err != nil {
			return err
		}

		accountID, err := client.ResolveAccountID(cmd.Context(), args[0])
		if err != nil {
			var ambiguous *jira.AmbiguousResultError
			if errors.As(err, &ambiguous) {
				return fmt.Errorf("multiple accounts match '%s': %v", args[0], ambiguous.Matches)
			}
			if errors.Is(err, jira.ErrAccountNotFound) {
				fmt.Printf("No account found for %s\n", args[0])
				return nil
			}
			return fmt.Errorf("resolution failed: %w", err)
		}

		fmt.Printf("%s: %s\n", args[0], accountID)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userResolveCmd)
}
