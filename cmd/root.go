// Package cmd provides the command-line interface for the rivet CLI tool.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/rivet/internal/config"
	"github.com/danielolaszy/rivet/internal/jira"
)

var rootCmd = &cobra.Command{
	Use:   "rivet",
	Short: "Rivet drives a JIRA instance from the command line",
	Long: `Rivet is a CLI tool for working with JIRA: creating and inspecting issues,
searching with JQL, resolving user accounts, managing projects, and driving
workflow transitions.

Connection settings come from the environment (JIRA_URL, JIRA_AUTH_TYPE and
the credentials for the selected scheme). Set DRYRUN=true to exercise every
command against canned responses without touching the network.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(userCmd)
}

// newJiraClient loads configuration and builds the connector client shared
// by all commands.
func newJiraClient() (*jira.Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return jira.NewClient(cfg), nil
}
