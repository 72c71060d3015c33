// Package models defines data structures shared across the application.
package models

// Transition represents a legal state change for a JIRA issue.
type Transition struct {
	// ID is the workflow transition identifier (e.g., "21")
	ID string `json:"id"`

	// Name is the human-readable transition name (e.g., "Start Progress")
	Name string `json:"name"`
}

// IssueDetails represents the fields of a JIRA issue that callers care about.
type IssueDetails struct {
	// Key is the full JIRA issue identifier (e.g., "ABC-123")
	Key string

	// URL is the browsable link to the issue
	URL string

	// Summary is the issue's summary field
	Summary string

	// Description is the full body text of the issue
	Description string

	// Status is the current workflow status name
	Status string

	// Priority is the priority name, empty when the instance has none configured
	Priority string

	// Reporter is the display name of the reporter
	Reporter string

	// Assignee is the display name of the assignee, empty when unassigned
	Assignee string

	// Created and Updated are the service's timestamp strings
	Created string
	Updated string
}

// IssueSummary is the compact form returned by searches.
type IssueSummary struct {
	// Key is the full JIRA issue identifier
	Key string

	// Summary is the issue's summary field
	Summary string

	// URL is the browsable link to the issue
	URL string
}

// ProjectRef identifies a JIRA project.
type ProjectRef struct {
	// ID is the numeric project identifier assigned by the service
	ID string

	// Key is the short project key (e.g., "ABC")
	Key string

	// Name is the project's display name
	Name string

	// URL is the service's self link for the project
	URL string
}
