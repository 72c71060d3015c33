// Package jira implements the connector for the JIRA REST API: authenticated
// session management, typed request execution, account resolution, issue and
// project operations, and the workflow transition protocol.
package jira

import (
	"regexp"
	"strings"

	"github.com/danielolaszy/rivet/internal/config"
)

// Client exposes the connector operations. All operations share one lazily
// constructed session and check the dry-run gate before touching the network.
type Client struct {
	sessions *SessionManager
	gate     *Gate
}

// NewClient builds a client from loaded configuration. The session is not
// constructed until the first operation needs it.
func NewClient(cfg *config.Config) *Client {
	return NewClientWithGate(cfg.Jira, StaticGate(cfg.DryRun))
}

// NewClientWithGate builds a client with an explicit dry-run gate, letting
// the caller control substitution per call rather than per process.
func NewClientWithGate(cfg config.JiraConfig, gate *Gate) *Client {
	return &Client{
		sessions: NewSessionManager(cfg),
		gate:     gate,
	}
}

// browseURL renders the user-facing link for an issue key.
func browseURL(baseURL, issueKey string) string {
	return strings.TrimSuffix(baseURL, "/") + "/browse/" + issueKey
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// looksLikeEmail reports whether an identifier should be resolved to an
// account ID before use.
func looksLikeEmail(s string) bool {
	return emailPattern.MatchString(s)
}
