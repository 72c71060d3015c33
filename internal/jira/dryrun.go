package jira

import (
	"context"

	"github.com/danielolaszy/rivet/internal/logging"
	"github.com/danielolaszy/rivet/pkg/models"
)

// Gate short-circuits connector operations when dry-run mode is active: the
// live operation is never invoked and a canned value is returned instead,
// so the layers above can be exercised end-to-end without network access.
//
// The flag is consulted on every call, not at wrap time, so toggling it
// mid-process takes effect on the next operation.
type Gate struct {
	enabled func() bool
}

// NewGate returns a gate that consults enabled on each call.
func NewGate(enabled func() bool) *Gate {
	return &Gate{enabled: enabled}
}

// StaticGate returns a gate that is permanently on or off.
func StaticGate(on bool) *Gate {
	return &Gate{enabled: func() bool { return on }}
}

// Active reports whether dry-run substitution applies right now. A nil gate
// is always inactive.
func (g *Gate) Active() bool {
	if g == nil || g.enabled == nil {
		return false
	}
	return g.enabled()
}

// Gated wraps a live operation so the canned value is substituted whenever
// the gate is active at call time. The substitution is explicit at the
// composition site rather than hidden behind the operation.
func Gated[T any](g *Gate, canned T, live func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		if g.Active() {
			logging.Debug("dry-run active, returning canned response")
			return canned, nil
		}
		return live(ctx)
	}
}

// Canned responses returned by each operation in dry-run mode.
const (
	dryRunIssueKey  = "TEST-123"
	dryRunIssueURL  = "http://mock.jira.instance.test/browse/TEST-123"
	dryRunAccountID = "mock-account-id"
)

var (
	dryRunTransitions = []models.Transition{
		{ID: "1", Name: "Start Progress"},
		{ID: "2", Name: "Resolve Issue"},
	}

	dryRunIssueDetails = models.IssueDetails{
		Key:         dryRunIssueKey,
		URL:         dryRunIssueURL,
		Summary:     "Mock issue summary",
		Description: "Mock issue description",
		Status:      "Open",
		Priority:    "High",
		Reporter:    "Mock Reporter",
		Assignee:    "Mock Assignee",
		Created:     "2023-01-01T00:00:00.000+0000",
		Updated:     "2023-01-02T00:00:00.000+0000",
	}

	dryRunIssueList = []models.IssueSummary{
		{Key: dryRunIssueKey, Summary: "Mock issue summary", URL: dryRunIssueURL},
	}

	dryRunIssueTypes = []string{"Bug", "Task", "Story"}

	dryRunProject = models.ProjectRef{
		ID:   "10000",
		Key:  "TEST",
		Name: "Mock Project",
		URL:  "http://mock.jira.instance.test/rest/api/3/project/10000",
	}
)
