package jira

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for legitimate empty results and workflow dead ends.
// Callers distinguish these with errors.Is; they are not transport failures.
var (
	// ErrAccountNotFound indicates a user search returned no matches.
	ErrAccountNotFound = errors.New("no account matches the given email")

	// ErrProjectNotFound indicates a project search returned no matches.
	ErrProjectNotFound = errors.New("no project matches the given name")

	// ErrNoTransitions indicates an issue currently has no available transitions.
	ErrNoTransitions = errors.New("no transitions available for issue")
)

// ConfigurationError reports missing or invalid connection settings. It is
// fatal at startup and never retryable. Missing lists every absent field for
// the selected authentication scheme, not just the first.
type ConfigurationError struct {
	Missing []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("invalid jira configuration: missing %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid jira configuration: %s", e.Reason)
}

// ConnectionError wraps a transport-level failure (timeout, refused
// connection, DNS). Transient; safe to retry with backoff at the caller's
// discretion.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("jira connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError reports a non-2xx HTTP status. The raw status and response
// body are preserved so callers can decide whether to retry.
type ProtocolError struct {
	StatusCode int
	Body       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("jira returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the failure is plausibly transient (5xx).
func (e *ProtocolError) Retryable() bool { return e.StatusCode >= 500 }

// MalformedResponseError indicates a response body that did not parse as the
// expected structure. Treated as a service contract violation, not retryable.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("jira response did not parse: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// UnexpectedError wraps an uncategorized failure along with a captured stack
// trace for diagnosis. The trace is for logs only and must never be shown to
// end users.
type UnexpectedError struct {
	Err   error
	Stack []byte
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected jira failure: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// AmbiguousResultError reports more than one match where exactly one was
// expected. Matches carries enough detail for the caller to ask the user for
// a disambiguating key.
type AmbiguousResultError struct {
	Query   string
	Matches []string
}

func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("query '%s' matched %d results: %s", e.Query, len(e.Matches), strings.Join(e.Matches, ", "))
}

// TransitionNotFoundError indicates the requested transition name matched
// none of the issue's available transitions.
type TransitionNotFoundError struct {
	IssueKey string
	Name     string
}

func (e *TransitionNotFoundError) Error() string {
	return fmt.Sprintf("transition '%s' not found for issue %s", e.Name, e.IssueKey)
}

// UnsupportedFieldsError indicates a transition requires fields this
// connector cannot populate. Submitting anyway would be rejected by the
// service, so the failure is raised locally with the field names instead.
type UnsupportedFieldsError struct {
	IssueKey   string
	Transition string
	Fields     []string
}

func (e *UnsupportedFieldsError) Error() string {
	return fmt.Sprintf("transition '%s' on issue %s requires unsupported fields: %s",
		e.Transition, e.IssueKey, strings.Join(e.Fields, ", "))
}
