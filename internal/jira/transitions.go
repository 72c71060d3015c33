package jira

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/danielolaszy/rivet/internal/logging"
	"github.com/danielolaszy/rivet/pkg/models"
)

// transitionListResponse is the shape of /rest/api/3/issue/{key}/transitions.
// Fields is only populated when the request asks for transitions.fields.
type transitionListResponse struct {
	Transitions []transitionDetail `json:"transitions"`
}

type transitionDetail struct {
	ID     string                     `json:"id"`
	Name   string                     `json:"name"`
	Fields map[string]transitionField `json:"fields"`
}

type transitionField struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// transitionRequest is the submission payload for a workflow transition.
type transitionRequest struct {
	Transition struct {
		ID string `json:"id"`
	} `json:"transition"`
	Fields map[string]any `json:"fields,omitempty"`
}

// normalizeTransitionName lower-cases and strips hyphens so that display
// names which vary in punctuation across workflow configurations still
// match ("In-Progress" matches "in progress").
func normalizeTransitionName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "")
}

// ListTransitions fetches the legal transitions for an issue. The list is
// fetched fresh on every call because workflow state can change between
// calls.
func (c *Client) ListTransitions(ctx context.Context, issueKey string) ([]models.Transition, error) {
	if c.gate.Active() {
		return dryRunTransitions, nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return nil, err
	}
	return listTransitions(ctx, s, issueKey)
}

func listTransitions(ctx context.Context, s *Session, issueKey string) ([]models.Transition, error) {
	raw, err := s.get(ctx, "/rest/api/3/issue/"+issueKey+"/transitions")
	if err != nil {
		return nil, err
	}

	var parsed transitionListResponse
	if err := decode(raw, &parsed); err != nil {
		return nil, err
	}

	transitions := make([]models.Transition, len(parsed.Transitions))
	for i, t := range parsed.Transitions {
		transitions[i] = models.Transition{ID: t.ID, Name: t.Name}
	}

	logging.Debug("fetched issue transitions",
		"issue", issueKey,
		"count", len(transitions))
	return transitions, nil
}

// requiredFields re-fetches the transition list expanded with field metadata
// and returns the names of the fields flagged mandatory for the named
// transition, sorted for stable reporting.
func requiredFields(ctx context.Context, s *Session, issueKey, transitionName string) ([]string, error) {
	raw, err := s.get(ctx, "/rest/api/3/issue/"+issueKey+"/transitions?expand=transitions.fields")
	if err != nil {
		return nil, err
	}

	var parsed transitionListResponse
	if err := decode(raw, &parsed); err != nil {
		return nil, err
	}

	want := normalizeTransitionName(transitionName)
	for _, t := range parsed.Transitions {
		if normalizeTransitionName(t.Name) != want {
			continue
		}
		var fields []string
		for name, f := range t.Fields {
			if f.Required {
				fields = append(fields, name)
			}
		}
		sort.Strings(fields)
		return fields, nil
	}

	return nil, &TransitionNotFoundError{IssueKey: issueKey, Name: transitionName}
}

// PerformTransition drives the workflow transition protocol for one issue:
//
//  1. discover the issue's legal transitions
//  2. match the requested name case- and hyphen-insensitively
//  3. look up the fields the service requires for the matched transition
//  4. assemble the payload, attaching the resolution when required and supplied
//  5. submit and treat 204 No Content as the only success signal
//
// Only step 5 mutates state, so a failure on any earlier step aborts the
// whole operation safely with nothing to roll back. Required fields other
// than resolution cannot be populated by this connector and fail fast
// locally instead of waiting for the service's rejection. A resolution that
// is required but not supplied is deliberately left out; the service's
// rejection then surfaces as the caller-visible error.
func (c *Client) PerformTransition(ctx context.Context, issueKey, transitionName, resolutionID string) error {
	if c.gate.Active() {
		logging.Info("dry-run active, skipping transition",
			"issue", issueKey,
			"transition", transitionName)
		return nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return err
	}

	logging.Info("attempting transition",
		"issue", issueKey,
		"transition", transitionName,
		"resolution_id", resolutionID)

	available, err := listTransitions(ctx, s, issueKey)
	if err != nil {
		return fmt.Errorf("discovering transitions for %s: %w", issueKey, err)
	}
	if len(available) == 0 {
		return fmt.Errorf("issue %s: %w", issueKey, ErrNoTransitions)
	}

	want := normalizeTransitionName(transitionName)
	transitionID := ""
	for _, t := range available {
		if normalizeTransitionName(t.Name) == want {
			transitionID = t.ID
			break
		}
	}
	if transitionID == "" {
		return &TransitionNotFoundError{IssueKey: issueKey, Name: transitionName}
	}

	required, err := requiredFields(ctx, s, issueKey, transitionName)
	if err != nil {
		return fmt.Errorf("resolving required fields for %s: %w", issueKey, err)
	}

	var payload transitionRequest
	payload.Transition.ID = transitionID

	var unsupported []string
	for _, field := range required {
		if field == "resolution" {
			if resolutionID != "" {
				if payload.Fields == nil {
					payload.Fields = make(map[string]any)
				}
				payload.Fields["resolution"] = map[string]string{"id": resolutionID}
			}
			continue
		}
		unsupported = append(unsupported, field)
	}
	if len(unsupported) > 0 {
		return &UnsupportedFieldsError{
			IssueKey:   issueKey,
			Transition: transitionName,
			Fields:     unsupported,
		}
	}

	if _, err := s.post(ctx, "/rest/api/3/issue/"+issueKey+"/transitions", payload); err != nil {
		return fmt.Errorf("submitting transition '%s' on %s: %w", transitionName, issueKey, err)
	}

	logging.Info("transition performed",
		"issue", issueKey,
		"transition", transitionName)
	return nil
}
