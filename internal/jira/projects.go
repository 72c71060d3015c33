package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/danielolaszy/rivet/internal/logging"
	"github.com/danielolaszy/rivet/pkg/models"
)

// projectSearchResponse is the shape of /rest/api/3/project/search.
type projectSearchResponse struct {
	Total  int            `json:"total"`
	Values []projectValue `json:"values"`
}

type projectValue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Self string `json:"self"`
}

// projectCreateRequest is the creation payload for /rest/api/3/project.
type projectCreateRequest struct {
	AssigneeType   string `json:"assigneeType"`
	Description    string `json:"description"`
	Key            string `json:"key"`
	LeadAccountID  string `json:"leadAccountId"`
	Name           string `json:"name"`
	ProjectTypeKey string `json:"projectTypeKey"`
}

// projectCreateResponse is the creation result. The service returns the
// project ID as a number here, unlike the search endpoint.
type projectCreateResponse struct {
	ID   json.Number `json:"id"`
	Key  string      `json:"key"`
	Self string      `json:"self"`
}

// CreateProjectInput carries the fields for a new project. Lead may be
// either an account ID or an email; emails are resolved through
// ResolveAccountID.
type CreateProjectInput struct {
	Name           string
	Key            string
	Lead           string
	ProjectTypeKey string
	Description    string
}

// ProjectByName looks a project up by display name. Zero matches return
// ErrProjectNotFound; more than one match is an *AmbiguousResultError whose
// matches list the candidate keys, so the caller can retry with the unique
// project key instead.
func (c *Client) ProjectByName(ctx context.Context, name string) (models.ProjectRef, error) {
	if c.gate.Active() {
		return dryRunProject, nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return models.ProjectRef{}, err
	}

	raw, err := s.get(ctx, "/rest/api/3/project/search?query="+url.QueryEscape(name))
	if err != nil {
		return models.ProjectRef{}, err
	}

	var parsed projectSearchResponse
	if err := decode(raw, &parsed); err != nil {
		return models.ProjectRef{}, err
	}

	switch len(parsed.Values) {
	case 0:
		logging.Debug("no jira project for name", "name", name)
		return models.ProjectRef{}, ErrProjectNotFound
	case 1:
		v := parsed.Values[0]
		return models.ProjectRef{ID: v.ID, Key: v.Key, Name: v.Name, URL: v.Self}, nil
	default:
		keys := make([]string, len(parsed.Values))
		for i, v := range parsed.Values {
			keys[i] = v.Key
		}
		return models.ProjectRef{}, &AmbiguousResultError{Query: name, Matches: keys}
	}
}

// CreateProject creates a project with the lead assigned as default
// assignee.
func (c *Client) CreateProject(ctx context.Context, input CreateProjectInput) (models.ProjectRef, error) {
	if c.gate.Active() {
		return dryRunProject, nil
	}

	leadAccountID := input.Lead
	if looksLikeEmail(input.Lead) {
		resolved, err := c.ResolveAccountID(ctx, input.Lead)
		if err != nil {
			return models.ProjectRef{}, fmt.Errorf("resolving project lead '%s': %w", input.Lead, err)
		}
		leadAccountID = resolved
	}

	s, err := c.sessions.Session()
	if err != nil {
		return models.ProjectRef{}, err
	}

	logging.Info("creating jira project",
		"name", input.Name,
		"key", input.Key,
		"type", input.ProjectTypeKey)

	payload := projectCreateRequest{
		AssigneeType:   "PROJECT_LEAD",
		Description:    input.Description,
		Key:            input.Key,
		LeadAccountID:  leadAccountID,
		Name:           input.Name,
		ProjectTypeKey: input.ProjectTypeKey,
	}

	raw, err := s.post(ctx, "/rest/api/3/project", payload)
	if err != nil {
		return models.ProjectRef{}, fmt.Errorf("creating project '%s': %w", input.Name, err)
	}

	var parsed projectCreateResponse
	if err := decode(raw, &parsed); err != nil {
		return models.ProjectRef{}, err
	}

	logging.Info("created jira project", "key", parsed.Key, "url", parsed.Self)
	return models.ProjectRef{
		ID:   parsed.ID.String(),
		Key:  parsed.Key,
		Name: input.Name,
		URL:  parsed.Self,
	}, nil
}

// UpdateProjectDescription replaces a project's description.
func (c *Client) UpdateProjectDescription(ctx context.Context, projectKey, description string) error {
	if c.gate.Active() {
		return nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return err
	}

	payload := map[string]string{"description": description}
	if _, err := s.put(ctx, "/rest/api/3/project/"+projectKey, payload); err != nil {
		return fmt.Errorf("updating description of %s: %w", projectKey, err)
	}

	logging.Info("updated project description", "project", projectKey)
	return nil
}

// UpdateProjectLead changes a project's lead. Lead may be an account ID or
// an email.
func (c *Client) UpdateProjectLead(ctx context.Context, projectKey, lead string) error {
	if c.gate.Active() {
		return nil
	}

	leadAccountID := lead
	if looksLikeEmail(lead) {
		resolved, err := c.ResolveAccountID(ctx, lead)
		if err != nil {
			return fmt.Errorf("resolving project lead '%s': %w", lead, err)
		}
		leadAccountID = resolved
	}

	s, err := c.sessions.Session()
	if err != nil {
		return err
	}

	payload := map[string]string{"leadAccountId": leadAccountID}
	if _, err := s.put(ctx, "/rest/api/3/project/"+projectKey, payload); err != nil {
		return fmt.Errorf("updating lead of %s: %w", projectKey, err)
	}

	logging.Info("updated project lead", "project", projectKey)
	return nil
}
