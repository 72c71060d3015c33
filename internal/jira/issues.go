package jira

import (
	"context"
	"fmt"
	"time"

	jira "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/rivet/internal/logging"
	"github.com/danielolaszy/rivet/pkg/models"
)

// jiraTimeLayout matches the timestamp format the service emits.
const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

// CreateIssueInput carries the fields for a new issue. AssigneeEmail and
// ReporterEmail are optional; when set they are resolved to account IDs
// through ResolveAccountID.
type CreateIssueInput struct {
	ProjectKey    string
	Summary       string
	Description   string
	IssueType     string
	AssigneeEmail string
	ReporterEmail string
}

// SupportedIssueTypes returns the issue type names the project accepts,
// read from the service's create metadata.
func (c *Client) SupportedIssueTypes(ctx context.Context, projectKey string) ([]string, error) {
	if c.gate.Active() {
		return dryRunIssueTypes, nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return nil, err
	}
	return supportedIssueTypes(ctx, s, projectKey)
}

func supportedIssueTypes(ctx context.Context, s *Session, projectKey string) ([]string, error) {
	meta, resp, err := s.client.Issue.GetCreateMetaWithContext(ctx, projectKey)
	if err != nil {
		return nil, classifyAPIError(err, resp)
	}

	var types []string
	for _, project := range meta.Projects {
		for _, issueType := range project.IssueTypes {
			types = append(types, issueType.Name)
		}
	}
	return types, nil
}

// CreateIssue creates an issue and returns its key. The issue type is
// validated against the project's create metadata before submission so an
// unsupported type fails with the list of supported ones instead of an
// opaque rejection.
func (c *Client) CreateIssue(ctx context.Context, input CreateIssueInput) (string, error) {
	if c.gate.Active() {
		return dryRunIssueKey, nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return "", err
	}

	logging.Info("creating jira issue",
		"project", input.ProjectKey,
		"type", input.IssueType,
		"summary", input.Summary)

	supported, err := supportedIssueTypes(ctx, s, input.ProjectKey)
	if err != nil {
		return "", fmt.Errorf("fetching issue metadata for %s: %w", input.ProjectKey, err)
	}
	found := false
	for _, t := range supported {
		if t == input.IssueType {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("unsupported issue type '%s' for project %s, supported types are %v",
			input.IssueType, input.ProjectKey, supported)
	}

	fields := &jira.IssueFields{
		Project: jira.Project{
			Key: input.ProjectKey,
		},
		Summary:     input.Summary,
		Description: input.Description,
		Type: jira.IssueType{
			Name: input.IssueType,
		},
	}

	if input.AssigneeEmail != "" {
		accountID, err := c.ResolveAccountID(ctx, input.AssigneeEmail)
		if err != nil {
			return "", fmt.Errorf("resolving assignee '%s': %w", input.AssigneeEmail, err)
		}
		fields.Assignee = &jira.User{AccountID: accountID}
	}

	if input.ReporterEmail != "" {
		accountID, err := c.ResolveAccountID(ctx, input.ReporterEmail)
		if err != nil {
			return "", fmt.Errorf("resolving reporter '%s': %w", input.ReporterEmail, err)
		}
		fields.Reporter = &jira.User{AccountID: accountID}
	}

	created, resp, err := s.client.Issue.CreateWithContext(ctx, &jira.Issue{Fields: fields})
	if err != nil {
		return "", classifyAPIError(err, resp)
	}

	logging.Info("created jira issue",
		"key", created.Key,
		"url", browseURL(s.baseURL, created.Key))
	return created.Key, nil
}

// GetIssueDetails fetches one issue and maps it to the caller-facing shape.
func (c *Client) GetIssueDetails(ctx context.Context, issueKey string) (models.IssueDetails, error) {
	if c.gate.Active() {
		return dryRunIssueDetails, nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return models.IssueDetails{}, err
	}

	issue, resp, err := s.client.Issue.GetWithContext(ctx, issueKey, nil)
	if err != nil {
		return models.IssueDetails{}, classifyAPIError(err, resp)
	}

	details := models.IssueDetails{
		Key:         issue.Key,
		URL:         browseURL(s.baseURL, issue.Key),
		Summary:     issue.Fields.Summary,
		Description: issue.Fields.Description,
	}
	if issue.Fields.Status != nil {
		details.Status = issue.Fields.Status.Name
	}
	if issue.Fields.Priority != nil {
		details.Priority = issue.Fields.Priority.Name
	}
	if issue.Fields.Reporter != nil {
		details.Reporter = issue.Fields.Reporter.DisplayName
	}
	if issue.Fields.Assignee != nil {
		details.Assignee = issue.Fields.Assignee.DisplayName
	}
	if created := time.Time(issue.Fields.Created); !created.IsZero() {
		details.Created = created.Format(jiraTimeLayout)
	}
	if updated := time.Time(issue.Fields.Updated); !updated.IsZero() {
		details.Updated = updated.Format(jiraTimeLayout)
	}

	return details, nil
}

// SearchIssues runs a JQL query and returns compact summaries.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]models.IssueSummary, error) {
	if c.gate.Active() {
		return dryRunIssueList, nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return nil, err
	}

	logging.Debug("searching jira issues", "jql", jql, "max_results", maxResults)

	options := &jira.SearchOptions{MaxResults: maxResults}
	issues, resp, err := s.client.Issue.SearchWithContext(ctx, jql, options)
	if err != nil {
		return nil, classifyAPIError(err, resp)
	}

	summaries := make([]models.IssueSummary, len(issues))
	for i, issue := range issues {
		summaries[i] = models.IssueSummary{
			Key:     issue.Key,
			Summary: issue.Fields.Summary,
			URL:     browseURL(s.baseURL, issue.Key),
		}
	}
	return summaries, nil
}

// SearchUserIssues returns the latest issues a user reported or is assigned
// to within a project, newest first.
func (c *Client) SearchUserIssues(ctx context.Context, email, projectKey string, maxResults int) ([]models.IssueSummary, error) {
	if c.gate.Active() {
		return dryRunIssueList, nil
	}

	accountID, err := c.ResolveAccountID(ctx, email)
	if err != nil {
		return nil, err
	}

	jql := fmt.Sprintf("project=%s AND (reporter='%s' OR assignee='%s') ORDER BY created DESC",
		projectKey, accountID, accountID)
	return c.SearchIssues(ctx, jql, maxResults)
}

// AssignIssue assigns an issue to the user with the given email.
func (c *Client) AssignIssue(ctx context.Context, issueKey, assigneeEmail string) error {
	if c.gate.Active() {
		return nil
	}

	accountID, err := c.ResolveAccountID(ctx, assigneeEmail)
	if err != nil {
		return fmt.Errorf("resolving assignee '%s': %w", assigneeEmail, err)
	}

	s, err := c.sessions.Session()
	if err != nil {
		return err
	}

	payload := map[string]string{"accountId": accountID}
	if _, err := s.put(ctx, "/rest/api/3/issue/"+issueKey+"/assignee", payload); err != nil {
		return fmt.Errorf("assigning %s to %s: %w", issueKey, assigneeEmail, err)
	}

	logging.Info("assigned jira issue", "issue", issueKey, "assignee", assigneeEmail)
	return nil
}

// UpdateReporter changes the reporter of an issue.
func (c *Client) UpdateReporter(ctx context.Context, issueKey, reporterEmail string) error {
	if c.gate.Active() {
		return nil
	}

	accountID, err := c.ResolveAccountID(ctx, reporterEmail)
	if err != nil {
		return fmt.Errorf("resolving reporter '%s': %w", reporterEmail, err)
	}

	s, err := c.sessions.Session()
	if err != nil {
		return err
	}

	payload := map[string]any{
		"fields": map[string]any{
			"reporter": map[string]string{"id": accountID},
		},
	}
	if _, err := s.put(ctx, "/rest/api/3/issue/"+issueKey, payload); err != nil {
		return fmt.Errorf("updating reporter on %s: %w", issueKey, err)
	}

	logging.Info("updated issue reporter", "issue", issueKey, "reporter", reporterEmail)
	return nil
}

// AddLabel appends a label to an issue without disturbing existing labels.
func (c *Client) AddLabel(ctx context.Context, issueKey, label string) error {
	if c.gate.Active() {
		return nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return err
	}

	payload := map[string]any{
		"update": map[string]any{
			"labels": []map[string]string{{"add": label}},
		},
	}
	if _, err := s.put(ctx, "/rest/api/3/issue/"+issueKey, payload); err != nil {
		return fmt.Errorf("adding label '%s' to %s: %w", label, issueKey, err)
	}

	logging.Info("added issue label", "issue", issueKey, "label", label)
	return nil
}
