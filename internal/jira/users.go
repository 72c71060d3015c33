package jira

import (
	"context"
	"net/url"

	"github.com/danielolaszy/rivet/internal/logging"
)

// groupUserPickerResponse is the shape of /rest/api/3/groupuserpicker.
type groupUserPickerResponse struct {
	Users struct {
		Users []pickedUser `json:"users"`
		Total int          `json:"total"`
	} `json:"users"`
}

type pickedUser struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// ResolveAccountID maps a user email to the service's opaque account
// identifier. Zero matches return ErrAccountNotFound, which is a legitimate
// empty result rather than a failure. More than one match is an
// *AmbiguousResultError: every path that resolves accounts (issue creation,
// assignment, reporter update, project lead) goes through this method, so
// the ambiguity policy is uniform.
//
// Results are never cached; a fresh lookup is performed on every call.
func (c *Client) ResolveAccountID(ctx context.Context, email string) (string, error) {
	if c.gate.Active() {
		return dryRunAccountID, nil
	}

	s, err := c.sessions.Session()
	if err != nil {
		return "", err
	}

	raw, err := s.get(ctx, "/rest/api/3/groupuserpicker?query="+url.QueryEscape(email))
	if err != nil {
		return "", err
	}

	var parsed groupUserPickerResponse
	if err := decode(raw, &parsed); err != nil {
		return "", err
	}

	users := parsed.Users.Users
	switch len(users) {
	case 0:
		logging.Debug("no jira account for email", "email", email)
		return "", ErrAccountNotFound
	case 1:
		logging.Debug("resolved jira account",
			"email", email,
			"account_id", users[0].AccountID)
		return users[0].AccountID, nil
	default:
		names := make([]string, len(users))
		for i, u := range users {
			names[i] = u.DisplayName
		}
		return "", &AmbiguousResultError{Query: email, Matches: names}
	}
}
