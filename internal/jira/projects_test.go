package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielolaszy/rivet/pkg/models"
)

func projectSearchHandler(t *testing.T, values string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/project/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprintf(w, `{"total": 0, "values": [%s]}`, values)
	}
}

func TestProjectByNameSingleMatch(t *testing.T) {
	server := httptest.NewServer(projectSearchHandler(t,
		`{"id": "10000", "key": "PLAT", "name": "Platform", "self": "https://example.atlassian.net/rest/api/3/project/10000"}`))
	defer server.Close()

	client := newTestClient(server.URL)
	ref, err := client.ProjectByName(context.Background(), "Platform")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.ProjectRef{
		ID:   "10000",
		Key:  "PLAT",
		Name: "Platform",
		URL:  "https://example.atlassian.net/rest/api/3/project/10000",
	}
	if ref != want {
		t.Errorf("got %+v, want %+v", ref, want)
	}
}

func TestProjectByNameNoMatch(t *testing.T) {
	server := httptest.NewServer(projectSearchHandler(t, ``))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ProjectByName(context.Background(), "Nonexistent")

	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %T: %v", err, err)
	}
}

func TestProjectByNameAmbiguous(t *testing.T) {
	server := httptest.NewServer(projectSearchHandler(t,
		`{"id": "10000", "key": "PLAT", "name": "Platform"},
		 {"id": "10001", "key": "PLAT2", "name": "Platform Two"}`))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ProjectByName(context.Background(), "Platform")

	var ambiguous *AmbiguousResultError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousResultError, got %T: %v", err, err)
	}
	// Matches carry project keys so the caller can retry with a unique key.
	if len(ambiguous.Matches) != 2 || ambiguous.Matches[0] != "PLAT" || ambiguous.Matches[1] != "PLAT2" {
		t.Errorf("expected project keys as matches, got %v", ambiguous.Matches)
	}
}

func TestCreateProjectResolvesLeadEmail(t *testing.T) {
	var created []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/api/3/groupuserpicker":
			w.Write([]byte(`{"users": {"users": [{"accountId": "lead-account-id", "displayName": "Lead"}]}}`))
		case "/rest/api/3/project":
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method: %s", r.Method)
			}
			body, _ := io.ReadAll(r.Body)
			created = body
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"self": "https://example.atlassian.net/rest/api/3/project/10042", "id": 10042, "key": "NEW"}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ref, err := client.CreateProject(context.Background(), CreateProjectInput{
		Name:           "New Project",
		Key:            "NEW",
		Lead:           "lead@example.com",
		ProjectTypeKey: "software",
		Description:    "A new project",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ref.ID != "10042" || ref.Key != "NEW" {
		t.Errorf("unexpected project ref: %+v", ref)
	}

	var payload map[string]any
	if err := json.Unmarshal(created, &payload); err != nil {
		t.Fatalf("creation payload is not valid JSON: %v", err)
	}
	if payload["leadAccountId"] != "lead-account-id" {
		t.Errorf("lead email should be resolved to an account id, got %v", payload["leadAccountId"])
	}
	if payload["assigneeType"] != "PROJECT_LEAD" {
		t.Errorf("expected PROJECT_LEAD assignee type, got %v", payload["assigneeType"])
	}
}

func TestCreateProjectUnresolvableLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/3/groupuserpicker" {
			w.Write([]byte(`{"users": {"users": []}}`))
			return
		}
		t.Errorf("project creation should not be attempted: %s", r.URL.Path)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateProject(context.Background(), CreateProjectInput{
		Name: "New Project",
		Key:  "NEW",
		Lead: "ghost@example.com",
	})

	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %T: %v", err, err)
	}
}

func TestUpdateProjectDescription(t *testing.T) {
	var updated []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/project/PLAT" || r.Method != http.MethodPut {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		updated = body
		w.Write([]byte(`{"key": "PLAT"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.UpdateProjectDescription(context.Background(), "PLAT", "fresh description"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(updated, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload["description"] != "fresh description" {
		t.Errorf("unexpected payload: %s", updated)
	}
}

func TestUpdateProjectLeadWithAccountID(t *testing.T) {
	var updated []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/3/groupuserpicker" {
			t.Error("an account id must not trigger email resolution")
		}
		body, _ := io.ReadAll(r.Body)
		updated = body
		w.Write([]byte(`{"key": "PLAT"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.UpdateProjectLead(context.Background(), "PLAT", "raw-account-id"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(updated, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload["leadAccountId"] != "raw-account-id" {
		t.Errorf("unexpected payload: %s", updated)
	}
}
