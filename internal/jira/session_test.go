package jira

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danielolaszy/rivet/internal/config"
)

func basicConfig(url string) config.JiraConfig {
	return config.JiraConfig{
		URL:      url,
		AuthType: config.AuthTypeBasic,
		Username: "user@example.com",
		APIToken: "secret",
		Timeout:  2 * time.Second,
	}
}

func TestNewSessionURLNormalization(t *testing.T) {
	testCases := []struct {
		name    string
		url     string
		wantURL string
	}{
		{
			name:    "Cloud URL without scheme gets https",
			url:     "example.atlassian.net",
			wantURL: "https://example.atlassian.net",
		},
		{
			name:    "Cloud URL with scheme is untouched",
			url:     "https://example.atlassian.net",
			wantURL: "https://example.atlassian.net",
		},
		{
			name:    "Self-hosted URL keeps its scheme",
			url:     "http://jira.internal:8080",
			wantURL: "http://jira.internal:8080",
		},
		{
			name:    "Trailing slash is trimmed",
			url:     "https://example.atlassian.net/",
			wantURL: "https://example.atlassian.net",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := newSession(basicConfig(tc.url))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.BaseURL() != tc.wantURL {
				t.Errorf("expected base URL %q, got %q", tc.wantURL, s.BaseURL())
			}
		})
	}
}

func TestNewSessionMissingURL(t *testing.T) {
	cfg := basicConfig("")
	_, err := newSession(cfg)

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestSessionManagerConcurrentFirstUse(t *testing.T) {
	manager := NewSessionManager(basicConfig("https://example.atlassian.net"))

	const callers = 64
	sessions := make([]*Session, callers)
	errs := make([]error, callers)

	var start sync.WaitGroup
	var done sync.WaitGroup
	start.Add(1)
	done.Add(callers)

	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			sessions[i], errs[i] = manager.Session()
		}(i)
	}
	start.Done()
	done.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d got error: %v", i, errs[i])
		}
		if sessions[i] == nil {
			t.Fatalf("caller %d got nil session", i)
		}
		if sessions[i] != sessions[0] {
			t.Errorf("caller %d got a different session instance", i)
		}
	}
}

func TestSessionManagerReusesSession(t *testing.T) {
	manager := NewSessionManager(basicConfig("https://example.atlassian.net"))

	first, err := manager.Session()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := manager.Session()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected the same session on repeated calls")
	}
}

func TestSessionManagerDoesNotCacheFailure(t *testing.T) {
	cfg := basicConfig("https://example.atlassian.net")
	cfg.Username = "" // construction will fail
	manager := NewSessionManager(cfg)

	if _, err := manager.Session(); err == nil {
		t.Fatal("expected construction to fail")
	}

	// A failed construction must not be cached: the next caller retries
	// and observes the failure again rather than a stale nil session.
	if _, err := manager.Session(); err == nil {
		t.Fatal("expected retry to fail again")
	}
	if s := manager.session.Load(); s != nil {
		t.Error("failed construction should not store a session")
	}
}
