package jira

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	jira "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/rivet/internal/config"
	"github.com/danielolaszy/rivet/internal/logging"
)

// Session is the long-lived authenticated connection handle shared by all
// connector operations. It is immutable once constructed and safe for
// unsynchronized concurrent use.
type Session struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client

	// client is the typed API client layered over httpClient, used for the
	// high-level issue operations.
	client *jira.Client
}

// BaseURL returns the normalized base URL of the JIRA instance.
func (s *Session) BaseURL() string { return s.baseURL }

// newSession validates the configuration, builds the authorization context
// and constructs the typed client. No network access is performed; invalid
// credentials surface on the first operation.
func newSession(cfg config.JiraConfig) (*Session, error) {
	if cfg.URL == "" {
		return nil, &ConfigurationError{Missing: []string{"url"}}
	}

	baseURL := cfg.URL
	if isCloudURL(baseURL) {
		baseURL = withSecureScheme(baseURL)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	auth, err := newAuthContext(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := auth.client
	httpClient.Timeout = cfg.Timeout

	client, err := jira.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid jira url '%s': %v", baseURL, err)}
	}

	logging.Debug("jira session constructed",
		"url", baseURL,
		"auth_type", cfg.AuthType,
		"timeout", cfg.Timeout)

	return &Session{
		baseURL:    baseURL,
		headers:    auth.headers,
		httpClient: httpClient,
		client:     client,
	}, nil
}

// isCloudURL reports whether the URL belongs to the Atlassian cloud offering.
func isCloudURL(url string) bool {
	return strings.Contains(url, "atlassian.net")
}

// withSecureScheme prepends https:// when the URL has no explicit scheme.
func withSecureScheme(url string) string {
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}

// SessionManager lazily constructs and caches exactly one Session. It is
// created once at process start and passed to every component that needs the
// connection; there is no package-level instance.
//
// Construction uses double-checked locking so the already-constructed path
// stays lock-free. A failed construction is not cached: the next caller
// retries from scratch.
type SessionManager struct {
	cfg     config.JiraConfig
	mu      sync.Mutex
	session atomic.Pointer[Session]
}

// NewSessionManager returns a manager that will connect with the given
// configuration on first use.
func NewSessionManager(cfg config.JiraConfig) *SessionManager {
	return &SessionManager{cfg: cfg}
}

// Session returns the shared session, constructing it on first call.
// Concurrent first callers block until the single construction completes and
// then all receive the same session.
func (m *SessionManager) Session() (*Session, error) {
	if s := m.session.Load(); s != nil {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.session.Load(); s != nil {
		return s, nil
	}

	s, err := newSession(m.cfg)
	if err != nil {
		return nil, err
	}
	m.session.Store(s)
	return s, nil
}
