package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jiraEnvVars lists every environment variable the loader reads, so tests
// can start from a clean slate.
var jiraEnvVars = []string{
	"JIRA_URL",
	"JIRA_AUTH_TYPE",
	"JIRA_USERNAME",
	"JIRA_API_TOKEN",
	"JIRA_PERSONAL_ACCESS_TOKEN",
	"JIRA_OAUTH_ACCESS_TOKEN",
	"JIRA_OAUTH_ACCESS_TOKEN_SECRET",
	"JIRA_OAUTH_CONSUMER_KEY",
	"JIRA_OAUTH_CONSUMER_SECRET",
	"JIRA_OAUTH_SIGNATURE_METHOD",
	"JIRA_TIMEOUT",
	"DRYRUN",
}

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range jiraEnvVars {
		t.Setenv(key, "")
	}
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

func TestLoadConfigBasicAuth(t *testing.T) {
	setEnv(t, map[string]string{
		"JIRA_URL":       "https://example.atlassian.net",
		"JIRA_USERNAME":  "user@example.com",
		"JIRA_API_TOKEN": "secret-token",
	})

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net", config.Jira.URL)
	assert.Equal(t, AuthTypeBasic, config.Jira.AuthType)
	assert.Equal(t, "user@example.com", config.Jira.Username)
	assert.Equal(t, "secret-token", config.Jira.APIToken)
	assert.Equal(t, 30*time.Second, config.Jira.Timeout)
	assert.False(t, config.DryRun)
}

func TestLoadConfigMissingVariables(t *testing.T) {
	tests := []struct {
		name        string
		vars        map[string]string
		wantMissing []string
	}{
		{
			name: "Basic auth missing both credentials",
			vars: map[string]string{
				"JIRA_URL": "https://example.atlassian.net",
			},
			wantMissing: []string{"JIRA_USERNAME", "JIRA_API_TOKEN"},
		},
		{
			name: "Basic auth missing only token",
			vars: map[string]string{
				"JIRA_URL":      "https://example.atlassian.net",
				"JIRA_USERNAME": "user@example.com",
			},
			wantMissing: []string{"JIRA_API_TOKEN"},
		},
		{
			name: "Token auth missing PAT",
			vars: map[string]string{
				"JIRA_URL":       "https://example.atlassian.net",
				"JIRA_AUTH_TYPE": "token",
			},
			wantMissing: []string{"JIRA_PERSONAL_ACCESS_TOKEN"},
		},
		{
			name: "OAuth missing entire bundle",
			vars: map[string]string{
				"JIRA_URL":       "https://example.atlassian.net",
				"JIRA_AUTH_TYPE": "oauth",
			},
			wantMissing: []string{
				"JIRA_OAUTH_ACCESS_TOKEN",
				"JIRA_OAUTH_ACCESS_TOKEN_SECRET",
				"JIRA_OAUTH_CONSUMER_KEY",
				"JIRA_OAUTH_CONSUMER_SECRET",
			},
		},
		{
			name: "OAuth missing part of the bundle",
			vars: map[string]string{
				"JIRA_URL":                "https://example.atlassian.net",
				"JIRA_AUTH_TYPE":          "oauth",
				"JIRA_OAUTH_ACCESS_TOKEN": "tok",
				"JIRA_OAUTH_CONSUMER_KEY": "key",
			},
			wantMissing: []string{
				"JIRA_OAUTH_ACCESS_TOKEN_SECRET",
				"JIRA_OAUTH_CONSUMER_SECRET",
			},
		},
		{
			name:        "Missing URL",
			vars:        map[string]string{"JIRA_USERNAME": "u", "JIRA_API_TOKEN": "t"},
			wantMissing: []string{"JIRA_URL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.vars)

			config, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, config)

			// Every missing variable must be named, not just the first.
			for _, missing := range tt.wantMissing {
				assert.Contains(t, err.Error(), missing)
			}
		})
	}
}

func TestLoadConfigUnsupportedAuthType(t *testing.T) {
	setEnv(t, map[string]string{
		"JIRA_URL":       "https://example.atlassian.net",
		"JIRA_AUTH_TYPE": "kerberos",
	})

	config, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "kerberos")
	assert.Contains(t, err.Error(), "basic")
	assert.Contains(t, err.Error(), "token")
	assert.Contains(t, err.Error(), "oauth")
}

func TestLoadConfigOAuthComplete(t *testing.T) {
	setEnv(t, map[string]string{
		"JIRA_URL":                       "https://example.atlassian.net",
		"JIRA_AUTH_TYPE":                 "oauth",
		"JIRA_OAUTH_ACCESS_TOKEN":        "atok",
		"JIRA_OAUTH_ACCESS_TOKEN_SECRET": "asec",
		"JIRA_OAUTH_CONSUMER_KEY":        "ckey",
		"JIRA_OAUTH_CONSUMER_SECRET":     "csec",
	})

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, AuthTypeOAuth, config.Jira.AuthType)
	assert.Equal(t, "atok", config.Jira.OAuth.AccessToken)
	assert.Equal(t, "asec", config.Jira.OAuth.AccessTokenSecret)
	assert.Equal(t, "ckey", config.Jira.OAuth.ConsumerKey)
	assert.Equal(t, "csec", config.Jira.OAuth.ConsumerSecret)
	// Signature method falls back to the default when unset.
	assert.Equal(t, "HMAC-SHA1", config.Jira.OAuth.SignatureMethod)
}

func TestLoadConfigOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"JIRA_URL":       "https://example.atlassian.net",
		"JIRA_AUTH_TYPE": "BASIC", // mixed case is normalized
		"JIRA_USERNAME":  "u",
		"JIRA_API_TOKEN": "t",
		"JIRA_TIMEOUT":   "5s",
		"DRYRUN":         "true",
	})

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, AuthTypeBasic, config.Jira.AuthType)
	assert.Equal(t, 5*time.Second, config.Jira.Timeout)
	assert.True(t, config.DryRun)
}
