// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported authentication schemes for the JIRA connection.
const (
	AuthTypeBasic = "basic"
	AuthTypeToken = "token"
	AuthTypeOAuth = "oauth"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Jira   JiraConfig
	DryRun bool
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	// URL is the base URL of the JIRA instance (e.g., "https://example.atlassian.net").
	URL string

	// AuthType selects the authentication scheme: "basic", "token" or "oauth".
	AuthType string

	// Username and APIToken are used by the basic scheme.
	Username string
	APIToken string

	// PersonalAccessToken is used by the token scheme.
	PersonalAccessToken string

	// OAuth holds the credential bundle for the oauth scheme.
	OAuth OAuthConfig

	// Timeout bounds every network round-trip.
	Timeout time.Duration
}

// OAuthConfig holds the OAuth1 credential bundle.
type OAuthConfig struct {
	AccessToken       string
	AccessTokenSecret string
	ConsumerKey       string
	ConsumerSecret    string
	SignatureMethod   string
}

// LoadConfig initializes and loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("jira.url", "JIRA_URL")
	v.BindEnv("jira.auth.type", "JIRA_AUTH_TYPE")
	v.BindEnv("jira.username", "JIRA_USERNAME")
	v.BindEnv("jira.api.token", "JIRA_API_TOKEN")
	v.BindEnv("jira.personal.access.token", "JIRA_PERSONAL_ACCESS_TOKEN")
	v.BindEnv("jira.oauth.access.token", "JIRA_OAUTH_ACCESS_TOKEN")
	v.BindEnv("jira.oauth.access.token.secret", "JIRA_OAUTH_ACCESS_TOKEN_SECRET")
	v.BindEnv("jira.oauth.consumer.key", "JIRA_OAUTH_CONSUMER_KEY")
	v.BindEnv("jira.oauth.consumer.secret", "JIRA_OAUTH_CONSUMER_SECRET")
	v.BindEnv("jira.oauth.signature.method", "JIRA_OAUTH_SIGNATURE_METHOD")
	v.BindEnv("jira.timeout", "JIRA_TIMEOUT")
	v.BindEnv("dryrun", "DRYRUN")

	v.SetDefault("jira.auth.type", AuthTypeBasic)
	v.SetDefault("jira.oauth.signature.method", "HMAC-SHA1")
	v.SetDefault("jira.timeout", "30s")

	// Create config structure
	config := &Config{
		Jira: JiraConfig{
			URL:                 v.GetString("jira.url"),
			AuthType:            strings.ToLower(v.GetString("jira.auth.type")),
			Username:            v.GetString("jira.username"),
			APIToken:            v.GetString("jira.api.token"),
			PersonalAccessToken: v.GetString("jira.personal.access.token"),
			OAuth: OAuthConfig{
				AccessToken:       v.GetString("jira.oauth.access.token"),
				AccessTokenSecret: v.GetString("jira.oauth.access.token.secret"),
				ConsumerKey:       v.GetString("jira.oauth.consumer.key"),
				ConsumerSecret:    v.GetString("jira.oauth.consumer.secret"),
				SignatureMethod:   v.GetString("jira.oauth.signature.method"),
			},
			Timeout: v.GetDuration("jira.timeout"),
		},
		DryRun: v.GetBool("dryrun"),
	}

	if config.Jira.Timeout <= 0 {
		config.Jira.Timeout = 30 * time.Second
	}

	// Validate configuration
	if err := ValidateJiraConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateJiraConfig ensures that all values required by the selected
// authentication scheme are provided. Every missing variable is reported,
// not just the first one encountered.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.URL == "" {
		missingVars = append(missingVars, "JIRA_URL")
	}

	switch config.Jira.AuthType {
	case AuthTypeBasic:
		if config.Jira.Username == "" {
			missingVars = append(missingVars, "JIRA_USERNAME")
		}
		if config.Jira.APIToken == "" {
			missingVars = append(missingVars, "JIRA_API_TOKEN")
		}
	case AuthTypeToken:
		if config.Jira.PersonalAccessToken == "" {
			missingVars = append(missingVars, "JIRA_PERSONAL_ACCESS_TOKEN")
		}
	case AuthTypeOAuth:
		if config.Jira.OAuth.AccessToken == "" {
			missingVars = append(missingVars, "JIRA_OAUTH_ACCESS_TOKEN")
		}
		if config.Jira.OAuth.AccessTokenSecret == "" {
			missingVars = append(missingVars, "JIRA_OAUTH_ACCESS_TOKEN_SECRET")
		}
		if config.Jira.OAuth.ConsumerKey == "" {
			missingVars = append(missingVars, "JIRA_OAUTH_CONSUMER_KEY")
		}
		if config.Jira.OAuth.ConsumerSecret == "" {
			missingVars = append(missingVars, "JIRA_OAUTH_CONSUMER_SECRET")
		}
		if config.Jira.OAuth.SignatureMethod == "" {
			missingVars = append(missingVars, "JIRA_OAUTH_SIGNATURE_METHOD")
		}
	default:
		return fmt.Errorf("unsupported authentication type: '%s', supported types are '%s', '%s' and '%s'",
			config.Jira.AuthType, AuthTypeBasic, AuthTypeToken, AuthTypeOAuth)
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
