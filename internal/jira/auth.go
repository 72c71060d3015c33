package jira

import (
	"context"
	"net/http"

	jira "github.com/andygrunwald/go-jira"
	"github.com/dghubble/oauth1"
	"golang.org/x/oauth2"

	"github.com/danielolaszy/rivet/internal/config"
)

// signatureMethodHMACSHA1 is the only OAuth1 signature method the connector
// signs with. RSA-SHA1 key material handling is deliberately not supported.
const signatureMethodHMACSHA1 = "HMAC-SHA1"

// authContext is the product of an authentication strategy: an HTTP client
// whose transport injects credentials, plus the default headers attached to
// every request. It is never mutated after construction.
type authContext struct {
	client  *http.Client
	headers map[string]string
}

// newAuthContext builds the authorization context for the configured scheme.
// Construction is pure: the same configuration always yields an equivalent
// context, and no network access is performed. A *ConfigurationError naming
// every missing credential field is returned when the scheme is incomplete.
func newAuthContext(cfg config.JiraConfig) (*authContext, error) {
	headers := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}

	switch cfg.AuthType {
	case config.AuthTypeBasic:
		var missing []string
		if cfg.Username == "" {
			missing = append(missing, "username")
		}
		if cfg.APIToken == "" {
			missing = append(missing, "api token")
		}
		if len(missing) > 0 {
			return nil, &ConfigurationError{Missing: missing}
		}
		tp := jira.BasicAuthTransport{
			Username: cfg.Username,
			Password: cfg.APIToken,
		}
		return &authContext{client: tp.Client(), headers: headers}, nil

	case config.AuthTypeToken:
		if cfg.PersonalAccessToken == "" {
			return nil, &ConfigurationError{Missing: []string{"personal access token"}}
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.PersonalAccessToken})
		return &authContext{client: oauth2.NewClient(context.Background(), ts), headers: headers}, nil

	case config.AuthTypeOAuth:
		var missing []string
		if cfg.OAuth.AccessToken == "" {
			missing = append(missing, "access token")
		}
		if cfg.OAuth.AccessTokenSecret == "" {
			missing = append(missing, "access token secret")
		}
		if cfg.OAuth.ConsumerKey == "" {
			missing = append(missing, "consumer key")
		}
		if cfg.OAuth.ConsumerSecret == "" {
			missing = append(missing, "consumer secret")
		}
		if cfg.OAuth.SignatureMethod == "" {
			missing = append(missing, "signature method")
		}
		if len(missing) > 0 {
			return nil, &ConfigurationError{Missing: missing}
		}
		if cfg.OAuth.SignatureMethod != signatureMethodHMACSHA1 {
			return nil, &ConfigurationError{
				Reason: "unsupported oauth signature method '" + cfg.OAuth.SignatureMethod +
					"', only " + signatureMethodHMACSHA1 + " is supported",
			}
		}
		oc := oauth1.NewConfig(cfg.OAuth.ConsumerKey, cfg.OAuth.ConsumerSecret)
		token := oauth1.NewToken(cfg.OAuth.AccessToken, cfg.OAuth.AccessTokenSecret)
		return &authContext{client: oc.Client(oauth1.NoContext, token), headers: headers}, nil

	default:
		return nil, &ConfigurationError{
			Reason: "unsupported authentication type '" + cfg.AuthType +
				"', supported types are 'basic', 'token' and 'oauth'",
		}
	}
}
