package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"

	jira "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/rivet/internal/logging"
)

// get issues a GET against the REST path and returns the parsed JSON body.
func (s *Session) get(ctx context.Context, path string) (json.RawMessage, error) {
	return s.do(ctx, http.MethodGet, path, nil)
}

// post issues a POST with a JSON-encoded body.
func (s *Session) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return s.do(ctx, http.MethodPost, path, body)
}

// put issues a PUT with a JSON-encoded body.
func (s *Session) put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return s.do(ctx, http.MethodPut, path, body)
}

// do performs a single HTTP call against the instance. Every failure path is
// classified before returning: transport failures become *ConnectionError,
// non-2xx statuses become *ProtocolError carrying the raw body, and a
// success body that is not valid JSON becomes *MalformedResponseError.
// Calls are made exactly once; retry policy belongs to the caller.
func (s *Session) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &UnexpectedError{Err: fmt.Errorf("encoding request body: %w", err), Stack: debug.Stack()}
		}
		reader = bytes.NewReader(encoded)
	}

	fullURL := s.baseURL + path
	logging.Debug("sending jira request", "method", method, "url", fullURL)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid request for '%s': %v", fullURL, err)}
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	logging.Debug("received jira response", "method", method, "url", fullURL, "status", resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	// 204 No Content and empty bodies are legitimate successes.
	if len(data) == 0 {
		return nil, nil
	}

	if !json.Valid(data) {
		return nil, &MalformedResponseError{Err: fmt.Errorf("body is not valid JSON")}
	}

	return json.RawMessage(data), nil
}

// decode unmarshals a response body into its schema struct. A shape mismatch
// is a contract violation, reported as *MalformedResponseError.
func decode(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{Err: err}
	}
	return nil
}

// classifyTransport maps a transport-level failure into the error taxonomy.
// Timeouts (including context deadlines) and connection failures are
// transient ConnectionErrors; anything unrecognized is wrapped with a stack
// trace for log-side diagnosis.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ConnectionError{Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ConnectionError{Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &ConnectionError{Err: err}
	}

	return &UnexpectedError{Err: err, Stack: debug.Stack()}
}

// classifyAPIError normalizes a failure from the typed go-jira client. The
// library surfaces HTTP failures together with the response, so a response
// with a status code becomes a *ProtocolError and everything else goes
// through transport classification.
func classifyAPIError(err error, resp *jira.Response) error {
	if err == nil {
		return nil
	}
	if resp != nil && resp.Response != nil {
		return &ProtocolError{StatusCode: resp.StatusCode, Body: err.Error()}
	}
	return classifyTransport(err)
}
