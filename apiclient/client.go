// Package apiclient executes HTTP requests against the codejam
// authentication gateway: bounded timeout, optional bearer attachment, and a
// single normalized response envelope.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/codejam-dev/auth-client/credentials"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Envelope wraps every gateway response, success or failure.
type Envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	ErrorCode string          `json:"errorCode,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// TokenSource resolves the bearer token for authorized requests.
type TokenSource interface {
	BearerToken() (string, bool)
}

var _ TokenSource = StoreTokenSource{}

// StoreTokenSource resolves bearers from the credential store, preferring
// the full session token and falling back to the temp token issued for the
// OTP flow.
type StoreTokenSource struct {
	Store credentials.Store
}

func (s StoreTokenSource) BearerToken() (string, bool) {
	if token, ok := s.Store.Get(credentials.KeyAuthToken); ok {
		return token, true
	}
	return s.Store.Get(credentials.KeyTempToken)
}

// Client executes requests against a fixed base URL. It performs no retries;
// retry policy belongs to callers.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	timeout time.Duration
	log     zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout overrides the default 30 second request bound.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = logger
	}
}

// WithHTTPClient substitutes the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// New builds a Client for baseURL. tokens resolves bearers for requests made
// with includeAuth; it is required even when every call is anonymous, so
// misconfiguration fails at construction rather than mid-flow.
func New(baseURL string, tokens TokenSource, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[apiclient.New] baseURL is required")
	}
	if tokens == nil {
		return nil, errors.New("[apiclient.New] token source is required")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		tokens:  tokens,
		timeout: 30 * time.Second,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Post executes a POST against route. body may be nil; when out is non-nil
// the envelope's data object is decoded into it. A non-2xx status or a
// success=false envelope returns *Error.
func (c *Client) Post(ctx context.Context, route string, body any, includeAuth bool, out any) error {
	return c.do(ctx, http.MethodPost, route, body, includeAuth, out)
}

// Get executes a GET against route with the same envelope handling as Post.
func (c *Client) Get(ctx context.Context, route string, includeAuth bool, out any) error {
	return c.do(ctx, http.MethodGet, route, nil, includeAuth, out)
}

func (c *Client) do(ctx context.Context, method, route string, body any, includeAuth bool, out any) error {
	requestID := uuid.New().String()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] marshal request body")
		}
		reader = bytes.NewReader(encoded)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, reader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] build request")
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("X-Request-ID", requestID)
	if includeAuth {
		if token, ok := c.tokens.BearerToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.log.Debug().Str("request_id", requestID).Str("method", method).Str("route", route).Msg("auth api request")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			c.log.Warn().Str("request_id", requestID).Str("route", route).Msg("auth api request timed out")
			return &Error{Kind: KindTimeout, Message: "Request timeout", ErrorCode: string(KindTimeout), StatusCode: http.StatusRequestTimeout}
		}
		c.log.Warn().Str("request_id", requestID).Str("route", route).Err(err).Msg("auth api request failed")
		return &Error{Kind: KindNetwork, Message: err.Error(), ErrorCode: string(KindNetwork)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error(), ErrorCode: string(KindNetwork)}
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &Error{Kind: KindApplication, Message: http.StatusText(resp.StatusCode), StatusCode: resp.StatusCode}
		}
		return &Error{Kind: KindNetwork, Message: "malformed response body", ErrorCode: string(KindNetwork), StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !envelope.Success {
		message := envelope.Message
		if message == "" {
			message = "An error occurred"
		}
		return &Error{
			Kind:       KindApplication,
			Message:    message,
			ErrorCode:  envelope.ErrorCode,
			StatusCode: resp.StatusCode,
			Data:       envelope.Data,
		}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return errors.Wrap(err, "[Client.do] decode response data")
		}
	}
	return nil
}
