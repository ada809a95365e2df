// Package client is a thin HTTP/JSON client for the remote REST API. Every
// failure it returns is an apierr.Error: request construction, transport,
// TLS, body reading, classification of non-2xx or error-bearing responses,
// and decoding of successful ones.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alnah/go-twapi/internal/apierr"
)

// API configuration.
const (
	// API endpoints
	defaultBaseURL       = "https://api.twitter.com/1.1"
	defaultUploadBaseURL = "https://upload.twitter.com/1.1"

	defaultUserAgent = "go-twapi"

	// Retry configuration: GET requests only.
	defaultMaxRetries  = 2
	defaultBaseDelay   = 1 * time.Second
	defaultMaxDelay    = 30 * time.Second
	defaultHTTPTimeout = 30 * time.Second

	// Response size limit to prevent OOM from malformed responses (10MB)
	maxResponseSize = 10 * 1024 * 1024
)

// ErrEmptyToken indicates that the bearer token was not provided.
var ErrEmptyToken = errors.New("bearer token is required")

// httpDoer abstracts HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// validator is implemented by response types that check required fields
// after decoding. Returning an apierr.Error (typically MissingValue) passes
// it through unchanged; any other error becomes an InvalidResponseError.
type validator interface {
	Validate() error
}

// Client sends authenticated requests to the API.
// It is safe for concurrent use.
type Client struct {
	token        string
	base         *url.URL
	upload       *url.URL
	userAgent    string
	maxRetries   int
	baseDelay    time.Duration
	maxDelay     time.Duration
	httpTimeout  time.Duration
	pollInterval time.Duration
	httpClient   httpDoer

	rawBaseURL   string
	rawUploadURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL (for testing or proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.rawBaseURL = strings.TrimSuffix(u, "/")
	}
}

// WithUploadBaseURL sets a custom base URL for media endpoints.
func WithUploadBaseURL(u string) Option {
	return func(c *Client) {
		c.rawUploadURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(d httpDoer) Option {
	return func(c *Client) {
		c.httpClient = d
	}
}

// WithHTTPTimeout sets the HTTP client timeout.
// Ignored when a custom HTTP client is provided.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpTimeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts for GET requests.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.baseDelay = base
		}
		if max > 0 {
			c.maxDelay = max
		}
	}
}

// WithMediaPollInterval sets the delay between media status polls when the
// service does not suggest one.
func WithMediaPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// New creates a Client authenticating with the given bearer token.
// Returns ErrEmptyToken if token is empty, and a BadURLError if a base URL
// is not absolute.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	c := &Client{
		token:        token,
		rawBaseURL:   defaultBaseURL,
		rawUploadURL: defaultUploadBaseURL,
		userAgent:    defaultUserAgent,
		maxRetries:   defaultMaxRetries,
		baseDelay:    defaultBaseDelay,
		maxDelay:     defaultMaxDelay,
		httpTimeout:  defaultHTTPTimeout,
		pollInterval: defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	if c.base, err = parseBase(c.rawBaseURL); err != nil {
		return nil, err
	}
	if c.upload, err = parseBase(c.rawUploadURL); err != nil {
		return nil, err
	}

	// Create HTTP client after options are applied (timeout may be customized).
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.httpTimeout}
	}
	return c, nil
}

func parseBase(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %w", apierr.BadURL(raw))
	}
	return u, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get sends a GET request for path, relative to the base URL, and decodes
// the response into out. out may be nil to discard the body.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, params, out)
}

// Post sends a form-encoded POST request for path and decodes the response
// into out. POST requests are never retried.
func (c *Client) Post(ctx context.Context, path string, form url.Values, out any) error {
	return c.Do(ctx, http.MethodPost, path, form, out)
}

// Do sends a request for path, relative to the base URL. GET parameters go
// in the query string, POST parameters in a form body.
// A path that is itself an absolute URL is rejected with a BadURLError; use
// DoURL to follow absolute links.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, out any) error {
	if strings.Contains(path, "://") {
		return apierr.BadURL(path)
	}
	return c.send(ctx, method, c.base.JoinPath(path), params, out)
}

// DoURL sends a request to an absolute URL, such as a pagination link
// returned by a previous response. The URL must point inside the base URL;
// anything else is rejected with a BadURLError.
func (c *Client) DoURL(ctx context.Context, method, rawURL string, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil || !c.owns(u) {
		return apierr.BadURL(rawURL)
	}
	return c.send(ctx, method, u, nil, out)
}

// owns reports whether u targets the API base URL.
func (c *Client) owns(u *url.URL) bool {
	if !u.IsAbs() || u.Scheme != c.base.Scheme || u.Host != c.base.Host {
		return false
	}
	prefix := strings.TrimSuffix(c.base.Path, "/")
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

// send executes the request, retrying GETs on transient errors.
func (c *Client) send(ctx context.Context, method string, u *url.URL, params url.Values, out any) error {
	if method != http.MethodGet && method != http.MethodPost {
		return apierr.BadURL(method + " " + u.String())
	}

	attempt := func() (struct{}, error) {
		return struct{}{}, c.roundTrip(ctx, method, u, params, out)
	}

	var err error
	if method == http.MethodGet {
		cfg := RetryConfig{
			MaxRetries: c.maxRetries,
			BaseDelay:  c.baseDelay,
			MaxDelay:   c.maxDelay,
		}
		_, err = RetryWithBackoff(ctx, cfg, attempt, isRetryable)
	} else {
		_, err = attempt()
	}

	if err == nil {
		return nil
	}
	// Unwraps the retry wrapper. Cancellation while backing off surfaces as
	// a bare context error and becomes a TransportError.
	return apierr.Convert(err)
}

// roundTrip makes a single HTTP request and classifies its outcome.
func (c *Client) roundTrip(ctx context.Context, method string, u *url.URL, params url.Values, out any) (err error) {
	label := method + " " + u.Path

	req, err := c.newRequest(ctx, method, u, params)
	if err != nil {
		return apierr.BadURL(u.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.FromRequest(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = apierr.FromIO(closeErr)
		}
	}()

	// Limit response size to prevent OOM from malformed responses
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return apierr.FromIO(err)
	}

	raw := apierr.ResponseFrom(resp.StatusCode, resp.Header, body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || apierr.HasRemoteErrors(body) {
		return apierr.Classify(raw, label)
	}

	return decode(raw, label, out)
}

func (c *Client) newRequest(ctx context.Context, method string, u *url.URL, params url.Values) (*http.Request, error) {
	target := *u
	var body io.Reader

	switch method {
	case http.MethodGet:
		if len(params) > 0 {
			q := target.Query()
			for k, vs := range params {
				for _, v := range vs {
					q.Add(k, v)
				}
			}
			target.RawQuery = q.Encode()
		}
	case http.MethodPost:
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

// decode unmarshals a successful body into out and runs its validator.
func decode(raw apierr.Response, label string, out any) error {
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw.Body)) == 0 {
		return apierr.Classify(raw, label)
	}

	if err := json.Unmarshal(raw.Body, out); err != nil {
		// Field types may report their own unified error (e.g. timestamps).
		var unified apierr.Error
		if errors.As(err, &unified) {
			return unified
		}
		return apierr.FromDecode(err)
	}

	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			if _, ok := apierr.KindOf(err); ok {
				return err
			}
			return apierr.InvalidResponse(label+": "+err.Error(), string(raw.Body))
		}
	}
	return nil
}
