package offcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Service captures the client surface the orchestration layer depends on.
// This interface is implemented by *Client and can be used for testing.
type Service interface {
	SubmitInstant(ctx context.Context, rawURL, proxyID string) (InstantResult, error)
	SubmitCloud(ctx context.Context, rawURL string) (JobHandle, error)
	SubmitRemote(ctx context.Context, rawURL string, opts RemoteOptions) (JobHandle, error)
	JobStatus(ctx context.Context, handle JobHandle) (StatusRecord, error)
	AwaitCompletion(ctx context.Context, handle JobHandle, opts PollOptions) (StatusRecord, error)
	ListFiles(ctx context.Context, requestID string) ([]ArchiveEntry, error)
	DownloadURL(requestID string) string
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the service's HTTP API. All calls carry the API key as a
// query parameter; the cookie jar holds the session established by Login.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	apiKey    string

	retryAttempts int
	retryBase     time.Duration
	cooldown      time.Duration
}

const (
	// DefaultBaseURL is the public API root used when none is configured.
	DefaultBaseURL = "https://offcloud.com/api"

	defaultUserAgent = "ferry/0.1"
	requestTimeout   = 30 * time.Second
)

// New builds a Client for the given API root. An empty baseURL selects
// DefaultBaseURL. The API key may be empty for the login flow.
func New(baseURL, apiKey string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		userAgent:     defaultUserAgent,
		apiKey:        strings.TrimSpace(apiKey),
		retryAttempts: defaultRetryAttempts,
		retryBase:     defaultRetryBase,
		cooldown:      transientCooldown,
	}, nil
}

// JobStatus fetches and normalizes one status snapshot for the job.
func (c *Client) JobStatus(ctx context.Context, handle JobHandle) (StatusRecord, error) {
	if c == nil {
		return StatusRecord{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(handle.RequestID) == "" {
		return StatusRecord{}, fmt.Errorf("request id required")
	}
	var endpoint string
	switch handle.Kind {
	case JobCloud, "":
		endpoint = "cloud"
	case JobRemote:
		endpoint = "remote"
	case JobInstant:
		return StatusRecord{}, fmt.Errorf("instant jobs have no status endpoint")
	default:
		return StatusRecord{}, fmt.Errorf("unknown job kind %q", handle.Kind)
	}
	body := struct {
		RequestID string `json:"requestId"`
	}{RequestID: handle.RequestID}
	raw, err := c.roundTrip(ctx, http.MethodPost, c.endpoint(endpoint, "status"), body)
	if err != nil {
		return StatusRecord{}, err
	}
	return decodeStatusRecord(raw)
}

// DownloadURL returns the site URL that serves the payload of a completed
// single-file job. Archive jobs are enumerated with ListFiles instead.
func (c *Client) DownloadURL(requestID string) string {
	root := *c.baseURL
	root.Path = ""
	root.RawQuery = ""
	return root.JoinPath("cloud", "download", requestID).String()
}

// endpoint joins path elements onto the API root and attaches the API key.
func (c *Client) endpoint(elem ...string) *url.URL {
	u := c.baseURL.JoinPath(elem...)
	if c.apiKey != "" {
		q := u.Query()
		q.Set("key", c.apiKey)
		u.RawQuery = q.Encode()
	}
	return u
}

// do executes a request and decodes the JSON response into dest. A nil dest
// discards the body after classification.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body, dest any) error {
	raw, err := c.roundTrip(ctx, method, u, body)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// roundTrip executes one request and runs the response through the
// classifier. The raw body is returned so callers can apply shape-tolerant
// decoding.
func (c *Client) roundTrip(ctx context.Context, method string, u *url.URL, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if err := classifyResponse(resp.StatusCode, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) withRetry(ctx context.Context, fn func(context.Context) error) error {
	return Retry(ctx, c.retryAttempts, c.retryBase, fn)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
