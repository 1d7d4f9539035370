package offcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// AccountLimits reports the remaining allowance per feature.
type AccountLimits struct {
	Cloud int64 `json:"cloud"`
	Links int64 `json:"links"`
}

// AccountStats describes the authenticated account.
type AccountStats struct {
	Email          string        `json:"email"`
	IsPremium      bool          `json:"isPremium"`
	ExpirationDate string        `json:"expirationDate"`
	Limits         AccountLimits `json:"limits"`
}

// HistoryQuery narrows and orders a history listing. Zero values are
// omitted from the request.
type HistoryQuery struct {
	Limit  int
	Offset int
	Sort   string
	Order  string
}

// HistoryEntry is one past job as the service remembers it. Status is kept
// verbatim for display.
type HistoryEntry struct {
	RequestID    string `json:"requestId"`
	FileName     string `json:"fileName"`
	Status       string `json:"status"`
	FileSize     uint64 `json:"fileSize"`
	IsDirectory  bool   `json:"isDirectory"`
	CreatedOn    string `json:"createdOn"`
	OriginalLink string `json:"originalLink"`
}

// Proxy is one conversion proxy available to instant jobs.
type Proxy struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Type   string `json:"type"`
}

// RemoteAccount is one configured external storage destination.
type RemoteAccount struct {
	RemoteOptionID string `json:"remoteOptionId"`
	Provider       string `json:"provider"`
	Path           string `json:"path"`
}

// CacheResult reports which of the queried hashes the service already holds.
type CacheResult struct {
	CachedItems []string `json:"cachedItems"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates with username and password. The resulting session
// cookie lives in the client's jar and backs the APIKey call.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if username == "" || password == "" {
		return fmt.Errorf("username and password required")
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint("login"), loginRequest{Username: username, Password: password}, nil); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// APIKey fetches the account's API key using the session from Login.
func (c *Client) APIKey(ctx context.Context) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	var payload struct {
		APIKey string `json:"apiKey"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint("key"), nil, &payload); err != nil {
		return "", fmt.Errorf("fetch api key: %w", err)
	}
	if payload.APIKey == "" {
		return "", &Error{Kind: KindService, Message: "no apiKey in response"}
	}
	return payload.APIKey, nil
}

// AccountStats fetches usage and limit information for the account.
func (c *Client) AccountStats(ctx context.Context) (AccountStats, error) {
	if c == nil {
		return AccountStats{}, fmt.Errorf("client is nil")
	}
	var payload AccountStats
	err := c.withRetry(ctx, func(ctx context.Context) error {
		payload = AccountStats{}
		return c.do(ctx, http.MethodGet, c.endpoint("account", "stats"), nil, &payload)
	})
	if err != nil {
		return AccountStats{}, fmt.Errorf("fetch account stats: %w", err)
	}
	return payload, nil
}

// History lists past jobs, newest first by default.
func (c *Client) History(ctx context.Context, query HistoryQuery) ([]HistoryEntry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	u := c.endpoint("history")
	values := u.Query()
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		values.Set("offset", strconv.Itoa(query.Offset))
	}
	if sort := strings.TrimSpace(query.Sort); sort != "" {
		values.Set("sort", sort)
	}
	if order := strings.TrimSpace(query.Order); order != "" {
		values.Set("order", order)
	}
	u.RawQuery = values.Encode()

	var raw []byte
	err := c.withRetry(ctx, func(ctx context.Context) error {
		var err error
		raw, err = c.roundTrip(ctx, http.MethodGet, u, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	entries, err := decodeList[HistoryEntry](raw, "history")
	if err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}
	return entries, nil
}

// Proxies lists the conversion proxies available to instant jobs.
func (c *Client) Proxies(ctx context.Context) ([]Proxy, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var raw []byte
	err := c.withRetry(ctx, func(ctx context.Context) error {
		var err error
		raw, err = c.roundTrip(ctx, http.MethodPost, c.endpoint("proxy"), nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch proxies: %w", err)
	}
	proxies, err := decodeList[Proxy](raw, "list")
	if err != nil {
		return nil, fmt.Errorf("decode proxy response: %w", err)
	}
	return proxies, nil
}

// RemoteAccounts lists the external storage destinations configured for the
// account.
func (c *Client) RemoteAccounts(ctx context.Context) ([]RemoteAccount, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var raw []byte
	err := c.withRetry(ctx, func(ctx context.Context) error {
		var err error
		raw, err = c.roundTrip(ctx, http.MethodPost, c.endpoint("remote", "accounts"), nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch remote accounts: %w", err)
	}
	accounts, err := decodeList[RemoteAccount](raw, "data")
	if err != nil {
		return nil, fmt.Errorf("decode remote accounts response: %w", err)
	}
	return accounts, nil
}

// CheckCache reports which of the given torrent hashes the service already
// has in storage.
func (c *Client) CheckCache(ctx context.Context, hashes []string) (CacheResult, error) {
	if c == nil {
		return CacheResult{}, fmt.Errorf("client is nil")
	}
	if len(hashes) == 0 {
		return CacheResult{}, fmt.Errorf("at least one hash required")
	}
	body := struct {
		Hashes []string `json:"hashes"`
	}{Hashes: hashes}
	var payload CacheResult
	err := c.withRetry(ctx, func(ctx context.Context) error {
		payload = CacheResult{}
		return c.do(ctx, http.MethodPost, c.endpoint("cache"), body, &payload)
	})
	if err != nil {
		return CacheResult{}, fmt.Errorf("check cache: %w", err)
	}
	return payload, nil
}

// RetryJob asks the service to restart a failed cloud or remote job.
func (c *Client) RetryJob(ctx context.Context, handle JobHandle) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(handle.RequestID) == "" {
		return fmt.Errorf("request id required")
	}
	switch handle.Kind {
	case JobCloud, JobRemote:
	default:
		return fmt.Errorf("cannot retry %q jobs", handle.Kind)
	}
	if _, err := c.roundTrip(ctx, http.MethodGet, c.endpoint(string(handle.Kind), "retry", handle.RequestID), nil); err != nil {
		return fmt.Errorf("retry %s job: %w", handle.Kind, err)
	}
	return nil
}

// decodeList tolerates both a bare JSON array and an object wrapping the
// array under the given key; the service is not consistent across endpoints.
func decodeList[T any](raw []byte, wrapperKey string) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	inner, ok := wrapper[wrapperKey]
	if !ok {
		return nil, nil
	}
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, err
	}
	return items, nil
}
