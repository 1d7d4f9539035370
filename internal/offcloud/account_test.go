package offcloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestLoginAndAPIKey_SessionCookieFlow(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var creds loginRequest
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &creds)
			if creds.Username != "user@example.com" || creds.Password != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok-1"})
			_, _ = w.Write([]byte(`{}`))
		case "/key":
			cookie, err := r.Cookie("session")
			if err != nil || cookie.Value != "tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"apiKey": "fresh-key"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := c.Login(context.Background(), "user@example.com", "hunter2"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	key, err := c.APIKey(context.Background())
	if err != nil {
		t.Fatalf("APIKey returned error: %v", err)
	}
	if key != "fresh-key" {
		t.Fatalf("APIKey = %q, want fresh-key", key)
	}
}

func TestAPIKey_MissingKeyIsServiceError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = c.APIKey(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindService {
		t.Fatalf("APIKey error = %v, want service error", err)
	}
}

func TestLogin_RequiresCredentials(t *testing.T) {
	t.Parallel()

	c, err := New("127.0.0.1:1", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := c.Login(context.Background(), "", "pw"); err == nil {
		t.Fatalf("Login accepted empty username")
	}
	if err := c.Login(context.Background(), "user", ""); err == nil {
		t.Fatalf("Login accepted empty password")
	}
}

func TestAccountStats(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account/stats" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"email": "user@example.com", "isPremium": true, "limits": {"cloud": 107374182400, "links": 50}}`))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	stats, err := c.AccountStats(context.Background())
	if err != nil {
		t.Fatalf("AccountStats returned error: %v", err)
	}
	if !stats.IsPremium || stats.Email != "user@example.com" {
		t.Fatalf("stats = %#v, want premium user", stats)
	}
	if stats.Limits.Cloud != 107374182400 || stats.Limits.Links != 50 {
		t.Fatalf("limits = %#v, want cloud and links quotas", stats.Limits)
	}
}

func TestHistory_QueryEncodingAndShapes(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	wrapped := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		if wrapped {
			_, _ = w.Write([]byte(`{"history": [{"requestId": "h2", "fileName": "b.zip", "status": "downloaded"}]}`))
			return
		}
		_, _ = w.Write([]byte(`[{"requestId": "h1", "fileName": "a.zip", "status": "error"}]`))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	entries, err := c.History(context.Background(), HistoryQuery{Limit: 20, Offset: 40, Sort: "createdOn", Order: "desc"})
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].RequestID != "h1" {
		t.Fatalf("entries = %#v, want h1", entries)
	}
	if gotQuery.Get("limit") != "20" ||
		gotQuery.Get("offset") != "40" ||
		gotQuery.Get("sort") != "createdOn" ||
		gotQuery.Get("order") != "desc" ||
		gotQuery.Get("key") != "k" {
		t.Fatalf("History query = %v, want params encoded", gotQuery)
	}

	wrapped = true
	entries, err = c.History(context.Background(), HistoryQuery{})
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].RequestID != "h2" {
		t.Fatalf("entries = %#v, want h2 from wrapped shape", entries)
	}
	if gotQuery.Get("limit") != "" {
		t.Fatalf("History query = %v, want zero values omitted", gotQuery)
	}
}

func TestProxiesAndRemoteAccounts_WrapperShapes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/proxy":
			_, _ = w.Write([]byte(`{"list": [{"id": "p1", "name": "EU proxy", "region": "eu"}]}`))
		case "/remote/accounts":
			_, _ = w.Write([]byte(`{"data": [{"remoteOptionId": "ro1", "provider": "gdrive", "path": "/backups"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	proxies, err := c.Proxies(context.Background())
	if err != nil {
		t.Fatalf("Proxies returned error: %v", err)
	}
	if len(proxies) != 1 || proxies[0].ID != "p1" {
		t.Fatalf("proxies = %#v, want p1", proxies)
	}

	accounts, err := c.RemoteAccounts(context.Background())
	if err != nil {
		t.Fatalf("RemoteAccounts returned error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].RemoteOptionID != "ro1" {
		t.Fatalf("accounts = %#v, want ro1", accounts)
	}
}

func TestCheckCache(t *testing.T) {
	t.Parallel()

	var gotBody map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cache" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"cachedItems": ["aaa"]}`))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	res, err := c.CheckCache(context.Background(), []string{"aaa", "bbb"})
	if err != nil {
		t.Fatalf("CheckCache returned error: %v", err)
	}
	if len(res.CachedItems) != 1 || res.CachedItems[0] != "aaa" {
		t.Fatalf("result = %#v, want aaa cached", res)
	}
	if len(gotBody["hashes"]) != 2 {
		t.Fatalf("body = %v, want both hashes sent", gotBody)
	}

	if _, err := c.CheckCache(context.Background(), nil); err == nil {
		t.Fatalf("CheckCache accepted empty hash list")
	}
}

func TestRetryJob(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := c.RetryJob(context.Background(), JobHandle{RequestID: "req-8", Kind: JobRemote}); err != nil {
		t.Fatalf("RetryJob returned error: %v", err)
	}
	if gotPath != "/remote/retry/req-8" {
		t.Fatalf("path = %q, want /remote/retry/req-8", gotPath)
	}

	if err := c.RetryJob(context.Background(), JobHandle{RequestID: "req-8", Kind: JobInstant}); err == nil {
		t.Fatalf("RetryJob accepted instant handle")
	}
	if err := c.RetryJob(context.Background(), JobHandle{Kind: JobCloud}); err == nil {
		t.Fatalf("RetryJob accepted empty request id")
	}
}
