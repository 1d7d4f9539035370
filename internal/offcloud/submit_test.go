package offcloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSubmitCloud_ReturnsHandle(t *testing.T) {
	t.Parallel()

	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cloud" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"requestId": "req-9"})
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	handle, err := c.SubmitCloud(context.Background(), "magnet:?xt=urn:btih:abc")
	if err != nil {
		t.Fatalf("SubmitCloud returned error: %v", err)
	}
	if handle.RequestID != "req-9" || handle.Kind != JobCloud {
		t.Fatalf("handle = %#v, want req-9/cloud", handle)
	}
	if gotBody["url"] != "magnet:?xt=urn:btih:abc" {
		t.Fatalf("body = %v, want url field", gotBody)
	}
}

func TestSubmitCloud_MissingRequestID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "created"})
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = c.SubmitCloud(context.Background(), "http://example.com/f.zip")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindService {
		t.Fatalf("SubmitCloud error = %v, want service error", err)
	}
	if apiErr.Message != "no requestId in response" {
		t.Fatalf("Message = %q, want no requestId in response", apiErr.Message)
	}
}

func TestSubmitCloud_RequiresURL(t *testing.T) {
	t.Parallel()

	c, err := New("127.0.0.1:1", "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := c.SubmitCloud(context.Background(), "  "); err == nil {
		t.Fatalf("SubmitCloud accepted blank url")
	}
}

func TestSubmitRemote_EncodesOptions(t *testing.T) {
	t.Parallel()

	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/remote" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		gotBody = nil
		_ = json.Unmarshal(raw, &gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"requestId": "req-7"})
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	handle, err := c.SubmitRemote(context.Background(), "http://example.com/f.zip", RemoteOptions{
		RemoteOptionID: "gdrive-1",
		FolderID:       "folder-2",
	})
	if err != nil {
		t.Fatalf("SubmitRemote returned error: %v", err)
	}
	if handle.Kind != JobRemote {
		t.Fatalf("handle kind = %q, want remote", handle.Kind)
	}
	if gotBody["remoteOptionId"] != "gdrive-1" || gotBody["folderId"] != "folder-2" {
		t.Fatalf("body = %v, want remote options encoded", gotBody)
	}

	// Zero options stay off the wire so account defaults apply.
	_, err = c.SubmitRemote(context.Background(), "http://example.com/g.zip", RemoteOptions{})
	if err != nil {
		t.Fatalf("SubmitRemote returned error: %v", err)
	}
	if _, ok := gotBody["remoteOptionId"]; ok {
		t.Fatalf("body = %v, want remoteOptionId omitted", gotBody)
	}
}

func TestSubmitInstant_ReturnsResult(t *testing.T) {
	t.Parallel()

	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instant" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_ = json.NewEncoder(w).Encode(InstantResult{
			RequestID: "req-3",
			URL:       "https://cdn.example.com/f.zip",
			FileName:  "f.zip",
		})
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	res, err := c.SubmitInstant(context.Background(), "http://example.com/f.zip", "proxy-9")
	if err != nil {
		t.Fatalf("SubmitInstant returned error: %v", err)
	}
	if res.URL != "https://cdn.example.com/f.zip" || res.FileName != "f.zip" {
		t.Fatalf("result = %#v, want converted url and name", res)
	}
	if gotBody["proxyId"] != "proxy-9" {
		t.Fatalf("body = %v, want proxyId encoded", gotBody)
	}
}

func TestSubmit_RetriesTransientErrors(t *testing.T) {
	waits := stubSleep(t)

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			_, _ = w.Write([]byte(`{"error": "Temporary error"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"requestId": "req-5"})
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	handle, err := c.SubmitCloud(context.Background(), "http://example.com/f.zip")
	if err != nil {
		t.Fatalf("SubmitCloud returned error: %v", err)
	}
	if handle.RequestID != "req-5" {
		t.Fatalf("handle = %#v, want req-5", handle)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(*waits) != 2 || (*waits)[0] != 10*time.Second || (*waits)[1] != 20*time.Second {
		t.Fatalf("waits = %v, want [10s 20s]", *waits)
	}
}

func TestSubmit_DoesNotRetryServiceErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"error": "link unsupported"}`))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "k")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = c.SubmitCloud(context.Background(), "http://example.com/f.zip")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindService {
		t.Fatalf("SubmitCloud error = %v, want service error", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
