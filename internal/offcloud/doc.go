// Package offcloud provides an HTTP client for an Offcloud-style download
// aggregation service.
//
// # Overview
//
// This package defines the API client ferry uses to submit source locators
// (direct URLs, magnet links, torrent hashes), follow server-side progress,
// and resolve the downloadable contents of finished jobs. It owns HTTP
// communication, response classification, status normalization, completion
// polling, and the transient retry policy. It never touches the local disk;
// retrieval of resolved files lives in internal/fetch.
//
// # Architecture
//
// The package is split by concern:
//
//   - client.go: transport plumbing, request building, the Service interface
//   - errors.go: the error taxonomy and the response classifier
//   - status.go: the canonical Status set and envelope normalization
//   - submit.go: the three submission pipelines (instant, cloud, remote)
//   - poll.go: AwaitCompletion, the blocking completion poller
//   - retry.go: the transient backoff combinator
//   - archive.go: content resolution with the explore/list fallback
//   - account.go: login, account stats, history, proxies, cache checks
//
// # Client Usage
//
// Create a client with the API root and key from configuration, submit a
// source, then wait for it:
//
//	client, err := offcloud.New("", cfg.APIKey)
//	if err != nil {
//		return err
//	}
//	handle, err := client.SubmitCloud(ctx, "https://example.com/big.iso")
//	if err != nil {
//		return err
//	}
//	rec, err := client.AwaitCompletion(ctx, handle, offcloud.PollOptions{
//		Interval: 5 * time.Second,
//		Timeout:  time.Hour,
//	})
//	if err != nil {
//		return err
//	}
//	entries, err := client.ListFiles(ctx, handle.RequestID)
//
// # Authentication
//
// Every call carries the API key as the "key" query parameter. The key
// itself comes from the login flow: Login establishes a session cookie in
// the client's jar, APIKey exchanges that session for the key, and the
// config layer persists it. Instant, cloud and remote submissions share this
// scheme.
//
// # Error Handling
//
// All service failures pass through a single classifier. HTTP statuses map
// directly: 401 authentication, 404 not found, 429 rate limited, 502
// malformed request (the service's convention), anything else non-2xx a
// generic service error carrying status and body. Successful statuses are
// probed for the service's JSON error markers: an "error" value equal to
// "Temporary error" classifies as transient, any other "error" value as a
// service error, and a "not_available" value as a feature gap on the
// account's plan.
//
// Callers match classes with errors.Is against the package sentinels
// (ErrAuthentication, ErrNotFound, ErrRateLimited, ErrTransient,
// ErrFeatureUnavailable) and read details through errors.As on *Error.
// Terminal polling outcomes use dedicated types: *DownloadFailedError wraps
// the last status record of a failed job, *TimeoutError reports the elapsed
// wall-clock time.
//
// # Status Lifecycle
//
// The service reports jobs as created, queued, downloading, processing,
// downloaded or error. ParseStatus folds created into queued and maps
// unrecognized strings to StatusUnknown rather than failing: an unknown
// state is not a terminal one, so the poller keeps waiting. Status payloads
// arrive in two envelope shapes (fields at the top level, or nested under a
// "status" object); decodeStatusRecord normalizes both identically for
// cloud and remote jobs.
//
// # Polling And Retry
//
// AwaitCompletion sleeps between status checks and applies a literal
// wall-clock timeout. Temporary errors on the status endpoint trigger a
// fixed 30 second cooldown that repeats as long as the timeout allows; they
// are hiccups of the check, not job state changes. Submission, content
// resolution and account calls use the separate Retry combinator instead:
// up to three attempts with waits doubling from ten seconds, retrying only
// errors that match ErrTransient. Every wait in the package selects on
// ctx.Done, so cancellation is prompt.
//
// # Content Resolution
//
// ListFiles tries the structured explore endpoint first and falls back to
// the plain-text list endpoint when explore fails or yields nothing usable.
// Explore elements may be objects or bare URL strings; names missing from
// either shape fall back to a positional file_N placeholder, and bare URLs
// derive a name from their final path segment when it looks like a real
// filename. When both endpoints come up empty the error matches
// ErrNoDownloadableContent and records what each endpoint said.
//
// # Thread Safety
//
// The Client is safe for concurrent use. All mutable state lives in the
// underlying http.Client, and handles and records are plain values.
//
// # Testing Considerations
//
// When testing code that uses this package:
//   - Use httptest.Server to script endpoint responses
//   - Drive the poller with status sequences, not sleeps
//   - Check classification through errors.Is on the sentinels
//   - Cover both status envelope shapes
//
// # Design Rationale
//
// The client is deliberately blind to presentation and storage:
//   - No printing (the CLI and UI render; the client returns values)
//   - No disk access (internal/fetch streams resolved entries)
//   - No caching (every status check hits the service)
//
// This keeps each layer replaceable and the client small enough to fake
// behind the Service interface.
package offcloud
