// Package app provides the orchestration layer for the ferry pipeline.
//
// # Overview
//
// This package connects the service client (internal/offcloud) to the
// transfer layer (internal/fetch) and runs sources end to end: submit, await
// completion, resolve contents, download. Commands that map onto a single
// service call (status, history, account) talk to the client directly; app
// exists for the multi-step flows behind get and fetch.
//
// # Pipeline
//
//	┌────────────┐
//	│  Get()     │
//	└─────┬──────┘
//	      │
//	      ├─────> Submit()            Queue the source (cloud or remote)
//	      ├─────> AwaitCompletion()   Poll until a terminal status
//	      ├─────> Resolve()           Direct link or archive enumeration
//	      └─────> Download()          Stream files into the target dir
//
// Fetch() runs the same pipeline from AwaitCompletion onward for a job that
// already exists, so re-fetching a finished job costs one status check.
//
// # Job Kinds
//
// The three submission kinds diverge after submit:
//
//   - Cloud jobs poll to completion and download locally.
//   - Remote jobs poll to completion and stop; the payload lands in the
//     user's external storage account, so there is nothing to download.
//   - Instant jobs skip polling entirely; the service answers the submission
//     with a direct link, which goes straight to Download.
//
// # Content Resolution
//
// A completed job is either a single file or an archive. Single files are
// served from a well-known per-job download link, so Resolve synthesizes one
// entry without another API call. Archives are enumerated through the
// client's ListFiles, which falls back across the service's two listing
// endpoints.
//
// # Events
//
// The Events struct carries optional callbacks for each pipeline milestone:
// submission accepted, status snapshot observed, contents resolved, chunk
// transferred, file settled. The terminal UI subscribes to all of them; the
// plain-output mode subscribes to a subset. All callbacks run on the
// pipeline's goroutine and should return quickly.
//
// # Error Handling
//
// Pipeline errors are returned as-is from the layer that produced them, so
// callers can use errors.Is and errors.As against the offcloud taxonomy
// (ErrAuthentication, ErrTransient, DownloadFailedError, TimeoutError, and
// friends).
// Per-file transfer failures do not abort the batch; they come back in the
// fetch.Result and are logged through the configured slog.Logger.
//
// # Usage Example
//
//	a := &app.App{Client: client, Logger: logger}
//	result, err := a.Get(ctx, app.Options{
//		URL:      "https://example.com/archive.zip",
//		Dir:      "./downloads",
//		Interval: cfg.PollInterval(),
//		Timeout:  cfg.Timeout(),
//	})
//	if err != nil {
//		return err
//	}
//	if !result.AllSucceeded() {
//		return fmt.Errorf("failed: %v", result.Failed())
//	}
package app
