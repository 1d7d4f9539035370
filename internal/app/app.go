package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/five82/ferry/internal/fetch"
	"github.com/five82/ferry/internal/offcloud"
)

// App wires the service client and the transfer layer into the end-to-end
// pipeline behind the get and fetch commands. The zero value is not usable;
// Client must be set.
type App struct {
	Client offcloud.Service
	// Logger records pipeline milestones and per-file failures. Nil discards.
	Logger *slog.Logger
	// HTTP performs payload transfers. Nil lets the retriever choose.
	HTTP *http.Client
	// ChunkSize is the transfer read size. Values <= 0 use the retriever
	// default.
	ChunkSize int
}

// Events carries optional callbacks for pipeline milestones. The terminal UI
// subscribes to drive rendering; nil fields are skipped.
type Events struct {
	// Submitted fires once the service accepts a new job.
	Submitted func(offcloud.JobHandle)
	// Polled fires on every status snapshot, including the terminal one.
	Polled func(offcloud.StatusRecord, time.Duration)
	// Resolved fires once the job's downloadable contents are known.
	Resolved func([]offcloud.ArchiveEntry)
	// Progress fires after every transferred chunk.
	Progress fetch.Observer
	// FileDone fires as each file settles, successfully or not.
	FileDone func(name string, ok bool)
}

// Options configure one pipeline run. Get reads all fields; Fetch ignores
// URL, Kind, Remote, and ProxyID because the job already exists.
type Options struct {
	URL     string
	Kind    offcloud.JobKind // JobCloud when empty
	Remote  offcloud.RemoteOptions
	ProxyID string // instant submissions only

	// Dir receives the downloaded files.
	Dir string
	// Interval and Timeout bound the status polling.
	Interval time.Duration
	Timeout  time.Duration

	Events Events
}

// Get runs the full pipeline for a new source: submit, await completion,
// resolve contents, download. Remote jobs stop after completion because their
// payload lands in external storage; instant jobs skip polling because the
// service answers with a direct link.
func (a *App) Get(ctx context.Context, opts Options) (*fetch.Result, error) {
	kind := opts.Kind
	if kind == "" {
		kind = offcloud.JobCloud
	}
	if kind == offcloud.JobInstant {
		return a.getInstant(ctx, opts)
	}

	handle, err := a.Submit(ctx, kind, opts.URL, opts.Remote)
	if err != nil {
		return nil, err
	}
	a.logger().Info("job submitted", "kind", string(handle.Kind), "id", handle.RequestID)
	if opts.Events.Submitted != nil {
		opts.Events.Submitted(handle)
	}

	return a.finish(ctx, handle, opts)
}

// Fetch drives an already submitted job to completion and downloads its
// contents. Completed jobs pass straight through the poll loop, so fetching
// a finished job costs one status check.
func (a *App) Fetch(ctx context.Context, handle offcloud.JobHandle, opts Options) (*fetch.Result, error) {
	return a.finish(ctx, handle, opts)
}

// Submit dispatches a source to the queueing endpoint for its kind. Instant
// submissions resolve immediately and have their own path in Get.
func (a *App) Submit(ctx context.Context, kind offcloud.JobKind, rawURL string, remote offcloud.RemoteOptions) (offcloud.JobHandle, error) {
	switch kind {
	case offcloud.JobCloud, "":
		return a.Client.SubmitCloud(ctx, rawURL)
	case offcloud.JobRemote:
		return a.Client.SubmitRemote(ctx, rawURL, remote)
	default:
		return offcloud.JobHandle{}, fmt.Errorf("job kind %q cannot be queued", kind)
	}
}

// Resolve turns a completed job into downloadable entries. Single-file jobs
// short-circuit to the direct download link; archives are enumerated through
// the service.
func (a *App) Resolve(ctx context.Context, handle offcloud.JobHandle, rec offcloud.StatusRecord) ([]offcloud.ArchiveEntry, error) {
	if handle.Kind == offcloud.JobRemote {
		return nil, fmt.Errorf("remote transfers deliver to external storage")
	}
	if !rec.IsDirectory {
		return []offcloud.ArchiveEntry{{
			FileName:    rec.FileName,
			DownloadURL: a.Client.DownloadURL(handle.RequestID),
			FileSize:    rec.FileSize,
		}}, nil
	}
	entries, err := a.Client.ListFiles(ctx, handle.RequestID)
	if err != nil {
		return nil, fmt.Errorf("resolve contents: %w", err)
	}
	return entries, nil
}

// Download streams the entries into dir. Individual failures are recorded in
// the result rather than aborting the batch; the error reports context
// cancellation only.
func (a *App) Download(ctx context.Context, entries []offcloud.ArchiveEntry, dir string, events Events) (*fetch.Result, error) {
	retriever := &fetch.Retriever{
		HTTP:       a.HTTP,
		ChunkSize:  a.ChunkSize,
		OnProgress: events.Progress,
		OnFileDone: events.FileDone,
		Logger:     a.logger(),
	}
	result := retriever.RetrieveAll(ctx, entries, dir)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (a *App) finish(ctx context.Context, handle offcloud.JobHandle, opts Options) (*fetch.Result, error) {
	rec, err := a.Client.AwaitCompletion(ctx, handle, offcloud.PollOptions{
		Interval: opts.Interval,
		Timeout:  opts.Timeout,
		Observer: opts.Events.Polled,
	})
	if err != nil {
		return nil, err
	}
	a.logger().Info("job completed", "id", handle.RequestID, "file", rec.FileName)

	if handle.Kind == offcloud.JobRemote {
		return fetch.NewResult(), nil
	}

	entries, err := a.Resolve(ctx, handle, rec)
	if err != nil {
		return nil, err
	}
	if opts.Events.Resolved != nil {
		opts.Events.Resolved(entries)
	}

	return a.Download(ctx, entries, opts.Dir, opts.Events)
}

func (a *App) getInstant(ctx context.Context, opts Options) (*fetch.Result, error) {
	res, err := a.Client.SubmitInstant(ctx, opts.URL, opts.ProxyID)
	if err != nil {
		return nil, err
	}
	a.logger().Info("instant conversion", "id", res.RequestID, "file", res.FileName)
	if opts.Events.Submitted != nil {
		opts.Events.Submitted(offcloud.JobHandle{RequestID: res.RequestID, Kind: offcloud.JobInstant})
	}
	if res.URL == "" {
		return nil, fmt.Errorf("instant conversion returned no download url")
	}

	entries := []offcloud.ArchiveEntry{{FileName: res.FileName, DownloadURL: res.URL}}
	if opts.Events.Resolved != nil {
		opts.Events.Resolved(entries)
	}
	return a.Download(ctx, entries, opts.Dir, opts.Events)
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
