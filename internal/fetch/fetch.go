package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/five82/ferry/internal/offcloud"
)

// DefaultChunkSize is the read size for streaming transfers.
const DefaultChunkSize = 8192

// Progress is a point-in-time view of one transfer. Total is zero when the
// server does not announce a length; Downloaded never decreases within one
// file.
type Progress struct {
	FileName   string
	Index      int // 1-based position within the batch
	Count      int // number of entries in the batch
	Downloaded uint64
	Total      uint64
}

// Observer receives progress updates during a transfer.
type Observer func(Progress)

// Retriever streams resolved entries to local disk. The zero value is
// usable; fields customize behavior per batch.
type Retriever struct {
	// HTTP performs the transfers. Download links are pre-authorized, so no
	// API key is attached. Nil selects a client without a global timeout;
	// long transfers are bounded by ctx instead.
	HTTP *http.Client
	// ChunkSize is the per-read buffer size. Values <= 0 select
	// DefaultChunkSize.
	ChunkSize int
	// OnProgress, if set, is called after every chunk.
	OnProgress Observer
	// OnFileDone, if set, is called as each batch entry settles.
	OnFileDone func(name string, ok bool)
	// Logger records per-entry failures. Nil discards them.
	Logger *slog.Logger
}

// Retrieve streams one URL into localPath, creating parent directories as
// needed. Data goes to a uniquely named .part sibling that is renamed into
// place only when the transfer completes, so an aborted run never leaves a
// truncated file under the final name.
func (r *Retriever) Retrieve(ctx context.Context, rawURL, localPath string) error {
	return r.retrieve(ctx, rawURL, localPath, 1, 1)
}

// RetrieveAll streams every entry into dir sequentially. Entry names are
// sanitized and deduplicated, and those final names key the returned Result.
// A failed entry is logged, recorded as false, and does not stop the batch;
// cancelling ctx fails the remaining entries.
func (r *Retriever) RetrieveAll(ctx context.Context, entries []offcloud.ArchiveEntry, dir string) *Result {
	result := NewResult()
	taken := make(map[string]bool, len(entries))
	for i, entry := range entries {
		name := localName(entry.FileName, i+1, taken)
		taken[name] = true

		err := r.retrieve(ctx, entry.DownloadURL, filepath.Join(dir, name), i+1, len(entries))
		if err != nil && r.Logger != nil {
			r.Logger.Warn("download failed", "file", name, "error", err)
		}
		result.Set(name, err == nil)
		if r.OnFileDone != nil {
			r.OnFileDone(name, err == nil)
		}
	}
	return result
}

func (r *Retriever) retrieve(ctx context.Context, rawURL, localPath string, index, count int) error {
	if rawURL == "" {
		return fmt.Errorf("download url required")
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := r.client().Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	tmp := localPath + ".part-" + uuid.NewString()[:8]
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	discard := func() {
		_ = out.Close()
		_ = os.Remove(tmp)
	}

	progress := Progress{
		FileName: filepath.Base(localPath),
		Index:    index,
		Count:    count,
	}
	if resp.ContentLength > 0 {
		progress.Total = uint64(resp.ContentLength)
	}

	buf := make([]byte, r.chunkSize())
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				discard()
				return fmt.Errorf("write file: %w", werr)
			}
			progress.Downloaded += uint64(n)
			if r.OnProgress != nil {
				r.OnProgress(progress)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			discard()
			return fmt.Errorf("read body: %w", rerr)
		}
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp, localPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize file: %w", err)
	}
	return nil
}

func (r *Retriever) client() *http.Client {
	if r.HTTP != nil {
		return r.HTTP
	}
	return &http.Client{}
}

func (r *Retriever) chunkSize() int {
	if r.ChunkSize > 0 {
		return r.ChunkSize
	}
	return DefaultChunkSize
}
