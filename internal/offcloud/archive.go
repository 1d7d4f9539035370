package offcloud

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ArchiveEntry is one downloadable item inside a completed job.
type ArchiveEntry struct {
	FileName    string `json:"fileName"`
	DownloadURL string `json:"downloadUrl"`
	FileSize    uint64 `json:"fileSize"`
}

// ListFiles resolves the downloadable contents of a completed job. The
// structured explore endpoint is tried first; when it fails or yields
// nothing usable, the plain-text list endpoint serves as fallback. Entry
// order follows whichever endpoint answered. When both come back empty the
// returned error matches ErrNoDownloadableContent and records the causes.
func (c *Client) ListFiles(ctx context.Context, requestID string) ([]ArchiveEntry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(requestID) == "" {
		return nil, fmt.Errorf("request id required")
	}

	var explored []ArchiveEntry
	exploreErr := c.withRetry(ctx, func(ctx context.Context) error {
		var err error
		explored, err = c.explore(ctx, requestID)
		return err
	})
	if exploreErr == nil && len(explored) > 0 {
		return explored, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var listed []ArchiveEntry
	listErr := c.withRetry(ctx, func(ctx context.Context) error {
		var err error
		listed, err = c.list(ctx, requestID)
		return err
	})
	if listErr == nil && len(listed) > 0 {
		return listed, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case exploreErr != nil && listErr != nil:
		return nil, fmt.Errorf("%w (explore: %v; list: %v)", ErrNoDownloadableContent, exploreErr, listErr)
	case exploreErr != nil:
		return nil, fmt.Errorf("%w (explore: %v)", ErrNoDownloadableContent, exploreErr)
	case listErr != nil:
		return nil, fmt.Errorf("%w (list: %v)", ErrNoDownloadableContent, listErr)
	}
	return nil, ErrNoDownloadableContent
}

// explore fetches the structured content listing. Elements may be objects
// with fileName/downloadUrl/fileSize or bare URL strings; anything without a
// usable URL is skipped.
func (c *Client) explore(ctx context.Context, requestID string) ([]ArchiveEntry, error) {
	raw, err := c.roundTrip(ctx, http.MethodGet, c.endpoint("cloud", "explore", requestID), nil)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode explore response: %w", err)
	}
	entries := make([]ArchiveEntry, 0, len(items))
	for i, item := range items {
		var entry ArchiveEntry
		if err := json.Unmarshal(item, &entry); err == nil && entry.DownloadURL != "" {
			if entry.FileName == "" {
				entry.FileName = placeholderName(i + 1)
			}
			entries = append(entries, entry)
			continue
		}
		var bare string
		if err := json.Unmarshal(item, &bare); err == nil && strings.TrimSpace(bare) != "" {
			link := strings.TrimSpace(bare)
			entries = append(entries, ArchiveEntry{FileName: nameFromURL(link, i+1), DownloadURL: link})
		}
	}
	return entries, nil
}

// list fetches the plain-text content listing, one URL per line.
func (c *Client) list(ctx context.Context, requestID string) ([]ArchiveEntry, error) {
	raw, err := c.roundTrip(ctx, http.MethodGet, c.endpoint("cloud", "list", requestID), nil)
	if err != nil {
		return nil, err
	}
	var entries []ArchiveEntry
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, ArchiveEntry{FileName: nameFromURL(line, len(entries)+1), DownloadURL: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan list response: %w", err)
	}
	return entries, nil
}

// nameFromURL derives a display name from the final path segment of a bare
// download URL. Short, extensionless segments are treated as opaque tokens
// and fall back to the positional placeholder.
func nameFromURL(raw string, index int) string {
	candidate := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		candidate = u.Path
	}
	segment := candidate[strings.LastIndex(candidate, "/")+1:]
	if strings.Contains(segment, ".") || len(segment) > 3 {
		return segment
	}
	return placeholderName(index)
}

func placeholderName(index int) string {
	return fmt.Sprintf("file_%d", index)
}
