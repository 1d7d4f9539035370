package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/five82/ferry/internal/offcloud"
)

func TestPrintStatus_DownloadingShowsProgress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printStatus(&buf, offcloud.JobHandle{RequestID: "req-1", Kind: offcloud.JobCloud}, offcloud.StatusRecord{
		Status:     offcloud.StatusDownloading,
		FileName:   "a.bin",
		FileSize:   2048,
		Downloaded: 512,
	})

	out := buf.String()
	for _, want := range []string{"cloud/req-1", "downloading", "a.bin", "2.0 KiB", "25%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestPrintStatus_ErrorShowsServiceText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printStatus(&buf, offcloud.JobHandle{RequestID: "req-2", Kind: offcloud.JobCloud}, offcloud.StatusRecord{
		Status:   offcloud.StatusError,
		RawError: "source file unavailable",
	})

	out := buf.String()
	if !strings.Contains(out, "source file unavailable") {
		t.Errorf("output missing service error text, got:\n%s", out)
	}
	if strings.Contains(out, "progress:") {
		t.Errorf("output has progress line for a failed job:\n%s", out)
	}
}

func TestPrintStatus_ArchiveMarked(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printStatus(&buf, offcloud.JobHandle{RequestID: "req-3", Kind: offcloud.JobCloud}, offcloud.StatusRecord{
		Status:      offcloud.StatusDownloaded,
		FileName:    "bundle",
		IsDirectory: true,
	})

	if !strings.Contains(buf.String(), "archive") {
		t.Errorf("output missing archive marker, got:\n%s", buf.String())
	}
}

func TestPrintFiles_RendersTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printFiles(&buf, []offcloud.ArchiveEntry{
		{FileName: "a.txt", FileSize: 1024, DownloadURL: "https://dl.example/a"},
		{FileName: "b.txt", DownloadURL: "https://dl.example/b"},
	})

	out := buf.String()
	for _, want := range []string{"NAME", "SIZE", "URL", "a.txt", "1.0 KiB", "https://dl.example/b"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestPrintAccount_RendersLimits(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printAccount(&buf, offcloud.AccountStats{
		Email:          "user@example.com",
		IsPremium:      true,
		ExpirationDate: "2027-01-01",
		Limits:         offcloud.AccountLimits{Cloud: 100, Links: 50},
	})

	out := buf.String()
	for _, want := range []string{"user@example.com", "true", "2027-01-01", "100", "50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestPrintHistory_EmptySaysNoHistory(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printHistory(&buf, nil)
	if got := strings.TrimSpace(buf.String()); got != "no history" {
		t.Fatalf("output = %q, want no history", got)
	}
}

func TestPrintHistory_MarksDirectories(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printHistory(&buf, []offcloud.HistoryEntry{
		{RequestID: "req-1", FileName: "movie.mkv", Status: "downloaded", FileSize: 1024, CreatedOn: "2026-08-01"},
		{RequestID: "req-2", FileName: "backup", Status: "downloaded", IsDirectory: true},
	})

	out := buf.String()
	if !strings.Contains(out, "movie.mkv") {
		t.Errorf("output missing file row, got:\n%s", out)
	}
	if !strings.Contains(out, "backup/") {
		t.Errorf("output missing directory marker, got:\n%s", out)
	}
}

func TestPrintCache_IsCaseInsensitive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printCache(&buf, []string{"ABCDEF", "123456"}, offcloud.CacheResult{CachedItems: []string{"abcdef"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ABCDEF") || strings.Contains(lines[0], "not") {
		t.Errorf("line 0 = %q, want ABCDEF marked cached", lines[0])
	}
	if !strings.HasPrefix(lines[1], "123456") || !strings.Contains(lines[1], "not cached") {
		t.Errorf("line 1 = %q, want 123456 marked not cached", lines[1])
	}
}

func TestPrintProxies_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printProxies(&buf, nil)
	if got := strings.TrimSpace(buf.String()); got != "no proxies" {
		t.Fatalf("output = %q, want no proxies", got)
	}
}

func TestPrintRemotes_RendersAccounts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printRemotes(&buf, []offcloud.RemoteAccount{
		{RemoteOptionID: "ftp-1", Provider: "ftp", Path: "/incoming"},
	})

	out := buf.String()
	for _, want := range []string{"ID", "PROVIDER", "PATH", "ftp-1", "/incoming"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}
