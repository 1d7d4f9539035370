package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/five82/ferry/internal/offcloud"
	"github.com/five82/ferry/internal/ui"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
}

func printStatus(w io.Writer, handle offcloud.JobHandle, rec offcloud.StatusRecord) {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "job:\t%s\n", handle)
	fmt.Fprintf(tw, "status:\t%s\n", rec.Status)
	if rec.FileName != "" {
		fmt.Fprintf(tw, "file:\t%s\n", rec.FileName)
	}
	if rec.FileSize > 0 {
		fmt.Fprintf(tw, "size:\t%s\n", ui.HumanSize(rec.FileSize))
	}
	if rec.Status == offcloud.StatusDownloading && rec.FileSize > 0 {
		fmt.Fprintf(tw, "progress:\t%.0f%%\n", float64(rec.Downloaded)/float64(rec.FileSize)*100)
	}
	if rec.IsDirectory {
		fmt.Fprintf(tw, "type:\tarchive\n")
	}
	if rec.RawError != "" {
		fmt.Fprintf(tw, "error:\t%s\n", rec.RawError)
	}
	_ = tw.Flush()
}

func printFiles(w io.Writer, entries []offcloud.ArchiveEntry) {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "NAME\tSIZE\tURL")
	for _, entry := range entries {
		size := ""
		if entry.FileSize > 0 {
			size = ui.HumanSize(entry.FileSize)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.FileName, size, entry.DownloadURL)
	}
	_ = tw.Flush()
}

func printAccount(w io.Writer, stats offcloud.AccountStats) {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "email:\t%s\n", stats.Email)
	fmt.Fprintf(tw, "premium:\t%t\n", stats.IsPremium)
	if stats.ExpirationDate != "" {
		fmt.Fprintf(tw, "expires:\t%s\n", stats.ExpirationDate)
	}
	fmt.Fprintf(tw, "cloud limit:\t%d\n", stats.Limits.Cloud)
	fmt.Fprintf(tw, "link limit:\t%d\n", stats.Limits.Links)
	_ = tw.Flush()
}

func printHistory(w io.Writer, entries []offcloud.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no history")
		return
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tSIZE\tCREATED\tNAME")
	for _, entry := range entries {
		size := ""
		if entry.FileSize > 0 {
			size = ui.HumanSize(entry.FileSize)
		}
		name := entry.FileName
		if entry.IsDirectory {
			name += "/"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", entry.RequestID, entry.Status, size, entry.CreatedOn, name)
	}
	_ = tw.Flush()
}

func printProxies(w io.Writer, proxies []offcloud.Proxy) {
	if len(proxies) == 0 {
		fmt.Fprintln(w, "no proxies")
		return
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tTYPE\tREGION\tNAME")
	for _, proxy := range proxies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", proxy.ID, proxy.Type, proxy.Region, proxy.Name)
	}
	_ = tw.Flush()
}

func printRemotes(w io.Writer, accounts []offcloud.RemoteAccount) {
	if len(accounts) == 0 {
		fmt.Fprintln(w, "no remote accounts")
		return
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tPROVIDER\tPATH")
	for _, account := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", account.RemoteOptionID, account.Provider, account.Path)
	}
	_ = tw.Flush()
}

func printCache(w io.Writer, hashes []string, res offcloud.CacheResult) {
	cached := make(map[string]struct{}, len(res.CachedItems))
	for _, item := range res.CachedItems {
		cached[strings.ToLower(item)] = struct{}{}
	}
	tw := newTabWriter(w)
	for _, hash := range hashes {
		state := "not cached"
		if _, ok := cached[strings.ToLower(hash)]; ok {
			state = "cached"
		}
		fmt.Fprintf(tw, "%s\t%s\n", hash, state)
	}
	_ = tw.Flush()
}
