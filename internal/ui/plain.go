package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/five82/ferry/internal/app"
	"github.com/five82/ferry/internal/offcloud"
)

// Plain returns pipeline callbacks that print one line per milestone. It is
// the output mode for pipes and dumb terminals. Repeated status snapshots
// print only when the status changes, and chunk-level progress is skipped
// entirely so logs stay readable.
func Plain(w io.Writer) app.Events {
	var lastStatus offcloud.Status
	return app.Events{
		Submitted: func(h offcloud.JobHandle) {
			fmt.Fprintf(w, "submitted %s\n", h)
		},
		Polled: func(rec offcloud.StatusRecord, elapsed time.Duration) {
			if rec.Status == lastStatus {
				return
			}
			lastStatus = rec.Status
			fmt.Fprintf(w, "status %s (%s)\n", rec.Status, formatElapsed(elapsed))
		},
		Resolved: func(entries []offcloud.ArchiveEntry) {
			fmt.Fprintf(w, "resolved %d file(s)\n", len(entries))
		},
		FileDone: func(name string, ok bool) {
			if ok {
				fmt.Fprintf(w, "done %s\n", name)
			} else {
				fmt.Fprintf(w, "failed %s\n", name)
			}
		},
	}
}
