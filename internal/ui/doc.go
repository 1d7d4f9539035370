// Package ui renders the download pipeline in the terminal.
//
// # Overview
//
// The package has two output modes. The Bubble Tea model renders an
// interactive inline view with a spinner during polling and per-file
// progress bars during transfer. Plain returns line-oriented callbacks for
// pipes and non-interactive terminals. Both modes consume the same
// app.Events surface, so the pipeline itself never knows which one is
// attached.
//
// # Message Flow
//
// The pipeline runs on its own goroutine and feeds the program through
// typed messages:
//
//	pipeline callback          message          effect
//	-----------------          -------          ------
//	Events.Submitted      ->   submittedMsg     show the job handle
//	Events.Polled         ->   statusMsg        update status and elapsed
//	Events.Resolved       ->   filesMsg         switch to the download view
//	Events.Progress       ->   progressMsg      advance one file's bar
//	Events.FileDone       ->   fileDoneMsg      settle one file's row
//	pipeline return       ->   doneMsg/errMsg   quit with the final frame
//
// # Cancellation
//
// q, esc, and ctrl+c cancel the pipeline's context and quit. The pipeline
// unwinds through its context-aware waits and reports context.Canceled,
// which Run surfaces to the caller so the command can exit accordingly.
//
// # Rendering
//
// The view renders inline rather than on the alt screen so the final
// summary frame survives in the scrollback after exit.
package ui
