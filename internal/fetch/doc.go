// Package fetch streams resolved download entries to local disk.
//
// # Overview
//
// This package is the retrieval half of ferry: internal/offcloud resolves
// what a finished job contains, fetch brings those entries home. It reads
// fixed-size chunks so progress events stay regular regardless of file size,
// writes through uniquely named .part siblings that are renamed into place on
// completion, and isolates failures per entry so one broken link never
// abandons the rest of a batch.
//
// # Batch Semantics
//
// RetrieveAll processes entries sequentially in resolver order. Each
// service-reported filename is sanitized to safe path runes and deduplicated
// with positional suffixes; the final names key the returned Result. The
// Result is mutex-guarded with copy-on-read accessors, so a presentation
// layer may snapshot it while a batch is still running.
//
// # Progress
//
// Observers receive a Progress value after every chunk: file name, position
// within the batch, bytes so far, and the total when the server announced a
// Content-Length. A missing length simply leaves Total at zero; callers
// render a spinner instead of a percentage.
//
// # Failure Reporting
//
// Retrieve returns an error; RetrieveAll converts per-entry errors into
// false Result entries, logs them through the configured slog.Logger, and
// keeps going. Cancellation is the exception: once ctx is cancelled the
// remaining entries fail immediately and the caller sees ctx.Err through the
// orchestration layer.
package fetch
