package fetch

import "sync"

// Result accumulates per-file outcomes for a batch retrieval, keyed by the
// final local filename. Names keep their insertion order so summaries render
// in the order files were attempted.
type Result struct {
	mu       sync.RWMutex
	outcomes map[string]bool
	order    []string
}

// NewResult returns an empty accumulator.
func NewResult() *Result {
	return &Result{outcomes: make(map[string]bool)}
}

// Set records the outcome for a name. Re-recording a name overwrites its
// outcome without duplicating it in the order.
func (r *Result) Set(name string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.outcomes[name]; !seen {
		r.order = append(r.order, name)
	}
	r.outcomes[name] = ok
}

// Get reports the outcome for a name and whether it was recorded.
func (r *Result) Get(name string) (ok, recorded bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ok, recorded = r.outcomes[name]
	return ok, recorded
}

// Len returns the number of recorded files.
func (r *Result) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Names returns the recorded names in insertion order as a copy.
func (r *Result) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil
	}
	dup := make([]string, len(r.order))
	copy(dup, r.order)
	return dup
}

// Snapshot returns a copy of the outcome map.
func (r *Result) Snapshot() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dup := make(map[string]bool, len(r.outcomes))
	for name, ok := range r.outcomes {
		dup[name] = ok
	}
	return dup
}

// Failed returns the names that did not complete, in insertion order.
func (r *Result) Failed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failed []string
	for _, name := range r.order {
		if !r.outcomes[name] {
			failed = append(failed, name)
		}
	}
	return failed
}

// AllSucceeded reports whether every recorded file completed. An empty
// result counts as success.
func (r *Result) AllSucceeded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ok := range r.outcomes {
		if !ok {
			return false
		}
	}
	return true
}
