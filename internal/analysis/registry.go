package analysis

import (
	"sync"
	"sync/atomic"
)

// Flag is a shared cancellation signal for one analysis run: set at most
// once by the registry side, polled every row by the scan loop.
type Flag struct {
	cancelled atomic.Bool
}

// Cancel requests early termination of the run holding this flag.
func (f *Flag) Cancel() {
	f.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (f *Flag) Cancelled() bool {
	return f.cancelled.Load()
}

// Registry maps a database path to the cancellation flag of its in-flight
// analysis run. It holds exactly the latest flag per path; superseded runs
// keep their own handle and observe cancellation through it.
// It is safe for concurrent use. The lock guards only map mutation, never
// a scan.
type Registry struct {
	mu    sync.Mutex
	flags map[string]*Flag
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{flags: make(map[string]*Flag)}
}

// Register installs a fresh, unset flag for path and returns it. Any
// previously registered flag for the same path is signalled first, so a
// stale run still in flight winds down promptly.
func (r *Registry) Register(path string) *Flag {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.flags[path]; ok {
		old.Cancel()
	}
	f := &Flag{}
	r.flags[path] = f
	return f
}

// Cancel signals the currently registered flag for path, if any, and
// removes it. Absence of a flag is a no-op.
func (r *Registry) Cancel(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.flags[path]; ok {
		f.Cancel()
		delete(r.flags, path)
	}
}

// Unregister removes the mapping for path only when the stored flag is the
// caller's own. This keeps a just-superseded run from removing the newer
// run's entry.
func (r *Registry) Unregister(path string, f *Flag) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flags[path] == f {
		delete(r.flags, path)
	}
}

// CancelAll signals and removes every registered flag. Used on shutdown.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for path, f := range r.flags {
		f.Cancel()
		delete(r.flags, path)
	}
}
