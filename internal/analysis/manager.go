package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sqlpeek/sqlpeek/internal/meta"
	"github.com/sqlpeek/sqlpeek/internal/source"
)

// Manager ties the registry, scanner, broker and metadata store together.
// Start is fire-and-forget: the caller never blocks on a run, and results
// arrive via the persistence side effect and the progress event stream.
// It is safe for concurrent use.
type Manager struct {
	reg    *Registry
	store  *meta.Store
	broker *Broker
	wg     sync.WaitGroup
}

// NewManager creates a Manager.
func NewManager(store *meta.Store, reg *Registry, broker *Broker) *Manager {
	return &Manager{reg: reg, store: store, broker: broker}
}

// Start launches an analysis run for the database file at path and returns
// immediately. A run already in flight for the same path is signalled to
// cancel, best-effort, before the new flag is installed; its partial
// statistics are never persisted.
func (m *Manager) Start(path string) {
	flag := m.reg.Register(path)
	m.wg.Add(1)
	go m.run(path, flag)
}

// Stop signals the active run for path, if any. Stopping an idle path is a
// no-op.
func (m *Manager) Stop(path string) {
	m.reg.Cancel(path)
}

// Shutdown cancels every in-flight run and blocks until they unwind.
func (m *Manager) Shutdown() {
	m.reg.CancelAll()
	m.wg.Wait()
}

// Wait blocks until all currently running analyses finish, without
// cancelling them.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) run(path string, flag *Flag) {
	defer m.wg.Done()
	defer m.reg.Unregister(path, flag)

	started := time.Now()
	slog.Info("analysis started", "path", path)

	db, err := source.Open(path)
	if err != nil {
		slog.Error("analysis: open source database", "path", path, "error", err)
		return
	}
	defer db.Close()

	ctx := context.Background()
	res, err := Scan(ctx, db, flag, func(s Snapshot) {
		m.broker.Publish(s)
	})
	if errors.Is(err, ErrCancelled) {
		slog.Info("analysis cancelled", "path", path,
			"duration", time.Since(started).Round(time.Millisecond))
		return
	}
	if err != nil {
		slog.Error("analysis failed", "path", path, "error", err)
		return
	}

	payload, err := json.Marshal(res)
	if err != nil {
		slog.Error("analysis: encode result", "path", path, "error", err)
		return
	}
	// Persistence failure is logged, never surfaced as a scan failure.
	if err := m.store.SaveResult(ctx, path, string(payload)); err != nil {
		slog.Warn("analysis: persist result", "path", path, "error", err)
	}

	slog.Info("analysis finished", "path", path,
		"total_chars", res.TotalChars,
		"duration", time.Since(started).Round(time.Millisecond))
}
