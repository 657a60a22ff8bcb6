package analysis_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sqlpeek/sqlpeek/internal/meta"
	"github.com/sqlpeek/sqlpeek/internal/source"
)

// createSourceDB builds a SQLite file and runs the given statements.
func createSourceDB(tb testing.TB, stmts ...string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "source.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("open source fixture: %v", err)
	}
	defer db.Close()

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			tb.Fatalf("fixture exec %q: %v", s, err)
		}
	}
	return path
}

// seedRows bulk-inserts n integer rows into table t of the db at path.
func seedRows(tb testing.TB, path, t string, n int) {
	tb.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("open for seeding: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		WITH RECURSIVE cnt(x) AS (
			SELECT 1 UNION ALL SELECT x + 1 FROM cnt WHERE x < ?
		)
		INSERT INTO `+t+` SELECT x FROM cnt`, n)
	if err != nil {
		tb.Fatalf("seed %d rows: %v", n, err)
	}
}

// mustOpenSource opens a source.DB on path for the duration of the test.
func mustOpenSource(tb testing.TB, path string) *source.DB {
	tb.Helper()
	db, err := source.Open(path)
	if err != nil {
		tb.Fatalf("source.Open: %v", err)
	}
	tb.Cleanup(func() { db.Close() })
	return db
}

// mustOpenStore opens a temp metadata store with migrations applied.
func mustOpenStore(tb testing.TB) *meta.Store {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "meta.db")
	db, err := meta.Open(path)
	if err != nil {
		tb.Fatalf("open metadata store: %v", err)
	}
	if err := meta.RunMigrations(db); err != nil {
		db.Close()
		tb.Fatalf("run migrations: %v", err)
	}
	tb.Cleanup(func() { db.Close() })
	return meta.NewStore(db)
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(tb testing.TB, d time.Duration, cond func() bool, msg string) {
	tb.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	tb.Fatalf("timed out waiting for %s", msg)
}
