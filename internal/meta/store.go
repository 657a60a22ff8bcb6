package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Database is one registered database file in the metadata store.
type Database struct {
	ID           int64
	Name         string
	Path         string
	CreatedAt    int64 // Unix seconds
	LastAccessed int64 // Unix seconds
	// AnalysisResults is the serialized result of the last completed
	// analysis run, nil when the database has never been analyzed.
	AnalysisResults *string
}

// Store wraps the metadata database with typed queries.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store on an already-opened metadata database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Import registers a database file under the given display name. Importing a
// path that is already registered updates its name and last_accessed but
// keeps its id and any stored analysis result.
func (s *Store) Import(ctx context.Context, name, path string) (Database, error) {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO databases (name, path, created_at, last_accessed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name          = excluded.name,
			last_accessed = excluded.last_accessed`,
		name, path, now, now)
	if err != nil {
		return Database{}, fmt.Errorf("import database %q: %w", path, err)
	}
	return s.Get(ctx, path)
}

// Get returns the registered database for path. sql.ErrNoRows is returned
// unwrapped when the path is unknown.
func (s *Store) Get(ctx context.Context, path string) (Database, error) {
	var d Database
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, path, created_at, last_accessed, analysis_results
		FROM databases WHERE path = ?`, path,
	).Scan(&d.ID, &d.Name, &d.Path, &d.CreatedAt, &d.LastAccessed, &d.AnalysisResults)
	if err != nil {
		return Database{}, err
	}
	return d, nil
}

// List returns all registered databases, most recently accessed first.
func (s *Store) List(ctx context.Context) ([]Database, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, path, created_at, last_accessed, analysis_results
		FROM databases
		ORDER BY last_accessed DESC`)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	defer rows.Close()

	var dbs []Database
	for rows.Next() {
		var d Database
		if err := rows.Scan(&d.ID, &d.Name, &d.Path, &d.CreatedAt, &d.LastAccessed, &d.AnalysisResults); err != nil {
			return nil, fmt.Errorf("scan database row: %w", err)
		}
		dbs = append(dbs, d)
	}
	return dbs, rows.Err()
}

// Delete removes the metadata row with the given id. The database file
// itself is never touched.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM databases WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete database %d: %w", id, err)
	}
	return nil
}

// Touch updates last_accessed for path. Unknown paths are a no-op.
func (s *Store) Touch(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE databases SET last_accessed = ? WHERE path = ?`,
		time.Now().Unix(), path)
	if err != nil {
		return fmt.Errorf("touch %q: %w", path, err)
	}
	return nil
}

// SaveResult stores the serialized analysis result for path, overwriting any
// previous result.
func (s *Store) SaveResult(ctx context.Context, path, resultJSON string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE databases SET analysis_results = ? WHERE path = ?`,
		resultJSON, path)
	if err != nil {
		return fmt.Errorf("save analysis result for %q: %w", path, err)
	}
	return nil
}

// Result returns the stored analysis result for path, or ok=false when the
// path is unknown or has never been analyzed.
func (s *Store) Result(ctx context.Context, path string) (string, bool, error) {
	var res sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT analysis_results FROM databases WHERE path = ?`, path,
	).Scan(&res)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load analysis result for %q: %w", path, err)
	}
	if !res.Valid {
		return "", false, nil
	}
	return res.String, true, nil
}

// Paths returns the paths of all registered databases, most recently
// accessed first. Used by the re-analysis scheduler.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM databases ORDER BY last_accessed DESC`)
	if err != nil {
		return nil, fmt.Errorf("list database paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path row: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
