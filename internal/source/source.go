// Package source provides read-only access to a target SQLite database
// file: schema listing, row counts, streaming full-table scans, and the
// paginated row fetch used by the browsing UI.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Kind tags a Value with its SQLite storage class.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
)

// Value is one scalar cell read from a table. Exactly one of the payload
// fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind
	Int  int64
	Real float64
	Text string
	Blob []byte
}

// decodeValue maps a database/sql scan result onto a tagged Value.
// Anything that is not a recognised scalar falls back to null rather than
// failing the scan, so one undecodable cell never aborts a whole run.
func decodeValue(v any) Value {
	switch x := v.(type) {
	case int64:
		return Value{Kind: KindInteger, Int: x}
	case float64:
		return Value{Kind: KindReal, Real: x}
	case string:
		return Value{Kind: KindText, Text: x}
	case []byte:
		return Value{Kind: KindBlob, Blob: x}
	default:
		return Value{Kind: KindNull}
	}
}

// DB is a read-only handle on a target SQLite database file.
type DB struct {
	sql  *sql.DB
	path string
}

// Open opens the SQLite file at path read-only and verifies it is actually
// readable as a database. A missing or malformed file is an error.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// One connection keeps scan order stable and the footprint small.
	db.SetMaxOpenConns(1)

	var version int
	if err := db.QueryRow("PRAGMA schema_version").Scan(&version); err != nil {
		db.Close()
		return nil, fmt.Errorf("not a readable sqlite database %q: %w", path, err)
	}
	return &DB{sql: db, path: path}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Path returns the file path this handle was opened on.
func (d *DB) Path() string {
	return d.path
}

// Tables lists user tables in schema-catalog order, excluding SQLite's
// internal tables.
func (d *DB) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// RowCount returns the exact row count of table.
func (d *DB) RowCount(ctx context.Context, table string) (int64, error) {
	var n int64
	err := d.sql.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+quoteIdent(table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows of %q: %w", table, err)
	}
	return n, nil
}

// ScanTable streams every row of table through fn in whatever order the
// engine returns them. The cols slice is shared across calls; fn must not
// retain it. A non-nil error from fn aborts the scan and is returned as-is.
func (d *DB) ScanTable(ctx context.Context, table string, fn func(cols []string, row []Value) error) error {
	rows, err := d.sql.QueryContext(ctx, `SELECT * FROM `+quoteIdent(table))
	if err != nil {
		return fmt.Errorf("scan table %q: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("columns of %q: %w", table, err)
	}

	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	rec := make([]Value, len(cols))

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan row of %q: %w", table, err)
		}
		for i, v := range raw {
			rec[i] = decodeValue(v)
		}
		if err := fn(cols, rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// quoteIdent double-quotes an SQL identifier, escaping embedded quotes.
// Table names come out of sqlite_master, but queries against attacker-named
// tables must still not break out of the identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
