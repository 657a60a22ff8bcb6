package source

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TableData is one page of rows, JSON-ready for the browsing API.
// Blob cells are rendered as "<N bytes>" placeholders.
type TableData struct {
	Columns    []string `json:"columns"`
	Rows       [][]any  `json:"rows"`
	TotalPages int64    `json:"total_pages"`
}

// Stats summarises a whole database file.
type Stats struct {
	TotalTables  int   `json:"total_tables"`
	TotalRecords int64 `json:"total_records"`
	FileSizeKB   int64 `json:"file_size_kb"`
}

// Columns returns the column names of table via the table_info pragma.
func (d *DB) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, `PRAGMA table_info(`+quoteIdent(table)+`)`)
	if err != nil {
		return nil, fmt.Errorf("table_info %q: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int64
			name, typ string
			notNull   int64
			dflt      any
			pk        int64
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table_info row: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// TableData returns one page of rows from table. page is 1-based. When
// search is non-empty, only rows where any column matches the substring are
// returned, and total_pages reflects the filtered count.
func (d *DB) TableData(ctx context.Context, table string, page, pageSize int64, search string) (TableData, error) {
	cols, err := d.Columns(ctx, table)
	if err != nil {
		return TableData{}, err
	}

	var where string
	var args []any
	if search != "" {
		conds := make([]string, len(cols))
		for i, c := range cols {
			conds[i] = quoteIdent(c) + ` LIKE ?`
			args = append(args, "%"+search+"%")
		}
		where = " WHERE " + strings.Join(conds, " OR ")
	}

	var total int64
	countArgs := append([]any(nil), args...)
	if err := d.sql.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+quoteIdent(table)+where, countArgs...,
	).Scan(&total); err != nil {
		return TableData{}, fmt.Errorf("count filtered rows of %q: %w", table, err)
	}

	var totalPages int64
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	offset := (page - 1) * pageSize

	args = append(args, pageSize, offset)
	rows, err := d.sql.QueryContext(ctx,
		`SELECT * FROM `+quoteIdent(table)+where+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return TableData{}, fmt.Errorf("page rows of %q: %w", table, err)
	}
	defer rows.Close()

	outCols, err := rows.Columns()
	if err != nil {
		return TableData{}, fmt.Errorf("columns of %q: %w", table, err)
	}

	data := TableData{Columns: outCols, Rows: [][]any{}, TotalPages: totalPages}
	raw := make([]any, len(outCols))
	ptrs := make([]any, len(outCols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return TableData{}, fmt.Errorf("scan row of %q: %w", table, err)
		}
		rec := make([]any, len(raw))
		for i, v := range raw {
			rec[i] = browseCell(decodeValue(v))
		}
		data.Rows = append(data.Rows, rec)
	}
	return data, rows.Err()
}

// browseCell converts a Value to its JSON representation for the browser.
func browseCell(v Value) any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindReal:
		return v.Real
	case KindText:
		return v.Text
	case KindBlob:
		return fmt.Sprintf("<%d bytes>", len(v.Blob))
	default:
		return nil
	}
}

// Stats computes table count, best-effort total record count, and file size.
func (d *DB) Stats(ctx context.Context) (Stats, error) {
	tables, err := d.Tables(ctx)
	if err != nil {
		return Stats{}, err
	}

	var total int64
	for _, t := range tables {
		// A table that cannot be counted contributes zero.
		n, err := d.RowCount(ctx, t)
		if err != nil {
			continue
		}
		total += n
	}

	fi, err := os.Stat(d.path)
	if err != nil {
		return Stats{}, fmt.Errorf("stat %q: %w", d.path, err)
	}

	return Stats{
		TotalTables:  len(tables),
		TotalRecords: total,
		FileSizeKB:   fi.Size() / 1024,
	}, nil
}
