package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sqlpeek/sqlpeek/internal/source"
)

// ErrCancelled is returned when a run is stopped before completion. The
// run's partial statistics are discarded.
var ErrCancelled = errors.New("analysis cancelled")

// progressStride is how many rows pass between progress emissions. The
// final row always emits regardless of the stride.
const progressStride = 100

// ProgressFunc consumes one progress snapshot. Emission failures are the
// consumer's problem; the scan never waits on it.
type ProgressFunc func(Snapshot)

// Scan walks every row and column of every user table in db, accumulating
// statistics into a fresh Result. The cancellation flag is checked before
// each table and before each row. A table whose count or scan query fails
// contributes zero rows and the scan continues; only a database that cannot
// be listed at all is fatal.
func Scan(ctx context.Context, db *source.DB, flag *Flag, emit ProgressFunc) (*Result, error) {
	tables, err := db.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	// The denominator for progress is fixed before any scanning begins.
	// Rows added concurrently to the source are not re-counted.
	var total uint64
	for _, t := range tables {
		n, err := db.RowCount(ctx, t)
		if err != nil {
			slog.Warn("analysis: row count failed, treating table as empty",
				"table", t, "error", err)
			continue
		}
		total += uint64(n)
	}

	res := NewResult()
	start := time.Now()

	if total == 0 {
		// Nothing to do: report completion straight away.
		if emit != nil {
			emit(ComputeSnapshot(db.Path(), 0, 0, time.Since(start).Seconds()))
		}
		return res, nil
	}

	var processed uint64
	for _, table := range tables {
		if flag.Cancelled() {
			return nil, ErrCancelled
		}

		tbl := table
		err := db.ScanTable(ctx, tbl, func(cols []string, row []source.Value) error {
			if flag.Cancelled() {
				return ErrCancelled
			}

			for i, v := range row {
				switch v.Kind {
				case source.KindText:
					res.ObserveText(tbl, cols[i], v.Text)
				case source.KindInteger, source.KindReal:
					res.ObserveNumeric()
				case source.KindBlob:
					res.ObserveBinary(len(v.Blob))
				case source.KindNull:
					res.ObserveNull()
				}
			}

			processed++
			if processed%progressStride == 0 || processed == total {
				if emit != nil {
					emit(ComputeSnapshot(db.Path(), processed, total, time.Since(start).Seconds()))
				}
			}
			return nil
		})
		if errors.Is(err, ErrCancelled) {
			return nil, ErrCancelled
		}
		if err != nil {
			// The table's rows were already counted into total; its
			// missing contribution just leaves progress short of 100%.
			slog.Warn("analysis: table scan failed, skipping",
				"table", tbl, "error", err)
		}
	}

	return res, nil
}
