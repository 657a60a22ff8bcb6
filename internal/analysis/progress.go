package analysis

// Snapshot is one progress report for a running analysis. Snapshots are
// transient: recomputed on each emission and consumed immediately.
type Snapshot struct {
	Path       string  `json:"db_path"`
	Progress   float64 `json:"progress"`
	Processed  uint64  `json:"records_processed"`
	Total      uint64  `json:"total_records"`
	ETASeconds uint64  `json:"time_remaining_secs"`
	Throughput float64 `json:"speed_records_per_sec"`
	Finished   bool    `json:"is_finished"`
}

// ComputeSnapshot derives percentage, throughput and ETA from raw counters.
// All divisions are guarded: elapsed <= 0 yields zero throughput, zero
// throughput yields zero ETA, and total == 0 yields zero percent. The total
// is fixed before scanning starts, so rows inserted into the source mid-scan
// can push processed past it; progress clamps at 100 and the ETA at zero.
func ComputeSnapshot(path string, processed, total uint64, elapsedSecs float64) Snapshot {
	var throughput float64
	if elapsedSecs > 0 {
		throughput = float64(processed) / elapsedSecs
	}
	var eta float64
	if throughput > 0 && total > processed {
		eta = float64(total-processed) / throughput
	}
	var pct float64
	if total > 0 {
		pct = float64(processed) / float64(total) * 100
		if pct > 100 {
			pct = 100
		}
	}
	return Snapshot{
		Path:       path,
		Progress:   pct,
		Processed:  processed,
		Total:      total,
		ETASeconds: uint64(eta),
		Throughput: throughput,
		Finished:   processed >= total,
	}
}
