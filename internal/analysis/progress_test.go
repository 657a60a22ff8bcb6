package analysis_test

import (
	"testing"

	"github.com/sqlpeek/sqlpeek/internal/analysis"
)

func TestComputeSnapshot(t *testing.T) {
	s := analysis.ComputeSnapshot("/db", 50, 200, 10)
	if s.Throughput != 5 {
		t.Errorf("throughput = %v, want 5", s.Throughput)
	}
	if s.ETASeconds != 30 {
		t.Errorf("eta = %v, want 30", s.ETASeconds)
	}
	if s.Progress != 25 {
		t.Errorf("progress = %v, want 25", s.Progress)
	}
	if s.Finished {
		t.Error("finished = true, want false")
	}
	if s.Path != "/db" || s.Processed != 50 || s.Total != 200 {
		t.Errorf("raw fields wrong: %+v", s)
	}
}

func TestComputeSnapshotFinished(t *testing.T) {
	// processed == total means finished regardless of elapsed.
	for _, elapsed := range []float64{0, 0.001, 60} {
		s := analysis.ComputeSnapshot("/db", 200, 200, elapsed)
		if !s.Finished {
			t.Errorf("elapsed=%v: finished = false, want true", elapsed)
		}
		if s.Progress != 100 {
			t.Errorf("elapsed=%v: progress = %v, want 100", elapsed, s.Progress)
		}
	}
}

func TestComputeSnapshotZeroGuards(t *testing.T) {
	// Zero elapsed: no throughput, no ETA.
	s := analysis.ComputeSnapshot("/db", 10, 100, 0)
	if s.Throughput != 0 || s.ETASeconds != 0 {
		t.Errorf("zero elapsed: throughput=%v eta=%v, want 0/0", s.Throughput, s.ETASeconds)
	}

	// Zero total: zero percent, finished (0 == 0), no division by zero.
	s = analysis.ComputeSnapshot("/db", 0, 0, 1)
	if s.Progress != 0 {
		t.Errorf("zero total: progress = %v, want 0", s.Progress)
	}
	if !s.Finished {
		t.Error("zero total: finished = false, want true")
	}

	// Zero processed with elapsed: throughput 0, ETA guarded.
	s = analysis.ComputeSnapshot("/db", 0, 100, 5)
	if s.Throughput != 0 || s.ETASeconds != 0 {
		t.Errorf("zero processed: throughput=%v eta=%v, want 0/0", s.Throughput, s.ETASeconds)
	}
}

func TestComputeSnapshotProcessedPastTotal(t *testing.T) {
	// Rows inserted into the source mid-scan push processed past the total
	// fixed at scan start. The snapshot must not underflow the remaining
	// count or report more than 100 percent.
	s := analysis.ComputeSnapshot("/db", 120, 100, 10)
	if s.Progress != 100 {
		t.Errorf("progress = %v, want 100", s.Progress)
	}
	if s.ETASeconds != 0 {
		t.Errorf("eta = %v, want 0", s.ETASeconds)
	}
	if !s.Finished {
		t.Error("finished = false, want true")
	}
	if s.Throughput != 12 {
		t.Errorf("throughput = %v, want 12", s.Throughput)
	}
}
