package scheduler

import (
	"testing"
	"time"
)

func TestNoJobSet(t *testing.T) {
	s := New()
	if got := s.CronExpr(); got != "" {
		t.Errorf("CronExpr = %q, want empty", got)
	}
	if got := s.NextRunAt(); got != nil {
		t.Errorf("NextRunAt = %v, want nil", got)
	}
}

func TestSetJobTracksSchedule(t *testing.T) {
	s := New()
	if err := s.SetJob("@every 1h", func() {}); err != nil {
		t.Fatalf("SetJob: %v", err)
	}
	s.Start()
	defer s.Stop()

	if got := s.CronExpr(); got != "@every 1h" {
		t.Errorf("CronExpr = %q, want @every 1h", got)
	}
	next := s.NextRunAt()
	if next == nil {
		t.Fatal("NextRunAt = nil, want a time")
	}
	until := time.Until(*next)
	if until <= 0 || until > time.Hour {
		t.Errorf("next run in %v, want within the hour", until)
	}
}

func TestSetJobReplacesPrevious(t *testing.T) {
	s := New()
	if err := s.SetJob("@every 1h", func() {}); err != nil {
		t.Fatalf("SetJob: %v", err)
	}
	if err := s.SetJob("@every 2h", func() {}); err != nil {
		t.Fatalf("SetJob replace: %v", err)
	}
	if got := s.CronExpr(); got != "@every 2h" {
		t.Errorf("CronExpr = %q, want @every 2h", got)
	}
}

func TestSetJobRejectsBadExpression(t *testing.T) {
	s := New()
	if err := s.SetJob("not a cron line", func() {}); err == nil {
		t.Fatal("SetJob accepted an invalid expression")
	}
	if got := s.CronExpr(); got != "" {
		t.Errorf("CronExpr after failed SetJob = %q, want empty", got)
	}
}
