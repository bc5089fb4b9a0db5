package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOpen(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	// Verify tables exist by querying them
	var name string
	err = st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&name)
	if err != nil {
		t.Fatalf("runs table not created: %v", err)
	}
	if name != "runs" {
		t.Errorf("expected table name 'runs', got %q", name)
	}
}

func TestRecordRunRoundTrip(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	now := time.Now().UTC()
	run := Run{
		ID:              uuid.NewString(),
		Mode:            "run",
		StartedAt:       now.Add(-time.Minute),
		FinishedAt:      now,
		SignalsAnalyzed: 87,
		Narratives:      6,
		Status:          "ok",
		Model:           "claude-sonnet-4-5-20250929",
	}

	if err := st.RecordRun(run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := st.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Mode != "run" || got.SignalsAnalyzed != 87 || got.Narratives != 6 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Status != "ok" || got.Model != "claude-sonnet-4-5-20250929" {
		t.Errorf("status/model mismatch: %+v", got)
	}
	if got.StartedAt.IsZero() || got.FinishedAt.IsZero() {
		t.Errorf("timestamps lost: %+v", got)
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		run := Run{
			ID:        fmt.Sprintf("run-%d", i),
			Mode:      "collect",
			StartedAt: now.Add(-time.Duration(i) * time.Hour),
		}
		run.FinishedAt = run.StartedAt.Add(time.Minute)
		if err := st.RecordRun(run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	runs, err := st.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// Most recent first
	if runs[0].ID != "run-0" || runs[1].ID != "run-1" {
		t.Errorf("order: got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestRecentRunsEmpty(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	runs, err := st.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns on empty store failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestRunCount(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	for i := 0; i < 4; i++ {
		run := Run{ID: fmt.Sprintf("run-%d", i), Mode: "run", StartedAt: time.Now(), FinishedAt: time.Now()}
		if err := st.RecordRun(run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	count, err := st.RunCount()
	if err != nil {
		t.Fatalf("RunCount failed: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 runs, got %d", count)
	}
}

func TestFileDatabasePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sonar.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	run := Run{ID: "persisted", Mode: "run", StartedAt: time.Now(), FinishedAt: time.Now()}
	if err := st.RecordRun(run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	st2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st2.Close()

	runs, err := st2.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "persisted" {
		t.Errorf("run not persisted: %+v", runs)
	}
}

func TestConcurrentRecordAndRead(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	var wg sync.WaitGroup

	// Channel to collect errors from goroutines (testing.T methods are not goroutine-safe)
	errCh := make(chan error, 20)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			run := Run{
				ID:        fmt.Sprintf("writer-%d", n),
				Mode:      "run",
				StartedAt: time.Now(),
			}
			run.FinishedAt = run.StartedAt
			if err := st.RecordRun(run); err != nil {
				errCh <- fmt.Errorf("RecordRun failed for writer %d: %v", n, err)
			}
		}(i)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.RecentRuns(100); err != nil {
				errCh <- fmt.Errorf("RecentRuns failed: %v", err)
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}

	count, err := st.RunCount()
	if err != nil {
		t.Fatalf("RunCount failed: %v", err)
	}
	if count != 10 {
		t.Errorf("expected 10 runs, got %d", count)
	}
}
