package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/cad-profiler/backend/internal/models"
)

func testReport(id string, createdAt time.Time) *models.AnalysisReport {
	return &models.AnalysisReport{
		ID:        id,
		Extension: ".stl",
		CreatedAt: createdAt,
	}
}

func TestStorePutAndGet(t *testing.T) {
	s := NewStore()
	s.Put(testReport("r1", time.Now()))

	r, ok := s.Get("r1")
	if !ok {
		t.Fatal("expected report to be found")
	}
	if r.ID != "r1" {
		t.Errorf("Expected ID r1, got %s", r.ID)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("expected miss for unknown ID")
	}
}

func TestStoreRecentOrder(t *testing.T) {
	s := NewStore()
	base := time.Now()
	s.Put(testReport("old", base.Add(-2*time.Hour)))
	s.Put(testReport("mid", base.Add(-1*time.Hour)))
	s.Put(testReport("new", base))

	recent := s.Recent(10)
	if len(recent) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(recent))
	}
	if recent[0].ID != "new" || recent[2].ID != "old" {
		t.Errorf("Expected newest-first order, got %s..%s", recent[0].ID, recent[2].ID)
	}

	limited := s.Recent(2)
	if len(limited) != 2 {
		t.Errorf("Expected limit to apply, got %d reports", len(limited))
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore()
	s.Put(testReport("r1", time.Now()))

	if err := s.Delete("r1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d", s.Len())
	}
	if err := s.Delete("r1"); err == nil {
		t.Error("expected error deleting missing report")
	}
}

func TestStoreEvictionAtCapacity(t *testing.T) {
	s := NewStore()
	for i := 0; i < MaxReports; i++ {
		s.Put(testReport(fmt.Sprintf("r%d", i), time.Now()))
	}
	if s.Len() != MaxReports {
		t.Fatalf("Expected %d reports, got %d", MaxReports, s.Len())
	}

	// Age one entry so it is the eviction candidate
	s.mu.Lock()
	s.reports["r0"].lastAccessed = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	s.Put(testReport("overflow", time.Now()))

	if s.Len() != MaxReports {
		t.Errorf("Expected store to stay at %d, got %d", MaxReports, s.Len())
	}
	if _, ok := s.Get("r0"); ok {
		t.Error("expected oldest-accessed report to be evicted")
	}
	if _, ok := s.Get("overflow"); !ok {
		t.Error("expected new report to be retained")
	}
}

func TestCleanupOldReports(t *testing.T) {
	s := NewStore()
	old := time.Now().Add(-time.Hour)

	s.Put(testReport("stale", old))
	s.Put(testReport("fresh", time.Now()))

	// Age the stale entry past the keep-alive window
	s.mu.Lock()
	s.reports["stale"].lastAccessed = old
	s.mu.Unlock()

	s.CleanupOldReports(30 * time.Minute)

	if _, ok := s.Get("stale"); ok {
		t.Error("expected stale report to be cleaned up")
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Error("expected fresh report to survive cleanup")
	}
}

func TestCleanupKeepsRecentlyAccessed(t *testing.T) {
	s := NewStore()
	old := time.Now().Add(-time.Hour)
	s.Put(testReport("pinned", old))

	// Fetch refreshes the keep-alive timestamp
	if _, ok := s.Get("pinned"); !ok {
		t.Fatal("expected report to be found")
	}

	s.CleanupOldReports(30 * time.Minute)

	if _, ok := s.Get("pinned"); !ok {
		t.Error("expected recently accessed report to survive cleanup")
	}
}
