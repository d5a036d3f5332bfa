// Package report keeps completed analysis reports in memory so clients can
// re-fetch them without re-running extraction.
package report

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cad-profiler/backend/internal/models"
)

// MaxReports bounds the number of retained reports to prevent memory
// exhaustion under sustained load.
const MaxReports = 200

// ReportMaxAge is how long to keep reports before cleanup.
const ReportMaxAge = 30 * time.Minute

// KeepAliveWindow is how long recently fetched reports survive cleanup.
const KeepAliveWindow = 5 * time.Minute

type reportState struct {
	report       *models.AnalysisReport
	lastAccessed time.Time
}

// Store is a bounded in-memory report cache with age-based cleanup.
type Store struct {
	mu      sync.RWMutex
	reports map[string]*reportState
}

// NewStore creates an empty report store.
func NewStore() *Store {
	return &Store{
		reports: make(map[string]*reportState),
	}
}

// Put records a completed report, evicting the oldest entries when the
// store is at capacity.
func (s *Store) Put(r *models.AnalysisReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.reports) >= MaxReports {
		s.evictOldestLocked(len(s.reports) - MaxReports + 1)
	}

	s.reports[r.ID] = &reportState{
		report:       r,
		lastAccessed: time.Now(),
	}
}

// Get returns a report by ID and refreshes its keep-alive timestamp.
func (s *Store) Get(id string) (*models.AnalysisReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.reports[id]
	if !ok {
		return nil, false
	}
	state.lastAccessed = time.Now()
	return state.report, true
}

// Recent returns up to limit reports, newest first by creation time.
func (s *Store) Recent(limit int) []*models.AnalysisReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.AnalysisReport, 0, len(s.reports))
	for _, state := range s.reports {
		list = append(list, state.report)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

// Delete removes a report by ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; !ok {
		return fmt.Errorf("report not found: %s", id)
	}
	delete(s.reports, id)
	return nil
}

// Len returns the number of retained reports.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// CleanupOldReports removes reports older than maxAge, keeping reports
// fetched within KeepAliveWindow.
func (s *Store) CleanupOldReports(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	keepAliveCutoff := time.Now().Add(-KeepAliveWindow)

	for id, state := range s.reports {
		if state.lastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.report.CreatedAt.Before(cutoff) {
			delete(s.reports, id)
		}
	}
}

// evictOldestLocked removes n reports with the oldest access times.
// Caller must hold the write lock.
func (s *Store) evictOldestLocked(n int) {
	type aged struct {
		id string
		at time.Time
	}
	all := make([]aged, 0, len(s.reports))
	for id, state := range s.reports {
		all = append(all, aged{id, state.lastAccessed})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].at.Before(all[j].at)
	})
	for i := 0; i < n && i < len(all); i++ {
		delete(s.reports, all[i].id)
	}
}
