// Package history persists a record of every completed analysis in a
// DuckDB file so risk trends survive restarts.
package history

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/marcboeker/go-duckdb"

	"github.com/cad-profiler/backend/internal/models"
)

// Entry is one row of the analysis history.
type Entry struct {
	AnalysisID    string    `json:"analysisId"`
	FileName      string    `json:"fileName"`
	Extension     string    `json:"extension"`
	GeometryClass string    `json:"geometryClass"`
	Workflow      string    `json:"workflow"`
	Material      string    `json:"material"`
	Risk          int       `json:"risk"`
	RiskBand      string    `json:"riskBand"`
	Confidence    int       `json:"confidence"`
	ConfidenceBand string   `json:"confidenceBand"`
	ContextualRisk string   `json:"contextualRisk"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Stats summarizes the recorded analyses.
type Stats struct {
	Total          int            `json:"total"`
	AvgRisk        float64        `json:"avgRisk"`
	AvgConfidence  float64        `json:"avgConfidence"`
	ByRiskBand     map[string]int `json:"byRiskBand"`
	ByGeometry     map[string]int `json:"byGeometryClass"`
	ByWorkflow     map[string]int `json:"byWorkflow"`
}

// Store records analyses in a DuckDB database file.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// NewStore opens (or creates) the history database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "history.duckdb")

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			analysis_id     VARCHAR PRIMARY KEY,
			file_name       VARCHAR NOT NULL,
			extension       VARCHAR NOT NULL,
			geometry_class  VARCHAR NOT NULL,
			workflow        VARCHAR NOT NULL,
			material        VARCHAR NOT NULL,
			risk            INTEGER NOT NULL,
			risk_band       VARCHAR NOT NULL,
			confidence      INTEGER NOT NULL,
			confidence_band VARCHAR NOT NULL,
			contextual_risk VARCHAR NOT NULL,
			created_at      TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create analyses table: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one completed analysis.
func (s *Store) Record(r *models.AnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fileName := ""
	if r.File != nil {
		fileName = r.File.Name
	}

	_, err := s.db.Exec(`
		INSERT INTO analyses (
			analysis_id, file_name, extension, geometry_class, workflow,
			material, risk, risk_band, confidence, confidence_band,
			contextual_risk, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, fileName, r.CanonicalExt, string(r.GeometryClass), r.Workflow,
		r.MaterialName(), r.Risk.Score, r.Risk.Band, r.Confidence.Score,
		r.Confidence.Band, r.ContextualRisk, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}
	return nil
}

// Recent returns the latest recorded analyses, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT analysis_id, file_name, extension, geometry_class, workflow,
		       material, risk, risk_band, confidence, confidence_band,
		       contextual_risk, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.AnalysisID, &e.FileName, &e.Extension, &e.GeometryClass,
			&e.Workflow, &e.Material, &e.Risk, &e.RiskBand, &e.Confidence,
			&e.ConfidenceBand, &e.ContextualRisk, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ComputeStats aggregates the whole history.
func (s *Store) ComputeStats() (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &Stats{
		ByRiskBand: make(map[string]int),
		ByGeometry: make(map[string]int),
		ByWorkflow: make(map[string]int),
	}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(AVG(risk), 0),
		       COALESCE(AVG(confidence), 0)
		FROM analyses`).Scan(&stats.Total, &stats.AvgRisk, &stats.AvgConfidence)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	groups := []struct {
		column string
		dest   map[string]int
	}{
		{"risk_band", stats.ByRiskBand},
		{"geometry_class", stats.ByGeometry},
		{"workflow", stats.ByWorkflow},
	}
	for _, g := range groups {
		rows, err := s.db.Query(fmt.Sprintf(
			"SELECT %s, COUNT(*) FROM analyses GROUP BY %s", g.column, g.column))
		if err != nil {
			return nil, fmt.Errorf("failed to group by %s: %w", g.column, err)
		}
		for rows.Next() {
			var key string
			var count int
			if err := rows.Scan(&key, &count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan %s group: %w", g.column, err)
			}
			g.dest[key] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return stats, nil
}

// SortedBands returns the risk band names seen in the history, ordered by
// descending count. Useful for compact summaries.
func (st *Stats) SortedBands() []string {
	bands := make([]string, 0, len(st.ByRiskBand))
	for b := range st.ByRiskBand {
		bands = append(bands, b)
	}
	sort.Slice(bands, func(i, j int) bool {
		if st.ByRiskBand[bands[i]] != st.ByRiskBand[bands[j]] {
			return st.ByRiskBand[bands[i]] > st.ByRiskBand[bands[j]]
		}
		return bands[i] < bands[j]
	})
	return bands
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
