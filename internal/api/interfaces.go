// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/cad-profiler/backend/internal/analysis"
	"github.com/cad-profiler/backend/internal/history"
	"github.com/cad-profiler/backend/internal/models"
)

// UploadHandler handles file upload operations
type UploadHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleUploadChunk(c echo.Context) error
	HandleCompleteUpload(c echo.Context) error
	HandleUploadBinary(c echo.Context) error
	HandleGetRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
	HandleRenameFile(c echo.Context) error
}

// AnalyzeHandler handles analysis operations
type AnalyzeHandler interface {
	HandleAnalyze(c echo.Context) error
	HandleGetReport(c echo.Context) error
	HandleGetReportMsgpack(c echo.Context) error
	HandleRecentAnalyses(c echo.Context) error
	HandleAnalysisHistory(c echo.Context) error
	HandleAnalysisStats(c echo.Context) error
	HandleDeleteReport(c echo.Context) error
}

// FormatHandler handles format knowledge base operations
type FormatHandler interface {
	HandleListFormats(c echo.Context) error
	HandleCompareFormats(c echo.Context) error
	HandleGetFormat(c echo.Context) error
}

// MaterialHandler handles material knowledge base operations
type MaterialHandler interface {
	HandleListMaterials(c echo.Context) error
	HandleGetMaterial(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Analyzer runs the scoring pipeline for one uploaded file.
// This allows mocking in tests.
type Analyzer interface {
	Analyze(req analysis.Request) (*models.AnalysisReport, error)
}

// HistoryRecorder persists completed analyses. Nil-able: history is
// optional and the analyze path must work without it.
type HistoryRecorder interface {
	Record(r *models.AnalysisReport) error
	Recent(limit int) ([]history.Entry, error)
	ComputeStats() (*history.Stats, error)
}
