// handlers_analyze.go - Analysis operation handlers
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cad-profiler/backend/internal/analysis"
	"github.com/cad-profiler/backend/internal/report"
	"github.com/cad-profiler/backend/internal/storage"
)

// AnalyzeHandlerImpl implements the AnalyzeHandler interface
type AnalyzeHandlerImpl struct {
	store    storage.Store
	analyzer Analyzer
	reports  *report.Store
	history  HistoryRecorder // nil when history is disabled
}

// NewAnalyzeHandler creates a new analyze handler instance
func NewAnalyzeHandler(store storage.Store, analyzer Analyzer, reports *report.Store, hist HistoryRecorder) AnalyzeHandler {
	return &AnalyzeHandlerImpl{
		store:    store,
		analyzer: analyzer,
		reports:  reports,
		history:  hist,
	}
}

// setStatus records a file status transition; a failed update should not
// fail the analysis, so it is only logged.
func (h *AnalyzeHandlerImpl) setStatus(c echo.Context, fileID, status string) {
	if err := h.store.SetStatus(fileID, status); err != nil {
		c.Logger().Warnf("failed to set status %s on file %s: %v", status, fileID, err)
	}
}

type analyzeRequest struct {
	FileID   string `json:"fileId"`
	Material string `json:"material"`
	Workflow string `json:"workflow"`
}

// HandleAnalyze runs the scoring pipeline on an uploaded file and returns
// the full report.
func (h *AnalyzeHandlerImpl) HandleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.FileID == "" {
		return NewValidationError("fileId")
	}

	info, err := h.store.Get(req.FileID)
	if err != nil {
		return NewNotFoundError("file", req.FileID)
	}

	data, err := h.store.Read(req.FileID)
	if err != nil {
		return NewInternalError("failed to read file content", err)
	}

	result, err := h.analyzer.Analyze(analysis.Request{
		File:     info,
		Data:     data,
		Material: req.Material,
		Workflow: req.Workflow,
	})
	if err != nil {
		h.setStatus(c, req.FileID, "error")
		var unknownFmt *analysis.UnknownFormatError
		if errors.As(err, &unknownFmt) {
			return NewUnknownFormatError(unknownFmt.Extension)
		}
		return NewInternalError("analysis failed", err)
	}

	h.setStatus(c, req.FileID, "analyzed")
	h.reports.Put(result)

	if h.history != nil {
		if err := h.history.Record(result); err != nil {
			c.Logger().Warnf("failed to record analysis %s in history: %v", result.ID, err)
		}
	}

	return c.JSON(http.StatusOK, result)
}

// HandleGetReport returns a previously computed report by ID
func (h *AnalyzeHandlerImpl) HandleGetReport(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	r, ok := h.reports.Get(id)
	if !ok {
		return NewNotFoundError("analysis", id)
	}

	return c.JSON(http.StatusOK, r)
}

// HandleGetReportMsgpack returns a report encoded as MessagePack.
// MessagePack is 30-50% smaller than JSON for report payloads.
func (h *AnalyzeHandlerImpl) HandleGetReportMsgpack(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	r, ok := h.reports.Get(id)
	if !ok {
		return NewNotFoundError("analysis", id)
	}

	data, err := msgpack.Marshal(r)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleRecentAnalyses returns the most recent reports, newest first
func (h *AnalyzeHandlerImpl) HandleRecentAnalyses(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}

	return c.JSON(http.StatusOK, h.reports.Recent(limit))
}

// HandleAnalysisHistory returns the persisted analysis history, which
// survives restarts unlike the in-memory report store
func (h *AnalyzeHandlerImpl) HandleAnalysisHistory(c echo.Context) error {
	if h.history == nil {
		return NewServiceUnavailableError("analysis history is disabled")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 50
	}

	entries, err := h.history.Recent(limit)
	if err != nil {
		return NewInternalError("failed to query history", err)
	}

	return c.JSON(http.StatusOK, entries)
}

// HandleAnalysisStats returns aggregate statistics over the recorded
// analysis history
func (h *AnalyzeHandlerImpl) HandleAnalysisStats(c echo.Context) error {
	if h.history == nil {
		return NewServiceUnavailableError("analysis history is disabled")
	}

	stats, err := h.history.ComputeStats()
	if err != nil {
		return NewInternalError("failed to compute stats", err)
	}

	return c.JSON(http.StatusOK, stats)
}

// HandleDeleteReport removes a report from the report store
func (h *AnalyzeHandlerImpl) HandleDeleteReport(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.reports.Delete(id); err != nil {
		return NewNotFoundError("analysis", id)
	}

	return c.NoContent(http.StatusNoContent)
}
