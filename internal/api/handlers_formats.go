// handlers_formats.go - Format knowledge base handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cad-profiler/backend/internal/knowledge"
	"github.com/cad-profiler/backend/internal/models"
)

// FormatHandlerImpl implements the FormatHandler interface
type FormatHandlerImpl struct {
	kb *knowledge.Base
}

// NewFormatHandler creates a new format handler instance
func NewFormatHandler(kb *knowledge.Base) FormatHandler {
	return &FormatHandlerImpl{kb: kb}
}

// formatDetail is the full per-format response: profile plus the derived
// quoting narrative and scoring reference.
type formatDetail struct {
	Profile          *models.FormatProfile      `json:"profile"`
	QuotingReality   string                     `json:"quotingReality"`
	ScoringReference knowledge.ScoringReference `json:"scoringReference"`
}

// HandleListFormats returns every known format profile
func (h *FormatHandlerImpl) HandleListFormats(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"formats": h.kb.Formats(),
		"aliases": h.kb.Aliases(),
	})
}

// HandleCompareFormats returns the comparison table across all formats,
// sorted by baseline risk
func (h *FormatHandlerImpl) HandleCompareFormats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.kb.ComparisonRows())
}

// HandleGetFormat returns one format profile with its quoting narrative
// and scoring reference. Aliases resolve (.stp finds .step).
func (h *FormatHandlerImpl) HandleGetFormat(c echo.Context) error {
	ext := c.Param("ext")
	if ext == "" {
		return NewValidationError("ext")
	}

	// Allow "step" as well as ".step" in the path
	if ext[0] != '.' {
		ext = "." + ext
	}

	f, ok := h.kb.Format(ext)
	if !ok {
		return NewNotFoundError("format", ext)
	}

	return c.JSON(http.StatusOK, formatDetail{
		Profile:          f,
		QuotingReality:   knowledge.QuotingReality(f),
		ScoringReference: h.kb.ScoringReferenceFor(f),
	})
}
