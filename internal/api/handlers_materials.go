// handlers_materials.go - Material knowledge base handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cad-profiler/backend/internal/knowledge"
)

// MaterialHandlerImpl implements the MaterialHandler interface
type MaterialHandlerImpl struct {
	kb *knowledge.Base
}

// NewMaterialHandler creates a new material handler instance
func NewMaterialHandler(kb *knowledge.Base) MaterialHandler {
	return &MaterialHandlerImpl{kb: kb}
}

// HandleListMaterials returns every known material profile
func (h *MaterialHandlerImpl) HandleListMaterials(c echo.Context) error {
	return c.JSON(http.StatusOK, h.kb.Materials())
}

// HandleGetMaterial returns one material profile by name
func (h *MaterialHandlerImpl) HandleGetMaterial(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return NewValidationError("name")
	}

	m, ok := h.kb.Material(name)
	if !ok {
		return NewNotFoundError("material", name)
	}

	return c.JSON(http.StatusOK, m)
}
