// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/cad-profiler/backend/internal/knowledge"
	"github.com/cad-profiler/backend/internal/report"
	"github.com/cad-profiler/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store        storage.Store
	Analyzer     Analyzer
	Reports      *report.Store
	History      HistoryRecorder // nil disables history endpoints
	KB           *knowledge.Base
	AllowedTypes string
	Version      string
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Upload   UploadHandler
	Analyze  AnalyzeHandler
	Format   FormatHandler
	Material MaterialHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version),
		Upload:   NewUploadHandler(deps.Store, deps.AllowedTypes),
		Analyze:  NewAnalyzeHandler(deps.Store, deps.Analyzer, deps.Reports, deps.History),
		Format:   NewFormatHandler(deps.KB),
		Material: NewMaterialHandler(deps.KB),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	// File upload routes
	fileGroup := e.Group("/api/files")
	fileGroup.POST("/upload", handlers.Upload.HandleUploadFile)
	fileGroup.POST("/upload/chunk", handlers.Upload.HandleUploadChunk)
	fileGroup.POST("/upload/complete", handlers.Upload.HandleCompleteUpload)
	fileGroup.POST("/upload/binary", handlers.Upload.HandleUploadBinary)
	fileGroup.GET("/recent", handlers.Upload.HandleGetRecentFiles)
	fileGroup.GET("/:id", handlers.Upload.HandleGetFile)
	fileGroup.DELETE("/:id", handlers.Upload.HandleDeleteFile)
	fileGroup.PUT("/:id", handlers.Upload.HandleRenameFile)

	// Analysis routes
	e.POST("/api/analyze", handlers.Analyze.HandleAnalyze)
	analysisGroup := e.Group("/api/analyses")
	analysisGroup.GET("/recent", handlers.Analyze.HandleRecentAnalyses)
	analysisGroup.GET("/history", handlers.Analyze.HandleAnalysisHistory)
	analysisGroup.GET("/stats", handlers.Analyze.HandleAnalysisStats)
	analysisGroup.GET("/:id", handlers.Analyze.HandleGetReport)
	analysisGroup.GET("/:id/msgpack", handlers.Analyze.HandleGetReportMsgpack)
	analysisGroup.DELETE("/:id", handlers.Analyze.HandleDeleteReport)

	// Knowledge base routes
	formatGroup := e.Group("/api/formats")
	formatGroup.GET("", handlers.Format.HandleListFormats)
	formatGroup.GET("/compare", handlers.Format.HandleCompareFormats)
	formatGroup.GET("/:ext", handlers.Format.HandleGetFormat)

	materialGroup := e.Group("/api/materials")
	materialGroup.GET("", handlers.Material.HandleListMaterials)
	materialGroup.GET("/:name", handlers.Material.HandleGetMaterial)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
