// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pdf-studio/backend/internal/preview"
	"github.com/pdf-studio/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store       storage.Store
	Processor   DocumentProcessor
	Previews    *preview.Manager
	Log         *zap.Logger
	MaxUpload   int64
	RecentLimit int
	Version     string
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Files   FileHandler
	Preview PreviewHandler
	Edit    EditHandler
	Export  ExportHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	invalidate := func(fileID string) {
		if deps.Previews != nil {
			deps.Previews.Invalidate(fileID)
		}
	}
	return &Handlers{
		Health:  NewHealthHandler(deps.Version),
		Files:   NewFileHandler(deps.Store, deps.Processor, deps.MaxUpload, deps.RecentLimit, deps.Log, invalidate),
		Preview: NewPreviewHandler(deps.Store, deps.Previews),
		Edit:    NewEditHandler(deps.Store, deps.Processor, deps.Log, invalidate),
		Export:  NewExportHandler(deps.Store, deps.Processor, deps.Log),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.HTTPErrorHandler = ErrorHandler

	apiGroup := e.Group("/api")

	apiGroup.GET("/health", handlers.Health.HandleHealth)

	filesGroup := apiGroup.Group("/files")
	filesGroup.POST("/upload", handlers.Files.HandleUploadFile)
	filesGroup.GET("/recent", handlers.Files.HandleRecentFiles)
	filesGroup.GET("/:id", handlers.Files.HandleGetFile)
	filesGroup.GET("/:id/content", handlers.Files.HandleFileContent)
	filesGroup.GET("/:id/preview", handlers.Preview.HandlePreview)
	filesGroup.POST("/:id/edit", handlers.Edit.HandleEdit)
	filesGroup.POST("/:id/export", handlers.Export.HandleExport)
	filesGroup.DELETE("/:id", handlers.Files.HandleDeleteFile)
}
