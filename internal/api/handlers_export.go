// handlers_export.go - Format conversion and download handler
package api

import (
	"os"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pdf-studio/backend/internal/models"
	"github.com/pdf-studio/backend/internal/storage"
)

// ExportHandlerImpl implements the ExportHandler interface
type ExportHandlerImpl struct {
	store storage.Store
	proc  DocumentProcessor
	log   *zap.Logger
}

// NewExportHandler creates a new export handler instance
func NewExportHandler(store storage.Store, proc DocumentProcessor, log *zap.Logger) ExportHandler {
	return &ExportHandlerImpl{store: store, proc: proc, log: log}
}

// HandleExport converts the current revision to the requested format
// and streams the artifact as an attachment. Works with zero edits
// applied (pass-through conversion).
func (h *ExportHandlerImpl) HandleExport(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req models.ExportRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Format == "" {
		return NewValidationError("format")
	}
	if !models.ValidFormat(req.Format) {
		return NewBadRequestError("unsupported export format: "+req.Format, nil)
	}
	if req.Quality != "" &&
		req.Quality != models.QualityLow &&
		req.Quality != models.QualityMedium &&
		req.Quality != models.QualityHigh {
		return NewValidationError("quality")
	}

	rec, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	path, err := h.store.FilePath(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	result, err := h.proc.Export(path, rec.Name, rec.Metadata, req)
	if err != nil {
		return NewInternalError("export failed", err)
	}
	defer os.Remove(result.Path)

	h.log.Info("export produced",
		zap.String("fileId", id),
		zap.String("format", req.Format),
		zap.String("artifact", result.FileName))

	c.Response().Header().Set(echo.HeaderContentType, result.ContentType)
	return c.Attachment(result.Path, result.FileName)
}
