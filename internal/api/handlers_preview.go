// handlers_preview.go - Preview resource handler
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdf-studio/backend/internal/preview"
	"github.com/pdf-studio/backend/internal/storage"
)

// PreviewHandlerImpl implements the PreviewHandler interface
type PreviewHandlerImpl struct {
	store    storage.Store
	previews *preview.Manager
}

// NewPreviewHandler creates a new preview handler instance
func NewPreviewHandler(store storage.Store, previews *preview.Manager) PreviewHandler {
	return &PreviewHandlerImpl{store: store, previews: previews}
}

type previewResponse struct {
	FileID     string `json:"fileId"`
	FileName   string `json:"fileName"`
	PreviewURL string `json:"previewUrl"`
	PageCount  int    `json:"pageCount"`
}

// HandlePreview returns the preview resource for a file: a URL to the
// rendered document plus its page count. The resource is cached per
// revision, so repeated requests do not reprocess the file.
func (h *PreviewHandlerImpl) HandlePreview(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	rec, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	res, err := h.previews.Get(id)
	if err != nil {
		return NewInternalError("failed to build preview", err)
	}

	return c.JSON(http.StatusOK, previewResponse{
		FileID:     rec.ID,
		FileName:   rec.Name,
		PreviewURL: fmt.Sprintf("/api/files/%s/content?rev=%d", rec.ID, res.Revision),
		PageCount:  res.PageCount,
	})
}
