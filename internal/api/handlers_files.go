// handlers_files.go - Upload and file catalog handlers
package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pdf-studio/backend/internal/storage"
)

// pdfMagic is the signature every PDF file starts with.
const pdfMagic = "%PDF-"

// FileHandlerImpl implements the FileHandler interface
type FileHandlerImpl struct {
	store        storage.Store
	proc         DocumentProcessor
	maxUpload    int64
	recentLimit  int
	log          *zap.Logger
	onFileChange func(fileID string) // preview invalidation hook
}

// NewFileHandler creates a new file handler instance
func NewFileHandler(store storage.Store, proc DocumentProcessor, maxUpload int64, recentLimit int, log *zap.Logger, onFileChange func(string)) FileHandler {
	if onFileChange == nil {
		onFileChange = func(string) {}
	}
	return &FileHandlerImpl{
		store:        store,
		proc:         proc,
		maxUpload:    maxUpload,
		recentLimit:  recentLimit,
		log:          log,
		onFileChange: onFileChange,
	}
}

// HandleUploadFile accepts a multipart PDF upload (field name "file").
// The browser client validates MIME type and size before dispatch; the
// same checks run here with the same constants.
func (h *FileHandlerImpl) HandleUploadFile(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	if fh.Size > h.maxUpload {
		return NewPayloadTooLargeError("file exceeds the upload size limit")
	}

	declared := fh.Header.Get("Content-Type")
	if declared != "" && declared != "application/pdf" {
		return NewUnsupportedMediaError("only PDF files are accepted")
	}

	src, err := fh.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	// Sniff the signature regardless of the declared type.
	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(src, head); err != nil || string(head) != pdfMagic {
		return NewUnsupportedMediaError("file does not look like a PDF")
	}

	rec, err := h.store.Save(fh.Filename, io.MultiReader(strings.NewReader(string(head)), src))
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	path, err := h.store.FilePath(rec.ID)
	if err == nil {
		if n, cErr := h.proc.PageCount(path); cErr == nil {
			// The store hands back the pointer it indexes; mutate a
			// copy so concurrent readers never see an unlocked write.
			updated := *rec
			updated.PageCount = n
			if uErr := h.store.Update(&updated); uErr != nil {
				h.log.Warn("failed to persist page count", zap.String("fileId", rec.ID), zap.Error(uErr))
			}
			rec = &updated
		} else {
			h.log.Warn("page count failed on upload", zap.String("fileId", rec.ID), zap.Error(cErr))
		}
	}

	h.log.Info("file uploaded",
		zap.String("fileId", rec.ID),
		zap.String("name", rec.Name),
		zap.Int64("size", rec.Size))

	return c.JSON(http.StatusCreated, rec)
}

// HandleRecentFiles returns the most recently uploaded documents.
func (h *FileHandlerImpl) HandleRecentFiles(c echo.Context) error {
	files, err := h.store.List(h.recentLimit)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}
	return c.JSON(http.StatusOK, files)
}

// HandleGetFile returns metadata for a specific file.
func (h *FileHandlerImpl) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	rec, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}
	return c.JSON(http.StatusOK, rec)
}

// HandleFileContent streams the current revision inline. This is the
// target of the previewUrl the preview endpoint hands out.
func (h *FileHandlerImpl) HandleFileContent(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	rec, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	path, err := h.store.FilePath(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+rec.Name+`"`)
	return c.File(path)
}

// HandleDeleteFile deletes a file, all its revisions, and its edit log.
func (h *FileHandlerImpl) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.Delete(id); err != nil {
		return NewNotFoundError("file", id)
	}
	h.onFileChange(id)

	h.log.Info("file deleted", zap.String("fileId", id))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "file deleted",
	})
}
