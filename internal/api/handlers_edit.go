// handlers_edit.go - Edit batch handler
package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pdf-studio/backend/internal/models"
	"github.com/pdf-studio/backend/internal/storage"
)

// EditHandlerImpl implements the EditHandler interface
type EditHandlerImpl struct {
	store        storage.Store
	proc         DocumentProcessor
	log          *zap.Logger
	onFileChange func(fileID string)
}

// NewEditHandler creates a new edit handler instance
func NewEditHandler(store storage.Store, proc DocumentProcessor, log *zap.Logger, onFileChange func(string)) EditHandler {
	if onFileChange == nil {
		onFileChange = func(string) {}
	}
	return &EditHandlerImpl{store: store, proc: proc, log: log, onFileChange: onFileChange}
}

type editRequest struct {
	Edits    []models.Edit            `json:"edits"`
	Metadata *models.DocumentMetadata `json:"metadata,omitempty"`
}

func (r *editRequest) validate() error {
	if len(r.Edits) == 0 && (r.Metadata == nil || r.Metadata.IsZero()) {
		return NewValidationError("edits")
	}
	for _, e := range r.Edits {
		if !models.ValidAction(e.Action) {
			return NewBadRequestError("unknown edit action: "+e.Action, nil)
		}
		if e.PageNumber < 1 {
			return NewValidationError("pageNumber")
		}
	}
	return nil
}

type editResponse struct {
	FileID  string `json:"fileId"`
	EditID  string `json:"editId"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleEdit applies an edit batch to the file's current revision and
// commits the result as a new revision. Entries the processor cannot
// apply are reported in the response message; the batch still
// succeeds (the translation is lossy by contract).
func (h *EditHandlerImpl) HandleEdit(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req editRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	if _, err := h.store.Get(id); err != nil {
		return NewNotFoundError("file", id)
	}

	inPath, err := h.store.FilePath(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}
	stagedPath, err := h.store.StagePath(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	var meta models.DocumentMetadata
	if req.Metadata != nil {
		meta = *req.Metadata
	}

	result, err := h.proc.ApplyEdits(inPath, stagedPath, req.Edits, meta)
	if err != nil {
		os.Remove(stagedPath)
		return NewInternalError("failed to apply edits", err)
	}

	batch := &models.EditBatch{
		ID:       uuid.New().String(),
		FileID:   id,
		Edits:    req.Edits,
		Metadata: meta,
	}

	rec, err := h.store.CommitRevision(id, stagedPath, batch)
	if err != nil {
		os.Remove(stagedPath)
		return NewInternalError("failed to commit revision", err)
	}
	h.onFileChange(id)

	msg := "edits applied"
	if len(result.Skipped) > 0 {
		msg = "edits applied with skipped entries: " + strings.Join(result.Skipped, "; ")
	}

	h.log.Info("edit batch applied",
		zap.String("fileId", id),
		zap.String("editId", batch.ID),
		zap.Int("applied", result.Applied),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("revision", rec.Revision))

	return c.JSON(http.StatusOK, editResponse{
		FileID:  id,
		EditID:  batch.ID,
		Success: true,
		Message: msg,
	})
}
