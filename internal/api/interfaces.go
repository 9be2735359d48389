// interfaces.go - Handler and processor interface definitions
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/pdf-studio/backend/internal/models"
	"github.com/pdf-studio/backend/internal/pdf"
)

// FileHandler handles upload and file catalog operations
type FileHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleFileContent(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
}

// PreviewHandler handles preview resource requests
type PreviewHandler interface {
	HandlePreview(c echo.Context) error
}

// EditHandler handles edit batch submission
type EditHandler interface {
	HandleEdit(c echo.Context) error
}

// ExportHandler handles format conversion and download
type ExportHandler interface {
	HandleExport(c echo.Context) error
}

// HealthHandler handles liveness checks
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// DocumentProcessor is the slice of the pdf package the handlers use.
// Tests substitute a stub so handler logic runs without real PDFs.
type DocumentProcessor interface {
	PageCount(path string) (int, error)
	Validate(path string) error
	ApplyEdits(inPath, outPath string, edits []models.Edit, meta models.DocumentMetadata) (*pdf.ApplyResult, error)
	Export(inPath, docName string, meta models.DocumentMetadata, req models.ExportRequest) (*pdf.ExportResult, error)
}

var _ DocumentProcessor = (*pdf.Processor)(nil)
