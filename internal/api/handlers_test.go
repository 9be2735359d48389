// handlers_test.go - Shared test fixtures for the api package
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pdf-studio/backend/internal/models"
	"github.com/pdf-studio/backend/internal/pdf"
)

// stubProcessor implements DocumentProcessor without touching real
// PDFs. Behaviors are swappable per test.
type stubProcessor struct {
	pageCount  int
	pageErr    error
	applyErr   error
	skipped    []string
	exportErr  error
	exportName string
}

func (s *stubProcessor) PageCount(path string) (int, error) {
	if s.pageErr != nil {
		return 0, s.pageErr
	}
	if s.pageCount == 0 {
		return 1, nil
	}
	return s.pageCount, nil
}

func (s *stubProcessor) Validate(path string) error { return nil }

func (s *stubProcessor) ApplyEdits(inPath, outPath string, edits []models.Edit, meta models.DocumentMetadata) (*pdf.ApplyResult, error) {
	if s.applyErr != nil {
		return nil, s.applyErr
	}
	data, err := os.ReadFile(inPath)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return nil, err
	}
	return &pdf.ApplyResult{Applied: len(edits) - len(s.skipped), Skipped: s.skipped}, nil
}

func (s *stubProcessor) Export(inPath, docName string, meta models.DocumentMetadata, req models.ExportRequest) (*pdf.ExportResult, error) {
	if s.exportErr != nil {
		return nil, s.exportErr
	}
	f, err := os.CreateTemp("", "export-*.bin")
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(f, "exported %s as %s", docName, req.Format)
	f.Close()
	name := s.exportName
	if name == "" {
		name = "out." + req.Format
	}
	return &pdf.ExportResult{Path: f.Name(), FileName: name, ContentType: "application/octet-stream"}, nil
}

func testLogger() *zap.Logger { return zap.NewNop() }

// newJSONContext builds an echo context carrying a JSON body.
func newJSONContext(t *testing.T, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	e := echo.New()
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// newMultipartContext builds an echo context carrying one multipart
// file under the "file" field.
func newMultipartContext(t *testing.T, name, contentType string, data []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, name)}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertAPIError(t *testing.T, err error, wantStatus int, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != wantStatus {
		t.Errorf("expected status %d, got %d", wantStatus, apiErr.Status)
	}
	if wantCode != "" && apiErr.Code != wantCode {
		t.Errorf("expected code %s, got %s", wantCode, apiErr.Code)
	}
}
