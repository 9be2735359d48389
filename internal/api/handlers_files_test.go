// handlers_files_test.go - Tests for upload and file catalog handlers
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pdf-studio/backend/internal/models"
	"github.com/pdf-studio/backend/internal/testutil"
)

const maxTestUpload = 10 * 1024 * 1024

func pdfPayload(size int) []byte {
	data := []byte("%PDF-1.4\n")
	if size > len(data) {
		data = append(data, make([]byte, size-len(data))...)
	}
	return data
}

func TestFileHandler_HandleUploadFile(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		data        []byte
		wantStatus  int
		wantErr     bool
		errCode     string
	}{
		{
			name:        "valid pdf upload",
			fileName:    "report.pdf",
			contentType: "application/pdf",
			data:        pdfPayload(256),
			wantStatus:  http.StatusCreated,
		},
		{
			name:        "missing declared type still accepted with magic",
			fileName:    "report.pdf",
			contentType: "",
			data:        pdfPayload(64),
			wantStatus:  http.StatusCreated,
		},
		{
			name:        "wrong declared type",
			fileName:    "notes.txt",
			contentType: "text/plain",
			data:        []byte("plain text"),
			wantErr:     true,
			wantStatus:  http.StatusUnsupportedMediaType,
			errCode:     "UNSUPPORTED_MEDIA_TYPE",
		},
		{
			name:        "pdf declared but wrong magic",
			fileName:    "fake.pdf",
			contentType: "application/pdf",
			data:        []byte("GIF89a not a pdf"),
			wantErr:     true,
			wantStatus:  http.StatusUnsupportedMediaType,
			errCode:     "UNSUPPORTED_MEDIA_TYPE",
		},
		{
			name:        "oversize upload",
			fileName:    "huge.pdf",
			contentType: "application/pdf",
			data:        pdfPayload(maxTestUpload + 1),
			wantErr:     true,
			wantStatus:  http.StatusRequestEntityTooLarge,
			errCode:     "PAYLOAD_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStore(t.TempDir())
			handler := NewFileHandler(store, &stubProcessor{pageCount: 3}, maxTestUpload, 20, testLogger(), nil)

			c, rec := newMultipartContext(t, tt.fileName, tt.contentType, tt.data)
			err := handler.HandleUploadFile(c)

			if tt.wantErr {
				assertAPIError(t, err, tt.wantStatus, tt.errCode)
				if store.GetFileCount() != 0 {
					t.Errorf("rejected upload must not be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var got models.FileRecord
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if got.ID == "" {
				t.Errorf("expected a fileId in the response")
			}
			if got.Name != tt.fileName {
				t.Errorf("expected fileName %q, got %q", tt.fileName, got.Name)
			}
			if got.Size != int64(len(tt.data)) {
				t.Errorf("expected fileSize %d, got %d", len(tt.data), got.Size)
			}
			if got.PageCount != 3 {
				t.Errorf("expected pageCount 3, got %d", got.PageCount)
			}
		})
	}
}

// pointerCapturingStore records the record pointer Save hands out,
// which the real LocalStore also keeps in its index.
type pointerCapturingStore struct {
	*testutil.MockStore
	saved *models.FileRecord
}

func (s *pointerCapturingStore) Save(name string, r io.Reader) (*models.FileRecord, error) {
	rec, err := s.MockStore.Save(name, r)
	s.saved = rec
	return rec, err
}

func TestFileHandler_HandleUploadFile_DoesNotMutateStoredRecord(t *testing.T) {
	store := &pointerCapturingStore{MockStore: testutil.NewMockStore(t.TempDir())}
	handler := NewFileHandler(store, &stubProcessor{pageCount: 7}, maxTestUpload, 20, testLogger(), nil)

	c, rec := newMultipartContext(t, "doc.pdf", "application/pdf", pdfPayload(64))
	if err := handler.HandleUploadFile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The pointer the store indexes must stay untouched; the page
	// count lands via Update on a copy.
	if store.saved.PageCount != 0 {
		t.Errorf("handler wrote through the pointer shared with the store")
	}
	got, err := store.Get(store.saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PageCount != 7 {
		t.Errorf("page count should be persisted via Update, got %d", got.PageCount)
	}

	var resp models.FileRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PageCount != 7 {
		t.Errorf("response should carry the page count, got %d", resp.PageCount)
	}
}

func TestFileHandler_HandleUploadFile_NoFile(t *testing.T) {
	store := testutil.NewMockStore(t.TempDir())
	handler := NewFileHandler(store, &stubProcessor{}, maxTestUpload, 20, testLogger(), nil)

	c, _ := newJSONContext(t, http.MethodPost, "/api/files/upload", nil)
	err := handler.HandleUploadFile(c)
	assertAPIError(t, err, http.StatusBadRequest, "BAD_REQUEST")
}

func TestFileHandler_HandleRecentFiles(t *testing.T) {
	store := testutil.NewMockStore(t.TempDir())
	for i := 0; i < 5; i++ {
		store.AddFile("doc.pdf", pdfPayload(64))
	}
	handler := NewFileHandler(store, &stubProcessor{}, maxTestUpload, 3, testLogger(), nil)

	c, rec := newJSONContext(t, http.MethodGet, "/api/files/recent", nil)
	if err := handler.HandleRecentFiles(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var list []models.FileRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected the recent limit of 3 files, got %d", len(list))
	}
}

func TestFileHandler_HandleGetFile(t *testing.T) {
	store := testutil.NewMockStore(t.TempDir())
	seeded := store.AddFile("doc.pdf", pdfPayload(64))
	handler := NewFileHandler(store, &stubProcessor{}, maxTestUpload, 20, testLogger(), nil)

	t.Run("existing file", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues(seeded.ID)

		if err := handler.HandleGetFile(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(rec.Body.String(), seeded.ID) {
			t.Errorf("response missing fileId")
		}
	})

	t.Run("unknown file", func(t *testing.T) {
		c, _ := newJSONContext(t, http.MethodGet, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := handler.HandleGetFile(c)
		assertAPIError(t, err, http.StatusNotFound, "NOT_FOUND")
	})
}

func TestFileHandler_HandleFileContent(t *testing.T) {
	store := testutil.NewMockStore(t.TempDir())
	seeded := store.AddFile("doc.pdf", pdfPayload(128))
	handler := NewFileHandler(store, &stubProcessor{}, maxTestUpload, 20, testLogger(), nil)

	c, rec := newJSONContext(t, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(seeded.ID)

	if err := handler.HandleFileContent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(got, "inline") {
		t.Errorf("expected inline disposition, got %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Errorf("expected PDF bytes in the body")
	}
}

func TestFileHandler_HandleDeleteFile(t *testing.T) {
	store := testutil.NewMockStore(t.TempDir())
	seeded := store.AddFile("doc.pdf", pdfPayload(64))

	var invalidated []string
	handler := NewFileHandler(store, &stubProcessor{}, maxTestUpload, 20, testLogger(), func(id string) {
		invalidated = append(invalidated, id)
	})

	c, rec := newJSONContext(t, http.MethodDelete, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(seeded.ID)

	if err := handler.HandleDeleteFile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if store.GetFileCount() != 0 {
		t.Errorf("file should be gone after delete")
	}
	if len(invalidated) != 1 || invalidated[0] != seeded.ID {
		t.Errorf("expected one invalidation for %s, got %v", seeded.ID, invalidated)
	}

	c2, _ := newJSONContext(t, http.MethodDelete, "/", nil)
	c2.SetParamNames("id")
	c2.SetParamValues(seeded.ID)
	err := handler.HandleDeleteFile(c2)
	assertAPIError(t, err, http.StatusNotFound, "NOT_FOUND")
}
