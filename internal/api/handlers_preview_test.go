// handlers_preview_test.go - Tests for the preview handler
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/pdf-studio/backend/internal/preview"
	"github.com/pdf-studio/backend/internal/testutil"
)

func TestPreviewHandler_HandlePreview(t *testing.T) {
	store := testutil.NewMockStore(t.TempDir())
	seeded := store.AddFile("doc.pdf", pdfPayload(128))

	previews := preview.NewManager(func(fileID string) (int, int, error) {
		rec, err := store.Get(fileID)
		if err != nil {
			return 0, 0, err
		}
		return 4, rec.Revision, nil
	}, testLogger())

	handler := NewPreviewHandler(store, previews)

	get := func() previewResponse {
		c, rec := newJSONContext(t, http.MethodGet, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues(seeded.ID)
		if err := handler.HandlePreview(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var resp previewResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return resp
	}

	resp := get()
	if resp.PageCount != 4 {
		t.Errorf("expected pageCount 4, got %d", resp.PageCount)
	}
	if !strings.Contains(resp.PreviewURL, seeded.ID) || !strings.Contains(resp.PreviewURL, "rev=0") {
		t.Errorf("unexpected previewUrl %q", resp.PreviewURL)
	}

	// Second request is served from cache; the counter still runs to
	// check the revision, but no new resource is built.
	if got := get(); got.PreviewURL != resp.PreviewURL {
		t.Errorf("previewUrl changed between requests: %q vs %q", resp.PreviewURL, got.PreviewURL)
	}
	if previews.Len() != 1 {
		t.Errorf("expected one cached resource, got %d", previews.Len())
	}
}

func TestPreviewHandler_HandlePreview_UnknownFile(t *testing.T) {
	store := testutil.NewMockStore(t.TempDir())
	previews := preview.NewManager(func(string) (int, int, error) { return 0, 0, nil }, testLogger())
	handler := NewPreviewHandler(store, previews)

	c, _ := newJSONContext(t, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := handler.HandlePreview(c)
	assertAPIError(t, err, http.StatusNotFound, "NOT_FOUND")
}
