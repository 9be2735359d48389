package workspace

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdf-studio/backend/pkg/client"
)

func TestViewer_ZoomClamping(t *testing.T) {
	v := newViewer(nil)

	if v.Zoom() != 1.0 {
		t.Fatalf("expected initial zoom 1.0, got %v", v.Zoom())
	}

	// Step all the way up; must stop at 3.0.
	for i := 0; i < 20; i++ {
		v.ZoomIn()
	}
	if v.Zoom() != MaxZoom {
		t.Errorf("expected clamp at %v, got %v", MaxZoom, v.Zoom())
	}

	// Step all the way down; must stop at 0.5.
	for i := 0; i < 20; i++ {
		v.ZoomOut()
	}
	if v.Zoom() != MinZoom {
		t.Errorf("expected clamp at %v, got %v", MinZoom, v.Zoom())
	}

	// Steps land on the 0.2 grid without float drift.
	v.ZoomIn()
	v.ZoomIn()
	if math.Abs(v.Zoom()-0.9) > 1e-9 {
		t.Errorf("expected 0.9 after two steps from 0.5, got %v", v.Zoom())
	}
}

func TestViewer_RotationWraps(t *testing.T) {
	v := newViewer(nil)
	want := []int{90, 180, 270, 0, 90}
	for i, expect := range want {
		if got := v.Rotate(); got != expect {
			t.Errorf("rotation step %d: got %d, want %d", i, got, expect)
		}
	}
}

func TestViewer_PageNavigationSaturates(t *testing.T) {
	v := newViewer(nil)

	if v.PrevPage() != 1 {
		t.Errorf("prev on page 1 must stay on page 1")
	}

	// Without a fetched preview the page count is unknown; next must
	// not advance past it.
	if v.NextPage() != 1 {
		t.Errorf("next without a preview must stay put")
	}
}

func TestViewer_PreviewEmptyDocumentKeepsPageOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(client.PreviewInfo{FileID: "f-1", PageCount: 0})
	}))
	defer srv.Close()

	v := newViewer(client.New(srv.URL))
	if _, err := v.Preview(context.Background(), "f-1"); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if v.Page() != 1 {
		t.Errorf("page must stay 1-based for an empty document, got %d", v.Page())
	}
	if v.PrevPage() != 1 || v.NextPage() != 1 {
		t.Errorf("navigation must stay pinned to page 1")
	}
}
