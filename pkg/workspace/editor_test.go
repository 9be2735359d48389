package workspace

import (
	"math"
	"testing"

	"github.com/pdf-studio/backend/pkg/client"
)

func TestEditor_OverlayListOrder(t *testing.T) {
	e := newEditor()

	for _, text := range []string{"first", "second", "third"} {
		if err := e.AddOverlay(Overlay{Page: 1, Text: text, FontSize: 12}); err != nil {
			t.Fatalf("AddOverlay: %v", err)
		}
	}

	if !e.RemoveOverlay(1) {
		t.Fatalf("RemoveOverlay failed")
	}
	got := e.Overlays()
	if len(got) != 2 || got[0].Text != "first" || got[1].Text != "third" {
		t.Errorf("removal must preserve relative order, got %+v", got)
	}

	if e.RemoveOverlay(5) {
		t.Errorf("out-of-range removal should report false")
	}
}

func TestEditor_Validation(t *testing.T) {
	e := newEditor()

	if err := e.AddOverlay(Overlay{Page: 1}); err == nil {
		t.Errorf("empty overlay text should be rejected")
	}
	if err := e.AddReplacement(Replacement{Page: 1, Original: "x"}); err == nil {
		t.Errorf("replacement without new text should be rejected")
	}
	if err := e.AddReplacement(Replacement{Page: 1, Replacement: "y"}); err == nil {
		t.Errorf("replacement without original text should be rejected")
	}
}

func TestEditor_BuildEditRequest(t *testing.T) {
	e := newEditor()
	if err := e.AddOverlay(Overlay{
		Page: 2, X: 100, Y: 200, Text: "Confidential", FontSize: 12, Color: "#ff0000",
	}); err != nil {
		t.Fatalf("AddOverlay: %v", err)
	}
	if err := e.AddReplacement(Replacement{Page: 1, Original: "Draft", Replacement: "Final"}); err != nil {
		t.Fatalf("AddReplacement: %v", err)
	}
	e.SetMetadata(client.Metadata{Title: "Annual report"})

	edits, meta := e.BuildEditRequest()
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(edits))
	}

	overlay := edits[0]
	if overlay.Action != "add_text" || overlay.PageNumber != 2 {
		t.Errorf("unexpected overlay edit %+v", overlay)
	}
	// "Confidential" is 12 characters at size 12.
	if math.Abs(overlay.Width-86.4) > 1e-9 {
		t.Errorf("expected width 86.4, got %v", overlay.Width)
	}
	if math.Abs(overlay.Height-14.4) > 1e-9 {
		t.Errorf("expected height 14.4, got %v", overlay.Height)
	}

	repl := edits[1]
	if repl.Action != "replace_text" || repl.OriginalText != "Draft" || repl.ReplacementText != "Final" {
		t.Errorf("unexpected replacement edit %+v", repl)
	}
	if repl.X != 0 || repl.Y != 0 || repl.Width != 0 || repl.Height != 0 {
		t.Errorf("replacements carry zero geometry, got %+v", repl)
	}

	if meta == nil || meta.Title != "Annual report" {
		t.Errorf("metadata not carried through")
	}
}

func TestEditor_ResetClearsEverything(t *testing.T) {
	e := newEditor()
	e.AddOverlay(Overlay{Page: 1, Text: "x", FontSize: 12})
	e.AddReplacement(Replacement{Page: 1, Original: "a", Replacement: "b"})
	e.SetMetadata(client.Metadata{Author: "someone"})

	e.Reset()

	edits, meta := e.BuildEditRequest()
	if len(edits) != 0 || meta != nil {
		t.Errorf("reset should clear all pending changes")
	}
}
