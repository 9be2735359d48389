package workspace

import (
	"errors"

	"github.com/pdf-studio/backend/pkg/client"
)

// Overlay is a pending text overlay before translation to an edit.
type Overlay struct {
	Page     int
	X        float64
	Y        float64
	Text     string
	FontSize float64
	Color    string
}

// Replacement is a pending find-and-replace entry.
type Replacement struct {
	Page        int
	Original    string
	Replacement string
}

// Editor accumulates pending edits and metadata changes. Lists are
// append-only; removal preserves the relative order of the rest.
type Editor struct {
	overlays     []Overlay
	replacements []Replacement
	metadata     client.Metadata
	metadataSet  bool
}

func newEditor() *Editor { return &Editor{} }

// Reset discards all pending changes.
func (e *Editor) Reset() {
	e.overlays = nil
	e.replacements = nil
	e.metadata = client.Metadata{}
	e.metadataSet = false
}

// Overlays returns the pending overlays in insertion order.
func (e *Editor) Overlays() []Overlay { return e.overlays }

// Replacements returns the pending replacements in insertion order.
func (e *Editor) Replacements() []Replacement { return e.replacements }

// AddOverlay appends a text overlay. Only the text is validated;
// geometry is taken as given.
func (e *Editor) AddOverlay(ov Overlay) error {
	if ov.Text == "" {
		return errors.New("overlay text is required")
	}
	if ov.Page < 1 {
		ov.Page = 1
	}
	if ov.FontSize <= 0 {
		ov.FontSize = 12
	}
	e.overlays = append(e.overlays, ov)
	return nil
}

// RemoveOverlay deletes the overlay at index i.
func (e *Editor) RemoveOverlay(i int) bool {
	if i < 0 || i >= len(e.overlays) {
		return false
	}
	e.overlays = append(e.overlays[:i], e.overlays[i+1:]...)
	return true
}

// AddReplacement appends a find-and-replace entry.
func (e *Editor) AddReplacement(rp Replacement) error {
	if rp.Original == "" || rp.Replacement == "" {
		return errors.New("both original and replacement text are required")
	}
	if rp.Page < 1 {
		rp.Page = 1
	}
	e.replacements = append(e.replacements, rp)
	return nil
}

// RemoveReplacement deletes the replacement at index i.
func (e *Editor) RemoveReplacement(i int) bool {
	if i < 0 || i >= len(e.replacements) {
		return false
	}
	e.replacements = append(e.replacements[:i], e.replacements[i+1:]...)
	return true
}

// SetMetadata stages document metadata changes.
func (e *Editor) SetMetadata(meta client.Metadata) {
	e.metadata = meta
	e.metadataSet = meta != (client.Metadata{})
}

// BuildEditRequest translates the pending lists into wire edits.
// Overlay boxes are approximated from the text length, not measured:
// width = len(text) x fontSize x 0.6, height = fontSize x 1.2.
// Replacements carry zero geometry; the server resolves the position.
func (e *Editor) BuildEditRequest() ([]client.Edit, *client.Metadata) {
	var edits []client.Edit
	for _, ov := range e.overlays {
		edits = append(edits, client.Edit{
			PageNumber: ov.Page,
			X:          ov.X,
			Y:          ov.Y,
			Width:      float64(len(ov.Text)) * ov.FontSize * 0.6,
			Height:     ov.FontSize * 1.2,
			Text:       ov.Text,
			FontSize:   ov.FontSize,
			Color:      ov.Color,
			Action:     "add_text",
		})
	}
	for _, rp := range e.replacements {
		edits = append(edits, client.Edit{
			PageNumber:      rp.Page,
			Action:          "replace_text",
			OriginalText:    rp.Original,
			ReplacementText: rp.Replacement,
		})
	}
	var meta *client.Metadata
	if e.metadataSet {
		m := e.metadata
		meta = &m
	}
	return edits, meta
}
