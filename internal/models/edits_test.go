package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestValidAction(t *testing.T) {
	for _, a := range []string{ActionAddText, ActionAddImage, ActionAddAnnotation, ActionRemoveElement, ActionReplaceText} {
		assert.True(t, ValidAction(a), a)
	}
	assert.False(t, ValidAction("rotate_page"))
	assert.False(t, ValidAction(""))
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{FormatPDF, FormatPNG, FormatJPG, FormatDOCX} {
		assert.True(t, ValidFormat(f), f)
	}
	assert.False(t, ValidFormat("tiff"))
	assert.False(t, ValidFormat(""))
}

func TestDocumentMetadata_IsZero(t *testing.T) {
	assert.True(t, DocumentMetadata{}.IsZero())
	assert.False(t, DocumentMetadata{Title: "x"}.IsZero())
	assert.False(t, DocumentMetadata{Keywords: "a,b"}.IsZero())
}

func TestEdit_WireNames(t *testing.T) {
	e := Edit{
		PageNumber: 2, X: 10, Y: 20, Width: 86.4, Height: 14.4,
		Text: "Confidential", FontSize: 12, Color: "#ff0000",
		Action: ActionAddText,
	}
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"pageNumber", "x", "y", "width", "height", "text", "fontSize", "color", "action"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "originalText", "replacement fields are omitted when empty")
}

func TestEditBatch_MsgpackRoundTrip(t *testing.T) {
	batch := EditBatch{
		ID:     "b-1",
		FileID: "f-1",
		Edits: []Edit{{
			PageNumber: 1, Action: ActionReplaceText,
			OriginalText: "Draft", ReplacementText: "Final",
		}},
		Metadata: DocumentMetadata{Title: "Report"},
	}

	data, err := msgpack.Marshal(&batch)
	require.NoError(t, err)

	var got EditBatch
	require.NoError(t, msgpack.Unmarshal(data, &got))
	assert.Equal(t, batch, got)
}
