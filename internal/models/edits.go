package models

// Edit actions accepted by the edit endpoint.
const (
	ActionAddText       = "add_text"
	ActionAddImage      = "add_image"
	ActionAddAnnotation = "add_annotation"
	ActionRemoveElement = "remove_element"
	ActionReplaceText   = "replace_text"
)

// Edit is one entry of an edit batch. Coordinates are PDF user-space
// points with the origin at the bottom-left of the page. Width and
// height are client-side approximations, not measured values.
type Edit struct {
	PageNumber int     `json:"pageNumber" msgpack:"pageNumber"`
	X          float64 `json:"x" msgpack:"x"`
	Y          float64 `json:"y" msgpack:"y"`
	Width      float64 `json:"width" msgpack:"width"`
	Height     float64 `json:"height" msgpack:"height"`
	Text       string  `json:"text,omitempty" msgpack:"text"`
	FontSize   float64 `json:"fontSize,omitempty" msgpack:"fontSize"`
	Color      string  `json:"color,omitempty" msgpack:"color"`
	Action     string  `json:"action" msgpack:"action"`

	// Replacement fields, used when Action is "replace_text". The
	// original string is resolved to a page position server-side.
	OriginalText    string `json:"originalText,omitempty" msgpack:"originalText"`
	ReplacementText string `json:"replacementText,omitempty" msgpack:"replacementText"`
}

// ValidAction reports whether the action tag is one this server knows.
func ValidAction(a string) bool {
	switch a {
	case ActionAddText, ActionAddImage, ActionAddAnnotation, ActionRemoveElement, ActionReplaceText:
		return true
	}
	return false
}

// EditBatch is a stored record of one applied edit request.
type EditBatch struct {
	ID       string           `json:"editId" msgpack:"id"`
	FileID   string           `json:"fileId" msgpack:"fileId"`
	Edits    []Edit           `json:"edits" msgpack:"edits"`
	Metadata DocumentMetadata `json:"metadata" msgpack:"metadata"`
}

// Export formats accepted by the export endpoint.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJPG  = "jpg"
	FormatDOCX = "docx"
)

// ValidFormat reports whether the export format is supported.
func ValidFormat(f string) bool {
	switch f {
	case FormatPDF, FormatPNG, FormatJPG, FormatDOCX:
		return true
	}
	return false
}

// Export qualities. Quality only affects raster output density.
const (
	QualityLow    = "low"
	QualityMedium = "medium"
	QualityHigh   = "high"
)

// ExportRequest is the body of the export endpoint.
type ExportRequest struct {
	Format  string `json:"format"`
	Quality string `json:"quality,omitempty"`
	Pages   []int  `json:"pages,omitempty"`
}
