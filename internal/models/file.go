package models

import "time"

// FileRecord represents metadata about an uploaded PDF document.
type FileRecord struct {
	ID         string    `json:"fileId" msgpack:"id"`
	Name       string    `json:"fileName" msgpack:"name"`
	Size       int64     `json:"fileSize" msgpack:"size"`
	UploadedAt time.Time `json:"uploadDate" msgpack:"uploadedAt"`
	Status     string    `json:"status" msgpack:"status"` // "uploaded", "edited", "error"

	// Revision counts applied edit batches. Revision 0 is the original
	// upload; each successful edit writes a new revision file.
	Revision int `json:"revision" msgpack:"revision"`

	PageCount int `json:"pageCount,omitempty" msgpack:"pageCount"`

	Metadata DocumentMetadata `json:"metadata" msgpack:"metadata"`
	EditIDs  []string         `json:"editIds,omitempty" msgpack:"editIds"`
}

// DocumentMetadata holds the optional document info fields. Empty
// fields are left untouched in the PDF.
type DocumentMetadata struct {
	Title    string `json:"title,omitempty" msgpack:"title"`
	Author   string `json:"author,omitempty" msgpack:"author"`
	Subject  string `json:"subject,omitempty" msgpack:"subject"`
	Keywords string `json:"keywords,omitempty" msgpack:"keywords"`
}

// IsZero reports whether no metadata field is set.
func (m DocumentMetadata) IsZero() bool {
	return m.Title == "" && m.Author == "" && m.Subject == "" && m.Keywords == ""
}
