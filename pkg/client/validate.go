package client

import (
	"fmt"
	"math"
	"os"
	"strings"
)

// MaxUploadBytes is the upload size ceiling the server enforces. The
// client checks it before dispatching to avoid a doomed round trip.
const MaxUploadBytes = 10 * 1024 * 1024

// ValidateFile checks a local file against the upload rules: it must
// carry a .pdf extension, start with the PDF magic bytes, and fit the
// size ceiling. It returns an *APIError on failure.
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return newDispatchError(fmt.Errorf("cannot read file: %w", err))
	}
	if info.IsDir() {
		return newDispatchError(fmt.Errorf("%s is a directory", path))
	}
	if !strings.EqualFold(ext(path), ".pdf") {
		return newDispatchError(fmt.Errorf("only PDF files are accepted"))
	}
	if info.Size() > MaxUploadBytes {
		return newDispatchError(fmt.Errorf("file is too large (%s); limit is %s",
			FormatBytes(info.Size()), FormatBytes(MaxUploadBytes)))
	}

	f, err := os.Open(path)
	if err != nil {
		return newDispatchError(fmt.Errorf("cannot open file: %w", err))
	}
	defer f.Close()
	head := make([]byte, 5)
	if _, err := f.Read(head); err != nil || string(head) != "%PDF-" {
		return newDispatchError(fmt.Errorf("file does not look like a PDF"))
	}
	return nil
}

func ext(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i:]
	}
	return ""
}

// FormatBytes renders a byte count for humans, e.g. "2.4 MB".
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := float64(n) / math.Pow(1024, float64(i))
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}
