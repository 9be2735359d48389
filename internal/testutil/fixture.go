// fixture.go - Test PDF generation helpers
package testutil

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFBytes generates a small valid PDF with the given number of pages.
// Each page carries a line of text so content extraction has something
// to find.
func PDFBytes(pages int) []byte {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Text(72, 72, fmt.Sprintf("Test page %d", i))
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PDFBytesWithText generates a one-page PDF containing the given text.
func PDFBytesWithText(text string) []byte {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(100, 200, text)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
