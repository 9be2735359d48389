package pdf

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdf-studio/backend/internal/models"
)

// exportDocx builds a minimal OOXML word-processing package. The
// corpus has no DOCX library, and a .docx is just a zip of XML parts,
// so the container is assembled directly: content types, relationship
// map, core properties (carrying the document metadata), and a body
// with one section per exported page.
func (p *Processor) exportDocx(inPath, base string, meta models.DocumentMetadata, pages []int) (*ExportResult, error) {
	pageCount, err := p.PageCount(inPath)
	if err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		for i := 1; i <= pageCount; i++ {
			pages = append(pages, i)
		}
	}
	for _, n := range pages {
		if n < 1 || n > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", n, pageCount)
		}
	}

	out, err := os.CreateTemp(p.tempDir, "export-*.docx")
	if err != nil {
		return nil, fmt.Errorf("temp docx: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"docProps/core.xml", docxCoreProps(base, meta)},
		{"word/document.xml", docxDocument(base, pages, pageCount)},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			zw.Close()
			os.Remove(out.Name())
			return nil, fmt.Errorf("docx part %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			zw.Close()
			os.Remove(out.Name())
			return nil, fmt.Errorf("docx part %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		os.Remove(out.Name())
		return nil, fmt.Errorf("finalize docx: %w", err)
	}

	return &ExportResult{
		Path:        out.Name(),
		FileName:    base + ".docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}, nil
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>
`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>
`

func docxCoreProps(base string, meta models.DocumentMetadata) string {
	title := meta.Title
	if title == "" {
		title = base
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` + "\n")
	fmt.Fprintf(&b, "  <dc:title>%s</dc:title>\n", xmlEscape(title))
	if meta.Author != "" {
		fmt.Fprintf(&b, "  <dc:creator>%s</dc:creator>\n", xmlEscape(meta.Author))
	}
	if meta.Subject != "" {
		fmt.Fprintf(&b, "  <dc:subject>%s</dc:subject>\n", xmlEscape(meta.Subject))
	}
	if meta.Keywords != "" {
		fmt.Fprintf(&b, "  <cp:keywords>%s</cp:keywords>\n", xmlEscape(meta.Keywords))
	}
	fmt.Fprintf(&b, `  <dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`+"\n",
		time.Now().UTC().Format(time.RFC3339))
	b.WriteString("</cp:coreProperties>\n")
	return b.String()
}

func docxDocument(base string, pages []int, pageCount int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + "\n")
	b.WriteString("  <w:body>\n")
	fmt.Fprintf(&b, "    <w:p><w:r><w:t>%s</w:t></w:r></w:p>\n", xmlEscape(base))
	for i, n := range pages {
		fmt.Fprintf(&b, "    <w:p><w:r><w:t>Page %d of %d</w:t></w:r></w:p>\n", n, pageCount)
		if i < len(pages)-1 {
			b.WriteString("    <w:p><w:r><w:br w:type=\"page\"/></w:r></w:p>\n")
		}
	}
	b.WriteString("  </w:body>\n")
	b.WriteString("</w:document>\n")
	return b.String()
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
