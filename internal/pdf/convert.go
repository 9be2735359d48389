package pdf

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdf-studio/backend/internal/models"
)

// ExportResult points at a finished export artifact on disk. The
// caller streams it to the client and removes it afterwards.
type ExportResult struct {
	Path        string
	FileName    string
	ContentType string
}

// Export converts the document to the requested format and writes the
// artifact into the processor's temp directory.
func (p *Processor) Export(inPath, docName string, meta models.DocumentMetadata, req models.ExportRequest) (*ExportResult, error) {
	if !models.ValidFormat(req.Format) {
		return nil, fmt.Errorf("unsupported format %q", req.Format)
	}

	base := strings.TrimSuffix(filepath.Base(docName), filepath.Ext(docName))
	if base == "" {
		base = "document"
	}

	switch req.Format {
	case models.FormatPDF:
		return p.exportPDF(inPath, base, req.Pages)
	case models.FormatPNG, models.FormatJPG:
		return p.exportImages(inPath, base, req)
	default:
		return p.exportDocx(inPath, base, meta, req.Pages)
	}
}

// exportPDF produces an optimized pass-through copy, optionally
// trimmed to a page subset. Works with zero edits applied.
func (p *Processor) exportPDF(inPath, base string, pages []int) (*ExportResult, error) {
	out, err := os.CreateTemp(p.tempDir, "export-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("temp export file: %w", err)
	}
	out.Close()

	src := inPath
	if len(pages) > 0 {
		trimmed, err := os.CreateTemp(p.tempDir, "trim-*.pdf")
		if err != nil {
			os.Remove(out.Name())
			return nil, fmt.Errorf("temp trim file: %w", err)
		}
		trimmed.Close()
		defer os.Remove(trimmed.Name())

		if err := pdfapi.TrimFile(inPath, trimmed.Name(), pageSelection(pages), p.conf); err != nil {
			os.Remove(out.Name())
			return nil, fmt.Errorf("trim pages: %w", err)
		}
		src = trimmed.Name()
	}

	if err := p.Optimize(src, out.Name()); err != nil {
		os.Remove(out.Name())
		return nil, err
	}

	return &ExportResult{
		Path:        out.Name(),
		FileName:    base + ".pdf",
		ContentType: "application/pdf",
	}, nil
}

// exportImages renders one snapshot image per page. A single page is
// returned directly; multiple pages are bundled into a zip archive.
func (p *Processor) exportImages(inPath, base string, req models.ExportRequest) (*ExportResult, error) {
	pageCount, err := p.PageCount(inPath)
	if err != nil {
		return nil, err
	}

	pages := req.Pages
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

	workDir, err := os.MkdirTemp(p.tempDir, "images-*")
	if err != nil {
		return nil, fmt.Errorf("temp image dir: %w", err)
	}

	var paths []string
	for _, n := range pages {
		path, err := writePageImage(workDir, base, req.Format, req.Quality, n, pageCount)
		if err != nil {
			os.RemoveAll(workDir)
			return nil, err
		}
		paths = append(paths, path)
	}

	if len(paths) == 1 {
		contentType := "image/png"
		if req.Format == models.FormatJPG {
			contentType = "image/jpeg"
		}
		return &ExportResult{
			Path:        paths[0],
			FileName:    base + "." + req.Format,
			ContentType: contentType,
		}, nil
	}

	zipFile, err := os.CreateTemp(p.tempDir, "export-*.zip")
	if err != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("temp zip: %w", err)
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	for _, path := range paths {
		if err := addFileToZip(zw, path); err != nil {
			zw.Close()
			os.Remove(zipFile.Name())
			os.RemoveAll(workDir)
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		os.Remove(zipFile.Name())
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	os.RemoveAll(workDir)

	return &ExportResult{
		Path:        zipFile.Name(),
		FileName:    base + "_" + req.Format + ".zip",
		ContentType: "application/zip",
	}, nil
}

func addFileToZip(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("zip entry: %w", err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("zip write: %w", err)
	}
	return nil
}

func pageSelection(pages []int) []string {
	out := make([]string, 0, len(pages))
	for _, n := range pages {
		out = append(out, fmt.Sprintf("%d", n))
	}
	return out
}
