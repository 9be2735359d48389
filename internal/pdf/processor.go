// Package pdf wraps pdfcpu for all document processing: validation,
// page counting, text stamping, metadata, and export conversion. The
// rest of the server treats this package as a black box.
package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"github.com/pdf-studio/backend/internal/models"
)

// Processor applies edits and conversions to stored PDF files.
type Processor struct {
	tempDir string
	conf    *model.Configuration
	log     *zap.Logger
}

// NewProcessor creates a processor using the given scratch directory.
func NewProcessor(tempDir string, log *zap.Logger) *Processor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Processor{tempDir: tempDir, conf: conf, log: log}
}

// PageCount returns the number of pages in the document.
func (p *Processor) PageCount(path string) (int, error) {
	n, err := pdfapi.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return n, nil
}

// Validate checks that the file is a readable PDF.
func (p *Processor) Validate(path string) error {
	if err := pdfapi.ValidateFile(path, p.conf); err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	return nil
}

// Optimize writes an optimized copy of the document. Used for the
// pass-through PDF export and before preview generation.
func (p *Processor) Optimize(inPath, outPath string) error {
	if err := pdfapi.OptimizeFile(inPath, outPath, p.conf); err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	return nil
}

// ApplyResult describes the outcome of an edit batch.
type ApplyResult struct {
	Applied int
	Skipped []string // human-readable reasons for entries not applied
}

// ApplyEdits applies an edit batch to inPath and writes the result to
// outPath. Entries that cannot be applied are skipped and reported;
// the batch as a whole still succeeds (lossy by contract).
func (p *Processor) ApplyEdits(inPath, outPath string, edits []models.Edit, meta models.DocumentMetadata) (*ApplyResult, error) {
	if err := copyFile(inPath, outPath); err != nil {
		return nil, fmt.Errorf("staging copy: %w", err)
	}

	pageCount, err := p.PageCount(outPath)
	if err != nil {
		os.Remove(outPath)
		return nil, err
	}

	res := &ApplyResult{}
	for i, e := range edits {
		if e.PageNumber < 1 || e.PageNumber > pageCount {
			res.Skipped = append(res.Skipped, fmt.Sprintf("edit %d: page %d out of range", i, e.PageNumber))
			continue
		}
		var applyErr error
		switch e.Action {
		case models.ActionAddText, models.ActionAddAnnotation:
			applyErr = p.stampText(outPath, e)
		case models.ActionRemoveElement:
			applyErr = p.whiteOut(outPath, e.PageNumber, e.X, e.Y, e.Width, e.Height)
		case models.ActionReplaceText:
			applyErr = p.replaceText(outPath, e)
		case models.ActionAddImage:
			// The UI has no image picker yet; entries arrive with no
			// payload, so there is nothing to stamp.
			applyErr = fmt.Errorf("no image payload")
		default:
			applyErr = fmt.Errorf("unknown action %q", e.Action)
		}
		if applyErr != nil {
			p.log.Warn("edit entry skipped",
				zap.Int("index", i),
				zap.String("action", e.Action),
				zap.Error(applyErr))
			res.Skipped = append(res.Skipped, fmt.Sprintf("edit %d (%s): %v", i, e.Action, applyErr))
			continue
		}
		res.Applied++
	}

	if !meta.IsZero() {
		if err := p.SetMetadata(outPath, meta); err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("metadata: %v", err))
		}
	}

	return res, nil
}

// SetMetadata writes the document info fields as PDF properties.
func (p *Processor) SetMetadata(path string, meta models.DocumentMetadata) error {
	props := map[string]string{}
	if meta.Title != "" {
		props["Title"] = meta.Title
	}
	if meta.Author != "" {
		props["Author"] = meta.Author
	}
	if meta.Subject != "" {
		props["Subject"] = meta.Subject
	}
	if meta.Keywords != "" {
		props["Keywords"] = meta.Keywords
	}
	if len(props) == 0 {
		return nil
	}
	if err := pdfapi.AddPropertiesFile(path, "", props, p.conf); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}
	return nil
}

// stampText stamps a positioned text overlay onto one page. The
// coordinates are offsets from the bottom-left corner in points.
func (p *Processor) stampText(path string, e models.Edit) error {
	fontSize := e.FontSize
	if fontSize <= 0 {
		fontSize = 12
	}
	color := normalizeHexColor(e.Color)

	desc := fmt.Sprintf("fontname:Helvetica, points:%d, pos:bl, rot:0, op:1, fillc:%s, scale:1 abs",
		int(fontSize), color)

	wm, err := pdfcpu.ParseTextWatermarkDetails(e.Text, desc, true, types.POINTS)
	if err != nil {
		return fmt.Errorf("parse text watermark: %w", err)
	}
	wm.Dx = e.X
	wm.Dy = e.Y

	pages := []string{fmt.Sprintf("%d", e.PageNumber)}
	if err := pdfapi.AddWatermarksFile(path, "", pages, wm, p.conf); err != nil {
		return fmt.Errorf("stamp text: %w", err)
	}
	return nil
}

// whiteOut stamps an opaque white rectangle over the given box.
func (p *Processor) whiteOut(path string, pageNumber int, x, y, w, h float64) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty bounding box")
	}

	imgPath, err := p.whiteRectImage(w, h)
	if err != nil {
		return err
	}
	defer os.Remove(imgPath)

	wm, err := pdfcpu.ParseImageWatermarkDetails(imgPath, "scale:1 abs, pos:bl, rot:0, op:1", true, types.POINTS)
	if err != nil {
		return fmt.Errorf("parse image watermark: %w", err)
	}
	wm.Dx = x
	wm.Dy = y

	pages := []string{fmt.Sprintf("%d", pageNumber)}
	if err := pdfapi.AddWatermarksFile(path, "", pages, wm, p.conf); err != nil {
		return fmt.Errorf("stamp white-out: %w", err)
	}
	return nil
}

// replaceText resolves the position of the original string in the page
// content and stamps the replacement over it. Position resolution is
// approximate; an unresolvable original is an error the caller reports
// as a skipped entry.
func (p *Processor) replaceText(path string, e models.Edit) error {
	if e.OriginalText == "" || e.ReplacementText == "" {
		return fmt.Errorf("missing original or replacement text")
	}

	content, err := p.pageContent(path, e.PageNumber)
	if err != nil {
		return err
	}

	pos, fontSize, ok := FindTextPosition(content, e.OriginalText)
	if !ok {
		return fmt.Errorf("text %q not found on page %d", e.OriginalText, e.PageNumber)
	}
	if fontSize <= 0 {
		fontSize = 12
	}

	// Same box heuristic the client uses for overlays.
	w := float64(len(e.OriginalText)) * fontSize * 0.6
	h := fontSize * 1.2

	if err := p.whiteOut(path, e.PageNumber, pos.X, pos.Y-fontSize*0.2, w, h); err != nil {
		return err
	}

	stamp := models.Edit{
		PageNumber: e.PageNumber,
		X:          pos.X,
		Y:          pos.Y,
		Text:       e.ReplacementText,
		FontSize:   fontSize,
		Color:      "#000000",
		Action:     models.ActionAddText,
	}
	return p.stampText(path, stamp)
}

// pageContent extracts the decoded content stream of one page.
func (p *Processor) pageContent(path string, pageNumber int) ([]byte, error) {
	outDir, err := os.MkdirTemp(p.tempDir, "content-*")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	pages := []string{fmt.Sprintf("%d", pageNumber)}
	if err := pdfapi.ExtractContentFile(path, outDir, pages, p.conf); err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("read extracted content: %w", err)
	}

	var buf strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read extracted content: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("page %d has no content", pageNumber)
	}
	return []byte(buf.String()), nil
}

func normalizeHexColor(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return "#000000"
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	if len(c) != 7 {
		return "#000000"
	}
	return strings.ToLower(c)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
