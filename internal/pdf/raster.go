package pdf

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pdf-studio/backend/internal/models"
)

// Letter-size page in points; density scales points to pixels.
const (
	pageWidthPt  = 612
	pageHeightPt = 792
)

func densityFor(quality string) int {
	switch quality {
	case models.QualityLow:
		return 1
	case models.QualityHigh:
		return 3
	default:
		return 2
	}
}

// whiteRectImage writes an opaque white PNG sized w x h points and
// returns its path. Used as the white-out stamp source.
func (p *Processor) whiteRectImage(w, h float64) (string, error) {
	iw, ih := int(w+0.5), int(h+0.5)
	if iw < 1 {
		iw = 1
	}
	if ih < 1 {
		ih = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, iw, ih))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	f, err := os.CreateTemp(p.tempDir, "whiteout-*.png")
	if err != nil {
		return "", fmt.Errorf("temp image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("encode white-out: %w", err)
	}
	return f.Name(), nil
}

// renderPageCard draws a snapshot card for one page: white page with a
// border and an identifying caption. There is no pure-Go rasterizer
// for full page content, so raster exports are degraded to these
// cards; the caption carries the document name and page number.
func renderPageCard(docName string, pageNumber, pageCount, density int) *image.RGBA {
	w := pageWidthPt * density
	h := pageHeightPt * density

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	border := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	for x := 0; x < w; x++ {
		img.Set(x, 0, border)
		img.Set(x, h-1, border)
	}
	for y := 0; y < h; y++ {
		img.Set(0, y, border)
		img.Set(w-1, y, border)
	}

	drawLabel(img, docName, 24*density, 40*density)
	drawLabel(img, fmt.Sprintf("page %d of %d", pageNumber, pageCount), 24*density, 60*density)

	return img
}

func drawLabel(img *image.RGBA, text string, x, y int) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func encodeImage(w io.Writer, img image.Image, format, quality string) error {
	switch format {
	case models.FormatJPG:
		q := 80
		switch quality {
		case models.QualityLow:
			q = 50
		case models.QualityHigh:
			q = 95
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	default:
		return png.Encode(w, img)
	}
}

// writePageImage writes one page card to dir and returns the file path.
func writePageImage(dir, docName, format, quality string, pageNumber, pageCount int) (string, error) {
	img := renderPageCard(docName, pageNumber, pageCount, densityFor(quality))

	name := fmt.Sprintf("page_%03d.%s", pageNumber, format)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create page image: %w", err)
	}
	defer f.Close()

	if err := encodeImage(f, img, format, quality); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("encode page image: %w", err)
	}
	return path, nil
}
