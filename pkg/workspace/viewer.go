package workspace

import (
	"context"
	"math"

	"github.com/pdf-studio/backend/pkg/client"
)

// Zoom bounds and step size for the viewer.
const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.2
)

// Viewer holds preview navigation state. The preview descriptor is
// fetched once per file revision and cached until reset.
type Viewer struct {
	api *client.Client

	preview  *client.PreviewInfo
	page     int
	zoom     float64
	rotation int
}

func newViewer(api *client.Client) *Viewer {
	v := &Viewer{api: api}
	v.reset()
	return v
}

func (v *Viewer) reset() {
	v.preview = nil
	v.page = 1
	v.zoom = 1.0
	v.rotation = 0
}

// Preview returns the cached preview descriptor, fetching it on first
// use for the current revision.
func (v *Viewer) Preview(ctx context.Context, fileID string) (*client.PreviewInfo, error) {
	if v.preview != nil {
		return v.preview, nil
	}
	info, err := v.api.Preview(ctx, fileID)
	if err != nil {
		return nil, err
	}
	v.preview = info
	if v.page > info.PageCount {
		v.page = info.PageCount
	}
	// Page numbers stay 1-based even for an empty document.
	if v.page < 1 {
		v.page = 1
	}
	return info, nil
}

// Page returns the current 1-based page number.
func (v *Viewer) Page() int { return v.page }

// Zoom returns the current zoom factor.
func (v *Viewer) Zoom() float64 { return v.zoom }

// Rotation returns the current rotation in degrees.
func (v *Viewer) Rotation() int { return v.rotation }

// NextPage advances one page, saturating at the last page.
func (v *Viewer) NextPage() int {
	if v.preview != nil && v.page < v.preview.PageCount {
		v.page++
	}
	return v.page
}

// PrevPage goes back one page, saturating at page 1.
func (v *Viewer) PrevPage() int {
	if v.page > 1 {
		v.page--
	}
	return v.page
}

// ZoomIn increases zoom by one step, clamped to MaxZoom.
func (v *Viewer) ZoomIn() float64 {
	v.zoom = clampZoom(v.zoom + ZoomStep)
	return v.zoom
}

// ZoomOut decreases zoom by one step, clamped to MinZoom.
func (v *Viewer) ZoomOut() float64 {
	v.zoom = clampZoom(v.zoom - ZoomStep)
	return v.zoom
}

// Rotate turns the view 90 degrees clockwise.
func (v *Viewer) Rotate() int {
	v.rotation = (v.rotation + 90) % 360
	return v.rotation
}

func clampZoom(z float64) float64 {
	// Round to one decimal so repeated steps stay on the grid.
	z = math.Round(z*10) / 10
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
