// Package preview paints a single debug frame for a schedule: the visible
// part of a captured frame scaled into the viewport, plus a placeholder box
// where the camera overlay sits.
package preview

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/jmikh/recordio-sub002/internal/geom"
	"github.com/jmikh/recordio-sub002/internal/system"
	"github.com/jmikh/recordio-sub002/internal/viewmap"
)

var (
	Background   = color.RGBA{R: 24, G: 24, B: 27, A: 255}
	OverlayColor = color.NRGBA{R: 80, G: 160, B: 255, A: 200}
)

// Render draws src as seen through viewport onto an output-sized canvas
// taken from pool. overlay may be nil. The caller owns the returned image
// and may hand it back with pool.Put.
func Render(src image.Image, view *viewmap.Mapper, viewport geom.Rect, overlay *geom.Rect, pool *system.FramePool) *image.RGBA {
	out := pool.Get(geom.FullRect(view.OutputSize()).ImageRect())
	draw.Draw(out, out.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)

	if rr := view.ResolveRenderRects(viewport); rr != nil {
		sr := rr.SourceRect.ImageRect().Add(src.Bounds().Min).Intersect(src.Bounds())
		dr := rr.DestRect.ImageRect().Intersect(out.Bounds())
		if !sr.Empty() && !dr.Empty() {
			draw.CatmullRom.Scale(out, dr, src, sr, draw.Src, nil)
		}
	}

	if overlay != nil && !overlay.Empty() {
		draw.Draw(out, overlay.ImageRect().Intersect(out.Bounds()), &image.Uniform{C: OverlayColor}, image.Point{}, draw.Over)
	}
	return out
}
