package geom

import (
	"image"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Point is a position in either source or output pixel space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Empty reports whether s has no positive area.
func (s Size) Empty() bool {
	return !(s.Width > 0) || !(s.Height > 0)
}

// Rect is an axis-aligned rectangle. Which space it lives in (source or
// output) is decided by the caller; mappers convert between them.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// FullRect returns the rectangle covering a whole canvas of the given size.
func FullRect(s Size) Rect {
	return Rect{X: 0, Y: 0, Width: s.Width, Height: s.Height}
}

// RectAround returns a w×h rectangle centered on c.
func RectAround(c Point, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// RectFromPoints returns the bounding box of the given points.
func RectFromPoints(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	rp := make([]r2.Point, len(pts))
	for i, p := range pts {
		rp[i] = r2.Point{X: p.X, Y: p.Y}
	}
	return fromR2(r2.RectFromPoints(rp...))
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Empty reports whether r has no positive area.
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

func (r Rect) r2() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: r.X, Hi: r.Right()},
		Y: r1.Interval{Lo: r.Y, Hi: r.Bottom()},
	}
}

func fromR2(rr r2.Rect) Rect {
	if rr.IsEmpty() {
		return Rect{}
	}
	return Rect{X: rr.X.Lo, Y: rr.Y.Lo, Width: rr.X.Length(), Height: rr.Y.Length()}
}

// Contains reports whether o lies entirely inside r (edges inclusive).
func (r Rect) Contains(o Rect) bool {
	return r.r2().Contains(o.r2())
}

func (r Rect) ContainsPoint(p Point) bool {
	return r.r2().ContainsPoint(r2.Point{X: p.X, Y: p.Y})
}

// Intersect returns the overlap of r and o. ok is false when the overlap has
// no positive area, including rectangles that only share an edge.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	in := fromR2(r.r2().Intersection(o.r2()))
	if in.Empty() {
		return Rect{}, false
	}
	return in, true
}

// Union returns the bounding box of r and o.
func (r Rect) Union(o Rect) Rect {
	return fromR2(r.r2().Union(o.r2()))
}

// ClampInside moves r so it lies inside bounds without resizing it. A rect
// larger than bounds along an axis is pinned to the bounds origin.
func (r Rect) ClampInside(bounds Rect) Rect {
	r.X = clampAxis(r.X, r.Width, bounds.X, bounds.Width)
	r.Y = clampAxis(r.Y, r.Height, bounds.Y, bounds.Height)
	return r
}

func clampAxis(pos, length, lo, span float64) float64 {
	if length >= span {
		return lo
	}
	return math.Max(lo, math.Min(pos, lo+span-length))
}

// ApproxEqual compares two rects component-wise within eps.
func (r Rect) ApproxEqual(o Rect, eps float64) bool {
	return math.Abs(r.X-o.X) <= eps &&
		math.Abs(r.Y-o.Y) <= eps &&
		math.Abs(r.Width-o.Width) <= eps &&
		math.Abs(r.Height-o.Height) <= eps
}

// ImageRect rounds r to integer pixel bounds.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())),
	)
}

// FromImageRect converts integer pixel bounds to a Rect.
func FromImageRect(ir image.Rectangle) Rect {
	return Rect{
		X:      float64(ir.Min.X),
		Y:      float64(ir.Min.Y),
		Width:  float64(ir.Dx()),
		Height: float64(ir.Dy()),
	}
}

// Lerp interpolates component-wise from a to b. t == 1 yields b exactly.
func Lerp(a, b Rect, t float64) Rect {
	return Rect{
		X:      LerpFloat(a.X, b.X, t),
		Y:      LerpFloat(a.Y, b.Y, t),
		Width:  LerpFloat(a.Width, b.Width, t),
		Height: LerpFloat(a.Height, b.Height, t),
	}
}

// LerpFloat blends a and b with weights that sum to one so the endpoints are exact.
func LerpFloat(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
