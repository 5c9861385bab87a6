package viewmap

import (
	"math"

	"github.com/jmikh/recordio-sub002/internal/geom"
)

// MappedPoint is a point projected into output (or screen) space. Visible is
// false when the input point lay outside the effective input and was clamped.
type MappedPoint struct {
	geom.Point
	Visible bool
}

// RenderRects pairs the part of the source frame to copy with where it lands
// on the output canvas for a given viewport.
type RenderRects struct {
	SourceRect geom.Rect `json:"sourceRect"`
	DestRect   geom.Rect `json:"destRect"`
}

// Mapper converts coordinates between the raw capture and the logical output
// canvas. The effective input (crop or full frame) is uniformly scaled to fit
// inside the padded output and centered.
type Mapper struct {
	inputSize   geom.Size
	outputSize  geom.Size
	padding     float64
	effective   geom.Rect
	contentRect geom.Rect
}

// New builds a Mapper. padding is a fraction of the output size applied on
// each side. A nil crop uses the whole input.
func New(inputSize, outputSize geom.Size, padding float64, crop *geom.Rect) *Mapper {
	m := &Mapper{
		inputSize:  inputSize,
		outputSize: outputSize,
		padding:    padding,
		effective:  geom.FullRect(inputSize),
	}
	if crop != nil {
		m.effective = *crop
	}
	m.contentRect = m.fit()
	return m
}

func (m *Mapper) fit() geom.Rect {
	availW := m.outputSize.Width * (1 - 2*m.padding)
	availH := m.outputSize.Height * (1 - 2*m.padding)
	if m.effective.Empty() || !(availW > 0) || !(availH > 0) {
		return geom.Rect{}
	}

	// The larger ratio wins so the whole input is contained (letterbox/pillarbox).
	scale := math.Max(m.effective.Width/availW, m.effective.Height/availH)
	w := m.effective.Width / scale
	h := m.effective.Height / scale

	return geom.Rect{
		X:      (m.outputSize.Width - w) / 2,
		Y:      (m.outputSize.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}

func (m *Mapper) InputSize() geom.Size  { return m.inputSize }
func (m *Mapper) OutputSize() geom.Size { return m.outputSize }

// EffectiveInput is the crop rect, or the full input when uncropped.
func (m *Mapper) EffectiveInput() geom.Rect { return m.effective }

// ContentRect is where the effective input lands in output space.
func (m *Mapper) ContentRect() geom.Rect { return m.contentRect }

// OutputRect is the whole output canvas.
func (m *Mapper) OutputRect() geom.Rect { return geom.FullRect(m.outputSize) }

// InputToOutputPoint projects p into output space, clamping it to the
// effective input first.
func (m *Mapper) InputToOutputPoint(p geom.Point) MappedPoint {
	if m.contentRect.Empty() {
		return MappedPoint{Point: geom.Point{X: m.contentRect.X, Y: m.contentRect.Y}}
	}

	nx := (p.X - m.effective.X) / m.effective.Width
	ny := (p.Y - m.effective.Y) / m.effective.Height
	visible := nx >= 0 && nx <= 1 && ny >= 0 && ny <= 1

	nx = geom.Clamp01(nx)
	ny = geom.Clamp01(ny)

	return MappedPoint{
		Point: geom.Point{
			X: m.contentRect.X + nx*m.contentRect.Width,
			Y: m.contentRect.Y + ny*m.contentRect.Height,
		},
		Visible: visible,
	}
}

// InputToOutputRect maps r corner to corner.
func (m *Mapper) InputToOutputRect(r geom.Rect) geom.Rect {
	tl := m.InputToOutputPoint(geom.Point{X: r.X, Y: r.Y})
	br := m.InputToOutputPoint(geom.Point{X: r.Right(), Y: r.Bottom()})
	return geom.Rect{
		X:      tl.X,
		Y:      tl.Y,
		Width:  br.X - tl.X,
		Height: br.Y - tl.Y,
	}
}

// OutputToInputPoint maps an output point back into source space. Points in
// the padding clamp to the edge of the effective input.
func (m *Mapper) OutputToInputPoint(p geom.Point) MappedPoint {
	if m.contentRect.Empty() {
		return MappedPoint{Point: geom.Point{X: m.effective.X, Y: m.effective.Y}}
	}

	nx := (p.X - m.contentRect.X) / m.contentRect.Width
	ny := (p.Y - m.contentRect.Y) / m.contentRect.Height
	visible := nx >= 0 && nx <= 1 && ny >= 0 && ny <= 1

	nx = geom.Clamp01(nx)
	ny = geom.Clamp01(ny)

	return MappedPoint{
		Point: geom.Point{
			X: m.effective.X + nx*m.effective.Width,
			Y: m.effective.Y + ny*m.effective.Height,
		},
		Visible: visible,
	}
}

// ResolveRenderRects intersects viewport with the content rect and returns
// the matching source and destination rectangles for a blit. It returns nil
// when the viewport only sees padding or any geometry is degenerate.
func (m *Mapper) ResolveRenderRects(viewport geom.Rect) *RenderRects {
	if viewport.Empty() || m.contentRect.Empty() {
		return nil
	}
	visible, ok := viewport.Intersect(m.contentRect)
	if !ok {
		return nil
	}

	sx := m.effective.Width / m.contentRect.Width
	sy := m.effective.Height / m.contentRect.Height
	src := geom.Rect{
		X:      m.effective.X + (visible.X-m.contentRect.X)*sx,
		Y:      m.effective.Y + (visible.Y-m.contentRect.Y)*sy,
		Width:  visible.Width * sx,
		Height: visible.Height * sy,
	}

	dx := m.outputSize.Width / viewport.Width
	dy := m.outputSize.Height / viewport.Height
	dst := geom.Rect{
		X:      (visible.X - viewport.X) * dx,
		Y:      (visible.Y - viewport.Y) * dy,
		Width:  visible.Width * dx,
		Height: visible.Height * dy,
	}

	return &RenderRects{SourceRect: src, DestRect: dst}
}

// ProjectToScreen maps a source point to its on-screen position when the
// output is viewed through viewport.
func (m *Mapper) ProjectToScreen(p geom.Point, viewport geom.Rect) MappedPoint {
	out := m.InputToOutputPoint(p)
	if viewport.Empty() {
		out.Visible = false
		return out
	}
	sx := m.outputSize.Width / viewport.Width
	sy := m.outputSize.Height / viewport.Height

	screen := geom.Point{
		X: (out.X - viewport.X) * sx,
		Y: (out.Y - viewport.Y) * sy,
	}
	onScreen := screen.X >= 0 && screen.X <= m.outputSize.Width &&
		screen.Y >= 0 && screen.Y <= m.outputSize.Height

	return MappedPoint{Point: screen, Visible: out.Visible && onScreen}
}
