// Package camera derives the secondary camera overlay from the zoom schedule.
package camera

import (
	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/geom"
)

// Anchor is the overlay corner that stays put while the overlay resizes.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// AnchorOf picks the corner by the quadrant of the overlay's center relative
// to the output center. A center exactly on a midline counts as left or top.
func AnchorOf(cam config.CameraSettings, output geom.Size) Anchor {
	cx := cam.X + cam.Width/2
	cy := cam.Y + cam.Height/2
	right := cx > output.Width/2
	bottom := cy > output.Height/2

	switch {
	case bottom && right:
		return AnchorBottomRight
	case bottom:
		return AnchorBottomLeft
	case right:
		return AnchorTopRight
	default:
		return AnchorTopLeft
	}
}

// ScaleSettings resizes cam by scale keeping the anchor corner fixed.
func ScaleSettings(cam config.CameraSettings, scale float64, anchor Anchor) config.CameraSettings {
	oldW, oldH := cam.Width, cam.Height
	cam.Width = oldW * scale
	cam.Height = oldH * scale

	switch anchor {
	case AnchorTopRight:
		cam.X += oldW - cam.Width
	case AnchorBottomLeft:
		cam.Y += oldH - cam.Height
	case AnchorBottomRight:
		cam.X += oldW - cam.Width
		cam.Y += oldH - cam.Height
	}
	return cam
}

// Rect returns the overlay bounds in output pixels.
func Rect(cam config.CameraSettings) geom.Rect {
	return geom.Rect{X: cam.X, Y: cam.Y, Width: cam.Width, Height: cam.Height}
}
