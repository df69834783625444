//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"lifegrid/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type ageFieldProvider interface {
	AgeField() []float32
}

// Overlay draws optional visuals on top of the base simulation. Key 1
// toggles the age heat map.
type Overlay struct {
	sim     core.Sim
	scale   int
	showAge bool
	maskImg *ebiten.Image
	maskBuf []byte
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: scale}
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showAge = !o.showAge
	}
}

// Draw renders the enabled layers onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showAge {
		return
	}
	provider, ok := o.sim.(ageFieldProvider)
	if !ok {
		return
	}
	size := o.sim.Size()
	total := size.W * size.H
	if total <= 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	o.drawMask(screen, provider.AgeField())
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32) {
	if len(mask)*4 != len(o.maskBuf) {
		return
	}
	const (
		maxAlpha      = 170.0
		intensityBias = 0.75
	)
	for i, v := range mask {
		base := i * 4
		intensity := clamp01(float64(v))
		if intensity == 0 {
			o.maskBuf[base+0] = 0
			o.maskBuf[base+1] = 0
			o.maskBuf[base+2] = 0
			o.maskBuf[base+3] = 0
			continue
		}
		col := heatColor(intensity)
		alpha := math.Round(maxAlpha * math.Pow(intensity, intensityBias))
		// Pixels are premultiplied.
		o.maskBuf[base+0] = scaleColorComponent(col.R, alpha/255)
		o.maskBuf[base+1] = scaleColorComponent(col.G, alpha/255)
		o.maskBuf[base+2] = scaleColorComponent(col.B, alpha/255)
		o.maskBuf[base+3] = uint8(alpha)
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}

// heatColor maps young entities to blue and old ones to red.
func heatColor(t float64) color.RGBA {
	stops := []struct {
		t   float64
		col color.RGBA
	}{
		{0.0, color.RGBA{R: 40, G: 90, B: 220, A: 255}},
		{0.5, color.RGBA{R: 240, G: 210, B: 60, A: 255}},
		{1.0, color.RGBA{R: 230, G: 40, B: 30, A: 255}},
	}
	t = clamp01(t)
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			span := curr.t - prev.t
			var local float64
			if span > 0 {
				local = (t - prev.t) / span
			}
			return lerpRGBA(prev.col, curr.col, local)
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
