package survival

import "image/color"

const (
	// Blended genetic colors stay clear of pure black and white.
	blendFloor   = 10
	blendCeiling = 245

	spawnColorBase = 80
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// RGBA converts the color to an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Rand is the single source of randomness for a world. core.RNG satisfies it.
type Rand interface {
	IntN(n int) int
	Bool() bool
}

// spawnColor derives the starting color of an entity created at (x, y).
func spawnColor(x, y int, r Rand) RGB {
	return RGB{
		R: clampChannel(spawnColorBase+r.IntN(x+y+1), 0, 255),
		G: clampChannel(spawnColorBase+r.IntN(x+1), 0, 255),
		B: clampChannel(spawnColorBase+r.IntN(y+1), 0, 255),
	}
}

// landTint is the territory color a land starts with.
func landTint(x, y int) RGB {
	return RGB{
		R: clampChannel(x+x, 0, 255),
		G: clampChannel(y+y, 0, 255),
		B: clampChannel(x+y, 0, 255),
	}
}

// blendGenes nudges each channel of genes toward or away from prey by a random
// amount bounded by their distance.
func blendGenes(genes, prey RGB, minVariation int, r Rand) RGB {
	return RGB{
		R: blendChannel(genes.R, prey.R, minVariation, r),
		G: blendChannel(genes.G, prey.G, minVariation, r),
		B: blendChannel(genes.B, prey.B, minVariation, r),
	}
}

func blendChannel(gene, prey uint8, minVariation int, r Rand) uint8 {
	neg := r.Bool()
	delta := absInt(int(prey)-int(gene)) + minVariation
	if delta <= 0 {
		delta = 1
	}
	step := r.IntN(delta)
	if neg {
		step = -step
	}
	return clampChannel(int(gene)+step, blendFloor, blendCeiling)
}

func clampChannel(v, lo, hi int) uint8 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return uint8(v)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
