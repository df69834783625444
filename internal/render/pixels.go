package render

import "image/color"

// fillColorRGBA copies per-cell colors into RGBA pixels in buf.
func fillColorRGBA(buf []byte, colors []color.RGBA) {
	for i, col := range colors {
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Frame converts a simulation frame into RGBA pixels. Colors win over the
// palette when both are given.
func Frame(buf []byte, cells []uint8, colors []color.RGBA, palette []color.RGBA) {
	if len(colors) > 0 {
		fillColorRGBA(buf, colors)
		return
	}
	fillPaletteRGBA(buf, cells, palette)
}
