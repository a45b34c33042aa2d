package vt

// Palette256 is the standard 256-color palette: 16 named colors (0-15), a
// 6x6x6 color cube (16-231), and 24 grayscale steps (232-255).
var Palette256 [256]RGB4

var palette8Bit = [16][3]uint8{
	{0, 0, 0}, {205, 49, 49}, {13, 188, 121}, {229, 229, 16},
	{36, 114, 200}, {188, 63, 188}, {17, 168, 205}, {229, 229, 229},
	{102, 102, 102}, {241, 76, 76}, {35, 209, 139}, {245, 245, 67},
	{59, 142, 234}, {214, 112, 214}, {41, 184, 219}, {255, 255, 255},
}

func init() {
	for i, rgb := range palette8Bit {
		Palette256[i] = QuantizeRGB8(rgb[0], rgb[1], rgb[2])
	}

	i := 16
	steps := [6]uint8{0, 51, 102, 153, 204, 255}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				Palette256[i] = QuantizeRGB8(steps[r], steps[g], steps[b])
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		Palette256[232+j] = QuantizeRGB8(gray, gray, gray)
	}
}

// IndexedRGB4 resolves a 0-255 SGR color index to its packed 4-bit color.
func IndexedRGB4(index int) RGB4 {
	if index < 0 || index > 255 {
		return RGB4{}
	}
	return Palette256[index]
}

// NearestPaletteIndex rounds an RGB4 color to the closest of the 256
// standard-palette entries.
func NearestPaletteIndex(c RGB4) int {
	best, bestDist := 0, 1<<30
	for i, p := range Palette256 {
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist, best = d, i
		}
	}
	return best
}
