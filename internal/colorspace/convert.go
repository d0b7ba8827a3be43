package colorspace

import "math"

// Lab is a color in the CIELAB space (D65 white point, L in 0-100).
type Lab struct {
	L, A, B float64
}

// OKLab is a color in the OKLab space (L in 0-1).
type OKLab struct {
	L, A, B float64
}

// D65 reference white, on the x100 XYZ scale.
const (
	whiteX = 95.047
	whiteY = 100.000
	whiteZ = 108.883
)

// srgbToLinear applies the inverse sRGB gamma to one 8-bit channel,
// returning a linear value in [0, 1].
func srgbToLinear(c uint8) float64 {
	v := float64(c) / 255.0
	if v > 0.04045 {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}

// RGBToXYZ converts 8-bit sRGB to CIE XYZ (D65), scaled x100.
func RGBToXYZ(r, g, b uint8) (x, y, z float64) {
	rl := srgbToLinear(r) * 100.0
	gl := srgbToLinear(g) * 100.0
	bl := srgbToLinear(b) * 100.0

	x = rl*0.4124 + gl*0.3576 + bl*0.1805
	y = rl*0.2126 + gl*0.7152 + bl*0.0722
	z = rl*0.0193 + gl*0.1192 + bl*0.9505
	return x, y, z
}

// labF is the cube-root/linear hybrid applied to each normalized XYZ axis.
func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

// XYZToLab converts x100-scaled XYZ to CIELAB using the D65 white point.
func XYZToLab(x, y, z float64) Lab {
	fx := labF(x / whiteX)
	fy := labF(y / whiteY)
	fz := labF(z / whiteZ)
	return Lab{
		L: 116.0*fy - 16.0,
		A: 500.0 * (fx - fy),
		B: 200.0 * (fy - fz),
	}
}

// RGBToLab converts 8-bit sRGB to CIELAB.
func RGBToLab(r, g, b uint8) Lab {
	return XYZToLab(RGBToXYZ(r, g, b))
}

// RGBToOKLab converts 8-bit sRGB to OKLab.
//
// The conversion is gamma linearization, a fixed linear-RGB-to-LMS matrix,
// a per-channel cube root, then the LMS-to-OKLab matrix.
func RGBToOKLab(r, g, b uint8) OKLab {
	rl := srgbToLinear(r)
	gl := srgbToLinear(g)
	bl := srgbToLinear(b)

	l := 0.4122214708*rl + 0.5363325363*gl + 0.0514459929*bl
	m := 0.2119034982*rl + 0.6806995451*gl + 0.1073969566*bl
	s := 0.0883024619*rl + 0.2817188376*gl + 0.6299787005*bl

	lp := math.Cbrt(l)
	mp := math.Cbrt(m)
	sp := math.Cbrt(s)

	return OKLab{
		L: 0.2104542553*lp + 0.7936177850*mp - 0.0040720468*sp,
		A: 1.9779984951*lp - 2.4285922050*mp + 0.4505937099*sp,
		B: 0.0259040371*lp + 0.7827717662*mp - 0.8086757660*sp,
	}
}
