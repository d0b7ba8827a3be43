package dither

import (
	"github.com/ironsheep/pixelart-tools/internal/palette"
	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

// orderedBase scales the matrix threshold into channel units at full
// strength, giving a +-32 nudge range.
const orderedBase = 64.0

// Quantize maps every opaque pixel to its nearest palette color without any
// perturbation. Transparent pixels (alpha < 128) are forced to alpha 0 and
// left unprocessed.
//
// The matcher's cache is shared across the whole image for the duration of
// the call, so uniform regions resolve with one palette scan.
func Quantize(src *pixbuf.Buffer, m *palette.Matcher) *pixbuf.Buffer {
	dst := src.Clone()
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			i := src.Offset(x, y)
			if src.Pix[i+3] < 128 {
				dst.Pix[i+3] = 0
				continue
			}
			c, _ := m.Match(float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2]))
			dst.Pix[i] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
		}
	}
	return dst
}

// Ordered applies matrix-threshold dithering before palette matching.
//
// For every opaque pixel the matrix value at (y mod N, x mod N) drives a
// luminance nudge, scaled by the base strength constant and the user
// strength fraction (strength/100), added to each RGB channel and clamped
// before matching.
func Ordered(src *pixbuf.Buffer, m *palette.Matcher, mat *Matrix, strength int) *pixbuf.Buffer {
	dst := src.Clone()
	frac := strengthFraction(strength)
	for y := 0; y < src.Height; y++ {
		row := mat.Cell[y%mat.Size]
		for x := 0; x < src.Width; x++ {
			i := src.Offset(x, y)
			if src.Pix[i+3] < 128 {
				dst.Pix[i+3] = 0
				continue
			}
			nudge := (float64(row[x%mat.Size])/mat.Div - 0.5) * orderedBase * frac
			c, _ := m.Match(
				float64(src.Pix[i])+nudge,
				float64(src.Pix[i+1])+nudge,
				float64(src.Pix[i+2])+nudge,
			)
			dst.Pix[i] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
		}
	}
	return dst
}

// Diffuse applies error-diffusion dithering with the given kernel.
//
// A floating-point working copy of the buffer carries accumulated error.
// Pixels are visited in raster order; each opaque pixel is matched from its
// (possibly already-perturbed) working value, the matched color is written,
// and the per-channel residual scaled by strength/100 is propagated to
// forward/below neighbors per the kernel. Neighbors with alpha < 128 are
// skipped, so no error sinks into or leaks out of transparent regions.
func Diffuse(src *pixbuf.Buffer, m *palette.Matcher, k *Kernel, strength int) *pixbuf.Buffer {
	dst := src.Clone()
	frac := strengthFraction(strength)

	work := make([]float64, src.Width*src.Height*3)
	for p := 0; p < src.Width*src.Height; p++ {
		work[p*3] = float64(src.Pix[p*4])
		work[p*3+1] = float64(src.Pix[p*4+1])
		work[p*3+2] = float64(src.Pix[p*4+2])
	}

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			i := src.Offset(x, y)
			if src.Pix[i+3] < 128 {
				dst.Pix[i+3] = 0
				continue
			}
			w := (y*src.Width + x) * 3
			c, _ := m.Match(work[w], work[w+1], work[w+2])
			dst.Pix[i] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B

			errR := (work[w] - float64(c.R)) * frac
			errG := (work[w+1] - float64(c.G)) * frac
			errB := (work[w+2] - float64(c.B)) * frac

			for _, off := range k.Offsets {
				nx := x + off.DX
				ny := y + off.DY
				if nx < 0 || nx >= src.Width || ny < 0 || ny >= src.Height {
					continue
				}
				if src.Pix[src.Offset(nx, ny)+3] < 128 {
					continue
				}
				f := float64(off.Num) / k.Div
				nw := (ny*src.Width + nx) * 3
				work[nw] += errR * f
				work[nw+1] += errG * f
				work[nw+2] += errB * f
			}
		}
	}
	return dst
}

// strengthFraction clamps the 0-100 user strength into [0, 1].
func strengthFraction(strength int) float64 {
	if strength < 0 {
		return 0
	}
	if strength > 100 {
		return 1
	}
	return float64(strength) / 100.0
}
