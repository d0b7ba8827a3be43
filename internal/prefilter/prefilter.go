// Package prefilter implements the convolution-style preprocessing filters
// applied before resampling: median, bilateral, and Kuwahara.
//
// All three simplify or flatten source detail so downstream quantization
// produces cleaner pixel art. Alpha is always passed through unchanged, and
// neighborhood reads clamp to the buffer bounds at the edges.
package prefilter

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

// Method selects the preprocessing filter.
type Method int

const (
	// None disables preprocessing.
	None Method = iota
	// Median replaces each pixel with the per-channel neighborhood median.
	Median
	// Bilateral smooths while preserving edges via spatial and range weights.
	Bilateral
	// Kuwahara flattens regions by picking the lowest-variance quadrant mean.
	Kuwahara
)

// ParseMethod maps a settings tag to a Method.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "", "none":
		return None, nil
	case "median":
		return Median, nil
	case "bilateral":
		return Bilateral, nil
	case "kuwahara":
		return Kuwahara, nil
	}
	return 0, fmt.Errorf("unknown preprocessing method %q", name)
}

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Median:
		return "median"
	case Bilateral:
		return "bilateral"
	case Kuwahara:
		return "kuwahara"
	}
	return "unknown"
}

// Apply runs the selected filter at the given strength and returns a new
// buffer. None returns the source unchanged.
func Apply(src *pixbuf.Buffer, method Method, strength int) (*pixbuf.Buffer, error) {
	switch method {
	case None:
		return src, nil
	case Median:
		return applyMedian(src, strength), nil
	case Bilateral:
		return applyBilateral(src, strength), nil
	case Kuwahara:
		return applyKuwahara(src, strength), nil
	}
	return nil, fmt.Errorf("unknown preprocessing method %d", method)
}

// applyMedian takes the per-channel median over a square neighborhood whose
// radius is the strength clamped to 1-10.
func applyMedian(src *pixbuf.Buffer, strength int) *pixbuf.Buffer {
	radius := clampInt(strength, 1, 10)
	dst := src.Clone()
	side := 2*radius + 1
	rs := make([]int, 0, side*side)
	gs := make([]int, 0, side*side)
	bs := make([]int, 0, side*side)

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			rs = rs[:0]
			gs = gs[:0]
			bs = bs[:0]
			for dy := -radius; dy <= radius; dy++ {
				ny := clampInt(y+dy, 0, src.Height-1)
				for dx := -radius; dx <= radius; dx++ {
					nx := clampInt(x+dx, 0, src.Width-1)
					i := src.Offset(nx, ny)
					rs = append(rs, int(src.Pix[i]))
					gs = append(gs, int(src.Pix[i+1]))
					bs = append(bs, int(src.Pix[i+2]))
				}
			}
			sort.Ints(rs)
			sort.Ints(gs)
			sort.Ints(bs)
			mid := len(rs) / 2
			i := dst.Offset(x, y)
			dst.Pix[i] = uint8(rs[mid])
			dst.Pix[i+1] = uint8(gs[mid])
			dst.Pix[i+2] = uint8(bs[mid])
		}
	}
	return dst
}

// applyBilateral computes a weighted neighborhood average using the product
// of a precomputed spatial Gaussian and a range weight keyed by the absolute
// channel-sum difference. Radius and color sigma both scale with strength.
func applyBilateral(src *pixbuf.Buffer, strength int) *pixbuf.Buffer {
	radius := clampInt(strength, 1, 10)
	spatialSigma := float64(radius) / 2.0
	colorSigma := 10.0 + 8.0*float64(clampInt(strength, 1, 10))

	side := 2*radius + 1
	spatial := make([]float64, side*side)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*side+(dx+radius)] = math.Exp(-d2 / (2 * spatialSigma * spatialSigma))
		}
	}

	// Range lookup keyed by |sum(R,G,B)_center - sum(R,G,B)_neighbor|.
	rangeLUT := make([]float64, 3*255+1)
	for d := range rangeLUT {
		v := float64(d) / 3.0
		rangeLUT[d] = math.Exp(-(v * v) / (2 * colorSigma * colorSigma))
	}

	dst := src.Clone()
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			ci := src.Offset(x, y)
			centerSum := int(src.Pix[ci]) + int(src.Pix[ci+1]) + int(src.Pix[ci+2])

			var sumR, sumG, sumB, sumW float64
			for dy := -radius; dy <= radius; dy++ {
				ny := clampInt(y+dy, 0, src.Height-1)
				for dx := -radius; dx <= radius; dx++ {
					nx := clampInt(x+dx, 0, src.Width-1)
					i := src.Offset(nx, ny)
					nSum := int(src.Pix[i]) + int(src.Pix[i+1]) + int(src.Pix[i+2])
					diff := centerSum - nSum
					if diff < 0 {
						diff = -diff
					}
					w := spatial[(dy+radius)*side+(dx+radius)] * rangeLUT[diff]
					sumR += float64(src.Pix[i]) * w
					sumG += float64(src.Pix[i+1]) * w
					sumB += float64(src.Pix[i+2]) * w
					sumW += w
				}
			}
			if sumW > 0 {
				dst.Pix[ci] = uint8(sumR/sumW + 0.5)
				dst.Pix[ci+1] = uint8(sumG/sumW + 0.5)
				dst.Pix[ci+2] = uint8(sumB/sumW + 0.5)
			}
		}
	}
	return dst
}

// quadrant offsets: each window spans radius+1 pixels per axis including the
// center row/column.
var quadrants = [4][2]int{
	{-1, -1}, // top-left
	{0, -1},  // top-right
	{-1, 0},  // bottom-left
	{0, 0},   // bottom-right
}

// applyKuwahara evaluates four overlapping quadrant windows around each
// pixel and outputs the mean of the quadrant with the lowest luma variance,
// producing the flattened "painterly" look. Radius is 2+strength clamped to
// 2-14.
func applyKuwahara(src *pixbuf.Buffer, strength int) *pixbuf.Buffer {
	radius := clampInt(2+strength, 2, 14)
	dst := src.Clone()

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			bestVar := math.MaxFloat64
			var bestR, bestG, bestB float64

			for _, q := range quadrants {
				x0 := x + q[0]*radius
				y0 := y + q[1]*radius

				var sumR, sumG, sumB float64
				var sumLuma, sumLuma2 float64
				n := 0
				for dy := 0; dy <= radius; dy++ {
					ny := clampInt(y0+dy, 0, src.Height-1)
					for dx := 0; dx <= radius; dx++ {
						nx := clampInt(x0+dx, 0, src.Width-1)
						i := src.Offset(nx, ny)
						r := float64(src.Pix[i])
						g := float64(src.Pix[i+1])
						b := float64(src.Pix[i+2])
						sumR += r
						sumG += g
						sumB += b
						luma := r + g + b
						sumLuma += luma
						sumLuma2 += luma * luma
						n++
					}
				}
				fn := float64(n)
				variance := sumLuma2/fn - (sumLuma/fn)*(sumLuma/fn)
				if variance < bestVar {
					bestVar = variance
					bestR = sumR / fn
					bestG = sumG / fn
					bestB = sumB / fn
				}
			}

			i := dst.Offset(x, y)
			dst.Pix[i] = uint8(bestR + 0.5)
			dst.Pix[i+1] = uint8(bestG + 0.5)
			dst.Pix[i+2] = uint8(bestB + 0.5)
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
