package pipeline

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ironsheep/pixelart-tools/internal/cluster"
	"github.com/ironsheep/pixelart-tools/internal/dither"
	"github.com/ironsheep/pixelart-tools/internal/palette"
	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
	"github.com/ironsheep/pixelart-tools/internal/prefilter"
	"github.com/ironsheep/pixelart-tools/internal/resample"
)

// Result is the output of one pipeline invocation.
type Result struct {
	// Pixels is the converted buffer at the target dimensions.
	Pixels *pixbuf.Buffer `json:"pixels"`

	// GeneratedPalette holds the k-means cluster colors when palette
	// generation was enabled, sorted dark to light. Nil otherwise.
	GeneratedPalette palette.Palette `json:"generatedPalette,omitempty"`
}

// Run converts src according to the settings.
//
// Stages execute strictly in order: adjustment, preprocessing, resampling,
// k-means recoloring, quantization/dithering. The source buffer is never
// mutated. Randomized stages (k-means) draw from a time-seeded source; use
// RunWithRand for reproducible output.
func Run(src *pixbuf.Buffer, s Settings) (*Result, error) {
	return RunWithRand(src, s, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// RunWithRand is Run with an explicit random source.
func RunWithRand(src *pixbuf.Buffer, s Settings, rng *rand.Rand) (res *Result, err error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("invalid source buffer: %w", err)
	}
	r, err := s.resolve()
	if err != nil {
		return nil, err
	}

	// Single failure boundary: an invariant violation inside any stage
	// surfaces as one error with no partial output.
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("pipeline failure: %v", p)
		}
	}()

	work := src
	if s.Brightness != 0 || s.Contrast != 0 || s.Saturation != 0 {
		work = work.Clone()
		adjust(work, s.Brightness, s.Contrast, s.Saturation)
	}

	work, err = prefilter.Apply(work, r.prefilterMethod, s.PrefilterStrength)
	if err != nil {
		return nil, err
	}

	work, err = resample.Resize(work, s.TargetWidth, s.TargetHeight, r.resampleMethod)
	if err != nil {
		return nil, err
	}

	var generated palette.Palette
	if s.KMeansEnabled && s.KMeansColors > 0 {
		generated = recolorKMeans(work, s.KMeansColors, rng)
	}

	pal := palette.Palette(s.Palette)
	if s.FilterTrivial {
		pal = palette.FilterTrivial(pal, s.ColorUsage)
	}
	if len(pal) > 0 {
		m := palette.NewMatcher(pal, r.metric, s.PreserveDetail)
		switch {
		case r.ditherMatrix != nil:
			work = dither.Ordered(work, m, r.ditherMatrix, s.DitherStrength)
		case r.ditherKernel != nil:
			work = dither.Diffuse(work, m, r.ditherKernel, s.DitherStrength)
		default:
			work = dither.Quantize(work, m)
		}
	}

	return &Result{Pixels: work, GeneratedPalette: generated}, nil
}

// recolorKMeans clusters the opaque pixels of buf, recolors every opaque
// pixel in place to its nearest cluster centroid, and returns the generated
// palette sorted dark to light. Degenerate inputs (no opaque pixels) leave
// the buffer untouched and return nil.
func recolorKMeans(buf *pixbuf.Buffer, colors int, rng *rand.Rand) palette.Palette {
	samples := cluster.SampleOpaque(buf, 0)
	if len(samples) == 0 {
		return nil
	}
	res := cluster.KMeans(samples, colors, rng)
	if len(res.Centroids) == 0 {
		return nil
	}

	centroidRGB := make([]pixbuf.RGB, len(res.Centroids))
	for i, c := range res.Centroids {
		centroidRGB[i] = c.RGB()
	}

	n := buf.Width * buf.Height
	for p := 0; p < n; p++ {
		i := p * 4
		if buf.Pix[i+3] < 128 {
			continue
		}
		pt := cluster.Point{
			float64(buf.Pix[i]),
			float64(buf.Pix[i+1]),
			float64(buf.Pix[i+2]),
		}
		best := 0
		bestDist := sqDist(pt, res.Centroids[0])
		for c := 1; c < len(res.Centroids); c++ {
			if d := sqDist(pt, res.Centroids[c]); d < bestDist {
				bestDist = d
				best = c
			}
		}
		buf.Pix[i] = centroidRGB[best].R
		buf.Pix[i+1] = centroidRGB[best].G
		buf.Pix[i+2] = centroidRGB[best].B
	}

	out := make(palette.Palette, len(centroidRGB))
	copy(out, centroidRGB)
	palette.SortByBrightness(out)
	return out
}

func sqDist(a, b cluster.Point) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}
