package palette

import (
	"math"

	"github.com/ironsheep/pixelart-tools/internal/colorspace"
	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

// entry is a palette color pre-converted into every space a metric may need.
// Conversion happens once per Matcher so the per-pixel scan never converts
// palette colors again.
type entry struct {
	rgb pixbuf.RGB
	lab colorspace.Lab
	ok  colorspace.OKLab
}

type matchResult struct {
	color pixbuf.RGB
	dist  float64
}

// Matcher finds the closest palette entry to a pixel under one metric.
//
// Results are cached by the packed 24-bit key of the rounded pixel, so
// repeated colors (the common case in pixel art) cost one map lookup.
// A Matcher belongs to a single pipeline invocation and must not be shared
// across unrelated invocations; matching is deterministic given (pixel,
// palette, metric, threshold).
type Matcher struct {
	metric    colorspace.Metric
	entries   []entry
	threshold float64
	cache     map[int]matchResult
}

// NewMatcher pre-converts the palette for the metric and returns a matcher.
//
// preserveDetail is a perceptual-distance threshold: when it is greater than
// zero and the best palette match is at most that far away, Match returns
// the original rounded pixel with distance 0, letting near-matching regions
// keep their detail instead of flattening to the palette. Zero disables the
// escape entirely.
func NewMatcher(p Palette, metric colorspace.Metric, preserveDetail float64) *Matcher {
	entries := make([]entry, len(p))
	for i, c := range p {
		entries[i] = entry{
			rgb: c,
			lab: colorspace.RGBToLab(c.R, c.G, c.B),
			ok:  colorspace.RGBToOKLab(c.R, c.G, c.B),
		}
	}
	return &Matcher{
		metric:    metric,
		entries:   entries,
		threshold: preserveDetail,
		cache:     make(map[int]matchResult),
	}
}

// PaletteSize returns the number of palette entries the matcher scans.
func (m *Matcher) PaletteSize() int {
	return len(m.entries)
}

// Match returns the palette color closest to the given channel values and
// its distance under the matcher's metric.
//
// The channels may come from error-diffusion float accumulation, so they are
// rounded and clamped to 0-255 before matching. Matching an empty palette
// returns the rounded input unchanged with distance 0.
func (m *Matcher) Match(r, g, b float64) (pixbuf.RGB, float64) {
	pr := clampChannel(r)
	pg := clampChannel(g)
	pb := clampChannel(b)

	key := int(pr)<<16 | int(pg)<<8 | int(pb)
	if res, ok := m.cache[key]; ok {
		return res.color, res.dist
	}

	pixel := pixbuf.RGB{R: pr, G: pg, B: pb}
	if len(m.entries) == 0 {
		return pixel, 0
	}

	var pixelLab colorspace.Lab
	var pixelOK colorspace.OKLab
	switch m.metric {
	case colorspace.MetricOKLab:
		pixelOK = colorspace.RGBToOKLab(pr, pg, pb)
	case colorspace.MetricRedmean:
		// RGB metric, no conversion needed.
	default:
		pixelLab = colorspace.RGBToLab(pr, pg, pb)
	}

	best := m.entries[0].rgb
	bestDist := math.MaxFloat64
	for _, e := range m.entries {
		var d float64
		switch m.metric {
		case colorspace.MetricOKLab:
			d = colorspace.DistanceOKLab(pixelOK, e.ok)
		case colorspace.MetricCIEDE2000:
			d = colorspace.DistanceCIEDE2000(pixelLab, e.lab)
		case colorspace.MetricCIE94:
			d = colorspace.DistanceCIE94(pixelLab, e.lab)
		case colorspace.MetricCIE76:
			d = colorspace.DistanceCIE76(pixelLab, e.lab)
		case colorspace.MetricRedmean:
			d = colorspace.DistanceRedmean(pr, pg, pb, e.rgb.R, e.rgb.G, e.rgb.B)
		}
		if d < bestDist {
			bestDist = d
			best = e.rgb
		}
	}

	res := matchResult{color: best, dist: bestDist}
	if m.threshold > 0 && bestDist <= m.threshold {
		res = matchResult{color: pixel, dist: 0}
	}
	m.cache[key] = res
	return res.color, res.dist
}

// clampChannel rounds a float channel value to the nearest integer and
// clamps it to the 0-255 range.
func clampChannel(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
