package palette

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

// Palette is an ordered sequence of opaque RGB colors.
type Palette []pixbuf.RGB

// ParseHex builds a palette from hex color strings like "#1a2b3c".
//
// Parsing goes through go-colorful; any invalid entry fails the whole parse.
func ParseHex(hexes []string) (Palette, error) {
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("invalid palette color %q: %w", h, err)
		}
		r, g, b := c.RGB255()
		p = append(p, pixbuf.RGB{R: r, G: g, B: b})
	}
	return p, nil
}

// Hex returns the "#rrggbb" form of a palette entry.
func Hex(c pixbuf.RGB) string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// SortByBrightness orders the palette from darkest to brightest using
// linear-RGB relative luminance. Useful for stable dark-to-light output
// regardless of cluster or extraction order.
func SortByBrightness(p Palette) {
	sort.SliceStable(p, func(i, j int) bool {
		return luminance(p[i]) < luminance(p[j])
	})
}

func luminance(c pixbuf.RGB) float64 {
	col := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	r, g, b := col.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// TrivialUsageThreshold is the minimum share of total usage a color needs to
// survive trivial-color filtering. Hardcoded policy value carried over from
// the original settings surface; adjust here if product tuning requires it.
const TrivialUsageThreshold = 0.001

// FilterTrivial drops palette colors whose measured usage is negligible.
//
// usage maps "#rrggbb" hex keys to pixel counts; the share of each color is
// measured against the sum of all supplied counts. Colors absent from the
// map, or below TrivialUsageThreshold, are removed. If filtering would empty
// the palette entirely, the original palette is returned unfiltered.
func FilterTrivial(p Palette, usage map[string]int) Palette {
	if len(usage) == 0 {
		return p
	}
	total := 0
	for _, n := range usage {
		total += n
	}
	if total <= 0 {
		return p
	}

	kept := make(Palette, 0, len(p))
	for _, c := range p {
		n, ok := usage[Hex(c)]
		if !ok {
			continue
		}
		if float64(n)/float64(total) < TrivialUsageThreshold {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return p
	}
	return kept
}
