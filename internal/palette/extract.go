package palette

import (
	"fmt"
	"math"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

// ExtractMethod selects how ExtractFromBuffer builds a palette.
type ExtractMethod int

const (
	// ExtractDominant picks weighted dominant colors and greedily selects a
	// Lab-diverse subset.
	ExtractDominant ExtractMethod = iota
	// ExtractKMeans clusters subsampled pixels with a generic k-means and
	// selects a diverse subset of the cluster centers.
	ExtractKMeans
)

// ParseExtractMethod maps a tag to an ExtractMethod.
func ParseExtractMethod(name string) (ExtractMethod, error) {
	switch name {
	case "", "dominant":
		return ExtractDominant, nil
	case "kmeans":
		return ExtractKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette extraction method %q", name)
}

type weightedColor struct {
	col    colorful.Color
	weight float64
}

// ExtractFromBuffer derives a k-color starting palette from an image.
//
// This is a host-side convenience for callers that have no palette yet; the
// pipeline's own k-means recoloring (internal/cluster) is separate and has
// fixed semantics. The kmeans method falls back to the dominant method when
// clustering yields nothing (fully transparent input, degenerate k).
// Returns nil when k <= 0 or the buffer has no opaque pixels.
func ExtractFromBuffer(buf *pixbuf.Buffer, k int, method ExtractMethod) Palette {
	if k <= 0 {
		return nil
	}
	switch method {
	case ExtractKMeans:
		if p := extractKMeans(buf, k); len(p) != 0 {
			return p
		}
		return extractDominant(buf, k)
	default:
		return extractDominant(buf, k)
	}
}

func extractDominant(buf *pixbuf.Buffer, k int) Palette {
	if buf.Width == 0 || buf.Height == 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(buf.ToImage(), max(24, k*8))
	if len(candidates) == 0 {
		return nil
	}
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{col: col.Clamped(), weight: w})
	}
	return selectDiverse(weighted, k)
}

func extractKMeans(buf *pixbuf.Buffer, k int) Palette {
	total := buf.Width * buf.Height
	if total == 0 {
		return nil
	}

	// Subsample to keep the generic k-means tractable on large inputs.
	const maxSamples = 12000
	step := 1
	if total > maxSamples {
		step = int(math.Sqrt(float64(total)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(total, maxSamples))
	for y := 0; y < buf.Height; y += step {
		for x := 0; x < buf.Width; x += step {
			r, g, b, a := buf.At(x, y)
			if a < 128 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 255.0,
				float64(g) / 255.0,
				float64(b) / 255.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(max(k*4, k+2), len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		w := float64(len(c.Observations))
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{col: col, weight: w})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse greedily picks up to k colors, seeding with the strongest
// candidate and then maximizing Lab distance to the already-selected set,
// weighted toward heavier candidates.
func selectDiverse(cands []weightedColor, k int) Palette {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		l, a, b := c.col.Lab()
		if c.weight > maxW {
			maxW = c.weight
		}
		items = append(items, item{col: c.col, lab: [3]float64{l, a, b}, w: c.weight})
	}
	if k > len(items) {
		k = len(items)
	}
	if maxW <= 0 {
		maxW = 1.0
	}

	selected := make([]bool, len(items))
	order := make([]int, 0, k)

	seed := 0
	for i := 1; i < len(items); i++ {
		if items[i].w > items[seed].w {
			seed = i
		}
	}
	order = append(order, seed)
	selected[seed] = true

	for len(order) < k {
		bestIdx := -1
		bestScore := -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range order {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				if d := d0*d0 + d1*d1 + d2*d2; d < minD2 {
					minD2 = d
				}
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		order = append(order, bestIdx)
	}

	out := make(Palette, 0, len(order))
	for _, idx := range order {
		r, g, b := items[idx].col.RGB255()
		out = append(out, pixbuf.RGB{R: r, G: g, B: b})
	}
	return out
}
