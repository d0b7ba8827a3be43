package cluster

import (
	"math"
	"math/rand"
	"sort"

	"github.com/ironsheep/pixelart-tools/internal/colorspace"
	"github.com/ironsheep/pixelart-tools/internal/palette"
	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

const (
	// suggestSampleBudget caps how many opaque pixels the suggester samples.
	suggestSampleBudget = 4096

	// suggestClusters bounds cluster counts for the two suggestion modes.
	suggestClusters         = 128
	suggestClustersDistinct = 256

	// MinDistinctDelta is the CIELAB diversity floor between any two
	// suggestions in prefer-distinct mode. Hardcoded policy value; treat as
	// a tunable constant rather than a derived quantity.
	MinDistinctDelta = 30.0

	// uncoveredDistance scores clusters when no existing palette is present:
	// everything counts as fully uncovered.
	uncoveredDistance = 100.0
)

// Suggest recommends up to n new palette colors poorly covered by the
// existing palette.
//
// The image is sampled down to roughly suggestSampleBudget opaque pixels and
// clustered; each cluster is scored by its minimum CIELAB (CIE76) distance
// to any existing palette color, weighted by the cluster's pixel count. The
// scoring metric is always CIE76 regardless of the pipeline's active
// matching metric. Clusters rank by that total error descending.
//
// In default mode the top n centroids are returned. With preferDistinct,
// candidates are accepted greedily only when their CIELAB distance to every
// already-accepted suggestion is at least MinDistinctDelta, until n are
// chosen or candidates run out.
func Suggest(buf *pixbuf.Buffer, existing palette.Palette, n int, preferDistinct bool, rng *rand.Rand) palette.Palette {
	if n <= 0 {
		return nil
	}
	samples := SampleOpaque(buf, suggestSampleBudget)
	if len(samples) == 0 {
		return nil
	}

	k := suggestClusters
	if preferDistinct {
		k = suggestClustersDistinct
	}
	res := KMeans(samples, k, rng)
	if len(res.Centroids) == 0 {
		return nil
	}

	counts := make([]int, len(res.Centroids))
	for _, c := range res.Assignments {
		counts[c]++
	}

	existingLab := make([]colorspace.Lab, len(existing))
	for i, c := range existing {
		existingLab[i] = colorspace.RGBToLab(c.R, c.G, c.B)
	}

	type candidate struct {
		color pixbuf.RGB
		lab   colorspace.Lab
		score float64
	}
	cands := make([]candidate, 0, len(res.Centroids))
	for i, centroid := range res.Centroids {
		if counts[i] == 0 {
			continue
		}
		c := centroid.RGB()
		lab := colorspace.RGBToLab(c.R, c.G, c.B)
		minDist := uncoveredDistance
		if len(existingLab) > 0 {
			minDist = math.MaxFloat64
			for _, pl := range existingLab {
				if d := colorspace.DistanceCIE76(lab, pl); d < minDist {
					minDist = d
				}
			}
		}
		cands = append(cands, candidate{
			color: c,
			lab:   lab,
			score: minDist * float64(counts[i]),
		})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})

	out := make(palette.Palette, 0, n)
	chosen := make([]colorspace.Lab, 0, n)
	for _, cand := range cands {
		if len(out) == n {
			break
		}
		if preferDistinct {
			distinct := true
			for _, lab := range chosen {
				if colorspace.DistanceCIE76(cand.lab, lab) < MinDistinctDelta {
					distinct = false
					break
				}
			}
			if !distinct {
				continue
			}
		}
		out = append(out, cand.color)
		chosen = append(chosen, cand.lab)
	}
	return out
}
