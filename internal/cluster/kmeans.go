// Package cluster implements the k-means palette clusterer and the palette
// suggester built on top of it.
//
// Clustering runs over sampled opaque pixels as points in RGB space. It is a
// standard local-minimum k-means used for palette discovery, not an exact
// optimizer: results depend on the random initialization, which is why every
// entry point takes an explicit *rand.Rand.
package cluster

import (
	"math/rand"

	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

// maxRounds bounds the assign/update iteration.
const maxRounds = 20

// Point is an RGB sample in [0, 255] float space.
type Point [3]float64

// Result holds the clustering output: one centroid per cluster and one
// cluster index per input sample.
type Result struct {
	Centroids   []Point
	Assignments []int
}

// KMeans clusters the samples into at most k groups.
//
// k is clamped to the sample count; k <= 0 or an empty sample set yields an
// empty result. Initialization draws k distinct samples without replacement.
// Each round assigns samples to their nearest centroid by squared Euclidean
// distance and recomputes centroids as assignment means; a cluster left
// empty is reseeded with a fresh random sample. Iteration stops after
// maxRounds or as soon as no centroid moved.
func KMeans(samples []Point, k int, rng *rand.Rand) Result {
	if k <= 0 || len(samples) == 0 {
		return Result{}
	}
	if k > len(samples) {
		k = len(samples)
	}

	centroids := make([]Point, k)
	for i, idx := range rng.Perm(len(samples))[:k] {
		centroids[i] = samples[idx]
	}

	assignments := make([]int, len(samples))
	sums := make([]Point, k)
	counts := make([]int, k)

	for round := 0; round < maxRounds; round++ {
		for i := range sums {
			sums[i] = Point{}
			counts[i] = 0
		}
		for i, s := range samples {
			best := 0
			bestDist := sqDist(s, centroids[0])
			for c := 1; c < k; c++ {
				if d := sqDist(s, centroids[c]); d < bestDist {
					bestDist = d
					best = c
				}
			}
			assignments[i] = best
			sums[best][0] += s[0]
			sums[best][1] += s[1]
			sums[best][2] += s[2]
			counts[best]++
		}

		moved := false
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Reseed empty clusters so every centroid keeps competing.
				centroids[c] = samples[rng.Intn(len(samples))]
				moved = true
				continue
			}
			n := float64(counts[c])
			next := Point{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
			if next != centroids[c] {
				centroids[c] = next
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	return Result{Centroids: centroids, Assignments: assignments}
}

func sqDist(a, b Point) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}

// SampleOpaque collects opaque pixels as RGB points, striding through the
// buffer so the total stays near the budget. A budget <= 0 samples every
// opaque pixel.
func SampleOpaque(buf *pixbuf.Buffer, budget int) []Point {
	total := buf.Width * buf.Height
	stride := 1
	if budget > 0 && total > budget {
		stride = total / budget
	}

	points := make([]Point, 0, (total+stride-1)/stride)
	for p := 0; p < total; p += stride {
		i := p * 4
		if buf.Pix[i+3] < 128 {
			continue
		}
		points = append(points, Point{
			float64(buf.Pix[i]),
			float64(buf.Pix[i+1]),
			float64(buf.Pix[i+2]),
		})
	}
	return points
}

// RGB converts a centroid to an 8-bit color, rounding each channel.
func (p Point) RGB() pixbuf.RGB {
	return pixbuf.RGB{
		R: roundChannel(p[0]),
		G: roundChannel(p[1]),
		B: roundChannel(p[2]),
	}
}

func roundChannel(v float64) uint8 {
	r := v + 0.5
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
