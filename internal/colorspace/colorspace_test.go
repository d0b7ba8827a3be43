package colorspace

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestRGBToLab_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    Lab
	}{
		{"white", 255, 255, 255, Lab{100.0, 0.0, 0.0}},
		{"black", 0, 0, 0, Lab{0.0, 0.0, 0.0}},
		{"red", 255, 0, 0, Lab{53.24, 80.09, 67.20}},
		{"green", 0, 255, 0, Lab{87.73, -86.18, 83.18}},
		{"blue", 0, 0, 255, Lab{32.30, 79.19, -107.86}},
		{"mid gray", 119, 119, 119, Lab{50.03, 0.0, 0.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToLab(tt.r, tt.g, tt.b)
			if !almostEqual(got.L, tt.want.L, 0.1) ||
				!almostEqual(got.A, tt.want.A, 0.1) ||
				!almostEqual(got.B, tt.want.B, 0.1) {
				t.Errorf("RGBToLab(%d,%d,%d) = (%.2f,%.2f,%.2f), want (%.2f,%.2f,%.2f)",
					tt.r, tt.g, tt.b, got.L, got.A, got.B, tt.want.L, tt.want.A, tt.want.B)
			}
		})
	}
}

func TestRGBToOKLab_KnownColors(t *testing.T) {
	// Reference values from the published OKLab tables.
	tests := []struct {
		name    string
		r, g, b uint8
		want    OKLab
	}{
		{"white", 255, 255, 255, OKLab{1.0, 0.0, 0.0}},
		{"black", 0, 0, 0, OKLab{0.0, 0.0, 0.0}},
		{"red", 255, 0, 0, OKLab{0.628, 0.225, 0.126}},
		{"green", 0, 255, 0, OKLab{0.866, -0.234, 0.179}},
		{"blue", 0, 0, 255, OKLab{0.452, -0.032, -0.312}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToOKLab(tt.r, tt.g, tt.b)
			if !almostEqual(got.L, tt.want.L, 0.005) ||
				!almostEqual(got.A, tt.want.A, 0.005) ||
				!almostEqual(got.B, tt.want.B, 0.005) {
				t.Errorf("RGBToOKLab(%d,%d,%d) = (%.3f,%.3f,%.3f), want (%.3f,%.3f,%.3f)",
					tt.r, tt.g, tt.b, got.L, got.A, got.B, tt.want.L, tt.want.A, tt.want.B)
			}
		})
	}
}

func TestRGBToXYZ_White(t *testing.T) {
	x, y, z := RGBToXYZ(255, 255, 255)
	if !almostEqual(x, whiteX, 0.05) || !almostEqual(y, whiteY, 0.05) || !almostEqual(z, whiteZ, 0.05) {
		t.Errorf("RGBToXYZ(white) = (%.3f,%.3f,%.3f), want D65 white (%.3f,%.3f,%.3f)",
			x, y, z, whiteX, whiteY, whiteZ)
	}
}

// Every metric must report zero distance for identical colors and a
// strictly positive distance for distinct ones. CIE76 and CIEDE2000 are
// additionally symmetric; CIE94 is not, since its weighting functions are
// derived from the first color's chroma.
func TestDistances_IdentityAndSymmetry(t *testing.T) {
	colors := []struct{ r, g, b uint8 }{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{12, 200, 97},
		{128, 128, 128},
	}

	labDists := map[string]struct {
		dist      func(a, b Lab) float64
		symmetric bool
	}{
		"cie76":     {DistanceCIE76, true},
		"cie94":     {DistanceCIE94, false},
		"ciede2000": {DistanceCIEDE2000, true},
	}

	for name, m := range labDists {
		t.Run(name, func(t *testing.T) {
			for i, ci := range colors {
				li := RGBToLab(ci.r, ci.g, ci.b)
				if d := m.dist(li, li); d != 0 {
					t.Errorf("distance(c, c) = %g, want 0 for %+v", d, ci)
				}
				for j, cj := range colors {
					if i == j {
						continue
					}
					lj := RGBToLab(cj.r, cj.g, cj.b)
					ab := m.dist(li, lj)
					if ab <= 0 {
						t.Errorf("distance(%+v, %+v) = %g, want > 0", ci, cj, ab)
					}
					if m.symmetric {
						ba := m.dist(lj, li)
						if !almostEqual(ab, ba, 1e-9) {
							t.Errorf("asymmetric distance: %g vs %g", ab, ba)
						}
					}
				}
			}
		})
	}

	t.Run("oklab", func(t *testing.T) {
		for _, ci := range colors {
			oi := RGBToOKLab(ci.r, ci.g, ci.b)
			if d := DistanceOKLab(oi, oi); d != 0 {
				t.Errorf("distance(c, c) = %g, want 0 for %+v", d, ci)
			}
		}
	})

	t.Run("redmean", func(t *testing.T) {
		for _, ci := range colors {
			if d := DistanceRedmean(ci.r, ci.g, ci.b, ci.r, ci.g, ci.b); d != 0 {
				t.Errorf("distance(c, c) = %g, want 0 for %+v", d, ci)
			}
		}
		ab := DistanceRedmean(255, 0, 0, 0, 0, 255)
		ba := DistanceRedmean(0, 0, 255, 255, 0, 0)
		if !almostEqual(ab, ba, 1e-9) {
			t.Errorf("asymmetric redmean: %g vs %g", ab, ba)
		}
	})
}

func TestDistanceCIEDE2000_ReferencePairs(t *testing.T) {
	// Pairs from Sharma, Wu & Dalal's CIEDE2000 test data set.
	tests := []struct {
		name string
		a, b Lab
		want float64
	}{
		{"pair1", Lab{50.0000, 2.6772, -79.7751}, Lab{50.0000, 0.0000, -82.7485}, 2.0425},
		{"pair4", Lab{50.0000, -1.3802, -84.2814}, Lab{50.0000, 0.0000, -82.7485}, 1.0000},
		{"pair17", Lab{50.0000, 2.5000, 0.0000}, Lab{50.0000, 0.0000, -2.5000}, 4.3065},
		{"pair25", Lab{60.2574, -34.0099, 36.2677}, Lab{60.4626, -34.1751, 39.4387}, 1.2644},
		{"pair30", Lab{2.0776, 0.0795, -1.1350}, Lab{0.9033, -0.0636, -0.5514}, 0.9082},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceCIEDE2000(tt.a, tt.b)
			if !almostEqual(got, tt.want, 0.0001) {
				t.Errorf("DistanceCIEDE2000 = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

// CIE94 weights chroma and hue by the first color's chroma, so swapping the
// arguments changes the result when the colors differ in chroma. Black has
// zero chroma while red is highly chromatic, so the two directions disagree
// by a wide margin.
func TestDistanceCIE94_DirectionDependent(t *testing.T) {
	black := RGBToLab(0, 0, 0)
	red := RGBToLab(255, 0, 0)

	fromBlack := DistanceCIE94(black, red)
	fromRed := DistanceCIE94(red, black)
	if fromBlack <= fromRed {
		t.Errorf("black->red (%.2f) should exceed red->black (%.2f): the reference"+
			" direction has zero chroma, so nothing is downweighted", fromBlack, fromRed)
	}
	if almostEqual(fromBlack, fromRed, 1.0) {
		t.Errorf("directions unexpectedly close: %.2f vs %.2f", fromBlack, fromRed)
	}
}

func TestDistanceCIE94_LessThanCIE76ForChromaticPairs(t *testing.T) {
	// CIE94 divides the chroma and hue terms by weights >= 1, so it can
	// never exceed CIE76 for the same pair.
	a := RGBToLab(200, 30, 40)
	b := RGBToLab(180, 70, 90)
	d94 := DistanceCIE94(a, b)
	d76 := DistanceCIE76(a, b)
	if d94 > d76 {
		t.Errorf("CIE94 (%.3f) exceeds CIE76 (%.3f)", d94, d76)
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		tag     string
		want    Metric
		wantErr bool
	}{
		{"oklab", MetricOKLab, false},
		{"ciede2000", MetricCIEDE2000, false},
		{"cie94", MetricCIE94, false},
		{"cie76", MetricCIE76, false},
		{"redmean", MetricRedmean, false},
		{"", 0, true},
		{"CIE76", 0, true},
		{"euclidean", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseMetric(tt.tag)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMetric(%q) should fail", tt.tag)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMetric(%q) failed: %v", tt.tag, err)
			}
			if got != tt.want {
				t.Errorf("ParseMetric(%q) = %v, want %v", tt.tag, got, tt.want)
			}
			if got.String() != tt.tag {
				t.Errorf("String() round-trip: got %q, want %q", got.String(), tt.tag)
			}
		})
	}
}
