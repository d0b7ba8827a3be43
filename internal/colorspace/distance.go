package colorspace

import (
	"fmt"
	"math"
)

// Metric selects the perceptual distance function used for palette matching.
type Metric int

const (
	// MetricOKLab is Euclidean distance in OKLab, scaled x100.
	MetricOKLab Metric = iota
	// MetricCIEDE2000 is the full CIEDE2000 reference algorithm.
	MetricCIEDE2000
	// MetricCIE94 is CIE94 with graphic-arts constants.
	MetricCIE94
	// MetricCIE76 is Euclidean distance in CIELAB.
	MetricCIE76
	// MetricRedmean is the weighted RGB "redmean" approximation.
	MetricRedmean
)

// ParseMetric maps a settings tag to a Metric.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "oklab":
		return MetricOKLab, nil
	case "ciede2000":
		return MetricCIEDE2000, nil
	case "cie94":
		return MetricCIE94, nil
	case "cie76":
		return MetricCIE76, nil
	case "redmean":
		return MetricRedmean, nil
	}
	return 0, fmt.Errorf("unknown color-match algorithm %q", name)
}

func (m Metric) String() string {
	switch m {
	case MetricOKLab:
		return "oklab"
	case MetricCIEDE2000:
		return "ciede2000"
	case MetricCIE94:
		return "cie94"
	case MetricCIE76:
		return "cie76"
	case MetricRedmean:
		return "redmean"
	}
	return "unknown"
}

// DistanceCIE76 returns the Euclidean distance between two CIELAB colors.
func DistanceCIE76(a, b Lab) float64 {
	dL := a.L - b.L
	dA := a.A - b.A
	dB := a.B - b.B
	return math.Sqrt(dL*dL + dA*dA + dB*dB)
}

// DistanceCIE94 returns the CIE94 delta-E with graphic-arts constants
// (kL = SL = 1, K1 = 0.045, K2 = 0.015).
func DistanceCIE94(x, y Lab) float64 {
	const (
		k1 = 0.045
		k2 = 0.015
	)
	dL := x.L - y.L
	c1 := math.Sqrt(x.A*x.A + x.B*x.B)
	c2 := math.Sqrt(y.A*y.A + y.B*y.B)
	dC := c1 - c2
	dA := x.A - y.A
	dB := x.B - y.B
	// The hue kernel can go slightly negative from rounding; clamp before
	// the square root.
	dH2 := dA*dA + dB*dB - dC*dC
	if dH2 < 0 {
		dH2 = 0
	}
	sC := 1.0 + k1*c1
	sH := 1.0 + k2*c1
	return math.Sqrt(dL*dL + (dC/sC)*(dC/sC) + dH2/(sH*sH))
}

// DistanceCIEDE2000 returns the full CIEDE2000 delta-E, including the
// chroma-dependent G rotation, hue averaging with wraparound handling, the
// SL/SC/SH weighting functions, and the RT rotation term.
func DistanceCIEDE2000(x, y Lab) float64 {
	const pow25to7 = 6103515625.0 // 25^7

	c1 := math.Sqrt(x.A*x.A + x.B*x.B)
	c2 := math.Sqrt(y.A*y.A + y.B*y.B)
	avgC := (c1 + c2) / 2.0

	avgC7 := math.Pow(avgC, 7)
	g := 0.5 * (1.0 - math.Sqrt(avgC7/(avgC7+pow25to7)))

	a1p := x.A * (1.0 + g)
	a2p := y.A * (1.0 + g)
	c1p := math.Sqrt(a1p*a1p + x.B*x.B)
	c2p := math.Sqrt(a2p*a2p + y.B*y.B)

	h1p := hueAngle(x.B, a1p)
	h2p := hueAngle(y.B, a2p)

	dLp := y.L - x.L
	dCp := c2p - c1p

	var dhp float64
	switch {
	case c1p*c2p == 0:
		dhp = 0
	case math.Abs(h2p-h1p) <= 180:
		dhp = h2p - h1p
	case h2p-h1p > 180:
		dhp = h2p - h1p - 360
	default:
		dhp = h2p - h1p + 360
	}
	dHp := 2.0 * math.Sqrt(c1p*c2p) * math.Sin(deg2rad(dhp/2.0))

	avgLp := (x.L + y.L) / 2.0
	avgCp := (c1p + c2p) / 2.0

	var avgHp float64
	switch {
	case c1p*c2p == 0:
		avgHp = h1p + h2p
	case math.Abs(h1p-h2p) <= 180:
		avgHp = (h1p + h2p) / 2.0
	case h1p+h2p < 360:
		avgHp = (h1p + h2p + 360) / 2.0
	default:
		avgHp = (h1p + h2p - 360) / 2.0
	}

	t := 1.0 -
		0.17*math.Cos(deg2rad(avgHp-30)) +
		0.24*math.Cos(deg2rad(2*avgHp)) +
		0.32*math.Cos(deg2rad(3*avgHp+6)) -
		0.20*math.Cos(deg2rad(4*avgHp-63))

	l50 := (avgLp - 50) * (avgLp - 50)
	sL := 1.0 + 0.015*l50/math.Sqrt(20.0+l50)
	sC := 1.0 + 0.045*avgCp
	sH := 1.0 + 0.015*avgCp*t

	dTheta := 30.0 * math.Exp(-((avgHp-275)/25.0)*((avgHp-275)/25.0))
	avgCp7 := math.Pow(avgCp, 7)
	rC := 2.0 * math.Sqrt(avgCp7/(avgCp7+pow25to7))
	rT := -rC * math.Sin(deg2rad(2*dTheta))

	lTerm := dLp / sL
	cTerm := dCp / sC
	hTerm := dHp / sH
	return math.Sqrt(lTerm*lTerm + cTerm*cTerm + hTerm*hTerm + rT*cTerm*hTerm)
}

// hueAngle returns atan2(b, a) in degrees normalized to [0, 360).
func hueAngle(b, a float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := math.Atan2(b, a) * 180.0 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180.0
}

// DistanceRedmean returns the weighted Euclidean RGB distance using the
// "r-mean" weighting scheme. No space conversion is involved.
func DistanceRedmean(r1, g1, b1, r2, g2, b2 uint8) float64 {
	rMean := (float64(r1) + float64(r2)) / 2.0
	dR := float64(r1) - float64(r2)
	dG := float64(g1) - float64(g2)
	dB := float64(b1) - float64(b2)
	return math.Sqrt((2.0+rMean/256.0)*dR*dR + 4.0*dG*dG + (2.0+(255.0-rMean)/256.0)*dB*dB)
}

// DistanceOKLab returns the Euclidean distance in OKLab scaled x100 so the
// magnitudes are comparable to CIELAB delta-E values.
func DistanceOKLab(a, b OKLab) float64 {
	dL := a.L - b.L
	dA := a.A - b.A
	dB := a.B - b.B
	return math.Sqrt(dL*dL+dA*dA+dB*dB) * 100.0
}
