// Package colorspace implements the color conversions and perceptual
// distance metrics used for palette matching.
//
// Three representations are used interchangeably: device RGB (8-bit
// channels), CIELAB (D65, L in 0-100), and OKLab. Conversions are pure
// functions, deterministic, and always defined for valid 0-255 input; the
// only loss is floating-point rounding.
//
// # Distance Metrics
//
// Five interchangeable metrics quantify perceived color difference:
// CIE76 (Euclidean in CIELAB), CIE94 (graphic-arts constants), the full
// CIEDE2000 reference algorithm, redmean (weighted Euclidean directly in
// RGB), and Euclidean distance in OKLab scaled x100 to keep magnitudes
// comparable to CIELAB delta-E. Every metric returns a nonnegative scalar
// and is zero for identical inputs.
package colorspace
