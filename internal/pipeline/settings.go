package pipeline

import (
	"fmt"

	"github.com/ironsheep/pixelart-tools/internal/colorspace"
	"github.com/ironsheep/pixelart-tools/internal/dither"
	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
	"github.com/ironsheep/pixelart-tools/internal/prefilter"
	"github.com/ironsheep/pixelart-tools/internal/resample"
)

// Settings configures one pipeline invocation.
//
// Zero values mean "off" for every optional stage: no adjustment, no
// preprocessing, no k-means, no quantization (empty palette). Empty method
// tags fall back to defaults (nearest resampling, oklab matching).
type Settings struct {
	// TargetWidth and TargetHeight are the mandatory output dimensions.
	TargetWidth  int `json:"targetWidth"`
	TargetHeight int `json:"targetHeight"`

	// Resample selects the resizing algorithm: "nearest", "bilinear", or
	// "lanczos". Empty defaults to "nearest".
	Resample string `json:"resample,omitempty"`

	// Dither selects quantization behavior: "none" (plain nearest-color
	// mapping), an ordered matrix tag (bayer4x4, bayer8x8, halftone,
	// diagonal, crosshatch, grid), or an error-diffusion kernel tag
	// (floyd-steinberg, burkes, stucki, sierra2, sierra-lite).
	Dither string `json:"dither,omitempty"`

	// DitherStrength scales the dithering effect, 0-100.
	DitherStrength int `json:"ditherStrength"`

	// ColorMatch selects the perceptual metric: "oklab", "ciede2000",
	// "cie94", "cie76", or "redmean". Empty defaults to "oklab".
	ColorMatch string `json:"colorMatch,omitempty"`

	// PreserveDetail is a perceptual-distance threshold (>= 0) below which
	// pixels keep their original color instead of snapping to the palette.
	// Zero disables detail preservation.
	PreserveDetail float64 `json:"preserveDetail"`

	// KMeansEnabled turns on palette generation; the resized image is
	// recolored to KMeansColors generated cluster colors, which are also
	// returned to the caller.
	KMeansEnabled bool `json:"kmeansEnabled"`
	KMeansColors  int  `json:"kmeansColors"`

	// Brightness, Contrast, and Saturation adjust the source before any
	// other stage. Each ranges -100..100; zero is a no-op.
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Saturation int `json:"saturation"`

	// Prefilter selects the preprocessing filter: "none", "median",
	// "bilateral", or "kuwahara". PrefilterStrength scales its effect.
	Prefilter         string `json:"prefilter,omitempty"`
	PrefilterStrength int    `json:"prefilterStrength"`

	// FilterTrivial drops palette colors whose usage share in ColorUsage
	// (hex key -> pixel count) falls below the trivial threshold.
	FilterTrivial bool           `json:"filterTrivial"`
	ColorUsage    map[string]int `json:"colorUsage,omitempty"`

	// Palette is the fixed output palette. Empty skips quantization.
	Palette []pixbuf.RGB `json:"palette,omitempty"`
}

// resolved holds the parsed form of every tagged setting. Building it up
// front keeps unsupported-settings failures at the coordinator boundary
// instead of deep inside a stage.
type resolved struct {
	resampleMethod  resample.Method
	metric          colorspace.Metric
	prefilterMethod prefilter.Method
	ditherMatrix    *dither.Matrix
	ditherKernel    *dither.Kernel
}

func (s *Settings) resolve() (resolved, error) {
	var r resolved
	var err error

	name := s.Resample
	if name == "" {
		name = "nearest"
	}
	if r.resampleMethod, err = resample.ParseMethod(name); err != nil {
		return r, err
	}

	name = s.ColorMatch
	if name == "" {
		name = "oklab"
	}
	if r.metric, err = colorspace.ParseMetric(name); err != nil {
		return r, err
	}

	if r.prefilterMethod, err = prefilter.ParseMethod(s.Prefilter); err != nil {
		return r, err
	}

	switch s.Dither {
	case "", "none":
	default:
		r.ditherMatrix = dither.MatrixByName(s.Dither)
		if r.ditherMatrix == nil {
			r.ditherKernel = dither.KernelByName(s.Dither)
		}
		if r.ditherMatrix == nil && r.ditherKernel == nil {
			return r, fmt.Errorf("unknown dither method %q", s.Dither)
		}
	}

	if s.PreserveDetail < 0 {
		return r, fmt.Errorf("preserveDetail must be >= 0, got %g", s.PreserveDetail)
	}
	return r, nil
}
