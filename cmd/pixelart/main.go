package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixelart-tools/internal/palette"
	"github.com/ironsheep/pixelart-tools/internal/pipeline"
	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
	"github.com/ironsheep/pixelart-tools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pixelart %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	serve := flag.Bool("serve", false, "run as a stdio JSON message server")
	in := flag.String("in", "", "input image path")
	out := flag.String("out", "", "output image path (PNG recommended)")
	width := flag.Int("width", 0, "target width in pixels")
	height := flag.Int("height", 0, "target height in pixels")
	paletteArg := flag.String("palette", "", "comma-separated hex colors, e.g. #1a1c2c,#5d275d")
	resampleArg := flag.String("resample", "nearest", "resampling: nearest, bilinear, lanczos")
	ditherArg := flag.String("dither", "none", "dithering: none, a matrix (bayer4x4, bayer8x8, halftone, diagonal, crosshatch, grid), or a kernel (floyd-steinberg, burkes, stucki, sierra2, sierra-lite)")
	ditherStrength := flag.Int("dither-strength", 50, "dithering strength 0-100")
	matchArg := flag.String("match", "oklab", "color metric: oklab, ciede2000, cie94, cie76, redmean")
	preserveDetail := flag.Float64("preserve-detail", 0, "keep original colors within this perceptual distance of the palette")
	kmeansColors := flag.Int("kmeans", 0, "generate a palette of N colors via k-means instead of matching a fixed one")
	brightness := flag.Int("brightness", 0, "brightness adjustment -100..100")
	contrast := flag.Int("contrast", 0, "contrast adjustment -100..100")
	saturation := flag.Int("saturation", 0, "saturation adjustment -100..100")
	prefilterArg := flag.String("prefilter", "none", "preprocessing: none, median, bilateral, kuwahara")
	prefilterStrength := flag.Int("prefilter-strength", 1, "preprocessing strength")
	extractArg := flag.String("extract", "dominant", "palette auto-extraction method when no palette is given: dominant, kmeans")
	extractColors := flag.Int("extract-colors", 16, "palette size for auto-extraction")
	flag.Usage = usage
	flag.Parse()

	// Logging goes to stderr; stdout carries the message protocol in serve
	// mode and stays quiet otherwise.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("PIXELART_LOG_LEVEL") == "debug" {
		log.Printf("pixelart v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if *serve {
		srv := server.New()
		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	if *in == "" || *out == "" {
		usage()
		os.Exit(2)
	}
	if *width <= 0 || *height <= 0 {
		log.Fatalf("target dimensions required: -width and -height must be > 0")
	}

	if err := convert(convertOptions{
		in:                *in,
		out:               *out,
		width:             *width,
		height:            *height,
		paletteSpec:       *paletteArg,
		resample:          *resampleArg,
		dither:            *ditherArg,
		ditherStrength:    *ditherStrength,
		match:             *matchArg,
		preserveDetail:    *preserveDetail,
		kmeansColors:      *kmeansColors,
		brightness:        *brightness,
		contrast:          *contrast,
		saturation:        *saturation,
		prefilter:         *prefilterArg,
		prefilterStrength: *prefilterStrength,
		extractMethod:     *extractArg,
		extractColors:     *extractColors,
	}); err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}
}

type convertOptions struct {
	in, out           string
	width, height     int
	paletteSpec       string
	resample          string
	dither            string
	ditherStrength    int
	match             string
	preserveDetail    float64
	kmeansColors      int
	brightness        int
	contrast          int
	saturation        int
	prefilter         string
	prefilterStrength int
	extractMethod     string
	extractColors     int
}

// convert runs one file-to-file conversion. When neither a palette nor
// k-means generation is requested, a palette is auto-extracted from the
// source so the output is always quantized.
func convert(opts convertOptions) error {
	img, err := imaging.Open(opts.in, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open %s: %w", opts.in, err)
	}
	src := pixbuf.FromImage(img)

	settings := pipeline.Settings{
		TargetWidth:       opts.width,
		TargetHeight:      opts.height,
		Resample:          opts.resample,
		Dither:            opts.dither,
		DitherStrength:    opts.ditherStrength,
		ColorMatch:        opts.match,
		PreserveDetail:    opts.preserveDetail,
		Brightness:        opts.brightness,
		Contrast:          opts.contrast,
		Saturation:        opts.saturation,
		Prefilter:         opts.prefilter,
		PrefilterStrength: opts.prefilterStrength,
	}

	switch {
	case opts.kmeansColors > 0:
		settings.KMeansEnabled = true
		settings.KMeansColors = opts.kmeansColors
	case opts.paletteSpec != "":
		pal, err := palette.ParseHex(splitPalette(opts.paletteSpec))
		if err != nil {
			return err
		}
		settings.Palette = pal
	default:
		method, err := palette.ParseExtractMethod(opts.extractMethod)
		if err != nil {
			return err
		}
		pal := palette.ExtractFromBuffer(src, opts.extractColors, method)
		if len(pal) == 0 {
			return fmt.Errorf("could not extract a palette from %s", opts.in)
		}
		log.Printf("Extracted %d-color palette: %s", len(pal), paletteHexes(pal))
		settings.Palette = pal
	}

	res, err := pipeline.Run(src, settings)
	if err != nil {
		return err
	}
	if len(res.GeneratedPalette) > 0 {
		log.Printf("Generated %d-color palette: %s",
			len(res.GeneratedPalette), paletteHexes(res.GeneratedPalette))
	}

	if err := imaging.Save(res.Pixels.ToImage(), opts.out); err != nil {
		return fmt.Errorf("save %s: %w", opts.out, err)
	}
	return nil
}

func splitPalette(spec string) []string {
	parts := strings.Split(spec, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func paletteHexes(p palette.Palette) string {
	hexes := make([]string, len(p))
	for i, c := range p {
		hexes[i] = palette.Hex(c)
	}
	return strings.Join(hexes, ",")
}

func usage() {
	fmt.Fprintln(os.Stderr, "pixelart - convert images to pixel art")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pixelart -in photo.png -out art.png -width 64 -height 64 [options]")
	fmt.Fprintln(os.Stderr, "  pixelart -serve")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Environment variables:")
	fmt.Fprintln(os.Stderr, "  PIXELART_LOG_LEVEL=debug    Enable debug logging")
}
