package pipeline

import (
	"math/rand"
	"testing"

	"github.com/ironsheep/pixelart-tools/internal/palette"
	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

var bw = []pixbuf.RGB{
	{R: 0, G: 0, B: 0},
	{R: 255, G: 255, B: 255},
}

// createCheckerBuffer alternates dark and light pixels.
func createCheckerBuffer(width, height int) *pixbuf.Buffer {
	b := pixbuf.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				b.Set(x, y, 30, 30, 30, 255)
			} else {
				b.Set(x, y, 220, 220, 220, 255)
			}
		}
	}
	return b
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestRun_BasicQuantization(t *testing.T) {
	src := createCheckerBuffer(16, 16)
	res, err := RunWithRand(src, Settings{
		TargetWidth:  8,
		TargetHeight: 8,
		Palette:      bw,
	}, seededRand())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Pixels.Width != 8 || res.Pixels.Height != 8 {
		t.Fatalf("output dimensions: got %dx%d, want 8x8", res.Pixels.Width, res.Pixels.Height)
	}
	if res.GeneratedPalette != nil {
		t.Errorf("no k-means requested, GeneratedPalette should be nil, got %v", res.GeneratedPalette)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r, g, bl, _ := res.Pixels.At(x, y)
			c := pixbuf.RGB{R: r, G: g, B: bl}
			if c != bw[0] && c != bw[1] {
				t.Fatalf("pixel (%d,%d) = %+v outside palette", x, y, c)
			}
		}
	}
}

func TestRun_EmptyPaletteSkipsQuantization(t *testing.T) {
	src := createCheckerBuffer(8, 8)
	res, err := RunWithRand(src, Settings{
		TargetWidth:  4,
		TargetHeight: 4,
	}, seededRand())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Nearest resampling of a checker keeps the original colors untouched.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, _, _, _ := res.Pixels.At(x, y)
			if r != 30 && r != 220 {
				t.Fatalf("pixel (%d,%d) red = %d, want an unquantized source value", x, y, r)
			}
		}
	}
}

func TestRun_KMeansGeneratesSortedPalette(t *testing.T) {
	src := createCheckerBuffer(16, 16)
	res, err := RunWithRand(src, Settings{
		TargetWidth:   16,
		TargetHeight:  16,
		KMeansEnabled: true,
		KMeansColors:  2,
	}, seededRand())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.GeneratedPalette) != 2 {
		t.Fatalf("generated palette has %d colors, want 2", len(res.GeneratedPalette))
	}
	// Sorted dark to light.
	if res.GeneratedPalette[0].R > res.GeneratedPalette[1].R {
		t.Errorf("palette not sorted dark to light: %v", res.GeneratedPalette)
	}

	// Every output pixel must be one of the generated colors.
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			r, g, bl, _ := res.Pixels.At(x, y)
			c := pixbuf.RGB{R: r, G: g, B: bl}
			if c != res.GeneratedPalette[0] && c != res.GeneratedPalette[1] {
				t.Fatalf("pixel (%d,%d) = %+v not in generated palette %v",
					x, y, c, res.GeneratedPalette)
			}
		}
	}
}

func TestRun_DitherTagSelectsFamily(t *testing.T) {
	src := createCheckerBuffer(8, 8)

	tests := []struct {
		name    string
		dither  string
		wantErr bool
	}{
		{"none", "none", false},
		{"empty", "", false},
		{"ordered", "bayer8x8", false},
		{"diffusion", "floyd-steinberg", false},
		{"unknown", "bayer2x2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunWithRand(src, Settings{
				TargetWidth:    8,
				TargetHeight:   8,
				Dither:         tt.dither,
				DitherStrength: 60,
				Palette:        bw,
			}, seededRand())
			if (err != nil) != tt.wantErr {
				t.Errorf("dither %q: error = %v, wantErr %v", tt.dither, err, tt.wantErr)
			}
		})
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	src := createCheckerBuffer(4, 4)

	tests := []struct {
		name     string
		settings Settings
	}{
		{"zero target", Settings{TargetWidth: 0, TargetHeight: 4}},
		{"bad resample", Settings{TargetWidth: 4, TargetHeight: 4, Resample: "bicubic"}},
		{"bad metric", Settings{TargetWidth: 4, TargetHeight: 4, ColorMatch: "hsv"}},
		{"bad prefilter", Settings{TargetWidth: 4, TargetHeight: 4, Prefilter: "blur"}},
		{"negative preserve detail", Settings{TargetWidth: 4, TargetHeight: 4, PreserveDetail: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RunWithRand(src, tt.settings, seededRand()); err == nil {
				t.Error("Run should fail")
			}
		})
	}
}

func TestRun_InvalidBuffer(t *testing.T) {
	bad := &pixbuf.Buffer{Width: 4, Height: 4, Pix: make([]byte, 7)}
	if _, err := RunWithRand(bad, Settings{TargetWidth: 2, TargetHeight: 2}, seededRand()); err == nil {
		t.Error("Run should reject a malformed buffer")
	}
}

func TestRun_SourceNeverMutated(t *testing.T) {
	src := createCheckerBuffer(8, 8)
	orig := src.Clone()

	_, err := RunWithRand(src, Settings{
		TargetWidth:    4,
		TargetHeight:   4,
		Resample:       "lanczos",
		Dither:         "stucki",
		DitherStrength: 80,
		Brightness:     20,
		Contrast:       10,
		Saturation:     -15,
		Prefilter:      "median",
		Palette:        bw,
	}, seededRand())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i := range orig.Pix {
		if src.Pix[i] != orig.Pix[i] {
			t.Fatalf("source mutated at byte %d", i)
		}
	}
}

func TestRun_PreserveDetailKeepsNearMatches(t *testing.T) {
	// A color close to a palette entry keeps its exact value under a large
	// threshold and snaps without one.
	src := pixbuf.New(2, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.Set(x, y, 10, 10, 10, 255)
		}
	}

	snapped, err := RunWithRand(src, Settings{
		TargetWidth: 2, TargetHeight: 2, Palette: bw,
	}, seededRand())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if r, _, _, _ := snapped.Pixels.At(0, 0); r != 0 {
		t.Errorf("without preserve-detail, pixel should snap to black, got %d", r)
	}

	kept, err := RunWithRand(src, Settings{
		TargetWidth: 2, TargetHeight: 2, Palette: bw, PreserveDetail: 50,
	}, seededRand())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if r, _, _, _ := kept.Pixels.At(0, 0); r != 10 {
		t.Errorf("with preserve-detail, pixel should keep its color, got %d", r)
	}
}

func TestRun_FilterTrivialDropsRareColor(t *testing.T) {
	red := pixbuf.RGB{R: 255, G: 0, B: 0}
	pal := append(append([]pixbuf.RGB{}, bw...), red)

	src := pixbuf.New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, 250, 60, 60, 255) // reddish, nearest is red
		}
	}

	// Without filtering the reddish source maps to red.
	plain, err := RunWithRand(src, Settings{
		TargetWidth: 4, TargetHeight: 4, Palette: pal,
	}, seededRand())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if r, g, _, _ := plain.Pixels.At(0, 0); r != 255 || g != 0 {
		t.Fatalf("expected red output, got r=%d g=%d", r, g)
	}

	// With red marked trivial it disappears from the working palette.
	usage := map[string]int{
		palette.Hex(bw[0]): 5000,
		palette.Hex(bw[1]): 5000,
		palette.Hex(red):   1,
	}
	filtered, err := RunWithRand(src, Settings{
		TargetWidth: 4, TargetHeight: 4, Palette: pal,
		FilterTrivial: true, ColorUsage: usage,
	}, seededRand())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	r, g, bl, _ := filtered.Pixels.At(0, 0)
	got := pixbuf.RGB{R: r, G: g, B: bl}
	if got == red {
		t.Error("trivial red should have been filtered out of the palette")
	}
	if got != bw[0] && got != bw[1] {
		t.Errorf("output %+v not in surviving palette", got)
	}
}

func TestRun_TransparencyPreserved(t *testing.T) {
	src := pixbuf.New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			a := uint8(255)
			if y < 2 {
				a = 50
			}
			src.Set(x, y, 128, 128, 128, a)
		}
	}

	res, err := RunWithRand(src, Settings{
		TargetWidth: 4, TargetHeight: 4, Palette: bw,
	}, seededRand())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for x := 0; x < 4; x++ {
		if _, _, _, a := res.Pixels.At(x, 0); a != 0 {
			t.Errorf("transparent pixel (%d,0) alpha = %d, want 0", x, a)
		}
		if _, _, _, a := res.Pixels.At(x, 3); a != 255 {
			t.Errorf("opaque pixel (%d,3) alpha = %d, want 255", x, a)
		}
	}
}

func TestAdjust_Brightness(t *testing.T) {
	buf := pixbuf.New(1, 1)
	buf.Set(0, 0, 100, 150, 200, 255)

	adjust(buf, 20, 0, 0) // +20 maps to +51
	r, g, b, a := buf.At(0, 0)
	if r != 151 || g != 201 || b != 251 || a != 255 {
		t.Errorf("got (%d,%d,%d,%d), want (151,201,251,255)", r, g, b, a)
	}

	adjust(buf, -100, 0, 0) // -255 clamps everything to 0
	if r, g, b, _ := buf.At(0, 0); r != 0 || g != 0 || b != 0 {
		t.Errorf("got (%d,%d,%d), want black after -100 brightness", r, g, b)
	}
}

func TestAdjust_ContrastPushesFromMidpoint(t *testing.T) {
	buf := pixbuf.New(2, 1)
	buf.Set(0, 0, 64, 64, 64, 255)
	buf.Set(1, 0, 192, 192, 192, 255)

	adjust(buf, 0, 50, 0)
	lo, _, _, _ := buf.At(0, 0)
	hi, _, _, _ := buf.At(1, 0)
	if lo >= 64 {
		t.Errorf("dark pixel should darken: got %d", lo)
	}
	if hi <= 192 {
		t.Errorf("light pixel should brighten: got %d", hi)
	}

	// 128 is the fixed point.
	buf.Set(0, 0, 128, 128, 128, 255)
	adjust(buf, 0, 80, 0)
	if r, _, _, _ := buf.At(0, 0); r != 128 {
		t.Errorf("midpoint should be unchanged by contrast, got %d", r)
	}
}

func TestAdjust_SaturationGrayInvariant(t *testing.T) {
	buf := pixbuf.New(1, 1)
	buf.Set(0, 0, 128, 128, 128, 255)
	adjust(buf, 0, 0, 100)
	if r, g, b, _ := buf.At(0, 0); r != 128 || g != 128 || b != 128 {
		t.Errorf("gray should be unaffected by saturation, got (%d,%d,%d)", r, g, b)
	}

	buf.Set(0, 0, 200, 50, 50, 255)
	adjust(buf, 0, 0, -100) // full desaturation collapses to gray
	r, g, b, _ := buf.At(0, 0)
	if r != g || g != b {
		t.Errorf("full desaturation should yield gray, got (%d,%d,%d)", r, g, b)
	}
}
