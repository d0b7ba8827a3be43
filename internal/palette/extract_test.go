package palette

import (
	"testing"

	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

// createTwoToneBuffer fills the left half red and the right half blue.
func createTwoToneBuffer(width, height int) *pixbuf.Buffer {
	b := pixbuf.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				b.Set(x, y, 200, 30, 30, 255)
			} else {
				b.Set(x, y, 30, 30, 200, 255)
			}
		}
	}
	return b
}

func TestParseExtractMethod(t *testing.T) {
	tests := []struct {
		tag     string
		want    ExtractMethod
		wantErr bool
	}{
		{"", ExtractDominant, false},
		{"dominant", ExtractDominant, false},
		{"kmeans", ExtractKMeans, false},
		{"median-cut", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseExtractMethod(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExtractMethod(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseExtractMethod(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestExtractFromBuffer(t *testing.T) {
	buf := createTwoToneBuffer(64, 64)

	for _, method := range []ExtractMethod{ExtractDominant, ExtractKMeans} {
		name := "dominant"
		if method == ExtractKMeans {
			name = "kmeans"
		}
		t.Run(name, func(t *testing.T) {
			pal := ExtractFromBuffer(buf, 4, method)
			if len(pal) == 0 {
				t.Fatal("extraction returned empty palette")
			}
			if len(pal) > 4 {
				t.Fatalf("extraction returned %d colors, want <= 4", len(pal))
			}

			// Both halves of the image should be represented: at least one
			// reddish and one bluish entry.
			var sawRed, sawBlue bool
			for _, c := range pal {
				if c.R > c.B {
					sawRed = true
				}
				if c.B > c.R {
					sawBlue = true
				}
			}
			if !sawRed || !sawBlue {
				t.Errorf("palette %v misses a dominant tone (red=%v blue=%v)", pal, sawRed, sawBlue)
			}
		})
	}
}

func TestExtractFromBuffer_Degenerate(t *testing.T) {
	buf := createTwoToneBuffer(8, 8)

	if pal := ExtractFromBuffer(buf, 0, ExtractDominant); pal != nil {
		t.Errorf("k=0 should return nil, got %v", pal)
	}
	if pal := ExtractFromBuffer(buf, -3, ExtractKMeans); pal != nil {
		t.Errorf("k<0 should return nil, got %v", pal)
	}

	empty := pixbuf.New(0, 0)
	if pal := ExtractFromBuffer(empty, 4, ExtractDominant); pal != nil {
		t.Errorf("empty buffer should return nil, got %v", pal)
	}
}

func TestExtractFromBuffer_FewerColorsThanRequested(t *testing.T) {
	// A uniform image cannot yield many distinct colors; the palette may be
	// shorter than k but must never exceed it.
	buf := pixbuf.New(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			buf.Set(x, y, 90, 140, 60, 255)
		}
	}

	pal := ExtractFromBuffer(buf, 8, ExtractDominant)
	if len(pal) == 0 {
		t.Fatal("uniform image should yield at least one color")
	}
	if len(pal) > 8 {
		t.Errorf("palette has %d colors, want <= 8", len(pal))
	}
}
