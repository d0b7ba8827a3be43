package pixbuf

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// RGB represents an opaque RGB color with 8-bit components.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Buffer is a width x height RGBA pixel buffer.
//
// Pix holds 4 bytes per pixel (R, G, B, A) in row-major order starting at
// the top-left corner. Invariant: len(Pix) == Width*Height*4.
type Buffer struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pix    []byte `json:"pixels"`
}

// New allocates a zeroed buffer of the given dimensions.
//
// A zeroed buffer is fully transparent black. Width and height must be
// non-negative; New panics otherwise, since negative dimensions indicate a
// caller bug rather than bad external input.
func New(width, height int) *Buffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("pixbuf: negative dimensions %dx%d", width, height))
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Validate checks the buffer invariant.
//
// Returns an error when the pixel slice length does not equal
// width*height*4, or when either dimension is negative.
func (b *Buffer) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("invalid dimensions %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("pixel data length %d does not match %dx%d (want %d)",
			len(b.Pix), b.Width, b.Height, want)
	}
	return nil
}

// Offset returns the index of the first byte of pixel (x, y).
// Callers are responsible for passing in-bounds coordinates.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At returns the RGBA channels of pixel (x, y).
func (b *Buffer) At(x, y int) (r, g, bl, a uint8) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set stores the RGBA channels of pixel (x, y).
func (b *Buffer) Set(x, y int, r, g, bl, a uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Opaque reports whether the pixel at (x, y) counts as opaque for
// quantization purposes (alpha >= 128).
func (b *Buffer) Opaque(x, y int) bool {
	return b.Pix[b.Offset(x, y)+3] >= 128
}

// FromImage converts any image.Image into a Buffer.
//
// The conversion goes through imaging.Clone, which normalizes every source
// color model (YCbCr JPEG data, paletted GIFs, 16-bit PNGs) into
// non-premultiplied NRGBA, the channel layout Buffer uses, so the pixel
// bytes can be adopted without a per-pixel conversion loop.
func FromImage(img image.Image) *Buffer {
	n := imaging.Clone(img)
	b := n.Bounds()
	return &Buffer{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    n.Pix,
	}
}

// ToImage wraps the buffer in an *image.NRGBA sharing the same pixel memory.
//
// Mutating the returned image mutates the buffer and vice versa. Callers
// needing an independent copy should Clone first.
func (b *Buffer) ToImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
