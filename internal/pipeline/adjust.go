package pipeline

import "github.com/ironsheep/pixelart-tools/internal/pixbuf"

// Perceptual gray weights used by the saturation adjustment.
const (
	grayR = 0.2989
	grayG = 0.5870
	grayB = 0.1140
)

// adjust applies brightness, contrast, and saturation in place.
//
// Brightness maps -100..100 to an additive offset of +-255. Contrast uses
// the standard factor 259*(c+255)/(255*(259-c)) around the 128 midpoint.
// Saturation scales each channel away from its perceptual gray, preserving
// luminance. Alpha is untouched.
func adjust(buf *pixbuf.Buffer, brightness, contrast, saturation int) {
	if brightness == 0 && contrast == 0 && saturation == 0 {
		return
	}

	offset := float64(brightness) * 255.0 / 100.0

	c := float64(contrast) * 255.0 / 100.0
	contrastFactor := (259.0 * (c + 255.0)) / (255.0 * (259.0 - c))

	satFactor := 1.0 + float64(saturation)/100.0

	n := buf.Width * buf.Height
	for p := 0; p < n; p++ {
		i := p * 4
		r := float64(buf.Pix[i])
		g := float64(buf.Pix[i+1])
		b := float64(buf.Pix[i+2])

		if brightness != 0 {
			r += offset
			g += offset
			b += offset
		}
		if contrast != 0 {
			r = contrastFactor*(r-128.0) + 128.0
			g = contrastFactor*(g-128.0) + 128.0
			b = contrastFactor*(b-128.0) + 128.0
		}
		if saturation != 0 {
			gray := grayR*r + grayG*g + grayB*b
			r = gray + (r-gray)*satFactor
			g = gray + (g-gray)*satFactor
			b = gray + (b-gray)*satFactor
		}

		buf.Pix[i] = clampAdj(r)
		buf.Pix[i+1] = clampAdj(g)
		buf.Pix[i+2] = clampAdj(b)
	}
}

func clampAdj(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
