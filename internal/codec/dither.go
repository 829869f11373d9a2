// internal/codec/dither.go
package codec

import "image"

// Bitmap is a monochrome raster: one byte per pixel, values are only
// 0 (black) or 255 (white).
type Bitmap struct {
	Width  int
	Height int
	Pixels []byte
}

// Rasterize converts an image to a monochrome bitmap: grayscale via
// the Rec. 601 luminance weights, then Floyd-Steinberg error
// diffusion. The quantization error is accumulated in a float buffer
// separate from the output so rounding never feeds back into already
// quantized pixels.
func Rasterize(img image.Image) *Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit channels
			gray[y*w+x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}

	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			old := gray[y*w+x]
			var newVal float64
			if old >= 128 {
				newVal = 255
			}
			out[y*w+x] = byte(newVal)

			err := old - newVal
			if x+1 < w {
				gray[y*w+x+1] += err * 7 / 16
			}
			if y+1 < h {
				if x > 0 {
					gray[(y+1)*w+x-1] += err * 3 / 16
				}
				gray[(y+1)*w+x] += err * 5 / 16
				if x+1 < w {
					gray[(y+1)*w+x+1] += err * 1 / 16
				}
			}
		}
	}

	return &Bitmap{Width: w, Height: h, Pixels: out}
}
