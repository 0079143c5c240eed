package output

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// displayBytes maps an averaged linear color to 0..255 per channel with gamma 2
func displayBytes(c core.Color) (r, g, b int) {
	d := c.GammaCorrect(2).Clamp(0, 0.999)
	return channelByte(d.X), channelByte(d.Y), channelByte(d.Z)
}

// channelByte scales a gamma corrected channel in [0, 0.999]. NaN maps to black.
func channelByte(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(256 * v)
}

// pixelBytes returns the display values of pixel (x, y)
func pixelBytes(fb *renderer.Framebuffer, x, y int) (r, g, b int) {
	return displayBytes(fb.Color(x, y))
}

// ToRGBA converts the framebuffer to an image, row 0 at the top
func ToRGBA(fb *renderer.Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := pixelBytes(fb, x, y)
			img.SetRGBA(x, y, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}
	}
	return img
}
