package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ErrDimensionMismatch is returned when combining framebuffers of different sizes
var ErrDimensionMismatch = errors.New("framebuffer dimensions do not match")

// Framebuffer holds the raw, unaveraged radiance sums of a render.
// Every pixel has received the same number of samples.
type Framebuffer struct {
	Width   int
	Height  int
	Samples int         // Samples accumulated into every pixel
	Sums    []core.Vec3 // Row-major, row 0 at the top of the image
}

// NewFramebuffer creates an empty framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Sums:   make([]core.Vec3, width*height),
	}
}

// index returns the offset of pixel (x, y) in Sums
func (fb *Framebuffer) index(x, y int) int {
	return y*fb.Width + x
}

// AddSample accumulates one radiance sample into pixel (x, y)
func (fb *Framebuffer) AddSample(x, y int, color core.Vec3) {
	i := fb.index(x, y)
	fb.Sums[i] = fb.Sums[i].Add(color)
}

// Sum returns the raw accumulated radiance of pixel (x, y)
func (fb *Framebuffer) Sum(x, y int) core.Vec3 {
	return fb.Sums[fb.index(x, y)]
}

// Color returns the average radiance of pixel (x, y)
func (fb *Framebuffer) Color(x, y int) core.Vec3 {
	if fb.Samples == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return fb.Sum(x, y).Multiply(1.0 / float64(fb.Samples))
}

// Merge adds the sums and sample count of other into fb.
// Renders made with independent seeds combine into one with more samples.
func (fb *Framebuffer) Merge(other *Framebuffer) error {
	if fb.Width != other.Width || fb.Height != other.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, fb.Width, fb.Height, other.Width, other.Height)
	}
	for i := range fb.Sums {
		fb.Sums[i] = fb.Sums[i].Add(other.Sums[i])
	}
	fb.Samples += other.Samples
	return nil
}
