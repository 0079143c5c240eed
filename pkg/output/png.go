package output

import (
	"image/png"
	"io"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// WritePNG writes the tone-mapped framebuffer as a PNG image
func WritePNG(w io.Writer, fb *renderer.Framebuffer) error {
	return png.Encode(w, ToRGBA(fb))
}
