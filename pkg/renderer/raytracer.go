package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// Raytracer renders a scene one scanline at a time on the calling goroutine
type Raytracer struct {
	scene      *scene.Scene
	width      int
	height     int
	config     scene.SamplingConfig
	integrator integrator.Integrator
	sampler    core.Sampler
	logger     core.Logger
}

// NewRaytracer creates a raytracer using the scene's sampling configuration
func NewRaytracer(s *scene.Scene, integ integrator.Integrator, sampler core.Sampler, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		scene:      s,
		width:      s.SamplingConfig.Width,
		height:     s.SamplingConfig.Height,
		config:     s.SamplingConfig,
		integrator: integ,
		sampler:    sampler,
		logger:     logger,
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config scene.SamplingConfig) {
	rt.config = config
	rt.width = config.Width
	rt.height = config.Height
}

// ValidateSamplingConfig reports configurations that cannot produce an image
func ValidateSamplingConfig(config scene.SamplingConfig) error {
	if config.Width < 1 || config.Height < 1 {
		return fmt.Errorf("image size must be positive, got %dx%d", config.Width, config.Height)
	}
	if config.SamplesPerPixel < 1 {
		return fmt.Errorf("samples per pixel must be positive, got %d", config.SamplesPerPixel)
	}
	if config.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", config.MaxDepth)
	}
	return nil
}

// Render traces every pixel of the image. Row 0 of the returned framebuffer is the top of the image.
// Cancellation is checked between scanlines.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	if err := ValidateSamplingConfig(rt.config); err != nil {
		return nil, RenderStats{}, err
	}

	startTime := time.Now()
	fb := NewFramebuffer(rt.width, rt.height)
	camera := rt.scene.Camera

	// Image-plane coordinates span [0, 1] from the first to the last pixel center
	sScale := 1.0 / float64(max(rt.width-1, 1))
	tScale := 1.0 / float64(max(rt.height-1, 1))

	for y := 0; y < rt.height; y++ {
		select {
		case <-ctx.Done():
			rt.logger.Printf("Rendering cancelled with %d scanlines remaining\n", rt.height-y)
			return nil, RenderStats{}, ctx.Err()
		default:
		}

		rt.logger.Printf("Scanlines remaining: %d\n", rt.height-y-1)
		row := rt.height - 1 - y // Camera t grows upward

		for x := 0; x < rt.width; x++ {
			for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
				jitter := rt.sampler.Get2D()
				s := (float64(x) + jitter.X) * sScale
				t := (float64(row) + jitter.Y) * tScale

				ray := camera.GetRay(s, t, rt.sampler)
				fb.AddSample(x, y, rt.integrator.RayColor(ray, rt.scene.World, rt.config.MaxDepth, rt.sampler))
			}
		}
	}
	fb.Samples = rt.config.SamplesPerPixel

	rt.logger.Printf("Done.\n")
	return fb, newRenderStats(fb, time.Since(startTime)), nil
}
