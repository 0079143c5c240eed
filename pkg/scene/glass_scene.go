package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// NewGlassScene creates a study of dielectric spheres: solid glass, a hollow shell,
// an air bubble inside glass, and a water drop, over a checker of diffuse spheres
func NewGlassScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 1.2, 4),
		LookAt:        core.NewVec3(0, 0.5, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         600,
		AspectRatio:   16.0 / 9.0,
		VFov:          35.0,
		Aperture:      0.05,
		FocusDistance: 0.0,
	}

	samplingConfig := SamplingConfig{
		SamplesPerPixel: 200,
		MaxDepth:        50, // Glass needs deep paths
	}

	s := newScene("glass", defaultCameraConfig, samplingConfig, cameraOverrides)

	glass := material.NewDielectric(1.5)
	water := material.NewDielectric(1.33)
	air := material.NewDielectric(1.0 / 1.5) // Bubble: index relative to the surrounding glass

	// Ground
	s.World.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))))

	// Alternating backdrop so refraction is visible
	backdropA := material.NewLambertian(core.NewColor(0.65, 0.25, 0.2))
	backdropB := material.NewLambertian(core.NewColor(0.2, 0.3, 0.6))
	for i := -4; i <= 4; i++ {
		backdrop := backdropA
		if i%2 == 0 {
			backdrop = backdropB
		}
		s.World.Add(geometry.NewSphere(core.NewVec3(float64(i)*0.6, 0.25, -2.5), 0.25, backdrop))
	}

	s.World.Add(
		// Solid glass
		geometry.NewSphere(core.NewVec3(-1.4, 0.5, 0), 0.5, glass),
		// Hollow shell
		geometry.NewSphere(core.NewVec3(0, 0.5, 0), 0.5, glass),
		geometry.NewSphere(core.NewVec3(0, 0.5, 0), -0.45, glass),
		// Air bubble in glass
		geometry.NewSphere(core.NewVec3(1.4, 0.5, 0), 0.5, glass),
		geometry.NewSphere(core.NewVec3(1.4, 0.5, 0), 0.2, air),
		// Water drop in front
		geometry.NewSphere(core.NewVec3(0.6, 0.15, 1.0), 0.15, water),
		// Polished mirror behind
		geometry.NewSphere(core.NewVec3(0, 1.2, -1.5), 0.6, material.NewMetal(core.NewColor(0.9, 0.9, 0.9), 0.0)),
	)

	return s
}
