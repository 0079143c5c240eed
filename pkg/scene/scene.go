package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.World // Objects in the scene
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// newScene builds the camera from the merged configuration and sizes the image to match
func newScene(name string, defaultCameraConfig geometry.CameraConfig, samplingConfig SamplingConfig, cameraOverrides []geometry.CameraConfig) *Scene {
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Name:           name,
		World:          geometry.NewWorld(),
		SamplingConfig: samplingConfig,
	}
	s.SetCameraConfig(cameraConfig)
	return s
}

// SetCameraConfig rebuilds the camera and resizes the image to match
func (s *Scene) SetCameraConfig(config geometry.CameraConfig) {
	s.Camera = geometry.NewCamera(config)
	s.CameraConfig = s.Camera.Config()
	s.SamplingConfig.Width = s.CameraConfig.Width
	s.SamplingConfig.Height = s.CameraConfig.ImageHeight()
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}
