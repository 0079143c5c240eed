// Package config loads render settings from a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Default values
const (
	DefaultScene  = "random"
	DefaultSeed   = 42
	DefaultOutput = "image.ppm"

	// StdoutOutput writes a PPM image to standard output
	StdoutOutput = "-"
)

// CameraConfig overrides the scene camera. A field present in the file
// replaces the scene's value, so the camera can sit at the origin.
type CameraConfig struct {
	LookFrom      *[3]float64 `json:"lookFrom,omitempty"`
	LookAt        *[3]float64 `json:"lookAt,omitempty"`
	Up            *[3]float64 `json:"up,omitempty"`
	VFov          *float64    `json:"vfov,omitempty"`
	Aperture      *float64    `json:"aperture,omitempty"`      // 0 forces a pinhole camera
	FocusDistance *float64    `json:"focusDistance,omitempty"` // 0 focuses on lookAt
}

// SkyConfig overrides the background gradient. Missing colors keep the default sky.
type SkyConfig struct {
	Top    *[3]float64 `json:"top,omitempty"`
	Bottom *[3]float64 `json:"bottom,omitempty"`
}

// Config holds one render job.
//
// Width, aspectRatio, samplesPerPixel and maxDepth treat 0 as "use the scene
// default". A zero-bounce render is always black, so maxDepth 0 is never a
// useful request.
type Config struct {
	Scene           string       `json:"scene"`
	Width           int          `json:"width,omitempty"`
	AspectRatio     float64      `json:"aspectRatio,omitempty"`
	SamplesPerPixel int          `json:"samplesPerPixel,omitempty"`
	MaxDepth        int          `json:"maxDepth,omitempty"`
	Seed            int64        `json:"seed"`
	Output          string       `json:"output"`
	Camera          CameraConfig `json:"camera"`
	Sky             SkyConfig    `json:"sky"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Scene:  DefaultScene,
		Seed:   DefaultSeed,
		Output: DefaultOutput,
	}
}

// Load reads a JSON config file. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once
func (c *Config) Validate() error {
	var problems []string

	if !knownScene(c.Scene) {
		problems = append(problems, fmt.Sprintf("scene must be one of %v, got %q", scene.Names(), c.Scene))
	}
	if c.Width < 0 {
		problems = append(problems, fmt.Sprintf("width must not be negative, got %d", c.Width))
	}
	if c.AspectRatio < 0 {
		problems = append(problems, fmt.Sprintf("aspectRatio must not be negative, got %g", c.AspectRatio))
	}
	if c.SamplesPerPixel < 0 {
		problems = append(problems, fmt.Sprintf("samplesPerPixel must not be negative, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth < 0 {
		problems = append(problems, fmt.Sprintf("maxDepth must not be negative, got %d", c.MaxDepth))
	}
	if c.Output == "" {
		problems = append(problems, "output must be set")
	} else if _, err := output.FormatFor(c.Output); err != nil && c.Output != StdoutOutput {
		problems = append(problems, fmt.Sprintf("output must end in .ppm, .png or .raw (optionally .zst or .sz), got %q", c.Output))
	}
	if v := c.Camera.VFov; v != nil && (*v <= 0 || *v >= 180) {
		problems = append(problems, fmt.Sprintf("camera.vfov must be in (0, 180), got %g", *v))
	}
	if a := c.Camera.Aperture; a != nil && *a < 0 {
		problems = append(problems, fmt.Sprintf("camera.aperture must not be negative, got %g", *a))
	}
	if f := c.Camera.FocusDistance; f != nil && *f < 0 {
		problems = append(problems, fmt.Sprintf("camera.focusDistance must not be negative, got %g", *f))
	}
	for _, sky := range []struct {
		name  string
		color *[3]float64
	}{{"sky.top", c.Sky.Top}, {"sky.bottom", c.Sky.Bottom}} {
		if sky.color != nil && (sky.color[0] < 0 || sky.color[1] < 0 || sky.color[2] < 0) {
			problems = append(problems, fmt.Sprintf("%s must not have negative components, got %v", sky.name, *sky.color))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func knownScene(name string) bool {
	for _, known := range scene.Names() {
		if name == known {
			return true
		}
	}
	return false
}

func vec(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// ApplyCamera overlays the camera settings present in the file onto a scene camera
func (c *Config) ApplyCamera(base geometry.CameraConfig) geometry.CameraConfig {
	if c.Width > 0 {
		base.Width = c.Width
	}
	if c.AspectRatio > 0 {
		base.AspectRatio = c.AspectRatio
	}

	cam := c.Camera
	if cam.LookFrom != nil {
		base.Center = vec(*cam.LookFrom)
	}
	if cam.LookAt != nil {
		base.LookAt = vec(*cam.LookAt)
	}
	if cam.Up != nil {
		base.Up = vec(*cam.Up)
	}
	if cam.VFov != nil {
		base.VFov = *cam.VFov
	}
	if cam.Aperture != nil {
		base.Aperture = *cam.Aperture
	}
	if cam.FocusDistance != nil {
		base.FocusDistance = *cam.FocusDistance
	}
	return base
}

// ApplySky overlays the configured sky colors onto the given gradient
func (c *Config) ApplySky(top, bottom core.Color) (core.Color, core.Color) {
	if c.Sky.Top != nil {
		top = vec(*c.Sky.Top)
	}
	if c.Sky.Bottom != nil {
		bottom = vec(*c.Sky.Bottom)
	}
	return top, bottom
}

// ApplySampling overlays the non-zero sampling settings onto a scene's defaults
func (c *Config) ApplySampling(sampling scene.SamplingConfig) scene.SamplingConfig {
	if c.SamplesPerPixel > 0 {
		sampling.SamplesPerPixel = c.SamplesPerPixel
	}
	if c.MaxDepth > 0 {
		sampling.MaxDepth = c.MaxDepth
	}
	return sampling
}
