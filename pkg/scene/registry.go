package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// ErrUnknownScene is returned by Lookup for names that are not registered
var ErrUnknownScene = errors.New("unknown scene")

// builder creates a scene; sampler feeds scenes that are randomly populated
type builder func(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene

var builtinScenes = map[string]builder{
	"random": func(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
		return NewRandomSpheresScene(sampler, cameraOverrides...)
	},
	"default": func(_ core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
		return NewDefaultScene(cameraOverrides...)
	},
	"glass": func(_ core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
		return NewGlassScene(cameraOverrides...)
	},
}

// Lookup creates the named built-in scene
func Lookup(name string, sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	build, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return build(sampler, cameraOverrides...), nil
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
