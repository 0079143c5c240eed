package scene

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

func spheresOf(t *testing.T, s *Scene) []*geometry.Sphere {
	t.Helper()
	spheres := make([]*geometry.Sphere, 0, s.World.Len())
	for i, shape := range s.World.Shapes {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok {
			t.Fatalf("Shape %d is %T, expected *geometry.Sphere", i, shape)
		}
		spheres = append(spheres, sphere)
	}
	return spheres
}

func TestRandomSpheresScene_Population(t *testing.T) {
	s := NewRandomSpheresScene(core.NewRandomSampler(rand.New(rand.NewSource(42))))
	spheres := spheresOf(t, s)

	// Ground + 23x23 grid + 3 feature spheres
	if len(spheres) != 1+23*23+3 {
		t.Fatalf("Expected %d spheres, got %d", 1+23*23+3, len(spheres))
	}

	ground := spheres[0]
	if !ground.Center.Equals(core.NewVec3(0, -1000, 0)) || ground.Radius != 1000 {
		t.Errorf("Unexpected ground sphere: %+v", ground)
	}

	counts := map[string]int{}
	for i, sphere := range spheres[1 : len(spheres)-3] {
		a := float64(i/23 - 11)
		b := float64(i%23 - 11)
		if sphere.Radius != 0.2 || sphere.Center.Y != 0.2 {
			t.Errorf("Grid sphere %d has radius %f at height %f", i, sphere.Radius, sphere.Center.Y)
		}
		if sphere.Center.X < a || sphere.Center.X >= a+0.9 || sphere.Center.Z < b || sphere.Center.Z >= b+0.9 {
			t.Errorf("Grid sphere %d at %v outside cell (%f, %f)", i, sphere.Center, a, b)
		}

		switch m := sphere.Material.(type) {
		case *material.Lambertian:
			counts["lambertian"]++
		case *material.Metal:
			counts["metal"]++
			if m.Albedo.X < 0.4 || m.Albedo.Y < 0.4 || m.Albedo.Z < 0.4 || m.Fuzzness >= 0.5 {
				t.Errorf("Metal sphere %d outside parameter range: %+v", i, m)
			}
		case *material.Dielectric:
			counts["dielectric"]++
		default:
			t.Errorf("Unexpected material %T", m)
		}
	}

	// 529 draws at 80/15/5 percent
	if counts["lambertian"] < 360 || counts["lambertian"] > 480 {
		t.Errorf("Lambertian share out of range: %v", counts)
	}
	if counts["metal"] == 0 || counts["dielectric"] == 0 {
		t.Errorf("Expected every material kind to appear: %v", counts)
	}

	features := spheres[len(spheres)-3:]
	if _, ok := features[0].Material.(*material.Dielectric); !ok || !features[0].Center.Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("Expected glass sphere at (0, 1, 0), got %+v", features[0])
	}
	if _, ok := features[1].Material.(*material.Lambertian); !ok || !features[1].Center.Equals(core.NewVec3(-4, 1, 0)) {
		t.Errorf("Expected diffuse sphere at (-4, 1, 0), got %+v", features[1])
	}
	if _, ok := features[2].Material.(*material.Metal); !ok || !features[2].Center.Equals(core.NewVec3(4, 1, 0)) {
		t.Errorf("Expected metal sphere at (4, 1, 0), got %+v", features[2])
	}
}

func TestRandomSpheresScene_Deterministic(t *testing.T) {
	first := spheresOf(t, NewRandomSpheresScene(core.NewSeededSampler(7)))
	second := spheresOf(t, NewRandomSpheresScene(core.NewSeededSampler(7)))
	other := spheresOf(t, NewRandomSpheresScene(core.NewSeededSampler(8)))

	differs := false
	for i := range first {
		if first[i].Center != second[i].Center || !reflect.DeepEqual(first[i].Material, second[i].Material) {
			t.Fatalf("Sphere %d differs between renders with the same seed", i)
		}
		if first[i].Center != other[i].Center {
			differs = true
		}
	}
	if !differs {
		t.Error("Different seeds should produce different layouts")
	}
}

func TestRandomSpheresScene_CameraAndSampling(t *testing.T) {
	s := NewRandomSpheresScene(core.NewSeededSampler(42))

	if s.Name != "random" {
		t.Errorf("Expected name random, got %q", s.Name)
	}
	if s.SamplingConfig.Width != 1200 || s.SamplingConfig.Height != 800 {
		t.Errorf("Expected 1200x800, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	if s.SamplingConfig.SamplesPerPixel != 500 || s.SamplingConfig.MaxDepth != 50 {
		t.Errorf("Unexpected sampling config: %+v", s.SamplingConfig)
	}
	if !s.CameraConfig.Center.Equals(core.NewVec3(13, 2, 3)) || s.CameraConfig.VFov != 20 ||
		s.CameraConfig.Aperture != 0.1 || s.Camera.FocusDistance() != 10 {
		t.Errorf("Unexpected camera config: %+v", s.CameraConfig)
	}
}

func TestSceneCameraOverrides(t *testing.T) {
	s := NewDefaultScene(geometry.CameraConfig{Width: 200, VFov: 60})

	if s.SamplingConfig.Width != 200 || s.SamplingConfig.Height != 112 {
		t.Errorf("Expected 200x112 after width override, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	if s.CameraConfig.VFov != 60 {
		t.Errorf("Expected VFov override 60, got %f", s.CameraConfig.VFov)
	}
	if !s.CameraConfig.LookAt.Equals(core.NewVec3(0, 0, -1)) {
		t.Errorf("LookAt should keep the scene default, got %v", s.CameraConfig.LookAt)
	}
}

func TestSceneSetCameraConfig(t *testing.T) {
	s := NewDefaultScene()
	s.SamplingConfig.SamplesPerPixel = 7

	config := s.CameraConfig
	config.Center = core.NewVec3(0, 0, 0)
	config.LookAt = core.NewVec3(0, 0, 1)
	config.Width = 90
	config.AspectRatio = 3
	s.SetCameraConfig(config)

	if s.SamplingConfig.Width != 90 || s.SamplingConfig.Height != 30 {
		t.Errorf("Expected 90x30 after resize, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	if s.SamplingConfig.SamplesPerPixel != 7 {
		t.Errorf("Sample count should survive a camera change, got %d", s.SamplingConfig.SamplesPerPixel)
	}
	if !s.CameraConfig.Center.IsZero() {
		t.Errorf("Expected camera at the origin, got %v", s.CameraConfig.Center)
	}
	if forward := s.Camera.GetCameraForward(); !forward.Equals(core.NewVec3(0, 0, 1)) {
		t.Errorf("Expected rebuilt camera to look along +Z, got %v", forward)
	}
}

func TestDefaultScene_HollowGlass(t *testing.T) {
	spheres := spheresOf(t, NewDefaultScene())
	if len(spheres) != 5 {
		t.Fatalf("Expected 5 spheres, got %d", len(spheres))
	}

	outer, inner := spheres[2], spheres[3]
	if outer.Center != inner.Center || outer.Radius <= 0 || inner.Radius >= 0 {
		t.Errorf("Expected a shell built from a positive and a negative radius sphere, got %+v and %+v", outer, inner)
	}
	if m, ok := spheres[4].Material.(*material.Metal); !ok || m.Fuzzness != 1.0 {
		t.Errorf("Expected fully fuzzy metal on the right, got %+v", spheres[4].Material)
	}
}

func TestGlassScene(t *testing.T) {
	s := NewGlassScene()
	dielectrics := 0
	for _, sphere := range spheresOf(t, s) {
		if _, ok := sphere.Material.(*material.Dielectric); ok {
			dielectrics++
		}
	}
	if dielectrics < 5 {
		t.Errorf("Expected a glass-heavy scene, found %d dielectric spheres", dielectrics)
	}
	if s.GetPrimitiveCount() != s.World.Len() {
		t.Errorf("GetPrimitiveCount() = %d, want %d", s.GetPrimitiveCount(), s.World.Len())
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Lookup(name, core.NewSeededSampler(42))
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Expected scene name %q, got %q", name, s.Name)
			}
			if s.World.Len() == 0 {
				t.Error("Expected a populated world")
			}
		})
	}

	if _, err := Lookup("cornell", core.NewSeededSampler(42)); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestNames(t *testing.T) {
	expected := []string{"default", "glass", "random"}
	if got := Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Names() = %v, want %v", got, expected)
	}
}
