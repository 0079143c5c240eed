package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// mirrorShape reports a hit at t=1 for every ray, counting calls
type mirrorShape struct {
	material material.Material
	calls    int
}

func (m *mirrorShape) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	m.calls++
	hit := &material.HitRecord{T: 1, Point: ray.At(1), Material: m.material}
	hit.SetFaceNormal(ray, ray.Direction.Negate().Normalize())
	return hit, true
}

// tintMaterial always scatters straight up with a fixed attenuation
type tintMaterial struct {
	attenuation core.Color
}

func (m tintMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{
		Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
		Attenuation: m.attenuation,
	}, true
}

type absorbMaterial struct{}

func (absorbMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestPathTracingSkyGradient(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	empty := geometry.NewWorld()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
		{"unnormalized up", core.NewVec3(0, 10, 0), core.NewVec3(0.5, 0.7, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 0, 0), tt.direction)
			color := integrator.RayColor(ray, empty, 5, sampler)
			if !vecClose(color, tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
		})
	}
}

func TestPathTracingDepthTermination(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	// Depth 0 is black even when the ray would escape to the sky
	if color := integrator.RayColor(ray, geometry.NewWorld(), 0, sampler); color != (core.Vec3{}) {
		t.Errorf("Expected black color for depth 0, got %v", color)
	}

	// A shape that is always hit exhausts the bounce budget
	shape := &mirrorShape{material: tintMaterial{attenuation: core.NewColor(1, 1, 1)}}
	if color := integrator.RayColor(ray, shape, 7, sampler); color != (core.Vec3{}) {
		t.Errorf("Expected black once depth is exhausted, got %v", color)
	}
	if shape.calls != 7 {
		t.Errorf("Expected exactly 7 intersection queries, got %d", shape.calls)
	}
}

func TestPathTracingAbsorption(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	shape := &mirrorShape{material: absorbMaterial{}}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if color := integrator.RayColor(ray, shape, 50, sampler); color != (core.Vec3{}) {
		t.Errorf("Expected black for absorbed ray, got %v", color)
	}
	if shape.calls != 1 {
		t.Errorf("Absorption should end the path after one hit, got %d queries", shape.calls)
	}
}

func TestPathTracingAttenuationIsMultiplicative(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// Half-tinted sphere below the ray origin; the scattered ray goes straight up into the sky
	tint := tintMaterial{attenuation: core.NewColor(0.5, 0.25, 1.0)}
	world := geometry.NewWorld(geometry.NewSphere(core.NewVec3(0, -2, 0), 1, tint))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
	color := integrator.RayColor(ray, world, 2, sampler)
	expected := core.NewColor(0.5*0.5, 0.25*0.7, 1.0*1.0)
	if !vecClose(color, expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, color)
	}

	// Two tinted bounces compound before reaching the sky
	shape := &mirrorShape{material: tint}
	limited := integrator.RayColor(ray, shape, 2, sampler)
	if limited != (core.Vec3{}) {
		t.Errorf("Expected black when every bounce is consumed, got %v", limited)
	}
}

func TestPathTracingCustomSky(t *testing.T) {
	top := core.NewColor(0, 0, 1)
	bottom := core.NewColor(1, 0, 0)
	integrator := NewPathTracingIntegratorWithSky(top, bottom)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	gotTop, gotBottom := integrator.BackgroundColors()
	if gotTop != top || gotBottom != bottom {
		t.Errorf("BackgroundColors() = %v, %v", gotTop, gotBottom)
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
	if color := integrator.RayColor(ray, geometry.NewWorld(), 1, sampler); !vecClose(color, bottom, 1e-9) {
		t.Errorf("Expected bottom color %v, got %v", bottom, color)
	}
}

func TestPathTracingLambertianSphereEnergy(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	world := geometry.NewWorld(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))),
	)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	for i := 0; i < 200; i++ {
		color := integrator.RayColor(ray, world, 50, sampler)
		// One bounce off a 50% albedo surface can carry at most half the brightest sky value
		if color.X < 0 || color.Y < 0 || color.Z < 0 || color.X > 0.5 || color.Y > 0.5 || color.Z > 0.5 {
			t.Fatalf("Sample %d out of range: %v", i, color)
		}
		if math.IsNaN(color.X) || math.IsNaN(color.Y) || math.IsNaN(color.Z) {
			t.Fatalf("Sample %d is NaN", i)
		}
	}
}
