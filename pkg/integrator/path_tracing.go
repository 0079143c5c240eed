package integrator

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// MinHitDistance keeps scattered rays from re-hitting the surface they left
const MinHitDistance = 0.001

// PathTracingIntegrator implements unidirectional path tracing under a sky gradient
type PathTracingIntegrator struct {
	topColor    core.Color
	bottomColor core.Color
}

// NewPathTracingIntegrator creates a path tracer with the standard blue-to-white sky
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return NewPathTracingIntegratorWithSky(core.NewColor(0.5, 0.7, 1.0), core.NewColor(1.0, 1.0, 1.0))
}

// NewPathTracingIntegratorWithSky creates a path tracer with custom background colors
func NewPathTracingIntegratorWithSky(topColor, bottomColor core.Color) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		topColor:    topColor,
		bottomColor: bottomColor,
	}
}

// BackgroundColors returns the top and bottom colors of the sky gradient
func (pt *PathTracingIntegrator) BackgroundColors() (topColor, bottomColor core.Color) {
	return pt.topColor, pt.bottomColor
}

// RayColor follows the ray through at most depth scattering events.
// Attenuation is carried as a running product instead of recursing per bounce.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Vec3 {
	throughput := core.NewColor(1, 1, 1)

	for bounce := depth; bounce > 0; bounce-- {
		hit, isHit := world.Hit(ray, MinHitDistance, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(pt.backgroundGradient(ray))
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce limit exceeded, no more light is gathered
	return core.Vec3{X: 0, Y: 0, Z: 0}
}

// backgroundGradient blends bottom to top by the height of the ray direction
func (pt *PathTracingIntegrator) backgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return pt.bottomColor.Multiply(1.0 - t).Add(pt.topColor.Multiply(t))
}
