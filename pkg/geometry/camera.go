package geometry

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center        core.Point3 // Camera position (look from)
	LookAt        core.Point3 // Point the camera is looking at
	Up            core.Vec3   // Up direction (usually (0,1,0))
	Width         int         // Image width in pixels
	AspectRatio   float64     // Width / height ratio
	VFov          float64     // Vertical field of view in degrees
	Aperture      float64     // Lens diameter; 0 disables depth of field
	FocusDistance float64     // Distance to the plane in perfect focus (0 = auto-calculate)
}

const (
	defaultAspectRatio = 16.0 / 9.0
	defaultVFov        = 90.0
	defaultWidth       = 400
)

// DefaultCameraConfig returns a camera at the origin looking down -Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       defaultWidth,
		AspectRatio: defaultAspectRatio,
		VFov:        defaultVFov,
	}
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Center.IsZero() {
		result.Center = override.Center
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// ImageHeight derives the pixel height from the width and aspect ratio, never less than 1
func (c CameraConfig) ImageHeight() int {
	aspect := c.AspectRatio
	if aspect <= 0 {
		aspect = defaultAspectRatio
	}
	height := int(float64(c.Width) / aspect)
	if height < 1 {
		height = 1
	}
	return height
}

// Camera generates primary rays with a thin-lens depth of field model
type Camera struct {
	config CameraConfig

	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3

	// Orthonormal basis: w points backwards, u right, v up
	u, v, w core.Vec3

	lensRadius    float64
	focusDistance float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	if config.AspectRatio <= 0 {
		config.AspectRatio = defaultAspectRatio
	}
	if config.VFov <= 0 || config.VFov >= 180 {
		config.VFov = defaultVFov
	}
	if config.Up.IsZero() {
		config.Up = core.NewVec3(0, 1, 0)
	}

	w := config.Center.Subtract(config.LookAt).Normalize()
	if w.IsZero() {
		w = core.NewVec3(0, 0, 1)
	}
	u := config.Up.Cross(w).Normalize()
	if u.NearZero() {
		// Up is parallel to the view direction; any perpendicular axis will do
		u = core.NewVec3(0, 0, 1).Cross(w).Normalize()
		if u.NearZero() {
			u = core.NewVec3(1, 0, 0)
		}
	}
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
		if focusDistance == 0 {
			focusDistance = 1
		}
	}

	theta := config.VFov * math.Pi / 180
	halfHeight := math.Tan(theta/2) * focusDistance
	halfWidth := halfHeight * config.AspectRatio

	horizontal := u.Multiply(2 * halfWidth)
	vertical := v.Multiply(2 * halfHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		config:          config,
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		focusDistance:   focusDistance,
	}
}

// GetRay generates a ray for image-plane coordinates (s, t) where 0 <= s,t <= 1.
// (0, 0) is the lower left corner of the viewport.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t))

	return core.NewRay(origin, target.Subtract(origin))
}

// GetCameraForward returns the unit direction the camera looks along
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// FocusDistance returns the distance to the plane of perfect focus
func (c *Camera) FocusDistance() float64 {
	return c.focusDistance
}

// Config returns the configuration the camera was built from, with defaults applied
func (c *Camera) Config() CameraConfig {
	return c.config
}
