package material

import "github.com/df07/go-sphere-tracer/pkg/core"

// sequenceSampler replays a fixed list of values, wrapping around at the end
type sequenceSampler struct {
	values []float64
	next   int
}

func newSequenceSampler(values ...float64) *sequenceSampler {
	return &sequenceSampler{values: values}
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.Get1D(), s.Get1D())
}

func (s *sequenceSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

// panicSampler fails the test if a material consults randomness it should not need
type panicSampler struct{}

func (panicSampler) Get1D() float64   { panic("unexpected Get1D") }
func (panicSampler) Get2D() core.Vec2 { panic("unexpected Get2D") }
func (panicSampler) Get3D() core.Vec3 { panic("unexpected Get3D") }
