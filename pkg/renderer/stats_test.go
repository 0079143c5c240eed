package renderer

import (
	"math"
	"testing"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

func TestRenderStats(t *testing.T) {
	fb := NewFramebuffer(4, 2)
	fb.Samples = 10

	stats := newRenderStats(fb, 2*time.Second)
	if stats.TotalPixels != 8 || stats.TotalSamples != 80 || stats.AverageSamples != 10 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.SamplesPerSecond() != 40 {
		t.Errorf("Expected 40 samples/s, got %f", stats.SamplesPerSecond())
	}
	if (RenderStats{}).SamplesPerSecond() != 0 {
		t.Error("Zero duration should report zero throughput")
	}
}

func TestAverageLuminance(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	fb.AddSample(0, 0, core.NewVec3(1, 1, 1))
	fb.AddSample(1, 0, core.NewVec3(0, 0, 0))
	fb.Samples = 1

	if got := AverageLuminance(fb); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected average luminance 0.5, got %f", got)
	}
	if got := AverageLuminance(NewFramebuffer(0, 0)); got != 0 {
		t.Errorf("Empty framebuffer should have zero luminance, got %f", got)
	}
}
