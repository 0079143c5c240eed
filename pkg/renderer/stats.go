package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	Duration       time.Duration // Wall time spent rendering
}

// SamplesPerSecond returns the sampling throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// newRenderStats computes statistics for a framebuffer
func newRenderStats(fb *Framebuffer, duration time.Duration) RenderStats {
	totalPixels := fb.Width * fb.Height
	stats := RenderStats{
		TotalPixels:  totalPixels,
		TotalSamples: totalPixels * fb.Samples,
		Duration:     duration,
	}
	if totalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(totalPixels)
	}
	return stats
}

// AverageLuminance returns the mean luminance of the averaged pixel colors
func AverageLuminance(fb *Framebuffer) float64 {
	if fb.Width*fb.Height == 0 {
		return 0
	}
	total := 0.0
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			total += fb.Color(x, y).Luminance()
		}
	}
	return total / float64(fb.Width*fb.Height)
}
