package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/df07/go-sphere-tracer/pkg/config"
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	configPath string
	sceneName  string
	width      int
	samples    int
	depth      int
	seed       int64
	out        string
	merge      string
	list       bool
	help       bool

	set map[string]bool // Flags given explicitly on the command line
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("sphere-tracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "JSON render configuration file")
	fs.StringVar(&opts.sceneName, "scene", config.DefaultScene, "Scene to render: "+strings.Join(scene.Names(), ", "))
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum bounces per path (0 = scene default)")
	fs.Int64Var(&opts.seed, "seed", config.DefaultSeed, "Random seed for scene layout and sampling")
	fs.StringVar(&opts.out, "out", config.DefaultOutput, "Output file (.ppm, .png or .raw, optionally .zst/.sz; - for PPM on stdout)")
	fs.StringVar(&opts.merge, "merge", "", "Comma separated raw dumps to merge into -out instead of rendering")
	fs.BoolVar(&opts.list, "list", false, "List available scenes")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, fs, nil
}

// buildConfig loads the config file, if any, and lets explicit flags override it
func buildConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.set["scene"] || opts.configPath == "" {
		cfg.Scene = opts.sceneName
	}
	if opts.set["width"] {
		cfg.Width = opts.width
	}
	if opts.set["samples"] {
		cfg.SamplesPerPixel = opts.samples
	}
	if opts.set["depth"] {
		cfg.MaxDepth = opts.depth
	}
	if opts.set["seed"] {
		cfg.Seed = opts.seed
	}
	if opts.set["out"] {
		cfg.Output = opts.out
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createScene builds the configured scene with the camera overrides applied
func createScene(cfg *config.Config, sampler core.Sampler) (*scene.Scene, error) {
	s, err := scene.Lookup(cfg.Scene, sampler)
	if err != nil {
		return nil, err
	}
	s.SetCameraConfig(cfg.ApplyCamera(s.CameraConfig))
	return s, nil
}

// newIntegrator builds a path tracer under the configured sky
func newIntegrator(cfg *config.Config) *integrator.PathTracingIntegrator {
	top, bottom := integrator.NewPathTracingIntegrator().BackgroundColors()
	return integrator.NewPathTracingIntegratorWithSky(cfg.ApplySky(top, bottom))
}

// writeImage saves fb to the configured output
func writeImage(cfg *config.Config, fb *renderer.Framebuffer, stdout io.Writer) error {
	if cfg.Output == config.StdoutOutput {
		return output.WritePPM(stdout, fb)
	}
	return output.Save(cfg.Output, fb)
}

// mergeDumps combines raw accumulation dumps into one image
func mergeDumps(paths []string, logger core.Logger) (*renderer.Framebuffer, error) {
	var merged *renderer.Framebuffer
	for _, path := range paths {
		fb, err := output.LoadRaw(path)
		if err != nil {
			return nil, err
		}
		logger.Printf("Loaded %s: %dx%d, %d samples/pixel\n", path, fb.Width, fb.Height, fb.Samples)
		if merged == nil {
			merged = fb
			continue
		}
		if err := merged.Merge(fb); err != nil {
			return nil, fmt.Errorf("merge %s: %w", path, err)
		}
	}
	if merged == nil {
		return nil, errors.New("no raw dumps to merge")
	}
	return merged, nil
}

func splitList(raw string) []string {
	var parts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := log.New(stderr, "", 0)

	if opts.help {
		fmt.Fprintln(stdout, "Sphere Path Tracer")
		fmt.Fprintln(stdout, "Usage: sphere-tracer [options]")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Options:")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return nil
	}
	if opts.list {
		for _, name := range scene.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	if opts.merge != "" {
		fb, err := mergeDumps(splitList(opts.merge), logger)
		if err != nil {
			return err
		}
		if err := writeImage(cfg, fb, stdout); err != nil {
			return err
		}
		logger.Printf("Merged %d samples/pixel into %s\n", fb.Samples, cfg.Output)
		return nil
	}

	sampler := core.NewSeededSampler(cfg.Seed)
	selectedScene, err := createScene(cfg, sampler)
	if err != nil {
		return err
	}
	sampling := cfg.ApplySampling(selectedScene.SamplingConfig)
	logger.Printf("Rendering %s scene: %dx%d, %d samples/pixel, max depth %d, %d spheres\n",
		selectedScene.Name, sampling.Width, sampling.Height, sampling.SamplesPerPixel, sampling.MaxDepth,
		selectedScene.GetPrimitiveCount())

	integ := newIntegrator(cfg)
	top, bottom := integ.BackgroundColors()
	cam := selectedScene.CameraConfig
	logger.Printf("Camera at %v looking along %v, vfov %g, aperture %g; sky %v to %v\n",
		cam.Center, selectedScene.Camera.GetCameraForward(), cam.VFov, cam.Aperture, bottom, top)

	raytracer := renderer.NewRaytracer(selectedScene, integ, sampler, logger)
	raytracer.SetSamplingConfig(sampling)
	fb, stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}

	if err := writeImage(cfg, fb, stdout); err != nil {
		return err
	}
	logger.Printf("Render completed in %v (%.0f samples/s, average luminance %.3f)\n",
		stats.Duration, stats.SamplesPerSecond(), renderer.AverageLuminance(fb))
	if cfg.Output != config.StdoutOutput {
		logger.Printf("Render saved as %s\n", cfg.Output)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
