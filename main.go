package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pthm-cable/ringfield/anim"
	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/config"
	"github.com/pthm-cable/ringfield/layout"
	"github.com/pthm-cable/ringfield/paint"
	"github.com/pthm-cable/ringfield/stats"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	width := flag.Int("width", 0, "Output width in pixels (0 = use config)")
	out := flag.String("out", "", "Output PNG path (empty = use config)")
	viewport := flag.String("viewport", "", "Viewport as width,height,left,top fractions (empty = use config)")
	chunks := flag.String("chunks", "", "Chunk grid as COLSxROWS (empty = use config)")
	workers := flag.Int("workers", -1, "Painter goroutines (-1 = use config, 0 = GOMAXPROCS)")
	minSteps := flag.Int("min-circle-steps", -1, "Polygon floor for small circles (-1 = use config)")
	fastCollisions := flag.Bool("fast-collisions", false, "Approximate distance screen during placement")
	inflate := flag.Bool("inflate-draw-radius", false, "Widen tiny circles for small outputs")
	animate := flag.String("animate", "", "Animation mode: none, groups, or points:N (empty = use config)")
	framesDir := flag.String("frames-dir", "", "Animation frame directory (empty = use config)")
	statsDir := flag.String("stats-dir", "", "Telemetry directory (empty = use config)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if err := applyFlags(cfg, *width, *out, *viewport, *chunks, *workers, *minSteps, *animate, *framesDir, *statsDir); err != nil {
		slog.Error("invalid flag", "error", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fast-collisions":
			cfg.Render.FastCollisions = *fastCollisions
		case "inflate-draw-radius":
			cfg.Render.InflateDrawRadius = *inflate
		}
	})

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	seed, err := resolveSeed(flag.Arg(0))
	if err != nil {
		slog.Error("invalid seed", "error", err)
		os.Exit(1)
	}
	if cfg.Output.File == "" {
		name := hex.EncodeToString(seed)
		if cfg.Render.InflateDrawRadius {
			name += "-inflated"
		}
		cfg.Output.File = name + ".png"
	}
	slog.Info("rendering", "seed", hex.EncodeToString(seed), "width", cfg.Render.Width)

	db := colordb.FromBundle()
	start := time.Now()
	plan, err := layout.Build(seed, db, layout.Options{
		FastCollisions:    cfg.Render.FastCollisions,
		InflateDrawRadius: cfg.Render.InflateDrawRadius,
	}, logger)
	if err != nil {
		slog.Error("layout failed", "error", err)
		os.Exit(1)
	}
	slog.Info("layout complete",
		"circles", len(plan.Seq.Circles),
		"groups", plan.Seq.NumGroups(),
		"flow_field", plan.Traits.FlowField.String(),
		"structure", plan.Traits.Structure.String(),
		"palette", plan.Traits.Palette.String(),
		"elapsed", time.Since(start),
	)

	writer, err := stats.NewWriter(cfg.Output.StatsDir)
	if err != nil {
		slog.Error("stats output failed", "error", err)
		os.Exit(1)
	}
	if writer != nil {
		if err := writer.WriteConfig(cfg); err != nil {
			slog.Error("writing config snapshot", "error", err)
			os.Exit(1)
		}
		if err := writer.WritePlan(plan); err != nil {
			slog.Error("writing telemetry", "error", err)
			os.Exit(1)
		}
		if err := writer.WriteColors(plan, db); err != nil {
			slog.Error("writing colors", "error", err)
			os.Exit(1)
		}
	}

	sched, err := paint.NewScheduler(plan, paint.Style{
		Width:          cfg.Render.Width,
		MinCircleSteps: cfg.Render.MinCircleSteps,
	}, cfg.Derived.Chunks, cfg.Render.Workers)
	if err != nil {
		slog.Error("scheduler setup failed", "error", err)
		os.Exit(1)
	}

	start = time.Now()
	if err := render(cfg, sched, plan); err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
	slog.Info("render complete", "output", cfg.Output.File, "elapsed", time.Since(start))
}

// applyFlags overrides loaded config with any explicitly set flag values.
func applyFlags(cfg *config.Config, width int, out, viewport, chunks string, workers, minSteps int, animate, framesDir, statsDir string) error {
	if width > 0 {
		cfg.Render.Width = width
	}
	if out != "" {
		cfg.Output.File = out
	}
	if viewport != "" {
		vp, err := config.ParseViewport(viewport)
		if err != nil {
			return err
		}
		cfg.Viewport.Spec = viewport
		cfg.Derived.Viewport = vp
	}
	if chunks != "" {
		spec, err := config.ParseChunks(chunks)
		if err != nil {
			return err
		}
		cfg.Render.Chunks = chunks
		cfg.Derived.Chunks = spec
	}
	if workers >= 0 {
		cfg.Render.Workers = workers
	}
	if minSteps >= 0 {
		cfg.Render.MinCircleSteps = minSteps
	}
	if animate != "" {
		a, err := anim.Parse(animate)
		if err != nil {
			return err
		}
		cfg.Animation.Mode = animate
		cfg.Derived.Animation = a
	}
	if framesDir != "" {
		cfg.Output.FramesDir = framesDir
	}
	if statsDir != "" {
		cfg.Output.StatsDir = statsDir
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Derived.LogLevel}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// resolveSeed decodes the positional 64-digit hex seed, or draws a
// fresh random one when no argument was given.
func resolveSeed(s string) ([]byte, error) {
	if s == "" {
		seed := make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("generating seed: %w", err)
		}
		return seed, nil
	}
	s = strings.TrimPrefix(s, "0x")
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding seed: %w", err)
	}
	if len(seed) != 32 {
		return nil, fmt.Errorf("seed must be 32 bytes, got %d", len(seed))
	}
	return seed, nil
}

func render(cfg *config.Config, sched *paint.Scheduler, plan *layout.Plan) error {
	fvp := cfg.Derived.Viewport
	animation := cfg.Derived.Animation

	driver := anim.NewDriver(sched, animation)
	if animation.Mode == anim.ModeNone {
		return driver.Run(&plan.Seq, fvp, func(_ int, img image.Image) error {
			return writePNG(cfg.Output.File, img)
		})
	}

	if err := os.MkdirAll(cfg.Output.FramesDir, 0755); err != nil {
		return fmt.Errorf("creating frames directory: %w", err)
	}
	numFrames := len(animation.BatchSizes(&plan.Seq)) + 1
	last := numFrames - 1
	return driver.Run(&plan.Seq, fvp, func(frame int, img image.Image) error {
		path := filepath.Join(cfg.Output.FramesDir, fmt.Sprintf("frame-%04d.png", frame))
		if err := writePNG(path, img); err != nil {
			return err
		}
		if frame == last {
			return writePNG(cfg.Output.File, img)
		}
		return nil
	})
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
