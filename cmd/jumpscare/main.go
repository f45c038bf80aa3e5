package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"time"

	"github.com/opd-ai/greenscreen/canvas"
	"github.com/opd-ai/greenscreen/config"
	"github.com/opd-ai/greenscreen/frame"
	"github.com/opd-ai/greenscreen/media"
	"github.com/opd-ai/greenscreen/overlay"
	"github.com/sirupsen/logrus"
)

// CLIConfig holds the parsed command-line flags.
type CLIConfig struct {
	configPath      string
	framesDir       string
	gifPath         string
	fps             float64
	outDir          string
	width           int
	height          int
	closeAfter      time.Duration
	autoplayBlocked bool
	logLevel        string
}

func parseCLIFlags(args []string) (*CLIConfig, error) {
	cli := &CLIConfig{}
	fs := flag.NewFlagSet("jumpscare", flag.ContinueOnError)

	fs.StringVar(&cli.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&cli.framesDir, "frames", "", "Directory of frame images")
	fs.StringVar(&cli.gifPath, "gif", "", "Animated GIF file")
	fs.Float64Var(&cli.fps, "fps", 30, "Frame rate used with -frames")
	fs.StringVar(&cli.outDir, "out", "", "Directory for the composited PNG sequence")
	fs.IntVar(&cli.width, "width", 640, "Viewport width")
	fs.IntVar(&cli.height, "height", 360, "Viewport height")
	fs.DurationVar(&cli.closeAfter, "close-after", 0, "Press the close control after this long (0 = never)")
	fs.BoolVar(&cli.autoplayBlocked, "autoplay-blocked", false, "Reject unmuted playback")
	fs.StringVar(&cli.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cli, nil
}

func validateCLIConfig(cli *CLIConfig) error {
	if cli.framesDir != "" && cli.gifPath != "" {
		return fmt.Errorf("-frames and -gif are mutually exclusive")
	}
	if cli.width <= 0 || cli.height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", cli.width, cli.height)
	}
	if cli.fps <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	if cli.closeAfter < 0 {
		return fmt.Errorf("close-after cannot be negative")
	}
	return nil
}

// loadConfig reads the configuration file, if any, and applies flag
// overrides.
func loadConfig(cli *CLIConfig) (*config.Config, error) {
	cfg := config.Default()
	if cli.configPath != "" {
		loaded, err := config.Load(cli.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cli.logLevel != "" {
		cfg.LogLevel = cli.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadClip(cli *CLIConfig) (*media.Clip, error) {
	switch {
	case cli.gifPath != "":
		return media.LoadGIF(cli.gifPath)
	case cli.framesDir != "":
		return media.LoadDirectory(cli.framesDir, cli.fps)
	default:
		return syntheticClip(24, 320, 180, time.Second/time.Duration(24))
	}
}

// syntheticClip renders a red square sweeping across a green screen.
func syntheticClip(frames, width, height int, frameDuration time.Duration) (*media.Clip, error) {
	green := color.NRGBA{0, 255, 0, 255}
	red := color.NRGBA{220, 20, 40, 255}
	side := height / 2

	images := make([]image.Image, frames)
	for i := range images {
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		x0 := (width - side) * i / max(frames-1, 1)
		y0 := (height - side) / 2
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if x >= x0 && x < x0+side && y >= y0 && y < y0+side {
					img.SetNRGBA(x, y, red)
				} else {
					img.SetNRGBA(x, y, green)
				}
			}
		}
		images[i] = img
	}
	return media.NewClip(images, frameDuration)
}

func newDisplay(outDir string) (canvas.Display, error) {
	if outDir == "" {
		return canvas.NewMemoryDisplay(), nil
	}
	return canvas.NewPNGSequenceDisplay(outDir)
}

// logCloseControl stands in for the host's close button.
type logCloseControl struct{}

func (logCloseControl) SetVisible(visible bool) {
	logrus.WithFields(logrus.Fields{
		"function": "logCloseControl.SetVisible",
		"visible":  visible,
	}).Info("Close control visibility changed")
}

// run plays the overlay once and returns the final statistics.
func run(ctx context.Context, cli *CLIConfig, cfg *config.Config) (frame.StatsSnapshot, error) {
	clip, err := loadClip(cli)
	if err != nil {
		return frame.StatsSnapshot{}, fmt.Errorf("load clip: %w", err)
	}
	clip.SetAutoplayBlocked(cli.autoplayBlocked)

	display, err := newDisplay(cli.outDir)
	if err != nil {
		return frame.StatsSnapshot{}, err
	}
	surface, err := canvas.NewSurface(display, cli.width, cli.height)
	if err != nil {
		return frame.StatsSnapshot{}, err
	}

	scheduler := overlay.NewRefreshScheduler(cfg.RefreshRateHz)
	if err := scheduler.Start(ctx); err != nil {
		return frame.StatsSnapshot{}, err
	}
	defer scheduler.Stop()

	controller, err := overlay.NewController(clip, surface, logCloseControl{}, cfg.OverlayOptions(scheduler))
	if err != nil {
		return frame.StatsSnapshot{}, err
	}

	idle := make(chan struct{}, 1)
	controller.SetStateCallback(func(state overlay.PlaybackState) {
		if state != overlay.Idle {
			return
		}
		select {
		case idle <- struct{}{}:
		default:
		}
	})

	if err := controller.Activate(ctx); err != nil {
		return controller.Stats(), err
	}

	var closeTimer <-chan time.Time
	if cli.closeAfter > 0 {
		timer := time.NewTimer(cli.closeAfter)
		defer timer.Stop()
		closeTimer = timer.C
	}

	select {
	case <-idle:
	case <-closeTimer:
		controller.RequestClose()
	case <-ctx.Done():
		controller.Deactivate()
	}

	return controller.Stats(), nil
}

func printStats(stats frame.StatsSnapshot) {
	fmt.Printf("\n📊 Frames: %d ticks, %d processed, %d skipped\n",
		stats.Ticks, stats.Processed, stats.Skipped)
	fmt.Printf("   Keyed: %d of %d pixels (%.1f%%)\n",
		stats.KeyedPixels, stats.TotalPixels, stats.KeyedFraction()*100)
	fmt.Printf("   Tick time: avg %v, peak %v\n", stats.AverageTick, stats.PeakTick)
}

func main() {
	cli, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := validateCLIConfig(cli); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := cfg.ApplyLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := run(ctx, cli, cfg)

	exitCode := 0
	switch {
	case err == nil:
		fmt.Println("\n🎉 Overlay finished")
	case errors.Is(err, overlay.ErrMissingCollaborator):
		fmt.Fprintf(os.Stderr, "\n⚠️  Overlay disabled: %v\n", err)
		exitCode = 1
	case errors.Is(err, overlay.ErrPlaybackStart):
		fmt.Fprintf(os.Stderr, "\n⚠️  Overlay stayed idle: %v\n", err)
		exitCode = 3
	default:
		fmt.Fprintf(os.Stderr, "\n❌ %v\n", err)
		exitCode = 1
	}

	printStats(stats)
	os.Exit(exitCode)
}
