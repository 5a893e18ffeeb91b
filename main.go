package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/shift-rings/internal/config"
	"github.com/iburimskiy/shift-rings/internal/game"
	"github.com/iburimskiy/shift-rings/internal/logging"
	"github.com/iburimskiy/shift-rings/internal/render"
	"github.com/iburimskiy/shift-rings/internal/scene"
	"github.com/iburimskiy/shift-rings/internal/tui"
)

const terminalLogFile = "shift-rings.log"

var (
	configFlag   = flag.String("config", "", "YAML scene file")
	surfaceFlag  = flag.String("surface", "", "render surface: path, buffer or terminal")
	snapshotFlag = flag.String("snapshot", "", "render headless to this PNG file and exit")
	framesFlag   = flag.Int("frames", 0, "ticks to advance before a headless snapshot")
	seedFlag     = flag.String("seed", "", "seed text for the drift impulses")
	fpsFlag      = flag.Float64("fps", 0, "target frame rate")
	audioFlag    = flag.String("audio", "", "soundtrack file (wav, mp3 or flac)")
	logLevelFlag = flag.String("log-level", "", "debug, info, warn or error")
	logFileFlag  = flag.String("log-file", "", "write logs to this file")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logOpts := logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: cfg.LogFile == ""}
	if cfg.Surface == config.SurfaceTerminal && cfg.LogFile == "" && *snapshotFlag == "" {
		// stderr belongs to the screen while tcell runs
		logOpts.File = terminalLogFile
		logOpts.Console = false
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			return nil, err
		}
	}
	if *surfaceFlag != "" {
		cfg.Surface = *surfaceFlag
	}
	if *seedFlag != "" {
		cfg.Seed = *seedFlag
	}
	if *fpsFlag > 0 {
		cfg.FPS = *fpsFlag
	}
	if *audioFlag != "" {
		cfg.Audio = *audioFlag
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}
	if *logFileFlag != "" {
		cfg.LogFile = *logFileFlag
	}
	return cfg, cfg.Validate()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if *snapshotFlag != "" {
		return snapshot(cfg, logger, *snapshotFlag, *framesFlag)
	}

	switch cfg.Surface {
	case config.SurfaceTerminal:
		screen, err := tcell.NewScreen()
		if err != nil {
			logger.Error("terminal surface unavailable", zap.Error(err))
			return errors.Join(render.ErrNoContext, err)
		}
		session, err := tui.New(screen, cfg, logger)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	default:
		g, err := game.New(cfg, logger)
		if err != nil {
			return err
		}
		return g.Run()
	}
}

// snapshot advances the scene frames ticks without a window and writes the
// resulting frame as a PNG.
func snapshot(cfg *config.Config, logger *zap.Logger, path string, frames int) error {
	vp := render.NewViewport(float64(cfg.Width), float64(cfg.Height), 1)
	sc, err := scene.New(cfg, vp, scene.NewRand(cfg))
	if err != nil {
		return err
	}
	tint := scene.NewTint(cfg)
	for i := 0; i < frames; i++ {
		sc.Advance()
		tint.Advance()
	}
	if err := sc.Snapshot(path, cfg.LineWidth, tint.Color()); err != nil {
		if errors.Is(err, render.ErrNoContext) {
			logger.Error("snapshot surface unavailable", zap.Error(err))
		}
		return err
	}
	logger.Info("snapshot saved", zap.String("path", path), zap.Int("tick", sc.Tick()))
	return nil
}
