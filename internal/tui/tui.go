// Package tui runs the ring animation inside a terminal.
package tui

import (
	"context"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/shift-rings/internal/config"
	"github.com/iburimskiy/shift-rings/internal/render"
	"github.com/iburimskiy/shift-rings/internal/scene"
)

// tickInterval is how often the loop offers a frame to the throttle.
const tickInterval = 16 * time.Millisecond

type Session struct {
	term   *render.Terminal
	scene  *scene.Scene
	player *scene.Player
	logger *zap.Logger
}

// New takes ownership of screen. A screen that cannot be initialized is
// reported as render.ErrNoContext.
func New(screen tcell.Screen, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	term, err := render.NewTerminal(screen)
	if err != nil {
		logger.Error("terminal surface unavailable", zap.Error(err))
		return nil, err
	}
	sc, err := scene.New(cfg, term.Viewport(), scene.NewRand(cfg))
	if err != nil {
		term.Fini()
		return nil, err
	}
	return &Session{
		term:   term,
		scene:  sc,
		player: scene.NewPlayer(cfg, sc),
		logger: logger,
	}, nil
}

func (s *Session) Scene() *scene.Scene { return s.scene }

// Run draws until ctx is done or the user quits, then restores the terminal.
func (s *Session) Run(ctx context.Context) error {
	defer s.term.Fini()

	screen := s.term.Screen()
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	vp := s.scene.Viewport()
	s.logger.Info("terminal session started",
		zap.Float64("width", vp.Width),
		zap.Float64("height", vp.Height),
		zap.Int("layers", len(s.scene.Layers)))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !s.handle(ev) {
				s.logger.Info("terminal session stopped", zap.Int("tick", s.scene.Tick()))
				return nil
			}
		case now := <-ticker.C:
			s.Frame(now)
		}
	}
}

func (s *Session) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case ' ':
				s.player.Paused = !s.player.Paused
			}
		}
	case *tcell.EventResize:
		s.term.Screen().Sync()
		vp := s.term.Resize()
		if err := s.scene.Resize(vp); err != nil {
			s.logger.Warn("resize failed", zap.Error(err))
		}
	}
	return true
}

// Frame draws and advances the scene if the throttle admits now.
func (s *Session) Frame(now time.Time) {
	s.player.Step(now, func(sc *scene.Scene, clr color.RGBA) {
		s.term.SetStrokeColor(clr.R, clr.G, clr.B)
		sc.Draw(s.term)
	})
}
