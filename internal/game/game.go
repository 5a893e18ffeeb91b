// Package game runs the ring animation in an ebiten window.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/shift-rings/internal/audio"
	"github.com/iburimskiy/shift-rings/internal/config"
	"github.com/iburimskiy/shift-rings/internal/render"
	"github.com/iburimskiy/shift-rings/internal/rings"
	"github.com/iburimskiy/shift-rings/internal/scene"
)

// Game is one animation session. It owns every piece of mutable state: the
// layers, the frame throttle, the surfaces and the soundtrack.
type Game struct {
	cfg    *config.Config
	logger *zap.Logger

	scene    *scene.Scene
	player   *scene.Player
	viewport render.Viewport

	path     *pathSurface
	buffer   *bufferSurface
	lines    []rings.Line
	vertices []float32

	audio *audio.Soundtrack

	// input edge detection
	prevKey map[ebiten.Key]bool

	hud     bool
	lastErr error
	// fatal stops the loop on the next Update.
	fatal error
}

func New(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	vp := render.NewViewport(float64(cfg.Width), float64(cfg.Height), 1)
	sc, err := scene.New(cfg, vp, scene.NewRand(cfg))
	if err != nil {
		return nil, err
	}
	player := scene.NewPlayer(cfg, sc)
	g := &Game{
		cfg:      cfg,
		logger:   logger,
		scene:    sc,
		player:   player,
		viewport: vp,
		path:     &pathSurface{color: player.Tint.Color(), width: cfg.LineWidth},
		buffer:   &bufferSurface{color: player.Tint.Color(), width: cfg.LineWidth},
		audio:    audio.New(logger),
		prevKey:  map[ebiten.Key]bool{},
	}
	player.Loudness = g.audio
	if cfg.Audio != "" {
		if err := g.audio.Load(cfg.Audio); err != nil {
			logger.Warn("soundtrack unavailable", zap.String("path", cfg.Audio), zap.Error(err))
			g.lastErr = err
		}
	}
	return g, nil
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	defer g.audio.Close()

	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowTitle("Shift Rings - Space: pause, O: soundtrack, S: snapshot, H: status, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.logger.Info("window session started",
		zap.String("surface", g.cfg.Surface),
		zap.Float64("fps", g.cfg.FPS),
		zap.Int("layers", len(g.scene.Layers)))

	err := ebiten.RunGame(g)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		if errors.Is(err, render.ErrNoContext) {
			g.logger.Error("rendering stopped", zap.Error(err))
		}
		return err
	}
	g.logger.Info("window session stopped", zap.Int("tick", g.scene.Tick()))
	return nil
}

func (g *Game) Update() error {
	if g.fatal != nil {
		return g.fatal
	}

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if justPressed(ebiten.KeySpace) {
		g.player.Paused = !g.player.Paused
		g.audio.SetPaused(g.player.Paused)
	}
	if justPressed(ebiten.KeyH) {
		g.hud = !g.hud
	}
	if justPressed(ebiten.KeyO) {
		if err := g.audio.OpenDialog(); err != nil {
			g.report("open soundtrack", err)
		}
	}
	if justPressed(ebiten.KeyS) {
		if err := g.saveSnapshotDialog(); err != nil {
			g.report("save snapshot", err)
		}
	}

	g.player.Step(time.Now(), g.capture)
	return nil
}

// capture records what Draw will show for the frame the player admitted.
func (g *Game) capture(sc *scene.Scene, clr color.RGBA) {
	g.path.color = clr
	g.buffer.color = clr

	switch g.cfg.Surface {
	case config.SurfaceBuffer:
		g.vertices = sc.Upload(g.buffer, g.vertices)
	default:
		g.lines = append(g.lines[:0], sc.Lines()...)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if err := g.drawFrame(screen); err != nil {
		g.fatal = err
		return
	}
	if g.hud {
		ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
	}
}

func (g *Game) drawFrame(screen *ebiten.Image) error {
	switch g.cfg.Surface {
	case config.SurfaceBuffer:
		if err := g.buffer.bind(screen, g.viewport.Ratio); err != nil {
			return err
		}
		screen.Fill(color.Black)
		g.buffer.DrawLines()
	default:
		if err := g.path.bind(screen, g.viewport); err != nil {
			return err
		}
		g.path.Clear()
		render.StrokeLines(g.path, g.lines)
	}
	return nil
}

func (g *Game) status() string {
	status := fmt.Sprintf("tick %d  %.1f fps", g.scene.Tick(), ebiten.ActualFPS())
	if g.player.Paused {
		status += "  paused"
	}
	if g.audio.Playing() {
		status += fmt.Sprintf("  soundtrack %s / %s  level %.2f",
			audio.FormatDuration(g.audio.Position()), audio.FormatDuration(g.audio.Duration()), g.audio.Level())
	}
	if g.lastErr != nil {
		status += "\nError: " + g.lastErr.Error()
	}
	return status
}

func (g *Game) report(action string, err error) {
	g.lastErr = err
	g.logger.Warn(action+" failed", zap.Error(err))
}

// Layout applies the device pixel ratio: the backing store is the window
// size times the ratio and ring geometry follows window resizes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := 1.0
	if m := ebiten.Monitor(); m != nil {
		ratio = m.DeviceScaleFactor()
	}
	vp := render.NewViewport(float64(outsideWidth), float64(outsideHeight), ratio)
	if vp != g.viewport && !vp.Empty() {
		if err := g.scene.Resize(vp); err != nil {
			g.report("resize", err)
		} else {
			g.viewport = vp
			g.logger.Debug("viewport changed",
				zap.Float64("width", vp.Width),
				zap.Float64("height", vp.Height),
				zap.Float64("ratio", vp.Ratio))
		}
	}
	return g.viewport.BackingSize()
}

func (g *Game) saveSnapshotDialog() error {
	path, err := zenity.SelectFileSave(
		zenity.Title("Save Snapshot"),
		zenity.Filename("shift-rings.png"),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "PNG image",
			Patterns: []string{"*.png"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	if err := g.scene.Snapshot(path, g.cfg.LineWidth, g.player.Tint.Color()); err != nil {
		return err
	}
	g.logger.Info("snapshot saved", zap.String("path", path), zap.Int("tick", g.scene.Tick()))
	return nil
}
