package explorer

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/endlessutopia/internal/config"
	"github.com/samdwyer/endlessutopia/internal/telemetry"
	"github.com/samdwyer/endlessutopia/internal/theme"
	"github.com/samdwyer/endlessutopia/internal/ui"
	"github.com/samdwyer/endlessutopia/internal/world"
)

// Explorer holds the explorer state.
type Explorer struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	engine   *world.Engine
	camera   Camera
	cfg      config.ExplorerConfig
	state    State
	message  string
	running  bool
}

// New creates an explorer over engine, drawing to screen with the given theme.
func New(screen *ui.Screen, engine *world.Engine, def *theme.Def, cfg config.ExplorerConfig) *Explorer {
	return &Explorer{
		screen:   screen,
		renderer: ui.NewRenderer(screen, def),
		engine:   engine,
		camera:   Camera{X: int32(cfg.StartX), Y: int32(cfg.StartY)},
		cfg:      cfg,
		state:    StateExplore,
		message:  "press ? for help",
		running:  true,
	}
}

// Run executes the main loop until the user quits.
func (e *Explorer) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("explorer")
	_, span := tracer.Start(ctx, "explorer.session")
	span.SetAttributes(
		attribute.String("engine.id", e.engine.ID()),
		attribute.Int("explorer.start_x", int(e.camera.X)),
		attribute.Int("explorer.start_y", int(e.camera.Y)),
	)
	defer func() {
		span.SetAttributes(attribute.Int("explorer.landmarks_found", e.engine.VisitedCount()))
		span.End()
	}()

	for e.running {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Draw(ctx)
		e.handleInput(ctx)
	}
	return nil
}

// Camera returns the current camera position.
func (e *Explorer) Camera() Camera {
	return e.camera
}

// State returns the current mode.
func (e *Explorer) State() State {
	return e.state
}

// Running reports whether the loop should continue.
func (e *Explorer) Running() bool {
	return e.running
}

// Message returns the last status message.
func (e *Explorer) Message() string {
	return e.message
}

// Draw renders one frame around the camera. Rendering queries the engine, so a
// landmark in view is discovered by being drawn.
func (e *Explorer) Draw(ctx context.Context) {
	width, height := e.screen.Size()
	viewHeight := height - 1 // status line
	if width <= 0 || viewHeight <= 0 {
		return
	}

	x0, y0 := e.camera.Origin(width, viewHeight)
	region := e.engine.GetRegion(ctx, x0, y0, width, viewHeight)
	for dy, row := range region {
		for dx, tile := range row {
			if tile.Biome == world.BiomeLandmarkPresent {
				e.message = fmt.Sprintf("landmark found at (%d, %d)!", x0+int32(dx), y0+int32(dy))
			}
		}
	}

	frame := ui.Frame{
		Region:  region,
		CursorX: width / 2,
		CursorY: viewHeight / 2,
		Status:  e.status(),
	}
	if e.state == StateHelp {
		frame.Overlay = helpLines
	}
	e.renderer.Render(frame)
}

func (e *Explorer) status() string {
	under := e.engine.Peek(e.camera.X, e.camera.Y)
	return fmt.Sprintf("x=%d y=%d  %s  traces=%d  %s",
		e.camera.X, e.camera.Y, under.Biome, e.engine.VisitedCount(), e.message)
}

// handleInput processes a single input event.
func (e *Explorer) handleInput(ctx context.Context) {
	ev := e.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		e.HandleKey(ctx, ev)
	case *tcell.EventResize:
		e.screen.Sync()
	case nil:
		// Screen finalized.
		e.running = false
	}
}

// HandleKey applies one key press.
func (e *Explorer) HandleKey(ctx context.Context, ev *tcell.EventKey) {
	fast := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		if e.state == StateHelp {
			e.state = StateExplore
			return
		}
		e.running = false
	case tcell.KeyUp:
		e.pan(0, -1, fast)
	case tcell.KeyDown:
		e.pan(0, 1, fast)
	case tcell.KeyLeft:
		e.pan(-1, 0, fast)
	case tcell.KeyRight:
		e.pan(1, 0, fast)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			e.running = false
		case 'h', 'H':
			e.pan(-1, 0, ev.Rune() == 'H')
		case 'l', 'L':
			e.pan(1, 0, ev.Rune() == 'L')
		case 'k', 'K':
			e.pan(0, -1, ev.Rune() == 'K')
		case 'j', 'J':
			e.pan(0, 1, ev.Rune() == 'J')
		case 'c':
			e.jumpToLandmark(ctx)
		case 'o':
			e.camera.JumpTo(0, 0)
			e.message = "back at the origin"
		case '?':
			if e.state == StateHelp {
				e.state = StateExplore
			} else {
				e.state = StateHelp
			}
		}
	}
}

// pan moves the camera one step in direction (dx, dy).
func (e *Explorer) pan(dx, dy int32, fast bool) {
	step := int32(e.cfg.PanStep)
	if fast {
		step = int32(e.cfg.FastPanStep)
	}
	e.camera.Move(dx*step, dy*step)
}

func (e *Explorer) jumpToLandmark(ctx context.Context) {
	tracer := telemetry.Tracer("explorer")
	_, span := tracer.Start(ctx, "explorer.jump_to_landmark")
	defer span.End()

	lm := e.engine.Landmark()
	e.camera.JumpTo(lm.X, lm.Y)
	e.message = fmt.Sprintf("jumped to the landmark at %v", lm)
	span.SetAttributes(
		attribute.Int("landmark.x", int(lm.X)),
		attribute.Int("landmark.y", int(lm.Y)),
	)
}
