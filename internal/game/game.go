package game

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/engine"
	"roomshelves/internal/layout"
	"roomshelves/internal/placement"
	"roomshelves/internal/session"
)

// Options configures the host window. A zero size falls back to the last
// saved size, then to 1280x720.
type Options struct {
	Width, Height int32
	Title         string
	PrefsPath     string
	// WatchPath, when set, is the layout file to watch for outside edits.
	WatchPath string
}

type Game struct {
	Session   *session.Session
	DebugMode bool

	opts     Options
	log      *slog.Logger
	gestures GestureClassifier
	pending  []Gesture
	// uiCapture is set while a press that started on the toolbar is held.
	uiCapture bool

	watcher *layout.Watcher
	// Own saves also trigger the watcher; events before this time are ignored.
	quietUntil float64

	// Status line
	msg     string
	msgTime float64

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

func New(s *session.Session, opts Options, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PrefsPath == "" {
		opts.PrefsPath = DefaultPrefsPath
	}
	if opts.Title == "" {
		opts.Title = "Room Shelves"
	}
	g := &Game{Session: s, opts: opts, log: logger}

	s.OnLanded.AddListener(func(h engine.Handle) {
		g.log.Debug("landed", "handle", h)
	})
	return g
}

func (g *Game) Run() {
	prefs, err := LoadPrefs(g.opts.PrefsPath)
	if err != nil {
		g.log.Warn("ignoring prefs", "err", err)
	}
	width, height := windowSize(g.opts, prefs)

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(width, height, g.opts.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	initToolbarStyle()

	if err := g.Session.Load(); err != nil {
		g.log.Warn("starting with an empty room", "err", err)
	}
	g.applyPrefs(prefs)

	if g.opts.WatchPath != "" {
		w, err := layout.WatchFile(g.opts.WatchPath)
		if err != nil {
			g.log.Warn("not watching layout", "err", err)
		} else {
			g.watcher = w
			defer w.Close()
		}
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}

	final := g.capturePrefs(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	if err := SavePrefs(g.opts.PrefsPath, final); err != nil {
		g.log.Warn("prefs not saved", "err", err)
	}
}

// windowSize picks the explicit size, then the saved one, then 1280x720.
func windowSize(opts Options, prefs *Prefs) (int32, int32) {
	width, height := opts.Width, opts.Height
	if prefs != nil {
		if width <= 0 {
			width = prefs.WindowWidth
		}
		if height <= 0 {
			height = prefs.WindowHeight
		}
	}
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	return width, height
}

func (g *Game) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	g.Session.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))

	g.handleKeys()
	g.handlePointer()
	g.Session.Tick(deltaTime)
	g.pollWatcher()

	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	changed, err := g.watcher.Poll()
	if err != nil {
		g.log.Warn("layout watch", "err", err)
	}
	if changed && rl.GetTime() >= g.quietUntil {
		g.log.Info("layout changed on disk", "path", g.opts.WatchPath)
		g.setMsg("Layout changed on disk (Ctrl+O to load)")
	}
}

func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()
	down := rl.IsMouseButtonDown(rl.MouseLeftButton)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && mouseInToolbar(mouse) {
		g.uiCapture = true
	}
	if g.uiCapture {
		if !down {
			g.uiCapture = false
		}
		return
	}

	wheel := rl.GetMouseWheelMove()
	g.pending = g.gestures.Feed(PointerSample{
		Position: mouse,
		Down:     down,
		Wheel:    wheel,
		Time:     rl.GetTime(),
	}, g.pending[:0])

	for _, ev := range g.pending {
		g.apply(ev)
	}
}

// apply forwards one gesture to the session.
func (g *Game) apply(ev Gesture) {
	s := g.Session
	switch ev.Kind {
	case GestureTap:
		switch s.Tap(ev.X, ev.Y).Kind {
		case placement.Placed:
			g.setMsg("Placed can")
		case placement.Picked:
			g.setMsg("Selected can")
		case placement.Moved:
			g.setMsg("Moved can")
		}
	case GestureLongPress:
		if s.LongPress(ev.X, ev.Y).Kind == placement.Picked {
			g.setMsg("Selected can")
		}
	case GestureScroll:
		s.Scroll(ev.DX, ev.DY)
	case GestureDrag:
		s.Drag(ev.X, ev.Y)
	case GestureZoom:
		s.Zoom(ev.Factor)
	}
}

func (g *Game) handleKeys() {
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyLeftSuper)

	for i, key := range []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour} {
		if rl.IsKeyPressed(key) {
			g.setMode(placement.Modes[i])
		}
	}
	switch {
	case ctrl && rl.IsKeyPressed(rl.KeyZ):
		g.undo()
	case ctrl && rl.IsKeyPressed(rl.KeyS):
		g.save()
	case ctrl && rl.IsKeyPressed(rl.KeyO):
		g.load()
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		g.adjustSpacing(1)
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		g.adjustSpacing(-1)
	case rl.IsKeyPressed(rl.KeyHome):
		g.Session.ResetView()
	}
}

func (g *Game) setMode(m placement.Mode) {
	g.gestures.Cancel()
	g.Session.SetMode(m)
	g.setMsg("Mode: %s", m)
}

func (g *Game) save() {
	if err := g.Session.Save(); err != nil {
		g.log.Error("save failed", "err", err)
		g.setMsg("Save failed: %v", err)
		return
	}
	g.quietUntil = rl.GetTime() + 1
	g.setMsg("Saved layout")
}

func (g *Game) load() {
	if err := g.Session.Load(); err != nil {
		g.log.Error("load failed", "err", err)
		g.setMsg("Load failed: %v", err)
		return
	}
	g.setMsg("Loaded %d cans", g.Session.Placement.Items.Len())
}

func (g *Game) undo() {
	if g.Session.Undo() {
		g.setMsg("Undo")
	}
}

func (g *Game) reset() {
	g.Session.Reset()
	g.setMsg("Cleared room")
}

// adjustSpacing steps the shelf spacing by dir configured steps.
func (g *Game) adjustSpacing(dir float32) {
	step := g.Session.Config().Shelves.SpacingStep
	applied := g.Session.AdjustShelfSpacing(dir * step)
	g.setMsg("Shelf spacing %.0f\"", applied)
}

func (g *Game) setMsg(format string, args ...any) {
	g.msg = fmt.Sprintf(format, args...)
	g.msgTime = rl.GetTime()
}
