// Package session ties the camera, the world, the placement engine, the drop
// animator and layout storage into one object a host drives frame by frame.
// Every method must be called from the host's render loop.
package session

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/camera"
	"roomshelves/internal/config"
	"roomshelves/internal/engine"
	"roomshelves/internal/layout"
	"roomshelves/internal/physics"
	"roomshelves/internal/placement"
	"roomshelves/internal/world"
)

// maxStepsPerTick bounds the catch-up work after a long frame.
const maxStepsPerTick = 8

type Session struct {
	Camera    *camera.OrbitCamera
	World     *world.World
	Placement *placement.Engine

	// OnPlaced fires for every new item, OnMoved when a selected item is sent
	// to a new slot and OnLanded when a falling item reaches its target.
	OnPlaced engine.EventWithArg[engine.Handle]
	OnMoved  engine.EventWithArg[engine.Handle]
	OnLanded engine.EventWithArg[engine.Handle]

	cfg       config.Config
	animator  physics.Animator
	store     layout.Store
	log       *slog.Logger
	homeView  camera.State
	accum     float32
	undoStack []undoEntry
	landedBuf []engine.Handle
}

// New builds a session from cfg. A nil store keeps layouts in memory; a nil
// logger uses slog.Default().
func New(cfg config.Config, store layout.Store, logger *slog.Logger) *Session {
	cfg.Normalize()
	if store == nil {
		store = layout.NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := world.New(cfg)
	cam := camera.New(w.Center(), cfg.Camera)
	s := &Session{
		Camera:    cam,
		World:     w,
		Placement: placement.New(w, cam, cfg.Item),
		cfg:       cfg,
		animator:  physics.NewAnimator(cfg.Animator),
		store:     store,
		log:       logger,
		homeView:  cam.State(),
	}
	logger.Debug("session ready",
		"room", w.Size(), "shelves", w.Shelves.Len(), "spacing", w.Spacing())
	return s
}

func (s *Session) Config() config.Config {
	return s.cfg
}

// Resize updates the viewport rays and the projection are computed for.
func (s *Session) Resize(width, height float32) {
	s.Camera.SetViewport(width, height)
}

func (s *Session) Orbit(dx, dy float32) {
	s.Camera.Orbit(dx, dy)
}

func (s *Session) Pan(dx, dy float32) {
	s.Camera.Pan(dx, dy)
}

func (s *Session) Zoom(factor float32) {
	s.Camera.Zoom(factor)
}

// Scroll routes a one-finger drag by mode: View orbits, Pan pans. Move mode
// drags go through Drag instead.
func (s *Session) Scroll(dx, dy float32) {
	switch s.Placement.Mode() {
	case placement.View:
		s.Orbit(dx, dy)
	case placement.Pan:
		s.Pan(dx, dy)
	}
}

// ResetView puts the camera back where the session started.
func (s *Session) ResetView() {
	s.Camera.Restore(s.homeView)
}

func (s *Session) Tap(sx, sy float32) placement.Action {
	act := s.Placement.Tap(sx, sy)
	s.record(act)
	return act
}

func (s *Session) LongPress(sx, sy float32) placement.Action {
	act := s.Placement.LongPress(sx, sy)
	s.record(act)
	return act
}

func (s *Session) Drag(sx, sy float32) {
	s.Placement.Drag(sx, sy)
}

func (s *Session) record(act placement.Action) {
	switch act.Kind {
	case placement.Placed:
		s.pushUndo(undoEntry{kind: undoAdd, handle: act.Handle})
		s.log.Debug("placed item", "handle", act.Handle)
		s.OnPlaced.Invoke(act.Handle)
	case placement.Moved:
		s.pushUndo(undoEntry{kind: undoMove, handle: act.Handle, before: act.Before})
		s.log.Debug("moved item", "handle", act.Handle)
		s.OnMoved.Invoke(act.Handle)
	case placement.Picked:
		s.log.Debug("picked item", "handle", act.Handle)
	}
}

func (s *Session) SetMode(m placement.Mode) {
	s.Placement.SetMode(m)
	s.log.Debug("mode changed", "mode", m)
}

func (s *Session) Mode() placement.Mode {
	return s.Placement.Mode()
}

// Reset removes every item. The camera and shelves are kept.
func (s *Session) Reset() {
	s.Placement.Reset()
	s.undoStack = nil
	s.log.Info("scene reset")
}

// AdjustShelfSpacing moves the shelf spacing by delta within its bounds and
// re-snaps every item. Returns the spacing applied.
func (s *Session) AdjustShelfSpacing(delta float32) float32 {
	applied := s.Placement.AdjustSpacing(delta)
	s.undoStack = nil
	s.log.Info("shelf spacing changed", "spacing", applied, "items", s.Placement.Items.Len())
	return applied
}

// Save writes every item's position under the storage key. Falling items are
// saved at the height they are falling to.
func (s *Session) Save() error {
	records := make([]layout.Record, 0, s.Placement.Items.Len())
	s.Placement.Items.Each(func(_ engine.Handle, it *placement.Item) {
		y := it.Position.Y
		if target, ok := it.State.Target(); ok {
			y = target
		}
		records = append(records, layout.Record{X: it.Position.X, Y: y, Z: it.Position.Z})
	})

	text, err := layout.Encode(records)
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	if err := s.store.Put(s.cfg.Storage.Key, text); err != nil {
		s.log.Warn("layout not saved", "err", err)
		return fmt.Errorf("save layout: %w", err)
	}
	s.log.Info("layout saved", "items", len(records))
	return nil
}

// Load replaces the items with the saved layout. Missing or unreadable data
// leaves the scene empty; bad records are skipped one by one.
func (s *Session) Load() error {
	s.Placement.Reset()
	s.undoStack = nil

	text, ok, err := s.store.Get(s.cfg.Storage.Key)
	if err != nil {
		s.log.Warn("layout not loaded", "err", err)
		return fmt.Errorf("load layout: %w", err)
	}
	if !ok {
		s.log.Info("no saved layout")
		return nil
	}

	records, skipped := layout.Decode(text)
	if skipped > 0 {
		s.log.Warn("skipped layout records", "skipped", skipped)
	}
	for _, r := range records {
		s.Placement.Spawn(rl.Vector3{X: r.X, Y: r.Y, Z: r.Z})
	}
	s.log.Info("layout loaded", "items", len(records))
	return nil
}

// Tick advances the drop animation by dt seconds of real time in whole fixed
// steps and returns how many steps ran. Time past maxStepsPerTick steps is
// dropped.
func (s *Session) Tick(dt float32) int {
	if !(dt > 0) || math32.IsInf(dt, 0) {
		return 0
	}
	step := s.animator.Step
	s.accum += dt
	steps := int(s.accum / step)
	if steps > maxStepsPerTick {
		steps = maxStepsPerTick
		s.accum = 0
	} else {
		s.accum -= float32(steps) * step
	}

	for range steps {
		s.Step()
	}
	return steps
}

// Step runs exactly one animator step over every item.
func (s *Session) Step() {
	s.landedBuf = s.landedBuf[:0]
	s.Placement.Items.Each(func(h engine.Handle, it *placement.Item) {
		if s.animator.Advance(&it.Body) {
			s.landedBuf = append(s.landedBuf, h)
		}
	})
	for _, h := range s.landedBuf {
		s.log.Debug("item landed", "handle", h)
		s.OnLanded.Invoke(h)
	}
}
