package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"roomshelves/internal/camera"
	"roomshelves/internal/placement"
)

// DefaultPrefsPath is where window and view preferences live between runs.
const DefaultPrefsPath = ".roomshelves_prefs.json"

// Prefs holds host preferences saved between sessions.
type Prefs struct {
	WindowWidth  int32        `json:"windowWidth"`
	WindowHeight int32        `json:"windowHeight"`
	View         camera.State `json:"view"`
	Mode         int          `json:"mode"`
}

// LoadPrefs reads prefs from path. A missing file yields nil and no error.
func LoadPrefs(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read prefs: %w", err)
	}

	var prefs Prefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	return &prefs, nil
}

func SavePrefs(path string, prefs Prefs) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// capturePrefs snapshots the current window and view.
func (g *Game) capturePrefs(width, height int32) Prefs {
	return Prefs{
		WindowWidth:  width,
		WindowHeight: height,
		View:         g.Session.Camera.State(),
		Mode:         int(g.Session.Mode()),
	}
}

// applyPrefs restores the view and mode. Window size is applied before the
// window opens, in Run.
func (g *Game) applyPrefs(prefs *Prefs) {
	if prefs == nil {
		return
	}
	g.Session.Camera.Restore(prefs.View)
	if m := placement.Mode(prefs.Mode); m >= placement.View && m <= placement.Pan {
		g.Session.SetMode(m)
	}
}
