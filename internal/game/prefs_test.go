package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomshelves/internal/camera"
	"roomshelves/internal/config"
	"roomshelves/internal/placement"
	"roomshelves/internal/session"
)

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	want := Prefs{
		WindowWidth:  1600,
		WindowHeight: 900,
		View:         camera.State{Yaw: 12, Pitch: -30, Distance: 700, PanX: 4, PanZ: -8},
		Mode:         int(placement.Move),
	}
	require.NoError(t, SavePrefs(path, want))

	got, err := LoadPrefs(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestLoadPrefsMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	prefs, err := LoadPrefs(filepath.Join(dir, "none.json"))
	assert.NoError(t, err)
	assert.Nil(t, prefs)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	prefs, err = LoadPrefs(bad)
	assert.Error(t, err)
	assert.Nil(t, prefs)
}

func TestApplyPrefs(t *testing.T) {
	s := session.New(config.Default(), nil, quietLogger())
	g := New(s, Options{}, quietLogger())

	g.applyPrefs(&Prefs{View: camera.State{Yaw: 10, Pitch: 200, Distance: 50}, Mode: int(placement.Pan)})
	assert.Equal(t, float32(10), s.Camera.Yaw)
	assert.Equal(t, float32(80), s.Camera.Pitch, "restored view is clamped")
	assert.Equal(t, float32(200), s.Camera.Distance)
	assert.Equal(t, placement.Pan, s.Mode())

	g.applyPrefs(&Prefs{Mode: 99})
	assert.Equal(t, placement.Pan, s.Mode(), "unknown modes are ignored")

	snap := g.capturePrefs(800, 600)
	assert.Equal(t, int32(800), snap.WindowWidth)
	assert.Equal(t, s.Camera.State(), snap.View)
	assert.Equal(t, int(placement.Pan), snap.Mode)
}

func TestWindowSize(t *testing.T) {
	w, h := windowSize(Options{}, nil)
	assert.Equal(t, int32(1280), w)
	assert.Equal(t, int32(720), h)

	saved := &Prefs{WindowWidth: 1000, WindowHeight: 700}
	w, h = windowSize(Options{}, saved)
	assert.Equal(t, int32(1000), w)
	assert.Equal(t, int32(700), h)

	w, h = windowSize(Options{Width: 640}, saved)
	assert.Equal(t, int32(640), w)
	assert.Equal(t, int32(700), h)
}
