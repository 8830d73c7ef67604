package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Units are inches throughout.

type Room struct {
	Width  float32 `toml:"width" yaml:"width"`   // West-East
	Height float32 `toml:"height" yaml:"height"` // floor to ceiling
	Depth  float32 `toml:"depth" yaml:"depth"`   // North-South
}

type Shelves struct {
	Levels     int     `toml:"levels" yaml:"levels"`
	Depth      float32 `toml:"depth" yaml:"depth"`
	Thickness  float32 `toml:"thickness" yaml:"thickness"`
	Spacing    float32 `toml:"spacing" yaml:"spacing"`
	MinSpacing float32 `toml:"min_spacing" yaml:"min_spacing"`
	MaxSpacing float32 `toml:"max_spacing" yaml:"max_spacing"`
	// SpacingStep is the increment used by the host's shelf up/down buttons.
	SpacingStep float32 `toml:"spacing_step" yaml:"spacing_step"`
}

type Item struct {
	Circumference float32 `toml:"circumference" yaml:"circumference"`
	Height        float32 `toml:"height" yaml:"height"`
	// SpawnHeight is how far above its slot a newly placed item appears.
	SpawnHeight float32 `toml:"spawn_height" yaml:"spawn_height"`
}

// Radius derives the cylinder radius from the circumference.
func (i Item) Radius() float32 {
	return i.Circumference / math32.Pi / 2
}

func (i Item) Diameter() float32 {
	return i.Circumference / math32.Pi
}

type Camera struct {
	Distance         float32 `toml:"distance" yaml:"distance"`
	MinDistance      float32 `toml:"min_distance" yaml:"min_distance"`
	MaxDistance      float32 `toml:"max_distance" yaml:"max_distance"`
	Yaw              float32 `toml:"yaw" yaml:"yaw"`
	Pitch            float32 `toml:"pitch" yaml:"pitch"`
	MaxPitch         float32 `toml:"max_pitch" yaml:"max_pitch"`
	FovY             float32 `toml:"fov_y" yaml:"fov_y"`
	Near             float32 `toml:"near" yaml:"near"`
	Far              float32 `toml:"far" yaml:"far"`
	OrbitSensitivity float32 `toml:"orbit_sensitivity" yaml:"orbit_sensitivity"`
	PanSensitivity   float32 `toml:"pan_sensitivity" yaml:"pan_sensitivity"`
}

type Animator struct {
	Gravity   float32 `toml:"gravity" yaml:"gravity"`
	Step      float32 `toml:"step" yaml:"step"`
	Tolerance float32 `toml:"tolerance" yaml:"tolerance"`
}

type Storage struct {
	Path string `toml:"path" yaml:"path"`
	Key  string `toml:"key" yaml:"key"`
}

type Config struct {
	Room     Room     `toml:"room" yaml:"room"`
	Shelves  Shelves  `toml:"shelves" yaml:"shelves"`
	Item     Item     `toml:"item" yaml:"item"`
	Camera   Camera   `toml:"camera" yaml:"camera"`
	Animator Animator `toml:"animator" yaml:"animator"`
	Storage  Storage  `toml:"storage" yaml:"storage"`
}

// Default returns the 14 x 12 x 24 ft room with four shelf rings and
// 35" circumference cans.
func Default() Config {
	return Config{
		Room: Room{Width: 168, Height: 144, Depth: 288},
		Shelves: Shelves{
			Levels:      4,
			Depth:       36,
			Thickness:   2,
			Spacing:     32,
			MinSpacing:  20,
			MaxSpacing:  50,
			SpacingStep: 2,
		},
		Item: Item{Circumference: 35, Height: 14, SpawnHeight: 40},
		Camera: Camera{
			Distance:         520,
			MinDistance:      200,
			MaxDistance:      1500,
			Yaw:              35,
			Pitch:            20,
			MaxPitch:         80,
			FovY:             45,
			Near:             1,
			Far:              4000,
			OrbitSensitivity: 0.2,
			PanSensitivity:   0.5,
		},
		Animator: Animator{Gravity: 980, Step: 1.0 / 60, Tolerance: 0.5},
		Storage:  Storage{Path: "layout.json", Key: "cans"},
	}
}

// Normalize replaces unusable values with defaults and orders the bounds so
// every component can rely on them.
func (c *Config) Normalize() {
	d := Default()
	positive := func(v *float32, def float32) {
		if !(*v > 0) || !finite(*v) {
			*v = def
		}
	}

	positive(&c.Room.Width, d.Room.Width)
	positive(&c.Room.Height, d.Room.Height)
	positive(&c.Room.Depth, d.Room.Depth)

	if c.Shelves.Levels <= 0 {
		c.Shelves.Levels = d.Shelves.Levels
	}
	positive(&c.Shelves.Depth, d.Shelves.Depth)
	positive(&c.Shelves.Thickness, d.Shelves.Thickness)
	positive(&c.Shelves.MinSpacing, d.Shelves.MinSpacing)
	positive(&c.Shelves.MaxSpacing, d.Shelves.MaxSpacing)
	positive(&c.Shelves.SpacingStep, d.Shelves.SpacingStep)
	if c.Shelves.MinSpacing > c.Shelves.MaxSpacing {
		c.Shelves.MinSpacing, c.Shelves.MaxSpacing = c.Shelves.MaxSpacing, c.Shelves.MinSpacing
	}
	positive(&c.Shelves.Spacing, d.Shelves.Spacing)
	c.Shelves.Spacing = clamp(c.Shelves.Spacing, c.Shelves.MinSpacing, c.Shelves.MaxSpacing)

	positive(&c.Item.Circumference, d.Item.Circumference)
	positive(&c.Item.Height, d.Item.Height)
	positive(&c.Item.SpawnHeight, d.Item.SpawnHeight)

	positive(&c.Camera.MinDistance, d.Camera.MinDistance)
	positive(&c.Camera.MaxDistance, d.Camera.MaxDistance)
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		c.Camera.MinDistance, c.Camera.MaxDistance = c.Camera.MaxDistance, c.Camera.MinDistance
	}
	positive(&c.Camera.Distance, d.Camera.Distance)
	c.Camera.Distance = clamp(c.Camera.Distance, c.Camera.MinDistance, c.Camera.MaxDistance)
	if !(c.Camera.MaxPitch > 0) || c.Camera.MaxPitch >= 90 {
		c.Camera.MaxPitch = d.Camera.MaxPitch
	}
	if !finite(c.Camera.Yaw) {
		c.Camera.Yaw = d.Camera.Yaw
	}
	if !finite(c.Camera.Pitch) {
		c.Camera.Pitch = d.Camera.Pitch
	}
	c.Camera.Pitch = clamp(c.Camera.Pitch, -c.Camera.MaxPitch, c.Camera.MaxPitch)
	if !(c.Camera.FovY > 0) || c.Camera.FovY >= 180 {
		c.Camera.FovY = d.Camera.FovY
	}
	positive(&c.Camera.Near, d.Camera.Near)
	positive(&c.Camera.Far, d.Camera.Far)
	if c.Camera.Far <= c.Camera.Near {
		c.Camera.Near, c.Camera.Far = d.Camera.Near, d.Camera.Far
	}
	positive(&c.Camera.OrbitSensitivity, d.Camera.OrbitSensitivity)
	positive(&c.Camera.PanSensitivity, d.Camera.PanSensitivity)

	positive(&c.Animator.Gravity, d.Animator.Gravity)
	positive(&c.Animator.Step, d.Animator.Step)
	positive(&c.Animator.Tolerance, d.Animator.Tolerance)

	if c.Storage.Path == "" {
		c.Storage.Path = d.Storage.Path
	}
	if c.Storage.Key == "" {
		c.Storage.Key = d.Storage.Key
	}
}

// Load reads a config file, picking the decoder from the extension (.toml,
// .yaml, .yml). Fields absent from the file keep their defaults. A missing
// file is not an error. On a parse error the defaults are returned together
// with the error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Default(), fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg in the format implied by the extension of path.
func Save(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
