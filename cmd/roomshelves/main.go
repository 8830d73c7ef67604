// roomshelves - place cans on the shelves of a 3D room.
//
// Controls:
//
//	Toolbar     - View / Add / Move / Pan modes, Reset, Save, Load, Shelf +/-, Undo
//	Drag        - Orbit (View) or pan (Pan)
//	Wheel       - Zoom
//	Click       - Place (Add), pick then drop (Move)
//	Hold        - Re-pick (Move)
//	1-4         - Switch mode
//	+/-         - Shelf spacing
//	Ctrl+Z/S/O  - Undo, save, load
//	Home        - Reset view
//	F1          - Debug overlay
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"roomshelves/internal/config"
	"roomshelves/internal/game"
	"roomshelves/internal/layout"
	"roomshelves/internal/session"
)

var (
	configPath string
	layoutPath string
	width      int32
	height     int32
	verbose    bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "roomshelves",
		Short: "Place cans on the shelves of a 3D room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file (.toml, .yaml or .yml)")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "Layout file (default from config)")
	cmd.Flags().Int32Var(&width, "width", 0, "Window width (default: last size, else 1280)")
	cmd.Flags().Int32Var(&height, "height", 0, "Window height (default: last size, else 720)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	initCmd := &cobra.Command{
		Use:   "init-config <path>",
		Short: "Write the default config to a .toml or .yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.Default()); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", args[0])
			return nil
		},
	}
	cmd.AddCommand(initCmd)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	configPath = absPath(configPath)
	layoutPath = absPath(layoutPath)

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn("using default config", "path", configPath, "err", err)
	}
	if layoutPath != "" {
		cfg.Storage.Path = layoutPath
	}

	s := session.New(cfg, layout.NewFileStore(cfg.Storage.Path), logger)
	logger.Info("starting", "layout", cfg.Storage.Path)

	g := game.New(s, game.Options{Width: width, Height: height, WatchPath: cfg.Storage.Path}, logger)
	g.Run()
	return nil
}

func absPath(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
