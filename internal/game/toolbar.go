package game

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/placement"
)

const (
	toolbarHeight = 40
	buttonWidth   = 72
	buttonHeight  = 28
	buttonGap     = 6
	groupGap      = 18
)

var (
	colorBgDark    = rl.NewColor(10, 10, 15, 255)
	colorBgPanel   = rl.NewColor(18, 18, 24, 235)
	colorBgElement = rl.NewColor(28, 28, 38, 255)
	colorBgHover   = rl.NewColor(38, 38, 52, 255)
	colorAccent    = rl.NewColor(108, 99, 255, 255)

	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
)

// initToolbarStyle applies the dark indigo theme to raygui.
func initToolbarStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

func mouseInToolbar(p rl.Vector2) bool {
	return p.Y < toolbarHeight
}

type toolbarAction struct {
	label string
	run   func(g *Game)
}

var toolbarActions = []toolbarAction{
	{"Reset", (*Game).reset},
	{"Save", (*Game).save},
	{"Load", (*Game).load},
	{"Shelf +", func(g *Game) { g.adjustSpacing(1) }},
	{"Shelf -", func(g *Game) { g.adjustSpacing(-1) }},
	{"Undo", (*Game).undo},
}

// drawToolbar draws the mode toggles and action buttons and runs whatever was
// clicked.
func (g *Game) drawToolbar() {
	screenW := float32(rl.GetScreenWidth())
	rl.DrawRectangle(0, 0, int32(screenW), toolbarHeight, colorBgPanel)

	x := float32(buttonGap)
	y := float32(toolbarHeight-buttonHeight) / 2
	current := g.Session.Mode()
	for _, m := range placement.Modes {
		bounds := rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: buttonHeight}
		if gui.Toggle(bounds, m.String(), m == current) && m != current {
			g.setMode(m)
		}
		x += buttonWidth + buttonGap
	}

	x += groupGap
	for _, a := range toolbarActions {
		bounds := rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: buttonHeight}
		if gui.Button(bounds, a.label) {
			a.run(g)
		}
		x += buttonWidth + buttonGap
	}
}
