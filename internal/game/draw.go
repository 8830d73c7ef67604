package game

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/session"
)

const (
	cylinderSlices = 24
	msgDuration    = 2.5
	labelFontSize  = 20
)

var (
	colorSky       = rl.NewColor(38, 56, 166, 255)
	colorFloor     = rl.NewColor(70, 70, 80, 255)
	colorRoomWire  = rl.NewColor(220, 220, 235, 255)
	colorShelf     = rl.NewColor(150, 111, 72, 255)
	colorShelfEdge = rl.NewColor(95, 68, 42, 255)
	colorCan       = rl.NewColor(200, 40, 40, 255)
	colorCanTop    = rl.NewColor(230, 230, 235, 255)
	colorFalling   = rl.NewColor(235, 120, 90, 255)
	colorSelected  = rl.NewColor(255, 214, 10, 255)
	colorPreview   = rl.NewColor(108, 99, 255, 200)
)

func (g *Game) Draw() {
	frame := g.Session.Frame()

	rl.BeginDrawing()
	rl.ClearBackground(colorSky)

	drawStart := time.Now()
	rl.BeginMode3D(frame.Camera)
	// BeginMode3D uses raylib's default clip planes; the room needs the
	// session's.
	rl.SetMatrixProjection(frame.Projection)
	drawRoom(frame)
	drawItems(frame)
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	drawLabels(frame)
	g.drawToolbar()
	g.DrawUI(frame)
	rl.EndDrawing()
}

func drawRoom(f session.Frame) {
	floor := rl.Vector3{X: f.Room.X / 2, Y: 0, Z: f.Room.Z / 2}
	rl.DrawPlane(floor, rl.Vector2{X: f.Room.X, Y: f.Room.Z}, colorFloor)
	rl.DrawCubeWiresV(rl.Vector3{X: f.Room.X / 2, Y: f.Room.Y / 2, Z: f.Room.Z / 2}, f.Room, colorRoomWire)

	for _, s := range f.Shelves {
		rl.DrawCubeV(s.Center, s.Size, colorShelf)
		rl.DrawCubeWiresV(s.Center, s.Size, colorShelfEdge)
	}
}

func drawItems(f session.Frame) {
	r, h := f.ItemRadius, f.ItemHeight
	for _, it := range f.Items {
		if !it.Visible {
			continue
		}
		base := it.Position
		base.Y -= h / 2

		col := colorCan
		switch {
		case it.Selected:
			col = colorSelected
		case it.Falling:
			col = colorFalling
		}
		rl.DrawCylinder(base, r, r, h, cylinderSlices, col)
		rl.DrawCylinderWires(base, r, r, h, cylinderSlices, colorCanTop)
	}

	if f.HasPreview {
		base := f.Preview.Position
		base.Y -= h / 2
		rl.DrawCylinderWires(base, r, r, h, cylinderSlices, colorPreview)
	}
}

// drawLabels writes wall names at their projected anchors. Anchors behind the
// camera are skipped.
func drawLabels(f session.Frame) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(f.Target, f.Eye))
	for _, l := range f.Labels {
		if rl.Vector3DotProduct(rl.Vector3Subtract(l.Position, f.Eye), forward) <= 0 {
			continue
		}
		p := rl.GetWorldToScreen(l.Position, f.Camera)
		w := rl.MeasureText(l.Text, labelFontSize)
		rl.DrawText(l.Text, int32(p.X)-w/2, int32(p.Y)-labelFontSize/2, labelFontSize, rl.RayWhite)
	}
}

func (g *Game) DrawUI(f session.Frame) {
	screenH := int32(rl.GetScreenHeight())
	y := int32(toolbarHeight + 10)

	rl.DrawText(fmt.Sprintf("Mode: %s   Cans: %d   Shelf spacing: %.0f\"", f.Mode, len(f.Items), f.Spacing), 10, y, 18, rl.RayWhite)
	rl.DrawText("Drag: orbit/pan   Wheel: zoom   Click: place/pick/drop   Hold: re-pick   1-4: modes   Ctrl+Z: undo", 10, screenH-26, 16, rl.LightGray)

	if g.msg != "" && rl.GetTime()-g.msgTime < msgDuration {
		rl.DrawText(g.msg, 10, y+24, 18, colorSelected)
	}

	if g.DebugMode {
		rl.DrawFPS(10, y+50)
		rl.DrawText(fmt.Sprintf("Eye: (%.0f, %.0f, %.0f)", f.Eye.X, f.Eye.Y, f.Eye.Z), 10, y+75, 16, rl.Yellow)
		rl.DrawText(fmt.Sprintf("Undo depth: %d", f.UndoDepth), 10, y+95, 16, rl.Yellow)
		rl.DrawText(fmt.Sprintf("Update:  %.2f ms", g.updateMs), 10, y+120, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Draw:    %.2f ms", g.drawMs), 10, y+140, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Total:   %.2f ms", g.updateMs+g.drawMs), 10, y+160, 16, rl.Lime)
	}
}
