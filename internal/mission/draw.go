package mission

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	groundCol    = color.RGBA{R: 30, G: 38, B: 30, A: 255}
	buildingCol  = color.RGBA{R: 90, G: 82, B: 70, A: 255}
	obstacleCol  = color.RGBA{R: 70, G: 95, B: 70, A: 255}
	aerialCol    = color.RGBA{R: 80, G: 170, B: 255, A: 255}
	groundVehCol = color.RGBA{R: 230, G: 160, B: 40, A: 255}
	pathCol      = color.RGBA{R: 120, G: 200, B: 255, A: 120}
	selectCol    = color.RGBA{R: 255, G: 255, B: 255, A: 200}
)

// survivorColors maps status to render colour.
var survivorColors = map[SurvivorStatus]color.RGBA{
	StatusUndetected: {R: 200, G: 50, B: 50, A: 255},
	StatusInProgress: {R: 230, G: 210, B: 60, A: 255},
	StatusDetected:   {R: 60, G: 200, B: 90, A: 255},
	StatusRescued:    {R: 120, G: 120, B: 120, A: 255},
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	// Render world content to worldBuf at (0,0) origin, then blit with
	// camera transform.
	g.worldBuf.Clear()
	g.drawWorld(g.worldBuf)

	var cam ebiten.GeoM
	cam.Translate(-g.camX, -g.camY)
	cam.Scale(g.camZoom, g.camZoom)
	cam.Translate(float64(g.mapWidth)/2, float64(g.mapHeight)/2)

	var blit ebiten.DrawImageOptions
	blit.GeoM = cam
	blit.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.worldBuf, &blit)

	// Map border frame (screen coords, not transformed).
	ox := float32(g.offX)
	oy := float32(g.offY)
	mw := float32(g.mapWidth)
	mh := float32(g.mapHeight)
	vector.StrokeRect(screen, ox-1, oy-1, mw+2, mh+2, 2.0, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)

	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.camZoom != 1.0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zoom: %.1fx", g.camZoom), g.offX+6, g.offY+6)
	}
	g.drawInspector(screen)

	if g.missionErr != nil {
		ebitenutil.DebugPrintAt(screen, "MISSION HALTED: "+g.missionErr.Error(), g.offX+6, g.offY+24)
	}
}

// drawWorld renders the scene top-down into the world buffer: buildings and
// obstacles first, then paths, survivors, and vehicles.
func (g *Game) drawWorld(screen *ebiten.Image) {
	vector.FillRect(screen, 0, 0, float32(g.mapWidth), float32(g.mapHeight), groundCol, false)

	for _, b := range g.mission.Env.Buildings() {
		vector.FillRect(screen,
			float32(b.Position.X*pixelsPerMetre),
			float32(b.Position.Y*pixelsPerMetre),
			float32(b.Dimensions.X*pixelsPerMetre),
			float32(b.Dimensions.Y*pixelsPerMetre),
			buildingCol, false)
	}
	for _, o := range g.mission.Env.Obstacles() {
		vector.FillCircle(screen,
			float32(o.Center.X*pixelsPerMetre),
			float32(o.Center.Y*pixelsPerMetre),
			float32(o.Radius*pixelsPerMetre),
			obstacleCol, false)
	}

	for _, v := range g.mission.Controller.Vehicles() {
		g.drawVehiclePath(screen, v)
	}
	for _, s := range g.mission.Controller.Survivors() {
		g.drawSurvivor(screen, s)
	}
	for _, v := range g.mission.Controller.Vehicles() {
		g.drawVehicle(screen, v)
	}
}

// drawVehiclePath renders the remaining waypoints as a faint polyline from
// the vehicle's current position.
func (g *Game) drawVehiclePath(screen *ebiten.Image, v *Vehicle) {
	if len(v.path) == 0 {
		return
	}
	px := float32(v.pose.Position.X * pixelsPerMetre)
	py := float32(v.pose.Position.Y * pixelsPerMetre)
	for _, wp := range v.path {
		nx := float32(wp.Position.X * pixelsPerMetre)
		ny := float32(wp.Position.Y * pixelsPerMetre)
		vector.StrokeLine(screen, px, py, nx, ny, 1.0, pathCol, false)
		px, py = nx, ny
	}
}

func (g *Game) drawSurvivor(screen *ebiten.Image, s *Survivor) {
	col := survivorColors[s.status]
	x := float32(s.pos.X * pixelsPerMetre)
	y := float32(s.pos.Y * pixelsPerMetre)
	vector.FillCircle(screen, x, y, 4, col, false)
	// High-priority survivors get an outer ring so they stand out at any
	// zoom level.
	if s.priority == PriorityHigh && s.status != StatusDetected {
		vector.StrokeCircle(screen, x, y, 7, 1.5, col, false)
	}
}

// drawVehicle renders the body plus an altitude ring for aerial vehicles:
// the ring radius grows with height so descent is visible top-down.
func (g *Game) drawVehicle(screen *ebiten.Image, v *Vehicle) {
	x := float32(v.pose.Position.X * pixelsPerMetre)
	y := float32(v.pose.Position.Y * pixelsPerMetre)

	if v.kind == VehicleAerial {
		ring := float32(4 + v.pose.Position.Z/cruiseHeight*8)
		vector.StrokeCircle(screen, x, y, ring, 1.0, color.RGBA{R: 80, G: 170, B: 255, A: 90}, false)
		vector.FillCircle(screen, x, y, 5, aerialCol, false)
	} else {
		vector.FillRect(screen, x-5, y-5, 10, 10, groundVehCol, false)
	}

	if v == g.selected {
		vector.StrokeCircle(screen, x, y, 10, 1.5, selectCol, false)
	}
}

// drawHUD prints the key legend and mission status line.
func (g *Game) drawHUD(screen *ebiten.Image) {
	counts := g.mission.Controller.Registry().CountByStatus()
	status := fmt.Sprintf("T=%d  speed=%.1fx  undetected=%d in_progress=%d detected=%d",
		g.mission.Controller.CurrentTick(), g.simSpeed,
		counts[StatusUndetected], counts[StatusInProgress], counts[StatusDetected])
	legend := "WASD/arrows pan | wheel/=- zoom | P pause | ,. speed | click select | R copy report | H hide"
	ebitenutil.DebugPrintAt(screen, status, g.offX+6, g.height-34)
	ebitenutil.DebugPrintAt(screen, legend, g.offX+6, g.height-18)
}

// drawInspector prints the selected vehicle's state in the top-right corner.
func (g *Game) drawInspector(screen *ebiten.Image) {
	v := g.selected
	if v == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", v.label, v.kind)
	fmt.Fprintf(&b, "pos (%.1f, %.1f, %.1f)\n", v.pose.Position.X, v.pose.Position.Y, v.pose.Position.Z)
	fmt.Fprintf(&b, "vel (%.1f, %.1f, %.1f)\n", v.velocity.X, v.velocity.Y, v.velocity.Z)
	fmt.Fprintf(&b, "path %d waypoints\n", len(v.path))
	if v.assignedSurvivor >= 0 {
		if s := g.mission.Controller.Registry().ByID(v.assignedSurvivor); s != nil {
			fmt.Fprintf(&b, "target %s %s %s\n", s.label, s.priority, s.status)
		}
	} else {
		b.WriteString("target none\n")
	}
	ebitenutil.DebugPrintAt(screen, b.String(), g.width-220, g.offY+6)
}
