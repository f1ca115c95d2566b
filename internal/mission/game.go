package mission

import (
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// borderWidth is the pixel gap between the window edge and the map.
const borderWidth = 24

// pixelsPerMetre scales world coordinates to screen pixels.
const pixelsPerMetre = 4.0

// Game is the ebiten viewer around a mission: a top-down render of the
// scene with camera pan/zoom, sim speed control, and a click-to-select
// vehicle inspector.
type Game struct {
	width      int
	height     int
	mapWidth   int // map pixel width (length * pixelsPerMetre)
	mapHeight  int // map pixel height (width * pixelsPerMetre)
	offX       int
	offY       int
	mission    *TestMission
	missionErr error // first fatal tick error, shown on the HUD

	showHUD  bool
	prevKeys map[ebiten.Key]bool

	// Offscreen buffer for the map — camera transform applied on blit.
	worldBuf *ebiten.Image

	// Camera pan + zoom.
	camX    float64 // world-pixel X of the camera centre
	camY    float64
	camZoom float64

	// Vehicle inspector (click-to-select).
	selected      *Vehicle
	prevMouseLeft bool

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64
}

// New builds the default demo mission: a city block scene with a mixed
// fleet and randomly scattered survivors. The map seed changes per launch;
// use the headless runner for reproducible runs.
func New() *Game {
	seed := time.Now().UnixNano()
	g := NewWithSeed(seed)
	return g
}

// NewWithSeed builds the demo mission from a fixed seed.
func NewWithSeed(seed int64) *Game {
	tm := buildDemoMission(seed)
	length, width, _ := tm.Env.Bounds()

	mapW := int(length * pixelsPerMetre)
	mapH := int(width * pixelsPerMetre)
	g := &Game{
		width:     borderWidth + mapW + borderWidth,
		height:    borderWidth + mapH + borderWidth,
		mapWidth:  mapW,
		mapHeight: mapH,
		offX:      borderWidth,
		offY:      borderWidth,
		mission:   tm,
		showHUD:   true,
		prevKeys:  make(map[ebiten.Key]bool),
		simSpeed:  1.0,
	}
	g.worldBuf = ebiten.NewImage(mapW, mapH)
	g.camX = float64(mapW) / 2
	g.camY = float64(mapH) / 2
	g.camZoom = 1.0
	return g
}

// buildDemoMission assembles the default scene: a 300x300m area, a handful
// of buildings and pylons, two aerial and two ground vehicles, and twelve
// survivors scattered on the ground.
func buildDemoMission(seed int64) *TestMission {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- scene layout only
	opts := []MissionOption{
		WithBounds(300, 300, 100),
		WithSeed(seed),
	}
	for i := 0; i < 6; i++ {
		x := 30 + rng.Float64()*220
		y := 30 + rng.Float64()*220
		dx := 15 + rng.Float64()*25
		dy := 15 + rng.Float64()*25
		dz := 8 + rng.Float64()*14
		opts = append(opts, WithBuilding(x, y, 0, dx, dy, dz))
	}
	for i := 0; i < 4; i++ {
		x := 20 + rng.Float64()*260
		y := 20 + rng.Float64()*260
		opts = append(opts, WithObstacle(x, y, 2+rng.Float64()*3, 15+rng.Float64()*20))
	}
	opts = append(opts,
		WithAerialVehicle(0, 10, 10, cruiseHeight),
		WithAerialVehicle(1, 290, 10, cruiseHeight),
		WithGroundVehicle(2, 10, 290),
		WithGroundVehicle(3, 290, 290),
		WithRandomSurvivors(12),
	)
	return NewTestMission(opts...)
}

func (g *Game) Update() error {
	// Handle input every frame regardless of sim speed.
	g.handleInput()

	if g.simSpeed <= 0 || g.missionErr != nil {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		if err := g.mission.Controller.Tick(); err != nil {
			g.missionErr = err
			break
		}
	}
	return nil
}

// handleInput processes camera, speed, and inspector keys (edge-triggered).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	// H: toggle HUD key legend.
	currentKeys[ebiten.KeyH] = ebiten.IsKeyPressed(ebiten.KeyH)
	if currentKeys[ebiten.KeyH] && !g.prevKeys[ebiten.KeyH] {
		g.showHUD = !g.showHUD
	}

	// Camera pan: WASD or arrow keys.
	panSpeed := 6.0 / g.camZoom // pan slower when zoomed in
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camY -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camY += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camX -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camX += panSpeed
	}

	// Camera zoom: mouse wheel or =/- keys.
	const zoomMin, zoomMax = 0.5, 4.0
	_, wy := ebiten.Wheel()
	if wy != 0 {
		g.camZoom *= math.Pow(1.12, wy)
	}
	currentKeys[ebiten.KeyEqual] = ebiten.IsKeyPressed(ebiten.KeyEqual)
	if currentKeys[ebiten.KeyEqual] && !g.prevKeys[ebiten.KeyEqual] {
		g.camZoom *= 1.25
	}
	currentKeys[ebiten.KeyMinus] = ebiten.IsKeyPressed(ebiten.KeyMinus)
	if currentKeys[ebiten.KeyMinus] && !g.prevKeys[ebiten.KeyMinus] {
		g.camZoom /= 1.25
	}
	if g.camZoom < zoomMin {
		g.camZoom = zoomMin
	}
	if g.camZoom > zoomMax {
		g.camZoom = zoomMax
	}

	// Clamp camera centre to map bounds (accounting for zoom).
	halfVW := float64(g.mapWidth) / 2 / g.camZoom
	halfVH := float64(g.mapHeight) / 2 / g.camZoom
	if g.camX < halfVW {
		g.camX = halfVW
	}
	if g.camX > float64(g.mapWidth)-halfVW {
		g.camX = float64(g.mapWidth) - halfVW
	}
	if g.camY < halfVH {
		g.camY = halfVH
	}
	if g.camY > float64(g.mapHeight)-halfVH {
		g.camY = float64(g.mapHeight) - halfVH
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	currentKeys[ebiten.KeyP] = ebiten.IsKeyPressed(ebiten.KeyP)
	if currentKeys[ebiten.KeyP] && !g.prevKeys[ebiten.KeyP] {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	currentKeys[ebiten.KeyComma] = ebiten.IsKeyPressed(ebiten.KeyComma)
	if currentKeys[ebiten.KeyComma] && !g.prevKeys[ebiten.KeyComma] {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	currentKeys[ebiten.KeyPeriod] = ebiten.IsKeyPressed(ebiten.KeyPeriod)
	if currentKeys[ebiten.KeyPeriod] && !g.prevKeys[ebiten.KeyPeriod] {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 {
				if speeds[i+1] > g.simSpeed {
					g.simSpeed = speeds[i+1]
					break
				}
			}
		}
	}

	// Left mouse click: try to select a vehicle.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.prevMouseLeft {
			mx, my := ebiten.CursorPosition()
			g.handleSelectClick(mx, my)
		}
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	// R: copy a debug report for the selected vehicle to the clipboard.
	currentKeys[ebiten.KeyR] = ebiten.IsKeyPressed(ebiten.KeyR)
	if currentKeys[ebiten.KeyR] && !g.prevKeys[ebiten.KeyR] {
		if g.selected != nil {
			// Clipboard failure (headless X, etc) is non-fatal; the HUD
			// still shows the inspector panel.
			_ = CopyDebugReport(g.mission.Controller, g.selected, 600)
		}
	}

	g.prevKeys = currentKeys
}

// handleSelectClick converts a screen click to world coordinates and selects
// the nearest vehicle within a small pick radius. Clicking empty ground
// deselects.
func (g *Game) handleSelectClick(mx, my int) {
	wx, wy, ok := g.screenToWorld(mx, my)
	if !ok {
		return
	}

	const pickRadius = 5.0 // metres
	var best *Vehicle
	bestDist := pickRadius
	for _, v := range g.mission.Controller.Vehicles() {
		d := math.Hypot(v.pose.Position.X-wx, v.pose.Position.Y-wy)
		if d < bestDist {
			best = v
			bestDist = d
		}
	}
	g.selected = best
}

// screenToWorld inverts the camera transform, returning world metres.
func (g *Game) screenToWorld(mx, my int) (float64, float64, bool) {
	px := float64(mx - g.offX)
	py := float64(my - g.offY)
	if px < 0 || py < 0 || px >= float64(g.mapWidth) || py >= float64(g.mapHeight) {
		return 0, 0, false
	}
	wx := (px-float64(g.mapWidth)/2)/g.camZoom + g.camX
	wy := (py-float64(g.mapHeight)/2)/g.camZoom + g.camY
	return wx / pixelsPerMetre, wy / pixelsPerMetre, true
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Mission exposes the running mission for tests and the headless runner.
func (g *Game) Mission() *TestMission {
	return g.mission
}
