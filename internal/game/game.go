package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Mimic-Sense/internal/camo"
	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// borderWidth is the pixel gap between the window edge and the room.
const borderWidth = 24

// pxPerMetre is the top-down map scale.
const pxPerMetre = 36

// hudHeight is the strip under the map holding the status lines.
const hudHeight = 120

const turnRate = 2.5 // radians per second

// Game is the ebiten top-down viewer around a World.
type Game struct {
	world    *World
	feed     *EventFeed
	reporter *SimReporter

	width, height int
	mapW, mapH    int

	paused   bool
	showRays bool
	showHUD  bool
	status   string
	prevKeys map[ebiten.Key]bool
}

// New creates the viewer for w.
func New(w *World) *Game {
	mapW := int(RoomWidth * pxPerMetre)
	mapH := int(RoomDepth * pxPerMetre)
	return &Game{
		world:    w,
		feed:     NewEventFeed(),
		reporter: NewSimReporter(0),
		mapW:     mapW,
		mapH:     mapH,
		width:    mapW + 2*borderWidth + feedPanelWidth,
		height:   mapH + 2*borderWidth + hudHeight,
		showRays: true,
		showHUD:  true,
		prevKeys: map[ebiten.Key]bool{},
	}
}

// World returns the simulated room.
func (g *Game) World() *World { return g.world }

// Update handles input and runs one simulation tick unless paused.
func (g *Game) Update() error {
	g.handleInput()
	if g.paused {
		return nil
	}
	g.world.Step(TickDT)
	g.reporter.Observe(g.world)
	g.feed.Pull(g.world.Log)
	return nil
}

// pressed reports a key's rising edge; call once per key per frame.
func (g *Game) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

func (g *Game) handleInput() {
	cur := map[ebiten.Key]bool{}

	if g.pressed(cur, ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.pressed(cur, ebiten.KeyR) {
		g.showRays = !g.showRays
	}
	if g.pressed(cur, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.pressed(cur, ebiten.KeyK) {
		g.world.KillActive()
	}
	if g.pressed(cur, ebiten.KeySpace) {
		if g.world.Strike() {
			g.status = "hit!"
		} else {
			g.status = "missed"
		}
	}
	if g.pressed(cur, ebiten.KeyC) {
		g.copyReport()
	}
	g.prevKeys = cur

	if g.paused {
		return
	}
	p := g.world.Player
	var fwd, strafe, turn float64
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		fwd++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		fwd--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		strafe++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		strafe--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyE) {
		turn++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		turn--
	}
	p.Move(fwd, strafe, ebiten.IsKeyPressed(ebiten.KeyShift), TickDT)
	if turn != 0 {
		p.Turn(turn*turnRate*TickDT, 0)
	}
}

// copyReport puts the run report and the event log on the clipboard.
func (g *Game) copyReport() {
	text := g.reporter.Report(0, g.world).Format() + "\n" + g.world.Log.Format()
	if err := clipboard.WriteAll(text); err != nil {
		g.status = "clipboard: " + err.Error()
		g.world.logger.Warn("clipboard write failed", "err", err)
		return
	}
	g.status = fmt.Sprintf("copied %d log lines", g.world.Log.Len())
}

// toScreen maps a world XZ position onto the map, north up.
func (g *Game) toScreen(p geom.Vec3) (float32, float32) {
	x := borderWidth + (p.X+RoomWidth/2)*pxPerMetre
	y := borderWidth + (RoomDepth/2-p.Z)*pxPerMetre
	return float32(x), float32(y)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 8, G: 8, B: 10, A: 255})
	vector.FillRect(screen, borderWidth, borderWidth, float32(g.mapW), float32(g.mapH), color.RGBA{R: 28, G: 30, B: 26, A: 255}, false)
	drawGrid(screen, borderWidth, borderWidth, g.mapW, g.mapH, pxPerMetre, color.RGBA{R: 40, G: 44, B: 38, A: 255})

	g.drawObjects(screen)
	g.drawEnemyPath(screen)
	if g.showRays {
		g.drawRays(screen)
	}
	g.drawPlayer(screen)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.feed.Draw(screen, g.width-feedPanelWidth, g.height)
}

func (g *Game) drawObjects(screen *ebiten.Image) {
	var clone *scene.Object
	enemy := g.world.Enemy()
	if enemy != nil {
		clone = enemy.Camo.Clone()
	}
	g.world.Room.Scene.Walk(func(o *scene.Object) {
		if o.Renderer == nil || !o.Renderer.Drawn() {
			return
		}
		b := o.Renderer.Bounds()
		x0, y0 := g.toScreen(geom.V(b.Min().X, 0, b.Max().Z))
		x1, y1 := g.toScreen(geom.V(b.Max().X, 0, b.Min().Z))
		fill := g.objectColor(o, clone)
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, fill, false)
		if clone != nil && o.IsChildOf(clone) {
			// The disguise gets a thin outline so the viewer can spot it.
			vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, colornames.Orchid, false)
		}
	})
}

func (g *Game) objectColor(o, clone *scene.Object) color.Color {
	switch {
	case clone != nil && o.IsChildOf(clone):
		return colornames.Burlywood
	case o.Layer == LayerEnemy:
		return colornames.Crimson
	case o == g.world.Room.Door:
		return colornames.Saddlebrown
	}
	for _, p := range g.world.Room.Props {
		if o.IsChildOf(p) {
			return colornames.Burlywood
		}
	}
	return colornames.Dimgray
}

func (g *Game) drawEnemyPath(screen *ebiten.Image) {
	e := g.world.Enemy()
	if e == nil {
		return
	}
	prevX, prevY := g.toScreen(e.Position())
	for _, wp := range e.Agent.Path() {
		x, y := g.toScreen(wp)
		vector.StrokeLine(screen, prevX, prevY, x, y, 1, color.RGBA{R: 200, G: 60, B: 60, A: 90}, false)
		prevX, prevY = x, y
	}
}

func (g *Game) drawRays(screen *ebiten.Image) {
	for _, r := range g.world.Rays.Rays() {
		x0, y0 := g.toScreen(r.From)
		x1, y1 := g.toScreen(r.To)
		c := colornames.Red
		if r.Visible {
			c = colornames.Lime
		}
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, c, false)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	p := g.world.Player
	cam := p.Camera
	px, py := g.toScreen(p.Position())
	// Horizontal half-FOV from the vertical FOV and aspect.
	half := math.Atan(math.Tan(cam.FOV*math.Pi/360) * cam.Aspect)
	const reach = 6.0
	for _, a := range []float64{-half, half} {
		yaw := p.Yaw() + a
		end := p.Position().Add(geom.V(math.Sin(yaw), 0, math.Cos(yaw)).Scale(reach))
		ex, ey := g.toScreen(end)
		vector.StrokeLine(screen, px, py, ex, ey, 1, color.RGBA{R: 120, G: 160, B: 255, A: 120}, false)
	}
	vector.FillCircle(screen, px, py, 0.3*pxPerMetre, colornames.Cornflowerblue, true)
	fx, fy := g.toScreen(p.Position().Add(geom.V(math.Sin(p.Yaw()), 0, math.Cos(p.Yaw())).Scale(0.5)))
	vector.StrokeLine(screen, px, py, fx, fy, 2, colornames.White, false)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	x := borderWidth
	y := g.mapH + 2*borderWidth - 8
	lines := []string{g.enemyStatus()}
	lines = append(lines,
		fmt.Sprintf("enemies killed=%d remaining=%d door=%s  heartbeat vol=%.2f  %s",
			g.world.Spawner.Killed(), g.world.Spawner.Remaining(), doorLabel(g.world.Spawner.DoorOpen()),
			g.world.Sound.Volume(ClipHeartbeat), g.status),
		"WASD move  Q/E or arrows turn  Shift sprint  Space strike",
		"P pause  R rays  H hud  K kill  C copy report",
	)
	if g.paused {
		lines = append(lines, "PAUSED")
	}
	if e := g.world.Enemy(); e != nil {
		vector.FillRect(screen, float32(x-14), float32(y+4), 8, 8, stateColor(e.Camo.State()), false)
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, x, y+i*16)
	}
}

func (g *Game) enemyStatus() string {
	e := g.world.Enemy()
	if e == nil {
		return fmt.Sprintf("t=%.1fs  no enemy", g.world.Now())
	}
	seen, unseen := e.Camo.Timers()
	disguise := "-"
	if c := e.Camo.Clone(); c != nil {
		disguise = c.Name
	}
	return fmt.Sprintf("t=%.1fs  %s %s visible=%v seen=%.2f unseen=%.2f dist=%.1fm  %s",
		g.world.Now(), e.Label, e.Camo.State(), e.Camo.Visible(), seen, unseen,
		e.Position().Dist(g.world.Player.Position()), disguise)
}

// stateColor marks the enemy state in the HUD.
func stateColor(s camo.State) color.Color {
	if s == camo.Mimicking {
		return colornames.Orchid
	}
	return colornames.Crimson
}

func drawGrid(screen *ebiten.Image, offX, offY, w, h, spacing int, c color.Color) {
	ox, oy := float32(offX), float32(offY)
	for x := 0; x <= w; x += spacing {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(h), 1, c, false)
	}
	for y := 0; y <= h; y += spacing {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(w), yf, 1, c, false)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Size returns the window size in pixels.
func (g *Game) Size() (int, int) { return g.width, g.height }
