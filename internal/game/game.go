package game

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/Garsondee/Tile-World/internal/config"
	"github.com/Garsondee/Tile-World/internal/picking"
	"github.com/Garsondee/Tile-World/internal/render"
	"github.com/Garsondee/Tile-World/internal/world"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"
)

// selectionAlpha is the opacity of the highlight drawn over the selected tile.
const selectionAlpha = 0.75

var (
	backgroundColor = color.RGBA{R: 8, G: 10, B: 16, A: 255}
	selectionColor  = world.Color{R: 1, G: 0.9, B: 0.25}
	unitColor       = color.RGBA{R: 230, G: 60, B: 50, A: 255}
	activeRingColor = color.RGBA{R: 255, G: 255, B: 255, A: 220}
)

// Game is the interactive ebiten front end over a Session. The playfield
// occupies the left mapW×mapH pixels; the event log panel sits to its right.
type Game struct {
	session *Session
	gpu     *render.GPU
	panel   *LogPanel
	face    text.Face
	log     zerolog.Logger

	width, height int
	mapW, mapH    int

	status  string
	showHUD bool
}

// FitView builds the projection described by cfg and centres it on the
// mean centroid of tiles within a w×h playfield.
func FitView(cfg config.ViewConfig, tiles []*world.Tile, w, h int) render.Projection {
	p := render.Projection{
		Scale:    float32(cfg.Scale),
		Yaw:      cfg.Yaw,
		Pitch:    cfg.Pitch,
		CullBack: cfg.CullBack,
	}
	var c world.Vec3
	for _, t := range tiles {
		c.X += t.Centroid.X
		c.Y += t.Centroid.Y
		c.Z += t.Centroid.Z
	}
	if n := float32(len(tiles)); n > 0 {
		c = world.Vec3{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
	}
	return p.CenteredOn(c, w, h)
}

// New creates the front end. gpu must be the id target the session was
// built with, sized mapW×mapH.
func New(session *Session, gpu *render.GPU, mapW, mapH int, log zerolog.Logger) *Game {
	face := text.NewGoXFace(basicfont.Face7x13)
	return &Game{
		session: session,
		gpu:     gpu,
		panel:   NewLogPanel(face),
		face:    face,
		log:     log,
		width:   mapW + logPanelWidth,
		height:  mapH,
		mapW:    mapW,
		mapH:    mapH,
		status:  "left click: select   right click: move",
		showHUD: true,
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleInput()
	return nil
}

func (g *Game) handleInput() {
	frame := picking.Frame{W: g.mapW, H: g.mapH}
	mx, my := ebiten.CursorPosition()
	onMap := mx >= 0 && my >= 0 && mx < g.mapW && my < g.mapH

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && onMap {
		if key, ok := g.session.Select(mx, my, frame); ok {
			g.status = fmt.Sprintf("selected %s %s", key, g.session.Store().Tile(key).Biome)
		} else {
			g.status = "nothing there"
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && onMap {
		res, hit, err := g.session.Order(mx, my, frame)
		switch {
		case errors.Is(err, ErrNoUnit):
			g.status = "no unit to move"
		case !hit:
			g.status = "nothing there"
		default:
			g.status = fmt.Sprintf("move %s, spent %d", res.Status, res.Spent)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyE) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.session.EndTurn()
		g.status = fmt.Sprintf("turn %d", g.session.Turn())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.session.CycleUnit()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := setClipboardText(g.session.Report()); err != nil {
			g.log.Warn().Err(err).Msg("copying report to clipboard")
			g.status = "clipboard unavailable"
		} else {
			g.status = "report copied"
		}
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for _, t := range g.session.Store().Tiles() {
		g.gpu.FillTile(screen, t.VertexOffset, t.VertexCount, t.Color, 1)
	}
	if t := g.session.SelectedTile(); t != nil {
		g.gpu.FillTile(screen, t.VertexOffset, t.VertexCount, selectionColor, selectionAlpha)
	}
	g.drawUnits(screen)

	g.panel.Draw(screen, g.session.Events, g.mapW, g.height)
	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawUnits(screen *ebiten.Image) {
	proj := g.gpu.Projection()
	r := proj.Scale * 0.25
	if r < 3 {
		r = 3
	}
	active := g.session.ActiveUnit()
	for _, u := range g.session.Units() {
		t := g.session.Store().Tile(u.Position)
		if t == nil {
			continue
		}
		x, y, _ := proj.Project(t.Centroid)
		vector.FillCircle(screen, x, y, r, unitColor, true)
		if u == active {
			vector.StrokeCircle(screen, x, y, r+2, 1.5, activeRingColor, true)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("TURN %d", g.session.Turn()),
	}
	if u := g.session.ActiveUnit(); u != nil {
		lines = append(lines, fmt.Sprintf("%s at %s  MP %d/%d", u.Kind, u.Position, u.MovementRemaining, u.MovementMax))
	}
	if t := g.session.SelectedTile(); t != nil {
		lines = append(lines, fmt.Sprintf("tile %s %s", t.Key, t.Biome))
	}
	lines = append(lines, g.status, "E=end turn  Tab=unit  C=copy  H=hud  Esc=quit")

	const lineH = 15
	const charW = 7
	const pad = 5
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + pad*2)
	boxH := float32(len(lines)*lineH + pad*2)
	bx := float32(6)
	by := float32(g.mapH) - boxH - 6

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 12, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1, color.RGBA{R: 70, G: 90, B: 120, A: 180}, false)
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(bx)+pad, float64(by)+pad+float64(i*lineH))
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, line, g.face, op)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
