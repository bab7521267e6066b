package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 300
	logLineHeight = 14
	logTitleH     = 18
)

// categoryColors tints the marker next to each event line.
var categoryColors = map[string]color.RGBA{
	"pick":     {R: 90, G: 170, B: 230, A: 255},
	"move":     {R: 120, G: 210, B: 110, A: 255},
	"turn":     {R: 230, G: 200, B: 80, A: 255},
	"unit":     {R: 200, G: 200, B: 200, A: 255},
	"geometry": {R: 160, G: 120, B: 210, A: 255},
}

// LogPanel renders the tail of an EventLog down the right edge of the window.
type LogPanel struct {
	face text.Face
}

// NewLogPanel creates a panel that draws with face.
func NewLogPanel(face text.Face) *LogPanel {
	return &LogPanel{face: face}
}

// visibleEvents returns the newest entries that fit in a panel of height
// panelH, oldest first.
func visibleEvents(events []Event, panelH int) []Event {
	maxVisible := (panelH - logTitleH - 6) / logLineHeight
	if maxVisible <= 0 {
		return nil
	}
	if len(events) > maxVisible {
		return events[len(events)-maxVisible:]
	}
	return events
}

// Draw renders the panel at panelX, spanning the full height panelH.
func (p *LogPanel) Draw(screen *ebiten.Image, events *EventLog, panelX, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, px, 0, logPanelWidth, logTitleH, color.RGBA{R: 20, G: 26, B: 34, A: 255}, false)
	p.drawLine(screen, "EVENT LOG", panelX+8, 3, color.White)
	vector.StrokeLine(screen, px, logTitleH, px+logPanelWidth, logTitleH, 1, color.RGBA{R: 50, G: 70, B: 90, A: 200}, false)

	visible := visibleEvents(events.Entries(), panelH)
	recent := 3
	y := logTitleH + 4
	for i, e := range visible {
		isRecent := i >= len(visible)-recent
		if isRecent {
			vector.FillRect(screen, px+2, float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 30, G: 36, B: 46, A: 160}, false)
		}
		dot, ok := categoryColors[e.Category]
		if !ok {
			dot = color.RGBA{R: 128, G: 128, B: 128, A: 255}
		}
		vector.FillRect(screen, px+5, float32(y+4), 3, 6, dot, false)

		fg := color.RGBA{R: 150, G: 150, B: 150, A: 255}
		if isRecent {
			fg = color.RGBA{R: 235, G: 235, B: 235, A: 255}
		}
		line := fmt.Sprintf("%3d %-3s %s %s", e.Turn, e.Unit, e.Key, e.Value)
		p.drawLine(screen, line, panelX+12, y, fg)
		y += logLineHeight
	}
}

func (p *LogPanel) drawLine(screen *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, p.face, op)
}
