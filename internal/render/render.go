// Package render draws game views into a terminal: the playfield on a
// half-block canvas plus a text overlay for the score and screens.
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/tomz197/splitshot/internal/draw"
	"github.com/tomz197/splitshot/internal/game"
)

// Largest canvas drawn, in cells. Bigger terminals get a border.
const (
	MaxCols = 200
	MaxRows = 75
)

// bulletLength is the drawn length of a bullet trail in playfield units.
const bulletLength = 12

// Notice is a message drawn over everything else, e.g. an inactivity warning.
type Notice struct {
	Title string
	Body  string
	Hint  string
}

// Terminal renders views to one terminal.
type Terminal struct {
	w      io.Writer
	canvas *draw.Canvas
	cw     *draw.ChunkWriter

	fieldW, fieldH float64
	termCols       int
	termRows       int

	lastOver   bool
	lastNotice bool
}

// NewTerminal creates a renderer for a fieldW x fieldH playfield. Call Resize
// with the terminal size before the first Draw.
func NewTerminal(w io.Writer, fieldW, fieldH float64) *Terminal {
	return &Terminal{
		w:      w,
		canvas: draw.NewCanvas(1, 1, fieldW, fieldH),
		cw:     draw.NewChunkWriter(w, 0, 0),
		fieldW: fieldW,
		fieldH: fieldH,
	}
}

// Resize fits the canvas to a terminal of termCols x termRows cells.
// It clears the screen and returns true when the layout changed.
func (t *Terminal) Resize(termCols, termRows int) bool {
	if termCols == t.termCols && termRows == t.termRows {
		return false
	}
	t.termCols, t.termRows = termCols, termRows

	cols, rows, offCol, offRow := draw.Fit(min(termCols, MaxCols), min(termRows, MaxRows), t.fieldW, t.fieldH)
	offCol += max(termCols-MaxCols, 0) / 2
	offRow += max(termRows-MaxRows, 0) / 2

	t.canvas.Resize(cols, rows)
	t.canvas.SetOffset(offCol, offRow)
	t.cw.SetOffset(offCol, offRow)
	draw.ClearScreen(t.w)
	return true
}

// CellToField maps a 1-based terminal cell to a playfield position.
func (t *Terminal) CellToField(col, row int) (x, y float64, ok bool) {
	return t.canvas.CellToField(col, row)
}

// Draw writes one frame.
func (t *Terminal) Draw(v game.View, n *Notice) error {
	if v.GameOver != t.lastOver || (n != nil) != t.lastNotice {
		t.cw.WriteString("\033[H\033[2J")
		t.lastOver = v.GameOver
		t.lastNotice = n != nil
	}

	t.canvas.Clear()
	DrawField(t.canvas, v)
	t.canvas.Render(t.cw)
	t.canvas.RenderBorder(t.cw)

	cols, rows := t.canvas.Size()
	switch {
	case n != nil:
		drawNotice(t.cw, cols, rows, n)
	case v.GameOver:
		drawGameOver(t.cw, cols, rows, v)
	default:
		drawHUD(t.cw, cols, rows, v)
	}
	return t.cw.Flush()
}

// DrawField plots the ship, bullets and enemies of v onto c.
func DrawField(c *draw.Canvas, v game.View) {
	for _, e := range v.Enemies {
		c.RegularPolygon(e.X, e.Y, e.Radius, tierSides(e.Tier), e.Angle, false)
	}
	for _, b := range v.Bullets {
		rad := b.Angle * math.Pi / 180
		tail := draw.Point{X: b.X - math.Cos(rad)*bulletLength, Y: b.Y - math.Sin(rad)*bulletLength}
		c.Line(tail, draw.Point{X: b.X, Y: b.Y})
	}

	s := v.Ship
	c.Polygon([]draw.Point{
		{X: s.X, Y: s.Y + s.Radius},
		{X: s.X - s.Radius*0.8, Y: s.Y - s.Radius*0.7},
		{X: s.X + s.Radius*0.8, Y: s.Y - s.Radius*0.7},
	}, true)
}

// tierSides gives bigger enemies rounder outlines.
func tierSides(tier int) int {
	return 4 + tier
}

// Text shown by every terminal host.
const (
	HelpLine     = "WASD/arrows move  click fire  Q quit"
	GameOverText = "G A M E   O V E R"
	RestartHint  = "SPACE or click to play again, Q to quit"
)

// ScoreLine is the HUD score readout.
func ScoreLine(v game.View) string {
	return fmt.Sprintf("Score: %d", v.Displayed)
}

// HitsLine is the per-bucket hit readout.
func HitsLine(v game.View) string {
	return fmt.Sprintf("Splits: %d  Kills: %d", v.Basic, v.Final)
}

func drawHUD(cw *draw.ChunkWriter, cols, rows int, v game.View) {
	cw.WriteAt(2, 1, ScoreLine(v))
	hits := HitsLine(v)
	cw.WriteAt(max(cols-len(hits), 1), 1, hits)
	cw.WriteAt(2, rows, HelpLine)
}

func drawGameOver(cw *draw.ChunkWriter, cols, rows int, v game.View) {
	cx, cy := cols/2, rows/2
	cw.WriteCentered(cx, cy-2, GameOverText)
	cw.WriteCentered(cx, cy, fmt.Sprintf("Score: %d", v.Score))
	cw.WriteCentered(cx, cy+1, HitsLine(v))
	cw.WriteCentered(cx, cy+3, RestartHint)
}

func drawNotice(cw *draw.ChunkWriter, cols, rows int, n *Notice) {
	cx, cy := cols/2, rows/2
	cw.WriteCentered(cx, cy-2, n.Title)
	if n.Body != "" {
		cw.WriteCentered(cx, cy, n.Body)
	}
	if n.Hint != "" {
		cw.WriteCentered(cx, cy+2, n.Hint)
	}
}
