// Package draw renders the playfield into a terminal using half-block
// characters, two vertical dots per cell.
package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Point is a position in playfield units.
type Point struct {
	X, Y float64
}

// Half-block glyphs for a cell's two dots.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// maxChunkSize keeps each write under a typical MTU so frames stream smoothly over SSH.
const maxChunkSize = 1400

// Canvas is a dot buffer covering the whole playfield. Playfield y points up;
// the canvas flips it so the top of the field lands on the first terminal row.
type Canvas struct {
	cols, rows int
	dotRows    int    // rows * 2
	dots       []bool // [dy*cols + dx]

	fieldW, fieldH float64
	sx, sy         float64 // Dots per playfield unit

	offCol, offRow int // 0-based position of the canvas inside the terminal

	out strings.Builder
	num [20]byte
	xs  []float64 // Scanline intersections
	pts []Point
}

// NewCanvas creates a canvas of cols x rows cells showing a fieldW x fieldH playfield.
func NewCanvas(cols, rows int, fieldW, fieldH float64) *Canvas {
	c := &Canvas{fieldW: fieldW, fieldH: fieldH}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell dimensions, keeping the playfield size.
func (c *Canvas) Resize(cols, rows int) {
	cols = max(cols, 1)
	rows = max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.cols, c.rows = cols, rows
		c.dotRows = rows * 2
		c.dots = make([]bool, c.cols*c.dotRows)
	}
	c.sx = float64(c.cols) / c.fieldW
	c.sy = float64(c.dotRows) / c.fieldH
}

// SetOffset places the canvas at a 0-based column and row of the terminal.
func (c *Canvas) SetOffset(col, row int) {
	c.offCol, c.offRow = col, row
}

// Offset returns the 0-based terminal position of the canvas.
func (c *Canvas) Offset() (col, row int) {
	return c.offCol, c.offRow
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Clear unsets every dot.
func (c *Canvas) Clear() {
	clear(c.dots)
}

func (c *Canvas) toDot(x, y float64) (int, int) {
	return int(math.Round(x * c.sx)), int(math.Round((c.fieldH - y) * c.sy))
}

func (c *Canvas) set(dx, dy int) {
	if dx >= 0 && dx < c.cols && dy >= 0 && dy < c.dotRows {
		c.dots[dy*c.cols+dx] = true
	}
}

// Dot reports whether the dot at (dx, dy) is set. dy counts from the top.
func (c *Canvas) Dot(dx, dy int) bool {
	if dx < 0 || dx >= c.cols || dy < 0 || dy >= c.dotRows {
		return false
	}
	return c.dots[dy*c.cols+dx]
}

// Plot sets the dot under a playfield position.
func (c *Canvas) Plot(x, y float64) {
	c.set(c.toDot(x, y))
}

// Line draws a segment between two playfield positions (Bresenham).
func (c *Canvas) Line(a, b Point) {
	x0, y0 := c.toDot(a.X, a.Y)
	x1, y1 := c.toDot(b.X, b.Y)

	dx, sx := absStep(x1 - x0)
	dy, sy := absStep(y1 - y0)
	e := dx - dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

func absStep(d int) (int, int) {
	if d < 0 {
		return -d, -1
	}
	return d, 1
}

// Polygon draws the outline through pts and fills the interior when filled is set.
func (c *Canvas) Polygon(pts []Point, filled bool) {
	if len(pts) < 3 {
		return
	}
	if filled {
		c.fill(pts)
	}
	for i := range pts {
		c.Line(pts[i], pts[(i+1)%len(pts)])
	}
}

// RegularPolygon draws an n-sided polygon of radius r around (cx, cy),
// rotated by deg degrees.
func (c *Canvas) RegularPolygon(cx, cy, r float64, n int, deg float64, filled bool) {
	if n < 3 {
		return
	}
	if cap(c.pts) < n {
		c.pts = make([]Point, n)
	}
	pts := c.pts[:n]
	rot := deg * math.Pi / 180
	for i := range pts {
		a := rot + 2*math.Pi*float64(i)/float64(n)
		pts[i] = Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	c.Polygon(pts, filled)
}

// fill runs a scanline fill in dot space.
func (c *Canvas) fill(pts []Point) {
	top, bottom := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		dy := (c.fieldH - p.Y) * c.sy
		top = min(top, dy)
		bottom = max(bottom, dy)
	}

	n := len(pts)
	for dy := int(math.Floor(top)); dy <= int(math.Ceil(bottom)); dy++ {
		scan := float64(dy) + 0.5
		xs := c.xs[:0]
		for i := 0; i < n; i++ {
			ax, ay := pts[i].X*c.sx, (c.fieldH-pts[i].Y)*c.sy
			bx, by := pts[(i+1)%n].X*c.sx, (c.fieldH-pts[(i+1)%n].Y)*c.sy
			if (ay <= scan && by > scan) || (by <= scan && ay > scan) {
				xs = append(xs, ax+(scan-ay)/(by-ay)*(bx-ax))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for dx := int(math.Ceil(xs[i])); dx <= int(math.Floor(xs[i+1])); dx++ {
				c.set(dx, dy)
			}
		}
		c.xs = xs
	}
}

// Cell returns the glyph for a 0-based cell, or 0 when both dots are empty.
func (c *Canvas) Cell(col, row int) rune {
	upper, lower := c.Dot(col, row*2), c.Dot(col, row*2+1)
	switch {
	case upper && lower:
		return BlockFull
	case upper:
		return BlockUpperHalf
	case lower:
		return BlockLowerHalf
	}
	return 0
}

// Render writes every non-empty cell as a cursor move plus a half-block glyph.
func (c *Canvas) Render(w io.Writer) {
	c.out.Reset()
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			ch := c.Cell(col, row)
			if ch == 0 {
				continue
			}
			c.moveTo(col+1+c.offCol, row+1+c.offRow)
			c.out.WriteRune(ch)
		}
	}
	writeChunked(w, c.out.String())
}

func (c *Canvas) moveTo(col, row int) {
	c.out.WriteString("\033[")
	c.out.Write(strconv.AppendInt(c.num[:0], int64(row), 10))
	c.out.WriteByte(';')
	c.out.Write(strconv.AppendInt(c.num[:0], int64(col), 10))
	c.out.WriteByte('H')
}

// RenderBorder frames the canvas when the terminal has room around it.
func (c *Canvas) RenderBorder(w io.Writer) {
	left, top := c.offCol, c.offRow
	right, bottom := c.offCol+c.cols+1, c.offRow+c.rows+1
	hasSides, hasEnds := left >= 1, top >= 1
	bar := strings.Repeat("─", c.cols)

	c.out.Reset()
	if hasEnds {
		c.moveTo(left+1, top)
		c.out.WriteString(bar)
		c.moveTo(left+1, bottom)
		c.out.WriteString(bar)
	}
	if hasSides {
		for row := c.offRow + 1; row < bottom; row++ {
			c.moveTo(left, row)
			c.out.WriteString("│")
			c.moveTo(right, row)
			c.out.WriteString("│")
		}
	}
	if hasSides && hasEnds {
		for _, corner := range []struct {
			col, row int
			s        string
		}{{left, top, "┌"}, {right, top, "┐"}, {left, bottom, "└"}, {right, bottom, "┘"}} {
			c.moveTo(corner.col, corner.row)
			c.out.WriteString(corner.s)
		}
	}
	writeChunked(w, c.out.String())
}

// FieldToCell returns the 1-based canvas cell (without offset) under a playfield position.
func (c *Canvas) FieldToCell(x, y float64) (col, row int) {
	dx, dy := c.toDot(x, y)
	return dx + 1, dy/2 + 1
}

// CellToField maps a 1-based terminal cell (offset included, as reported by
// mouse events) to the playfield position at the cell centre. ok is false
// when the cell lies outside the canvas.
func (c *Canvas) CellToField(col, row int) (x, y float64, ok bool) {
	cc, rr := col-1-c.offCol, row-1-c.offRow
	if cc < 0 || cc >= c.cols || rr < 0 || rr >= c.rows {
		return 0, 0, false
	}
	x = (float64(cc) + 0.5) / c.sx
	y = c.fieldH - (float64(rr*2)+1)/c.sy
	return x, y, true
}

// Fit sizes a canvas to show a fieldW x fieldH playfield with square dots
// inside a termCols x termRows terminal, and centres it.
func Fit(termCols, termRows int, fieldW, fieldH float64) (cols, rows, offCol, offRow int) {
	cols = termCols
	rows = int(float64(cols) * fieldH / fieldW / 2)
	if rows > termRows {
		rows = termRows
		cols = int(float64(rows*2) * fieldW / fieldH)
	}
	cols = max(cols, 1)
	rows = max(rows, 1)
	offCol = max((termCols-cols)/2, 0)
	offRow = max((termRows-rows)/2, 0)
	return cols, rows, offCol, offRow
}

func writeChunked(w io.Writer, data string) {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		io.WriteString(w, data[:n])
		data = data[n:]
	}
}
