package replay

import "strings"

// Braille cells hold a 2x4 dot matrix; dotBits maps (row, col) within a
// cell to its bit.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// canvas is a braille plot in world coordinates with y pointing up and
// the origin at the bottom left.
type canvas struct {
	cols, rows int
	maxX, maxY float64
	grid       [][]rune
}

func newCanvas(cols, rows int, maxX, maxY float64) *canvas {
	if maxX <= 0 {
		maxX = 1
	}
	if maxY <= 0 {
		maxY = 1
	}
	c := &canvas{cols: cols, rows: rows, maxX: maxX, maxY: maxY, grid: make([][]rune, rows)}
	for i := range c.grid {
		c.grid[i] = []rune(strings.Repeat(string(rune(blank)), cols))
	}
	return c
}

// dot converts world coordinates to dot coordinates.
func (c *canvas) dot(x, y float64) (int, int) {
	w := c.cols*2 - 1
	h := c.rows*4 - 1
	return int(x / c.maxX * float64(w)), h - int(y/c.maxY*float64(h))
}

func (c *canvas) set(px, py int) {
	if px < 0 || py < 0 {
		return
	}
	col, row := px/2, py/4
	if col >= c.cols || row >= c.rows {
		return
	}
	c.grid[row][col] |= dotBits[py%4][px%2]
}

// line draws a segment between two world points (Bresenham).
func (c *canvas) line(x0, y0, x1, y1 float64) {
	ax, ay := c.dot(x0, y0)
	bx, by := c.dot(x1, y1)

	dx, dy := abs(bx-ax), abs(by-ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}
	err := dx - dy
	for {
		c.set(ax, ay)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			ax += sx
		}
		if e2 < dx {
			err += dx
			ay += sy
		}
	}
}

// box outlines an obstacle standing on the ground.
func (c *canvas) box(x, width, height float64) {
	c.line(x, 0, x, height)
	c.line(x, height, x+width, height)
	c.line(x+width, height, x+width, 0)
}

func (c *canvas) String() string {
	var b strings.Builder
	for i, row := range c.grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
