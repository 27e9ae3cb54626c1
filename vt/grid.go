package vt

import (
	"errors"
	"fmt"
	"log/slog"
)

var gridInvalidCell = errors.New("invalid grid cell")

// grid is the visible cell matrix plus the cursor. Rows are stored
// short: cells beyond a row's length render as the blank cell. The
// cursor x may equal w, which marks the pending-wrap position; the next
// printable wraps before stamping.
type grid struct {
	rows [][]cell
	w, h int
	x, y int

	// blank is the cell used for padding and cleared rows. It carries
	// the configured default colors.
	blank cell
}

func newGrid(w, h int, blank cell) *grid {
	return &grid{
		rows:  make([][]cell, h),
		w:     w,
		h:     h,
		blank: blank,
	}
}

func (g *grid) width() int  { return g.w }
func (g *grid) height() int { return g.h }

func (g *grid) cursor() (int, int) { return g.x, g.y }

// resize changes the grid dimensions. Growth inserts blank rows at the
// top and pushes the cursor down; shrinking discards rows from the top
// and pulls the cursor up, clamping it back into the valid band. Rows
// wider than the new width are truncated; short rows stay short. There
// is no re-flow of soft-wrapped content.
func (g *grid) resize(w, h int) {
	if w <= 0 || h <= 0 {
		slog.Error("refusing resize to non-positive dimensions", "w", w, "h", h)
		return
	}

	if dh := h - g.h; dh != 0 {
		if dh > 0 {
			rows := make([][]cell, h)
			copy(rows[dh:], g.rows)
			g.rows = rows
		} else {
			g.rows = g.rows[-dh:]
		}
		g.y += dh
		g.h = h
	}

	for i, row := range g.rows {
		if len(row) > w {
			g.rows[i] = row[:w]
		}
	}
	if g.x > w {
		g.x = w
	}
	g.w = w

	if g.y < 0 {
		g.y = 0
	}
	if g.y >= g.h {
		g.y = g.h - 1
	}
}

// put stamps a cell at the cursor and advances one column. At the
// pending-wrap position it carriage-returns and line-feeds first.
func (g *grid) put(c cell) {
	if g.x == g.w {
		g.carriageReturn()
		g.lineFeed()
	}
	row := g.rows[g.y]
	if g.x == len(row) {
		row = append(row, c)
	} else {
		row[g.x] = c
	}
	g.rows[g.y] = row
	g.x++
}

func (g *grid) carriageReturn() {
	g.x = 0
}

func (g *grid) lineFeed() {
	if g.y+1 == g.h {
		g.shiftUp()
	} else {
		g.y++
	}
	g.fixWidth()
}

// shiftUp discards the top row and opens an empty row at the bottom.
func (g *grid) shiftUp() {
	copy(g.rows, g.rows[1:])
	g.rows[g.h-1] = nil
}

// tab stamps fill cells until the cursor sits on a tab stop. At least
// one cell is always written, even on a stop.
func (g *grid) tab(fill cell) {
	for {
		g.put(fill)
		if g.x%TAB_WIDTH == 0 {
			break
		}
	}
}

func (g *grid) move(x, y int) {
	switch {
	case x < 0:
		x = 0
	case x > g.w:
		x = g.w
	}
	switch {
	case y < 0:
		y = 0
	case y >= g.h:
		y = g.h - 1
	}
	g.x, g.y = x, y
	g.fixWidth()
}

// fixWidth pads the cursor row with blanks so a following put lands on
// an allocated cell. The row never extends past the grid width.
func (g *grid) fixWidth() {
	row := g.rows[g.y]
	if len(row) > g.x {
		return
	}
	n := g.x + 1
	if n > g.w {
		n = g.w
	}
	for len(row) < n {
		row = append(row, g.blank)
	}
	g.rows[g.y] = row
}

func (g *grid) validPoint(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// cellAt returns the cell at (x, y). Positions beyond a short row read
// as the blank cell.
func (g *grid) cellAt(x, y int) (cell, error) {
	if !g.validPoint(x, y) {
		return g.blank, fmt.Errorf("invalid coordinates (%d, %d): %w", x, y, gridInvalidCell)
	}
	if row := g.rows[y]; x < len(row) {
		return row[x], nil
	}
	return g.blank, nil
}

// setCell overwrites the cell at (x, y), extending the row as needed.
// Invalid positions are ignored.
func (g *grid) setCell(x, y int, c cell) {
	if !g.validPoint(x, y) {
		return
	}
	row := g.rows[y]
	for len(row) <= x {
		row = append(row, g.blank)
	}
	row[x] = c
	g.rows[y] = row
}
