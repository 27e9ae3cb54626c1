package vt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

var dumpProfile = termenv.ANSI256

// renderCell dresses the cell's rune in its colors and attributes for
// the snapshot dump.
func renderCell(c cell) string {
	s := termenv.String(string(c.r)).
		Foreground(dumpProfile.Color(strconv.Itoa(int(c.fg)))).
		Background(dumpProfile.Color(strconv.Itoa(int(c.bg))))
	if c.attrIsSet(ATTR_BOLD) {
		s = s.Bold()
	}
	if c.attrIsSet(ATTR_ITALIC) {
		s = s.Italic()
	}
	if c.attrIsSet(ATTR_UNDERLINE) {
		s = s.Underline()
	}
	if c.attrIsSet(ATTR_INVERSE) {
		s = s.Reverse()
	}
	return s.String()
}

// Snapshot renders the grid with a ruled border, colors and attributes
// included. The cursor cell is drawn inverted.
func (t *Terminal) Snapshot() string {
	var b strings.Builder

	cx, cy := t.g.cursor()
	rule := strings.Repeat("-", t.g.width())
	fmt.Fprintf(&b, "+%s+\n", rule)
	for y := 0; y < t.g.height(); y++ {
		b.WriteByte('|')
		for x := 0; x < t.g.width(); x++ {
			c, err := t.g.cellAt(x, y)
			if err != nil {
				c = t.defF
			}
			if c.r == 0 {
				c.r = ' '
			}
			if x == cx && y == cy {
				c.setAttr(ATTR_INVERSE, !c.attrIsSet(ATTR_INVERSE))
			}
			b.WriteString(renderCell(c))
		}
		b.WriteString("|\n")
	}
	fmt.Fprintf(&b, "+%s+\n", rule)

	return b.String()
}

// Update writes the current snapshot plus the traffic rings to w,
// the debugging view of everything the terminal has seen and sent.
func (t *Terminal) Update(w io.Writer) error {
	if _, err := io.WriteString(w, t.Snapshot()); err != nil {
		return fmt.Errorf("couldn't write snapshot: %v", err)
	}
	if _, err := fmt.Fprintf(w, "read:\n%swrite:\n%s", t.rdHist.dump(), t.wrHist.dump()); err != nil {
		return fmt.Errorf("couldn't write history: %v", err)
	}
	return nil
}
