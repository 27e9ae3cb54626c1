package vt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

type manageFunc func()

// Terminal is the emulator core: it owns the escape parser, the screen
// grid, the current pen, and the byte plumbing toward the child. All
// methods are synchronous and run to completion; the surrounding event
// loop is expected to call in from a single goroutine.
type Terminal struct {
	p *parser
	g *grid

	ptyR, ptyW *os.File

	wait, stop manageFunc

	// curF is the pen stamped onto incoming printables; defF holds
	// the configured defaults it resets to.
	curF, defF cell

	wq             *writeQueue
	rdHist, wrHist *history
	dec            *decoder
	readBuf        []byte
}

func newBasicTerminal(r, w *os.File, cfg Config) *Terminal {
	def := newCell(' ', cfg.DefaultFg, cfg.DefaultBg)
	t := &Terminal{
		g:       newGrid(cfg.Cols, cfg.Rows, def),
		ptyR:    r,
		ptyW:    w,
		curF:    def,
		defF:    def,
		wq:      newWriteQueue(cfg.WriteBlockBytes),
		rdHist:  newHistory(cfg.HistoryRingBytes),
		wrHist:  newHistory(cfg.HistoryRingBytes),
		dec:     &decoder{},
		readBuf: make([]byte, cfg.ReadBufBytes),
		wait:    func() {},
		stop:    func() {},
	}
	t.p = newParser(t)
	return t
}

// NewTerminal returns a terminal backed by a local pipe, useful when
// the byte stream arrives from somewhere other than a child process.
func NewTerminal(cfg Config) (*Terminal, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("couldn't open a pipe: %v", err)
	}

	return newBasicTerminal(pr, pw, cfg), nil
}

// NewTerminalWithPty starts cmd on a fresh pty sized to the config and
// returns a terminal reading and writing the master side.
func NewTerminalWithPty(cmd *exec.Cmd, cfg Config, cancel context.CancelFunc) (*Terminal, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Rows), Cols: uint16(cfg.Cols)})
	if err != nil {
		return nil, fmt.Errorf("couldn't start pty: %v", err)
	}

	// Any use of Fd(), including indirectly via the Setsize that
	// StartWithSize performs above, will set the descriptor blocking,
	// so undo that here.
	pfd := int(ptmx.Fd())
	if err := syscall.SetNonblock(pfd, true); err != nil {
		return nil, fmt.Errorf("couldn't set ptmx non-blocking: %v", err)
	}

	t := newBasicTerminal(ptmx, ptmx, cfg)
	t.wait = func() { cmd.Wait() }
	t.stop = func() { cancel() }

	return t, nil
}

func (t *Terminal) Wait() {
	t.wait()
}

func (t *Terminal) Stop() {
	t.stop()
	t.ptyR.Close()
}

// Fd exposes the pty descriptor for the caller's poll loop.
func (t *Terminal) Fd() int {
	return int(t.ptyR.Fd())
}

// Size returns (rows, cols); Cursor returns (x, y) with x possibly
// equal to the width while a wrap is pending.
func (t *Terminal) Size() (int, int)   { return t.g.height(), t.g.width() }
func (t *Terminal) Cursor() (int, int) { return t.g.cursor() }

// Resize propagates the new dimensions to the pty and the grid.
func (t *Terminal) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		slog.Error("refusing resize to non-positive dimensions", "rows", rows, "cols", cols)
		return
	}

	if t.ptyR == t.ptyW {
		pts := &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
		if err := pty.Setsize(t.ptyW, pts); err != nil {
			slog.Error("couldn't set size on pty", "err", err)
		}
		pfd := int(t.ptyW.Fd())
		if err := syscall.SetNonblock(pfd, true); err != nil {
			slog.Error("couldn't set pty to nonblocking", "err", err)
		}
	}

	t.g.resize(cols, rows)
	slog.Debug("changed window size", "rows", rows, "cols", cols)
}

// Reset restores the power-on state: cleared grid, default pen, cursor
// at the origin.
func (t *Terminal) Reset() {
	t.g = newGrid(t.g.width(), t.g.height(), t.defF)
	t.curF = t.defF
	t.p = newParser(t)
}

// stamp dresses a rune in the current pen.
func (t *Terminal) stamp(r rune) cell {
	c := t.curF
	c.r = r
	return c
}

// put places one printable rune at the cursor. Zero-width combiners
// merge into the previous cell; double-width runes stamp a trailing
// spacer so column accounting holds.
func (t *Terminal) put(r rune) {
	switch runewidth.RuneWidth(r) {
	case 0:
		t.combine(r)
	case 2:
		if x, _ := t.g.cursor(); x == t.g.width()-1 {
			// no room for both halves on this row
			t.g.put(t.stamp(' '))
		}
		t.g.put(t.stamp(r))
		t.g.put(t.stamp(' '))
	default:
		t.g.put(t.stamp(r))
	}
}

func (t *Terminal) combine(r rune) {
	x, y := t.g.cursor()
	if x > t.g.width() {
		x = t.g.width()
	}
	x--
	if x < 0 {
		// first column with nothing to combine with
		slog.Debug("punting on zero width rune", "r", r)
		return
	}

	c, err := t.g.cellAt(x, y)
	if err != nil {
		slog.Debug("couldn't fetch cell for combining rune", "x", x, "y", y, "err", err)
		return
	}

	n := norm.NFC.String(string(c.r) + string(r))
	c.r = []rune(n)[0]
	t.g.setCell(x, y, c)
}

// Keypress is the input event handed over by the windowing collaborator.
type Keypress struct {
	Sym  uint32
	Text string
}

// Key translates a keypress into bytes for the child.
func (t *Terminal) Key(k Keypress) {
	// TODO: translate arrows and function keys from Sym once the
	// window side reports them.
	if k.Text == "" {
		slog.Debug("unhandled key", "sym", k.Sym)
		return
	}
	t.Queue([]byte(k.Text))
}

// Control implements the parser callback for C0 and stray C1 bytes.
func (t *Terminal) Control(c byte) {
	switch c {
	case BEL:
		// swallow
	case BS:
		x, y := t.g.cursor()
		t.g.move(x-1, y)
	case CR:
		t.g.carriageReturn()
	case LF, FF: // libvte treats lf and ff the same, so we do too
		t.g.lineFeed()
	case TAB:
		t.g.tab(t.stamp(' '))
	default:
		slog.Debug("unhandled control", "c", fmt.Sprintf("%02x", c))
	}
}

func (t *Terminal) Escape(command string) {
	switch command {
	case string(rune(ESC_RIS)):
		t.Reset()
	default:
		slog.Debug("ignoring ESC", "command", command)
	}
}

func (t *Terminal) CSI(command string, args []int) {
	if len(command) == 1 && command[0] == CSI_SGR {
		t.curF = applySGR(t.curF, t.defF, args)
		return
	}
	slog.Debug("unimplemented CSI code", "command", command, "args", args)
}

func (t *Terminal) DCS(command string, args []int, payload string) {
	slog.Debug("ignoring DCS", "command", command, "args", args, "payload", payload)
}

func (t *Terminal) OSC(payload string) {
	slog.Debug("ignoring OSC", "payload", payload)
}
