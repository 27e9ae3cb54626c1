package vt

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"syscall"
	"unicode"
)

// Queue stages bytes for delivery to the child. Nothing is written
// until the caller's poll loop reports the descriptor writable.
func (t *Terminal) Queue(p []byte) {
	t.wq.push(p)
}

// NeedsWrite reports whether queued bytes are waiting, so the poll
// loop knows to ask for writability.
func (t *Terminal) NeedsWrite() bool {
	return t.wq.hasBlock()
}

func transientIOErr(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR)
}

// OnReadable drains one read's worth of bytes from the pty and runs
// them through the decoder and parser. Runes the parser declines are
// stamped onto the grid if printable and dropped otherwise.
func (t *Terminal) OnReadable() {
	n, err := t.ptyR.Read(t.readBuf)
	if err != nil {
		if transientIOErr(err) || errors.Is(err, io.EOF) {
			return
		}
		slog.Error("couldn't read from pty", "err", err)
		return
	}
	if n == 0 {
		return
	}

	p := t.readBuf[:n]
	t.rdHist.write(p)

	t.dec.feed(p, func(r rune) {
		if t.p.Consume(r) {
			return
		}
		if unicode.IsPrint(r) {
			t.put(r)
			return
		}
		slog.Debug("dropping unprintable rune", "r", fmt.Sprintf("%04x", r))
	})
}

// OnWritable pushes the head of the write queue at the pty. Short
// writes leave the remainder queued for the next round.
func (t *Terminal) OnWritable() {
	if !t.wq.hasBlock() {
		slog.Debug("pty writable with nothing queued")
		return
	}

	blk := t.wq.headBlock()
	n, err := t.ptyW.Write(blk)
	if n > 0 {
		t.wrHist.write(blk[:n])
		t.wq.shift(n)
	}
	if err != nil && !transientIOErr(err) {
		slog.Error("couldn't write to pty", "err", err)
	}
}
