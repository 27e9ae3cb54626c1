package vt

import "unicode/utf8"

// decoder turns a byte stream into runes across read boundaries. Bytes
// that can't start or finish a valid sequence come out as U+FFFD, one
// replacement per rejected byte, matching utf8.DecodeRune.
type decoder struct {
	pend []byte
}

func (d *decoder) feed(p []byte, emit func(rune)) {
	buf := p
	if len(d.pend) > 0 {
		buf = append(d.pend, p...)
	}

	for len(buf) > 0 {
		if !utf8.FullRune(buf) {
			break
		}
		r, n := utf8.DecodeRune(buf)
		emit(r)
		buf = buf[n:]
	}

	// A trailing partial sequence (at most 3 bytes) waits for the
	// next read.
	d.pend = append(d.pend[:0], buf...)
}
