package vt

import (
	"fmt"
	"strings"
)

// writeQueue buffers bytes bound for the child in fixed-size blocks so
// a short pty write only costs a start-offset bump, not a reslice of
// one big buffer.
type writeQueue struct {
	blockSize int
	blocks    [][]byte

	// start is the read offset into blocks[0].
	start int
}

func newWriteQueue(blockSize int) *writeQueue {
	return &writeQueue{
		blockSize: blockSize,
		blocks:    [][]byte{make([]byte, 0, blockSize)},
	}
}

// push appends p, topping up the tail block before opening new ones.
func (q *writeQueue) push(p []byte) {
	for len(p) > 0 {
		tail := q.blocks[len(q.blocks)-1]
		if len(tail) == q.blockSize {
			tail = make([]byte, 0, q.blockSize)
			q.blocks = append(q.blocks, tail)
		}
		n := q.blockSize - len(tail)
		if n > len(p) {
			n = len(p)
		}
		q.blocks[len(q.blocks)-1] = append(tail, p[:n]...)
		p = p[n:]
	}
}

func (q *writeQueue) hasBlock() bool {
	return len(q.blocks) > 1 || q.start < len(q.blocks[0])
}

// headBlock returns the unwritten portion of the oldest block. Callers
// must not retain it across a shift.
func (q *writeQueue) headBlock() []byte {
	return q.blocks[0][q.start:]
}

// shift consumes n bytes from the head block after a successful write.
func (q *writeQueue) shift(n int) {
	q.start += n
	if q.start < len(q.blocks[0]) {
		return
	}
	if len(q.blocks) == 1 {
		// drained; recycle rather than reallocate
		q.blocks[0] = q.blocks[0][:0]
	} else {
		q.blocks = q.blocks[1:]
	}
	q.start = 0
}

// history is a byte ring recording recent pty traffic for debug dumps.
// It is observational only and never flows back into the stream.
type history struct {
	data []byte
	size int
}

func newHistory(size int) *history {
	return &history{size: size}
}

func (h *history) write(p []byte) {
	if len(p) >= h.size {
		h.data = append(h.data[:0], p[len(p)-h.size:]...)
		return
	}
	if over := len(h.data) + len(p) - h.size; over > 0 {
		h.data = append(h.data[:0], h.data[over:]...)
	}
	h.data = append(h.data, p...)
}

// dump renders the ring as paired rows, printable characters above
// their hex values, 32 bytes per pair.
func (h *history) dump() string {
	var b strings.Builder
	for off := 0; off < len(h.data); off += 32 {
		end := off + 32
		if end > len(h.data) {
			end = len(h.data)
		}
		chunk := h.data[off:end]
		for _, c := range chunk {
			if c >= 0x20 && c < 0x7f {
				fmt.Fprintf(&b, " %c", c)
			} else {
				b.WriteString(" .")
			}
		}
		b.WriteByte('\n')
		for _, c := range chunk {
			fmt.Fprintf(&b, "%02x", c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
