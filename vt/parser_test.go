package vt

import (
	"slices"
	"testing"
)

type csiCall struct {
	command string
	args    []int
}

type dcsCall struct {
	command string
	args    []int
	payload string
}

// recorder captures everything the parser dispatches so tests can
// compare against expected event streams.
type recorder struct {
	controls []byte
	escapes  []string
	csis     []csiCall
	dcss     []dcsCall
	oscs     []string
}

func newRecorder() *recorder {
	return &recorder{}
}

func (d *recorder) Control(c byte) {
	d.controls = append(d.controls, c)
}

func (d *recorder) Escape(command string) {
	d.escapes = append(d.escapes, command)
}

func (d *recorder) CSI(command string, args []int) {
	d.csis = append(d.csis, csiCall{command, slices.Clone(args)})
}

func (d *recorder) DCS(command string, args []int, payload string) {
	d.dcss = append(d.dcss, dcsCall{command, slices.Clone(args), payload})
}

func (d *recorder) OSC(payload string) {
	d.oscs = append(d.oscs, payload)
}

func feed(p *parser, input string) []rune {
	var printed []rune
	for _, r := range input {
		if !p.Consume(r) {
			printed = append(printed, r)
		}
	}
	return printed
}

func TestCSIDispatch(t *testing.T) {
	cases := []struct {
		input       string
		wantCommand string
		wantArgs    []int
	}{
		{"\x1b[m", "m", []int{}},
		{"\x1b[0m", "m", []int{0}},
		{"\x1b[31;1m", "m", []int{31, 1}},
		{"\x1b[38;5;200m", "m", []int{38, 5, 200}},
		{"\x1b[?1;2;3h", "?h", []int{1, 2, 3}},
		{"\x1b[10;20H", "H", []int{10, 20}},
		{"\x1b[ q", " q", []int{}},
		{"\x1b[2 q", " q", []int{2}},
		{"\u009b31m", "m", []int{31}},
	}

	for i, c := range cases {
		d := newRecorder()
		p := newParser(d)
		feed(p, c.input)
		if len(d.csis) != 1 {
			t.Errorf("%d: Got %d CSI dispatches, want 1", i, len(d.csis))
			continue
		}
		got := d.csis[0]
		if got.command != c.wantCommand || !slices.Equal(got.args, c.wantArgs) {
			t.Errorf("%d: Got (%q, %v), want (%q, %v)", i, got.command, got.args, c.wantCommand, c.wantArgs)
		}
	}
}

func TestLazyParams(t *testing.T) {
	// Parameters only exist once a digit opens them. A separator with
	// no digits before it contributes nothing, so the consumer sees
	// exactly the numbers that were on the wire.
	cases := []struct {
		input    string
		wantArgs []int
	}{
		{"\x1b[m", []int{}},
		{"\x1b[;m", []int{}},
		{"\x1b[;5m", []int{5}},
		{"\x1b[1;;3m", []int{1, 3}},
		{"\x1b[10;m", []int{10}},
		{"\x1b[007m", []int{7}},
	}

	for i, c := range cases {
		d := newRecorder()
		p := newParser(d)
		feed(p, c.input)
		if len(d.csis) != 1 {
			t.Errorf("%d: Got %d CSI dispatches, want 1", i, len(d.csis))
			continue
		}
		if !slices.Equal(d.csis[0].args, c.wantArgs) {
			t.Errorf("%d: Got %v, want %v", i, d.csis[0].args, c.wantArgs)
		}
	}
}

func TestCSIIgnore(t *testing.T) {
	// A colon poisons the sequence; everything up to the final byte is
	// swallowed with no dispatch.
	d := newRecorder()
	p := newParser(d)
	printed := feed(p, "\x1b[1:2mA")

	if len(d.csis) != 0 {
		t.Errorf("Got %d CSI dispatches, want 0", len(d.csis))
	}
	if !slices.Equal(printed, []rune{'A'}) {
		t.Errorf("Got printed %q, want %q", string(printed), "A")
	}
}

func TestControlsInsideCSI(t *testing.T) {
	// C0 controls execute from within a control sequence without
	// disturbing the accumulated parameters.
	d := newRecorder()
	p := newParser(d)
	feed(p, "\x1b[3\r4m")

	if !slices.Equal(d.controls, []byte{CR}) {
		t.Errorf("Got controls %v, want %v", d.controls, []byte{CR})
	}
	if len(d.csis) != 1 || !slices.Equal(d.csis[0].args, []int{34}) {
		t.Errorf("Got %v, want CSI m with args [34]", d.csis)
	}
}

func TestCancelSequence(t *testing.T) {
	d := newRecorder()
	p := newParser(d)
	printed := feed(p, "\x1b[31\x18mA")

	if !slices.Equal(d.controls, []byte{0x18}) {
		t.Errorf("Got controls %v, want %v", d.controls, []byte{0x18})
	}
	if len(d.csis) != 0 {
		t.Errorf("Got %d CSI dispatches, want 0", len(d.csis))
	}
	if !slices.Equal(printed, []rune{'m', 'A'}) {
		t.Errorf("Got printed %q, want %q", string(printed), "mA")
	}
}

func TestEscapeDispatch(t *testing.T) {
	cases := []struct {
		input       string
		wantEscapes []string
	}{
		{"\x1bc", []string{"c"}},
		{"\x1b(B", []string{"(B"}},
		{"\x1b#8", []string{"#8"}},
		{"\x1b\x1bc", []string{"c"}},
	}

	for i, c := range cases {
		d := newRecorder()
		p := newParser(d)
		feed(p, c.input)
		if !slices.Equal(d.escapes, c.wantEscapes) {
			t.Errorf("%d: Got %v, want %v", i, d.escapes, c.wantEscapes)
		}
	}
}

func TestOSCDispatch(t *testing.T) {
	cases := []struct {
		input    string
		wantOSCs []string
	}{
		{"\x1b]0;some title\x1b\\", []string{"0;some title"}},
		{"\u009d0;t\u009c", []string{"0;t"}},
		{"\x1b]8;;https://example.com\x1b\\", []string{"8;;https://example.com"}},
	}

	for i, c := range cases {
		d := newRecorder()
		p := newParser(d)
		feed(p, c.input)
		if !slices.Equal(d.oscs, c.wantOSCs) {
			t.Errorf("%d: Got %v, want %v", i, d.oscs, c.wantOSCs)
		}
	}
}

func TestDCSDispatch(t *testing.T) {
	cases := []struct {
		input       string
		wantCommand string
		wantArgs    []int
		wantPayload string
	}{
		{"\x1bPqdata\x1b\\", "", []int{}, "qdata"},
		{"\x1bP1;2+q7265\x1b\\", "+", []int{1, 2}, "q7265"},
		{"\x1bP?1$r\x1b\\", "?$", []int{1}, "r"},
	}

	for i, c := range cases {
		d := newRecorder()
		p := newParser(d)
		feed(p, c.input)
		if len(d.dcss) != 1 {
			t.Errorf("%d: Got %d DCS dispatches, want 1", i, len(d.dcss))
			continue
		}
		got := d.dcss[0]
		if got.command != c.wantCommand || !slices.Equal(got.args, c.wantArgs) || got.payload != c.wantPayload {
			t.Errorf("%d: Got (%q, %v, %q), want (%q, %v, %q)", i,
				got.command, got.args, got.payload, c.wantCommand, c.wantArgs, c.wantPayload)
		}
	}
}

func TestStrayC1Controls(t *testing.T) {
	d := newRecorder()
	p := newParser(d)
	feed(p, "\u0085\u008d")

	if !slices.Equal(d.controls, []byte{0x85, 0x8d}) {
		t.Errorf("Got controls %v, want stray C1 bytes", d.controls)
	}
}

func TestSOSConsumed(t *testing.T) {
	d := newRecorder()
	p := newParser(d)
	printed := feed(p, "\x1bXsecret\x1b\\A")

	if len(d.oscs)+len(d.csis)+len(d.dcss) != 0 {
		t.Errorf("Got dispatches from SOS payload, want none")
	}
	if !slices.Equal(printed, []rune{'A'}) {
		t.Errorf("Got printed %q, want %q", string(printed), "A")
	}
}

func TestDeleteIgnoredEverywhere(t *testing.T) {
	d := newRecorder()
	p := newParser(d)
	feed(p, "\x1b[3\x7f1m")

	if len(d.csis) != 1 || !slices.Equal(d.csis[0].args, []int{31}) {
		t.Errorf("Got %v, want CSI m with args [31]", d.csis)
	}
	if len(d.controls) != 0 {
		t.Errorf("Got controls %v, want none", d.controls)
	}
}

func TestPrintablePassthrough(t *testing.T) {
	d := newRecorder()
	p := newParser(d)
	printed := feed(p, "hé→")

	if !slices.Equal(printed, []rune("hé→")) {
		t.Errorf("Got printed %q, want %q", string(printed), "hé→")
	}
}

func TestChunkedDelivery(t *testing.T) {
	// The same stream must produce the same events no matter how the
	// reads split it.
	input := "\x1b[38;5;200mX\x1b]0;t\x1b\\"

	whole := newRecorder()
	p := newParser(whole)
	feed(p, input)

	split := newRecorder()
	p = newParser(split)
	for _, r := range input {
		feed(p, string(r))
	}

	if !slices.Equal(whole.oscs, split.oscs) || len(whole.csis) != len(split.csis) {
		t.Errorf("Got differing dispatches between whole and split delivery")
	}
	if !slices.Equal(whole.csis[0].args, split.csis[0].args) {
		t.Errorf("Got %v, want %v", split.csis[0].args, whole.csis[0].args)
	}
}
