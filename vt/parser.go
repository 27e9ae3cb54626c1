package vt

// Escape sequence parser modeled on the DEC ANSI state machine described
// at http://vt100.net/emu/dec_ansi_parser. String payloads (OSC, DCS) are
// accumulated and handed over whole; there are no pluggable sub-parsers.

type pState uint8

const (
	STATE_GROUND pState = iota
	STATE_ESCAPE
	STATE_ESCAPE_INTERMEDIATE
	STATE_CSI_ENTRY
	STATE_CSI_PARAM
	STATE_CSI_INTERMEDIATE
	STATE_CSI_IGNORE
	STATE_DCS_ENTRY
	STATE_DCS_PARAM
	STATE_DCS_INTERMEDIATE
	STATE_DCS_PASSTHROUGH
	STATE_DCS_IGNORE
	STATE_OSC_STRING
	STATE_SOS_PM_APC_STRING
)

var STATE_NAMES = map[pState]string{
	STATE_GROUND:              "GROUND",
	STATE_ESCAPE:              "ESCAPE",
	STATE_ESCAPE_INTERMEDIATE: "ESCAPE_INTERMEDIATE",
	STATE_CSI_ENTRY:           "CSI_ENTRY",
	STATE_CSI_PARAM:           "CSI_PARAM",
	STATE_CSI_INTERMEDIATE:    "CSI_INTERMEDIATE",
	STATE_CSI_IGNORE:          "CSI_IGNORE",
	STATE_DCS_ENTRY:           "DCS_ENTRY",
	STATE_DCS_PARAM:           "DCS_PARAM",
	STATE_DCS_INTERMEDIATE:    "DCS_INTERMEDIATE",
	STATE_DCS_PASSTHROUGH:     "DCS_PASSTHROUGH",
	STATE_DCS_IGNORE:          "DCS_IGNORE",
	STATE_OSC_STRING:          "OSC_STRING",
	STATE_SOS_PM_APC_STRING:   "SOS_PM_APC_STRING",
}

// Actions receives the structured events the parser extracts from the
// byte stream. Implementations must not retain the args slice.
type Actions interface {
	// Control is called for C0 and stray C1 controls.
	Control(c byte)
	// Escape is called with intermediates plus the final byte.
	Escape(command string)
	// CSI is called with private markers/intermediates plus the final
	// byte in command. A sequence with no digits yields empty args.
	CSI(command string, args []int)
	// DCS is called when a device control string terminates. The
	// passthrough payload begins with the final byte that opened it.
	DCS(command string, args []int, payload string)
	// OSC is called with the accumulated string when it terminates.
	OSC(payload string)
}

type parser struct {
	state   pState
	actions Actions

	command       []rune
	payload       []rune
	args          []int
	argInProgress bool
}

func newParser(a Actions) *parser {
	return &parser{
		state:   STATE_GROUND,
		actions: a,
		command: make([]rune, 0, MAX_EXPECTED_INTERMEDIATE),
		payload: make([]rune, 0),
		args:    make([]int, 0, MAX_EXPECTED_PARAMS),
	}
}

func (p *parser) clear() {
	p.command = p.command[:0]
	p.payload = p.payload[:0]
	p.args = p.args[:0]
	p.argInProgress = false
}

// Consume feeds the parser one unicode scalar. It returns false when the
// scalar should be printed by the caller instead.
func (p *parser) Consume(r rune) bool {
	if p.state == STATE_GROUND {
		if r >= 0x20 && r < 0x80 {
			return false
		}
		if r >= 0xA0 {
			return false
		}
	}
	p.handle(r)
	return true
}

// transition moves to the next state, running the exit action of the
// current state, then during, then the entry action of the new state.
func (p *parser) transition(next pState, during func()) {
	switch p.state {
	case STATE_OSC_STRING:
		p.actions.OSC(string(p.payload))
	case STATE_DCS_PASSTHROUGH:
		p.actions.DCS(string(p.command), p.args, string(p.payload))
	}

	if during != nil {
		during()
	}

	switch next {
	case STATE_ESCAPE, STATE_CSI_ENTRY, STATE_DCS_ENTRY, STATE_OSC_STRING:
		p.clear()
	}

	p.state = next
}

func (p *parser) handle(r rune) {
	// A handful of codes behave the same regardless of state. Only
	// single-byte C1 scalars participate; decoded text >= 0xA0 never
	// reaches the dispatch switch from GROUND and passes through the
	// string states untouched.
	switch r {
	case 0x1B:
		p.transition(STATE_ESCAPE, nil)
		return
	case 0x90:
		p.transition(STATE_DCS_ENTRY, nil)
		return
	case 0x9B:
		p.transition(STATE_CSI_ENTRY, nil)
		return
	case 0x9C:
		p.transition(STATE_GROUND, nil)
		return
	case 0x9D:
		p.transition(STATE_OSC_STRING, nil)
		return
	case 0x98, 0x9E, 0x9F:
		p.transition(STATE_SOS_PM_APC_STRING, nil)
		return
	case 0x18, 0x1A,
		0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87,
		0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F,
		0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x99, 0x9A:
		p.transition(STATE_GROUND, func() { p.actions.Control(byte(r)) })
		return
	case 0x7F:
		return
	}

	// C0 controls not claimed above follow uniform per-state rules.
	if r < 0x20 {
		switch p.state {
		case STATE_GROUND, STATE_ESCAPE, STATE_ESCAPE_INTERMEDIATE,
			STATE_CSI_ENTRY, STATE_CSI_INTERMEDIATE, STATE_CSI_PARAM,
			STATE_CSI_IGNORE:
			p.actions.Control(byte(r))
		case STATE_DCS_PASSTHROUGH:
			p.payload = append(p.payload, r)
		}
		return
	}

	switch p.state {
	case STATE_ESCAPE:
		switch r {
		case 0x50:
			p.transition(STATE_DCS_ENTRY, nil)
			return
		case 0x5B:
			p.transition(STATE_CSI_ENTRY, nil)
			return
		case 0x58, 0x5E, 0x5F:
			p.transition(STATE_SOS_PM_APC_STRING, nil)
			return
		case 0x5D:
			p.transition(STATE_OSC_STRING, nil)
			return
		}
		p.escapeIntermediate(r)
	case STATE_ESCAPE_INTERMEDIATE:
		p.escapeIntermediate(r)
	case STATE_CSI_ENTRY:
		if r > 0x3B && r < 0x40 {
			p.transition(STATE_CSI_PARAM, func() { p.command = append(p.command, r) })
			return
		}
		p.csiParam(r)
	case STATE_CSI_PARAM:
		p.csiParam(r)
	case STATE_CSI_INTERMEDIATE:
		p.csiIntermediate(r)
	case STATE_CSI_IGNORE:
		if r >= 0x40 {
			p.transition(STATE_GROUND, nil)
		}
	case STATE_DCS_ENTRY:
		if r > 0x3B && r < 0x40 {
			p.transition(STATE_DCS_PARAM, func() { p.command = append(p.command, r) })
			return
		}
		p.dcsParam(r)
	case STATE_DCS_PARAM:
		p.dcsParam(r)
	case STATE_DCS_INTERMEDIATE:
		p.dcsIntermediate(r)
	case STATE_DCS_PASSTHROUGH:
		p.payload = append(p.payload, r)
	case STATE_DCS_IGNORE:
		// consumed until ST
	case STATE_OSC_STRING:
		p.payload = append(p.payload, r)
	case STATE_SOS_PM_APC_STRING:
		// consumed and dropped until a string terminator
	}
}

func (p *parser) escapeIntermediate(r rune) {
	if r < 0x30 {
		p.transition(STATE_ESCAPE_INTERMEDIATE, func() { p.command = append(p.command, r) })
		return
	}
	p.transition(STATE_GROUND, func() {
		p.command = append(p.command, r)
		p.actions.Escape(string(p.command))
	})
}

func (p *parser) csiParam(r rune) {
	if p.paramParse(r) {
		p.transition(STATE_CSI_PARAM, nil)
		return
	}
	p.csiIntermediate(r)
}

func (p *parser) csiIntermediate(r rune) {
	p.command = append(p.command, r)
	if r >= 0x40 {
		p.transition(STATE_GROUND, func() { p.actions.CSI(string(p.command), p.args) })
		return
	}
	if r < 0x30 {
		p.transition(STATE_CSI_INTERMEDIATE, nil)
		return
	}
	p.transition(STATE_CSI_IGNORE, nil)
}

func (p *parser) dcsParam(r rune) {
	if p.paramParse(r) {
		p.transition(STATE_DCS_PARAM, nil)
		return
	}
	p.dcsIntermediate(r)
}

func (p *parser) dcsIntermediate(r rune) {
	if r >= 0x40 {
		p.transition(STATE_DCS_PASSTHROUGH, func() { p.payload = append(p.payload, r) })
		return
	}
	if r < 0x30 {
		p.transition(STATE_DCS_INTERMEDIATE, func() { p.command = append(p.command, r) })
		return
	}
	p.transition(STATE_DCS_IGNORE, nil)
}

// paramParse accumulates numeric parameters. A digit opens a new
// parameter lazily, so a sequence with no digits leaves args empty and
// the consumer decides the defaults.
func (p *parser) paramParse(r rune) bool {
	if r == ';' {
		p.argInProgress = false
		return true
	}
	if r >= '0' && r <= '9' {
		if !p.argInProgress {
			p.args = append(p.args, 0)
			p.argInProgress = true
		}
		p.args[len(p.args)-1] = p.args[len(p.args)-1]*10 + int(r-'0')
		return true
	}
	return false
}
