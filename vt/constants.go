package vt

const (
	DEF_ROWS = 25
	DEF_COLS = 80
)

const (
	MAX_EXPECTED_INTERMEDIATE = 10
	MAX_EXPECTED_PARAMS       = 16
)

const (
	BEL = 0x07 // ^G Bell
	BS  = 0x08 // ^H Backspace
	TAB = 0x09 // ^I Tab \t
	LF  = 0x0a // ^J Line feed \n
	VT  = 0x0b // ^K Vertical tab \v
	FF  = 0x0c // ^L Form feed \f
	CR  = 0x0d // ^M Carriage return \r
	ESC = 0x1b
	DEL = 0x7f
)

const (
	ESC_CSI = '['
	ESC_OSC = ']'
	ESC_DCS = 'P'
	ESC_ST  = '\\'
	ESC_RIS = 'c' // full reset
)

// CSI final bytes the sink knows about. Everything else is logged.
const (
	CSI_SGR = 'm' // select graphic rendition
)

// CSI SGR format codes
const (
	SGR_RESET            = 0
	SGR_BOLD             = 1
	SGR_FAINT            = 2
	SGR_ITALIC           = 3
	SGR_UNDERLINE        = 4
	SGR_BLINK            = 5
	SGR_INVERSE          = 7
	SGR_INVISIBLE        = 8
	SGR_STRIKEOUT        = 9
	SGR_DBL_UNDERLINE    = 21
	SGR_INTENSITY_NORMAL = 22
	SGR_ITALIC_OFF       = 23
	SGR_UNDERLINE_OFF    = 24
	SGR_BLINK_OFF        = 25
	SGR_INVERSE_OFF      = 27
	SGR_INVISIBLE_OFF    = 28
	SGR_STRIKEOUT_OFF    = 29
	SGR_SET_FG           = 38
	SGR_FG_DEF           = 39
	SGR_SET_BG           = 48
	SGR_BG_DEF           = 49
)

// Tab stops are fixed every 8 columns.
const TAB_WIDTH = 8
