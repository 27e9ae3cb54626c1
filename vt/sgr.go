package vt

import "log/slog"

// applySGR interprets the parameters of a CSI m sequence against the
// current pen. def carries the configured default colors. An empty
// parameter list is a full reset, per the xterm convention.
func applySGR(cur, def cell, args []int) cell {
	if len(args) == 0 {
		return def
	}

	// 256-color selections arrive as a full triplet. Out-of-range
	// palette indexes fall back to the defaults.
	if len(args) == 3 && args[0] == SGR_SET_FG && args[1] == 5 {
		if n := args[2]; n >= 0 && n < 256 {
			cur.fg = uint8(n)
		} else {
			cur.fg = def.fg
		}
		return cur
	}
	if len(args) == 3 && args[0] == SGR_SET_BG && args[1] == 5 {
		if n := args[2]; n >= 0 && n < 256 {
			cur.bg = uint8(n)
		} else {
			cur.bg = def.bg
		}
		return cur
	}

	for _, a := range args {
		switch a {
		case SGR_RESET:
			cur = def
		case SGR_BOLD:
			cur.setAttr(ATTR_BOLD, true)
		case SGR_FAINT:
			cur.setAttr(ATTR_BOLD, false)
		case SGR_ITALIC:
			cur.setAttr(ATTR_ITALIC, true)
		case SGR_UNDERLINE, SGR_DBL_UNDERLINE:
			cur.setAttr(ATTR_UNDERLINE, true)
		case SGR_INVERSE:
			cur.setAttr(ATTR_INVERSE, true)
		case SGR_INTENSITY_NORMAL:
			cur.setAttr(ATTR_BOLD, false)
		case SGR_ITALIC_OFF:
			cur.setAttr(ATTR_ITALIC, false)
		case SGR_UNDERLINE_OFF:
			cur.setAttr(ATTR_UNDERLINE, false)
		case SGR_INVERSE_OFF:
			cur.setAttr(ATTR_INVERSE, false)
		case SGR_BLINK, SGR_INVISIBLE, SGR_STRIKEOUT,
			SGR_BLINK_OFF, SGR_INVISIBLE_OFF, SGR_STRIKEOUT_OFF:
			// accepted, unsupported
		case SGR_FG_DEF:
			cur.fg = def.fg
		case SGR_BG_DEF:
			cur.bg = def.bg
		default:
			switch {
			case a >= 30 && a < 38:
				cur.fg = uint8(a - 30)
			case a >= 40 && a < 48:
				cur.bg = uint8(a - 40)
			case a >= 90 && a < 98:
				cur.fg = uint8(8 + a - 90)
			case a >= 100 && a < 108:
				cur.bg = uint8(8 + a - 100)
			default:
				slog.Debug("unimplemented SGR parameter", "param", a)
			}
		}
	}

	return cur
}
