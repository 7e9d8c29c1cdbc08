package xopp

// Predefined stroke color names, as written by classic Xournal.
var predefColors = map[string]Color{
	"black":      0x000000ff,
	"blue":       0x3333ccff,
	"red":        0xff0000ff,
	"green":      0x008000ff,
	"gray":       0x808080ff,
	"lightblue":  0x00c0ffff,
	"lightgreen": 0x00ff00ff,
	"magenta":    0xff00ffff,
	"orange":     0xff8000ff,
	"yellow":     0xffff00ff,
	"white":      0xffffffff,
}

// Background color names get softer translations than the stroke palette.
var predefBgColors = map[string]Color{
	"blue":   0xa0e8ffff,
	"pink":   0xffc0d4ff,
	"green":  0x80ffc0ff,
	"orange": 0xffc080ff,
	"yellow": 0xffff80ff,
}

// parseColor accepts #RRGGBB, #RRGGBBAA and the predefined color names. A
// hex value without an alpha channel gets alpha 0xff. With background set,
// the background-specific name translations are consulted as a last resort.
func parseColor(b []byte, background bool) (Color, bool) {
	if len(b) > 0 && b[0] == '#' {
		return parseHexColor(b[1:])
	}
	if c, ok := predefColors[string(b)]; ok {
		return c, true
	}
	if background {
		if c, ok := predefBgColors[string(b)]; ok {
			return c, true
		}
	}
	return 0, false
}

func parseHexColor(b []byte) (Color, bool) {
	if len(b) != 6 && len(b) != 8 {
		return 0, false
	}
	var v uint32
	for _, c := range b {
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return 0, false
		}
		v = v<<4 | d
	}
	if len(b) == 6 {
		v = v<<8 | 0xff
	}
	return Color(v), true
}
