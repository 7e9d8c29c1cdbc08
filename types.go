package xopp

// Tool is the drawing tool a stroke was made with.
type Tool uint8

const (
	ToolPen Tool = iota
	ToolHighlighter
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolHighlighter:
		return "highlighter"
	case ToolEraser:
		return "eraser"
	}
	return "invalid"
}

func parseTool(b []byte) (Tool, bool) {
	switch string(b) {
	case "pen":
		return ToolPen, true
	case "highlighter":
		return ToolHighlighter, true
	case "eraser":
		return ToolEraser, true
	}
	return ToolPen, false
}

// CapStyle is the stroke end cap.
type CapStyle uint8

const (
	CapButt CapStyle = iota
	CapRound
	CapSquare
)

func (c CapStyle) String() string {
	switch c {
	case CapButt:
		return "butt"
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	}
	return "invalid"
}

func parseCapStyle(b []byte) (CapStyle, bool) {
	switch string(b) {
	case "butt":
		return CapButt, true
	case "round":
		return CapRound, true
	case "square":
		return CapSquare, true
	}
	return CapRound, false
}

// LineStyle is a stroke dash pattern. The empty value means unset.
type LineStyle string

const (
	LineStyleSolid   LineStyle = "plain"
	LineStyleDash    LineStyle = "dash"
	LineStyleDashDot LineStyle = "dashdot"
	LineStyleDot     LineStyle = "dot"
)

func parseLineStyle(b []byte) (LineStyle, bool) {
	switch s := LineStyle(b); s {
	case LineStyleSolid, LineStyleDash, LineStyleDashDot, LineStyleDot:
		return s, true
	}
	return "", false
}

// BackgroundDomain says where a pixmap or pdf background lives.
type BackgroundDomain uint8

const (
	DomainAbsolute BackgroundDomain = iota
	DomainAttach
	DomainClone
)

func (d BackgroundDomain) String() string {
	switch d {
	case DomainAbsolute:
		return "absolute"
	case DomainAttach:
		return "attach"
	case DomainClone:
		return "clone"
	}
	return "invalid"
}

func parseBackgroundDomain(b []byte) (BackgroundDomain, bool) {
	switch string(b) {
	case "absolute":
		return DomainAbsolute, true
	case "attach":
		return DomainAttach, true
	case "clone":
		return DomainClone, true
	}
	return DomainAbsolute, false
}

// Color is a 32-bit RGBA value laid out as 0xRRGGBBAA.
type Color uint32

func (c Color) String() string {
	const hex = "0123456789abcdef"
	b := make([]byte, 9)
	b[0] = '#'
	for i := 0; i < 8; i++ {
		b[8-i] = hex[(c>>(4*i))&0xf]
	}
	return string(b)
}

const (
	ColorBlack Color = 0x000000ff
	ColorWhite Color = 0xffffffff
)

// PageType describes a solid background: the ruling format plus the
// free-form config string carried alongside it.
type PageType struct {
	Format string
	Config string
}

// Point is one stroke coordinate in document units.
type Point struct {
	X, Y float64
}

// StrokeAttrs carries everything a stroke opening tag declares. The point
// and pressure payload follows separately.
type StrokeAttrs struct {
	Tool           Tool
	Color          Color
	Width          float64
	Fill           int // -1 when not filled
	CapStyle       CapStyle
	LineStyle      LineStyle // empty when unset
	AudioFilename  string
	AudioTimestamp uint64 // milliseconds into the recording
}

// TextAttrs carries the attributes of a text element.
type TextAttrs struct {
	Font           string
	Size           float64
	X, Y           float64
	Color          Color
	AudioFilename  string
	AudioTimestamp uint64
}
