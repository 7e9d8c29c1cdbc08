package xopp

import (
	"encoding/base64"
	"strconv"
)

// Typed attribute extraction. Numeric values always parse with '.' as the
// decimal separator regardless of the process locale; strconv guarantees
// that.

func (p *Parser) attrDouble(node *Node, name string) (float64, bool) {
	v, ok := node.Attr(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil {
		p.warn("could not parse attribute",
			"tag", string(node.Name), "attr", name, "value", string(v))
		return 0, false
	}
	return f, true
}

func (p *Parser) attrInt(node *Node, name string) (int, bool) {
	v, ok := node.Attr(name)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(string(v))
	if err != nil {
		p.warn("could not parse attribute",
			"tag", string(node.Name), "attr", name, "value", string(v))
		return 0, false
	}
	return i, true
}

func (p *Parser) attrUint(node *Node, name string) (uint64, bool) {
	v, ok := node.Attr(name)
	if !ok {
		return 0, false
	}
	u, err := strconv.ParseUint(string(v), 10, 64)
	if err != nil {
		p.warn("could not parse attribute",
			"tag", string(node.Name), "attr", name, "value", string(v))
		return 0, false
	}
	return u, true
}

func (p *Parser) attrDoubleMandatory(node *Node, name string, def float64, warn bool) float64 {
	if _, ok := node.Attr(name); !ok {
		if warn {
			p.warn("attribute missing, using default",
				"tag", string(node.Name), "attr", name)
		}
		return def
	}
	v, ok := p.attrDouble(node, name)
	if !ok {
		return def
	}
	return v
}

func (p *Parser) attrIntMandatory(node *Node, name string, def int, warn bool) int {
	if _, ok := node.Attr(name); !ok {
		if warn {
			p.warn("attribute missing, using default",
				"tag", string(node.Name), "attr", name)
		}
		return def
	}
	v, ok := p.attrInt(node, name)
	if !ok {
		return def
	}
	return v
}

func (p *Parser) attrUintMandatory(node *Node, name string, def uint64, warn bool) uint64 {
	if _, ok := node.Attr(name); !ok {
		if warn {
			p.warn("attribute missing, using default",
				"tag", string(node.Name), "attr", name)
		}
		return def
	}
	v, ok := p.attrUint(node, name)
	if !ok {
		return def
	}
	return v
}

func (p *Parser) attrStringMandatory(node *Node, name, def string, warn bool) string {
	v, ok := node.Attr(name)
	if !ok {
		if warn {
			p.warn("attribute missing, using default",
				"tag", string(node.Name), "attr", name)
		}
		return def
	}
	return string(v)
}

// attrColorMandatory reads the color attribute, falling back to def when it
// is absent or unparseable.
func (p *Parser) attrColorMandatory(node *Node, def Color, background bool) Color {
	v, ok := node.Attr("color")
	if !ok {
		p.warn("color attribute missing, using default", "tag", string(node.Name))
		return def
	}
	c, ok := parseColor(v, background)
	if !ok {
		p.warn("could not parse color", "tag", string(node.Name), "value", string(v))
		return def
	}
	return c
}

// decodeBase64 decodes an image or teximage payload. The writer wraps the
// data in whitespace, which the decoder does not tolerate, so it is
// stripped first.
func decodeBase64(b []byte) ([]byte, error) {
	filtered := make([]byte, 0, len(b))
	for _, c := range b {
		if !isWhitespace(c) {
			filtered = append(filtered, c)
		}
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(filtered)))
	n, err := base64.StdEncoding.Decode(out, filtered)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
