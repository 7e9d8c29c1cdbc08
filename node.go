package xopp

// NodeKind discriminates the variants of Node.
type NodeKind uint8

const (
	NodeOpening NodeKind = iota // <name attr="value"> or <name/>
	NodeClosing                 // </name>
	NodeText                    // character data between tags
	NodeEnd                     // end of input
)

func (k NodeKind) String() string {
	switch k {
	case NodeOpening:
		return "opening"
	case NodeClosing:
		return "closing"
	case NodeText:
		return "text"
	case NodeEnd:
		return "end"
	}
	return "invalid"
}

// Attr is a single name="value" attribute of an opening node. Both slices
// alias the Reader's buffer.
type Attr struct {
	Name  []byte
	Value []byte
}

// Node is one token of the document: an opening tag, a closing tag, a run of
// character data, or the end of input. All byte slices alias the Reader's
// internal buffer and are only valid until the next ReadNode call.
type Node struct {
	Kind  NodeKind
	Name  []byte // Opening, Closing
	Attrs []Attr // Opening, in document order
	Text  []byte // Text, with character references already expanded
	Empty bool   // Opening: tag was closed in place, e.g. <layer/>
}

// Attr returns the value of the first attribute with the given name.
func (n *Node) Attr(name string) ([]byte, bool) {
	for i := range n.Attrs {
		if string(n.Attrs[i].Name) == name {
			return n.Attrs[i].Value, true
		}
	}
	return nil, false
}
