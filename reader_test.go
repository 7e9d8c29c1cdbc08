package xopp_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/inklog/xopp"
)

// chunkReader hands out the stream in fixed-size pieces so every refill
// path gets exercised.
type chunkReader struct {
	data []byte
	size int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.size
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	n = copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

// testNode is a Node with its slices copied out, safe to hold across
// ReadNode calls and friendly to cmp.Diff.
type testNode struct {
	Kind  xopp.NodeKind
	Name  string
	Attrs [][2]string
	Text  string
	Empty bool
}

func toTestNode(n xopp.Node) testNode {
	tn := testNode{Kind: n.Kind, Name: string(n.Name), Text: string(n.Text), Empty: n.Empty}
	for _, a := range n.Attrs {
		tn.Attrs = append(tn.Attrs, [2]string{string(a.Name), string(a.Value)})
	}
	return tn
}

func readAllNodes(r *xopp.Reader) ([]testNode, error) {
	var nodes []testNode
	for {
		node, err := r.ReadNode()
		if err != nil {
			return nodes, err
		}
		if node.Kind == xopp.NodeEnd {
			return nodes, nil
		}
		nodes = append(nodes, toTestNode(node))
	}
}

func TestReadNodeWithInmemXML(t *testing.T) {
	tt := []struct {
		name      string
		xml       string
		expecteds []testNode
		err       error
	}{
		{
			name: "minimal document",
			xml: `<xournal creator="x" fileversion="4"><page width="100" height="200">` +
				`<background type="solid" color="#ffffffff" style="plain"/><layer/></page></xournal>`,
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "xournal", Attrs: [][2]string{{"creator", "x"}, {"fileversion", "4"}}},
				{Kind: xopp.NodeOpening, Name: "page", Attrs: [][2]string{{"width", "100"}, {"height", "200"}}},
				{Kind: xopp.NodeOpening, Name: "background", Empty: true,
					Attrs: [][2]string{{"type", "solid"}, {"color", "#ffffffff"}, {"style", "plain"}}},
				{Kind: xopp.NodeOpening, Name: "layer", Empty: true},
				{Kind: xopp.NodeClosing, Name: "page"},
				{Kind: xopp.NodeClosing, Name: "xournal"},
			},
		},
		{
			name: "predefined entities round-trip",
			xml:  `<t>a&amp;b&lt;c&gt;d&apos;e&quot;f</t>`,
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "t"},
				{Kind: xopp.NodeText, Text: `a&b<c>d'e"f`},
				{Kind: xopp.NodeClosing, Name: "t"},
			},
		},
		{
			name: "numeric and unknown entities",
			xml:  "<t>&#65;&#x4E2D;&foo;</t>",
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "t"},
				{Kind: xopp.NodeText, Text: "A\xe4\xb8\xad&foo;"},
				{Kind: xopp.NodeClosing, Name: "t"},
			},
		},
		{
			name: "unterminated and empty references stay verbatim",
			xml:  "<t>a&amp b&;c</t>",
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "t"},
				{Kind: xopp.NodeText, Text: "a&amp b&;c"},
				{Kind: xopp.NodeClosing, Name: "t"},
			},
		},
		{
			name: "entities in attribute values",
			xml:  `<a x="&lt;&#33;" y='q&amp;'/>`,
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "a", Empty: true,
					Attrs: [][2]string{{"x", "<!"}, {"y", "q&"}}},
			},
		},
		{
			name: "prolog doctype comment and cdata are discarded",
			xml: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE note>\n" +
				"<root><!-- a - comment --><![CDATA[ raw ]>text</root>",
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "root"},
				{Kind: xopp.NodeText, Text: "text"},
				{Kind: xopp.NodeClosing, Name: "root"},
			},
		},
		{
			name: "comment with extra dashes",
			xml:  "<a><!-- x ----><b/></a>",
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "a"},
				{Kind: xopp.NodeOpening, Name: "b", Empty: true},
				{Kind: xopp.NodeClosing, Name: "a"},
			},
		},
		{
			name: "whitespace-only text is discarded",
			xml:  "<a>\n\t  <b/>\r\n</a>",
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "a"},
				{Kind: xopp.NodeOpening, Name: "b", Empty: true},
				{Kind: xopp.NodeClosing, Name: "a"},
			},
		},
		{
			name: "whitespace around attribute assignment",
			xml:  `<a x = "1>2" ></a>`,
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "a", Attrs: [][2]string{{"x", "1>2"}}},
				{Kind: xopp.NodeClosing, Name: "a"},
			},
		},
		{
			name: "empty attribute value",
			xml:  `<a x=""/>`,
			expecteds: []testNode{
				{Kind: xopp.NodeOpening, Name: "a", Empty: true, Attrs: [][2]string{{"x", ""}}},
			},
		},
		{
			name: "stray character outside a node",
			xml:  "hello<a/>",
			err:  errors.New("unexpected character"),
		},
		{
			name: "eof inside an opening tag",
			xml:  `<a b="c`,
			err:  io.ErrUnexpectedEOF,
		},
		{
			name: "eof inside text",
			xml:  "<a>truncated",
			err:  io.ErrUnexpectedEOF,
		},
		{
			name: "eof inside a comment",
			xml:  "<a><!-- never closed",
			err:  io.ErrUnexpectedEOF,
		},
		{
			name:      "empty input",
			xml:       "",
			expecteds: nil,
		},
	}

	for i, tc := range tt {
		t.Run(fmt.Sprintf("[%d]: %s", i, tc.name), func(t *testing.T) {
			r := xopp.NewReader(&chunkReader{data: []byte(tc.xml), size: 1})
			nodes, err := readAllNodes(r)
			if tc.err != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tc.err)
				}
				if !errors.Is(err, tc.err) && !strings.Contains(err.Error(), tc.err.Error()) {
					t.Fatalf("expected error: %v, got: %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(nodes, tc.expecteds); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

// The node sequence must not depend on how the stream is chunked: refills,
// compactions and buffer growth are invisible to the caller.
func TestChunkScheduleEquivalence(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<xournal creator="chunky" fileversion="4"><page width="612" height="792">`)
	sb.WriteString(`<background type="solid" color="#ffffffff" style="lined"/><layer name="L&amp;1">`)
	for i := 0; i < 64; i++ {
		fmt.Fprintf(&sb, `<stroke tool="pen" color="#0000ffff" width="1.41">%d 2 3 4 5 6</stroke>`, i)
	}
	sb.WriteString(`<text font="Sans" size="12" x="1" y="2" color="#000000ff">caf&#xE9; &gt; bar</text>`)
	sb.WriteString(`</layer></page></xournal>`)
	doc := sb.String()

	var reference []testNode
	for _, size := range []int{1, 7, 64, 1 << 20} {
		r := xopp.NewReader(&chunkReader{data: []byte(doc), size: size}, xopp.WithBufferSize(1024))
		nodes, err := readAllNodes(r)
		if err != nil {
			t.Fatalf("chunk size %d: %v", size, err)
		}
		if reference == nil {
			reference = nodes
			continue
		}
		if diff := cmp.Diff(nodes, reference); diff != "" {
			t.Fatalf("chunk size %d differs from reference:\n%s", size, diff)
		}
	}
}

func TestReadNodePastEnd(t *testing.T) {
	r := xopp.NewReader(bytes.NewReader([]byte("<a/>")))
	if _, err := r.ReadNode(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		node, err := r.ReadNode()
		if err != nil {
			t.Fatal(err)
		}
		if node.Kind != xopp.NodeEnd {
			t.Fatalf("expected NodeEnd, got %v", node.Kind)
		}
	}
}

func TestNullTerminate(t *testing.T) {
	r := xopp.NewReader(bytes.NewReader([]byte(`<page width="612.5" height="792">x</page>`)))
	node, err := r.ReadNode()
	if err != nil {
		t.Fatal(err)
	}

	for _, b := range [][]byte{node.Name, node.Attrs[0].Name, node.Attrs[0].Value, node.Attrs[1].Value} {
		nt, err := r.NullTerminate(b)
		if err != nil {
			t.Fatalf("NullTerminate(%q): %v", b, err)
		}
		if len(nt) != len(b)+1 || nt[len(nt)-1] != 0 {
			t.Fatalf("NullTerminate(%q) = %q, want trailing NUL", b, nt)
		}
		if string(nt[:len(b)]) != string(b) {
			t.Fatalf("NullTerminate changed the value: %q", nt)
		}
	}

	if _, err := r.NullTerminate([]byte("foreign")); err == nil {
		t.Fatal("expected an error for a slice outside the buffer")
	}
	if _, err := r.NullTerminate(nil); err == nil {
		t.Fatal("expected an error for a nil slice")
	}
}

func TestReaderErrorIsSticky(t *testing.T) {
	r := xopp.NewReader(bytes.NewReader([]byte("<a>oops")))
	var first error
	for {
		_, err := r.ReadNode()
		if err != nil {
			first = err
			break
		}
	}
	_, again := r.ReadNode()
	if !errors.Is(again, io.ErrUnexpectedEOF) || again != first {
		t.Fatalf("expected the same sticky error, got %v then %v", first, again)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReadCallbackFailureIsFatal(t *testing.T) {
	r := xopp.NewReader(errReader{})
	_, err := r.ReadNode()
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("expected the read error to propagate, got %v", err)
	}
}

type closeCounter struct {
	io.Reader
	closes int
}

func (c *closeCounter) Close() error {
	c.closes++
	return nil
}

func TestCloseClosesSourceOnce(t *testing.T) {
	src := &closeCounter{Reader: bytes.NewReader([]byte("<a/>"))}
	r := xopp.NewReader(src)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if src.closes != 1 {
		t.Fatalf("expected exactly one close, got %d", src.closes)
	}
}
