// Package recorder provides a DocumentBuilder that records the event
// stream for inspection, used by tests and by xoppdump.
package recorder

import (
	"fmt"
	"strings"

	"github.com/inklog/xopp"
)

// Event is one builder call: its name and the arguments it received.
// Slice arguments are copied, since the parser only guarantees them for
// the duration of the call.
type Event struct {
	Name string
	Args []interface{}
}

func (e Event) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		switch v := a.(type) {
		case []byte:
			parts[i] = fmt.Sprintf("<%d bytes>", len(v))
		case string:
			parts[i] = fmt.Sprintf("%q", v)
		default:
			parts[i] = fmt.Sprintf("%v", a)
		}
	}
	return e.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Builder records every DocumentBuilder call in order.
type Builder struct {
	Events   []Event
	Complete bool
}

var _ xopp.DocumentBuilder = (*Builder)(nil)

func (b *Builder) add(name string, args ...interface{}) {
	b.Events = append(b.Events, Event{Name: name, Args: args})
}

func (b *Builder) AddXournal(creator string, fileVersion int) {
	b.add("AddXournal", creator, fileVersion)
}

func (b *Builder) AddMrWriter(creator string) { b.add("AddMrWriter", creator) }

func (b *Builder) AddPage(width, height float64) { b.add("AddPage", width, height) }

func (b *Builder) SetBgName(name string) { b.add("SetBgName", name) }

func (b *Builder) SetBgSolid(pt xopp.PageType, color xopp.Color) {
	b.add("SetBgSolid", pt, color)
}

func (b *Builder) SetBgPixmap(attach bool, path string) { b.add("SetBgPixmap", attach, path) }

func (b *Builder) SetBgPixmapCloned(pageNr int) { b.add("SetBgPixmapCloned", pageNr) }

func (b *Builder) LoadBgPdf(attach bool, path string) { b.add("LoadBgPdf", attach, path) }

func (b *Builder) SetBgPdf(pageno int) { b.add("SetBgPdf", pageno) }

func (b *Builder) FinalizePage() { b.add("FinalizePage") }

func (b *Builder) AddLayer(name *string) {
	if name == nil {
		b.add("AddLayer", nil)
		return
	}
	b.add("AddLayer", *name)
}

func (b *Builder) FinalizeLayer() { b.add("FinalizeLayer") }

func (b *Builder) AddStroke(s xopp.StrokeAttrs) { b.add("AddStroke", s) }

func (b *Builder) SetStrokePoints(points []xopp.Point, pressures []float64) {
	pts := make([]xopp.Point, len(points))
	copy(pts, points)
	prs := make([]float64, len(pressures))
	copy(prs, pressures)
	b.add("SetStrokePoints", pts, prs)
}

func (b *Builder) FinalizeStroke() { b.add("FinalizeStroke") }

func (b *Builder) AddText(t xopp.TextAttrs) { b.add("AddText", t) }

func (b *Builder) SetTextContents(s string) { b.add("SetTextContents", s) }

func (b *Builder) FinalizeText() { b.add("FinalizeText") }

func (b *Builder) AddImage(left, top, right, bottom float64) {
	b.add("AddImage", left, top, right, bottom)
}

func (b *Builder) SetImageData(data []byte) {
	b.add("SetImageData", append([]byte(nil), data...))
}

func (b *Builder) SetImageAttachment(path string) { b.add("SetImageAttachment", path) }

func (b *Builder) FinalizeImage() { b.add("FinalizeImage") }

func (b *Builder) AddTexImage(left, top, right, bottom float64, text string) {
	b.add("AddTexImage", left, top, right, bottom, text)
}

func (b *Builder) SetTexImageData(data []byte) {
	b.add("SetTexImageData", append([]byte(nil), data...))
}

func (b *Builder) SetTexImageAttachment(path string) { b.add("SetTexImageAttachment", path) }

func (b *Builder) FinalizeTexImage() { b.add("FinalizeTexImage") }

func (b *Builder) AddAudioAttachment(path string) { b.add("AddAudioAttachment", path) }

func (b *Builder) FinalizeDocument() { b.add("FinalizeDocument") }

func (b *Builder) ParsingComplete() {
	b.Complete = true
	b.add("ParsingComplete")
}
