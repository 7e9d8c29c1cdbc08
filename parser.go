package xopp

import (
	"bytes"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// processFunc handles one node at the current grammar level. It must read
// the next node before returning.
type processFunc func(*Parser, *Node) (Node, error)

// Parser drives a Reader's node stream and translates it into
// DocumentBuilder events. A Parser lives for one document parse.
//
// Structural problems (closing tag mismatch, closing tag at the root,
// reader failures) abort the parse; everything else is logged as a warning
// and parsing continues.
type Parser struct {
	reader  *Reader
	builder DocumentBuilder
	logger  log.Logger

	hierarchy []TagKind
	complete  bool

	// Only the first pdf background with a non-empty filename loads the
	// document; later ones merely select a page.
	pdfFilenameParsed bool

	// Audio reference buffered from a preceding timestamp element, consumed
	// by the next stroke or text element without its own fn attribute.
	tempFilename  string
	tempTimestamp uint64

	// Pressures accumulate between a stroke opening tag and its point
	// payload.
	pressures []float64
}

// NewParser creates a parser emitting events to b. A nil logger suppresses
// warnings.
func NewParser(r *Reader, b DocumentBuilder, logger log.Logger) *Parser {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Parser{reader: r, builder: b, logger: logger}
}

// Parse consumes the whole document.
func (p *Parser) Parse() error {
	node, err := p.parse(processRoot)
	if err != nil {
		return err
	}
	switch node.Kind {
	case NodeEnd:
		if !p.complete {
			return errors.New("unexpected end of document")
		}
	case NodeClosing:
		return errors.Errorf("closing tag </%s> at document root", node.Name)
	default:
		return errors.Errorf("unexpected %s node at document root", node.Kind)
	}
	p.builder.ParsingComplete()
	return nil
}

// parse loops over all nodes at or below the current depth, dispatching
// each to process. The first node at a shallower depth is returned to the
// caller unprocessed, and so is the very first node read when it is not an
// opening tag.
func (p *Parser) parse(process processFunc) (Node, error) {
	node, err := p.reader.ReadNode()
	if err != nil {
		return Node{}, err
	}
	if node.Kind != NodeOpening {
		return node, nil
	}
	startDepth := len(p.hierarchy)
	for node.Kind != NodeEnd {
		depth := len(p.hierarchy)
		if node.Kind == NodeClosing {
			depth--
		}
		if depth < startDepth {
			break
		}
		node, err = process(p, &node)
		if err != nil {
			return Node{}, err
		}
	}
	return node, nil
}

func (p *Parser) next() (Node, error) { return p.reader.ReadNode() }

func (p *Parser) push(kind TagKind) { p.hierarchy = append(p.hierarchy, kind) }

func (p *Parser) top() TagKind {
	if len(p.hierarchy) == 0 {
		return TagUnknown
	}
	return p.hierarchy[len(p.hierarchy)-1]
}

// closeTag pops the hierarchy and verifies the closing tag matches what is
// open. It returns the popped kind so callers can emit finalize events.
func (p *Parser) closeTag(node *Node) (TagKind, error) {
	if len(p.hierarchy) == 0 {
		return TagUnknown, errors.Errorf("closing tag </%s> with no open element", node.Name)
	}
	kind := tagKindOf(node.Name)
	top := p.hierarchy[len(p.hierarchy)-1]
	p.hierarchy = p.hierarchy[:len(p.hierarchy)-1]
	if top != kind {
		return TagUnknown, errors.Errorf("closing tag %q does not match open element %q", kind, top)
	}
	return top, nil
}

func (p *Parser) warn(msg string, kv ...interface{}) {
	level.Warn(p.logger).Log(append([]interface{}{"msg", msg}, kv...)...)
}

func (p *Parser) unknownTag(node *Node, kind TagKind) {
	p.warn("unknown tag", "tag", string(node.Name))
	if !node.Empty {
		p.push(kind)
	}
}

func (p *Parser) extraneousText() {
	p.warn("extraneous text in document", "parent", p.top().String())
}

func processRoot(p *Parser, node *Node) (Node, error) {
	switch node.Kind {
	case NodeOpening:
		if p.complete {
			p.warn("content after end of document", "tag", string(node.Name))
		}
		if node.Empty {
			return Node{}, errors.Errorf("root element <%s> must not be empty", node.Name)
		}
		kind := tagKindOf(node.Name)
		p.push(kind)
		switch kind {
		case TagXournal:
			creator := p.attrStringMandatory(node, "creator", "", false)
			version := p.attrIntMandatory(node, "fileversion", 1, false)
			p.builder.AddXournal(creator, version)
		case TagMrWriter:
			creator := p.attrStringMandatory(node, "creator", "", false)
			p.builder.AddMrWriter(creator)
		default:
			p.warn("unknown root tag, attempting to parse anyway", "tag", string(node.Name))
		}
		return p.parse(processDocument)
	case NodeClosing:
		// The root element closes here. The document is complete; keep
		// reading so trailing content still gets reported.
		if _, err := p.closeTag(node); err != nil {
			return Node{}, err
		}
		if !p.complete {
			p.builder.FinalizeDocument()
			p.complete = true
		}
		return p.next()
	default:
		p.extraneousText()
		return p.next()
	}
}

func processDocument(p *Parser, node *Node) (Node, error) {
	switch node.Kind {
	case NodeOpening:
		kind := tagKindOf(node.Name)
		switch kind {
		case TagTitle, TagPreview:
			// body ignored
			if !node.Empty {
				p.push(kind)
			}
			return p.next()
		case TagPage:
			width := p.attrDoubleMandatory(node, "width", 0, true)
			height := p.attrDoubleMandatory(node, "height", 0, true)
			p.builder.AddPage(width, height)
			if node.Empty {
				p.builder.FinalizePage()
				return p.next()
			}
			p.push(TagPage)
			return p.parse(processPage)
		case TagAudio:
			filename := p.attrStringMandatory(node, "filename", "", true)
			p.builder.AddAudioAttachment(filename)
			if !node.Empty {
				p.push(TagAudio)
			}
			return p.next()
		default:
			p.unknownTag(node, kind)
			return p.next()
		}
	case NodeClosing:
		kind, err := p.closeTag(node)
		if err != nil {
			return Node{}, err
		}
		if kind == TagPage {
			p.builder.FinalizePage()
		}
		return p.next()
	default:
		switch p.top() {
		case TagTitle, TagPreview: // ignored
		default:
			p.extraneousText()
		}
		return p.next()
	}
}

func processPage(p *Parser, node *Node) (Node, error) {
	switch node.Kind {
	case NodeOpening:
		kind := tagKindOf(node.Name)
		switch kind {
		case TagBackground:
			p.parseBackground(node)
			if !node.Empty {
				p.push(TagBackground)
			}
			return p.next()
		case TagLayer:
			var name *string
			if v, ok := node.Attr("name"); ok {
				s := string(v)
				name = &s
			}
			p.builder.AddLayer(name)
			if node.Empty {
				p.builder.FinalizeLayer()
				return p.next()
			}
			p.push(TagLayer)
			return p.parse(processLayer)
		default:
			p.unknownTag(node, kind)
			return p.next()
		}
	case NodeClosing:
		kind, err := p.closeTag(node)
		if err != nil {
			return Node{}, err
		}
		if kind == TagLayer {
			p.builder.FinalizeLayer()
		}
		return p.next()
	default:
		p.extraneousText()
		return p.next()
	}
}

func processLayer(p *Parser, node *Node) (Node, error) {
	switch node.Kind {
	case NodeOpening:
		kind := tagKindOf(node.Name)
		switch kind {
		case TagTimestamp:
			p.tempFilename = p.attrStringMandatory(node, "fn", "", true)
			p.tempTimestamp = p.attrUintMandatory(node, "ts", 0, true)
			if !node.Empty {
				p.push(TagTimestamp)
			}
			return p.next()
		case TagStroke:
			p.parseStroke(node)
			if node.Empty {
				p.warn("ignoring empty stroke")
				p.pressures = p.pressures[:0]
				p.builder.FinalizeStroke()
				return p.next()
			}
			p.push(TagStroke)
			return p.next()
		case TagText:
			p.parseTextElement(node)
			if node.Empty {
				p.warn("ignoring empty text element")
				p.builder.FinalizeText()
				return p.next()
			}
			p.push(TagText)
			return p.next()
		case TagImage:
			p.parseImage(node)
			if node.Empty {
				p.warn("ignoring empty image")
				p.builder.FinalizeImage()
				return p.next()
			}
			p.push(TagImage)
			return p.parse(processAttachment)
		case TagTexImage:
			p.parseTexImage(node)
			if node.Empty {
				p.warn("ignoring empty teximage")
				p.builder.FinalizeTexImage()
				return p.next()
			}
			p.push(TagTexImage)
			return p.parse(processAttachment)
		case TagAttachment:
			// an attachment that follows the payload of an image
			if t := p.top(); t == TagImage || t == TagTexImage {
				return processAttachment(p, node)
			}
			p.unknownTag(node, kind)
			return p.next()
		default:
			p.unknownTag(node, kind)
			return p.next()
		}
	case NodeClosing:
		kind, err := p.closeTag(node)
		if err != nil {
			return Node{}, err
		}
		switch kind {
		case TagStroke:
			p.pressures = p.pressures[:0]
			p.builder.FinalizeStroke()
		case TagText:
			p.builder.FinalizeText()
		case TagImage:
			p.builder.FinalizeImage()
		case TagTexImage:
			p.builder.FinalizeTexImage()
		}
		return p.next()
	default:
		switch p.top() {
		case TagStroke:
			p.parseStrokePoints(node)
		case TagText:
			p.builder.SetTextContents(string(node.Text))
		case TagImage, TagTexImage:
			return processAttachment(p, node)
		default:
			p.extraneousText()
		}
		return p.next()
	}
}

func processAttachment(p *Parser, node *Node) (Node, error) {
	switch node.Kind {
	case NodeOpening:
		kind := tagKindOf(node.Name)
		switch kind {
		case TagAttachment:
			path := p.attrStringMandatory(node, "path", "", true)
			switch p.top() {
			case TagImage:
				p.builder.SetImageAttachment(path)
			case TagTexImage:
				p.builder.SetTexImageAttachment(path)
			}
			if !node.Empty {
				p.push(TagAttachment)
			}
			return p.next()
		default:
			p.unknownTag(node, kind)
			return p.next()
		}
	case NodeClosing:
		if _, err := p.closeTag(node); err != nil {
			return Node{}, err
		}
		return p.next()
	default:
		switch p.top() {
		case TagImage:
			data, err := decodeBase64(node.Text)
			if err != nil {
				p.warn("could not decode image data", "err", err)
			} else {
				p.builder.SetImageData(data)
			}
		case TagTexImage:
			data, err := decodeBase64(node.Text)
			if err != nil {
				p.warn("could not decode teximage data", "err", err)
			} else {
				p.builder.SetTexImageData(data)
			}
		default:
			p.extraneousText()
		}
		return p.next()
	}
}

// parseBackground decodes the background element and dispatches to the
// matching builder event. SetBgName is emitted before the variant.
func (p *Parser) parseBackground(node *Node) {
	if name, ok := node.Attr("name"); ok {
		p.builder.SetBgName(string(name))
	}
	typ, ok := node.Attr("type")
	if !ok {
		p.warn("background is missing its type attribute")
		return
	}
	switch string(typ) {
	case "solid":
		format := p.attrStringMandatory(node, "style", "plain", false)
		config := p.attrStringMandatory(node, "config", "", false)
		color := p.attrColorMandatory(node, ColorWhite, true)
		p.builder.SetBgSolid(PageType{Format: format, Config: config}, color)
	case "pixmap":
		domain := p.attrDomain(node)
		filename := p.attrStringMandatory(node, "filename", "", true)
		if domain == DomainClone {
			// the filename of a cloned pixmap holds the source page number
			pageNr, err := strconv.Atoi(filename)
			if err != nil {
				p.warn("could not parse cloned background page number", "filename", filename)
				return
			}
			p.builder.SetBgPixmapCloned(pageNr)
			return
		}
		p.builder.SetBgPixmap(domain == DomainAttach, filename)
	case "pdf":
		domain := p.attrDomain(node)
		if domain == DomainClone {
			p.warn("invalid domain for pdf background, treating as absolute")
			domain = DomainAbsolute
		}
		if filename, ok := node.Attr("filename"); ok && len(filename) > 0 && !p.pdfFilenameParsed {
			p.pdfFilenameParsed = true
			p.builder.LoadBgPdf(domain == DomainAttach, string(filename))
		}
		pageno := p.attrIntMandatory(node, "pageno", 1, false)
		p.builder.SetBgPdf(pageno - 1)
	default:
		p.warn("unknown background type", "type", string(typ))
	}
}

func (p *Parser) attrDomain(node *Node) BackgroundDomain {
	v, ok := node.Attr("domain")
	if !ok {
		return DomainAbsolute
	}
	domain, ok := parseBackgroundDomain(v)
	if !ok {
		p.warn("unknown background domain", "domain", string(v))
	}
	return domain
}

func (p *Parser) parseStroke(node *Node) {
	var s StrokeAttrs
	if v, ok := node.Attr("tool"); ok {
		tool, ok := parseTool(v)
		if !ok {
			p.warn("unknown stroke tool, using pen", "tool", string(v))
		}
		s.Tool = tool
	} else {
		p.warn("stroke tool missing, using pen")
		s.Tool = ToolPen
	}
	s.Color = p.attrColorMandatory(node, ColorBlack, false)
	s.Width = p.parseWidth(node)
	s.Fill = p.attrIntMandatory(node, "fill", -1, false)
	s.CapStyle = CapRound
	if v, ok := node.Attr("capStyle"); ok {
		capStyle, ok := parseCapStyle(v)
		if !ok {
			p.warn("unknown cap style, using round", "capStyle", string(v))
		}
		s.CapStyle = capStyle
	}
	if v, ok := node.Attr("style"); ok {
		style, ok := parseLineStyle(v)
		if !ok {
			p.warn("unknown line style", "style", string(v))
		}
		s.LineStyle = style
	}
	s.AudioFilename, s.AudioTimestamp = p.takeAudio(node)
	p.builder.AddStroke(s)
}

// parseWidth decodes the width attribute, which carries the nominal width
// followed by the historic inline pressure list: "width p1 p2 ...". The
// MrWriter variant stores pressures in their own attribute instead.
func (p *Parser) parseWidth(node *Node) float64 {
	width := 1.0
	if v, ok := node.Attr("width"); ok {
		fields := bytes.Fields(v)
		if len(fields) == 0 {
			p.warn("empty stroke width, using default")
		} else {
			w, err := strconv.ParseFloat(string(fields[0]), 64)
			if err != nil {
				p.warn("could not parse stroke width, using default", "width", string(fields[0]))
			} else {
				width = w
			}
			for _, f := range fields[1:] {
				pressure, err := strconv.ParseFloat(string(f), 64)
				if err != nil {
					p.warn("could not parse stroke pressure", "pressure", string(f))
					break
				}
				p.pressures = append(p.pressures, pressure)
			}
		}
	} else {
		p.warn("stroke width missing, using default")
	}
	if v, ok := node.Attr("pressures"); ok {
		for _, f := range bytes.Fields(v) {
			pressure, err := strconv.ParseFloat(string(f), 64)
			if err != nil {
				p.warn("could not parse stroke pressure", "pressure", string(f))
				break
			}
			p.pressures = append(p.pressures, pressure)
		}
	}
	return width
}

// takeAudio resolves the audio attribution rule: an element carrying its
// own fn attribute wins, otherwise the audio reference buffered from a
// preceding timestamp element is moved out.
func (p *Parser) takeAudio(node *Node) (string, uint64) {
	if v, ok := node.Attr("fn"); ok && len(v) > 0 {
		if p.tempFilename != "" {
			p.warn("dropping unconsumed timestamp", "filename", p.tempFilename)
		}
		p.tempFilename, p.tempTimestamp = "", 0
		return string(v), p.attrUintMandatory(node, "ts", 0, false)
	}
	filename, timestamp := p.tempFilename, p.tempTimestamp
	p.tempFilename, p.tempTimestamp = "", 0
	return filename, timestamp
}

func (p *Parser) parseTextElement(node *Node) {
	var t TextAttrs
	t.Font = p.attrStringMandatory(node, "font", "Sans", false)
	t.Size = p.attrDoubleMandatory(node, "size", 12, false)
	t.X = p.attrDoubleMandatory(node, "x", 0, true)
	t.Y = p.attrDoubleMandatory(node, "y", 0, true)
	t.Color = p.attrColorMandatory(node, ColorBlack, false)
	t.AudioFilename, t.AudioTimestamp = p.takeAudio(node)
	p.builder.AddText(t)
}

func (p *Parser) parseImage(node *Node) {
	left := p.attrDoubleMandatory(node, "left", 0, true)
	top := p.attrDoubleMandatory(node, "top", 0, true)
	right := p.attrDoubleMandatory(node, "right", 0, true)
	bottom := p.attrDoubleMandatory(node, "bottom", 0, true)
	p.builder.AddImage(left, top, right, bottom)
}

func (p *Parser) parseTexImage(node *Node) {
	left := p.attrDoubleMandatory(node, "left", 0, true)
	top := p.attrDoubleMandatory(node, "top", 0, true)
	right := p.attrDoubleMandatory(node, "right", 0, true)
	bottom := p.attrDoubleMandatory(node, "bottom", 0, true)
	text := p.attrStringMandatory(node, "text", "", false)
	// the legacy texlength attribute is ignored
	p.builder.AddTexImage(left, top, right, bottom, text)
}

// parseStrokePoints decodes the stroke payload, a flat whitespace-separated
// list of "x y" coordinate pairs. Parsing stops at the first malformed
// pair. The buffered pressures ship along with the points.
func (p *Parser) parseStrokePoints(node *Node) {
	fields := bytes.Fields(node.Text)
	points := make([]Point, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(string(fields[i]), 64)
		y, errY := strconv.ParseFloat(string(fields[i+1]), 64)
		if errX != nil || errY != nil {
			p.warn("malformed stroke point pair, truncating stroke",
				"x", string(fields[i]), "y", string(fields[i+1]))
			break
		}
		points = append(points, Point{X: x, Y: y})
	}
	if len(fields)%2 != 0 {
		p.warn("stroke has an odd number of coordinates", "count", len(fields))
	}
	p.builder.SetStrokePoints(points, p.pressures)
	p.pressures = p.pressures[:0]
}
