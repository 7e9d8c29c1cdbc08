package xopp

// DocumentBuilder receives the document as a stream of typed events, in
// strict document order. For a given element, the Add event comes first,
// then payload events, then the matching Finalize event.
//
// The background of a page is delivered as exactly one of the SetBg
// variants, optionally preceded by SetBgName. A pdf background is split
// into LoadBgPdf (first non-empty filename only) and SetBgPdf (every page).
//
// Slice arguments are only valid for the duration of the call; implementations
// that keep them must copy.
type DocumentBuilder interface {
	AddXournal(creator string, fileVersion int)
	AddMrWriter(creator string)

	AddPage(width, height float64)
	SetBgName(name string)
	SetBgSolid(pt PageType, color Color)
	SetBgPixmap(attach bool, path string)
	SetBgPixmapCloned(pageNr int)
	LoadBgPdf(attach bool, path string)
	SetBgPdf(pageno int)
	FinalizePage()

	AddLayer(name *string)
	FinalizeLayer()

	AddStroke(s StrokeAttrs)
	SetStrokePoints(points []Point, pressures []float64)
	FinalizeStroke()

	AddText(t TextAttrs)
	SetTextContents(s string)
	FinalizeText()

	AddImage(left, top, right, bottom float64)
	SetImageData(data []byte)
	SetImageAttachment(path string)
	FinalizeImage()

	AddTexImage(left, top, right, bottom float64, text string)
	SetTexImageData(data []byte)
	SetTexImageAttachment(path string)
	FinalizeTexImage()

	AddAudioAttachment(path string)

	FinalizeDocument()
	ParsingComplete()
}
