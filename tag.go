package xopp

// TagKind enumerates the element names the parser understands. Anything
// else maps to TagUnknown.
type TagKind uint8

const (
	TagUnknown TagKind = iota
	TagXournal
	TagMrWriter
	TagTitle
	TagPreview
	TagPage
	TagAudio
	TagBackground
	TagLayer
	TagTimestamp
	TagStroke
	TagText
	TagImage
	TagTexImage
	TagAttachment
)

var tagNames = map[string]TagKind{
	"xournal":    TagXournal,
	"MrWriter":   TagMrWriter,
	"title":      TagTitle,
	"preview":    TagPreview,
	"page":       TagPage,
	"audio":      TagAudio,
	"background": TagBackground,
	"layer":      TagLayer,
	"timestamp":  TagTimestamp,
	"stroke":     TagStroke,
	"text":       TagText,
	"image":      TagImage,
	"teximage":   TagTexImage,
	"attachment": TagAttachment,
}

func tagKindOf(name []byte) TagKind {
	return tagNames[string(name)] // no-alloc map lookup, kind zero value is TagUnknown
}

func (k TagKind) String() string {
	switch k {
	case TagXournal:
		return "xournal"
	case TagMrWriter:
		return "MrWriter"
	case TagTitle:
		return "title"
	case TagPreview:
		return "preview"
	case TagPage:
		return "page"
	case TagAudio:
		return "audio"
	case TagBackground:
		return "background"
	case TagLayer:
		return "layer"
	case TagTimestamp:
		return "timestamp"
	case TagStroke:
		return "stroke"
	case TagText:
		return "text"
	case TagImage:
		return "image"
	case TagTexImage:
		return "teximage"
	case TagAttachment:
		return "attachment"
	}
	return "unknown"
}
