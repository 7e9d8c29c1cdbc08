package xopp

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// ParseDocument parses a whole document from r into b. The stream may be
// raw XML or the usual gzip-compressed container; compression is detected
// from the magic bytes. Warnings go to logger, which may be nil.
func ParseDocument(r io.Reader, b DocumentBuilder, logger log.Logger) error {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err == nil && bytes.Equal(magic, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return errors.Wrap(err, "open gzip stream")
		}
		defer zr.Close()
		return parseXML(zr, b, logger)
	}
	return parseXML(br, b, logger)
}

// OpenFile parses the document stored at path.
func OpenFile(path string, b DocumentBuilder, logger log.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open document")
	}
	defer f.Close()
	return errors.Wrapf(ParseDocument(f, b, logger), "parse %s", path)
}

func parseXML(r io.Reader, b DocumentBuilder, logger log.Logger) error {
	reader := NewReader(r)
	return NewParser(reader, b, logger).Parse()
}
