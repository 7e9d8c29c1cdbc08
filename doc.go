// Package xopp reads Xournal++ style notebook documents: a streaming,
// in-situ XML reader plus an event-driven parser that turns the node
// stream into typed DocumentBuilder events, without building a DOM and
// without copying character data out of the read buffer.
package xopp
