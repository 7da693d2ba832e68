package server

import (
	"context"
	"sort"
	"sync"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/errz"
	"github.com/risor-io/lowering/parser"
	"github.com/risor-io/lowering/protocol"
)

// document is an open file and its most recent parse.
type document struct {
	file    string
	text    string
	version int

	// lines holds the byte offset of the start of each line.
	lines []int

	// ast is nil only when parsing was cancelled. It is set alongside err
	// when the text has syntax errors.
	ast *ast.SourceFile
	err error
}

func newDocument(ctx context.Context, file, text string, version int) *document {
	doc := &document{
		file:    file,
		text:    text,
		version: version,
		lines:   lineStarts(text),
	}
	doc.ast, doc.err = parser.Parse(ctx, text, parser.WithFilename(file))
	return doc
}

func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offset converts a one-based line and offset to a byte offset into the text.
// An offset may point one past the last character of its line.
func (d *document) offset(line, offset int) (int, error) {
	if line < 1 || line > len(d.lines) {
		return 0, protocolErrorf("line %d is out of range", line)
	}
	start := d.lines[line-1]
	end := len(d.text)
	if line < len(d.lines) {
		end = d.lines[line] - 1
	}
	if offset < 1 || start+offset-1 > end {
		return 0, protocolErrorf("offset %d is out of range for line %d", offset, line)
	}
	return start + offset - 1, nil
}

// resolve returns the byte offset named by either a line and offset pair or
// a position.
func (d *document) resolve(line, offset, position *int) (int, error) {
	if position != nil {
		if *position > len(d.text) {
			return 0, protocolErrorf("position %d is out of range", *position)
		}
		return *position, nil
	}
	return d.offset(*line, *offset)
}

// location converts a byte offset into the text to a one-based line and
// offset.
func (d *document) location(pos int) protocol.Location {
	if pos > len(d.text) {
		pos = len(d.text)
	}
	line := sort.Search(len(d.lines), func(i int) bool { return d.lines[i] > pos }) - 1
	return protocol.Location{Line: line + 1, Offset: pos - d.lines[line] + 1}
}

// edit returns the text with the bytes in [start, end) replaced.
func (d *document) edit(start, end int, insert string) (string, error) {
	if end < start {
		return "", protocolErrorf("change end %d precedes start %d", end, start)
	}
	return d.text[:start] + insert + d.text[end:], nil
}

// cache holds the open documents of a session, keyed by file name.
type cache struct {
	mu   sync.RWMutex
	docs map[string]*document
}

func newCache() *cache {
	return &cache{docs: map[string]*document{}}
}

func (c *cache) put(doc *document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[doc.file] = doc
}

func (c *cache) get(file string) (*document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[file]
	if !ok {
		return nil, protocolErrorf("file %s is not open", file)
	}
	return doc, nil
}

func (c *cache) remove(file string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.docs[file]
	delete(c.docs, file)
	return ok
}

// files returns the names of the open documents in sorted order.
func (c *cache) files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.docs))
	for name := range c.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func protocolErrorf(format string, args ...any) error {
	return errz.NewStructuredErrorf(errz.ErrProtocol, errz.SourceLocation{}, format, args...)
}
