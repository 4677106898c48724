// Package extract builds Typographic Element Models from range and tree
// backends.
package extract

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roboco-io/typodiff/internal/typo"
)

// Normalization selects the Unicode normalization form applied to
// extracted text.
type Normalization string

const (
	NormalizeNone Normalization = "none"
	NormalizeNFC  Normalization = "nfc"
	NormalizeNFD  Normalization = "nfd"
)

// ParseNormalization parses a normalization name. The empty string means none.
func ParseNormalization(s string) (Normalization, error) {
	switch Normalization(strings.ToLower(strings.TrimSpace(s))) {
	case "", NormalizeNone:
		return NormalizeNone, nil
	case NormalizeNFC:
		return NormalizeNFC, nil
	case NormalizeNFD:
		return NormalizeNFD, nil
	default:
		return "", fmt.Errorf("unknown normalization: %s", s)
	}
}

// Options contains extractor configuration options.
type Options struct {
	Normalization Normalization
}

// DefaultOptions returns default extractor options.
func DefaultOptions() Options {
	return Options{Normalization: NormalizeNone}
}

// Context carries the per-model extraction state through the call tree.
// A Context belongs to one extraction pass.
type Context struct {
	Origin  typo.Origin
	Options Options

	paragraphKey int
	tableKey     int
	listKey      int
}

// NewContext creates an extraction context for one model.
func NewContext(origin typo.Origin, opts Options) *Context {
	return &Context{Origin: origin, Options: opts}
}

// NewParagraph creates a keyed paragraph.
func (c *Context) NewParagraph() *typo.Paragraph {
	p := typo.NewParagraph(c.Origin)
	p.Key = c.paragraphKey
	c.paragraphKey++
	return p
}

// NewList creates a keyed list.
func (c *Context) NewList(typ typo.ListType, level, start int) *typo.List {
	l := typo.NewList(c.Origin, typ, level, start)
	l.Key = c.listKey
	c.listKey++
	return l
}

// NewTable creates a keyed table.
func (c *Context) NewTable() *typo.Table {
	t := typo.NewTable(c.Origin)
	t.Key = c.tableKey
	c.tableKey++
	return t
}

// Paragraphs returns the number of paragraphs created so far.
func (c *Context) Paragraphs() int {
	return c.paragraphKey
}

// Tables returns the number of tables created so far.
func (c *Context) Tables() int {
	return c.tableKey
}

// Lists returns the number of lists created so far.
func (c *Context) Lists() int {
	return c.listKey
}

func (c *Context) normalize(s string) string {
	switch c.Options.Normalization {
	case NormalizeNFC:
		return norm.NFC.String(s)
	case NormalizeNFD:
		return norm.NFD.String(s)
	default:
		return s
	}
}

// blockSink is anything owning a block sequence.
type blockSink interface {
	AddParagraph(*typo.Paragraph)
	AddList(*typo.List)
	AddTable(*typo.Table)
}
