// Package typo defines the Typographic Element Model: the normalized,
// format-agnostic document tree that both extractors produce and the
// comparator walks.
package typo

import "fmt"

// Origin identifies which kind of backend an element was extracted from.
type Origin int

const (
	// OriginRange marks elements read through a cursor/range backend (backend A).
	OriginRange Origin = iota
	// OriginTree marks elements read from a block/inline tree backend (backend B).
	OriginTree
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginRange:
		return "range"
	case OriginTree:
		return "tree"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Origin) UnmarshalText(b []byte) error {
	switch string(b) {
	case "range":
		*o = OriginRange
	case "tree":
		*o = OriginTree
	default:
		return fmt.Errorf("unknown origin: %s", b)
	}
	return nil
}

// FlowDirection is the inline progression direction of a block.
type FlowDirection string

const (
	LeftToRight FlowDirection = "ltr"
	RightToLeft FlowDirection = "rtl"
)

// Thickness is a four-sided measurement in points.
type Thickness struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// IsZero reports whether all four sides are zero.
func (t Thickness) IsZero() bool {
	return t == Thickness{}
}

// String formats the thickness as "l,t,r,b".
func (t Thickness) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", t.Left, t.Top, t.Right, t.Bottom)
}

// Box carries the box and paint attributes only a tree backend can expose.
type Box struct {
	FlowDirection   FlowDirection `json:"flow_direction,omitempty"`
	Margin          Thickness     `json:"margin"`
	BorderThickness Thickness     `json:"border_thickness"`
	Padding         Thickness     `json:"padding"`
	BorderColor     string        `json:"border_color,omitempty"`
	Background      string        `json:"background,omitempty"`
	Foreground      string        `json:"foreground,omitempty"`
}

// IsRightToLeft reports whether the box flows right to left.
func (b Box) IsRightToLeft() bool {
	return b.FlowDirection == RightToLeft
}

// Base is embedded by every element of the model.
type Base struct {
	Origin Origin `json:"origin"`
	Key    int    `json:"key"` // extraction-order key, unique per element kind
	Box    Box    `json:"box"`
}

// FromTree reports whether the element was extracted from a tree backend.
func (b *Base) FromTree() bool {
	return b.Origin == OriginTree
}

// BlockType represents the type of content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeList      BlockType = "list"
	BlockTypeTable     BlockType = "table"
)

// Block is one entry of an owned block sequence. Exactly one of the
// pointers matching Type is set.
type Block struct {
	Type      BlockType  `json:"type"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	List      *List      `json:"list,omitempty"`
	Table     *Table     `json:"table,omitempty"`
}

// ParagraphBlock wraps a paragraph as a block.
func ParagraphBlock(p *Paragraph) Block {
	return Block{Type: BlockTypeParagraph, Paragraph: p}
}

// ListBlock wraps a list as a block.
func ListBlock(l *List) Block {
	return Block{Type: BlockTypeList, List: l}
}

// TableBlock wraps a table as a block.
func TableBlock(t *Table) Block {
	return Block{Type: BlockTypeTable, Table: t}
}

// Document is one extracted element model.
type Document struct {
	Origin Origin  `json:"origin"`
	Blocks []Block `json:"blocks"`
}

// NewDocument creates an empty document for the given origin.
func NewDocument(origin Origin) *Document {
	return &Document{
		Origin: origin,
		Blocks: make([]Block, 0),
	}
}

// AddParagraph adds a paragraph block to the document.
func (d *Document) AddParagraph(p *Paragraph) {
	d.Blocks = append(d.Blocks, ParagraphBlock(p))
}

// AddList adds a list block to the document.
func (d *Document) AddList(l *List) {
	d.Blocks = append(d.Blocks, ListBlock(l))
}

// AddTable adds a table block to the document.
func (d *Document) AddTable(t *Table) {
	d.Blocks = append(d.Blocks, TableBlock(t))
}

// Walk calls fn for every paragraph in document order, descending into
// lists and table cells.
func (d *Document) Walk(fn func(*Paragraph)) {
	walkBlocks(d.Blocks, fn)
}

func walkBlocks(blocks []Block, fn func(*Paragraph)) {
	for _, b := range blocks {
		switch b.Type {
		case BlockTypeParagraph:
			if b.Paragraph != nil {
				fn(b.Paragraph)
			}
		case BlockTypeList:
			if b.List == nil {
				continue
			}
			for _, item := range b.List.Items {
				walkBlocks(item.Blocks, fn)
			}
		case BlockTypeTable:
			if b.Table == nil {
				continue
			}
			for _, row := range b.Table.Rows {
				for _, cell := range row.Cells {
					walkBlocks(cell.Blocks, fn)
				}
			}
		}
	}
}

// ParagraphCount returns the number of paragraphs reachable from the document.
func (d *Document) ParagraphCount() int {
	n := 0
	d.Walk(func(*Paragraph) { n++ })
	return n
}
