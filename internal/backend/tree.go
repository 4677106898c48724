package backend

import "github.com/roboco-io/typodiff/internal/typo"

// NodeKind is the kind of a block node in a Tree.
type NodeKind string

const (
	NodeParagraph NodeKind = "paragraph"
	NodeList      NodeKind = "list"
	NodeTable     NodeKind = "table"
)

// Tree is the root of a block tree backend.
type Tree struct {
	Blocks []Node
}

// Node is one block of a tree. Exactly one pointer matching Kind is set.
type Node struct {
	Kind      NodeKind
	Paragraph *ParagraphNode
	List      *ListNode
	Table     *TableNode
}

// ParagraphNode is a paragraph block with inline content.
type ParagraphNode struct {
	Box             typo.Box
	Alignment       typo.Alignment
	FirstLineIndent float64 // points
	LineSpacing     float64
	Inlines         []Inline
}

// Inline is a text run, or a hyperlink wrapping further inlines when Link
// is set.
type Inline struct {
	Text   string
	Format typo.CharFormat
	Link   *HyperlinkNode
}

// HyperlinkNode is an inline hyperlink container.
type HyperlinkNode struct {
	URI     string
	Frame   string
	Inlines []Inline
}

// ListNode is a list block.
type ListNode struct {
	Box    typo.Box
	Marker typo.ListType
	Start  int
	Indent float64
	Items  []ListItemNode
}

// ListItemNode is one list entry holding nested blocks.
type ListItemNode struct {
	Box    typo.Box
	Blocks []Node
}

// TableNode is a table block. Rows are grouped the way tree formats
// group them (head, body, foot).
type TableNode struct {
	Box       typo.Box
	RowGroups []RowGroupNode
}

// RowGroupNode groups table rows.
type RowGroupNode struct {
	Rows []RowNode
}

// RowNode is a table row.
type RowNode struct {
	Box   typo.Box
	Cells []CellNode
}

// CellNode is a table cell holding nested blocks.
type CellNode struct {
	Box     typo.Box
	ColSpan int
	RowSpan int
	Blocks  []Node
}

// Para wraps a paragraph node.
func Para(p *ParagraphNode) Node {
	return Node{Kind: NodeParagraph, Paragraph: p}
}

// ListOf wraps a list node.
func ListOf(l *ListNode) Node {
	return Node{Kind: NodeList, List: l}
}

// TableOf wraps a table node.
func TableOf(t *TableNode) Node {
	return Node{Kind: NodeTable, Table: t}
}

// Text returns a paragraph node holding one plain run.
func Text(s string, f typo.CharFormat) *ParagraphNode {
	return &ParagraphNode{
		Alignment: typo.AlignLeft,
		Inlines:   []Inline{{Text: s, Format: f}},
	}
}
