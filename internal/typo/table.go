package typo

// Table is a strictly hierarchical table: rows of cells of blocks.
type Table struct {
	Base
	Rows []*TableRow `json:"rows"`
}

// TableRow is one row of a table.
type TableRow struct {
	Base
	Cells []*TableCell `json:"cells"`
}

// TableCell holds nested block content.
type TableCell struct {
	Base
	ColSpan int     `json:"col_span,omitempty"`
	RowSpan int     `json:"row_span,omitempty"`
	Blocks  []Block `json:"blocks"`
}

// NewTable creates an empty table.
func NewTable(origin Origin) *Table {
	return &Table{
		Base: Base{Origin: origin},
		Rows: make([]*TableRow, 0),
	}
}

// AddRow appends an empty row and returns it.
func (t *Table) AddRow() *TableRow {
	row := &TableRow{Base: Base{Origin: t.Origin}}
	t.Rows = append(t.Rows, row)
	return row
}

// AddCell appends an empty cell spanning one row and column.
func (r *TableRow) AddCell() *TableCell {
	cell := &TableCell{
		Base:    Base{Origin: r.Origin},
		ColSpan: 1,
		RowSpan: 1,
	}
	r.Cells = append(r.Cells, cell)
	return cell
}

// CellCount returns the number of cells in the row.
func (r *TableRow) CellCount() int {
	return len(r.Cells)
}

// AddParagraph appends a paragraph to the cell.
func (c *TableCell) AddParagraph(p *Paragraph) {
	c.Blocks = append(c.Blocks, ParagraphBlock(p))
}

// AddList appends a list to the cell.
func (c *TableCell) AddList(l *List) {
	c.Blocks = append(c.Blocks, ListBlock(l))
}

// AddTable appends a nested table to the cell.
func (c *TableCell) AddTable(t *Table) {
	c.Blocks = append(c.Blocks, TableBlock(t))
}
