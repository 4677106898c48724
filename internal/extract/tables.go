package extract

import "github.com/roboco-io/typodiff/internal/backend"

// tableSpan is a table found by the pre-pass, in absolute story offsets.
type tableSpan struct {
	start, end int
	rows       []*rowSpan
}

type rowSpan struct {
	start, end int
	cells      []*cellSpan
}

type cellSpan struct {
	start, end int
	tables     []*tableSpan
}

func (c *cellSpan) contains(pos int) bool { return pos >= c.start && pos < c.end }
func (r *rowSpan) contains(pos int) bool  { return pos >= r.start && pos < r.end }
func (t *tableSpan) contains(pos int) bool {
	return pos >= t.start && pos < t.end
}

// rowFrame is an open row during the scan.
type rowFrame struct {
	table   *tableSpan
	row     *rowSpan
	pending *cellSpan // cell being accumulated, closed by a cell mark
}

// scanTables runs a matched-delimiter scan over the raw story and returns
// the top-level table skeletons. A row runs from its row-start delimiter
// paragraph to the end of its row-end delimiter paragraph; its cells are
// closed by cell marks. Rows that start where the previous row of the same
// container ended belong to the same table. Unterminated rows are dropped.
func scanTables(story []rune) []*tableSpan {
	var (
		root  []*tableSpan
		stack []*rowFrame
	)

	// delimiterEnd returns the end of the delimiter paragraph at i.
	delimiterEnd := func(i int) int {
		if i+1 < len(story) && story[i+1] == backend.ParagraphMark {
			return i + 2
		}
		return i + 1
	}

	for i := 0; i < len(story); i++ {
		switch story[i] {
		case backend.RowStart:
			container := &root
			if n := len(stack); n > 0 {
				container = &stack[n-1].pending.tables
			}
			var table *tableSpan
			if n := len(*container); n > 0 && (*container)[n-1].end == i {
				table = (*container)[n-1]
			} else {
				table = &tableSpan{start: i, end: i}
				*container = append(*container, table)
			}
			end := delimiterEnd(i)
			stack = append(stack, &rowFrame{
				table:   table,
				row:     &rowSpan{start: i},
				pending: &cellSpan{start: end},
			})
			i = end - 1

		case backend.CellMark:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			top.pending.end = i + 1
			top.row.cells = append(top.row.cells, top.pending)
			top.pending = &cellSpan{start: i + 1}

		case backend.RowEnd:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			end := delimiterEnd(i)
			top.row.end = end
			top.table.rows = append(top.table.rows, top.row)
			top.table.end = end
			i = end - 1
		}
	}

	return pruneTables(root)
}

// pruneTables drops tables left without rows by unterminated row starts.
func pruneTables(tables []*tableSpan) []*tableSpan {
	kept := tables[:0]
	for _, t := range tables {
		if len(t.rows) == 0 {
			continue
		}
		for _, r := range t.rows {
			for _, c := range r.cells {
				c.tables = pruneTables(c.tables)
			}
		}
		kept = append(kept, t)
	}
	return kept
}

// cellPath is the chain of skeleton nodes from a top-level table down to
// the innermost cell containing a position.
type cellPath []cellStep

type cellStep struct {
	table *tableSpan
	row   *rowSpan
	cell  *cellSpan
}

// locate returns the path to the innermost cell containing pos, or nil
// when pos lies outside every table cell.
func locate(tables []*tableSpan, pos int) cellPath {
	var path cellPath
	for {
		step, ok := locateIn(tables, pos)
		if !ok {
			return path
		}
		path = append(path, step)
		tables = step.cell.tables
	}
}

func locateIn(tables []*tableSpan, pos int) (cellStep, bool) {
	for _, t := range tables {
		if !t.contains(pos) {
			continue
		}
		for _, r := range t.rows {
			if !r.contains(pos) {
				continue
			}
			for _, c := range r.cells {
				if c.contains(pos) {
					return cellStep{table: t, row: r, cell: c}, true
				}
			}
		}
	}
	return cellStep{}, false
}
