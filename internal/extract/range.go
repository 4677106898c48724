package extract

import (
	"fmt"
	"strings"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/typo"
)

// FromRange extracts a model from a range backend. The backend is
// borrowed; FromRange never modifies it.
func FromRange(b backend.RangeBackend, opts Options) (*typo.Document, error) {
	x := &rangeExtractor{
		ctx:    NewContext(typo.OriginRange, opts),
		doc:    typo.NewDocument(typo.OriginRange),
		tables: make(map[*tableSpan]*typo.Table),
		rows:   make(map[*rowSpan]*typo.TableRow),
		cells:  make(map[*cellSpan]*typo.TableCell),
		lists:  make(map[blockSink]*listState),
	}
	if err := x.run(b); err != nil {
		return nil, err
	}
	return x.doc, nil
}

type rangeExtractor struct {
	ctx   *Context
	doc   *typo.Document
	story []rune

	skeleton []*tableSpan
	tables   map[*tableSpan]*typo.Table
	rows     map[*rowSpan]*typo.TableRow
	cells    map[*cellSpan]*typo.TableCell
	lists    map[blockSink]*listState
}

// listState is the stack of open lists of one block container.
type listState struct {
	stack []*typo.List
}

func (x *rangeExtractor) run(b backend.RangeBackend) error {
	story, err := b.StoryText()
	if err != nil {
		return fmt.Errorf("failed to read story text: %w", err)
	}
	x.story = []rune(story)
	x.skeleton = scanTables(x.story)

	para, err := b.Range()
	if err != nil {
		return fmt.Errorf("failed to create paragraph range: %w", err)
	}
	chars, err := b.Range()
	if err != nil {
		return fmt.Errorf("failed to create format range: %w", err)
	}

	for {
		if err := para.Expand(backend.UnitParagraph); err != nil {
			return fmt.Errorf("failed to expand paragraph at %d: %w", para.Start(), err)
		}
		start, end := para.Start(), para.End()
		if end <= start {
			break
		}

		if err := x.paragraph(para, chars, start, end); err != nil {
			return err
		}

		if err := para.SetRange(start, start); err != nil {
			return fmt.Errorf("failed to reset paragraph range: %w", err)
		}
		moved, err := para.Move(backend.UnitParagraph, 1)
		if err != nil {
			return fmt.Errorf("failed to move past paragraph at %d: %w", start, err)
		}
		if moved == 0 {
			break
		}
	}
	return nil
}

// paragraph handles one paragraph unit [start, end).
func (x *rangeExtractor) paragraph(para, chars backend.TextRange, start, end int) error {
	if x.isRowDelimiter(start, end) {
		return nil
	}

	pf, err := para.ParaFormat()
	if err != nil {
		return fmt.Errorf("failed to read paragraph format at %d: %w", start, err)
	}

	p := x.ctx.NewParagraph()
	if pf.Alignment != "" {
		p.Alignment = pf.Alignment
	}
	p.FirstLineIndent = pf.FirstLineIndent
	p.LineSpacing = pf.LineSpacing
	if pf.RightToLeft {
		p.Box.FlowDirection = typo.RightToLeft
	}

	if err := x.spans(chars, p, start, end); err != nil {
		return err
	}

	sink := x.container(start)
	if pf.IsList() {
		x.placeListParagraph(sink, p, pf)
	} else {
		x.resetLists(sink)
		sink.AddParagraph(p)
	}
	return nil
}

// isRowDelimiter reports whether the paragraph is a row start or row end
// token rather than content.
func (x *rangeExtractor) isRowDelimiter(start, end int) bool {
	body := strings.TrimRight(string(x.story[start:end]), string([]rune{backend.ParagraphMark, backend.CellMark}))
	if body == "" {
		return false
	}
	for _, r := range body {
		if r != backend.RowStart && r != backend.RowEnd {
			return false
		}
	}
	return true
}

// spans sub-walks the paragraph by character format unit.
func (x *rangeExtractor) spans(chars backend.TextRange, p *typo.Paragraph, start, end int) error {
	correction := 0 // story runes not represented in the paragraph text

	for pos := start; pos < end; {
		if err := chars.SetRange(pos, pos); err != nil {
			return fmt.Errorf("failed to position format range at %d: %w", pos, err)
		}
		if err := chars.Expand(backend.UnitCharFormat); err != nil {
			return fmt.Errorf("failed to expand format unit at %d: %w", pos, err)
		}
		f, err := chars.CharFormat()
		if err != nil {
			return fmt.Errorf("failed to read character format at %d: %w", pos, err)
		}

		// clip the unit to this paragraph
		s, e := max(chars.Start(), pos), min(chars.End(), end)
		if e <= s {
			e = end
		}
		unit := x.story[s:e]
		pos = e

		if f.Hidden || isBogusMarker(unit) {
			correction += len(unit)
			continue
		}

		text := x.ctx.normalize(string(unit))
		n := len([]rune(text))
		relStart := s - start - correction
		correction += len(unit) - n
		if n == 0 {
			continue
		}

		if got := p.AppendText(text); got != relStart {
			return fmt.Errorf("paragraph offset drift at %d: got %d, want %d", s, got, relStart)
		}
		p.AddSpan(f.CharFormat, relStart, relStart+n, text)
	}
	return nil
}

// isBogusMarker reports whether a format unit is a single structural
// control character carrying no content.
func isBogusMarker(unit []rune) bool {
	if len(unit) != 1 {
		return false
	}
	switch unit[0] {
	case backend.ObjectMark, backend.RowStart, backend.RowEnd, backend.SoftBreak:
		return true
	}
	return false
}

// container returns the block sink for a paragraph starting at pos,
// materializing the enclosing tables, rows and cells on first use.
func (x *rangeExtractor) container(pos int) blockSink {
	var sink blockSink = x.doc
	for _, step := range locate(x.skeleton, pos) {
		table, ok := x.tables[step.table]
		if !ok {
			table = x.ctx.NewTable()
			x.tables[step.table] = table
			x.resetLists(sink)
			sink.AddTable(table)
		}
		row, ok := x.rows[step.row]
		if !ok {
			row = table.AddRow()
			x.rows[step.row] = row
		}
		cell, ok := x.cells[step.cell]
		if !ok {
			cell = row.AddCell()
			x.cells[step.cell] = cell
		}
		sink = cell
	}
	return sink
}

func (x *rangeExtractor) resetLists(sink blockSink) {
	delete(x.lists, sink)
}

// placeListParagraph groups consecutive list paragraphs of a container
// into nested lists by level.
func (x *rangeExtractor) placeListParagraph(sink blockSink, p *typo.Paragraph, pf backend.ParaFormat) {
	p.InList = true

	st, ok := x.lists[sink]
	if !ok {
		st = &listState{}
		x.lists[sink] = st
	}

	for n := len(st.stack); n > 0 && st.stack[n-1].Level > pf.ListLevel; n = len(st.stack) {
		st.stack = st.stack[:n-1]
	}
	if n := len(st.stack); n > 0 && st.stack[n-1].Level == pf.ListLevel && st.stack[n-1].Type != pf.ListType {
		st.stack = st.stack[:n-1]
	}

	if n := len(st.stack); n > 0 && st.stack[n-1].Level == pf.ListLevel {
		st.stack[n-1].AddItem().AddParagraph(p)
		return
	}

	list := x.ctx.NewList(pf.ListType, pf.ListLevel, pf.ListStart)
	list.Indent = pf.ListIndent
	if n := len(st.stack); n > 0 {
		parent := st.stack[n-1]
		item := parent.LastItem()
		if item == nil {
			item = parent.AddItem()
		}
		item.AddList(list)
	} else {
		sink.AddList(list)
	}
	st.stack = append(st.stack, list)
	list.AddItem().AddParagraph(p)
}
