package backend

import (
	"fmt"
	"sort"

	"github.com/roboco-io/typodiff/internal/typo"
)

// RangeDocument is an in-memory RangeBackend. Adapters build one from a
// concrete file format; tests build one by hand.
type RangeDocument struct {
	story []rune
	spans []formatSpan
	paras []paraEntry

	paraStart int // start of the paragraph currently being appended
}

type formatSpan struct {
	start, end int
	format     CharFormat
}

type paraEntry struct {
	start, end int
	format     ParaFormat
}

// NewRangeDocument creates an empty range document.
func NewRangeDocument() *RangeDocument {
	return &RangeDocument{}
}

// Append appends text with the given character format. Adjacent text with
// an identical format extends the previous format unit.
func (d *RangeDocument) Append(text string, f CharFormat) *RangeDocument {
	r := []rune(text)
	if len(r) == 0 {
		return d
	}
	start := len(d.story)
	d.story = append(d.story, r...)
	end := len(d.story)

	if n := len(d.spans); n > 0 && d.spans[n-1].end == start && d.spans[n-1].format == f {
		d.spans[n-1].end = end
		return d
	}
	d.spans = append(d.spans, formatSpan{start: start, end: end, format: f})
	return d
}

// EndParagraph terminates the current paragraph with a paragraph mark and
// assigns it the paragraph format.
func (d *RangeDocument) EndParagraph(pf ParaFormat) *RangeDocument {
	return d.terminate(ParagraphMark, pf)
}

// EndCell terminates the last paragraph of a table cell with a cell mark.
func (d *RangeDocument) EndCell(pf ParaFormat) *RangeDocument {
	return d.terminate(CellMark, pf)
}

// StartRow emits a table row start delimiter paragraph.
func (d *RangeDocument) StartRow() *RangeDocument {
	d.Append(string(RowStart), CharFormat{})
	return d.terminate(ParagraphMark, ParaFormat{})
}

// EndRow emits a table row end delimiter paragraph.
func (d *RangeDocument) EndRow() *RangeDocument {
	d.Append(string(RowEnd), CharFormat{})
	return d.terminate(ParagraphMark, ParaFormat{})
}

func (d *RangeDocument) terminate(mark rune, pf ParaFormat) *RangeDocument {
	f := CharFormat{}
	if n := len(d.spans); n > 0 {
		f = d.spans[n-1].format
		f.Hidden = false
	}
	d.Append(string(mark), f)
	d.paras = append(d.paras, paraEntry{start: d.paraStart, end: len(d.story), format: pf})
	d.paraStart = len(d.story)
	return d
}

// Len returns the story length in runes.
func (d *RangeDocument) Len() int {
	return len(d.story)
}

// StoryText implements RangeBackend.
func (d *RangeDocument) StoryText() (string, error) {
	return string(d.story), nil
}

// Range implements RangeBackend.
func (d *RangeDocument) Range() (TextRange, error) {
	return &memoryRange{doc: d}, nil
}

// paragraphBounds returns the paragraph unit containing pos.
func (d *RangeDocument) paragraphBounds(pos int) (int, int) {
	n := len(d.story)
	if pos >= n {
		return n, n
	}
	start := pos
	for start > 0 && !isParagraphEnd(d.story[start-1]) {
		start--
	}
	end := pos
	for end < n {
		end++
		if isParagraphEnd(d.story[end-1]) {
			break
		}
	}
	return start, end
}

// formatBounds returns the character format unit containing pos.
func (d *RangeDocument) formatBounds(pos int) (int, int, CharFormat) {
	i := sort.Search(len(d.spans), func(i int) bool { return d.spans[i].end > pos })
	if i == len(d.spans) || d.spans[i].start > pos {
		return pos, pos, CharFormat{}
	}
	s := d.spans[i]
	return s.start, s.end, s.format
}

func (d *RangeDocument) paraFormat(pos int) ParaFormat {
	start, _ := d.paragraphBounds(pos)
	for _, p := range d.paras {
		if p.start == start {
			return p.format
		}
	}
	return ParaFormat{Alignment: typo.AlignLeft}
}

func isParagraphEnd(r rune) bool {
	return r == ParagraphMark || r == CellMark
}

// memoryRange implements TextRange over a RangeDocument.
type memoryRange struct {
	doc        *RangeDocument
	start, end int
}

func (r *memoryRange) Start() int { return r.start }
func (r *memoryRange) End() int   { return r.end }

func (r *memoryRange) SetRange(start, end int) error {
	if start < 0 || end < start || end > len(r.doc.story) {
		return fmt.Errorf("range [%d,%d) out of story bounds [0,%d)", start, end, len(r.doc.story))
	}
	r.start, r.end = start, end
	return nil
}

func (r *memoryRange) Move(unit Unit, count int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("backward moves are not supported")
	}
	pos := r.start
	moved := 0
	for moved < count {
		var end int
		switch unit {
		case UnitParagraph:
			_, end = r.doc.paragraphBounds(pos)
		case UnitCharFormat:
			_, end, _ = r.doc.formatBounds(pos)
		default:
			return moved, fmt.Errorf("unsupported unit: %s", unit)
		}
		if end <= pos || end >= len(r.doc.story) {
			if end > pos {
				pos = end
			}
			break
		}
		pos = end
		moved++
	}
	r.start, r.end = pos, pos
	return moved, nil
}

func (r *memoryRange) Expand(unit Unit) error {
	switch unit {
	case UnitParagraph:
		r.start, r.end = r.doc.paragraphBounds(r.start)
	case UnitCharFormat:
		r.start, r.end, _ = r.doc.formatBounds(r.start)
	default:
		return fmt.Errorf("unsupported unit: %s", unit)
	}
	return nil
}

func (r *memoryRange) Text() (string, error) {
	return string(r.doc.story[r.start:r.end]), nil
}

func (r *memoryRange) CharFormat() (CharFormat, error) {
	_, _, f := r.doc.formatBounds(r.start)
	return f, nil
}

func (r *memoryRange) ParaFormat() (ParaFormat, error) {
	return r.doc.paraFormat(r.start), nil
}
