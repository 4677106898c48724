// Package backend defines the two document backend shapes the extractors
// read from: a cursor/range backend and a block/inline tree backend.
package backend

import "github.com/roboco-io/typodiff/internal/typo"

// Structural characters of a range backend's story.
const (
	ParagraphMark = '\r'     // end of paragraph
	CellMark      = '\a'     // end of table cell
	RowStart      = '\uFFF9' // table row start delimiter
	RowEnd        = '\uFFFB' // table row end delimiter
	ObjectMark    = '\uFFFC' // embedded object placeholder
	SoftBreak     = '\v'     // vertical tab used as a soft paragraph break
	PageBreak     = '\f'     // form feed
	OptionalHyph  = '\u00AD' // optional (soft) hyphen
	MergedCell    = '\uFFFF' // vertically merged cell marker
)

// Unit is the granularity a TextRange moves or expands by.
type Unit int

const (
	UnitParagraph Unit = iota
	UnitCharFormat
)

// String returns the string representation of the unit.
func (u Unit) String() string {
	switch u {
	case UnitParagraph:
		return "paragraph"
	case UnitCharFormat:
		return "charformat"
	default:
		return "unknown"
	}
}

// CharFormat is the character format a range backend reports. Hidden text
// is not part of the visible document.
type CharFormat struct {
	typo.CharFormat
	Hidden bool
}

// ParaFormat is the paragraph format a range backend reports.
type ParaFormat struct {
	Alignment       typo.Alignment
	FirstLineIndent float64 // points
	LineSpacing     float64
	RightToLeft     bool

	ListType   typo.ListType // empty or ListNone when not a list paragraph
	ListLevel  int
	ListStart  int
	ListIndent float64
}

// IsList reports whether the paragraph carries a list property.
func (f ParaFormat) IsList() bool {
	return f.ListType != "" && f.ListType != typo.ListNone
}

// RangeBackend is a range-addressable document. Offsets are rune offsets
// into the story.
type RangeBackend interface {
	// StoryText returns the complete story, structural characters included.
	StoryText() (string, error)

	// Range returns a new range collapsed at the start of the story.
	Range() (TextRange, error)
}

// TextRange is a movable [Start, End) selection over a RangeBackend.
type TextRange interface {
	Start() int
	End() int

	// SetRange repositions the range.
	SetRange(start, end int) error

	// Move collapses the range to its start and moves it forward by count
	// units. It returns the number of units actually moved.
	Move(unit Unit, count int) (int, error)

	// Expand grows the range to cover the whole unit containing its start.
	Expand(unit Unit) error

	Text() (string, error)
	CharFormat() (CharFormat, error)
	ParaFormat() (ParaFormat, error)
}
