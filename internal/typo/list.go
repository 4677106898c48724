package typo

// ListType is the marker style of a list.
type ListType string

const (
	ListNone        ListType = "none"
	ListBullet      ListType = "bullet"
	ListDecimal     ListType = "decimal"
	ListLowerLetter ListType = "lower-letter"
	ListUpperLetter ListType = "upper-letter"
	ListLowerRoman  ListType = "lower-roman"
	ListUpperRoman  ListType = "upper-roman"
)

// List represents a list at one nesting level.
type List struct {
	Base
	Type   ListType    `json:"type"`
	Level  int         `json:"level"` // nesting level (0 = top level)
	Start  int         `json:"start"`
	Indent float64     `json:"indent,omitempty"` // marker tab / indent in points
	Items  []*ListItem `json:"items"`
}

// ListItem owns the blocks of one list entry: its paragraphs and any
// nested lists or tables.
type ListItem struct {
	Base
	Blocks []Block `json:"blocks"`
}

// NewList creates a new list.
func NewList(origin Origin, typ ListType, level, start int) *List {
	return &List{
		Base:  Base{Origin: origin},
		Type:  typ,
		Level: level,
		Start: start,
		Items: make([]*ListItem, 0),
	}
}

// AddItem appends a new empty item and returns it.
func (l *List) AddItem() *ListItem {
	item := &ListItem{Base: Base{Origin: l.Origin}}
	l.Items = append(l.Items, item)
	return item
}

// LastItem returns the most recently added item, or nil.
func (l *List) LastItem() *ListItem {
	if len(l.Items) == 0 {
		return nil
	}
	return l.Items[len(l.Items)-1]
}

// IsEmpty returns true if the list has no items.
func (l *List) IsEmpty() bool {
	return len(l.Items) == 0
}

// AddParagraph appends a paragraph to the item.
func (it *ListItem) AddParagraph(p *Paragraph) {
	it.Blocks = append(it.Blocks, ParagraphBlock(p))
}

// AddList appends a nested list to the item.
func (it *ListItem) AddList(l *List) {
	it.Blocks = append(it.Blocks, ListBlock(l))
}

// AddTable appends a table to the item.
func (it *ListItem) AddTable(t *Table) {
	it.Blocks = append(it.Blocks, TableBlock(t))
}

// SubLists returns the nested lists of the item.
func (it *ListItem) SubLists() []*List {
	var lists []*List
	for _, b := range it.Blocks {
		if b.Type == BlockTypeList && b.List != nil {
			lists = append(lists, b.List)
		}
	}
	return lists
}

// Paragraphs returns the item's own paragraphs, not those of sub-lists.
func (it *ListItem) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, b := range it.Blocks {
		if b.Type == BlockTypeParagraph && b.Paragraph != nil {
			paras = append(paras, b.Paragraph)
		}
	}
	return paras
}
