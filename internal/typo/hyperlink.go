package typo

// Hyperlink is a link inside a paragraph. Only tree backends expose
// hyperlink semantics.
type Hyperlink struct {
	Target      string `json:"target"`
	TargetFrame string `json:"target_frame,omitempty"`
	Text        string `json:"text"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// AddHyperlink records a hyperlink covering [start, end) of the paragraph.
func (p *Paragraph) AddHyperlink(target, frame string, start, end int) {
	p.Hyperlinks = append(p.Hyperlinks, Hyperlink{
		Target:      target,
		TargetFrame: frame,
		Text:        p.Slice(start, end),
		Start:       start,
		End:         end,
	})
}
