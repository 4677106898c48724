package typo

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Alignment is the horizontal text alignment of a paragraph.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignRight   Alignment = "right"
	AlignCenter  Alignment = "center"
	AlignJustify Alignment = "justify"
)

// Channel identifies one formatting attribute's run sequence.
type Channel int

const (
	ChannelFontName Channel = iota
	ChannelFontSize
	ChannelForeground
	ChannelBold
	ChannelItalic
	ChannelUnderline
	ChannelSubscript
	ChannelSuperscript
	ChannelLanguage
)

// Channels lists every channel in comparison order.
var Channels = []Channel{
	ChannelFontName,
	ChannelFontSize,
	ChannelForeground,
	ChannelBold,
	ChannelItalic,
	ChannelUnderline,
	ChannelSubscript,
	ChannelSuperscript,
	ChannelLanguage,
}

var channelNames = map[Channel]string{
	ChannelFontName:    "font_name",
	ChannelFontSize:    "font_size",
	ChannelForeground:  "foreground",
	ChannelBold:        "bold",
	ChannelItalic:      "italic",
	ChannelUnderline:   "underline",
	ChannelSubscript:   "subscript",
	ChannelSuperscript: "superscript",
	ChannelLanguage:    "language",
}

// String returns the channel name.
func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler so channels can key JSON maps.
func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Channel) UnmarshalText(b []byte) error {
	for ch, name := range channelNames {
		if name == string(b) {
			*c = ch
			return nil
		}
	}
	return fmt.Errorf("unknown channel: %s", b)
}

// Run is one channel's run: a value covering [Start, End) of the
// paragraph text, in paragraph-relative rune offsets.
type Run struct {
	Value string `json:"value"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Len returns the number of runes the run covers.
func (r Run) Len() int {
	return r.End - r.Start
}

// CharFormat is the backend-neutral character formatting of one span.
type CharFormat struct {
	FontName    string  `json:"font_name,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"` // points
	Foreground  string  `json:"foreground,omitempty"`
	Bold        bool    `json:"bold,omitempty"`
	Italic      bool    `json:"italic,omitempty"`
	Underline   bool    `json:"underline,omitempty"`
	Subscript   bool    `json:"subscript,omitempty"`
	Superscript bool    `json:"superscript,omitempty"`
	Language    string  `json:"language,omitempty"`
}

// Value returns the canonical channel value of the format.
func (f CharFormat) Value(ch Channel) string {
	switch ch {
	case ChannelFontName:
		return f.FontName
	case ChannelFontSize:
		return FontSizeValue(f.FontSize)
	case ChannelForeground:
		return f.Foreground
	case ChannelBold:
		return strconv.FormatBool(f.Bold)
	case ChannelItalic:
		return strconv.FormatBool(f.Italic)
	case ChannelUnderline:
		return strconv.FormatBool(f.Underline)
	case ChannelSubscript:
		return strconv.FormatBool(f.Subscript)
	case ChannelSuperscript:
		return strconv.FormatBool(f.Superscript)
	case ChannelLanguage:
		return f.Language
	}
	return ""
}

// FontSizeValue formats a point size rounded to hundredths.
func FontSizeValue(pt float64) string {
	return strconv.FormatFloat(math.Round(pt*100)/100, 'f', -1, 64)
}

// Paragraph is a paragraph of text with its per-channel format runs.
type Paragraph struct {
	Base
	Text            string            `json:"text"`
	Alignment       Alignment         `json:"alignment,omitempty"`
	FirstLineIndent float64           `json:"first_line_indent"` // points
	LineSpacing     float64           `json:"line_spacing,omitempty"`
	InList          bool              `json:"in_list,omitempty"`
	Runs            map[Channel][]Run `json:"runs,omitempty"`
	Hyperlinks      []Hyperlink       `json:"hyperlinks,omitempty"`
}

// NewParagraph creates an empty paragraph of the given origin.
func NewParagraph(origin Origin) *Paragraph {
	return &Paragraph{
		Base:      Base{Origin: origin},
		Alignment: AlignLeft,
		Runs:      make(map[Channel][]Run),
	}
}

// Len returns the paragraph text length in runes.
func (p *Paragraph) Len() int {
	return utf8.RuneCountInString(p.Text)
}

// AppendText appends text and returns the rune offset it starts at.
func (p *Paragraph) AppendText(s string) int {
	start := p.Len()
	p.Text += s
	return start
}

// SetText replaces the paragraph text. Only the rectifier uses it.
func (p *Paragraph) SetText(s string) {
	p.Text = s
}

// AddRun appends a run to a channel.
func (p *Paragraph) AddRun(ch Channel, r Run) {
	if p.Runs == nil {
		p.Runs = make(map[Channel][]Run)
	}
	p.Runs[ch] = append(p.Runs[ch], r)
}

// AddSpan appends one run per channel for a span with the given format.
func (p *Paragraph) AddSpan(f CharFormat, start, end int, text string) {
	for _, ch := range Channels {
		p.AddRun(ch, Run{Value: f.Value(ch), Start: start, End: end, Text: text})
	}
}

// ChannelRuns returns the runs of one channel.
func (p *Paragraph) ChannelRuns(ch Channel) []Run {
	return p.Runs[ch]
}

// IsEmpty returns true if the paragraph has no text and no runs.
func (p *Paragraph) IsEmpty() bool {
	if p.Text != "" {
		return false
	}
	for _, runs := range p.Runs {
		if len(runs) > 0 {
			return false
		}
	}
	return true
}

// Slice returns the runes [start, end) of the paragraph text.
func (p *Paragraph) Slice(start, end int) string {
	r := []rune(p.Text)
	if start < 0 {
		start = 0
	}
	if end > len(r) {
		end = len(r)
	}
	if start >= end {
		return ""
	}
	return string(r[start:end])
}
