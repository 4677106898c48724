// Package htmldoc opens HTML documents as tree backends.
package htmldoc

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/typo"
)

// Opener opens HTML files as tree backends.
type Opener struct{}

// NewOpener creates a new HTML opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Format implements backend.Opener.
func (o *Opener) Format() backend.Format {
	return backend.FormatHTML
}

// Open implements backend.Opener.
func (o *Opener) Open(filename string) (*backend.Handle, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	tree, err := Parse(f)
	if err != nil {
		return nil, err
	}
	return &backend.Handle{Format: backend.FormatHTML, Tree: tree}, nil
}

// Parse parses HTML from an io.Reader into a block tree.
func Parse(r io.Reader) (*backend.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}

	base := typo.CharFormat{FontSize: defaultFontSize, Foreground: "#000000"}
	if root := findElement(doc, "html"); root != nil {
		base.Language = getAttr(root, "lang")
	}
	base = applyCharStyle(body, base)

	return &backend.Tree{Blocks: blocks(body, blockContext{format: base, align: typo.AlignLeft})}, nil
}

// blockContext is the inherited state of a block container.
type blockContext struct {
	format typo.CharFormat
	align  typo.Alignment
}

// blocks converts the children of a container. Inline content between
// block elements forms anonymous paragraphs.
func blocks(container *html.Node, ctx blockContext) []backend.Node {
	var (
		out    []backend.Node
		inline []*html.Node
	)
	flush := func() {
		if len(inline) == 0 {
			return
		}
		if p := paragraph(nil, inline, ctx); len(p.Inlines) > 0 {
			out = append(out, backend.Para(p))
		}
		inline = nil
	}

	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && shouldSkipElement(c.Data) {
			continue
		}
		if c.Type != html.ElementNode || !isBlock(c.Data) {
			inline = append(inline, c)
			continue
		}

		flush()
		switch c.Data {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "pre", "address":
			out = append(out, backend.Para(paragraph(c, children(c), ctx)))
		case "ul", "ol":
			out = append(out, backend.ListOf(list(c, ctx)))
		case "table":
			out = append(out, backend.TableOf(table(c, ctx)))
		default:
			// div, section 등 컨테이너는 평탄화한다
			inner := ctx
			inner.format = applyCharStyle(c, ctx.format)
			inner.align = alignment(c, ctx.align)
			if c.Data == "center" {
				inner.align = typo.AlignCenter
			}
			if hasBlockChild(c) {
				out = append(out, blocks(c, inner)...)
			} else {
				out = append(out, backend.Para(paragraph(c, children(c), inner)))
			}
		}
	}
	flush()
	return out
}

// paragraph builds a paragraph from a block element (nil for an anonymous
// block) and its inline content.
func paragraph(el *html.Node, content []*html.Node, ctx blockContext) *backend.ParagraphNode {
	format := ctx.format
	p := &backend.ParagraphNode{Alignment: ctx.align}
	if el != nil {
		format = applyCharStyle(el, format)
		p.Box = box(el, format.FontSize)
		p.Alignment = alignment(el, ctx.align)
		decls := styleOf(el)
		if v, ok := decls["text-indent"]; ok {
			p.FirstLineIndent, _ = length(v, format.FontSize)
		}
		p.LineSpacing = lineHeight(decls["line-height"], format.FontSize)
	}

	b := &inlineBuilder{atStart: true, pre: el != nil && el.Data == "pre"}
	for _, n := range content {
		p.Inlines = b.node(n, format, p.Inlines)
	}
	p.Inlines = trimTrailing(p.Inlines)
	return p
}

// inlineBuilder collapses white space across the inlines of a paragraph.
type inlineBuilder struct {
	atStart bool // previous output ended in white space or nothing yet
	pre     bool
}

func (b *inlineBuilder) node(n *html.Node, f typo.CharFormat, out []backend.Inline) []backend.Inline {
	switch n.Type {
	case html.TextNode:
		text := n.Data
		if !b.pre {
			text = strings.Join(strings.Fields(text), " ")
			if text == "" && n.Data != "" && !b.atStart {
				text = " "
			} else if text != "" {
				if startsWithSpace(n.Data) && !b.atStart {
					text = " " + text
				}
				if endsWithSpace(n.Data) {
					text += " "
				}
			}
		}
		if text == "" {
			return out
		}
		b.atStart = endsWithSpace(text)
		return append(out, backend.Inline{Text: text, Format: f})

	case html.ElementNode:
		if shouldSkipElement(n.Data) {
			return out
		}
		switch n.Data {
		case "br":
			b.atStart = true
			return append(out, backend.Inline{Text: "\n", Format: f})
		case "a":
			href := getAttr(n, "href")
			if href == "" {
				break
			}
			link := &backend.HyperlinkNode{URI: href, Frame: getAttr(n, "target")}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				link.Inlines = b.node(c, applyCharStyle(n, f), link.Inlines)
			}
			return append(out, backend.Inline{Link: link})
		}
		f = applyCharStyle(n, f)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			out = b.node(c, f, out)
		}
	}
	return out
}

func startsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\n\r\f", rune(s[0]))
}

func endsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\n\r\f", rune(s[len(s)-1]))
}

// trimTrailing drops trailing collapsible spaces from the last inline,
// descending into a trailing hyperlink.
func trimTrailing(inlines []backend.Inline) []backend.Inline {
	for len(inlines) > 0 {
		last := &inlines[len(inlines)-1]
		if last.Link != nil {
			last.Link.Inlines = trimTrailing(last.Link.Inlines)
			return inlines
		}
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			return inlines
		}
		inlines = inlines[:len(inlines)-1]
	}
	return inlines
}

// list converts ul/ol. Inline content directly inside li forms its
// paragraphs; nested lists become list blocks of the item.
func list(n *html.Node, ctx blockContext) *backend.ListNode {
	format := applyCharStyle(n, ctx.format)
	l := &backend.ListNode{
		Box:    box(n, format.FontSize),
		Marker: listMarker(n),
		Start:  1,
	}
	if v, err := strconv.Atoi(getAttr(n, "start")); err == nil {
		l.Start = v
	}
	if v, ok := styleOf(n)["padding-left"]; ok {
		l.Indent, _ = length(v, format.FontSize)
	}

	inner := blockContext{format: format, align: alignment(n, ctx.align)}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		itemCtx := inner
		itemCtx.format = applyCharStyle(c, inner.format)
		itemCtx.align = alignment(c, inner.align)
		l.Items = append(l.Items, backend.ListItemNode{
			Box:    box(c, itemCtx.format.FontSize),
			Blocks: blocks(c, itemCtx),
		})
	}
	return l
}

func listMarker(n *html.Node) typo.ListType {
	kind := getAttr(n, "type")
	if v, ok := styleOf(n)["list-style-type"]; ok {
		kind = v
	}
	switch kind {
	case "1", "decimal":
		return typo.ListDecimal
	case "a", "lower-alpha", "lower-latin":
		return typo.ListLowerLetter
	case "A", "upper-alpha", "upper-latin":
		return typo.ListUpperLetter
	case "i", "lower-roman":
		return typo.ListLowerRoman
	case "I", "upper-roman":
		return typo.ListUpperRoman
	case "none":
		return typo.ListNone
	case "disc", "circle", "square":
		return typo.ListBullet
	}
	if n.Data == "ol" {
		return typo.ListDecimal
	}
	return typo.ListBullet
}

// table converts a table. The HTML parser wraps bare rows in tbody, so
// every row belongs to a row group.
func table(n *html.Node, ctx blockContext) *backend.TableNode {
	format := applyCharStyle(n, ctx.format)
	t := &backend.TableNode{Box: box(n, format.FontSize)}
	inner := blockContext{format: format, align: alignment(n, ctx.align)}

	for section := n.FirstChild; section != nil; section = section.NextSibling {
		if section.Type != html.ElementNode {
			continue
		}
		switch section.Data {
		case "thead", "tbody", "tfoot":
			var group backend.RowGroupNode
			for tr := section.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.Data == "tr" {
					group.Rows = append(group.Rows, row(tr, inner))
				}
			}
			t.RowGroups = append(t.RowGroups, group)
		case "tr":
			t.RowGroups = append(t.RowGroups, backend.RowGroupNode{Rows: []backend.RowNode{row(section, inner)}})
		}
	}
	return t
}

func row(tr *html.Node, ctx blockContext) backend.RowNode {
	r := backend.RowNode{Box: box(tr, ctx.format.FontSize)}
	rowCtx := blockContext{format: applyCharStyle(tr, ctx.format), align: alignment(tr, ctx.align)}

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		cellCtx := blockContext{format: applyCharStyle(c, rowCtx.format), align: alignment(c, "")}
		if cellCtx.align == "" {
			cellCtx.align = rowCtx.align
			if c.Data == "th" {
				cellCtx.align = typo.AlignCenter
			}
		}
		cell := backend.CellNode{
			Box:     box(c, cellCtx.format.FontSize),
			ColSpan: span(getAttr(c, "colspan")),
			RowSpan: span(getAttr(c, "rowspan")),
			Blocks:  blocks(c, cellCtx),
		}
		r.Cells = append(r.Cells, cell)
	}
	return r
}

func span(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// isBlock reports whether an element starts a new block.
func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "ul", "ol", "table", "h1", "h2", "h3", "h4", "h5", "h6",
		"blockquote", "pre", "article", "section", "header", "footer", "main", "nav", "aside", "address", "center":
		return true
	}
	return false
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlock(c.Data) {
			return true
		}
	}
	return false
}

func shouldSkipElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed", "head", "title":
		return true
	}
	return false
}

// findElement finds the first element with the tag, depth first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
