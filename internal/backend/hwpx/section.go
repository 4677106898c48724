package hwpx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/roboco-io/typodiff/internal/backend"
)

// sectionReader turns section XML into tree blocks.
type sectionReader struct {
	styles *Styles
}

// readSection parses one section file and appends its blocks.
func (r *sectionReader) readSection(data []byte) ([]backend.Node, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing section XML: %w", err)
	}
	sec := xmlquery.FindOne(root, "//*[local-name()='sec']")
	if sec == nil {
		return nil, fmt.Errorf("section root element not found")
	}
	return r.blocks(sec, false), nil
}

// blocks reads the hp:p children of a container. Consecutive list
// paragraphs are grouped into list nodes by heading level.
func (r *sectionReader) blocks(container *xmlquery.Node, inCell bool) []backend.Node {
	paras := elements(container, "p")

	var (
		out   []backend.Node
		lists listStack
	)
	for i, p := range paras {
		style := r.styles.Para(p.SelectAttr("paraPrIDRef"))
		last := inCell && i == len(paras)-1

		para, tables := r.paragraph(p, style)
		keep := len(tables) == 0 || len(para.Inlines) > 0 || last

		if !style.IsList() {
			lists.reset()
			out = append(out, tables...)
			if keep {
				out = append(out, backend.Para(para))
			}
			continue
		}

		item := lists.item(r.styles, style, &out)
		item.Blocks = append(item.Blocks, tables...)
		if keep {
			item.Blocks = append(item.Blocks, backend.Para(para))
		}
	}
	return out
}

// listStack tracks the open list per nesting level while grouping.
type listStack struct {
	open []*backend.ListNode
}

func (s *listStack) reset() {
	s.open = nil
}

// item returns a new list item for a list paragraph at the style's level,
// opening or closing nested lists as needed. Top-level lists are appended
// to out.
func (s *listStack) item(styles *Styles, style ParaStyle, out *[]backend.Node) *backend.ListItemNode {
	level := style.HeadingLevel
	marker, start := styles.ListMarker(style)

	if len(s.open) > level+1 {
		s.open = s.open[:level+1]
	}
	if len(s.open) == level+1 && s.open[level].Marker != marker {
		s.open = s.open[:level]
	}
	for len(s.open) <= level {
		l := &backend.ListNode{Marker: marker, Start: start, Indent: style.ListIndent}
		depth := len(s.open)
		if depth == 0 {
			*out = append(*out, backend.ListOf(l))
		} else {
			parent := s.open[depth-1]
			if len(parent.Items) == 0 {
				parent.Items = append(parent.Items, backend.ListItemNode{})
			}
			last := &parent.Items[len(parent.Items)-1]
			last.Blocks = append(last.Blocks, backend.ListOf(l))
		}
		s.open = append(s.open, l)
	}

	l := s.open[level]
	l.Items = append(l.Items, backend.ListItemNode{})
	return &l.Items[len(l.Items)-1]
}

// paragraph reads one hp:p into a paragraph node and the tables anchored
// in its runs.
func (r *sectionReader) paragraph(p *xmlquery.Node, style ParaStyle) (*backend.ParagraphNode, []backend.Node) {
	para := &backend.ParagraphNode{
		Alignment:       style.Alignment,
		FirstLineIndent: style.FirstLineIndent,
		LineSpacing:     style.LineSpacing,
	}

	var (
		tables []backend.Node
		link   *backend.HyperlinkNode
	)
	emit := func(in backend.Inline) {
		if link != nil {
			link.Inlines = append(link.Inlines, in)
			return
		}
		para.Inlines = append(para.Inlines, in)
	}

	for _, run := range elements(p, "run") {
		format := r.styles.Char(run.SelectAttr("charPrIDRef"))
		for c := run.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			switch c.Data {
			case "t":
				if text := runText(c); text != "" {
					emit(backend.Inline{Text: text, Format: format})
				}
			case "tbl":
				tables = append(tables, backend.TableOf(r.table(c)))
			case "ctrl":
				if begin := child(c, "fieldBegin"); begin != nil && strings.EqualFold(begin.SelectAttr("type"), "HYPERLINK") {
					link = &backend.HyperlinkNode{URI: hyperlinkTarget(begin)}
				}
				if child(c, "fieldEnd") != nil && link != nil {
					para.Inlines = append(para.Inlines, backend.Inline{Link: link})
					link = nil
				}
			}
		}
	}
	if link != nil {
		para.Inlines = append(para.Inlines, backend.Inline{Link: link})
	}
	return para, tables
}

// runText flattens hp:t content. Inline markup elements map to the
// characters the binary format stores for them.
func runText(t *xmlquery.Node) string {
	var sb strings.Builder
	for c := t.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			sb.WriteString(c.Data)
		case xmlquery.ElementNode:
			switch c.Data {
			case "tab":
				sb.WriteByte('\t')
			case "lineBreak":
				sb.WriteByte('\n')
			case "nbSpace", "fwSpace":
				sb.WriteByte(' ')
			case "hyphen":
				sb.WriteByte('-')
			}
		}
	}
	return sb.String()
}

// hyperlinkTarget reads the Command parameter of a hyperlink field:
// "url;type;..." with colons escaped as "\:".
func hyperlinkTarget(begin *xmlquery.Node) string {
	for _, param := range xmlquery.Find(begin, localName("stringParam")) {
		if !strings.EqualFold(param.SelectAttr("name"), "Command") {
			continue
		}
		cmd := strings.ReplaceAll(param.InnerText(), `\:`, ":")
		if i := strings.Index(cmd, ";"); i >= 0 {
			cmd = cmd[:i]
		}
		return cmd
	}
	return ""
}

// table reads hp:tbl. HWPX has no row groups, so all rows form one group.
func (r *sectionReader) table(tbl *xmlquery.Node) *backend.TableNode {
	var group backend.RowGroupNode
	for _, tr := range elements(tbl, "tr") {
		var row backend.RowNode
		for _, tc := range elements(tr, "tc") {
			cell := backend.CellNode{ColSpan: 1, RowSpan: 1}
			if span := child(tc, "cellSpan"); span != nil {
				cell.ColSpan = atoi(span.SelectAttr("colSpan"), 1)
				cell.RowSpan = atoi(span.SelectAttr("rowSpan"), 1)
			}
			if sub := child(tc, "subList"); sub != nil {
				cell.Blocks = r.blocks(sub, true)
			}
			row.Cells = append(row.Cells, cell)
		}
		group.Rows = append(group.Rows, row)
	}
	return &backend.TableNode{RowGroups: []backend.RowGroupNode{group}}
}

// elements returns the direct element children with the local name.
func elements(n *xmlquery.Node, name string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			out = append(out, c)
		}
	}
	return out
}
