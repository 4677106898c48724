package extract

import (
	"fmt"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/typo"
)

// FromTree extracts a model from a block tree. Every element copies the
// box attributes of its node.
func FromTree(t *backend.Tree, opts Options) (*typo.Document, error) {
	if t == nil {
		return nil, fmt.Errorf("nil tree")
	}
	x := &treeExtractor{ctx: NewContext(typo.OriginTree, opts)}
	doc := typo.NewDocument(typo.OriginTree)
	if err := x.blocks(doc, t.Blocks, 0, false); err != nil {
		return nil, err
	}
	return doc, nil
}

type treeExtractor struct {
	ctx *Context
}

// blocks extracts a node sequence into sink. level is the nesting level
// the next list gets.
func (x *treeExtractor) blocks(sink blockSink, nodes []backend.Node, level int, inList bool) error {
	for i, n := range nodes {
		switch n.Kind {
		case backend.NodeParagraph:
			if n.Paragraph == nil {
				return fmt.Errorf("block %d: paragraph node without paragraph", i)
			}
			p, err := x.paragraph(n.Paragraph)
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			p.InList = inList
			sink.AddParagraph(p)

		case backend.NodeList:
			if n.List == nil {
				return fmt.Errorf("block %d: list node without list", i)
			}
			l, err := x.list(n.List, level)
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			sink.AddList(l)

		case backend.NodeTable:
			if n.Table == nil {
				return fmt.Errorf("block %d: table node without table", i)
			}
			t, err := x.table(n.Table)
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			sink.AddTable(t)

		default:
			return fmt.Errorf("block %d: unknown node kind %q", i, n.Kind)
		}
	}
	return nil
}

func (x *treeExtractor) paragraph(n *backend.ParagraphNode) (*typo.Paragraph, error) {
	p := x.ctx.NewParagraph()
	p.Box = n.Box
	if n.Alignment != "" {
		p.Alignment = n.Alignment
	}
	p.FirstLineIndent = n.FirstLineIndent
	p.LineSpacing = n.LineSpacing

	if err := x.inlines(p, n.Inlines, 0); err != nil {
		return nil, err
	}
	return p, nil
}

// maxLinkDepth bounds hyperlink nesting.
const maxLinkDepth = 8

func (x *treeExtractor) inlines(p *typo.Paragraph, inlines []backend.Inline, depth int) error {
	for _, in := range inlines {
		if in.Link != nil {
			if depth >= maxLinkDepth {
				return fmt.Errorf("hyperlink nesting exceeds %d", maxLinkDepth)
			}
			start := p.Len()
			if err := x.inlines(p, in.Link.Inlines, depth+1); err != nil {
				return err
			}
			p.AddHyperlink(in.Link.URI, in.Link.Frame, start, p.Len())
			continue
		}

		text := x.ctx.normalize(in.Text)
		if text == "" {
			continue
		}
		start := p.AppendText(text)
		p.AddSpan(in.Format, start, p.Len(), text)
	}
	return nil
}

func (x *treeExtractor) list(n *backend.ListNode, level int) (*typo.List, error) {
	typ := n.Marker
	if typ == "" {
		typ = typo.ListNone
	}
	l := x.ctx.NewList(typ, level, n.Start)
	l.Box = n.Box
	l.Indent = n.Indent

	for i, it := range n.Items {
		item := l.AddItem()
		item.Box = it.Box
		if err := x.blocks(item, it.Blocks, level+1, true); err != nil {
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
	}
	return l, nil
}

func (x *treeExtractor) table(n *backend.TableNode) (*typo.Table, error) {
	t := x.ctx.NewTable()
	t.Box = n.Box

	for g, group := range n.RowGroups {
		for r, rn := range group.Rows {
			row := t.AddRow()
			row.Box = rn.Box
			for c, cn := range rn.Cells {
				cell := row.AddCell()
				cell.Box = cn.Box
				if cn.ColSpan > 0 {
					cell.ColSpan = cn.ColSpan
				}
				if cn.RowSpan > 0 {
					cell.RowSpan = cn.RowSpan
				}
				if err := x.blocks(cell, cn.Blocks, 0, false); err != nil {
					return nil, fmt.Errorf("row group %d row %d cell %d: %w", g, r, c, err)
				}
			}
		}
	}
	return t, nil
}
