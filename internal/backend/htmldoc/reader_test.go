package htmldoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/typo"
)

const sample = `<!DOCTYPE html>
<html lang="ko"><head><title>t</title><style>p { color: red }</style></head><body>
<h1>Title</h1>
<p style="text-align:center; text-indent:12pt; line-height:1.5; margin:6pt 0; direction:rtl">Hello <b>bold</b> and <a href="https://example.com" target="_blank">a <i>link</i></a>.</p>
<ol start="3" type="a"><li>one<ul><li>inner</li></ul></li><li><p>two</p></li></ol>
<table style="border:1px solid #000"><thead><tr><th>H</th></tr></thead><tbody><tr><td colspan="2" style="background-color:#ff0">C</td></tr></tbody></table>loose text<script>ignored()</script>
</body></html>`

func mustParse(t *testing.T, src string) *backend.Tree {
	t.Helper()
	tree, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func TestParse(t *testing.T) {
	base := typo.CharFormat{FontSize: 12, Foreground: "#000000", Language: "ko"}
	heading := base
	heading.Bold, heading.FontSize = true, 24
	bold := base
	bold.Bold = true
	italic := base
	italic.Italic = true

	text := func(s string, f typo.CharFormat) backend.Inline {
		return backend.Inline{Text: s, Format: f}
	}
	anon := func(align typo.Alignment, inlines ...backend.Inline) backend.Node {
		return backend.Para(&backend.ParagraphNode{Alignment: align, Inlines: inlines})
	}

	want := &backend.Tree{Blocks: []backend.Node{
		anon(typo.AlignLeft, text("Title", heading)),
		backend.Para(&backend.ParagraphNode{
			Box: typo.Box{
				FlowDirection: typo.RightToLeft,
				Margin:        typo.Thickness{Top: 6, Bottom: 6},
			},
			Alignment:       typo.AlignCenter,
			FirstLineIndent: 12,
			LineSpacing:     1.5,
			Inlines: []backend.Inline{
				text("Hello ", base),
				text("bold", bold),
				text(" and ", base),
				{Link: &backend.HyperlinkNode{
					URI:     "https://example.com",
					Frame:   "_blank",
					Inlines: []backend.Inline{text("a ", base), text("link", italic)},
				}},
				text(".", base),
			},
		}),
		backend.ListOf(&backend.ListNode{
			Marker: typo.ListLowerLetter,
			Start:  3,
			Items: []backend.ListItemNode{
				{Blocks: []backend.Node{
					anon(typo.AlignLeft, text("one", base)),
					backend.ListOf(&backend.ListNode{
						Marker: typo.ListBullet,
						Start:  1,
						Items: []backend.ListItemNode{
							{Blocks: []backend.Node{anon(typo.AlignLeft, text("inner", base))}},
						},
					}),
				}},
				{Blocks: []backend.Node{anon(typo.AlignLeft, text("two", base))}},
			},
		}),
		backend.TableOf(&backend.TableNode{
			Box: typo.Box{
				BorderThickness: typo.Thickness{Left: 0.75, Top: 0.75, Right: 0.75, Bottom: 0.75},
				BorderColor:     "#000000",
			},
			RowGroups: []backend.RowGroupNode{
				{Rows: []backend.RowNode{{Cells: []backend.CellNode{
					{ColSpan: 1, RowSpan: 1, Blocks: []backend.Node{anon(typo.AlignCenter, text("H", bold))}},
				}}}},
				{Rows: []backend.RowNode{{Cells: []backend.CellNode{
					{
						Box:     typo.Box{Background: "#FFFF00"},
						ColSpan: 2,
						RowSpan: 1,
						Blocks:  []backend.Node{anon(typo.AlignLeft, text("C", base))},
					},
				}}}},
			},
		}),
		anon(typo.AlignLeft, text("loose text", base)),
	}}

	if diff := cmp.Diff(want, mustParse(t, sample)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_WhiteSpace(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"collapse and trim", "<p>  a  <br> b </p>", []string{"a ", "\n", "b"}},
		{"spaces between inline elements", "<p><b>x</b> <i>y</i></p>", []string{"x", " ", "y"}},
		{"pre keeps spacing", "<pre>a  b\n c</pre>", []string{"a  b\n c"}},
		{"empty paragraph", "<p>   </p>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.src)
			if len(tree.Blocks) != 1 {
				t.Fatalf("blocks = %d, want 1", len(tree.Blocks))
			}
			var got []string
			for _, in := range tree.Blocks[0].Paragraph.Inlines {
				got = append(got, in.Text)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("inline texts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_DivFlattening(t *testing.T) {
	tree := mustParse(t, `<div style="text-align:right"><p>a</p><div>b</div></div><center>c</center>`)

	var aligns []typo.Alignment
	for _, b := range tree.Blocks {
		aligns = append(aligns, b.Paragraph.Alignment)
	}
	want := []typo.Alignment{typo.AlignRight, typo.AlignRight, typo.AlignCenter}
	if diff := cmp.Diff(want, aligns); diff != "" {
		t.Errorf("alignments mismatch (-want +got):\n%s", diff)
	}
}

func TestOpener(t *testing.T) {
	o := NewOpener()
	if o.Format() != backend.FormatHTML {
		t.Errorf("Format() = %v, want html", o.Format())
	}

	path := filepath.Join(t.TempDir(), "doc.html")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	h, err := o.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if h.Tree == nil || len(h.Tree.Blocks) != 5 {
		t.Errorf("unexpected handle: %+v", h)
	}

	if _, err := o.Open(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("expected error for missing file")
	}
}
