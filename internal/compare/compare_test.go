package compare

import (
	"strings"
	"testing"

	"github.com/roboco-io/typodiff/internal/diag"
	"github.com/roboco-io/typodiff/internal/typo"
)

// recorder collects findings.
type recorder struct {
	findings []diag.Finding
}

func (r *recorder) Report(f diag.Finding) {
	r.findings = append(r.findings, f)
}

func (r *recorder) ofKind(k diag.Kind) []diag.Finding {
	var out []diag.Finding
	for _, f := range r.findings {
		if f.Kind == k {
			out = append(out, f)
		}
	}
	return out
}

func arial() typo.CharFormat {
	return typo.CharFormat{FontName: "Arial", FontSize: 11}
}

func para(origin typo.Origin, text string) *typo.Paragraph {
	p := typo.NewParagraph(origin)
	if text != "" {
		p.AppendText(text)
		p.AddSpan(arial(), 0, p.Len(), text)
	}
	return p
}

func run(t *testing.T, a, b *typo.Document, opts Options) (*recorder, Result) {
	t.Helper()
	rec := &recorder{}
	res := Documents(rec, a, b, opts)
	return rec, res
}

// sample builds a document exercising every block kind.
func sample(origin typo.Origin) *typo.Document {
	doc := typo.NewDocument(origin)
	doc.AddParagraph(para(origin, "Title"))

	list := typo.NewList(origin, typo.ListDecimal, 0, 1)
	item := list.AddItem()
	p := para(origin, "first")
	p.InList = true
	item.AddParagraph(p)
	sub := typo.NewList(origin, typo.ListBullet, 1, 1)
	sub.AddItem().AddParagraph(para(origin, "nested"))
	item.AddList(sub)
	doc.AddList(list)

	table := typo.NewTable(origin)
	for r := 0; r < 2; r++ {
		row := table.AddRow()
		for c := 0; c < 2; c++ {
			row.AddCell().AddParagraph(para(origin, "cell"))
		}
	}
	doc.AddTable(table)
	return doc
}

func TestCompare_SelfIsClean(t *testing.T) {
	for _, strategy := range []Strategy{CrossBackend, RoundTrip} {
		for _, origin := range []typo.Origin{typo.OriginRange, typo.OriginTree} {
			opts := DefaultOptions()
			opts.Strategy = strategy
			rec, res := run(t, sample(origin), sample(origin), opts)
			if len(rec.findings) != 0 {
				t.Errorf("%s/%s: expected no findings, got %v", strategy, origin, rec.findings)
			}
			if res.Pairs != 7 {
				t.Errorf("%s/%s: Pairs = %d, want 7", strategy, origin, res.Pairs)
			}
		}
	}
}

func TestCompare_TrailingParagraphMark(t *testing.T) {
	a := typo.NewDocument(typo.OriginRange)
	a.AddParagraph(para(typo.OriginRange, "Hello\r"))
	b := typo.NewDocument(typo.OriginTree)
	b.AddParagraph(para(typo.OriginTree, "Hello"))

	rec, _ := run(t, a, b, DefaultOptions())
	if len(rec.findings) != 0 {
		t.Errorf("expected no findings, got %v", rec.findings)
	}
}

func TestCompare_ListStartTolerance(t *testing.T) {
	build := func(origin typo.Origin, start int) *typo.Document {
		doc := typo.NewDocument(origin)
		l := typo.NewList(origin, typo.ListDecimal, 0, start)
		l.AddItem().AddParagraph(para(origin, "item"))
		doc.AddList(l)
		return doc
	}

	tests := []struct {
		name         string
		a, b         *typo.Document
		wantPriority int
	}{
		{"zero on range side", build(typo.OriginRange, 0), build(typo.OriginTree, 1), PriorityTolerant},
		{"zero on tree side", build(typo.OriginRange, 1), build(typo.OriginTree, 0), PriorityContent},
		{"not a minimum start artifact", build(typo.OriginRange, 0), build(typo.OriginTree, 3), PriorityContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := run(t, tc.a, tc.b, DefaultOptions())
			if len(rec.findings) != 1 {
				t.Fatalf("expected 1 finding, got %v", rec.findings)
			}
			if got := rec.findings[0].Priority; got != tc.wantPriority {
				t.Errorf("priority = %d, want %d", got, tc.wantPriority)
			}
		})
	}
}

func TestCompare_CellCountMismatchContinues(t *testing.T) {
	build := func(origin typo.Origin, cells int, last string) *typo.Document {
		doc := typo.NewDocument(origin)
		table := typo.NewTable(origin)
		row := table.AddRow()
		for i := 0; i < cells; i++ {
			row.AddCell().AddParagraph(para(origin, "c"))
		}
		table.AddRow().AddCell().AddParagraph(para(origin, last))
		doc.AddTable(table)
		return doc
	}

	rec, _ := run(t, build(typo.OriginTree, 3, "same"), build(typo.OriginTree, 2, "same!"), DefaultOptions())

	counts := rec.ofKind(diag.KindCount)
	if len(counts) != 1 {
		t.Fatalf("expected exactly 1 count finding, got %v", counts)
	}
	if !strings.Contains(counts[0].Message, "rows[0]") {
		t.Errorf("count finding not attributed to the first row: %s", counts[0].Message)
	}
	texts := rec.ofKind(diag.KindText)
	if len(texts) != 1 || !strings.Contains(texts[0].Message, "rows[1]") {
		t.Errorf("expected the second row to be compared, got %v", texts)
	}
}

func TestCompare_RightToLeftFlip(t *testing.T) {
	tests := []struct {
		name    string
		originA typo.Origin
		originB typo.Origin
	}{
		{"range vs tree", typo.OriginRange, typo.OriginTree},
		{"tree vs tree", typo.OriginTree, typo.OriginTree},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pa := para(tc.originA, "The cat sat.")
			pa.Alignment = typo.AlignLeft
			pa.Box.FlowDirection = typo.LeftToRight

			pb := para(tc.originB, "The cat sat.")
			pb.Alignment = typo.AlignRight
			pb.Box.FlowDirection = typo.RightToLeft

			a, b := typo.NewDocument(tc.originA), typo.NewDocument(tc.originB)
			a.AddParagraph(pa)
			b.AddParagraph(pb)

			rec, _ := run(t, a, b, DefaultOptions())
			if len(rec.findings) != 0 {
				t.Errorf("expected no findings, got %v", rec.findings)
			}
		})
	}
}

func TestCompare_AlignmentWithoutRightToLeft(t *testing.T) {
	pa := para(typo.OriginRange, "x")
	pb := para(typo.OriginTree, "x")
	pb.Alignment = typo.AlignRight

	a, b := typo.NewDocument(typo.OriginRange), typo.NewDocument(typo.OriginTree)
	a.AddParagraph(pa)
	b.AddParagraph(pb)

	rec, _ := run(t, a, b, DefaultOptions())
	if len(rec.ofKind(diag.KindFormat)) != 1 {
		t.Errorf("expected one alignment finding, got %v", rec.findings)
	}
}

func TestCompare_ExtraTrailingEmptyParagraph(t *testing.T) {
	a, b := typo.NewDocument(typo.OriginTree), typo.NewDocument(typo.OriginTree)
	a.AddParagraph(para(typo.OriginTree, "body"))
	a.AddParagraph(typo.NewParagraph(typo.OriginTree))
	b.AddParagraph(para(typo.OriginTree, "body"))

	rec, _ := run(t, a, b, DefaultOptions())
	if len(rec.findings) != 1 {
		t.Fatalf("expected exactly 1 finding, got %v", rec.findings)
	}
	if rec.findings[0].Kind != diag.KindCount {
		t.Errorf("kind = %s, want count", rec.findings[0].Kind)
	}
}

func TestCompare_Abandon(t *testing.T) {
	a, b := typo.NewDocument(typo.OriginRange), typo.NewDocument(typo.OriginTree)
	a.AddParagraph(para(typo.OriginRange, "Introduction\r"))
	a.AddParagraph(para(typo.OriginRange, "Later\r"))
	b.AddParagraph(para(typo.OriginTree, "Appendix B"))
	b.AddParagraph(para(typo.OriginTree, "Different"))
	b.AddParagraph(para(typo.OriginTree, "Extra"))

	rec, res := run(t, a, b, DefaultOptions())
	if !res.Abandoned {
		t.Error("expected comparison to be abandoned")
	}
	if len(rec.findings) != 1 || rec.findings[0].Kind != diag.KindStructure {
		t.Errorf("expected a single structure finding, got %v", rec.findings)
	}
}

func TestCompare_TextMismatchContext(t *testing.T) {
	a, b := typo.NewDocument(typo.OriginTree), typo.NewDocument(typo.OriginTree)
	a.AddParagraph(para(typo.OriginTree, "The quick brown fox"))
	b.AddParagraph(para(typo.OriginTree, "The quick brown fox jumps"))

	opts := DefaultOptions()
	opts.ContextWindow = 4
	rec, _ := run(t, a, b, opts)

	texts := rec.ofKind(diag.KindText)
	if len(texts) != 1 {
		t.Fatalf("expected 1 text finding, got %v", rec.findings)
	}
	msg := texts[0].Message
	if !strings.Contains(msg, "at 19") || !strings.Contains(msg, `a=" fox"`) || !strings.Contains(msg, `b=" fox jum"`) {
		t.Errorf("unexpected message: %s", msg)
	}
	if len(rec.ofKind(diag.KindFormat)) != 0 {
		t.Error("runs must not be compared when texts differ")
	}
}

func TestCompare_RunsFirstMismatchPerChannel(t *testing.T) {
	build := func(boldSecond bool, lang string) *typo.Document {
		p := typo.NewParagraph(typo.OriginTree)
		for i, s := range []string{"one ", "two ", "three"} {
			f := arial()
			f.Language = lang
			f.Bold = i > 0 && boldSecond
			start := p.AppendText(s)
			p.AddSpan(f, start, p.Len(), s)
		}
		doc := typo.NewDocument(typo.OriginTree)
		doc.AddParagraph(p)
		return doc
	}

	rec, _ := run(t, build(false, "en-US"), build(true, "ko-KR"), DefaultOptions())

	var bold, lang []diag.Finding
	for _, f := range rec.findings {
		switch {
		case strings.Contains(f.Message, "bold"):
			bold = append(bold, f)
		case strings.Contains(f.Message, "language"):
			lang = append(lang, f)
		}
	}
	if len(bold) != 1 || bold[0].Priority != PriorityContent {
		t.Errorf("bold findings = %v", bold)
	}
	if len(lang) != 1 || lang[0].Priority != PriorityLanguage {
		t.Errorf("language findings = %v", lang)
	}
}

func TestCompare_Indent(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want int
	}{
		{"equal", 12, 12, 0},
		{"within tolerance", 12, 12.04, 0},
		{"negative normalized to zero", -18, 0, 0},
		{"different", 10, 12, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pa, pb := para(typo.OriginRange, "x"), para(typo.OriginTree, "x")
			pa.FirstLineIndent, pb.FirstLineIndent = tc.a, tc.b
			a, b := typo.NewDocument(typo.OriginRange), typo.NewDocument(typo.OriginTree)
			a.AddParagraph(pa)
			b.AddParagraph(pb)

			rec, _ := run(t, a, b, DefaultOptions())
			if len(rec.findings) != tc.want {
				t.Errorf("findings = %v, want %d", rec.findings, tc.want)
			}
		})
	}
}

func TestCompare_BoxAttributes(t *testing.T) {
	build := func(origin typo.Origin, margin float64) *typo.Document {
		p := para(origin, "boxed")
		p.Box.Margin = typo.Thickness{Top: margin}
		p.Box.Background = "#FFFFFF"
		doc := typo.NewDocument(origin)
		doc.AddParagraph(p)
		return doc
	}

	tests := []struct {
		name     string
		a, b     *typo.Document
		strategy Strategy
		want     int
	}{
		{"tree vs tree", build(typo.OriginTree, 6), build(typo.OriginTree, 12), CrossBackend, 1},
		{"range vs tree is not compared", build(typo.OriginRange, 6), build(typo.OriginTree, 12), CrossBackend, 0},
		{"round trip always compares", build(typo.OriginRange, 6), build(typo.OriginRange, 12), RoundTrip, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Strategy = tc.strategy
			rec, _ := run(t, tc.a, tc.b, opts)
			boxes := rec.ofKind(diag.KindBox)
			if len(boxes) != tc.want {
				t.Fatalf("box findings = %v, want %d", boxes, tc.want)
			}
			for _, f := range boxes {
				if f.Priority != PriorityBox {
					t.Errorf("priority = %d, want %d", f.Priority, PriorityBox)
				}
			}
		})
	}
}

func TestCompare_Hyperlinks(t *testing.T) {
	build := func(target string) *typo.Document {
		p := para(typo.OriginTree, "see docs")
		p.AddHyperlink(target, "", 4, 8)
		doc := typo.NewDocument(typo.OriginTree)
		doc.AddParagraph(p)
		return doc
	}

	rec, _ := run(t, build("https://a.example"), build("https://b.example"), DefaultOptions())
	if len(rec.findings) != 1 || !strings.Contains(rec.findings[0].Message, "hyperlink 0 target") {
		t.Errorf("findings = %v", rec.findings)
	}
}

func TestCompare_BlockKindMismatch(t *testing.T) {
	a, b := typo.NewDocument(typo.OriginTree), typo.NewDocument(typo.OriginTree)
	a.AddParagraph(para(typo.OriginTree, "x"))
	a.AddParagraph(para(typo.OriginTree, "y"))
	b.AddTable(typo.NewTable(typo.OriginTree))
	b.AddParagraph(para(typo.OriginTree, "y"))

	rec, res := run(t, a, b, DefaultOptions())
	if len(rec.findings) != 1 || rec.findings[0].Kind != diag.KindStructure {
		t.Errorf("findings = %v", rec.findings)
	}
	if res.Pairs != 1 {
		t.Errorf("Pairs = %d, want 1", res.Pairs)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"a-vs-b", CrossBackend, false},
		{"", CrossBackend, false},
		{"A-VS-A", RoundTrip, false},
		{"roundtrip", RoundTrip, false},
		{"b-vs-c", "", true},
	}

	for _, tc := range tests {
		got, err := ParseStrategy(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
