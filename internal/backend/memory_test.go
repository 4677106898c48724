package backend

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roboco-io/typodiff/internal/typo"
)

func paragraphTexts(t *testing.T, d *RangeDocument) []string {
	t.Helper()
	r, err := d.Range()
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	var texts []string
	for {
		if err := r.Expand(UnitParagraph); err != nil {
			t.Fatalf("Expand() error = %v", err)
		}
		if r.End() == r.Start() {
			break
		}
		text, _ := r.Text()
		texts = append(texts, text)
		moved, err := r.Move(UnitParagraph, 1)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if moved == 0 {
			break
		}
	}
	return texts
}

func TestRangeDocument_Paragraphs(t *testing.T) {
	d := NewRangeDocument().
		Append("Hello", CharFormat{}).
		EndParagraph(ParaFormat{Alignment: typo.AlignCenter}).
		StartRow().
		Append("cell", CharFormat{}).
		EndCell(ParaFormat{}).
		EndRow().
		Append("World", CharFormat{}).
		EndParagraph(ParaFormat{})

	got := paragraphTexts(t, d)
	want := []string{"Hello\r", "\uFFF9\r", "cell\a", "\uFFFB\r", "World\r"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paragraph walk mismatch (-want +got):\n%s", diff)
	}

	story, _ := d.StoryText()
	if d.Len() != len([]rune(story)) {
		t.Errorf("Len() = %d, want %d", d.Len(), len([]rune(story)))
	}
}

func TestRangeDocument_ParaFormat(t *testing.T) {
	d := NewRangeDocument().
		Append("first", CharFormat{}).
		EndParagraph(ParaFormat{Alignment: typo.AlignRight, ListType: typo.ListDecimal, ListLevel: 1}).
		Append("second", CharFormat{}).
		EndParagraph(ParaFormat{Alignment: typo.AlignJustify})

	r, _ := d.Range()
	_ = r.Expand(UnitParagraph)
	pf, _ := r.ParaFormat()
	if pf.Alignment != typo.AlignRight || !pf.IsList() {
		t.Errorf("first ParaFormat = %+v", pf)
	}

	_, _ = r.Move(UnitParagraph, 1)
	_ = r.Expand(UnitParagraph)
	pf, _ = r.ParaFormat()
	if pf.Alignment != typo.AlignJustify || pf.IsList() {
		t.Errorf("second ParaFormat = %+v", pf)
	}
}

func TestRangeDocument_CharFormatUnits(t *testing.T) {
	bold := CharFormat{CharFormat: typo.CharFormat{Bold: true}}
	d := NewRangeDocument().
		Append("He", bold).
		Append("llo", CharFormat{}).
		Append(" there", CharFormat{}).
		EndParagraph(ParaFormat{})

	r, _ := d.Range()
	_ = r.SetRange(0, 0)

	var units []string
	var bolds []bool
	for {
		_ = r.Expand(UnitCharFormat)
		text, _ := r.Text()
		f, _ := r.CharFormat()
		units = append(units, text)
		bolds = append(bolds, f.Bold)
		if moved, _ := r.Move(UnitCharFormat, 1); moved == 0 {
			break
		}
	}

	// equal adjacent formats merge; the paragraph mark inherits the last format
	if diff := cmp.Diff([]string{"He", "llo there\r"}, units); diff != "" {
		t.Errorf("format units mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, false}, bolds); diff != "" {
		t.Errorf("bold flags mismatch (-want +got):\n%s", diff)
	}
}

func TestRangeDocument_SetRangeBounds(t *testing.T) {
	d := NewRangeDocument().Append("abc", CharFormat{}).EndParagraph(ParaFormat{})
	r, _ := d.Range()

	if err := r.SetRange(1, 3); err != nil {
		t.Fatalf("SetRange() error = %v", err)
	}
	if text, _ := r.Text(); text != "bc" {
		t.Errorf("Text() = %q, want %q", text, "bc")
	}
	if err := r.SetRange(2, 10); err == nil {
		t.Error("expected error for out-of-bounds range")
	}
	if _, err := r.Move(UnitParagraph, -1); err == nil {
		t.Error("expected error for backward move")
	}
}
