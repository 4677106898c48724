package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/roboco-io/typodiff/internal/diag"
	"github.com/roboco-io/typodiff/internal/typo"
)

func (c *Comparator) list(at string, a, b *typo.List) {
	if a.Type != b.Type {
		c.report(diag.KindFormat, PriorityContent, "%s: list type %s vs %s", at, a.Type, b.Type)
	}
	if a.Level != b.Level {
		c.report(diag.KindStructure, PriorityContent, "%s: list level %d vs %d", at, a.Level, b.Level)
	}
	if a.Start != b.Start {
		priority := PriorityContent
		if minimumStartArtifact(a, b) {
			priority = PriorityTolerant
		}
		c.report(diag.KindFormat, priority, "%s: list start %d vs %d", at, a.Start, b.Start)
	}
	if c.compareBoxes(&a.Base, &b.Base) {
		c.box(at, a.Box, b.Box, false)
	}

	if len(a.Items) != len(b.Items) {
		c.report(diag.KindCount, PriorityContent, "%s: list item count %d vs %d", at, len(a.Items), len(b.Items))
	}
	for k := 0; k < len(a.Items) && k < len(b.Items) && !c.abandon; k++ {
		ia, ib := a.Items[k], b.Items[k]
		itemAt := fmt.Sprintf("%s.items[%d]", at, k)
		if c.compareBoxes(&ia.Base, &ib.Base) {
			c.box(itemAt, ia.Box, ib.Box, false)
		}
		c.blocks(itemAt+".blocks", ia.Blocks, ib.Blocks)
	}
}

// minimumStartArtifact reports a 0 vs 1 start where the zero comes from a
// range backend, which cannot express a start below one.
func minimumStartArtifact(a, b *typo.List) bool {
	return (a.Start == 0 && b.Start == 1 && !a.FromTree()) ||
		(b.Start == 0 && a.Start == 1 && !b.FromTree())
}

func (c *Comparator) table(at string, a, b *typo.Table) {
	if c.compareBoxes(&a.Base, &b.Base) {
		c.box(at, a.Box, b.Box, false)
	}
	if len(a.Rows) != len(b.Rows) {
		c.report(diag.KindCount, PriorityContent, "%s: row count %d vs %d", at, len(a.Rows), len(b.Rows))
	}

	for r := 0; r < len(a.Rows) && r < len(b.Rows) && !c.abandon; r++ {
		ra, rb := a.Rows[r], b.Rows[r]
		rowAt := fmt.Sprintf("%s.rows[%d]", at, r)
		if c.compareBoxes(&ra.Base, &rb.Base) {
			c.box(rowAt, ra.Box, rb.Box, false)
		}
		if len(ra.Cells) != len(rb.Cells) {
			c.report(diag.KindCount, PriorityContent, "%s: cell count %d vs %d", rowAt, len(ra.Cells), len(rb.Cells))
		}

		for k := 0; k < len(ra.Cells) && k < len(rb.Cells) && !c.abandon; k++ {
			ca, cb := ra.Cells[k], rb.Cells[k]
			cellAt := fmt.Sprintf("%s.cells[%d]", rowAt, k)
			if c.compareBoxes(&ca.Base, &cb.Base) {
				c.box(cellAt, ca.Box, cb.Box, false)
			}
			if ca.FromTree() && cb.FromTree() && (ca.ColSpan != cb.ColSpan || ca.RowSpan != cb.RowSpan) {
				c.report(diag.KindStructure, PriorityContent, "%s: span %dx%d vs %dx%d",
					cellAt, ca.ColSpan, ca.RowSpan, cb.ColSpan, cb.RowSpan)
			}
			c.blocks(cellAt+".blocks", ca.Blocks, cb.Blocks)
		}
	}
}

// compareBoxes reports whether box attributes are comparable: both sides
// come from a tree backend, or the strategy is round-trip.
func (c *Comparator) compareBoxes(a, b *typo.Base) bool {
	return c.roundTrip() || (a.FromTree() && b.FromTree())
}

// box compares box attributes. A flow direction difference is skipped when
// it belongs to a tolerated alignment flip.
func (c *Comparator) box(at string, a, b typo.Box, flipped bool) {
	if !flipped && dir(a.FlowDirection) != dir(b.FlowDirection) {
		c.report(diag.KindBox, PriorityBox, "%s: flow direction %s vs %s", at, dir(a.FlowDirection), dir(b.FlowDirection))
	}
	thickness := []struct {
		name string
		x, y typo.Thickness
	}{
		{"margin", a.Margin, b.Margin},
		{"border thickness", a.BorderThickness, b.BorderThickness},
		{"padding", a.Padding, b.Padding},
	}
	for _, t := range thickness {
		if !thicknessEqual(t.x, t.y) {
			c.report(diag.KindBox, PriorityBox, "%s: %s %s vs %s", at, t.name, t.x, t.y)
		}
	}
	colors := []struct {
		name string
		x, y string
	}{
		{"border color", a.BorderColor, b.BorderColor},
		{"background", a.Background, b.Background},
		{"foreground", a.Foreground, b.Foreground},
	}
	for _, col := range colors {
		if !strings.EqualFold(col.x, col.y) {
			c.report(diag.KindBox, PriorityBox, "%s: %s %s vs %s", at, col.name, quote(col.x), quote(col.y))
		}
	}
}

func dir(d typo.FlowDirection) typo.FlowDirection {
	if d == "" {
		return typo.LeftToRight
	}
	return d
}

func thicknessEqual(a, b typo.Thickness) bool {
	return math.Abs(a.Left-b.Left) <= epsilon &&
		math.Abs(a.Top-b.Top) <= epsilon &&
		math.Abs(a.Right-b.Right) <= epsilon &&
		math.Abs(a.Bottom-b.Bottom) <= epsilon
}
