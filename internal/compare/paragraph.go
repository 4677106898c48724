package compare

import (
	"math"
	"strconv"

	"github.com/roboco-io/typodiff/internal/diag"
	"github.com/roboco-io/typodiff/internal/typo"
)

const epsilon = 1e-6

func (c *Comparator) paragraph(at string, a, b *typo.Paragraph) {
	c.result.Pairs++

	textEqual := c.text(at, a, b)
	c.paragraphProperties(at, a, b)
	if c.compareBoxes(&a.Base, &b.Base) {
		c.box(at, a.Box, b.Box, rtlFlip(a, b))
	}
	// run offsets only line up when the texts do
	if textEqual {
		c.runs(at, a, b)
	}
	if a.FromTree() && b.FromTree() {
		c.hyperlinks(at, a, b)
	}
}

// text compares rune by rune and reports the first mismatch with a context
// window on both sides.
func (c *Comparator) text(at string, a, b *typo.Paragraph) bool {
	if a.Text == b.Text {
		return true
	}
	ra, rb := []rune(a.Text), []rune(b.Text)
	k := 0
	for k < len(ra) && k < len(rb) && ra[k] == rb[k] {
		k++
	}
	w := c.opts.ContextWindow
	c.report(diag.KindText, PriorityContent, "%s: text differs at %d: a=%s b=%s",
		at, k, quote(window(ra, k, w)), quote(window(rb, k, w)))
	return false
}

func window(r []rune, k, w int) string {
	start, end := max(k-w, 0), min(k+w, len(r))
	if start >= end {
		return ""
	}
	return string(r[start:end])
}

func quote(s string) string {
	return strconv.Quote(s)
}

func (c *Comparator) paragraphProperties(at string, a, b *typo.Paragraph) {
	if a.Alignment != b.Alignment && !rtlFlip(a, b) {
		c.report(diag.KindFormat, PriorityContent, "%s: alignment %s vs %s", at, a.Alignment, b.Alignment)
	}

	if !c.indentEqual(a.FirstLineIndent, b.FirstLineIndent) {
		c.report(diag.KindFormat, PriorityContent, "%s: first line indent %g vs %g", at, a.FirstLineIndent, b.FirstLineIndent)
	}

	if c.roundTrip() && math.Abs(a.LineSpacing-b.LineSpacing) > epsilon {
		c.report(diag.KindFormat, PriorityContent, "%s: line spacing %g vs %g", at, a.LineSpacing, b.LineSpacing)
	}
}

// rtlFlip reports a left/right swap between logical and physical alignment
// under right-to-left flow.
func rtlFlip(a, b *typo.Paragraph) bool {
	swapped := (a.Alignment == typo.AlignLeft && b.Alignment == typo.AlignRight) ||
		(a.Alignment == typo.AlignRight && b.Alignment == typo.AlignLeft)
	return swapped && (a.Box.IsRightToLeft() || b.Box.IsRightToLeft())
}

// indentEqual compares indents within tolerance. A negative indent on one
// side normalized to zero on the other is accepted.
func (c *Comparator) indentEqual(a, b float64) bool {
	tol := c.opts.IndentTolerance + epsilon
	if math.Abs(a-b) <= tol {
		return true
	}
	return (a < 0 && math.Abs(b) <= tol) || (b < 0 && math.Abs(a) <= tol)
}

// runs reports the first mismatching run of every channel.
func (c *Comparator) runs(at string, a, b *typo.Paragraph) {
	for _, ch := range typo.Channels {
		priority := PriorityContent
		if ch == typo.ChannelLanguage {
			priority = PriorityLanguage
		}

		ra, rb := a.ChannelRuns(ch), b.ChannelRuns(ch)
		mismatch := false
		for k := 0; k < len(ra) && k < len(rb); k++ {
			x, y := ra[k], rb[k]
			if x.Value == y.Value && x.Start == y.Start && x.End == y.End {
				continue
			}
			c.report(diag.KindFormat, priority, "%s: %s run %d: %s [%d,%d) %s vs %s [%d,%d) %s",
				at, ch, k, quote(x.Value), x.Start, x.End, quote(x.Text), quote(y.Value), y.Start, y.End, quote(y.Text))
			mismatch = true
			break
		}
		if !mismatch && len(ra) != len(rb) {
			c.report(diag.KindFormat, priority, "%s: %s run count %d vs %d", at, ch, len(ra), len(rb))
		}
	}
}

func (c *Comparator) hyperlinks(at string, a, b *typo.Paragraph) {
	if len(a.Hyperlinks) != len(b.Hyperlinks) {
		c.report(diag.KindCount, PriorityContent, "%s: hyperlink count %d vs %d", at, len(a.Hyperlinks), len(b.Hyperlinks))
	}
	for k := 0; k < len(a.Hyperlinks) && k < len(b.Hyperlinks); k++ {
		x, y := a.Hyperlinks[k], b.Hyperlinks[k]
		if x.Target != y.Target {
			c.report(diag.KindFormat, PriorityContent, "%s: hyperlink %d target %s vs %s", at, k, quote(x.Target), quote(y.Target))
		}
		if x.TargetFrame != y.TargetFrame {
			c.report(diag.KindFormat, PriorityContent, "%s: hyperlink %d frame %s vs %s", at, k, quote(x.TargetFrame), quote(y.TargetFrame))
		}
		if x.Text != y.Text {
			c.report(diag.KindText, PriorityContent, "%s: hyperlink %d text %s vs %s", at, k, quote(x.Text), quote(y.Text))
		}
	}
}
