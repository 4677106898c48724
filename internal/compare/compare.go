// Package compare walks two Typographic Element Models in lockstep and
// reports their differences.
package compare

import (
	"fmt"
	"strings"

	"github.com/roboco-io/typodiff/internal/diag"
	"github.com/roboco-io/typodiff/internal/rectify"
	"github.com/roboco-io/typodiff/internal/typo"
)

// Strategy selects the rectification and tolerance policy.
type Strategy string

const (
	// CrossBackend compares a range-backed model with a tree-backed one.
	CrossBackend Strategy = "a-vs-b"
	// RoundTrip compares content round-tripped through one backend twice.
	RoundTrip Strategy = "a-vs-a"
)

// ParseStrategy parses a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a-vs-b", "cross", "cross-backend":
		return CrossBackend, nil
	case "a-vs-a", "roundtrip", "round-trip":
		return RoundTrip, nil
	default:
		return "", fmt.Errorf("unknown strategy: %s", s)
	}
}

// Priorities of findings that are not plain content differences.
const (
	PriorityContent  = 0
	PriorityBox      = 1
	PriorityLanguage = 2
	PriorityTolerant = 3
)

// Options contains comparator configuration options.
type Options struct {
	Strategy        Strategy
	ContextWindow   int     // runes shown on each side of a text mismatch
	IndentTolerance float64 // points

	// OnFixup, if set, is called with every rectifier fixup applied.
	OnFixup func(fixup string)
}

// DefaultOptions returns default comparator options.
func DefaultOptions() Options {
	return Options{
		Strategy:        CrossBackend,
		ContextWindow:   10,
		IndentTolerance: 0.05,
	}
}

// Reporter receives findings.
type Reporter interface {
	Report(diag.Finding)
}

// Result summarizes a comparison.
type Result struct {
	Pairs     int  // paragraph pairs compared
	Abandoned bool // the rectifier judged the sequences out of alignment
}

// Comparator compares two models. A Comparator is used for one pair of
// models.
type Comparator struct {
	opts    Options
	out     Reporter
	rect    *rectify.Rectifier
	result  Result
	abandon bool
}

// New creates a comparator reporting to out.
func New(out Reporter, opts Options) *Comparator {
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = DefaultOptions().ContextWindow
	}
	if opts.IndentTolerance < 0 {
		opts.IndentTolerance = 0
	}
	policy := rectify.CrossBackend()
	if opts.Strategy == RoundTrip {
		policy = rectify.RoundTrip()
	}
	r := rectify.New(policy)
	r.Trace = opts.OnFixup
	return &Comparator{opts: opts, out: out, rect: r}
}

// Documents compares model a with model b.
func Documents(out Reporter, a, b *typo.Document, opts Options) Result {
	return New(out, opts).Compare(a, b)
}

// Compare compares model a with model b. The models may be mutated by the
// rectifier.
func (c *Comparator) Compare(a, b *typo.Document) Result {
	c.blocks("blocks", a.Blocks, b.Blocks)
	return c.result
}

func (c *Comparator) roundTrip() bool {
	return c.opts.Strategy == RoundTrip
}

func (c *Comparator) report(kind diag.Kind, priority int, format string, args ...any) {
	c.out.Report(diag.Finding{Kind: kind, Priority: priority, Message: fmt.Sprintf(format, args...)})
}

// blocks walks two block sequences in lockstep. It stops early when the
// rectifier abandons the comparison.
func (c *Comparator) blocks(path string, a, b []typo.Block) {
	i, j := 0, 0
	for i < len(a) && j < len(b) && !c.abandon {
		ba, bb := a[i], b[j]
		at := fmt.Sprintf("%s[%d]", path, i)

		if ba.Type != bb.Type {
			c.report(diag.KindStructure, PriorityContent, "%s: block kind %s vs %s", at, ba.Type, bb.Type)
			i++
			j++
			continue
		}

		switch ba.Type {
		case typo.BlockTypeParagraph:
			switch c.rect.Rectify(ba.Paragraph, bb.Paragraph) {
			case rectify.Continue:
				c.paragraph(at, ba.Paragraph, bb.Paragraph)
				i++
				j++
			case rectify.Skip:
				i++
				j++
			case rectify.SkipA:
				i++
			case rectify.SkipB:
				j++
			case rectify.Abandon:
				c.report(diag.KindStructure, PriorityContent,
					"%s: paragraphs out of alignment, comparison abandoned: %s vs %s",
					at, quote(ba.Paragraph.Text), quote(bb.Paragraph.Text))
				c.abandon = true
				c.result.Abandoned = true
			}

		case typo.BlockTypeList:
			c.list(at+".list", ba.List, bb.List)
			i++
			j++

		case typo.BlockTypeTable:
			c.table(at+".table", ba.Table, bb.Table)
			i++
			j++
		}
	}

	if c.abandon {
		return
	}
	if extraA, extraB := len(a)-i, len(b)-j; extraA > 0 || extraB > 0 {
		c.report(diag.KindCount, PriorityContent, "%s: block count %d vs %d (%d extra on a, %d extra on b)",
			path, len(a), len(b), extraA, extraB)
	}
}
