// Package rectify applies the known-issue fixups to a pair of paragraphs
// before they are compared.
package rectify

import (
	"regexp"
	"strings"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/typo"
)

// Action tells the comparator how to proceed with a paragraph pair.
type Action int

const (
	// Continue compares the pair.
	Continue Action = iota
	// Skip advances both sides without comparing.
	Skip
	// SkipA advances only side A, which produced a spurious paragraph.
	SkipA
	// SkipB advances only side B.
	SkipB
	// Abandon stops comparing paragraphs: the sequences are out of alignment.
	Abandon
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case SkipA:
		return "skip-a"
	case SkipB:
		return "skip-b"
	case Abandon:
		return "abandon"
	default:
		return "unknown"
	}
}

// Fixup names.
const (
	FixMergedCell     = "merged-cell"
	FixLoneFormFeed   = "lone-form-feed"
	FixLeadingFeed    = "leading-form-feed"
	FixListMarker     = "list-marker-prefix"
	FixTerminator     = "trailing-terminator"
	FixCellMark       = "cell-mark"
	FixOptionalHyphen = "optional-hyphen"
	FixAlignment      = "alignment"
)

// Policy enables individual fixups.
type Policy struct {
	MergedCell     bool
	FormFeed       bool
	ListMarker     bool
	Terminator     bool
	OptionalHyphen bool
	Alignment      bool
}

// CrossBackend is the policy for comparing two different backends.
func CrossBackend() Policy {
	return Policy{
		MergedCell:     true,
		FormFeed:       true,
		ListMarker:     true,
		Terminator:     true,
		OptionalHyphen: true,
		Alignment:      true,
	}
}

// RoundTrip is the policy for content round-tripped through one backend.
func RoundTrip() Policy {
	return Policy{
		MergedCell: true,
		Alignment:  true,
	}
}

// Rectifier applies a policy to paragraph pairs.
type Rectifier struct {
	policy Policy

	// Trace, if set, is called with the name of every fixup applied.
	Trace func(fixup string)
}

// New creates a rectifier for the given policy.
func New(p Policy) *Rectifier {
	return &Rectifier{policy: p}
}

// Policy returns the rectifier's policy.
func (r *Rectifier) Policy() Policy {
	return r.policy
}

// Rectify applies the cross-backend fixups to a pair.
func Rectify(a, b *typo.Paragraph) Action {
	return New(CrossBackend()).Rectify(a, b)
}

// Rectify inspects a paragraph pair, fixes known artifacts in place and
// returns how the comparator should proceed.
func (r *Rectifier) Rectify(a, b *typo.Paragraph) Action {
	p := r.policy

	if p.MergedCell {
		if act, ok := mergedCell(a, b); ok {
			r.trace(FixMergedCell)
			return act
		}
	}
	if p.FormFeed {
		if act, ok := loneFormFeed(a, b); ok {
			r.trace(FixLoneFormFeed)
			return act
		}
		if leadingFormFeed(a, b) {
			r.trace(FixLeadingFeed)
		}
	}
	if p.ListMarker && listMarker(a, b) {
		r.trace(FixListMarker)
	}
	if p.Terminator {
		if terminator(a, b) {
			r.trace(FixTerminator)
		}
		if cellMark(a, b) {
			r.trace(FixCellMark)
		}
	}
	if p.OptionalHyphen && optionalHyphen(a, b) {
		r.trace(FixOptionalHyphen)
	}
	if p.Alignment && misaligned(body(a.Text), body(b.Text)) {
		r.trace(FixAlignment)
		return Abandon
	}
	return Continue
}

func (r *Rectifier) trace(fixup string) {
	if r.Trace != nil {
		r.Trace(fixup)
	}
}

// body returns the text without its paragraph or cell terminator.
func body(s string) string {
	return strings.TrimRight(s, string([]rune{backend.ParagraphMark, backend.CellMark}))
}

func isTerminator(r rune) bool {
	return r == backend.ParagraphMark || r == backend.CellMark
}

// mergedCell handles the vertically merged cell marker that only one
// backend represents.
func mergedCell(a, b *typo.Paragraph) (Action, bool) {
	marker := string(backend.MergedCell)
	am, bm := body(a.Text) == marker, body(b.Text) == marker
	switch {
	case am == bm:
		return Continue, false
	case am && body(b.Text) == "":
		return Skip, true
	case bm && body(a.Text) == "":
		return Skip, true
	case am:
		return SkipA, true
	default:
		return SkipB, true
	}
}

// loneFormFeed skips a page break paragraph one side absorbed into the
// following paragraph.
func loneFormFeed(a, b *typo.Paragraph) (Action, bool) {
	feed := string(backend.PageBreak)
	af, bf := body(a.Text) == feed, body(b.Text) == feed
	switch {
	case af && !bf:
		return SkipA, true
	case bf && !af:
		return SkipB, true
	}
	return Continue, false
}

// leadingFormFeed strips a page break one side kept at the start of the
// paragraph it was absorbed into.
func leadingFormFeed(a, b *typo.Paragraph) bool {
	af := strings.HasPrefix(a.Text, string(backend.PageBreak))
	bf := strings.HasPrefix(b.Text, string(backend.PageBreak))
	switch {
	case af && !bf:
		trimPrefix(a, 1)
	case bf && !af:
		trimPrefix(b, 1)
	default:
		return false
	}
	return true
}

var markerPattern = regexp.MustCompile(`^(?:\d+[.)]|[a-zA-Z][.)]|[ivxlcdmIVXLCDM]+[.)]|[\x{2022}\x{00B7}\x{25CB}\x{25A0}\x{25AA}\x{25CF}\x{F0B7}\x{F0A7}*-])\t`)

// listMarker strips a list marker plus tab that one side materialized as
// text while the other side holds the paragraph in a list.
func listMarker(a, b *typo.Paragraph) bool {
	strip := func(p, other *typo.Paragraph) bool {
		if !other.InList {
			return false
		}
		loc := markerPattern.FindStringIndex(p.Text)
		if loc == nil {
			return false
		}
		n := len([]rune(p.Text[:loc[1]]))
		if body(p.Text[loc[1]:]) != body(other.Text) {
			return false
		}
		trimPrefix(p, n)
		return true
	}
	return strip(a, b) || strip(b, a)
}

// terminator appends the implicit paragraph terminator to the side that
// omits it.
func terminator(a, b *typo.Paragraph) bool {
	at, bt := lastRune(a.Text), lastRune(b.Text)
	switch {
	case isTerminator(at) && !isTerminator(bt):
		appendTerminator(b, a, at)
	case isTerminator(bt) && !isTerminator(at):
		appendTerminator(a, b, bt)
	default:
		return false
	}
	return true
}

// cellMark treats an end-of-cell marker as equal to a paragraph mark.
func cellMark(a, b *typo.Paragraph) bool {
	at, bt := lastRune(a.Text), lastRune(b.Text)
	if !isTerminator(at) || !isTerminator(bt) || at == bt {
		return false
	}
	if at == backend.CellMark {
		replaceLast(a, bt)
	} else {
		replaceLast(b, at)
	}
	return true
}

// optionalHyphen drops soft hyphens whose positions diverge between sides.
func optionalHyphen(a, b *typo.Paragraph) bool {
	hyph := string(backend.OptionalHyph)
	if a.Text == b.Text || (!strings.Contains(a.Text, hyph) && !strings.Contains(b.Text, hyph)) {
		return false
	}
	if strings.ReplaceAll(a.Text, hyph, "") != strings.ReplaceAll(b.Text, hyph, "") {
		return false
	}
	removeAll(a, backend.OptionalHyph)
	removeAll(b, backend.OptionalHyph)
	return true
}

// misaligned reports whether the pair has fallen out of alignment: neither
// text contains the other.
func misaligned(a, b string) bool {
	if a == b {
		return false
	}
	return !strings.Contains(a, b) && !strings.Contains(b, a)
}
