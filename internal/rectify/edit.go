package rectify

import (
	"unicode/utf8"

	"github.com/roboco-io/typodiff/internal/typo"
)

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// trimPrefix removes the first n runes of the paragraph and shifts its
// runs and hyperlinks.
func trimPrefix(p *typo.Paragraph, n int) {
	for i := 0; i < n; i++ {
		removeAt(p, 0)
	}
}

// removeAll removes every occurrence of r from the paragraph.
func removeAll(p *typo.Paragraph, r rune) {
	for i := 0; i < p.Len(); {
		if []rune(p.Text)[i] == r {
			removeAt(p, i)
			continue
		}
		i++
	}
}

// removeAt removes the rune at idx. Runs covering idx shrink, runs after
// it shift left, runs left empty are dropped.
func removeAt(p *typo.Paragraph, idx int) {
	text := []rune(p.Text)
	if idx < 0 || idx >= len(text) {
		return
	}
	p.SetText(string(text[:idx]) + string(text[idx+1:]))

	for ch, runs := range p.Runs {
		kept := runs[:0]
		for _, r := range runs {
			switch {
			case r.End <= idx:
			case r.Start > idx:
				r.Start--
				r.End--
			default:
				rt := []rune(r.Text)
				if off := idx - r.Start; off < len(rt) {
					r.Text = string(rt[:off]) + string(rt[off+1:])
				}
				r.End--
			}
			if r.End > r.Start {
				kept = append(kept, r)
			}
		}
		p.Runs[ch] = kept
	}

	links := p.Hyperlinks[:0]
	for _, l := range p.Hyperlinks {
		switch {
		case l.End <= idx:
		case l.Start > idx:
			l.Start--
			l.End--
		default:
			l.End--
			l.Text = p.Slice(l.Start, l.End)
		}
		if l.End > l.Start {
			links = append(links, l)
		}
	}
	p.Hyperlinks = links
}

// appendTerminator appends mark to p. For each channel, when other has
// exactly one more run than p the last run of other is copied; otherwise
// the last run of p grows to cover the mark.
func appendTerminator(p, other *typo.Paragraph, mark rune) {
	pos := p.AppendText(string(mark))
	for _, ch := range typo.Channels {
		runs, theirs := p.Runs[ch], other.Runs[ch]
		switch {
		case len(theirs) == len(runs)+1:
			last := theirs[len(theirs)-1]
			p.AddRun(ch, typo.Run{Value: last.Value, Start: pos, End: pos + 1, Text: string(mark)})
		case len(runs) > 0:
			runs[len(runs)-1].End = pos + 1
			runs[len(runs)-1].Text += string(mark)
		}
	}
}

// replaceLast replaces the final rune of the paragraph, keeping offsets.
func replaceLast(p *typo.Paragraph, mark rune) {
	text := []rune(p.Text)
	if len(text) == 0 {
		return
	}
	text[len(text)-1] = mark
	p.SetText(string(text))

	for _, runs := range p.Runs {
		if len(runs) == 0 {
			continue
		}
		last := &runs[len(runs)-1]
		if rt := []rune(last.Text); len(rt) > 0 {
			rt[len(rt)-1] = mark
			last.Text = string(rt)
		}
	}
}
