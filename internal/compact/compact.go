// Package compact merges adjacent equal-valued format runs.
package compact

import "github.com/roboco-io/typodiff/internal/typo"

// Document compacts every paragraph reachable from the document.
func Document(d *typo.Document) {
	d.Walk(Paragraph)
}

// Paragraph compacts every channel of one paragraph in place.
func Paragraph(p *typo.Paragraph) {
	for ch, runs := range p.Runs {
		p.Runs[ch] = Runs(runs)
	}
}

// Runs merges adjacent runs with equal values into one run covering their
// combined range. It is a single left-to-right pass and reuses the input
// slice.
func Runs(runs []typo.Run) []typo.Run {
	if len(runs) < 2 {
		return runs
	}
	out := runs[:1]
	for _, r := range runs[1:] {
		last := &out[len(out)-1]
		if r.Value == last.Value && r.Start == last.End {
			last.End = r.End
			last.Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
