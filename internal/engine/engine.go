// Package engine runs comparison cases: extraction of both sides,
// compaction, comparison and the diagnostics verdict.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/compact"
	"github.com/roboco-io/typodiff/internal/compare"
	"github.com/roboco-io/typodiff/internal/diag"
	"github.com/roboco-io/typodiff/internal/extract"
	"github.com/roboco-io/typodiff/internal/logging"
	"github.com/roboco-io/typodiff/internal/typo"
)

// Side names one side of a case.
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// Source is one side of a case. Exactly one field is set.
type Source struct {
	Range backend.RangeBackend
	Tree  *backend.Tree
	Model *typo.Document
	Err   error // the document could not be opened
}

// FromRange wraps a range backend.
func FromRange(b backend.RangeBackend) Source {
	return Source{Range: b}
}

// FromTree wraps a block tree.
func FromTree(t *backend.Tree) Source {
	return Source{Tree: t}
}

// FromModel wraps an already extracted model.
func FromModel(d *typo.Document) Source {
	return Source{Model: d}
}

// FromHandle wraps an opened document.
func FromHandle(h *backend.Handle) Source {
	if h.IsRange() {
		return FromRange(h.Range)
	}
	return FromTree(h.Tree)
}

// Failed wraps a document that could not be opened. The case fails with
// a backend fault for that side.
func Failed(err error) Source {
	return Source{Err: err}
}

// Options contains engine configuration options.
type Options struct {
	Compare compare.Options
	Extract extract.Options
}

// DefaultOptions returns default engine options.
func DefaultOptions() Options {
	return Options{
		Compare: compare.DefaultOptions(),
		Extract: extract.DefaultOptions(),
	}
}

// Verdict is the outcome of one case.
type Verdict struct {
	Case      string
	Findings  int
	Abandoned bool
	Fault     error // non-nil when a backend fault failed the case
	Elapsed   time.Duration
}

// Passed reports whether the case produced no findings.
func (v Verdict) Passed() bool {
	return v.Findings == 0
}

// Engine runs cases against one diagnostics log.
type Engine struct {
	log  *diag.Log
	opts Options
}

// New creates an engine.
func New(log *diag.Log, opts Options) *Engine {
	return &Engine{log: log, opts: opts}
}

// Run compares side a with side b. Backend faults fail the case and are
// reported in the verdict; the returned error is reserved for failures to
// write the diagnostics log. ctx carries logging values only.
func (e *Engine) Run(ctx context.Context, name string, a, b Source) (Verdict, error) {
	start := time.Now()
	strategy := e.opts.Compare.Strategy
	if strategy == "" {
		strategy = compare.CrossBackend
	}
	logging.CaseStarted(ctx, name, string(strategy))

	c := e.log.Begin(name)
	v := Verdict{Case: name}

	v.Abandoned, v.Fault = e.evaluate(ctx, c, a, b)
	if v.Fault != nil {
		side := ""
		if f, ok := v.Fault.(*BackendFault); ok {
			side = string(f.Side)
		}
		logging.BackendFault(ctx, name, side, v.Fault)
		c.Report(diag.Finding{Kind: diag.KindException, Priority: 0, Message: v.Fault.Error()})
	}

	n, err := c.Finish()
	v.Findings = n
	v.Elapsed = time.Since(start)
	if err != nil {
		return v, fmt.Errorf("failed to finish case %s: %w", name, err)
	}

	logging.CaseFinished(ctx, name, n, v.Elapsed, "abandoned", v.Abandoned)
	return v, nil
}

func (e *Engine) evaluate(ctx context.Context, c *diag.Case, a, b Source) (abandoned bool, fault error) {
	da, err := e.model(SideA, a)
	if err != nil {
		return false, err
	}
	db, err := e.model(SideB, b)
	if err != nil {
		return false, err
	}

	return e.compare(ctx, c, da, db)
}

// compare compacts both models and compares them. A panic on a malformed
// model becomes a ComparisonFault.
func (e *Engine) compare(ctx context.Context, c *diag.Case, da, db *typo.Document) (abandoned bool, fault error) {
	defer func() {
		if r := recover(); r != nil {
			abandoned = false
			fault = &ComparisonFault{Err: fmt.Errorf("%v", r)}
		}
	}()

	compact.Document(da)
	compact.Document(db)

	opts := e.opts.Compare
	opts.OnFixup = func(fixup string) {
		logging.DebugContext(ctx, "fixup_applied", "case", c.Name(), "fixup", fixup)
	}
	res := compare.Documents(c, da, db, opts)
	return res.Abandoned, nil
}

// model extracts the model of one side, converting backend errors and
// panics into a BackendFault.
func (e *Engine) model(side Side, s Source) (doc *typo.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &BackendFault{Side: side, Err: fmt.Errorf("%v", r), Panic: true}
		}
	}()

	switch {
	case s.Err != nil:
		err = s.Err
	case s.Model != nil:
		return s.Model, nil
	case s.Range != nil:
		doc, err = extract.FromRange(s.Range, e.opts.Extract)
	case s.Tree != nil:
		doc, err = extract.FromTree(s.Tree, e.opts.Extract)
	default:
		err = fmt.Errorf("empty source")
	}
	if err != nil {
		return nil, &BackendFault{Side: side, Err: err}
	}
	return doc, nil
}
