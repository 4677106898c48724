// Package diag is the priority-classified diagnostics sink for comparison
// cases.
package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Kind classifies a finding.
type Kind string

const (
	KindText      Kind = "text"
	KindFormat    Kind = "format"
	KindCount     Kind = "count"
	KindBox       Kind = "box"
	KindStructure Kind = "structure"
	KindException Kind = "exception"
)

// Finding is one reported difference. Priority 0 is the most severe.
type Finding struct {
	Kind     Kind
	Priority int
	Message  string
}

// String formats the finding as it appears in the log.
func (f Finding) String() string {
	return fmt.Sprintf("[P%d] %s: %s", f.Priority, f.Kind, f.Message)
}

// Config contains diagnostics configuration.
type Config struct {
	LogOnlyPriorityZero bool
	LogPath             string // empty writes to stdout
	SummaryPath         string // empty disables the run summary
}

// SummaryEntry is one case of the run summary.
type SummaryEntry struct {
	Case    string
	Fails   int
	Elapsed time.Duration
}

// String formats the entry as a summary line.
func (e SummaryEntry) String() string {
	return fmt.Sprintf("%s, Fails: %d, Seconds: %s", e.Case, e.Fails,
		strconv.FormatFloat(e.Elapsed.Seconds(), 'f', 2, 64))
}

// Log is the diagnostics sink of one run. It is safe for concurrent cases.
type Log struct {
	cfg    Config
	out    io.Writer
	closer io.Closer
	now    func() time.Time

	mu      sync.Mutex
	summary []SummaryEntry
	failed  int
}

// New creates a log writing to cfg.LogPath, appending when it exists.
func New(cfg Config) (*Log, error) {
	if cfg.LogPath == "" {
		return NewWriter(os.Stdout, cfg), nil
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := NewWriter(f, cfg)
	l.closer = f
	return l, nil
}

// NewWriter creates a log writing case lines to w.
func NewWriter(w io.Writer, cfg Config) *Log {
	return &Log{cfg: cfg, out: w, now: time.Now}
}

// SetClock replaces the clock used to time cases.
func (l *Log) SetClock(now func() time.Time) {
	l.now = now
}

// Begin starts a case.
func (l *Log) Begin(name string) *Case {
	return &Case{
		name:  name,
		log:   l,
		start: l.now(),
		seen:  make(map[Finding]bool),
	}
}

// Summary returns a copy of the run summary collected so far.
func (l *Log) Summary() []SummaryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]SummaryEntry(nil), l.summary...)
}

// FailedCases returns the number of finished cases that failed.
func (l *Log) FailedCases() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failed
}

// Flush appends the run summary to cfg.SummaryPath and clears it. Without
// a summary path the summary is kept in memory.
func (l *Log) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cfg.SummaryPath == "" || len(l.summary) == 0 {
		return nil
	}

	f, err := os.OpenFile(l.cfg.SummaryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open summary file: %w", err)
	}
	for _, e := range l.summary {
		if _, err := fmt.Fprintln(f, e.String()); err != nil {
			f.Close()
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	l.summary = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close summary file: %w", err)
	}
	return nil
}

// Close releases the log file, if any.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Log) finish(c *Case, findings []Finding) error {
	elapsed := l.now().Sub(c.start)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.summary = append(l.summary, SummaryEntry{Case: c.name, Fails: len(findings), Elapsed: elapsed})
	if len(findings) > 0 {
		l.failed++
	}

	if len(findings) == 0 {
		if _, err := fmt.Fprintf(l.out, "%s,Pass\n", c.name); err != nil {
			return fmt.Errorf("failed to write log: %w", err)
		}
		return nil
	}
	written := 0
	for _, f := range findings {
		if l.cfg.LogOnlyPriorityZero && f.Priority != 0 {
			continue
		}
		if _, err := fmt.Fprintf(l.out, "%s,%s\n", c.name, f); err != nil {
			return fmt.Errorf("failed to write log: %w", err)
		}
		written++
	}
	// every case leaves at least one line in the log
	if written == 0 {
		if _, err := fmt.Fprintf(l.out, "%s,Fail\n", c.name); err != nil {
			return fmt.Errorf("failed to write log: %w", err)
		}
	}
	return nil
}

// Case collects the findings of one document pair. A Case is used by one
// goroutine.
type Case struct {
	name     string
	log      *Log
	start    time.Time
	findings []Finding
	seen     map[Finding]bool
	done     bool
}

// Name returns the case identifier.
func (c *Case) Name() string {
	return c.name
}

// Report records a finding. Duplicate findings are dropped.
func (c *Case) Report(f Finding) {
	if c.seen[f] {
		return
	}
	c.seen[f] = true
	c.findings = append(c.findings, f)
}

// Reportf records a formatted finding.
func (c *Case) Reportf(kind Kind, priority int, format string, args ...any) {
	c.Report(Finding{Kind: kind, Priority: priority, Message: fmt.Sprintf(format, args...)})
}

// Count returns the number of distinct findings.
func (c *Case) Count() int {
	return len(c.findings)
}

// Findings returns the findings sorted by priority then message.
func (c *Case) Findings() []Finding {
	out := append([]Finding(nil), c.findings...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Message < out[j].Message
	})
	return out
}

// Finish writes the case to the log and returns its finding count.
// Finishing a case twice is an error.
func (c *Case) Finish() (int, error) {
	if c.done {
		return c.Count(), fmt.Errorf("case %s already finished", c.name)
	}
	c.done = true
	findings := c.Findings()
	return len(findings), c.log.finish(c, findings)
}
