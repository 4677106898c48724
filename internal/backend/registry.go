package backend

import (
	"fmt"
	"sort"
	"sync"
)

// Handle is an opened document: exactly one of Range or Tree is set.
type Handle struct {
	Format Format
	Range  RangeBackend
	Tree   *Tree
}

// IsRange reports whether the handle is range-backed.
func (h *Handle) IsRange() bool {
	return h.Range != nil
}

// Opener opens files of one format into a backend handle.
type Opener interface {
	// Format returns the file format the opener handles.
	Format() Format

	// Open reads the file and materializes its backend.
	Open(path string) (*Handle, error)
}

// Registry maps formats to openers.
type Registry struct {
	mu      sync.RWMutex
	openers map[Format]Opener
}

// NewRegistry creates a new opener registry.
func NewRegistry() *Registry {
	return &Registry{
		openers: make(map[Format]Opener),
	}
}

// Register adds an opener to the registry.
func (r *Registry) Register(o Opener) error {
	if o == nil {
		return fmt.Errorf("cannot register nil opener")
	}
	f := o.Format()
	if f == FormatUnknown {
		return fmt.Errorf("opener format cannot be unknown")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.openers[f]; exists {
		return fmt.Errorf("opener already registered: %s", f)
	}

	r.openers[f] = o
	return nil
}

// Get returns the opener for a format.
func (r *Registry) Get(f Format) (Opener, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.openers[f]
	if !ok {
		return nil, fmt.Errorf("no opener for format: %s", f)
	}
	return o, nil
}

// Open detects the format of path and opens it with the matching opener.
func (r *Registry) Open(path string) (*Handle, error) {
	f := DetectFormat(path)
	if f == FormatUnknown {
		return nil, fmt.Errorf("unsupported file format: %s", path)
	}
	o, err := r.Get(f)
	if err != nil {
		return nil, err
	}
	h, err := o.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return h, nil
}

// List returns all registered formats (sorted by name).
func (r *Registry) List() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.openers))
	for f := range r.openers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i].String() < formats[j].String() })
	return formats
}

// Has checks if an opener is registered for a format.
func (r *Registry) Has(f Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.openers[f]
	return ok
}
