package engine

import (
	"errors"
	"fmt"
)

// ErrBackendFault indicates a backend failed while a model was extracted.
var ErrBackendFault = errors.New("backend fault")

// BackendFault is an extraction failure of one side of a case, either an
// error returned by the backend or a panic raised inside it.
type BackendFault struct {
	Side  Side  // side whose backend failed
	Err   error // underlying error
	Panic bool  // the fault was a recovered panic
}

func (e *BackendFault) Error() string {
	if e.Panic {
		return fmt.Sprintf("backend %s panicked: %v", e.Side, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Side, e.Err)
}

func (e *BackendFault) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrBackendFault.
func (e *BackendFault) Is(target error) bool {
	return target == ErrBackendFault
}

// IsBackendFault reports whether err is or wraps a BackendFault.
func IsBackendFault(err error) bool {
	return errors.Is(err, ErrBackendFault)
}

// ComparisonFault is a panic raised while two extracted models were
// compacted or compared.
type ComparisonFault struct {
	Err error
}

func (e *ComparisonFault) Error() string {
	return fmt.Sprintf("comparison panicked: %v", e.Err)
}

func (e *ComparisonFault) Unwrap() error {
	return e.Err
}
