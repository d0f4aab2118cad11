package supplier

import "fmt"

// AdapterError represents a supplier feed failure. It is always fatal to
// the run.
type AdapterError struct {
	Source string
	Cause  error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("failed to fetch offers from %s: %v", e.Source, e.Cause)
}

func (e *AdapterError) Unwrap() error {
	return e.Cause
}
