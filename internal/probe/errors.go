package probe

import "fmt"

// ProbeError describes a failed competitor lookup for one URL.
type ProbeError struct {
	URL     string
	Message string
	Cause   error
}

func (e *ProbeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("probe %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("probe %s: %s", e.URL, e.Message)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}
