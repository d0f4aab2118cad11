package shopify

import (
	"fmt"
	"strings"
)

// APIError wraps a failed call against the catalog platform. All platform
// errors are fatal to the run.
type APIError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("shopify %s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("shopify %s: %s", e.Operation, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// UserError is one platform-reported input error from a mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrorsError carries the userErrors array a mutation returned instead
// of a result. Distinct from APIError so callers can tell a rejected input
// from a transport failure.
type UserErrorsError struct {
	Operation string
	Errors    []UserError
}

func (e *UserErrorsError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		if len(ue.Field) > 0 {
			messages = append(messages, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message))
		} else {
			messages = append(messages, ue.Message)
		}
	}
	return fmt.Sprintf("shopify %s rejected: %s", e.Operation, strings.Join(messages, "; "))
}
