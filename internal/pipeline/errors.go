package pipeline

import "fmt"

// Pipeline stage names used in StageError.
const (
	StageCatalog   = "catalog"
	StageAggregate = "aggregate"
	StageReconcile = "reconcile"
	StageProbe     = "probe"
	StageResolve   = "resolve"
	StageSerialize = "serialize"
	StageSync      = "sync"
)

// StageError marks which pipeline stage a fatal failure came from, so the
// caller can distinguish abort-worthy failures without string matching.
type StageError struct {
	Stage string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
