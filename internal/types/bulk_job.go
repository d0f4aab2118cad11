package types

// JobStatus is the lifecycle state of a platform-side bulk mutation job.
// Transitions are one-directional; Completed, Failed and TimedOut are
// terminal.
type JobStatus string

// Bulk job states.
const (
	JobCreated   JobStatus = "CREATED"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
	JobTimedOut  JobStatus = "TIMED_OUT"
)

// Terminal reports whether the status ends the polling loop.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobTimedOut:
		return true
	default:
		return false
	}
}

// BulkJob tracks one asynchronous bulk mutation, created once per run.
type BulkJob struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`

	// Diagnostics reported by the platform on terminal states.
	ErrorCode   string `json:"error_code,omitempty"`
	ObjectCount string `json:"object_count,omitempty"`
	FileSize    string `json:"file_size,omitempty"`
	ResultURL   string `json:"result_url,omitempty"`
}
