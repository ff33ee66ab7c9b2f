package constants

// JobStatus is the canonical status for an OCR extraction job.
type JobStatus string

// Stable values (persisted and compared verbatim; match the Textract job
// status strings so the adapter can pass them through).
const (
	JobStatusQueued    JobStatus = "QUEUED"          // submitted, not yet started
	JobStatusRunning   JobStatus = "IN_PROGRESS"     // OCR in progress
	JobStatusSucceeded JobStatus = "SUCCEEDED"       // terminal, all pages processed
	JobStatusPartial   JobStatus = "PARTIAL_SUCCESS" // terminal, some pages failed
	JobStatusFailed    JobStatus = "FAILED"          // terminal failure
)

// Terminal reports whether the status ends the polling loop.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusSucceeded, JobStatusPartial, JobStatusFailed:
		return true
	}
	return false
}
