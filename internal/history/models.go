package history

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a render job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProbing    Status = "probing"
	StatusExtracting Status = "extracting"
	StatusConverting Status = "converting"
	StatusEncoding   Status = "encoding"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// StopReason is the error message recorded when a job is failed because the
// user interrupted the pipeline.
const StopReason = "Render interrupted by user"

var allStatuses = []Status{
	StatusPending,
	StatusProbing,
	StatusExtracting,
	StatusConverting,
	StatusEncoding,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// processingStatuses are the in-flight states a crashed run can leave behind.
var processingStatuses = map[Status]struct{}{
	StatusProbing:    {},
	StatusExtracting: {},
	StatusConverting: {},
	StatusEncoding:   {},
}

// statusTransitions is the set of legal lifecycle moves. The terminal
// states have no successors; completed and failed are reached through the
// dedicated Mark methods.
var statusTransitions = map[Status]map[Status]struct{}{
	StatusPending:    {StatusProbing: {}, StatusFailed: {}},
	StatusProbing:    {StatusExtracting: {}, StatusFailed: {}},
	StatusExtracting: {StatusConverting: {}, StatusEncoding: {}, StatusFailed: {}},
	StatusConverting: {StatusEncoding: {}, StatusFailed: {}},
	StatusEncoding:   {StatusCompleted: {}, StatusFailed: {}},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// Valid reports whether status names a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// CanTransition reports whether a job in state s may move to next.
func (s Status) CanTransition(next Status) bool {
	targets, ok := statusTransitions[s]
	if !ok {
		return false
	}
	_, ok = targets[next]
	return ok
}

// Processing reports whether the status is an in-flight stage state.
func (s Status) Processing() bool {
	_, ok := processingStatuses[s]
	return ok
}

// ParseStatus normalizes and validates a status label.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	return status, status.Valid()
}

// Job is one row of the render ledger.
type Job struct {
	ID              string
	InputPath       string
	OutputPath      string
	Mode            string
	Quality         string
	ColorScheme     string
	FPS             int
	TotalFrames     int
	FramesDone      int
	Status          Status
	ProgressStage   string
	ProgressPercent float64
	ErrorMessage    string
	FallbackUsed    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     time.Time
}

// Duration returns the wall-clock span of a finished job, zero otherwise.
func (j *Job) Duration() time.Duration {
	if j == nil || j.CompletedAt.IsZero() {
		return 0
	}
	return j.CompletedAt.Sub(j.CreatedAt)
}
