package render

import (
	"context"
	"time"

	"dailies/internal/media"
	"dailies/internal/services"
)

// Job describes one render: source media, resolved settings, optional slate
// fields, and the declared output path. A Job is owned exclusively by the
// dispatcher for the duration of one execution and never shared across
// concurrent executions.
type Job struct {
	ID         string
	Media      *media.Descriptor
	Settings   Settings
	Slate      *SlateFields
	OutputPath string

	// WorkspaceDir and SlatePath are populated by the dispatcher while the
	// job runs. Adapters treat the Job as read-only.
	WorkspaceDir string
	SlatePath    string
}

// FrameRange is the inclusive resolved frame span of a finished render. An
// inserted slate occupies the frame before the first source frame.
type FrameRange struct {
	Start int
	End   int
}

// ErrorInfo is the typed failure record carried by a JobResult.
type ErrorInfo struct {
	Kind    string
	Message string
}

// Result is produced exactly once per Job and handed to the tracking
// publisher. It is immutable after construction.
type Result struct {
	Success    bool
	OutputPath string
	FrameRange FrameRange
	Engine     Engine
	Error      *ErrorInfo
	Duration   time.Duration
}

// Adapter is the uniform contract every engine implements. Execute must
// confine filesystem side effects to the Job's workspace and declared output
// path, and must not mutate global state.
type Adapter interface {
	Engine() Engine
	Execute(ctx context.Context, job *Job) error
}

// resultError converts a taxonomy-tagged error into the ErrorInfo carried by
// a Result.
func resultError(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	kind := services.Kind(err)
	if kind == "" {
		kind = "engine_execution"
	}
	return &ErrorInfo{Kind: kind, Message: err.Error()}
}
