package tracking

import (
	"context"
	"time"

	"dailies/internal/render"
)

// VersionRecord is the normalized payload handed to a tracking system for
// one published render. OutputPath is guaranteed by the dispatcher to exist
// and be non-empty whenever the record reaches a publisher.
type VersionRecord struct {
	ID           int64
	Project      string
	VersionName  string
	DisplayTitle string
	Artist       string
	Task         string
	Description  string
	OutputPath   string
	Engine       string
	FrameStart   int
	FrameEnd     int
	Duration     time.Duration
	CreatedAt    time.Time
}

// Publisher creates a version record in a tracking backend.
type Publisher interface {
	Publish(ctx context.Context, record VersionRecord) error
}

// NewRecord builds a version record from a successful job result and the
// slate fields that described it.
func NewRecord(fields render.SlateFields, result render.Result) VersionRecord {
	return VersionRecord{
		Project:      fields.Project,
		VersionName:  fields.Version,
		DisplayTitle: DisplayTitle(fields.Version),
		Artist:       fields.Artist,
		Task:         fields.Task,
		Description:  fields.Description,
		OutputPath:   result.OutputPath,
		Engine:       string(result.Engine),
		FrameStart:   result.FrameRange.Start,
		FrameEnd:     result.FrameRange.End,
		Duration:     result.Duration,
		CreatedAt:    time.Now().UTC(),
	}
}

// Nop discards every record. Used when tracking is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, VersionRecord) error { return nil }
