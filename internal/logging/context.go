package logging

import (
	"context"
	"log/slog"

	"dailies/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldJobID is the standardized structured logging key for render job identifiers.
	FieldJobID = "job_id"
	// FieldEngine is the standardized structured logging key for engine names.
	FieldEngine = "engine"
	// FieldState is the standardized structured logging key for dispatcher states.
	FieldState = "state"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.JobIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldJobID, id))
	}
	if engine, ok := services.EngineFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldEngine, engine))
	}
	if state, ok := services.StateFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldState, state))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, attr := range fields {
		args = append(args, attr)
	}
	return logger.With(args...)
}
