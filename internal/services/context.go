package services

import "context"

type contextKey string

const (
	jobIDKey  contextKey = "job_id"
	engineKey contextKey = "engine"
	stateKey  contextKey = "state"
)

// WithJobID annotates context with the render job identifier.
func WithJobID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the render job identifier if present.
func JobIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(jobIDKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithEngine annotates context with the engine handling the job.
func WithEngine(ctx context.Context, engine string) context.Context {
	if engine == "" {
		return ctx
	}
	return context.WithValue(ctx, engineKey, engine)
}

// EngineFromContext returns the engine name if present.
func EngineFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(engineKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithState annotates context with the dispatcher state name.
func WithState(ctx context.Context, state string) context.Context {
	if state == "" {
		return ctx
	}
	return context.WithValue(ctx, stateKey, state)
}

// StateFromContext returns the dispatcher state name if present.
func StateFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stateKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
