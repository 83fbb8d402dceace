package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the render error taxonomy. Every failure surfaced to a
// caller wraps exactly one of these so a JobResult can be classified without
// string matching.
var (
	// Input resolution.
	ErrNotFound          = errors.New("not found")
	ErrGap               = errors.New("sequence gap")
	ErrAmbiguousSequence = errors.New("ambiguous sequence")

	// Settings resolution.
	ErrUnknownPreset        = errors.New("unknown preset")
	ErrIncompatibleSettings = errors.New("incompatible settings")

	// Template substitution, shared by the slate builder and the
	// templated-script adapter.
	ErrTemplateFieldMissing = errors.New("template field missing")
	ErrTemplateLoad         = errors.New("template load error")

	// Temp workspace lifecycle.
	ErrWorkspace = errors.New("workspace error")

	// Non-zero external process exit.
	ErrEngineExecution = errors.New("engine execution error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrEngineExecution
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the short taxonomy name for an error, or "" when the error does
// not carry one of the sentinel markers.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrGap):
		return "gap"
	case errors.Is(err, ErrAmbiguousSequence):
		return "ambiguous_sequence"
	case errors.Is(err, ErrUnknownPreset):
		return "unknown_preset"
	case errors.Is(err, ErrIncompatibleSettings):
		return "incompatible_settings"
	case errors.Is(err, ErrTemplateFieldMissing):
		return "template_field_missing"
	case errors.Is(err, ErrTemplateLoad):
		return "template_load"
	case errors.Is(err, ErrWorkspace):
		return "workspace"
	case errors.Is(err, ErrEngineExecution):
		return "engine_execution"
	default:
		return ""
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "render failure"
	}
	return strings.Join(parts, ": ")
}
