package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := fmt.Errorf("exit status 1")
	err := Wrap(ErrEngineExecution, "ffmpeg", "transcode", "codec not found", base)
	if !errors.Is(err, ErrEngineExecution) {
		t.Fatalf("expected engine execution marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "dispatcher", "", "", nil)
	if !errors.Is(err, ErrEngineExecution) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		marker error
		want   string
	}{
		{ErrNotFound, "not_found"},
		{ErrGap, "gap"},
		{ErrAmbiguousSequence, "ambiguous_sequence"},
		{ErrUnknownPreset, "unknown_preset"},
		{ErrIncompatibleSettings, "incompatible_settings"},
		{ErrTemplateFieldMissing, "template_field_missing"},
		{ErrTemplateLoad, "template_load"},
		{ErrWorkspace, "workspace"},
		{ErrEngineExecution, "engine_execution"},
	}
	for _, tc := range cases {
		if got := Kind(Wrap(tc.marker, "c", "op", "", nil)); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.marker, got, tc.want)
		}
	}
	if got := Kind(errors.New("plain")); got != "" {
		t.Fatalf("expected empty kind for untagged error, got %q", got)
	}
}
