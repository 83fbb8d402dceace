package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Descriptor is the canonical description of resolved input media. It is
// immutable after resolution; concurrent jobs may share one read-only.
type Descriptor struct {
	// BasePath is the single file path for non-sequence media, or the
	// directory-qualified prefix shared by every frame of a sequence.
	BasePath   string
	FrameStart int
	FrameEnd   int
	// Padding is the zero-padded digit width of the frame token.
	Padding    int
	Extension  string
	IsSequence bool

	// Probed metadata, cached by Probe. Zero until probed.
	Width  int
	Height int
	FPS    float64
	probed bool
}

// FrameCount returns the number of source frames described.
func (d *Descriptor) FrameCount() int {
	if !d.IsSequence {
		return 1
	}
	return d.FrameEnd - d.FrameStart + 1
}

// FramePath returns the path of a single numbered frame. For non-sequence
// media it returns BasePath regardless of the frame number.
func (d *Descriptor) FramePath(frame int) string {
	if !d.IsSequence {
		return d.BasePath
	}
	return fmt.Sprintf("%s%0*d.%s", d.BasePath, d.Padding, frame, d.Extension)
}

// FirstFramePath returns the path of the first frame, the natural probe target.
func (d *Descriptor) FirstFramePath() string {
	return d.FramePath(d.FrameStart)
}

// PatternPath renders the sequence as a path containing the given frame
// token, e.g. "%04d" for ffmpeg or "####" for nuke. Non-sequence media
// returns BasePath unchanged.
func (d *Descriptor) PatternPath(token string) string {
	if !d.IsSequence {
		return d.BasePath
	}
	return d.BasePath + token + "." + d.Extension
}

// PrintfPattern returns the sequence path with a printf-style padding token.
func (d *Descriptor) PrintfPattern() string {
	return d.PatternPath(fmt.Sprintf("%%0%dd", d.Padding))
}

// HashPattern returns the sequence path with a hash-run padding token.
func (d *Descriptor) HashPattern() string {
	return d.PatternPath(strings.Repeat("#", d.Padding))
}

// Probed reports whether resolution and frame-rate metadata are cached.
func (d *Descriptor) Probed() bool {
	return d.probed
}

// String renders a short human-readable description.
func (d *Descriptor) String() string {
	if !d.IsSequence {
		return filepath.Base(d.BasePath)
	}
	return fmt.Sprintf("%s[%d-%d].%s", filepath.Base(d.BasePath), d.FrameStart, d.FrameEnd, d.Extension)
}
