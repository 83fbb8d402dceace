// Package media resolves input paths into canonical media descriptors.
//
// An input may be a single video container, a printf-style or hash-run frame
// pattern, a concrete frame file, or a directory holding one sequence. The
// resolver scans for frames sharing the non-numeric prefix and padding width,
// sorts them numerically, and derives the start/end/padding triple. Gaps and
// ambiguous directories are hard errors, never silently skipped. Resolution
// and frame-rate metadata come from ffprobe and are cached per descriptor.
package media
