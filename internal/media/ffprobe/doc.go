// Package ffprobe wraps the ffprobe CLI for media inspection.
//
// The sequence resolver uses it as a black-box query for source resolution
// and frame rate; results are parsed from ffprobe's JSON output and cached on
// the media descriptor so a job never probes twice.
package ffprobe
