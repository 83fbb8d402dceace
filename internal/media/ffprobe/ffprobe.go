package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := commandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// VideoStream returns the first video stream, if any.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// Resolution returns the width and height of the first video stream, or
// zeros when unavailable.
func (r Result) Resolution() (int, int) {
	stream, ok := r.VideoStream()
	if !ok {
		return 0, 0
	}
	return stream.Width, stream.Height
}

// FrameRate returns the frame rate of the first video stream in frames per
// second, or 0 when unavailable. ffprobe reports rates as rationals such as
// "24000/1001".
func (r Result) FrameRate() float64 {
	stream, ok := r.VideoStream()
	if !ok {
		return 0
	}
	for _, raw := range []string{stream.AvgFrameRate, stream.RFrameRate} {
		if rate := parseRational(raw); rate > 0 {
			return rate
		}
	}
	return 0
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	value := parseFloat(r.Format.Duration)
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	return value
}

func parseRational(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || cleaned == "0/0" {
		return 0
	}
	num, den, found := strings.Cut(cleaned, "/")
	if !found {
		rate := parseFloat(num)
		if math.IsNaN(rate) {
			return 0
		}
		return rate
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if math.IsNaN(n) || math.IsNaN(d) || d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
