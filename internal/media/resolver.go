package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"dailies/internal/logging"
	"dailies/internal/media/ffprobe"
	"dailies/internal/services"
)

// printfToken matches printf-style frame tokens such as %04d.
var printfToken = regexp.MustCompile(`%0?(\d*)d`)

// hashToken matches hash-run frame tokens such as ####.
var hashToken = regexp.MustCompile(`#+`)

// Resolver interprets an input path into a canonical Descriptor.
type Resolver struct {
	ffprobeBinary string
	logger        *slog.Logger
}

// NewResolver constructs a resolver. The ffprobe binary is used for
// resolution and frame-rate probing.
func NewResolver(ffprobeBinary string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{ffprobeBinary: ffprobeBinary, logger: logger}
}

// Resolve interprets path as a single media file, a frame pattern
// (printf-style or hash-run token), a concrete frame file, or a directory
// holding exactly one sequence.
func (r *Resolver) Resolve(ctx context.Context, path string) (*Descriptor, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrNotFound, "resolver", "resolve", "empty input path", nil)
	}

	if prefix, padding, ok := splitPattern(path); ok {
		return r.resolveSequence(prefix, padding, extensionOf(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "resolver", "resolve", fmt.Sprintf("no media at %s", path), nil)
		}
		return nil, services.Wrap(services.ErrNotFound, "resolver", "resolve", "stat input", err)
	}

	if info.IsDir() {
		return r.resolveDirectory(path)
	}

	ext := extensionOf(path)
	if IsVideoExtension(ext) {
		return &Descriptor{BasePath: path, Extension: ext}, nil
	}

	// A concrete frame file: treat its trailing digits as the frame token
	// and pick up the rest of the sequence from its siblings.
	if prefix, _, ok := splitFrameFile(path); ok && IsImageExtension(ext) {
		return r.resolveSequence(prefix, 0, ext)
	}

	// Plain still image or unrecognized extension: single-file media.
	return &Descriptor{BasePath: path, Extension: ext}, nil
}

// Probe fills the descriptor's resolution and frame-rate metadata via
// ffprobe. The result is cached; repeat calls within one job are free.
func (r *Resolver) Probe(ctx context.Context, desc *Descriptor) error {
	if desc.probed {
		return nil
	}
	target := desc.FirstFramePath()
	result, err := ffprobe.Inspect(ctx, r.ffprobeBinary, target)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "resolver", "probe", target, err)
	}
	desc.Width, desc.Height = result.Resolution()
	desc.FPS = result.FrameRate()
	desc.probed = true
	r.logger.Debug("probed media",
		"path", target,
		"width", desc.Width,
		"height", desc.Height,
		"fps", desc.FPS)
	return nil
}

// resolveSequence scans the directory of prefix for frames sharing the
// prefix/suffix and derives start, end, and padding from the sorted set.
// wantPadding of 0 accepts any width.
func (r *Resolver) resolveSequence(prefix string, wantPadding int, ext string) (*Descriptor, error) {
	dir := filepath.Dir(prefix)
	base := filepath.Base(prefix)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "resolver", "scan", dir, err)
	}

	type frame struct {
		number  int
		padding int
	}
	var frames []frame
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		framePrefix, digits, ok := splitFrameFile(name)
		if !ok || framePrefix != base || !strings.EqualFold(extensionOf(name), ext) {
			continue
		}
		if wantPadding > 0 && len(digits) != wantPadding {
			continue
		}
		number, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		frames = append(frames, frame{number: number, padding: len(digits)})
	}

	if len(frames) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "resolver", "scan",
			fmt.Sprintf("no frames matching %s*.%s in %s", base, ext, dir), nil)
	}

	sort.Slice(frames, func(i, j int) bool { return frames[i].number < frames[j].number })

	padding := frames[0].padding
	for _, f := range frames {
		if f.padding != padding {
			return nil, services.Wrap(services.ErrAmbiguousSequence, "resolver", "scan",
				fmt.Sprintf("mixed frame padding widths under %s", dir), nil)
		}
	}

	var missing []int
	for i := 1; i < len(frames); i++ {
		if frames[i].number == frames[i-1].number {
			continue
		}
		for n := frames[i-1].number + 1; n < frames[i].number; n++ {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrGap, "resolver", "scan",
			fmt.Sprintf("sequence %s*.%s missing frames %s", base, ext, formatFrameList(missing)), nil)
	}

	return &Descriptor{
		BasePath:   prefix,
		FrameStart: frames[0].number,
		FrameEnd:   frames[len(frames)-1].number,
		Padding:    padding,
		Extension:  strings.ToLower(ext),
		IsSequence: true,
	}, nil
}

// resolveDirectory scans a directory for frame sequences. Exactly one
// distinct sequence must be present; several different prefixes require an
// explicit selector from the caller.
func (r *Resolver) resolveDirectory(dir string) (*Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "resolver", "scan", dir, err)
	}

	type group struct {
		prefix string
		ext    string
	}
	groups := map[group]struct{}{}
	var videos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := extensionOf(name)
		if IsVideoExtension(ext) {
			videos = append(videos, filepath.Join(dir, name))
			continue
		}
		if prefix, _, ok := splitFrameFile(name); ok && IsImageExtension(ext) {
			groups[group{prefix: prefix, ext: strings.ToLower(ext)}] = struct{}{}
		}
	}

	switch {
	case len(groups) == 1:
		for g := range groups {
			return r.resolveSequence(filepath.Join(dir, g.prefix), 0, g.ext)
		}
	case len(groups) > 1:
		names := make([]string, 0, len(groups))
		for g := range groups {
			names = append(names, g.prefix+"*."+g.ext)
		}
		sort.Strings(names)
		return nil, services.Wrap(services.ErrAmbiguousSequence, "resolver", "scan",
			fmt.Sprintf("%s holds %d sequences (%s); pass a frame pattern to pick one", dir, len(names), strings.Join(names, ", ")), nil)
	case len(videos) == 1:
		return &Descriptor{BasePath: videos[0], Extension: extensionOf(videos[0])}, nil
	case len(videos) > 1:
		return nil, services.Wrap(services.ErrAmbiguousSequence, "resolver", "scan",
			fmt.Sprintf("%s holds %d video files; pass one explicitly", dir, len(videos)), nil)
	}
	return nil, services.Wrap(services.ErrNotFound, "resolver", "scan",
		fmt.Sprintf("no media found in %s", dir), nil)
}

// splitPattern detects printf-style or hash-run frame tokens in path and
// returns the prefix up to the token and the implied padding width.
func splitPattern(path string) (prefix string, padding int, ok bool) {
	if loc := printfToken.FindStringSubmatchIndex(path); loc != nil {
		width := 1
		if digits := path[loc[2]:loc[3]]; digits != "" {
			if parsed, err := strconv.Atoi(digits); err == nil && parsed > 0 {
				width = parsed
			}
		}
		return path[:loc[0]], width, true
	}
	if loc := hashToken.FindStringIndex(path); loc != nil {
		return path[:loc[0]], loc[1] - loc[0], true
	}
	return "", 0, false
}

// splitFrameFile splits a filename (or path) ending in digits plus an
// extension into the prefix before the digits and the digit run itself.
func splitFrameFile(name string) (prefix, digits string, ok bool) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	i := len(stem)
	for i > 0 && stem[i-1] >= '0' && stem[i-1] <= '9' {
		i--
	}
	if i == len(stem) {
		return "", "", false
	}
	return stem[:i], stem[i:], true
}

func extensionOf(path string) string {
	return normalizeExt(strings.TrimPrefix(filepath.Ext(path), "."))
}

func formatFrameList(frames []int) string {
	const maxListed = 8
	parts := make([]string, 0, maxListed+1)
	for i, n := range frames {
		if i == maxListed {
			parts = append(parts, fmt.Sprintf("and %d more", len(frames)-maxListed))
			break
		}
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ", ")
}
