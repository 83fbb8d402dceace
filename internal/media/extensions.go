package media

import "strings"

// videoExtensions are container formats treated as single-file media.
var videoExtensions = map[string]struct{}{
	"avi": {},
	"m4v": {},
	"mkv": {},
	"mov": {},
	"mp4": {},
	"mxf": {},
}

// imageExtensions are still formats that may form numbered frame sequences.
var imageExtensions = map[string]struct{}{
	"cin":  {},
	"dpx":  {},
	"exr":  {},
	"hdr":  {},
	"jpeg": {},
	"jpg":  {},
	"png":  {},
	"sgi":  {},
	"tga":  {},
	"tif":  {},
	"tiff": {},
}

// IsVideoExtension reports whether ext (with or without a leading dot) names
// a video container format.
func IsVideoExtension(ext string) bool {
	_, ok := videoExtensions[normalizeExt(ext)]
	return ok
}

// IsImageExtension reports whether ext names a still-image format.
func IsImageExtension(ext string) bool {
	_, ok := imageExtensions[normalizeExt(ext)]
	return ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
