package engine

import (
	"fmt"
	"sort"

	"dailies/internal/render"
	"dailies/internal/services"
)

// supportedExtensions lists the output container/image formats each engine
// can write. Settings resolution normalizes extensions to lowercase without
// a leading dot before they reach this table.
var supportedExtensions = map[render.Engine]map[string]bool{
	render.EngineCliTranscoder: set("dpx", "exr", "gif", "hdr", "jpg", "jpeg", "mov", "mp4",
		"mxf", "png", "sgi", "targa", "tiff", "xpm", "yuv"),
	render.EngineCompositor: set("cin", "dpx", "exr", "gif", "hdr", "jpeg", "mov", "mxf",
		"pic", "png", "sgi", "targa", "tiff", "xpm", "yuv"),
	render.EngineCompositorTemplate: nil, // the template's Write node decides
	render.EnginePlayback:           set("cin", "dpx", "exr", "tiff", "mov", "jpeg2000", "png", "targa"),
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// checkExtension rejects output extensions the engine cannot write.
func checkExtension(engine render.Engine, extension string) error {
	supported := supportedExtensions[engine]
	if supported == nil {
		return nil
	}
	if supported[extension] {
		return nil
	}
	names := make([]string, 0, len(supported))
	for name := range supported {
		names = append(names, name)
	}
	sort.Strings(names)
	return services.Wrap(services.ErrIncompatibleSettings, string(engine), "check format",
		fmt.Sprintf("extension %q not supported, expected one of %v", extension, names), nil)
}

// ffmpegFormat maps an image-sequence output extension to the encoder and
// pixel format ffmpeg needs for it. Video containers are not listed; they
// take the codec from the resolved settings instead.
var ffmpegFormat = map[string]struct{ codec, pixFmt string }{
	"dpx":   {"dpx", "rawvideo"},
	"exr":   {"exr", "rawvideo"},
	"gif":   {"gif", "gif"},
	"hdr":   {"hdr", "rawvideo"},
	"jpg":   {"mjpeg", "mjpeg"},
	"jpeg":  {"mjpeg", "mjpeg"},
	"png":   {"png", "png"},
	"sgi":   {"sgi", "rawvideo"},
	"targa": {"tga", "rawvideo"},
	"tiff":  {"tiff", "tiff"},
	"xpm":   {"xpm", "rawvideo"},
	"yuv":   {"yuv", "rawvideo"},
}

// rvioCodec maps an output extension to the codec name rvio expects.
var rvioCodec = map[string]string{
	"cin":      "cin",
	"dpx":      "dpx",
	"exr":      "exr",
	"tiff":     "tiff",
	"mov":      "mov",
	"jpeg2000": "jpeg2000",
	"png":      "png",
	"targa":    "tga",
}
