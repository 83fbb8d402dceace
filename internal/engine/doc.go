// Package engine implements the four render engine adapters behind the
// render.Adapter interface: the ffmpeg CLI transcoder, the headless nuke
// compositor with a generated script, the nuke template runner driven by
// token substitution, and the rvio playback exporter. Each adapter builds
// one external invocation from the job, confines its scratch files to the
// job workspace, and reports non-zero exits with the tool's captured output.
package engine
