// Package deps reports the availability of the external engine binaries
// dailies drives. Engines are located via PATH lookup; a missing optional
// engine only disables the corresponding adapter.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"dailies/internal/config"
)

// Requirement defines an external dependency dailies relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the dependency list for the configured engines.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.Engines.FFmpeg.Binary, Description: "CLI transcoder engine and slate rendering"},
		{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "media resolution and frame-rate probing"},
		{Name: "Nuke", Command: cfg.Engines.Nuke.Binary, Description: "compositing-script and templated-script engines", Optional: true},
		{Name: "RVIO", Command: cfg.Engines.RVIO.Binary, Description: "playback/review engine", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
