package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"dailies/internal/logging"
	"dailies/internal/services"
)

// Workspace is the uniquely named scratch directory owned by one Job. It
// holds the rendered slate frame, generated scripts, and intermediate files,
// and is removed on every exit path unless retention is requested.
type Workspace struct {
	Dir    string
	retain bool
	logger *slog.Logger
}

// AllocateWorkspace creates a fresh workspace under root. When minFreeMiB is
// positive the filesystem must have at least that much free space.
func AllocateWorkspace(root string, minFreeMiB int, retain bool, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrWorkspace, "workspace", "allocate", root, err)
	}
	if minFreeMiB > 0 {
		free, err := freeSpaceMiB(root)
		if err != nil {
			return nil, services.Wrap(services.ErrWorkspace, "workspace", "allocate", "stat filesystem", err)
		}
		if free < uint64(minFreeMiB) {
			return nil, services.Wrap(services.ErrWorkspace, "workspace", "allocate",
				fmt.Sprintf("%d MiB free under %s, need %d MiB", free, root, minFreeMiB), nil)
		}
	}

	dir := filepath.Join(root, "job-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrWorkspace, "workspace", "allocate", dir, err)
	}
	logger.Debug("allocated workspace", "dir", dir)
	return &Workspace{Dir: dir, retain: retain, logger: logger}, nil
}

// Cleanup removes the workspace. It runs on success, failure, and
// cancellation alike; only explicit retention skips it.
func (w *Workspace) Cleanup() error {
	if w == nil || w.Dir == "" {
		return nil
	}
	if w.retain {
		w.logger.Info("retaining workspace for debugging", "dir", w.Dir)
		return nil
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		w.logger.Warn("workspace cleanup failed", "dir", w.Dir, "error", err)
		return services.Wrap(services.ErrWorkspace, "workspace", "cleanup", w.Dir, err)
	}
	w.logger.Debug("removed workspace", "dir", w.Dir)
	return nil
}

func freeSpaceMiB(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize) / (1 << 20), nil
}
