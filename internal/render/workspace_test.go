package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dailies/internal/services"
)

func TestAllocateWorkspaceUnique(t *testing.T) {
	root := t.TempDir()
	first, err := AllocateWorkspace(root, 0, false, nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	second, err := AllocateWorkspace(root, 0, false, nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if first.Dir == second.Dir {
		t.Errorf("two workspaces share a directory: %s", first.Dir)
	}
	if !strings.HasPrefix(filepath.Base(first.Dir), "job-") {
		t.Errorf("workspace name %q lacks the job prefix", first.Dir)
	}
}

func TestWorkspaceCleanup(t *testing.T) {
	ws, err := AllocateWorkspace(t.TempDir(), 0, false, nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := os.WriteFile(filepath.Join(ws.Dir, "slate.png"), []byte("frame"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ws.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(ws.Dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("workspace still present after cleanup: %v", err)
	}
}

func TestWorkspaceRetain(t *testing.T) {
	ws, err := AllocateWorkspace(t.TempDir(), 0, true, nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := ws.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(ws.Dir); err != nil {
		t.Errorf("retained workspace was removed: %v", err)
	}
}

func TestAllocateWorkspaceFreeSpaceFloor(t *testing.T) {
	// No filesystem has this much headroom.
	_, err := AllocateWorkspace(t.TempDir(), 1<<40, false, nil)
	if !errors.Is(err, services.ErrWorkspace) {
		t.Fatalf("err = %v, want ErrWorkspace", err)
	}
}

func TestCleanupNil(t *testing.T) {
	var ws *Workspace
	if err := ws.Cleanup(); err != nil {
		t.Errorf("nil cleanup: %v", err)
	}
}
