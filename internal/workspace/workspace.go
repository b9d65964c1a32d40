// Package workspace manages per-job staging directories, disk preflight, and
// output validation for the render pipeline.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"asciisymphony/internal/config"
	"asciisymphony/internal/services"
)

// Subdirectory names inside a job workspace. Each stage writes to its own
// directory so a failed run can be inspected.
const (
	dirFramesRaw       = "frames_raw"
	dirFramesTxt       = "frames_txt"
	dirFramesASCII     = "frames_ascii"
	dirFramesColorized = "frames_colorized"
)

// Workspace is one job's staging area on disk.
type Workspace struct {
	Root            string
	FramesRaw       string
	FramesTxt       string
	FramesASCII     string
	FramesColorized string

	lock *flock.Flock
}

// Create builds the staging directories for a job and takes an exclusive
// lock so concurrent renders never share a workspace.
func Create(cfg *config.Config, jobID string) (*Workspace, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, services.Wrap(services.ErrValidation, "workspace", "create", "job id is empty", nil)
	}

	root := filepath.Join(cfg.Paths.WorkspaceDir, jobID)
	ws := &Workspace{
		Root:            root,
		FramesRaw:       filepath.Join(root, dirFramesRaw),
		FramesTxt:       filepath.Join(root, dirFramesTxt),
		FramesASCII:     filepath.Join(root, dirFramesASCII),
		FramesColorized: filepath.Join(root, dirFramesColorized),
	}
	for _, dir := range []string{ws.FramesRaw, ws.FramesTxt, ws.FramesASCII, ws.FramesColorized} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create workspace dir %s: %w", dir, err)
		}
	}

	ws.lock = flock.New(filepath.Join(root, ".lock"))
	locked, err := ws.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "workspace", "lock",
			fmt.Sprintf("workspace %s is in use by another render", root), nil)
	}
	return ws, nil
}

// Cleanup releases the workspace lock and, unless keep is set, removes the
// staging tree. Keep is useful when debugging a failed render.
func (w *Workspace) Cleanup(keep bool) error {
	if w.lock != nil {
		if err := w.lock.Unlock(); err != nil {
			return fmt.Errorf("release workspace lock: %w", err)
		}
	}
	if keep {
		return nil
	}
	if err := os.RemoveAll(w.Root); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.Root, err)
	}
	return nil
}

// RawFramePattern returns the printf-style path ffmpeg writes raw frames to.
func (w *Workspace) RawFramePattern() string {
	return filepath.Join(w.FramesRaw, "frame_%05d.png")
}

// ColorizedFramePattern returns the printf-style path the encoder reads
// post-processed frames from.
func (w *Workspace) ColorizedFramePattern() string {
	return filepath.Join(w.FramesColorized, "frame_%05d.png")
}

// ListFrames returns the sorted frame files in a staging directory.
func ListFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame dir %s: %w", dir, err)
	}
	var frames []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "frame_") {
			continue
		}
		frames = append(frames, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(frames)
	return frames, nil
}

// CheckFreeSpace fails when the filesystem holding path has less than
// minFreeMiB mebibytes available.
func CheckFreeSpace(path string, minFreeMiB int) error {
	if minFreeMiB <= 0 {
		return nil
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return fmt.Errorf("statfs %s: %w", path, err)
	}
	availableMiB := stat.Bavail * uint64(stat.Bsize) / (1024 * 1024)
	if availableMiB < uint64(minFreeMiB) {
		return services.Wrap(services.ErrValidation, "workspace", "preflight",
			fmt.Sprintf("only %d MiB free under %s, need at least %d MiB", availableMiB, path, minFreeMiB), nil)
	}
	return nil
}

// CheckWritable fails when the process cannot write to path.
func CheckWritable(path string) error {
	if err := unix.Access(path, unix.W_OK); err != nil {
		return services.Wrap(services.ErrValidation, "workspace", "preflight",
			fmt.Sprintf("%s is not writable", path), err)
	}
	return nil
}

// CheckReadable fails when the process cannot read path.
func CheckReadable(path string) error {
	if err := unix.Access(path, unix.R_OK); err != nil {
		return services.Wrap(services.ErrValidation, "workspace", "preflight",
			fmt.Sprintf("%s is not readable", path), err)
	}
	return nil
}

// ValidateOutput fails when the expected output file is missing or empty.
// Subprocesses can exit zero and still produce nothing useful.
func ValidateOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "workspace", "validate output",
			fmt.Sprintf("expected output %s was not produced", path), err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrExternalTool, "workspace", "validate output",
			fmt.Sprintf("output %s is empty", path), nil)
	}
	return nil
}
