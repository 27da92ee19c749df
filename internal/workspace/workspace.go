package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsplice/internal/logfields"
)

const stagingPrefix = "docsplice-"

// Manager handles the lifecycle of a staging directory.
type Manager struct {
	baseDir string
	dir     string
	fixed   bool
}

// NewManager creates a manager for a uniquely named staging directory below baseDir.
// An empty baseDir means the system temp directory.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewFixedManager creates a manager that stages into dir itself.
func NewFixedManager(dir string) *Manager {
	return &Manager{baseDir: filepath.Dir(dir), dir: dir, fixed: true}
}

// Create prepares an empty staging directory. Existing content is deleted first;
// a run never merges with stale output.
func (m *Manager) Create() error {
	if !m.fixed {
		m.dir = filepath.Join(m.baseDir, stagingPrefix+uuid.NewString())
	}

	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to clear staging directory: %w", err)
	}
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	slog.Debug("Created staging directory", logfields.Path(m.dir))
	return nil
}

// GetPath returns the staging directory path, or "" before Create.
func (m *Manager) GetPath() string {
	return m.dir
}

// IsFixed reports whether the manager stages into a configured directory.
func (m *Manager) IsFixed() bool {
	return m.fixed
}

// Cleanup removes the staging directory. A fixed directory is emptied instead.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}

	if m.fixed {
		if err := EmptyDir(m.dir); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to empty staging directory: %w", err)
		}
		slog.Debug("Emptied staging directory", logfields.Path(m.dir))
		return nil
	}

	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to remove staging directory: %w", err)
	}
	slog.Debug("Removed staging directory", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
