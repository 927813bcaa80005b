package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Staging is the local output directory artifacts are written to before
// they are published. Files survive the run for inspection and for the
// batch-level social stage, which re-reads the selected item's texts.
type Staging struct {
	root string
}

// NewStaging creates a staging area rooted at dir.
func NewStaging(dir string) *Staging {
	return &Staging{root: dir}
}

// Root returns the staging root directory.
func (s *Staging) Root() string {
	return s.root
}

// Path resolves a relative artifact path inside the staging area.
func (s *Staging) Path(parts ...string) string {
	return filepath.Join(append([]string{s.root}, parts...)...)
}

// WriteText writes a UTF-8 text artifact, creating parent directories.
func (s *Staging) WriteText(relPath, content string) error {
	return s.WriteBytes(relPath, []byte(content))
}

// WriteBytes writes a binary artifact, creating parent directories.
func (s *Staging) WriteBytes(relPath string, content []byte) error {
	path := s.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	if err := os.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", relPath, err)
	}
	return nil
}

// ReadText reads a previously staged text artifact.
func (s *Staging) ReadText(relPath string) (string, error) {
	b, err := os.ReadFile(s.Path(relPath))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", relPath, err)
	}
	return string(b), nil
}

// Exists reports whether a staged artifact is already present.
func (s *Staging) Exists(relPath string) bool {
	_, err := os.Stat(s.Path(relPath))
	return err == nil
}
