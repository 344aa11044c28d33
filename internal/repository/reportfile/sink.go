// Package reportfile persists rendered reports to the local filesystem.
package reportfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink writes report text to a file path.
type Sink struct{}

// New creates a file report sink.
func New() *Sink { return &Sink{} }

// Write stores data at path, creating parent directories as needed.
func (s *Sink) Write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
