// Package output persists generated scripts.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultPath is where scripts are written when no path is configured.
const DefaultPath = "generated_script.py"

// FileMode is the permission used for written scripts.
const FileMode os.FileMode = 0o644

// Writer saves a candidate to a fixed path, replacing any previous file.
type Writer struct {
	fs   afero.Fs
	path string
}

// NewWriter creates a Writer for path on the OS filesystem.
// An empty path falls back to DefaultPath.
func NewWriter(path string) *Writer {
	return NewWriterFs(afero.NewOsFs(), path)
}

// NewWriterFs creates a Writer backed by fs.
func NewWriterFs(fs afero.Fs, path string) *Writer {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Writer{fs: fs, path: path}
}

// Path returns the destination path.
func (w *Writer) Path() string {
	return w.path
}

// Save writes code to the destination and returns the path written.
func (w *Writer) Save(code string) (string, error) {
	if info, err := w.fs.Stat(w.path); err == nil && info.IsDir() {
		return "", fmt.Errorf("output path %s is a directory", w.path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", w.path, err)
	}

	if dir := filepath.Dir(w.path); dir != "." && dir != "" {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := afero.WriteFile(w.fs, w.path, []byte(code), FileMode); err != nil {
		return "", fmt.Errorf("write %s: %w", w.path, err)
	}
	return w.path, nil
}
