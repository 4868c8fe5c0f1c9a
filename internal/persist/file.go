package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tgienger/planboard/internal/codec"
	"github.com/tgienger/planboard/internal/models"
)

// FileExt of exported project files
const FileExt = ".json"

// ErrInvalidFilename is returned for save-as names with nothing usable in them
var ErrInvalidFilename = errors.New("invalid file name")

// DefaultExportFilename returns project-YYYY-MM-DD-HH-mm-ss.json for now
func DefaultExportFilename(now time.Time) string {
	return "project-" + now.Format("2006-01-02-15-04-05") + FileExt
}

// SaveAsFilename turns a user supplied project name into a file name.
// Path separators and characters that are invalid in file names are
// replaced with '-'.
func SaveAsFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, FileExt)

	clean := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '-'
		}
		return r
	}, name)
	clean = strings.Trim(clean, " .")

	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return clean + FileExt, nil
}

// ExportToFile writes the snapshot as indented JSON. It never touches the
// durable store.
func ExportToFile(s models.Snapshot, path string) error {
	data, err := codec.EncodeIndent(s)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		// G301: Use 0700 for directories
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	// G306: Use 0600 for files
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// ImportFile reads and decodes an exported project file
func ImportFile(path string) (models.Snapshot, error) {
	// #nosec G304 -- the user picked this file
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read project file: %w", err)
	}
	s, err := ImportBytes(data)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// ImportBytes decodes exported project text
func ImportBytes(data []byte) (models.Snapshot, error) {
	return codec.Decode(data)
}
