package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Writer persists result records into a single results directory.
type Writer struct {
	dir string
}

// NewWriter creates the results directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the directory records are written into.
func (w *Writer) Dir() string {
	return w.dir
}

// Write serializes rec to its deterministic path. The record lands under a
// temporary name in the same directory first and is renamed into place, so
// concurrent runs with different identities never observe a partial file
// and a re-run with the same identity replaces the old record in one step.
func (w *Writer) Write(rec *Record) (string, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result record: %w", err)
	}
	data = append(data, '\n')

	finalPath := filepath.Join(w.dir, rec.Identity().FileName())
	if err := w.writeAtomic(".result-*.json", finalPath, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	}); err != nil {
		return "", err
	}
	return finalPath, nil
}

// WriteBuildLog stores the captured build output next to the record as a
// zstd-compressed sidecar, named after the same identity.
func (w *Writer) WriteBuildLog(id Identity, logText []byte) (string, error) {
	finalPath := filepath.Join(w.dir,
		strings.TrimSuffix(id.FileName(), ".json")+".log.zst")

	if err := w.writeAtomic(".log-*.zst", finalPath, func(f *os.File) error {
		enc, err := zstd.NewWriter(f)
		if err != nil {
			return err
		}
		if _, err := enc.Write(logText); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	}); err != nil {
		return "", err
	}
	return finalPath, nil
}

func (w *Writer) writeAtomic(tmpPattern string, finalPath string, fill func(*os.File) error) error {
	tmp, err := os.CreateTemp(w.dir, tmpPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file in results directory: %w", err)
	}
	tmpPath := tmp.Name()

	if err := fill(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(finalPath), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(finalPath), err)
	}
	return nil
}
