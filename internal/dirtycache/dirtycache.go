package dirtycache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bust appends a uniquely tagged comment line to each file so that the next
// build sees changed layer input. Appending keeps the file valid source while
// guaranteeing a content hash change.
func Bust(paths []string) error {
	stamp := time.Now().Unix()
	for _, path := range paths {
		if err := bustFile(path, stamp); err != nil {
			return err
		}
	}
	return nil
}

func bustFile(path string, stamp int64) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s cache-bust %d %s\n", commentLeader(path), stamp, uuid.NewString())
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}

// commentLeader picks a line comment marker the file's language will accept.
func commentLeader(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go", ".js", ".ts", ".java", ".c", ".cpp", ".h", ".rs":
		return "//"
	default:
		return "#"
	}
}
