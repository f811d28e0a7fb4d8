package imagestore

import (
	"os/exec"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// SizeUnavailable is recorded when no container runtime can report the
// image, so downstream consumers see an explicit sentinel instead of a gap.
const SizeUnavailable = "N/A"

// Info describes one image as reported by the local image store.
type Info struct {
	Size      string
	SizeBytes int64
}

type runCmdFunc func(name string, args ...string) ([]byte, error)

// Store queries local container runtimes for image sizes. The docker CLI
// is asked first, with podman as the fallback for rootless setups.
type Store struct {
	runCmd runCmdFunc
}

// New creates a store that shells out to the real container CLIs.
func New() *Store {
	return NewWithRunner(func(name string, args ...string) ([]byte, error) {
		return exec.Command(name, args...).Output()
	})
}

// NewWithRunner creates a store with a custom command runner.
func NewWithRunner(runCmd runCmdFunc) *Store {
	return &Store{runCmd: runCmd}
}

// Inspect returns the size of imageRef. A missing runtime, a missing image
// or an unreadable size all yield the sentinel values, never an error.
func (s *Store) Inspect(imageRef string) Info {
	for _, runtime := range []string{"docker", "podman"} {
		out, err := s.runCmd(runtime, "image", "inspect", "--format", "{{.Size}}", imageRef)
		if err != nil {
			continue
		}
		sizeBytes, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
		if err != nil || sizeBytes < 0 {
			continue
		}
		return Info{
			Size:      humanize.Bytes(uint64(sizeBytes)),
			SizeBytes: sizeBytes,
		}
	}
	return Info{Size: SizeUnavailable, SizeBytes: 0}
}
