package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/skskillls/thesis-benchmark/internal/results"
	"golang.org/x/sync/errgroup"
)

// Security scanners drop their own JSON reports into the results directory;
// any file whose path below that directory mentions them is not a build
// measurement.
var foreignNameParts = []string{"trivy", "sbom", "security"}

// LoadDir reads every result record under dir. Unreadable or malformed files
// are logged and skipped so that one bad record cannot block an aggregation
// over hundreds of runs.
func LoadDir(ctx context.Context, dir string) ([]*results.Record, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		if isForeignResult(rel) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk results dir: %w", err)
	}

	loaded := xsync.NewMapOf[string, *results.Record]()
	errs, ctx := errgroup.WithContext(ctx)
	errs.SetLimit(8)
	for _, path := range paths {
		errs.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				slog.Warn("skipping unreadable result file", "path", path, "error", err)
				return nil
			}
			var rec results.Record
			if err := json.Unmarshal(data, &rec); err != nil {
				slog.Warn("skipping malformed result file", "path", path, "error", err)
				return nil
			}
			loaded.Store(path, &rec)
			return nil
		})
	}
	if err := errs.Wait(); err != nil {
		return nil, err
	}

	recs := make([]*results.Record, 0, loaded.Size())
	loaded.Range(func(_ string, rec *results.Record) bool {
		recs = append(recs, rec)
		return true
	})
	sortRecords(recs)
	return recs, nil
}

func isForeignResult(relPath string) bool {
	lower := strings.ToLower(relPath)
	for _, part := range foreignNameParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

func sortRecords(recs []*results.Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.CiSystem != b.CiSystem {
			return a.CiSystem < b.CiSystem
		}
		if a.Tool != b.Tool {
			return a.Tool < b.Tool
		}
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		if a.DockerfileType != b.DockerfileType {
			return a.DockerfileType < b.DockerfileType
		}
		if a.CacheScenario != b.CacheScenario {
			return a.CacheScenario < b.CacheScenario
		}
		return a.RunNumber < b.RunNumber
	})
}
