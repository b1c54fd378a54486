package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/taskboard/internal/taskgraph"
)

// maxConcurrentChecks bounds the files read at once by CheckFiles.
const maxConcurrentChecks = 4

// Encode writes the set back to the ingest shape, dropping lock state and dependents.
func Encode(s *taskgraph.Set) ([]byte, error) {
	records := s.Records()
	wire := make([]wireTask, len(records))
	for i, rec := range records {
		deps := rec.DependencyIDs
		if deps == nil {
			deps = []int{}
		}
		wire[i] = wireTask{
			ID:            rec.ID,
			Task:          rec.Text,
			Group:         rec.Group,
			DependencyIDs: deps,
			CompletedAt:   rec.CompletedAt,
		}
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadFile loads a task set from a JSON file.
func ReadFile(path string) (*taskgraph.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

// WriteFile saves the set as JSON. Creates parent directories if they don't exist.
func WriteFile(path string, s *taskgraph.Set) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing tasks to %s: %w", path, err)
	}
	return nil
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path  string
	Tasks int   // Number of tasks when Err is nil
	Err   error // Decode, validation or build failure
}

// CheckFiles loads every file concurrently and reports per-file results in input order.
// A bad file does not stop the others; only context cancellation returns an error.
func CheckFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChecks)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = FileResult{Path: path}
			s, err := ReadFile(path)
			if err != nil {
				results[i].Err = err
				return nil // Keep checking the remaining files
			}
			results[i].Tasks = s.Len()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
