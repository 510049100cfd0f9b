package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vk/gazeset/internal/ctxlog"
	"github.com/vk/gazeset/internal/pattern"
	"github.com/vk/gazeset/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Record is one matched file: its path relative to the scan root, the
// file category whose pattern matched, and the extracted field values.
type Record struct {
	Path     string
	Category string
	Fields   map[string]cty.Value
}

// Summary counts the outcome of a scan.
type Summary struct {
	Matched int
	Skipped int
}

// Scanner matches directory trees against a dataset's filename patterns.
type Scanner struct {
	// Workers is the number of concurrent matching workers. Values below 1
	// fall back to a single worker.
	Workers int

	// Strict aborts the scan on the first file that matches no pattern.
	// The default is to skip and count such files; the caller decides
	// which behavior fits.
	Strict bool
}

// Scan walks root and matches every regular file against the dataset's
// patterns. Records are returned sorted by path. A CastError always
// aborts the scan; a non-matching file aborts only in strict mode.
func (s *Scanner) Scan(ctx context.Context, ds *registry.Dataset, root string) ([]Record, Summary, error) {
	logger := ctxlog.FromContext(ctx)

	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	logger.Debug("Scan discovered files.", "root", root, "count", len(paths))

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var records []Record
	var skipped int
	var firstErr error

	for workerID := 0; workerID < workers; workerID++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, ds, jobs, cancel, workerID, &mu, &records, &skipped, &firstErr)
		}(workerID)
	}

feed:
	for _, p := range paths {
		select {
		case jobs <- p:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, Summary{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, Summary{Matched: len(records), Skipped: skipped}, nil
}

// worker is the core matching loop for a single concurrent worker.
func (s *Scanner) worker(
	ctx context.Context,
	ds *registry.Dataset,
	jobs chan string,
	cancel context.CancelFunc,
	workerID int,
	mu *sync.Mutex,
	records *[]Record,
	skipped *int,
	firstErr *error,
) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Scan worker started.")

	for path := range jobs {
		if ctx.Err() != nil {
			continue
		}

		category, fields, err := ds.MatchAny(path)
		switch {
		case err == nil:
			mu.Lock()
			*records = append(*records, Record{Path: path, Category: category, Fields: fields})
			mu.Unlock()

		case errors.Is(err, pattern.ErrNoMatch) && !s.Strict:
			logger.Debug("File matches no pattern, skipping.", "path", path)
			mu.Lock()
			*skipped++
			mu.Unlock()

		default:
			logger.Debug("Scan worker failing the run.", "path", path, "error", err)
			mu.Lock()
			if *firstErr == nil {
				*firstErr = fmt.Errorf("scan of %q: %w", path, err)
			}
			mu.Unlock()
			cancel()
		}
	}
	logger.Debug("Scan worker finished.")
}
