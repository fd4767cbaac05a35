package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sagld/internal/parser"
	"sagld/internal/source"
)

// CheckResult is the outcome of parse-validating one layout file.
type CheckResult struct {
	Path    string
	File    *source.File // nil when loading failed
	Err     error        // load or parse failure
	Elapsed time.Duration
}

// Check parse-validates a single layout file.
func Check(path string, sink ProgressSink) CheckResult {
	emit(sink, Event{File: path, Stage: StageParse, Status: StatusWorking})
	start := time.Now()

	res := CheckResult{Path: path}
	_, res.File, res.Err = parser.ParseFile(path)
	res.Elapsed = time.Since(start)

	status := StatusDone
	if res.Err != nil {
		status = StatusError
	}
	emit(sink, Event{File: path, Stage: StageParse, Status: status, Err: res.Err, Elapsed: res.Elapsed})
	return res
}

// ListLayoutFiles returns every *.sag file under dir, sorted for a
// deterministic processing order.
func ListLayoutFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sag") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// CheckDir parse-validates every *.sag file under dir on a bounded
// worker pool. Each file is independent; one result per file comes
// back in the sorted file order regardless of completion order.
func CheckDir(ctx context.Context, dir string, jobs int, sink ProgressSink) ([]CheckResult, error) {
	files, err := ListLayoutFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	for _, path := range files {
		emit(sink, Event{File: path, Stage: StageParse, Status: StatusQueued})
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns its slot, so no mutex is needed.
	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = Check(path, sink)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
