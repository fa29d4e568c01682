package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/label-vectorizer/internal/imaging"
	"github.com/ironsheep/label-vectorizer/internal/log"
	"github.com/ironsheep/label-vectorizer/internal/vectorize"
)

const logTag = "batch: "

// DefaultExtensions are the label file extensions read when none are given.
var DefaultExtensions = []string{".png"}

// Options configures a Runner.
type Options struct {
	// Extensions filters the directory listing (case-insensitive, leading
	// dot optional). Empty means DefaultExtensions.
	Extensions []string

	// Workers bounds how many images are processed at once. Zero or less
	// means runtime.NumCPU().
	Workers int
}

// Summary describes a finished run.
type Summary struct {
	Images   int           `json:"images"`   // Label files found
	Records  int           `json:"records"`  // Images that produced features
	Empty    int           `json:"empty"`    // Images with nothing to extract
	Skipped  int           `json:"skipped"`  // Files that could not be decoded
	Failed   int           `json:"failed"`   // Images rejected by the category table
	Duration time.Duration `json:"duration"` // Wall-clock time of the run
}

// Runner vectorises label directories with a shared Extractor.
type Runner struct {
	ex    *vectorize.Extractor
	cache *imaging.LabelCache
	exts  []string
	n     int
}

// NewRunner creates a Runner. A nil cache gets a private one.
func NewRunner(ex *vectorize.Extractor, cache *imaging.LabelCache, opts Options) *Runner {
	if cache == nil {
		cache = imaging.NewLabelCache()
	}
	n := opts.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Runner{
		ex:    ex,
		cache: cache,
		exts:  normalizeExtensions(opts.Extensions),
		n:     n,
	}
}

// Workers returns the effective worker count.
func (r *Runner) Workers() int {
	return r.n
}

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// ListLabelFiles returns the regular files in dir whose extension is one of
// exts, sorted by name. Subdirectories are not descended into.
func ListLabelFiles(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read label directory: %w", err)
	}
	exts = normalizeExtensions(exts)

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	// os.ReadDir already sorts by file name
	return files, nil
}

// ProcessFile decodes one label file through the cache and extracts its
// record. The record's file is the base name of path.
func (r *Runner) ProcessFile(path string) (vectorize.Record, bool, error) {
	labels, err := r.cache.Load(path)
	if err != nil {
		return vectorize.Record{}, false, err
	}
	return r.ex.Extract(filepath.Base(path), labels)
}

type outcome int

const (
	outcomePending outcome = iota // never started
	outcomeEmpty
	outcomeRecord
	outcomeSkipped
	outcomeFailed
)

// Run vectorises every label file in dir.
//
// Parameters:
//   - ctx: Cancelling it stops new images from being started; images
//     already in flight finish.
//   - dir: The label directory.
//
// Returns:
//   - []vectorize.Record: One record per image that produced features, in
//     directory order.
//   - Summary: Per-outcome counts.
//   - error: Non-nil if dir cannot be listed or ctx was cancelled. Per-image
//     problems are logged, counted and never returned.
//
// # Ordering
//
// Workers write into a slot per input index and the slots are compacted
// after all workers finish, so the result does not depend on scheduling.
func (r *Runner) Run(ctx context.Context, dir string) ([]vectorize.Record, Summary, error) {
	start := time.Now()
	files, err := ListLabelFiles(dir, r.exts)
	if err != nil {
		return nil, Summary{}, err
	}
	log.Info(logTag+"starting", zap.String("dir", dir), zap.Int("images", len(files)), zap.Int("workers", r.n))

	slots := make([]vectorize.Record, len(files))
	outcomes := make([]outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.n)
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i], slots[i] = r.processOne(path)
			return nil
		})
	}
	werr := g.Wait()

	sum := Summary{Images: len(files)}
	records := make([]vectorize.Record, 0, len(files))
	for i, o := range outcomes {
		switch o {
		case outcomeRecord:
			records = append(records, slots[i])
			sum.Records++
		case outcomeEmpty:
			sum.Empty++
		case outcomeSkipped:
			sum.Skipped++
		case outcomeFailed:
			sum.Failed++
		}
	}
	sum.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		return records, sum, err
	}
	if werr != nil {
		return records, sum, werr
	}
	log.Info(logTag+"done",
		zap.Int("records", sum.Records), zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed), zap.Duration("duration", sum.Duration))
	return records, sum, nil
}

func (r *Runner) processOne(path string) (outcome, vectorize.Record) {
	// grids are only needed once per batch
	defer r.cache.Evict(path)

	rec, ok, err := r.ProcessFile(path)
	switch {
	case errors.Is(err, vectorize.ErrUnknownClass):
		log.Error(logTag+"image rejected", zap.String("file", path), zap.Error(err))
		return outcomeFailed, vectorize.Record{}
	case err != nil:
		log.Warn(logTag+"image skipped", zap.String("file", path), zap.Error(err))
		return outcomeSkipped, vectorize.Record{}
	case !ok:
		log.Debug(logTag+"no features", zap.String("file", path))
		return outcomeEmpty, vectorize.Record{}
	}
	return outcomeRecord, rec
}
