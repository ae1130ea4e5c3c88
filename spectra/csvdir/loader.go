package csvdir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-chemometrics/spectra"
)

const defaultPattern = "*.csv"

// Loader reads every matching file of a directory. It implements
// spectra.Loader.
type Loader struct {
	pattern string
	workers int
}

var _ spectra.Loader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithPattern sets the file name glob (default "*.csv"). Invalid patterns
// are ignored.
func WithPattern(pattern string) Option {
	return func(l *Loader) {
		if _, err := filepath.Match(pattern, ""); pattern != "" && err == nil {
			l.pattern = pattern
		}
	}
}

// WithConcurrency limits the number of files parsed at once.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n >= 1 {
			l.workers = n
		}
	}
}

// New returns a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		pattern: defaultPattern,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Pattern returns the file name glob in use.
func (l *Loader) Pattern() string { return l.pattern }

// Load parses all files in dir whose name matches the pattern. Spectra are
// returned sorted by file name.
func (l *Loader) Load(ctx context.Context, dir string) (*spectra.LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("csvdir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(l.pattern, e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	type outcome struct {
		spectrum *spectra.Spectrum
		err      error
	}
	outcomes := make([]outcome, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := parseFile(filepath.Join(dir, name), name)
			outcomes[i] = outcome{spectrum: s, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &spectra.LoadResult{}
	for i, o := range outcomes {
		if o.err != nil {
			res.Skipped = append(res.Skipped, spectra.Skipped{Name: names[i], Reason: o.err.Error()})
			continue
		}
		res.Spectra = append(res.Spectra, o.spectrum)
	}

	return res, nil
}

func parseFile(path, name string) (*spectra.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(name, f)
}
