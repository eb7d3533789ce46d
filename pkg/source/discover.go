package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/moby/patternmatcher"

	"github.com/matzehuels/topcat/pkg/errors"
)

// Options selects the candidate files for a run.
//
// The zero value of every filter is inactive, so Options{Dirs: dirs} returns
// every visible file under dirs.
type Options struct {
	Dirs              []string // Directories walked recursively
	IncludeHidden     bool     // Descend into and return dot-files and dot-directories
	IncludeExtensions []string // Keep only these extensions (case-insensitive, dot optional)
	ExcludeExtensions []string // Drop these extensions
	IncludeGlobs      []string // Keep only paths matching one of these patterns
	ExcludeGlobs      []string // Drop paths matching one of these patterns

	// WorkDir is the directory glob patterns are relative to.
	// Empty means the process working directory.
	WorkDir string
}

// Discover walks every directory in opts.Dirs and returns the files that pass
// all filters, sorted and without duplicates.
//
// A directory that does not exist contributes nothing. Any other failure
// while walking is returned with [errors.ErrCodeIO].
func Discover(opts Options) ([]string, error) {
	f, err := newFilter(opts)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, dir := range opts.Dirs {
		root := filepath.Clean(dir)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != root && !opts.IncludeHidden && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			keep, err := f.keep(p)
			if err != nil {
				return err
			}
			if keep {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "walk %s", root).WithPath(root)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func isHidden(name string) bool { return strings.HasPrefix(name, ".") }

type filter struct {
	include, exclude map[string]bool
	extFilter        bool
	includeGlobs     *patternmatcher.PatternMatcher
	excludeGlobs     *patternmatcher.PatternMatcher
	workDir          string
}

func newFilter(opts Options) (*filter, error) {
	f := &filter{
		include:   extSet(opts.IncludeExtensions),
		exclude:   extSet(opts.ExcludeExtensions),
		extFilter: len(opts.IncludeExtensions) > 0 || len(opts.ExcludeExtensions) > 0,
		workDir:   opts.WorkDir,
	}

	var err error
	if len(opts.IncludeGlobs) > 0 {
		if f.includeGlobs, err = patternmatcher.New(opts.IncludeGlobs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid include glob")
		}
	}
	if len(opts.ExcludeGlobs) > 0 {
		if f.excludeGlobs, err = patternmatcher.New(opts.ExcludeGlobs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid exclude glob")
		}
	}
	if f.includeGlobs != nil || f.excludeGlobs != nil {
		if f.workDir, err = filepath.Abs(f.workDir); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "resolve working directory")
		}
	}
	return f, nil
}

func extSet(exts []string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[normalizeExt(e)] = true
	}
	return m
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func (f *filter) keep(path string) (bool, error) {
	if f.extFilter {
		ext := normalizeExt(filepath.Ext(path))
		if ext == "" {
			return false, nil
		}
		if len(f.include) > 0 && !f.include[ext] {
			return false, nil
		}
		if f.exclude[ext] {
			return false, nil
		}
	}

	if f.includeGlobs == nil && f.excludeGlobs == nil {
		return true, nil
	}
	rel := f.relative(path)
	if f.includeGlobs != nil {
		ok, err := f.includeGlobs.MatchesOrParentMatches(rel)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	if f.excludeGlobs != nil {
		ok, err := f.excludeGlobs.MatchesOrParentMatches(rel)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

// relative returns path relative to the glob working directory in slash form,
// or the cleaned absolute path when it lies outside of it.
func (f *filter) relative(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(f.workDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
