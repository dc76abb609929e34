package merge

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	domainerrors "csmerge/internal/core/errors"
	"csmerge/internal/shared/util"

	"github.com/gobwas/glob"
)

type DiscoverOptions struct {
	Root         string
	OutputPath   string
	Extensions   []string
	ExcludeDirs  []string
	ExcludeFiles []string
}

// Discoverer lists candidate source files below a root.
type Discoverer struct {
	root         string
	outputPath   string
	extFilters   map[string]bool
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

func NewDiscoverer(opts DiscoverOptions) (*Discoverer, error) {
	if strings.TrimSpace(opts.Root) == "" {
		return nil, domainerrors.New(domainerrors.CodeValidationError, "source root must not be empty")
	}

	// Directory names match case-insensitively, so Bin/ and OBJ/ are skipped too.
	dirGlobs := make([]glob.Glob, 0, len(opts.ExcludeDirs))
	for _, p := range opts.ExcludeDirs {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidationError, fmt.Sprintf("invalid exclude dir pattern %q", p))
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(opts.ExcludeFiles))
	for _, p := range opts.ExcludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidationError, fmt.Sprintf("invalid exclude file pattern %q", p))
		}
		fileGlobs = append(fileGlobs, g)
	}

	extFilter := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		extFilter[normalized] = true
	}
	if len(extFilter) == 0 {
		extFilter[".cs"] = true
	}

	return &Discoverer{
		root:         opts.Root,
		outputPath:   opts.OutputPath,
		extFilters:   extFilter,
		excludeDirs:  dirGlobs,
		excludeFiles: fileGlobs,
	}, nil
}

func (d *Discoverer) Root() string {
	return d.root
}

// Discover walks the root in lexical order and returns candidate paths.
// A missing root surfaces as the walk's filesystem error.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	var files []string

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if entry.IsDir() {
			if path != d.root && d.ShouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.isRegularFile(path, entry) {
			return nil
		}
		if d.ShouldExcludeFile(path) {
			return nil
		}
		if d.outputPath != "" && util.SamePath(path, d.outputPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeIO, "discover source files"),
			domainerrors.CtxPath, d.root,
		)
	}
	return files, nil
}

// ShouldExcludeDir reports whether a directory's name matches an exclude pattern.
// isRegularFile accepts regular files and symlinks that resolve to one.
// Dangling links and links to directories are skipped.
func (d *Discoverer) isRegularFile(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (d *Discoverer) ShouldExcludeDir(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, g := range d.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ShouldExcludeFile reports whether a file is outside the candidate set by
// extension or name. It does not look at parent directories.
func (d *Discoverer) ShouldExcludeFile(path string) bool {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	if !d.extFilters[ext] {
		return true
	}
	for _, g := range d.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// InExcludedDir reports whether any directory between the root and path is
// excluded. Used for paths that do not come from a walk, such as watcher events.
func (d *Discoverer) InExcludedDir(path string) bool {
	rel, err := filepath.Rel(d.root, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		if d.ShouldExcludeDir(segment) {
			return true
		}
	}
	return false
}

// IsCandidate reports whether path would be part of the candidate set.
func (d *Discoverer) IsCandidate(path string) bool {
	if d.ShouldExcludeFile(path) || d.InExcludedDir(path) {
		return false
	}
	return d.outputPath == "" || !util.SamePath(path, d.outputPath)
}
