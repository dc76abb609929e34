package merge

import (
	"os"
	"time"

	domainerrors "csmerge/internal/core/errors"
)

// LatestModTime stats every path and returns the newest modification time.
// An empty path list is a NOT_FOUND error rather than a zero time.
func LatestModTime(paths []string) (time.Time, []SourceFile, error) {
	if len(paths) == 0 {
		return time.Time{}, nil, domainerrors.New(domainerrors.CodeNotFound, "no source files found")
	}

	files := make([]SourceFile, 0, len(paths))
	var latest time.Time
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return time.Time{}, nil, domainerrors.AddContext(
				domainerrors.Wrap(err, domainerrors.CodeIO, "stat source file"),
				domainerrors.CtxPath, path,
			)
		}
		mod := info.ModTime()
		if mod.After(latest) {
			latest = mod
		}
		files = append(files, SourceFile{Path: path, ModTime: mod})
	}
	return latest, files, nil
}

// Unchanged reports whether latest matches the previously merged timestamp.
func Unchanged(latest, previous time.Time) bool {
	return !previous.IsZero() && latest.Equal(previous)
}
