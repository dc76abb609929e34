package merge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	domainerrors "csmerge/internal/core/errors"
)

func asDomainError(err error, target **domainerrors.DomainError) bool {
	return errors.As(err, target)
}

// writeSource creates path below root with content and pins its mtime.
func writeSource(t *testing.T, root, rel, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
	return path
}
