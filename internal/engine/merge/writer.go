package merge

import (
	"fmt"
	"strings"
	"time"

	domainerrors "csmerge/internal/core/errors"
	"csmerge/internal/shared/util"
)

const outputPerm = 0o644

// FormatLastEdited renders t as DD/MM/YYYY H:mm in local time.
func FormatLastEdited(t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%02d/%02d/%04d %d:%02d", t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute())
}

// FormatUpdated renders t as MM/DD/YYYY H:mm in local time.
func FormatUpdated(t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%02d/%02d/%04d %d:%02d", int(t.Month()), t.Day(), t.Year(), t.Hour(), t.Minute())
}

// Render builds the merged file: imports, the LastEdited comment, then one
// block per namespace.
func Render(m Merged, lastEdited time.Time) string {
	var b strings.Builder

	b.WriteString(strings.Join(m.Imports, "\n"))
	b.WriteString("\n\n\n")
	b.WriteString("// LastEdited: ")
	b.WriteString(FormatLastEdited(lastEdited))
	b.WriteString("\n\n\n")

	for i, ns := range m.Namespaces {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(namespaceKeyword + " " + ns.Name + "\n{\n")
		for _, line := range ns.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("}")
	}
	return b.String()
}

// WriteOutput replaces path wholesale. There is no temp-file rename, so a
// crash mid-write can leave a truncated file.
func WriteOutput(path, content string) error {
	if err := util.WriteStringWithDirs(path, content, outputPerm); err != nil {
		return domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeIO, "write merged output"),
			domainerrors.CtxPath, path,
		)
	}
	return nil
}
