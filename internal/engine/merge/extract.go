package merge

import (
	"os"
	"strings"

	domainerrors "csmerge/internal/core/errors"
	"csmerge/internal/shared/util"
)

const (
	namespaceKeyword = "namespace"
	importKeyword    = "using"
)

// ExtractFile reads path and unwraps its namespace.
func ExtractFile(path string) (Extracted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Extracted{}, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeIO, "read source file"),
			domainerrors.CtxPath, path,
		)
	}

	text, err := util.DecodeSource(data)
	if err != nil {
		return Extracted{}, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeParse, "decode source file"),
			domainerrors.CtxPath, path,
		)
	}

	lines := util.SplitLines(text)
	name, err := NamespaceOf(lines)
	if err != nil {
		return Extracted{}, domainerrors.AddContext(err, domainerrors.CtxPath, path)
	}

	return Extracted{
		Path:      path,
		Namespace: name,
		Lines:     MemberLines(lines),
	}, nil
}

// NamespaceOf returns the second field of the first line that starts with
// "namespace". A trailing ';' or '{' glued to the name is dropped.
func NamespaceOf(lines []string) (string, error) {
	for _, line := range lines {
		if !strings.HasPrefix(line, namespaceKeyword) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return "", domainerrors.New(domainerrors.CodeParse, "namespace declaration has no name")
		}
		name := strings.TrimRight(fields[1], ";{")
		if name == "" {
			return "", domainerrors.New(domainerrors.CodeParse, "namespace declaration has no name")
		}
		return name, nil
	}
	return "", domainerrors.New(domainerrors.CodeParse, "missing namespace declaration")
}

// MemberLines drops namespace lines and lines that open or close a brace at
// column zero. This is a prefix heuristic, not a parser.
func MemberLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, namespaceKeyword) ||
			strings.HasPrefix(line, "{") ||
			strings.HasPrefix(line, "}") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// IsImport reports whether line is a using declaration (ordinal prefix test).
func IsImport(line string) bool {
	return strings.HasPrefix(line, importKeyword)
}
