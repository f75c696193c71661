package materialize

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"
)

// SanitizeManifest drops schema directive lines from manifest content.
// Editors add "#:schema ..." comments that the compiler's registry layout
// does not expect. Line endings are normalized to \n and a trailing
// newline is not preserved.
func SanitizeManifest(content string) string {
	var kept []string
	for _, line := range splitLines(content) {
		if strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "#:schema") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// Rewriter replaces relative imports of a package's entrypoint with the
// package-manager import form, so materialized files resolve against the
// installed package instead of the source tree.
type Rewriter struct {
	re          *regexp.Regexp
	replacement string
}

// NewImportRewriter builds a Rewriter for one package. Only imports that
// climb out of the current directory to reach the entrypoint's file name
// are rewritten; an optional ":items" selector after the path is
// preserved.
func NewImportRewriter(namespace, name, version, entrypoint string) *Rewriter {
	entrypointName := path.Base(entrypoint)
	return &Rewriter{
		re: regexp.MustCompile(
			`#import\s+"(?:\.\./)+` + regexp.QuoteMeta(entrypointName) + `((?::\s*[^"]*)?)"`),
		replacement: fmt.Sprintf(`#import "@%s/%s:%s${1}"`, namespace, name, version),
	}
}

// Rewrite transforms every matching import in content.
func (r *Rewriter) Rewrite(content string) string {
	return r.re.ReplaceAllString(content, r.replacement)
}
