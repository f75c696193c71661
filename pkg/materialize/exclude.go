package materialize

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jassielof/typm/pkg/errors"
)

// rule is one compiled exclusion pattern. The glob matches the whole
// slash-separated relative path, with * crossing directory separators.
type rule struct {
	pattern string
	re      *regexp.Regexp
	hasMeta bool
	dirForm string
	slash   bool
}

// Matcher decides whether a relative path is excluded from
// materialization. Besides the glob match, a pattern excludes a whole
// subtree when it ends with a slash or when it is a plain name that
// refers to an existing directory under the source root.
type Matcher struct {
	sourceDir string
	rules     []rule
}

// NewMatcher compiles the exclusion patterns for files under sourceDir.
func NewMatcher(sourceDir string, patterns []string) (*Matcher, error) {
	m := &Matcher{sourceDir: sourceDir}
	for _, pattern := range patterns {
		re, err := regexp.Compile(translateGlob(pattern))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput,
				"invalid exclusion pattern %q", pattern)
		}
		m.rules = append(m.rules, rule{
			pattern: pattern,
			re:      re,
			hasMeta: strings.ContainsAny(pattern, "*?[]"),
			dirForm: strings.TrimRight(pattern, "/"),
			slash:   strings.HasSuffix(pattern, "/"),
		})
	}
	return m, nil
}

// Excluded reports whether relPath (slash-separated, relative to the
// source root) matches any exclusion pattern.
func (m *Matcher) Excluded(relPath string) bool {
	for _, r := range m.rules {
		if m.matches(r, relPath) {
			return true
		}
	}
	return false
}

func (m *Matcher) matches(r rule, relPath string) bool {
	if r.re.MatchString(relPath) {
		return true
	}
	if r.slash || (!r.hasMeta && m.isDir(r.pattern)) {
		return relPath == r.dirForm || strings.HasPrefix(relPath, r.dirForm+"/")
	}
	return false
}

// isDir reports whether pattern names a directory under the source root.
func (m *Matcher) isDir(pattern string) bool {
	info, err := os.Stat(filepath.Join(m.sourceDir, pattern))
	return err == nil && info.IsDir()
}

// translateGlob converts a shell-style glob into an anchored regular
// expression. Unlike path.Match, * and ? also match the path separator,
// and an unterminated [ is treated as a literal bracket.
func translateGlob(pattern string) string {
	var b strings.Builder
	b.WriteString(`\A(?s:`)
	for i := 0; i < len(pattern); {
		c := pattern[i]
		i++
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i
			if j < len(pattern) && pattern[j] == '!' {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				b.WriteString(`\[`)
			} else {
				stuff := strings.ReplaceAll(pattern[i:j], `\`, `\\`)
				i = j + 1
				if strings.HasPrefix(stuff, "!") {
					stuff = "^" + stuff[1:]
				} else if strings.HasPrefix(stuff, "^") {
					stuff = `\` + stuff
				}
				b.WriteString("[" + stuff + "]")
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`)\z`)
	return b.String()
}
