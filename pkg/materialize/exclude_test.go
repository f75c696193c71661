// TEST TYPE: Unit
// DEPENDENCIES: Temp filesystem (directory-name patterns)
// PURPOSE: Verify exclusion pattern matching: whole-path globs, trailing
// slash subtree patterns, and bare names that refer to real directories

package materialize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jassielof/typm/pkg/materialize"
)

func TestMatcherGlobs(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		relPath  string
		excluded bool
	}{
		{"star matches basename", "*.tmp", "a.tmp", true},
		{"star crosses separators", "*.tmp", "dir/deep/b.tmp", true},
		{"suffix must match", "*.tmp", "a.tmp/inner.txt", false},
		{"case sensitive", "*.TMP", "a.tmp", false},
		{"exact name", "notes.md", "notes.md", true},
		{"exact name elsewhere", "notes.md", "docs/notes.md", false},
		{"question mark", "a?c", "abc", true},
		{"question mark crosses separator", "a?c", "a/c", true},
		{"question mark one char only", "a?c", "abbc", false},
		{"character class", "[ab].typ", "a.typ", true},
		{"character class miss", "[ab].typ", "c.typ", false},
		{"negated class", "[!ab].typ", "c.typ", true},
		{"negated class miss", "[!ab].typ", "a.typ", false},
		{"unterminated bracket is literal", "file[", "file[", true},
		{"unterminated bracket no match", "file[", "filex", false},
		{"empty pattern", "", "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := materialize.NewMatcher(t.TempDir(), []string{tt.pattern})
			require.NoError(t, err)
			assert.Equal(t, tt.excluded, m.Excluded(tt.relPath))
		})
	}
}

func TestMatcherDirectoryPatterns(t *testing.T) {
	source := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(source, "build"), 0o755))

	t.Run("trailing slash excludes subtree", func(t *testing.T) {
		m, err := materialize.NewMatcher(source, []string{"docs/"})
		require.NoError(t, err)

		assert.True(t, m.Excluded("docs"))
		assert.True(t, m.Excluded("docs/readme.md"))
		assert.True(t, m.Excluded("docs/deep/nested.md"))
		assert.False(t, m.Excluded("docs.md"))
	})

	t.Run("bare name of existing directory excludes subtree", func(t *testing.T) {
		m, err := materialize.NewMatcher(source, []string{"build"})
		require.NoError(t, err)

		assert.True(t, m.Excluded("build"))
		assert.True(t, m.Excluded("build/out.pdf"))
		assert.False(t, m.Excluded("buildings/out.pdf"))
	})

	t.Run("bare name without directory only matches exactly", func(t *testing.T) {
		m, err := materialize.NewMatcher(source, []string{"dist"})
		require.NoError(t, err)

		assert.True(t, m.Excluded("dist"))
		assert.False(t, m.Excluded("dist/bundle.js"))
	})

	t.Run("metacharacters disable the directory rule", func(t *testing.T) {
		m, err := materialize.NewMatcher(source, []string{"b*ld"})
		require.NoError(t, err)

		assert.True(t, m.Excluded("build"))
		assert.False(t, m.Excluded("build/out.pdf"))
	})

	t.Run("directory created after construction is honored", func(t *testing.T) {
		late := t.TempDir()
		m, err := materialize.NewMatcher(late, []string{"target"})
		require.NoError(t, err)

		assert.False(t, m.Excluded("target/out.pdf"))
		require.NoError(t, os.MkdirAll(filepath.Join(late, "target"), 0o755))
		assert.True(t, m.Excluded("target/out.pdf"))
	})
}

func TestNewMatcherRejectsBadClass(t *testing.T) {
	_, err := materialize.NewMatcher(t.TempDir(), []string{"[z-a]"})
	assert.Error(t, err)
}
