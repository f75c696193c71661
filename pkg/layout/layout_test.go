// TEST TYPE: Unit
// DEPENDENCIES: None (pure functions)
// PURPOSE: Verify namespace derivation and package directory layout

package layout_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jassielof/typm/pkg/layout"
)

func TestProviderAbbreviation(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"github.com", "gh"},
		{"gitlab.com", "gl"},
		{"bitbucket.org", "bb"},
		{"codeberg.org", "codeberg"},
		{"git.sr.ht", "git"},
		{"localhost", "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, layout.ProviderAbbreviation(tt.host))
		})
	}
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "gh-typst", layout.Namespace("github.com", "typst"))
	assert.Equal(t, "gl-acme", layout.Namespace("gitlab.com", "acme"))
	assert.Equal(t, "codeberg-acme", layout.Namespace("codeberg.org", "acme"))
}

func TestDirectories(t *testing.T) {
	assert.Equal(t,
		filepath.Join("root", "gh-typst", "widgets", "1.0.0"),
		layout.PackageDir("root", "gh-typst", "widgets", "1.0.0"))
	assert.Equal(t,
		filepath.Join("out", "widgets", "1.0.0"),
		layout.BuildDir("out", "widgets", "1.0.0"))
}

func TestImportForms(t *testing.T) {
	assert.Equal(t, "preview/widgets", layout.ImportBase("preview", "widgets"))
	assert.Equal(t, "@preview/widgets:1.2.0", layout.ImportSpec("preview", "widgets", "1.2.0"))
}
