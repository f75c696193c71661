// TEST TYPE: Unit
// DEPENDENCIES: None (pure functions)
// PURPOSE: Verify manifest schema-line stripping and entrypoint import
// rewriting

package materialize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jassielof/typm/pkg/materialize"
)

func TestSanitizeManifest(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"drops schema directive",
			"#:schema https://example.com/typst.json\n[package]\nname = \"widgets\"\n",
			"[package]\nname = \"widgets\"",
		},
		{
			"drops indented schema directive",
			"[package]\n  #:schema something\nname = \"widgets\"",
			"[package]\nname = \"widgets\"",
		},
		{
			"keeps ordinary comments",
			"# regular comment\n[package]",
			"# regular comment\n[package]",
		},
		{
			"normalizes crlf",
			"#:schema x\r\n[package]\r\nname = \"widgets\"\r\n",
			"[package]\nname = \"widgets\"",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, materialize.SanitizeManifest(tt.content))
		})
	}
}

func TestRewriter(t *testing.T) {
	r := materialize.NewImportRewriter("preview", "widgets", "1.2.0", "main.typ")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"single climb",
			`#import "../main.typ"`,
			`#import "@preview/widgets:1.2.0"`,
		},
		{
			"multiple climbs",
			`#import "../../main.typ"`,
			`#import "@preview/widgets:1.2.0"`,
		},
		{
			"selector after the path survives",
			`#import "../main.typ": grid, cell`,
			`#import "@preview/widgets:1.2.0": grid, cell`,
		},
		{
			"selector inside the quotes survives",
			`#import "../main.typ: *"`,
			`#import "@preview/widgets:1.2.0: *"`,
		},
		{
			"extra whitespace after import",
			`#import   "../main.typ"`,
			`#import "@preview/widgets:1.2.0"`,
		},
		{
			"sibling import untouched",
			`#import "main.typ"`,
			`#import "main.typ"`,
		},
		{
			"other file untouched",
			`#import "../helpers.typ"`,
			`#import "../helpers.typ"`,
		},
		{
			"every occurrence rewritten",
			"#import \"../main.typ\"\nsome text\n#import \"../../main.typ\": a",
			"#import \"@preview/widgets:1.2.0\"\nsome text\n#import \"@preview/widgets:1.2.0\": a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Rewrite(tt.content))
		})
	}
}

func TestRewriterUsesEntrypointBaseName(t *testing.T) {
	r := materialize.NewImportRewriter("local", "widgets", "0.1.0", "src/lib.typ")

	assert.Equal(t,
		`#import "@local/widgets:0.1.0": render`,
		r.Rewrite(`#import "../lib.typ": render`))
	assert.Equal(t,
		`#import "../main.typ"`,
		r.Rewrite(`#import "../main.typ"`))
}
