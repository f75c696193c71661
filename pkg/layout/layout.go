// Package layout derives the directory layout and import identity of
// packages: provider namespaces, install and build destinations, and the
// compiler-facing import spec.
package layout

import (
	"fmt"
	"path/filepath"
	"strings"
)

// providerAbbreviations maps known hosting providers to their short
// namespace prefixes.
var providerAbbreviations = map[string]string{
	"github.com":    "gh",
	"gitlab.com":    "gl",
	"bitbucket.org": "bb",
}

// ProviderAbbreviation returns the short form of a provider host. Unknown
// hosts fall back to their first dot-separated label.
func ProviderAbbreviation(host string) string {
	if abbr, ok := providerAbbreviations[host]; ok {
		return abbr
	}
	label, _, _ := strings.Cut(host, ".")
	return label
}

// Namespace builds the install namespace for a package hosted by owner on
// host, e.g. "gh-typst" for github.com/typst.
func Namespace(host, owner string) string {
	return ProviderAbbreviation(host) + "-" + owner
}

// PackageDir is the directory a package version occupies under a
// packages root: <root>/<namespace>/<name>/<version>.
func PackageDir(packagesRoot, namespace, name, version string) string {
	return filepath.Join(packagesRoot, namespace, name, version)
}

// BuildDir is the directory a built package occupies under an output
// directory: <output>/<name>/<version>.
func BuildDir(outputDir, name, version string) string {
	return filepath.Join(outputDir, name, version)
}

// ImportBase is the namespace-qualified package name used as the import
// path stem, e.g. "preview/widgets".
func ImportBase(namespace, name string) string {
	return namespace + "/" + name
}

// ImportSpec is the full compiler-facing package spec,
// e.g. "@preview/widgets:1.2.0".
func ImportSpec(namespace, name, version string) string {
	return fmt.Sprintf("@%s/%s:%s", namespace, name, version)
}
