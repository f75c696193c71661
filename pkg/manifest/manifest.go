// Package manifest loads, validates, and discovers typst.toml package
// manifests.
package manifest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/logging"
)

// Filename is the canonical manifest file name.
const Filename = "typst.toml"

// DefaultEntrypoint is used when a manifest does not name one.
const DefaultEntrypoint = "main.typ"

// Package is the [package] section of a manifest.
type Package struct {
	Name       string   `toml:"name"`
	Version    string   `toml:"version"`
	Entrypoint string   `toml:"entrypoint"`
	Exclude    []string `toml:"exclude"`
	Compiler   string   `toml:"compiler"`
}

// Template is the optional [template] section of a manifest.
type Template struct {
	Path       string `toml:"path"`
	Entrypoint string `toml:"entrypoint"`
	Thumbnail  string `toml:"thumbnail"`
}

// Manifest is a decoded typst.toml. Fields outside the package and
// template sections (authors, license, ...) are ignored.
type Manifest struct {
	Package  Package   `toml:"package"`
	Template *Template `toml:"template"`
}

// HasTemplate reports whether the manifest declares a compilable template.
func (m *Manifest) HasTemplate() bool {
	return m.Template != nil && m.Template.Path != "" && m.Template.Entrypoint != ""
}

// Load reads and decodes the manifest at path. The entrypoint default is
// applied here so callers never see an empty entrypoint.
func Load(path string) (*Manifest, error) {
	logger := logging.GetLogger("manifest")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read manifest %s", path)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidManifest, "failed to parse manifest %s", path)
	}

	if m.Package.Entrypoint == "" {
		m.Package.Entrypoint = DefaultEntrypoint
	}

	logger.Debug().
		Str("path", path).
		Str("name", m.Package.Name).
		Str("version", m.Package.Version).
		Msg("Loaded manifest")

	return &m, nil
}

// Validate checks the required fields of a loaded manifest.
func Validate(m *Manifest) error {
	if m.Package.Name == "" || m.Package.Version == "" {
		return errors.New(errors.ErrInvalidManifest,
			"package.name and package.version are required")
	}
	return nil
}

// ValidateNameMatchesDir checks that the package name equals the name of
// the directory holding the manifest. Published packages must live in a
// directory named after themselves so template compilation paths resolve.
func ValidateNameMatchesDir(m *Manifest, manifestDir string) error {
	parent := filepath.Base(manifestDir)
	if m.Package.Name != parent {
		return errors.Newf(errors.ErrInvalidManifest,
			"package name %q does not match parent directory name %q",
			m.Package.Name, parent)
	}
	return nil
}

// ResolvePath turns a user-supplied path (a manifest file, or a directory
// containing one) into the manifest file path.
func ResolvePath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Newf(errors.ErrInvalidInput,
				"path is neither a file nor a directory: %s", path)
		}
		return "", errors.Wrapf(err, errors.ErrIO, "failed to stat %s", path)
	}

	if info.IsDir() {
		candidate := filepath.Join(path, Filename)
		if _, err := os.Stat(candidate); err != nil {
			return "", errors.Newf(errors.ErrManifestNotFound,
				"no %s found in directory: %s", Filename, path)
		}
		return candidate, nil
	}

	return path, nil
}

// Discover recursively searches root for manifest files and returns their
// paths sorted for deterministic candidate ordering.
func Discover(root string) ([]string, error) {
	logger := logging.GetLogger("manifest")

	matches, err := doublestar.Glob(os.DirFS(root), "**/"+Filename)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to search for manifests under %s", root)
	}

	var found []string
	for _, match := range matches {
		full := filepath.Join(root, filepath.FromSlash(match))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, full)
	}
	sort.Strings(found)

	logger.Debug().
		Str("root", root).
		Int("count", len(found)).
		Msg("Manifest discovery finished")

	return found, nil
}
