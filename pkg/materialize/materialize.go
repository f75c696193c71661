// Package materialize copies a package source tree into its installed
// layout, applying exclusions and content rewrites on the way.
package materialize

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/logging"
	"github.com/jassielof/typm/pkg/manifest"
)

// Options describes one materialization run.
type Options struct {
	SourceDir string
	DestDir   string
	Excludes  []string

	// Import rewriting identity. Entrypoint is the manifest entrypoint
	// file name that relative imports are matched against.
	Namespace  string
	Name       string
	Version    string
	Entrypoint string
}

// Result reports what a materialization run did.
type Result struct {
	FilesCopied   int
	FilesExcluded int
}

// Materialize walks the source tree and copies every non-excluded file
// into the destination, creating parent directories as needed. Manifest
// files are sanitized and .typ files get their entrypoint imports
// rewritten; everything else is copied byte for byte. When the
// destination lives inside the source tree it is skipped so the copy
// cannot feed on its own output.
func Materialize(opts Options) (*Result, error) {
	logger := logging.GetLogger("materialize")
	defer logging.LogDuration(time.Now(), "copy package files")

	matcher, err := NewMatcher(opts.SourceDir, opts.Excludes)
	if err != nil {
		return nil, err
	}
	rewriter := NewImportRewriter(opts.Namespace, opts.Name, opts.Version, opts.Entrypoint)

	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to create %s", opts.DestDir)
	}
	resolvedSource := resolvePath(opts.SourceDir)
	resolvedDest := resolvePath(opts.DestDir)

	result := &Result{}
	if isWithin(resolvedSource, resolvedDest) {
		logger.Debug().
			Str("source", opts.SourceDir).
			Str("dest", opts.DestDir).
			Msg("Source lies inside destination, nothing to copy")
		return result, nil
	}

	walkErr := filepath.WalkDir(opts.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to walk %s", path)
		}
		if path == opts.SourceDir {
			return nil
		}

		rel, err := filepath.Rel(opts.SourceDir, path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to relativize %s", path)
		}

		if d.IsDir() {
			if filepath.Join(resolvedSource, rel) == resolvedDest {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			if d.Type()&fs.ModeSymlink == 0 {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		}

		relSlash := filepath.ToSlash(rel)

		if matcher.Excluded(relSlash) {
			logger.Trace().Str("path", relSlash).Msg("Excluded")
			result.FilesExcluded++
			return nil
		}

		target := filepath.Join(opts.DestDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to create directory for %s", target)
		}

		switch {
		case d.Name() == manifest.Filename:
			if err := transformFile(path, target, SanitizeManifest); err != nil {
				return err
			}
		case filepath.Ext(d.Name()) == ".typ":
			if err := transformFile(path, target, rewriter.Rewrite); err != nil {
				return err
			}
		default:
			if err := copyFile(path, target); err != nil {
				return err
			}
		}

		result.FilesCopied++
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	logger.Debug().
		Str("source", opts.SourceDir).
		Str("dest", opts.DestDir).
		Int("copied", result.FilesCopied).
		Int("excluded", result.FilesExcluded).
		Msg("Materialization complete")

	return result, nil
}

func isWithin(child, parent string) bool {
	return child == parent || strings.HasPrefix(child, parent+string(filepath.Separator))
}

// resolvePath canonicalizes a path for ancestry comparison, tolerating
// resolution failures the same way the walk tolerates them: by comparing
// the unresolved absolute path instead.
func resolvePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func transformFile(src, dst string, transform func(string) string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to read %s", src)
	}
	if err := os.WriteFile(dst, []byte(transform(string(data))), 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", dst)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to open %s", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to stat %s", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create %s", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, errors.ErrIO, "failed to copy %s", src)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to finish writing %s", dst)
	}
	return nil
}
