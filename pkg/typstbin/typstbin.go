// Package typstbin shells out to the typst compiler for version probing
// and template compilation.
package typstbin

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/logging"
	"github.com/jassielof/typm/pkg/semver"
)

// Compiler wraps the typst binary. Tests substitute a scripted fake.
type Compiler interface {
	// Version probes the installed compiler version.
	Version() (semver.Version, error)

	// CompileTemplate compiles a package's template entrypoint to verify
	// it builds. The compile runs from the package directory's parent so
	// in-package paths resolve under --root.
	CompileTemplate(manifestDir, packageName, templatePath, templateEntrypoint string) error

	// RenderThumbnail renders the first page of the template entrypoint
	// into the manifest's thumbnail path.
	RenderThumbnail(manifestDir, packageName, templatePath, templateEntrypoint, thumbnailPath string) error
}

// CheckRequirement probes the installed compiler and verifies it
// satisfies a manifest's compiler requirement. The probed version is
// returned either way so callers can report it.
func CheckRequirement(c Compiler, requirement string) (semver.Version, error) {
	current, err := c.Version()
	if err != nil {
		return semver.Version{}, err
	}
	if !semver.Matches(requirement, current) {
		return current, errors.Newf(errors.ErrConstraintUnsatisfied,
			"package requires Typst version %q, but you have %s", requirement, current)
	}
	return current, nil
}

type execCompiler struct {
	typstPath string
}

// New returns a Compiler that invokes the given typst binary. An empty
// path means "typst" from PATH.
func New(typstPath string) Compiler {
	if typstPath == "" {
		typstPath = "typst"
	}
	return &execCompiler{typstPath: typstPath}
}

// Version parses output of the form "typst 0.12.0 (rev ...)".
func (c *execCompiler) Version() (semver.Version, error) {
	logging.LogCommand(c.typstPath, []string{"--version"})
	out, err := exec.Command(c.typstPath, "--version").Output()
	if err != nil {
		return semver.Version{}, errors.Wrapf(err, errors.ErrExternalTool,
			"failed to run %s --version", c.typstPath)
	}

	fields := strings.Fields(string(out))
	if len(fields) < 2 {
		return semver.Version{}, errors.Newf(errors.ErrExternalTool,
			"unexpected version output from %s: %q", c.typstPath, strings.TrimSpace(string(out)))
	}
	return semver.ParseVersion(fields[1])
}

func (c *execCompiler) CompileTemplate(manifestDir, packageName, templatePath, templateEntrypoint string) error {
	target := filepath.Join(packageName, templatePath, templateEntrypoint)
	args := []string{"compile", "--root", ".", target}
	return c.run(filepath.Dir(manifestDir), args, "template compilation failed for "+target)
}

func (c *execCompiler) RenderThumbnail(manifestDir, packageName, templatePath, templateEntrypoint, thumbnailPath string) error {
	target := filepath.Join(packageName, templatePath, templateEntrypoint)
	output := filepath.Join(packageName, thumbnailPath)
	args := []string{"compile", "--root", ".", "--pages", "1", target, output}
	return c.run(filepath.Dir(manifestDir), args, "thumbnail generation failed for "+target)
}

// run executes the compiler in dir, capturing output so failures can be
// reported with the compiler's own diagnostics attached.
func (c *execCompiler) run(dir string, args []string, failMsg string) error {
	logging.LogCommand(c.typstPath, args)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(c.typstPath, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, errors.ErrExternalTool, failMsg).
			WithDetail("stdout", stdout.String()).
			WithDetail("stderr", stderr.String())
	}
	return nil
}
