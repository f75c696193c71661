// Package gitrun shells out to the git binary for repository fetching.
package gitrun

import (
	"os"
	"os/exec"

	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/logging"
)

// TempDirPrefix marks scratch clone directories so stray ones are
// recognizable in the system temp dir.
const TempDirPrefix = "typst-build-git-"

// CloneOptions describes a single shallow clone.
type CloneOptions struct {
	// URL is the https clone URL
	URL string
	// Ref is the branch or tag to clone; empty clones the default branch
	Ref string
	// Dir is the destination directory
	Dir string
}

// Runner performs git operations. Tests substitute a recording fake.
type Runner interface {
	Clone(opts CloneOptions) error
}

type execRunner struct {
	gitPath string
}

// NewRunner returns a Runner that invokes the given git binary. An empty
// path means "git" from PATH.
func NewRunner(gitPath string) Runner {
	if gitPath == "" {
		gitPath = "git"
	}
	return &execRunner{gitPath: gitPath}
}

// Clone runs a depth-1 clone, streaming git's own progress output to the
// terminal.
func (r *execRunner) Clone(opts CloneOptions) error {
	args := []string{"clone", "--depth", "1"}
	if opts.Ref != "" {
		args = append(args, "--branch", opts.Ref)
	}
	args = append(args, opts.URL, opts.Dir)

	logging.LogCommand(r.gitPath, args)
	cmd := exec.Command(r.gitPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrExternalTool,
			"git clone failed for %s", opts.URL)
	}
	return nil
}

// TempDir creates a scratch directory for a clone and returns it with its
// cleanup function.
func TempDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", TempDirPrefix)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrIO, "failed to create temporary clone directory")
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
