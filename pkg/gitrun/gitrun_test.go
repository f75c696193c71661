// TEST TYPE: Unit
// DEPENDENCIES: Local executables only (no network)
// PURPOSE: Verify clone invocation error mapping and scratch directory
// lifecycle

package gitrun_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/gitrun"
)

func TestCloneMissingBinary(t *testing.T) {
	r := gitrun.NewRunner("definitely-not-a-real-git-binary")

	err := r.Clone(gitrun.CloneOptions{
		URL: "https://example.com/acme/widgets.git",
		Dir: t.TempDir(),
	})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalTool))
	assert.Contains(t, err.Error(), "https://example.com/acme/widgets.git")
}

func TestCloneFailingBinary(t *testing.T) {
	r := gitrun.NewRunner("false")

	err := r.Clone(gitrun.CloneOptions{
		URL: "https://example.com/acme/widgets.git",
		Dir: t.TempDir(),
	})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalTool))
}

func TestCloneSucceedingBinary(t *testing.T) {
	r := gitrun.NewRunner("true")

	err := r.Clone(gitrun.CloneOptions{
		URL: "https://example.com/acme/widgets.git",
		Ref: "v1.0.0",
		Dir: t.TempDir(),
	})

	assert.NoError(t, err)
}

func TestTempDir(t *testing.T) {
	dir, cleanup, err := gitrun.TempDir()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(dir), gitrun.TempDirPrefix))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cleanup()
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
