package testutil

import (
	"github.com/jassielof/typm/pkg/gitrun"
	"github.com/jassielof/typm/pkg/semver"
)

// FakeGitRunner records clone requests and materializes a canned tree
// instead of touching the network.
type FakeGitRunner struct {
	// Populate fills the clone directory; nil leaves it empty
	Populate func(dir string) error
	// Err is returned from Clone after recording the call
	Err error

	Calls []gitrun.CloneOptions
}

func (f *FakeGitRunner) Clone(opts gitrun.CloneOptions) error {
	f.Calls = append(f.Calls, opts)
	if f.Err != nil {
		return f.Err
	}
	if f.Populate != nil {
		return f.Populate(opts.Dir)
	}
	return nil
}

// CompileCall records one template compilation request.
type CompileCall struct {
	ManifestDir        string
	PackageName        string
	TemplatePath       string
	TemplateEntrypoint string
	ThumbnailPath      string
}

// FakeCompiler provides canned compiler responses.
type FakeCompiler struct {
	VersionResult semver.Version
	VersionErr    error
	CompileErr    error
	ThumbnailErr  error

	VersionCalls   int
	CompileCalls   []CompileCall
	ThumbnailCalls []CompileCall
}

func (f *FakeCompiler) Version() (semver.Version, error) {
	f.VersionCalls++
	if f.VersionErr != nil {
		return semver.Version{}, f.VersionErr
	}
	return f.VersionResult, nil
}

func (f *FakeCompiler) CompileTemplate(manifestDir, packageName, templatePath, templateEntrypoint string) error {
	f.CompileCalls = append(f.CompileCalls, CompileCall{
		ManifestDir:        manifestDir,
		PackageName:        packageName,
		TemplatePath:       templatePath,
		TemplateEntrypoint: templateEntrypoint,
	})
	return f.CompileErr
}

func (f *FakeCompiler) RenderThumbnail(manifestDir, packageName, templatePath, templateEntrypoint, thumbnailPath string) error {
	f.ThumbnailCalls = append(f.ThumbnailCalls, CompileCall{
		ManifestDir:        manifestDir,
		PackageName:        packageName,
		TemplatePath:       templatePath,
		TemplateEntrypoint: templateEntrypoint,
		ThumbnailPath:      thumbnailPath,
	})
	return f.ThumbnailErr
}

// ScriptedSelector answers candidate selection without a terminal.
type ScriptedSelector struct {
	Choice int
	Err    error

	Candidates []string
}

func (s *ScriptedSelector) Select(candidates []string) (int, error) {
	s.Candidates = candidates
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Choice, nil
}
