package orchestrator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pym/pym/internal/installer"
	"github.com/go-pym/pym/internal/manifest"
	"github.com/go-pym/pym/internal/pkgref"
)

func installersOf(is ...installer.Installer) []installer.Installer { return is }

// stubInstaller is an in-memory test double: it accepts every reference
// and "installs" by writing a
// synthesized pym.json straight into the staging directory via afero,
// keeping orchestrator tests free of real network or disk access.
type stubInstaller struct {
	afs          afero.Fs
	dependencies map[string]map[string]string // package name -> its own deps
}

func (s *stubInstaller) CanInstallReference(reference string) (pkgref.PackageInfo, bool) {
	info := pkgref.Parse(reference, '@')
	return info, true
}

func (s *stubInstaller) CanInstall(name, versionOrRef string) (pkgref.PackageInfo, bool) {
	return pkgref.PackageInfo{Name: name, Version: versionOrRef}, true
}

func (s *stubInstaller) Install(_ context.Context, info pkgref.PackageInfo, dest string) (pkgref.PackageInfo, error) {
	info.Path = filepath.Join(dest, info.Name)
	info.VersionRange = "^" + info.Version
	if info.Version == "" {
		info.Version = "1.0.0"
		info.VersionRange = "^1.0.0"
	}

	if err := s.afs.MkdirAll(info.Path, 0o755); err != nil {
		return info, err
	}

	m := manifest.Defaults()
	m.Name = info.Name
	m.Version = info.Version
	m.Src = "src"
	if deps, ok := s.dependencies[info.Name]; ok {
		m.Dependencies = deps
	}
	if err := manifest.Save(s.afs, info.Path, m); err != nil {
		return info, err
	}
	_ = s.afs.MkdirAll(filepath.Join(info.Path, "src"), 0o755)

	return info, nil
}

// stubInstallerNoManifest installs a package directory without writing a
// pym.json into it, forcing the orchestrator's fetchAndSynthesize fallback
// to build (or query for) a manifest itself rather than loading one.
type stubInstallerNoManifest struct {
	afs    afero.Fs
	hasSrc bool
}

func (s *stubInstallerNoManifest) CanInstallReference(reference string) (pkgref.PackageInfo, bool) {
	info := pkgref.Parse(reference, '@')
	return info, true
}

func (s *stubInstallerNoManifest) CanInstall(name, versionOrRef string) (pkgref.PackageInfo, bool) {
	return pkgref.PackageInfo{Name: name, Version: versionOrRef}, true
}

func (s *stubInstallerNoManifest) Install(_ context.Context, info pkgref.PackageInfo, dest string) (pkgref.PackageInfo, error) {
	info.Path = filepath.Join(dest, info.Name)
	info.VersionRange = "^" + info.Version
	if info.Version == "" {
		info.Version = "1.0.0"
		info.VersionRange = "^1.0.0"
	}

	if err := s.afs.MkdirAll(info.Path, 0o755); err != nil {
		return info, err
	}
	if s.hasSrc {
		if err := s.afs.MkdirAll(filepath.Join(info.Path, "src"), 0o755); err != nil {
			return info, err
		}
	}

	return info, nil
}

// cannedPrompter answers every manifest field prompt with its suggested
// default, keeping manifest.Query synchronous in tests.
type cannedPrompter struct{}

func (cannedPrompter) Prompt(_, suggested string) (string, error) { return suggested, nil }

func TestInstallSynthesizesManifestFromSrcWhenPackageHasNone(t *testing.T) {
	afs := afero.NewMemMapFs()
	root := "/project"
	require.NoError(t, manifest.Save(afs, root, manifest.Defaults()))

	stub := &stubInstallerNoManifest{afs: afs, hasSrc: true}
	orch := &Orchestrator{Fs: afs, Installers: installersOf(stub), Prompter: cannedPrompter{}}

	err := orch.Install(context.Background(), InstallOptions{
		ProjectRoot: root,
		References:  []string{"foo@1.2.3"},
	})
	require.NoError(t, err)

	pkgManifest, err := manifest.Load(afs, filepath.Join(root, "pym_packages", "foo"))
	require.NoError(t, err)
	assert.Equal(t, "foo", pkgManifest.Name)
	assert.Equal(t, "src", pkgManifest.Src)
}

func TestInstallQueriesManifestWhenSrcCannotBeGuessed(t *testing.T) {
	afs := afero.NewMemMapFs()
	root := "/project"
	require.NoError(t, manifest.Save(afs, root, manifest.Defaults()))

	stub := &stubInstallerNoManifest{afs: afs, hasSrc: false}
	orch := &Orchestrator{Fs: afs, Installers: installersOf(stub), Prompter: cannedPrompter{}}

	err := orch.Install(context.Background(), InstallOptions{
		ProjectRoot: root,
		References:  []string{"foo@1.2.3"},
	})
	require.NoError(t, err)

	pkgManifest, err := manifest.Load(afs, filepath.Join(root, "pym_packages", "foo"))
	require.NoError(t, err)
	assert.Equal(t, "foo", pkgManifest.Name)
	assert.Equal(t, "1.2.3", pkgManifest.Version)
}

func TestInstallExplicitReferenceUnstagesAndCleansStaging(t *testing.T) {
	afs := afero.NewMemMapFs()
	root := "/project"
	require.NoError(t, manifest.Save(afs, root, manifest.Defaults()))

	stub := &stubInstaller{afs: afs}
	orch := &Orchestrator{Fs: afs, Installers: installersOf(stub)}

	err := orch.Install(context.Background(), InstallOptions{
		ProjectRoot: root,
		References:  []string{"foo@1.2.3"},
		Save:        true,
	})
	require.NoError(t, err)

	exists, err := afero.DirExists(afs, filepath.Join(root, "pym_packages", "foo"))
	require.NoError(t, err)
	assert.True(t, exists, "installed package directory should exist")

	stagingExists, err := afero.DirExists(afs, filepath.Join(root, "pym_packages", ".staging"))
	require.NoError(t, err)
	assert.False(t, stagingExists, "staging directory must not survive a successful install")

	project, err := manifest.Load(afs, root)
	require.NoError(t, err)
	assert.Equal(t, "^1.2.3", project.Dependencies["foo"])
}

func TestInstallResolvesTransitiveDependencies(t *testing.T) {
	afs := afero.NewMemMapFs()
	root := "/project"
	require.NoError(t, manifest.Save(afs, root, manifest.Defaults()))

	stub := &stubInstaller{
		afs: afs,
		dependencies: map[string]map[string]string{
			"foo": {"bar": "^1.0.0"},
		},
	}
	orch := &Orchestrator{Fs: afs, Installers: installersOf(stub)}

	err := orch.Install(context.Background(), InstallOptions{
		ProjectRoot: root,
		References:  []string{"foo@1.0.0"},
	})
	require.NoError(t, err)

	exists, err := afero.DirExists(afs, filepath.Join(root, "pym_packages", "bar"))
	require.NoError(t, err)
	assert.True(t, exists, "transitive dependency should be installed")
}

func TestInstallFromManifestDependenciesWhenNoReferencesGiven(t *testing.T) {
	afs := afero.NewMemMapFs()
	root := "/project"
	m := manifest.Defaults()
	m.Dependencies["foo"] = "^1.0.0"
	require.NoError(t, manifest.Save(afs, root, m))

	stub := &stubInstaller{afs: afs}
	orch := &Orchestrator{Fs: afs, Installers: installersOf(stub)}

	err := orch.Install(context.Background(), InstallOptions{ProjectRoot: root})
	require.NoError(t, err)

	exists, err := afero.DirExists(afs, filepath.Join(root, "pym_packages", "foo"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUninstallRemovesDirectoryAndDependencyEntry(t *testing.T) {
	afs := afero.NewMemMapFs()
	root := "/project"
	m := manifest.Defaults()
	m.Dependencies["foo"] = "^1.0.0"
	require.NoError(t, manifest.Save(afs, root, m))
	require.NoError(t, afs.MkdirAll(filepath.Join(root, "pym_packages", "foo"), 0o755))

	orch := &Orchestrator{Fs: afs}
	err := orch.Uninstall(UninstallOptions{ProjectRoot: root, Names: []string{"foo"}, Save: true})
	require.NoError(t, err)

	exists, err := afero.DirExists(afs, filepath.Join(root, "pym_packages", "foo"))
	require.NoError(t, err)
	assert.False(t, exists)

	project, err := manifest.Load(afs, root)
	require.NoError(t, err)
	_, stillPresent := project.Dependencies["foo"]
	assert.False(t, stillPresent)
}

func TestUninstallMissingDirectoryIsNotAnError(t *testing.T) {
	afs := afero.NewMemMapFs()
	root := "/project"
	require.NoError(t, manifest.Save(afs, root, manifest.Defaults()))

	orch := &Orchestrator{Fs: afs}
	err := orch.Uninstall(UninstallOptions{ProjectRoot: root, Names: []string{"never-installed"}})
	assert.NoError(t, err)
}
