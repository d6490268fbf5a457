package orchestrator

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/go-pym/pym/internal/manifest"
)

// UninstallOptions configures a single uninstall invocation.
type UninstallOptions struct {
	ProjectRoot string
	Names       []string
	Save        bool
}

// Uninstall removes each named package's install directory and, when Save
// is set, drops it from the project manifest's dependencies. A missing
// directory is a warning, not an error — the manifest is always persisted
// at the end.
func (o *Orchestrator) Uninstall(opts UninstallOptions) error {
	project, err := manifest.Load(o.Fs, opts.ProjectRoot)
	if err != nil {
		return err
	}

	for _, name := range opts.Names {
		target := filepath.Join(opts.ProjectRoot, project.InstallLocation, name)
		exists, _ := afero.DirExists(o.Fs, target)
		if !exists {
			o.warn("nothing to uninstall, directory not found", "package", name, "path", target)
		}
		if err := o.Fs.RemoveAll(target); err != nil {
			return err
		}

		if opts.Save {
			delete(project.Dependencies, name)
		}
	}

	return manifest.Save(o.Fs, opts.ProjectRoot, project)
}
