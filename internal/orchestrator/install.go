// Package orchestrator sequences the install and uninstall commands: fetch,
// stage, extract sub-manifests, resolve transitive dependencies, and
// unstage — the two-phase staging-then-unstage write protocol that keeps a
// mid-run abort from leaving a partial install at the final path.
package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/go-pym/pym/internal/depgraph"
	"github.com/go-pym/pym/internal/installer"
	"github.com/go-pym/pym/internal/manifest"
	"github.com/go-pym/pym/internal/pkgref"
	"github.com/go-pym/pym/internal/semver"
)

// rangeProber is implemented by installers (the index installer) capable of
// resolving a version range to a concrete installable version.
type rangeProber interface {
	MaxVersion(ctx context.Context, name string, rng semver.VersionRange) (semver.Version, error)
}

type autoPrompter struct{}

func (autoPrompter) Prompt(_, suggested string) (string, error) { return suggested, nil }

// Orchestrator is the set of collaborators the install/uninstall orchestrators
// need beyond the filesystem: the ordered installer list, a field prompter
// for manifest synthesis, and a logger for non-fatal advisories.
type Orchestrator struct {
	Fs         afero.Fs
	Installers []installer.Installer
	Prompter   manifest.FieldPrompter
	Logger     *zap.SugaredLogger
}

// New returns an Orchestrator with sane defaults (a non-interactive
// prompter, no logging) for any field left zero.
func New(afs afero.Fs, installers []installer.Installer) *Orchestrator {
	return &Orchestrator{Fs: afs, Installers: installers, Prompter: autoPrompter{}}
}

func (o *Orchestrator) prompter() manifest.FieldPrompter {
	if o.Prompter != nil {
		return o.Prompter
	}
	return autoPrompter{}
}

func (o *Orchestrator) warn(msg string, keysAndValues ...interface{}) {
	if o.Logger != nil {
		o.Logger.Warnw(msg, keysAndValues...)
	}
}

// InstallOptions configures a single install invocation.
type InstallOptions struct {
	ProjectRoot string
	References  []string
	Save        bool
}

// fetchedPackage threads a staged PackageInfo through the graph and unstage
// passes, recording whether it came from an explicit CLI reference (and so
// is a save candidate) or from the manifest/dependency graph.
type fetchedPackage struct {
	info       pkgref.PackageInfo
	external   bool
	explicitRef string
}

// Install runs the full sequence described in SPEC_FULL.md's install
// orchestrator: determine the work set, stage every package, build and
// resolve the dependency graph, unstage everything, and optionally persist
// the project manifest.
func (o *Orchestrator) Install(ctx context.Context, opts InstallOptions) error {
	project, err := manifest.Load(o.Fs, opts.ProjectRoot)
	if err != nil {
		return err
	}

	stagingDir := filepath.Join(opts.ProjectRoot, project.StagingLocation)

	return withStagingDir(o.Fs, stagingDir, func() error {
		workSet, err := o.determineWorkSet(opts.References, project)
		if err != nil {
			return err
		}

		graph := depgraph.New()
		var fetched []fetchedPackage

		for _, w := range workSet {
			staged, err := o.fetchAndSynthesize(ctx, w.inst, w.info, stagingDir, graph)
			if err != nil {
				return err
			}
			fetched = append(fetched, fetchedPackage{
				info:        staged,
				external:    w.external,
				explicitRef: w.explicitRef,
			})
		}

		resolved := graph.Resolve()
		for name, rng := range resolved {
			if rng.Empty {
				o.warn("dependency range resolved empty, skipping", "package", name)
				continue
			}

			inst, info, err := installer.DispatchManifestEntry(o.Installers, name, rng.String())
			if err != nil {
				return err
			}
			if prober, ok := inst.(rangeProber); ok {
				v, err := prober.MaxVersion(ctx, name, rng)
				if err == nil {
					info.Version = v.String()
				}
			}

			staged, err := o.fetchAndSynthesize(ctx, inst, info, stagingDir, nil)
			if err != nil {
				return err
			}
			fetched = append(fetched, fetchedPackage{info: staged})
		}

		for _, f := range fetched {
			final := filepath.Join(opts.ProjectRoot, project.InstallLocation, f.info.Name)
			if err := moveDir(o.Fs, f.info.Path, final); err != nil {
				return err
			}
		}

		if opts.Save {
			for _, f := range fetched {
				if !f.external {
					continue
				}
				project.Dependencies[f.info.Name] = f.info.VersionRange
			}
			if err := manifest.Save(o.Fs, opts.ProjectRoot, project); err != nil {
				return err
			}
		}

		return nil
	})
}

type workItem struct {
	inst        installer.Installer
	info        pkgref.PackageInfo
	external    bool
	explicitRef string
}

func (o *Orchestrator) determineWorkSet(references []string, project manifest.Manifest) ([]workItem, error) {
	if len(references) > 0 {
		seen := make(map[string]bool, len(references))
		var items []workItem
		for _, ref := range references {
			if seen[ref] {
				continue
			}
			seen[ref] = true

			inst, info, err := installer.DispatchReference(o.Installers, ref)
			if err != nil {
				return nil, err
			}
			items = append(items, workItem{inst: inst, info: info, external: true, explicitRef: ref})
		}
		return items, nil
	}

	var items []workItem
	for name, rangeLiteral := range project.Dependencies {
		inst, info, err := installer.DispatchManifestEntry(o.Installers, name, rangeLiteral)
		if err != nil {
			return nil, err
		}
		items = append(items, workItem{inst: inst, info: info})
	}
	return items, nil
}

// fetchAndSynthesize installs a single package into staging, then either
// loads its own manifest or synthesizes one (querying for src when it can't
// be guessed, building directly otherwise), persisting it either way. When
// graph is non-nil, the package's declared dependencies are fed into it —
// unparseable sub-dependency constraints are logged and skipped rather than
// aborting the command.
func (o *Orchestrator) fetchAndSynthesize(ctx context.Context, inst installer.Installer, info pkgref.PackageInfo, stagingDir string, graph *depgraph.Graph) (pkgref.PackageInfo, error) {
	staged, err := inst.Install(ctx, info, stagingDir)
	if err != nil {
		return staged, err
	}

	pkgManifest, err := manifest.Load(o.Fs, staged.Path)
	if err != nil {
		src := pkgref.GuessSrc(staged)
		staged.Src = src

		var built manifest.Manifest
		if src == "" {
			built, err = manifest.Query(o.prompter(), staged)
			if err != nil {
				return staged, err
			}
		} else {
			built = manifest.Build(staged)
		}

		if err := manifest.Save(o.Fs, staged.Path, built); err != nil {
			return staged, err
		}
		pkgManifest = built
	}

	if graph != nil {
		for name, rangeLiteral := range pkgManifest.Dependencies {
			if err := graph.Add(name, rangeLiteral); err != nil {
				o.warn("unparseable sub-dependency constraint, skipping", "package", name, "constraint", rangeLiteral, "error", err)
			}
		}
	}

	return staged, nil
}
