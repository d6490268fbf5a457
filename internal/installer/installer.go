// Package installer defines the pluggable source-installer contract and its
// two drivers: a git clone+checkout installer and a wheel-style package
// index installer.
package installer

import (
	"context"
	"fmt"

	"github.com/go-pym/pym/internal/pkgref"
	"github.com/go-pym/pym/usefulerror"
)

// Installer is a single pluggable package source. Implementations are
// registered in an ordered list and tried in order — the first one whose
// discriminator accepts a reference or (name, constraint) pair wins. This
// models the upstream tool's class-based installer discovery as an ordered
// list of capability variants instead of base-class polymorphism.
type Installer interface {
	// CanInstallReference parses reference and reports whether this
	// installer accepts it, returning the populated PackageInfo if so.
	CanInstallReference(reference string) (pkgref.PackageInfo, bool)

	// CanInstall accepts a (name, constraint) pair taken from a project or
	// package manifest's dependencies map.
	CanInstall(name, versionOrRef string) (pkgref.PackageInfo, bool)

	// Install fetches the package described by info into dest, mutating
	// and returning info with whatever it learns (path, description,
	// resolved version).
	Install(ctx context.Context, info pkgref.PackageInfo, dest string) (pkgref.PackageInfo, error)
}

// DispatchReference runs installers in order and returns the first match
// for a user- or CLI-supplied reference string.
func DispatchReference(installers []Installer, reference string) (Installer, pkgref.PackageInfo, error) {
	for _, inst := range installers {
		if info, ok := inst.CanInstallReference(reference); ok {
			return inst, info, nil
		}
	}
	return nil, pkgref.PackageInfo{}, notFoundError(reference)
}

// DispatchManifestEntry runs installers in order and returns the first
// match for a manifest's (name, version-or-reference) dependency entry.
func DispatchManifestEntry(installers []Installer, name, versionOrRef string) (Installer, pkgref.PackageInfo, error) {
	for _, inst := range installers {
		if info, ok := inst.CanInstall(name, versionOrRef); ok {
			return inst, info, nil
		}
	}
	return nil, pkgref.PackageInfo{}, notFoundError(name + "@" + versionOrRef)
}

func notFoundError(what string) error {
	return usefulerror.Useful().
		WithCode(usefulerror.ErrCodeInstallerNotFound).
		WithHumanError(fmt.Sprintf("no installer claims %q", what)).
		WithHelp("Double-check the source and version syntax (use `#` for a git ref).").
		Msg(fmt.Sprintf("installer not found for %q", what))
}
