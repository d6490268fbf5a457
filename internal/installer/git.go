package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/go-pym/pym/internal/pkgref"
	"github.com/go-pym/pym/usefulerror"
)

// Git installs packages by cloning a git repository and checking out a
// refspec, replacing the upstream tool's shell-out to GitPython with
// go-git's pure-Go implementation of the same clone/checkout sequence.
type Git struct {
	Logger *zap.SugaredLogger
}

var _ Installer = (*Git)(nil)

// CanInstallReference accepts a reference whose source (the part before any
// "#<ref>") ends in ".git", or that begins with the explicit "git+" scheme.
func (g *Git) CanInstallReference(reference string) (pkgref.PackageInfo, bool) {
	trimmed := reference
	explicitScheme := strings.HasPrefix(trimmed, "git+")
	if explicitScheme {
		trimmed = strings.TrimPrefix(trimmed, "git+")
	}

	info := pkgref.Parse(trimmed, '#')
	if explicitScheme || strings.HasSuffix(info.Source, ".git") {
		info.Reference = reference
		return info, true
	}
	return pkgref.PackageInfo{}, false
}

// CanInstall treats the manifest's stored constraint the same way as a
// fresh reference: pym persists git dependencies as "git+<reference>".
func (g *Git) CanInstall(name, versionOrRef string) (pkgref.PackageInfo, bool) {
	info, ok := g.CanInstallReference(versionOrRef)
	if !ok {
		return pkgref.PackageInfo{}, false
	}
	info.Name = name
	return info, true
}

// Install clones info.Source into dest/info.Name, checks out info.Version if
// set, strips the embedded .git directory, and records the resolved
// version and version range onto the returned PackageInfo.
func (g *Git) Install(ctx context.Context, info pkgref.PackageInfo, dest string) (pkgref.PackageInfo, error) {
	target := filepath.Join(dest, info.Name)

	repo, err := git.PlainCloneContext(ctx, target, false, &git.CloneOptions{
		URL: info.Source,
	})
	if err != nil {
		return info, usefulerror.Useful().
			Wrap(err).
			WithCode(usefulerror.ErrCodeVersionNotFound).
			WithHumanError(fmt.Sprintf("failed to clone %s", info.Source)).
			WithHelp("Verify the repository URL is reachable and the version exists.")
	}

	if info.Version != "" {
		if err := checkoutRevision(repo, info.Version); err != nil {
			return info, usefulerror.Useful().
				Wrap(err).
				WithCode(usefulerror.ErrCodeVersionNotFound).
				WithHumanError(fmt.Sprintf("version %q not found in %s", info.Version, info.Source)).
				WithHelp("Verify the version, tag, or branch exists.")
		}
	}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		info.Version = head.Name().Short()
	}

	if err := removeGitDir(filepath.Join(target, ".git")); err != nil {
		if g.Logger != nil {
			g.Logger.Warnw("failed to remove embedded .git directory", "path", target, "error", err)
		}
	}

	info.Path = target
	info.VersionRange = "git+" + strings.TrimPrefix(info.Reference, "git+")
	return info, nil
}

func checkoutRevision(repo *git.Repository, revision string) error {
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return err
	}

	w, err := repo.Worktree()
	if err != nil {
		return err
	}

	return w.Checkout(&git.CheckoutOptions{Hash: *hash})
}

// removeGitDir recursively removes path, retrying once with write
// permission granted on every entry if the first attempt fails with a
// permission error — needed for the read-only object files git checkouts
// under Windows and some Unix configurations.
func removeGitDir(path string) error {
	err := os.RemoveAll(path)
	if err == nil || !errors.Is(err, os.ErrPermission) {
		return err
	}

	_ = filepath.Walk(path, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		_ = os.Chmod(p, 0o700)
		return nil
	})

	return os.RemoveAll(path)
}

