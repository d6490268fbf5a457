package orchestrator

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// withStagingDir creates stagingDir (idempotently) and guarantees its
// removal when fn returns, on both the success and failure paths — the
// resource-guard pattern the install/uninstall orchestrators use to keep
// the staging directory scoped to a single command invocation.
func withStagingDir(afs afero.Fs, stagingDir string, fn func() error) error {
	if err := afs.MkdirAll(stagingDir, 0o755); err != nil {
		return err
	}
	defer afs.RemoveAll(stagingDir)

	return fn()
}

// moveDir relocates src to dst, replacing anything already at dst. It tries
// a plain rename first (the common case: staging and install locations
// share a filesystem) and falls back to copy-then-delete if the rename
// fails, e.g. across a filesystem boundary.
func moveDir(afs afero.Fs, src, dst string) error {
	_ = afs.RemoveAll(dst)

	if err := afs.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyDir(afs, src, dst); err != nil {
		return err
	}
	return afs.RemoveAll(src)
}

func copyDir(afs afero.Fs, src, dst string) error {
	return afero.Walk(afs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return afs.MkdirAll(target, info.Mode())
		}

		in, err := afs.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := afs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode())
		if err != nil {
			return err
		}
		defer out.Close()

		_, err = io.Copy(out, in)
		return err
	})
}
