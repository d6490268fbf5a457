package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/go-pym/pym/internal/manifest"
	"github.com/go-pym/pym/internal/pkgref"
	"github.com/go-pym/pym/internal/ui"
)

// NewInitCommand builds `pym init`: parse the current directory as a
// package, guess its src layout, interactively fill in the rest, and save
// pym.json there.
func NewInitCommand(afs afero.Fs) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a pym.json manifest for the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}

			if manifest.Exists(afs, dir) {
				ui.ShowWarning("pym.json already exists, overwriting")
			}

			info := pkgref.Parse(dir, 0)
			info.Path = dir
			info.Src = pkgref.GuessSrc(info)

			var m manifest.Manifest
			if yes {
				m = manifest.Build(info)
			} else {
				m, err = manifest.Query(ui.ConsolePrompter{}, info)
				if err != nil {
					return err
				}
			}

			if err := manifest.Save(afs, dir, m); err != nil {
				return err
			}

			ui.PrintInfoSection("Created pym.json", map[string]string{
				"name":    m.Name,
				"version": m.Version,
				"src":     m.Src,
				"license": m.License,
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Accept every guessed field without prompting")
	return cmd
}
