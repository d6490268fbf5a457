package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/go-pym/pym/internal/orchestrator"
	"github.com/go-pym/pym/internal/ui"
)

// NewInstallCommand builds `pym install [reference...]`. With no arguments
// it installs every dependency already declared in pym.json; with explicit
// references it installs those and, only when --save is given, records them
// as new dependencies (opt-in, matching the original CLI's `--save` flag).
func NewInstallCommand(newOrchestrator func(cmd *cobra.Command) *orchestrator.Orchestrator) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "install [reference...]",
		Short: "Install packages from a git or index source",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}

			orch := newOrchestrator(cmd)

			ui.SetStatus("resolving and installing packages")
			err = orch.Install(cmd.Context(), orchestrator.InstallOptions{
				ProjectRoot: dir,
				References:  args,
				Save:        save,
			})
			ui.ClearStatus()
			return err
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Record explicit references as dependencies in pym.json")
	return cmd
}
