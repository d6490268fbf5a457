package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/go-pym/pym/internal/orchestrator"
	"github.com/go-pym/pym/internal/ui"
)

// NewUninstallCommand builds `pym uninstall <name...>`: remove each named
// package's install directory, and only when --save is given, drop it from
// pym.json's dependencies (opt-in, matching the original CLI's `--save`
// flag).
func NewUninstallCommand(newOrchestrator func(cmd *cobra.Command) *orchestrator.Orchestrator) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "uninstall <name...>",
		Short: "Remove installed packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}

			orch := newOrchestrator(cmd)

			ui.SetStatus("removing packages")
			err = orch.Uninstall(orchestrator.UninstallOptions{
				ProjectRoot: dir,
				Names:       args,
				Save:        save,
			})
			ui.ClearStatus()
			return err
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Drop the dependency entry from pym.json")
	return cmd
}
