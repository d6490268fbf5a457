package ui

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// InstalledPackage is one row of an end-of-install summary table.
type InstalledPackage struct {
	Name    string
	Version string
	Src     string
	Path    string
}

// PrintInstallSummary renders the packages an install command fetched as a
// table: name, resolved version, source kind, and install path.
func PrintInstallSummary(packages []InstalledPackage) {
	if len(packages) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Package", "Version", "Source", "Path"})

	for _, p := range packages {
		t.AppendRow(table.Row{p.Name, p.Version, p.Src, p.Path})
	}

	t.Render()
}
