// Package manifest implements the pym.json model: the per-project manifest
// at the project root and the identically-shaped per-package manifest that
// ships inside every installed package directory.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/go-pym/pym/internal/pkgref"
	"github.com/go-pym/pym/usefulerror"
)

// FileName is the manifest's fixed name within a project or package
// directory.
const FileName = "pym.json"

// Manifest is the pym.json document shape, shared by the per-project
// manifest and every installed package's own manifest.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Src             string            `json:"src"`
	License         string            `json:"license"`
	Dependencies    map[string]string `json:"dependencies"`
	InstallLocation string            `json:"install_location"`
	StagingLocation string            `json:"staging_location"`
}

// Defaults returns the manifest defaults applied to any key the loaded
// document leaves unset.
func Defaults() Manifest {
	return Manifest{
		Version:         "0.1.0",
		Src:             "src",
		License:         "MIT",
		Dependencies:    map[string]string{},
		InstallLocation: "pym_packages",
		StagingLocation: filepath.Join("pym_packages", ".staging"),
	}
}

// Load reads dir/pym.json and merges in default values for any key the
// document left unset (a key present in the file with a non-empty value
// wins; a key present with an empty string or null value is treated as
// unset and receives the default). A
// missing file surfaces as a PymPackage error so callers can distinguish
// "no manifest" from any other failure.
func Load(afs afero.Fs, dir string) (Manifest, error) {
	path := filepath.Join(dir, FileName)

	data, err := afero.ReadFile(afs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, usefulerror.Useful().
				Wrap(err).
				WithCode(usefulerror.ErrCodePymPackage).
				WithHumanError(fmt.Sprintf("no %s found in %s", FileName, dir)).
				WithHelp("Run `pym init` here.")
		}
		return Manifest{}, usefulerror.Useful().
			Wrap(err).
			WithCode(usefulerror.ErrCodePymPackage).
			WithHumanError(fmt.Sprintf("failed to read %s", path)).
			WithHelp("Check that the file is readable and contains valid JSON.")
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, usefulerror.Useful().
			Wrap(err).
			WithCode(usefulerror.ErrCodePymPackage).
			WithHumanError(fmt.Sprintf("%s is not valid JSON", path)).
			WithHelp("Fix the manifest's JSON syntax or recreate it with `pym init`.")
	}

	return applyDefaults(m), nil
}

func applyDefaults(m Manifest) Manifest {
	d := Defaults()
	if m.Version == "" {
		m.Version = d.Version
	}
	if m.Src == "" {
		m.Src = d.Src
	}
	if m.License == "" {
		m.License = d.License
	}
	if m.Dependencies == nil {
		m.Dependencies = d.Dependencies
	}
	if m.InstallLocation == "" {
		m.InstallLocation = d.InstallLocation
	}
	if m.StagingLocation == "" {
		m.StagingLocation = d.StagingLocation
	}
	return m
}

// Save writes the manifest back to dir/pym.json as pretty-printed JSON.
func Save(afs afero.Fs, dir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return usefulerror.Useful().
			Wrap(err).
			WithCode(usefulerror.ErrCodePymPackage).
			WithHumanError("failed to encode manifest")
	}

	path := filepath.Join(dir, FileName)
	if err := afero.WriteFile(afs, path, data, 0o644); err != nil {
		return usefulerror.Useful().
			Wrap(err).
			WithCode(usefulerror.ErrCodePymPackage).
			WithHumanError(fmt.Sprintf("failed to write %s", path))
	}
	return nil
}

// Exists reports whether dir already contains a pym.json.
func Exists(afs afero.Fs, dir string) bool {
	_, err := afs.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// FieldPrompter supplies a suggested-default/override prompt for a single
// manifest field, implemented by internal/ui in the real CLI and by a
// canned stub in tests.
type FieldPrompter interface {
	Prompt(field, suggested string) (string, error)
}

// Build fills a manifest skeleton from a PackageInfo's recognized fields,
// falling back to manifest defaults for anything the info left blank.
func Build(info pkgref.PackageInfo) Manifest {
	m := Defaults()
	if info.Name != "" {
		m.Name = info.Name
	}
	if info.Version != "" {
		m.Version = info.Version
	}
	if info.Description != "" {
		m.Description = info.Description
	}
	if info.Src != "" {
		m.Src = info.Src
	}
	if info.License != "" {
		m.License = info.License
	}
	if info.Dependencies != nil {
		m.Dependencies = info.Dependencies
	}
	return m
}

// Query interactively prompts for each recognized field, using the
// PackageInfo's value as the suggested default, then applies Build.
func Query(prompter FieldPrompter, info pkgref.PackageInfo) (Manifest, error) {
	fields := []struct {
		label     string
		suggested string
		assign    func(string)
	}{
		{"name", info.Name, func(v string) { info.Name = v }},
		{"description", info.Description, func(v string) { info.Description = v }},
		{"version", info.Version, func(v string) { info.Version = v }},
		{"src", info.Src, func(v string) { info.Src = v }},
		{"license", info.License, func(v string) { info.License = v }},
	}

	for _, f := range fields {
		answer, err := prompter.Prompt(f.label, f.suggested)
		if err != nil {
			return Manifest{}, err
		}
		f.assign(answer)
	}

	return Build(info), nil
}
