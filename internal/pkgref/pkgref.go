// Package pkgref parses the CLI/manifest package-reference grammar into a
// PackageInfo, and resolves a package's source directory within an
// installed artifact.
package pkgref

import (
	"os"
	"path/filepath"
	"strings"
)

// PackageInfo is the mutable descriptor threaded from reference parsing
// through installation. Any field may be absent (zero value); installers
// fill in what they learn along the way.
type PackageInfo struct {
	Reference    string
	Name         string
	Source       string
	Version      string
	VersionRange string
	Path         string
	Description  string
	Src          string
	License      string

	// Dependencies are the package's own declared dependencies, as raw
	// version-range literals keyed by package name — populated once an
	// installed package's manifest has been read.
	Dependencies map[string]string
}

// Parse splits reference at the first occurrence of delim (either '@' or
// '#'): the left side becomes Source, the right side Version. Name is the
// extension-stripped basename of Source. If delim does not occur, the whole
// reference is the source and Version is left empty.
func Parse(reference string, delim byte) PackageInfo {
	info := PackageInfo{Reference: reference}

	source := reference
	if idx := strings.IndexByte(reference, delim); idx >= 0 {
		source = reference[:idx]
		info.Version = reference[idx+1:]
	}
	info.Source = source
	info.Name = baseNameNoExt(source)

	return info
}

func baseNameNoExt(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GuessSrc probes "<info.Path>/src" then "<info.Path>/<info.Name>", in that
// order, returning the first that exists on the OS filesystem (file or
// directory), as a name relative to info.Path. It returns "" if neither is
// found.
func GuessSrc(info PackageInfo) string {
	candidates := []string{"src", info.Name}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(info.Path, candidate)); err == nil {
			return candidate
		}
	}
	return ""
}
