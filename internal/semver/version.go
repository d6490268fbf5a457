// Package semver implements the version algebra pym uses to resolve
// manifest dependency ranges: version parsing, comparison, comparator
// parsing and satisfaction, and the five version-range grammars (plain,
// hyphen, X-range, tilde, caret) reduced to a single (lower, upper) normal
// form.
//
// The ordering implemented here intentionally diverges from strict semver:
// the pre-release/build segment is compared as a plain string, not
// numerically, and a non-empty build sorts after an empty one for an
// otherwise-equal numeric triple. See DESIGN.md for why this was chosen
// over strict semver precedence.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError is returned for any malformed version or range literal.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid version literal %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(input string, err error) *ParseError {
	return &ParseError{Input: input, Err: err}
}

// Version is an ordered (major, minor, patch, build) tuple. Partial is set
// when the source literal omitted the minor or patch segment.
type Version struct {
	Major, Minor, Patch int
	Build               string
	Partial             bool
}

// ParseVersion parses a version literal of the form "[=|v...]M[.m[.p]][-build]".
// Missing minor/patch segments default to 0 and set Partial.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimLeft(trimmed, "=v")

	primary, build, _ := strings.Cut(trimmed, "-")
	segments := strings.Split(primary, ".")
	if len(segments) == 0 || segments[0] == "" {
		return Version{}, newParseError(s, fmt.Errorf("empty major segment"))
	}

	major, err := strconv.Atoi(segments[0])
	if err != nil {
		return Version{}, newParseError(s, fmt.Errorf("major segment: %w", err))
	}

	v := Version{Major: major, Build: build}

	if len(segments) >= 2 && segments[1] != "" {
		minor, err := strconv.Atoi(segments[1])
		if err != nil {
			return Version{}, newParseError(s, fmt.Errorf("minor segment: %w", err))
		}
		v.Minor = minor
	} else {
		v.Partial = true
	}

	if len(segments) >= 3 && segments[2] != "" {
		patch, err := strconv.Atoi(segments[2])
		if err != nil {
			return Version{}, newParseError(s, fmt.Errorf("patch segment: %w", err))
		}
		v.Patch = patch
	} else {
		v.Partial = true
	}

	return v, nil
}

// String renders the canonical "M.m.p[-build]" form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Build != "" {
		s += "-" + v.Build
	}
	return s
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other. Numeric fields compare first, then Build lexicographically.
func (v Version) Compare(other Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	return strings.Compare(v.Build, other.Build)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v Version) Equal(other Version) bool      { return v.Compare(other) == 0 }
func (v Version) LessThan(other Version) bool   { return v.Compare(other) < 0 }
func (v Version) GreaterThan(other Version) bool { return v.Compare(other) > 0 }

// Bump increments the named primary segment ("major", "minor", or "patch")
// and zeroes every segment after it, leaving Build untouched. This models
// the upstream tool's Version.inc and backs the tilde/caret/X-range upper
// bound computations.
func (v *Version) Bump(segment string) {
	switch segment {
	case "major":
		v.Major++
		v.Minor = 0
		v.Patch = 0
	case "minor":
		v.Minor++
		v.Patch = 0
	case "patch":
		v.Patch++
	}
}

func (v *Version) set(segment string, value int) {
	switch segment {
	case "major":
		v.Major = value
	case "minor":
		v.Minor = value
	case "patch":
		v.Patch = value
	}
}
