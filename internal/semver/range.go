package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// VersionRange is a normalized (lower, upper) comparator pair. Either side
// may be nil, meaning unbounded on that side. Empty marks a range that can
// never be satisfied, produced when an intersection is inconsistent.
type VersionRange struct {
	Lower *Comparator
	Upper *Comparator
	Empty bool
}

func (r VersionRange) String() string {
	if r.Empty {
		return "<empty range>"
	}
	switch {
	case r.Lower != nil && r.Upper != nil:
		return r.Lower.String() + " " + r.Upper.String()
	case r.Lower != nil:
		return r.Lower.String()
	case r.Upper != nil:
		return r.Upper.String()
	default:
		return "*"
	}
}

// Contains reports whether v falls within the range.
func (r VersionRange) Contains(v Version) bool {
	if r.Empty {
		return false
	}
	if r.Lower != nil && !r.Lower.Satisfies(v) {
		return false
	}
	if r.Upper != nil && !r.Upper.Satisfies(v) {
		return false
	}
	return true
}

// Intersection combines two ranges into the tightest range satisfying both,
// by independently tightening the lower bounds against each other and the
// upper bounds against each other, then checking the combined pair is still
// consistent.
func (r VersionRange) Intersection(other VersionRange) VersionRange {
	if r.Empty || other.Empty {
		return VersionRange{Empty: true}
	}

	lower, ok := combineBound(r.Lower, other.Lower, 1)
	if !ok {
		return VersionRange{Empty: true}
	}
	upper, ok := combineBound(r.Upper, other.Upper, -1)
	if !ok {
		return VersionRange{Empty: true}
	}

	if lower != nil && upper != nil {
		if !(lower.Satisfies(upper.Version) && upper.Satisfies(lower.Version)) {
			return VersionRange{Empty: true}
		}
	}

	return VersionRange{Lower: lower, Upper: upper}
}

func combineBound(a, b *Comparator, direction int) (*Comparator, bool) {
	if a == nil {
		return b, true
	}
	if b == nil {
		return a, true
	}
	rng, ok := a.Intersect(*b)
	if !ok {
		return nil, false
	}
	if direction > 0 {
		return rng.Lower, true
	}
	return rng.Upper, true
}

// ParseRange parses a version-range literal using one of five grammars,
// dispatched in order: a hyphen range ("A - B"), an explicit two-comparator
// range ("<op>A <op>B", detected by a bare space), an X-range ("1.2.x",
// "1.X", "*"), a tilde range ("~1.2.3"), a caret range ("^1.2.3"), and
// finally a plain comparator or bare version.
func ParseRange(s string) (VersionRange, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return VersionRange{}, newParseError(s, fmt.Errorf("empty range"))
	}

	if strings.Contains(trimmed, " - ") {
		return parseHyphenRange(trimmed)
	}
	if strings.Contains(trimmed, " ") {
		return parseTwoComparatorRange(trimmed)
	}
	if hasWildcardSegment(trimmed) {
		return parseXRange(trimmed)
	}
	if strings.HasPrefix(trimmed, "~") {
		return parseTildeRange(trimmed)
	}
	if strings.HasPrefix(trimmed, "^") {
		return parseCaretRange(trimmed)
	}
	return parsePlainRange(trimmed)
}

func hasWildcardSegment(s string) bool {
	for _, seg := range strings.Split(s, ".") {
		if seg == "*" || seg == "x" || seg == "X" {
			return true
		}
	}
	return false
}

// parseHyphenRange parses "A - B" into (>=A, <=B), or (>=A, <B) when B is
// partial (omits minor or patch), matching the upper bound to the precision
// the author actually wrote.
func parseHyphenRange(s string) (VersionRange, error) {
	parts := strings.SplitN(s, " - ", 2)
	if len(parts) != 2 {
		return VersionRange{}, newParseError(s, fmt.Errorf("malformed hyphen range"))
	}

	lower, err := ParseVersion(parts[0])
	if err != nil {
		return VersionRange{}, err
	}
	upper, err := ParseVersion(parts[1])
	if err != nil {
		return VersionRange{}, err
	}

	upperOp := "<="
	if upper.Partial {
		upperOp = "<"
	}

	lowerComp := Comparator{Op: ">=", Version: lower}
	upperComp := Comparator{Op: upperOp, Version: upper}
	return VersionRange{Lower: &lowerComp, Upper: &upperComp}, nil
}

// parseTwoComparatorRange parses "<op>A <op>B" — two explicit comparators
// separated by whitespace, the first giving the lower bound and the second
// the upper bound.
func parseTwoComparatorRange(s string) (VersionRange, error) {
	parts := strings.SplitN(s, " ", 2)
	if len(parts) != 2 {
		return VersionRange{}, newParseError(s, fmt.Errorf("malformed two-comparator range"))
	}

	lower, err := ParseComparator(strings.TrimSpace(parts[0]))
	if err != nil {
		return VersionRange{}, err
	}
	upper, err := ParseComparator(strings.TrimSpace(parts[1]))
	if err != nil {
		return VersionRange{}, err
	}

	return VersionRange{Lower: &lower, Upper: &upper}, nil
}

// parseXRange parses "1.2.x", "1.X", or "*" into (>=prefix.0, <prefix+1.0),
// where prefix is everything before the wildcard segment. A lone "*" has no
// upper bound at all.
func parseXRange(s string) (VersionRange, error) {
	segments := strings.Split(s, ".")
	fields := []string{"major", "minor", "patch"}

	var lower, upper Version
	var previous string
	fieldIdx := 0

	for _, seg := range segments {
		if seg == "*" || seg == "x" || seg == "X" {
			lowerComp := Comparator{Op: ">=", Version: lower}
			if previous == "" {
				return VersionRange{Lower: &lowerComp}, nil
			}
			upper.Bump(previous)
			upperComp := Comparator{Op: "<", Version: upper}
			return VersionRange{Lower: &lowerComp, Upper: &upperComp}, nil
		}

		if fieldIdx >= len(fields) {
			return VersionRange{}, newParseError(s, fmt.Errorf("too many segments"))
		}

		n, err := strconv.Atoi(seg)
		if err != nil {
			return VersionRange{}, newParseError(s, fmt.Errorf("segment %q: %w", seg, err))
		}

		field := fields[fieldIdx]
		lower.set(field, n)
		upper.set(field, n)
		previous = field
		fieldIdx++
	}

	return VersionRange{}, newParseError(s, fmt.Errorf("no wildcard segment found"))
}

// parseTildeRange parses "~A" into (>=A, <bump_minor(A)) when A's minor or
// patch is nonzero, otherwise (>=A, <bump_major(A)); "~1.0.0" therefore
// gives the same range as "~1".
func parseTildeRange(s string) (VersionRange, error) {
	v, err := ParseVersion(strings.TrimPrefix(s, "~"))
	if err != nil {
		return VersionRange{}, err
	}

	lower := Comparator{Op: ">=", Version: v}
	upper := v
	if upper.Minor != 0 || upper.Patch != 0 {
		upper.Bump("minor")
	} else {
		upper.Bump("major")
	}
	upperComp := Comparator{Op: "<", Version: upper}

	return VersionRange{Lower: &lower, Upper: &upperComp}, nil
}

// parseCaretRange parses "^A" into (>=A, <bump_first_nonzero(A)): the upper
// bound increments the leftmost nonzero segment of A and zeroes the rest.
func parseCaretRange(s string) (VersionRange, error) {
	v, err := ParseVersion(strings.TrimPrefix(s, "^"))
	if err != nil {
		return VersionRange{}, err
	}

	lower := Comparator{Op: ">=", Version: v}

	var upper Version
	switch {
	case v.Major != 0:
		upper.Major = v.Major + 1
	case v.Minor != 0:
		upper.Minor = v.Minor + 1
	case v.Patch != 0:
		upper.Patch = v.Patch + 1
	default:
		upper.Patch = 1
	}
	upperComp := Comparator{Op: "<", Version: upper}

	return VersionRange{Lower: &lower, Upper: &upperComp}, nil
}

// parsePlainRange parses a single comparator or bare version. A bare version
// (or explicit "=") becomes a degenerate range pinned at that version; any
// other operator becomes a one-sided range: "<"/"<=" fill the upper bound,
// ">"/">=" the lower bound.
func parsePlainRange(s string) (VersionRange, error) {
	c, err := ParseComparator(s)
	if err != nil {
		return VersionRange{}, err
	}
	if c.Op == "=" {
		pin := c
		return VersionRange{Lower: &pin, Upper: &pin}, nil
	}
	if c.Direction() < 0 {
		return VersionRange{Upper: &c}, nil
	}
	return VersionRange{Lower: &c}, nil
}
