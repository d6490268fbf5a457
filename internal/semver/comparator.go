package semver

import "strings"

// Comparator is a single operator/version pair such as ">=1.2.3". Satisfies
// evaluates the operator with the candidate version on the left and the
// comparator's version on the right: c.Satisfies(v) means "v OP c.Version".
type Comparator struct {
	Op      string // one of "<", "<=", "=", ">", ">="
	Version Version
}

// ParseComparator parses an optional operator prefix followed by a version
// literal. No prefix is equivalent to "=".
func ParseComparator(s string) (Comparator, error) {
	trimmed := strings.TrimSpace(s)

	for _, op := range []string{"<=", ">=", "<", ">"} {
		if strings.HasPrefix(trimmed, op) {
			v, err := ParseVersion(strings.TrimPrefix(trimmed, op))
			if err != nil {
				return Comparator{}, err
			}
			return Comparator{Op: op, Version: v}, nil
		}
	}

	v, err := ParseVersion(trimmed)
	if err != nil {
		return Comparator{}, err
	}
	return Comparator{Op: "=", Version: v}, nil
}

func (c Comparator) String() string {
	return c.Op + c.Version.String()
}

// Satisfies reports whether v satisfies the comparator.
func (c Comparator) Satisfies(v Version) bool {
	cmp := v.Compare(c.Version)
	switch c.Op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case "=":
		return cmp == 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}

// Direction classifies the comparator as an upper bound (-1, "<"/"<="), an
// exact pin (0, "="), or a lower bound (+1, ">"/">=").
func (c Comparator) Direction() int {
	switch c.Op {
	case "<", "<=":
		return -1
	case ">", ">=":
		return 1
	default:
		return 0
	}
}

// isStrict reports whether the comparator excludes its own boundary version.
func (c Comparator) isStrict() bool {
	return c.Op == "<" || c.Op == ">"
}

// Intersect computes the intersection of two comparators, each read as an
// independent constraint. It returns the resulting range and whether the
// intersection is non-empty.
//
// Three cases, per the version algebra this package implements:
//  1. Either side is an exact pin "=V": the intersection is non-empty only if
//     the other comparator is satisfied by V, in which case the result is the
//     degenerate range pinned at V.
//  2. Both sides point the same direction (both upper bounds or both lower
//     bounds): the tighter of the two wins, provided the looser one is still
//     satisfied at the tighter one's version — otherwise the pair is
//     inconsistent and the intersection is empty. Two identical comparators
//     always intersect to that comparator.
//  3. The sides point opposite directions (one lower, one upper): the
//     intersection is the two-sided range (lower, upper), provided each
//     comparator is satisfied by the other's version.
func (c Comparator) Intersect(other Comparator) (VersionRange, bool) {
	if c.Op == "=" {
		if other.Satisfies(c.Version) {
			pin := c
			return VersionRange{Lower: &pin, Upper: &pin}, true
		}
		return VersionRange{}, false
	}
	if other.Op == "=" {
		return other.Intersect(c)
	}

	cd, od := c.Direction(), other.Direction()

	if cd == od {
		var tighter, looser Comparator
		if cd < 0 {
			tighter, looser = tighterUpper(c, other)
		} else {
			tighter, looser = tighterLower(c, other)
		}
		identical := looser.Op == tighter.Op && looser.Version.Equal(tighter.Version)
		if !identical && !looser.Satisfies(tighter.Version) {
			return VersionRange{}, false
		}
		if cd < 0 {
			return VersionRange{Upper: &tighter}, true
		}
		return VersionRange{Lower: &tighter}, true
	}

	var lower, upper Comparator
	if cd > 0 {
		lower, upper = c, other
	} else {
		lower, upper = other, c
	}
	if lower.Satisfies(upper.Version) && upper.Satisfies(lower.Version) {
		return VersionRange{Lower: &lower, Upper: &upper}, true
	}
	return VersionRange{}, false
}

// tighterUpper picks the stricter of two upper-bound comparators: the smaller
// version wins, and a strict "<" beats a "<=" at the same version.
func tighterUpper(a, b Comparator) (tighter, looser Comparator) {
	switch a.Version.Compare(b.Version) {
	case -1:
		return a, b
	case 1:
		return b, a
	default:
		if a.isStrict() {
			return a, b
		}
		return b, a
	}
}

// tighterLower picks the stricter of two lower-bound comparators: the larger
// version wins, and a strict ">" beats a ">=" at the same version.
func tighterLower(a, b Comparator) (tighter, looser Comparator) {
	switch a.Version.Compare(b.Version) {
	case 1:
		return a, b
	case -1:
		return b, a
	default:
		if a.isStrict() {
			return a, b
		}
		return b, a
	}
}
