// Package depgraph accumulates version-range constraints per package name
// and resolves each name to the tightest range consistent with every
// constraint added for it.
package depgraph

import "github.com/go-pym/pym/internal/semver"

// Graph maps a package name to every range literal contributed for it
// across the packages currently being installed.
type Graph struct {
	ranges map[string][]semver.VersionRange
}

// New returns an empty dependency graph.
func New() *Graph {
	return &Graph{ranges: make(map[string][]semver.VersionRange)}
}

// Add parses rangeLiteral and appends it to name's constraint list. A
// malformed literal propagates as a *semver.ParseError.
func (g *Graph) Add(name, rangeLiteral string) error {
	rng, err := semver.ParseRange(rangeLiteral)
	if err != nil {
		return err
	}
	g.ranges[name] = append(g.ranges[name], rng)
	return nil
}

// Names returns every package name with at least one constraint. The order
// of the returned names is not defined.
func (g *Graph) Names() []string {
	seen := make(map[string]bool, len(g.ranges))
	var names []string
	for name := range g.ranges {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Resolve left-folds VersionRange.Intersection over every name's
// constraint list, producing the tightest composite range per name. A name
// whose constraints are mutually inconsistent resolves to an Empty range
// rather than an error — callers decide whether that is fatal.
func (g *Graph) Resolve() map[string]semver.VersionRange {
	resolved := make(map[string]semver.VersionRange, len(g.ranges))
	for name, ranges := range g.ranges {
		resolved[name] = resolveOne(ranges)
	}
	return resolved
}

func resolveOne(ranges []semver.VersionRange) semver.VersionRange {
	if len(ranges) == 0 {
		return semver.VersionRange{}
	}
	acc := ranges[0]
	for _, r := range ranges[1:] {
		acc = acc.Intersection(r)
	}
	return acc
}
