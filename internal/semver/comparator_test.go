package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVersion(t *testing.T, s string) Version {
	t.Helper()
	v, err := ParseVersion(s)
	require.NoError(t, err)
	return v
}

func TestComparatorSatisfies(t *testing.T) {
	cases := []struct {
		comparator string
		version    string
		want       bool
	}{
		{">=1.2.3", "1.2.3", true},
		{">=1.2.3", "1.2.2", false},
		{">1.2.3", "1.2.3", false},
		{">1.2.3", "1.2.4", true},
		{"<=1.2.3", "1.2.3", true},
		{"<1.2.3", "1.2.3", false},
		{"=1.2.3", "1.2.3", true},
		{"=1.2.3", "1.2.4", false},
	}

	for _, tc := range cases {
		t.Run(tc.comparator+"@"+tc.version, func(t *testing.T) {
			c, err := ParseComparator(tc.comparator)
			require.NoError(t, err)
			v := mustVersion(t, tc.version)
			assert.Equal(t, tc.want, c.Satisfies(v))
		})
	}
}

func TestComparatorIntersectPin(t *testing.T) {
	c1, err := ParseComparator("=1.2.3")
	require.NoError(t, err)
	c2, err := ParseComparator(">=1.0.0")
	require.NoError(t, err)

	rng, ok := c1.Intersect(c2)
	require.True(t, ok)
	assert.True(t, rng.Contains(mustVersion(t, "1.2.3")))
	assert.False(t, rng.Contains(mustVersion(t, "1.2.4")))

	c3, err := ParseComparator(">=2.0.0")
	require.NoError(t, err)
	_, ok = c1.Intersect(c3)
	assert.False(t, ok)
}

func TestComparatorIntersectSameDirection(t *testing.T) {
	lower1, err := ParseComparator(">=1.0.0")
	require.NoError(t, err)
	lower2, err := ParseComparator(">1.5.0")
	require.NoError(t, err)

	rng, ok := lower1.Intersect(lower2)
	require.True(t, ok)
	assert.False(t, rng.Contains(mustVersion(t, "1.5.0")))
	assert.True(t, rng.Contains(mustVersion(t, "1.5.1")))
}

func TestComparatorIntersectOppositeDirection(t *testing.T) {
	lower, err := ParseComparator(">=1.0.0")
	require.NoError(t, err)
	upper, err := ParseComparator("<2.0.0")
	require.NoError(t, err)

	rng, ok := lower.Intersect(upper)
	require.True(t, ok)
	assert.True(t, rng.Contains(mustVersion(t, "1.5.0")))
	assert.False(t, rng.Contains(mustVersion(t, "2.0.0")))
}

// TestComparatorIntersectStrictTie covers the degenerate case where two
// strict comparators bracket the exact same version from opposite sides:
// neither is satisfied by the other's boundary, so the pair is empty.
func TestComparatorIntersectStrictTie(t *testing.T) {
	lower, err := ParseComparator(">1.2.3")
	require.NoError(t, err)
	upper, err := ParseComparator("<1.2.3")
	require.NoError(t, err)

	_, ok := lower.Intersect(upper)
	assert.False(t, ok)
}

func TestComparatorIntersectCommutative(t *testing.T) {
	a, err := ParseComparator(">=1.0.0")
	require.NoError(t, err)
	b, err := ParseComparator("<2.0.0")
	require.NoError(t, err)

	ab, okAB := a.Intersect(b)
	ba, okBA := b.Intersect(a)

	require.Equal(t, okAB, okBA)
	require.True(t, okAB)
	for _, v := range []string{"0.9.0", "1.0.0", "1.5.0", "2.0.0"} {
		assert.Equal(t, ab.Contains(mustVersion(t, v)), ba.Contains(mustVersion(t, v)))
	}
}
