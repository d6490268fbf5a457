package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangePlain(t *testing.T) {
	rng, err := ParseRange("1.2.3")
	require.NoError(t, err)
	assert.True(t, rng.Contains(mustVersion(t, "1.2.3")))
	assert.False(t, rng.Contains(mustVersion(t, "1.2.4")))

	rng, err = ParseRange(">=1.2.3")
	require.NoError(t, err)
	assert.True(t, rng.Contains(mustVersion(t, "1.2.3")))
	assert.True(t, rng.Contains(mustVersion(t, "9.9.9")))
	assert.False(t, rng.Contains(mustVersion(t, "1.2.2")))
}

func TestParseRangeHyphen(t *testing.T) {
	rng, err := ParseRange("1.2.3 - 2.3.4")
	require.NoError(t, err)
	assert.True(t, rng.Contains(mustVersion(t, "1.2.3")))
	assert.True(t, rng.Contains(mustVersion(t, "2.3.4")))
	assert.False(t, rng.Contains(mustVersion(t, "2.3.5")))

	// partial upper bound excludes its own boundary
	rng, err = ParseRange("1.2.3 - 4.5")
	require.NoError(t, err)
	assert.True(t, rng.Contains(mustVersion(t, "4.4.9")))
	assert.False(t, rng.Contains(mustVersion(t, "4.5.0")))
}

func TestParseRangeTwoComparator(t *testing.T) {
	rng, err := ParseRange(">=1.2.3 <2.0.0")
	require.NoError(t, err)
	assert.True(t, rng.Contains(mustVersion(t, "1.5.0")))
	assert.False(t, rng.Contains(mustVersion(t, "2.0.0")))
	assert.False(t, rng.Contains(mustVersion(t, "1.2.2")))
}

func TestParseRangeXRange(t *testing.T) {
	cases := []struct {
		input    string
		in, out  string
	}{
		{"1.2.x", "1.2.9", "1.3.0"},
		{"1.X", "1.9.9", "2.0.0"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			rng, err := ParseRange(tc.input)
			require.NoError(t, err)
			assert.True(t, rng.Contains(mustVersion(t, tc.in)))
			assert.False(t, rng.Contains(mustVersion(t, tc.out)))
		})
	}

	rng, err := ParseRange("*")
	require.NoError(t, err)
	assert.True(t, rng.Contains(mustVersion(t, "0.0.0")))
	assert.True(t, rng.Contains(mustVersion(t, "999.999.999")))
}

func TestParseRangeTilde(t *testing.T) {
	rng, err := ParseRange("~1.2.3")
	require.NoError(t, err)
	assert.True(t, rng.Contains(mustVersion(t, "1.2.3")))
	assert.True(t, rng.Contains(mustVersion(t, "1.2.9")))
	assert.False(t, rng.Contains(mustVersion(t, "1.3.0")))

	rng, err = ParseRange("~1")
	require.NoError(t, err)
	assert.True(t, rng.Contains(mustVersion(t, "1.9.9")))
	assert.False(t, rng.Contains(mustVersion(t, "2.0.0")))
}

func TestParseRangeCaret(t *testing.T) {
	cases := []struct {
		input   string
		in, out string
	}{
		{"^1.2.3", "1.9.9", "2.0.0"},
		{"^0.2.3", "0.2.9", "0.3.0"},
		{"^0.0.3", "0.0.3", "0.0.4"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			rng, err := ParseRange(tc.input)
			require.NoError(t, err)
			assert.True(t, rng.Contains(mustVersion(t, tc.in)))
			assert.False(t, rng.Contains(mustVersion(t, tc.out)))
		})
	}
}

func TestVersionRangeIntersectionCommutativeAndIdempotent(t *testing.T) {
	a, err := ParseRange(">=1.0.0 <3.0.0")
	require.NoError(t, err)
	b, err := ParseRange(">=2.0.0 <4.0.0")
	require.NoError(t, err)

	ab := a.Intersection(b)
	ba := b.Intersection(a)

	for _, v := range []string{"0.9.0", "1.5.0", "2.5.0", "3.5.0", "4.0.0"} {
		assert.Equal(t, ab.Contains(mustVersion(t, v)), ba.Contains(mustVersion(t, v)))
	}

	aa := a.Intersection(a)
	for _, v := range []string{"0.9.0", "1.5.0", "2.9.9", "3.0.0"} {
		assert.Equal(t, a.Contains(mustVersion(t, v)), aa.Contains(mustVersion(t, v)))
	}
}

func TestVersionRangeIntersectionEmpty(t *testing.T) {
	a, err := ParseRange(">=2.0.0")
	require.NoError(t, err)
	b, err := ParseRange("<1.0.0")
	require.NoError(t, err)

	rng := a.Intersection(b)
	assert.True(t, rng.Empty)
	assert.False(t, rng.Contains(mustVersion(t, "1.5.0")))
}

func TestVersionRangeIntersectionNarrowing(t *testing.T) {
	a, err := ParseRange("^1.2.3")
	require.NoError(t, err)
	b, err := ParseRange("~1.2.3")
	require.NoError(t, err)

	rng := a.Intersection(b)
	assert.True(t, rng.Contains(mustVersion(t, "1.2.5")))
	assert.False(t, rng.Contains(mustVersion(t, "1.3.0")))
}

func TestParseRangeInvalid(t *testing.T) {
	_, err := ParseRange("not-a-version")
	assert.Error(t, err)
}
