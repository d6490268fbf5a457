package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitCanInstallReference(t *testing.T) {
	g := &Git{}

	cases := []struct {
		reference string
		wantOK    bool
		wantName  string
	}{
		{"https://github.com/tornadoweb/tornado.git#v6.0.0", true, "tornado"},
		{"git+https://example.com/foo#main", true, "foo"},
		{"requests@2.31.0", false, ""},
	}

	for _, tc := range cases {
		info, ok := g.CanInstallReference(tc.reference)
		assert.Equal(t, tc.wantOK, ok, tc.reference)
		if tc.wantOK {
			assert.Equal(t, tc.wantName, info.Name)
		}
	}
}

func TestIndexAcceptsAnyReference(t *testing.T) {
	idx := &Index{BaseURL: "https://index.example.com"}

	info, ok := idx.CanInstallReference("requests@2.31.0")
	require.True(t, ok)
	assert.Equal(t, "requests", info.Name)
	assert.Equal(t, "2.31.0", info.Version)

	info, ok = idx.CanInstallReference("pypi+flask@^2.0.0")
	require.True(t, ok)
	assert.Equal(t, "flask", info.Name)
	assert.Equal(t, "^2.0.0", info.Version)
}

func TestDispatchReferencePrefersEarlierInstaller(t *testing.T) {
	installers := []Installer{&Git{}, &Index{BaseURL: "https://index.example.com"}}

	inst, info, err := DispatchReference(installers, "https://github.com/tornadoweb/tornado.git#v6.0.0")
	require.NoError(t, err)
	assert.IsType(t, &Git{}, inst)
	assert.Equal(t, "tornado", info.Name)

	inst, info, err = DispatchReference(installers, "requests@2.31.0")
	require.NoError(t, err)
	assert.IsType(t, &Index{}, inst)
	assert.Equal(t, "requests", info.Name)
}

func TestStripTrailingZeroSegment(t *testing.T) {
	v, ok := stripTrailingZeroSegment("1.2.0")
	assert.True(t, ok)
	assert.Equal(t, "1.2", v)

	_, ok = stripTrailingZeroSegment("1.2.3")
	assert.False(t, ok)
}

func TestSplitRequirement(t *testing.T) {
	name, literal, ok := splitRequirement("foo (>=1.0.0,<2.0.0)")
	require.True(t, ok)
	assert.Equal(t, "foo", name)
	assert.Equal(t, ">=1.0.0 <2.0.0", literal)

	name, literal, ok = splitRequirement("bar")
	require.True(t, ok)
	assert.Equal(t, "bar", name)
	assert.Equal(t, "", literal)
}
