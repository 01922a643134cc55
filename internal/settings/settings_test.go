package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OverridesDefaults(t *testing.T) {
	s, err := Parse([]byte(`
general:
  section_inclusion_prefix: "#LST:"
  interwiki_link_mapping:
    "Wikipedia:": "https://en.wikipedia.org/wiki/"
runtime:
  target_name: print
  markers:
    include:
      subtargets:
        - name: print
          parameters: [Intro]
`))
	require.NoError(t, err)

	assert.Equal(t, "#lst:", s.General.SectionInclusionPrefix)
	assert.Equal(t, DefaultSectionPath, s.General.SectionPath)
	assert.Equal(t, "https://en.wikipedia.org/wiki/", s.General.InterwikiLinkMapping["wikipedia:"])
	assert.Equal(t, "print", s.Runtime.TargetName)
	require.Len(t, s.Runtime.Markers.Include.Subtargets, 1)
	assert.Equal(t, []string{"Intro"}, s.Runtime.Markers.Include.Subtargets[0].Parameters)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("general:\n  bogus: 1\n"))
	assert.ErrorIs(t, err, ErrSettingsParse)
}

func TestParse_EmptyDocumentYieldsDefaults(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSectionPrefix, s.General.SectionInclusionPrefix)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfnf.yml")
	require.NoError(t, os.WriteFile(path, []byte("runtime:\n  target_name: web\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "web", s.Runtime.TargetName)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MFNF_TARGET_NAME", "print")
	t.Setenv("MFNF_SECTION_PATH", "/srv/sections")
	t.Setenv("MFNF_SECTION_PREFIX", " #Include: ")

	s := Default()
	s.ApplyEnv()

	assert.Equal(t, "print", s.Runtime.TargetName)
	assert.Equal(t, "/srv/sections", s.General.SectionPath)
	assert.Equal(t, "#include:", s.General.SectionInclusionPrefix)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	s := Default()
	s.General.SectionInclusionPrefix = "  "
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	s = Default()
	s.General.InterwikiLinkMapping["nocolon"] = "https://x/"
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	s = Default()
	s.General.SectionIncludeDepth = 0
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "print", NormalizeName("  PRINT "))
	assert.Equal(t, "ärger", NormalizeName("ÄRGER"))
}

func TestMarkers_FindPrefersInclude(t *testing.T) {
	m := Markers{
		Include: MarkerSet{Subtargets: []Subtarget{{Name: "Print", Parameters: []string{"A"}}}},
		Exclude: MarkerSet{Subtargets: []Subtarget{{Name: "print", Parameters: []string{"B"}}, {Name: "web"}}},
	}

	st, include, ok := m.Find(" print ")
	require.True(t, ok)
	assert.True(t, include)
	assert.Equal(t, []string{"A"}, st.Parameters)

	st, include, ok = m.Find("WEB")
	require.True(t, ok)
	assert.False(t, include)
	assert.Equal(t, "web", st.Name)

	_, _, ok = m.Find("other")
	assert.False(t, ok)

	assert.Len(t, m.Matching("print"), 2)
}

func TestSubtarget_HasParameter(t *testing.T) {
	st := Subtarget{Name: "print", Parameters: []string{" Intro "}}
	assert.True(t, st.HasParameter("intro"))
	assert.False(t, st.HasParameter("Details"))
}

func TestMarshal_RoundTrips(t *testing.T) {
	s := Default()
	s.Runtime.TargetName = "print"

	data, err := s.Marshal()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, s, again)
}
