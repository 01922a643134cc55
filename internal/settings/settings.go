// Package settings holds the process-wide, read-only configuration consumed by
// the transformation pipeline and the export targets.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for settings operations.
var (
	ErrSettingsNotFound = errors.New("settings file not found")
	ErrSettingsParse    = errors.New("failed to parse settings")
	ErrInvalidSettings  = errors.New("invalid settings")
)

const (
	DefaultSectionPrefix = "#lst:"
	DefaultSectionPath   = "sections"
	DefaultIncludeDepth  = 32
)

// Settings is the complete configuration of a pipeline run.
type Settings struct {
	General General `yaml:"general"`
	Runtime Runtime `yaml:"runtime"`
}

// General holds document-independent settings.
type General struct {
	SectionInclusionPrefix     string            `yaml:"section_inclusion_prefix"`
	SectionPath                string            `yaml:"section_path"`
	SectionIncludeDepth        int               `yaml:"section_include_depth"`
	KeepSiblingsOnIncludeError bool              `yaml:"keep_siblings_on_include_error"`
	InterwikiLinkMapping       map[string]string `yaml:"interwiki_link_mapping"`
}

// Runtime holds the settings of the current build variant.
type Runtime struct {
	TargetName string  `yaml:"target_name"`
	Markers    Markers `yaml:"markers"`
}

type Markers struct {
	Include MarkerSet `yaml:"include"`
	Exclude MarkerSet `yaml:"exclude"`
}

type MarkerSet struct {
	Subtargets []Subtarget `yaml:"subtargets,omitempty"`
}

// Subtarget is a named rule set selecting headings by caption for one build
// variant.
type Subtarget struct {
	Name       string   `yaml:"name"`
	Parameters []string `yaml:"parameters,omitempty"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		General: General{
			SectionInclusionPrefix: DefaultSectionPrefix,
			SectionPath:            DefaultSectionPath,
			SectionIncludeDepth:    DefaultIncludeDepth,
			InterwikiLinkMapping: map[string]string{
				"w:":         "https://de.wikipedia.org/wiki/",
				"wikipedia:": "https://de.wikipedia.org/wiki/",
				"b:":         "https://de.wikibooks.org/wiki/",
				"wikibooks:": "https://de.wikibooks.org/wiki/",
			},
		},
	}
}

// Load reads a YAML settings file on top of the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes settings from YAML, rejecting unknown fields. A configured
// interwiki mapping replaces the default one; its keys are normalized.
func Parse(data []byte) (*Settings, error) {
	s := Default()
	defaults := s.General.InterwikiLinkMapping
	s.General.InterwikiLinkMapping = nil
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrSettingsParse, err)
	}
	if s.General.InterwikiLinkMapping == nil {
		s.General.InterwikiLinkMapping = defaults
	}
	mapping := make(map[string]string, len(s.General.InterwikiLinkMapping))
	for k, v := range s.General.InterwikiLinkMapping {
		mapping[NormalizeName(k)] = v
	}
	s.General.InterwikiLinkMapping = mapping
	s.General.SectionInclusionPrefix = NormalizeName(s.General.SectionInclusionPrefix)
	return s, nil
}

// ApplyEnv overrides settings from MFNF_* environment variables.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv("MFNF_TARGET_NAME"); v != "" {
		s.Runtime.TargetName = v
	}
	if v := os.Getenv("MFNF_SECTION_PATH"); v != "" {
		s.General.SectionPath = v
	}
	if v := os.Getenv("MFNF_SECTION_PREFIX"); v != "" {
		s.General.SectionInclusionPrefix = NormalizeName(v)
	}
}

// Validate checks the settings for values the pipeline cannot work with.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.General.SectionInclusionPrefix) == "" {
		return fmt.Errorf("%w: section_inclusion_prefix must not be empty", ErrInvalidSettings)
	}
	if s.General.SectionIncludeDepth <= 0 {
		return fmt.Errorf("%w: section_include_depth must be positive", ErrInvalidSettings)
	}
	for k := range s.General.InterwikiLinkMapping {
		if !strings.HasSuffix(k, ":") {
			return fmt.Errorf("%w: interwiki prefix %q must end with a colon", ErrInvalidSettings, k)
		}
	}
	for _, st := range s.Runtime.Markers.all() {
		if NormalizeName(st.Name) == "" {
			return fmt.Errorf("%w: subtarget without name", ErrInvalidSettings)
		}
	}
	return nil
}

// Marshal renders the settings as YAML.
func (s *Settings) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NormalizeName trims and lower-cases s for case-insensitive comparison.
// A Caser keeps state between calls, so each call gets its own.
func NormalizeName(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Find returns the subtarget named target, searching include markers
// before exclude markers. include reports which set it came from.
func (m Markers) Find(target string) (st *Subtarget, include bool, ok bool) {
	name := NormalizeName(target)
	for i := range m.Include.Subtargets {
		if NormalizeName(m.Include.Subtargets[i].Name) == name {
			return &m.Include.Subtargets[i], true, true
		}
	}
	for i := range m.Exclude.Subtargets {
		if NormalizeName(m.Exclude.Subtargets[i].Name) == name {
			return &m.Exclude.Subtargets[i], false, true
		}
	}
	return nil, false, false
}

// Matching returns every subtarget of both marker sets named target.
func (m Markers) Matching(target string) []Subtarget {
	name := NormalizeName(target)
	var out []Subtarget
	for _, st := range m.all() {
		if NormalizeName(st.Name) == name {
			out = append(out, st)
		}
	}
	return out
}

func (m Markers) all() []Subtarget {
	out := make([]Subtarget, 0, len(m.Include.Subtargets)+len(m.Exclude.Subtargets))
	out = append(out, m.Include.Subtargets...)
	return append(out, m.Exclude.Subtargets...)
}

// HasParameter reports whether caption is one of the subtarget's headings.
func (st *Subtarget) HasParameter(caption string) bool {
	c := NormalizeName(caption)
	for _, p := range st.Parameters {
		if NormalizeName(p) == c {
			return true
		}
	}
	return false
}
