package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile overrides filtering options for one tag. Nil numeric fields
// mean "not set here"; empty keyword lists inherit.
type Profile struct {
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
	MinClaps *int     `yaml:"minClaps"`
	Limit    *int     `yaml:"limit"`
}

// ProfileFile is the yaml tag-profile document: file-wide defaults
// plus per-tag overrides.
type ProfileFile struct {
	Defaults Profile            `yaml:"defaults"`
	Tags     map[string]Profile `yaml:"tags"`
}

// LoadProfiles reads the profile file at path. An empty path or a
// missing file yields (nil, nil); a file that exists but does not
// parse is an error.
func LoadProfiles(path string) (*ProfileFile, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var pf ProfileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}
	return &pf, nil
}

// Resolve merges the file defaults with the tag's own profile, the
// tag winning field by field. A nil receiver resolves to an empty
// profile so callers need not branch on whether a file was loaded.
func (pf *ProfileFile) Resolve(tag string) Profile {
	if pf == nil {
		return Profile{}
	}

	merged := pf.Defaults
	tagProfile, ok := pf.Tags[tag]
	if !ok {
		return merged
	}

	if len(tagProfile.Include) > 0 {
		merged.Include = tagProfile.Include
	}
	if len(tagProfile.Exclude) > 0 {
		merged.Exclude = tagProfile.Exclude
	}
	if tagProfile.MinClaps != nil {
		merged.MinClaps = tagProfile.MinClaps
	}
	if tagProfile.Limit != nil {
		merged.Limit = tagProfile.Limit
	}
	return merged
}
