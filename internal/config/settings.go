package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the on-disk driver configuration read by LoadSettings and
// installed by Apply; cmd/funxyfront calls neither. Zero-value Settings leave
// the package-level defaults in constants.go unchanged.
type Settings struct {
	SourceExtensions []string `yaml:"sourceExtensions"`
	StrictKinds      bool     `yaml:"strictKinds"`
	LongDiagnostics  bool     `yaml:"longDiagnostics"`
}

// LoadSettings reads a YAML settings file at path. A missing file is not an
// error — it returns the zero Settings, and Apply leaves the package defaults
// untouched.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// Apply installs non-zero fields of s as the active package-level configuration.
func Apply(s Settings) {
	if len(s.SourceExtensions) > 0 {
		SourceFileExtensions = s.SourceExtensions
	}
	if s.StrictKinds {
		StrictKinds = true
	}
	if s.LongDiagnostics {
		LongDiagnostics = true
	}
}
