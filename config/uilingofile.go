// Package config — .uilingo.yaml configuration file support.
//
// When a .uilingo.yaml file exists in the project root, its settings
// override auto-detection. Unset fields keep their detected values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UilingoFileName is the default config file name.
const UilingoFileName = ".uilingo.yaml"

// UilingoFile is the top-level .uilingo.yaml structure.
type UilingoFile struct {
	// Languages are target language codes for translation runs.
	Languages []string `yaml:"languages,omitempty"`
	// SourceLang is the source language code (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Framework overrides detection: react, vue, angular.
	Framework string `yaml:"framework,omitempty"`
	// LocalesPath overrides the resource file path relative to root.
	LocalesPath string `yaml:"locales_path,omitempty"`
	// SourceDirs overrides the directories scanned for UI files.
	SourceDirs []string `yaml:"source_dirs,omitempty"`
	// ExcludeDirs adds directory names to the scan skip list.
	ExcludeDirs []string `yaml:"exclude_dirs,omitempty"`
}

// LoadUilingoFile loads and validates .uilingo.yaml from the given
// directory. Returns nil if no .uilingo.yaml exists.
func LoadUilingoFile(rootDir string) (*UilingoFile, error) {
	path := filepath.Join(rootDir, UilingoFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var uf UilingoFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if uf.Framework != "" {
		switch Framework(uf.Framework) {
		case FrameworkReact, FrameworkVue, FrameworkAngular:
		default:
			return nil, fmt.Errorf("%s: unknown framework %q (valid: react, vue, angular)", path, uf.Framework)
		}
	}

	return &uf, nil
}

// Save writes the config file to the project root.
func (uf *UilingoFile) Save(rootDir string) error {
	data, err := yaml.Marshal(uf)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(rootDir, UilingoFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// apply overlays the file's settings onto a detected project.
func (uf *UilingoFile) apply(p *Project) {
	if uf.SourceLang != "" {
		p.SourceLang = uf.SourceLang
	}
	if uf.Framework != "" {
		p.Framework = Framework(uf.Framework)
	}
	if uf.LocalesPath != "" {
		p.LocalesPath = uf.LocalesPath
	}
	if len(uf.SourceDirs) > 0 {
		p.SourceDirs = uf.SourceDirs
	}
	if len(uf.ExcludeDirs) > 0 {
		p.ExcludeDirs = uf.ExcludeDirs
	}
	if len(uf.Languages) > 0 {
		p.Languages = uf.Languages
	}
}
