// Package config implements auto-detection of web UI project settings:
// framework, source directories, and the localization resource path.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/uilingo/uilingo/resource"
)

// Framework identifies the UI framework a project is built with.
type Framework string

const (
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
	FrameworkUnknown Framework = "unknown"
)

// DefaultLocalesPath is where the localization resource is created for
// projects that don't have one yet.
const DefaultLocalesPath = "src/i18n/locales.json"

// localesCandidates are the paths probed for an existing resource,
// relative to the project root, most specific first.
var localesCandidates = []string{
	"src/i18n/locales.json",
	"src/locales/locales.json",
	"src/locales.json",
	"i18n/locales.json",
	"locales.json",
}

// Project holds auto-detected project configuration.
type Project struct {
	// Root is the absolute project root directory.
	Root string
	// Name is the project name (from package.json, falls back to the
	// directory name).
	Name string
	// Framework is the detected UI framework.
	Framework Framework
	// SourceDirs are directories to scan for translatable UI files,
	// relative to Root.
	SourceDirs []string
	// LocalesPath is the localization resource path relative to Root.
	LocalesPath string
	// SourceLang is the source language code (default "en").
	SourceLang string
	// Languages found in the existing resource file.
	Languages []string
	// ExcludeDirs are directory names skipped while scanning.
	ExcludeDirs []string
}

// AbsLocalesPath returns the absolute resource file path.
func (p *Project) AbsLocalesPath() string {
	return filepath.Join(p.Root, p.LocalesPath)
}

// Detect inspects a project directory and returns its configuration.
// A .uilingo.yaml file, when present, overrides every detected value it
// sets. Detection never fails: unknowns stay at their defaults.
func Detect(rootDir string) (*Project, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	p := &Project{
		Root:        absRoot,
		Name:        filepath.Base(absRoot),
		Framework:   FrameworkUnknown,
		LocalesPath: DefaultLocalesPath,
		SourceLang:  "en",
	}

	if name, deps := readPackageJSON(absRoot); name != "" || deps != nil {
		if name != "" {
			p.Name = name
		}
		p.Framework = frameworkFromDeps(deps)
	}
	if p.Framework == FrameworkUnknown {
		p.Framework = frameworkFromExtensions(absRoot)
	}

	p.SourceDirs = detectSourceDirs(absRoot)

	for _, candidate := range localesCandidates {
		if _, err := os.Stat(filepath.Join(absRoot, candidate)); err == nil {
			p.LocalesPath = candidate
			break
		}
	}

	if r, err := resource.Load(p.AbsLocalesPath()); err == nil {
		p.Languages = r.Languages()
	}

	uf, err := LoadUilingoFile(absRoot)
	if err != nil {
		return nil, err
	}
	if uf != nil {
		uf.apply(p)
	}

	return p, nil
}

// readPackageJSON returns the project name and the merged dependency
// set from package.json, or zero values if the file is absent or
// malformed.
func readPackageJSON(rootDir string) (string, map[string]string) {
	data, err := os.ReadFile(filepath.Join(rootDir, "package.json"))
	if err != nil {
		return "", nil
	}

	var pkg struct {
		Name            string            `json:"name"`
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", nil
	}

	deps := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for k, v := range pkg.Dependencies {
		deps[k] = v
	}
	for k, v := range pkg.DevDependencies {
		deps[k] = v
	}
	return pkg.Name, deps
}

func frameworkFromDeps(deps map[string]string) Framework {
	switch {
	case deps == nil:
		return FrameworkUnknown
	case deps["@angular/core"] != "":
		return FrameworkAngular
	case deps["vue"] != "":
		return FrameworkVue
	case deps["react"] != "":
		return FrameworkReact
	default:
		return FrameworkUnknown
	}
}

// frameworkFromExtensions falls back to file extensions when
// package.json gives no answer: .vue wins, then .jsx/.tsx.
func frameworkFromExtensions(rootDir string) Framework {
	var jsx, vue int
	filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if isSkippedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".vue":
			vue++
		case ".jsx", ".tsx":
			jsx++
		}
		return nil
	})
	switch {
	case vue > 0:
		return FrameworkVue
	case jsx > 0:
		return FrameworkReact
	default:
		return FrameworkUnknown
	}
}

// detectSourceDirs picks the conventional source directories that exist.
func detectSourceDirs(rootDir string) []string {
	var dirs []string
	for _, d := range []string{"src", "app", "components", "pages"} {
		if info, err := os.Stat(filepath.Join(rootDir, d)); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	return dirs
}

// defaultSkipDirs are never scanned.
var defaultSkipDirs = []string{
	"node_modules", ".git", ".svn", "dist", "build", "out",
	".next", ".nuxt", ".angular", "coverage", "vendor",
}

func isSkippedDir(name string) bool {
	for _, d := range defaultSkipDirs {
		if name == d {
			return true
		}
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// SkipDirs returns the effective skip list for a project: the built-in
// set plus any configured exclusions.
func (p *Project) SkipDirs() []string {
	out := make([]string, 0, len(defaultSkipDirs)+len(p.ExcludeDirs))
	out = append(out, defaultSkipDirs...)
	out = append(out, p.ExcludeDirs...)
	return out
}
