// Package uifix applies language-responsive styling fixes to a scanned
// UI project: it generates an i18n-adaptive.css stylesheet with
// per-language font-size adjustments for expansion-prone locales and
// imports it from the project's entry file.
//
// The per-language rules are scoped to text-bearing controls (buttons,
// labels, inputs, selects) under the document's [lang] attribute, so
// they take effect without any markup changes. The lang-adaptive class
// is an opt-in hook for any other element carrying translated text.
//
// Every patched source file is backed up first. The pass is idempotent:
// a file that already imports the stylesheet is left alone.
package uifix

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/uilingo/uilingo/config"
	"github.com/uilingo/uilingo/resource"
)

// CSSFileName is the generated stylesheet, written next to the
// localization resource.
const CSSFileName = "i18n-adaptive.css"

// langScale maps expansion-prone language codes to a font-size factor.
// German and Russian routinely run 20-35% longer than English; the
// slight reduction keeps fixed-width buttons and labels from clipping.
var langScale = map[string]string{
	"de": "0.92",
	"ru": "0.94",
	"fi": "0.94",
	"fr": "0.96",
	"es": "0.96",
	"pt": "0.96",
	"pl": "0.94",
	"hu": "0.94",
}

// Report summarizes what a styling pass changed.
type Report struct {
	// CSSPath is the generated stylesheet path.
	CSSPath string
	// Patched are files that received the stylesheet import.
	Patched []string
	// AlreadyPatched are files skipped because the import was present.
	AlreadyPatched []string
}

// Apply generates the stylesheet for the given target languages and
// injects its import into the project's entry file. Safe to run
// repeatedly.
func Apply(proj *config.Project, langs []string) (*Report, error) {
	cssDir := filepath.Dir(proj.AbsLocalesPath())
	if err := os.MkdirAll(cssDir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", cssDir, err)
	}

	cssPath := filepath.Join(cssDir, CSSFileName)
	if err := os.WriteFile(cssPath, []byte(GenerateCSS(langs)), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", cssPath, err)
	}

	report := &Report{CSSPath: cssPath}

	entry := findEntryFile(proj)
	if entry == "" {
		// No recognizable entry file; the stylesheet is still generated
		// for manual wiring.
		return report, nil
	}

	patched, err := injectImport(entry, cssPath)
	if err != nil {
		return nil, err
	}
	if patched {
		report.Patched = append(report.Patched, entry)
	} else {
		report.AlreadyPatched = append(report.AlreadyPatched, entry)
	}
	return report, nil
}

// adaptiveSelectors are what the per-language font-size rules target:
// the fixed-width controls where expanded translations clip first, plus
// the opt-in lang-adaptive class for anything else.
var adaptiveSelectors = []string{"button", "input", "select", "label", ".lang-adaptive"}

// GenerateCSS renders the stylesheet: a base wrapping rule for the
// opt-in class plus one selector group per expansion-prone target
// language, scoped to the document's [lang] attribute so the rules
// apply without markup changes.
func GenerateCSS(langs []string) string {
	var b strings.Builder
	b.WriteString("/* Generated by uilingo. Language-responsive adjustments for translated UI text. */\n\n")
	b.WriteString(".lang-adaptive {\n")
	b.WriteString("    overflow-wrap: break-word;\n")
	b.WriteString("    hyphens: auto;\n")
	b.WriteString("}\n")

	scaled := make([]string, 0, len(langs))
	for _, lang := range langs {
		base := strings.ToLower(strings.SplitN(strings.ReplaceAll(lang, "_", "-"), "-", 2)[0])
		if _, ok := langScale[base]; ok {
			scaled = append(scaled, base)
		}
	}
	sort.Strings(scaled)

	seen := make(map[string]bool)
	for _, lang := range scaled {
		if seen[lang] {
			continue
		}
		seen[lang] = true

		b.WriteByte('\n')
		for i, sel := range adaptiveSelectors {
			fmt.Fprintf(&b, "[lang=\"%s\"] %s", lang, sel)
			if i < len(adaptiveSelectors)-1 {
				b.WriteString(",\n")
			}
		}
		fmt.Fprintf(&b, " {\n    font-size: %sem;\n}\n", langScale[lang])
	}
	return b.String()
}

// findEntryFile locates the application entry point to import the
// stylesheet from.
func findEntryFile(proj *config.Project) string {
	var names []string
	switch proj.Framework {
	case config.FrameworkVue:
		names = []string{"main.js", "main.ts"}
	case config.FrameworkAngular:
		names = []string{"main.ts", "styles.css"}
	default:
		names = []string{"main.jsx", "main.tsx", "main.js", "main.ts",
			"index.jsx", "index.tsx", "index.js", "index.ts"}
	}

	for _, dir := range []string{"src", "."} {
		for _, name := range names {
			path := filepath.Join(proj.Root, dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// injectImport prepends the stylesheet import to a source file, backing
// the file up first. Returns false if the import is already present.
func injectImport(entry, cssPath string) (bool, error) {
	data, err := os.ReadFile(entry)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", entry, err)
	}
	content := string(data)

	if strings.Contains(content, CSSFileName) {
		return false, nil
	}

	rel, err := filepath.Rel(filepath.Dir(entry), cssPath)
	if err != nil {
		rel = cssPath
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}

	var stmt string
	if strings.HasSuffix(entry, ".css") {
		stmt = fmt.Sprintf("@import \"%s\";\n", rel)
	} else {
		stmt = fmt.Sprintf("import %q;\n", rel)
	}

	backup := resource.BackupPath(entry, time.Now())
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return false, fmt.Errorf("creating backup %s: %w", backup, err)
	}

	if err := os.WriteFile(entry, []byte(stmt+content), 0644); err != nil {
		return false, fmt.Errorf("patching %s: %w", entry, err)
	}
	return true, nil
}
