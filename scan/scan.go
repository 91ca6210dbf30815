// Package scan finds translatable phrases in web UI source files. The
// scrapers are regular-expression based, one dialect per framework:
// JSX text nodes and string props for React, template sections for Vue,
// and HTML templates for Angular. This is deliberately not an AST
// parser; it extracts the visible text a human would see in the UI.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/uilingo/uilingo/config"
	"github.com/uilingo/uilingo/resource"
)

// frameworkExtensions lists the file extensions scanned per framework.
var frameworkExtensions = map[config.Framework][]string{
	config.FrameworkReact:   {".jsx", ".tsx", ".js", ".ts"},
	config.FrameworkVue:     {".vue"},
	config.FrameworkAngular: {".html", ".ts"},
	config.FrameworkUnknown: {".jsx", ".tsx", ".js", ".ts", ".vue", ".html"},
}

// Result is the outcome of a project scan.
type Result struct {
	// Phrases are the extracted UI phrases, deduplicated, in first
	// occurrence order (files are visited in sorted path order).
	Phrases []string
	// UIFiles are the source files that contributed at least one phrase.
	UIFiles []string
	// Existing is the source-language table already present in the
	// localization resource, or empty if there is none yet.
	Existing resource.Table
}

// Scan walks the project's source directories and extracts translatable
// phrases with the scraper matching the detected framework.
func Scan(proj *config.Project) (*Result, error) {
	files, err := findUIFiles(proj)
	if err != nil {
		return nil, err
	}

	res := &Result{Existing: resource.Table{}}
	seen := make(map[string]bool)

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}

		phrases := extract(proj.Framework, file, string(data))
		if len(phrases) == 0 {
			continue
		}

		res.UIFiles = append(res.UIFiles, file)
		for _, p := range phrases {
			if !seen[p] {
				seen[p] = true
				res.Phrases = append(res.Phrases, p)
			}
		}
	}

	if r, err := resource.Load(proj.AbsLocalesPath()); err == nil {
		if table, ok := r.Language(proj.SourceLang); ok {
			res.Existing = table.Clone()
		}
	}

	return res, nil
}

// findUIFiles collects candidate source files under the project's
// source dirs, honoring the skip list, in sorted path order.
func findUIFiles(proj *config.Project) ([]string, error) {
	exts := frameworkExtensions[proj.Framework]
	if exts == nil {
		exts = frameworkExtensions[config.FrameworkUnknown]
	}
	wanted := make(map[string]bool, len(exts))
	for _, e := range exts {
		wanted[e] = true
	}

	skip := make(map[string]bool)
	for _, d := range proj.SkipDirs() {
		skip[d] = true
	}

	var files []string
	seen := make(map[string]bool)
	for _, dir := range proj.SourceDirs {
		root := filepath.Join(proj.Root, dir)
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if info.IsDir() {
				if skip[info.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if wanted[filepath.Ext(path)] && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ---------------------------------------------------------------------------
// Scrapers
// ---------------------------------------------------------------------------

var (
	// Text between tags: ">Welcome back<". Interpolations and nested
	// markup are excluded by the character class.
	tagTextRe = regexp.MustCompile(`>([^<>{}]+)<`)

	// User-visible string props in JSX/HTML attributes.
	stringPropRe = regexp.MustCompile(`(?:title|placeholder|alt|label|aria-label|tooltip)=["']([^"']+)["']`)

	// Vue single-file component template section.
	vueTemplateRe = regexp.MustCompile(`(?s)<template[^>]*>(.*)</template>`)
)

func extract(fw config.Framework, path, content string) []string {
	switch fw {
	case config.FrameworkVue:
		return extractVue(content)
	case config.FrameworkAngular:
		if filepath.Ext(path) == ".html" {
			return extractMarkup(content)
		}
		// Component .ts files carry inline templates.
		return extractInlineTemplates(content)
	case config.FrameworkReact:
		return extractMarkup(content)
	default:
		if filepath.Ext(path) == ".vue" {
			return extractVue(content)
		}
		return extractMarkup(content)
	}
}

// extractMarkup pulls text nodes and string props out of JSX/HTML.
func extractMarkup(content string) []string {
	var out []string
	for _, m := range tagTextRe.FindAllStringSubmatch(content, -1) {
		if p, ok := cleanPhrase(m[1]); ok {
			out = append(out, p)
		}
	}
	for _, m := range stringPropRe.FindAllStringSubmatch(content, -1) {
		if p, ok := cleanPhrase(m[1]); ok {
			out = append(out, p)
		}
	}
	return out
}

func extractVue(content string) []string {
	m := vueTemplateRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	return extractMarkup(m[1])
}

var inlineTemplateRe = regexp.MustCompile("template\\s*:\\s*`([^`]*)`")

func extractInlineTemplates(content string) []string {
	var out []string
	for _, m := range inlineTemplateRe.FindAllStringSubmatch(content, -1) {
		out = append(out, extractMarkup(m[1])...)
	}
	return out
}

// cleanPhrase normalizes whitespace and rejects fragments that are not
// human-readable text: pure punctuation, interpolation leftovers, or
// single symbols.
func cleanPhrase(s string) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) < 2 {
		return "", false
	}
	hasLetter := false
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r > 127 {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return "", false
	}
	// Angular/Vue interpolation fragments are code, not copy.
	if strings.Contains(s, "{{") || strings.Contains(s, "}}") {
		return "", false
	}
	return s, true
}
