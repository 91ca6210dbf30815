// Package resource implements reading, merging, and writing of the
// localization resource file.
//
// The on-disk format is a single JSON document mapping language codes
// to namespaced translation tables:
//
//	{
//	    "en": {
//	        "common": { "welcomeBack": "Welcome back" },
//	        "forms":  { "submitFormNow": "Submit Form Now" }
//	    },
//	    "es": {
//	        "common": { "welcomeBack": "Bienvenido de nuevo" }
//	    }
//	}
//
// The file is the single source of truth for all languages ever
// produced. It is a structured data document, never executable source:
// reading existing translations back is a plain JSON parse.
//
// The file is treated as a single-writer resource per invocation; no
// file locking is provided against concurrent external writers.
package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/uilingo/uilingo/phrase"
)

// Table is one language's content: namespace -> key -> text.
type Table map[string]map[string]string

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for ns, keys := range t {
		m := make(map[string]string, len(keys))
		for k, v := range keys {
			m[k] = v
		}
		out[ns] = m
	}
	return out
}

// Count returns the total number of keys across all namespaces.
func (t Table) Count() int {
	n := 0
	for _, keys := range t {
		n += len(keys)
	}
	return n
}

// Resource is the parsed localization resource. Language insertion
// order is preserved so repeated runs produce stable output.
type Resource struct {
	languages map[string]Table
	order     []string
}

// New returns an empty resource.
func New() *Resource {
	return &Resource{languages: make(map[string]Table)}
}

// ErrNotFound is returned by Load when the resource file does not
// exist yet. Callers that expected an update treat this as fatal;
// init-style callers start from an empty resource instead.
var ErrNotFound = errors.New("localization resource not found")

// MergeError reports a structural type mismatch in the resource
// document: a namespace whose value is not an object, or a key whose
// value is not a string. Mismatches are never coerced.
type MergeError struct {
	Lang      string
	Namespace string
	Key       string
	Reason    string
}

func (e *MergeError) Error() string {
	loc := e.Lang
	if e.Namespace != "" {
		loc += "." + e.Namespace
	}
	if e.Key != "" {
		loc += "." + e.Key
	}
	return fmt.Sprintf("resource structure conflict at %s: %s", loc, e.Reason)
}

// Load reads and parses the resource file at path.
func Load(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return r, nil
}

// Parse parses resource JSON, preserving language order and rejecting
// structurally invalid documents. Every leaf must be a string and every
// intermediate level an object; mismatched types fail loudly rather
// than being coerced.
func Parse(data []byte) (*Resource, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("top level: %w", err)
	}

	r := New()
	for dec.More() {
		lang, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		table, err := parseTable(dec, lang)
		if err != nil {
			return nil, err
		}
		r.SetLanguage(lang, table)
	}
	return r, nil
}

func parseTable(dec *json.Decoder, lang string) (Table, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("language %q: %w", lang, err)
	}
	table := make(Table)
	for dec.More() {
		ns, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, &MergeError{Lang: lang, Namespace: ns,
				Reason: "namespace value is not an object: " + err.Error()}
		}
		keys := make(map[string]string)
		for dec.More() {
			k, err := readKey(dec)
			if err != nil {
				return nil, err
			}
			vt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			v, ok := vt.(string)
			if !ok {
				return nil, &MergeError{Lang: lang, Namespace: ns, Key: k,
					Reason: fmt.Sprintf("expected string value, got %T", vt)}
			}
			keys[k] = v
		}
		if _, err := dec.Token(); err != nil { // closing }
			return nil, err
		}
		table[ns] = keys
	}
	if _, err := dec.Token(); err != nil { // closing }
		return nil, err
	}
	return table, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := t.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, t)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	t, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := t.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %T", t)
	}
	return key, nil
}

// Languages returns all language codes in their original order.
func (r *Resource) Languages() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Language returns the table for a language code.
func (r *Resource) Language(lang string) (Table, bool) {
	t, ok := r.languages[lang]
	return t, ok
}

// SetLanguage replaces (or inserts) a language's full content.
func (r *Resource) SetLanguage(lang string, t Table) {
	if _, exists := r.languages[lang]; !exists {
		r.order = append(r.order, lang)
	}
	r.languages[lang] = t
}

// Marshal produces deterministic JSON: languages in insertion order,
// namespaces in canonical order (unknown namespaces sorted after),
// keys sorted, 4-space indentation.
func (r *Resource) Marshal() ([]byte, error) {
	var b strings.Builder
	b.WriteString("{\n")

	for li, lang := range r.order {
		table := r.languages[lang]
		b.WriteString(fmt.Sprintf("    %s: {\n", jsonString(lang)))

		namespaces := orderedNamespaces(table)
		for ni, ns := range namespaces {
			keys := table[ns]
			b.WriteString(fmt.Sprintf("        %s: {\n", jsonString(ns)))

			sorted := make([]string, 0, len(keys))
			for k := range keys {
				sorted = append(sorted, k)
			}
			sort.Strings(sorted)

			for ki, k := range sorted {
				b.WriteString(fmt.Sprintf("            %s: %s", jsonString(k), jsonString(keys[k])))
				if ki < len(sorted)-1 {
					b.WriteByte(',')
				}
				b.WriteByte('\n')
			}

			b.WriteString("        }")
			if ni < len(namespaces)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}

		b.WriteString("    }")
		if li < len(r.order)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}

	b.WriteString("}\n")
	return []byte(b.String()), nil
}

// orderedNamespaces lists a table's namespaces: canonical ones first in
// their fixed order, anything else sorted alphabetically after.
func orderedNamespaces(t Table) []string {
	var out []string
	seen := make(map[string]bool)
	for _, ns := range phrase.Namespaces() {
		if _, ok := t[string(ns)]; ok {
			out = append(out, string(ns))
			seen[string(ns)] = true
		}
	}
	var extra []string
	for ns := range t {
		if !seen[ns] {
			extra = append(extra, ns)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// jsonString encodes s as a JSON string literal. strconv.Quote is not
// usable here: it emits Go escapes like \x01 that JSON parsers reject.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
