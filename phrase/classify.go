package phrase

import "strings"

// Rule is one classification rule. A rule matches when any keyword is
// contained in the phrase (case-insensitive), or — for length rules —
// when the phrase is shorter than MaxLen characters.
type Rule struct {
	// Namespace assigned when the rule matches.
	Namespace Namespace
	// Keywords are case-insensitive substrings; any match fires the rule.
	Keywords []string
	// MaxLen, when > 0, makes this a length rule: it fires when the
	// phrase has fewer than MaxLen runes. Keywords are ignored.
	MaxLen int
}

// DefaultRules returns the built-in ordered rule list. The order is a
// product decision: earlier rules win, so "Submit Error" is classified
// as errors, not forms. Callers that need categorization to stay stable
// across releases must pin their own copy of this list.
func DefaultRules() []Rule {
	return []Rule{
		{Namespace: NamespaceErrors, Keywords: []string{"error", "fail", "invalid"}},
		{Namespace: NamespaceNavigation, Keywords: []string{"home", "about", "contact"}},
		{Namespace: NamespaceForms, Keywords: []string{"submit", "cancel", "save"}},
		{Namespace: NamespaceMessages, Keywords: []string{"loading", "success", "warning"}},
		{Namespace: NamespaceCommon, MaxLen: 20},
	}
}

// Classifier assigns phrases to namespaces using an ordered rule list.
// It is a pure function of the phrase text and the rules: the same
// input always yields the same namespace. Classification is NOT stable
// across releases if the rule list changes.
type Classifier struct {
	rules    []Rule
	fallback Namespace
}

// NewClassifier builds a classifier from an explicit rule list.
// Phrases matching no rule fall through to the components namespace.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules, fallback: NamespaceComponents}
}

// Classify returns the namespace for a phrase. Rules are evaluated
// top-to-bottom, first match wins.
func (c *Classifier) Classify(text string) Namespace {
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		if r.MaxLen > 0 {
			if len([]rune(text)) < r.MaxLen {
				return r.Namespace
			}
			continue
		}
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Namespace
			}
		}
	}
	return c.fallback
}

// Rules returns a copy of the classifier's rule list, mostly for
// diagnostics and tests.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}
