package translate

import "github.com/uilingo/uilingo/phrase"

// ExpansionEntry pairs one source phrase with its translation. Ratio is
// translated length over source length in runes, the usual proxy for UI
// layouts that were sized against English text.
type ExpansionEntry struct {
	Namespace   phrase.Namespace
	Key         string
	Source      string
	Translation string
	Ratio       float64
}

// ExpansionReport collects all entries from one translation run so the
// caller can flag strings likely to overflow their widgets.
type ExpansionReport struct {
	Language string
	Entries  []ExpansionEntry
}

func (r *ExpansionReport) add(ns phrase.Namespace, key, source, translation string) {
	ratio := 0.0
	if n := len([]rune(source)); n > 0 {
		ratio = float64(len([]rune(translation))) / float64(n)
	}
	r.Entries = append(r.Entries, ExpansionEntry{
		Namespace:   ns,
		Key:         key,
		Source:      source,
		Translation: translation,
		Ratio:       ratio,
	})
}

// AtRisk returns the entries whose expansion ratio meets or exceeds
// threshold, in report order.
func (r *ExpansionReport) AtRisk(threshold float64) []ExpansionEntry {
	var out []ExpansionEntry
	for _, e := range r.Entries {
		if e.Ratio >= threshold {
			out = append(out, e)
		}
	}
	return out
}
