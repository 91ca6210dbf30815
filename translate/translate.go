// Package translate implements AI-powered translation of extracted UI
// phrases. It classifies phrases into namespaces, batches them through a
// provider, and regroups the translations into a namespaced table ready
// for merging into the localization resource.
package translate

import (
	"context"
	"time"

	"github.com/uilingo/uilingo/langmeta"
	"github.com/uilingo/uilingo/phrase"
	"github.com/uilingo/uilingo/resource"
)

// ---------------------------------------------------------------------------
// Translation options
// ---------------------------------------------------------------------------

// Options controls the translation pipeline.
type Options struct {
	// Provider is the AI provider configuration.
	Provider Provider
	// Language is the target language code (e.g., "ru", "de").
	Language string
	// LanguageName overrides the human-readable name sent in prompts.
	LanguageName string
	// BatchSize is how many phrases to translate per API call.
	BatchSize int
	// BatchDelay is the pause between consecutive API calls.
	BatchDelay time.Duration
	// MaxRetries is the maximum number of retries on rate limit (429). Default: 3.
	MaxRetries int
	// Rules overrides the namespace classification rules.
	Rules []phrase.Rule
	// Client overrides the provider client (used by tests and callers
	// that manage authentication themselves).
	Client Client
	// OnProgress is called after each batch is translated.
	OnProgress func(done, total int)
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// Verbose enables detailed logging.
	Verbose bool
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveBatchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o *Options) effectiveBatchDelay() time.Duration {
	if o.BatchDelay > 0 {
		return o.BatchDelay
	}
	return DefaultBatchDelay
}

func (o *Options) effectiveMaxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return 3
}

// languageName resolves the name used in prompts. Unknown codes fall
// back to English rather than sending a raw code the model may
// misinterpret.
func (o *Options) languageName() string {
	if o.LanguageName != "" {
		return o.LanguageName
	}
	return langmeta.Name(o.Language)
}

func (o *Options) client() (Client, error) {
	if o.Client != nil {
		return o.Client, nil
	}
	return NewClient(o.Provider, o.effectiveMaxRetries(), o.Verbose, o.OnLog)
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

// indexedPhrase ties a flattened phrase back to its namespace so the
// translations can be regrouped after the batch calls return.
type indexedPhrase struct {
	namespace phrase.Namespace
	text      string
}

// Translate runs the full pipeline for one target language: dedupe,
// classify, derive keys, batch through the provider, and regroup into a
// namespaced table. The returned report pairs every source phrase with
// its translation for expansion review.
//
// Phrase order within a namespace follows first occurrence in the input;
// namespaces are processed in their fixed canonical order. If the total
// number of translations differs from the number of phrases sent the
// whole run fails with an AlignmentError and nothing is returned.
func Translate(ctx context.Context, phrases []string, opts Options) (resource.Table, *ExpansionReport, error) {
	deduped := dedupe(phrases)
	if len(deduped) == 0 {
		return resource.Table{}, &ExpansionReport{Language: opts.Language}, nil
	}

	client, err := opts.client()
	if err != nil {
		return nil, nil, err
	}

	rules := opts.Rules
	if rules == nil {
		rules = phrase.DefaultRules()
	}
	classifier := phrase.NewClassifier(rules)
	buckets := make(map[phrase.Namespace][]string)
	for _, text := range deduped {
		ns := classifier.Classify(text)
		buckets[ns] = append(buckets[ns], text)
	}

	// Flatten in canonical namespace order so batch boundaries are
	// deterministic across runs.
	var flat []indexedPhrase
	for _, ns := range phrase.Namespaces() {
		for _, text := range buckets[ns] {
			flat = append(flat, indexedPhrase{namespace: ns, text: text})
		}
	}

	texts := make([]string, len(flat))
	for i, p := range flat {
		texts[i] = p.text
	}

	langName := opts.languageName()
	opts.log("translating %d phrases into %s", len(texts), langName)

	batchSize := opts.effectiveBatchSize()
	done := 0
	translations, err := ProcessInBatches(ctx, texts, batchSize, opts.effectiveBatchDelay(),
		func(ctx context.Context, batch []string) ([]string, error) {
			out, err := client.TranslateBatch(ctx, batch, langName)
			if err != nil {
				return nil, err
			}
			done += len(batch)
			if opts.OnProgress != nil {
				opts.OnProgress(done, len(texts))
			}
			return out, nil
		})
	if err != nil {
		return nil, nil, err
	}

	if len(translations) != len(flat) {
		return nil, nil, &AlignmentError{Want: len(flat), Got: len(translations)}
	}

	table := make(resource.Table)
	report := &ExpansionReport{Language: opts.Language}
	for i, p := range flat {
		key := phrase.DeriveKey(p.text)
		ns := string(p.namespace)
		if table[ns] == nil {
			table[ns] = make(map[string]string)
		}
		table[ns][key] = translations[i]
		report.add(p.namespace, key, p.text, translations[i])
	}

	return table, report, nil
}

// dedupe removes duplicate phrases, keeping first-occurrence order.
func dedupe(phrases []string) []string {
	seen := make(map[string]bool, len(phrases))
	var out []string
	for _, p := range phrases {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
