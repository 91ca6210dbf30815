package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Provider IDs
// ---------------------------------------------------------------------------

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
	ProviderDeepL  = "deepl"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Provider holds the configuration for an AI translation service.
type Provider struct {
	// ID is the provider identifier (google, openai, deepl).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key.
	APIKey string
	// Model is the model identifier.
	Model string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout.
	Timeout time.Duration
}

// DefaultProviders returns the pre-configured provider definitions.
// Only google has a working client today; the others are registered so
// selecting them yields ErrUnsupportedProvider instead of a typo error.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderGoogle: {
			ID:      ProviderGoogle,
			Name:    "Google AI (Gemini)",
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   DefaultModel,
			Timeout: 120 * time.Second,
		},
		ProviderOpenAI: {
			ID:      ProviderOpenAI,
			Name:    "OpenAI",
			BaseURL: "https://api.openai.com/v1",
			Timeout: 60 * time.Second,
		},
		ProviderDeepL: {
			ID:      ProviderDeepL,
			Name:    "DeepL",
			BaseURL: "https://api.deepl.com/v2",
			Timeout: 60 * time.Second,
		},
	}
}

// Client translates one batch of UI phrases into the target language.
// Implementations must return exactly one translation per phrase, in the
// same order.
type Client interface {
	TranslateBatch(ctx context.Context, phrases []string, langName string) ([]string, error)
}

// NewClient returns the client for a provider configuration. Progress
// and rate-limit messages go through onLog (may be nil); the client
// never writes to a logger of its own.
func NewClient(prov Provider, maxRetries int, verbose bool, onLog func(format string, args ...any)) (Client, error) {
	switch prov.ID {
	case ProviderGoogle:
		return &googleClient{prov: prov, maxRetries: maxRetries, verbose: verbose, onLog: onLog}, nil
	case ProviderOpenAI, ProviderDeepL:
		return nil, fmt.Errorf("%s: %w", prov.ID, ErrUnsupportedProvider)
	default:
		return nil, fmt.Errorf("unknown provider %q", prov.ID)
	}
}

// ---------------------------------------------------------------------------
// System prompt
// ---------------------------------------------------------------------------

const systemPrompt = `You are a professional translator specializing in software and product localization. You are translating UI strings for a web application.

IMPORTANT TRANSLATION PRINCIPLES:
- Translate for NATURALNESS and FLUENCY in {{targetLang}}, not word-for-word
- Use idiomatic expressions natural to {{targetLang}}, not literal translations
- Use established IT terminology in the {{targetLang}} tech community
- Keep brand names and proper nouns unchanged
- Maintain the original tone and intent, but express it naturally in {{targetLang}}

TECHNICAL REQUIREMENTS:
- Return ONLY a JSON array of translated strings, one for each input entry, in the same order.
- Preserve placeholders exactly as-is ({name}, {{count}}, %s, etc.).
- Preserve leading/trailing whitespace and punctuation patterns.
- Return ONLY the JSON array, no explanations or markdown code blocks.`

// buildUserPrompt serializes the batch as a JSON array so phrases with
// quotes, newlines, or numbering survive the round trip unambiguously.
func buildUserPrompt(phrases []string, langName string) (string, error) {
	payload, err := json.Marshal(phrases)
	if err != nil {
		return "", fmt.Errorf("encoding phrases: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following %d UI strings into %s.\n\n", len(phrases), langName)
	b.Write(payload)
	fmt.Fprintf(&b, "\n\nReturn a JSON array with exactly %d translated strings in the same order.", len(phrases))
	return b.String(), nil
}

// ---------------------------------------------------------------------------
// HTTP client with real proxy support
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Support both --proxy flag and HTTP_PROXY/HTTPS_PROXY env vars
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// ---------------------------------------------------------------------------
// Google AI (Gemini) client
// ---------------------------------------------------------------------------

type googleClient struct {
	prov       Provider
	maxRetries int
	verbose    bool
	onLog      func(format string, args ...any)
}

func (c *googleClient) logf(format string, args ...any) {
	if c.onLog != nil {
		c.onLog(format, args...)
	}
}

func buildGenerateRequest(system, user string) ([]byte, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}
	type genConfig struct {
		Temperature     float64 `json:"temperature"`
		TopK            int     `json:"topK"`
		TopP            float64 `json:"topP"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	}
	req := struct {
		Contents          []content `json:"contents"`
		GenerationConfig  genConfig `json:"generationConfig"`
		SystemInstruction *content  `json:"systemInstruction,omitempty"`
	}{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: user}}},
		},
		// Low temperature: translations should be reproducible, not creative.
		GenerationConfig:  genConfig{Temperature: 0.1, TopK: 1, TopP: 0.8, MaxOutputTokens: 8192},
		SystemInstruction: &content{Parts: []part{{Text: system}}},
	}
	return json.Marshal(req)
}

func (c *googleClient) TranslateBatch(ctx context.Context, phrases []string, langName string) ([]string, error) {
	if len(phrases) == 0 {
		return nil, nil
	}

	model := c.prov.Model
	if model == "" {
		model = DefaultModel
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(c.prov.BaseURL, "/"), model)

	user, err := buildUserPrompt(phrases, langName)
	if err != nil {
		return nil, err
	}
	system := strings.ReplaceAll(systemPrompt, "{{targetLang}}", langName)
	body, err := buildGenerateRequest(system, user)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	text, err := c.post(ctx, endpoint, body)
	if err != nil {
		return nil, err
	}

	translations, err := parseTranslations(text)
	if err != nil {
		return nil, err
	}
	if len(translations) != len(phrases) {
		return nil, &FormatError{
			Reason:  fmt.Sprintf("expected %d translations, got %d", len(phrases), len(translations)),
			Snippet: truncate(text, 200),
		}
	}
	return translations, nil
}

// post sends the request with retries: exponential backoff on transport
// errors and 5xx, the server-suggested delay on 429. Non-retryable
// statuses surface as ProviderError immediately.
func (c *googleClient) post(ctx context.Context, endpoint string, body []byte) (string, error) {
	client := makeHTTPClient(c.prov.Proxy, c.prov.Timeout)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.prov.APIKey != "" {
			req.Header.Set("x-goog-api-key", c.prov.APIKey)
		}

		if c.verbose {
			c.logf("%s attempt %d: POST %s", c.prov.Name, attempt+1, endpoint)
		}

		resp, err := client.Do(req)
		if err != nil {
			if attempt < c.maxRetries {
				wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(wait):
				}
				continue
			}
			return "", &ProviderError{Provider: c.prov.ID, Message: err.Error()}
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			retryDelay := parseRetryDelay(respBody)
			// Rate-limit waits can run over a minute; always report them.
			c.logf("rate limited (429), waiting %v before retry (attempt %d/%d)", retryDelay, attempt+1, c.maxRetries)
			if attempt < c.maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(retryDelay):
				}
				continue
			}
			return "", &ProviderError{Provider: c.prov.ID, Status: resp.StatusCode,
				Message: fmt.Sprintf("rate limited after %d retries", c.maxRetries)}
		}

		if resp.StatusCode != http.StatusOK {
			if attempt < c.maxRetries && resp.StatusCode >= 500 {
				wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(wait):
				}
				continue
			}
			return "", &ProviderError{Provider: c.prov.ID, Status: resp.StatusCode,
				Message: truncate(string(respBody), 500)}
		}

		return extractResponseText(c.prov.ID, respBody)
	}

	return "", &ProviderError{Provider: c.prov.ID,
		Message: fmt.Sprintf("exhausted all %d retries", c.maxRetries)}
}

// ---------------------------------------------------------------------------
// Response parsing
// ---------------------------------------------------------------------------

// extractResponseText pulls the generated text out of a Gemini response:
// candidates[0].content.parts[0].text. Anything else is unusable.
func extractResponseText(provider string, body []byte) (string, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", &ProviderError{Provider: provider, Message: "invalid JSON response: " + err.Error()}
	}

	if errObj, ok := raw["error"]; ok {
		if errMap, ok := errObj.(map[string]any); ok {
			if msg, ok := errMap["message"].(string); ok {
				return "", &ProviderError{Provider: provider, Message: msg}
			}
		}
		return "", &ProviderError{Provider: provider, Message: fmt.Sprintf("%v", errObj)}
	}

	if candidates, ok := raw["candidates"].([]any); ok && len(candidates) > 0 {
		if candidate, ok := candidates[0].(map[string]any); ok {
			if content, ok := candidate["content"].(map[string]any); ok {
				if parts, ok := content["parts"].([]any); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]any); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}

	return "", &ProviderError{Provider: provider,
		Message: "could not extract text from response: " + truncate(string(body), 300)}
}

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseTranslations extracts a JSON array of strings from the AI
// response text. Models sometimes wrap the array in a markdown code
// block or chat around it; the array between the first '[' and the last
// ']' is what counts.
func parseTranslations(content string) ([]string, error) {
	content = strings.TrimSpace(content)

	if m := markdownCodeBlock.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}

	startIdx := strings.Index(content, "[")
	endIdx := strings.LastIndex(content, "]")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	var translations []string
	if err := json.Unmarshal([]byte(content), &translations); err != nil {
		return nil, &FormatError{Reason: "not a JSON array of strings: " + err.Error(),
			Snippet: truncate(content, 200)}
	}
	if len(translations) == 0 {
		return nil, &FormatError{Reason: "empty translation array"}
	}
	return translations, nil
}

// parseRetryDelay extracts the retry delay from a 429 response body.
// Looks for Google's RetryInfo detail with retryDelay field.
// Returns the delay to wait, defaulting to 60s + 5s buffer.
func parseRetryDelay(body []byte) time.Duration {
	const defaultDelay = 65 * time.Second

	var errResp struct {
		Error struct {
			Details []struct {
				Type       string `json:"@type"`
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return defaultDelay
	}

	for _, detail := range errResp.Error.Details {
		if strings.Contains(detail.Type, "RetryInfo") && detail.RetryDelay != "" {
			d := strings.TrimSuffix(detail.RetryDelay, "s")
			if secs, err := strconv.ParseFloat(d, 64); err == nil {
				return time.Duration(secs*1000)*time.Millisecond + 5*time.Second
			}
		}
	}

	return defaultDelay
}

// truncate shortens a string to maxLen, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
