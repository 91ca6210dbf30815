package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	providers := DefaultProviders()

	if _, err := NewClient(providers[ProviderGoogle], 3, false, nil); err != nil {
		t.Errorf("google: %v", err)
	}
	if _, err := NewClient(providers[ProviderOpenAI], 3, false, nil); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("openai: err = %v, want ErrUnsupportedProvider", err)
	}
	if _, err := NewClient(providers[ProviderDeepL], 3, false, nil); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("deepl: err = %v, want ErrUnsupportedProvider", err)
	}
	if _, err := NewClient(Provider{ID: "mystery"}, 3, false, nil); err == nil {
		t.Error("unknown provider: expected error")
	}
}

func TestParseTranslations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{
			name:    "plain array",
			content: `["Hola", "Adiós"]`,
			want:    []string{"Hola", "Adiós"},
		},
		{
			name:    "markdown code block",
			content: "```json\n[\"Hola\"]\n```",
			want:    []string{"Hola"},
		},
		{
			name:    "chatter around the array",
			content: "Here are your translations:\n[\"Hola\", \"Adiós\"]\nLet me know if you need more!",
			want:    []string{"Hola", "Adiós"},
		},
		{
			name:    "not json",
			content: "Hola, Adiós",
			wantErr: true,
		},
		{
			name:    "empty array",
			content: `[]`,
			wantErr: true,
		},
		{
			name:    "array of objects",
			content: `[{"text": "Hola"}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTranslations(tt.content)
			if tt.wantErr {
				var fe *FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("err = %v, want FormatError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTranslations: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d translations, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseRetryDelay(t *testing.T) {
	body := `{"error": {"details": [{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "30s"}]}}`
	if got := parseRetryDelay([]byte(body)); got != 35*time.Second {
		t.Errorf("RetryInfo delay = %v, want 35s", got)
	}
	if got := parseRetryDelay([]byte(`not json`)); got != 65*time.Second {
		t.Errorf("default delay = %v, want 65s", got)
	}
}

func TestGoogleClient_TranslateBatch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "[\"Hola\", \"Adiós\"]"}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Provider{
		ID:      ProviderGoogle,
		Name:    "test",
		BaseURL: srv.URL,
		APIKey:  "k",
		Model:   "gemini-2.0-flash",
		Timeout: 5 * time.Second,
	}, 0, false, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := client.TranslateBatch(context.Background(), []string{"Hello", "Goodbye"}, "Spanish")
	if err != nil {
		t.Fatalf("TranslateBatch: %v", err)
	}
	if len(got) != 2 || got[0] != "Hola" || got[1] != "Adiós" {
		t.Errorf("translations = %v", got)
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Errorf("endpoint path = %q", gotPath)
	}
}

func TestGoogleClient_CountMismatchIsFormatError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "[\"Hola\"]"}]}}]}`))
	}))
	defer srv.Close()

	client, _ := NewClient(Provider{ID: ProviderGoogle, BaseURL: srv.URL, Timeout: 5 * time.Second}, 0, false, nil)
	_, err := client.TranslateBatch(context.Background(), []string{"Hello", "Goodbye"}, "Spanish")

	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FormatError", err)
	}
}

func TestGoogleClient_HTTPErrorIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "API key not valid"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client, _ := NewClient(Provider{ID: ProviderGoogle, BaseURL: srv.URL, Timeout: 5 * time.Second}, 0, false, nil)
	_, err := client.TranslateBatch(context.Background(), []string{"Hello"}, "Spanish")

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if pe.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", pe.Status)
	}
}

func TestGoogleClient_RetriesOn5xx(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "[\"Hola\"]"}]}}]}`))
	}))
	defer srv.Close()

	client, _ := NewClient(Provider{ID: ProviderGoogle, BaseURL: srv.URL, Timeout: 5 * time.Second}, 2, false, nil)
	got, err := client.TranslateBatch(context.Background(), []string{"Hello"}, "Spanish")
	if err != nil {
		t.Fatalf("TranslateBatch after retry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if len(got) != 1 || got[0] != "Hola" {
		t.Errorf("translations = %v", got)
	}
}

func TestGoogleClient_RateLimitReportsThroughCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer srv.Close()

	var messages []string
	onLog := func(format string, args ...any) {
		messages = append(messages, fmt.Sprintf(format, args...))
	}

	// maxRetries 0: the rate-limit report is emitted, then the call
	// fails without sleeping through a retry delay.
	client, _ := NewClient(Provider{ID: ProviderGoogle, BaseURL: srv.URL, Timeout: 5 * time.Second}, 0, false, onLog)
	_, err := client.TranslateBatch(context.Background(), []string{"Hello"}, "Spanish")

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}

	found := false
	for _, m := range messages {
		if strings.Contains(m, "rate limited") {
			found = true
		}
	}
	if !found {
		t.Errorf("rate-limit message not routed through callback: %v", messages)
	}
}

func TestExtractResponseText_UnusablePayload(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"candidates": []}`,
		`{"candidates": [{"content": {"parts": []}}]}`,
		`not json`,
	} {
		_, err := extractResponseText("google", []byte(body))
		var pe *ProviderError
		if !errors.As(err, &pe) {
			t.Errorf("body %q: err = %v, want ProviderError", body, err)
		}
	}
}

func TestExtractResponseText_APIError(t *testing.T) {
	_, err := extractResponseText("google", []byte(`{"error": {"message": "quota exceeded"}}`))
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if pe.Message != "quota exceeded" {
		t.Errorf("message = %q", pe.Message)
	}
}
