package translate

import (
	"errors"
	"fmt"
)

// ErrUnsupportedProvider is returned when a registered but
// unimplemented provider is selected. There is no silent fallback to
// another provider.
var ErrUnsupportedProvider = errors.New("translation provider not implemented")

// ProviderError is a transport or HTTP failure from the translation
// provider, carrying the upstream status and message.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: provider returned status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// FormatError means the provider responded but its payload could not
// be parsed into exactly the expected translations. Partial results
// are never extracted from a malformed response.
type FormatError struct {
	Reason  string
	Snippet string
}

func (e *FormatError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("unparsable provider response: %s (got: %s)", e.Reason, e.Snippet)
	}
	return fmt.Sprintf("unparsable provider response: %s", e.Reason)
}

// AlignmentError means the pipeline produced a different number of
// translations than phrases it sent. Index-for-index correspondence is
// the only thing tying a translation back to its phrase, so this is
// always fatal — a silently short mapping would corrupt the resource.
type AlignmentError struct {
	Want int
	Got  int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("translation count mismatch: sent %d phrases, got %d translations", e.Want, e.Got)
}
