package translate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider records every call and answers from a canned table.
type stubProvider struct {
	mu      sync.Mutex
	calls   []string // "source->target"
	results map[string]string
	err     error
	delay   time.Duration
}

func (s *stubProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, sourceLang+"->"+targetLang)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	if out, ok := s.results[targetLang]; ok {
		return out, nil
	}
	return "[" + targetLang + "] " + text, nil
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestResolve_SameLanguageShortCircuits(t *testing.T) {
	stub := &stubProvider{}
	r := NewResolver(stub, time.Second)

	got := r.Resolve(context.Background(), "Hello", "en", "en")

	assert.Equal(t, "Hello", got)
	assert.Zero(t, stub.callCount(), "same-language resolve must not touch the provider")
}

func TestResolve_ProviderFailureFallsBackToOriginal(t *testing.T) {
	stub := &stubProvider{err: errors.New("provider down")}
	r := NewResolver(stub, time.Second)

	got := r.Resolve(context.Background(), "Hello", "en", "hi")

	assert.Equal(t, "Hello", got)
}

func TestResolve_TimeoutFallsBackToOriginal(t *testing.T) {
	stub := &stubProvider{delay: 500 * time.Millisecond}
	r := NewResolver(stub, 10*time.Millisecond)

	start := time.Now()
	got := r.Resolve(context.Background(), "Hello", "en", "hi")

	assert.Equal(t, "Hello", got)
	assert.Less(t, time.Since(start), 400*time.Millisecond, "a slow provider must not block delivery")
}

func TestForLanguages_DeduplicatesTargets(t *testing.T) {
	stub := &stubProvider{results: map[string]string{"hi": "नमस्ते"}}
	r := NewResolver(stub, time.Second)

	mapping := r.ForLanguages(context.Background(), "Hello", "en", []string{"hi", "hi", "en", "hi"})

	require.Equal(t, 1, stub.callCount(), "three participants sharing a language cost one provider call")
	assert.Equal(t, "नमस्ते", mapping["hi"])
}

func TestForLanguages_MappingAlwaysContainsSource(t *testing.T) {
	stub := &stubProvider{}
	r := NewResolver(stub, time.Second)

	mapping := r.ForLanguages(context.Background(), "Hello", "en", []string{"hi", "fr"})

	assert.Equal(t, "Hello", mapping["en"])
	assert.Equal(t, "[hi] Hello", mapping["hi"])
	assert.Equal(t, "[fr] Hello", mapping["fr"])
	assert.Len(t, mapping, 3)
}

func TestForLanguages_PartialFailureDegradesPerLanguage(t *testing.T) {
	stub := &stubProvider{err: errors.New("provider down")}
	r := NewResolver(stub, time.Second)

	mapping := r.ForLanguages(context.Background(), "Hello", "en", []string{"hi", "fr"})

	// Delivery never depends on the provider: every requested language
	// is present, degraded to the original text.
	assert.Equal(t, "Hello", mapping["hi"])
	assert.Equal(t, "Hello", mapping["fr"])
	assert.Equal(t, "Hello", mapping["en"])
}

func TestForLanguages_NoTargets(t *testing.T) {
	stub := &stubProvider{}
	r := NewResolver(stub, time.Second)

	mapping := r.ForLanguages(context.Background(), "Hello", "en", nil)

	assert.Equal(t, map[string]string{"en": "Hello"}, mapping)
	assert.Zero(t, stub.callCount())
}
