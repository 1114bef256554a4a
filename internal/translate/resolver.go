package translate

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 3 * time.Second

// Resolver wraps the provider with the delivery guarantee the chat
// core needs: a translation request never fails outward and never
// blocks past the configured timeout. On any provider failure the
// original text is returned unchanged.
type Resolver struct {
	provider Provider
	timeout  time.Duration
}

func NewResolver(provider Provider, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{provider: provider, timeout: timeout}
}

// Resolve translates text into targetLang. Same-language requests
// short-circuit without touching the provider.
func (r *Resolver) Resolve(ctx context.Context, text, sourceLang, targetLang string) string {
	if sourceLang == targetLang {
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	translated, err := r.provider.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		log.Printf("[TRANSLATE] %s -> %s failed, falling back to original text: %v", sourceLang, targetLang, err)
		return text
	}

	return translated
}

// ForLanguages builds a message's translation mapping: the source
// language mapped to the original text plus one entry per distinct
// target. Targets are deduplicated before any provider call, and the
// calls for different languages are issued concurrently.
func (r *Resolver) ForLanguages(ctx context.Context, text, sourceLang string, targetLangs []string) map[string]string {
	distinct := make([]string, 0, len(targetLangs))
	seen := map[string]bool{sourceLang: true}
	for _, lang := range targetLangs {
		if seen[lang] {
			continue
		}
		seen[lang] = true
		distinct = append(distinct, lang)
	}

	results := make([]string, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	for i, lang := range distinct {
		g.Go(func() error {
			results[i] = r.Resolve(gctx, text, sourceLang, lang)
			return nil
		})
	}
	// Resolve never returns an error, so Wait only joins the fan-out.
	_ = g.Wait()

	mapping := make(map[string]string, len(distinct)+1)
	mapping[sourceLang] = text
	for i, lang := range distinct {
		mapping[lang] = results[i]
	}
	return mapping
}
