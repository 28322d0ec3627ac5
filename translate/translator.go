/*
Package translate implements the on-demand translation layer: a batch
translator that consults the durable cache before calling the external
provider, and per-entity orchestrators that extract, translate and
rebuild catalog records.

Failure policy is fail-soft throughout: cache read errors count as
misses, cache write errors are logged and swallowed, and a failed
provider call degrades the pending texts to source language. TranslateBatch
always returns a full-length, order-preserving result. Only programmer
errors (slot count mismatch during rebuild) fail loudly.
*/
package translate

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
)

// Store is the durable translation cache consulted before the provider.
type Store interface {
	GetTranslations(sourceTexts []string, targetLang string) (map[string]string, error)
	PutTranslation(sourceText, sourceLang, targetLang, translatedText string) error
}

// Provider is the external batch-translate service. Translate returns a
// list parallel to its input or an error for the whole call.
type Provider interface {
	Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error)
	Disabled() bool
}

// Metrics counts cache and provider outcomes across requests.
type Metrics struct {
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
	CacheReadFailures  atomic.Int64
	CacheWriteFailures atomic.Int64
	ProviderCalls      atomic.Int64
	ProviderFailures   atomic.Int64
}

// Snapshot is a point-in-time copy of the counters, for the stats endpoint.
type Snapshot struct {
	CacheHits          int64 `json:"cache_hits"`
	CacheMisses        int64 `json:"cache_misses"`
	CacheReadFailures  int64 `json:"cache_read_failures"`
	CacheWriteFailures int64 `json:"cache_write_failures"`
	ProviderCalls      int64 `json:"provider_calls"`
	ProviderFailures   int64 `json:"provider_failures"`
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		CacheHits:          m.CacheHits.Load(),
		CacheMisses:        m.CacheMisses.Load(),
		CacheReadFailures:  m.CacheReadFailures.Load(),
		CacheWriteFailures: m.CacheWriteFailures.Load(),
		ProviderCalls:      m.ProviderCalls.Load(),
		ProviderFailures:   m.ProviderFailures.Load(),
	}
}

// Translator combines the cache store and the provider client.
type Translator struct {
	store      Store
	provider   Provider
	sourceLang string
	log        *slog.Logger
	metrics    *Metrics
}

// New creates a Translator. sourceLang is the language all catalog
// content is authored in; requests targeting it short-circuit.
func New(store Store, prov Provider, sourceLang string, log *slog.Logger) *Translator {
	if log == nil {
		log = slog.Default()
	}
	return &Translator{
		store:      store,
		provider:   prov,
		sourceLang: sourceLang,
		log:        log,
		metrics:    &Metrics{},
	}
}

// SourceLang returns the configured source language code.
func (t *Translator) SourceLang() string {
	return t.sourceLang
}

// Metrics returns the shared counters.
func (t *Translator) Metrics() *Metrics {
	return t.metrics
}

// TranslateBatch translates texts from the configured source language.
// See TranslateBatchFrom.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, targetLang string) []string {
	return t.TranslateBatchFrom(ctx, texts, t.sourceLang, targetLang)
}

// TranslateBatchFrom translates texts from sourceLang to targetLang.
// The result always has the same length and order as the input.
// Blank (empty or whitespace-only) entries pass through untouched and
// are never cached or sent to the provider. Duplicate entries resolve
// to a single cache lookup and a single provider text. Cache keys are
// the trimmed text, applied uniformly on read and write.
//
// Every I/O failure degrades: texts that could not be translated come
// back unchanged in their original position.
func (t *Translator) TranslateBatchFrom(ctx context.Context, texts []string, sourceLang, targetLang string) []string {
	if targetLang == sourceLang || len(texts) == 0 {
		return texts
	}

	// Distinct non-blank keys in first-appearance order.
	pending := make([]string, 0, len(texts))
	seen := make(map[string]bool, len(texts))
	for _, s := range texts {
		key := strings.TrimSpace(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		pending = append(pending, key)
	}

	resolved := make(map[string]string, len(pending))
	if len(pending) > 0 {
		cached, err := t.store.GetTranslations(pending, targetLang)
		if err != nil {
			// Fail open: a broken cache read is a full miss.
			t.metrics.CacheReadFailures.Add(1)
			t.log.Warn("translation cache read failed", "target_lang", targetLang, "error", err)
			cached = map[string]string{}
		}

		misses := make([]string, 0, len(pending))
		for _, key := range pending {
			if v, ok := cached[key]; ok {
				resolved[key] = v
				t.metrics.CacheHits.Add(1)
			} else {
				misses = append(misses, key)
				t.metrics.CacheMisses.Add(1)
			}
		}

		if len(misses) > 0 && !t.provider.Disabled() {
			t.metrics.ProviderCalls.Add(1)
			translated, err := t.provider.Translate(ctx, misses, sourceLang, targetLang)
			if err != nil {
				// The whole pending set falls back to source text.
				t.metrics.ProviderFailures.Add(1)
				t.log.Warn("provider call failed, falling back to source text",
					"target_lang", targetLang, "texts", len(misses), "error", err)
			} else {
				for i, key := range misses {
					resolved[key] = translated[i]
					if err := t.store.PutTranslation(key, sourceLang, targetLang, translated[i]); err != nil {
						t.metrics.CacheWriteFailures.Add(1)
						t.log.Warn("translation cache write failed", "target_lang", targetLang, "error", err)
					}
				}
			}
		}
	}

	out := make([]string, len(texts))
	for i, s := range texts {
		key := strings.TrimSpace(s)
		if key == "" {
			out[i] = s
			continue
		}
		if v, ok := resolved[key]; ok {
			out[i] = v
		} else {
			out[i] = s
		}
	}
	return out
}
