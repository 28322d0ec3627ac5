package translate

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type fakeStore struct {
	entries   map[string]string // key: sourceText + "\x00" + targetLang
	getCalls  int
	putCalls  int
	failReads bool
	failPuts  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]string)}
}

func (s *fakeStore) GetTranslations(texts []string, targetLang string) (map[string]string, error) {
	s.getCalls++
	if s.failReads {
		return nil, errors.New("store down")
	}
	found := make(map[string]string)
	for _, t := range texts {
		if v, ok := s.entries[t+"\x00"+targetLang]; ok {
			found[t] = v
		}
	}
	return found, nil
}

func (s *fakeStore) PutTranslation(sourceText, sourceLang, targetLang, translatedText string) error {
	s.putCalls++
	if s.failPuts {
		return errors.New("store down")
	}
	s.entries[sourceText+"\x00"+targetLang] = translatedText
	return nil
}

type fakeProvider struct {
	calls    [][]string
	fail     bool
	disabled bool
}

func (p *fakeProvider) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	p.calls = append(p.calls, append([]string(nil), texts...))
	if p.fail {
		return nil, errors.New("provider down")
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = strings.ToUpper(t)
	}
	return out, nil
}

func (p *fakeProvider) Disabled() bool {
	return p.disabled
}

func newTranslator(store *fakeStore, prov *fakeProvider) *Translator {
	return New(store, prov, "es", nil)
}

func TestTranslateBatchOrderPreservation(t *testing.T) {
	tr := newTranslator(newFakeStore(), &fakeProvider{})

	in := []string{"uno", "dos", "tres", "dos"}
	got := tr.TranslateBatch(context.Background(), in, "en")

	want := []string{"UNO", "DOS", "TRES", "DOS"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TranslateBatch() = %v, want %v", got, want)
	}
}

func TestTranslateBatchIdentityFastPath(t *testing.T) {
	store := newFakeStore()
	prov := &fakeProvider{}
	tr := newTranslator(store, prov)

	in := []string{"hola", "", "  adios  "}
	got := tr.TranslateBatch(context.Background(), in, "es")

	if !reflect.DeepEqual(got, in) {
		t.Fatalf("identity path altered input: %v", got)
	}
	if store.getCalls != 0 || store.putCalls != 0 {
		t.Fatalf("identity path touched the cache: %v gets, %v puts", store.getCalls, store.putCalls)
	}
	if len(prov.calls) != 0 {
		t.Fatalf("identity path called the provider: %v", prov.calls)
	}
}

func TestTranslateBatchBlankPassthrough(t *testing.T) {
	store := newFakeStore()
	prov := &fakeProvider{}
	tr := newTranslator(store, prov)

	got := tr.TranslateBatch(context.Background(), []string{"", "   ", "x"}, "en")

	want := []string{"", "   ", "X"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TranslateBatch() = %q, want %q", got, want)
	}
	if len(prov.calls) != 1 || len(prov.calls[0]) != 1 || prov.calls[0][0] != "x" {
		t.Fatalf("provider should only see %q, saw %v", "x", prov.calls)
	}
	if _, ok := store.entries["\x00en"]; ok {
		t.Fatal("blank string was cached")
	}
}

func TestTranslateBatchDedup(t *testing.T) {
	prov := &fakeProvider{}
	tr := newTranslator(newFakeStore(), prov)

	got := tr.TranslateBatch(context.Background(), []string{"hello", "hello"}, "en")

	if len(prov.calls) != 1 {
		t.Fatalf("expected 1 provider call, got %v", len(prov.calls))
	}
	if !reflect.DeepEqual(prov.calls[0], []string{"hello"}) {
		t.Fatalf("provider texts = %v, want [hello]", prov.calls[0])
	}
	if got[0] != got[1] || got[0] != "HELLO" {
		t.Fatalf("duplicate positions differ: %v", got)
	}
}

func TestTranslateBatchTrimmedCacheKey(t *testing.T) {
	store := newFakeStore()
	prov := &fakeProvider{}
	tr := newTranslator(store, prov)

	// Same text with and without incidental whitespace shares one key.
	tr.TranslateBatch(context.Background(), []string{"hola", "  hola  "}, "en")

	if len(prov.calls) != 1 || !reflect.DeepEqual(prov.calls[0], []string{"hola"}) {
		t.Fatalf("provider texts = %v, want one trimmed [hola]", prov.calls)
	}
	if _, ok := store.entries["hola\x00en"]; !ok {
		t.Fatalf("cache key should be the trimmed text, entries: %v", store.entries)
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected 1 cache row, got %v", len(store.entries))
	}
}

func TestTranslateBatchIdempotentSecondCallFromCache(t *testing.T) {
	store := newFakeStore()
	prov := &fakeProvider{}
	tr := newTranslator(store, prov)

	first := tr.TranslateBatch(context.Background(), []string{"hola"}, "en")
	second := tr.TranslateBatch(context.Background(), []string{"hola"}, "en")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results drifted: %v then %v", first, second)
	}
	if len(prov.calls) != 1 {
		t.Fatalf("second call should be served from cache, provider called %v times", len(prov.calls))
	}
}

func TestTranslateBatchProviderFailureFallsBack(t *testing.T) {
	tr := newTranslator(newFakeStore(), &fakeProvider{fail: true})

	got := tr.TranslateBatch(context.Background(), []string{"hello"}, "en")

	if !reflect.DeepEqual(got, []string{"hello"}) {
		t.Fatalf("expected source fallback, got %v", got)
	}
	if n := tr.Metrics().ProviderFailures.Load(); n != 1 {
		t.Fatalf("provider failure counter = %v, want 1", n)
	}
}

func TestTranslateBatchPartialCacheHitOnProviderFailure(t *testing.T) {
	store := newFakeStore()
	store.entries["hola\x00en"] = "hello"
	tr := newTranslator(store, &fakeProvider{fail: true})

	got := tr.TranslateBatch(context.Background(), []string{"hola", "adios"}, "en")

	want := []string{"hello", "adios"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TranslateBatch() = %v, want cached hit plus fallback %v", got, want)
	}
}

func TestTranslateBatchCacheReadFailureIsMiss(t *testing.T) {
	store := newFakeStore()
	store.failReads = true
	prov := &fakeProvider{}
	tr := newTranslator(store, prov)

	got := tr.TranslateBatch(context.Background(), []string{"hola"}, "en")

	if !reflect.DeepEqual(got, []string{"HOLA"}) {
		t.Fatalf("broken cache read should still translate, got %v", got)
	}
	if len(prov.calls) != 1 {
		t.Fatalf("expected provider call after cache read failure")
	}
}

func TestTranslateBatchCacheWriteFailureStillReturnsResult(t *testing.T) {
	store := newFakeStore()
	store.failPuts = true
	tr := newTranslator(store, &fakeProvider{})

	got := tr.TranslateBatch(context.Background(), []string{"hola"}, "en")

	if !reflect.DeepEqual(got, []string{"HOLA"}) {
		t.Fatalf("cache write failure must not affect the result, got %v", got)
	}
	if n := tr.Metrics().CacheWriteFailures.Load(); n != 1 {
		t.Fatalf("cache write failure counter = %v, want 1", n)
	}
}

func TestTranslateBatchDisabledProviderFallsBack(t *testing.T) {
	prov := &fakeProvider{disabled: true}
	tr := newTranslator(newFakeStore(), prov)

	got := tr.TranslateBatch(context.Background(), []string{"hola"}, "en")

	if !reflect.DeepEqual(got, []string{"hola"}) {
		t.Fatalf("disabled provider should fall back to source, got %v", got)
	}
	if len(prov.calls) != 0 {
		t.Fatalf("disabled provider must not be called")
	}
}

func TestTranslateBatchEmptyInput(t *testing.T) {
	store := newFakeStore()
	tr := newTranslator(store, &fakeProvider{})

	got := tr.TranslateBatch(context.Background(), nil, "en")

	if len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
	if store.getCalls != 0 {
		t.Fatal("empty input should not hit the cache")
	}
}

func TestTranslateBatchCacheHitCounters(t *testing.T) {
	store := newFakeStore()
	store.entries["hola\x00en"] = "hello"
	tr := newTranslator(store, &fakeProvider{})

	tr.TranslateBatch(context.Background(), []string{"hola", "adios"}, "en")

	m := tr.Metrics().Snapshot()
	if m.CacheHits != 1 || m.CacheMisses != 1 {
		t.Fatalf("hits/misses = %v/%v, want 1/1", m.CacheHits, m.CacheMisses)
	}
	if m.ProviderCalls != 1 {
		t.Fatalf("provider calls = %v, want 1", m.ProviderCalls)
	}
}
