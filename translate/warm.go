package translate

import (
	"context"
	"log/slog"

	"github.com/rferruzq202217/ridatours-marketplace-sub000/catalog"
)

// Catalog is the read access the warmer needs over the entity collections.
type Catalog interface {
	GetExperiences() ([]*catalog.Experience, error)
	GetMonuments() ([]*catalog.Monument, error)
	GetCategories() ([]*catalog.Category, error)
	GetGuias() ([]*catalog.Guia, error)
}

// Warmer populates the translation cache for every entity collection and
// every configured target language, ahead of live traffic. Translation
// results are discarded; only the cache writes matter.
type Warmer struct {
	translator  *Translator
	cat         Catalog
	targetLangs []string
	log         *slog.Logger
}

// WarmReport summarises one warming sweep.
type WarmReport struct {
	Collections int `json:"collections"`
	Languages   int `json:"languages"`
	Failed      int `json:"failed"`
}

func NewWarmer(t *Translator, cat Catalog, targetLangs []string, log *slog.Logger) *Warmer {
	if log == nil {
		log = slog.Default()
	}
	return &Warmer{translator: t, cat: cat, targetLangs: targetLangs, log: log}
}

// WarmAll sweeps every collection for every non-source target language.
// Per-collection failures are logged and counted but do not abort the
// sweep; the rest of the cache still gets populated.
func (w *Warmer) WarmAll(ctx context.Context) WarmReport {
	report := WarmReport{Languages: 0}

	for _, lang := range w.targetLangs {
		if lang == w.translator.SourceLang() {
			continue
		}
		report.Languages++

		sweeps := []struct {
			name string
			fn   func() error
		}{
			{"categories", func() error { return w.warmCategories(ctx, lang) }},
			{"experiences", func() error { return w.warmExperiences(ctx, lang) }},
			{"monuments", func() error { return w.warmMonuments(ctx, lang) }},
			{"guias", func() error { return w.warmGuias(ctx, lang) }},
		}

		for _, sweep := range sweeps {
			report.Collections++
			if err := sweep.fn(); err != nil {
				report.Failed++
				w.log.Warn("cache warm sweep failed", "collection", sweep.name, "target_lang", lang, "error", err)
			}
		}
	}

	return report
}

func (w *Warmer) warmCategories(ctx context.Context, lang string) error {
	cs, err := w.cat.GetCategories()
	if err != nil {
		return err
	}
	_, err = w.translator.TranslateCategories(ctx, cs, lang)
	return err
}

func (w *Warmer) warmExperiences(ctx context.Context, lang string) error {
	es, err := w.cat.GetExperiences()
	if err != nil {
		return err
	}
	_, err = w.translator.TranslateExperiences(ctx, es, lang)
	return err
}

func (w *Warmer) warmMonuments(ctx context.Context, lang string) error {
	ms, err := w.cat.GetMonuments()
	if err != nil {
		return err
	}
	_, err = w.translator.TranslateMonuments(ctx, ms, lang)
	return err
}

func (w *Warmer) warmGuias(ctx context.Context, lang string) error {
	gs, err := w.cat.GetGuias()
	if err != nil {
		return err
	}
	for _, g := range gs {
		if _, err := w.translator.TranslateGuiaFull(ctx, g, lang); err != nil {
			return err
		}
	}
	return nil
}
