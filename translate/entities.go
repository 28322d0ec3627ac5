package translate

import (
	"context"
	"fmt"

	"github.com/rferruzq202217/ridatours-marketplace-sub000/catalog"
)

// cursor consumes a translated slot list in order during rebuild.
type cursor struct {
	texts []string
	next  int
}

func (c *cursor) take(string) string {
	if c.next >= len(c.texts) {
		panic("translate: rebuild consumed more slots than were extracted")
	}
	s := c.texts[c.next]
	c.next++
	return s
}

// translateInto extracts every translatable slot from the given entities,
// issues one batch call covering all of them, and splices the results
// back in place. The entities are mutated; callers pass clones.
//
// Extraction and rebuild run the same VisitTexts traversal, so slot
// order agrees by construction. A count mismatch means an entity
// mutated between the two passes and is treated as a programmer error.
func (t *Translator) translateInto(ctx context.Context, targetLang string, entities ...catalog.Translatable) error {
	var texts []string
	for _, e := range entities {
		err := e.VisitTexts(func(s string) string {
			texts = append(texts, s)
			return s
		})
		if err != nil {
			return fmt.Errorf("translate: extract: %w", err)
		}
	}

	translated := t.TranslateBatch(ctx, texts, targetLang)

	cur := &cursor{texts: translated}
	for _, e := range entities {
		if err := e.VisitTexts(cur.take); err != nil {
			return fmt.Errorf("translate: rebuild: %w", err)
		}
	}
	if cur.next != len(cur.texts) {
		panic(fmt.Sprintf("translate: rebuild consumed %v of %v slots", cur.next, len(cur.texts)))
	}
	return nil
}

// TranslateExperience returns a copy of e with its text fields translated
// to targetLang. Non-text fields pass through untouched. When targetLang
// is the source language, e is returned as-is without extraction.
func (t *Translator) TranslateExperience(ctx context.Context, e *catalog.Experience, targetLang string) (*catalog.Experience, error) {
	if targetLang == t.sourceLang {
		return e, nil
	}

	cp := e.Clone()
	if err := t.translateInto(ctx, targetLang, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// TranslateExperiences translates a list of experiences with a single
// batch call covering every entity in the list.
func (t *Translator) TranslateExperiences(ctx context.Context, es []*catalog.Experience, targetLang string) ([]*catalog.Experience, error) {
	if targetLang == t.sourceLang {
		return es, nil
	}

	cps := make([]*catalog.Experience, len(es))
	all := make([]catalog.Translatable, len(es))
	for i, e := range es {
		cps[i] = e.Clone()
		all[i] = cps[i]
	}
	if err := t.translateInto(ctx, targetLang, all...); err != nil {
		return nil, err
	}
	return cps, nil
}

// TranslateMonument returns a copy of m with name, description, the
// why-visit/what-to-see lists and every FAQ entry translated.
func (t *Translator) TranslateMonument(ctx context.Context, m *catalog.Monument, targetLang string) (*catalog.Monument, error) {
	if targetLang == t.sourceLang {
		return m, nil
	}

	cp := m.Clone()
	if err := t.translateInto(ctx, targetLang, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// TranslateMonuments translates a list of monuments with a single batch call.
func (t *Translator) TranslateMonuments(ctx context.Context, ms []*catalog.Monument, targetLang string) ([]*catalog.Monument, error) {
	if targetLang == t.sourceLang {
		return ms, nil
	}

	cps := make([]*catalog.Monument, len(ms))
	all := make([]catalog.Translatable, len(ms))
	for i, m := range ms {
		cps[i] = m.Clone()
		all[i] = cps[i]
	}
	if err := t.translateInto(ctx, targetLang, all...); err != nil {
		return nil, err
	}
	return cps, nil
}

// TranslateCategory returns a copy of c with name and description translated.
func (t *Translator) TranslateCategory(ctx context.Context, c *catalog.Category, targetLang string) (*catalog.Category, error) {
	if targetLang == t.sourceLang {
		return c, nil
	}

	cp := c.Clone()
	if err := t.translateInto(ctx, targetLang, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// TranslateCategories translates a list of categories with a single batch call.
func (t *Translator) TranslateCategories(ctx context.Context, cs []*catalog.Category, targetLang string) ([]*catalog.Category, error) {
	if targetLang == t.sourceLang {
		return cs, nil
	}

	cps := make([]*catalog.Category, len(cs))
	all := make([]catalog.Translatable, len(cs))
	for i, c := range cs {
		cps[i] = c.Clone()
		all[i] = cps[i]
	}
	if err := t.translateInto(ctx, targetLang, all...); err != nil {
		return nil, err
	}
	return cps, nil
}

// TranslateGuiaFull returns a copy of g with flat title fields, section
// blocks and every rich text leaf translated, in one batch call covering
// all regions. The body tree keeps its node kinds, nesting, marks and
// link targets byte-for-byte; only leaf text changes.
func (t *Translator) TranslateGuiaFull(ctx context.Context, g *catalog.Guia, targetLang string) (*catalog.Guia, error) {
	if targetLang == t.sourceLang {
		return g, nil
	}

	cp := g.Clone()
	if err := t.translateInto(ctx, targetLang, cp); err != nil {
		return nil, err
	}
	return cp, nil
}
