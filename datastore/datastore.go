/*
Package datastore provides sqlx-backed access to the marketplace catalog
and the durable translation cache.

Driver differences (placeholders, migrations, connection setup) live
behind the Adapter interface; everything else is shared. The translation
cache is a single table keyed by (source_text, target_lang) with upsert
semantics, so concurrent writers for the same pair are last-write-wins.
*/
package datastore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/rferruzq202217/ridatours-marketplace-sub000/catalog"
	"github.com/rferruzq202217/ridatours-marketplace-sub000/config"
	"github.com/rferruzq202217/ridatours-marketplace-sub000/richtext"
)

// Adapter provides database-driver-specific behaviour: migrations,
// post-connect setup and the SQL placeholder style.
type Adapter interface {
	PostCreate(*sqlx.DB) error
	EnsureVersionTableExists(*sqlx.DB) error
	MigrateUp(*sqlx.DB) (int64, error)
	MigrateDown(*sqlx.DB) (int64, error)
	Placeholder() sq.PlaceholderFormat
}

type DataStore struct {
	adapter Adapter
	db      *sqlx.DB
	sq      sq.StatementBuilderType
	Stats   Stats
}

type Stats map[StatKey]StatItem

type StatKey struct {
	Name   string
	Action string
}

type StatItem struct {
	Duration time.Duration
	Count    int
}

func (s Stats) Log(name, action string, d time.Duration) {
	item := s[StatKey{Name: name, Action: action}]
	item.Count++
	item.Duration += d
	s[StatKey{Name: name, Action: action}] = item
}

func (s Stats) String() (out string) {
	for k, v := range s {
		out += fmt.Sprintf("%v  %v '%v' actions took %v total, %v avg\n", v.Count, k.Name, k.Action, v.Duration, v.Duration/time.Duration(v.Count))
	}

	return out
}

// Creates a new datastore using the given database connection. The driver parameter is used to
// select the appropriate database adapter, and should be one of the config.DbDriver* constants.
func New(db *sqlx.DB, driver string) (ds *DataStore, err error) {
	adp, err := newAdapter(driver)
	if err != nil {
		return &DataStore{}, err
	}

	ds = &DataStore{
		adapter: adp,
		db:      db,
		sq:      sq.StatementBuilder.PlaceholderFormat(adp.Placeholder()),
		Stats:   make(map[StatKey]StatItem),
	}

	err = ds.adapter.PostCreate(ds.db)
	if err != nil {
		return ds, err
	}

	return ds, nil
}

func newAdapter(driver string) (adp Adapter, err error) {
	switch driver {
	case config.DbDriverSqlite3:
		adp = &Sqlite3Adapter{}
	case config.DbDriverPostgresql:
		adp = &PostgresAdapter{}
	}

	if adp == nil {
		return nil, fmt.Errorf("no adapter available for database driver '%v'", driver)
	}

	return adp, nil
}

// MigrateUp applies all pending schema migrations and returns the
// resulting schema version.
func (ds *DataStore) MigrateUp() (version int64, err error) {
	if err = ds.adapter.EnsureVersionTableExists(ds.db); err != nil {
		return 0, err
	}
	return ds.adapter.MigrateUp(ds.db)
}

// MigrateDown reverts all applied schema migrations.
func (ds *DataStore) MigrateDown() (version int64, err error) {
	if err = ds.adapter.EnsureVersionTableExists(ds.db); err != nil {
		return 0, err
	}
	return ds.adapter.MigrateDown(ds.db)
}

// GetTranslation looks up a single cached translation. The second return
// value reports whether the pair was present.
func (ds *DataStore) GetTranslation(sourceText, targetLang string) (translated string, ok bool, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("cache", "get", time.Since(start)) }()

	query, args, err := ds.sq.Select("translated_text").
		From("translation_cache").
		Where(sq.Eq{"source_text": sourceText, "target_lang": targetLang}).
		ToSql()
	if err != nil {
		return "", false, err
	}

	err = ds.db.Get(&translated, query, args...)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return translated, true, nil
}

// GetTranslations looks up many cached translations in one round trip.
// The returned map only contains keys that were present in the cache.
func (ds *DataStore) GetTranslations(sourceTexts []string, targetLang string) (found map[string]string, err error) {
	found = make(map[string]string)
	if len(sourceTexts) == 0 {
		return found, nil
	}

	start := time.Now()
	defer func() { ds.Stats.Log("cache", "get-many", time.Since(start)) }()

	query, args, err := ds.sq.Select("source_text", "translated_text").
		From("translation_cache").
		Where(sq.Eq{"source_text": sourceTexts, "target_lang": targetLang}).
		ToSql()
	if err != nil {
		return found, err
	}

	rows, err := ds.db.Query(query, args...)
	if err != nil {
		return found, err
	}
	defer rows.Close()

	for rows.Next() {
		var src, translated string
		if err = rows.Scan(&src, &translated); err != nil {
			return found, err
		}
		found[src] = translated
	}

	return found, rows.Err()
}

// PutTranslation upserts one cache entry keyed by (source_text, target_lang).
// A later write for the same pair overwrites, it does not duplicate.
func (ds *DataStore) PutTranslation(sourceText, sourceLang, targetLang, translatedText string) (err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("cache", "put", time.Since(start)) }()

	query, args, err := ds.sq.Insert("translation_cache").
		Columns("source_text", "source_lang", "target_lang", "translated_text").
		Values(sourceText, sourceLang, targetLang, translatedText).
		Suffix("ON CONFLICT (source_text, target_lang) DO UPDATE SET translated_text = excluded.translated_text, source_lang = excluded.source_lang").
		ToSql()
	if err != nil {
		return err
	}

	_, err = ds.db.Exec(query, args...)
	return err
}

// ClearTranslations deletes every cache entry and returns how many were
// removed. Operator-triggered maintenance only.
func (ds *DataStore) ClearTranslations() (deleted int64, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("cache", "clear", time.Since(start)) }()

	res, err := ds.db.Exec("DELETE FROM translation_cache")
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// CountTranslations reports the number of cache entries.
func (ds *DataStore) CountTranslations() (count int64, err error) {
	err = ds.db.Get(&count, "SELECT COUNT(*) FROM translation_cache")
	return count, err
}

type experienceRow struct {
	ID          int64   `db:"id"`
	Slug        string  `db:"slug"`
	CityID      int64   `db:"city_id"`
	Title       string  `db:"title"`
	Description string  `db:"description"`
	Highlights  []byte  `db:"highlights"`
	Tips        []byte  `db:"tips"`
	Price       float64 `db:"price"`
	ImageURL    string  `db:"image_url"`
}

func (r experienceRow) toEntity() (*catalog.Experience, error) {
	e := &catalog.Experience{
		ID:          r.ID,
		Slug:        r.Slug,
		CityID:      r.CityID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
	}

	var err error
	if e.Highlights, err = decodeStrings(r.Highlights); err != nil {
		return nil, err
	}
	if e.Tips, err = decodeStrings(r.Tips); err != nil {
		return nil, err
	}
	return e, nil
}

// GetExperience gets one experience by id.
// Returns sql.ErrNoRows when the id cannot be found.
func (ds *DataStore) GetExperience(id int64) (e *catalog.Experience, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("experience", "get", time.Since(start)) }()

	query, args, err := ds.sq.Select("id", "slug", "city_id", "title", "description", "highlights", "tips", "price", "image_url").
		From("experience").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row experienceRow
	if err = ds.db.Get(&row, query, args...); err != nil {
		return nil, err
	}

	return row.toEntity()
}

// GetExperiences gets every experience, ordered by slug.
func (ds *DataStore) GetExperiences() (es []*catalog.Experience, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("experience", "get-all", time.Since(start)) }()

	var rows []experienceRow
	err = ds.db.Select(&rows, "SELECT id, slug, city_id, title, description, highlights, tips, price, image_url FROM experience ORDER BY slug")
	if err != nil {
		return nil, err
	}

	es = make([]*catalog.Experience, len(rows))
	for i, r := range rows {
		if es[i], err = r.toEntity(); err != nil {
			return nil, err
		}
	}
	return es, nil
}

type monumentRow struct {
	ID          int64  `db:"id"`
	Slug        string `db:"slug"`
	Name        string `db:"name"`
	Description string `db:"description"`
	WhyVisit    []byte `db:"why_visit"`
	WhatToSee   []byte `db:"what_to_see"`
	FAQs        []byte `db:"faqs"`
	ImageURL    string `db:"image_url"`
}

func (r monumentRow) toEntity() (*catalog.Monument, error) {
	m := &catalog.Monument{
		ID:          r.ID,
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}

	var err error
	if m.WhyVisit, err = decodeStrings(r.WhyVisit); err != nil {
		return nil, err
	}
	if m.WhatToSee, err = decodeStrings(r.WhatToSee); err != nil {
		return nil, err
	}
	if len(r.FAQs) > 0 {
		if err = json.Unmarshal(r.FAQs, &m.FAQs); err != nil {
			return nil, fmt.Errorf("datastore: bad faqs JSON for monument %v: %w", r.ID, err)
		}
	}
	return m, nil
}

// GetMonument gets one monument by id.
// Returns sql.ErrNoRows when the id cannot be found.
func (ds *DataStore) GetMonument(id int64) (m *catalog.Monument, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("monument", "get", time.Since(start)) }()

	query, args, err := ds.sq.Select("id", "slug", "name", "description", "why_visit", "what_to_see", "faqs", "image_url").
		From("monument").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row monumentRow
	if err = ds.db.Get(&row, query, args...); err != nil {
		return nil, err
	}

	return row.toEntity()
}

// GetMonuments gets every monument, ordered by slug.
func (ds *DataStore) GetMonuments() (ms []*catalog.Monument, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("monument", "get-all", time.Since(start)) }()

	var rows []monumentRow
	err = ds.db.Select(&rows, "SELECT id, slug, name, description, why_visit, what_to_see, faqs, image_url FROM monument ORDER BY slug")
	if err != nil {
		return nil, err
	}

	ms = make([]*catalog.Monument, len(rows))
	for i, r := range rows {
		if ms[i], err = r.toEntity(); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

// GetCategories gets every category, ordered by slug.
func (ds *DataStore) GetCategories() (cs []*catalog.Category, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("category", "get-all", time.Since(start)) }()

	err = ds.db.Select(&cs, "SELECT id, slug, name, description FROM category ORDER BY slug")
	return cs, err
}

type guiaRow struct {
	ID              int64  `db:"id"`
	Slug            string `db:"slug"`
	Title           string `db:"title"`
	Subtitle        string `db:"subtitle"`
	MetaDescription string `db:"meta_description"`
	Sections        []byte `db:"sections"`
	Body            []byte `db:"body"`
}

func (r guiaRow) toEntity() (*catalog.Guia, error) {
	g := &catalog.Guia{
		ID:              r.ID,
		Slug:            r.Slug,
		Title:           r.Title,
		Subtitle:        r.Subtitle,
		MetaDescription: r.MetaDescription,
	}

	if len(r.Sections) > 0 {
		if err := json.Unmarshal(r.Sections, &g.Sections); err != nil {
			return nil, fmt.Errorf("datastore: bad sections JSON for guia %v: %w", r.ID, err)
		}
	}
	if len(r.Body) > 0 {
		body, err := richtext.Parse(r.Body)
		if err != nil {
			return nil, fmt.Errorf("datastore: bad body for guia %v: %w", r.ID, err)
		}
		g.Body = body
	}
	return g, nil
}

// GetGuia gets one guide page by slug.
// Returns sql.ErrNoRows when the slug cannot be found.
func (ds *DataStore) GetGuia(slug string) (g *catalog.Guia, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("guia", "get", time.Since(start)) }()

	query, args, err := ds.sq.Select("id", "slug", "title", "subtitle", "meta_description", "sections", "body").
		From("guia").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row guiaRow
	if err = ds.db.Get(&row, query, args...); err != nil {
		return nil, err
	}

	return row.toEntity()
}

// GetGuias gets every guide page, ordered by slug.
func (ds *DataStore) GetGuias() (gs []*catalog.Guia, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("guia", "get-all", time.Since(start)) }()

	var rows []guiaRow
	err = ds.db.Select(&rows, "SELECT id, slug, title, subtitle, meta_description, sections, body FROM guia ORDER BY slug")
	if err != nil {
		return nil, err
	}

	gs = make([]*catalog.Guia, len(rows))
	for i, r := range rows {
		if gs[i], err = r.toEntity(); err != nil {
			return nil, err
		}
	}
	return gs, nil
}

func decodeStrings(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return nil, fmt.Errorf("datastore: bad string array JSON: %w", err)
	}
	return ss, nil
}
