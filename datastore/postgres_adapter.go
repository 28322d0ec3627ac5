package datastore

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// PostgresAdapter provides support for PostgreSQL databases.
type PostgresAdapter struct{}

func (a PostgresAdapter) EnsureVersionTableExists(db *sqlx.DB) (err error) {
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version integer PRIMARY KEY NOT NULL)`)
	if err != nil {
		return err
	}

	var count int
	err = db.Get(&count, `SELECT COUNT(*) FROM schema_migrations`)
	if err != nil {
		return err
	}
	switch {
	case count == 0:
		_, err = db.Exec(`INSERT INTO schema_migrations (version) VALUES (0)`)
	case count > 1:
		err = errors.New("too many rows in schema_migrations table")
	}

	return err
}

func (a PostgresAdapter) PostCreate(db *sqlx.DB) (err error) {
	return nil
}

func (a PostgresAdapter) Placeholder() sq.PlaceholderFormat {
	return sq.Dollar
}

func (a PostgresAdapter) up() []string {
	return []string{
		// 1
		`
CREATE TABLE translation_cache (
    id SERIAL PRIMARY KEY,
    source_text TEXT NOT NULL,
    source_lang varchar NOT NULL,
    target_lang varchar NOT NULL,
    translated_text TEXT NOT NULL
);
CREATE UNIQUE INDEX source_text_target_lang_idx ON translation_cache (source_text, target_lang);
CREATE INDEX target_lang_idx ON translation_cache (target_lang);`,
		// 2
		`
CREATE TABLE category (
    id SERIAL PRIMARY KEY,
    slug varchar UNIQUE NOT NULL,
    name varchar NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE experience (
    id SERIAL PRIMARY KEY,
    slug varchar UNIQUE NOT NULL,
    city_id integer NOT NULL DEFAULT 0,
    title varchar NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    highlights TEXT NOT NULL DEFAULT '[]',
    tips TEXT NOT NULL DEFAULT '[]',
    price numeric NOT NULL DEFAULT 0,
    image_url varchar NOT NULL DEFAULT ''
);
CREATE INDEX experience_city_id_idx ON experience (city_id);
CREATE TABLE monument (
    id SERIAL PRIMARY KEY,
    slug varchar UNIQUE NOT NULL,
    name varchar NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    why_visit TEXT NOT NULL DEFAULT '[]',
    what_to_see TEXT NOT NULL DEFAULT '[]',
    faqs TEXT NOT NULL DEFAULT '[]',
    image_url varchar NOT NULL DEFAULT ''
);
CREATE TABLE guia (
    id SERIAL PRIMARY KEY,
    slug varchar UNIQUE NOT NULL,
    title varchar NOT NULL,
    subtitle varchar NOT NULL DEFAULT '',
    meta_description TEXT NOT NULL DEFAULT '',
    sections TEXT NOT NULL DEFAULT '[]',
    body TEXT NOT NULL DEFAULT ''
);`,
	}
}

func (a PostgresAdapter) down() []string {
	return []string{
		// 1
		`DROP TABLE IF EXISTS translation_cache;`,
		// 2
		`
DROP TABLE IF EXISTS guia;
DROP TABLE IF EXISTS monument;
DROP TABLE IF EXISTS experience;
DROP TABLE IF EXISTS category;
`,
	}
}

func (a PostgresAdapter) MigrateUp(db *sqlx.DB) (version int64, err error) {
	startVer, err := a.version(db)
	if err != nil {
		return version, err
	}

	for i, query := range a.up() {
		migTo := int64(i + 1)
		if migTo <= startVer {
			version = migTo
			continue
		}

		_, err = db.Exec(query)
		if err != nil {
			return version, err
		}

		err = a.updateVersion(migTo, db)
		if err != nil {
			return version, err
		}

		version = migTo
	}

	return version, err
}

func (a PostgresAdapter) MigrateDown(db *sqlx.DB) (version int64, err error) {
	startVer, err := a.version(db)
	if err != nil {
		return version, err
	}

	down := a.down()
	for i := len(down) - 1; i >= 0; i-- {
		query := down[i]
		migVer := int64(i + 1) // The version of the Down migration we will apply
		migTo := int64(i)      // The version we will end up at

		// Skip migrations for newer versions
		if migVer > startVer {
			version = startVer
			continue
		}

		_, err = db.Exec(query)
		if err != nil {
			return version, err
		}

		err = a.updateVersion(migTo, db)
		if err != nil {
			return version, err
		}

		version = migTo
	}

	return version, err
}

func (a PostgresAdapter) version(db *sqlx.DB) (version int64, err error) {
	row := db.QueryRow(`SELECT version FROM schema_migrations;`)
	err = row.Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		return 0, nil
	case err != nil:
		return 0, err
	default:
		return version, nil
	}
}

func (a PostgresAdapter) updateVersion(version int64, db *sqlx.DB) (err error) {
	_, err = db.Exec(`UPDATE schema_migrations SET version = $1`, int64(version))

	return err
}
