package datastore

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Sqlite3Adapter provides support for SQLite3 databases.
type Sqlite3Adapter struct{}

func (s Sqlite3Adapter) EnsureVersionTableExists(db *sqlx.DB) (err error) {
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS "schema_migrations" ("version" INTEGER PRIMARY KEY NOT NULL)`)
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

func (s Sqlite3Adapter) PostCreate(db *sqlx.DB) (err error) {
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return err
	}
	// Faster than using default journal file
	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return err
	}
	// Default (full) is slower
	_, err = db.Exec("PRAGMA synchronous = NORMAL")
	if err != nil {
		return err
	}

	return nil
}

func (s Sqlite3Adapter) Placeholder() sq.PlaceholderFormat {
	return sq.Question
}

func (s Sqlite3Adapter) up() []string {
	return []string{
		// 1
		`
CREATE TABLE "translation_cache" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "source_text" TEXT NOT NULL,
    "source_lang" TEXT NOT NULL,
    "target_lang" TEXT NOT NULL,
    "translated_text" TEXT NOT NULL
);
CREATE UNIQUE INDEX "source_text_target_lang" ON "translation_cache" ("source_text", "target_lang");
CREATE INDEX "target_lang" ON "translation_cache" ("target_lang");
`,
		// 2
		`
CREATE TABLE "category" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "slug" TEXT UNIQUE NOT NULL,
    "name" TEXT NOT NULL,
    "description" TEXT NOT NULL DEFAULT ''
);
CREATE TABLE "experience" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "slug" TEXT UNIQUE NOT NULL,
    "city_id" INTEGER NOT NULL DEFAULT 0,
    "title" TEXT NOT NULL,
    "description" TEXT NOT NULL DEFAULT '',
    "highlights" TEXT NOT NULL DEFAULT '[]',
    "tips" TEXT NOT NULL DEFAULT '[]',
    "price" REAL NOT NULL DEFAULT 0,
    "image_url" TEXT NOT NULL DEFAULT ''
);
CREATE INDEX "experience_city_id" ON "experience" ("city_id");
CREATE TABLE "monument" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "slug" TEXT UNIQUE NOT NULL,
    "name" TEXT NOT NULL,
    "description" TEXT NOT NULL DEFAULT '',
    "why_visit" TEXT NOT NULL DEFAULT '[]',
    "what_to_see" TEXT NOT NULL DEFAULT '[]',
    "faqs" TEXT NOT NULL DEFAULT '[]',
    "image_url" TEXT NOT NULL DEFAULT ''
);
CREATE TABLE "guia" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "slug" TEXT UNIQUE NOT NULL,
    "title" TEXT NOT NULL,
    "subtitle" TEXT NOT NULL DEFAULT '',
    "meta_description" TEXT NOT NULL DEFAULT '',
    "sections" TEXT NOT NULL DEFAULT '[]',
    "body" TEXT NOT NULL DEFAULT ''
);
`,
	}
}

func (s Sqlite3Adapter) down() []string {
	return []string{
		// 1
		`DROP TABLE translation_cache;`,
		// 2
		`
DROP TABLE guia;
DROP TABLE monument;
DROP TABLE experience;
DROP TABLE category;
`,
	}
}

func (s Sqlite3Adapter) MigrateUp(db *sqlx.DB) (version int64, err error) {
	startVer, err := s.version(db)
	if err != nil {
		return version, err
	}

	for i, query := range s.up() {
		migTo := int64(i + 1)
		if migTo <= startVer {
			version = migTo
			continue
		}

		_, err = db.Exec(query)
		if err != nil {
			return version, err
		}

		err = s.updateVersion(migTo, db)
		if err != nil {
			return version, err
		}

		version = migTo
	}

	return version, err
}

func (s Sqlite3Adapter) MigrateDown(db *sqlx.DB) (version int64, err error) {
	startVer, err := s.version(db)
	if err != nil {
		return version, err
	}

	down := s.down()
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

		err = s.updateVersion(migTo, db)
		if err != nil {
			return version, err
		}

		version = migTo
	}

	return version, err
}

func (s Sqlite3Adapter) version(db *sqlx.DB) (version int64, err error) {
	row := db.QueryRow("SELECT version FROM schema_migrations")
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

func (s Sqlite3Adapter) updateVersion(version int64, db *sqlx.DB) (err error) {
	_, err = db.Exec("UPDATE schema_migrations SET version = ?", int64(version))

	return err
}
