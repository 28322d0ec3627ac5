package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rferruzq202217/ridatours-marketplace-sub000/config"
	"github.com/rferruzq202217/ridatours-marketplace-sub000/datastore"
	"github.com/rferruzq202217/ridatours-marketplace-sub000/provider"
	"github.com/rferruzq202217/ridatours-marketplace-sub000/translate"
)

func checkFatal(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openDatastore(c config.Config) *datastore.DataStore {
	var db *sqlx.DB
	db, err := sqlx.Connect(c.DB.Driver, c.DB.ConnectionString())
	checkFatal(err)
	ds, err := datastore.New(db, c.DB.Driver)
	checkFatal(err)

	return ds
}

// initDb initializes the database with all necessary tables.
func initDb(c config.Config) {
	ds := openDatastore(c)

	dbVersion, err := ds.MigrateUp()
	if err != nil {
		fmt.Println(err)
		checkFatal(fmt.Errorf("could not complete database migration, last applied version was %v", dbVersion))
	}

	fmt.Println("Successfully migrated the database to version", dbVersion)
}

// warmCache populates the translation cache for every entity collection
// and every configured target language.
func warmCache(c config.Config) {
	ds := openDatastore(c)

	translator := translate.New(ds, provider.New(c.Translation), c.Translation.SourceLang, slog.Default())
	warmer := translate.NewWarmer(translator, ds, c.Translation.TargetLangs, slog.Default())

	report := warmer.WarmAll(context.Background())

	fmt.Printf("Warmed %v collection sweeps across %v languages (%v failed)\n",
		report.Collections, report.Languages, report.Failed)
	fmt.Print(ds.Stats)
}

// clearCache deletes every translation cache entry.
func clearCache(c config.Config) {
	ds := openDatastore(c)

	deleted, err := ds.ClearTranslations()
	checkFatal(err)

	fmt.Println("Deleted", deleted, "translation cache entries")
}
