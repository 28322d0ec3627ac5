/*
Package config implements TOML config file handling for the translation service.

Normally it will be used by simply passing a config file name to the Load function to obtain a
Config struct.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DbDriverSqlite3    = "sqlite3"
	DbDriverPostgresql = "postgres"
)

// SupportedLangs is the closed set of language codes the catalog can be served in.
// The first entry is the canonical source language all content is authored in.
var SupportedLangs = []string{"es", "en", "fr", "de", "it"}

// EnvAPIKey is the environment variable that overrides translation.api_key.
const EnvAPIKey = "TRANSLATION_API_KEY"

// Config represents the parsed configuration for the translation service.
type Config struct {
	DB          DbConfig          `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Translation TranslationConfig `toml:"translation"`
}

// valid checks if the Config is valid in its current state.
func (c *Config) valid() error {
	if c.DB.Driver != DbDriverSqlite3 && c.DB.Driver != DbDriverPostgresql {
		drivers := []string{DbDriverPostgresql, DbDriverSqlite3}
		return fmt.Errorf("config: invalid database.driver value. (Must be one of: '%v')", strings.Join(drivers, ", "))
	}
	if c.DB.Driver == DbDriverSqlite3 && len(c.DB.File) == 0 {
		return fmt.Errorf("config: missing database.file value")
	}
	if c.DB.Driver == DbDriverPostgresql {
		if len(c.DB.Host) == 0 {
			return fmt.Errorf("config: missing database.host value")
		}
		if len(c.DB.Name) == 0 {
			return fmt.Errorf("config: missing database.name value")
		}
		if len(c.DB.User) == 0 {
			return fmt.Errorf("config: missing database.user value")
		}
		if c.DB.Port < 0 {
			return fmt.Errorf("config: invalid database.port value")
		}
	}
	if c.Server.Port < 0 {
		return fmt.Errorf("config: server.port is invalid")
	}
	if !isSupportedLang(c.Translation.SourceLang) {
		return fmt.Errorf("config: translation.source_lang '%v' is not one of: %v", c.Translation.SourceLang, strings.Join(SupportedLangs, ", "))
	}
	for _, lang := range c.Translation.TargetLangs {
		if !isSupportedLang(lang) {
			return fmt.Errorf("config: translation.target_langs entry '%v' is not one of: %v", lang, strings.Join(SupportedLangs, ", "))
		}
	}
	if c.Translation.TimeoutSecs <= 0 {
		return fmt.Errorf("config: translation.timeout_secs must be positive")
	}
	return nil
}

func isSupportedLang(code string) bool {
	for _, l := range SupportedLangs {
		if l == code {
			return true
		}
	}
	return false
}

// DbConfig contains Database connection configuration.
type DbConfig struct {
	// Must be 'sqlite3' or 'postgres'
	Driver string
	// When driver is sqlite3, this is the path to the database file
	File     string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port that the server should run on.
	Port int
}

// TranslationConfig contains translation provider and language configuration.
type TranslationConfig struct {
	// Base URL of the batch-translate endpoint
	APIURL string `toml:"api_url"`
	// Provider credential. May be empty, in which case translation is
	// disabled and all content is served in the source language.
	APIKey string `toml:"api_key"`
	// Per-call timeout for provider requests
	TimeoutSecs int `toml:"timeout_secs"`
	// Language all catalog content is authored in
	SourceLang string `toml:"source_lang"`
	// Languages the cache warmer populates
	TargetLangs []string `toml:"target_langs"`
}

// Timeout returns the provider call timeout as a Duration.
func (t *TranslationConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSecs) * time.Second
}

// Gets a connection string for this config.
func (d *DbConfig) ConnectionString() string {
	cStr := ""
	switch d.Driver {
	case DbDriverPostgresql:
		cStr = fmt.Sprintf("postgres://%v:%v@%v/%v?sslmode=disable", d.User, d.Password, d.Host, d.Name)
	case DbDriverSqlite3:
		cStr = d.File
	}
	return cStr
}

// Creates a new Config with some default values.
func new() Config {
	c := Config{
		DB: DbConfig{
			Driver: "sqlite3",
			File:   filepath.FromSlash("./ridatours.db"),
			Port:   5432, // Postgres default port
		},
		Server: ServerConfig{
			Port: 8181,
		},
		Translation: TranslationConfig{
			APIURL:      "https://api-free.deepl.com/v2/translate",
			TimeoutSecs: 15,
			SourceLang:  "es",
			TargetLangs: []string{"en", "fr", "de", "it"},
		},
	}
	return c
}

// Loads config from a TOML file and checks its validity.
// The provider credential may also be supplied through the TRANSLATION_API_KEY
// environment variable, which takes precedence over the file.
func Load(file string) (Config, error) {
	conf := new()
	_, err := toml.DecodeFile(file, &conf)
	if err != nil {
		return conf, err
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		conf.Translation.APIKey = key
	}

	if err = conf.valid(); err != nil {
		return conf, err
	}

	return conf, nil
}
