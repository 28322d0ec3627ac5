package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ridatours.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if c.DB.Driver != DbDriverSqlite3 {
		t.Fatalf("default driver = %q", c.DB.Driver)
	}
	if c.Server.Port != 8181 {
		t.Fatalf("default port = %v", c.Server.Port)
	}
	if c.Translation.SourceLang != "es" {
		t.Fatalf("default source lang = %q", c.Translation.SourceLang)
	}
	if len(c.Translation.TargetLangs) != 4 {
		t.Fatalf("default target langs = %v", c.Translation.TargetLangs)
	}
	if c.Translation.APIKey != "" {
		t.Fatalf("expected empty default credential, got %q", c.Translation.APIKey)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = "postgres"
host = "db.internal"
name = "ridatours"
user = "web"
password = "secret"

[server]
port = 9000

[translation]
api_key = "file-key"
timeout_secs = 5
target_langs = ["en", "fr"]
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if c.DB.Driver != DbDriverPostgresql || c.Server.Port != 9000 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if got := c.DB.ConnectionString(); !strings.Contains(got, "db.internal") {
		t.Fatalf("ConnectionString() = %q", got)
	}
	if c.Translation.APIKey != "file-key" {
		t.Fatalf("api key = %q", c.Translation.APIKey)
	}
}

func TestLoadEnvCredentialWins(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")

	path := writeConfig(t, `
[translation]
api_key = "file-key"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Translation.APIKey != "env-key" {
		t.Fatalf("env credential should win, got %q", c.Translation.APIKey)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad driver", "[database]\ndriver = \"oracle\"\n"},
		{"missing sqlite file", "[database]\ndriver = \"sqlite3\"\nfile = \"\"\n"},
		{"missing postgres host", "[database]\ndriver = \"postgres\"\nname = \"x\"\nuser = \"x\"\n"},
		{"unsupported source lang", "[translation]\nsource_lang = \"jp\"\n"},
		{"unsupported target lang", "[translation]\ntarget_langs = [\"en\", \"jp\"]\n"},
		{"zero timeout", "[translation]\ntimeout_secs = 0\n"},
	}

	for _, tc := range cases {
		path := writeConfig(t, tc.content)
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
