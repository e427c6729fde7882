package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HOME_TEAM_IDENTIFIERS", " Chestnut Oaks , Mercurio ,,")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://example.com")
	t.Setenv("MAX_INPUT_BYTES", "2048")

	cfg := LoadFromEnv()

	if !reflect.DeepEqual(cfg.Team.Identifiers, []string{"Chestnut Oaks", "Mercurio"}) {
		t.Errorf("Identifiers = %q", cfg.Team.Identifiers)
	}
	if cfg.Calendar.Timezone != "UTC" {
		t.Errorf("Timezone = %s", cfg.Calendar.Timezone)
	}
	if cfg.Web.Port != "9090" {
		t.Errorf("Port = %s", cfg.Web.Port)
	}
	if !reflect.DeepEqual(cfg.Web.CORSOrigins, []string{"https://example.com"}) {
		t.Errorf("CORSOrigins = %q", cfg.Web.CORSOrigins)
	}
	if cfg.Input.MaxBytes != 2048 {
		t.Errorf("MaxBytes = %d", cfg.Input.MaxBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HOME_TEAM_IDENTIFIERS", "TIMEZONE", "CALENDAR_PRODUCT_ID", "WEB_PORT", "CORS_ORIGINS", "MAX_INPUT_BYTES"} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()

	if cfg.Team.Identifiers != nil {
		t.Errorf("Identifiers = %q, want none", cfg.Team.Identifiers)
	}
	if cfg.Web.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Web.Port)
	}
	if cfg.Input.MaxBytes != 1<<20 {
		t.Errorf("MaxBytes = %d, want 1 MiB", cfg.Input.MaxBytes)
	}
	loc, err := cfg.GetLocation()
	if err != nil || loc != time.Local {
		t.Errorf("GetLocation() = %v, %v; want Local", loc, err)
	}
}

func TestLoad_ConfigFileOverridesEnv(t *testing.T) {
	t.Setenv("HOME_TEAM_IDENTIFIERS", "Woodlake")
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("CONFIG_FILE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "importer.yaml")
	yamlData := `team:
  identifiers:
    - chestnut oaks
    - mercurio
calendar:
  timezone: America/New_York
`
	if err := os.WriteFile(path, []byte(yamlData), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, "missing.env"), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(cfg.Team.Identifiers, []string{"chestnut oaks", "mercurio"}) {
		t.Errorf("Identifiers = %q", cfg.Team.Identifiers)
	}
	if cfg.Calendar.Timezone != "America/New_York" {
		t.Errorf("Timezone = %s", cfg.Calendar.Timezone)
	}
	if cfg.Web.Port != "9090" {
		t.Errorf("Port should keep the environment value, got %s", cfg.Web.Port)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("WEB_PORT", "")
	os.Unsetenv("WEB_PORT")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("WEB_PORT=7070\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(envPath, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Web.Port != "7070" {
		t.Errorf("Port = %s, want 7070 from .env", cfg.Web.Port)
	}
}

func TestLoad_BadConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("team: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load("", path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
	if _, err := Load("", filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("Load() should fail on a missing config file")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "unknown timezone", modify: func(c *Config) { c.Calendar.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "empty port", modify: func(c *Config) { c.Web.Port = "" }, wantErr: true},
		{name: "non numeric port", modify: func(c *Config) { c.Web.Port = "http" }, wantErr: true},
		{name: "zero max bytes", modify: func(c *Config) { c.Input.MaxBytes = 0 }, wantErr: true},
		{name: "blank identifier", modify: func(c *Config) { c.Team.Identifiers = []string{"Oaks", " "} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Calendar: CalendarConfig{Timezone: "UTC"},
				Web:      WebConfig{Port: "8080"},
				Input:    InputConfig{MaxBytes: 1024},
			}
			tt.modify(cfg)

			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
