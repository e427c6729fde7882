package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Team     TeamConfig     `yaml:"team"`
	Calendar CalendarConfig `yaml:"calendar"`
	Web      WebConfig      `yaml:"web"`
	Input    InputConfig    `yaml:"input"`
}

type TeamConfig struct {
	// Identifiers that must all appear in a home team name for the match to
	// count as ours, e.g. a club name and the captain's surname.
	Identifiers []string `yaml:"identifiers"`
}

type CalendarConfig struct {
	Timezone  string `yaml:"timezone"`
	ProductID string `yaml:"product_id"`
}

type WebConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// Load reads an optional .env file, the environment, and then an optional
// YAML file whose non-empty values override the environment.
func Load(envFile, configFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := LoadFromEnv()

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		if err := cfg.applyFile(configFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func LoadFromEnv() *Config {
	return &Config{
		Team: TeamConfig{
			Identifiers: getEnvList("HOME_TEAM_IDENTIFIERS", nil),
		},
		Calendar: CalendarConfig{
			Timezone:  getEnv("TIMEZONE", "Local"),
			ProductID: getEnv("CALENDAR_PRODUCT_ID", "-//USTA Schedule Importer//EN"),
		},
		Web: WebConfig{
			Port:        getEnv("WEB_PORT", "8080"),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Input: InputConfig{
			MaxBytes: getEnvInt64("MAX_INPUT_BYTES", 1<<20),
		},
	}
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if len(file.Team.Identifiers) > 0 {
		c.Team.Identifiers = file.Team.Identifiers
	}
	if file.Calendar.Timezone != "" {
		c.Calendar.Timezone = file.Calendar.Timezone
	}
	if file.Calendar.ProductID != "" {
		c.Calendar.ProductID = file.Calendar.ProductID
	}
	if file.Web.Port != "" {
		c.Web.Port = file.Web.Port
	}
	if len(file.Web.CORSOrigins) > 0 {
		c.Web.CORSOrigins = file.Web.CORSOrigins
	}
	if file.Input.MaxBytes > 0 {
		c.Input.MaxBytes = file.Input.MaxBytes
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := c.GetLocation(); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	if c.Web.Port == "" {
		return fmt.Errorf("web.port is required")
	}

	if _, err := strconv.Atoi(c.Web.Port); err != nil {
		return fmt.Errorf("invalid web.port %q: %w", c.Web.Port, err)
	}

	if c.Input.MaxBytes <= 0 {
		return fmt.Errorf("input.max_bytes must be positive")
	}

	for _, id := range c.Team.Identifiers {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("team.identifiers must not contain empty values")
		}
	}

	return nil
}

func (c *Config) GetLocation() (*time.Location, error) {
	if c.Calendar.Timezone == "" || c.Calendar.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Calendar.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
