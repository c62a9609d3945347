// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure. Every field maps to a key
// in the YAML file AND can be overridden by the corresponding environment
// variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Storage Storage `yaml:"storage"`

	// HTTPServer is embedded so its fields are accessible directly on
	// Config after promotion: cfg.Addr.
	HTTPServer `yaml:"http_server"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	// Type picks the backend: "jsonfile" (two JSON array files, the
	// default) or "sqlite" (single database file).
	Type string `yaml:"type" env:"STORAGE_TYPE" env-default:"jsonfile"`

	// StudentsPath / UsersPath are the JSON files used by the jsonfile
	// backend. Each holds one collection serialized as a JSON array.
	StudentsPath string `yaml:"students_path" env:"STUDENTS_PATH" env-default:"data/students.json"`
	UsersPath    string `yaml:"users_path" env:"USERS_PATH" env-default:"data/users.json"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"data/records.db"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8080".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8080"`

	// AllowedOrigins is the CORS whitelist for the browser UI.
	// Empty means CORS headers are never emitted.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`

	// AuthGate, when enabled, requires the named cookie to be present on
	// the student routes. Presence only — the value is never verified.
	AuthGate    bool   `yaml:"auth_gate" env:"AUTH_GATE" env-default:"false"`
	TokenCookie string `yaml:"token_cookie" env:"TOKEN_COOKIE" env-default:"session_token"`
}

// MustLoad reads, validates, and returns the application config.
//
// The name follows the Go convention: "Must" functions are allowed to
// fatal on failure, so callers do not check an error — if this returns,
// the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	// cleanenv reads the YAML file, then applies env:"..." overrides and
	// env-default values for anything the file leaves unset.
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}
