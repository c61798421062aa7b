// Package config loads server configuration from an optional TOML file with
// environment-variable overrides. A .env file, when present, is loaded into
// the environment first.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Addr          string `toml:"addr"`
	DBPath        string `toml:"db_path"`
	StaticDir     string `toml:"static_dir"`
	Env           string `toml:"env"` // "development" or "production"
	AdminEmail    string `toml:"admin_email"`
	AdminPassword string `toml:"admin_password"`
	CSRFKey       string `toml:"csrf_key"` // 64 hex characters (32 bytes)
	ResendKey     string `toml:"resend_key"`
	EmailFrom     string `toml:"email_from"`
	EmailReplyTo  string `toml:"email_reply_to"`
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Addr:       ":8080",
		DBPath:     "inoffice.db",
		StaticDir:  "static",
		Env:        "development",
		AdminEmail: "admin@inoffice.local",
		EmailFrom:  "InOffice <noreply@inoffice.local>",
	}
}

// Read decodes a Config from TOML, applied on top of the defaults.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Load builds the effective configuration: defaults, then the TOML file at
// path (skipped when path is empty or missing), then INOFFICE_* environment
// variables. A .env file in the working directory is loaded first, if
// present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			cfg, err = Read(f)
			f.Close()
			if err != nil {
				return Config{}, err
			}
		case os.IsNotExist(err):
			// Config file is optional.
		default:
			return Config{}, fmt.Errorf("failed to open config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"INOFFICE_ADDR", &cfg.Addr},
		{"INOFFICE_DB_PATH", &cfg.DBPath},
		{"INOFFICE_STATIC_DIR", &cfg.StaticDir},
		{"INOFFICE_ENV", &cfg.Env},
		{"INOFFICE_ADMIN_EMAIL", &cfg.AdminEmail},
		{"INOFFICE_ADMIN_PASSWORD", &cfg.AdminPassword},
		{"INOFFICE_CSRF_KEY", &cfg.CSRFKey},
		{"INOFFICE_RESEND_KEY", &cfg.ResendKey},
		{"INOFFICE_EMAIL_FROM", &cfg.EmailFrom},
		{"INOFFICE_EMAIL_REPLY_TO", &cfg.EmailReplyTo},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}
