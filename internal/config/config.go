// Package config loads portal settings from defaults, an optional YAML file
// and PORTAL_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// SiteURL is the public origin, used for robots.txt and the sitemap.
	SiteURL string `yaml:"site_url"`

	// DatabaseURL selects the Supabase Postgres stores when set; otherwise
	// the SQLite database at DBPath is used.
	DatabaseURL string `yaml:"database_url"`
	DBPath      string `yaml:"db_path"`

	SupabaseJWTSecret string   `yaml:"supabase_jwt_secret"`
	AuthCookie        string   `yaml:"auth_cookie"`
	AdminEmails       []string `yaml:"admin_emails"`

	CommitSHA    string `yaml:"commit_sha"`
	RedisURL     string `yaml:"redis_url"`
	CookieSecure bool   `yaml:"cookie_secure"`
}

func Default() Config {
	return Config{
		Port:       "8080",
		LogLevel:   "info",
		LogFormat:  "text",
		SiteURL:    "http://localhost:8080",
		DBPath:     "portal.db",
		AuthCookie: "sb-access-token",
	}
}

// Load reads path (skipped when empty) over the defaults, then applies the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}

	str(&c.Port, "PORTAL_PORT")
	str(&c.LogLevel, "PORTAL_LOG_LEVEL")
	str(&c.LogFormat, "PORTAL_LOG_FORMAT")
	str(&c.SiteURL, "PORTAL_SITE_URL")
	str(&c.DatabaseURL, "PORTAL_DATABASE_URL", "DATABASE_URL")
	str(&c.DBPath, "PORTAL_DB_PATH")
	str(&c.SupabaseJWTSecret, "PORTAL_SUPABASE_JWT_SECRET", "SUPABASE_JWT_SECRET")
	str(&c.AuthCookie, "PORTAL_AUTH_COOKIE")
	str(&c.CommitSHA, "PORTAL_COMMIT_SHA", "VERCEL_GIT_COMMIT_SHA", "GIT_COMMIT_SHA")
	str(&c.RedisURL, "PORTAL_REDIS_URL")

	if v, ok := lookup("PORTAL_ADMIN_EMAILS"); ok && strings.TrimSpace(v) != "" {
		c.AdminEmails = splitList(v)
	}
	if v, ok := lookup("PORTAL_COOKIE_SECURE"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PORTAL_COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = b
	}
	return nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.SupabaseJWTSecret == "" {
		errs = append(errs, errors.New("supabase_jwt_secret is required"))
	}
	if c.DatabaseURL == "" && c.DBPath == "" {
		errs = append(errs, errors.New("one of database_url or db_path is required"))
	}
	return errors.Join(errs...)
}

// UsesPostgres reports whether DatabaseURL points at Postgres.
func (c Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// Version is the short commit sha, or "local" for unversioned builds.
func (c Config) Version() string {
	sha := strings.TrimSpace(c.CommitSHA)
	if sha == "" {
		return "local"
	}
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
