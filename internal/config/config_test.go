package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "portal.db", cfg.DBPath)
	assert.Equal(t, "sb-access-token", cfg.AuthCookie)
	assert.False(t, cfg.UsesPostgres())
	assert.Equal(t, "local", cfg.Version())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
site_url: https://p28.example.com/
log_format: json
admin_emails:
  - root@example.com
supabase_jwt_secret: from-file
`), 0o600))

	t.Setenv("PORTAL_PORT", "9100")
	t.Setenv("SUPABASE_JWT_SECRET", "from-env")
	t.Setenv("VERCEL_GIT_COMMIT_SHA", "0123456789abcdef")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "https://p28.example.com", cfg.SiteURL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"root@example.com"}, cfg.AdminEmails)
	assert.Equal(t, "from-env", cfg.SupabaseJWTSecret)
	assert.Equal(t, "0123456", cfg.Version())
}

func TestLoadEnvPrecedence(t *testing.T) {
	t.Setenv("PORTAL_SUPABASE_JWT_SECRET", "portal")
	t.Setenv("SUPABASE_JWT_SECRET", "plain")
	t.Setenv("PORTAL_ADMIN_EMAILS", " a@example.com, ,b@example.com ")
	t.Setenv("PORTAL_COOKIE_SECURE", "true")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/postgres")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "portal", cfg.SupabaseJWTSecret)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AdminEmails)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.UsesPostgres())
}

func TestLoadBadBool(t *testing.T) {
	t.Setenv("PORTAL_COOKIE_SECURE", "sometimes")
	_, err := Load("")
	assert.ErrorContains(t, err, "PORTAL_COOKIE_SECURE")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o600))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supabase_jwt_secret")

	cfg.SupabaseJWTSecret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.DBPath = ""
	assert.ErrorContains(t, cfg.Validate(), "db_path")
}

func TestVersion(t *testing.T) {
	tests := map[string]string{
		"":                 "local",
		"  ":               "local",
		"abc12":            "abc12",
		"abcdef1234567890": "abcdef1",
	}
	for sha, want := range tests {
		assert.Equal(t, want, Config{CommitSHA: sha}.Version(), sha)
	}
}
