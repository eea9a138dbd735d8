// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	os.Setenv("SLUG_SALT", "test-slug")
	os.Setenv("SESSION_TTL", "5m")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("expected 5m session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.BaseURL != "http://localhost:9000" {
		t.Errorf("unexpected default base URL %s", cfg.BaseURL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-slug-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite default, got %s", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m default session ttl, got %s", cfg.SessionTTL)
	}
}

func TestParseFlags_DotEnvFile(t *testing.T) {
	defer os.Clearenv()
	os.Setenv("SLUG_SALT", "from-env")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=file:dotenv.db\nADMIN_KEY_SALT=from-file\nSLUG_SALT=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "file:dotenv.db" {
		t.Errorf("expected database URL from dotenv file, got %s", cfg.DatabaseURL)
	}
	if cfg.AdminKeySalt != "from-file" {
		t.Errorf("expected admin salt from dotenv file, got %s", cfg.AdminKeySalt)
	}
	// Existing environment is not overwritten
	if cfg.SlugSalt != "from-env" {
		t.Errorf("expected slug salt from env, got %s", cfg.SlugSalt)
	}
}

func TestParseFlags_MissingValues(t *testing.T) {
	defer os.Clearenv()

	tests := []struct {
		name string
		args []string
	}{
		{"no database", []string{"-admin-salt", "a", "-slug-salt", "b"}},
		{"no admin salt", []string{"-d", "file:x.db", "-slug-salt", "b"}},
		{"no slug salt", []string{"-d", "file:x.db", "-admin-salt", "a"}},
		{"bad database type", []string{"-d", "x", "-t", "mysql", "-admin-salt", "a", "-slug-salt", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			args := append([]string{"-env-file", ""}, tt.args...)
			if _, err := ParseFlags(args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
