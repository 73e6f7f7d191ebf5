package config

import (
	"os"
	"testing"
	"time"
)

func clearAuthEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DB_PATH", "EXEC_TIMEOUT", "MAX_STEPS", "POOL_SIZE",
		"JWT_SECRET", "CLIENT_ID", "CLIENT_SECRET_HASH"} {
		// t.Setenv registers restoration of the original value; the variable
		// must then be unset so envconfig applies defaults rather than
		// parsing an empty string.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearAuthEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.ExecTimeout != 5*time.Second {
		t.Errorf("ExecTimeout = %v, want 5s", cfg.ExecTimeout)
	}
	if cfg.MaxSteps != 10_000_000 {
		t.Errorf("MaxSteps = %d, want 10000000", cfg.MaxSteps)
	}
	if cfg.PoolSize != 4 {
		t.Errorf("PoolSize = %d, want 4", cfg.PoolSize)
	}
	if cfg.AuthEnabled() {
		t.Error("AuthEnabled() = true with no credentials configured")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("EXEC_TIMEOUT", "30s")
	t.Setenv("POOL_SIZE", "16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.ExecTimeout != 30*time.Second {
		t.Errorf("ExecTimeout = %v, want 30s", cfg.ExecTimeout)
	}
	if cfg.PoolSize != 16 {
		t.Errorf("PoolSize = %d, want 16", cfg.PoolSize)
	}
}

func TestLoad_PartialAuthRejected(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("JWT_SECRET", "some-secret-at-least-16-chars")
	// CLIENT_ID and CLIENT_SECRET_HASH left empty.

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a partial auth configuration")
	}
}

func TestLoad_FullAuthAccepted(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("JWT_SECRET", "some-secret-at-least-16-chars")
	t.Setenv("CLIENT_ID", "worker-client")
	t.Setenv("CLIENT_SECRET_HASH", "$2a$12$fakehashfakehashfakehash")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("AuthEnabled() = false with full credentials configured")
	}
}

func TestLoad_BadPort(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("PORT", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a negative port")
	}
}
