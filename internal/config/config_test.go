package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:           "8080",
		StorageBackend: BackendSQLite,
		DBPath:         "./data/fintrack.db",
		JWTSecret:      "0123456789abcdef",
		TokenTTL:       24 * time.Hour,
		AuthRateLimit:  1,
		AuthRateBurst:  5,
		TrendMonths:    6,
		LogFormat:      "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		requireSecret bool
		wantErr       bool
		errorStrings  []string
	}{
		{
			name:          "valid",
			mutate:        func(*Config) {},
			requireSecret: true,
		},
		{
			name:   "memory backend needs no path",
			mutate: func(c *Config) { c.StorageBackend = BackendMemory; c.DBPath = "" },
		},
		{
			name:    "redis backend needs an address",
			mutate:  func(c *Config) { c.StorageBackend = BackendRedis; c.RedisAddr = "" },
			wantErr: true,
			errorStrings: []string{
				"REDIS_ADDR cannot be empty",
			},
		},
		{
			name:   "rate limit can be disabled",
			mutate: func(c *Config) { c.AuthRateLimit = 0; c.AuthRateBurst = 0 },
		},
		{
			name:    "rate limit needs a burst",
			mutate:  func(c *Config) { c.AuthRateBurst = 0 },
			wantErr: true,
			errorStrings: []string{
				"invalid auth rate burst 0",
			},
		},
		{
			name:    "non-numeric port",
			mutate:  func(c *Config) { c.Port = "abc" },
			wantErr: true,
			errorStrings: []string{
				"invalid port 'abc': must be a number",
			},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = "70000" },
			wantErr: true,
			errorStrings: []string{
				"invalid port 70000: must be between 1 and 65535",
			},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StorageBackend = "postgres" },
			wantErr: true,
			errorStrings: []string{
				"invalid storage backend 'postgres'",
			},
		},
		{
			name:          "missing secret only matters for the server",
			mutate:        func(c *Config) { c.JWTSecret = "" },
			requireSecret: false,
		},
		{
			name: "every problem is reported",
			mutate: func(c *Config) {
				c.JWTSecret = "short"
				c.TrendMonths = 0
				c.LogFormat = "xml"
				c.TokenTTL = time.Second
			},
			requireSecret: true,
			wantErr:       true,
			errorStrings: []string{
				"JWT_SECRET must be set",
				"invalid trend months 0",
				"invalid log format 'xml'",
				"invalid token TTL 1s",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate(tt.requireSecret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, s := range tt.errorStrings {
				if !strings.Contains(err.Error(), s) {
					t.Errorf("error %q does not mention %q", err, s)
				}
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("SEED_DEFAULTS", "false")
	t.Setenv("TREND_MONTHS", "not-a-number")
	t.Setenv("METRICS_ENABLED", "0")
	t.Setenv("AUTH_RATE_LIMIT", "0.5")

	cfg := FromEnv()

	if cfg.Port != "9090" || cfg.StorageBackend != BackendMemory {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.TokenTTL != 2*time.Hour || cfg.SeedDefaults || cfg.MetricsEnabled {
		t.Errorf("unexpected parsed values: %+v", cfg)
	}
	if cfg.AuthRateLimit != 0.5 || cfg.AuthRateBurst != 5 {
		t.Errorf("unexpected rate limit: %v/%d", cfg.AuthRateLimit, cfg.AuthRateBurst)
	}
	if cfg.TrendMonths != 6 {
		t.Errorf("TrendMonths = %d, want default 6", cfg.TrendMonths)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	if _, ok := os.LookupEnv("DB_PATH"); ok {
		t.Skip("DB_PATH set in the environment takes precedence over .env")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_PATH=/tmp/from-dotenv.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Cleanup(func() { os.Unsetenv("DB_PATH") })

	if got := Load().DBPath; got != "/tmp/from-dotenv.db" {
		t.Errorf("DBPath = %s, want value from .env", got)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
