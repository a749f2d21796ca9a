package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", validSecret)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.DBDriver)
	}
	if cfg.ReferralReward != 100 {
		t.Fatalf("expected referral reward 100, got %d", cfg.ReferralReward)
	}
	if cfg.SweepInterval != 15*time.Minute {
		t.Fatalf("expected sweep interval 15m, got %s", cfg.SweepInterval)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "SECRET_KEY=" + validSecret + "\nPORT=9090\nAPP_URL=https://flowy.test/\nDB_DRIVER=SQLite\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		for _, key := range []string{"SECRET_KEY", "PORT", "APP_URL", "DB_DRIVER"} {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port from env file, got %q", cfg.Port)
	}
	if cfg.AppURL != "https://flowy.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.AppURL)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Fatalf("expected normalized driver, got %q", cfg.DBDriver)
	}
}

func TestValidateSecretKey(t *testing.T) {
	cases := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{name: "empty", secret: "", wantErr: true},
		{name: "placeholder", secret: "change_me_in_production", wantErr: true},
		{name: "example placeholder", secret: "replace_with_at_least_32_random_characters", wantErr: true},
		{name: "too short", secret: "too-short-secret", wantErr: true},
		{name: "valid", secret: validSecret, wantErr: false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			err := validateSecretKey(testCase.secret)
			if testCase.wantErr && err == nil {
				t.Fatalf("expected error for %q", testCase.secret)
			}
			if !testCase.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", testCase.secret, err)
			}
		})
	}
}

func TestValidateRequiresDatabaseURLForPostgres(t *testing.T) {
	cfg := Config{SecretKey: validSecret, DBDriver: DriverPostgres, UsageRetentionDays: 90}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}

	cfg.DatabaseURL = "postgres://flowy@localhost/flowy"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Config{SecretKey: validSecret, DBDriver: "mysql", UsageRetentionDays: 90}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Config{Timezone: "Mars/Olympus"}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback, got %s", cfg.Location())
	}
}
