package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/flowy/internal/config"
	"github.com/terraincognita07/flowy/internal/db"
	"github.com/terraincognita07/flowy/internal/models"
	"github.com/terraincognita07/flowy/internal/services"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "flowy-cli.db"),
	}
}

func registerUser(t *testing.T, cfg config.Config, email string) {
	t.Helper()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer closeStore()

	if _, err := services.NewAuthService(store, nil, nil).Register(services.RegistrationInput{
		Email:    email,
		Password: "Initial1Pass",
	}, time.Now()); err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
}

func authenticate(t *testing.T, cfg config.Config, email string, password string) error {
	t.Helper()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer closeStore()

	_, err = services.NewAuthService(store, nil, nil).Authenticate(email, password)
	return err
}

func pipeInput(t *testing.T, input string) *os.File {
	t.Helper()

	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	if _, err := writer.WriteString(input); err != nil {
		t.Fatalf("write pipe: %v", err)
	}
	_ = writer.Close()
	t.Cleanup(func() { _ = reader.Close() })
	return reader
}

func TestRunResetPasswordCommandPrintsWorkingPassword(t *testing.T) {
	cfg := testConfig(t)
	registerUser(t, cfg, "reset@example.com")

	var out bytes.Buffer
	if err := RunResetPasswordCommand(cfg, "RESET@example.com", &out); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	_, temporary, found := strings.Cut(out.String(), "Temporary password: ")
	if !found {
		t.Fatalf("expected temporary password in output, got %q", out.String())
	}
	temporary = strings.TrimSpace(temporary)
	if len(temporary) != 12 {
		t.Fatalf("expected a 12 character password, got %q", temporary)
	}
	if err := authenticate(t, cfg, "reset@example.com", temporary); err != nil {
		t.Fatalf("expected temporary password to authenticate: %v", err)
	}
	if err := authenticate(t, cfg, "reset@example.com", "Initial1Pass"); err == nil {
		t.Fatal("expected old password to stop working")
	}
}

func TestRunResetPasswordCommandUnknownUser(t *testing.T) {
	cfg := testConfig(t)

	err := RunResetPasswordCommand(cfg, "ghost@example.com", &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected unknown user to fail")
	}
}

func TestRunSetPasswordCommandReadsPipedInput(t *testing.T) {
	cfg := testConfig(t)
	registerUser(t, cfg, "set@example.com")

	var out bytes.Buffer
	stdin := pipeInput(t, "Chosen9Password\nChosen9Password\n")
	if err := RunSetPasswordCommand(cfg, "set@example.com", stdin, &out); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if !strings.Contains(out.String(), "Password updated") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if err := authenticate(t, cfg, "set@example.com", "Chosen9Password"); err != nil {
		t.Fatalf("expected new password to authenticate: %v", err)
	}
}

func TestRunSetPasswordCommandRejectsMismatchAndWeakPasswords(t *testing.T) {
	cfg := testConfig(t)
	registerUser(t, cfg, "weak@example.com")

	mismatch := pipeInput(t, "Chosen9Password\nOther9Password\n")
	if err := RunSetPasswordCommand(cfg, "weak@example.com", mismatch, &bytes.Buffer{}); err == nil {
		t.Fatal("expected mismatched passwords to fail")
	}

	weak := pipeInput(t, "weak\nweak\n")
	if err := RunSetPasswordCommand(cfg, "weak@example.com", weak, &bytes.Buffer{}); err == nil {
		t.Fatal("expected weak password to fail")
	}

	empty := pipeInput(t, "\n")
	if err := RunSetPasswordCommand(cfg, "weak@example.com", empty, &bytes.Buffer{}); err == nil {
		t.Fatal("expected empty password to fail")
	}
}

func TestRunSeedCommandUpsertsCatalogFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.yaml")
	catalogYAML := `achievements:
  - name: Early Bird
    category: milestone
    reward: 5
    requirement: {kind: goals_created, count: 1}
rewards:
  - name: Sticker
    cost: 20
`
	if err := os.WriteFile(cfg.CatalogPath, []byte(catalogYAML), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	var out bytes.Buffer
	for run := 0; run < 2; run++ {
		if err := RunSeedCommand(cfg, &out); err != nil {
			t.Fatalf("seed run %d: %v", run+1, err)
		}
	}
	if !strings.Contains(out.String(), "Seeded 1 achievements and 1 rewards") {
		t.Fatalf("unexpected output %q", out.String())
	}

	database, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer closer(database)()

	var achievements, rewards int64
	database.Model(&models.Achievement{}).Count(&achievements)
	database.Model(&models.Reward{}).Count(&rewards)
	if achievements != 1 || rewards != 1 {
		t.Fatalf("expected one achievement and one reward after two runs, got %d and %d", achievements, rewards)
	}
}

func TestReadLineStopsAtNewline(t *testing.T) {
	reader := strings.NewReader("first\r\nsecond")

	first, err := readLine(reader)
	if err != nil || first != "first\r" {
		t.Fatalf("unexpected first line %q (%v)", first, err)
	}
	second, err := readLine(reader)
	if err != nil || second != "second" {
		t.Fatalf("unexpected second line %q (%v)", second, err)
	}
}
