package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowy/internal/catalog"
	"github.com/terraincognita07/flowy/internal/db"
	"github.com/terraincognita07/flowy/internal/services"
	"gorm.io/gorm"
)

const testPassword = "Sup3rSecret"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *testClock) Set(now time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = now
}

type testEnv struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
	clock    *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithOptions(t, Options{})
}

func newTestEnvWithOptions(t *testing.T, options Options) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "flowy-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	defaults, err := catalog.Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	if err := services.NewCatalogService(db.NewServiceStore(database)).Seed(defaults.Achievements, defaults.Rewards); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	handler, err := NewHandler(database, "test-secret-key-with-enough-length!", options)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	clock := &testClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	handler.now = clock.Now

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return &testEnv{app: app, handler: handler, database: database, clock: clock}
}

func (env *testEnv) request(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

// register creates an account and returns its id and bearer token.
func (env *testEnv) register(t *testing.T, email string) (string, string) {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": testPassword,
		"name":     "Test User",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, response.StatusCode)
	}

	payload := struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}{}
	decodeJSON(t, response, &payload)
	if payload.Token == "" || payload.User.ID == "" {
		t.Fatalf("register %s: missing token or user id", email)
	}
	return payload.User.ID, payload.Token
}

func (env *testEnv) balance(t *testing.T, token string) int64 {
	t.Helper()

	response := env.request(t, http.MethodGet, "/api/tokens", token, nil)
	assertStatus(t, response, http.StatusOK)
	payload := services.TokenSummary{}
	decodeJSON(t, response, &payload)
	return payload.Balance
}

func (env *testEnv) createGoal(t *testing.T, token string, title string) (string, services.AwardResult) {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/goals", token, map[string]any{
		"title":  title,
		"target": 1,
	})
	assertStatus(t, response, http.StatusCreated)

	payload := struct {
		Goal struct {
			ID string `json:"id"`
		} `json:"goal"`
		Awards services.AwardResult `json:"awards"`
	}{}
	decodeJSON(t, response, &payload)
	return payload.Goal.ID, payload.Awards
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()

	defer response.Body.Close()
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(raw), err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]any{}
	decodeJSON(t, response, &payload)
	message, _ := payload["error"].(string)
	return message
}

func assertStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()

	if response.StatusCode == expected {
		return
	}
	body, _ := io.ReadAll(response.Body)
	t.Fatalf("expected status %d, got %d: %s", expected, response.StatusCode, string(body))
}
