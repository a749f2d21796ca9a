package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terraincognita07/flowy/internal/api"
	"github.com/terraincognita07/flowy/internal/db"
	"github.com/terraincognita07/flowy/internal/metrics"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		args    []string
		name    string
		email   string
		wantErr bool
	}{
		{args: nil, name: "serve"},
		{args: []string{"seed"}, name: "seed"},
		{args: []string{"reset-password", "a@example.com"}, name: "reset-password", email: "a@example.com"},
		{args: []string{"set-password", " b@example.com "}, name: "set-password", email: "b@example.com"},
		{args: []string{"reset-password"}, wantErr: true},
		{args: []string{"seed", "extra"}, wantErr: true},
		{args: []string{"migrate"}, wantErr: true},
	}

	for _, testCase := range cases {
		cmd, err := parseCommand(testCase.args)
		if testCase.wantErr {
			if err == nil {
				t.Fatalf("%v: expected error", testCase.args)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%v: unexpected error %v", testCase.args, err)
		}
		if cmd.name != testCase.name || cmd.email != testCase.email {
			t.Fatalf("%v: got %+v", testCase.args, cmd)
		}
	}
}

func TestCORSConfigOnlyAllowsCredentialsForExplicitOrigins(t *testing.T) {
	if config := corsConfig(""); config.AllowOrigins != "*" || config.AllowCredentials {
		t.Fatalf("unexpected wildcard config %+v", config)
	}
	if config := corsConfig("https://flowy.pages.dev"); !config.AllowCredentials {
		t.Fatal("expected credentials for an explicit origin")
	}
}

func TestNewAppServesHealthAndMetrics(t *testing.T) {
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "flowy-main.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	recorder := metrics.New()
	handler, err := api.NewHandler(database, "0123456789abcdef0123456789abcdef", api.Options{Metrics: recorder})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	app := newApp(handler, recorder, "*", io.Discard)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	if err != nil {
		t.Fatalf("healthz request: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", response.StatusCode)
	}

	response, err = app.Test(httptest.NewRequest(http.MethodGet, metricsPath, nil), -1)
	if err != nil {
		t.Fatalf("metrics request: %v", err)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(body), `flowy_http_requests_total{method="GET",route="/healthz",status="200"} 1`) {
		t.Fatalf("expected healthz request to be counted, got:\n%s", body)
	}

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil), -1)
	if err != nil {
		t.Fatalf("unknown route request: %v", err)
	}
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", response.StatusCode)
	}
}
