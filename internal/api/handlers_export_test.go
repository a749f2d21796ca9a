package api

import (
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/flowy/internal/services"
)

func TestExportTokensCSVIncludesRunningBalance(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "export@example.com")

	goalID, _ := env.createGoal(t, token, "Export me")
	env.clock.Set(time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC))
	response := env.request(t, http.MethodPost, "/api/goals/"+goalID+"/complete", token, nil)
	assertStatus(t, response, http.StatusOK)

	response = env.request(t, http.MethodGet, "/api/tokens/export", token, nil)
	assertStatus(t, response, http.StatusOK)
	if disposition := response.Header.Get("Content-Disposition"); disposition != "attachment; filename=flowy-ledger-2026-03-03.csv" {
		t.Fatalf("unexpected content disposition %q", disposition)
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and two rows, got %d rows", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(services.LedgerExportHeaders, ",") {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "2026-03-01" || rows[1][2] != "10" || rows[1][3] != "10" {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[2][0] != "2026-03-03" || rows[2][1] != "goal" || rows[2][2] != "50" || rows[2][3] != "60" || rows[2][5] != goalID {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}

func TestExportTokensJSONHonoursRange(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "range@example.com")

	goalID, _ := env.createGoal(t, token, "Ranged")
	env.clock.Set(time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC))
	response := env.request(t, http.MethodPost, "/api/goals/"+goalID+"/complete", token, nil)
	assertStatus(t, response, http.StatusOK)

	response = env.request(t, http.MethodGet, "/api/tokens/export?format=json&from=2026-03-02", token, nil)
	assertStatus(t, response, http.StatusOK)
	payload := struct {
		Summary services.ExportSummary      `json:"summary"`
		Entries []services.LedgerExportEntry `json:"entries"`
	}{}
	decodeJSON(t, response, &payload)

	if payload.Summary.TotalEntries != 1 || payload.Summary.Earned != 50 {
		t.Fatalf("unexpected summary %+v", payload.Summary)
	}
	if len(payload.Entries) != 1 || payload.Entries[0].Balance != 60 {
		t.Fatalf("expected running balance to include earlier entries, got %+v", payload.Entries)
	}
}

func TestExportTokensRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "bad-export@example.com")

	response := env.request(t, http.MethodGet, "/api/tokens/export?format=xml", token, nil)
	assertStatus(t, response, http.StatusBadRequest)

	response = env.request(t, http.MethodGet, "/api/tokens/export?from=2026-03-05&to=2026-03-01", token, nil)
	assertStatus(t, response, http.StatusBadRequest)
	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	if payload["field"] != "to" {
		t.Fatalf("expected range error on to, got %+v", payload)
	}

	response = env.request(t, http.MethodGet, "/api/tokens?limit=0", token, nil)
	assertStatus(t, response, http.StatusBadRequest)
}
