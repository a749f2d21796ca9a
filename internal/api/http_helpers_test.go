package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowy/internal/services"
)

func TestRespondServiceErrorStatuses(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		expected string
	}{
		{err: &services.ValidationError{Field: "title", Message: "title is required"}, status: http.StatusBadRequest, expected: "title is required"},
		{err: services.ErrNotFound, status: http.StatusNotFound, expected: "thing not found"},
		{err: services.ErrAlreadyCompleted, status: http.StatusConflict, expected: "goal already completed"},
		{err: services.ErrAlreadyRedeemed, status: http.StatusConflict, expected: "reward already redeemed"},
		{err: services.ErrAlreadyReferred, status: http.StatusBadRequest, expected: "user already has a referrer"},
		{err: services.ErrInsufficientBalance, status: http.StatusBadRequest, expected: "Insufficient FLWY tokens"},
		{err: services.ErrLimitExceeded, status: http.StatusTooManyRequests, expected: "usage limit exceeded"},
		{err: fmt.Errorf("redeem reward: %w", services.ErrInternal), status: http.StatusInternalServerError, expected: "internal error"},
		{err: errors.New("unexpected"), status: http.StatusInternalServerError, expected: "internal error"},
	}

	for _, testCase := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			return respondServiceError(c, testCase.err, "thing not found")
		})

		response, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		if err != nil {
			t.Fatalf("%v: request failed: %v", testCase.err, err)
		}
		if response.StatusCode != testCase.status {
			t.Fatalf("%v: expected status %d, got %d", testCase.err, testCase.status, response.StatusCode)
		}
		if message := readAPIError(t, response); message != testCase.expected {
			t.Fatalf("%v: expected %q, got %q", testCase.err, testCase.expected, message)
		}
	}
}

func TestParseLimitQuery(t *testing.T) {
	cases := []struct {
		query    string
		expected int
		valid    bool
	}{
		{query: "", expected: 50, valid: true},
		{query: "?limit=20", expected: 20, valid: true},
		{query: "?limit=9999", expected: 500, valid: true},
		{query: "?limit=0", valid: false},
		{query: "?limit=abc", valid: false},
	}

	for _, testCase := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			limit, valid := parseLimitQuery(c, defaultTokenPageSize, maxTokenPageSize)
			if valid != testCase.valid || (valid && limit != testCase.expected) {
				return c.Status(http.StatusTeapot).SendString(fmt.Sprintf("%d %v", limit, valid))
			}
			return c.SendStatus(http.StatusNoContent)
		})

		response, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+testCase.query, nil), -1)
		if err != nil {
			t.Fatalf("%q: request failed: %v", testCase.query, err)
		}
		if response.StatusCode != http.StatusNoContent {
			t.Fatalf("%q: unexpected parse result", testCase.query)
		}
	}
}

func TestHealthAndNotFound(t *testing.T) {
	env := newTestEnv(t)

	response := env.request(t, http.MethodGet, "/healthz", "", nil)
	assertStatus(t, response, http.StatusOK)

	response = env.request(t, http.MethodGet, "/api/unknown", "", nil)
	assertStatus(t, response, http.StatusNotFound)
}
