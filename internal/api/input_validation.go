package api

import (
	"strings"
	"time"

	"github.com/terraincognita07/flowy/internal/services"
)

// parseDeadline accepts a calendar day or an RFC 3339 timestamp.
func parseDeadline(raw *string, location *time.Location) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		deadline := parsed.UTC()
		return &deadline, nil
	}
	parsed, err := services.ParseDay(value, location)
	if err != nil {
		return nil, &services.ValidationError{Field: "deadline", Message: "deadline must use YYYY-MM-DD or RFC 3339"}
	}
	return &parsed, nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func floatValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func (payload goalPayload) toInput(location *time.Location) (services.GoalInput, error) {
	deadline, err := parseDeadline(payload.Deadline, location)
	if err != nil {
		return services.GoalInput{}, err
	}
	return services.GoalInput{
		Title:       stringValue(payload.Title),
		Description: stringValue(payload.Description),
		Target:      floatValue(payload.Target),
		Current:     floatValue(payload.Current),
		Unit:        stringValue(payload.Unit),
		Category:    stringValue(payload.Category),
		Deadline:    deadline,
	}, nil
}

func (payload goalPayload) toUpdate(location *time.Location) (services.GoalUpdate, error) {
	deadline, err := parseDeadline(payload.Deadline, location)
	if err != nil {
		return services.GoalUpdate{}, err
	}
	update := services.GoalUpdate{
		Title:       payload.Title,
		Description: payload.Description,
		Target:      payload.Target,
		Current:     payload.Current,
		Unit:        payload.Unit,
		Category:    payload.Category,
		Deadline:    deadline,
	}
	if payload.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*payload.Status))
		update.Status = &status
	}
	return update, nil
}

// completionDay resolves the requested day, defaulting to today.
func completionDay(raw string, now time.Time, location *time.Location) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return services.DayStart(now, location), nil
	}
	return services.ParseDay(strings.TrimSpace(raw), location)
}
