package services

import (
	"strings"
	"time"
)

// ParseExportRange reads optional inclusive from/to days. Blank values leave
// the range open on that side.
func ParseExportRange(rawFrom string, rawTo string, location *time.Location) (*time.Time, *time.Time, error) {
	from, err := parseOptionalDay("from", rawFrom, location)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseOptionalDay("to", rawTo, location)
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, validationError("to", "range end is before range start")
	}
	return from, to, nil
}

func parseOptionalDay(field string, raw string, location *time.Location) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	day, err := ParseDay(value, location)
	if err != nil {
		return nil, validationError(field, field+" must use YYYY-MM-DD")
	}
	return &day, nil
}
