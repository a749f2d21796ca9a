package services

import "time"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayRange returns the calendar day containing value as a UTC half-open range.
func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func DayStart(value time.Time, location *time.Location) time.Time {
	start, _ := DayRange(value, location)
	return start
}

func ParseDay(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, location)
	if err != nil {
		return time.Time{}, validationError("date", "date must use YYYY-MM-DD")
	}
	return parsed.UTC(), nil
}
