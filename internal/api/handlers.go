package api

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, secret string, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if secret == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Location == nil {
		options.Location = time.UTC
	}

	handler := &Handler{
		db:             database,
		secretKey:      []byte(secret),
		location:       options.Location,
		cookieSecure:   options.CookieSecure,
		options:        options,
		now:            time.Now,
		loginLimiter:   newAttemptLimiter(loginAttemptsLimit, loginAttemptsWindow),
		requestLimiter: newRequestRateLimiter(options.RateLimitRPS, options.RateLimitBurst),
	}
	return handler.withDependencies(database), nil
}
