package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/flowy/internal/logger"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAlreadyCompleted    = errors.New("already completed")
	ErrAlreadyUnlocked     = errors.New("achievement already unlocked")
	ErrAlreadyRedeemed     = errors.New("reward already redeemed")
	ErrAlreadyReferred     = errors.New("user already has a referrer")
	ErrInsufficientBalance = errors.New("insufficient FLWY tokens")
	ErrLimitExceeded       = errors.New("usage limit exceeded")
	ErrValidation          = errors.New("validation failed")
	ErrInternal            = errors.New("internal error")
)

// ValidationError names the offending input. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (err *ValidationError) Error() string {
	return err.Message
}

func (err *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// internalError logs the store failure and hides it behind ErrInternal.
func internalError(operation string, err error) error {
	logger.Log.WithError(err).WithField("operation", operation).Error("store operation failed")
	return fmt.Errorf("%s: %w", operation, ErrInternal)
}

var domainErrors = []error{
	ErrNotFound,
	ErrUnauthorized,
	ErrAlreadyCompleted,
	ErrAlreadyUnlocked,
	ErrAlreadyRedeemed,
	ErrAlreadyReferred,
	ErrInsufficientBalance,
	ErrLimitExceeded,
	ErrValidation,
	ErrInternal,
	ErrEmailTaken,
	ErrAuthCredentialsInvalid,
	ErrWeakPassword,
}

// passThrough keeps typed domain errors and converts everything else.
func passThrough(operation string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return internalError(operation, err)
}
