package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/flowy/internal/models"
	"github.com/terraincognita07/flowy/internal/security"
	"golang.org/x/crypto/bcrypt"
)

type RegistrationInput struct {
	Email        string
	Password     string
	Name         string
	ReferralCode string
}

type AuthService struct {
	runner accrualRunner
	engine *AccrualEngine
}

func NewAuthService(store Store, locker UserLocker, engine *AccrualEngine) *AuthService {
	return &AuthService{runner: newAccrualRunner(store, locker), engine: engine}
}

// Register creates the account with a free subscription and, when a
// referral code is given, a pending referral in the same transaction.
func (service *AuthService) Register(input RegistrationInput, now time.Time) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, internalError("hash password", err)
	}

	user := models.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(passwordHash),
		CreatedAt:    now.UTC(),
	}
	err = service.runner.read("register user", func(repos StoreRepositories) error {
		_, exists, err := repos.Users.FindByEmail(email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailTaken
		}
		if err := repos.Users.Create(&user); err != nil {
			return err
		}
		if err := repos.Subscriptions.Create(&models.Subscription{
			UserID: user.ID,
			Plan:   models.PlanFree,
			Status: models.SubscriptionActive,
		}); err != nil {
			return err
		}

		if strings.TrimSpace(input.ReferralCode) == "" {
			return nil
		}
		if _, _, err := service.engine.CompleteReferral(repos, user.ID, input.ReferralCode, now); err != nil {
			if errors.Is(err, ErrNotFound) {
				return validationError("referralCode", "referral code not found")
			}
			return err
		}
		refreshed, _, err := repos.Users.FindByID(user.ID)
		if err != nil {
			return err
		}
		user = refreshed
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = service.runner.read("authenticate", func(repos StoreRepositories) error {
		found := false
		var err error
		user, found, err = repos.Users.FindByEmail(email)
		if err != nil {
			return err
		}
		if !found {
			return ErrAuthCredentialsInvalid
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID string) (models.User, error) {
	var user models.User
	err := service.runner.read("load user", func(repos StoreRepositories) error {
		found := false
		var err error
		user, found, err = repos.Users.FindByID(userID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		return nil
	})
	return user, err
}

// ResetPassword replaces the password of the account with a generated one
// and returns it.
func (service *AuthService) ResetPassword(emailRaw string) (string, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return "", validationError("email", "a valid email is required")
	}

	temporaryPassword, err := security.TemporaryPassword(12)
	if err != nil {
		return "", internalError("generate temporary password", err)
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", internalError("hash temporary password", err)
	}

	if err := service.replacePasswordHash("reset password", email, passwordHash); err != nil {
		return "", err
	}
	return temporaryPassword, nil
}

// SetPassword replaces the password of the account after the strength check.
func (service *AuthService) SetPassword(emailRaw string, password string) error {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return validationError("email", "a valid email is required")
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return internalError("hash password", err)
	}
	return service.replacePasswordHash("set password", email, passwordHash)
}

func (service *AuthService) replacePasswordHash(operation string, email string, passwordHash []byte) error {
	return service.runner.read(operation, func(repos StoreRepositories) error {
		user, found, err := repos.Users.FindByEmail(email)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		return repos.Users.UpdatePassword(user.ID, string(passwordHash))
	})
}
