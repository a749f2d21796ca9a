package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/flowy/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db             *gorm.DB
	secretKey      []byte
	location       *time.Location
	cookieSecure   bool
	options        Options
	now            func() time.Time
	loginLimiter   *attemptLimiter
	requestLimiter *requestRateLimiter

	store              services.Store
	engine             *services.AccrualEngine
	authService        *services.AuthService
	goalService        *services.GoalService
	habitService       *services.HabitService
	achievementService *services.AchievementService
	rewardService      *services.RewardService
	referralService    *services.ReferralService
	usageService       *services.UsageService
	exportService      *services.ExportService
}

// Options carries the optional collaborators of a Handler. Zero values fall
// back to in-process defaults.
type Options struct {
	Location       *time.Location
	CookieSecure   bool
	Locker         services.UserLocker
	Metrics        services.AccrualMetrics
	ReferralReward int64
	AppURL         string
	RateLimitRPS   float64
	RateLimitBurst int
}

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
	defaultTokenPageSize = 50
	maxTokenPageSize     = 500
)

type authClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type credentialsInput struct {
	Email        string `json:"email" form:"email"`
	Password     string `json:"password" form:"password"`
	Name         string `json:"name" form:"name"`
	ReferralCode string `json:"referralCode" form:"referralCode"`
	RememberMe   bool   `json:"rememberMe" form:"rememberMe"`
}

type goalPayload struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Target      *float64 `json:"target"`
	Current     *float64 `json:"current"`
	Unit        *string  `json:"unit"`
	Category    *string  `json:"category"`
	Status      *string  `json:"status"`
	Deadline    *string  `json:"deadline"`
}

type habitPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	TargetCount int    `json:"targetCount"`
}

type habitCompletionPayload struct {
	Date      string `json:"date"`
	Completed *bool  `json:"completed"`
	Notes     string `json:"notes"`
}

type referralPayload struct {
	ReferralCode string `json:"referralCode"`
}

// usagePayload accepts "increment" and its older "incrementBy" spelling.
type usagePayload struct {
	Feature     string `json:"feature"`
	Increment   *int   `json:"increment"`
	IncrementBy *int   `json:"incrementBy"`
}

func (payload usagePayload) amount() int {
	switch {
	case payload.Increment != nil:
		return *payload.Increment
	case payload.IncrementBy != nil:
		return *payload.IncrementBy
	default:
		return 1
	}
}
