package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/flowy/internal/logger"
	"github.com/terraincognita07/flowy/internal/models"
)

// UnlimitedUsage marks a limit or remaining count with no ceiling.
const UnlimitedUsage = -1

const usageSummaryWindowDays = 30

var freePlanDailyLimits = map[string]int{
	models.FeatureEvents:     10,
	models.FeatureTasks:      10,
	models.FeatureCategories: 1,
}

func IsKnownFeature(feature string) bool {
	_, ok := freePlanDailyLimits[feature]
	return ok
}

type PlanLimits struct {
	Events         int  `json:"events"`
	Tasks          int  `json:"tasks"`
	Categories     int  `json:"categories"`
	GoogleCalendar bool `json:"googleCalendar"`
	Analytics      bool `json:"analytics"`
	Themes         bool `json:"themes"`
}

func LimitsForPlan(premium bool) PlanLimits {
	if premium {
		return PlanLimits{
			Events:         UnlimitedUsage,
			Tasks:          UnlimitedUsage,
			Categories:     UnlimitedUsage,
			GoogleCalendar: true,
			Analytics:      true,
			Themes:         true,
		}
	}
	return PlanLimits{
		Events:     freePlanDailyLimits[models.FeatureEvents],
		Tasks:      freePlanDailyLimits[models.FeatureTasks],
		Categories: freePlanDailyLimits[models.FeatureCategories],
	}
}

type UsageDecision struct {
	Accepted     bool   `json:"accepted"`
	Feature      string `json:"feature"`
	CurrentCount int    `json:"currentCount"`
	Limit        int    `json:"limit"`
	Remaining    int    `json:"remaining"`
	Unlimited    bool   `json:"unlimited"`
	IsPremium    bool   `json:"isPremium"`
	CanUpgrade   bool   `json:"canUpgrade"`
}

type SubscriptionSummary struct {
	Plan       string         `json:"plan"`
	Status     string         `json:"status"`
	IsPremium  bool           `json:"isPremium"`
	PeriodEnd  *time.Time     `json:"currentPeriodEnd,omitempty"`
	Usage      map[string]int `json:"usage"`
	Limits     PlanLimits     `json:"limits"`
	CanUpgrade bool           `json:"canUpgrade"`
}

type UsageService struct {
	runner   accrualRunner
	location *time.Location
	metrics  AccrualMetrics
}

func NewUsageService(store Store, locker UserLocker, location *time.Location, metrics AccrualMetrics) *UsageService {
	if location == nil {
		location = time.UTC
	}
	if metrics == nil {
		metrics = noopAccrualMetrics{}
	}
	return &UsageService{runner: newAccrualRunner(store, locker), location: location, metrics: metrics}
}

func normalizeFeature(raw string) (string, error) {
	feature := strings.ToLower(strings.TrimSpace(raw))
	if feature == "" {
		return "", validationError("feature", "feature is required")
	}
	if !IsKnownFeature(feature) {
		return "", validationError("feature", "unknown feature "+feature)
	}
	return feature, nil
}

func loadPremium(repos StoreRepositories, userID string) (models.Subscription, bool, error) {
	subscription, found, err := repos.Subscriptions.FindByUser(userID)
	if err != nil {
		return models.Subscription{}, false, err
	}
	if !found {
		return models.Subscription{Plan: models.PlanFree, Status: models.SubscriptionActive}, false, nil
	}
	return subscription, subscription.IsPremiumActive(), nil
}

// CheckAndIncrement adds incrementBy to today's counter for feature when the
// result stays within the plan's daily limit. A rejected increment is not
// stored and returns ErrLimitExceeded together with the decision.
func (service *UsageService) CheckAndIncrement(userID string, rawFeature string, incrementBy int, now time.Time) (UsageDecision, error) {
	feature, err := normalizeFeature(rawFeature)
	if err != nil {
		return UsageDecision{}, err
	}
	if incrementBy < 1 {
		return UsageDecision{}, validationError("increment", "increment must be at least 1")
	}

	dayStart, dayEnd := DayRange(now, service.location)
	decision := UsageDecision{Feature: feature}
	err = service.runner.forUser("increment usage", userID, func(repos StoreRepositories) error {
		_, premium, err := loadPremium(repos, userID)
		if err != nil {
			return err
		}
		usage, found, err := repos.Usage.FindForDay(userID, feature, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if !found {
			usage = models.Usage{UserID: userID, Feature: feature, Date: dayStart}
		}

		newCount := usage.Count + incrementBy
		decision.IsPremium = premium
		decision.CanUpgrade = !premium
		if premium {
			decision.Limit = UnlimitedUsage
			decision.Remaining = UnlimitedUsage
			decision.Unlimited = true
		} else {
			limit := freePlanDailyLimits[feature]
			decision.Limit = limit
			if newCount > limit {
				decision.CurrentCount = usage.Count
				decision.Remaining = max(limit-usage.Count, 0)
				return ErrLimitExceeded
			}
			decision.Remaining = limit - newCount
		}

		usage.Count = newCount
		if err := repos.Usage.UpsertCount(&usage); err != nil {
			return err
		}
		decision.Accepted = true
		decision.CurrentCount = newCount
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLimitExceeded) {
			service.metrics.UsageRejected(feature)
			logger.WithUser(userID).WithField("feature", feature).Info("usage limit reached")
			return decision, err
		}
		return UsageDecision{}, err
	}
	return decision, nil
}

// Status reports today's counter for feature without changing it.
func (service *UsageService) Status(userID string, rawFeature string, now time.Time) (UsageDecision, error) {
	feature, err := normalizeFeature(rawFeature)
	if err != nil {
		return UsageDecision{}, err
	}

	dayStart, dayEnd := DayRange(now, service.location)
	decision := UsageDecision{Feature: feature, Accepted: true}
	err = service.runner.read("load usage", func(repos StoreRepositories) error {
		_, premium, err := loadPremium(repos, userID)
		if err != nil {
			return err
		}
		usage, _, err := repos.Usage.FindForDay(userID, feature, dayStart, dayEnd)
		if err != nil {
			return err
		}

		decision.CurrentCount = usage.Count
		decision.IsPremium = premium
		decision.CanUpgrade = !premium
		if premium {
			decision.Limit = UnlimitedUsage
			decision.Remaining = UnlimitedUsage
			decision.Unlimited = true
			return nil
		}
		decision.Limit = freePlanDailyLimits[feature]
		decision.Remaining = max(decision.Limit-usage.Count, 0)
		decision.Accepted = decision.Remaining > 0
		return nil
	})
	if err != nil {
		return UsageDecision{}, err
	}
	return decision, nil
}

func (service *UsageService) Subscription(userID string, now time.Time) (SubscriptionSummary, error) {
	since := DayStart(now.AddDate(0, 0, -usageSummaryWindowDays), service.location)
	summary := SubscriptionSummary{}
	err := service.runner.read("load subscription", func(repos StoreRepositories) error {
		subscription, premium, err := loadPremium(repos, userID)
		if err != nil {
			return err
		}
		totals, err := repos.Usage.SumByFeatureSince(userID, since)
		if err != nil {
			return err
		}

		usage := make(map[string]int, len(freePlanDailyLimits))
		for feature := range freePlanDailyLimits {
			usage[feature] = totals[feature]
		}
		summary = SubscriptionSummary{
			Plan:       subscription.Plan,
			Status:     subscription.Status,
			IsPremium:  premium,
			PeriodEnd:  subscription.CurrentPeriodEnd,
			Usage:      usage,
			Limits:     LimitsForPlan(premium),
			CanUpgrade: !premium,
		}
		return nil
	})
	return summary, err
}

// PurgeUsage drops counters older than retentionDays.
func (service *UsageService) PurgeUsage(now time.Time, retentionDays int) (int64, error) {
	if retentionDays < 1 {
		return 0, validationError("retentionDays", "retention must be at least one day")
	}
	cutoff := DayStart(now.AddDate(0, 0, -retentionDays), service.location)
	var removed int64
	err := service.runner.read("purge usage", func(repos StoreRepositories) error {
		var err error
		removed, err = repos.Usage.DeleteBefore(cutoff)
		return err
	})
	return removed, err
}

// ExpireSubscriptions cancels active subscriptions whose period ended with
// cancelAtPeriodEnd set.
func (service *UsageService) ExpireSubscriptions(now time.Time) (int64, error) {
	var expired int64
	err := service.runner.read("expire subscriptions", func(repos StoreRepositories) error {
		var err error
		expired, err = repos.Subscriptions.CancelEnded(now.UTC())
		return err
	})
	return expired, err
}
