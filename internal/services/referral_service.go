package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/flowy/internal/logger"
	"github.com/terraincognita07/flowy/internal/models"
	"github.com/terraincognita07/flowy/internal/security"
)

const referralCodeAttempts = 3

var errReferralCodeCollision = errors.New("referral code collision")

type ReferralStats struct {
	Total       int   `json:"totalReferrals"`
	Pending     int   `json:"pendingReferrals"`
	Completed   int   `json:"completedReferrals"`
	Rewarded    int   `json:"rewardedReferrals"`
	TotalEarned int64 `json:"totalEarned"`
}

type ReferralSummary struct {
	Code      string            `json:"referralCode"`
	Link      string            `json:"referralLink"`
	Stats     ReferralStats     `json:"stats"`
	Referrals []models.Referral `json:"referrals"`
}

type ReferralService struct {
	runner  accrualRunner
	engine  *AccrualEngine
	baseURL string
}

func NewReferralService(store Store, locker UserLocker, engine *AccrualEngine, baseURL string) *ReferralService {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://flowy.pages.dev"
	}
	return &ReferralService{runner: newAccrualRunner(store, locker), engine: engine, baseURL: baseURL}
}

func NormalizeReferralCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Summary returns the user's referral code, generating one on first use.
func (service *ReferralService) Summary(userID string, now time.Time) (ReferralSummary, error) {
	summary := ReferralSummary{}
	err := service.runner.forUser("load referrals", userID, func(repos StoreRepositories) error {
		user, found, err := repos.Users.FindByID(userID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		code, err := service.ensureCode(repos, user, now)
		if err != nil {
			return err
		}
		referrals, err := repos.Referrals.ListByReferrer(userID)
		if err != nil {
			return err
		}

		summary = ReferralSummary{
			Code:      code,
			Link:      service.baseURL + "?ref=" + code,
			Stats:     buildReferralStats(referrals),
			Referrals: referrals,
		}
		return nil
	})
	return summary, err
}

func (service *ReferralService) ensureCode(repos StoreRepositories, user models.User, now time.Time) (string, error) {
	if user.ReferralCode != nil && *user.ReferralCode != "" {
		return *user.ReferralCode, nil
	}

	identifier := user.Name
	if strings.TrimSpace(identifier) == "" {
		identifier = user.Email
	}
	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		code, err := security.ReferralCode(identifier, now)
		if err != nil {
			return "", err
		}
		stored, err := repos.Users.SetReferralCode(user.ID, code)
		if err != nil {
			return "", err
		}
		if stored {
			return code, nil
		}

		current, found, err := repos.Users.FindByID(user.ID)
		if err != nil {
			return "", err
		}
		if found && current.ReferralCode != nil && *current.ReferralCode != "" {
			return *current.ReferralCode, nil
		}
	}
	return "", internalError("generate referral code", errReferralCodeCollision)
}

func buildReferralStats(referrals []models.Referral) ReferralStats {
	stats := ReferralStats{Total: len(referrals)}
	for _, referral := range referrals {
		switch referral.Status {
		case models.ReferralPending:
			stats.Pending++
		case models.ReferralCompleted:
			stats.Completed++
		case models.ReferralRewarded:
			stats.Rewarded++
			stats.TotalEarned += referral.FlwyReward
		}
	}
	return stats
}

// Apply attaches the caller to the owner of code as a pending referral.
func (service *ReferralService) Apply(userID string, code string, now time.Time) (models.Referral, models.User, error) {
	var referral models.Referral
	var referrer models.User
	err := service.runner.forUser("apply referral", userID, func(repos StoreRepositories) error {
		var err error
		referral, referrer, err = service.engine.CompleteReferral(repos, userID, code, now)
		return err
	})
	return referral, referrer, err
}

// SweepQualified pays out pending referrals whose referred user already
// completed a goal or a habit day. It returns how many were rewarded.
func (service *ReferralService) SweepQualified(now time.Time, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	var pending []models.Referral
	if err := service.runner.read("list qualified referrals", func(repos StoreRepositories) error {
		var err error
		pending, err = repos.Referrals.ListQualifiedPending(batchSize)
		return err
	}); err != nil {
		return 0, err
	}

	rewarded := 0
	for _, candidate := range pending {
		var promoted *models.Referral
		err := service.runner.forUser("promote referral", candidate.ReferredID, func(repos StoreRepositories) error {
			var err error
			promoted, err = service.engine.PromoteReferral(repos, candidate.ReferredID, now)
			return err
		})
		if err != nil {
			logger.WithUser(candidate.ReferredID).WithError(err).Warn("referral sweep skipped referral")
			continue
		}
		if promoted != nil {
			rewarded++
		}
	}
	return rewarded, nil
}
