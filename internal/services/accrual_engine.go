package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/flowy/internal/logger"
	"github.com/terraincognita07/flowy/internal/models"
)

const (
	GoalCompletionReward  int64 = 50
	StreakMilestoneReward int64 = 25
	DefaultReferralReward int64 = 100
)

// AwardResult summarizes what one accrual operation minted.
type AwardResult struct {
	TokensAwarded int64                `json:"tokensAwarded"`
	Unlocked      []models.Achievement `json:"unlockedAchievements"`
	Referral      *models.Referral     `json:"referral,omitempty"`
}

func (result *AwardResult) merge(other AwardResult) {
	result.TokensAwarded += other.TokensAwarded
	result.Unlocked = append(result.Unlocked, other.Unlocked...)
	if other.Referral != nil {
		result.Referral = other.Referral
	}
}

// AccrualEngine turns domain transitions into ledger entries and achievement
// unlocks. Every method expects repositories bound to the caller's
// transaction and leaves rollback to the caller.
type AccrualEngine struct {
	referralReward int64
	metrics        AccrualMetrics
}

func NewAccrualEngine(referralReward int64, metrics AccrualMetrics) *AccrualEngine {
	if referralReward < 0 {
		referralReward = 0
	}
	if metrics == nil {
		metrics = noopAccrualMetrics{}
	}
	return &AccrualEngine{referralReward: referralReward, metrics: metrics}
}

func awardKey(parts ...string) *string {
	key := strings.Join(parts, ":")
	return &key
}

func (engine *AccrualEngine) appendEntry(repos StoreRepositories, entry models.FlwyToken) (bool, error) {
	inserted, err := repos.Ledger.Append(&entry)
	if err != nil {
		return false, err
	}
	if !inserted {
		return false, nil
	}
	if entry.Amount > 0 {
		engine.metrics.TokensAwarded(entry.Source, entry.Amount)
	}
	logger.WithUser(entry.UserID).WithFields(logrus.Fields{
		"source":    entry.Source,
		"source_id": entry.SourceID,
		"amount":    entry.Amount,
	}).Info("ledger entry appended")
	return true, nil
}

// CompleteGoal moves goal to completed, persists it and pays the completion
// award, then evaluates goals_completed achievements.
func (engine *AccrualEngine) CompleteGoal(repos StoreRepositories, goal *models.Goal, now time.Time) (AwardResult, error) {
	if goal.Status == models.GoalStatusCompleted {
		return AwardResult{}, ErrAlreadyCompleted
	}

	completedAt := now.UTC()
	goal.Status = models.GoalStatusCompleted
	goal.CompletedAt = &completedAt
	if err := repos.Goals.Save(goal); err != nil {
		return AwardResult{}, err
	}

	result := AwardResult{}
	inserted, err := engine.appendEntry(repos, models.FlwyToken{
		UserID:      goal.UserID,
		Amount:      GoalCompletionReward,
		Source:      models.TokenSourceGoal,
		SourceID:    goal.ID,
		AwardKey:    awardKey(models.TokenSourceGoal, goal.ID),
		Description: "Goal completed: " + goal.Title,
		CreatedAt:   now.UTC(),
	})
	if err != nil {
		return AwardResult{}, err
	}
	if inserted {
		result.TokensAwarded += GoalCompletionReward
	}

	completedGoals, err := repos.Goals.CountCompletedByUser(goal.UserID)
	if err != nil {
		return AwardResult{}, err
	}
	achievements, err := engine.CheckAchievements(repos, goal.UserID, models.RequirementGoalsCompleted, int(completedGoals), "", now)
	if err != nil {
		return AwardResult{}, err
	}
	result.merge(achievements)

	referral, err := engine.PromoteReferral(repos, goal.UserID, now)
	if err != nil {
		return AwardResult{}, err
	}
	result.Referral = referral
	return result, nil
}

// HabitCompletionResult reports the recomputed streak alongside any awards.
type HabitCompletionResult struct {
	AwardResult
	Habit      models.Habit           `json:"habit"`
	Streak     int                    `json:"streak"`
	Completion models.HabitCompletion `json:"completion"`
}

// RecordHabitDay upserts the completion for day.Date, which must already be
// the start of a calendar day, and recomputes the habit's streak. Awards are
// only paid when the day is completed.
func (engine *AccrualEngine) RecordHabitDay(repos StoreRepositories, habit models.Habit, day HabitDay, now time.Time) (HabitCompletionResult, error) {
	completed := day.Completed
	completion := models.HabitCompletion{
		HabitID:   habit.ID,
		Date:      day.Date.UTC(),
		Completed: completed,
		Count:     1,
		Notes:     day.Notes,
	}
	if !completed {
		completion.Count = 0
	}
	if err := repos.Habits.UpsertCompletion(&completion); err != nil {
		return HabitCompletionResult{}, err
	}

	recent, err := repos.Habits.ListRecentCompletions(habit.ID, StreakWindow)
	if err != nil {
		return HabitCompletionResult{}, err
	}
	streak := ComputeStreak(recent, now)
	if streak > habit.BestStreak {
		habit.BestStreak = streak
	}
	habit.CurrentStreak = streak
	if err := repos.Habits.UpdateStreaks(habit.ID, habit.CurrentStreak, habit.BestStreak); err != nil {
		return HabitCompletionResult{}, err
	}

	result := HabitCompletionResult{Habit: habit, Streak: streak, Completion: completion}
	if !completed {
		return result, nil
	}

	if IsStreakMilestone(streak) {
		anchor := streakAnchor(recent)
		inserted, err := engine.appendEntry(repos, models.FlwyToken{
			UserID:      habit.UserID,
			Amount:      StreakMilestoneReward,
			Source:      models.TokenSourceStreak,
			SourceID:    habit.ID,
			AwardKey:    awardKey(models.TokenSourceStreak, habit.ID, anchor.Format("2006-01-02"), strconv.Itoa(streak)),
			Description: fmt.Sprintf("%d-day streak: %s", streak, habit.Name),
			CreatedAt:   now.UTC(),
		})
		if err != nil {
			return HabitCompletionResult{}, err
		}
		if inserted {
			result.TokensAwarded += StreakMilestoneReward
		}
	}

	achievements, err := engine.CheckAchievements(repos, habit.UserID, models.RequirementStreakDays, streak, models.AchievementCategoryConsistency, now)
	if err != nil {
		return HabitCompletionResult{}, err
	}
	result.merge(achievements)

	referral, err := engine.PromoteReferral(repos, habit.UserID, now)
	if err != nil {
		return HabitCompletionResult{}, err
	}
	result.Referral = referral
	return result, nil
}

// streakAnchor is the newest completed day, which identifies the run a
// milestone belongs to.
func streakAnchor(completions []models.HabitCompletion) time.Time {
	for _, completion := range completions {
		if completion.Completed {
			return completion.Date.UTC()
		}
	}
	return time.Time{}
}

// CheckAchievements unlocks every active achievement of kind whose count is
// reached by observed. An empty category matches all categories.
func (engine *AccrualEngine) CheckAchievements(repos StoreRepositories, userID string, kind models.RequirementKind, observed int, category string, now time.Time) (AwardResult, error) {
	catalog, err := repos.Achievements.ListActive()
	if err != nil {
		return AwardResult{}, err
	}

	result := AwardResult{}
	for _, achievement := range catalog {
		if category != "" && achievement.Category != category {
			continue
		}
		if !achievement.Requirement.SatisfiedBy(kind, observed) {
			continue
		}

		awarded, err := engine.unlockAchievement(repos, userID, achievement, now)
		if errors.Is(err, ErrAlreadyUnlocked) {
			continue
		}
		if err != nil {
			return AwardResult{}, err
		}
		result.TokensAwarded += awarded
		result.Unlocked = append(result.Unlocked, achievement)
	}
	return result, nil
}

func (engine *AccrualEngine) unlockAchievement(repos StoreRepositories, userID string, achievement models.Achievement, now time.Time) (int64, error) {
	created, err := repos.Achievements.CreateUnlock(&models.UserAchievement{
		UserID:        userID,
		AchievementID: achievement.ID,
		UnlockedAt:    now.UTC(),
	})
	if err != nil {
		return 0, err
	}
	if !created {
		return 0, ErrAlreadyUnlocked
	}
	engine.metrics.AchievementUnlocked(achievement.Name)

	if achievement.FlwyReward <= 0 {
		return 0, nil
	}
	inserted, err := engine.appendEntry(repos, models.FlwyToken{
		UserID:      userID,
		Amount:      achievement.FlwyReward,
		Source:      models.TokenSourceAchievement,
		SourceID:    achievement.ID,
		AwardKey:    awardKey(models.TokenSourceAchievement, achievement.ID),
		Description: "Achievement unlocked: " + achievement.Name,
		CreatedAt:   now.UTC(),
	})
	if err != nil {
		return 0, err
	}
	if !inserted {
		return 0, nil
	}
	return achievement.FlwyReward, nil
}

// RedeemReward spends reward.FlwyCost from the user's derived balance.
func (engine *AccrualEngine) RedeemReward(repos StoreRepositories, userID string, rewardID string, now time.Time) (models.UserReward, error) {
	reward, found, err := repos.Rewards.FindByID(rewardID)
	if err != nil {
		return models.UserReward{}, err
	}
	if !found || !reward.IsActive {
		return models.UserReward{}, ErrNotFound
	}

	redeemed, err := repos.Rewards.HasRedeemed(userID, reward.ID)
	if err != nil {
		return models.UserReward{}, err
	}
	if redeemed {
		return models.UserReward{}, ErrAlreadyRedeemed
	}

	balance, err := repos.Ledger.Balance(userID)
	if err != nil {
		return models.UserReward{}, err
	}
	if balance < reward.FlwyCost {
		return models.UserReward{}, ErrInsufficientBalance
	}

	redemption := models.UserReward{UserID: userID, RewardID: reward.ID, RedeemedAt: now.UTC()}
	created, err := repos.Rewards.CreateRedemption(&redemption)
	if err != nil {
		return models.UserReward{}, err
	}
	if !created {
		return models.UserReward{}, ErrAlreadyRedeemed
	}

	inserted, err := engine.appendEntry(repos, models.FlwyToken{
		UserID:      userID,
		Amount:      -reward.FlwyCost,
		Source:      models.TokenSourcePurchase,
		SourceID:    reward.ID,
		AwardKey:    awardKey(models.TokenSourcePurchase, reward.ID),
		Description: "Redeemed: " + reward.Name,
		CreatedAt:   now.UTC(),
	})
	if err != nil {
		return models.UserReward{}, err
	}
	if !inserted {
		return models.UserReward{}, ErrAlreadyRedeemed
	}

	engine.metrics.RewardRedeemed(reward.Category)
	redemption.Reward = reward
	return redemption, nil
}

// CompleteReferral links referredUserID to the owner of code with a pending
// referral. The referral pays out later through PromoteReferral.
func (engine *AccrualEngine) CompleteReferral(repos StoreRepositories, referredUserID string, code string, now time.Time) (models.Referral, models.User, error) {
	code = NormalizeReferralCode(code)
	if code == "" {
		return models.Referral{}, models.User{}, validationError("referralCode", "referral code is required")
	}

	referred, found, err := repos.Users.FindByID(referredUserID)
	if err != nil {
		return models.Referral{}, models.User{}, err
	}
	if !found {
		return models.Referral{}, models.User{}, ErrNotFound
	}

	referrer, found, err := repos.Users.FindByReferralCode(code)
	if err != nil {
		return models.Referral{}, models.User{}, err
	}
	if !found {
		return models.Referral{}, models.User{}, ErrNotFound
	}
	if referrer.ID == referred.ID {
		return models.Referral{}, models.User{}, validationError("referralCode", "you cannot use your own referral code")
	}
	if referred.HasReferrer() {
		return models.Referral{}, models.User{}, ErrAlreadyReferred
	}

	exists, err := repos.Referrals.ExistsPair(referrer.ID, referred.ID)
	if err != nil {
		return models.Referral{}, models.User{}, err
	}
	if exists {
		return models.Referral{}, models.User{}, ErrAlreadyReferred
	}

	referral := models.Referral{
		ReferrerID: referrer.ID,
		ReferredID: referred.ID,
		Status:     models.ReferralPending,
		CreatedAt:  now.UTC(),
	}
	created, err := repos.Referrals.Create(&referral)
	if err != nil {
		return models.Referral{}, models.User{}, err
	}
	if !created {
		return models.Referral{}, models.User{}, ErrAlreadyReferred
	}

	updated, err := repos.Users.SetReferredBy(referred.ID, referrer.ID)
	if err != nil {
		return models.Referral{}, models.User{}, err
	}
	if !updated {
		return models.Referral{}, models.User{}, ErrAlreadyReferred
	}
	return referral, referrer, nil
}

// PromoteReferral pays out the pending referral of referredUserID, if any.
// The referral passes through completed and ends rewarded with the referrer
// credited exactly once.
func (engine *AccrualEngine) PromoteReferral(repos StoreRepositories, referredUserID string, now time.Time) (*models.Referral, error) {
	referral, found, err := repos.Referrals.FindByReferred(referredUserID)
	if err != nil {
		return nil, err
	}
	if !found || referral.Status != models.ReferralPending {
		return nil, nil
	}

	at := now.UTC()
	referral.Status = models.ReferralCompleted
	referral.CompletedAt = &at

	if engine.referralReward > 0 {
		if _, err := engine.appendEntry(repos, models.FlwyToken{
			UserID:      referral.ReferrerID,
			Amount:      engine.referralReward,
			Source:      models.TokenSourceReferral,
			SourceID:    referral.ID,
			AwardKey:    awardKey(models.TokenSourceReferral, referral.ID),
			Description: "Referral reward",
			CreatedAt:   now.UTC(),
		}); err != nil {
			return nil, err
		}
	}

	referral.Status = models.ReferralRewarded
	referral.FlwyReward = engine.referralReward
	referral.RewardedAt = &at
	if err := repos.Referrals.Save(&referral); err != nil {
		return nil, err
	}
	return &referral, nil
}
