package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/flowy/internal/models"
)

type GoalInput struct {
	Title       string
	Description string
	Target      float64
	Current     float64
	Unit        string
	Category    string
	Deadline    *time.Time
}

// GoalUpdate carries optional changes; nil fields are left untouched.
type GoalUpdate struct {
	Title       *string
	Description *string
	Target      *float64
	Current     *float64
	Unit        *string
	Category    *string
	Status      *string
	Deadline    *time.Time
}

type GoalService struct {
	runner accrualRunner
	engine *AccrualEngine
}

func NewGoalService(store Store, locker UserLocker, engine *AccrualEngine) *GoalService {
	return &GoalService{runner: newAccrualRunner(store, locker), engine: engine}
}

func (service *GoalService) List(userID string) ([]models.Goal, error) {
	var goals []models.Goal
	err := service.runner.read("list goals", func(repos StoreRepositories) error {
		var err error
		goals, err = repos.Goals.ListByUser(userID)
		return err
	})
	return goals, err
}

func (service *GoalService) Create(userID string, input GoalInput, now time.Time) (models.Goal, AwardResult, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Goal{}, AwardResult{}, validationError("title", "title is required")
	}
	if input.Target <= 0 {
		return models.Goal{}, AwardResult{}, validationError("target", "target must be greater than zero")
	}
	if input.Current < 0 {
		return models.Goal{}, AwardResult{}, validationError("current", "current must not be negative")
	}

	goal := models.Goal{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Target:      input.Target,
		Current:     input.Current,
		Unit:        strings.TrimSpace(input.Unit),
		Category:    strings.TrimSpace(input.Category),
		Status:      models.GoalStatusActive,
		Deadline:    input.Deadline,
	}

	var result AwardResult
	err := service.runner.forUser("create goal", userID, func(repos StoreRepositories) error {
		if err := repos.Goals.Create(&goal); err != nil {
			return err
		}
		created, err := repos.Goals.CountByUser(userID)
		if err != nil {
			return err
		}
		result, err = service.engine.CheckAchievements(repos, userID, models.RequirementGoalsCreated, int(created), "", now)
		return err
	})
	if err != nil {
		return models.Goal{}, AwardResult{}, err
	}
	return goal, result, nil
}

// Update applies changes to a goal. Moving a goal into completed pays the
// completion award once; saving an already completed goal as completed only
// updates the other fields.
func (service *GoalService) Update(userID string, goalID string, update GoalUpdate, now time.Time) (models.Goal, AwardResult, error) {
	if update.Status != nil && !models.IsValidGoalStatus(*update.Status) {
		return models.Goal{}, AwardResult{}, validationError("status", "status must be active, completed or paused")
	}

	var goal models.Goal
	var result AwardResult
	err := service.runner.forUser("update goal", userID, func(repos StoreRepositories) error {
		existing, found, err := repos.Goals.FindByUser(userID, goalID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		if err := applyGoalUpdate(&existing, update); err != nil {
			return err
		}

		completing := update.Status != nil &&
			*update.Status == models.GoalStatusCompleted &&
			existing.Status != models.GoalStatusCompleted
		if !completing {
			if update.Status != nil {
				existing.Status = *update.Status
				if existing.Status != models.GoalStatusCompleted {
					existing.CompletedAt = nil
				}
			}
			goal = existing
			return repos.Goals.Save(&goal)
		}

		goal = existing
		result, err = service.engine.CompleteGoal(repos, &goal, now)
		return err
	})
	if err != nil {
		return models.Goal{}, AwardResult{}, err
	}
	return goal, result, nil
}

// Complete marks a goal completed and fails with ErrAlreadyCompleted when it
// already is.
func (service *GoalService) Complete(userID string, goalID string, now time.Time) (models.Goal, AwardResult, error) {
	var goal models.Goal
	var result AwardResult
	err := service.runner.forUser("complete goal", userID, func(repos StoreRepositories) error {
		existing, found, err := repos.Goals.FindByUser(userID, goalID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		goal = existing
		result, err = service.engine.CompleteGoal(repos, &goal, now)
		return err
	})
	if err != nil {
		return models.Goal{}, AwardResult{}, err
	}
	return goal, result, nil
}

func (service *GoalService) Delete(userID string, goalID string) error {
	return service.runner.forUser("delete goal", userID, func(repos StoreRepositories) error {
		deleted, err := repos.Goals.Delete(userID, goalID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
}

func applyGoalUpdate(goal *models.Goal, update GoalUpdate) error {
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return validationError("title", "title is required")
		}
		goal.Title = title
	}
	if update.Description != nil {
		goal.Description = strings.TrimSpace(*update.Description)
	}
	if update.Target != nil {
		if *update.Target <= 0 {
			return validationError("target", "target must be greater than zero")
		}
		goal.Target = *update.Target
	}
	if update.Current != nil {
		if *update.Current < 0 {
			return validationError("current", "current must not be negative")
		}
		goal.Current = *update.Current
	}
	if update.Unit != nil {
		goal.Unit = strings.TrimSpace(*update.Unit)
	}
	if update.Category != nil {
		goal.Category = strings.TrimSpace(*update.Category)
	}
	if update.Deadline != nil {
		deadline := update.Deadline.UTC()
		goal.Deadline = &deadline
	}
	return nil
}
