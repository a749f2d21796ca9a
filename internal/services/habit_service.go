package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/flowy/internal/models"
)

type HabitInput struct {
	Name        string
	Description string
	Frequency   string
	TargetCount int
}

type HabitService struct {
	runner   accrualRunner
	engine   *AccrualEngine
	location *time.Location
}

func NewHabitService(store Store, locker UserLocker, engine *AccrualEngine, location *time.Location) *HabitService {
	if location == nil {
		location = time.UTC
	}
	return &HabitService{runner: newAccrualRunner(store, locker), engine: engine, location: location}
}

func (service *HabitService) List(userID string) ([]models.Habit, error) {
	var habits []models.Habit
	err := service.runner.read("list habits", func(repos StoreRepositories) error {
		var err error
		habits, err = repos.Habits.ListByUser(userID)
		return err
	})
	return habits, err
}

func (service *HabitService) Create(userID string, input HabitInput, now time.Time) (models.Habit, AwardResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Habit{}, AwardResult{}, validationError("name", "name is required")
	}
	frequency := strings.ToLower(strings.TrimSpace(input.Frequency))
	if frequency == "" {
		frequency = models.HabitFrequencyDaily
	}
	if !models.IsValidHabitFrequency(frequency) {
		return models.Habit{}, AwardResult{}, validationError("frequency", "frequency must be daily, weekly or monthly")
	}
	targetCount := input.TargetCount
	if targetCount == 0 {
		targetCount = 1
	}
	if targetCount < 1 {
		return models.Habit{}, AwardResult{}, validationError("targetCount", "targetCount must be at least 1")
	}

	habit := models.Habit{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Frequency:   frequency,
		TargetCount: targetCount,
	}

	var result AwardResult
	err := service.runner.forUser("create habit", userID, func(repos StoreRepositories) error {
		if err := repos.Habits.Create(&habit); err != nil {
			return err
		}
		created, err := repos.Habits.CountByUser(userID)
		if err != nil {
			return err
		}
		result, err = service.engine.CheckAchievements(repos, userID, models.RequirementHabitsCreated, int(created), "", now)
		return err
	})
	if err != nil {
		return models.Habit{}, AwardResult{}, err
	}
	return habit, result, nil
}

// HabitDay is one calendar day of a habit as reported by the user.
type HabitDay struct {
	Date      time.Time
	Completed bool
	Notes     string
}

const maxCompletionNotes = 500

// SetCompletion records whether the habit was done on day. Repeating the same
// call for the same day changes nothing and pays nothing. Days after today
// are rejected.
func (service *HabitService) SetCompletion(userID string, habitID string, day HabitDay, now time.Time) (HabitCompletionResult, error) {
	day.Date = DayStart(day.Date, service.location)
	if day.Date.After(DayStart(now, service.location)) {
		return HabitCompletionResult{}, validationError("date", "date must not be in the future")
	}
	day.Notes = strings.TrimSpace(day.Notes)
	if len([]rune(day.Notes)) > maxCompletionNotes {
		return HabitCompletionResult{}, validationError("notes", "notes must be at most 500 characters")
	}

	var result HabitCompletionResult
	err := service.runner.forUser("record habit completion", userID, func(repos StoreRepositories) error {
		habit, found, err := repos.Habits.FindByUser(userID, habitID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		result, err = service.engine.RecordHabitDay(repos, habit, day, now)
		return err
	})
	if err != nil {
		return HabitCompletionResult{}, err
	}
	return result, nil
}

func (service *HabitService) Delete(userID string, habitID string) error {
	return service.runner.forUser("delete habit", userID, func(repos StoreRepositories) error {
		deleted, err := repos.Habits.Delete(userID, habitID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
}
