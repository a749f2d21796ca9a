// Package catalog loads the achievement and reward catalogs from YAML and
// validates them before anything is written to the database.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/terraincognita07/flowy/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

type achievementEntry struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Icon        string             `yaml:"icon"`
	Category    string             `yaml:"category"`
	Reward      int64              `yaml:"reward"`
	Requirement models.Requirement `yaml:"requirement"`
	Inactive    bool               `yaml:"inactive"`
}

type rewardEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Category    string `yaml:"category"`
	Cost        int64  `yaml:"cost"`
	Inactive    bool   `yaml:"inactive"`
}

type document struct {
	Achievements []achievementEntry `yaml:"achievements"`
	Rewards      []rewardEntry      `yaml:"rewards"`
}

type Catalog struct {
	Achievements []models.Achievement
	Rewards      []models.Reward
}

func Default() (Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads path, or the embedded catalog when path is empty.
func Load(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	result := Catalog{
		Achievements: make([]models.Achievement, 0, len(doc.Achievements)),
		Rewards:      make([]models.Reward, 0, len(doc.Rewards)),
	}

	seenAchievements := make(map[string]struct{}, len(doc.Achievements))
	for index, entry := range doc.Achievements {
		name := strings.TrimSpace(entry.Name)
		if err := validateAchievement(name, entry); err != nil {
			return Catalog{}, fmt.Errorf("achievement #%d: %w", index+1, err)
		}
		if _, dup := seenAchievements[name]; dup {
			return Catalog{}, fmt.Errorf("achievement #%d: duplicate name %q", index+1, name)
		}
		seenAchievements[name] = struct{}{}

		result.Achievements = append(result.Achievements, models.Achievement{
			Name:        name,
			Description: strings.TrimSpace(entry.Description),
			Icon:        entry.Icon,
			Category:    entry.Category,
			Requirement: entry.Requirement,
			FlwyReward:  entry.Reward,
			IsActive:    !entry.Inactive,
		})
	}

	seenRewards := make(map[string]struct{}, len(doc.Rewards))
	for index, entry := range doc.Rewards {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return Catalog{}, fmt.Errorf("reward #%d: name is required", index+1)
		}
		if entry.Cost <= 0 {
			return Catalog{}, fmt.Errorf("reward #%d: cost must be positive", index+1)
		}
		if _, dup := seenRewards[name]; dup {
			return Catalog{}, fmt.Errorf("reward #%d: duplicate name %q", index+1, name)
		}
		seenRewards[name] = struct{}{}

		result.Rewards = append(result.Rewards, models.Reward{
			Name:        name,
			Description: strings.TrimSpace(entry.Description),
			Icon:        entry.Icon,
			Category:    strings.TrimSpace(entry.Category),
			FlwyCost:    entry.Cost,
			IsActive:    !entry.Inactive,
		})
	}

	return result, nil
}

func validateAchievement(name string, entry achievementEntry) error {
	if name == "" {
		return errors.New("name is required")
	}
	switch entry.Category {
	case models.AchievementCategoryMilestone, models.AchievementCategoryProductivity, models.AchievementCategoryConsistency:
	default:
		return fmt.Errorf("unknown category %q", entry.Category)
	}
	if !entry.Requirement.Kind.Valid() {
		return fmt.Errorf("unknown requirement kind %q", entry.Requirement.Kind)
	}
	if entry.Requirement.Count < 1 {
		return errors.New("requirement count must be at least 1")
	}
	if entry.Reward < 0 {
		return errors.New("reward must not be negative")
	}
	return nil
}
