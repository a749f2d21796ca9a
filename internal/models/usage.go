package models

import "time"

const (
	FeatureEvents     = "events"
	FeatureTasks      = "tasks"
	FeatureCategories = "categories"
)

type Usage struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:uidx_usage_day;type:varchar(36)" json:"userId"`
	Feature   string    `gorm:"not null;uniqueIndex:uidx_usage_day" json:"feature"`
	Date      time.Time `gorm:"not null;uniqueIndex:uidx_usage_day" json:"date"`
	Count     int       `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
