package models

import "time"

type Category struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name" validate:"required"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Questions   []Question `gorm:"foreignKey:CategoryID" json:"questions"` // One-to-many relationship
}
