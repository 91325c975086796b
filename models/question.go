package models

import "time"

type Question struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"not null" json:"text" validate:"required"`
	CategoryID uint      `json:"category_id"` // Foreign key to Category
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Answers    []Answer  `gorm:"foreignKey:QuestionID" json:"answers"` // One-to-many with Answer
}
