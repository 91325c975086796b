package models

import "time"

type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"not null" json:"text" validate:"required"`
	QuestionID uint      `json:"question_id"` // Foreign key to Question
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
