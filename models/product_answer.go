package models

import "time"

// ProductAnswer links a questionnaire answer to a recommended product.
type ProductAnswer struct {
	AnswerID  uint      `gorm:"primaryKey;autoIncrement:false" json:"answer_id"`
	ProductID uint      `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
