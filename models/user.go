package models

import "time"

const (
	RoleAdmin         = "admin"
	RoleConsultant    = "consultant"
	RoleAuthenticated = "authenticated"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email" validate:"required,email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"default:authenticated" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
