package entity

import "time"

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"not null;index" json:"name"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	Avatar       string  `json:"avatar"`
	GoogleID     *string `gorm:"uniqueIndex" json:"-"`
	PasswordHash *string `json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
