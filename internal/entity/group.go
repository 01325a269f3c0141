package entity

import "time"

// CreatedBy is nullable: a group whose owner row was removed out-of-band is
// ownerless, and owner-only operations refuse until it is reassigned.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	CreatedBy   *uint  `gorm:"index" json:"created_by"`

	Members []GroupMember `gorm:"foreignKey:GroupID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type GroupMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  uint      `gorm:"not null;uniqueIndex:group_member_index" json:"group_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:group_member_index" json:"user_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
}
