package entity

import "time"

type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
)

// Friendship is stored as a single directed row per pair: UserID is the
// requester, FriendID the addressee. Rejection deletes the row, so the only
// persisted states are pending and accepted.
type Friendship struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	UserID   uint         `gorm:"not null;uniqueIndex:friend_pair_index" json:"user_id"`
	FriendID uint         `gorm:"not null;uniqueIndex:friend_pair_index" json:"friend_id"`
	Status   FriendStatus `gorm:"not null;default:'pending';index" json:"status"`

	User   User `gorm:"foreignKey:UserID;references:ID" json:"user"`
	Friend User `gorm:"foreignKey:FriendID;references:ID" json:"friend"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
