package entity

import "time"

// Message is immutable once created, except for the one-way IsRead
// transition. Exactly one of ReceiverID and GroupID is set; the router
// enforces this before the row exists.
type Message struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	SenderID    uint   `gorm:"not null;index" json:"sender_id"`
	ReceiverID  *uint  `gorm:"index" json:"receiver_id"`
	GroupID     *uint  `gorm:"index" json:"group_id"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url"`
	VoiceURL    string `json:"voice_url"`
	MediaType   string `json:"media_type"`
	IsAnonymous bool   `gorm:"not null;default:false" json:"is_anonymous"`
	IsRead      bool   `gorm:"not null;default:false" json:"is_read"`

	Sender User `gorm:"foreignKey:SenderID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
