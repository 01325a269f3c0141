package entity

import "time"

// PresenceRecord mirrors one live connection in the session registry. A row
// exists iff the registry believes that connection is live; rows whose
// LastSeen falls outside the liveness window are treated as offline.
type PresenceRecord struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	ConnectionID string    `gorm:"not null;uniqueIndex" json:"connection_id"`
	LastSeen     time.Time `gorm:"not null;index" json:"last_seen"`
}
