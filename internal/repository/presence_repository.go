package repository

import (
	"time"

	"webchat/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PresenceRepository is the persisted side of the liveness fact. Writes are
// best-effort from the caller's point of view: the session registry stays
// authoritative inside the process.
type PresenceRepository interface {
	// Upsert is atomic on the connection id, so a re-authenticated connection
	// never produces a duplicate row.
	Upsert(userID uint, connectionID string) error
	Touch(connectionID string) error
	DeleteByConnection(connectionID string) error
	// DeleteAll clears every row at boot; no connection survives a restart.
	DeleteAll() error

	OnlineUserIDs(window time.Duration) ([]uint, error)
	IsOnline(userID uint, window time.Duration) (bool, error)
	OnlineFriends(userID uint, window time.Duration) ([]*entity.User, error)
}

type SQLitePresenceRepository struct {
	db *gorm.DB
}

func NewSQLitePresenceRepository(db *gorm.DB) PresenceRepository {
	return &SQLitePresenceRepository{db}
}

func (repo *SQLitePresenceRepository) Upsert(userID uint, connectionID string) error {
	record := entity.PresenceRecord{
		UserID:       userID,
		ConnectionID: connectionID,
		LastSeen:     time.Now(),
	}
	return repo.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "connection_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "last_seen"}),
	}).Create(&record).Error
}

func (repo *SQLitePresenceRepository) Touch(connectionID string) error {
	return repo.db.Model(&entity.PresenceRecord{}).
		Where("connection_id = ?", connectionID).
		Update("last_seen", time.Now()).Error
}

func (repo *SQLitePresenceRepository) DeleteByConnection(connectionID string) error {
	return repo.db.Where("connection_id = ?", connectionID).Delete(&entity.PresenceRecord{}).Error
}

func (repo *SQLitePresenceRepository) DeleteAll() error {
	return repo.db.Where("1 = 1").Delete(&entity.PresenceRecord{}).Error
}

func (repo *SQLitePresenceRepository) OnlineUserIDs(window time.Duration) ([]uint, error) {
	var ids []uint
	cutoff := time.Now().Add(-window)
	err := repo.db.Model(&entity.PresenceRecord{}).
		Where("last_seen > ?", cutoff).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

func (repo *SQLitePresenceRepository) IsOnline(userID uint, window time.Duration) (bool, error) {
	var count int64
	cutoff := time.Now().Add(-window)
	err := repo.db.Model(&entity.PresenceRecord{}).
		Where("user_id = ? AND last_seen > ?", userID, cutoff).
		Count(&count).Error
	return count > 0, err
}

func (repo *SQLitePresenceRepository) OnlineFriends(userID uint, window time.Duration) ([]*entity.User, error) {
	var users []*entity.User
	cutoff := time.Now().Add(-window)
	err := repo.db.Model(&entity.User{}).
		Joins("JOIN presence_records ON presence_records.user_id = users.id").
		Joins("JOIN friendships ON (friendships.user_id = ? AND friendships.friend_id = users.id) OR (friendships.friend_id = ? AND friendships.user_id = users.id)", userID, userID).
		Where("friendships.status = ?", entity.FriendAccepted).
		Where("presence_records.last_seen > ?", cutoff).
		Distinct().
		Find(&users).Error
	return users, err
}
