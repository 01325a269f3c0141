package data

import (
	"webchat/internal/repository"

	"gorm.io/gorm"
)

// Storage manager gathers all the repositories needed for the chat system in a single container.
type StorageManager struct {
	db *gorm.DB // Under the hood we use the SQLite implementation

	userRepo     repository.UserRepository
	friendRepo   repository.FriendRepository
	groupRepo    repository.GroupRepository
	messageRepo  repository.MessageRepository
	presenceRepo repository.PresenceRepository
}

func NewStorageManager(db *gorm.DB) *StorageManager {
	return &StorageManager{
		db:           db,
		userRepo:     repository.NewSQLiteUserRepository(db),
		friendRepo:   repository.NewSQLiteFriendRepository(db),
		groupRepo:    repository.NewSQLiteGroupRepository(db),
		messageRepo:  repository.NewSQLiteMessageRepository(db),
		presenceRepo: repository.NewSQLitePresenceRepository(db),
	}
}

func (s *StorageManager) GetUserRepository() repository.UserRepository {
	return s.userRepo
}

func (s *StorageManager) GetFriendRepository() repository.FriendRepository {
	return s.friendRepo
}

func (s *StorageManager) GetGroupRepository() repository.GroupRepository {
	return s.groupRepo
}

func (s *StorageManager) GetMessageRepository() repository.MessageRepository {
	return s.messageRepo
}

func (s *StorageManager) GetPresenceRepository() repository.PresenceRepository {
	return s.presenceRepo
}
