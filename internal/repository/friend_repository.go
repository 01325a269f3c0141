package repository

import (
	"webchat/internal/entity"

	"gorm.io/gorm"
)

type FriendRepository interface {
	Create(edge *entity.Friendship) error
	UpdateStatus(id uint, status entity.FriendStatus) error
	Delete(id uint) error

	GetByID(id uint) (*entity.Friendship, error)
	// GetEdge finds the single edge between two users, in either direction.
	GetEdge(a, b uint) (*entity.Friendship, error)

	AreFriends(a, b uint) (bool, error)
	AcceptedFriendIDs(userID uint) ([]uint, error)
	ListAccepted(userID uint) ([]*entity.User, error)
	ListPendingFor(userID uint) ([]*entity.Friendship, error)
	ListSentBy(userID uint) ([]*entity.Friendship, error)
}

type SQLiteFriendRepository struct {
	db *gorm.DB
}

func NewSQLiteFriendRepository(db *gorm.DB) FriendRepository {
	return &SQLiteFriendRepository{db}
}

func (repo *SQLiteFriendRepository) Create(edge *entity.Friendship) error {
	return repo.db.Create(edge).Error
}

func (repo *SQLiteFriendRepository) UpdateStatus(id uint, status entity.FriendStatus) error {
	return repo.db.Model(&entity.Friendship{}).Where("id = ?", id).Update("status", status).Error
}

func (repo *SQLiteFriendRepository) Delete(id uint) error {
	return repo.db.Delete(&entity.Friendship{}, id).Error
}

func (repo *SQLiteFriendRepository) GetByID(id uint) (*entity.Friendship, error) {
	var edge entity.Friendship
	if err := repo.db.Preload("User").Preload("Friend").First(&edge, id).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

func (repo *SQLiteFriendRepository) GetEdge(a, b uint) (*entity.Friendship, error) {
	var edge entity.Friendship
	err := repo.db.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (repo *SQLiteFriendRepository) AreFriends(a, b uint) (bool, error) {
	var count int64
	err := repo.db.Model(&entity.Friendship{}).
		Where("status = ?", entity.FriendAccepted).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

func (repo *SQLiteFriendRepository) AcceptedFriendIDs(userID uint) ([]uint, error) {
	var edges []*entity.Friendship
	err := repo.db.
		Where("status = ?", entity.FriendAccepted).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(edges))
	for _, edge := range edges {
		if edge.UserID == userID {
			ids = append(ids, edge.FriendID)
		} else {
			ids = append(ids, edge.UserID)
		}
	}
	return ids, nil
}

func (repo *SQLiteFriendRepository) ListAccepted(userID uint) ([]*entity.User, error) {
	ids, err := repo.AcceptedFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var users []*entity.User
	err = repo.db.Where("id IN ?", ids).Order("name ASC").Find(&users).Error
	return users, err
}

func (repo *SQLiteFriendRepository) ListPendingFor(userID uint) ([]*entity.Friendship, error) {
	var edges []*entity.Friendship
	err := repo.db.Preload("User").
		Where("friend_id = ? AND status = ?", userID, entity.FriendPending).
		Find(&edges).Error
	return edges, err
}

func (repo *SQLiteFriendRepository) ListSentBy(userID uint) ([]*entity.Friendship, error) {
	var edges []*entity.Friendship
	err := repo.db.Preload("Friend").
		Where("user_id = ? AND status = ?", userID, entity.FriendPending).
		Find(&edges).Error
	return edges, err
}
