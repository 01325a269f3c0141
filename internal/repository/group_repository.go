package repository

import (
	"time"

	"webchat/internal/entity"

	"gorm.io/gorm"
)

type GroupRepository interface {
	// Create inserts the group and its creator's membership in one transaction.
	Create(group *entity.Group, creatorID uint) error
	Delete(id uint) error
	SetOwner(groupID uint, ownerID *uint) error

	GetByID(id uint) (*entity.Group, error)
	GroupsFor(userID uint) ([]*entity.Group, error)
	GroupIDsFor(userID uint) ([]uint, error)

	Members(groupID uint) ([]*entity.User, error)
	MemberIDs(groupID uint) ([]uint, error)
	IsMember(groupID, userID uint) (bool, error)
	EarliestMember(groupID uint) (*entity.GroupMember, error)

	AddMember(groupID, userID uint) error
	RemoveMember(groupID, userID uint) error
}

type SQLiteGroupRepository struct {
	db *gorm.DB
}

func NewSQLiteGroupRepository(db *gorm.DB) GroupRepository {
	return &SQLiteGroupRepository{db}
}

func (repo *SQLiteGroupRepository) Create(group *entity.Group, creatorID uint) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := entity.GroupMember{
			GroupID:  group.ID,
			UserID:   creatorID,
			JoinedAt: time.Now(),
		}
		return tx.Create(&member).Error
	})
}

func (repo *SQLiteGroupRepository) Delete(id uint) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&entity.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Group{}, id).Error
	})
}

func (repo *SQLiteGroupRepository) SetOwner(groupID uint, ownerID *uint) error {
	return repo.db.Model(&entity.Group{}).Where("id = ?", groupID).Update("created_by", ownerID).Error
}

func (repo *SQLiteGroupRepository) GetByID(id uint) (*entity.Group, error) {
	var group entity.Group
	if err := repo.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (repo *SQLiteGroupRepository) GroupsFor(userID uint) ([]*entity.Group, error) {
	var groups []*entity.Group
	err := repo.db.
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Find(&groups).Error
	return groups, err
}

func (repo *SQLiteGroupRepository) GroupIDsFor(userID uint) ([]uint, error) {
	var ids []uint
	err := repo.db.Model(&entity.GroupMember{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	return ids, err
}

func (repo *SQLiteGroupRepository) Members(groupID uint) ([]*entity.User, error) {
	var users []*entity.User
	err := repo.db.
		Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ?", groupID).
		Order("group_members.joined_at ASC").
		Find(&users).Error
	return users, err
}

func (repo *SQLiteGroupRepository) MemberIDs(groupID uint) ([]uint, error) {
	var ids []uint
	err := repo.db.Model(&entity.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (repo *SQLiteGroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := repo.db.Model(&entity.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func (repo *SQLiteGroupRepository) EarliestMember(groupID uint) (*entity.GroupMember, error) {
	var member entity.GroupMember
	err := repo.db.Where("group_id = ?", groupID).Order("joined_at ASC").First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (repo *SQLiteGroupRepository) AddMember(groupID, userID uint) error {
	member := entity.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	return repo.db.Create(&member).Error
}

func (repo *SQLiteGroupRepository) RemoveMember(groupID, userID uint) error {
	return repo.db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&entity.GroupMember{}).Error
}
