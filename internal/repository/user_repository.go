package repository

import (
	"webchat/internal/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *entity.User) error
	Update(user *entity.User) error

	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByGoogleID(googleID string) (*entity.User, error)
	SearchByName(name string, limit int) ([]*entity.User, error)
}

type SQLiteUserRepository struct {
	db *gorm.DB
}

func NewSQLiteUserRepository(db *gorm.DB) UserRepository {
	return &SQLiteUserRepository{db}
}

func (repo *SQLiteUserRepository) Create(user *entity.User) error {
	return repo.db.Create(user).Error
}

func (repo *SQLiteUserRepository) Update(user *entity.User) error {
	return repo.db.Save(user).Error
}

func (repo *SQLiteUserRepository) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := repo.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *SQLiteUserRepository) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := repo.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *SQLiteUserRepository) GetByGoogleID(googleID string) (*entity.User, error) {
	var user entity.User
	if err := repo.db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *SQLiteUserRepository) SearchByName(name string, limit int) ([]*entity.User, error) {
	var users []*entity.User
	err := repo.db.Where("name LIKE ?", "%"+name+"%").Limit(limit).Find(&users).Error
	return users, err
}
