package service

import (
	"webchat/internal/entity"
	"webchat/internal/nlog"
	"webchat/internal/repository"
)

// Service used to handle users
type UserService interface {
	GetByID(id uint) (*entity.User, error)
	SearchByName(name string, excludeID uint) ([]*entity.User, error)
	UpdateProfile(id uint, name, avatar string) (*entity.User, error)
}

type localUserService struct {
	userRepository repository.UserRepository
	logger         nlog.Logger
}

func NewLocalUserService(userRepo repository.UserRepository, logger nlog.Logger) UserService {
	return &localUserService{
		userRepository: userRepo,
		logger:         logger,
	}
}

func (u *localUserService) Logf(format string, v ...any) {
	u.logger.Logf(format, v...)
}

func (u *localUserService) GetByID(id uint) (*entity.User, error) {
	return u.userRepository.GetByID(id)
}

func (u *localUserService) SearchByName(name string, excludeID uint) ([]*entity.User, error) {
	users, err := u.userRepository.SearchByName(name, 20)
	if err != nil {
		return nil, err
	}

	out := users[:0]
	for _, user := range users {
		if user.ID != excludeID {
			out = append(out, user)
		}
	}
	return out, nil
}

func (u *localUserService) UpdateProfile(id uint, name, avatar string) (*entity.User, error) {
	user, err := u.userRepository.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if err := u.userRepository.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
