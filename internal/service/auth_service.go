package service

import (
	"fmt"
	"time"

	"webchat/internal/entity"
	"webchat/internal/nlog"
	"webchat/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(name, email, password string) (*entity.User, error)
	Login(email, password string) (*entity.User, error)
	// LoginWithGoogle finds or creates the user for a verified set of Google
	// claims; an existing local account with the same email is linked.
	LoginWithGoogle(claims *GoogleClaims) (*entity.User, error)
}

type localAuthService struct {
	userRepository repository.UserRepository
	logger         nlog.Logger
}

func NewLocalAuthService(userRepo repository.UserRepository, logger nlog.Logger) AuthService {
	return &localAuthService{
		userRepository: userRepo,
		logger:         logger,
	}
}

func (a *localAuthService) Logf(format string, v ...any) {
	a.logger.Logf(format, v...)
}

func (a *localAuthService) Register(name, email, password string) (*entity.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("Name, email and password are required")
	}

	if _, err := a.userRepository.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("Email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		a.Logf("Could not calculate hash{%v}", err)
		return nil, err
	}

	hashStr := string(hash)
	u := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: &hashStr,
		CreatedAt:    time.Now(),
	}
	if err := a.userRepository.Create(u); err != nil {
		return nil, err
	}

	a.Logf("User registered {%d}", u.ID)
	return u, nil
}

func (a *localAuthService) Login(email, password string) (*entity.User, error) {
	u, err := a.userRepository.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("User was not found {%s}", err.Error())
	}

	if u.PasswordHash == nil {
		return nil, fmt.Errorf("Account has no password; sign in with Google")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("Wrong credentials")
	}
	return u, nil
}

func (a *localAuthService) LoginWithGoogle(claims *GoogleClaims) (*entity.User, error) {
	if u, err := a.userRepository.GetByGoogleID(claims.Subject); err == nil {
		return u, nil
	}

	// Link by email before creating a new account.
	if u, err := a.userRepository.GetByEmail(claims.Email); err == nil {
		subject := claims.Subject
		u.GoogleID = &subject
		if u.Avatar == "" {
			u.Avatar = claims.Picture
		}
		if err := a.userRepository.Update(u); err != nil {
			return nil, err
		}
		a.Logf("Linked Google identity to user {%d}", u.ID)
		return u, nil
	}

	subject := claims.Subject
	u := &entity.User{
		Name:      claims.Name,
		Email:     claims.Email,
		Avatar:    claims.Picture,
		GoogleID:  &subject,
		CreatedAt: time.Now(),
	}
	if err := a.userRepository.Create(u); err != nil {
		return nil, err
	}

	a.Logf("User created from Google identity {%d}", u.ID)
	return u, nil
}
