package service

import (
	"fmt"
	"time"

	"webchat/internal/entity"
	"webchat/internal/nlog"
	"webchat/internal/repository"
)

// Service used to handle the friend graph. At most one edge may exist
// between any two users, in either direction; rejection deletes the edge.
type FriendService interface {
	Request(fromID, toID uint) (*entity.Friendship, error)
	Accept(edgeID, userID uint) error
	Reject(edgeID, userID uint) error
	Remove(userID, otherID uint) error

	ListFriends(userID uint) ([]*entity.User, error)
	ListPending(userID uint) ([]*entity.Friendship, error)
	ListSent(userID uint) ([]*entity.Friendship, error)
}

type localFriendService struct {
	friendRepository repository.FriendRepository
	userRepository   repository.UserRepository
	logger           nlog.Logger
}

func NewLocalFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, logger nlog.Logger) FriendService {
	return &localFriendService{
		friendRepository: friendRepo,
		userRepository:   userRepo,
		logger:           logger,
	}
}

func (f *localFriendService) Logf(format string, v ...any) {
	f.logger.Logf(format, v...)
}

func (f *localFriendService) Request(fromID, toID uint) (*entity.Friendship, error) {
	if fromID == toID {
		return nil, fmt.Errorf("Cannot send a friend request to yourself")
	}
	if _, err := f.userRepository.GetByID(toID); err != nil {
		return nil, fmt.Errorf("User was not found {%d}", toID)
	}

	if _, err := f.friendRepository.GetEdge(fromID, toID); err == nil {
		return nil, fmt.Errorf("A friend request already exists between these users")
	}

	edge := &entity.Friendship{
		UserID:    fromID,
		FriendID:  toID,
		Status:    entity.FriendPending,
		CreatedAt: time.Now(),
	}
	if err := f.friendRepository.Create(edge); err != nil {
		return nil, err
	}

	f.Logf("Friend request created {%d -> %d}", fromID, toID)
	return edge, nil
}

func (f *localFriendService) Accept(edgeID, userID uint) error {
	edge, err := f.friendRepository.GetByID(edgeID)
	if err != nil {
		return fmt.Errorf("Friend request was not found")
	}
	// Only the addressee may accept.
	if edge.FriendID != userID {
		return fmt.Errorf("Not allowed")
	}
	if edge.Status != entity.FriendPending {
		return fmt.Errorf("Friend request is not pending")
	}
	return f.friendRepository.UpdateStatus(edgeID, entity.FriendAccepted)
}

func (f *localFriendService) Reject(edgeID, userID uint) error {
	edge, err := f.friendRepository.GetByID(edgeID)
	if err != nil {
		return fmt.Errorf("Friend request was not found")
	}
	if edge.FriendID != userID {
		return fmt.Errorf("Not allowed")
	}
	return f.friendRepository.Delete(edgeID)
}

func (f *localFriendService) Remove(userID, otherID uint) error {
	edge, err := f.friendRepository.GetEdge(userID, otherID)
	if err != nil {
		return fmt.Errorf("Friendship was not found")
	}
	return f.friendRepository.Delete(edge.ID)
}

func (f *localFriendService) ListFriends(userID uint) ([]*entity.User, error) {
	return f.friendRepository.ListAccepted(userID)
}

func (f *localFriendService) ListPending(userID uint) ([]*entity.Friendship, error) {
	return f.friendRepository.ListPendingFor(userID)
}

func (f *localFriendService) ListSent(userID uint) ([]*entity.Friendship, error) {
	return f.friendRepository.ListSentBy(userID)
}
