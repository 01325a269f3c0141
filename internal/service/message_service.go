package service

import (
	"fmt"

	"webchat/internal/chat"
	"webchat/internal/entity"
	"webchat/internal/nlog"
	"webchat/internal/repository"
)

// Read path for message history. Authorization mirrors the router's write
// path: only friends read a direct conversation, only members read a group.
type MessageService interface {
	// DirectHistory also marks the other party's unread messages as read.
	DirectHistory(userID, otherID uint, limit, offset int) ([]*entity.Message, error)
	GroupHistory(userID, groupID uint, limit, offset int) ([]*entity.Message, error)
	UnreadCounts(userID uint) (map[uint]int64, error)
}

type localMessageService struct {
	messageRepository repository.MessageRepository
	resolver          chat.MembershipResolver
	logger            nlog.Logger
}

func NewLocalMessageService(messageRepo repository.MessageRepository, resolver chat.MembershipResolver, logger nlog.Logger) MessageService {
	return &localMessageService{
		messageRepository: messageRepo,
		resolver:          resolver,
		logger:            logger,
	}
}

func (m *localMessageService) Logf(format string, v ...any) {
	m.logger.Logf(format, v...)
}

func (m *localMessageService) DirectHistory(userID, otherID uint, limit, offset int) ([]*entity.Message, error) {
	allowed, err := m.resolver.AreFriends(userID, otherID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("Users are not friends")
	}

	messages, err := m.messageRepository.DirectHistory(userID, otherID, limit, offset)
	if err != nil {
		return nil, err
	}

	if err := m.messageRepository.MarkConversationRead(userID, otherID); err != nil {
		m.Logf("Could not mark conversation read {%d <- %d}: %v", userID, otherID, err)
	}
	return messages, nil
}

func (m *localMessageService) GroupHistory(userID, groupID uint, limit, offset int) ([]*entity.Message, error) {
	member, err := m.resolver.IsGroupMember(userID, groupID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("User is not a member of this group")
	}
	return m.messageRepository.GroupHistory(groupID, limit, offset)
}

func (m *localMessageService) UnreadCounts(userID uint) (map[uint]int64, error) {
	return m.messageRepository.UnreadCounts(userID)
}
