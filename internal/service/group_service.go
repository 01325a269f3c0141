package service

import (
	"fmt"
	"time"

	"webchat/internal/chat"
	"webchat/internal/entity"
	"webchat/internal/nlog"
	"webchat/internal/repository"
)

// Service used to handle groups and their rosters. Membership writes go
// through here so the resolver's roster cache is always invalidated.
type GroupService interface {
	Create(name, description, image string, creatorID uint) (*entity.Group, error)
	// Delete is owner-only; an ownerless group refuses until reassignment.
	Delete(groupID, byUserID uint) error

	GetByID(groupID uint) (*entity.Group, error)
	GroupsFor(userID uint) ([]*entity.Group, error)
	Members(groupID uint) ([]*entity.User, error)

	AddMember(groupID, byUserID, newUserID uint) error
	// Leave removes the user; a departing owner hands the group to the
	// earliest-joined remaining member, and an emptied group is deleted.
	Leave(groupID, userID uint) error
}

type localGroupService struct {
	groupRepository repository.GroupRepository
	userRepository  repository.UserRepository
	rosters         chat.RosterInvalidator
	logger          nlog.Logger
}

func NewLocalGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository, rosters chat.RosterInvalidator, logger nlog.Logger) GroupService {
	return &localGroupService{
		groupRepository: groupRepo,
		userRepository:  userRepo,
		rosters:         rosters,
		logger:          logger,
	}
}

func (g *localGroupService) Logf(format string, v ...any) {
	g.logger.Logf(format, v...)
}

func (g *localGroupService) Create(name, description, image string, creatorID uint) (*entity.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("Group name is required")
	}

	creator := creatorID
	group := &entity.Group{
		Name:        name,
		Description: description,
		Image:       image,
		CreatedBy:   &creator,
		CreatedAt:   time.Now(),
	}
	if err := g.groupRepository.Create(group, creatorID); err != nil {
		return nil, err
	}

	g.Logf("Group created {%d} by user {%d}", group.ID, creatorID)
	return group, nil
}

func (g *localGroupService) Delete(groupID, byUserID uint) error {
	group, err := g.groupRepository.GetByID(groupID)
	if err != nil {
		return fmt.Errorf("Group was not found")
	}
	if group.CreatedBy == nil {
		return fmt.Errorf("Group is ownerless; reassign an owner first")
	}
	if *group.CreatedBy != byUserID {
		return fmt.Errorf("Only the group owner can delete it")
	}

	if err := g.groupRepository.Delete(groupID); err != nil {
		return err
	}
	g.rosters.InvalidateRoster(groupID)
	return nil
}

func (g *localGroupService) GetByID(groupID uint) (*entity.Group, error) {
	return g.groupRepository.GetByID(groupID)
}

func (g *localGroupService) GroupsFor(userID uint) ([]*entity.Group, error) {
	return g.groupRepository.GroupsFor(userID)
}

func (g *localGroupService) Members(groupID uint) ([]*entity.User, error) {
	return g.groupRepository.Members(groupID)
}

func (g *localGroupService) AddMember(groupID, byUserID, newUserID uint) error {
	isMember, err := g.groupRepository.IsMember(groupID, byUserID)
	if err != nil {
		return err
	}
	if !isMember {
		return fmt.Errorf("Only members can add users to a group")
	}

	if _, err := g.userRepository.GetByID(newUserID); err != nil {
		return fmt.Errorf("User was not found {%d}", newUserID)
	}

	already, err := g.groupRepository.IsMember(groupID, newUserID)
	if err != nil {
		return err
	}
	if already {
		return fmt.Errorf("User is already a member")
	}

	if err := g.groupRepository.AddMember(groupID, newUserID); err != nil {
		return err
	}
	g.rosters.InvalidateRoster(groupID)
	return nil
}

func (g *localGroupService) Leave(groupID, userID uint) error {
	group, err := g.groupRepository.GetByID(groupID)
	if err != nil {
		return fmt.Errorf("Group was not found")
	}

	isMember, err := g.groupRepository.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return fmt.Errorf("User is not a member of this group")
	}

	if err := g.groupRepository.RemoveMember(groupID, userID); err != nil {
		return err
	}
	g.rosters.InvalidateRoster(groupID)

	if group.CreatedBy != nil && *group.CreatedBy == userID {
		next, err := g.groupRepository.EarliestMember(groupID)
		if err != nil {
			// Last member left: the group goes with them.
			g.Logf("Group emptied, deleting {%d}", groupID)
			return g.groupRepository.Delete(groupID)
		}
		g.Logf("Group ownership transferred {%d -> user %d}", groupID, next.UserID)
		return g.groupRepository.SetOwner(groupID, &next.UserID)
	}
	return nil
}
