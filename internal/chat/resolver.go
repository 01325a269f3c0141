package chat

import (
	"sync"

	"webchat/internal/repository"
)

// MembershipResolver computes fan-out sets and answers the authorization
// questions the router asks before any send or view proceeds.
type MembershipResolver interface {
	AreFriends(a, b uint) (bool, error)
	FriendIDs(userID uint) ([]uint, error)
	GroupIDs(userID uint) ([]uint, error)
	IsGroupMember(userID, groupID uint) (bool, error)
	GroupMemberIDs(groupID uint) ([]uint, error)
}

// RosterInvalidator is what the group service sees: membership writes must
// drop the cached roster before any later message resolves against it.
type RosterInvalidator interface {
	InvalidateRoster(groupID uint)
}

// StoreResolver reads the relationship store, caching group rosters to bound
// the per-message query cost. Friend checks go straight to the store.
type StoreResolver struct {
	friends repository.FriendRepository
	groups  repository.GroupRepository

	mu      sync.RWMutex
	rosters map[uint][]uint
}

func NewStoreResolver(friends repository.FriendRepository, groups repository.GroupRepository) *StoreResolver {
	return &StoreResolver{
		friends: friends,
		groups:  groups,
		rosters: make(map[uint][]uint),
	}
}

func (r *StoreResolver) AreFriends(a, b uint) (bool, error) {
	return r.friends.AreFriends(a, b)
}

func (r *StoreResolver) FriendIDs(userID uint) ([]uint, error) {
	return r.friends.AcceptedFriendIDs(userID)
}

func (r *StoreResolver) GroupIDs(userID uint) ([]uint, error) {
	return r.groups.GroupIDsFor(userID)
}

func (r *StoreResolver) GroupMemberIDs(groupID uint) ([]uint, error) {
	r.mu.RLock()
	cached, ok := r.rosters[groupID]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	ids, err := r.groups.MemberIDs(groupID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.rosters[groupID] = ids
	r.mu.Unlock()
	return ids, nil
}

func (r *StoreResolver) IsGroupMember(userID, groupID uint) (bool, error) {
	ids, err := r.GroupMemberIDs(groupID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *StoreResolver) InvalidateRoster(groupID uint) {
	r.mu.Lock()
	delete(r.rosters, groupID)
	r.mu.Unlock()
}
