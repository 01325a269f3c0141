package chat

import (
	"testing"

	"webchat/internal/entity"
)

type MockFriendRepo struct {
	accepted map[uint][]uint
}

func (m *MockFriendRepo) Create(*entity.Friendship) error { return nil }
func (m *MockFriendRepo) UpdateStatus(uint, entity.FriendStatus) error { return nil }
func (m *MockFriendRepo) Delete(uint) error { return nil }
func (m *MockFriendRepo) GetByID(uint) (*entity.Friendship, error) { return nil, nil }
func (m *MockFriendRepo) GetEdge(a, b uint) (*entity.Friendship, error) { return nil, nil }
func (m *MockFriendRepo) ListAccepted(uint) ([]*entity.User, error) { return nil, nil }
func (m *MockFriendRepo) ListPendingFor(uint) ([]*entity.Friendship, error) { return nil, nil }
func (m *MockFriendRepo) ListSentBy(uint) ([]*entity.Friendship, error) { return nil, nil }
func (m *MockFriendRepo) AreFriends(a, b uint) (bool, error) {
	for _, id := range m.accepted[a] {
		if id == b {
			return true, nil
		}
	}
	return false, nil
}
func (m *MockFriendRepo) AcceptedFriendIDs(userID uint) ([]uint, error) {
	return m.accepted[userID], nil
}

type MockGroupRepo struct {
	rosters map[uint][]uint

	memberIDQueries int
}

func (m *MockGroupRepo) Create(*entity.Group, uint) error { return nil }
func (m *MockGroupRepo) Delete(uint) error { return nil }
func (m *MockGroupRepo) SetOwner(uint, *uint) error { return nil }
func (m *MockGroupRepo) GetByID(uint) (*entity.Group, error) { return nil, nil }
func (m *MockGroupRepo) GroupsFor(uint) ([]*entity.Group, error) { return nil, nil }
func (m *MockGroupRepo) GroupIDsFor(uint) ([]uint, error) { return nil, nil }
func (m *MockGroupRepo) Members(uint) ([]*entity.User, error) { return nil, nil }
func (m *MockGroupRepo) IsMember(uint, uint) (bool, error) { return false, nil }
func (m *MockGroupRepo) EarliestMember(uint) (*entity.GroupMember, error) { return nil, nil }
func (m *MockGroupRepo) AddMember(uint, uint) error { return nil }
func (m *MockGroupRepo) RemoveMember(uint, uint) error { return nil }
func (m *MockGroupRepo) MemberIDs(groupID uint) ([]uint, error) {
	m.memberIDQueries++
	return m.rosters[groupID], nil
}

func TestResolverCachesRosters(t *testing.T) {
	groups := &MockGroupRepo{rosters: map[uint][]uint{9: {1, 2}}}
	r := NewStoreResolver(&MockFriendRepo{}, groups)

	for k := 0; k < 3; k++ {
		member, err := r.IsGroupMember(1, 9)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !member {
			t.Errorf("User 1 should be a member of group 9")
		}
	}

	if groups.memberIDQueries != 1 {
		t.Errorf("Roster should be queried once. GOT[%d]", groups.memberIDQueries)
	}
}

func TestResolverInvalidationForcesRequery(t *testing.T) {
	groups := &MockGroupRepo{rosters: map[uint][]uint{9: {1}}}
	r := NewStoreResolver(&MockFriendRepo{}, groups)

	if member, _ := r.IsGroupMember(2, 9); member {
		t.Errorf("User 2 should not be a member yet")
	}

	// Membership write followed by invalidation, as the group service does.
	groups.rosters[9] = append(groups.rosters[9], 2)
	r.InvalidateRoster(9)

	if member, _ := r.IsGroupMember(2, 9); !member {
		t.Errorf("User 2 should be a member after invalidation")
	}
	if groups.memberIDQueries != 2 {
		t.Errorf("Wrong query count. GOT[%d], EXPECTED[2]", groups.memberIDQueries)
	}
}

func TestResolverFriendChecksAreUncached(t *testing.T) {
	friends := &MockFriendRepo{accepted: map[uint][]uint{1: {2}}}
	r := NewStoreResolver(friends, &MockGroupRepo{})

	ok, err := r.AreFriends(1, 2)
	if err != nil || !ok {
		t.Errorf("Expected friendship 1-2. GOT[%v, %v]", ok, err)
	}

	friends.accepted[1] = nil
	if ok, _ := r.AreFriends(1, 2); ok {
		t.Errorf("Friend checks must see store writes immediately")
	}
}
