package service

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"webchat/internal/entity"
)

type MockGroupRepo struct {
	nextID uint
	groups map[uint]*entity.Group
	// roster keeps join order, the ownership transfer rule depends on it
	roster map[uint][]entity.GroupMember

	deletedGroups []uint
}

func NewMockGroupRepo() *MockGroupRepo {
	return &MockGroupRepo{
		nextID: 1,
		groups: make(map[uint]*entity.Group),
		roster: make(map[uint][]entity.GroupMember),
	}
}

func (m *MockGroupRepo) Create(group *entity.Group, creatorID uint) error {
	group.ID = m.nextID
	m.nextID++
	m.groups[group.ID] = group
	m.roster[group.ID] = []entity.GroupMember{{GroupID: group.ID, UserID: creatorID, JoinedAt: time.Now()}}
	return nil
}
func (m *MockGroupRepo) Delete(id uint) error {
	delete(m.groups, id)
	delete(m.roster, id)
	m.deletedGroups = append(m.deletedGroups, id)
	return nil
}
func (m *MockGroupRepo) SetOwner(groupID uint, ownerID *uint) error {
	group, ok := m.groups[groupID]
	if !ok {
		return fmt.Errorf("Group was not found {%d}", groupID)
	}
	group.CreatedBy = ownerID
	return nil
}
func (m *MockGroupRepo) GetByID(id uint) (*entity.Group, error) {
	if group, ok := m.groups[id]; ok {
		return group, nil
	}
	return nil, fmt.Errorf("Group was not found {%d}", id)
}
func (m *MockGroupRepo) GroupsFor(uint) ([]*entity.Group, error) { return nil, nil }
func (m *MockGroupRepo) GroupIDsFor(uint) ([]uint, error) { return nil, nil }
func (m *MockGroupRepo) Members(uint) ([]*entity.User, error) { return nil, nil }
func (m *MockGroupRepo) MemberIDs(groupID uint) ([]uint, error) {
	var out []uint
	for _, member := range m.roster[groupID] {
		out = append(out, member.UserID)
	}
	return out, nil
}
func (m *MockGroupRepo) IsMember(groupID, userID uint) (bool, error) {
	for _, member := range m.roster[groupID] {
		if member.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
func (m *MockGroupRepo) EarliestMember(groupID uint) (*entity.GroupMember, error) {
	roster := m.roster[groupID]
	if len(roster) == 0 {
		return nil, fmt.Errorf("Group has no members {%d}", groupID)
	}
	return &roster[0], nil
}
func (m *MockGroupRepo) AddMember(groupID, userID uint) error {
	m.roster[groupID] = append(m.roster[groupID], entity.GroupMember{GroupID: groupID, UserID: userID, JoinedAt: time.Now()})
	return nil
}
func (m *MockGroupRepo) RemoveMember(groupID, userID uint) error {
	roster := m.roster[groupID]
	for k, member := range roster {
		if member.UserID == userID {
			m.roster[groupID] = append(roster[:k], roster[k+1:]...)
			return nil
		}
	}
	return fmt.Errorf("User is not a member {%d}", userID)
}

type MockRosters struct {
	invalidated []uint
}

func (m *MockRosters) InvalidateRoster(groupID uint) {
	m.invalidated = append(m.invalidated, groupID)
}

func newGroupService() (GroupService, *MockGroupRepo, *MockRosters) {
	groups := NewMockGroupRepo()
	users := &MockUserRepo{users: map[uint]*entity.User{
		1: {ID: 1, Name: "ann"},
		2: {ID: 2, Name: "bob"},
		3: {ID: 3, Name: "eve"},
	}}
	rosters := &MockRosters{}
	return NewLocalGroupService(groups, users, rosters, &MockLogger{}), groups, rosters
}

func TestCreateRequiresName(t *testing.T) {
	svc, _, _ := newGroupService()

	if _, err := svc.Create("", "", "", 1); err == nil {
		t.Errorf("Expected error...")
	}
}

func TestCreateMakesCreatorOwnerAndMember(t *testing.T) {
	svc, groups, _ := newGroupService()

	group, err := svc.Create("lunch", "", "", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if group.CreatedBy == nil || *group.CreatedBy != 1 {
		t.Errorf("Creator should own the group")
	}
	if member, _ := groups.IsMember(group.ID, 1); !member {
		t.Errorf("Creator should be a member")
	}
}

func TestDeleteOwnerOnly(t *testing.T) {
	svc, _, _ := newGroupService()

	group, _ := svc.Create("lunch", "", "", 1)
	svc.AddMember(group.ID, 1, 2)

	if err := svc.Delete(group.ID, 2); err == nil {
		t.Errorf("Only the owner may delete the group")
	}
	if err := svc.Delete(group.ID, 1); err != nil {
		t.Errorf("The owner should be able to delete: %v", err)
	}
}

func TestDeleteOwnerlessGroupRefused(t *testing.T) {
	svc, groups, _ := newGroupService()

	group, _ := svc.Create("lunch", "", "", 1)
	groups.SetOwner(group.ID, nil)

	err := svc.Delete(group.ID, 1)
	if err == nil {
		t.Fatalf("Expected error...")
	}

	expected := "Group is ownerless; reassign an owner first"
	if err.Error() != expected {
		t.Errorf("Another error was supposed to happen. GOT[%s], EXPECTED[%s]", err.Error(), expected)
	}
}

func TestAddMemberOnlyByMembers(t *testing.T) {
	svc, _, _ := newGroupService()

	group, _ := svc.Create("lunch", "", "", 1)

	if err := svc.AddMember(group.ID, 2, 3); err == nil {
		t.Errorf("A non-member must not add users")
	}
	if err := svc.AddMember(group.ID, 1, 2); err != nil {
		t.Errorf("A member should be able to add users: %v", err)
	}
	if err := svc.AddMember(group.ID, 1, 2); err == nil {
		t.Errorf("Adding an existing member should fail")
	}
}

func TestMembershipWritesInvalidateRoster(t *testing.T) {
	svc, _, rosters := newGroupService()

	group, _ := svc.Create("lunch", "", "", 1)
	svc.AddMember(group.ID, 1, 2)
	svc.Leave(group.ID, 2)

	if len(rosters.invalidated) != 2 {
		t.Fatalf("Each membership write must invalidate the roster. GOT[%d]", len(rosters.invalidated))
	}
	for _, id := range rosters.invalidated {
		if id != group.ID {
			t.Errorf("Wrong group invalidated. GOT[%d], EXPECTED[%d]", id, group.ID)
		}
	}
}

func TestLeaveByNonMember(t *testing.T) {
	svc, _, _ := newGroupService()

	group, _ := svc.Create("lunch", "", "", 1)
	if err := svc.Leave(group.ID, 2); err == nil {
		t.Errorf("Expected error...")
	}
}

func TestLeaveTransfersOwnership(t *testing.T) {
	svc, groups, _ := newGroupService()

	group, _ := svc.Create("lunch", "", "", 1)
	svc.AddMember(group.ID, 1, 2)
	svc.AddMember(group.ID, 1, 3)

	if err := svc.Leave(group.ID, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Ownership goes to the earliest joined remaining member.
	updated, _ := groups.GetByID(group.ID)
	if updated.CreatedBy == nil || *updated.CreatedBy != 2 {
		t.Errorf("Ownership was not transferred to user 2")
	}

	ids, _ := groups.MemberIDs(group.ID)
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 3 {
		t.Errorf("Wrong roster after leave. GOT[%v]", ids)
	}
}

func TestLeaveKeepsOwnerWhenMemberLeaves(t *testing.T) {
	svc, groups, _ := newGroupService()

	group, _ := svc.Create("lunch", "", "", 1)
	svc.AddMember(group.ID, 1, 2)

	if err := svc.Leave(group.ID, 2); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, _ := groups.GetByID(group.ID)
	if updated.CreatedBy == nil || *updated.CreatedBy != 1 {
		t.Errorf("Ownership should not move when a plain member leaves")
	}
}

func TestLastMemberLeavingDeletesGroup(t *testing.T) {
	svc, groups, _ := newGroupService()

	group, _ := svc.Create("lunch", "", "", 1)
	if err := svc.Leave(group.ID, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(groups.deletedGroups) != 1 || groups.deletedGroups[0] != group.ID {
		t.Errorf("An emptied group should be deleted. GOT[%v]", groups.deletedGroups)
	}
}
