package service

import (
	"fmt"
	"testing"

	"webchat/internal/entity"
)

type MockLogger struct{}

func (m *MockLogger) Logf(format string, v ...any) {
	fmt.Printf(format+"\n", v...)
}

type MockUserRepo struct {
	nextID uint
	users  map[uint]*entity.User
}

func (m *MockUserRepo) Create(user *entity.User) error {
	if m.nextID == 0 {
		m.nextID = uint(len(m.users)) + 1
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}
func (m *MockUserRepo) Update(user *entity.User) error {
	m.users[user.ID] = user
	return nil
}
func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("User was not found {%d}", id)
}
func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("User was not found {%s}", email)
}
func (m *MockUserRepo) GetByGoogleID(googleID string) (*entity.User, error) {
	for _, u := range m.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, fmt.Errorf("User was not found {%s}", googleID)
}
func (m *MockUserRepo) SearchByName(string, int) ([]*entity.User, error) { return nil, nil }

type MockFriendRepo struct {
	nextID uint
	edges  map[uint]*entity.Friendship

	deleted []uint
}

func NewMockFriendRepo() *MockFriendRepo {
	return &MockFriendRepo{nextID: 1, edges: make(map[uint]*entity.Friendship)}
}

func (m *MockFriendRepo) Create(edge *entity.Friendship) error {
	edge.ID = m.nextID
	m.nextID++
	m.edges[edge.ID] = edge
	return nil
}
func (m *MockFriendRepo) UpdateStatus(id uint, status entity.FriendStatus) error {
	edge, ok := m.edges[id]
	if !ok {
		return fmt.Errorf("Friendship was not found {%d}", id)
	}
	edge.Status = status
	return nil
}
func (m *MockFriendRepo) Delete(id uint) error {
	delete(m.edges, id)
	m.deleted = append(m.deleted, id)
	return nil
}
func (m *MockFriendRepo) GetByID(id uint) (*entity.Friendship, error) {
	if edge, ok := m.edges[id]; ok {
		return edge, nil
	}
	return nil, fmt.Errorf("Friendship was not found {%d}", id)
}
func (m *MockFriendRepo) GetEdge(a, b uint) (*entity.Friendship, error) {
	for _, edge := range m.edges {
		if (edge.UserID == a && edge.FriendID == b) || (edge.UserID == b && edge.FriendID == a) {
			return edge, nil
		}
	}
	return nil, fmt.Errorf("Friendship was not found")
}
func (m *MockFriendRepo) AreFriends(a, b uint) (bool, error) {
	edge, err := m.GetEdge(a, b)
	if err != nil {
		return false, nil
	}
	return edge.Status == entity.FriendAccepted, nil
}
func (m *MockFriendRepo) AcceptedFriendIDs(uint) ([]uint, error) { return nil, nil }
func (m *MockFriendRepo) ListAccepted(uint) ([]*entity.User, error) { return nil, nil }
func (m *MockFriendRepo) ListPendingFor(uint) ([]*entity.Friendship, error) { return nil, nil }
func (m *MockFriendRepo) ListSentBy(uint) ([]*entity.Friendship, error) { return nil, nil }

func newFriendService() (FriendService, *MockFriendRepo, *MockUserRepo) {
	friends := NewMockFriendRepo()
	users := &MockUserRepo{users: map[uint]*entity.User{
		1: {ID: 1, Name: "ann"},
		2: {ID: 2, Name: "bob"},
	}}
	return NewLocalFriendService(friends, users, &MockLogger{}), friends, users
}

func TestRequestToSelf(t *testing.T) {
	svc, _, _ := newFriendService()

	if _, err := svc.Request(1, 1); err == nil {
		t.Errorf("Expected error...")
	}
}

func TestRequestToUnknownUser(t *testing.T) {
	svc, _, _ := newFriendService()

	_, err := svc.Request(1, 42)
	if err == nil {
		t.Fatalf("Expected error...")
	}

	expected := "User was not found {42}"
	if err.Error() != expected {
		t.Errorf("Another error was supposed to happen. GOT[%s], EXPECTED[%s]", err.Error(), expected)
	}
}

func TestRequestCreatesPendingEdge(t *testing.T) {
	svc, friends, _ := newFriendService()

	edge, err := svc.Request(1, 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if edge.Status != entity.FriendPending {
		t.Errorf("Wrong status. GOT[%s], EXPECTED[pending]", edge.Status)
	}
	if len(friends.edges) != 1 {
		t.Errorf("Exactly one edge should exist. GOT[%d]", len(friends.edges))
	}
}

func TestRequestRefusesSecondEdge(t *testing.T) {
	svc, friends, _ := newFriendService()

	if _, err := svc.Request(1, 2); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Same direction and the reverse direction both collide with the
	// existing edge.
	if _, err := svc.Request(1, 2); err == nil {
		t.Errorf("Duplicate request should fail")
	}
	if _, err := svc.Request(2, 1); err == nil {
		t.Errorf("Reverse request should fail")
	}
	if len(friends.edges) != 1 {
		t.Errorf("Exactly one edge should exist. GOT[%d]", len(friends.edges))
	}
}

func TestAcceptOnlyByAddressee(t *testing.T) {
	svc, _, _ := newFriendService()

	edge, _ := svc.Request(1, 2)

	if err := svc.Accept(edge.ID, 1); err == nil {
		t.Errorf("The requester must not accept their own request")
	}
	if err := svc.Accept(edge.ID, 2); err != nil {
		t.Errorf("The addressee should be able to accept: %v", err)
	}
}

func TestAcceptFlow(t *testing.T) {
	svc, friends, _ := newFriendService()

	edge, _ := svc.Request(1, 2)
	if err := svc.Accept(edge.ID, 2); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if friends.edges[edge.ID].Status != entity.FriendAccepted {
		t.Errorf("Edge should be accepted. GOT[%s]", friends.edges[edge.ID].Status)
	}

	// Accepting twice fails: the edge is no longer pending.
	if err := svc.Accept(edge.ID, 2); err == nil {
		t.Errorf("Second accept should fail")
	}
}

func TestRejectDeletesEdge(t *testing.T) {
	svc, friends, _ := newFriendService()

	edge, _ := svc.Request(1, 2)
	if err := svc.Reject(edge.ID, 2); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(friends.edges) != 0 {
		t.Errorf("Rejection should delete the edge. GOT[%d]", len(friends.edges))
	}

	// A new request is possible afterwards
	if _, err := svc.Request(2, 1); err != nil {
		t.Errorf("Request after rejection should succeed: %v", err)
	}
}

func TestRemoveWorksInEitherDirection(t *testing.T) {
	svc, friends, _ := newFriendService()

	edge, _ := svc.Request(1, 2)
	svc.Accept(edge.ID, 2)

	// The user on the receiving end of the original request removes it.
	if err := svc.Remove(2, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(friends.edges) != 0 {
		t.Errorf("Removal should delete the edge. GOT[%d]", len(friends.edges))
	}
}
