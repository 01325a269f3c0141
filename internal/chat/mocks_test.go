package chat

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"webchat/internal/entity"
)

type MockLogger struct{}

func (m *MockLogger) Logf(format string, v ...any) {
	fmt.Printf(format+"\n", v...)
}

type MockUserRepo struct {
	users map[uint]*entity.User
}

func (m *MockUserRepo) Create(user *entity.User) error { return nil }
func (m *MockUserRepo) Update(user *entity.User) error { return nil }
func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("User was not found {%d}", id)
}
func (m *MockUserRepo) GetByEmail(string) (*entity.User, error) { return nil, nil }
func (m *MockUserRepo) GetByGoogleID(string) (*entity.User, error) { return nil, nil }
func (m *MockUserRepo) SearchByName(string, int) ([]*entity.User, error) { return nil, nil }

type MockPresenceRepo struct {
	failWrites bool

	upserts map[string]uint
	touched []string
	deleted []string
	online  []*entity.User
}

func NewMockPresenceRepo() *MockPresenceRepo {
	return &MockPresenceRepo{upserts: make(map[string]uint)}
}

func (m *MockPresenceRepo) Upsert(userID uint, connectionID string) error {
	if m.failWrites {
		return fmt.Errorf("disk is full")
	}
	m.upserts[connectionID] = userID
	return nil
}
func (m *MockPresenceRepo) Touch(connectionID string) error {
	if m.failWrites {
		return fmt.Errorf("disk is full")
	}
	m.touched = append(m.touched, connectionID)
	return nil
}
func (m *MockPresenceRepo) DeleteByConnection(connectionID string) error {
	if m.failWrites {
		return fmt.Errorf("disk is full")
	}
	delete(m.upserts, connectionID)
	m.deleted = append(m.deleted, connectionID)
	return nil
}
func (m *MockPresenceRepo) DeleteAll() error { return nil }
func (m *MockPresenceRepo) OnlineUserIDs(time.Duration) ([]uint, error) { return nil, nil }
func (m *MockPresenceRepo) IsOnline(uint, time.Duration) (bool, error) { return false, nil }
func (m *MockPresenceRepo) OnlineFriends(uint, time.Duration) ([]*entity.User, error) {
	return m.online, nil
}

type MockMessageRepo struct {
	failCreate bool

	nextID  uint
	created []*entity.Message
	byID    map[uint]*entity.Message
}

func NewMockMessageRepo() *MockMessageRepo {
	return &MockMessageRepo{nextID: 1, byID: make(map[uint]*entity.Message)}
}

func (m *MockMessageRepo) Create(message *entity.Message) error {
	if m.failCreate {
		return fmt.Errorf("disk is full")
	}
	message.ID = m.nextID
	m.nextID++
	m.created = append(m.created, message)
	m.byID[message.ID] = message
	return nil
}
func (m *MockMessageRepo) GetByID(id uint) (*entity.Message, error) {
	if msg, ok := m.byID[id]; ok {
		return msg, nil
	}
	return nil, fmt.Errorf("Message was not found {%d}", id)
}
func (m *MockMessageRepo) DirectHistory(a, b uint, limit, offset int) ([]*entity.Message, error) {
	return nil, nil
}
func (m *MockMessageRepo) GroupHistory(groupID uint, limit, offset int) ([]*entity.Message, error) {
	return nil, nil
}
func (m *MockMessageRepo) MarkRead(messageID, readerID uint) (bool, error) {
	msg, ok := m.byID[messageID]
	if !ok {
		return false, fmt.Errorf("Message was not found {%d}", messageID)
	}
	if msg.IsRead {
		return false, nil
	}
	msg.IsRead = true
	return true, nil
}
func (m *MockMessageRepo) MarkConversationRead(readerID, senderID uint) error { return nil }
func (m *MockMessageRepo) UnreadCounts(userID uint) (map[uint]int64, error) { return nil, nil }

// MockResolver answers from in-memory maps: friends is adjacency (symmetric
// entries must be added by the test), members maps group id to its roster.
type MockResolver struct {
	friends map[uint][]uint
	members map[uint][]uint
	fail    bool
}

func (m *MockResolver) AreFriends(a, b uint) (bool, error) {
	if m.fail {
		return false, fmt.Errorf("store is down")
	}
	for _, id := range m.friends[a] {
		if id == b {
			return true, nil
		}
	}
	return false, nil
}
func (m *MockResolver) FriendIDs(userID uint) ([]uint, error) {
	if m.fail {
		return nil, fmt.Errorf("store is down")
	}
	return m.friends[userID], nil
}
func (m *MockResolver) GroupIDs(userID uint) ([]uint, error) {
	if m.fail {
		return nil, fmt.Errorf("store is down")
	}
	var out []uint
	for groupID, roster := range m.members {
		for _, id := range roster {
			if id == userID {
				out = append(out, groupID)
			}
		}
	}
	return out, nil
}
func (m *MockResolver) IsGroupMember(userID, groupID uint) (bool, error) {
	if m.fail {
		return false, fmt.Errorf("store is down")
	}
	for _, id := range m.members[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}
func (m *MockResolver) GroupMemberIDs(groupID uint) ([]uint, error) {
	if m.fail {
		return nil, fmt.Errorf("store is down")
	}
	return m.members[groupID], nil
}

// world wires the chat core against the mocks, the same shape main builds
// against the real stores.
type world struct {
	registry  *Registry
	resolver  *MockResolver
	users     *MockUserRepo
	presence  *MockPresenceRepo
	messages  *MockMessageRepo
	lifecycle *LifecycleManager
	router    *Router

	sessions []*Session
}

func newWorld() *world {
	w := &world{
		registry: NewRegistry(),
		resolver: &MockResolver{
			friends: make(map[uint][]uint),
			members: make(map[uint][]uint),
		},
		users:    &MockUserRepo{users: make(map[uint]*entity.User)},
		presence: NewMockPresenceRepo(),
		messages: NewMockMessageRepo(),
	}
	w.lifecycle = NewLifecycleManager(w.registry, w.resolver, w.users, w.presence, &MockLogger{})
	w.router = NewRouter(w.registry, w.resolver, w.lifecycle, w.messages, w.presence, 5*time.Minute, &MockLogger{})
	return w
}

func (w *world) addUser(id uint, name string) {
	w.users.users[id] = &entity.User{ID: id, Name: name}
}

func (w *world) befriend(a, b uint) {
	w.resolver.friends[a] = append(w.resolver.friends[a], b)
	w.resolver.friends[b] = append(w.resolver.friends[b], a)
}

// connectAs opens a session and walks it to the subscribed state. Frames
// queued on every other live session by earlier setup steps are discarded
// first, so after the call the only pending frames anywhere are the ones this
// connect itself broadcast.
func (w *world) connectAs(t *testing.T, userID uint) *Session {
	t.Helper()

	for _, live := range w.sessions {
		drainOutbox(live)
	}

	s := w.lifecycle.Connect()
	if _, err := w.lifecycle.Authenticate(s, userID); err != nil {
		t.Fatalf("Could not authenticate user %d: %v", userID, err)
	}
	if err := w.lifecycle.Subscribe(s); err != nil {
		t.Fatalf("Could not subscribe user %d: %v", userID, err)
	}
	drainOutbox(s)
	w.sessions = append(w.sessions, s)
	return s
}

// recvFrame pops one queued frame or fails the test.
func recvFrame(t *testing.T, s *Session) (string, json.RawMessage) {
	t.Helper()
	select {
	case raw := <-s.Outbox():
		var env struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("Frame is not valid JSON: %v", err)
		}
		return env.Type, env.Data
	default:
		t.Fatalf("Expected a frame, outbox is empty")
		return "", nil
	}
}

func expectNoFrame(t *testing.T, s *Session) {
	t.Helper()
	select {
	case raw := <-s.Outbox():
		t.Fatalf("Expected no frame, got %s", raw)
	default:
	}
}

func drainOutbox(s *Session) {
	for {
		select {
		case <-s.Outbox():
		default:
			return
		}
	}
}
