package chat

import (
	"sync"

	"webchat/internal/entity"

	"github.com/google/uuid"
)

// Connection lifecycle states. Transitions are driven by the lifecycle
// manager; Closed is terminal.
type ConnState int

const (
	StateConnected ConnState = iota
	StateAuthenticating
	StateAuthenticated
	StateSubscribed
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateSubscribed:
		return "subscribed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

const sendBuffer = 64

// Session is the in-process handle for one live transport connection. The
// outbox is buffered so delivery never blocks the router; a connection that
// cannot drain its buffer is closed instead of stalling the fan-out.
type Session struct {
	ID string

	mu    sync.Mutex
	state ConnState
	user  *entity.User

	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession() *Session {
	return &Session{
		ID:    uuid.New().String(),
		state: StateConnected,
		out:   make(chan []byte, sendBuffer),
		done:  make(chan struct{}),
	}
}

func (s *Session) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state ConnState) {
	s.mu.Lock()
	if s.state != StateClosed {
		s.state = state
	}
	s.mu.Unlock()
}

func (s *Session) bind(user *entity.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *Session) User() *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) UserID() (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return 0, false
	}
	return s.user.ID, true
}

// Deliver queues a frame without blocking. Returns false if the session is
// gone or was closed for falling behind.
func (s *Session) Deliver(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.out <- frame:
		return true
	default:
		s.Close()
		return false
	}
}

func (s *Session) Outbox() <-chan []byte { return s.out }

func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		close(s.done)
	})
}
