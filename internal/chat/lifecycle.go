package chat

import (
	"webchat/internal/entity"
	"webchat/internal/nlog"
	"webchat/internal/repository"
)

// LifecycleManager owns the per-connection state machine and keeps the
// presence ledger reconciled with the session registry. Ledger writes are
// best-effort: a failed presence write is logged and the transition proceeds
// with the registry as the authority.
type LifecycleManager struct {
	registry *Registry
	resolver MembershipResolver
	users    repository.UserRepository
	presence repository.PresenceRepository
	logger   nlog.Logger
}

func NewLifecycleManager(registry *Registry, resolver MembershipResolver, users repository.UserRepository, presence repository.PresenceRepository, logger nlog.Logger) *LifecycleManager {
	return &LifecycleManager{
		registry: registry,
		resolver: resolver,
		users:    users,
		presence: presence,
		logger:   logger,
	}
}

func (l *LifecycleManager) Logf(format string, v ...any) {
	l.logger.Logf(format, v...)
}

// Connect creates and tracks a session for a fresh transport connection.
func (l *LifecycleManager) Connect() *Session {
	s := NewSession()
	l.registry.Track(s)
	l.Logf("Connection opened {%s}", s.ID)
	return s
}

// Authenticate drives Connected -> Authenticating -> Authenticated. On an
// unknown identity the connection stays where it was and only the caller
// hears about it. Re-authenticating with the same identity is idempotent:
// the presence upsert is keyed by connection id and the online broadcast is
// gated on the first connection.
func (l *LifecycleManager) Authenticate(s *Session, userID uint) (*entity.User, error) {
	if s.State() == StateClosed {
		return nil, ErrUnauthenticated
	}

	before := s.State()
	s.setState(StateAuthenticating)

	user, err := l.users.GetByID(userID)
	if err != nil {
		s.setState(before)
		return nil, ErrIdentityNotFound
	}

	s.bind(user)
	first := l.registry.Bind(s, userID)
	s.setState(StateAuthenticated)

	if err := l.presence.Upsert(userID, s.ID); err != nil {
		l.Logf("Presence reconciliation failed on connect {%s}: %v", s.ID, err)
	}

	if first {
		l.broadcastStatus(user, eventUserOnline)
	}
	return user, nil
}

// Subscribe joins the personal inbox room plus one room per group.
func (l *LifecycleManager) Subscribe(s *Session) error {
	userID, ok := s.UserID()
	if !ok {
		return ErrUnauthenticated
	}

	l.registry.Join(s, UserRoom(userID))

	groupIDs, err := l.resolver.GroupIDs(userID)
	if err != nil {
		return err
	}
	for _, groupID := range groupIDs {
		l.registry.Join(s, GroupRoom(groupID))
	}

	s.setState(StateSubscribed)
	return nil
}

func (l *LifecycleManager) JoinGroupRoom(s *Session, groupID uint) {
	l.registry.Join(s, GroupRoom(groupID))
}

func (l *LifecycleManager) LeaveGroupRoom(s *Session, groupID uint) {
	l.registry.Leave(s, GroupRoom(groupID))
}

// Heartbeat refreshes the ledger row so the liveness window keeps treating
// this connection as online.
func (l *LifecycleManager) Heartbeat(s *Session) {
	if _, ok := s.UserID(); !ok {
		return
	}
	if err := l.presence.Touch(s.ID); err != nil {
		l.Logf("Presence heartbeat failed {%s}: %v", s.ID, err)
	}
}

// Disconnect is valid from any state and tears the connection down
// immediately. The offline broadcast fires only when the user's last
// connection goes away.
func (l *LifecycleManager) Disconnect(s *Session) {
	user := s.User()
	s.Close()

	userID, last, found := l.registry.Remove(s.ID)
	if !found {
		return
	}

	if err := l.presence.DeleteByConnection(s.ID); err != nil {
		l.Logf("Presence reconciliation failed on disconnect {%s}: %v", s.ID, err)
	}

	if userID != 0 && last && user != nil {
		l.broadcastStatus(user, eventUserOffline)
	}
	l.Logf("Connection closed {%s}", s.ID)
}

// broadcastStatus tells every online friend's inbox room that the user came
// online or went offline.
func (l *LifecycleManager) broadcastStatus(user *entity.User, eventType string) {
	friendIDs, err := l.resolver.FriendIDs(user.ID)
	if err != nil {
		l.Logf("Could not resolve friends for status broadcast {%d}: %v", user.ID, err)
		return
	}

	frame, err := NewFrame(eventType, UserStatusPayload{
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
	})
	if err != nil {
		l.Logf("Could not encode status broadcast: %v", err)
		return
	}

	for _, friendID := range friendIDs {
		for _, target := range l.registry.RoomSessions(UserRoom(friendID)) {
			target.Deliver(frame)
		}
	}
}
