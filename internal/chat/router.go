package chat

import (
	"time"

	"webchat/internal/entity"
	"webchat/internal/nlog"
	"webchat/internal/repository"
)

// Router accepts inbound events, resolves the fan-out set, persists what must
// be durable and delivers to every reachable connection. Each connection's
// frames are dispatched from that connection's own read loop, so events from
// one connection are processed in transport order; nothing is ordered across
// connections.
type Router struct {
	registry  *Registry
	resolver  MembershipResolver
	lifecycle *LifecycleManager
	messages  repository.MessageRepository
	presence  repository.PresenceRepository
	window    time.Duration
	logger    nlog.Logger
}

func NewRouter(registry *Registry, resolver MembershipResolver, lifecycle *LifecycleManager, messages repository.MessageRepository, presence repository.PresenceRepository, window time.Duration, logger nlog.Logger) *Router {
	return &Router{
		registry:  registry,
		resolver:  resolver,
		lifecycle: lifecycle,
		messages:  messages,
		presence:  presence,
		window:    window,
		logger:    logger,
	}
}

func (r *Router) Logf(format string, v ...any) {
	r.logger.Logf(format, v...)
}

// Dispatch routes one inbound frame. Validation failures are reported to the
// originating connection only; the connection always survives them.
func (r *Router) Dispatch(s *Session, raw []byte) {
	event, err := ParseEvent(raw)
	if err != nil {
		r.Logf("Dropping malformed frame on {%s}: %v", s.ID, err)
		r.sendError(s, eventError, "Malformed event")
		return
	}

	switch event.Kind {
	case EventAuthenticate:
		r.handleAuthenticate(s, event.Authenticate)
	case EventSendMessage:
		r.handleSend(s, event.Send)
	case EventTypingStart:
		r.handleTyping(s, event.Typing, eventTypingStart)
	case EventTypingStop:
		r.handleTyping(s, event.Typing, eventTypingStop)
	case EventMessageRead:
		r.handleRead(s, event.Read)
	case EventJoinGroup:
		r.handleJoinGroup(s, event.Group)
	case EventLeaveGroup:
		r.handleLeaveGroup(s, event.Group)
	case EventOnlineUsers:
		r.handleOnlineUsers(s)
	}
}

func (r *Router) handleAuthenticate(s *Session, p *AuthenticatePayload) {
	if p.UserID == 0 {
		r.sendError(s, eventAuthError, "User ID required")
		return
	}

	user, err := r.lifecycle.Authenticate(s, p.UserID)
	if err != nil {
		r.sendError(s, eventAuthError, err.Error())
		return
	}
	if err := r.lifecycle.Subscribe(s); err != nil {
		r.sendError(s, eventAuthError, "Authentication failed")
		return
	}

	r.send(s, eventAuthenticated, map[string]string{"message": "Successfully authenticated"})
	r.Logf("User %d authenticated on connection {%s}", user.ID, s.ID)
}

func (r *Router) handleSend(s *Session, p *SendMessagePayload) {
	if s.State() != StateSubscribed {
		r.sendError(s, eventError, ErrUnauthenticated.Error())
		return
	}
	senderID, _ := s.UserID()

	if p.Content == "" && p.MediaURL == "" && p.VoiceURL == "" {
		r.sendError(s, eventError, ErrEmptyMessage.Error())
		return
	}
	if (p.ReceiverID == nil) == (p.GroupID == nil) {
		r.sendError(s, eventError, ErrAmbiguousTarget.Error())
		return
	}

	if p.ReceiverID != nil {
		allowed, err := r.resolver.AreFriends(senderID, *p.ReceiverID)
		if err != nil {
			r.Logf("Friend check failed for %d -> %d: %v", senderID, *p.ReceiverID, err)
			r.sendError(s, eventError, ErrPersistence.Error())
			return
		}
		if !allowed {
			r.sendError(s, eventError, ErrForbidden.Error())
			return
		}
	} else {
		member, err := r.resolver.IsGroupMember(senderID, *p.GroupID)
		if err != nil {
			r.Logf("Membership check failed for %d in group %d: %v", senderID, *p.GroupID, err)
			r.sendError(s, eventError, ErrPersistence.Error())
			return
		}
		if !member {
			r.sendError(s, eventError, ErrForbidden.Error())
			return
		}
	}

	message := &entity.Message{
		SenderID:    senderID,
		ReceiverID:  p.ReceiverID,
		GroupID:     p.GroupID,
		Content:     p.Content,
		MediaURL:    p.MediaURL,
		VoiceURL:    p.VoiceURL,
		MediaType:   p.MediaType,
		IsAnonymous: p.IsAnonymous,
		CreatedAt:   time.Now(),
	}
	if err := r.messages.Create(message); err != nil {
		// Aborts the send entirely: no target sees a message without a row.
		r.Logf("Message insert failed for %d: %v", senderID, err)
		r.sendError(s, eventError, ErrPersistence.Error())
		return
	}

	frame, err := NewFrame(eventNewMessage, NewMessagePayload(message, s.User()))
	if err != nil {
		r.Logf("Could not encode message %d: %v", message.ID, err)
		return
	}

	// Sender's own connections are part of the fan-out set, so a multi-device
	// sender sees its own sends everywhere.
	if p.ReceiverID != nil {
		r.deliver(frame, r.registry.RoomSessions(UserRoom(*p.ReceiverID)), r.registry.RoomSessions(UserRoom(senderID)))
	} else {
		r.deliver(frame, r.registry.RoomSessions(GroupRoom(*p.GroupID)))
	}
}

// handleTyping relays start/stop indicators. Nothing is persisted and the
// sender's own connections never hear their own indicator.
func (r *Router) handleTyping(s *Session, p *TypingPayload, eventType string) {
	if s.State() != StateSubscribed {
		r.sendError(s, eventError, ErrUnauthenticated.Error())
		return
	}
	senderID, _ := s.UserID()
	sender := s.User()

	if (p.ReceiverID == nil) == (p.GroupID == nil) {
		return
	}

	notice := TypingNoticePayload{UserID: senderID}
	if eventType == eventTypingStart {
		notice.Name = sender.Name
		notice.Avatar = sender.Avatar
	}

	var targets []*Session
	if p.ReceiverID != nil {
		allowed, err := r.resolver.AreFriends(senderID, *p.ReceiverID)
		if err != nil || !allowed {
			return
		}
		targets = r.registry.RoomSessions(UserRoom(*p.ReceiverID))
	} else {
		member, err := r.resolver.IsGroupMember(senderID, *p.GroupID)
		if err != nil || !member {
			return
		}
		notice.GroupID = p.GroupID
		targets = r.registry.RoomSessions(GroupRoom(*p.GroupID))
	}

	frame, err := NewFrame(eventType, notice)
	if err != nil {
		return
	}
	for _, target := range targets {
		if id, ok := target.UserID(); ok && id == senderID {
			continue
		}
		target.Deliver(frame)
	}
}

func (r *Router) handleRead(s *Session, p *MessageReadPayload) {
	if s.State() != StateSubscribed {
		r.sendError(s, eventError, ErrUnauthenticated.Error())
		return
	}
	readerID, _ := s.UserID()

	message, err := r.messages.GetByID(p.MessageID)
	if err != nil {
		r.sendError(s, eventError, "Message not found")
		return
	}
	if message.ReceiverID == nil || *message.ReceiverID != readerID {
		r.sendError(s, eventError, ErrForbidden.Error())
		return
	}

	changed, err := r.messages.MarkRead(p.MessageID, readerID)
	if err != nil {
		r.Logf("Read-flag update failed for message %d: %v", p.MessageID, err)
		r.sendError(s, eventError, ErrPersistence.Error())
		return
	}
	if !changed {
		// Already read: the flag is one-way and the sender was told once.
		return
	}

	frame, err := NewFrame(eventMessageRead, ReadNoticePayload{
		MessageID: p.MessageID,
		ReaderID:  readerID,
		ReadAt:    time.Now(),
	})
	if err != nil {
		return
	}
	r.deliver(frame, r.registry.RoomSessions(UserRoom(message.SenderID)))
}

func (r *Router) handleJoinGroup(s *Session, p *GroupRoomPayload) {
	if s.State() != StateSubscribed {
		r.sendError(s, eventError, ErrUnauthenticated.Error())
		return
	}
	userID, _ := s.UserID()

	member, err := r.resolver.IsGroupMember(userID, p.GroupID)
	if err != nil || !member {
		r.sendError(s, eventError, ErrForbidden.Error())
		return
	}
	r.lifecycle.JoinGroupRoom(s, p.GroupID)
}

func (r *Router) handleLeaveGroup(s *Session, p *GroupRoomPayload) {
	if s.State() != StateSubscribed {
		r.sendError(s, eventError, ErrUnauthenticated.Error())
		return
	}
	r.lifecycle.LeaveGroupRoom(s, p.GroupID)
}

// handleOnlineUsers answers from the presence ledger, the same view the REST
// read path exposes to other processes.
func (r *Router) handleOnlineUsers(s *Session) {
	if s.State() != StateSubscribed {
		r.sendError(s, eventError, ErrUnauthenticated.Error())
		return
	}
	userID, _ := s.UserID()

	online, err := r.presence.OnlineFriends(userID, r.window)
	if err != nil {
		r.Logf("Online-friends query failed for %d: %v", userID, err)
		r.sendError(s, eventError, "Could not list online users")
		return
	}
	r.send(s, eventOnlineList, online)
}

// deliver fans a frame out to the union of the given session sets, at most
// once per connection. Per-target delivery is independent: a full outbox
// closes that one connection and the loop moves on.
func (r *Router) deliver(frame []byte, sets ...[]*Session) {
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, target := range set {
			if _, dup := seen[target.ID]; dup {
				continue
			}
			seen[target.ID] = struct{}{}
			target.Deliver(frame)
		}
	}
}

func (r *Router) send(s *Session, eventType string, data any) {
	frame, err := NewFrame(eventType, data)
	if err != nil {
		r.Logf("Could not encode %s frame: %v", eventType, err)
		return
	}
	s.Deliver(frame)
}

func (r *Router) sendError(s *Session, eventType, message string) {
	r.send(s, eventType, ErrorPayload{Message: message})
}
