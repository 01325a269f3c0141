package chat

import (
	"encoding/json"
	"fmt"
)

// Inbound event kinds form a closed set: every frame a client may send is
// parsed into exactly one of these, and the router's dispatch switch is
// exhaustive over them.
type EventKind int

const (
	EventAuthenticate EventKind = iota
	EventSendMessage
	EventTypingStart
	EventTypingStop
	EventMessageRead
	EventJoinGroup
	EventLeaveGroup
	EventOnlineUsers
)

// Wire names, shared with the browser client.
const (
	eventAuthenticate  = "authenticate"
	eventAuthenticated = "authenticated"
	eventAuthError     = "auth_error"
	eventError         = "error"
	eventSendMessage   = "send_message"
	eventNewMessage    = "new_message"
	eventTypingStart   = "typing_start"
	eventTypingStop    = "typing_stop"
	eventMessageRead   = "message_read"
	eventJoinGroup     = "join_group"
	eventLeaveGroup    = "leave_group"
	eventOnlineUsers   = "get_online_users"
	eventOnlineList    = "online_users"
	eventUserOnline    = "user_online"
	eventUserOffline   = "user_offline"
)

type AuthenticatePayload struct {
	UserID uint `json:"userId"`
}

type SendMessagePayload struct {
	Content     string `json:"content"`
	ReceiverID  *uint  `json:"receiver_id"`
	GroupID     *uint  `json:"group_id"`
	IsAnonymous bool   `json:"is_anonymous"`
	MediaURL    string `json:"media_url"`
	VoiceURL    string `json:"voice_url"`
	MediaType   string `json:"media_type"`
}

type TypingPayload struct {
	ReceiverID *uint `json:"receiver_id"`
	GroupID    *uint `json:"group_id"`
}

type MessageReadPayload struct {
	MessageID uint `json:"message_id"`
}

type GroupRoomPayload struct {
	GroupID uint `json:"group_id"`
}

// Event is the tagged variant the router dispatches on. Only the arm named
// by Kind is non-nil.
type Event struct {
	Kind EventKind

	Authenticate *AuthenticatePayload
	Send         *SendMessagePayload
	Typing       *TypingPayload
	Read         *MessageReadPayload
	Group        *GroupRoomPayload
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func decode(data json.RawMessage, into any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, into)
}

// ParseEvent turns a raw frame into a typed event, or fails for frames
// outside the closed set.
func ParseEvent(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Type {
	case eventAuthenticate:
		var p AuthenticatePayload
		if err := decode(env.Data, &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventAuthenticate, Authenticate: &p}, nil
	case eventSendMessage:
		var p SendMessagePayload
		if err := decode(env.Data, &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventSendMessage, Send: &p}, nil
	case eventTypingStart:
		var p TypingPayload
		if err := decode(env.Data, &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventTypingStart, Typing: &p}, nil
	case eventTypingStop:
		var p TypingPayload
		if err := decode(env.Data, &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventTypingStop, Typing: &p}, nil
	case eventMessageRead:
		var p MessageReadPayload
		if err := decode(env.Data, &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventMessageRead, Read: &p}, nil
	case eventJoinGroup:
		var p GroupRoomPayload
		if err := decode(env.Data, &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventJoinGroup, Group: &p}, nil
	case eventLeaveGroup:
		var p GroupRoomPayload
		if err := decode(env.Data, &p); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventLeaveGroup, Group: &p}, nil
	case eventOnlineUsers:
		return Event{Kind: EventOnlineUsers}, nil
	}

	return Event{}, fmt.Errorf("unknown event type {%s}", env.Type)
}
