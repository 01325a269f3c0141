package chat

import (
	"encoding/json"
	"time"

	"webchat/internal/entity"
)

// Outbound frames are {"type": ..., "data": ...} envelopes, mirroring the
// inbound shape.
func NewFrame(eventType string, data any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": eventType,
		"data": data,
	})
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type UserStatusPayload struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type TypingNoticePayload struct {
	UserID  uint   `json:"userId"`
	Name    string `json:"name,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	GroupID *uint  `json:"groupId,omitempty"`
}

type ReadNoticePayload struct {
	MessageID uint      `json:"message_id"`
	ReaderID  uint      `json:"reader_id"`
	ReadAt    time.Time `json:"read_at"`
}

// MessagePayload is the fully hydrated message a client receives: the stored
// row plus the sender's display attributes.
type MessagePayload struct {
	ID           uint      `json:"id"`
	SenderID     uint      `json:"sender_id"`
	ReceiverID   *uint     `json:"receiver_id"`
	GroupID      *uint     `json:"group_id"`
	Content      string    `json:"content"`
	MediaURL     string    `json:"media_url"`
	VoiceURL     string    `json:"voice_url"`
	MediaType    string    `json:"media_type"`
	IsAnonymous  bool      `json:"is_anonymous"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
	SenderName   string    `json:"sender_name"`
	SenderAvatar string    `json:"sender_avatar"`
}

func NewMessagePayload(message *entity.Message, sender *entity.User) MessagePayload {
	return MessagePayload{
		ID:           message.ID,
		SenderID:     message.SenderID,
		ReceiverID:   message.ReceiverID,
		GroupID:      message.GroupID,
		Content:      message.Content,
		MediaURL:     message.MediaURL,
		VoiceURL:     message.VoiceURL,
		MediaType:    message.MediaType,
		IsAnonymous:  message.IsAnonymous,
		IsRead:       message.IsRead,
		CreatedAt:    message.CreatedAt,
		SenderName:   sender.Name,
		SenderAvatar: sender.Avatar,
	}
}
