package handler

import (
	"net/http"
	"time"

	"webchat/internal/repository"
	"webchat/internal/service"
)

type MessageHandler struct {
	messageService service.MessageService
	presenceRepo   repository.PresenceRepository
	window         time.Duration
}

func NewMessageHandler(messageService service.MessageService, presenceRepo repository.PresenceRepository, window time.Duration) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		presenceRepo:   presenceRepo,
		window:         window,
	}
}

func (h *MessageHandler) DirectHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	otherID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	messages, err := h.messageService.DirectHistory(user.ID, otherID, limit, offset)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) GroupHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	messages, err := h.messageService.GroupHistory(user.ID, groupID, limit, offset)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) UnreadCounts(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	counts, err := h.messageService.UnreadCounts(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not count unread messages")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// OnlineFriends is the presence read path other processes use: it answers
// from the ledger, bounded by the liveness window, not from process memory.
func (h *MessageHandler) OnlineFriends(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	online, err := h.presenceRepo.OnlineFriends(user.ID, h.window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list online friends")
		return
	}
	writeJSON(w, http.StatusOK, online)
}
