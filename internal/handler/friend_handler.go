package handler

import (
	"encoding/json"
	"net/http"

	"webchat/internal/service"
)

type FriendHandler struct {
	friendService service.FriendService
}

func NewFriendHandler(friendService service.FriendService) *FriendHandler {
	return &FriendHandler{friendService}
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	friends, err := h.friendService.ListFriends(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list friends")
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

func (h *FriendHandler) Pending(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	pending, err := h.friendService.ListPending(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list requests")
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *FriendHandler) Sent(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sent, err := h.friendService.ListSent(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list requests")
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

func (h *FriendHandler) Request(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		FriendID uint `json:"friend_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.FriendID == 0 {
		writeError(w, http.StatusBadRequest, "friend_id is required")
		return
	}

	edge, err := h.friendService.Request(user.ID, body.FriendID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, edge)
}

func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	edgeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	if err := h.friendService.Accept(edgeID, user.ID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (h *FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	edgeID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	if err := h.friendService.Reject(edgeID, user.ID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
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

	if err := h.friendService.Remove(user.ID, otherID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
