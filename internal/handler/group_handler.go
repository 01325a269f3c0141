package handler

import (
	"encoding/json"
	"net/http"

	"webchat/internal/service"
)

type GroupHandler struct {
	groupService service.GroupService
}

func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	groups, err := h.groupService.GroupsFor(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list groups")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	group, err := h.groupService.Create(body.Name, body.Description, body.Image, user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := loggedUser(r); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	group, err := h.groupService.GetByID(groupID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Group was not found")
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	if _, ok := loggedUser(r); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	members, err := h.groupService.Members(groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not gather members")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
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

	var body struct {
		UserID uint `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.groupService.AddMember(groupID, user.ID, body.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
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

	if err := h.groupService.Leave(groupID, user.ID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.groupService.Delete(groupID, user.ID); err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
