package handler

import (
	"encoding/json"
	"net/http"

	"webchat/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	full, err := h.userService.GetByID(user.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "User was not found")
		return
	}
	writeJSON(w, http.StatusOK, full)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	name := r.URL.Query().Get("q")
	if name == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	users, err := h.userService.SearchByName(name, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := loggedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, body.Name, body.Avatar)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
