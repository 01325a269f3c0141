package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"webchat/internal/entity"
	"webchat/internal/service"

	"github.com/gorilla/sessions"
)

type AuthHandler struct {
	authService service.AuthService
	verifier    *service.GoogleVerifier
	cookieStore *sessions.CookieStore
}

func NewAuthHandler(authService service.AuthService, verifier *service.GoogleVerifier, cookieStore *sessions.CookieStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		verifier:    verifier,
		cookieStore: cookieStore,
	}
}

// GoogleLogin starts the OAuth handshake; the state nonce is parked in the
// session for the callback to compare.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 16)
	rand.Read(buf)
	state := hex.EncodeToString(buf)

	session, _ := h.cookieStore.Get(r, "auth-session")
	session.Values["oauth_state"] = state
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, h.verifier.AuthCodeURL(state), http.StatusSeeOther)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, "auth-session")

	expected, _ := session.Values["oauth_state"].(string)
	if expected == "" || r.URL.Query().Get("state") != expected {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	delete(session.Values, "oauth_state")

	claims, err := h.verifier.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	user, err := h.authService.LoginWithGoogle(claims)
	if err != nil {
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	h.saveLogin(w, r, session, user)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Register(r.FormValue("name"), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, _ := h.cookieStore.Get(r, "auth-session")
	h.saveLogin(w, r, session, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Login(r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	session, _ := h.cookieStore.Get(r, "auth-session")
	h.saveLogin(w, r, session, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, "auth-session")
	session.Options.MaxAge = -1
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, "auth-session")

	userID, ok1 := session.Values["user_id"].(uint)
	name, ok2 := session.Values["name"].(string)
	if !(ok1 && ok2) {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	avatar, _ := session.Values["avatar"].(string)
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":     userID,
			"name":   name,
			"avatar": avatar,
		},
	})
}

func (h *AuthHandler) saveLogin(w http.ResponseWriter, r *http.Request, session *sessions.Session, user *entity.User) {
	session.Values["user_id"] = user.ID
	session.Values["name"] = user.Name
	session.Values["avatar"] = user.Avatar
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
