package handler

import (
	"net/http"

	"webchat/internal/view"

	"github.com/gorilla/sessions"
)

type PageHandler struct {
	cookieStore *sessions.CookieStore
	renderer    *view.PageRenderer
}

func NewPageHandler(cookieStore *sessions.CookieStore, renderer *view.PageRenderer) *PageHandler {
	return &PageHandler{cookieStore, renderer}
}

// Index serves the chat page for a logged-in user and the login page
// otherwise.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, "auth-session")

	_, ok1 := session.Values["user_id"].(uint)
	name, ok2 := session.Values["name"].(string)

	if !(ok1 && ok2) {
		if err := h.renderer.RenderTemplate(w, "login.html", nil); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	data := map[string]interface{}{
		"LoggedUser": name,
	}
	if err := h.renderer.RenderTemplate(w, "chat.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
