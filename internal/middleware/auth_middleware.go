package middleware

import (
	"context"
	"net/http"

	"webchat/internal/entity"

	"github.com/gorilla/sessions"
)

// AuthMiddleware gates API routes on a valid cookie session and puts the
// logged-in user into the request context.
func AuthMiddleware(store *sessions.CookieStore, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := store.Get(r, "auth-session")
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		userID, ok1 := session.Values["user_id"].(uint)
		name, ok2 := session.Values["name"].(string)
		avatar, _ := session.Values["avatar"].(string)

		if !(ok1 && ok2) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user := entity.User{
			ID:     userID,
			Name:   name,
			Avatar: avatar,
		}

		ctx := context.WithValue(r.Context(), "user", user)
		r = r.WithContext(ctx)

		next(w, r)
	}
}
