package web

import (
	"errors"
	"net/http"
	"time"

	"goblog/internal/model"
	"goblog/internal/service"
)

const sessionCookieName = "session_token"

func setSessionCookie(w http.ResponseWriter, session model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// currentUser resolves the session cookie to a user. A missing or stale
// cookie is reported as service.ErrNotFound.
func (h *Handler) currentUser(r *http.Request) (model.User, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return model.User{}, service.ErrNotFound
	}
	return h.sessions.CurrentUser(r.Context(), cookie.Value)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, user model.User) error {
	session, err := h.sessions.CreateSession(r.Context(), user.ID)
	if err != nil {
		return err
	}
	setSessionCookie(w, session)
	return nil
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.sessions.DeleteSession(r.Context(), cookie.Value); err != nil && !errors.Is(err, service.ErrNotFound) {
			h.log.Warn("deleting session", "error", err)
		}
	}
	clearSessionCookie(w)
}
