package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookieName = "flash"

// Flash is a one-shot notification carried between requests in a cookie.
// Kind is either "success" or "error" and picks the banner style.
type Flash struct {
	Kind    string
	Message string
}

func setFlash(w http.ResponseWriter, kind, message string) {
	value := base64.URLEncoding.EncodeToString([]byte(kind + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads the flash cookie and clears it so the message shows once.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil
	}
	return &Flash{Kind: kind, Message: message}
}
