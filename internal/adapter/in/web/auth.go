package web

import (
	"errors"
	"net/http"

	"goblog/internal/service"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "register.page.html", &templateData{
			Title: "Register",
			Form:  map[string]string{},
		})
		return
	}

	form := map[string]string{
		"username": r.PostFormValue("username"),
		"email":    r.PostFormValue("email"),
	}
	user, err := h.users.Register(r.Context(), service.RegisterRequest{
		Username:        form["username"],
		Email:           form["email"],
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	})
	switch {
	case err == nil:
		if err := h.signIn(w, r, user); err != nil {
			h.serverError(w, r, err)
			return
		}
		setFlash(w, "success", "Welcome, "+user.Username+"!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, service.ErrUsernameTaken):
		h.render(w, r, http.StatusUnprocessableEntity, "register.page.html", &templateData{
			Title:     "Register",
			Form:      form,
			FormError: "That username is already taken.",
		})
	case errors.Is(err, service.ErrEmailTaken):
		h.render(w, r, http.StatusUnprocessableEntity, "register.page.html", &templateData{
			Title:     "Register",
			Form:      form,
			FormError: "An account with that email already exists.",
		})
	case errors.Is(err, service.ErrInvalidRequest):
		h.render(w, r, http.StatusUnprocessableEntity, "register.page.html", &templateData{
			Title:       "Register",
			Form:        form,
			FieldErrors: validationFields(err),
		})
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "login.page.html", &templateData{
			Title: "Log in",
			Form:  map[string]string{},
		})
		return
	}

	username := r.PostFormValue("username")
	user, err := h.users.Authenticate(r.Context(), username, r.PostFormValue("password"))
	switch {
	case err == nil:
		if err := h.signIn(w, r, user); err != nil {
			h.serverError(w, r, err)
			return
		}
		setFlash(w, "success", "Welcome back, "+user.Username+"!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, service.ErrInvalidCredentials):
		h.render(w, r, http.StatusUnauthorized, "login.page.html", &templateData{
			Title:     "Log in",
			Form:      map[string]string{"username": username},
			FormError: "Invalid username or password.",
		})
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.signOut(w, r)
	setFlash(w, "success", "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
