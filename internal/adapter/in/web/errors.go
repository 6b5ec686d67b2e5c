package web

import (
	"fmt"
	"net/http"
)

type unknownTemplateError string

func errUnknownTemplate(page string) error {
	return unknownTemplateError(page)
}

func (e unknownTemplateError) Error() string {
	return fmt.Sprintf("template %q does not exist", string(e))
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("internal server error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) notFound(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
