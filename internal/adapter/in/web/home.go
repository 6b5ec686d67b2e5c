package web

import (
	"net/http"
	"strconv"

	"goblog/internal/service"
)

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))

	result, err := h.posts.ListPosts(ctx, service.ListPostsRequest{
		SearchText: query.Get("q"),
		Tag:        query.Get("tag"),
		Page:       page,
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	tags, err := h.posts.ListTags(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	categories, err := h.posts.ListCategories(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "home.page.html", &templateData{
		Title:      "Latest posts",
		Posts:      result.Items,
		Page:       result.Meta,
		Query:      query.Get("q"),
		Tag:        query.Get("tag"),
		Tags:       tags,
		Categories: categories,
	})
}
