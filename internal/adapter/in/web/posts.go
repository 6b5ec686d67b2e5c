package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"goblog/internal/service"

	"github.com/gorilla/mux"
)

func postIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func postURL(postID int64) string {
	return fmt.Sprintf("/post/%d", postID)
}

func (h *Handler) postDetail(w http.ResponseWriter, r *http.Request) {
	postID, err := postIDFromRequest(r)
	if err != nil {
		h.notFound(w)
		return
	}

	if r.Method == http.MethodPost {
		h.addComment(w, r, postID)
		return
	}

	h.renderPostDetail(w, r, postID, nil, "")
}

func (h *Handler) renderPostDetail(w http.ResponseWriter, r *http.Request, postID int64, fieldErrors map[string]string, draft string) {
	ctx := r.Context()

	post, err := h.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.notFound(w)
			return
		}
		h.serverError(w, r, err)
		return
	}

	comments, err := h.comments.GetCommentsByPost(ctx, postID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	status := http.StatusOK
	if len(fieldErrors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	h.render(w, r, status, "post_detail.page.html", &templateData{
		Title:       post.Title,
		Post:        &post,
		Comments:    comments,
		Form:        map[string]string{"body": draft},
		FieldErrors: fieldErrors,
	})
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request, postID int64) {
	user, err := h.currentUser(r)
	if err != nil {
		setFlash(w, "error", "You need to be logged in to comment.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	body := r.PostFormValue("body")
	_, err = h.comments.AddComment(r.Context(), service.CreateCommentRequest{
		PostID: postID,
		UserID: user.ID,
		Body:   body,
	})
	switch {
	case err == nil:
		setFlash(w, "success", "Comment added.")
		http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w)
	case errors.Is(err, service.ErrInvalidRequest):
		h.renderPostDetail(w, r, postID, validationFields(err), body)
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "post_form.page.html", &templateData{
			Title: "New post",
			Form:  map[string]string{},
		})
		return
	}

	form := postForm(r)
	post, err := h.posts.CreatePost(r.Context(), service.CreatePostRequest{
		UserID:  user.ID,
		Title:   form["title"],
		Content: form["content"],
		Tags:    form["tags"],
	})
	switch {
	case err == nil:
		setFlash(w, "success", "Post created.")
		http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
	case errors.Is(err, service.ErrInvalidRequest):
		h.render(w, r, http.StatusUnprocessableEntity, "post_form.page.html", &templateData{
			Title:       "New post",
			Form:        form,
			FieldErrors: validationFields(err),
		})
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) editPost(w http.ResponseWriter, r *http.Request) {
	postID, err := postIDFromRequest(r)
	if err != nil {
		h.notFound(w)
		return
	}
	user, err := h.currentUser(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	post, err := h.posts.GetPostByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.notFound(w)
			return
		}
		h.serverError(w, r, err)
		return
	}
	if post.UserID != user.ID {
		setFlash(w, "error", "You can only edit your own posts.")
		http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "post_form.page.html", &templateData{
			Title: "Edit post",
			Post:  &post,
			Form: map[string]string{
				"title":   post.Title,
				"content": post.Content,
				"tags":    post.Tags,
			},
		})
		return
	}

	form := postForm(r)
	updated, err := h.posts.UpdatePost(r.Context(), service.UpdatePostRequest{
		PostID:  postID,
		UserID:  user.ID,
		Title:   form["title"],
		Content: form["content"],
		Tags:    form["tags"],
	})
	switch {
	case err == nil:
		setFlash(w, "success", "Post updated.")
		http.Redirect(w, r, postURL(updated.ID), http.StatusSeeOther)
	case errors.Is(err, service.ErrForbidden):
		setFlash(w, "error", "You can only edit your own posts.")
		http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w)
	case errors.Is(err, service.ErrInvalidRequest):
		h.render(w, r, http.StatusUnprocessableEntity, "post_form.page.html", &templateData{
			Title:       "Edit post",
			Post:        &post,
			Form:        form,
			FieldErrors: validationFields(err),
		})
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := postIDFromRequest(r)
	if err != nil {
		h.notFound(w)
		return
	}
	user, err := h.currentUser(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	post, err := h.posts.GetPostByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.notFound(w)
			return
		}
		h.serverError(w, r, err)
		return
	}
	if post.UserID != user.ID {
		setFlash(w, "error", "You can only delete your own posts.")
		http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "post_delete.page.html", &templateData{
			Title: "Delete post",
			Post:  &post,
		})
		return
	}

	err = h.posts.DeletePost(r.Context(), postID, user.ID)
	switch {
	case err == nil:
		setFlash(w, "success", "Post deleted.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, service.ErrForbidden):
		setFlash(w, "error", "You can only delete your own posts.")
		http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w)
	default:
		h.serverError(w, r, err)
	}
}

func postForm(r *http.Request) map[string]string {
	return map[string]string{
		"title":   r.PostFormValue("title"),
		"content": r.PostFormValue("content"),
		"tags":    r.PostFormValue("tags"),
	}
}

// validationFields pulls per-field messages out of a service validation
// error so templates can show them next to the inputs.
func validationFields(err error) map[string]string {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields
	}
	return map[string]string{"form": err.Error()}
}
