package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"photofeed/auth"
	"photofeed/dto"
	"photofeed/feed"
	"photofeed/monitoring"
)

type CommentHandler struct {
	Feed *feed.Service
	Auth *auth.Authenticator
}

func NewCommentHandler(feedService *feed.Service, authenticator *auth.Authenticator) *CommentHandler {
	return &CommentHandler{Feed: feedService, Auth: authenticator}
}

type createCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// GetComments lists the comments of ?postid=.
func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	postID, err := idParam(r.URL.Query(), "postid")
	if err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.Feed.Post(r.Context(), viewer, postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	comments := make([]dto.CommentDTO, 0, len(post.Comments))
	for _, c := range post.Comments {
		comments = append(comments, dto.NewCommentDTO(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"comments": comments,
		"url":      r.URL.RequestURI(),
	})
}

// CreateComment adds the JSON body's text as a comment on ?postid=.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	postID, err := idParam(r.URL.Query(), "postid")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("invalid JSON: %v: %w", err, feed.ErrInvalidArgument))
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.Feed.CreateComment(r.Context(), viewer, postID, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	monitoring.CommentsPosted.Inc()

	writeJSON(w, http.StatusCreated, dto.NewCommentDTO(*comment))
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	commentID, err := idVar(r, "commentid")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Feed.DeleteComment(r.Context(), viewer, commentID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
