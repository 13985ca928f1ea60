package handlers

import (
	"net/http"

	"photofeed/auth"
	"photofeed/dto"
	"photofeed/feed"
	"photofeed/monitoring"
)

type LikeHandler struct {
	Feed *feed.Service
	Auth *auth.Authenticator
}

func NewLikeHandler(feedService *feed.Service, authenticator *auth.Authenticator) *LikeHandler {
	return &LikeHandler{Feed: feedService, Auth: authenticator}
}

// CreateLike likes ?postid= for the viewer. It answers 201 when the like is
// new and 200 with the existing like otherwise.
func (h *LikeHandler) CreateLike(w http.ResponseWriter, r *http.Request) {
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

	like, created, err := h.Feed.CreateLike(r.Context(), viewer, postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		monitoring.LikeRequests.WithLabelValues("created").Inc()
	} else {
		monitoring.LikeRequests.WithLabelValues("existing").Inc()
	}
	writeJSON(w, status, dto.LikeDTO{LikeID: like.LikeID, URL: dto.LikeURL(like.LikeID)})
}

func (h *LikeHandler) DeleteLike(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	likeID, err := idVar(r, "likeid")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Feed.DeleteLike(r.Context(), viewer, likeID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
