package handlers

import (
	"net/http"
	"strconv"

	"photofeed/auth"
	"photofeed/dto"
	"photofeed/feed"
	"photofeed/monitoring"
)

// PostHandler serves the REST post resources.
type PostHandler struct {
	Feed *feed.Service
	Auth *auth.Authenticator
}

// NewPostHandler initializes a new PostHandler
func NewPostHandler(feedService *feed.Service, authenticator *auth.Authenticator) *PostHandler {
	return &PostHandler{Feed: feedService, Auth: authenticator}
}

// GetServices lists the API resources.
func (h *PostHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Auth.Viewer(r); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ServicesDTO{
		Comments: dto.APIRoot + "comments/",
		Likes:    dto.APIRoot + "likes/",
		Posts:    dto.APIRoot + "posts/",
		URL:      r.URL.Path,
	})
}

// GetPosts returns one page of the viewer's feed.
func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	req := feed.PageRequest{
		Size: intParam(q, "size", feed.DefaultPageSize),
		Page: intParam(q, "page", 0),
	}
	// postid_lte=0 starts a new sequence, like an absent ceiling.
	if v := q.Get("postid_lte"); v != "" {
		if ceiling, err := strconv.ParseInt(v, 10, 64); err == nil && ceiling != 0 {
			req.PostIDLTE = &ceiling
		}
	}

	page, err := h.Feed.Page(r.Context(), viewer, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	monitoring.FeedPageResults.Observe(float64(len(page.Results)))

	results := make([]dto.PostRefDTO, 0, len(page.Results))
	for _, p := range page.Results {
		results = append(results, dto.PostRefDTO{PostID: p.PostID, URL: dto.PostURL(p.PostID)})
	}

	next := ""
	if page.HasNext {
		n := page.Next()
		next = dto.NextPageURL(n.Size, n.Page, *n.PostIDLTE)
	}

	writeJSON(w, http.StatusOK, dto.PostPageDTO{
		Next:    next,
		Results: results,
		URL:     r.URL.RequestURI(),
	})
}

// GetPost returns one post with its comments and like state.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	postID, err := idVar(r, "postid")
	if err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.Feed.Post(r.Context(), viewer, postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewPostDTO(*post))
}
