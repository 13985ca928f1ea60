package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"photofeed/auth"
	"photofeed/feed"
	"photofeed/monitoring"
	"photofeed/templates"
	"photofeed/uploads"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxUploadMemory = 32 << 20

// ViewHandler serves the server-rendered feed and its form mutations.
type ViewHandler struct {
	Feed      *feed.Service
	Auth      *auth.Authenticator
	Uploads   *uploads.Storage
	Templates *template.Template
}

func NewViewHandler(feedService *feed.Service, authenticator *auth.Authenticator, storage *uploads.Storage, tmpl *template.Template) *ViewHandler {
	return &ViewHandler{Feed: feedService, Auth: authenticator, Uploads: storage, Templates: tmpl}
}

type likeForm struct {
	Operation string `schema:"operation" validate:"required,oneof=like unlike"`
	PostID    int64  `schema:"postid" validate:"required,gt=0"`
}

type commentForm struct {
	Operation string `schema:"operation" validate:"required,oneof=create delete"`
	PostID    int64  `schema:"postid" validate:"required_if=Operation create"`
	CommentID int64  `schema:"commentid" validate:"required_if=Operation delete"`
	Text      string `schema:"text"`
}

type postForm struct {
	Operation string `schema:"operation" validate:"required,oneof=create delete"`
	PostID    int64  `schema:"postid" validate:"required_if=Operation delete"`
}

func render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		pageError(w, r, fmt.Errorf("rendering %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// Index renders every post visible to the viewer.
func (h *ViewHandler) Index(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		http.Redirect(w, r, "/accounts/login/", http.StatusFound)
		return
	}

	posts, err := h.Feed.Feed(r.Context(), viewer)
	if err != nil {
		pageError(w, r, err)
		return
	}

	items := make([]templates.PostItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, templates.PostItem{Post: p, Target: "/"})
	}
	render(w, r, h.Templates, "index.html", templates.Page{Logname: viewer.Username, Items: items})
}

func (h *ViewHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		http.Redirect(w, r, "/accounts/login/", http.StatusFound)
		return
	}
	postID, err := idVar(r, "postid")
	if err != nil {
		pageError(w, r, err)
		return
	}

	post, err := h.Feed.Post(r.Context(), viewer, postID)
	if err != nil {
		pageError(w, r, err)
		return
	}
	render(w, r, h.Templates, "post.html", templates.Page{
		Logname: viewer.Username,
		Item:    templates.PostItem{Post: *post, Target: r.URL.Path},
	})
}

// ShowUser renders a user's profile and posts.
func (h *ViewHandler) ShowUser(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		http.Redirect(w, r, "/accounts/login/", http.StatusFound)
		return
	}

	profile, err := h.Feed.Profile(r.Context(), viewer, mux.Vars(r)["username"])
	if err != nil {
		pageError(w, r, err)
		return
	}

	items := make([]templates.PostItem, 0, len(profile.Posts))
	for _, p := range profile.Posts {
		items = append(items, templates.PostItem{Post: p, Target: r.URL.Path})
	}
	render(w, r, h.Templates, "user.html", templates.Page{
		Logname: viewer.Username,
		Items:   items,
		Profile: profile,
	})
}

// Likes handles the like and unlike buttons. Liking twice, or unliking a
// post that is not liked, is a 409.
func (h *ViewHandler) Likes(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		pageError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		pageError(w, r, fmt.Errorf("%v: %w", err, feed.ErrInvalidArgument))
		return
	}
	var form likeForm
	if err := decodeForm(r, &form); err != nil {
		pageError(w, r, err)
		return
	}

	switch form.Operation {
	case "like":
		_, created, err := h.Feed.CreateLike(r.Context(), viewer, form.PostID)
		if err != nil {
			pageError(w, r, err)
			return
		}
		if !created {
			monitoring.LikeRequests.WithLabelValues("existing").Inc()
			pageError(w, r, fmt.Errorf("%s already likes post %d: %w", viewer.Username, form.PostID, feed.ErrConflict))
			return
		}
		monitoring.LikeRequests.WithLabelValues("created").Inc()
	case "unlike":
		if err := h.Feed.Unlike(r.Context(), viewer, form.PostID); err != nil {
			pageError(w, r, err)
			return
		}
	}

	redirectTarget(w, r, "/")
}

func (h *ViewHandler) Comments(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		pageError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		pageError(w, r, fmt.Errorf("%v: %w", err, feed.ErrInvalidArgument))
		return
	}
	var form commentForm
	if err := decodeForm(r, &form); err != nil {
		pageError(w, r, err)
		return
	}

	switch form.Operation {
	case "create":
		if _, err := h.Feed.CreateComment(r.Context(), viewer, form.PostID, form.Text); err != nil {
			pageError(w, r, err)
			return
		}
		monitoring.CommentsPosted.Inc()
	case "delete":
		if err := h.Feed.DeleteComment(r.Context(), viewer, form.CommentID); err != nil {
			pageError(w, r, err)
			return
		}
	}

	redirectTarget(w, r, "/")
}

// Posts creates a post from an uploaded image, or deletes one together with
// its image.
func (h *ViewHandler) Posts(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		pageError(w, r, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		pageError(w, r, fmt.Errorf("%v: %w", err, feed.ErrInvalidArgument))
		return
	}
	var form postForm
	if err := decodeForm(r, &form); err != nil {
		pageError(w, r, err)
		return
	}

	switch form.Operation {
	case "create":
		filename, err := saveFormFile(r, h.Uploads)
		if err != nil {
			pageError(w, r, err)
			return
		}
		if _, err := h.Feed.CreatePost(r.Context(), viewer, filename); err != nil {
			h.removeUpload(filename)
			pageError(w, r, err)
			return
		}
		monitoring.PostsCreated.Inc()
	case "delete":
		post, err := h.Feed.DeletePost(r.Context(), viewer, form.PostID)
		if err != nil {
			pageError(w, r, err)
			return
		}
		h.removeUpload(post.Filename)
		monitoring.PostsDeleted.Inc()
	}

	redirectTarget(w, r, "/")
}

// Upload serves a stored image to authenticated viewers.
func (h *ViewHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Auth.Viewer(r); err != nil {
		pageError(w, r, err)
		return
	}
	path, err := h.Uploads.Path(mux.Vars(r)["filename"])
	if err != nil {
		pageError(w, r, fmt.Errorf("%v: %w", err, feed.ErrNotFound))
		return
	}
	if _, err := os.Stat(path); err != nil {
		pageError(w, r, fmt.Errorf("%v: %w", err, feed.ErrNotFound))
		return
	}
	http.ServeFile(w, r, path)
}

func (h *ViewHandler) removeUpload(filename string) {
	if err := h.Uploads.Remove(filename); err != nil {
		logrus.WithError(err).WithField("filename", filename).Warn("error removing upload")
	}
}

// saveFormFile stores the request's "file" part and returns its new name.
func saveFormFile(r *http.Request, storage *uploads.Storage) (string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("missing file: %v: %w", err, feed.ErrInvalidArgument)
	}
	defer file.Close()
	if header.Size == 0 {
		return "", fmt.Errorf("empty file: %w", feed.ErrInvalidArgument)
	}
	return storage.Save(file, header.Filename)
}
