package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"photofeed/auth"
	"photofeed/feed"
	"photofeed/models"
	"photofeed/monitoring"
	"photofeed/templates"
	"photofeed/uploads"

	"github.com/sirupsen/logrus"
)

// UserHandler serves login, account management and follow edges.
type UserHandler struct {
	Feed      *feed.Service
	Auth      *auth.Authenticator
	Uploads   *uploads.Storage
	Templates *template.Template
}

func NewUserHandler(feedService *feed.Service, authenticator *auth.Authenticator, storage *uploads.Storage, tmpl *template.Template) *UserHandler {
	return &UserHandler{Feed: feedService, Auth: authenticator, Uploads: storage, Templates: tmpl}
}

type loginForm struct {
	Username string `schema:"username" validate:"required"`
	Password string `schema:"password" validate:"required"`
}

type createAccountForm struct {
	Username string `schema:"username" validate:"required,max=20,alphanum"`
	Fullname string `schema:"fullname" validate:"required,max=40"`
	Email    string `schema:"email" validate:"required,email,max=40"`
	Password string `schema:"password" validate:"required"`
}

type followForm struct {
	Operation string `schema:"operation" validate:"required,oneof=follow unfollow"`
	Username  string `schema:"username" validate:"required"`
}

func (h *UserHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Auth.Viewer(r); err == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	render(w, r, h.Templates, "login.html", templates.Page{})
}

// Accounts dispatches on the form's operation: login, create or delete.
func (h *UserHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		pageError(w, r, fmt.Errorf("%v: %w", err, feed.ErrInvalidArgument))
		return
	}

	var err error
	switch op := r.PostForm.Get("operation"); op {
	case "login":
		err = h.login(w, r)
	case "create":
		err = h.createAccount(w, r)
	case "delete":
		err = h.deleteAccount(w, r)
	default:
		err = fmt.Errorf("unknown operation %q: %w", op, feed.ErrInvalidArgument)
	}
	if err != nil {
		pageError(w, r, err)
		return
	}

	redirectTarget(w, r, "/")
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) error {
	var form loginForm
	if err := decodeForm(r, &form); err != nil {
		monitoring.LoginFailure.WithLabelValues("invalid form").Inc()
		return err
	}
	if err := h.Auth.Check(r.Context(), form.Username, form.Password); err != nil {
		if errors.Is(err, feed.ErrUnauthenticated) {
			monitoring.LoginFailure.WithLabelValues("bad credentials").Inc()
		} else {
			monitoring.LoginFailure.WithLabelValues("internal error").Inc()
		}
		return err
	}
	if err := h.Auth.Login(w, r, form.Username); err != nil {
		return err
	}

	monitoring.LoginSuccess.Inc()
	logrus.WithField("username", form.Username).Info("user logged in")
	return nil
}

func (h *UserHandler) createAccount(w http.ResponseWriter, r *http.Request) error {
	var form createAccountForm
	if err := decodeForm(r, &form); err != nil {
		return err
	}
	hashed, err := auth.HashPassword(form.Password)
	if err != nil {
		return err
	}
	filename, err := saveFormFile(r, h.Uploads)
	if err != nil {
		return err
	}

	user := &models.User{
		Username: form.Username,
		Fullname: form.Fullname,
		Email:    form.Email,
		Filename: filename,
		Password: hashed,
	}
	if err := h.Feed.CreateAccount(r.Context(), user); err != nil {
		h.removeUpload(filename)
		return err
	}
	if err := h.Auth.Login(w, r, user.Username); err != nil {
		return err
	}

	monitoring.RegisterSuccess.Inc()
	logrus.WithField("username", user.Username).Info("account created")
	return nil
}

func (h *UserHandler) deleteAccount(w http.ResponseWriter, r *http.Request) error {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		return err
	}
	filenames, err := h.Feed.DeleteAccount(r.Context(), viewer)
	if err != nil {
		return err
	}
	for _, f := range filenames {
		h.removeUpload(f)
	}
	logrus.WithField("username", viewer.Username).Info("account deleted")
	return h.Auth.Logout(w, r)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(w, r); err != nil {
		pageError(w, r, err)
		return
	}
	http.Redirect(w, r, "/accounts/login/", http.StatusFound)
}

// Following creates or removes a follow edge from the viewer.
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.Auth.Viewer(r)
	if err != nil {
		pageError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		pageError(w, r, fmt.Errorf("%v: %w", err, feed.ErrInvalidArgument))
		return
	}
	var form followForm
	if err := decodeForm(r, &form); err != nil {
		pageError(w, r, err)
		return
	}

	if form.Operation == "follow" {
		err = h.Feed.Follow(r.Context(), viewer, form.Username)
	} else {
		err = h.Feed.Unfollow(r.Context(), viewer, form.Username)
	}
	if err != nil {
		pageError(w, r, err)
		return
	}
	monitoring.FollowChanges.WithLabelValues(form.Operation).Inc()

	redirectTarget(w, r, "/")
}

func (h *UserHandler) removeUpload(filename string) {
	if err := h.Uploads.Remove(filename); err != nil {
		logrus.WithError(err).WithField("filename", filename).Warn("error removing upload")
	}
}
