// Package auth resolves the viewer of a request from a session cookie or
// HTTP Basic credentials.
package auth

import (
	"context"
	"net/http"

	"photofeed/feed"
	"photofeed/models"
	"photofeed/repositories"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	sessionName = "photofeed-session"
	usernameKey = "username"
)

// UserLookup is the slice of the user repository auth needs.
type UserLookup interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
}

type Authenticator struct {
	store sessions.Store
	users UserLookup
}

// New creates an Authenticator signing cookies with secret. An empty secret
// gets a random key, so sessions will not survive a restart.
func New(secret []byte, users UserLookup) *Authenticator {
	if len(secret) == 0 {
		logrus.Warn("SECRET_KEY not set, generating a random session key")
		secret = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Authenticator{store: store, users: users}
}

// Viewer returns the request's viewer, preferring the session cookie over
// HTTP Basic auth. It returns feed.ErrUnauthenticated when neither is valid.
// A session whose account no longer exists is ignored.
func (a *Authenticator) Viewer(r *http.Request) (feed.Viewer, error) {
	session, err := a.store.Get(r, sessionName)
	if err != nil {
		logrus.WithError(err).Debug("ignoring undecodable session cookie")
	}
	if username, ok := session.Values[usernameKey].(string); ok && username != "" {
		_, err := a.users.GetUser(r.Context(), username)
		switch {
		case err == nil:
			return feed.Viewer{Username: username}, nil
		case !errors.Is(err, repositories.ErrNotFound):
			return feed.Viewer{}, errors.Wrapf(err, "error resolving session of %s", username)
		}
		logrus.WithField("username", username).Debug("ignoring session of deleted account")
	}

	if username, password, ok := r.BasicAuth(); ok {
		if err := a.Check(r.Context(), username, password); err != nil {
			return feed.Viewer{}, err
		}
		return feed.Viewer{Username: username}, nil
	}

	return feed.Viewer{}, feed.ErrUnauthenticated
}

// Check verifies a username and password pair.
func (a *Authenticator) Check(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return feed.ErrUnauthenticated
	}
	user, err := a.users.GetUser(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		logrus.WithField("username", username).Debug("login for unknown user")
		return feed.ErrUnauthenticated
	}
	if err != nil {
		return errors.Wrapf(err, "error loading user %s", username)
	}
	ok, err := VerifyPassword(user.Password, password)
	if err != nil {
		return errors.Wrapf(err, "error verifying password of %s", username)
	}
	if !ok {
		return feed.ErrUnauthenticated
	}
	return nil
}

// Login stores username in the session cookie.
func (a *Authenticator) Login(w http.ResponseWriter, r *http.Request, username string) error {
	session, _ := a.store.Get(r, sessionName)
	session.Values[usernameKey] = username
	return errors.Wrap(session.Save(r, w), "error saving session")
}

// Logout expires the session cookie.
func (a *Authenticator) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := a.store.Get(r, sessionName)
	delete(session.Values, usernameKey)
	session.Options.MaxAge = -1
	return errors.Wrap(session.Save(r, w), "error clearing session")
}
