package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"photofeed/auth"
	"photofeed/database"
	"photofeed/feed"
	"photofeed/handlers"
	"photofeed/models"
	"photofeed/repositories"
	"photofeed/routes"
	"photofeed/templates"
	"photofeed/uploads"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	db      *gorm.DB
	uploads *uploads.Storage
	handler http.Handler
}

// newTestApp wires the full router against a fresh database holding alice,
// bob and carol (password "password"). alice follows bob, and bob owns posts
// 1, 3 and 5.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dir := t.TempDir()
	db, err := database.OpenSQLite(filepath.Join(dir, "app.sqlite3"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	storage, err := uploads.New(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	tmpl, err := templates.Load()
	require.NoError(t, err)

	record, err := auth.HashPassword("password")
	require.NoError(t, err)
	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, db.Create(&models.User{
			Username: name, Fullname: name, Email: name + "@example.com",
			Filename: name + ".jpg", Password: record,
		}).Error)
	}
	require.NoError(t, db.Create(&models.Follow{Follower: "alice", Followee: "bob"}).Error)
	for _, id := range []int64{1, 3, 5} {
		require.NoError(t, db.Create(&models.Post{PostID: id, Owner: "bob", Filename: "bob-post.jpg"}).Error)
	}

	store := repositories.NewStore(db)
	feedService := feed.NewService(store)
	authenticator := auth.New([]byte("test-secret"), store)

	return &testApp{
		db:      db,
		uploads: storage,
		handler: routes.SetupRoutes(routes.Handlers{
			Posts:    handlers.NewPostHandler(feedService, authenticator),
			Likes:    handlers.NewLikeHandler(feedService, authenticator),
			Comments: handlers.NewCommentHandler(feedService, authenticator),
			Views:    handlers.NewViewHandler(feedService, authenticator, storage, tmpl),
			Users:    handlers.NewUserHandler(feedService, authenticator, storage, tmpl),
			System:   handlers.NewSystemHandler(sqlDB),
		}),
	}
}

// Helper function to perform HTTP requests
func (a *testApp) performRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// api performs a REST request authenticated as username.
func (a *testApp) api(method, target, username string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if username != "" {
		req.SetBasicAuth(username, "password")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.performRequest(req)
}

// postForm submits a url-encoded form carrying the given cookies.
func (a *testApp) postForm(target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.performRequest(req)
}

// postMultipart submits fields plus an optional "file" part.
func (a *testApp) postMultipart(t *testing.T, target string, fields map[string]string, filename string, content []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.performRequest(req)
}

// login signs username in through the login form and returns the session
// cookies.
func (a *testApp) login(t *testing.T, username string) []*http.Cookie {
	t.Helper()
	rr := a.postForm("/accounts/?target=/", url.Values{
		"operation": {"login"},
		"username":  {username},
		"password":  {"password"},
	}, nil)
	require.Equal(t, http.StatusFound, rr.Code, rr.Body.String())
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func (a *testApp) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func newCookieRequest(method, target string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
