package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"photofeed/dto"
	"photofeed/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetServices(t *testing.T) {
	app := newTestApp(t)

	rr := app.api(http.MethodGet, "/api/v1/", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var services dto.ServicesDTO
	decode(t, rr, &services)
	assert.Equal(t, "/api/v1/posts/", services.Posts)
	assert.Equal(t, "/api/v1/likes/", services.Likes)
	assert.Equal(t, "/api/v1/comments/", services.Comments)
	assert.Equal(t, "/api/v1/", services.URL)
}

func TestRequiresAuthentication(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/api/v1/", "/api/v1/posts/", "/api/v1/posts/5/"} {
		rr := app.api(http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusForbidden, rr.Code, target)

		var body dto.ErrorDTO
		decode(t, rr, &body)
		assert.Equal(t, http.StatusForbidden, body.StatusCode)
		assert.Equal(t, "Forbidden", body.Message)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/", nil)
	req.SetBasicAuth("alice", "wrong")
	assert.Equal(t, http.StatusForbidden, app.performRequest(req).Code)
}

func TestGetPostsPaginates(t *testing.T) {
	app := newTestApp(t)

	rr := app.api(http.MethodGet, "/api/v1/posts/?size=2", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var first dto.PostPageDTO
	decode(t, rr, &first)
	require.Len(t, first.Results, 2)
	assert.EqualValues(t, 5, first.Results[0].PostID)
	assert.Equal(t, "/api/v1/posts/5/", first.Results[0].URL)
	assert.EqualValues(t, 3, first.Results[1].PostID)
	assert.Equal(t, "/api/v1/posts/?size=2&page=1&postid_lte=5", first.Next)
	assert.Equal(t, "/api/v1/posts/?size=2", first.URL)

	rr = app.api(http.MethodGet, first.Next, "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var second dto.PostPageDTO
	decode(t, rr, &second)
	require.Len(t, second.Results, 1)
	assert.EqualValues(t, 1, second.Results[0].PostID)
	assert.Empty(t, second.Next)
	assert.Equal(t, first.Next, second.URL)
}

func TestGetPostsDefaults(t *testing.T) {
	app := newTestApp(t)

	rr := app.api(http.MethodGet, "/api/v1/posts/?size=abc", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page dto.PostPageDTO
	decode(t, rr, &page)
	assert.Len(t, page.Results, 3)
	assert.Empty(t, page.Next)
	assert.NotNil(t, page.Results)

	rr = app.api(http.MethodGet, "/api/v1/posts/", "carol", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"next":"","results":[],"url":"/api/v1/posts/"}`, rr.Body.String())
}

func TestGetPostsRejectsNegativeParams(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/api/v1/posts/?size=-1", "/api/v1/posts/?page=-2"} {
		rr := app.api(http.MethodGet, target, "alice", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestGetPost(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.db.Create(&models.Comment{Owner: "alice", PostID: 5, Text: "hello"}).Error)

	rr := app.api(http.MethodGet, "/api/v1/posts/5/", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var post dto.PostDTO
	decode(t, rr, &post)
	assert.EqualValues(t, 5, post.PostID)
	assert.Equal(t, "bob", post.Owner)
	assert.Equal(t, "/uploads/bob.jpg", post.OwnerImgURL)
	assert.Equal(t, "/uploads/bob-post.jpg", post.ImgURL)
	assert.Equal(t, "/users/bob/", post.OwnerShowURL)
	assert.Equal(t, "/posts/5/", post.PostShowURL)
	assert.Equal(t, "/api/v1/posts/5/", post.URL)
	assert.Equal(t, "/api/v1/comments/?postid=5", post.CommentsURL)
	assert.False(t, post.Likes.LognameLikesThis)
	assert.Nil(t, post.Likes.URL)
	require.Len(t, post.Comments, 1)
	assert.True(t, post.Comments[0].LognameOwnsThis)
	assert.Equal(t, "hello", post.Comments[0].Text)

	assert.Equal(t, http.StatusNotFound, app.api(http.MethodGet, "/api/v1/posts/99/", "alice", nil).Code)
}

func TestLikeLifecycle(t *testing.T) {
	app := newTestApp(t)

	rr := app.api(http.MethodPost, "/api/v1/likes/?postid=5", "alice", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created dto.LikeDTO
	decode(t, rr, &created)
	assert.NotZero(t, created.LikeID)

	rr = app.api(http.MethodPost, "/api/v1/likes/?postid=5", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var again dto.LikeDTO
	decode(t, rr, &again)
	assert.Equal(t, created, again)
	assert.EqualValues(t, 1, app.count(t, &models.Like{}, "postid = ?", 5))

	rr = app.api(http.MethodGet, "/api/v1/posts/5/", "alice", nil)
	var post dto.PostDTO
	decode(t, rr, &post)
	assert.True(t, post.Likes.LognameLikesThis)
	assert.Equal(t, 1, post.Likes.NumLikes)
	require.NotNil(t, post.Likes.URL)
	assert.Equal(t, created.URL, *post.Likes.URL)

	assert.Equal(t, http.StatusForbidden, app.api(http.MethodDelete, created.URL, "bob", nil).Code)
	assert.Equal(t, http.StatusNoContent, app.api(http.MethodDelete, created.URL, "alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.api(http.MethodDelete, created.URL, "alice", nil).Code)
}

func TestCreateLikeBadPost(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusNotFound, app.api(http.MethodPost, "/api/v1/likes/?postid=42", "alice", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.api(http.MethodPost, "/api/v1/likes/", "alice", nil).Code)
}

func TestCommentLifecycle(t *testing.T) {
	app := newTestApp(t)

	rr := app.api(http.MethodPost, "/api/v1/comments/?postid=3", "alice", strings.NewReader(`{"text":"nice"}`))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var comment dto.CommentDTO
	decode(t, rr, &comment)
	assert.Equal(t, "alice", comment.Owner)
	assert.Equal(t, "nice", comment.Text)
	assert.True(t, comment.LognameOwnsThis)

	rr = app.api(http.MethodGet, "/api/v1/comments/?postid=3", "bob", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var listing struct {
		Comments []dto.CommentDTO `json:"comments"`
		URL      string           `json:"url"`
	}
	decode(t, rr, &listing)
	require.Len(t, listing.Comments, 1)
	assert.False(t, listing.Comments[0].LognameOwnsThis)
	assert.Equal(t, "/api/v1/comments/?postid=3", listing.URL)

	assert.Equal(t, http.StatusForbidden, app.api(http.MethodDelete, comment.URL, "bob", nil).Code)
	assert.Equal(t, http.StatusNoContent, app.api(http.MethodDelete, comment.URL, "alice", nil).Code)
	assert.Zero(t, app.count(t, &models.Comment{}, "postid = ?", 3))
}

func TestCreateCommentValidation(t *testing.T) {
	app := newTestApp(t)

	for _, body := range []string{`{"text":""}`, `{}`, `not json`} {
		rr := app.api(http.MethodPost, "/api/v1/comments/?postid=3", "alice", strings.NewReader(body))
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
	rr := app.api(http.MethodPost, "/api/v1/comments/?postid=42", "alice", strings.NewReader(`{"text":"hi"}`))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	rr := app.api(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	app.api(http.MethodGet, "/api/v1/posts/?size=2", "alice", nil)
	rr = app.api(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `route="/api/v1/posts/"`)
	assert.Contains(t, rr.Body.String(), "feed_page_results")
}

func TestZeroIDsAreNotFound(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusNotFound, app.api(http.MethodGet, "/api/v1/posts/0/", "alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.api(http.MethodPost, "/api/v1/likes/?postid=0", "alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.api(http.MethodGet, "/api/v1/comments/?postid=-3", "alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.api(http.MethodDelete, "/api/v1/likes/0/", "alice", nil).Code)
}

func TestGetPostsZeroCeilingStartsNewSequence(t *testing.T) {
	app := newTestApp(t)

	rr := app.api(http.MethodGet, "/api/v1/posts/?size=2&postid_lte=0", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page dto.PostPageDTO
	decode(t, rr, &page)
	require.Len(t, page.Results, 2)
	assert.EqualValues(t, 5, page.Results[0].PostID)
	assert.EqualValues(t, 3, page.Results[1].PostID)
	assert.Equal(t, "/api/v1/posts/?size=2&page=1&postid_lte=5", page.Next)
	assert.Equal(t, "/api/v1/posts/?size=2&postid_lte=0", page.URL)
}
