package feed_test

import (
	"path/filepath"
	"testing"
	"time"

	"photofeed/database"
	"photofeed/feed"
	"photofeed/models"
	"photofeed/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	store   repositories.Store
	service *feed.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "feed.sqlite3"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := repositories.NewStore(db)
	return &fixture{
		db:      db,
		store:   store,
		service: feed.NewService(store, feed.WithClock(func() time.Time { return testNow })),
	}
}

func (f *fixture) user(t *testing.T, username string) feed.Viewer {
	t.Helper()
	require.NoError(t, f.db.Create(&models.User{
		Username: username,
		Fullname: username,
		Email:    username + "@example.com",
		Filename: username + ".jpg",
		Password: "bcrypt$$x",
	}).Error)
	return feed.Viewer{Username: username}
}

func (f *fixture) post(t *testing.T, id int64, owner string) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Post{
		PostID:   id,
		Owner:    owner,
		Filename: owner + "-post.jpg",
		Created:  testNow.Add(-2 * time.Hour),
	}).Error)
}

func (f *fixture) follow(t *testing.T, follower, followee string) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Follow{Follower: follower, Followee: followee}).Error)
}

func (f *fixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func postIDs(posts []models.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.PostID
	}
	return ids
}
