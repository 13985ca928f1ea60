package repositories

import (
	"context"

	"photofeed/models"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// PostRepository reads and writes posts.
type PostRepository interface {
	// ListPosts returns posts ordered by postid descending, bounded by
	// postid <= *ceiling when ceiling is non-nil.
	ListPosts(ctx context.Context, ceiling *int64, limit, offset int) ([]models.Post, error)
	AllPosts(ctx context.Context) ([]models.Post, error)
	PostsByOwner(ctx context.Context, owner string) ([]models.Post, error)
	GetPost(ctx context.Context, postID int64) (*models.Post, error)
	InsertPost(ctx context.Context, post *models.Post) error
	// DeletePostCascade removes the post's comments, likes and the post.
	// Call it inside WithTx.
	DeletePostCascade(ctx context.Context, postID int64) error
}

// UserRepository reads and writes accounts and follow edges.
type UserRepository interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ProfileImage(ctx context.Context, username string) (string, error)
	// ProfileImages maps each known username to its profile image. Unknown
	// usernames are absent from the result.
	ProfileImages(ctx context.Context, usernames []string) (map[string]string, error)
	// DeleteUserCascade removes the user together with their posts, every
	// comment and like on those posts, their own comments and likes, and
	// every follow edge they are party to. Call it inside WithTx.
	DeleteUserCascade(ctx context.Context, username string) error

	Followees(ctx context.Context, username string) ([]string, error)
	Followers(ctx context.Context, username string) ([]string, error)
	FollowExists(ctx context.Context, follower, followee string) (bool, error)
	// InsertFollow reports false when the edge already existed.
	InsertFollow(ctx context.Context, follower, followee string) (bool, error)
	// DeleteFollow reports false when there was no edge to delete.
	DeleteFollow(ctx context.Context, follower, followee string) (bool, error)
}

// SocialRepository reads and writes likes and comments.
type SocialRepository interface {
	LikesForPosts(ctx context.Context, postIDs []int64) ([]models.Like, error)
	FindLike(ctx context.Context, likeID int64) (*models.Like, error)
	FindLikeByOwner(ctx context.Context, owner string, postID int64) (*models.Like, error)
	// InsertLikeIfAbsent creates the like unless (owner, postID) already
	// has one, in which case the existing like is returned with false.
	InsertLikeIfAbsent(ctx context.Context, owner string, postID int64) (*models.Like, bool, error)
	DeleteLike(ctx context.Context, likeID int64) error

	// CommentsForPosts returns comments ordered by commentid ascending.
	CommentsForPosts(ctx context.Context, postIDs []int64) ([]models.Comment, error)
	FindComment(ctx context.Context, commentID int64) (*models.Comment, error)
	InsertComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, commentID int64) error
}

// Store is everything the feed engine needs from persistent state.
type Store interface {
	PostRepository
	UserRepository
	SocialRepository

	// WithTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Single-row lookups made through the bound Store lock the row where
	// the database supports it.
	WithTx(ctx context.Context, reason string, fn func(tx Store) error) error
}
