package feed

import (
	"context"
	"errors"
	"fmt"

	"photofeed/models"
	"photofeed/repositories"
)

// CreateComment adds a comment by viewer on postID.
func (s *Service) CreateComment(ctx context.Context, viewer Viewer, postID int64, text string) (*CommentView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("comment text is empty: %w", ErrInvalidArgument)
	}

	comment := &models.Comment{Owner: viewer.Username, PostID: postID, Text: text}
	err := s.store.WithTx(ctx, "create comment", func(tx repositories.Store) error {
		if err := requireAccount(ctx, tx, viewer); err != nil {
			return err
		}
		if _, err := tx.GetPost(ctx, postID); err != nil {
			return translate(err, "commenting on post %d", postID)
		}
		return tx.InsertComment(ctx, comment)
	})
	if err != nil {
		return nil, err
	}

	return &CommentView{
		CommentID:  comment.CommentID,
		Owner:      comment.Owner,
		Text:       comment.Text,
		ViewerOwns: true,
	}, nil
}

func (s *Service) DeleteComment(ctx context.Context, viewer Viewer, commentID int64) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}

	return s.store.WithTx(ctx, "delete comment", func(tx repositories.Store) error {
		comment, err := tx.FindComment(ctx, commentID)
		if err != nil {
			return translate(err, "deleting comment %d", commentID)
		}
		if comment.Owner != viewer.Username {
			return fmt.Errorf("comment %d belongs to %s: %w", commentID, comment.Owner, ErrForbidden)
		}
		return tx.DeleteComment(ctx, commentID)
	})
}

// CreateLike is idempotent: when viewer already likes postID the existing
// like is returned and created is false.
func (s *Service) CreateLike(ctx context.Context, viewer Viewer, postID int64) (like *models.Like, created bool, err error) {
	if err := requireViewer(viewer); err != nil {
		return nil, false, err
	}

	err = s.store.WithTx(ctx, "create like", func(tx repositories.Store) error {
		if err := requireAccount(ctx, tx, viewer); err != nil {
			return err
		}
		if _, err := tx.GetPost(ctx, postID); err != nil {
			return translate(err, "liking post %d", postID)
		}

		existing, err := tx.FindLikeByOwner(ctx, viewer.Username, postID)
		switch {
		case err == nil:
			like = existing
			return nil
		case !errors.Is(err, repositories.ErrNotFound):
			return translate(err, "liking post %d", postID)
		}

		like, created, err = tx.InsertLikeIfAbsent(ctx, viewer.Username, postID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return like, created, nil
}

func (s *Service) DeleteLike(ctx context.Context, viewer Viewer, likeID int64) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}

	return s.store.WithTx(ctx, "delete like", func(tx repositories.Store) error {
		like, err := tx.FindLike(ctx, likeID)
		if err != nil {
			return translate(err, "deleting like %d", likeID)
		}
		if like.Owner != viewer.Username {
			return fmt.Errorf("like %d belongs to %s: %w", likeID, like.Owner, ErrForbidden)
		}
		return tx.DeleteLike(ctx, likeID)
	})
}

// Unlike removes viewer's like on postID, failing with ErrConflict when
// there is none.
func (s *Service) Unlike(ctx context.Context, viewer Viewer, postID int64) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}

	return s.store.WithTx(ctx, "unlike post", func(tx repositories.Store) error {
		like, err := tx.FindLikeByOwner(ctx, viewer.Username, postID)
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%s does not like post %d: %w", viewer.Username, postID, ErrConflict)
		}
		if err != nil {
			return translate(err, "unliking post %d", postID)
		}
		return tx.DeleteLike(ctx, like.LikeID)
	})
}

// CreatePost records a post for an image that has already been stored.
func (s *Service) CreatePost(ctx context.Context, viewer Viewer, filename string) (*models.Post, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if filename == "" {
		return nil, fmt.Errorf("post image is empty: %w", ErrInvalidArgument)
	}

	post := &models.Post{Owner: viewer.Username, Filename: filename}
	err := s.store.WithTx(ctx, "create post", func(tx repositories.Store) error {
		if err := requireAccount(ctx, tx, viewer); err != nil {
			return err
		}
		return translate(tx.InsertPost(ctx, post), "creating post")
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes postID and all of its comments and likes. The deleted
// post is returned so its image can be removed once the change is committed.
func (s *Service) DeletePost(ctx context.Context, viewer Viewer, postID int64) (*models.Post, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	var deleted *models.Post
	err := s.store.WithTx(ctx, "delete post", func(tx repositories.Store) error {
		post, err := tx.GetPost(ctx, postID)
		if err != nil {
			return translate(err, "deleting post %d", postID)
		}
		if post.Owner != viewer.Username {
			return fmt.Errorf("post %d belongs to %s: %w", postID, post.Owner, ErrForbidden)
		}
		if err := tx.DeletePostCascade(ctx, postID); err != nil {
			return err
		}
		deleted = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *Service) Follow(ctx context.Context, viewer Viewer, username string) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}
	if username == "" {
		return fmt.Errorf("username is empty: %w", ErrInvalidArgument)
	}

	return s.store.WithTx(ctx, "follow", func(tx repositories.Store) error {
		if err := requireAccount(ctx, tx, viewer); err != nil {
			return err
		}
		if _, err := tx.GetUser(ctx, username); err != nil {
			return translate(err, "following %s", username)
		}
		exists, err := tx.FollowExists(ctx, viewer.Username, username)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s already follows %s: %w", viewer.Username, username, ErrConflict)
		}
		inserted, err := tx.InsertFollow(ctx, viewer.Username, username)
		if err != nil {
			return err
		}
		if !inserted {
			return fmt.Errorf("%s already follows %s: %w", viewer.Username, username, ErrConflict)
		}
		return nil
	})
}

func (s *Service) Unfollow(ctx context.Context, viewer Viewer, username string) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}
	if username == "" {
		return fmt.Errorf("username is empty: %w", ErrInvalidArgument)
	}

	return s.store.WithTx(ctx, "unfollow", func(tx repositories.Store) error {
		exists, err := tx.FollowExists(ctx, viewer.Username, username)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%s does not follow %s: %w", viewer.Username, username, ErrConflict)
		}
		deleted, err := tx.DeleteFollow(ctx, viewer.Username, username)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%s does not follow %s: %w", viewer.Username, username, ErrConflict)
		}
		return nil
	})
}

// DeleteAccount removes the viewer's account and everything it is party
// to. It returns the image filenames (profile and posts) that are no longer
// referenced.
func (s *Service) DeleteAccount(ctx context.Context, viewer Viewer) ([]string, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	var filenames []string
	err := s.store.WithTx(ctx, "delete account", func(tx repositories.Store) error {
		user, err := tx.GetUser(ctx, viewer.Username)
		if err != nil {
			return translate(err, "deleting account %s", viewer.Username)
		}
		posts, err := tx.PostsByOwner(ctx, viewer.Username)
		if err != nil {
			return err
		}
		if err := tx.DeleteUserCascade(ctx, viewer.Username); err != nil {
			return err
		}

		filenames = append(filenames, user.Filename)
		for _, p := range posts {
			filenames = append(filenames, p.Filename)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filenames, nil
}
