package repositories

import (
	"context"

	"photofeed/models"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

func (s *gormStore) LikesForPosts(ctx context.Context, postIDs []int64) ([]models.Like, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var likes []models.Like
	err := s.conn(ctx).Where("postid IN ?", postIDs).Order("likeid ASC").Find(&likes).Error
	return likes, errors.Wrap(err, "error fetching likes")
}

func (s *gormStore) FindLike(ctx context.Context, likeID int64) (*models.Like, error) {
	var like models.Like
	if err := s.forUpdate(ctx).Where("likeid = ?", likeID).First(&like).Error; err != nil {
		return nil, notFound(err, "error getting like")
	}
	return &like, nil
}

func (s *gormStore) FindLikeByOwner(ctx context.Context, owner string, postID int64) (*models.Like, error) {
	var like models.Like
	if err := s.forUpdate(ctx).Where("owner = ? AND postid = ?", owner, postID).First(&like).Error; err != nil {
		return nil, notFound(err, "error getting like")
	}
	return &like, nil
}

func (s *gormStore) InsertLikeIfAbsent(ctx context.Context, owner string, postID int64) (*models.Like, bool, error) {
	like := &models.Like{Owner: owner, PostID: postID}
	res := s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return nil, false, errors.Wrap(res.Error, "error inserting like")
	}
	if res.RowsAffected > 0 {
		return like, true, nil
	}

	existing, err := s.FindLikeByOwner(ctx, owner, postID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *gormStore) DeleteLike(ctx context.Context, likeID int64) error {
	return errors.Wrap(s.conn(ctx).Where("likeid = ?", likeID).Delete(&models.Like{}).Error, "error deleting like")
}

func (s *gormStore) CommentsForPosts(ctx context.Context, postIDs []int64) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := s.conn(ctx).Where("postid IN ?", postIDs).Order("commentid ASC").Find(&comments).Error
	return comments, errors.Wrap(err, "error fetching comments")
}

func (s *gormStore) FindComment(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	if err := s.forUpdate(ctx).Where("commentid = ?", commentID).First(&comment).Error; err != nil {
		return nil, notFound(err, "error getting comment")
	}
	return &comment, nil
}

func (s *gormStore) InsertComment(ctx context.Context, comment *models.Comment) error {
	return errors.Wrap(s.conn(ctx).Create(comment).Error, "error inserting comment")
}

func (s *gormStore) DeleteComment(ctx context.Context, commentID int64) error {
	return errors.Wrap(s.conn(ctx).Where("commentid = ?", commentID).Delete(&models.Comment{}).Error, "error deleting comment")
}
