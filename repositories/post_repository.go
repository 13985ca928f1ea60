package repositories

import (
	"context"

	"photofeed/models"

	"github.com/pkg/errors"
)

func (s *gormStore) ListPosts(ctx context.Context, ceiling *int64, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	q := s.conn(ctx).Order("postid DESC")
	if ceiling != nil {
		q = q.Where("postid <= ?", *ceiling)
	}
	err := q.Limit(limit).Offset(offset).Find(&posts).Error
	return posts, errors.Wrap(err, "error listing posts")
}

func (s *gormStore) AllPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.conn(ctx).Order("postid DESC").Find(&posts).Error
	return posts, errors.Wrap(err, "error fetching posts")
}

func (s *gormStore) PostsByOwner(ctx context.Context, owner string) ([]models.Post, error) {
	var posts []models.Post
	err := s.conn(ctx).Where("owner = ?", owner).Order("postid DESC").Find(&posts).Error
	return posts, errors.Wrapf(err, "error fetching posts of %s", owner)
}

func (s *gormStore) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	var post models.Post
	if err := s.forUpdate(ctx).Where("postid = ?", postID).First(&post).Error; err != nil {
		return nil, notFound(err, "error getting post")
	}
	return &post, nil
}

func (s *gormStore) InsertPost(ctx context.Context, post *models.Post) error {
	return errors.Wrap(s.conn(ctx).Create(post).Error, "error inserting post")
}

func (s *gormStore) DeletePostCascade(ctx context.Context, postID int64) error {
	db := s.conn(ctx)
	if err := db.Where("postid = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return errors.Wrap(err, "error deleting comments of post")
	}
	if err := db.Where("postid = ?", postID).Delete(&models.Like{}).Error; err != nil {
		return errors.Wrap(err, "error deleting likes of post")
	}
	if err := db.Where("postid = ?", postID).Delete(&models.Post{}).Error; err != nil {
		return errors.Wrap(err, "error deleting post")
	}
	return nil
}
