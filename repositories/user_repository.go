package repositories

import (
	"context"

	"photofeed/models"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

func (s *gormStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "error getting user")
	}
	return &user, nil
}

func (s *gormStore) CreateUser(ctx context.Context, user *models.User) error {
	return errors.Wrap(s.conn(ctx).Create(user).Error, "error creating user")
}

func (s *gormStore) ProfileImage(ctx context.Context, username string) (string, error) {
	var filenames []string
	err := s.conn(ctx).Model(&models.User{}).Where("username = ?", username).Limit(1).Pluck("filename", &filenames).Error
	if err != nil {
		return "", errors.Wrap(err, "error getting profile image")
	}
	if len(filenames) == 0 {
		return "", errors.Wrapf(ErrNotFound, "no user %s", username)
	}
	return filenames[0], nil
}

func (s *gormStore) ProfileImages(ctx context.Context, usernames []string) (map[string]string, error) {
	images := make(map[string]string, len(usernames))
	if len(usernames) == 0 {
		return images, nil
	}

	var users []models.User
	err := s.conn(ctx).Select("username", "filename").Where("username IN ?", usernames).Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "error getting profile images")
	}
	for _, u := range users {
		images[u.Username] = u.Filename
	}
	return images, nil
}

func (s *gormStore) DeleteUserCascade(ctx context.Context, username string) error {
	db := s.conn(ctx)

	var postIDs []int64
	if err := db.Model(&models.Post{}).Where("owner = ?", username).Pluck("postid", &postIDs).Error; err != nil {
		return errors.Wrap(err, "error listing posts of user")
	}

	comments := db.Where("owner = ?", username)
	likes := db.Where("owner = ?", username)
	if len(postIDs) > 0 {
		comments = comments.Or("postid IN ?", postIDs)
		likes = likes.Or("postid IN ?", postIDs)
	}
	if err := comments.Delete(&models.Comment{}).Error; err != nil {
		return errors.Wrap(err, "error deleting comments of user")
	}
	if err := likes.Delete(&models.Like{}).Error; err != nil {
		return errors.Wrap(err, "error deleting likes of user")
	}
	if err := db.Where("owner = ?", username).Delete(&models.Post{}).Error; err != nil {
		return errors.Wrap(err, "error deleting posts of user")
	}
	if err := db.Where("username1 = ? OR username2 = ?", username, username).Delete(&models.Follow{}).Error; err != nil {
		return errors.Wrap(err, "error deleting follow edges of user")
	}
	res := db.Where("username = ?", username).Delete(&models.User{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "error deleting user")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "no user %s", username)
	}
	return nil
}

// Followees returns the usernames that username follows.
func (s *gormStore) Followees(ctx context.Context, username string) ([]string, error) {
	var followees []string
	err := s.conn(ctx).Model(&models.Follow{}).Where("username1 = ?", username).Pluck("username2", &followees).Error
	return followees, errors.Wrap(err, "error fetching followees")
}

// Followers returns the usernames following username.
func (s *gormStore) Followers(ctx context.Context, username string) ([]string, error) {
	var followers []string
	err := s.conn(ctx).Model(&models.Follow{}).Where("username2 = ?", username).Pluck("username1", &followers).Error
	return followers, errors.Wrap(err, "error fetching followers")
}

func (s *gormStore) FollowExists(ctx context.Context, follower, followee string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Follow{}).
		Where("username1 = ? AND username2 = ?", follower, followee).
		Count(&count).Error
	return count > 0, errors.Wrap(err, "error checking follow")
}

func (s *gormStore) InsertFollow(ctx context.Context, follower, followee string) (bool, error) {
	res := s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{Follower: follower, Followee: followee})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "error inserting follow")
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) DeleteFollow(ctx context.Context, follower, followee string) (bool, error) {
	res := s.conn(ctx).Where("username1 = ? AND username2 = ?", follower, followee).Delete(&models.Follow{})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "error deleting follow")
	}
	return res.RowsAffected > 0, nil
}
