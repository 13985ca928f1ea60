package feed

import (
	"context"
)

// Profile is a user's page as seen by one viewer.
type Profile struct {
	Username      string
	Fullname      string
	Image         string
	ViewerIsUser  bool
	ViewerFollows bool
	NumFollowers  int
	NumFollowing  int
	Posts         []PostView
}

// Profile returns username's account summary and all of their posts. Like
// single posts, profiles are readable by any authenticated viewer.
func (s *Service) Profile(ctx context.Context, viewer Viewer, username string) (*Profile, error) {
	vis, err := s.LoadVisibility(ctx, viewer)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return nil, translate(err, "loading profile of %s", username)
	}
	followers, err := s.store.Followers(ctx, username)
	if err != nil {
		return nil, translate(err, "loading followers of %s", username)
	}
	following, err := s.store.Followees(ctx, username)
	if err != nil {
		return nil, translate(err, "loading followees of %s", username)
	}
	posts, err := s.store.PostsByOwner(ctx, username)
	if err != nil {
		return nil, translate(err, "loading posts of %s", username)
	}

	views, err := s.Aggregate(ctx, viewer, vis, posts)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Username:      user.Username,
		Fullname:      user.Fullname,
		Image:         user.Filename,
		ViewerIsUser:  user.Username == viewer.Username,
		ViewerFollows: vis.Follows(user.Username),
		NumFollowers:  len(followers),
		NumFollowing:  len(following),
		Posts:         views,
	}, nil
}
