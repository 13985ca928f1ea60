package feed

import (
	"context"
	"fmt"
	"time"

	"photofeed/models"

	"github.com/dustin/go-humanize"
)

// CommentView is a comment as shown under a post.
type CommentView struct {
	CommentID  int64
	Owner      string
	Text       string
	ViewerOwns bool
}

// PostView is a post with everything needed to display it to one viewer.
type PostView struct {
	PostID     int64
	Owner      string
	OwnerImage string
	Image      string
	Created    time.Time
	// Age is Created relative to the request time, e.g. "3 hours ago".
	Age      string
	NumLikes int
	Comments []CommentView

	// ViewerLikeID is set only when ViewerLikes is true.
	ViewerLikes        bool
	ViewerLikeID       int64
	ViewerOwns         bool
	ViewerFollowsOwner bool
}

// Aggregate joins likes, comments and owner profile images onto posts that
// are already known to be visible. Output order follows posts.
func (s *Service) Aggregate(ctx context.Context, viewer Viewer, vis *Visibility, posts []models.Post) ([]PostView, error) {
	if len(posts) == 0 {
		return []PostView{}, nil
	}

	ids := make([]int64, 0, len(posts))
	owners := make([]string, 0, len(posts))
	seenOwner := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		ids = append(ids, p.PostID)
		if _, ok := seenOwner[p.Owner]; !ok {
			seenOwner[p.Owner] = struct{}{}
			owners = append(owners, p.Owner)
		}
	}

	likes, err := s.store.LikesForPosts(ctx, ids)
	if err != nil {
		return nil, translate(err, "aggregating likes")
	}
	comments, err := s.store.CommentsForPosts(ctx, ids)
	if err != nil {
		return nil, translate(err, "aggregating comments")
	}
	images, err := s.store.ProfileImages(ctx, owners)
	if err != nil {
		return nil, translate(err, "aggregating profile images")
	}

	now := s.now()
	views := make([]PostView, len(posts))
	byID := make(map[int64]*PostView, len(posts))
	for i, p := range posts {
		image, ok := images[p.Owner]
		if !ok {
			return nil, fmt.Errorf("post %d owner %q has no user record: %w", p.PostID, p.Owner, ErrInconsistent)
		}
		views[i] = PostView{
			PostID:             p.PostID,
			Owner:              p.Owner,
			OwnerImage:         image,
			Image:              p.Filename,
			Created:            p.Created,
			Age:                humanize.RelTime(p.Created, now, "ago", "from now"),
			Comments:           []CommentView{},
			ViewerOwns:         p.Owner == viewer.Username,
			ViewerFollowsOwner: vis.Follows(p.Owner),
		}
		byID[p.PostID] = &views[i]
	}

	for _, l := range likes {
		pv, ok := byID[l.PostID]
		if !ok {
			continue
		}
		pv.NumLikes++
		if l.Owner == viewer.Username {
			pv.ViewerLikes = true
			pv.ViewerLikeID = l.LikeID
		}
	}

	for _, c := range comments {
		pv, ok := byID[c.PostID]
		if !ok {
			continue
		}
		pv.Comments = append(pv.Comments, CommentView{
			CommentID:  c.CommentID,
			Owner:      c.Owner,
			Text:       c.Text,
			ViewerOwns: c.Owner == viewer.Username,
		})
	}

	return views, nil
}

// Feed returns every post visible to viewer, newest first, fully aggregated.
func (s *Service) Feed(ctx context.Context, viewer Viewer) ([]PostView, error) {
	vis, err := s.LoadVisibility(ctx, viewer)
	if err != nil {
		return nil, err
	}

	posts, err := s.store.AllPosts(ctx)
	if err != nil {
		return nil, translate(err, "loading feed")
	}

	visible := posts[:0]
	for _, p := range posts {
		if vis.Visible(p.Owner) {
			visible = append(visible, p)
		}
	}

	return s.Aggregate(ctx, viewer, vis, visible)
}

// Post returns a single aggregated post. Any authenticated viewer may read
// any post by id.
func (s *Service) Post(ctx context.Context, viewer Viewer, postID int64) (*PostView, error) {
	vis, err := s.LoadVisibility(ctx, viewer)
	if err != nil {
		return nil, err
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, translate(err, "loading post %d", postID)
	}

	views, err := s.Aggregate(ctx, viewer, vis, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
