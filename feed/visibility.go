package feed

import "context"

// Visibility is the set of post owners a viewer may see: the viewer and
// everyone the viewer follows. It is loaded once per request.
type Visibility struct {
	viewer    string
	followees map[string]struct{}
}

// LoadVisibility fetches the viewer's follow edges into a membership set.
func (s *Service) LoadVisibility(ctx context.Context, viewer Viewer) (*Visibility, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	followees, err := s.store.Followees(ctx, viewer.Username)
	if err != nil {
		return nil, translate(err, "loading followees of %s", viewer.Username)
	}
	return NewVisibility(viewer.Username, followees), nil
}

func NewVisibility(viewer string, followees []string) *Visibility {
	set := make(map[string]struct{}, len(followees))
	for _, f := range followees {
		set[f] = struct{}{}
	}
	return &Visibility{viewer: viewer, followees: set}
}

// Visible reports whether a post owned by owner belongs in the feed.
func (v *Visibility) Visible(owner string) bool {
	return owner == v.viewer || v.Follows(owner)
}

// Follows reports whether the viewer follows owner.
func (v *Visibility) Follows(owner string) bool {
	_, ok := v.followees[owner]
	return ok
}
