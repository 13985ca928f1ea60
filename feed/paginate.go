package feed

import (
	"context"
	"fmt"
	"math"

	"photofeed/models"
)

// DefaultPageSize is used when a request does not give a size.
const DefaultPageSize = 10

// PageRequest selects one page of a viewer's feed. A nil PostIDLTE starts a
// new pagination sequence.
type PageRequest struct {
	Size      int
	Page      int
	PostIDLTE *int64
}

// Page is one page of visible posts plus what is needed to continue.
type Page struct {
	Results []models.Post
	Size    int
	Page    int
	// Ceiling anchors every later page of this sequence.
	Ceiling int64
	HasNext bool
}

// Next returns the request for the following page. Only meaningful when
// HasNext is true.
func (p *Page) Next() PageRequest {
	ceiling := p.Ceiling
	return PageRequest{Size: p.Size, Page: p.Page + 1, PostIDLTE: &ceiling}
}

// Page fetches one window of candidates ordered by postid descending and
// keeps those visible to viewer.
//
// The LIMIT/OFFSET window is taken over all posts before the visibility
// filter runs, and HasNext is decided by whether the filtered page is full.
// A page can therefore come back short, ending the sequence, while visible
// posts still exist further down. Clients depend on this behavior.
func (s *Service) Page(ctx context.Context, viewer Viewer, req PageRequest) (*Page, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if req.Size < 0 || req.Page < 0 {
		return nil, fmt.Errorf("size and page must be non-negative: %w", ErrInvalidArgument)
	}
	if req.Page > 0 && req.Size > math.MaxInt/req.Page {
		return nil, fmt.Errorf("page offset out of range: %w", ErrInvalidArgument)
	}

	vis, err := s.LoadVisibility(ctx, viewer)
	if err != nil {
		return nil, err
	}

	var candidates []models.Post
	if req.Size > 0 {
		candidates, err = s.store.ListPosts(ctx, req.PostIDLTE, req.Size, req.Page*req.Size)
		if err != nil {
			return nil, translate(err, "listing page %d", req.Page)
		}
	}

	var ceiling int64
	switch {
	case req.PostIDLTE != nil:
		ceiling = *req.PostIDLTE
	case len(candidates) > 0:
		ceiling = candidates[0].PostID
	}

	results := make([]models.Post, 0, len(candidates))
	for _, p := range candidates {
		if len(results) >= req.Size {
			break
		}
		if vis.Visible(p.Owner) {
			results = append(results, p)
		}
	}

	bounded := results[:0]
	for _, p := range results {
		if p.PostID <= ceiling {
			bounded = append(bounded, p)
		}
	}

	return &Page{
		Results: bounded,
		Size:    req.Size,
		Page:    req.Page,
		Ceiling: ceiling,
		HasNext: len(bounded) >= req.Size,
	}, nil
}
