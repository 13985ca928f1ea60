package feed_test

import (
	"context"
	"math"
	"testing"

	"photofeed/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bobPosts(t *testing.T) (*fixture, feed.Viewer) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	f.user(t, "bob")
	f.follow(t, "alice", "bob")
	for _, id := range []int64{1, 3, 5} {
		f.post(t, id, "bob")
	}
	return f, alice
}

func TestPageFollowsSequence(t *testing.T) {
	f, alice := bobPosts(t)
	ctx := context.Background()

	first, err := f.service.Page(ctx, alice, feed.PageRequest{Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 3}, postIDs(first.Results))
	assert.EqualValues(t, 5, first.Ceiling)
	assert.True(t, first.HasNext)

	next := first.Next()
	assert.Equal(t, 2, next.Size)
	assert.Equal(t, 1, next.Page)
	require.NotNil(t, next.PostIDLTE)
	assert.EqualValues(t, 5, *next.PostIDLTE)

	second, err := f.service.Page(ctx, alice, next)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, postIDs(second.Results))
	assert.False(t, second.HasNext)
}

func TestPageCeilingIgnoresNewerPosts(t *testing.T) {
	f, alice := bobPosts(t)
	ctx := context.Background()

	first, err := f.service.Page(ctx, alice, feed.PageRequest{Size: 2})
	require.NoError(t, err)

	f.post(t, 9, "bob")
	f.post(t, 10, "alice")

	second, err := f.service.Page(ctx, alice, first.Next())
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, postIDs(second.Results))

	again, err := f.service.Page(ctx, alice, first.Next())
	require.NoError(t, err)
	assert.Equal(t, postIDs(second.Results), postIDs(again.Results))
}

func TestPageWindowsBeforeFiltering(t *testing.T) {
	f, alice := bobPosts(t)
	f.user(t, "carol")
	f.post(t, 6, "carol")

	page, err := f.service.Page(context.Background(), alice, feed.PageRequest{Size: 2})
	require.NoError(t, err)

	// Post 6 takes a slot in the window but is filtered out, so the page is
	// short and the sequence ends even though post 3 is visible.
	assert.Equal(t, []int64{5}, postIDs(page.Results))
	assert.EqualValues(t, 6, page.Ceiling)
	assert.False(t, page.HasNext)
}

func TestPageExhaustion(t *testing.T) {
	f, alice := bobPosts(t)

	page, err := f.service.Page(context.Background(), alice, feed.PageRequest{Size: 10, Page: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.False(t, page.HasNext)
	assert.Zero(t, page.Ceiling)
}

func TestPageExplicitCeiling(t *testing.T) {
	f, alice := bobPosts(t)
	ceiling := int64(3)

	page, err := f.service.Page(context.Background(), alice, feed.PageRequest{Size: 10, PostIDLTE: &ceiling})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, postIDs(page.Results))
	assert.EqualValues(t, 3, page.Ceiling)
}

func TestPageSizeZero(t *testing.T) {
	f, alice := bobPosts(t)

	page, err := f.service.Page(context.Background(), alice, feed.PageRequest{Size: 0})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.True(t, page.HasNext)
}

func TestPageRejectsBadRequests(t *testing.T) {
	f, alice := bobPosts(t)
	ctx := context.Background()

	for name, req := range map[string]feed.PageRequest{
		"negative size": {Size: -1},
		"negative page": {Size: 2, Page: -1},
		"overflow":      {Size: math.MaxInt, Page: 2},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.Page(ctx, alice, req)
			assert.ErrorIs(t, err, feed.ErrInvalidArgument)
		})
	}

	_, err := f.service.Page(ctx, feed.Viewer{}, feed.PageRequest{Size: 2})
	assert.ErrorIs(t, err, feed.ErrUnauthenticated)
}
