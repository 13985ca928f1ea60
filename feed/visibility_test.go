package feed_test

import (
	"context"
	"testing"

	"photofeed/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibility(t *testing.T) {
	vis := feed.NewVisibility("alice", []string{"bob"})

	assert.True(t, vis.Visible("alice"))
	assert.True(t, vis.Visible("bob"))
	assert.False(t, vis.Visible("carol"))

	assert.True(t, vis.Follows("bob"))
	assert.False(t, vis.Follows("alice"))
}

func TestVisibilityIsDirected(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice")
	bob := f.user(t, "bob")
	f.follow(t, "alice", "bob")

	vis, err := f.service.LoadVisibility(context.Background(), bob)
	require.NoError(t, err)
	assert.False(t, vis.Visible("alice"))
	assert.True(t, vis.Visible("bob"))
}

func TestLoadVisibilityRequiresViewer(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.LoadVisibility(context.Background(), feed.Viewer{})
	assert.ErrorIs(t, err, feed.ErrUnauthenticated)
}
