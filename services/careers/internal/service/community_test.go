package service

import (
	"context"
	"testing"

	"abletech/common/errors"
	"abletech/common/events"
	"abletech/services/careers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityPostLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.community.Create(ctx, &models.CommunityPost{Author: "Ali", AuthorEmail: "ali@example.com"})
	requireType(t, err, errors.ErrTypeInvalidInput)

	p, err := f.community.Create(ctx, &models.CommunityPost{Author: "Ali", AuthorEmail: "ali@example.com", Content: "Hello all"})
	require.NoError(t, err)

	liked, err := f.community.ToggleLike(ctx, p.ID, "sara@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.Equal(t, []string{"sara@example.com"}, liked.LikedBy)

	unliked, err := f.community.ToggleLike(ctx, p.ID, "sara@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)
	assert.Empty(t, unliked.LikedBy)

	_, err = f.community.ToggleLike(ctx, "missing", "sara@example.com")
	requireType(t, err, errors.ErrTypeNotFound)

	withComment, err := f.community.Comment(ctx, p.ID, &models.Comment{Content: "Welcome!"})
	require.NoError(t, err)
	require.Len(t, withComment.Comments, 1)
	assert.Equal(t, "Anonymous", withComment.Comments[0].Author)

	_, err = f.community.Comment(ctx, p.ID, &models.Comment{Author: "Sara"})
	requireType(t, err, errors.ErrTypeInvalidInput)

	requireType(t, f.community.Delete(ctx, p.ID, "sara@example.com"), errors.ErrTypeUnauthorized)
	requireType(t, f.community.Delete(ctx, p.ID, ""), errors.ErrTypeInvalidInput)
	require.NoError(t, f.community.Delete(ctx, p.ID, "ali@example.com"))

	posts, err := f.community.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	assert.Equal(t, []events.Type{events.PostCreated, events.PostLiked}, f.publisher.types())
}
