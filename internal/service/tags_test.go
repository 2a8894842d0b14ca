package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookly/internal/transport"
)

func TestTags_CreateUniqueName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tag, err := e.tags.CreateTag(ctx, transport.TagRequest{Name: "scifi"})
	require.NoError(t, err)
	assert.Equal(t, "scifi", tag.Name)

	_, err = e.tags.CreateTag(ctx, transport.TagRequest{Name: " scifi "})
	assert.ErrorIs(t, err, ErrTagAlreadyExists)

	_, err = e.tags.CreateTag(ctx, transport.TagRequest{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTags_AddToBookReusesExisting(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "ann", "ann@example.com")
	book := seedBook(t, e, e.actor(t, "ann@example.com"), "Dune")

	_, err := e.tags.CreateTag(ctx, transport.TagRequest{Name: "scifi"})
	require.NoError(t, err)

	got, err := e.tags.AddTagsToBook(ctx, book.UID, transport.TagsRequest{Tags: []transport.TagRequest{{Name: "scifi"}, {Name: "classic"}}})
	require.NoError(t, err)
	assert.Len(t, got.Tags, 2)

	all, err := e.tags.GetTags(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = e.tags.AddTagsToBook(ctx, uuid.New(), transport.TagsRequest{Tags: []transport.TagRequest{{Name: "x"}}})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestTags_UpdateAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a, err := e.tags.CreateTag(ctx, transport.TagRequest{Name: "a"})
	require.NoError(t, err)
	_, err = e.tags.CreateTag(ctx, transport.TagRequest{Name: "b"})
	require.NoError(t, err)

	_, err = e.tags.UpdateTag(ctx, a.UID, transport.TagRequest{Name: "b"})
	assert.ErrorIs(t, err, ErrTagAlreadyExists)

	renamed, err := e.tags.UpdateTag(ctx, a.UID, transport.TagRequest{Name: "c"})
	require.NoError(t, err)
	assert.Equal(t, "c", renamed.Name)

	_, err = e.tags.UpdateTag(ctx, uuid.New(), transport.TagRequest{Name: "d"})
	assert.ErrorIs(t, err, ErrTagNotFound)

	require.NoError(t, e.tags.DeleteTag(ctx, a.UID))
	assert.ErrorIs(t, e.tags.DeleteTag(ctx, a.UID), ErrTagNotFound)
}
