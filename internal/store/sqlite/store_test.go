package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedResult(t *testing.T, s *Store, url string) core.Result {
	t.Helper()
	r, err := s.CreateResult(context.Background(), core.Result{URL: url, Title: "title", ResponseCode: 200})
	require.NoError(t, err)
	return r
}

func TestStore_CreateAndGetResult(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateResult(ctx, core.Result{
		URL:          "https://example.com",
		Title:        "Example",
		ResponseCode: 200,
		Tags:         []core.Tag{{Name: "Login"}},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.ProbedAt.IsZero())

	got, err := s.GetResult(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, "Example", got.Title)
	assert.Equal(t, 200, got.ResponseCode)
	assert.Equal(t, []string{"Login"}, got.TagNames())
}

func TestStore_GetResult_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetResult(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrResultNotFound)
}

func TestStore_AddRemoveTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := seedResult(t, s, "https://a.example")

	// Initially not favorited
	got, err := s.GetResult(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFavorite())

	require.NoError(t, s.AddTag(ctx, r.ID, core.FavoriteTag))

	got, err = s.GetResult(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite())

	require.NoError(t, s.RemoveTag(ctx, r.ID, core.FavoriteTag))

	got, err = s.GetResult(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFavorite())
}

func TestStore_AddTag_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := seedResult(t, s, "https://a.example")

	require.NoError(t, s.AddTag(ctx, r.ID, core.FavoriteTag))
	require.NoError(t, s.AddTag(ctx, r.ID, core.FavoriteTag))

	got, err := s.GetResult(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 1)
}

func TestStore_AddTag_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := seedResult(t, s, "https://a.example")

	t.Run("empty tag name", func(t *testing.T) {
		assert.ErrorIs(t, s.AddTag(ctx, r.ID, ""), store.ErrEmptyTagName)
	})

	t.Run("unknown result", func(t *testing.T) {
		assert.ErrorIs(t, s.AddTag(ctx, 999, core.FavoriteTag), store.ErrResultNotFound)
	})
}

func TestStore_RemoveTag_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := seedResult(t, s, "https://a.example")

	t.Run("unknown tag", func(t *testing.T) {
		assert.ErrorIs(t, s.RemoveTag(ctx, r.ID, "Nope"), store.ErrTagNotFound)
	})

	t.Run("unknown result", func(t *testing.T) {
		require.NoError(t, s.AddTag(ctx, r.ID, core.FavoriteTag))
		assert.ErrorIs(t, s.RemoveTag(ctx, 999, core.FavoriteTag), store.ErrResultNotFound)
	})

	t.Run("tag not on result is not an error", func(t *testing.T) {
		other := seedResult(t, s, "https://b.example")
		assert.NoError(t, s.RemoveTag(ctx, other.ID, core.FavoriteTag))
	})
}

func TestStore_ListResults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedResult(t, s, "https://a.example")
	b := seedResult(t, s, "https://b.example")
	require.NoError(t, s.AddTag(ctx, b.ID, core.FavoriteTag))

	t.Run("all results", func(t *testing.T) {
		results, err := s.ListResults(ctx, "")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, a.ID, results[0].ID)
		assert.False(t, results[0].IsFavorite())
		assert.True(t, results[1].IsFavorite())
	})

	t.Run("filtered by tag", func(t *testing.T) {
		results, err := s.ListResults(ctx, core.FavoriteTag)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, b.ID, results[0].ID)
	})
}

func TestStore_ListTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedResult(t, s, "https://a.example")
	b := seedResult(t, s, "https://b.example")

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	require.NoError(t, s.AddTag(ctx, a.ID, core.FavoriteTag))
	require.NoError(t, s.AddTag(ctx, b.ID, core.FavoriteTag))
	require.NoError(t, s.AddTag(ctx, b.ID, "Admin"))

	tags, err = s.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "Favorite"}, tags)
}

func TestStore_Closed(t *testing.T) {
	s, err := NewInMemory()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	ctx := context.Background()

	assert.ErrorIs(t, s.AddTag(ctx, 1, core.FavoriteTag), store.ErrStoreClosed)
	assert.ErrorIs(t, s.RemoveTag(ctx, 1, core.FavoriteTag), store.ErrStoreClosed)
	_, err = s.ListResults(ctx, "")
	assert.ErrorIs(t, err, store.ErrStoreClosed)

	// Closing twice is fine
	assert.NoError(t, s.Close())
}

func TestStore_FilePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "favtag.db")
	ctx := context.Background()

	s, err := New(dbPath)
	require.NoError(t, err)
	r := seedResult(t, s, "https://a.example")
	require.NoError(t, s.AddTag(ctx, r.ID, core.FavoriteTag))
	require.NoError(t, s.Close())

	s, err = New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetResult(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite())
}
