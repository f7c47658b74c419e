package tagging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/store"
	"github.com/artpar/favtag/internal/store/sqlite"
)

type fakeService struct {
	addErr    error
	removeErr error
	panicWith any
	calls     []Op
}

func (f *fakeService) AddTag(ctx context.Context, resultID uint, tagName string) error {
	f.calls = append(f.calls, OpAdd)
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.addErr
}

func (f *fakeService) RemoveTag(ctx context.Context, resultID uint, tagName string) error {
	f.calls = append(f.calls, OpRemove)
	return f.removeErr
}

func TestCall(t *testing.T) {
	ctx := context.Background()

	t.Run("success dispatches by op", func(t *testing.T) {
		svc := &fakeService{}
		require.NoError(t, Call(ctx, svc, OpAdd, 1, core.FavoriteTag))
		require.NoError(t, Call(ctx, svc, OpRemove, 1, core.FavoriteTag))
		assert.Equal(t, []Op{OpAdd, OpRemove}, svc.calls)
	})

	t.Run("failure is wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		svc := &fakeService{addErr: cause}

		err := Call(ctx, svc, OpAdd, 7, core.FavoriteTag)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRemoteCall)
		assert.ErrorIs(t, err, cause)

		var rce *RemoteCallError
		require.ErrorAs(t, err, &rce)
		assert.Equal(t, OpAdd, rce.Op)
		assert.Equal(t, uint(7), rce.ResultID)
		assert.Equal(t, core.FavoriteTag, rce.TagName)
		assert.Contains(t, err.Error(), `add tag "Favorite" on result 7`)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		svc := &fakeService{panicWith: "boom"}

		err := Call(ctx, svc, OpAdd, 1, core.FavoriteTag)
		assert.ErrorIs(t, err, ErrRemoteCall)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("nil service", func(t *testing.T) {
		assert.ErrorIs(t, Call(ctx, nil, OpRemove, 1, core.FavoriteTag), ErrRemoteCall)
	})

	t.Run("unknown op", func(t *testing.T) {
		assert.ErrorIs(t, Call(ctx, &fakeService{}, Op("rename"), 1, "x"), ErrRemoteCall)
	})
}

func TestCall_AgainstStore(t *testing.T) {
	s, err := sqlite.NewInMemory()
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	r, err := s.CreateResult(ctx, core.Result{URL: "https://example.com"})
	require.NoError(t, err)

	require.NoError(t, Call(ctx, s, OpAdd, r.ID, core.FavoriteTag))

	got, err := s.GetResult(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite())

	require.NoError(t, Call(ctx, s, OpRemove, r.ID, core.FavoriteTag))

	err = Call(ctx, s, OpAdd, 999, core.FavoriteTag)
	assert.ErrorIs(t, err, ErrRemoteCall)
	assert.ErrorIs(t, err, store.ErrResultNotFound)
}
