package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasTag(t *testing.T) {
	t.Run("nil tags", func(t *testing.T) {
		assert.False(t, HasTag(nil, FavoriteTag))
	})

	t.Run("empty tags", func(t *testing.T) {
		assert.False(t, HasTag([]Tag{}, FavoriteTag))
	})

	t.Run("exact match", func(t *testing.T) {
		tags := []Tag{{Name: "Login"}, {Name: "Favorite"}}
		assert.True(t, HasTag(tags, FavoriteTag))
	})

	t.Run("is case sensitive", func(t *testing.T) {
		assert.False(t, HasTag([]Tag{{Name: "favorite"}}, FavoriteTag))
		assert.False(t, HasTag([]Tag{{Name: "FAVORITE"}}, FavoriteTag))
	})

	t.Run("does not match partially", func(t *testing.T) {
		assert.False(t, HasTag([]Tag{{Name: "Favorites"}}, FavoriteTag))
		assert.False(t, HasTag([]Tag{{Name: " Favorite"}}, FavoriteTag))
		assert.False(t, HasTag([]Tag{{Name: "Fav"}}, FavoriteTag))
	})
}

func TestResult_IsFavorite(t *testing.T) {
	t.Run("nil result", func(t *testing.T) {
		var r *Result
		assert.False(t, r.IsFavorite())
	})

	t.Run("tagged result", func(t *testing.T) {
		r := &Result{ID: 42, Tags: []Tag{{Name: FavoriteTag}}}
		assert.True(t, r.IsFavorite())
	})

	t.Run("untagged result", func(t *testing.T) {
		r := &Result{ID: 7}
		assert.False(t, r.IsFavorite())
	})
}

func TestResult_TagNames(t *testing.T) {
	r := &Result{Tags: []Tag{{Name: "b"}, {Name: "a"}}}
	assert.Equal(t, []string{"b", "a"}, r.TagNames())
	assert.Empty(t, (&Result{}).TagNames())
}
