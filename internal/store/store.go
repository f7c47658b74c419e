package store

import (
	"context"
	"errors"

	"github.com/artpar/favtag/internal/core"
)

// Common errors.
var (
	ErrStoreClosed    = errors.New("tag store is closed")
	ErrResultNotFound = errors.New("result not found")
	ErrTagNotFound    = errors.New("tag not found")
	ErrEmptyTagName   = errors.New("tag name is empty")
)

// Store is the authoritative persistence for results and their tags.
// Tags are stored once by name and associated with results many-to-many.
type Store interface {
	// CreateResult inserts a result and returns it with its assigned ID.
	CreateResult(ctx context.Context, result core.Result) (core.Result, error)

	// GetResult returns a result with its tags.
	GetResult(ctx context.Context, id uint) (core.Result, error)

	// ListResults returns results ordered by ID. If tag is non-empty only
	// results carrying that tag are returned.
	ListResults(ctx context.Context, tag string) ([]core.Result, error)

	// AddTag associates the named tag with a result, creating the tag if
	// needed. Adding an existing association is not an error.
	AddTag(ctx context.Context, resultID uint, tagName string) error

	// RemoveTag removes the association between a tag and a result.
	RemoveTag(ctx context.Context, resultID uint, tagName string) error

	// ListTags returns the distinct tag names in use.
	ListTags(ctx context.Context) ([]string, error)

	// Close closes the store.
	Close() error
}
