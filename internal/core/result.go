package core

import "time"

// FavoriteTag is the tag name that marks a result as a favorite.
const FavoriteTag = "Favorite"

// Tag is a named label attached to a result.
type Tag struct {
	ID   uint   `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// Result is a scanned URL that tags can be attached to.
type Result struct {
	ID           uint      `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	ResponseCode int       `json:"response_code,omitempty"`
	ProbedAt     time.Time `json:"probed_at"`
	Tags         []Tag     `json:"tags"`
}

// HasTag reports whether tags contains a tag whose name is exactly name.
// A nil slice has no tags.
func HasTag(tags []Tag, name string) bool {
	for _, tag := range tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

// IsFavorite reports whether the result carries the Favorite tag.
func (r *Result) IsFavorite() bool {
	if r == nil {
		return false
	}
	return HasTag(r.Tags, FavoriteTag)
}

// TagNames returns the names of the result's tags in order.
func (r *Result) TagNames() []string {
	names := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		names = append(names, tag.Name)
	}
	return names
}
