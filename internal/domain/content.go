package domain

import "time"

// ContentType distinguishes the flavors of content items.
type ContentType string

const (
	ContentPost    ContentType = "post"
	ContentArtwork ContentType = "artwork"
)

// Valid checks if the content type is valid.
func (t ContentType) Valid() bool {
	return t == ContentPost || t == ContentArtwork
}

// SubjectType maps a content type to its relation subject type.
func (t ContentType) SubjectType() SubjectType {
	if t == ContentArtwork {
		return SubjectArtwork
	}
	return SubjectPost
}

// Content is a post or artwork published by a user.
type Content struct {
	ID       string      `json:"id"`
	AuthorID string      `json:"author_id"`
	Type     ContentType `json:"type"`
	Title    string      `json:"title,omitempty"`
	Body     string      `json:"body,omitempty"`
	MediaRef string      `json:"media_ref,omitempty"` // Opaque reference, upload/storage is external
	// Denormalized counters, mutated only in the same transaction as the
	// relation or comment record they reflect.
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (c *Content) Touch() {
	c.UpdatedAt = time.Now()
}

// SubjectRef returns the relation subject identifying this content item.
func (c *Content) SubjectRef() SubjectRef {
	return SubjectRef{Type: c.Type.SubjectType(), ID: c.ID}
}
