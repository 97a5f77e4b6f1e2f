package domain

import "time"

// RelationKind identifies the type of a directed relation edge.
type RelationKind string

const (
	// RelationFollow is a user-to-user follow edge.
	RelationFollow RelationKind = "follow"
	// RelationLike is a user-to-content like mark.
	RelationLike RelationKind = "like"
	// RelationBookmark is a user-to-content bookmark mark.
	RelationBookmark RelationKind = "bookmark"
)

// Valid checks if the kind is valid.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationFollow, RelationLike, RelationBookmark:
		return true
	default:
		return false
	}
}

// SubjectType identifies what a relation points at.
type SubjectType string

const (
	SubjectUser    SubjectType = "user"
	SubjectPost    SubjectType = "post"
	SubjectArtwork SubjectType = "artwork"
	SubjectComment SubjectType = "comment"
)

// Valid checks if the subject type is valid.
func (t SubjectType) Valid() bool {
	switch t {
	case SubjectUser, SubjectPost, SubjectArtwork, SubjectComment:
		return true
	default:
		return false
	}
}

// IsContent reports whether the subject is a content item (likeable/bookmarkable).
func (t SubjectType) IsContent() bool {
	return t == SubjectPost || t == SubjectArtwork
}

// SubjectRef identifies the target of a relation.
type SubjectRef struct {
	Type SubjectType `json:"type"`
	ID   string      `json:"id"`
}

// Relation is a directed edge between an actor and a subject.
// Records are created by a toggle-on and deleted by a toggle-off;
// they are never updated in place.
type Relation struct {
	ActorID   string       `json:"actor_id"`
	Subject   SubjectRef   `json:"subject"`
	Kind      RelationKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}

// RelationKey derives the deterministic storage identity of a relation.
// The key is a pure function of (actor, subject, kind), so an
// existence-check-then-act toggle is idempotent without a secondary index.
func RelationKey(actorID string, subject SubjectRef, kind RelationKind) string {
	return string(kind) + ":" + actorID + ":" + string(subject.Type) + ":" + subject.ID
}

// Key returns the relation's deterministic storage identity.
func (r *Relation) Key() string {
	return RelationKey(r.ActorID, r.Subject, r.Kind)
}
