package domain

import "time"

// Community is a named group users can join. MembersCount follows the
// same discipline as the social counters: it only changes in the same
// transaction as the membership record it reflects.
type Community struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"` // Canonical form, unique
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	AvatarRef    string    `json:"avatar_ref,omitempty"`
	OwnerID      string    `json:"owner_id"`
	MembersCount int       `json:"members_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (c *Community) Touch() {
	c.UpdatedAt = time.Now()
}

// Membership records a user's membership in a community.
type Membership struct {
	UserID      string    `json:"user_id"`
	CommunityID string    `json:"community_id"`
	JoinedAt    time.Time `json:"joined_at"`
}

// MembershipKey derives the deterministic storage identity of a membership.
func MembershipKey(userID, communityID string) string {
	return userID + ":" + communityID
}
