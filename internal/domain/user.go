package domain

import "time"

// User represents a member profile in the system.
// Identity and session management live in an external identity service;
// this record holds the profile and its denormalized social counters.
type User struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"` // Canonical form: lowercase, hyphenated
	DisplayName string    `json:"display_name"`
	AvatarRef   string    `json:"avatar_ref,omitempty"` // Opaque media reference, storage is external
	Bio         string    `json:"bio,omitempty"`
	// Denormalized counters, mutated only in the same transaction as the
	// follow relation they reflect.
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// ProfileSnapshot is the denormalized display info copied into
// conversations and notifications. Fetched best-effort before any
// transaction; never inside one.
type ProfileSnapshot struct {
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
}

// PlaceholderProfile is used when a profile lookup fails or the user is gone.
func PlaceholderProfile() ProfileSnapshot {
	return ProfileSnapshot{DisplayName: "Mural member"}
}

// Snapshot returns the user's display info for denormalization.
func (u *User) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		DisplayName: u.DisplayName,
		AvatarRef:   u.AvatarRef,
	}
}
