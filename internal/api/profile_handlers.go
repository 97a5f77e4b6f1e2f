package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/muralapp/mural-server/internal/domain"
	"github.com/muralapp/mural-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createProfile",
		Method:      http.MethodPost,
		Path:        "/api/v1/profiles",
		Summary:     "Create profile",
		Description: "Registers a profile for the authenticated user",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/me",
		Summary:     "Get own profile",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profiles/me",
		Summary:     "Update own profile",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{id}",
		Summary:     "Get profile",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfileByHandle",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/handle/{handle}",
		Summary:     "Get profile by handle",
		Description: "Resolves a profile by handle, normalizing case and diacritics",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfileByHandle)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{id}/followers",
		Summary:     "List followers",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{id}/following",
		Summary:     "List following",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowing)
}

// === DTOs ===

// ProfileResponse contains profile data in API responses.
type ProfileResponse struct {
	ID             string    `json:"id" doc:"User ID"`
	Handle         string    `json:"handle" doc:"Canonical handle"`
	DisplayName    string    `json:"display_name" doc:"Display name"`
	AvatarRef      string    `json:"avatar_ref,omitempty" doc:"Avatar media reference"`
	Bio            string    `json:"bio,omitempty" doc:"Profile bio"`
	FollowersCount int       `json:"followers_count" doc:"Number of followers"`
	FollowingCount int       `json:"following_count" doc:"Number of followed users"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update time"`
}

func toProfileResponse(u *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:             u.ID,
		Handle:         u.Handle,
		DisplayName:    u.DisplayName,
		AvatarRef:      u.AvatarRef,
		Bio:            u.Bio,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// ProfileOutput wraps a profile response for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// CreateProfileRequest is the request body for registering a profile.
type CreateProfileRequest struct {
	Handle      string `json:"handle" doc:"Desired handle"`
	DisplayName string `json:"display_name" doc:"Display name"`
	Bio         string `json:"bio,omitempty" doc:"Profile bio"`
	AvatarRef   string `json:"avatar_ref,omitempty" doc:"Avatar media reference"`
}

// CreateProfileInput wraps the create profile request for Huma.
type CreateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateProfileRequest
}

// AuthInput carries only the authorization header.
type AuthInput struct {
	Authorization string `header:"Authorization"`
}

// UpdateProfileRequest is the request body for editing a profile.
type UpdateProfileRequest struct {
	Handle      string `json:"handle,omitempty" doc:"New handle"`
	DisplayName string `json:"display_name,omitempty" doc:"New display name"`
	Bio         string `json:"bio,omitempty" doc:"New bio"`
	AvatarRef   string `json:"avatar_ref,omitempty" doc:"New avatar reference"`
}

// UpdateProfileInput wraps the update profile request for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// ProfileIDInput contains parameters addressing a profile by ID.
type ProfileIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// ProfileHandleInput contains parameters addressing a profile by handle.
type ProfileHandleInput struct {
	Authorization string `header:"Authorization"`
	Handle        string `path:"handle" doc:"Handle"`
}

// ProfileListResponse contains a list of profiles.
type ProfileListResponse struct {
	Profiles []ProfileResponse `json:"profiles" doc:"List of profiles"`
}

// ProfileListOutput wraps a profile list for Huma.
type ProfileListOutput struct {
	Body ProfileListResponse
}

// === Handlers ===

func (s *Server) handleCreateProfile(ctx context.Context, input *CreateProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	u, err := s.services.Profile.Create(ctx, userID, service.CreateProfileParams{
		Handle:      input.Body.Handle,
		DisplayName: input.Body.DisplayName,
		Bio:         input.Body.Bio,
		AvatarRef:   input.Body.AvatarRef,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(u)}, nil
}

func (s *Server) handleGetCurrentProfile(ctx context.Context, input *AuthInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	u, err := s.services.Profile.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(u)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	u, err := s.services.Profile.Update(ctx, userID, service.UpdateProfileParams{
		Handle:      input.Body.Handle,
		DisplayName: input.Body.DisplayName,
		Bio:         input.Body.Bio,
		AvatarRef:   input.Body.AvatarRef,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(u)}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, input *ProfileIDInput) (*ProfileOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	u, err := s.services.Profile.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(u)}, nil
}

func (s *Server) handleGetProfileByHandle(ctx context.Context, input *ProfileHandleInput) (*ProfileOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	u, err := s.services.Profile.GetByHandle(ctx, input.Handle)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(u)}, nil
}

func (s *Server) handleListFollowers(ctx context.Context, input *ProfileIDInput) (*ProfileListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Profile.Followers(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileListOutput{Body: toProfileList(users)}, nil
}

func (s *Server) handleListFollowing(ctx context.Context, input *ProfileIDInput) (*ProfileListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Profile.Following(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileListOutput{Body: toProfileList(users)}, nil
}

func toProfileList(users []*domain.User) ProfileListResponse {
	resp := make([]ProfileResponse, len(users))
	for i, u := range users {
		resp[i] = toProfileResponse(u)
	}
	return ProfileListResponse{Profiles: resp}
}
