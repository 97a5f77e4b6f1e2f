package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/muralapp/mural-server/internal/domain"
	"github.com/muralapp/mural-server/internal/service"
)

func (s *Server) registerCommunityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createCommunity",
		Method:      http.MethodPost,
		Path:        "/api/v1/communities",
		Summary:     "Create community",
		Tags:        []string{"Communities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCommunities",
		Method:      http.MethodGet,
		Path:        "/api/v1/communities",
		Summary:     "List communities",
		Description: "Returns all communities, largest first",
		Tags:        []string{"Communities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCommunities)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCommunity",
		Method:      http.MethodGet,
		Path:        "/api/v1/communities/{id}",
		Summary:     "Get community",
		Tags:        []string{"Communities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCommunityBySlug",
		Method:      http.MethodGet,
		Path:        "/api/v1/communities/slug/{slug}",
		Summary:     "Get community by slug",
		Tags:        []string{"Communities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCommunityBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinCommunity",
		Method:      http.MethodPost,
		Path:        "/api/v1/communities/{id}/join",
		Summary:     "Join community",
		Tags:        []string{"Communities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleJoinCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "leaveCommunity",
		Method:      http.MethodPost,
		Path:        "/api/v1/communities/{id}/leave",
		Summary:     "Leave community",
		Tags:        []string{"Communities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLeaveCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCommunityMembers",
		Method:      http.MethodGet,
		Path:        "/api/v1/communities/{id}/members",
		Summary:     "List community members",
		Tags:        []string{"Communities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCommunityMembers)
}

// === DTOs ===

// CommunityResponse contains community data in API responses.
type CommunityResponse struct {
	ID           string    `json:"id" doc:"Community ID"`
	Slug         string    `json:"slug" doc:"Canonical slug"`
	Name         string    `json:"name" doc:"Community name"`
	Description  string    `json:"description,omitempty" doc:"Description"`
	AvatarRef    string    `json:"avatar_ref,omitempty" doc:"Avatar media reference"`
	OwnerID      string    `json:"owner_id" doc:"Founder user ID"`
	MembersCount int       `json:"members_count" doc:"Number of members"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update time"`
}

func toCommunityResponse(c *domain.Community) CommunityResponse {
	return CommunityResponse{
		ID:           c.ID,
		Slug:         c.Slug,
		Name:         c.Name,
		Description:  c.Description,
		AvatarRef:    c.AvatarRef,
		OwnerID:      c.OwnerID,
		MembersCount: c.MembersCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// CommunityOutput wraps a community response for Huma.
type CommunityOutput struct {
	Body CommunityResponse
}

// CreateCommunityRequest is the request body for founding a community.
type CreateCommunityRequest struct {
	Name        string `json:"name" doc:"Community name"`
	Description string `json:"description,omitempty" doc:"Description"`
	AvatarRef   string `json:"avatar_ref,omitempty" doc:"Avatar media reference"`
}

// CreateCommunityInput wraps the create community request for Huma.
type CreateCommunityInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateCommunityRequest
}

// CommunityIDInput contains parameters addressing a community.
type CommunityIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Community ID"`
}

// CommunitySlugInput contains parameters addressing a community by slug.
type CommunitySlugInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"Community slug"`
}

// CommunityListResponse contains a list of communities.
type CommunityListResponse struct {
	Communities []CommunityResponse `json:"communities" doc:"Communities, largest first"`
}

// CommunityListOutput wraps a community list for Huma.
type CommunityListOutput struct {
	Body CommunityListResponse
}

// === Handlers ===

func (s *Server) handleCreateCommunity(ctx context.Context, input *CreateCommunityInput) (*CommunityOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Community.Create(ctx, userID, service.CreateCommunityParams{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		AvatarRef:   input.Body.AvatarRef,
	})
	if err != nil {
		return nil, err
	}

	return &CommunityOutput{Body: toCommunityResponse(c)}, nil
}

func (s *Server) handleListCommunities(ctx context.Context, input *AuthInput) (*CommunityListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	communities, err := s.services.Community.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]CommunityResponse, len(communities))
	for i, c := range communities {
		resp[i] = toCommunityResponse(c)
	}

	return &CommunityListOutput{Body: CommunityListResponse{Communities: resp}}, nil
}

func (s *Server) handleGetCommunity(ctx context.Context, input *CommunityIDInput) (*CommunityOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	c, err := s.services.Community.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CommunityOutput{Body: toCommunityResponse(c)}, nil
}

func (s *Server) handleGetCommunityBySlug(ctx context.Context, input *CommunitySlugInput) (*CommunityOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	c, err := s.services.Community.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	return &CommunityOutput{Body: toCommunityResponse(c)}, nil
}

func (s *Server) handleJoinCommunity(ctx context.Context, input *CommunityIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Community.Join(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Joined community"}}, nil
}

func (s *Server) handleLeaveCommunity(ctx context.Context, input *CommunityIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Community.Leave(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Left community"}}, nil
}

func (s *Server) handleListCommunityMembers(ctx context.Context, input *CommunityIDInput) (*ProfileListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	members, err := s.services.Community.Members(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileListOutput{Body: toProfileList(members)}, nil
}
