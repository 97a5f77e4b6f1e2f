package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
	"github.com/muralapp/mural-server/internal/id"
	"github.com/muralapp/mural-server/internal/normalize"
	"github.com/muralapp/mural-server/internal/store"
	"github.com/muralapp/mural-server/internal/validation"
)

// CommunityService manages communities and memberships.
type CommunityService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCommunityService creates a new community service.
func NewCommunityService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *CommunityService {
	return &CommunityService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateCommunityParams are the inputs for founding a community.
type CreateCommunityParams struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"max=1000"`
	AvatarRef   string `json:"avatar_ref" validate:"max=200"`
}

// Create founds a community; the founder joins automatically.
func (s *CommunityService) Create(ctx context.Context, ownerID string, params CreateCommunityParams) (*domain.Community, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	slug := normalize.Handle(params.Name)
	if slug == "" {
		return nil, apperr.Validation("community name is empty after normalization")
	}

	communityID, err := id.Generate("com")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &domain.Community{
		ID:          communityID,
		Slug:        slug,
		Name:        params.Name,
		Description: params.Description,
		AvatarRef:   params.AvatarRef,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateCommunity(ctx, c); err != nil {
		return nil, err
	}

	if err := s.store.JoinCommunity(ctx, ownerID, communityID); err != nil {
		s.logger.Warn("founder join failed", "community_id", communityID, "error", err)
	}

	s.logger.Info("community created", "community_id", communityID, "slug", slug, "owner_id", ownerID)
	return s.store.GetCommunityByID(ctx, communityID)
}

// Get returns a community by ID.
func (s *CommunityService) Get(ctx context.Context, communityID string) (*domain.Community, error) {
	return s.store.GetCommunityByID(ctx, communityID)
}

// GetBySlug returns a community by its canonical slug.
func (s *CommunityService) GetBySlug(ctx context.Context, slug string) (*domain.Community, error) {
	return s.store.GetCommunityBySlug(ctx, normalize.Handle(slug))
}

// List returns all communities, largest first.
func (s *CommunityService) List(ctx context.Context) ([]*domain.Community, error) {
	return s.store.ListCommunities(ctx)
}

// Join adds the caller to a community. Idempotent.
func (s *CommunityService) Join(ctx context.Context, userID, communityID string) error {
	if _, err := s.store.GetCommunityByID(ctx, communityID); err != nil {
		return err
	}
	if err := s.store.JoinCommunity(ctx, userID, communityID); err != nil {
		return err
	}
	s.logger.Info("community joined", "community_id", communityID, "user_id", userID)
	return nil
}

// Leave removes the caller from a community. Idempotent. The owner
// cannot leave their own community.
func (s *CommunityService) Leave(ctx context.Context, userID, communityID string) error {
	c, err := s.store.GetCommunityByID(ctx, communityID)
	if err != nil {
		return err
	}
	if c.OwnerID == userID {
		return apperr.Forbidden("the owner cannot leave their community")
	}
	if err := s.store.LeaveCommunity(ctx, userID, communityID); err != nil {
		return err
	}
	s.logger.Info("community left", "community_id", communityID, "user_id", userID)
	return nil
}

// Members returns the profiles belonging to a community.
func (s *CommunityService) Members(ctx context.Context, communityID string) ([]*domain.User, error) {
	if _, err := s.store.GetCommunityByID(ctx, communityID); err != nil {
		return nil, err
	}

	memberIDs, err := s.store.ListCommunityMemberIDs(ctx, communityID)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		u, err := s.store.GetUserByID(ctx, memberID)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}
