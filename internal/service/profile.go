package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
	"github.com/muralapp/mural-server/internal/normalize"
	"github.com/muralapp/mural-server/internal/store"
	"github.com/muralapp/mural-server/internal/validation"
)

// ProfileService manages user profiles. The identity provider owns
// credentials; profile records here are keyed by the IDs it issues.
type ProfileService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateProfileParams are the inputs for registering a profile.
type CreateProfileParams struct {
	Handle      string `json:"handle" validate:"required,min=2,max=40"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=80"`
	Bio         string `json:"bio" validate:"max=500"`
	AvatarRef   string `json:"avatar_ref" validate:"max=200"`
}

// Create registers a profile for an identity-provider user ID.
func (s *ProfileService) Create(ctx context.Context, userID string, params CreateProfileParams) (*domain.User, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	handle := normalize.Handle(params.Handle)
	if handle == "" {
		return nil, apperr.Validation("handle is empty after normalization")
	}

	now := time.Now()
	u := &domain.User{
		ID:          userID,
		Handle:      handle,
		DisplayName: normalize.DisplayName(params.DisplayName),
		Bio:         params.Bio,
		AvatarRef:   params.AvatarRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("profile created", "user_id", userID, "handle", handle)
	return u, nil
}

// GetByID returns a profile by user ID.
func (s *ProfileService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// GetByHandle returns a profile by handle, normalizing the lookup so
// "José" and "jose" resolve the same profile.
func (s *ProfileService) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return s.store.GetUserByHandle(ctx, normalize.Handle(handle))
}

// UpdateProfileParams are the editable profile fields.
type UpdateProfileParams struct {
	Handle      string `json:"handle" validate:"omitempty,min=2,max=40"`
	DisplayName string `json:"display_name" validate:"omitempty,min=1,max=80"`
	Bio         string `json:"bio" validate:"max=500"`
	AvatarRef   string `json:"avatar_ref" validate:"max=200"`
}

// Update edits the caller's own profile.
func (s *ProfileService) Update(ctx context.Context, userID string, params UpdateProfileParams) (*domain.User, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Handle != "" {
		handle := normalize.Handle(params.Handle)
		if handle == "" {
			return nil, apperr.Validation("handle is empty after normalization")
		}
		u.Handle = handle
	}
	if params.DisplayName != "" {
		u.DisplayName = normalize.DisplayName(params.DisplayName)
	}
	u.Bio = params.Bio
	u.AvatarRef = params.AvatarRef

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", userID)
	return u, nil
}

// Followers returns the profiles following a user.
func (s *ProfileService) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	// Verify the subject exists so missing users 404 instead of listing empty.
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	subject := domain.SubjectRef{Type: domain.SubjectUser, ID: userID}
	actorIDs, err := s.store.ListRelationActorIDs(ctx, domain.RelationFollow, subject)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(actorIDs))
	for _, actorID := range actorIDs {
		u, err := s.store.GetUserByID(ctx, actorID)
		if err != nil {
			continue // Skip edges whose actor is gone.
		}
		users = append(users, u)
	}
	return users, nil
}

// Following returns the profiles a user follows.
func (s *ProfileService) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	subjectIDs, err := s.store.ListActorSubjectIDs(ctx, userID, domain.RelationFollow, domain.SubjectUser)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(subjectIDs))
	for _, subjectID := range subjectIDs {
		u, err := s.store.GetUserByID(ctx, subjectID)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}
