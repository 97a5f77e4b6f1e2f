package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
	"github.com/muralapp/mural-server/internal/id"
	"github.com/muralapp/mural-server/internal/sse"
	"github.com/muralapp/mural-server/internal/store"
	"github.com/muralapp/mural-server/internal/validation"
)

// ContentService manages posts and artworks. Media bytes live with the
// external media pipeline; this service only stores opaque references.
type ContentService struct {
	store      *store.Store
	sseManager EventEmitter
	validator  *validation.Validator
	logger     *slog.Logger
}

// NewContentService creates a new content service.
func NewContentService(store *store.Store, sseManager EventEmitter, validator *validation.Validator, logger *slog.Logger) *ContentService {
	return &ContentService{
		store:      store,
		sseManager: sseManager,
		validator:  validator,
		logger:     logger,
	}
}

// CreateContentParams are the inputs for publishing content.
type CreateContentParams struct {
	Type     string `json:"type" validate:"required,oneof=post artwork"`
	Title    string `json:"title" validate:"max=200"`
	Body     string `json:"body" validate:"max=10000"`
	MediaRef string `json:"media_ref" validate:"max=200"`
}

// Create publishes a post or artwork for the authenticated author.
func (s *ContentService) Create(ctx context.Context, authorID string, params CreateContentParams) (*domain.Content, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}
	if params.Title == "" && params.Body == "" && params.MediaRef == "" {
		return nil, apperr.Validation("content needs a title, body or media reference")
	}

	// The author must have a profile before publishing.
	if _, err := s.store.GetUserByID(ctx, authorID); err != nil {
		return nil, err
	}

	contentID, err := id.Generate(params.Type)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &domain.Content{
		ID:        contentID,
		AuthorID:  authorID,
		Type:      domain.ContentType(params.Type),
		Title:     params.Title,
		Body:      params.Body,
		MediaRef:  params.MediaRef,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateContent(ctx, c); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewContentCreatedEvent(c))
	s.logger.Info("content created", "content_id", contentID, "author_id", authorID, "type", params.Type)
	return c, nil
}

// Get returns a content item by ID.
func (s *ContentService) Get(ctx context.Context, contentID string) (*domain.Content, error) {
	return s.store.GetContentByID(ctx, contentID)
}

// Delete removes the caller's own content item.
func (s *ContentService) Delete(ctx context.Context, userID, contentID string) error {
	c, err := s.store.GetContentByID(ctx, contentID)
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		return apperr.Forbidden("only the author can delete content")
	}

	if err := s.store.DeleteContent(ctx, contentID); err != nil {
		return err
	}

	s.sseManager.Emit(sse.NewContentDeletedEvent(contentID, time.Now()))
	s.logger.Info("content deleted", "content_id", contentID, "author_id", userID)
	return nil
}

// ListByAuthor returns an author's content newest-first.
func (s *ContentService) ListByAuthor(ctx context.Context, authorID string, params store.PaginationParams) (*store.PaginatedResult[*domain.Content], error) {
	if _, err := s.store.GetUserByID(ctx, authorID); err != nil {
		return nil, err
	}
	return s.store.ListContentByAuthor(ctx, authorID, params)
}

// Bookmarks returns the content items the user has bookmarked.
func (s *ContentService) Bookmarks(ctx context.Context, userID string) ([]*domain.Content, error) {
	var items []*domain.Content
	for _, subjectType := range []domain.SubjectType{domain.SubjectPost, domain.SubjectArtwork} {
		subjectIDs, err := s.store.ListActorSubjectIDs(ctx, userID, domain.RelationBookmark, subjectType)
		if err != nil {
			return nil, err
		}
		for _, subjectID := range subjectIDs {
			c, err := s.store.GetContentByID(ctx, subjectID)
			if err != nil {
				continue // Bookmarked content may have been deleted.
			}
			items = append(items, c)
		}
	}
	return items, nil
}
