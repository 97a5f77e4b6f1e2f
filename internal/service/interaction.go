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

// InteractionService owns relation toggles and the comment ledger.
type InteractionService struct {
	store         *store.Store
	sseManager    EventEmitter
	notifications *NotificationService
	validator     *validation.Validator
	logger        *slog.Logger
}

// NewInteractionService creates a new interaction service.
func NewInteractionService(store *store.Store, sseManager EventEmitter, notifications *NotificationService, validator *validation.Validator, logger *slog.Logger) *InteractionService {
	return &InteractionService{
		store:         store,
		sseManager:    sseManager,
		notifications: notifications,
		validator:     validator,
		logger:        logger,
	}
}

// Toggle flips a relation for the acting user. Self-follows are
// rejected before anything touches the store.
func (s *InteractionService) Toggle(ctx context.Context, actorID string, subject domain.SubjectRef, kind domain.RelationKind) (*store.ToggleResult, error) {
	if !kind.Valid() {
		return nil, apperr.Validationf("unknown relation kind: %s", kind)
	}
	if !subject.Type.Valid() || subject.ID == "" {
		return nil, apperr.Validation("invalid relation subject")
	}

	switch kind {
	case domain.RelationFollow:
		if subject.Type != domain.SubjectUser {
			return nil, apperr.Validation("follow targets must be users")
		}
		if subject.ID == actorID {
			return nil, apperr.SelfReference("users cannot follow themselves")
		}
	case domain.RelationLike, domain.RelationBookmark:
		if !subject.Type.IsContent() {
			return nil, apperr.Validationf("%s targets must be content items", kind)
		}
	}

	result, err := s.store.ToggleRelation(ctx, actorID, subject, kind)
	if err != nil {
		return nil, err
	}

	// Post-commit: events and notifications never undo the toggle.
	recipientID := s.subjectOwner(ctx, subject)
	s.sseManager.Emit(sse.NewRelationToggledEvent(actorID, subject, kind, result.Active, result.Count, recipientID))

	if result.Active {
		switch kind {
		case domain.RelationFollow:
			s.notifications.Push(ctx, subject.ID, actorID, domain.NotifyFollow, subject, "")
		case domain.RelationLike:
			s.notifications.Push(ctx, recipientID, actorID, domain.NotifyLike, subject, "")
		}
		// Bookmarks are private, no notification.
	}

	s.logger.Info("relation toggled",
		"actor_id", actorID,
		"kind", kind,
		"subject_type", subject.Type,
		"subject_id", subject.ID,
		"active", result.Active,
	)

	return result, nil
}

// HasRelation reports whether the acting user currently holds a relation.
func (s *InteractionService) HasRelation(ctx context.Context, actorID string, subject domain.SubjectRef, kind domain.RelationKind) (bool, error) {
	return s.store.HasRelation(ctx, actorID, subject, kind)
}

// CreateCommentParams are the inputs for commenting.
type CreateCommentParams struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// Comment appends a comment to a content item. The comment and the
// parent's counter commit together.
func (s *InteractionService) Comment(ctx context.Context, authorID, contentID string, params CreateCommentParams) (*domain.Comment, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	commentID, err := id.Generate("cmt")
	if err != nil {
		return nil, err
	}

	c := &domain.Comment{
		ID:        commentID,
		AuthorID:  authorID,
		ContentID: contentID,
		Text:      params.Text,
		Status:    domain.ModerationPending,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	content, err := s.store.GetContentByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewCommentCreatedEvent(c, content.CommentsCount))
	s.notifications.Push(ctx, content.AuthorID, authorID, domain.NotifyComment,
		domain.SubjectRef{Type: content.Type.SubjectType(), ID: contentID}, truncatePreview(params.Text))

	s.logger.Info("comment created", "comment_id", commentID, "content_id", contentID, "author_id", authorID)
	return c, nil
}

// DeleteComment removes the caller's own comment.
func (s *InteractionService) DeleteComment(ctx context.Context, userID, commentID string) error {
	c, err := s.store.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		return apperr.Forbidden("only the author can delete a comment")
	}

	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	s.sseManager.Emit(sse.NewCommentDeletedEvent(commentID, c.ContentID))
	s.logger.Info("comment deleted", "comment_id", commentID, "user_id", userID)
	return nil
}

// ListComments returns a content item's visible comments oldest-first.
func (s *InteractionService) ListComments(ctx context.Context, contentID string, params store.PaginationParams) (*store.PaginatedResult[*domain.Comment], error) {
	if _, err := s.store.GetContentByID(ctx, contentID); err != nil {
		return nil, err
	}
	return s.store.ListCommentsByContent(ctx, contentID, params)
}

// subjectOwner resolves who should be told about activity on a subject.
func (s *InteractionService) subjectOwner(ctx context.Context, subject domain.SubjectRef) string {
	switch subject.Type {
	case domain.SubjectUser:
		return subject.ID
	case domain.SubjectPost, domain.SubjectArtwork:
		c, err := s.store.GetContentByID(ctx, subject.ID)
		if err != nil {
			return ""
		}
		return c.AuthorID
	case domain.SubjectComment:
		c, err := s.store.GetCommentByID(ctx, subject.ID)
		if err != nil {
			return ""
		}
		return c.AuthorID
	default:
		return ""
	}
}

// truncatePreview shortens notification previews to a glanceable length.
func truncatePreview(text string) string {
	const maxLen = 120
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "…"
}
