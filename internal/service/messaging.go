package service

import (
	"context"
	"log/slog"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
	"github.com/muralapp/mural-server/internal/sse"
	"github.com/muralapp/mural-server/internal/store"
	"github.com/muralapp/mural-server/internal/validation"
)

// MessagingService owns conversations, message append and read state.
type MessagingService struct {
	store         *store.Store
	sseManager    EventEmitter
	notifications *NotificationService
	validator     *validation.Validator
	logger        *slog.Logger
}

// NewMessagingService creates a new messaging service.
func NewMessagingService(store *store.Store, sseManager EventEmitter, notifications *NotificationService, validator *validation.Validator, logger *slog.Logger) *MessagingService {
	return &MessagingService{
		store:         store,
		sseManager:    sseManager,
		notifications: notifications,
		validator:     validator,
		logger:        logger,
	}
}

// EnsureDirect resolves the two-party thread between the caller and
// another user, creating it on first contact.
func (s *MessagingService) EnsureDirect(ctx context.Context, userID, otherID string) (*domain.Conversation, error) {
	if otherID == "" {
		return nil, apperr.Validation("missing conversation partner")
	}
	if otherID == userID {
		return nil, apperr.SelfReference("users cannot message themselves")
	}

	// Both participants must exist before a thread can bind them.
	if _, err := s.store.GetUserByID(ctx, otherID); err != nil {
		return nil, err
	}

	// Snapshots are fetched before the write; a failed lookup falls back
	// to a placeholder and never blocks the conversation.
	snapshots := map[string]domain.ProfileSnapshot{
		userID:  s.store.GetProfileSnapshot(ctx, userID),
		otherID: s.store.GetProfileSnapshot(ctx, otherID),
	}

	conv, created, err := s.store.GetOrCreateDirectConversation(ctx, userID, otherID, snapshots)
	if err != nil {
		return nil, err
	}

	if created {
		s.sseManager.Emit(sse.NewConversationCreatedEvent(conv))
		s.logger.Info("conversation created", "conversation_id", conv.ID)
	}

	return conv, nil
}

// CreateGroupParams are the inputs for creating a group thread.
type CreateGroupParams struct {
	Name         string   `json:"name" validate:"required,min=1,max=80"`
	AvatarRef    string   `json:"avatar_ref" validate:"max=200"`
	Participants []string `json:"participants" validate:"required,min=1,max=50"`
}

// CreateGroup creates a group thread including the caller.
func (s *MessagingService) CreateGroup(ctx context.Context, creatorID string, params CreateGroupParams) (*domain.Conversation, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	// The creator is always a participant; dedupe the rest.
	seen := map[string]bool{creatorID: true}
	participants := []string{creatorID}
	for _, p := range params.Participants {
		if p == "" || seen[p] {
			continue
		}
		if _, err := s.store.GetUserByID(ctx, p); err != nil {
			return nil, err
		}
		seen[p] = true
		participants = append(participants, p)
	}
	if len(participants) < 2 {
		return nil, apperr.Validation("a group needs at least one other participant")
	}

	snapshots := make(map[string]domain.ProfileSnapshot, len(participants))
	for _, p := range participants {
		snapshots[p] = s.store.GetProfileSnapshot(ctx, p)
	}

	conv, err := s.store.CreateGroupConversation(ctx, creatorID, participants,
		domain.GroupMeta{Name: params.Name, AvatarRef: params.AvatarRef}, snapshots)
	if err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewConversationCreatedEvent(conv))
	s.logger.Info("group conversation created", "conversation_id", conv.ID, "participants", len(participants))
	return conv, nil
}

// Get returns a conversation the caller participates in.
func (s *MessagingService) Get(ctx context.Context, userID, convID string) (*domain.Conversation, error) {
	conv, err := s.store.GetConversationByID(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, store.ErrNotParticipant
	}
	return conv, nil
}

// List returns the caller's conversations, most recent activity first.
func (s *MessagingService) List(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	return s.store.ListConversationsForUser(ctx, userID)
}

// SendMessageParams are the inputs for sending a message.
type SendMessageParams struct {
	Text     string `json:"text" validate:"required_without=MediaRef,max=4000"`
	MediaRef string `json:"media_ref" validate:"max=200"`
}

// Send appends a message to a conversation and notifies the recipients.
func (s *MessagingService) Send(ctx context.Context, senderID, convID string, params SendMessageParams) (*domain.Message, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	msg, err := s.store.AppendMessage(ctx, convID, senderID, params.Text, params.MediaRef)
	if err != nil {
		return nil, err
	}

	conv, err := s.store.GetConversationByID(ctx, convID)
	if err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewMessageCreatedEvent(msg, conv.Participants))
	for _, p := range conv.Participants {
		if p == senderID {
			continue
		}
		s.notifications.Push(ctx, p, senderID, domain.NotifyMessage,
			domain.SubjectRef{Type: domain.SubjectUser, ID: senderID}, truncatePreview(params.Text))
	}

	s.logger.Info("message sent", "conversation_id", convID, "message_id", msg.ID)
	return msg, nil
}

// MarkRead resets the caller's unread counter for a conversation.
func (s *MessagingService) MarkRead(ctx context.Context, userID, convID string) (int, error) {
	marked, err := s.store.MarkConversationRead(ctx, convID, userID)
	if err != nil {
		return 0, err
	}

	if marked > 0 {
		conv, err := s.store.GetConversationByID(ctx, convID)
		if err == nil {
			s.sseManager.Emit(sse.NewConversationReadEvent(convID, userID, conv.Participants))
		}
	}

	return marked, nil
}

// Messages returns a conversation's messages in ascending timestamp
// order within each page, restricted to participants.
func (s *MessagingService) Messages(ctx context.Context, userID, convID string, params store.PaginationParams) (*store.PaginatedResult[*domain.Message], error) {
	conv, err := s.store.GetConversationByID(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, store.ErrNotParticipant
	}
	return s.store.ListMessages(ctx, convID, params)
}

// DeleteMessage soft-deletes the caller's own message.
func (s *MessagingService) DeleteMessage(ctx context.Context, userID, msgID string) error {
	msg, err := s.store.GetMessageByID(ctx, msgID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID {
		return apperr.Forbidden("only the sender can delete a message")
	}
	return s.store.DeleteMessage(ctx, msgID)
}
