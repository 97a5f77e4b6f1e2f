package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/muralapp/mural-server/internal/domain"
	"github.com/muralapp/mural-server/internal/service"
)

func (s *Server) registerConversationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "ensureDirectConversation",
		Method:      http.MethodPost,
		Path:        "/api/v1/conversations/direct",
		Summary:     "Resolve direct conversation",
		Description: "Returns the two-party thread with another user, creating it on first contact",
		Tags:        []string{"Messaging"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleEnsureDirectConversation)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGroupConversation",
		Method:      http.MethodPost,
		Path:        "/api/v1/conversations/group",
		Summary:     "Create group conversation",
		Tags:        []string{"Messaging"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGroupConversation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listConversations",
		Method:      http.MethodGet,
		Path:        "/api/v1/conversations",
		Summary:     "List conversations",
		Description: "Returns the caller's conversations, most recent activity first",
		Tags:        []string{"Messaging"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListConversations)

	huma.Register(s.api, huma.Operation{
		OperationID: "getConversation",
		Method:      http.MethodGet,
		Path:        "/api/v1/conversations/{id}",
		Summary:     "Get conversation",
		Tags:        []string{"Messaging"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetConversation)

	huma.Register(s.api, huma.Operation{
		OperationID: "sendMessage",
		Method:      http.MethodPost,
		Path:        "/api/v1/conversations/{id}/messages",
		Summary:     "Send message",
		Description: "Appends a message and updates the thread preview and unread counters",
		Tags:        []string{"Messaging"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSendMessage)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMessages",
		Method:      http.MethodGet,
		Path:        "/api/v1/conversations/{id}/messages",
		Summary:     "List messages",
		Description: "Returns a conversation's messages in chronological order, paging back from the newest",
		Tags:        []string{"Messaging"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMessages)

	huma.Register(s.api, huma.Operation{
		OperationID: "markConversationRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/conversations/{id}/read",
		Summary:     "Mark conversation read",
		Description: "Resets the caller's unread counter for a conversation",
		Tags:        []string{"Messaging"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkConversationRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMessage",
		Method:      http.MethodDelete,
		Path:        "/api/v1/messages/{id}",
		Summary:     "Delete message",
		Description: "Soft-deletes the caller's own message",
		Tags:        []string{"Messaging"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMessage)
}

// === DTOs ===

// MessagePreviewResponse is the denormalized last-message snapshot.
type MessagePreviewResponse struct {
	MessageID string    `json:"message_id" doc:"Message ID"`
	SenderID  string    `json:"sender_id" doc:"Sender user ID"`
	Text      string    `json:"text" doc:"Message text, blank for deleted messages"`
	SentAt    time.Time `json:"sent_at" doc:"Send time"`
}

// GroupMetaResponse holds group thread display info.
type GroupMetaResponse struct {
	Name      string `json:"name" doc:"Group name"`
	AvatarRef string `json:"avatar_ref,omitempty" doc:"Group avatar reference"`
	CreatorID string `json:"creator_id" doc:"Creator user ID"`
}

// ConversationResponse contains conversation data in API responses.
// Unread is the caller's own counter only.
type ConversationResponse struct {
	ID           string                             `json:"id" doc:"Conversation ID"`
	Type         string                             `json:"type" doc:"Conversation type: direct or group"`
	Participants []string                           `json:"participants" doc:"Participant user IDs"`
	Snapshots    map[string]domain.ProfileSnapshot  `json:"snapshots,omitempty" doc:"Display info per participant"`
	Group        *GroupMetaResponse                 `json:"group,omitempty" doc:"Group metadata"`
	LastMessage  *MessagePreviewResponse            `json:"last_message,omitempty" doc:"Most recent message preview"`
	Unread       int                                `json:"unread" doc:"Caller's unread message count"`
	CreatedAt    time.Time                          `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time                          `json:"updated_at" doc:"Last activity time"`
}

func toConversationResponse(c *domain.Conversation, viewerID string) ConversationResponse {
	resp := ConversationResponse{
		ID:           c.ID,
		Type:         string(c.Type),
		Participants: c.Participants,
		Snapshots:    c.Snapshots,
		Unread:       c.UnreadFor(viewerID),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.Group != nil {
		resp.Group = &GroupMetaResponse{
			Name:      c.Group.Name,
			AvatarRef: c.Group.AvatarRef,
			CreatorID: c.Group.CreatorID,
		}
	}
	if c.LastMessage != nil {
		resp.LastMessage = &MessagePreviewResponse{
			MessageID: c.LastMessage.MessageID,
			SenderID:  c.LastMessage.SenderID,
			Text:      c.LastMessage.Text,
			SentAt:    c.LastMessage.SentAt,
		}
	}
	return resp
}

// ConversationOutput wraps a conversation response for Huma.
type ConversationOutput struct {
	Body ConversationResponse
}

// EnsureDirectRequest is the request body for resolving a direct thread.
type EnsureDirectRequest struct {
	UserID string `json:"user_id" doc:"The other participant's user ID"`
}

// EnsureDirectInput wraps the direct conversation request for Huma.
type EnsureDirectInput struct {
	Authorization string `header:"Authorization"`
	Body          EnsureDirectRequest
}

// CreateGroupRequest is the request body for creating a group thread.
type CreateGroupRequest struct {
	Name         string   `json:"name" doc:"Group name"`
	AvatarRef    string   `json:"avatar_ref,omitempty" doc:"Group avatar reference"`
	Participants []string `json:"participants" doc:"Participant user IDs, the caller is always included"`
}

// CreateGroupInput wraps the group creation request for Huma.
type CreateGroupInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateGroupRequest
}

// ConversationListResponse contains the caller's conversations.
type ConversationListResponse struct {
	Conversations []ConversationResponse `json:"conversations" doc:"Conversations, most recent first"`
}

// ConversationListOutput wraps a conversation list for Huma.
type ConversationListOutput struct {
	Body ConversationListResponse
}

// ConversationIDInput contains parameters addressing a conversation.
type ConversationIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Conversation ID"`
}

// MessageResponseDTO contains message data in API responses.
type MessageResponseDTO struct {
	ID             string    `json:"id" doc:"Message ID"`
	ConversationID string    `json:"conversation_id" doc:"Conversation ID"`
	SenderID       string    `json:"sender_id" doc:"Sender user ID"`
	Text           string    `json:"text" doc:"Message text, blank for deleted messages"`
	MediaRef       string    `json:"media_ref,omitempty" doc:"Media reference"`
	Deleted        bool      `json:"deleted,omitempty" doc:"Whether the message was deleted"`
	SentAt         time.Time `json:"sent_at" doc:"Send time"`
}

func toMessageResponse(m *domain.Message) MessageResponseDTO {
	text := m.Text
	if m.Deleted {
		text = ""
	}
	return MessageResponseDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           text,
		MediaRef:       m.MediaRef,
		Deleted:        m.Deleted,
		SentAt:         m.SentAt,
	}
}

// SendMessageRequest is the request body for sending a message.
type SendMessageRequest struct {
	Text     string `json:"text,omitempty" doc:"Message text"`
	MediaRef string `json:"media_ref,omitempty" doc:"Media reference"`
}

// SendMessageInput wraps the send message request for Huma.
type SendMessageInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Conversation ID"`
	Body          SendMessageRequest
}

// MessageDTOOutput wraps a message response for Huma.
type MessageDTOOutput struct {
	Body MessageResponseDTO
}

// ListMessagesInput contains parameters for listing messages.
type ListMessagesInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Conversation ID"`
	Limit         int    `query:"limit" doc:"Items per page"`
	Cursor        string `query:"cursor" doc:"Opaque pagination cursor"`
}

// MessagePageOutput wraps a paginated message list for Huma.
type MessagePageOutput struct {
	Body PageResponse[MessageResponseDTO]
}

// MarkReadResponse reports how many messages were marked read.
type MarkReadResponse struct {
	Marked int `json:"marked" doc:"Number of messages newly marked read"`
}

// MarkReadOutput wraps the mark-read response for Huma.
type MarkReadOutput struct {
	Body MarkReadResponse
}

// MessageIDInput contains parameters addressing a message.
type MessageIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Message ID"`
}

// === Handlers ===

func (s *Server) handleEnsureDirectConversation(ctx context.Context, input *EnsureDirectInput) (*ConversationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	conv, err := s.services.Messaging.EnsureDirect(ctx, userID, input.Body.UserID)
	if err != nil {
		return nil, err
	}

	return &ConversationOutput{Body: toConversationResponse(conv, userID)}, nil
}

func (s *Server) handleCreateGroupConversation(ctx context.Context, input *CreateGroupInput) (*ConversationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	conv, err := s.services.Messaging.CreateGroup(ctx, userID, service.CreateGroupParams{
		Name:         input.Body.Name,
		AvatarRef:    input.Body.AvatarRef,
		Participants: input.Body.Participants,
	})
	if err != nil {
		return nil, err
	}

	return &ConversationOutput{Body: toConversationResponse(conv, userID)}, nil
}

func (s *Server) handleListConversations(ctx context.Context, input *AuthInput) (*ConversationListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	convs, err := s.services.Messaging.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ConversationResponse, len(convs))
	for i, c := range convs {
		resp[i] = toConversationResponse(c, userID)
	}

	return &ConversationListOutput{Body: ConversationListResponse{Conversations: resp}}, nil
}

func (s *Server) handleGetConversation(ctx context.Context, input *ConversationIDInput) (*ConversationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	conv, err := s.services.Messaging.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ConversationOutput{Body: toConversationResponse(conv, userID)}, nil
}

func (s *Server) handleSendMessage(ctx context.Context, input *SendMessageInput) (*MessageDTOOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	msg, err := s.services.Messaging.Send(ctx, userID, input.ID, service.SendMessageParams{
		Text:     input.Body.Text,
		MediaRef: input.Body.MediaRef,
	})
	if err != nil {
		return nil, err
	}

	return &MessageDTOOutput{Body: toMessageResponse(msg)}, nil
}

func (s *Server) handleListMessages(ctx context.Context, input *ListMessagesInput) (*MessagePageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Messaging.Messages(ctx, userID, input.ID, pagination(input.Limit, input.Cursor))
	if err != nil {
		return nil, err
	}

	items := make([]MessageResponseDTO, len(page.Items))
	for i, m := range page.Items {
		items[i] = toMessageResponse(m)
	}

	return &MessagePageOutput{Body: PageResponse[MessageResponseDTO]{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}}, nil
}

func (s *Server) handleMarkConversationRead(ctx context.Context, input *ConversationIDInput) (*MarkReadOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	marked, err := s.services.Messaging.MarkRead(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &MarkReadOutput{Body: MarkReadResponse{Marked: marked}}, nil
}

func (s *Server) handleDeleteMessage(ctx context.Context, input *MessageIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Messaging.DeleteMessage(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Message deleted"}}, nil
}
