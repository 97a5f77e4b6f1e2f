package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/muralapp/mural-server/internal/domain"
	"github.com/muralapp/mural-server/internal/service"
)

func (s *Server) registerInteractionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleRelation",
		Method:      http.MethodPost,
		Path:        "/api/v1/relations/toggle",
		Summary:     "Toggle a relation",
		Description: "Flips a follow, like or bookmark for the caller and returns the resulting state",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleRelation)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRelationStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/relations/status",
		Summary:     "Get relation status",
		Description: "Reports whether the caller currently holds a relation",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRelationStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "createComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/content/{id}/comments",
		Summary:     "Create comment",
		Description: "Appends a comment to a content item",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/content/{id}/comments",
		Summary:     "List comments",
		Description: "Returns a content item's visible comments oldest first",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Delete comment",
		Description: "Deletes the caller's own comment",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)
}

// === DTOs ===

// ToggleRelationRequest is the request body for flipping a relation.
type ToggleRelationRequest struct {
	Kind        string `json:"kind" doc:"Relation kind: follow, like or bookmark"`
	SubjectType string `json:"subject_type" doc:"Subject type: user, post or artwork"`
	SubjectID   string `json:"subject_id" doc:"Subject ID"`
}

// ToggleRelationInput wraps the toggle request for Huma.
type ToggleRelationInput struct {
	Authorization string `header:"Authorization"`
	Body          ToggleRelationRequest
}

// ToggleRelationResponse reports the state after a toggle.
type ToggleRelationResponse struct {
	Active bool `json:"active" doc:"Whether the relation now exists"`
	Count  int  `json:"count" doc:"Resulting counter value, -1 for kinds without a counter"`
}

// ToggleRelationOutput wraps the toggle response for Huma.
type ToggleRelationOutput struct {
	Body ToggleRelationResponse
}

// RelationStatusInput contains query parameters for a relation probe.
type RelationStatusInput struct {
	Authorization string `header:"Authorization"`
	Kind          string `query:"kind" doc:"Relation kind"`
	SubjectType   string `query:"subject_type" doc:"Subject type"`
	SubjectID     string `query:"subject_id" doc:"Subject ID"`
}

// RelationStatusResponse reports whether a relation exists.
type RelationStatusResponse struct {
	Active bool `json:"active" doc:"Whether the relation exists"`
}

// RelationStatusOutput wraps the status response for Huma.
type RelationStatusOutput struct {
	Body RelationStatusResponse
}

// CommentResponse contains comment data in API responses.
type CommentResponse struct {
	ID        string    `json:"id" doc:"Comment ID"`
	AuthorID  string    `json:"author_id" doc:"Author user ID"`
	ContentID string    `json:"content_id" doc:"Parent content ID"`
	Text      string    `json:"text" doc:"Comment text"`
	Status    string    `json:"status" doc:"Moderation status"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		ContentID: c.ContentID,
		Text:      c.Text,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}

// CommentOutput wraps a comment response for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// CreateCommentRequest is the request body for commenting.
type CreateCommentRequest struct {
	Text string `json:"text" doc:"Comment text"`
}

// CreateCommentInput wraps the create comment request for Huma.
type CreateCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Content ID"`
	Body          CreateCommentRequest
}

// ListCommentsInput contains parameters for listing comments.
type ListCommentsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Content ID"`
	Limit         int    `query:"limit" doc:"Items per page"`
	Cursor        string `query:"cursor" doc:"Opaque pagination cursor"`
}

// CommentPageOutput wraps a paginated comment list for Huma.
type CommentPageOutput struct {
	Body PageResponse[CommentResponse]
}

// CommentIDInput contains parameters addressing a comment.
type CommentIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Comment ID"`
}

// === Handlers ===

func (s *Server) handleToggleRelation(ctx context.Context, input *ToggleRelationInput) (*ToggleRelationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	subject := domain.SubjectRef{
		Type: domain.SubjectType(input.Body.SubjectType),
		ID:   input.Body.SubjectID,
	}

	result, err := s.services.Interaction.Toggle(ctx, userID, subject, domain.RelationKind(input.Body.Kind))
	if err != nil {
		return nil, err
	}

	return &ToggleRelationOutput{Body: ToggleRelationResponse{
		Active: result.Active,
		Count:  result.Count,
	}}, nil
}

func (s *Server) handleGetRelationStatus(ctx context.Context, input *RelationStatusInput) (*RelationStatusOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	subject := domain.SubjectRef{
		Type: domain.SubjectType(input.SubjectType),
		ID:   input.SubjectID,
	}

	active, err := s.services.Interaction.HasRelation(ctx, userID, subject, domain.RelationKind(input.Kind))
	if err != nil {
		return nil, err
	}

	return &RelationStatusOutput{Body: RelationStatusResponse{Active: active}}, nil
}

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Interaction.Comment(ctx, userID, input.ID, service.CreateCommentParams{
		Text: input.Body.Text,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: toCommentResponse(c)}, nil
}

func (s *Server) handleListComments(ctx context.Context, input *ListCommentsInput) (*CommentPageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	page, err := s.services.Interaction.ListComments(ctx, input.ID, pagination(input.Limit, input.Cursor))
	if err != nil {
		return nil, err
	}

	items := make([]CommentResponse, len(page.Items))
	for i, c := range page.Items {
		items[i] = toCommentResponse(c)
	}

	return &CommentPageOutput{Body: PageResponse[CommentResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Interaction.DeleteComment(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Comment deleted"}}, nil
}
