package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/muralapp/mural-server/internal/domain"
	"github.com/muralapp/mural-server/internal/service"
)

func (s *Server) registerContentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createContent",
		Method:      http.MethodPost,
		Path:        "/api/v1/content",
		Summary:     "Publish content",
		Description: "Publishes a post or artwork",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "getContent",
		Method:      http.MethodGet,
		Path:        "/api/v1/content/{id}",
		Summary:     "Get content",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteContent",
		Method:      http.MethodDelete,
		Path:        "/api/v1/content/{id}",
		Summary:     "Delete content",
		Description: "Deletes the caller's own content item",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAuthorContent",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{id}/content",
		Summary:     "List an author's content",
		Description: "Returns an author's content newest first",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAuthorContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns the content items the caller has bookmarked",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookmarks)
}

// === DTOs ===

// ContentResponse contains content data in API responses.
type ContentResponse struct {
	ID            string    `json:"id" doc:"Content ID"`
	AuthorID      string    `json:"author_id" doc:"Author user ID"`
	Type          string    `json:"type" doc:"Content type: post or artwork"`
	Title         string    `json:"title,omitempty" doc:"Title"`
	Body          string    `json:"body,omitempty" doc:"Body text"`
	MediaRef      string    `json:"media_ref,omitempty" doc:"Media reference"`
	LikesCount    int       `json:"likes_count" doc:"Number of likes"`
	CommentsCount int       `json:"comments_count" doc:"Number of visible comments"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

func toContentResponse(c *domain.Content) ContentResponse {
	return ContentResponse{
		ID:            c.ID,
		AuthorID:      c.AuthorID,
		Type:          string(c.Type),
		Title:         c.Title,
		Body:          c.Body,
		MediaRef:      c.MediaRef,
		LikesCount:    c.LikesCount,
		CommentsCount: c.CommentsCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ContentOutput wraps a content response for Huma.
type ContentOutput struct {
	Body ContentResponse
}

// CreateContentRequest is the request body for publishing content.
type CreateContentRequest struct {
	Type     string `json:"type" doc:"Content type: post or artwork"`
	Title    string `json:"title,omitempty" doc:"Title"`
	Body     string `json:"body,omitempty" doc:"Body text"`
	MediaRef string `json:"media_ref,omitempty" doc:"Media reference"`
}

// CreateContentInput wraps the create content request for Huma.
type CreateContentInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateContentRequest
}

// ContentIDInput contains parameters addressing a content item.
type ContentIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Content ID"`
}

// AuthorContentInput contains parameters for listing an author's content.
type AuthorContentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Author user ID"`
	Limit         int    `query:"limit" doc:"Items per page"`
	Cursor        string `query:"cursor" doc:"Opaque pagination cursor"`
}

// ContentPageOutput wraps a paginated content list for Huma.
type ContentPageOutput struct {
	Body PageResponse[ContentResponse]
}

// ContentListResponse contains an unpaginated content list.
type ContentListResponse struct {
	Items []ContentResponse `json:"items" doc:"Content items"`
}

// ContentListOutput wraps a content list for Huma.
type ContentListOutput struct {
	Body ContentListResponse
}

// === Handlers ===

func (s *Server) handleCreateContent(ctx context.Context, input *CreateContentInput) (*ContentOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Content.Create(ctx, userID, service.CreateContentParams{
		Type:     input.Body.Type,
		Title:    input.Body.Title,
		Body:     input.Body.Body,
		MediaRef: input.Body.MediaRef,
	})
	if err != nil {
		return nil, err
	}

	return &ContentOutput{Body: toContentResponse(c)}, nil
}

func (s *Server) handleGetContent(ctx context.Context, input *ContentIDInput) (*ContentOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	c, err := s.services.Content.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ContentOutput{Body: toContentResponse(c)}, nil
}

func (s *Server) handleDeleteContent(ctx context.Context, input *ContentIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Content.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Content deleted"}}, nil
}

func (s *Server) handleListAuthorContent(ctx context.Context, input *AuthorContentInput) (*ContentPageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	page, err := s.services.Content.ListByAuthor(ctx, input.ID, pagination(input.Limit, input.Cursor))
	if err != nil {
		return nil, err
	}

	items := make([]ContentResponse, len(page.Items))
	for i, c := range page.Items {
		items[i] = toContentResponse(c)
	}

	return &ContentPageOutput{Body: PageResponse[ContentResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}}, nil
}

func (s *Server) handleListBookmarks(ctx context.Context, input *AuthInput) (*ContentListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Content.Bookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ContentResponse, len(items))
	for i, c := range items {
		resp[i] = toContentResponse(c)
	}

	return &ContentListOutput{Body: ContentListResponse{Items: resp}}, nil
}
