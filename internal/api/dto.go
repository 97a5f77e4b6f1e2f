package api

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}

// PageResponse is a cursor-paginated list response.
type PageResponse[T any] struct {
	Items      []T    `json:"items" doc:"List of items"`
	NextCursor string `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool   `json:"has_more" doc:"Whether more items exist"`
}
