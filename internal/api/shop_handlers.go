package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/muralapp/mural-server/internal/domain"
	"github.com/muralapp/mural-server/internal/service"
)

func (s *Server) registerShopRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createShop",
		Method:      http.MethodPost,
		Path:        "/api/v1/shops",
		Summary:     "Create shop",
		Description: "Opens the caller's storefront, one per user",
		Tags:        []string{"Shops"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateShop)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShop",
		Method:      http.MethodGet,
		Path:        "/api/v1/shops/{id}",
		Summary:     "Get shop",
		Tags:        []string{"Shops"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShop)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfileShop",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{id}/shop",
		Summary:     "Get a user's shop",
		Tags:        []string{"Shops"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfileShop)

	huma.Register(s.api, huma.Operation{
		OperationID: "addListing",
		Method:      http.MethodPost,
		Path:        "/api/v1/shops/{id}/listings",
		Summary:     "Add listing",
		Description: "Adds an item to the caller's own shop",
		Tags:        []string{"Shops"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddListing)

	huma.Register(s.api, huma.Operation{
		OperationID: "listListings",
		Method:      http.MethodGet,
		Path:        "/api/v1/shops/{id}/listings",
		Summary:     "List listings",
		Tags:        []string{"Shops"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListListings)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeListing",
		Method:      http.MethodDelete,
		Path:        "/api/v1/listings/{id}",
		Summary:     "Remove listing",
		Description: "Removes a listing from the caller's own shop",
		Tags:        []string{"Shops"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveListing)
}

// === DTOs ===

// ShopResponse contains shop data in API responses.
type ShopResponse struct {
	ID          string    `json:"id" doc:"Shop ID"`
	OwnerID     string    `json:"owner_id" doc:"Owner user ID"`
	Name        string    `json:"name" doc:"Shop name"`
	Description string    `json:"description,omitempty" doc:"Description"`
	BannerRef   string    `json:"banner_ref,omitempty" doc:"Banner media reference"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func toShopResponse(sh *domain.Shop) ShopResponse {
	return ShopResponse{
		ID:          sh.ID,
		OwnerID:     sh.OwnerID,
		Name:        sh.Name,
		Description: sh.Description,
		BannerRef:   sh.BannerRef,
		CreatedAt:   sh.CreatedAt,
		UpdatedAt:   sh.UpdatedAt,
	}
}

// ShopOutput wraps a shop response for Huma.
type ShopOutput struct {
	Body ShopResponse
}

// CreateShopRequest is the request body for opening a shop.
type CreateShopRequest struct {
	Name        string `json:"name" doc:"Shop name"`
	Description string `json:"description,omitempty" doc:"Description"`
	BannerRef   string `json:"banner_ref,omitempty" doc:"Banner media reference"`
}

// CreateShopInput wraps the create shop request for Huma.
type CreateShopInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateShopRequest
}

// ShopIDInput contains parameters addressing a shop.
type ShopIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shop ID"`
}

// ListingResponse contains listing data in API responses.
type ListingResponse struct {
	ID          string    `json:"id" doc:"Listing ID"`
	ShopID      string    `json:"shop_id" doc:"Parent shop ID"`
	Title       string    `json:"title" doc:"Item title"`
	Description string    `json:"description,omitempty" doc:"Description"`
	MediaRef    string    `json:"media_ref,omitempty" doc:"Media reference"`
	PriceCents  int64     `json:"price_cents" doc:"Price in minor currency units"`
	Currency    string    `json:"currency" doc:"ISO 4217 currency code"`
	Available   bool      `json:"available" doc:"Whether the item is available"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func toListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		ShopID:      l.ShopID,
		Title:       l.Title,
		Description: l.Description,
		MediaRef:    l.MediaRef,
		PriceCents:  l.PriceCents,
		Currency:    l.Currency,
		Available:   l.Available,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// ListingOutput wraps a listing response for Huma.
type ListingOutput struct {
	Body ListingResponse
}

// CreateListingRequest is the request body for adding a listing.
type CreateListingRequest struct {
	Title       string `json:"title" doc:"Item title"`
	Description string `json:"description,omitempty" doc:"Description"`
	MediaRef    string `json:"media_ref,omitempty" doc:"Media reference"`
	PriceCents  int64  `json:"price_cents" doc:"Price in minor currency units"`
	Currency    string `json:"currency" doc:"ISO 4217 currency code"`
}

// CreateListingInput wraps the add listing request for Huma.
type CreateListingInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shop ID"`
	Body          CreateListingRequest
}

// ListingListResponse contains a shop's listings.
type ListingListResponse struct {
	Listings []ListingResponse `json:"listings" doc:"Shop listings"`
}

// ListingListOutput wraps a listing list for Huma.
type ListingListOutput struct {
	Body ListingListResponse
}

// ListingIDInput contains parameters addressing a listing.
type ListingIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Listing ID"`
}

// === Handlers ===

func (s *Server) handleCreateShop(ctx context.Context, input *CreateShopInput) (*ShopOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	sh, err := s.services.Shop.Create(ctx, userID, service.CreateShopParams{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		BannerRef:   input.Body.BannerRef,
	})
	if err != nil {
		return nil, err
	}

	return &ShopOutput{Body: toShopResponse(sh)}, nil
}

func (s *Server) handleGetShop(ctx context.Context, input *ShopIDInput) (*ShopOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	sh, err := s.services.Shop.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ShopOutput{Body: toShopResponse(sh)}, nil
}

func (s *Server) handleGetProfileShop(ctx context.Context, input *ProfileIDInput) (*ShopOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	sh, err := s.services.Shop.GetByOwner(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ShopOutput{Body: toShopResponse(sh)}, nil
}

func (s *Server) handleAddListing(ctx context.Context, input *CreateListingInput) (*ListingOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	l, err := s.services.Shop.AddListing(ctx, userID, input.ID, service.CreateListingParams{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		MediaRef:    input.Body.MediaRef,
		PriceCents:  input.Body.PriceCents,
		Currency:    input.Body.Currency,
	})
	if err != nil {
		return nil, err
	}

	return &ListingOutput{Body: toListingResponse(l)}, nil
}

func (s *Server) handleListListings(ctx context.Context, input *ShopIDInput) (*ListingListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	listings, err := s.services.Shop.Listings(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]ListingResponse, len(listings))
	for i, l := range listings {
		resp[i] = toListingResponse(l)
	}

	return &ListingListOutput{Body: ListingListResponse{Listings: resp}}, nil
}

func (s *Server) handleRemoveListing(ctx context.Context, input *ListingIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shop.RemoveListing(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Listing removed"}}, nil
}
