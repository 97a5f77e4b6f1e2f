package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/muralapp/mural-server/internal/domain"
	apperr "github.com/muralapp/mural-server/internal/errors"
	"github.com/muralapp/mural-server/internal/id"
	"github.com/muralapp/mural-server/internal/store"
	"github.com/muralapp/mural-server/internal/validation"
)

// ShopService manages storefronts and their listings. Checkout and
// payment are handled by external commerce partners; this is catalog
// metadata only.
type ShopService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewShopService creates a new shop service.
func NewShopService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *ShopService {
	return &ShopService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateShopParams are the inputs for opening a shop.
type CreateShopParams struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"max=1000"`
	BannerRef   string `json:"banner_ref" validate:"max=200"`
}

// Create opens a storefront for the caller. One shop per user.
func (s *ShopService) Create(ctx context.Context, ownerID string, params CreateShopParams) (*domain.Shop, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	if _, err := s.store.Shops.GetByIndex(ctx, "owner", ownerID); err == nil {
		return nil, apperr.AlreadyExists("user already has a shop")
	} else if !apperr.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	shopID, err := id.Generate("shop")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	shop := &domain.Shop{
		ID:          shopID,
		OwnerID:     ownerID,
		Name:        params.Name,
		Description: params.Description,
		BannerRef:   params.BannerRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Shops.Create(ctx, shopID, shop); err != nil {
		return nil, err
	}

	s.logger.Info("shop created", "shop_id", shopID, "owner_id", ownerID)
	return shop, nil
}

// Get returns a shop by ID.
func (s *ShopService) Get(ctx context.Context, shopID string) (*domain.Shop, error) {
	return s.store.Shops.Get(ctx, shopID)
}

// GetByOwner returns a user's shop.
func (s *ShopService) GetByOwner(ctx context.Context, ownerID string) (*domain.Shop, error) {
	return s.store.Shops.GetByIndex(ctx, "owner", ownerID)
}

// CreateListingParams are the inputs for listing an item.
type CreateListingParams struct {
	Title       string `json:"title" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=2000"`
	MediaRef    string `json:"media_ref" validate:"max=200"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Currency    string `json:"currency" validate:"required,len=3"`
}

// AddListing puts an item up in the caller's shop.
func (s *ShopService) AddListing(ctx context.Context, ownerID, shopID string, params CreateListingParams) (*domain.Listing, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	shop, err := s.store.Shops.Get(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != ownerID {
		return nil, apperr.Forbidden("only the shop owner can add listings")
	}

	listingID, err := id.Generate("lst")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	listing := &domain.Listing{
		ID:          listingID,
		ShopID:      shopID,
		Title:       params.Title,
		Description: params.Description,
		MediaRef:    params.MediaRef,
		PriceCents:  params.PriceCents,
		Currency:    params.Currency,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Listings.Create(ctx, listingID, listing); err != nil {
		return nil, err
	}

	s.logger.Info("listing created", "listing_id", listingID, "shop_id", shopID)
	return listing, nil
}

// Listings returns a shop's listings.
func (s *ShopService) Listings(ctx context.Context, shopID string) ([]*domain.Listing, error) {
	if _, err := s.store.Shops.Get(ctx, shopID); err != nil {
		return nil, err
	}

	var listings []*domain.Listing
	for listing, err := range s.store.Listings.List(ctx) {
		if err != nil {
			return nil, err
		}
		if listing.ShopID == shopID {
			listings = append(listings, listing)
		}
	}
	return listings, nil
}

// RemoveListing takes a listing down from the caller's shop.
func (s *ShopService) RemoveListing(ctx context.Context, ownerID, listingID string) error {
	listing, err := s.store.Listings.Get(ctx, listingID)
	if err != nil {
		return err
	}

	shop, err := s.store.Shops.Get(ctx, listing.ShopID)
	if err != nil {
		return err
	}
	if shop.OwnerID != ownerID {
		return apperr.Forbidden("only the shop owner can remove listings")
	}

	return s.store.Listings.Delete(ctx, listingID)
}
