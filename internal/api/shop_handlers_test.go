package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createTestShop(t *testing.T, token, name string) ShopResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/shops",
		map[string]any{"name": name},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	return decodeEnvelope[ShopResponse](t, resp.Body.Bytes()).Data
}

func TestCreateShop_OnePerUser(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")

	shop := ts.createTestShop(t, "usr_a", "Alice Prints")
	assert.Equal(t, "usr_a", shop.OwnerID)

	resp := ts.api.Post("/api/v1/shops",
		map[string]any{"name": "Second Attempt"},
		"Authorization: Bearer usr_a")
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestGetProfileShop_ResolvesByOwner(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	shop := ts.createTestShop(t, "usr_a", "Alice Prints")

	resp := ts.api.Get("/api/v1/profiles/usr_a/shop", "Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ShopResponse](t, resp.Body.Bytes())
	assert.Equal(t, shop.ID, envelope.Data.ID)

	// A user without a shop yields 404.
	ts.createTestProfile(t, "usr_b", "bob")
	resp = ts.api.Get("/api/v1/profiles/usr_b/shop", "Authorization: Bearer usr_a")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAddListing_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")
	shop := ts.createTestShop(t, "usr_a", "Alice Prints")

	resp := ts.api.Post("/api/v1/shops/"+shop.ID+"/listings",
		map[string]any{
			"title":       "Signed print",
			"price_cents": 4500,
			"currency":    "EUR",
		},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	listing := decodeEnvelope[ListingResponse](t, resp.Body.Bytes())
	assert.Equal(t, shop.ID, listing.Data.ShopID)
	assert.Equal(t, int64(4500), listing.Data.PriceCents)
	assert.True(t, listing.Data.Available)

	// Bob cannot stock Alice's shop.
	resp = ts.api.Post("/api/v1/shops/"+shop.ID+"/listings",
		map[string]any{
			"title":       "Bootleg",
			"price_cents": 100,
			"currency":    "EUR",
		},
		"Authorization: Bearer usr_b")
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestRemoveListing_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	ts.createTestProfile(t, "usr_b", "bob")
	shop := ts.createTestShop(t, "usr_a", "Alice Prints")

	resp := ts.api.Post("/api/v1/shops/"+shop.ID+"/listings",
		map[string]any{
			"title":       "Sticker pack",
			"price_cents": 800,
			"currency":    "EUR",
		},
		"Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)
	listing := decodeEnvelope[ListingResponse](t, resp.Body.Bytes())

	resp = ts.api.Delete("/api/v1/listings/"+listing.Data.ID, "Authorization: Bearer usr_b")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/listings/"+listing.Data.ID, "Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/shops/"+shop.ID+"/listings", "Authorization: Bearer usr_a")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[ListingListResponse](t, resp.Body.Bytes())
	assert.Empty(t, envelope.Data.Listings)
}

func TestAddListing_RejectsBadCurrency(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestProfile(t, "usr_a", "alice")
	shop := ts.createTestShop(t, "usr_a", "Alice Prints")

	resp := ts.api.Post("/api/v1/shops/"+shop.ID+"/listings",
		map[string]any{
			"title":       "Print",
			"price_cents": 4500,
			"currency":    "EURO",
		},
		"Authorization: Bearer usr_a")
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}
