package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/muralapp/mural-server/internal/identity"
	"github.com/muralapp/mural-server/internal/logger"
	"github.com/muralapp/mural-server/internal/service"
	"github.com/muralapp/mural-server/internal/sse"
	"github.com/muralapp/mural-server/internal/store"
	"github.com/muralapp/mural-server/internal/validation"
)

// testEnvelope mirrors the response envelope for unmarshaling in tests.
// Success and error fields coexist so one type covers both shapes.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api     humatest.TestAPI
	cleanup func()
}

// setupTestServer creates a full server against a temp Badger store. The
// dev verifier treats the bearer token as the user ID, so tests
// authenticate as any user by sending "Bearer <user-id>".
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mural-api-test-*")
	require.NoError(t, err)

	st, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	log := logger.New(logger.Config{
		Writer: io.Discard,
		Format: "json",
		Level:  slog.LevelError,
	})
	slogger := log.Logger

	emitter := service.NewNoopEmitter()
	v := validation.New()

	notifications := service.NewNotificationService(st, emitter, slogger)
	services := &Services{
		Profile:      service.NewProfileService(st, v, slogger),
		Content:      service.NewContentService(st, emitter, v, slogger),
		Interaction:  service.NewInteractionService(st, emitter, notifications, v, slogger),
		Messaging:    service.NewMessagingService(st, emitter, notifications, v, slogger),
		Community:    service.NewCommunityService(st, v, slogger),
		Shop:         service.NewShopService(st, v, slogger),
		Notification: notifications,
	}

	verifier := identity.DevVerifier{}
	sseManager := sse.NewManager(slogger)
	sseHandler := sse.NewHandler(sseManager, func(r *http.Request) (string, error) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		return verifier.Verify(r.Context(), token)
	}, slogger)

	s := NewServer(st, services, sseHandler, sseManager, verifier, nil, log)

	cleanup := func() {
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		cleanup: cleanup,
	}
}

// createTestProfile registers a profile for the given user ID and
// returns the bearer token for it.
func (ts *testServer) createTestProfile(t *testing.T, userID, handle string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/profiles",
		map[string]any{
			"handle":       handle,
			"display_name": "User " + handle,
		},
		"Authorization: Bearer "+userID)
	require.Equal(t, http.StatusOK, resp.Code, "Profile create failed: %s", resp.Body.String())

	return userID
}

// decodeEnvelope unmarshals a response body into a typed envelope.
func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()

	var envelope testEnvelope[T]
	err := json.Unmarshal(body, &envelope)
	require.NoError(t, err)
	return envelope
}
