package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlorgames/mysteryparty/internal/api"
	"github.com/parlorgames/mysteryparty/internal/api/response"
	"github.com/parlorgames/mysteryparty/internal/factory"
	"github.com/parlorgames/mysteryparty/internal/services/auth"
	"github.com/parlorgames/mysteryparty/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
	auth    *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	err = app.MysteryService.LoadFromFile(t.Context(), "../../data/packages.json")
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		AuthService:         app.AuthService,
		MysteryService:      app.MysteryService,
		PartyController:     app.PartyController,
		AdmissionController: app.AdmissionController,
		PhaseAdvancer:       app.PhaseAdvancer,
		Hub:                 app.Hub,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
		auth:    app.AuthService,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateGuestUser(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"display_name": "Alice"}
	rr := ts.request(http.MethodPost, "/api/v1/users/guest", body, "")

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "Alice", resp.User.DisplayName)
	assert.True(t, resp.User.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/users/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &registerResp)
	require.NoError(t, err)
	assert.False(t, registerResp.User.IsGuest)

	// Login
	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/users/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &loginResp)
	require.NoError(t, err)
	assert.Equal(t, registerResp.User.ID, loginResp.User.ID)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)

	token := createGuestUser(t, ts, "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/users/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var meResp response.User
	err := json.Unmarshal(rr.Body.Bytes(), &meResp)
	require.NoError(t, err)
	assert.Equal(t, "Bob", meResp.DisplayName)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	// Try to get /me without token
	rr := ts.request(http.MethodGet, "/api/v1/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Try to create a party without token
	rr = ts.request(http.MethodPost, "/api/v1/parties", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListAndGetPackages(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestUser(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/packages", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var listResp []response.PackageSummary
	err := json.Unmarshal(rr.Body.Bytes(), &listResp)
	require.NoError(t, err)
	require.NotEmpty(t, listResp)

	rr = ts.request(http.MethodGet, "/api/v1/packages/"+listResp[0].ID, nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var pkgResp response.Package
	err = json.Unmarshal(rr.Body.Bytes(), &pkgResp)
	require.NoError(t, err)
	assert.Equal(t, listResp[0].ID, pkgResp.ID)
	assert.NotEmpty(t, pkgResp.Phases)

	rr = ts.request(http.MethodGet, "/api/v1/packages/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreatePartyAndInviteGuests(t *testing.T) {
	ts := newTestServer(t)

	hostToken := createGuestUser(t, ts, "Host")
	partyID := createParty(t, ts, hostToken, 3)

	// Host adds a guest and sees the invite code
	body := map[string]string{"name": "Alice"}
	rr := ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/guests", body, hostToken)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var guestResp response.Guest
	err := json.Unmarshal(rr.Body.Bytes(), &guestResp)
	require.NoError(t, err)
	assert.Equal(t, "Alice", guestResp.Name)
	assert.NotEmpty(t, guestResp.InviteCode)
	assert.Equal(t, "invited", guestResp.Status)

	// A non-host cannot add guests
	otherToken := createGuestUser(t, ts, "Other")
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/guests", body, otherToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestJoinPartyByInviteCode(t *testing.T) {
	ts := newTestServer(t)

	hostToken := createGuestUser(t, ts, "Host")
	guestToken := createGuestUser(t, ts, "Alice")

	partyID := createParty(t, ts, hostToken, 3)
	code := addGuest(t, ts, hostToken, partyID, "Alice")

	// Publish so the party is in PLANNED
	rr := ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/publish", nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)

	// Join with the code
	rr = ts.request(http.MethodPost, "/api/v1/join", map[string]string{"invite_code": code}, guestToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var joinResp response.Party
	err := json.Unmarshal(rr.Body.Bytes(), &joinResp)
	require.NoError(t, err)
	assert.Equal(t, 1, joinResp.JoinedCount)

	// The guest view never includes invite codes
	for _, g := range joinResp.Guests {
		assert.Empty(t, g.InviteCode)
	}

	// Replaying the code as a different user fails
	thirdToken := createGuestUser(t, ts, "Eve")
	rr = ts.request(http.MethodPost, "/api/v1/join", map[string]string{"invite_code": code}, thirdToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeclineInvite(t *testing.T) {
	ts := newTestServer(t)

	hostToken := createGuestUser(t, ts, "Host")
	partyID := createParty(t, ts, hostToken, 3)
	code := addGuest(t, ts, hostToken, partyID, "Alice")

	// Declining requires no authentication
	rr := ts.request(http.MethodPost, "/api/v1/invites/"+code+"/decline", nil, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The code is spent
	rr = ts.request(http.MethodPost, "/api/v1/invites/"+code+"/decline", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFullPartyFlow(t *testing.T) {
	ts := newTestServer(t)

	hostToken := createGuestUser(t, ts, "Host")
	guestToken := createGuestUser(t, ts, "Alice")

	partyID := createParty(t, ts, hostToken, 2)
	code := addGuest(t, ts, hostToken, partyID, "Alice")

	// Publish
	rr := ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/publish", nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)

	// Guest joins
	rr = ts.request(http.MethodPost, "/api/v1/join", map[string]string{"invite_code": code}, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	// Start
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/start", nil, hostToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var startResp response.Party
	err := json.Unmarshal(rr.Body.Bytes(), &startResp)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", startResp.Status)
	assert.Equal(t, 0, startResp.CurrentPhaseIndex)
	require.NotNil(t, startResp.GameState)

	// The host view carries the answer key, the guest view never does
	rr = ts.request(http.MethodGet, "/api/v1/parties/"+partyID, nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var hostView response.Party
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hostView))
	require.NotNil(t, hostView.GameState)
	assert.NotNil(t, hostView.GameState.Solution)

	rr = ts.request(http.MethodGet, "/api/v1/parties/"+partyID, nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var guestView response.Party
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &guestView))
	require.NotNil(t, guestView.GameState)
	assert.Nil(t, guestView.GameState.Solution)
	for _, g := range guestView.Guests {
		assert.Empty(t, g.InviteCode)
	}

	// Joining after start fails
	lateToken := createGuestUser(t, ts, "Late")
	rr = ts.request(http.MethodPost, "/api/v1/join", map[string]string{"invite_code": code}, lateToken)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Advance through every phase until the party completes
	status := "in_progress"
	for i := 0; i < 10 && status == "in_progress"; i++ {
		rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/advance", nil, hostToken)
		require.Equal(t, http.StatusOK, rr.Code)

		var advResp response.Party
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &advResp))
		status = advResp.Status
	}
	assert.Equal(t, "completed", status)

	// Advancing a completed party conflicts
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/advance", nil, hostToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRecordAccusation(t *testing.T) {
	ts := newTestServer(t)

	hostToken := createGuestUser(t, ts, "Host")
	guestToken := createGuestUser(t, ts, "Alice")

	partyID := createParty(t, ts, hostToken, 2)
	code := addGuest(t, ts, hostToken, partyID, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/publish", nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/join", map[string]string{"invite_code": code}, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/start", nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)

	accusation := map[string]string{
		"accused_character_id": "doctor",
		"reasoning":            "The codicil cut him out of the will",
	}

	// The accusation section is still locked in the opening phase
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/accusations", accusation, guestToken)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Advance to the final phase, which unlocks accusations
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/advance", nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/advance", nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/accusations", accusation, guestToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	var accuseResp response.Party
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accuseResp))
	require.NotNil(t, accuseResp.GameState)
	require.Len(t, accuseResp.GameState.Accusations, 1)
	assert.Equal(t, "doctor", accuseResp.GameState.Accusations[0].AccusedCharacterID)
	assert.Equal(t, "The codicil cut him out of the will", accuseResp.GameState.Accusations[0].Reasoning)

	// The host sees the recorded accusation too
	rr = ts.request(http.MethodGet, "/api/v1/parties/"+partyID, nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var hostView response.Party
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hostView))
	require.NotNil(t, hostView.GameState)
	require.Len(t, hostView.GameState.Accusations, 1)
	assert.Equal(t, "doctor", hostView.GameState.Accusations[0].AccusedCharacterID)

	// Outsiders cannot accuse, and neither can the host
	strangerToken := createGuestUser(t, ts, "Eve")
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/accusations", accusation, strangerToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/accusations", accusation, hostToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// An unknown character is rejected
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/accusations",
		map[string]string{"accused_character_id": "gardener"}, guestToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCancelParty(t *testing.T) {
	ts := newTestServer(t)

	hostToken := createGuestUser(t, ts, "Host")
	otherToken := createGuestUser(t, ts, "Other")
	partyID := createParty(t, ts, hostToken, 2)

	// Non-host cannot cancel
	rr := ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/cancel", nil, otherToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Host cancels
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/cancel", nil, hostToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var cancelResp response.Party
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cancelResp))
	assert.Equal(t, "cancelled", cancelResp.Status)

	// Cancelled parties reject lifecycle changes
	rr = ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/publish", nil, hostToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestInvalidCreatePartyRequests(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestUser(t, ts, "Host")

	// Missing title
	body := map[string]any{"mystery_package_id": "blackwood-manor", "max_guests": 3}
	rr := ts.request(http.MethodPost, "/api/v1/parties", body, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Zero capacity
	body = map[string]any{"mystery_package_id": "blackwood-manor", "title": "Party", "max_guests": 0}
	rr = ts.request(http.MethodPost, "/api/v1/parties", body, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown package
	body = map[string]any{"mystery_package_id": "missing", "title": "Party", "max_guests": 3}
	rr = ts.request(http.MethodPost, "/api/v1/parties", body, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// Helper functions

func createGuestUser(t *testing.T, ts *testServer, displayName string) string {
	t.Helper()

	body := map[string]string{"display_name": displayName}
	rr := ts.request(http.MethodPost, "/api/v1/users/guest", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.SessionToken
}

func createParty(t *testing.T, ts *testServer, token string, maxGuests int) string {
	t.Helper()

	body := map[string]any{
		"mystery_package_id": "blackwood-manor",
		"title":              "Test Mystery Night",
		"max_guests":         maxGuests,
	}
	rr := ts.request(http.MethodPost, "/api/v1/parties", body, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Party
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.ID
}

func addGuest(t *testing.T, ts *testServer, token, partyID, name string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/parties/"+partyID+"/guests", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Guest
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.InviteCode
}
