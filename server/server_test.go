package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkralj/fircik/domain"
	"github.com/dkralj/fircik/game"
	"github.com/dkralj/fircik/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *Server {
	sessions := store.NewMemorySessionStore()
	profiles := store.NewMemoryProfileStore()
	engine := game.NewEngine(sessions, profiles)
	return NewServer(engine, domain.NewLobby(), profiles)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type gameResponse struct {
	Game *domain.GameSession `json:"game"`
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLobbyJoinValidation(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodPost, "/api/lobby/join", JoinLobbyRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLobbyJoinAndList(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodPost, "/api/lobby/join",
		JoinLobbyRequest{Player: domain.Player{ID: "ana", Name: "Ana"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/lobby/players", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Players []domain.LobbyPlayer `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Players, 1)
	assert.Equal(t, "ana", resp.Players[0].ID)
}

func TestMatchmakingWaitsForOpponents(t *testing.T) {
	s := testServer()

	doJSON(t, s, http.MethodPost, "/api/lobby/join",
		JoinLobbyRequest{Player: domain.Player{ID: "ana"}})

	rec := doJSON(t, s, http.MethodPost, "/api/matchmaking/start",
		MatchmakingRequest{PlayerID: "ana", PlayerCount: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, true, resp["waiting"])
}

func TestMatchmakingRejectsBadPlayerCount(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodPost, "/api/matchmaking/start",
		MatchmakingRequest{PlayerID: "ana", PlayerCount: 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchmakingStartsGameOverHTTP(t *testing.T) {
	s := testServer()

	for _, id := range []string{"ana", "marko"} {
		doJSON(t, s, http.MethodPost, "/api/lobby/join",
			JoinLobbyRequest{Player: domain.Player{ID: id, Name: id}})
	}

	rec := doJSON(t, s, http.MethodPost, "/api/matchmaking/start",
		MatchmakingRequest{PlayerID: "ana", PlayerCount: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                `json:"success"`
		Game    *domain.GameSession `json:"game"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Game)
	assert.Equal(t, "ana", resp.Game.Players[0].ID, "the requester sits first")

	// The requester leads the bidding; an out-of-turn bid is a 400.
	gameID := resp.Game.ID
	rec = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/bid",
		BidRequest{PlayerID: "marko", Action: "pass"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/bid",
		BidRequest{PlayerID: "ana", Action: "pass"})
	require.Equal(t, http.StatusOK, rec.Code)

	var bidResp gameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bidResp))
	assert.Len(t, bidResp.Game.Bids, 1)
}

// failingSessions refuses every create, simulating storage loss at the
// worst moment of matchmaking.
type failingSessions struct{ store.SessionStore }

func (failingSessions) Create(*domain.GameSession) error {
	return errors.New("storage down")
}

func TestMatchmakingRejoinsLobbyWhenInitFails(t *testing.T) {
	profiles := store.NewMemoryProfileStore()
	engine := game.NewEngine(failingSessions{store.NewMemorySessionStore()}, profiles)
	s := NewServer(engine, domain.NewLobby(), profiles)

	for _, id := range []string{"ana", "marko"} {
		doJSON(t, s, http.MethodPost, "/api/lobby/join",
			JoinLobbyRequest{Player: domain.Player{ID: id, Name: id}})
	}

	rec := doJSON(t, s, http.MethodPost, "/api/matchmaking/start",
		MatchmakingRequest{PlayerID: "ana", PlayerCount: 2})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Both players are back in the pool, still waiting.
	rec = doJSON(t, s, http.MethodGet, "/api/lobby/players", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Players []domain.LobbyPlayer `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Players, 2)
}

func TestGetStateRedactsForViewer(t *testing.T) {
	s := testServer()

	for _, id := range []string{"ana", "marko"} {
		doJSON(t, s, http.MethodPost, "/api/lobby/join",
			JoinLobbyRequest{Player: domain.Player{ID: id, Name: id}})
	}
	rec := doJSON(t, s, http.MethodPost, "/api/matchmaking/start",
		MatchmakingRequest{PlayerID: "ana", PlayerCount: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var started struct {
		Game *domain.GameSession `json:"game"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	path := fmt.Sprintf("/api/games/%s?as=ana", started.Game.ID)
	rec = doJSON(t, s, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp gameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Game.Hands["ana"], 6)
	assert.NotContains(t, resp.Game.Hands, "marko")
	assert.Equal(t, 6, resp.Game.HandSizes["marko"])
}

func TestGetStateNotFound(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodGet, "/api/games/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfileNotFound(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodGet, "/api/profiles/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
