package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dkralj/fircik/cards"
	"github.com/dkralj/fircik/domain"
	"github.com/dkralj/fircik/game"
	"github.com/dkralj/fircik/server/connection"
	"github.com/dkralj/fircik/store"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Server exposes the game engine over HTTP (polling) and WebSocket
// (push). All game state lives behind the engine; the server only
// translates requests and fans out snapshots.
type Server struct {
	engine   *game.Engine
	lobby    *domain.Lobby
	profiles store.ProfileStore
	connMgr  *connection.Manager
	router   *mux.Router
}

// NewServer wires the transport around an engine, a lobby and the
// profile store.
func NewServer(engine *game.Engine, lobby *domain.Lobby, profiles store.ProfileStore) *Server {
	s := &Server{
		engine:   engine,
		lobby:    lobby,
		profiles: profiles,
		connMgr:  connection.NewManager(),
	}

	engine.OnUpdate(s.pushState)
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/api/health", s.handleHealth).Methods("GET", "OPTIONS")

	r.HandleFunc("/api/lobby/join", s.handleLobbyJoin).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/lobby/leave", s.handleLobbyLeave).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/lobby/players", s.handleLobbyPlayers).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/matchmaking/start", s.handleMatchmaking).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/games/{id}", s.handleGetState).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/games/{id}/bid", s.handleBid).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/games/{id}/play", s.handlePlayCard).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/games/{id}/call", s.handleCall).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/games/{id}/talon-exchange", s.handleExchangeTalon).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/profiles/{id}", s.handleGetProfile).Methods("GET", "OPTIONS")

	r.HandleFunc("/ws", s.handleWebSocket)

	s.router = r
}

// Start begins the server on the specified port
func (s *Server) Start(port string) error {
	go s.connMgr.Start()

	log.Printf("Starting server on port %s", port)
	return http.ListenAndServe("0.0.0.0:"+port, s.router)
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrPhaseMismatch),
		errors.Is(err, domain.ErrTurnViolation),
		errors.Is(err, domain.ErrIllegalCard),
		errors.Is(err, domain.ErrCallIneligible):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// JoinLobbyRequest carries the display identity of a waiting player.
type JoinLobbyRequest struct {
	Player domain.Player `json:"player"`
}

func (s *Server) handleLobbyJoin(w http.ResponseWriter, r *http.Request) {
	var req JoinLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Player.ID == "" {
		http.Error(w, "Player id is required", http.StatusBadRequest)
		return
	}

	// The lobby shows each player's accumulated poeni next to the name.
	poeni := 0
	if profile, err := s.profiles.Get(req.Player.ID); err == nil {
		poeni = profile.Poeni
	}

	entry := s.lobby.Join(req.Player, poeni)
	writeJSON(w, http.StatusOK, map[string]any{"player": entry})
}

// LeaveLobbyRequest identifies the player leaving the pool.
type LeaveLobbyRequest struct {
	PlayerID string `json:"playerId"`
}

func (s *Server) handleLobbyLeave(w http.ResponseWriter, r *http.Request) {
	var req LeaveLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.lobby.Leave(req.PlayerID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLobbyPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"players": s.lobby.Players()})
}

// MatchmakingRequest asks for a game of playerCount seats around the
// requesting player.
type MatchmakingRequest struct {
	PlayerID    string `json:"playerId"`
	PlayerCount int    `json:"playerCount"`
}

func (s *Server) handleMatchmaking(w http.ResponseWriter, r *http.Request) {
	var req MatchmakingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	variant := domain.Variant(req.PlayerCount)
	if !variant.Valid() {
		http.Error(w, "Player count must be 2, 3 or 4", http.StatusBadRequest)
		return
	}

	players, err := s.lobby.TakeMatch(req.PlayerID, req.PlayerCount)
	if err != nil {
		// Not enough opponents yet; the client keeps waiting.
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "waiting": true, "message": err.Error()})
		return
	}

	session, err := s.engine.Init(uuid.NewString(), players, variant)
	if err != nil {
		// The match already removed these players from the pool; put
		// them back so they keep waiting instead of vanishing.
		for _, p := range players {
			poeni := 0
			if profile, perr := s.profiles.Get(p.ID); perr == nil {
				poeni = profile.Poeni
			}
			s.lobby.Join(p, poeni)
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "game": session})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.engine.GetState(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	// ?as=<playerId> returns the viewer's redacted copy; without it the
	// caller gets the full record (trusted/admin use).
	if viewer := r.URL.Query().Get("as"); viewer != "" {
		view, err := session.RedactFor(viewer)
		if err != nil {
			writeError(w, err)
			return
		}
		session = view
	}

	writeJSON(w, http.StatusOK, map[string]any{"game": session})
}

// BidRequest is a pass or a trump call.
type BidRequest struct {
	PlayerID       string      `json:"playerId"`
	Action         string      `json:"action"`
	TrumpSuit      string      `json:"trumpSuit,omitempty"`
	AdditionalGame string      `json:"additionalGame,omitempty"`
	PartnerCard    *cards.Card `json:"partnerCard,omitempty"`
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req BidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := s.engine.Bid(sessionID, req.PlayerID,
		domain.BidAction(req.Action), cards.Suit(req.TrumpSuit),
		req.AdditionalGame, req.PartnerCard)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"game": session})
}

// PlayCardRequest plays one card from the player's hand.
type PlayCardRequest struct {
	PlayerID string     `json:"playerId"`
	Card     cards.Card `json:"card"`
}

func (s *Server) handlePlayCard(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req PlayCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := s.engine.PlayCard(sessionID, req.PlayerID, req.Card)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"game": session})
}

// CallRequest declares a cvancik or fircik in the given suit.
type CallRequest struct {
	PlayerID string `json:"playerId"`
	Suit     string `json:"suit"`
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := s.engine.Call(sessionID, req.PlayerID, cards.Suit(req.Suit))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"game": session})
}

// ExchangeTalonRequest returns two cards against the talon.
type ExchangeTalonRequest struct {
	PlayerID      string       `json:"playerId"`
	ReturnedCards []cards.Card `json:"returnedCards"`
}

func (s *Server) handleExchangeTalon(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req ExchangeTalonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := s.engine.ExchangeTalon(sessionID, req.PlayerID, req.ReturnedCards)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"game": session})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	profile, err := s.profiles.Get(playerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	clientID := uuid.NewString()
	log.Printf("New client connected: %s with ID: %s", r.RemoteAddr, clientID)

	client := &connection.Client{
		ID:   clientID,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	s.connMgr.Register <- client

	go s.readPump(client)
	go s.writePump(client)
}

// wsCommand is the only message clients send over the socket: watch or
// stop watching a game.
type wsCommand struct {
	Action    string `json:"action"` // "subscribe" or "unsubscribe"
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId,omitempty"`
}

// readPump reads messages from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Unregister <- client
		client.Conn.Close()
	}()

	var playerID string
	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error: %v", err)
			}
			break
		}

		var cmd wsCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			log.Printf("Error parsing ws command: %v", err)
			continue
		}

		switch cmd.Action {
		case "subscribe":
			if cmd.PlayerID != "" {
				playerID = cmd.PlayerID
				s.connMgr.SetPlayer(client.ID, cmd.PlayerID)
			}
			s.connMgr.Subscribe(client.ID, cmd.SessionID)
			// Send the current snapshot right away so the client does
			// not wait for the next action.
			if session, err := s.engine.GetState(cmd.SessionID); err == nil {
				if payload, ok := s.encodeSnapshot(session, playerID); ok {
					s.connMgr.SendToClient(client.ID, payload)
				}
			}
		case "unsubscribe":
			s.connMgr.Unsubscribe(client.ID, cmd.SessionID)
		default:
			log.Printf("unknown ws action %q", cmd.Action)
		}
	}
}

// writePump sends messages to the WebSocket connection
func (s *Server) writePump(client *connection.Client) {
	defer func() {
		client.Conn.Close()
	}()

	for {
		message, ok := <-client.Send
		if !ok {
			// Channel closed
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		err := client.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			log.Printf("Error writing message: %v", err)
			return
		}
	}
}

// pushState fans a fresh snapshot out to every client watching the
// session. Each client gets its own redacted view; the manager does the
// delivery under its lock so a disconnecting client cannot race the
// send.
func (s *Server) pushState(session *domain.GameSession) {
	s.connMgr.BroadcastSession(session.ID, func(playerID string) ([]byte, bool) {
		return s.encodeSnapshot(session, playerID)
	})
}

func (s *Server) encodeSnapshot(session *domain.GameSession, viewerID string) ([]byte, bool) {
	view, err := session.RedactFor(viewerID)
	if err != nil {
		log.Printf("Error redacting session %s: %v", session.ID, err)
		return nil, false
	}

	payload, err := json.Marshal(map[string]any{"type": "game_state", "game": view})
	if err != nil {
		log.Printf("Error encoding snapshot: %v", err)
		return nil, false
	}
	return payload, true
}
