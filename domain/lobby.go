package domain

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// staleAfter is how long a lobby entry survives without a refresh.
const staleAfter = 5 * time.Minute

// LobbyPlayer is a player waiting to be matched.
type LobbyPlayer struct {
	Player
	Poeni    int       `json:"poeni"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Lobby is the shared waiting pool. Matchmaking removes a matched set
// atomically before handing it to the engine, so two concurrent match
// requests can never claim the same player.
type Lobby struct {
	mu      sync.Mutex
	players map[string]LobbyPlayer
	now     func() time.Time
}

// NewLobby creates an empty lobby.
func NewLobby() *Lobby {
	return &Lobby{
		players: make(map[string]LobbyPlayer),
		now:     time.Now,
	}
}

// Join adds a player to the pool, refreshing the entry if already there.
func (l *Lobby) Join(player Player, poeni int) LobbyPlayer {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LobbyPlayer{Player: player, Poeni: poeni, JoinedAt: l.now()}
	l.players[player.ID] = entry
	return entry
}

// Leave removes a player from the pool.
func (l *Lobby) Leave(playerID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.players[playerID]; !exists {
		return errors.New("player not in lobby")
	}
	delete(l.players, playerID)
	return nil
}

// Players lists waiting players, evicting entries older than five
// minutes on the way.
func (l *Lobby) Players() []LobbyPlayer {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictStale()
	out := make([]LobbyPlayer, 0, len(l.players))
	for _, p := range l.players {
		out = append(out, p)
	}
	return out
}

// TakeMatch atomically removes the requester plus count-1 random other
// players from the pool and returns them in seating order, requester
// first. Nobody is removed if the pool is too small.
func (l *Lobby) TakeMatch(requesterID string, count int) ([]Player, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictStale()

	requester, exists := l.players[requesterID]
	if !exists {
		return nil, errors.New("requester not in lobby")
	}

	others := make([]LobbyPlayer, 0, len(l.players)-1)
	for id, p := range l.players {
		if id != requesterID {
			others = append(others, p)
		}
	}
	if len(others) < count-1 {
		return nil, errors.New("not enough players in lobby")
	}

	rand.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	matched := make([]Player, 0, count)
	matched = append(matched, requester.Player)
	for _, p := range others[:count-1] {
		matched = append(matched, p.Player)
	}

	for _, p := range matched {
		delete(l.players, p.ID)
	}

	return matched, nil
}

// evictStale drops entries past the staleness window. Caller holds mu.
func (l *Lobby) evictStale() {
	cutoff := l.now().Add(-staleAfter)
	for id, p := range l.players {
		if p.JoinedAt.Before(cutoff) {
			delete(l.players, id)
		}
	}
}
