package domain

// Player is the display copy of an externally-owned identity. The
// session stores these by value at creation; identity changes made
// elsewhere do not reach a running game.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Profile holds the externally-owned statistics for a player. The rules
// engine only touches it at game resolution to apply payouts.
type Profile struct {
	PlayerID  string `json:"playerId"`
	Balance   int    `json:"balance"`
	WinCount  int    `json:"winCount"`
	PlayCount int    `json:"playCount"`
	Poeni     int    `json:"poeni"`
}

// ApplyResult records one finished game on the profile: the play count
// always moves, winners earn double the entry cost, losers pay it, and
// the game points earned are accumulated as poeni.
func (p *Profile) ApplyResult(won bool, entryCost, gamePoints int) {
	p.PlayCount++
	if won {
		p.WinCount++
		p.Balance += 2 * entryCost
	} else {
		p.Balance -= entryCost
	}
	p.Poeni += gamePoints
}
