package domain

// ResolvePartner scans the play history of the current round for the
// caller's claimed partner card and returns the id of whoever played
// it. It is a pure function over the recorded claim and the immutable
// history; it returns "" while the card has not surfaced yet.
func ResolvePartner(s *GameSession) string {
	if s.Variant != FourPlayer || s.PartnerCard == nil {
		return ""
	}

	for _, trick := range s.CompletedTricks {
		for _, pc := range trick.Cards {
			if pc.Card.Equals(*s.PartnerCard) {
				return pc.PlayerID
			}
		}
	}
	for _, pc := range s.CurrentTrick {
		if pc.Card.Equals(*s.PartnerCard) {
			return pc.PlayerID
		}
	}

	return ""
}

// TeamOf returns the team a player belongs to. The trump caller is
// always team1; everyone else is undetermined (ok=false) until the
// claimed partner card has been played, after which the holder joins
// team1 and the rest are team2.
func TeamOf(s *GameSession, playerID string) (team string, ok bool) {
	if s.Variant != FourPlayer {
		return "", false
	}

	if playerID == s.TrumpCaller {
		return Team1, true
	}

	partner := s.PartnerPlayerID
	if !s.TeamsRevealed {
		partner = ResolvePartner(s)
		if partner == "" {
			return "", false
		}
	}

	if playerID == partner {
		return Team1, true
	}
	return Team2, true
}
