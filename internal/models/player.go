package models

// Team identifies one of the two sides of a game. Display labels
// (colors, left/right, localized names) are a client concern.
type Team string

const (
	TeamNone Team = ""
	TeamA    Team = "A"
	TeamB    Team = "B"
)

// ParseTeam converts a request value into a Team.
func ParseTeam(s string) (Team, bool) {
	switch Team(s) {
	case TeamA:
		return TeamA, true
	case TeamB:
		return TeamB, true
	}
	return TeamNone, false
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return TeamNone
}

// Player represents a player in a lobby. The name doubles as the
// player's identity within the lobby, so it must be unique there.
type Player struct {
	Name string `json:"name"`
	Team Team   `json:"team"`
}
