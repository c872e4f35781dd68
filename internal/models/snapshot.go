package models

// PlayerView is the serialized player entry of a state snapshot.
type PlayerView struct {
	Name string `json:"name"`
	Team Team   `json:"team"`
}

// StateSnapshot is the full game state as seen by polling clients.
// Push notifications carry no payload, so this is the ground truth
// clients re-fetch after every event.
type StateSnapshot struct {
	IsWaitingForVolunteers bool   `json:"isWaitingForVolunteers"`
	Team1Volunteer         string `json:"team1Volunteer,omitempty"`
	Team2Volunteer         string `json:"team2Volunteer,omitempty"`

	FusePosition   float64 `json:"fusePosition"`
	IsTimerRunning bool    `json:"isTimerRunning"`
	CurrentTurn    string  `json:"currentTurn,omitempty"`
	IsGameActive   bool    `json:"isGameActive"`
	Winner         Team    `json:"winner,omitempty"`

	Team1Score    int    `json:"team1Score"`
	Team2Score    int    `json:"team2Score"`
	ActivePlayer1 string `json:"activePlayer1,omitempty"`
	ActivePlayer2 string `json:"activePlayer2,omitempty"`

	GameWinner      Team `json:"gameWinner,omitempty"`
	IsGameCompleted bool `json:"isGameCompleted"`

	Question string `json:"question,omitempty"`

	Team1Validated bool   `json:"team1Validated"`
	Team2Validated bool   `json:"team2Validated"`
	RefereeName    string `json:"refereeName,omitempty"`

	Players []PlayerView `json:"players"`
}
