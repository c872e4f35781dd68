package models

import "time"

// RoundPhase represents where a round is in its lifecycle.
type RoundPhase string

const (
	// PhaseWaiting means the round is recruiting one volunteer per team.
	PhaseWaiting RoundPhase = "waiting_for_volunteers"
	// PhaseActive means the two active players are alternating turns.
	PhaseActive RoundPhase = "active"
	// PhaseConcluded means the fuse reached an edge or the category ran
	// out of questions; a winner has been recorded.
	PhaseConcluded RoundPhase = "concluded"
)

// Round is the state of a single question-answering contest. All fields
// are mutated only while the owning lobby's lock is held.
type Round struct {
	Phase    RoundPhase
	Category string

	Team1Volunteer string
	Team2Volunteer string

	// ActivePlayer1 plays for Team A, ActivePlayer2 for Team B.
	ActivePlayer1 string
	ActivePlayer2 string
	CurrentTurn   string

	// TurnSeq increments on every turn change. Question fetches happen
	// outside the lobby lock; the stored sequence lets re-entry detect
	// that the turn moved on and the fetched question is stale.
	TurnSeq int

	// FusePosition is in [FuseMin, FuseMax]. It drifts toward the
	// current turn holder's losing edge while the timer runs: negative
	// during Team A's turn, positive during Team B's.
	FusePosition      float64
	TimerSpeed        float64
	IsTimerRunning    bool
	LastTurnStartTime time.Time

	CurrentQuestion  *Question
	AskedQuestionIDs []int

	Team1Score int
	Team2Score int

	// Winner is the round winner, distinct from the game winner
	// computed from scores.
	Winner Team

	// Referee validation flags, reset on every turn change. Only
	// consulted when the lobby has a referee.
	Team1Validated bool
	Team2Validated bool
}

// TeamOf returns which team the given active player plays for, or
// TeamNone if the name is not an active player of this round.
func (r *Round) TeamOf(playerName string) Team {
	switch {
	case playerName == "":
		return TeamNone
	case playerName == r.ActivePlayer1:
		return TeamA
	case playerName == r.ActivePlayer2:
		return TeamB
	}
	return TeamNone
}

// HasBothVolunteers reports whether recruitment is complete.
func (r *Round) HasBothVolunteers() bool {
	return r.Team1Volunteer != "" && r.Team2Volunteer != ""
}

// QuestionText returns the current question's text, or "" between
// questions.
func (r *Round) QuestionText() string {
	if r.CurrentQuestion == nil {
		return ""
	}
	return r.CurrentQuestion.Text
}
