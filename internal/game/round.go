// Round engine: fuse movement, answer checking, turn passing and
// round conclusion. There is no ticking goroutine; the fuse is advanced
// from elapsed wall-clock time whenever anyone reads or acts, so every
// read can also finalize a round. All functions here expect the owning
// lobby's lock to be held by the caller.
package game

import (
	"strings"
	"time"

	"yourturn/internal/models"
)

// NewRecruitment creates a round that is waiting for one volunteer per
// team. Scores live in the round, so a fresh recruitment starts at 0-0.
func NewRecruitment(category string) *models.Round {
	return &models.Round{
		Phase:    models.PhaseWaiting,
		Category: category,
	}
}

// StartRound activates a round: volunteers become the active players,
// the fuse sits at center, the timer is stopped until the first turn
// begins, and scores carry over from the previous round.
func StartRound(category string, q *models.Question, team1Score, team2Score int,
	team1Volunteer, team2Volunteer string, startTeam models.Team, timerSpeed float64, now time.Time) *models.Round {

	r := &models.Round{
		Phase:             models.PhaseActive,
		Category:          category,
		Team1Volunteer:    team1Volunteer,
		Team2Volunteer:    team2Volunteer,
		ActivePlayer1:     team1Volunteer,
		ActivePlayer2:     team2Volunteer,
		FusePosition:      0,
		TimerSpeed:        timerSpeed,
		IsTimerRunning:    false,
		LastTurnStartTime: now,
		CurrentQuestion:   q,
		AskedQuestionIDs:  []int{q.ID},
		Team1Score:        team1Score,
		Team2Score:        team2Score,
	}
	if startTeam == models.TeamB {
		r.CurrentTurn = r.ActivePlayer2
	} else {
		r.CurrentTurn = r.ActivePlayer1
	}
	return r
}

// AdvanceFuse folds elapsed time into the fuse position and finalizes
// the round if an edge was reached. The base timestamp moves forward
// with each call, so repeated polls accumulate each second exactly
// once. Finalization is idempotent: a concluded round never re-scores.
func AdvanceFuse(r *models.Round, now time.Time) {
	if r == nil || r.Phase != models.PhaseActive || !r.IsTimerRunning {
		return
	}

	elapsed := now.Sub(r.LastTurnStartTime).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	movement := elapsed * r.TimerSpeed

	// The fuse burns toward the turn holder's losing edge.
	if r.CurrentTurn == r.ActivePlayer1 {
		r.FusePosition -= movement
	} else {
		r.FusePosition += movement
	}
	r.LastTurnStartTime = now
	clampFuse(r)

	if r.FusePosition <= FuseMin {
		concludeRound(r, models.TeamB)
	} else if r.FusePosition >= FuseMax {
		concludeRound(r, models.TeamA)
	}
}

func clampFuse(r *models.Round) {
	if r.FusePosition < FuseMin {
		r.FusePosition = FuseMin
	}
	if r.FusePosition > FuseMax {
		r.FusePosition = FuseMax
	}
}

// concludeRound records the round winner and their point, stops the
// timer and closes the round.
func concludeRound(r *models.Round, winner models.Team) {
	if r.Phase == models.PhaseConcluded {
		return
	}
	r.Phase = models.PhaseConcluded
	r.Winner = winner
	r.IsTimerRunning = false
	if winner == models.TeamA {
		r.Team1Score++
	} else {
		r.Team2Score++
	}
}

// ConcludeByExhaustion ends a round whose category ran out of
// questions. The winner is the team whose side the fuse leans toward;
// a non-negative fuse favors Team A.
func ConcludeByExhaustion(r *models.Round) {
	concludeRound(r, FuseLeader(r))
}

// FuseLeader returns the team currently ahead on the fuse.
func FuseLeader(r *models.Round) models.Team {
	if r.FusePosition >= 0 {
		return models.TeamA
	}
	return models.TeamB
}

// AnswerMatches compares a submitted answer to the correct one,
// trimmed and case-insensitive.
func AnswerMatches(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}

// ApplyCorrectAnswer rewards a correct answer: the timer stops, the
// fuse steps toward the answering team's winning side, the answered
// question is retired and the turn swaps. Stepping the fuse onto an
// edge concludes the round like any other edge hit.
func ApplyCorrectAnswer(r *models.Round, team models.Team) {
	r.IsTimerRunning = false
	if team == models.TeamA {
		r.FusePosition += CorrectAnswerStep
	} else {
		r.FusePosition -= CorrectAnswerStep
	}
	clampFuse(r)

	r.CurrentQuestion = nil
	SwapTurn(r)

	if r.FusePosition <= FuseMin {
		concludeRound(r, models.TeamB)
	} else if r.FusePosition >= FuseMax {
		concludeRound(r, models.TeamA)
	}
}

// SwapTurn hands the turn to the other active player and resets the
// per-turn referee validation flags.
func SwapTurn(r *models.Round) {
	if r.CurrentTurn == r.ActivePlayer1 {
		r.CurrentTurn = r.ActivePlayer2
	} else {
		r.CurrentTurn = r.ActivePlayer1
	}
	r.TurnSeq++
	r.Team1Validated = false
	r.Team2Validated = false
}

// InstallQuestion places the next question and restarts the per-turn
// clock. resumeTimer is false for referee-driven passes, which leave
// the timer stopped.
func InstallQuestion(r *models.Round, q *models.Question, now time.Time, resumeTimer bool) {
	r.CurrentQuestion = q
	r.AskedQuestionIDs = append(r.AskedQuestionIDs, q.ID)
	r.LastTurnStartTime = now
	r.IsTimerRunning = resumeTimer
}

// Volunteer records a volunteer for a team. Once both teams have one,
// they become the active players and Team A's volunteer holds the
// first turn.
func Volunteer(r *models.Round, playerName string, team models.Team) error {
	switch team {
	case models.TeamA:
		if r.Team1Volunteer != "" {
			return conflict("that team already has a volunteer")
		}
		r.Team1Volunteer = playerName
	case models.TeamB:
		if r.Team2Volunteer != "" {
			return conflict("that team already has a volunteer")
		}
		r.Team2Volunteer = playerName
	default:
		return invalid("invalid team")
	}

	if r.HasBothVolunteers() {
		r.ActivePlayer1 = r.Team1Volunteer
		r.ActivePlayer2 = r.Team2Volunteer
		r.CurrentTurn = r.ActivePlayer1
	}
	return nil
}

// WithdrawVolunteer clears a volunteer slot, only for the player who
// holds it.
func WithdrawVolunteer(r *models.Round, playerName string, team models.Team) error {
	switch {
	case team == models.TeamA && r.Team1Volunteer == playerName:
		r.Team1Volunteer = ""
		r.ActivePlayer1 = ""
	case team == models.TeamB && r.Team2Volunteer == playerName:
		r.Team2Volunteer = ""
		r.ActivePlayer2 = ""
	default:
		return unauthorized("you are not that team's volunteer")
	}
	r.CurrentTurn = ""
	return nil
}

// GameWinner returns which team reached the winning score, if any.
// Distinct from the round winner.
func GameWinner(team1Score, team2Score, winningScore int) (models.Team, bool) {
	if team1Score >= winningScore {
		return models.TeamA, true
	}
	if team2Score >= winningScore {
		return models.TeamB, true
	}
	return models.TeamNone, false
}
