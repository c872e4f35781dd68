package handlers

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"yourturn/internal/game"
	"yourturn/internal/models"
)

// HandleGameState returns the current round state. Polling this is
// also what finalizes a round whose fuse ran out while nobody acted.
func (ctx *Context) HandleGameState(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, _, err := ctx.lobbyAndPlayer(r, ps.ByName("code")); err != nil {
		respondError(w, err)
		return
	}
	snap, err := ctx.Games.AdvanceAndSnapshot(ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, snap)
}

// HandleStartGame begins the first round. Host only.
func (ctx *Context) HandleStartGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.StartGame(r.Context(), ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleNewRound starts the next round, or ends the game when a team
// has reached the winning score. Host only.
func (ctx *Context) HandleNewRound(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Category string `json:"category"`
	}
	if err := readJSON(r, &req); err != nil {
		respondError(w, game.ErrValidation)
		return
	}

	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	completed, err := ctx.Games.StartNewRound(r.Context(), ps.ByName("code"), name, strings.TrimSpace(req.Category))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{"gameCompleted": completed})
}

// HandleSubmitAnswer checks the caller's typed answer against the
// current question.
func (ctx *Context) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := readJSON(r, &req); err != nil {
		respondError(w, game.ErrValidation)
		return
	}

	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	result, err := ctx.Games.SubmitAnswer(r.Context(), ps.ByName("code"), name, req.Answer)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// HandlePassTurn hands the turn to the other active player.
func (ctx *Context) HandlePassTurn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.PassTurn(r.Context(), ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleRefereePass forces a turn swap without resuming the timer.
func (ctx *Context) HandleRefereePass(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.PassTurnByReferee(r.Context(), ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleValidateAnswer approves a team's spoken answer for this turn.
func (ctx *Context) HandleValidateAnswer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Team string `json:"team"`
	}
	if err := readJSON(r, &req); err != nil {
		respondError(w, game.ErrValidation)
		return
	}
	team, ok := models.ParseTeam(req.Team)
	if !ok {
		respondError(w, game.ErrValidation)
		return
	}

	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.ValidateRefereeAnswer(ps.ByName("code"), name, team); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleToggleTimer pauses or resumes the fuse. Referee only.
func (ctx *Context) HandleToggleTimer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	running, err := ctx.Games.ToggleTimer(ps.ByName("code"), name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{"isTimerRunning": running})
}

// HandleVolunteer records the caller as their team's volunteer.
func (ctx *Context) HandleVolunteer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Team string `json:"team"`
	}
	if err := readJSON(r, &req); err != nil {
		respondError(w, game.ErrValidation)
		return
	}
	team, ok := models.ParseTeam(req.Team)
	if !ok {
		respondError(w, game.ErrValidation)
		return
	}

	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.VolunteerForTeam(ps.ByName("code"), name, team); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleWithdrawVolunteer releases the caller's volunteer slot.
func (ctx *Context) HandleWithdrawVolunteer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Team string `json:"team"`
	}
	if err := readJSON(r, &req); err != nil {
		respondError(w, game.ErrValidation)
		return
	}
	team, ok := models.ParseTeam(req.Team)
	if !ok {
		respondError(w, game.ErrValidation)
		return
	}

	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.WithdrawVolunteer(ps.ByName("code"), name, team); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleResetGame discards the round and returns the lobby to its
// pre-game state. Host only.
func (ctx *Context) HandleResetGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.ResetGame(ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}
