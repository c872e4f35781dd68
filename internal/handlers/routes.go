package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Register wires every handler into the router.
func (ctx *Context) Register(mux *httprouter.Router) {
	mux.GET("/healthz", ctx.HandleHealthz)
	mux.GET("/version", ctx.HandleVersion)
	mux.GET("/categories", ctx.HandleCategories)

	mux.POST("/lobbies", ctx.HandleCreateLobby)
	mux.POST("/lobbies/:code/join", ctx.HandleJoinLobby)
	mux.GET("/lobbies/:code", ctx.HandleLobbyInfo)
	mux.POST("/lobbies/:code/leave", ctx.HandleLeaveLobby)
	mux.GET("/lobbies/:code/qr", ctx.HandleInviteQR)
	mux.GET("/lobbies/:code/ws", ctx.HandleWS)

	mux.POST("/lobbies/:code/team", ctx.HandleChooseTeam)
	mux.POST("/lobbies/:code/team/leave", ctx.HandleLeaveTeam)
	mux.POST("/lobbies/:code/teams/randomize", ctx.HandleRandomizeTeams)
	mux.POST("/lobbies/:code/teams/reset", ctx.HandleResetTeams)
	mux.POST("/lobbies/:code/category", ctx.HandleChooseCategory)

	mux.POST("/lobbies/:code/referee", ctx.HandleBecomeReferee)
	mux.POST("/lobbies/:code/referee/leave", ctx.HandleLeaveReferee)
	mux.POST("/lobbies/:code/referee/validate", ctx.HandleValidateAnswer)
	mux.POST("/lobbies/:code/referee/pass", ctx.HandleRefereePass)
	mux.POST("/lobbies/:code/referee/timer", ctx.HandleToggleTimer)

	mux.GET("/lobbies/:code/state", ctx.HandleGameState)
	mux.POST("/lobbies/:code/start", ctx.HandleStartGame)
	mux.POST("/lobbies/:code/rounds", ctx.HandleNewRound)
	mux.POST("/lobbies/:code/answer", ctx.HandleSubmitAnswer)
	mux.POST("/lobbies/:code/pass", ctx.HandlePassTurn)
	mux.POST("/lobbies/:code/volunteer", ctx.HandleVolunteer)
	mux.POST("/lobbies/:code/volunteer/withdraw", ctx.HandleWithdrawVolunteer)
	mux.POST("/lobbies/:code/reset", ctx.HandleResetGame)
}

// HandleHealthz reports liveness.
func (ctx *Context) HandleHealthz(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// HandleVersion reports the build version.
func (ctx *Context) HandleVersion(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("yourturn v" + ctx.Version + "\n"))
}
