package handlers

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"

	"yourturn/internal/game"
	"yourturn/internal/models"
)

// lobbyView is the wire shape for lobby metadata, separate from the
// in-round state snapshot.
type lobbyView struct {
	Code             string              `json:"code"`
	Host             string              `json:"host"`
	Category         string              `json:"category"`
	RefereeName      string              `json:"refereeName"`
	IsGameStarted    bool                `json:"isGameStarted"`
	Players          []models.PlayerView `json:"players"`
	ConnectedPlayers []string            `json:"connectedPlayers"`
}

func (ctx *Context) lobbyView(lobby *models.Lobby) lobbyView {
	lobby.RLock()
	defer lobby.RUnlock()
	players := make([]models.PlayerView, 0, len(lobby.Players))
	for _, p := range lobby.Players {
		players = append(players, models.PlayerView{Name: p.Name, Team: p.Team})
	}
	return lobbyView{
		Code:             lobby.Code,
		Host:             lobby.Host,
		Category:         lobby.Category,
		RefereeName:      lobby.RefereeName,
		IsGameStarted:    lobby.IsGameStarted,
		Players:          players,
		ConnectedPlayers: ctx.Hub.ConnectedPlayers(lobby.Code),
	}
}

// HandleCreateLobby creates a new lobby with the caller as host.
func (ctx *Context) HandleCreateLobby(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &req); err != nil {
		respondError(w, game.ErrValidation)
		return
	}

	lobby, sessionID, err := ctx.Games.CreateLobby(req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	setSessionCookie(w, sessionID)
	respondOK(w, map[string]any{
		"code":       lobby.Code,
		"playerName": lobby.Host,
	})
}

// HandleJoinLobby adds a player to an existing lobby. The code is
// matched case-insensitively so typed codes work.
func (ctx *Context) HandleJoinLobby(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &req); err != nil {
		respondError(w, game.ErrValidation)
		return
	}

	lobby, name, sessionID, err := ctx.Games.JoinLobby(ps.ByName("code"), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	setSessionCookie(w, sessionID)
	respondOK(w, map[string]any{
		"code":       lobby.Code,
		"playerName": name,
	})
}

// HandleLobbyInfo returns lobby metadata for the pre-game screen.
func (ctx *Context) HandleLobbyInfo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	lobby, _, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ctx.lobbyView(lobby))
}

// HandleLeaveLobby removes the caller from the lobby. Leaving as host
// closes the lobby for everyone.
func (ctx *Context) HandleLeaveLobby(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.LeaveLobby(ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleChooseTeam puts the caller on team A or B.
func (ctx *Context) HandleChooseTeam(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
	if err := ctx.Games.ChooseTeam(ps.ByName("code"), name, team); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleLeaveTeam returns the caller to the unassigned pool.
func (ctx *Context) HandleLeaveTeam(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.LeaveTeam(ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleChooseCategory sets the lobby category. Host only.
func (ctx *Context) HandleChooseCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
	if err := ctx.Games.ChooseCategory(ps.ByName("code"), name, strings.TrimSpace(req.Category)); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleRandomizeTeams balances unassigned players onto teams.
func (ctx *Context) HandleRandomizeTeams(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.RandomizeTeams(ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleResetTeams clears all team assignments.
func (ctx *Context) HandleResetTeams(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.ResetTeams(ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleBecomeReferee claims the referee role.
func (ctx *Context) HandleBecomeReferee(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.BecomeReferee(ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleLeaveReferee releases the referee role.
func (ctx *Context) HandleLeaveReferee(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := ctx.Games.LeaveReferee(ps.ByName("code"), name); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nil)
}

// HandleCategories lists the selectable question categories.
func (ctx *Context) HandleCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	categories, err := ctx.Questions.Categories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]any{"categories": categories})
}

// HandleInviteQR renders the lobby's join URL as a PNG QR code for
// phones to scan.
func (ctx *Context) HandleInviteQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	if _, err := ctx.Games.FindLobby(code); err != nil {
		respondError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	joinURL := scheme + "://" + r.Host + "/join/" + code

	const qrSize = 320
	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
