package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"yourturn/internal/game"
	"yourturn/internal/models"
	"yourturn/internal/questions"
	"yourturn/internal/store"
	"yourturn/internal/ws"
)

// sessionCookie carries the opaque session ID that maps back to a
// player name inside a lobby.
const sessionCookie = "player_id"

// Context holds the shared dependencies for all HTTP handlers.
type Context struct {
	LobbyStore *store.LobbyStore
	Games      *game.Service
	Hub        *ws.Hub
	Questions  questions.Source
	Version    string
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data})
}

// respondError translates the game error taxonomy into HTTP status
// codes and a uniform error body.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrLobbyNotFound), errors.Is(err, game.ErrRoundNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrUnauthorized), errors.Is(err, game.ErrNotYourTurn):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, game.ErrValidation):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, apiResponse{Success: false, Message: err.Error()})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable when serving over HTTPS
	})
}

// lobbyAndPlayer validates membership using the session cookie and
// returns the lobby together with the caller's resolved player name.
func (ctx *Context) lobbyAndPlayer(r *http.Request, code string) (*models.Lobby, string, error) {
	lobby, err := ctx.Games.FindLobby(code)
	if err != nil {
		return nil, "", err
	}
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, "", game.ErrUnauthorized
	}
	lobby.RLock()
	name, ok := lobby.PlayerForSession(cookie.Value)
	lobby.RUnlock()
	if !ok {
		return nil, "", game.ErrUnauthorized
	}
	return lobby, name, nil
}
