package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// HandleWS attaches the caller to the lobby's notification stream.
// Membership is checked once at connect time; after that the socket
// only ever carries event names.
func (ctx *Context) HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	lobby, name, err := ctx.lobbyAndPlayer(r, ps.ByName("code"))
	if err != nil {
		respondError(w, err)
		return
	}
	ctx.Hub.Serve(w, r, lobby.Code, name)
}
