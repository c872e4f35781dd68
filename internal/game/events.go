package game

// Notification kinds pushed to clients watching a lobby. Events carry
// no payload; clients re-poll the state endpoint for ground truth, so
// duplicates and drops are harmless. The non-update kinds tell clients
// to hard-refresh instead of just polling again.
const (
	EventUpdate      = "update"
	EventGameStarted = "game-started"
	EventNewRound    = "new-round"
	EventGameReset   = "game-reset"
	EventLobbyClosed = "lobby-closed"
)

// Notifier pushes a payload-less event to every client watching a
// lobby. Fire-and-forget; at-least-once is acceptable.
type Notifier interface {
	Notify(lobbyCode, event string)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}
