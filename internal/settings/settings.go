// Package settings exposes the tunable game parameters. The admin
// panel owns their persistence; the game core only ever reads them.
package settings

// Provider supplies the game parameters the round engine depends on.
type Provider interface {
	// WinningScore is the score a team needs to win the game.
	WinningScore() int
	// TimerSpeed is the fuse drift in units per second.
	TimerSpeed() float64
}

const (
	DefaultWinningScore = 5
	DefaultTimerSpeed   = 0.2
)

// Values is a Provider with fixed values, resolved once at startup
// from flags and environment.
type Values struct {
	Score int
	Speed float64
}

// Default returns the stock parameters.
func Default() Values {
	return Values{Score: DefaultWinningScore, Speed: DefaultTimerSpeed}
}

func (v Values) WinningScore() int {
	if v.Score <= 0 {
		return DefaultWinningScore
	}
	return v.Score
}

func (v Values) TimerSpeed() float64 {
	if v.Speed <= 0 {
		return DefaultTimerSpeed
	}
	return v.Speed
}
