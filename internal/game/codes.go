package game

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
	"strconv"

	"yourturn/internal/store"
)

// GenerateLobbyCode creates a random lobby code
func GenerateLobbyCode() string {
	code := make([]byte, LobbyCodeLength)
	for i := 0; i < LobbyCodeLength; i++ {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(LobbyCodeChars))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = LobbyCodeChars[rand.Intn(len(LobbyCodeChars))]
			continue
		}
		code[i] = LobbyCodeChars[n.Int64()]
	}
	return string(code)
}

// UniqueLobbyCode generates a lobby code not already in use
func UniqueLobbyCode(lobbyStore *store.LobbyStore) string {
	for {
		code := GenerateLobbyCode()
		if !lobbyStore.Exists(code) {
			return code
		}
	}
}

// GeneratePlayerName falls back to a random name when none was given.
func GeneratePlayerName(playerName string) string {
	if playerName != "" {
		return playerName
	}
	return "Player" + strconv.Itoa(1000+rand.Intn(9000))
}
