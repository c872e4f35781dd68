package game

import (
	"strings"
	"testing"

	"yourturn/internal/models"
	"yourturn/internal/store"
)

func TestGenerateLobbyCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateLobbyCode()
		if len(code) != LobbyCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), LobbyCodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(LobbyCodeChars, c) {
				t.Fatalf("code %q contains %q, outside the alphabet", code, c)
			}
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Errorf("only %d distinct codes out of 100", len(seen))
	}
}

func TestUniqueLobbyCodeAvoidsCollisions(t *testing.T) {
	s := store.NewLobbyStore()
	taken := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := UniqueLobbyCode(s)
		if taken[code] {
			t.Fatalf("UniqueLobbyCode returned taken code %q", code)
		}
		taken[code] = true
		s.Set(code, &models.Lobby{Code: code})
	}
}

func TestGeneratePlayerName(t *testing.T) {
	if got := GeneratePlayerName("Alice"); got != "Alice" {
		t.Errorf("GeneratePlayerName(Alice) = %q, want passthrough", got)
	}
	got := GeneratePlayerName("")
	if !strings.HasPrefix(got, "Player") {
		t.Errorf("generated name %q should carry the Player prefix", got)
	}
}
