package models

import (
	"strings"
	"sync"
	"time"
)

// Lobby represents one game lobby. The embedded lock serializes all
// round-mutating operations for this lobby; unrelated lobbies never
// contend with each other.
type Lobby struct {
	Code          string
	Host          string
	Category      string
	Players       []*Player
	IsGameStarted bool
	Round         *Round
	RefereeName   string
	CreatedAt     time.Time

	// Sessions maps session IDs (cookie values) to player names.
	Sessions map[string]string

	mu sync.RWMutex
}

// Lock acquires the lobby's write lock
func (l *Lobby) Lock() {
	l.mu.Lock()
}

// Unlock releases the lobby's write lock
func (l *Lobby) Unlock() {
	l.mu.Unlock()
}

// RLock acquires the lobby's read lock
func (l *Lobby) RLock() {
	l.mu.RLock()
}

// RUnlock releases the lobby's read lock
func (l *Lobby) RUnlock() {
	l.mu.RUnlock()
}

// FindPlayer returns the player with the given name, or nil.
// Caller must hold the lobby lock.
func (l *Lobby) FindPlayer(name string) *Player {
	for _, p := range l.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// HasPlayerName reports whether a player name is already taken,
// compared case-insensitively. Caller must hold the lobby lock.
func (l *Lobby) HasPlayerName(name string) bool {
	for _, p := range l.Players {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// TeamCount returns the number of players assigned to a team.
// Caller must hold the lobby lock.
func (l *Lobby) TeamCount(team Team) int {
	count := 0
	for _, p := range l.Players {
		if p.Team == team {
			count++
		}
	}
	return count
}

// RemovePlayer removes a player by name and reports whether anything
// changed. Caller must hold the lobby lock.
func (l *Lobby) RemovePlayer(name string) bool {
	dst := l.Players[:0]
	removed := false
	for _, p := range l.Players {
		if p.Name == name {
			removed = true
			continue
		}
		dst = append(dst, p)
	}
	// Clear the vacated tail so the removed player can be collected.
	for i := len(dst); i < len(l.Players); i++ {
		l.Players[i] = nil
	}
	l.Players = dst
	return removed
}

// PlayerForSession resolves a session ID to a player name.
// Caller must hold the lobby lock.
func (l *Lobby) PlayerForSession(sessionID string) (string, bool) {
	name, ok := l.Sessions[sessionID]
	return name, ok
}

// RegisterSession binds a session ID to a player name.
// Caller must hold the lobby lock.
func (l *Lobby) RegisterSession(sessionID, playerName string) {
	if l.Sessions == nil {
		l.Sessions = make(map[string]string)
	}
	l.Sessions[sessionID] = playerName
}

// DropSessionsFor removes every session bound to the given player.
// Caller must hold the lobby lock.
func (l *Lobby) DropSessionsFor(playerName string) {
	for id, name := range l.Sessions {
		if name == playerName {
			delete(l.Sessions, id)
		}
	}
}
