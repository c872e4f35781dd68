package store

import (
	"strings"
	"sync"

	"yourturn/internal/models"
)

// LobbyStore manages lobby storage
type LobbyStore struct {
	lobbies map[string]*models.Lobby
	mu      sync.RWMutex
}

// NewLobbyStore creates a new lobby store
func NewLobbyStore() *LobbyStore {
	return &LobbyStore{
		lobbies: make(map[string]*models.Lobby),
	}
}

// Get retrieves a lobby by exact code
func (s *LobbyStore) Get(code string) (*models.Lobby, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobby, exists := s.lobbies[code]
	return lobby, exists
}

// GetIgnoreCase retrieves a lobby by code, compared case-insensitively.
// Codes are user-typed at join time, so "ab12cd" must find "AB12CD".
func (s *LobbyStore) GetIgnoreCase(code string) (*models.Lobby, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if lobby, exists := s.lobbies[code]; exists {
		return lobby, true
	}
	for c, lobby := range s.lobbies {
		if strings.EqualFold(c, code) {
			return lobby, true
		}
	}
	return nil, false
}

// Set stores a lobby
func (s *LobbyStore) Set(code string, lobby *models.Lobby) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[code] = lobby
}

// Delete removes a lobby
func (s *LobbyStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, code)
}

// Exists checks if a lobby code exists
func (s *LobbyStore) Exists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.lobbies[code]
	return exists
}

// All returns a snapshot of the active lobbies
func (s *LobbyStore) All() []*models.Lobby {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobbies := make([]*models.Lobby, 0, len(s.lobbies))
	for _, lobby := range s.lobbies {
		lobbies = append(lobbies, lobby)
	}
	return lobbies
}

// Len returns the number of active lobbies
func (s *LobbyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lobbies)
}
