package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"yourturn/internal/game"
	"yourturn/internal/questions"
	"yourturn/internal/settings"
	"yourturn/internal/store"
	"yourturn/internal/ws"
)

type testServer struct {
	ctx *Context
	mux *httprouter.Router
}

func newTestServer(questionCount int) *testServer {
	src := questions.NewMemorySource()
	for i := 0; i < questionCount; i++ {
		src.Add("history", "question", "answer")
	}
	lobbyStore := store.NewLobbyStore()
	hub := ws.NewHub()
	games := game.NewService(lobbyStore, src, settings.Default(), hub)

	ctx := &Context{
		LobbyStore: lobbyStore,
		Games:      games,
		Hub:        hub,
		Questions:  src,
		Version:    "test",
	}
	mux := httprouter.New()
	ctx.Register(mux)
	return &testServer{ctx: ctx, mux: mux}
}

func (s *testServer) request(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) (bool, map[string]any) {
	t.Helper()
	var resp struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp.Success, resp.Data
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// createLobby drives the create endpoint and returns the lobby code
// with the host's session cookie.
func (s *testServer) createLobby(t *testing.T, name string) (string, *http.Cookie) {
	t.Helper()
	rec := s.request(t, http.MethodPost, "/lobbies", map[string]string{"name": name}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("create lobby: status %d, body %s", rec.Code, rec.Body.String())
	}
	_, data := decodeResponse(t, rec)
	code, _ := data["code"].(string)
	if code == "" {
		t.Fatalf("create lobby: no code in %v", data)
	}
	return code, sessionFrom(t, rec)
}

func (s *testServer) join(t *testing.T, code, name string) *http.Cookie {
	t.Helper()
	rec := s.request(t, http.MethodPost, "/lobbies/"+code+"/join", map[string]string{"name": name}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("join: status %d, body %s", rec.Code, rec.Body.String())
	}
	return sessionFrom(t, rec)
}

func TestCreateJoinAndInfo(t *testing.T) {
	s := newTestServer(5)
	code, _ := s.createLobby(t, "Alice")
	bob := s.join(t, code, "Bob")

	rec := s.request(t, http.MethodGet, "/lobbies/"+code, nil, bob)
	if rec.Code != http.StatusOK {
		t.Fatalf("info: status %d", rec.Code)
	}
	_, data := decodeResponse(t, rec)
	if data["host"] != "Alice" {
		t.Errorf("host = %v, want Alice", data["host"])
	}
	players, _ := data["players"].([]any)
	if len(players) != 2 {
		t.Errorf("players = %v, want two entries", data["players"])
	}

	// Lobby info requires membership.
	rec = s.request(t, http.MethodGet, "/lobbies/"+code, nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("info without session: status %d, want 403", rec.Code)
	}
}

func TestJoinUnknownLobby(t *testing.T) {
	s := newTestServer(1)
	rec := s.request(t, http.MethodPost, "/lobbies/ZZZZZZ/join", map[string]string{"name": "Bob"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if success, _ := decodeResponse(t, rec); success {
		t.Fatal("body should report failure")
	}
}

func TestFullGameOverHTTP(t *testing.T) {
	s := newTestServer(10)
	code, host := s.createLobby(t, "Alice")
	bob := s.join(t, code, "Bob")

	steps := []struct {
		cookie *http.Cookie
		path   string
		body   any
	}{
		{host, "/team", map[string]string{"team": "A"}},
		{bob, "/team", map[string]string{"team": "B"}},
		{host, "/category", map[string]string{"category": "history"}},
		{host, "/volunteer", map[string]string{"team": "A"}},
		{bob, "/volunteer", map[string]string{"team": "B"}},
		{host, "/start", nil},
	}
	for _, step := range steps {
		rec := s.request(t, http.MethodPost, "/lobbies/"+code+step.path, step.body, step.cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("POST %s: status %d, body %s", step.path, rec.Code, rec.Body.String())
		}
	}

	rec := s.request(t, http.MethodGet, "/lobbies/"+code+"/state", nil, host)
	if rec.Code != http.StatusOK {
		t.Fatalf("state: status %d", rec.Code)
	}
	_, data := decodeResponse(t, rec)
	if data["isGameActive"] != true {
		t.Error("round should be active after start")
	}
	if data["question"] == "" {
		t.Error("a question should be in play")
	}

	turn, _ := data["currentTurn"].(string)
	turnCookie := host
	if turn == "Bob" {
		turnCookie = bob
	}
	rec = s.request(t, http.MethodPost, "/lobbies/"+code+"/answer", map[string]string{"answer": "answer"}, turnCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("answer: status %d, body %s", rec.Code, rec.Body.String())
	}
	_, result := decodeResponse(t, rec)
	if result["accepted"] != true || result["correct"] != true {
		t.Fatalf("answer result = %v, want accepted and correct", result)
	}

	// The answer is the same for every seeded question, but the turn
	// has swapped; the same player is now out of turn.
	rec = s.request(t, http.MethodPost, "/lobbies/"+code+"/answer", map[string]string{"answer": "answer"}, turnCookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("out-of-turn answer: status %d, want 403", rec.Code)
	}
}

func TestStartGameAuthorization(t *testing.T) {
	s := newTestServer(5)
	code, _ := s.createLobby(t, "Alice")
	bob := s.join(t, code, "Bob")

	rec := s.request(t, http.MethodPost, "/lobbies/"+code+"/start", nil, bob)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-host start: status %d, want 403", rec.Code)
	}
}

func TestChooseTeamRejectsBadValue(t *testing.T) {
	s := newTestServer(1)
	code, host := s.createLobby(t, "Alice")

	rec := s.request(t, http.MethodPost, "/lobbies/"+code+"/team", map[string]string{"team": "C"}, host)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad team: status %d, want 400", rec.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(3)
	rec := s.request(t, http.MethodGet, "/categories", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("categories: status %d", rec.Code)
	}
	_, data := decodeResponse(t, rec)
	categories, _ := data["categories"].([]any)
	if len(categories) != 1 || categories[0] != "history" {
		t.Fatalf("categories = %v, want [history]", data["categories"])
	}
}

func TestInviteQR(t *testing.T) {
	s := newTestServer(1)
	code, _ := s.createLobby(t, "Alice")

	rec := s.request(t, http.MethodGet, "/lobbies/"+code+"/qr", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("qr: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("qr body is empty")
	}
}

func TestHealthzAndVersion(t *testing.T) {
	s := newTestServer(1)

	rec := s.request(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", rec.Code)
	}
	rec = s.request(t, http.MethodGet, "/version", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("version: status %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("test")) {
		t.Errorf("version body = %q, want the build version", rec.Body.String())
	}
}
