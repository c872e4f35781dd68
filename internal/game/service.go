package game

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"yourturn/internal/models"
	"yourturn/internal/questions"
	"yourturn/internal/settings"
	"yourturn/internal/store"
)

// Service wraps the round engine with lobby-level authorization and
// notification fan-out. Every mutating operation runs under the target
// lobby's lock; operations on different lobbies proceed independently.
type Service struct {
	store    *store.LobbyStore
	source   questions.Source
	settings settings.Provider
	notifier Notifier

	// Injection points for tests.
	now     func() time.Time
	randInt func(n int) int
}

// NewService creates the game service.
func NewService(lobbyStore *store.LobbyStore, source questions.Source, provider settings.Provider, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		store:    lobbyStore,
		source:   source,
		settings: provider,
		notifier: notifier,
		now:      time.Now,
		randInt:  rand.Intn,
	}
}

// SubmitResult reports the outcome of an answer submission.
type SubmitResult struct {
	Accepted       bool `json:"accepted"`
	Correct        bool `json:"correct"`
	RoundConcluded bool `json:"roundConcluded"`
}

// FindLobby returns a lobby by exact code.
func (s *Service) FindLobby(code string) (*models.Lobby, error) {
	lobby, exists := s.store.Get(code)
	if !exists {
		return nil, ErrLobbyNotFound
	}
	return lobby, nil
}

// FindLobbyIgnoreCase returns a lobby by user-typed code.
func (s *Service) FindLobbyIgnoreCase(code string) (*models.Lobby, error) {
	lobby, exists := s.store.GetIgnoreCase(code)
	if !exists {
		return nil, ErrLobbyNotFound
	}
	return lobby, nil
}

// CreateLobby creates a lobby with the caller as host and returns the
// lobby and the caller's new session ID.
func (s *Service) CreateLobby(playerName string) (*models.Lobby, string, error) {
	name := GeneratePlayerName(strings.TrimSpace(playerName))
	code := UniqueLobbyCode(s.store)
	sessionID := uuid.New().String()

	lobby := &models.Lobby{
		Code:      code,
		Host:      name,
		Players:   []*models.Player{{Name: name}},
		Sessions:  map[string]string{sessionID: name},
		CreatedAt: s.now(),
	}
	s.store.Set(code, lobby)

	log.Printf("Created lobby: code=%s host=%s", code, name)
	return lobby, sessionID, nil
}

// JoinLobby adds a player to an existing lobby, found by
// case-insensitive code, and returns the lobby, the resolved player
// name and a session ID.
func (s *Service) JoinLobby(code, playerName string) (*models.Lobby, string, string, error) {
	lobby, err := s.FindLobbyIgnoreCase(code)
	if err != nil {
		return nil, "", "", err
	}
	name := GeneratePlayerName(strings.TrimSpace(playerName))
	sessionID := uuid.New().String()

	lobby.Lock()
	// The host may have closed the lobby between the store lookup and
	// taking its lock; joining an orphaned lobby would hand out a
	// session cookie for a dead code.
	if current, exists := s.store.Get(lobby.Code); !exists || current != lobby {
		lobby.Unlock()
		return nil, "", "", ErrLobbyNotFound
	}
	if lobby.HasPlayerName(name) {
		lobby.Unlock()
		return nil, "", "", conflict("that name is already taken in this lobby")
	}
	lobby.Players = append(lobby.Players, &models.Player{Name: name})
	lobby.RegisterSession(sessionID, name)
	lobby.Unlock()

	log.Printf("Player joined lobby: code=%s name=%s", lobby.Code, name)
	s.notifier.Notify(lobby.Code, EventUpdate)
	return lobby, name, sessionID, nil
}

// LeaveLobby removes a player. The lobby closes when the host leaves
// or the last player is gone; a refresh or dropped connection never
// triggers this, only an explicit leave does.
func (s *Service) LeaveLobby(code, playerName string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if !lobby.RemovePlayer(playerName) {
		lobby.Unlock()
		return unauthorized("you are not a member of this lobby")
	}
	lobby.DropSessionsFor(playerName)
	if lobby.RefereeName == playerName {
		lobby.RefereeName = ""
	}
	if r := lobby.Round; r != nil {
		if r.Phase == models.PhaseActive && (playerName == r.ActivePlayer1 || playerName == r.ActivePlayer2) {
			// Walking out mid-round forfeits it to the remaining side.
			// Fold the elapsed time in first; the fuse may already have
			// decided the round before the leave arrived.
			AdvanceFuse(r, s.now())
			if r.Phase == models.PhaseActive {
				if playerName == r.ActivePlayer1 {
					concludeRound(r, models.TeamB)
				} else {
					concludeRound(r, models.TeamA)
				}
			}
		}
		s.dropVolunteerSlot(lobby, playerName)
	}
	closed := playerName == lobby.Host || len(lobby.Players) == 0
	lobby.Unlock()

	if closed {
		s.store.Delete(lobby.Code)
		log.Printf("Lobby closed: code=%s", lobby.Code)
		s.notifier.Notify(lobby.Code, EventLobbyClosed)
		return nil
	}
	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// ChooseTeam assigns a player to a team. Referees stay teamless and
// team changes are frozen once the game starts. Switching teams drops
// any volunteer slot the player held.
func (s *Service) ChooseTeam(code, playerName string, team models.Team) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.IsGameStarted {
		lobby.Unlock()
		return conflict("teams cannot change during a game")
	}
	if lobby.RefereeName == playerName {
		lobby.Unlock()
		return conflict("referees cannot join a team")
	}
	player := lobby.FindPlayer(playerName)
	if player == nil {
		lobby.Unlock()
		return unauthorized("you are not a member of this lobby")
	}
	s.dropVolunteerSlot(lobby, playerName)
	player.Team = team
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// LeaveTeam returns a player to the unassigned pool.
func (s *Service) LeaveTeam(code, playerName string) error {
	return s.ChooseTeam(code, playerName, models.TeamNone)
}

// dropVolunteerSlot clears any volunteer slot held by the player.
// Caller must hold the lobby lock.
func (s *Service) dropVolunteerSlot(lobby *models.Lobby, playerName string) {
	r := lobby.Round
	if r == nil {
		return
	}
	if r.Team1Volunteer == playerName {
		r.Team1Volunteer = ""
		r.ActivePlayer1 = ""
		r.CurrentTurn = ""
	}
	if r.Team2Volunteer == playerName {
		r.Team2Volunteer = ""
		r.ActivePlayer2 = ""
		r.CurrentTurn = ""
	}
}

// ChooseCategory sets the lobby's question category. Host only, and
// never while a round is being played.
func (s *Service) ChooseCategory(code, playerName, category string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.Host != playerName {
		lobby.Unlock()
		return unauthorized("only the host can change the category")
	}
	if r := lobby.Round; r != nil && r.Phase == models.PhaseActive {
		lobby.Unlock()
		return conflict("the category cannot change during a round")
	}
	if category != "" {
		lobby.Category = category
	}
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// RandomizeTeams distributes unassigned players (except the referee)
// across the two teams, keeping counts balanced. Host only.
func (s *Service) RandomizeTeams(code, playerName string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.Host != playerName {
		lobby.Unlock()
		return unauthorized("only the host can randomize teams")
	}
	if lobby.IsGameStarted {
		lobby.Unlock()
		return conflict("teams cannot change during a game")
	}

	var unassigned []*models.Player
	for _, p := range lobby.Players {
		if p.Team == models.TeamNone && p.Name != lobby.RefereeName {
			unassigned = append(unassigned, p)
		}
	}
	for i := len(unassigned) - 1; i > 0; i-- {
		j := s.randInt(i + 1)
		unassigned[i], unassigned[j] = unassigned[j], unassigned[i]
	}

	countA := lobby.TeamCount(models.TeamA)
	countB := lobby.TeamCount(models.TeamB)
	for _, p := range unassigned {
		if countA <= countB {
			p.Team = models.TeamA
			countA++
		} else {
			p.Team = models.TeamB
			countB++
		}
	}
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// ResetTeams clears every team assignment and volunteer slot. Host
// only, never during a game.
func (s *Service) ResetTeams(code, playerName string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.Host != playerName {
		lobby.Unlock()
		return unauthorized("only the host can reset teams")
	}
	if lobby.IsGameStarted {
		lobby.Unlock()
		return conflict("teams cannot change during a game")
	}
	for _, p := range lobby.Players {
		p.Team = models.TeamNone
	}
	if r := lobby.Round; r != nil {
		r.Team1Volunteer = ""
		r.Team2Volunteer = ""
		r.ActivePlayer1 = ""
		r.ActivePlayer2 = ""
		r.CurrentTurn = ""
	}
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// BecomeReferee makes a teamless player the lobby's referee. At most
// one referee per lobby.
func (s *Service) BecomeReferee(code, playerName string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.IsGameStarted {
		lobby.Unlock()
		return conflict("the referee cannot change during a game")
	}
	if lobby.RefereeName != "" {
		lobby.Unlock()
		return conflict("this lobby already has a referee")
	}
	player := lobby.FindPlayer(playerName)
	if player == nil {
		lobby.Unlock()
		return unauthorized("you are not a member of this lobby")
	}
	if player.Team != models.TeamNone {
		lobby.Unlock()
		return invalid("leave your team before becoming the referee")
	}
	lobby.RefereeName = playerName
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// LeaveReferee releases the referee role.
func (s *Service) LeaveReferee(code, playerName string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.IsGameStarted {
		lobby.Unlock()
		return conflict("the referee cannot change during a game")
	}
	if lobby.RefereeName != playerName {
		lobby.Unlock()
		return unauthorized("only the current referee can leave the role")
	}
	lobby.RefereeName = ""
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// VolunteerForTeam records the caller as their team's volunteer for
// the next round.
func (s *Service) VolunteerForTeam(code, playerName string, team models.Team) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.IsGameStarted {
		lobby.Unlock()
		return conflict("volunteers are locked in once the game starts")
	}
	player := lobby.FindPlayer(playerName)
	if player == nil || player.Team != team {
		lobby.Unlock()
		return unauthorized("you can only volunteer for your own team")
	}
	if lobby.Round == nil {
		lobby.Round = NewRecruitment(lobby.Category)
	}
	if err := Volunteer(lobby.Round, playerName, team); err != nil {
		lobby.Unlock()
		return err
	}
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// WithdrawVolunteer releases a volunteer slot before the game starts.
func (s *Service) WithdrawVolunteer(code, playerName string, team models.Team) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.IsGameStarted {
		lobby.Unlock()
		return conflict("volunteers are locked in once the game starts")
	}
	if lobby.Round == nil {
		lobby.Unlock()
		return nil
	}
	if err := WithdrawVolunteer(lobby.Round, playerName, team); err != nil {
		lobby.Unlock()
		return err
	}
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// StartGame validates the lobby and begins the first round at 0-0.
// Host only. The question fetch happens outside the lobby lock; the
// lobby is re-validated before the round is installed.
func (s *Service) StartGame(ctx context.Context, code, playerName string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.Host != playerName {
		lobby.Unlock()
		return unauthorized("only the host can start the game")
	}
	if lobby.IsGameStarted {
		lobby.Unlock()
		return conflict("the game is already running")
	}
	if err := validateGameStart(lobby); err != nil {
		lobby.Unlock()
		return err
	}
	category := lobby.Category
	vol1 := lobby.Round.Team1Volunteer
	vol2 := lobby.Round.Team2Volunteer
	lobby.Unlock()

	q, err := s.source.Random(ctx, category, nil)
	if err != nil {
		if errors.Is(err, questions.ErrNoQuestions) {
			return invalid("no questions available for that category")
		}
		return err
	}

	lobby.Lock()
	if lobby.IsGameStarted {
		lobby.Unlock()
		return conflict("the game is already running")
	}
	if lobby.Round == nil || lobby.Round.Team1Volunteer != vol1 || lobby.Round.Team2Volunteer != vol2 {
		lobby.Unlock()
		return conflict("the lobby changed, try again")
	}
	lobby.IsGameStarted = true
	lobby.Round = StartRound(category, q, 0, 0, vol1, vol2, s.randomStartTeam(), s.settings.TimerSpeed(), s.now())
	lobby.Unlock()

	log.Printf("Game started: code=%s category=%s", lobby.Code, category)
	s.notifier.Notify(lobby.Code, EventGameStarted)
	return nil
}

// validateGameStart checks the start preconditions without mutating
// anything. Caller must hold the lobby lock.
func validateGameStart(lobby *models.Lobby) error {
	if lobby.Category == "" {
		return invalid("choose a category before starting the game")
	}
	if lobby.TeamCount(models.TeamA) == 0 || lobby.TeamCount(models.TeamB) == 0 {
		return invalid("each team needs at least one player")
	}
	if lobby.Round == nil || !lobby.Round.HasBothVolunteers() {
		return invalid("each team needs a volunteer")
	}
	return nil
}

func (s *Service) randomStartTeam() models.Team {
	if s.randInt(2) == 0 {
		return models.TeamA
	}
	return models.TeamB
}

// StartNewRound begins the next round with scores and volunteers
// carried over, optionally under a new category. Host only. If a team
// already reached the winning score, no further round starts: the
// lobby returns to its pre-game state and gameCompleted is true.
func (s *Service) StartNewRound(ctx context.Context, code, playerName, category string) (gameCompleted bool, err error) {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return false, err
	}

	lobby.Lock()
	if lobby.Host != playerName {
		lobby.Unlock()
		return false, unauthorized("only the host can start a new round")
	}
	r := lobby.Round
	if !lobby.IsGameStarted || r == nil {
		lobby.Unlock()
		return false, ErrRoundNotFound
	}
	if r.Phase == models.PhaseActive {
		lobby.Unlock()
		return false, conflict("the current round is still in progress")
	}
	if _, won := GameWinner(r.Team1Score, r.Team2Score, s.settings.WinningScore()); won {
		lobby.IsGameStarted = false
		lobby.Round = nil
		lobby.Unlock()
		log.Printf("Game completed: code=%s", lobby.Code)
		s.notifier.Notify(lobby.Code, EventGameReset)
		return true, nil
	}
	// A forfeit can leave a volunteer slot vacant; the next round needs
	// a live volunteer on each side.
	if lobby.FindPlayer(r.Team1Volunteer) == nil || lobby.FindPlayer(r.Team2Volunteer) == nil {
		lobby.Unlock()
		return false, invalid("each team needs a volunteer")
	}
	if category != "" {
		lobby.Category = category
	}
	newCategory := lobby.Category
	team1Score, team2Score := r.Team1Score, r.Team2Score
	vol1, vol2 := r.Team1Volunteer, r.Team2Volunteer
	lobby.Unlock()

	q, err := s.source.Random(ctx, newCategory, nil)
	if err != nil {
		if errors.Is(err, questions.ErrNoQuestions) {
			return false, invalid("no questions available for that category")
		}
		return false, err
	}

	lobby.Lock()
	if !lobby.IsGameStarted || lobby.Round != r || r.Phase != models.PhaseConcluded {
		lobby.Unlock()
		return false, conflict("the lobby changed, try again")
	}
	lobby.Round = StartRound(newCategory, q, team1Score, team2Score, vol1, vol2, s.randomStartTeam(), s.settings.TimerSpeed(), s.now())
	lobby.Unlock()

	log.Printf("New round: code=%s category=%s score=%d-%d", lobby.Code, newCategory, team1Score, team2Score)
	s.notifier.Notify(lobby.Code, EventNewRound)
	return false, nil
}

// SubmitAnswer handles the current-turn player answering the current
// question. A wrong answer changes nothing and the player keeps the
// turn. A correct one retires the question, steps the fuse, swaps the
// turn and draws the next question; if the category is exhausted the
// round concludes in favor of the fuse leader.
func (s *Service) SubmitAnswer(ctx context.Context, code, playerName, answer string) (SubmitResult, error) {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return SubmitResult{}, err
	}

	lobby.Lock()
	r := lobby.Round
	if r == nil {
		lobby.Unlock()
		return SubmitResult{}, ErrRoundNotFound
	}

	// Any action is also a read: elapsed time may already have ended
	// the round before this answer arrived.
	wasActive := r.Phase == models.PhaseActive
	AdvanceFuse(r, s.now())
	if r.Phase != models.PhaseActive {
		lobby.Unlock()
		if wasActive {
			s.notifier.Notify(lobby.Code, EventUpdate)
		}
		return SubmitResult{RoundConcluded: true}, nil
	}
	if r.CurrentTurn != playerName {
		lobby.Unlock()
		return SubmitResult{}, ErrNotYourTurn
	}
	q := r.CurrentQuestion
	if q == nil {
		lobby.Unlock()
		return SubmitResult{}, conflict("no question in play")
	}
	if !AnswerMatches(answer, q.Answer) {
		lobby.Unlock()
		return SubmitResult{Accepted: true}, nil
	}

	ApplyCorrectAnswer(r, r.TeamOf(playerName))
	if r.Phase == models.PhaseConcluded {
		lobby.Unlock()
		s.notifier.Notify(lobby.Code, EventUpdate)
		return SubmitResult{Accepted: true, Correct: true, RoundConcluded: true}, nil
	}

	concluded, err := s.replaceQuestion(ctx, lobby, r, true)
	lobby.Unlock()
	if err != nil {
		return SubmitResult{}, err
	}
	s.notifier.Notify(lobby.Code, EventUpdate)
	return SubmitResult{Accepted: true, Correct: true, RoundConcluded: concluded}, nil
}

// PassTurn hands the turn to the other active player. When the lobby
// has a referee, the passer's side must have been validated this turn.
func (s *Service) PassTurn(ctx context.Context, code, playerName string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	r := lobby.Round
	if r == nil {
		lobby.Unlock()
		return ErrRoundNotFound
	}
	wasActive := r.Phase == models.PhaseActive
	AdvanceFuse(r, s.now())
	if r.Phase != models.PhaseActive {
		lobby.Unlock()
		if wasActive {
			s.notifier.Notify(lobby.Code, EventUpdate)
		}
		return conflict("the round is over")
	}
	if r.CurrentTurn != playerName {
		lobby.Unlock()
		return ErrNotYourTurn
	}
	if lobby.RefereeName != "" {
		side := r.TeamOf(playerName)
		if (side == models.TeamA && !r.Team1Validated) || (side == models.TeamB && !r.Team2Validated) {
			lobby.Unlock()
			return invalid("the referee must validate your answer before you pass")
		}
	}

	r.IsTimerRunning = false
	SwapTurn(r)
	_, err = s.replaceQuestion(ctx, lobby, r, true)
	lobby.Unlock()
	if err != nil {
		return err
	}
	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// PassTurnByReferee forces a turn swap. Referee only. The timer stays
// stopped until the referee resumes it.
func (s *Service) PassTurnByReferee(ctx context.Context, code, playerName string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.RefereeName != playerName {
		lobby.Unlock()
		return unauthorized("only the referee can pass the turn")
	}
	r := lobby.Round
	if r == nil {
		lobby.Unlock()
		return ErrRoundNotFound
	}
	AdvanceFuse(r, s.now())
	if r.Phase != models.PhaseActive {
		lobby.Unlock()
		return conflict("the round is over")
	}

	r.IsTimerRunning = false
	SwapTurn(r)
	_, err = s.replaceQuestion(ctx, lobby, r, false)
	lobby.Unlock()
	if err != nil {
		return err
	}
	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// ValidateRefereeAnswer marks a team's spoken answer as approved for
// this turn. Referee only.
func (s *Service) ValidateRefereeAnswer(code, playerName string, team models.Team) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.RefereeName != playerName {
		lobby.Unlock()
		return unauthorized("only the referee can validate answers")
	}
	r := lobby.Round
	if r == nil {
		lobby.Unlock()
		return ErrRoundNotFound
	}
	switch team {
	case models.TeamA:
		r.Team1Validated = true
	case models.TeamB:
		r.Team2Validated = true
	default:
		lobby.Unlock()
		return invalid("invalid team")
	}
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return nil
}

// ToggleTimer pauses or resumes the fuse. Referee only. Pausing folds
// the elapsed time in first so no movement is lost or double-counted.
func (s *Service) ToggleTimer(code, playerName string) (running bool, err error) {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return false, err
	}

	lobby.Lock()
	if lobby.RefereeName != playerName {
		lobby.Unlock()
		return false, unauthorized("only the referee can control the timer")
	}
	r := lobby.Round
	if r == nil {
		lobby.Unlock()
		return false, ErrRoundNotFound
	}
	if r.IsTimerRunning {
		AdvanceFuse(r, s.now())
		r.IsTimerRunning = false
	} else if r.Phase == models.PhaseActive {
		r.LastTurnStartTime = s.now()
		r.IsTimerRunning = true
	}
	running = r.IsTimerRunning
	lobby.Unlock()

	s.notifier.Notify(lobby.Code, EventUpdate)
	return running, nil
}

// ResetGame discards the round and returns the lobby to its pre-game
// state. Host only.
func (s *Service) ResetGame(code, playerName string) error {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return err
	}

	lobby.Lock()
	if lobby.Host != playerName {
		lobby.Unlock()
		return unauthorized("only the host can reset the game")
	}
	lobby.IsGameStarted = false
	lobby.Round = nil
	lobby.Unlock()

	log.Printf("Game reset: code=%s", lobby.Code)
	s.notifier.Notify(lobby.Code, EventGameReset)
	return nil
}

// AdvanceAndSnapshot folds elapsed time into the round and returns the
// resulting state. The name is honest: a poll that discovers the fuse
// crossed an edge finalizes the round as a side effect, under the same
// lobby lock as every other mutation.
func (s *Service) AdvanceAndSnapshot(code string) (models.StateSnapshot, error) {
	lobby, err := s.FindLobby(code)
	if err != nil {
		return models.StateSnapshot{}, err
	}

	lobby.Lock()
	r := lobby.Round
	if r == nil {
		lobby.Unlock()
		return models.StateSnapshot{}, ErrRoundNotFound
	}
	wasActive := r.Phase == models.PhaseActive
	AdvanceFuse(r, s.now())
	finalized := wasActive && r.Phase == models.PhaseConcluded

	snap := s.buildSnapshot(lobby, r)
	lobby.Unlock()

	if finalized {
		s.notifier.Notify(lobby.Code, EventUpdate)
	}
	return snap, nil
}

// buildSnapshot projects the round into its wire shape. Caller must
// hold the lobby lock.
func (s *Service) buildSnapshot(lobby *models.Lobby, r *models.Round) models.StateSnapshot {
	gameWinner, completed := GameWinner(r.Team1Score, r.Team2Score, s.settings.WinningScore())

	players := make([]models.PlayerView, 0, len(lobby.Players))
	for _, p := range lobby.Players {
		players = append(players, models.PlayerView{Name: p.Name, Team: p.Team})
	}

	return models.StateSnapshot{
		IsWaitingForVolunteers: r.Phase == models.PhaseWaiting,
		Team1Volunteer:         r.Team1Volunteer,
		Team2Volunteer:         r.Team2Volunteer,
		FusePosition:           r.FusePosition,
		IsTimerRunning:         r.IsTimerRunning,
		CurrentTurn:            r.CurrentTurn,
		IsGameActive:           r.Phase != models.PhaseConcluded,
		Winner:                 r.Winner,
		Team1Score:             r.Team1Score,
		Team2Score:             r.Team2Score,
		ActivePlayer1:          r.ActivePlayer1,
		ActivePlayer2:          r.ActivePlayer2,
		GameWinner:             gameWinner,
		IsGameCompleted:        completed,
		Question:               r.QuestionText(),
		Team1Validated:         r.Team1Validated,
		Team2Validated:         r.Team2Validated,
		RefereeName:            lobby.RefereeName,
		Players:                players,
	}
}

// replaceQuestion draws the next question for the round. The fetch
// happens with the lobby lock released; TurnSeq detects whether the
// turn moved on in the gap, in which case the fetched question is
// stale and dropped. Returns true when the category is exhausted and
// the round concluded. Caller must hold the lobby lock, which is held
// again on return.
func (s *Service) replaceQuestion(ctx context.Context, lobby *models.Lobby, r *models.Round, resumeTimer bool) (concluded bool, err error) {
	seq := r.TurnSeq
	category := r.Category
	exclude := append([]int(nil), r.AskedQuestionIDs...)

	lobby.Unlock()
	q, fetchErr := s.source.Random(ctx, category, exclude)
	lobby.Lock()

	if lobby.Round != r || r.Phase != models.PhaseActive || r.TurnSeq != seq {
		// The round moved on while we were fetching; whoever advanced
		// it owns the question now.
		return r.Phase == models.PhaseConcluded, nil
	}
	if fetchErr != nil {
		if errors.Is(fetchErr, questions.ErrNoQuestions) {
			ConcludeByExhaustion(r)
			return true, nil
		}
		return false, fetchErr
	}
	InstallQuestion(r, q, s.now(), resumeTimer)
	return false, nil
}
