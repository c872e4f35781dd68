package game

import (
	"testing"
	"time"

	"yourturn/internal/models"
)

func testQuestion(id int) *models.Question {
	return &models.Question{ID: id, Text: "question", Answer: "answer"}
}

func activeRound(speed float64, start time.Time) *models.Round {
	r := StartRound("history", testQuestion(1), 0, 0, "alice", "bob", models.TeamA, speed, start)
	r.IsTimerRunning = true
	return r
}

func TestStartRound(t *testing.T) {
	start := time.Now()
	r := StartRound("history", testQuestion(7), 2, 1, "alice", "bob", models.TeamB, 0.5, start)

	if r.Phase != models.PhaseActive {
		t.Fatalf("Phase = %q, want %q", r.Phase, models.PhaseActive)
	}
	if r.CurrentTurn != "bob" {
		t.Errorf("CurrentTurn = %q, want bob to start", r.CurrentTurn)
	}
	if r.FusePosition != 0 {
		t.Errorf("FusePosition = %v, want 0", r.FusePosition)
	}
	if r.IsTimerRunning {
		t.Error("timer starts stopped; answering or passing resumes it")
	}
	if r.Team1Score != 2 || r.Team2Score != 1 {
		t.Errorf("scores = %d-%d, want 2-1 carried over", r.Team1Score, r.Team2Score)
	}
	if len(r.AskedQuestionIDs) != 1 || r.AskedQuestionIDs[0] != 7 {
		t.Errorf("AskedQuestionIDs = %v, want opening question retired", r.AskedQuestionIDs)
	}
}

func TestAdvanceFuseBurnsTowardTurnHolder(t *testing.T) {
	start := time.Now()
	r := activeRound(1.0, start)

	// Team A's player holds the turn, so the fuse moves toward -100.
	AdvanceFuse(r, start.Add(10*time.Second))
	if r.FusePosition != -10 {
		t.Fatalf("FusePosition = %v, want -10 after 10s at speed 1", r.FusePosition)
	}

	SwapTurn(r)
	AdvanceFuse(r, start.Add(25*time.Second))
	if r.FusePosition != 5 {
		t.Fatalf("FusePosition = %v, want 5 after turn swap", r.FusePosition)
	}
}

func TestAdvanceFuseAccumulatesOncePerInterval(t *testing.T) {
	start := time.Now()
	r := activeRound(2.0, start)

	// Two polls at the same instant must not double-count the elapsed
	// time: the base timestamp moves forward with each call.
	at := start.Add(5 * time.Second)
	AdvanceFuse(r, at)
	AdvanceFuse(r, at)
	if r.FusePosition != -10 {
		t.Fatalf("FusePosition = %v, want -10 after repeated polls", r.FusePosition)
	}
}

func TestAdvanceFuseClampsAndFinalizes(t *testing.T) {
	start := time.Now()
	for _, speed := range []float64{0.1, 1.0, 50.0} {
		r := activeRound(speed, start)
		AdvanceFuse(r, start.Add(time.Hour))

		if r.FusePosition != FuseMin {
			t.Errorf("speed %v: FusePosition = %v, want clamped to %v", speed, r.FusePosition, FuseMin)
		}
		if r.Phase != models.PhaseConcluded {
			t.Errorf("speed %v: Phase = %q, want concluded at the edge", speed, r.Phase)
		}
		if r.Winner != models.TeamB {
			t.Errorf("speed %v: Winner = %q, want TeamB at -100", speed, r.Winner)
		}
		if r.Team2Score != 1 {
			t.Errorf("speed %v: Team2Score = %d, want 1", speed, r.Team2Score)
		}
	}
}

func TestAdvanceFuseIdempotentAfterConclusion(t *testing.T) {
	start := time.Now()
	r := activeRound(50.0, start)

	AdvanceFuse(r, start.Add(time.Hour))
	scoreAfter := r.Team2Score

	// Further polls on a concluded round must not re-score.
	AdvanceFuse(r, start.Add(2*time.Hour))
	AdvanceFuse(r, start.Add(3*time.Hour))
	if r.Team2Score != scoreAfter {
		t.Fatalf("Team2Score = %d after extra polls, want %d", r.Team2Score, scoreAfter)
	}
}

func TestAdvanceFuseIgnoresStoppedTimer(t *testing.T) {
	start := time.Now()
	r := activeRound(1.0, start)
	r.IsTimerRunning = false

	AdvanceFuse(r, start.Add(time.Hour))
	if r.FusePosition != 0 {
		t.Fatalf("FusePosition = %v, want 0 while paused", r.FusePosition)
	}
	if r.Phase != models.PhaseActive {
		t.Fatalf("Phase = %q, want still active", r.Phase)
	}
}

func TestApplyCorrectAnswerStepsAndSwaps(t *testing.T) {
	start := time.Now()
	r := activeRound(1.0, start)
	seq := r.TurnSeq

	ApplyCorrectAnswer(r, models.TeamA)

	if r.FusePosition != CorrectAnswerStep {
		t.Errorf("FusePosition = %v, want %v", r.FusePosition, CorrectAnswerStep)
	}
	if r.CurrentTurn != "bob" {
		t.Errorf("CurrentTurn = %q, want bob after swap", r.CurrentTurn)
	}
	if r.TurnSeq != seq+1 {
		t.Errorf("TurnSeq = %d, want %d", r.TurnSeq, seq+1)
	}
	if r.CurrentQuestion != nil {
		t.Error("CurrentQuestion should be cleared until the next draw")
	}
	if r.IsTimerRunning {
		t.Error("timer should stop between questions")
	}
}

func TestApplyCorrectAnswerConcludesAtEdge(t *testing.T) {
	start := time.Now()
	r := activeRound(1.0, start)
	r.FusePosition = FuseMax - CorrectAnswerStep

	ApplyCorrectAnswer(r, models.TeamA)

	if r.Phase != models.PhaseConcluded {
		t.Fatalf("Phase = %q, want concluded when the step reaches the edge", r.Phase)
	}
	if r.Winner != models.TeamA || r.Team1Score != 1 {
		t.Fatalf("winner = %q score = %d, want TeamA with 1", r.Winner, r.Team1Score)
	}
}

func TestFuseLeaderTieGoesToTeamA(t *testing.T) {
	start := time.Now()
	r := activeRound(1.0, start)

	if got := FuseLeader(r); got != models.TeamA {
		t.Errorf("FuseLeader at 0 = %q, want TeamA", got)
	}
	r.FusePosition = -0.5
	if got := FuseLeader(r); got != models.TeamB {
		t.Errorf("FuseLeader at -0.5 = %q, want TeamB", got)
	}
}

func TestConcludeByExhaustion(t *testing.T) {
	start := time.Now()
	r := activeRound(1.0, start)
	r.FusePosition = -30

	ConcludeByExhaustion(r)

	if r.Phase != models.PhaseConcluded {
		t.Fatalf("Phase = %q, want concluded", r.Phase)
	}
	if r.Winner != models.TeamB || r.Team2Score != 1 {
		t.Fatalf("winner = %q score = %d, want TeamB with 1", r.Winner, r.Team2Score)
	}
}

func TestAnswerMatches(t *testing.T) {
	cases := []struct {
		submitted, correct string
		want               bool
	}{
		{"Paris", "Paris", true},
		{"  paris  ", "Paris", true},
		{"PARIS", "paris", true},
		{"Lyon", "Paris", false},
		{"", "Paris", false},
	}
	for _, c := range cases {
		if got := AnswerMatches(c.submitted, c.correct); got != c.want {
			t.Errorf("AnswerMatches(%q, %q) = %v, want %v", c.submitted, c.correct, got, c.want)
		}
	}
}

func TestVolunteerActivation(t *testing.T) {
	r := NewRecruitment("history")

	if err := Volunteer(r, "alice", models.TeamA); err != nil {
		t.Fatalf("Volunteer(alice): %v", err)
	}
	if r.CurrentTurn != "" {
		t.Fatal("no turn holder until both teams have a volunteer")
	}
	if err := Volunteer(r, "carol", models.TeamA); err == nil {
		t.Fatal("second volunteer for the same team should conflict")
	}
	if err := Volunteer(r, "bob", models.TeamB); err != nil {
		t.Fatalf("Volunteer(bob): %v", err)
	}

	if r.ActivePlayer1 != "alice" || r.ActivePlayer2 != "bob" {
		t.Fatalf("active players = %q/%q, want alice/bob", r.ActivePlayer1, r.ActivePlayer2)
	}
	if r.CurrentTurn != "alice" {
		t.Fatalf("CurrentTurn = %q, want alice", r.CurrentTurn)
	}
	if r.Phase != models.PhaseWaiting {
		t.Fatalf("Phase = %q, want still waiting until the game starts", r.Phase)
	}
}

func TestWithdrawVolunteer(t *testing.T) {
	r := NewRecruitment("history")
	Volunteer(r, "alice", models.TeamA)
	Volunteer(r, "bob", models.TeamB)

	if err := WithdrawVolunteer(r, "bob", models.TeamA); err == nil {
		t.Fatal("withdrawing another player's slot should fail")
	}
	if err := WithdrawVolunteer(r, "alice", models.TeamA); err != nil {
		t.Fatalf("WithdrawVolunteer: %v", err)
	}
	if r.Team1Volunteer != "" || r.ActivePlayer1 != "" || r.CurrentTurn != "" {
		t.Fatal("slot should be fully cleared")
	}
}

func TestGameWinner(t *testing.T) {
	cases := []struct {
		t1, t2, winning int
		want            models.Team
		completed       bool
	}{
		{5, 3, 5, models.TeamA, true},
		{3, 5, 5, models.TeamB, true},
		{4, 4, 5, models.TeamNone, false},
		{0, 0, 5, models.TeamNone, false},
		{2, 1, 2, models.TeamA, true},
	}
	for _, c := range cases {
		got, completed := GameWinner(c.t1, c.t2, c.winning)
		if got != c.want || completed != c.completed {
			t.Errorf("GameWinner(%d, %d, %d) = %q/%v, want %q/%v",
				c.t1, c.t2, c.winning, got, completed, c.want, c.completed)
		}
	}
}
