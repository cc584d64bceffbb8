package game

import "testing"

func TestLifecycle(t *testing.T) {
	s := NewSessions()

	if !s.IsIdle("g1") {
		t.Fatal("fresh group should be idle")
	}

	s.Start("g1")
	if s.IsIdle("g1") {
		t.Fatal("group should not be idle after Start")
	}
	if !s.IsIdle("g2") {
		t.Fatal("starting g1 must not touch g2")
	}

	s.Finish("g1")
	if !s.IsIdle("g1") {
		t.Fatal("Finish must always return the group to idle")
	}
}

func TestTryStartClaimsIdleGroupOnce(t *testing.T) {
	s := NewSessions()

	gen1, ok := s.TryStart("g1")
	if !ok {
		t.Fatal("TryStart on an idle group should succeed")
	}
	if _, ok := s.TryStart("g1"); ok {
		t.Fatal("TryStart on a busy group must fail")
	}

	s.Finish("g1")
	gen2, ok := s.TryStart("g1")
	if !ok {
		t.Fatal("TryStart should succeed again after Finish")
	}
	if gen2 == gen1 {
		t.Error("each round must get a fresh generation")
	}
}

func TestExpireClosesCurrentRound(t *testing.T) {
	s := NewSessions()

	gen, _ := s.TryStart("g1")
	winner, live := s.Expire("g1", gen)
	if !live {
		t.Fatal("Expire with the round's generation should close it")
	}
	if winner != WinnerTimedOut {
		t.Errorf("winner = %d, want TimedOut when nobody claimed", winner)
	}
	if !s.IsIdle("g1") {
		t.Error("Expire must return the group to idle")
	}
}

func TestExpirePreservesClaimedWinner(t *testing.T) {
	s := NewSessions()

	gen, _ := s.TryStart("g1")
	s.Win("g1", 7)
	winner, live := s.Expire("g1", gen)
	if !live || winner != 7 {
		t.Errorf("Expire = (%d, %v), want the claimed winner", winner, live)
	}
}

func TestExpireIgnoresStaleRounds(t *testing.T) {
	s := NewSessions()

	gen, _ := s.TryStart("g1")
	s.Finish("g1")
	if _, live := s.Expire("g1", gen); live {
		t.Error("Expire after Finish must be a no-op")
	}

	gen2, _ := s.TryStart("g1")
	if _, live := s.Expire("g1", gen); live {
		t.Error("Expire with a superseded generation must not touch the new round")
	}
	if s.IsIdle("g1") {
		t.Fatal("the new round must still be running")
	}
	if _, live := s.Expire("g1", gen2); !live {
		t.Error("the new round's own generation should still close it")
	}
}

func TestStartResetsWinnerAndAnswer(t *testing.T) {
	s := NewSessions()

	s.Start("g1")
	s.SetData("g1", Answer{Names: []string{"Goblin"}})
	s.Win("g1", 42)
	s.Finish("g1")

	s.Start("g1")
	if s.Winner("g1") != WinnerUnset {
		t.Error("Start must reset the winner")
	}
	if s.IsDataSet("g1") {
		t.Error("Start must clear the answer")
	}
}

func TestDataDeepCopy(t *testing.T) {
	s := NewSessions()
	s.Start("g1")

	in := Answer{Names: []string{"Goblin"}}
	s.SetData("g1", in)
	in.Names[0] = "mutated by caller"

	got, ok := s.Data("g1")
	if !ok {
		t.Fatal("expected answer to be set")
	}
	if got.Names[0] != "Goblin" {
		t.Error("stored answer aliases the caller's slice")
	}

	got.Names[0] = "mutated by reader"
	again, _ := s.Data("g1")
	if again.Names[0] != "Goblin" {
		t.Error("returned answer aliases the stored copy")
	}
}

func TestWinFirstCallOnly(t *testing.T) {
	s := NewSessions()
	s.Start("g1")

	if !s.Win("g1", 7) {
		t.Fatal("first Win should take effect")
	}
	if s.Win("g1", 8) {
		t.Fatal("second Win must be a no-op")
	}
	if got := s.Winner("g1"); got != 7 {
		t.Errorf("winner = %d, want 7", got)
	}
}

func TestTimedOutWinner(t *testing.T) {
	s := NewSessions()
	s.Start("g1")

	if s.Winner("g1") != WinnerUnset {
		t.Fatal("winner should start unset")
	}
	s.Win("g1", WinnerTimedOut)
	if s.Winner("g1") != WinnerTimedOut {
		t.Error("timeout should record the TimedOut sentinel")
	}
}
