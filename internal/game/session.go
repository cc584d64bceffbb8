// Package game tracks per-group guessing rounds: whether one is running,
// the pending answer, and who won. Every access goes through one mutex
// so concurrent handlers and round timers stay consistent.
package game

import "sync"

// Winner sentinel values. Positive values are participant identifiers.
const (
	WinnerUnset    int64 = 0
	WinnerTimedOut int64 = -1
)

// Answer is the payload a round registers for resolution: the accepted
// names, the source of the match pattern, and the artifact to reveal.
type Answer struct {
	Names    []string
	Pattern  string // compiled by the caller; stored as source text
	Artifact string // path to the full art or audio blob
	Action   string // voice rounds only: the labeled voice action
}

// clone keeps the stored copy and the caller's copy from aliasing.
func (a Answer) clone() Answer {
	out := a
	out.Names = append([]string(nil), a.Names...)
	return out
}

type session struct {
	idle   bool
	answer *Answer
	winner int64
	gen    uint64
}

// Sessions manages one session per chat group. Sessions are created
// implicitly on first access and live until process exit.
type Sessions struct {
	mu     sync.Mutex
	groups map[string]*session
}

func NewSessions() *Sessions {
	return &Sessions{groups: make(map[string]*session)}
}

func (s *Sessions) group(gid string) *session {
	g, ok := s.groups[gid]
	if !ok {
		g = &session{idle: true}
		s.groups[gid] = g
	}
	return g
}

// IsIdle reports whether no round is running for the group. The caller is
// responsible for rejecting a new round when this returns false.
func (s *Sessions) IsIdle(gid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group(gid).idle
}

// Start begins a round: clears the previous answer and winner and bumps
// the round generation.
func (s *Sessions) Start(gid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group(gid).start()
}

// TryStart begins a round only when the group is idle. The check and the
// start happen under one lock, so exactly one of several concurrent
// callers claims the group. The returned generation identifies the round
// for Expire.
func (s *Sessions) TryStart(gid string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.group(gid)
	if !g.idle {
		return 0, false
	}
	g.start()
	return g.gen, true
}

func (g *session) start() {
	g.idle = false
	g.winner = WinnerUnset
	g.answer = nil
	g.gen++
}

// SetData registers the pending answer. The stored value is a deep copy.
func (s *Sessions) SetData(gid string, a Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := a.clone()
	s.group(gid).answer = &c
}

// Data returns a deep copy of the pending answer, if one is set.
func (s *Sessions) Data(gid string) (Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.group(gid)
	if g.answer == nil {
		return Answer{}, false
	}
	return g.answer.clone(), true
}

// IsDataSet reports whether the round has a resolvable answer yet.
func (s *Sessions) IsDataSet(gid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group(gid).answer != nil
}

// Win records the winner. Only the first call per round takes effect;
// the return value reports whether this call claimed the win. This makes
// concurrent correct guesses race-free.
func (s *Sessions) Win(gid string, winner int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.group(gid)
	if g.winner != WinnerUnset {
		return false
	}
	g.winner = winner
	return true
}

// Winner returns the recorded outcome for the group's current round.
func (s *Sessions) Winner(gid string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group(gid).winner
}

// Finish returns the group to idle. Answer and winner stay readable until
// the next Start resets them.
func (s *Sessions) Finish(gid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group(gid).idle = true
}

// Expire closes the round identified by gen: a still-unset winner becomes
// TimedOut and the group returns to idle. When the round is already gone,
// either unlocked or superseded by a later Start, nothing happens and
// live is false. This keeps an orphaned timer from closing a successor
// round.
func (s *Sessions) Expire(gid string, gen uint64) (winner int64, live bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.group(gid)
	if g.gen != gen || g.idle {
		return 0, false
	}
	if g.winner == WinnerUnset {
		g.winner = WinnerTimedOut
	}
	g.idle = true
	return g.winner, true
}
