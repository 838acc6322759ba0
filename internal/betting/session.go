// Package betting holds the stat-line wager state machine and the
// settlement polling engine behind the bet buttons.
package betting

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"riftbook/internal/riot"
	"riftbook/internal/stats"
)

// Direction is the side of the line a wager is on.
type Direction int

const (
	Under Direction = iota
	Over
)

func (d Direction) String() string {
	if d == Over {
		return "over"
	}
	return "under"
}

// State is the wager session lifecycle. Everything past StateAwaiting is
// terminal; a session is never reused or re-entered.
type State int

const (
	// StateOpen is the initial browsing state: the stat display is live
	// but no bet has been placed.
	StateOpen State = iota
	// StateAwaiting means a bet is placed and settlement polling is active.
	StateAwaiting
	StateWon
	StateLost
	StatePushed
	StateExpired
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateAwaiting:
		return "awaiting"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	case StatePushed:
		return "pushed"
	case StateExpired:
		return "expired"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s != StateOpen && s != StateAwaiting
}

// Decide maps an observed stat value against a line and direction. A value
// landing exactly on the line is a push regardless of direction; that can
// only happen through the integer-mean branch of the line calculator.
func Decide(value int, line float64, dir Direction) State {
	v := float64(value)
	switch {
	case v == line:
		return StatePushed
	case dir == Under && v < line:
		return StateWon
	case dir == Over && v > line:
		return StateWon
	default:
		return StateLost
	}
}

// Session is one user's interaction with one stat display, from browsing
// through an optional wager to a terminal state. All state mutation goes
// through the check-and-set transition methods so a racing poll tick and
// deadline expiry can never both settle it.
type Session struct {
	ID        string
	UserID    string
	ChannelID string
	MessageID string
	Player    riot.PlayerRef
	CreatedAt time.Time

	mu           sync.Mutex
	state        State
	metric       stats.Metric
	line         float64
	direction    Direction
	stake        int
	payout       int
	priorMatchID string
	deadline     time.Time
	cancel       context.CancelFunc
	value        int
	reason       string
}

// NewSession creates a session in the open (browsing) state.
func NewSession(userID, channelID, messageID string, player riot.PlayerRef) *Session {
	return &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ChannelID: channelID,
		MessageID: messageID,
		Player:    player,
		CreatedAt: time.Now(),
		state:     StateOpen,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Bet returns the wager parameters captured at placement. Only meaningful
// once the session has left StateOpen.
func (s *Session) Bet() (metric stats.Metric, line float64, dir Direction, stake, payout int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metric, s.line, s.direction, s.stake, s.payout
}

// PriorMatchID is the pre-bet top-of-history snapshot.
func (s *Session) PriorMatchID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.priorMatchID
}

// Deadline is the settlement poll budget's end.
func (s *Session) Deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline
}

// Outcome returns the observed value and reported reason of a terminal
// session.
func (s *Session) Outcome() (value int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.reason
}

// begin moves open -> awaiting, capturing the wager parameters and the
// cancellation handle for the settlement poller. Returns false if a bet was
// already placed or the display already timed out.
func (s *Session) begin(metric stats.Metric, line float64, dir Direction, stake, payout int, priorMatchID string, deadline time.Time, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return false
	}
	s.state = StateAwaiting
	s.metric = metric
	s.line = line
	s.direction = dir
	s.stake = stake
	s.payout = payout
	s.priorMatchID = priorMatchID
	s.deadline = deadline
	s.cancel = cancel
	return true
}

// finish moves awaiting -> terminal exactly once and releases the poller.
// The returned bool is the settlement-race guard: at most one caller ever
// sees true.
func (s *Session) finish(to State, value int, reason string) bool {
	if !to.Terminal() {
		return false
	}
	s.mu.Lock()
	if s.state != StateAwaiting {
		s.mu.Unlock()
		return false
	}
	s.state = to
	s.value = value
	s.reason = reason
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return true
}

// cancelOpen moves open -> cancelled (navigation timeout, no bet placed).
func (s *Session) cancelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return false
	}
	s.state = StateCancelled
	return true
}
