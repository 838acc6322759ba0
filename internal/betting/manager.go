package betting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"riftbook/internal/metrics"
	"riftbook/internal/riot"
	"riftbook/internal/stats"
)

// Ledger is the durable balance store the settlement engine writes to.
type Ledger interface {
	Balance(userID string) (int, error)
	Credit(userID string, amount int) error
	Debit(userID string, amount int) error
}

// HistorySource supplies the match-history snapshots the poller compares.
type HistorySource interface {
	LatestMatchID(ctx context.Context, player riot.PlayerRef, metric stats.Metric) (string, error)
	QualifyingStat(ctx context.Context, matchID string, player riot.PlayerRef, metric stats.Metric) (value int, ok bool, err error)
}

// Notifier is called once per terminal transition so the presentation layer
// can edit the originating message in place.
type Notifier func(s *Session, outcome State, value int, reason string)

// ErrNotYourSession is returned when a button press comes from a user other
// than the one who opened the display.
var ErrNotYourSession = errors.New("only the user who opened this display can bet on it")

// ErrAlreadyPlaced is returned for a second bet press on the same display.
var ErrAlreadyPlaced = errors.New("a bet is already running for this display")

// Config carries the fixed wager economics and the polling budget.
type Config struct {
	Stake        int
	Payout       int
	PollInterval time.Duration
	BetWindow    time.Duration
}

// Manager runs every wager session: it opens them from stat displays,
// places bets (debiting the stake up front), drives one settlement poller
// per awaiting session, and applies the ledger effects exactly once.
type Manager struct {
	ledger   Ledger
	history  HistorySource
	registry *Registry
	cfg      Config
	log      zerolog.Logger
	notify   Notifier

	baseCtx    context.Context
	baseCancel context.CancelFunc
}

func NewManager(ledger Ledger, history HistorySource, cfg Config, log zerolog.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ledger:     ledger,
		history:    history,
		registry:   NewRegistry(),
		cfg:        cfg,
		log:        log,
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// SetNotifier installs the presentation callback. Must be set before any
// bet is placed.
func (m *Manager) SetNotifier(n Notifier) {
	m.notify = n
}

// Close cancels every running settlement poller. Sessions are left
// untouched; a cancelled poll never settles or expires a wager.
func (m *Manager) Close() {
	m.baseCancel()
}

// Open registers a browsing session for a freshly posted stat display.
func (m *Manager) Open(userID, channelID, messageID string, player riot.PlayerRef) (*Session, error) {
	s := NewSession(userID, channelID, messageID, player)
	if err := m.registry.Add(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Session looks up the live session behind a message id.
func (m *Manager) Session(messageID string) *Session {
	return m.registry.Get(messageID)
}

// CancelDisplay ends a browsing session whose navigation window ran out.
// No ledger effect: nothing was staked.
func (m *Manager) CancelDisplay(messageID string) {
	s := m.registry.Get(messageID)
	if s == nil {
		return
	}
	if s.cancelOpen() {
		m.registry.Remove(messageID)
		metrics.BetsSettled.WithLabelValues(StateCancelled.String()).Inc()
	}
}

// PlaceBet moves a session from browsing to awaiting-outcome: it snapshots
// the top of the player's match history, debits the stake, and starts the
// settlement poller against a fixed deadline.
func (m *Manager) PlaceBet(ctx context.Context, messageID, userID string, metric stats.Metric, line float64, dir Direction) (*Session, error) {
	s := m.registry.Get(messageID)
	if s == nil {
		return nil, fmt.Errorf("no live session for this display")
	}
	if s.UserID != userID {
		return nil, ErrNotYourSession
	}

	prior, err := m.history.LatestMatchID(ctx, s.Player, metric)
	if err != nil {
		return nil, fmt.Errorf("snapshot match history: %w", err)
	}

	deadline := time.Now().Add(m.cfg.BetWindow)
	pollCtx, cancel := context.WithDeadline(m.baseCtx, deadline)

	if !s.begin(metric, line, dir, m.cfg.Stake, m.cfg.Payout, prior, deadline, cancel) {
		cancel()
		return nil, ErrAlreadyPlaced
	}

	// Stake is taken at placement time. Win pays the full payout on top,
	// push and expiry hand the stake back.
	if err := m.ledger.Debit(userID, m.cfg.Stake); err != nil {
		s.finish(StateCancelled, 0, "wallet unavailable")
		m.registry.Remove(messageID)
		return nil, fmt.Errorf("debit stake: %w", err)
	}

	metrics.BetsPlaced.Inc()
	m.log.Info().
		Str("session", s.ID).
		Str("user", userID).
		Str("player", s.Player.RiotID()).
		Str("metric", metric.String()).
		Float64("line", line).
		Str("direction", dir.String()).
		Str("prior_match", prior).
		Time("deadline", deadline).
		Msg("bet placed")

	go m.watch(pollCtx, s)
	return s, nil
}

// settle applies one terminal outcome. The session's finish CAS makes this
// at-most-once even when a poll tick races the deadline.
func (m *Manager) settle(s *Session, value int) bool {
	_, line, dir, stake, payout := s.Bet()
	outcome := Decide(value, line, dir)
	if !s.finish(outcome, value, "") {
		return false
	}
	m.registry.Remove(s.MessageID)
	metrics.BetsSettled.WithLabelValues(outcome.String()).Inc()

	switch outcome {
	case StateWon:
		if err := m.ledger.Credit(s.UserID, payout); err != nil {
			m.log.Error().Err(err).Str("session", s.ID).Msg("crediting payout failed")
		}
	case StatePushed:
		if err := m.ledger.Credit(s.UserID, stake); err != nil {
			m.log.Error().Err(err).Str("session", s.ID).Msg("refunding pushed stake failed")
		}
	}

	m.log.Info().
		Str("session", s.ID).
		Str("outcome", outcome.String()).
		Int("value", value).
		Float64("line", line).
		Msg("bet settled")

	if m.notify != nil {
		m.notify(s, outcome, value, "")
	}
	return true
}

// expire ends an awaiting session without a detected match and hands the
// stake back.
func (m *Manager) expire(s *Session, reason string) bool {
	if !s.finish(StateExpired, 0, reason) {
		return false
	}
	m.registry.Remove(s.MessageID)
	metrics.BetsSettled.WithLabelValues(StateExpired.String()).Inc()

	_, _, _, stake, _ := s.Bet()
	if err := m.ledger.Credit(s.UserID, stake); err != nil {
		m.log.Error().Err(err).Str("session", s.ID).Msg("refunding expired stake failed")
	}

	m.log.Info().Str("session", s.ID).Str("reason", reason).Msg("bet expired")

	if m.notify != nil {
		m.notify(s, StateExpired, 0, reason)
	}
	return true
}
