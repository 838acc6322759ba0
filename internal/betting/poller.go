package betting

import (
	"context"
	"errors"
	"time"

	"riftbook/internal/metrics"
	"riftbook/internal/riot"
)

// watch is the settlement poller for one awaiting session. It re-queries
// the history source on a fixed cadence until a new qualifying match shows
// up or the context's deadline elapses. The context is the session's
// cancellation handle: any terminal transition cancels it, so the goroutine
// never outlives the wager.
func (m *Manager) watch(ctx context.Context, s *Session) {
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				m.expire(s, "no qualifying match before the deadline")
			}
			// Cancellation from settlement or shutdown: nothing to do.
			return
		case <-ticker.C:
			if m.pollOnce(ctx, s) {
				return
			}
		}
	}
}

// pollOnce runs a single detection attempt. It returns true when the
// session reached a terminal state and polling must stop.
func (m *Manager) pollOnce(ctx context.Context, s *Session) bool {
	metrics.PollTicks.Inc()
	metric, _, _, _, _ := s.Bet()

	latest, err := m.history.LatestMatchID(ctx, s.Player, metric)
	if err != nil {
		return m.handlePollError(ctx, s, err)
	}
	if latest == "" || latest == s.PriorMatchID() {
		return false
	}

	value, ok, err := m.history.QualifyingStat(ctx, latest, s.Player, metric)
	if err != nil {
		return m.handlePollError(ctx, s, err)
	}
	if !ok {
		// A new match appeared but it does not qualify (wrong queue or a
		// remake). Not a trigger; keep waiting for one that counts.
		m.log.Debug().Str("session", s.ID).Str("match", latest).Msg("new match did not qualify")
		return false
	}

	return m.settle(s, value)
}

// handlePollError retries transient failures on the next tick and expires
// the session on permanent ones rather than polling forever.
func (m *Manager) handlePollError(ctx context.Context, s *Session, err error) bool {
	if ctx.Err() != nil {
		// The deadline or a cancellation interrupted the fetch; the select
		// in watch deals with it.
		return false
	}
	if riot.IsTransient(err) {
		m.log.Warn().Err(err).Str("session", s.ID).Msg("poll failed, retrying next tick")
		return false
	}
	m.log.Error().Err(err).Str("session", s.ID).Msg("match data permanently unavailable")
	return m.expire(s, "match data unavailable")
}
