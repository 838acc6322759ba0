package riot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"riftbook/internal/stats"
)

const (
	// historyLookback bounds how many recent ids are scanned before giving
	// up on assembling a full qualifying window.
	historyLookback = 51

	// minDurationSeconds excludes remakes and early surrenders.
	minDurationSeconds = 600
)

// lolQueues is the tracked competitive set: normal draft, ranked solo/duo,
// ranked flex.
var lolQueues = map[int]bool{400: true, 420: true, 440: true}

// tftQueues is the tracked TFT set: standard ranked.
var tftQueues = map[int]bool{1100: true}

// Observation is one qualifying match's full extraction for a player.
type Observation struct {
	MatchID   string
	Month     int
	Day       int
	Champion  string
	Role      string
	Kills     int
	Deaths    int
	Assists   int
	Placement int
}

// Description renders the stat-page line for a LoL observation,
// e.g. "3/14 Ahri (MID): 7/2/11".
func (o Observation) Description() string {
	return fmt.Sprintf("%d/%d %s (%s): %d/%d/%d", o.Month, o.Day, o.Champion, o.Role, o.Kills, o.Deaths, o.Assists)
}

// Stat returns the observation's value for one metric.
func (o Observation) Stat(metric stats.Metric) int {
	switch metric {
	case stats.Kills:
		return o.Kills
	case stats.Deaths:
		return o.Deaths
	case stats.Assists:
		return o.Assists
	default:
		return o.Placement
	}
}

// Fetcher assembles qualifying match windows for a player on top of the
// raw API client.
type Fetcher struct {
	client *Client
	log    zerolog.Logger
}

func NewFetcher(client *Client, log zerolog.Logger) *Fetcher {
	return &Fetcher{client: client, log: log}
}

// ResolvePlayer turns a "Name#Tag" pair into a PlayerRef with a puuid.
func (f *Fetcher) ResolvePlayer(ctx context.Context, name, tag string) (PlayerRef, error) {
	acct, err := f.client.AccountByRiotID(ctx, name, tag)
	if err != nil {
		return PlayerRef{}, err
	}
	return PlayerRef{PUUID: acct.PUUID, Name: name, Tag: tag}, nil
}

// RecentObservations scans the player's recent LoL matches and returns the
// first want qualifying ones, most recent first. Fewer than want within the
// lookback yields stats.ErrInsufficientHistory.
func (f *Fetcher) RecentObservations(ctx context.Context, player PlayerRef, want int) ([]Observation, error) {
	ids, err := f.client.MatchIDs(ctx, player.PUUID, historyLookback)
	if err != nil {
		return nil, err
	}

	var obs []Observation
	for _, id := range ids {
		if len(obs) == want {
			break
		}
		m, err := f.client.Match(ctx, id)
		if err != nil {
			// One unreadable match should not sink the whole window.
			f.log.Warn().Err(err).Str("match", id).Msg("skipping unreadable match")
			continue
		}
		o, ok := f.observe(m, player)
		if !ok {
			continue
		}
		obs = append(obs, o)
	}

	if len(obs) != want {
		return nil, fmt.Errorf("%w: found %d of %d in last %d matches",
			stats.ErrInsufficientHistory, len(obs), want, historyLookback)
	}
	return obs, nil
}

// RecentPlacements is RecentObservations for the TFT placement stat.
func (f *Fetcher) RecentPlacements(ctx context.Context, player PlayerRef, want int) ([]Observation, error) {
	ids, err := f.client.TFTMatchIDs(ctx, player.PUUID, historyLookback)
	if err != nil {
		return nil, err
	}

	var obs []Observation
	for _, id := range ids {
		if len(obs) == want {
			break
		}
		m, err := f.client.TFTMatch(ctx, id)
		if err != nil {
			f.log.Warn().Err(err).Str("match", id).Msg("skipping unreadable match")
			continue
		}
		o, ok := observeTFT(m, player)
		if !ok {
			continue
		}
		obs = append(obs, o)
	}

	if len(obs) != want {
		return nil, fmt.Errorf("%w: found %d of %d in last %d matches",
			stats.ErrInsufficientHistory, len(obs), want, historyLookback)
	}
	return obs, nil
}

// LatestMatchID returns the id at the top of the player's history for the
// metric's game, without any qualifying check. It is the pre-bet snapshot
// the settlement poll compares against.
func (f *Fetcher) LatestMatchID(ctx context.Context, player PlayerRef, metric stats.Metric) (string, error) {
	var (
		ids []string
		err error
	)
	if metric == stats.Placement {
		ids, err = f.client.TFTMatchIDs(ctx, player.PUUID, 1)
	} else {
		ids, err = f.client.MatchIDs(ctx, player.PUUID, 1)
	}
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// QualifyingStat fetches one match and extracts the player's value for the
// metric. ok is false when the match does not pass the qualifying filter.
func (f *Fetcher) QualifyingStat(ctx context.Context, matchID string, player PlayerRef, metric stats.Metric) (int, bool, error) {
	if metric == stats.Placement {
		m, err := f.client.TFTMatch(ctx, matchID)
		if err != nil {
			return 0, false, err
		}
		o, ok := observeTFT(m, player)
		if !ok {
			return 0, false, nil
		}
		return o.Placement, true, nil
	}

	m, err := f.client.Match(ctx, matchID)
	if err != nil {
		return 0, false, err
	}
	o, ok := f.observe(m, player)
	if !ok {
		return 0, false, nil
	}
	return o.Stat(metric), true, nil
}

// observe applies the qualifying filter and extracts the player's row.
func (f *Fetcher) observe(m *Match, player PlayerRef) (Observation, bool) {
	if !lolQueues[m.Info.QueueID] || m.Info.GameDuration <= minDurationSeconds {
		return Observation{}, false
	}

	for _, p := range m.Info.Participants {
		if !matchesPlayer(p, player) {
			continue
		}
		start := time.UnixMilli(m.Info.GameStartTimestamp)
		role := p.TeamPosition
		// The API reports support as UTILITY.
		if role == "UTILITY" {
			role = "SUPPORT"
		}
		return Observation{
			MatchID:  m.Metadata.MatchID,
			Month:    int(start.Month()),
			Day:      start.Day(),
			Champion: p.ChampionName,
			Role:     role,
			Kills:    p.Kills,
			Deaths:   p.Deaths,
			Assists:  p.Assists,
		}, true
	}
	return Observation{}, false
}

func observeTFT(m *TFTMatch, player PlayerRef) (Observation, bool) {
	if !tftQueues[m.Info.QueueID] || m.Info.GameLength <= minDurationSeconds {
		return Observation{}, false
	}

	for _, p := range m.Info.Participants {
		if p.PUUID != player.PUUID {
			continue
		}
		start := time.UnixMilli(m.Info.GameDatetime)
		return Observation{
			MatchID:   m.Metadata.MatchID,
			Month:     int(start.Month()),
			Day:       start.Day(),
			Placement: p.Placement,
		}, true
	}
	return Observation{}, false
}

// matchesPlayer prefers the riot id pair the lookup was issued with and
// falls back to the puuid for renamed accounts.
func matchesPlayer(p Participant, player PlayerRef) bool {
	if p.RiotIDGameName == player.Name && p.RiotIDTagline == player.Tag {
		return true
	}
	return p.PUUID != "" && p.PUUID == player.PUUID
}
