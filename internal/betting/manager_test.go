package betting

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"riftbook/internal/riot"
	"riftbook/internal/stats"
)

type memLedger struct {
	mu       sync.Mutex
	balances map[string]int
	credits  int
	debits   int
	debitErr error
}

func newMemLedger() *memLedger {
	return &memLedger{balances: make(map[string]int)}
}

func (l *memLedger) ensure(userID string) {
	if _, ok := l.balances[userID]; !ok {
		l.balances[userID] = 1000
	}
}

func (l *memLedger) Balance(userID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensure(userID)
	return l.balances[userID], nil
}

func (l *memLedger) Credit(userID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensure(userID)
	l.credits++
	l.balances[userID] += amount
	return nil
}

func (l *memLedger) Debit(userID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.debitErr != nil {
		return l.debitErr
	}
	l.ensure(userID)
	l.debits++
	l.balances[userID] -= amount
	return nil
}

func (l *memLedger) counts() (credits, debits int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.credits, l.debits
}

type fakeHistory struct {
	mu        sync.Mutex
	latestID  string
	latestErr error
	stat      int
	ok        bool
	statErr   error
}

func (f *fakeHistory) LatestMatchID(ctx context.Context, player riot.PlayerRef, metric stats.Metric) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestID, f.latestErr
}

func (f *fakeHistory) QualifyingStat(ctx context.Context, matchID string, player riot.PlayerRef, metric stats.Metric) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stat, f.ok, f.statErr
}

func (f *fakeHistory) set(latestID string, stat int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestID = latestID
	f.latestErr = nil
	f.stat = stat
	f.ok = ok
}

func (f *fakeHistory) setLatestErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestErr = err
}

type notifyEvent struct {
	session *Session
	outcome State
	value   int
	reason  string
}

type fixture struct {
	manager *Manager
	ledger  *memLedger
	history *fakeHistory
	notify  chan notifyEvent
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	ledger := newMemLedger()
	history := &fakeHistory{latestID: "m0"}
	m := NewManager(ledger, history, cfg, zerolog.Nop())
	t.Cleanup(m.Close)

	ch := make(chan notifyEvent, 16)
	m.SetNotifier(func(s *Session, outcome State, value int, reason string) {
		ch <- notifyEvent{session: s, outcome: outcome, value: value, reason: reason}
	})
	return &fixture{manager: m, ledger: ledger, history: history, notify: ch}
}

func fastConfig() Config {
	return Config{Stake: 100, Payout: 200, PollInterval: 2 * time.Millisecond, BetWindow: 2 * time.Second}
}

func (f *fixture) place(t *testing.T, metric stats.Metric, line float64, dir Direction) *Session {
	t.Helper()
	if _, err := f.manager.Open("user1", "chan1", "msg1", riot.PlayerRef{PUUID: "p", Name: "Test", Tag: "NA1"}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	s, err := f.manager.PlaceBet(context.Background(), "msg1", "user1", metric, line, dir)
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	return s
}

func (f *fixture) wait(t *testing.T) notifyEvent {
	t.Helper()
	select {
	case ev := <-f.notify:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no terminal transition observed")
		return notifyEvent{}
	}
}

func (f *fixture) balance(t *testing.T) int {
	t.Helper()
	b, err := f.ledger.Balance("user1")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	return b
}

func TestManager_WinFlow(t *testing.T) {
	f := newFixture(t, fastConfig())
	f.place(t, stats.Kills, 4.5, Under)

	if got := f.balance(t); got != 900 {
		t.Fatalf("balance after placement = %d, want 900", got)
	}

	f.history.set("m1", 3, true)
	ev := f.wait(t)
	if ev.outcome != StateWon || ev.value != 3 {
		t.Fatalf("outcome = %v value %d, want won with 3", ev.outcome, ev.value)
	}
	if got := f.balance(t); got != 1100 {
		t.Errorf("balance after win = %d, want 1100", got)
	}
	if f.manager.Session("msg1") != nil {
		t.Error("settled session still registered")
	}
}

func TestManager_LossFlow(t *testing.T) {
	f := newFixture(t, fastConfig())
	f.place(t, stats.Kills, 4.5, Under)

	f.history.set("m1", 6, true)
	ev := f.wait(t)
	if ev.outcome != StateLost {
		t.Fatalf("outcome = %v, want lost", ev.outcome)
	}
	if got := f.balance(t); got != 900 {
		t.Errorf("balance after loss = %d, want 900", got)
	}
}

func TestManager_PushRefundsStake(t *testing.T) {
	f := newFixture(t, fastConfig())
	// An integer line can only come from the integer-mean shift.
	f.place(t, stats.Kills, 4, Over)

	f.history.set("m1", 4, true)
	ev := f.wait(t)
	if ev.outcome != StatePushed {
		t.Fatalf("outcome = %v, want pushed", ev.outcome)
	}
	if got := f.balance(t); got != 1000 {
		t.Errorf("balance after push = %d, want 1000", got)
	}
}

func TestManager_ExpiryRefundsStake(t *testing.T) {
	cfg := fastConfig()
	cfg.BetWindow = 50 * time.Millisecond
	f := newFixture(t, cfg)
	f.place(t, stats.Kills, 4.5, Under)

	// History never moves past the snapshot.
	ev := f.wait(t)
	if ev.outcome != StateExpired {
		t.Fatalf("outcome = %v, want expired", ev.outcome)
	}
	if got := f.balance(t); got != 1000 {
		t.Errorf("balance after expiry = %d, want 1000", got)
	}
	credits, debits := f.ledger.counts()
	if credits != 1 || debits != 1 {
		t.Errorf("ledger ops = %d credits %d debits, want exactly one each", credits, debits)
	}
}

func TestManager_NonQualifyingMatchNeverTriggers(t *testing.T) {
	cfg := fastConfig()
	cfg.BetWindow = 80 * time.Millisecond
	f := newFixture(t, cfg)
	f.place(t, stats.Kills, 4.5, Under)

	// A new match appears but fails the qualifying filter; it must not
	// settle the wager.
	f.history.set("m1", 3, false)
	ev := f.wait(t)
	if ev.outcome != StateExpired {
		t.Fatalf("outcome = %v, want expired", ev.outcome)
	}
	if got := f.balance(t); got != 1000 {
		t.Errorf("balance = %d, want stake handed back on expiry", got)
	}
}

func TestManager_TransientErrorsRetry(t *testing.T) {
	f := newFixture(t, fastConfig())
	f.place(t, stats.Kills, 4.5, Under)
	f.history.setLatestErr(&riot.APIError{Status: http.StatusTooManyRequests})

	// Let a few failing ticks pass, then recover.
	time.Sleep(20 * time.Millisecond)
	f.history.set("m1", 2, true)

	ev := f.wait(t)
	if ev.outcome != StateWon {
		t.Fatalf("outcome = %v, want won after recovery", ev.outcome)
	}
}

func TestManager_PermanentErrorExpiresEarly(t *testing.T) {
	cfg := fastConfig()
	cfg.BetWindow = time.Hour
	f := newFixture(t, cfg)
	f.place(t, stats.Kills, 4.5, Under)

	f.history.setLatestErr(&riot.APIError{Status: http.StatusNotFound})

	ev := f.wait(t)
	if ev.outcome != StateExpired {
		t.Fatalf("outcome = %v, want expired", ev.outcome)
	}
	if ev.reason == "" {
		t.Error("permanent failure must carry a distinct reason")
	}
	if got := f.balance(t); got != 1000 {
		t.Errorf("balance = %d, want 1000", got)
	}
}

func TestManager_AtMostOnceResolution(t *testing.T) {
	cfg := fastConfig()
	cfg.PollInterval = time.Hour
	cfg.BetWindow = time.Hour
	f := newFixture(t, cfg)
	s := f.place(t, stats.Kills, 4.5, Under)

	// Simulate a detection tick and a deadline expiry racing each other.
	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan bool, attempts*2)
	for i := 0; i < attempts; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			results <- f.manager.settle(s, 3)
		}()
		go func() {
			defer wg.Done()
			results <- f.manager.expire(s, "deadline")
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for r := range results {
		if r {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("terminal transitions = %d, want exactly 1", wins)
	}
	credits, _ := f.ledger.counts()
	if credits > 1 {
		t.Fatalf("ledger credits = %d, want at most 1", credits)
	}
	if !s.State().Terminal() {
		t.Fatal("session not terminal after race")
	}
}

func TestManager_SecondBetOnSameDisplayRejected(t *testing.T) {
	cfg := fastConfig()
	cfg.PollInterval = time.Hour
	f := newFixture(t, cfg)
	f.place(t, stats.Kills, 4.5, Under)

	_, err := f.manager.PlaceBet(context.Background(), "msg1", "user1", stats.Deaths, 2.5, Over)
	if !errors.Is(err, ErrAlreadyPlaced) {
		t.Fatalf("err = %v, want ErrAlreadyPlaced", err)
	}
	_, debits := f.ledger.counts()
	if debits != 1 {
		t.Errorf("debits = %d, want 1", debits)
	}
}

func TestManager_OnlyOwnerCanBet(t *testing.T) {
	f := newFixture(t, fastConfig())
	if _, err := f.manager.Open("user1", "chan1", "msg1", riot.PlayerRef{PUUID: "p"}); err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, err := f.manager.PlaceBet(context.Background(), "msg1", "intruder", stats.Kills, 4.5, Under)
	if !errors.Is(err, ErrNotYourSession) {
		t.Fatalf("err = %v, want ErrNotYourSession", err)
	}
}

func TestManager_CancelDisplayNoLedgerEffect(t *testing.T) {
	f := newFixture(t, fastConfig())
	if _, err := f.manager.Open("user1", "chan1", "msg1", riot.PlayerRef{PUUID: "p"}); err != nil {
		t.Fatalf("Open: %v", err)
	}

	f.manager.CancelDisplay("msg1")
	if f.manager.Session("msg1") != nil {
		t.Error("cancelled session still registered")
	}
	credits, debits := f.ledger.counts()
	if credits != 0 || debits != 0 {
		t.Errorf("ledger ops = %d credits %d debits, want none", credits, debits)
	}
}

func TestManager_DebitFailureAbortsBet(t *testing.T) {
	f := newFixture(t, fastConfig())
	f.ledger.debitErr = errors.New("disk gone")
	if _, err := f.manager.Open("user1", "chan1", "msg1", riot.PlayerRef{PUUID: "p"}); err != nil {
		t.Fatalf("Open: %v", err)
	}

	s, err := f.manager.PlaceBet(context.Background(), "msg1", "user1", stats.Kills, 4.5, Under)
	if err == nil {
		t.Fatal("PlaceBet succeeded with a failing ledger")
	}
	if s != nil {
		t.Fatal("PlaceBet returned a session on failure")
	}
	if f.manager.Session("msg1") != nil {
		t.Error("failed session still registered")
	}
}
