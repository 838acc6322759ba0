package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"riftbook/internal/stats"
)

// statPage is one metric's card: its embed, rendered chart and betting line.
type statPage struct {
	Metric    stats.Metric
	Line      float64
	Embed     *discordgo.MessageEmbed
	ImageName string
	Image     []byte
}

// display is the pagination state behind one posted stat message. The nav
// timer and the button handlers both touch it; the mutex keeps page flips
// and the freeze path consistent.
type display struct {
	UserID    string
	ChannelID string
	MessageID string

	mu      sync.Mutex
	pages   []statPage
	current int
	frozen  bool
	timer   *time.Timer
}

// page returns the current page under the lock.
func (d *display) page() statPage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pages[d.current]
}

// flip moves the page index by delta, clamped to the edges, and reports
// whether anything changed.
func (d *display) flip(delta int) (statPage, int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := d.current + delta
	if d.frozen || next < 0 || next >= len(d.pages) {
		return statPage{}, d.current, false
	}
	d.current = next
	return d.pages[d.current], d.current, true
}

// freeze stops the nav timer and marks the display inert. Returns false if
// it was already frozen.
func (d *display) freeze() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frozen {
		return false
	}
	d.frozen = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return true
}

type displayRegistry struct {
	mu        sync.Mutex
	byMessage map[string]*display
}

func newDisplayRegistry() *displayRegistry {
	return &displayRegistry{byMessage: make(map[string]*display)}
}

func (r *displayRegistry) add(d *display) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byMessage[d.MessageID] = d
}

func (r *displayRegistry) get(messageID string) *display {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byMessage[messageID]
}

func (r *displayRegistry) remove(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byMessage, messageID)
}

// controlRows builds the Prev/Next and Bet-Under/Bet-Over rows. The nav
// pair is edge-disabled; every custom id embeds the authorized user so
// other users' presses bounce off.
func controlRows(userID string, pageIdx, pageCount int, disabled bool) []discordgo.MessageComponent {
	prevDisabled := disabled || pageIdx == 0
	nextDisabled := disabled || pageIdx == pageCount-1

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Prev",
					Style:    discordgo.PrimaryButton,
					CustomID: "nav_prev_" + userID,
					Disabled: prevDisabled,
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.PrimaryButton,
					CustomID: "nav_next_" + userID,
					Disabled: nextDisabled,
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Bet Under",
					Style:    discordgo.SuccessButton,
					CustomID: "bet_under_" + userID,
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Bet Over",
					Style:    discordgo.DangerButton,
					CustomID: "bet_over_" + userID,
					Disabled: disabled,
				},
			},
		},
	}
}

// freezeDisplay is the navigation-timeout path: the card goes inert in
// place and the browsing session, if no bet ever started, is cancelled.
func (h *Handler) freezeDisplay(messageID string) {
	d := h.displays.get(messageID)
	if d == nil {
		return
	}
	if !d.freeze() {
		return
	}
	h.displays.remove(messageID)
	h.bets.CancelDisplay(messageID)

	p := d.page()
	edit := discordgo.NewMessageEdit(d.ChannelID, d.MessageID)
	rows := controlRows(d.UserID, 0, len(d.pages), true)
	edit.Components = &rows
	edit.Embeds = &[]*discordgo.MessageEmbed{p.Embed}
	if _, err := h.dg.ChannelMessageEditComplex(edit); err != nil {
		h.log.Warn().Err(err).Str("message", messageID).Msg("freezing display failed")
	}
}

func formatLine(line float64) string {
	if line == float64(int(line)) {
		return fmt.Sprintf("%.0f", line)
	}
	return fmt.Sprintf("%.1f", line)
}
