package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"riftbook/internal/betting"
	"riftbook/pkg/config"
	"riftbook/pkg/utils"
)

// ComponentsHandler routes button presses. Every custom id ends with the
// authorized user id; presses from anyone else get a private brush-off.
func (h *Handler) ComponentsHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	presser := interactionUserID(i)

	switch {
	case strings.HasPrefix(customID, "nav_prev_"):
		h.handleNav(s, i, presser, strings.TrimPrefix(customID, "nav_prev_"), -1)
	case strings.HasPrefix(customID, "nav_next_"):
		h.handleNav(s, i, presser, strings.TrimPrefix(customID, "nav_next_"), +1)
	case strings.HasPrefix(customID, "bet_under_"):
		h.handleBet(s, i, presser, strings.TrimPrefix(customID, "bet_under_"), betting.Under)
	case strings.HasPrefix(customID, "bet_over_"):
		h.handleBet(s, i, presser, strings.TrimPrefix(customID, "bet_over_"), betting.Over)
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (h *Handler) handleNav(s *discordgo.Session, i *discordgo.InteractionCreate, presser, owner string, delta int) {
	if presser != owner {
		h.respondEphemeral(s, i, "This display belongs to someone else.")
		return
	}

	d := h.displays.get(i.Message.ID)
	if d == nil {
		h.respondEphemeral(s, i, "This display has expired.")
		return
	}

	page, idx, ok := d.flip(delta)
	if !ok {
		// Edge press or frozen display; acknowledge without changes.
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:      []*discordgo.MessageEmbed{page.Embed},
			Components:  controlRows(owner, idx, len(d.pages), false),
			Files:       []*discordgo.File{pageFile(page)},
			Attachments: &[]*discordgo.MessageAttachment{},
		},
	})
	if err != nil {
		h.log.Warn().Err(err).Str("message", i.Message.ID).Msg("page flip failed")
	}
}

func (h *Handler) handleBet(s *discordgo.Session, i *discordgo.InteractionCreate, presser, owner string, dir betting.Direction) {
	if presser != owner {
		h.respondEphemeral(s, i, "Only the user who opened this display can bet on it.")
		return
	}

	d := h.displays.get(i.Message.ID)
	if d == nil {
		h.respondEphemeral(s, i, "This display has expired.")
		return
	}
	page := d.page()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, err := h.bets.PlaceBet(ctx, i.Message.ID, presser, page.Metric, page.Line, dir)
	if err != nil {
		switch {
		case errors.Is(err, betting.ErrAlreadyPlaced):
			h.respondEphemeral(s, i, "You already have a bet running on this display.")
		case errors.Is(err, betting.ErrNotYourSession):
			h.respondEphemeral(s, i, "Only the user who opened this display can bet on it.")
		default:
			h.log.Warn().Err(err).Str("message", i.Message.ID).Msg("placing bet failed")
			h.respondEphemeral(s, i, "Could not place the bet right now. Try again in a bit.")
		}
		return
	}

	// The stat display becomes a pending-wager card; the nav timer is done.
	d.freeze()
	h.displays.remove(i.Message.ID)

	_, line, _, stake, payout := sess.Bet()
	desc := fmt.Sprintf(
		"**%s** bet **%d %s** on **%s %s %s** for %s's next match.\nPays **%d** if it hits. Watching for the result...",
		mentionUser(presser), stake, config.Bot.CurrencyName,
		page.Metric, dir, formatLine(line),
		sess.Player.RiotID(), payout)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:      []*discordgo.MessageEmbed{utils.GoldEmbed("Bet Placed", desc)},
			Components:  controlRows(owner, 0, len(d.pages), true),
			Attachments: &[]*discordgo.MessageAttachment{},
		},
	})
	if err != nil {
		h.log.Warn().Err(err).Str("session", sess.ID).Msg("bet confirmation edit failed")
	}
}

func (h *Handler) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("ephemeral reply failed")
	}
}

func mentionUser(userID string) string {
	return "<@" + userID + ">"
}

// NotifySettled is the betting manager's presentation callback: the wager
// card is replaced in place with the result summary.
func (h *Handler) NotifySettled(sess *betting.Session, outcome betting.State, value int, reason string) {
	metric, line, dir, stake, payout := sess.Bet()

	var embed *discordgo.MessageEmbed
	switch outcome {
	case betting.StateWon:
		embed = utils.SuccessEmbed("Bet Won!",
			fmt.Sprintf("%s went **%d %s** against the %s line — **%s %s** hits!\n%s collects **%d %s**.",
				sess.Player.RiotID(), value, metric, formatLine(line), dir, formatLine(line),
				mentionUser(sess.UserID), payout, config.Bot.CurrencyName))
	case betting.StateLost:
		embed = utils.ErrorEmbed(
			fmt.Sprintf("%s went **%d %s** against the %s line — **%s %s** misses. %s loses the %d stake.",
				sess.Player.RiotID(), value, metric, formatLine(line), dir, formatLine(line),
				mentionUser(sess.UserID), stake))
		embed.Title = "📉 Bet Lost"
	case betting.StatePushed:
		embed = utils.InfoEmbed("Push",
			fmt.Sprintf("%s landed exactly on the %s line with **%d %s**. Stake of %d returned to %s.",
				sess.Player.RiotID(), formatLine(line), value, metric, stake, mentionUser(sess.UserID)))
	case betting.StateExpired:
		if reason == "" {
			reason = "no qualifying match finished in time"
		}
		embed = utils.InfoEmbed("Bet Expired",
			fmt.Sprintf("The bet on %s's next match expired: %s. Stake of %d returned to %s.",
				sess.Player.RiotID(), reason, stake, mentionUser(sess.UserID)))
	default:
		return
	}

	edit := discordgo.NewMessageEdit(sess.ChannelID, sess.MessageID)
	edit.Embeds = &[]*discordgo.MessageEmbed{embed}
	edit.Components = &[]discordgo.MessageComponent{}
	edit.Attachments = &[]*discordgo.MessageAttachment{}
	if _, err := h.dg.ChannelMessageEditComplex(edit); err != nil {
		h.log.Warn().Err(err).Str("session", sess.ID).Msg("settlement edit failed")
	}
}
