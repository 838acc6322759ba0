package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"riftbook/pkg/config"
	"riftbook/pkg/utils"
)

func (h *Handler) cmdWallet(s *discordgo.Session, m *discordgo.MessageCreate) {
	targetUser := m.Author
	if len(m.Mentions) > 0 {
		targetUser = m.Mentions[0]
	}

	balance, err := h.store.Balance(targetUser.ID)
	if err != nil {
		h.log.Error().Err(err).Str("user", targetUser.ID).Msg("balance lookup failed")
		s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed("Wallet is unavailable right now."))
		return
	}

	s.ChannelMessageSendEmbed(m.ChannelID, utils.GoldEmbed("Balance",
		fmt.Sprintf("**%s** has **%d %s**.", targetUser.Username, balance, config.Bot.CurrencyName)))
}

func (h *Handler) cmdLeaderboard(s *discordgo.Session, m *discordgo.MessageCreate) {
	users, err := h.store.Leaderboard(10)
	if err != nil {
		h.log.Error().Err(err).Msg("leaderboard query failed")
		s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed("Leaderboard is unavailable right now."))
		return
	}
	if len(users) == 0 {
		s.ChannelMessageSendEmbed(m.ChannelID, utils.InfoEmbed("Leaderboard", "No wallets yet."))
		return
	}

	var b strings.Builder
	for i, u := range users {
		fmt.Fprintf(&b, "%d. %s — **%d %s**\n", i+1, mentionUser(u.ID), u.Balance, config.Bot.CurrencyName)
	}
	s.ChannelMessageSendEmbed(m.ChannelID, utils.GoldEmbed("Leaderboard", b.String()))
}
