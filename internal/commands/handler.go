// Package commands routes chat messages and button presses into lookups
// and wager sessions.
package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"riftbook/internal/betting"
	"riftbook/internal/database"
	"riftbook/internal/riot"
	"riftbook/pkg/utils"
)

// Handler wires the command surface to the lookup, wallet and betting
// components. One instance serves the whole bot; everything request-scoped
// travels through arguments, never package state.
type Handler struct {
	dg       *discordgo.Session
	store    *database.Store
	fetcher  *riot.Fetcher
	bets     *betting.Manager
	log      zerolog.Logger
	displays *displayRegistry
}

func New(dg *discordgo.Session, store *database.Store, fetcher *riot.Fetcher, bets *betting.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		dg:       dg,
		store:    store,
		fetcher:  fetcher,
		bets:     bets,
		log:      log,
		displays: newDisplayRegistry(),
	}
}

func (h *Handler) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	if !strings.HasPrefix(m.Content, "$") {
		return
	}

	command := strings.ToLower(strings.Fields(m.Content)[0])

	switch command {
	case "$help":
		h.cmdHelp(s, m)
	case "$ss", "$stats":
		h.cmdSummonerStats(s, m, m.Content)
	case "$tft":
		h.cmdTFTStats(s, m, m.Content)
	case "$wallet", "$balance":
		h.cmdWallet(s, m)
	case "$leaderboard", "$top":
		h.cmdLeaderboard(s, m)
	default:
		s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed("Unknown command. Try $help."))
	}
}

func (h *Handler) cmdHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	help := "`$ss \"Name#Tag\"` — kills/deaths/assists over the last 5 matches, with over/under bets\n" +
		"`$tft \"Name#Tag\"` — placement over the last 10 TFT matches, with over/under bets\n" +
		"`$wallet` — your balance\n" +
		"`$leaderboard` — top wallets"
	s.ChannelMessageSendEmbed(m.ChannelID, utils.InfoEmbed("Commands", help))
}
