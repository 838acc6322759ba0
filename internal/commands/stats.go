package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"riftbook/internal/chart"
	"riftbook/internal/metrics"
	"riftbook/internal/riot"
	"riftbook/internal/stats"
	"riftbook/pkg/config"
	"riftbook/pkg/utils"
)

const lookupTimeout = 90 * time.Second

func (h *Handler) cmdSummonerStats(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	name, tag, err := parseRiotID(content)
	if err != nil {
		s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	player, err := h.fetcher.ResolvePlayer(ctx, name, tag)
	if err != nil {
		h.log.Warn().Err(err).Str("riot_id", name+"#"+tag).Msg("account lookup failed")
		s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed("Could not find that player. Check the name and tag."))
		return
	}

	obs, err := h.fetcher.RecentObservations(ctx, player, stats.Kills.Window())
	if err != nil {
		h.replyLookupError(s, m.ChannelID, player, err)
		return
	}

	pages, err := buildLolPages(obs)
	if err != nil {
		h.log.Error().Err(err).Msg("building stat pages failed")
		s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed("Something went wrong rendering the charts."))
		return
	}

	h.postDisplay(s, m, player, pages)
}

func (h *Handler) cmdTFTStats(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	name, tag, err := parseRiotID(content)
	if err != nil {
		s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	player, err := h.fetcher.ResolvePlayer(ctx, name, tag)
	if err != nil {
		h.log.Warn().Err(err).Str("riot_id", name+"#"+tag).Msg("account lookup failed")
		s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed("Could not find that player. Check the name and tag."))
		return
	}

	obs, err := h.fetcher.RecentPlacements(ctx, player, stats.Placement.Window())
	if err != nil {
		h.replyLookupError(s, m.ChannelID, player, err)
		return
	}

	pages, err := buildTFTPages(obs)
	if err != nil {
		h.log.Error().Err(err).Msg("building stat pages failed")
		s.ChannelMessageSendEmbed(m.ChannelID, utils.ErrorEmbed("Something went wrong rendering the charts."))
		return
	}

	h.postDisplay(s, m, player, pages)
}

func (h *Handler) replyLookupError(s *discordgo.Session, channelID string, player riot.PlayerRef, err error) {
	if errors.Is(err, stats.ErrInsufficientHistory) {
		s.ChannelMessageSendEmbed(channelID, utils.ErrorEmbed(
			fmt.Sprintf("Not enough recent qualifying matches for **%s**.", player.RiotID())))
		return
	}
	h.log.Warn().Err(err).Str("player", player.RiotID()).Msg("history fetch failed")
	s.ChannelMessageSendEmbed(channelID, utils.ErrorEmbed("Insufficient or unretrievable match data. Try again later."))
}

// buildLolPages renders one page per counting stat from a window of
// observations in most-recent-first order.
func buildLolPages(obs []riot.Observation) ([]statPage, error) {
	labels := chartLabels(obs)
	descriptions := make([]string, 0, len(obs))
	for _, o := range obs {
		descriptions = append(descriptions, o.Description())
	}

	var pages []statPage
	for _, metric := range []stats.Metric{stats.Kills, stats.Deaths, stats.Assists} {
		page, err := buildPage(obs, metric, labels, descriptions)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func buildTFTPages(obs []riot.Observation) ([]statPage, error) {
	labels := chartLabels(obs)
	descriptions := make([]string, 0, len(obs))
	for _, o := range obs {
		descriptions = append(descriptions, fmt.Sprintf("%d/%d: placed #%d", o.Month, o.Day, o.Placement))
	}

	page, err := buildPage(obs, stats.Placement, labels, descriptions)
	if err != nil {
		return nil, err
	}
	return []statPage{page}, nil
}

func buildPage(obs []riot.Observation, metric stats.Metric, labels, descriptions []string) (statPage, error) {
	samples := make([]stats.StatSample, 0, len(obs))
	values := make([]int, 0, len(obs))
	// Observations arrive newest first; the chart wants oldest on the left.
	for i := len(obs) - 1; i >= 0; i-- {
		o := obs[i]
		samples = append(samples, stats.StatSample{Value: o.Stat(metric), Month: o.Month, Day: o.Day})
		values = append(values, o.Stat(metric))
	}

	line, err := stats.ComputeLine(samples, metric)
	if err != nil {
		return statPage{}, err
	}

	title := pageTitle(metric)
	imageName := metric.String() + "_graph.png"
	png, err := chart.RenderBarChart(values, labels, title)
	if err != nil {
		return statPage{}, err
	}

	desc := strings.Join(descriptions, "\n") +
		fmt.Sprintf("\n\nOver/Under line: **%s**", formatLine(line.Value)) +
		fmt.Sprintf("\n%s over the last %d matches", title, metric.Window())

	return statPage{
		Metric:    metric,
		Line:      line.Value,
		Embed:     utils.StatEmbed(title, desc, imageName),
		ImageName: imageName,
		Image:     png,
	}, nil
}

func pageTitle(metric stats.Metric) string {
	switch metric {
	case stats.Kills:
		return "Kills Per Game"
	case stats.Deaths:
		return "Deaths Per Game"
	case stats.Assists:
		return "Assists Per Game"
	default:
		return "Placement Per Game"
	}
}

func chartLabels(obs []riot.Observation) []string {
	labels := make([]string, 0, len(obs))
	for i := len(obs) - 1; i >= 0; i-- {
		labels = append(labels, fmt.Sprintf("%d/%d", obs[i].Month, obs[i].Day))
	}
	return labels
}

// postDisplay sends the first page with live controls and opens the
// browsing session behind it.
func (h *Handler) postDisplay(s *discordgo.Session, m *discordgo.MessageCreate, player riot.PlayerRef, pages []statPage) {
	first := pages[0]
	msg, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{first.Embed},
		Components: controlRows(m.Author.ID, 0, len(pages), false),
		Files:      []*discordgo.File{pageFile(first)},
	})
	if err != nil {
		h.log.Error().Err(err).Msg("sending stat display failed")
		return
	}

	d := &display{
		UserID:    m.Author.ID,
		ChannelID: m.ChannelID,
		MessageID: msg.ID,
		pages:     pages,
	}
	d.timer = time.AfterFunc(config.Bot.Betting.NavTimeout(), func() {
		h.freezeDisplay(msg.ID)
	})
	h.displays.add(d)

	if _, err := h.bets.Open(m.Author.ID, m.ChannelID, msg.ID, player); err != nil {
		h.log.Error().Err(err).Str("message", msg.ID).Msg("opening session failed")
	}
	metrics.LookupsServed.Inc()
}

func pageFile(p statPage) *discordgo.File {
	return &discordgo.File{
		Name:        p.ImageName,
		ContentType: "image/png",
		Reader:      bytes.NewReader(p.Image),
	}
}
