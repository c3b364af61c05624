package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/providers"
)

// Announcements go out from scheduler and engine goroutines, so every
// notifier method hands the Discord call off instead of blocking the
// caller.

func (b *Bot) NotifyLevelUp(userID int64, level int) {
	channel := b.channelByName("", b.conf.Discord.GreetingChannel)
	if channel == "" {
		return
	}

	b.metrics.IncNotifications("level_up")

	message := fmt.Sprintf("🎉 <@%d> reached **Level %d**!", userID, level)
	switch {
	case level >= 49:
		message += "\n🌟 One more level until **Prestige**!"
	case level == 25:
		message += "\n💫 Quarter century! You're a server veteran now."
	case level == 10:
		message += "\n🔓 Double digits! Keep it up."
	}

	go b.sendEmbed(b.session, channel, "⬆️ Level Up!", message)
}

func (b *Bot) NotifyPrestige(userID int64, prestige int) {
	channel := b.channelByName("", b.conf.Discord.GreetingChannel)
	if channel == "" {
		return
	}

	b.metrics.IncNotifications("prestige")

	message := fmt.Sprintf("🌟 <@%d> has reached **Prestige %d**!\n\n"+
		"Their level resets to 0, but the prestige star is forever.\n"+
		"Prestige also grants a permanent leaderboard bonus.", userID, prestige)

	go b.sendEmbed(b.session, channel, "✨ PRESTIGE! ✨", message)
}

func (b *Bot) ReportDailyStats(date string, ended models.DailySummary, previous *models.DailySummary) {
	channel := b.channelByName("", b.conf.Discord.StatsChannel)
	if channel == "" {
		channel = b.channelByName("", b.conf.Discord.GreetingChannel)
	}
	if channel == "" {
		b.logger.Warnf(providers.TypeBot, "No channel for the daily report, skipping")
		return
	}

	desc := formatSummaryActivity(ended)
	if previous != nil {
		desc += "\n\n" + formatSummaryComparison(ended, previous)
	}
	if top := b.board.Top(3); len(top) > 0 {
		var lines []string
		medals := []string{"🥇", "🥈", "🥉"}
		for i, entry := range top {
			lines = append(lines, fmt.Sprintf("%s <@%d> - %.0f points", medals[i], entry.UserID, entry.Score))
		}
		desc += "\n\n🏆 **Current Top 3**\n" + strings.Join(lines, "\n")
	}

	title := fmt.Sprintf("🌙 Daily Report - %s", formatDayKey(date))
	go b.sendEmbed(b.session, channel, title, desc)
}

func formatDayKey(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}
