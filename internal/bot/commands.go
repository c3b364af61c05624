package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cast"

	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/providers"
	"github.com/itkutus/potbot/internal/weather"
)

func (b *Bot) handleCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	content := strings.TrimPrefix(m.Content, b.conf.Discord.Prefix)
	parts := strings.SplitN(strings.TrimSpace(content), " ", 2)
	name := strings.ToLower(parts[0])
	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	b.logger.Debugf(providers.TypeBot, "Command %q from %s", name, m.Author.ID)

	switch name {
	case "help":
		b.cmdHelp(s, m)
	case "profile":
		b.cmdProfile(s, m)
	case "leaderboards":
		b.cmdLeaderboards(s, m)
	case "dailystats":
		b.cmdDailyStats(s, m)
	case "events":
		b.cmdEvents(s, m)
	case "setevents":
		b.cmdSetEvents(s, m, args)
	case "info":
		b.cmdInfo(s, m)
	case "weather":
		b.cmdWeather(s, m, args)
	case "lock":
		b.cmdLock(s, m)
	case "unlock":
		b.cmdUnlock(s, m)
	case "kick":
		b.cmdKick(s, m, args)
	case "ban":
		b.cmdBan(s, m, args)
	case "softban":
		b.cmdSoftban(s, m, args)
	case "tempban":
		b.cmdTempban(s, m, args)
	}
}

func (b *Bot) cmdHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	p := b.conf.Discord.Prefix
	desc := fmt.Sprintf("**%shelp** - Shows this command list\n"+
		"**%sweather <city>** - Current weather via wttr.in\n"+
		"**%sevents** - Display current events\n"+
		"**%ssetevents <text>** - Set events (admin only)\n"+
		"**%sinfo** - Server info + total messages\n"+
		"**%sleaderboards** - Top users by XP + voice\n"+
		"**%sprofile [@user]** - User's level, XP, and rank\n"+
		"**%sdailystats** - Show today's server statistics",
		p, p, p, p, p, p, p, p)
	b.sendEmbed(s, m.ChannelID, "📜 Available Commands", desc)
}

func (b *Bot) cmdProfile(s *discordgo.Session, m *discordgo.MessageCreate) {
	target := m.Author
	if len(m.Mentions) > 0 {
		target = m.Mentions[0]
	}
	profile := b.engagement.Profile(cast.ToInt64(target.ID))

	prestigeText := ""
	if profile.Prestige > 0 {
		prestigeText = fmt.Sprintf(" ⭐%d", profile.Prestige)
	}
	desc := fmt.Sprintf("🏆 **Level:** %d%s\n"+
		"💎 **Total XP:** %.0f\n"+
		"📊 **Progress:** %.0f/%.0f XP\n"+
		"🥇 **Server Rank:** #%d\n"+
		"💬 **Messages:** %d\n"+
		"🔊 **Voice Time:** %.0f minutes\n"+
		"🔥 **Current Streak:** %d days",
		profile.Level, prestigeText, profile.Xp, profile.Progress, profile.NextRequirement,
		profile.Rank, profile.MessageCount, profile.VoiceMinutes, profile.DailyStreak)

	if profile.NextRequirement > 0 {
		percent := profile.Progress / profile.NextRequirement * 100
		desc += fmt.Sprintf("\n📈 `%s` %.1f%%", progressBar(percent, 20), percent)
	}

	if len(profile.Achievements) > 0 {
		var lines []string
		for _, id := range profile.Achievements {
			if def, ok := models.Achievements[id]; ok {
				lines = append(lines, fmt.Sprintf("%s %s", def.Emoji, def.Name))
			}
		}
		if len(lines) > 5 {
			lines = append(lines[:5], fmt.Sprintf("+ %d more...", len(lines)-5))
		}
		desc += "\n\n🏅 **Achievements**\n" + strings.Join(lines, "\n")
	}

	b.sendEmbed(s, m.ChannelID, fmt.Sprintf("👤 %s's Profile%s", target.Username, prestigeText), desc)
}

func (b *Bot) cmdLeaderboards(s *discordgo.Session, m *discordgo.MessageCreate) {
	entries := b.board.Top(b.conf.Leaderboard.TopLimit)
	if len(entries) == 0 {
		b.sendEmbed(s, m.ChannelID, "🏆 Leaderboards", "No activity data yet. Start chatting to appear on the leaderboard!")
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var lines []string
	for i, entry := range entries {
		medal := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		prestigeText := ""
		if entry.Prestige > 0 {
			prestigeText = fmt.Sprintf(" ⭐%d", entry.Prestige)
		}
		lines = append(lines, fmt.Sprintf("%s <@%d> - Lv.%d%s\n    💎 %.0f XP • 🔊 %.0fm • 📊 %.0f total",
			medal, entry.UserID, entry.Level, prestigeText, entry.Xp, entry.VoiceMinutes, entry.Score))
	}

	desc := strings.Join(lines, "\n\n")
	desc += fmt.Sprintf("\n\n📊 **Scoring:** XP + (Voice minutes × %.0f) + Prestige bonus", b.conf.Leaderboard.VoiceWeightFactor)
	b.sendEmbed(s, m.ChannelID, "🏆 Activity Leaderboards", desc)
}

func (b *Bot) cmdDailyStats(s *discordgo.Session, m *discordgo.MessageCreate) {
	now := time.Now()
	today, yesterday := b.daily.Comparison(now)

	if today.Messages == 0 {
		b.sendEmbed(s, m.ChannelID, "📊 Daily Statistics", "No activity recorded today yet. Start chatting!")
		return
	}

	desc := formatDailyActivity(today)
	if yesterday != nil {
		desc += "\n\n" + formatDailyComparison(today, yesterday)
	}
	b.sendEmbed(s, m.ChannelID, fmt.Sprintf("📊 Today's Server Statistics - %s", now.Format("January 2, 2006")), desc)
}

func (b *Bot) cmdEvents(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.sendEmbed(s, m.ChannelID, "📅 Current Events", b.store.EventsMessage())
}

func (b *Bot) cmdSetEvents(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if !b.isAdmin(m.Author.ID) {
		b.sendEmbed(s, m.ChannelID, "❌ Not allowed", "Only the bot administrator can update events.")
		return
	}
	if args == "" {
		b.sendEmbed(s, m.ChannelID, "❌ Invalid usage", fmt.Sprintf("Usage: `%ssetevents <text>`", b.conf.Discord.Prefix))
		return
	}
	b.store.SetEventsMessage(args)
	b.sendEmbed(s, m.ChannelID, "✅ Events updated", args)
}

func (b *Bot) cmdInfo(s *discordgo.Session, m *discordgo.MessageCreate) {
	guild, err := s.State.Guild(m.GuildID)
	if err != nil {
		b.logger.Errorf(providers.TypeBot, "Guild %s not in state cache: %s", m.GuildID, err)
		return
	}

	totalXp, totalVoice, totalPrestiges := b.store.Totals()
	desc := fmt.Sprintf("👥 **Members:** %d\n"+
		"💬 **Text Channels:** %d\n\n"+
		"📊 **Server Activity:**\n"+
		"💬 **Total Messages Tracked:** %d\n"+
		"⭐ **Total XP Earned:** %.0f\n"+
		"🔊 **Total Voice Time:** %.0f minutes\n"+
		"🌟 **Total Prestiges:** %d",
		guild.MemberCount, len(guild.Channels),
		b.store.TotalMessages(), totalXp, totalVoice, totalPrestiges)

	b.sendEmbed(s, m.ChannelID, fmt.Sprintf("ℹ️ Server Info - %s", guild.Name), desc)
}

func (b *Bot) cmdWeather(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if !b.conf.Weather.Enabled {
		return
	}
	if args == "" {
		b.sendEmbed(s, m.ChannelID, "❌ Invalid usage", fmt.Sprintf("Usage: `%sweather <city>`", b.conf.Discord.Prefix))
		return
	}

	report, err := b.weather.Current(args)
	if err != nil {
		b.logger.Errorf(providers.TypeBot, "Weather lookup failed: %s", err)
		b.sendEmbed(s, m.ChannelID, "❌ Weather unavailable", "Could not fetch weather data.")
		return
	}

	desc := fmt.Sprintf("**%s**\n"+
		"🌡️ **Temperature:** %s°C (feels like %s°C)\n"+
		"💧 **Humidity:** %s%%\n"+
		"💨 **Wind:** %s km/h %s\n"+
		"👁️ **Visibility:** %s km\n"+
		"☀️ **UV Index:** %s",
		report.Description, report.TempC, report.FeelsLikeC,
		report.Humidity, report.WindKmph, report.WindDir,
		report.Visibility, report.UvIndex)
	if report.MinTempC != "" && report.MaxTempC != "" {
		desc += fmt.Sprintf("\n📊 **Today's Range:** %s°C - %s°C", report.MinTempC, report.MaxTempC)
	}

	title := fmt.Sprintf("%s Weather in %s, %s", weather.Emoji(report.Description), report.Area, report.Country)
	b.sendEmbed(s, m.ChannelID, title, desc)
}

func formatDailyActivity(today models.DailyStats) string {
	return fmt.Sprintf("💬 **Messages:** %d\n"+
		"👥 **Active Users:** %d\n"+
		"⭐ **XP Gained:** %.0f\n"+
		"🔊 **Voice Time:** %.0fm\n"+
		"📊 **Level Ups:** %d\n"+
		"🌟 **Prestiges:** %d\n"+
		"👋 **New Members:** %d",
		today.Messages, len(today.ActiveUsers), today.XpGained,
		today.VoiceMinutes, today.LevelUps, today.Prestiges, today.NewMembers)
}

func formatDailyComparison(today models.DailyStats, yesterday *models.DailySummary) string {
	msgChange := today.Messages - yesterday.Messages
	activeChange := len(today.ActiveUsers) - yesterday.ActiveUsers
	xpChange := today.XpGained - yesterday.XpGained

	return fmt.Sprintf("📊 **vs Yesterday**\n"+
		"%s **Messages:** %+d\n"+
		"%s **Active Users:** %+d\n"+
		"%s **XP Gained:** %+.0f",
		trendArrow(float64(msgChange)), msgChange,
		trendArrow(float64(activeChange)), activeChange,
		trendArrow(xpChange), xpChange)
}

func formatSummaryActivity(day models.DailySummary) string {
	return fmt.Sprintf("💬 **Messages:** %d\n"+
		"👥 **Active Users:** %d\n"+
		"⭐ **XP Gained:** %.0f\n"+
		"🔊 **Voice Time:** %.0fm\n"+
		"📊 **Level Ups:** %d\n"+
		"🌟 **Prestiges:** %d\n"+
		"👋 **New Members:** %d",
		day.Messages, day.ActiveUsers, day.XpGained,
		day.VoiceMinutes, day.LevelUps, day.Prestiges, day.NewMembers)
}

func formatSummaryComparison(day models.DailySummary, previous *models.DailySummary) string {
	msgChange := day.Messages - previous.Messages
	activeChange := day.ActiveUsers - previous.ActiveUsers
	xpChange := day.XpGained - previous.XpGained

	return fmt.Sprintf("📊 **vs Previous Day**\n"+
		"%s **Messages:** %+d\n"+
		"%s **Active Users:** %+d\n"+
		"%s **XP Gained:** %+.0f",
		trendArrow(float64(msgChange)), msgChange,
		trendArrow(float64(activeChange)), activeChange,
		trendArrow(xpChange), xpChange)
}

// progressBar renders a fixed-width bar; percentages outside [0, 100]
// are clamped.
func progressBar(percent float64, width int) string {
	filled := int(float64(width) * percent / 100)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func trendArrow(change float64) string {
	switch {
	case change > 0:
		return "📈"
	case change < 0:
		return "📉"
	default:
		return "➡️"
	}
}
