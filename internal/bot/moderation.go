package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/itkutus/potbot/internal/providers"
)

const softbanPurgeDays = 7

func (b *Bot) cmdLock(s *discordgo.Session, m *discordgo.MessageCreate) {
	if !b.hasPermission(s, m.GuildID, m.ChannelID, m.Author.ID, discordgo.PermissionManageChannels) {
		b.sendEmbed(s, m.ChannelID, "❌ Not allowed", "You need the Manage Channels permission to lock this channel.")
		return
	}
	b.mu.Lock()
	b.lockedChannels[m.ChannelID] = struct{}{}
	b.mu.Unlock()
	b.logger.Infof(providers.TypeBot, "Channel %s locked by %s", m.ChannelID, m.Author.ID)
	b.sendEmbed(s, m.ChannelID, "🔒 Channel locked", "Messages from members without Manage Messages will be removed.")
}

func (b *Bot) cmdUnlock(s *discordgo.Session, m *discordgo.MessageCreate) {
	if !b.hasPermission(s, m.GuildID, m.ChannelID, m.Author.ID, discordgo.PermissionManageChannels) {
		b.sendEmbed(s, m.ChannelID, "❌ Not allowed", "You need the Manage Channels permission to unlock this channel.")
		return
	}
	b.mu.Lock()
	delete(b.lockedChannels, m.ChannelID)
	b.mu.Unlock()
	b.logger.Infof(providers.TypeBot, "Channel %s unlocked by %s", m.ChannelID, m.Author.ID)
	b.sendEmbed(s, m.ChannelID, "🔓 Channel unlocked", "Everyone can chat again.")
}

func (b *Bot) cmdKick(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if !b.hasPermission(s, m.GuildID, m.ChannelID, m.Author.ID, discordgo.PermissionKickMembers) {
		b.sendEmbed(s, m.ChannelID, "❌ Not allowed", "You need the Kick Members permission.")
		return
	}
	targetID, reason := b.moderationTarget(m, args)
	if targetID == "" {
		b.sendEmbed(s, m.ChannelID, "❌ Invalid usage", fmt.Sprintf("Usage: `%skick @user [reason]`", b.conf.Discord.Prefix))
		return
	}

	if err := s.GuildMemberDeleteWithReason(m.GuildID, targetID, reason); err != nil {
		b.logger.Errorf(providers.TypeBot, "Failed to kick %s: %s", targetID, err)
		b.sendEmbed(s, m.ChannelID, "❌ Kick failed", "Could not kick that member. Check the bot's role position.")
		return
	}
	b.logger.Infof(providers.TypeBot, "Kicked %s from %s (by %s): %s", targetID, m.GuildID, m.Author.ID, reason)
	b.sendEmbed(s, m.ChannelID, "👢 Member kicked", fmt.Sprintf("<@%s> was kicked.\n**Reason:** %s", targetID, reason))
}

func (b *Bot) cmdBan(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if !b.hasPermission(s, m.GuildID, m.ChannelID, m.Author.ID, discordgo.PermissionBanMembers) {
		b.sendEmbed(s, m.ChannelID, "❌ Not allowed", "You need the Ban Members permission.")
		return
	}
	targetID, reason := b.moderationTarget(m, args)
	if targetID == "" {
		b.sendEmbed(s, m.ChannelID, "❌ Invalid usage", fmt.Sprintf("Usage: `%sban @user [reason]`", b.conf.Discord.Prefix))
		return
	}

	if err := s.GuildBanCreateWithReason(m.GuildID, targetID, reason, 0); err != nil {
		b.logger.Errorf(providers.TypeBot, "Failed to ban %s: %s", targetID, err)
		b.sendEmbed(s, m.ChannelID, "❌ Ban failed", "Could not ban that member. Check the bot's role position.")
		return
	}
	b.logger.Infof(providers.TypeBot, "Banned %s from %s (by %s): %s", targetID, m.GuildID, m.Author.ID, reason)
	b.sendEmbed(s, m.ChannelID, "🔨 Member banned", fmt.Sprintf("<@%s> was banned.\n**Reason:** %s", targetID, reason))
}

// cmdSoftban bans and immediately unbans a member, using the ban purge
// window to delete their recent messages without keeping them out.
func (b *Bot) cmdSoftban(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if !b.hasPermission(s, m.GuildID, m.ChannelID, m.Author.ID, discordgo.PermissionBanMembers) {
		b.sendEmbed(s, m.ChannelID, "❌ Not allowed", "You need the Ban Members permission.")
		return
	}
	targetID, reason := b.moderationTarget(m, args)
	if targetID == "" {
		b.sendEmbed(s, m.ChannelID, "❌ Invalid usage", fmt.Sprintf("Usage: `%ssoftban @user [reason]`", b.conf.Discord.Prefix))
		return
	}

	if err := s.GuildBanCreateWithReason(m.GuildID, targetID, reason, softbanPurgeDays); err != nil {
		b.logger.Errorf(providers.TypeBot, "Failed to softban %s: %s", targetID, err)
		b.sendEmbed(s, m.ChannelID, "❌ Softban failed", "Could not softban that member.")
		return
	}
	if err := s.GuildBanDelete(m.GuildID, targetID); err != nil {
		b.logger.Errorf(providers.TypeBot, "Failed to lift softban for %s: %s", targetID, err)
	}
	b.logger.Infof(providers.TypeBot, "Softbanned %s in %s (by %s): %s", targetID, m.GuildID, m.Author.ID, reason)
	b.sendEmbed(s, m.ChannelID, "🧹 Member softbanned", fmt.Sprintf("<@%s> was softbanned and their recent messages purged.\n**Reason:** %s", targetID, reason))
}

func (b *Bot) cmdTempban(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if !b.hasPermission(s, m.GuildID, m.ChannelID, m.Author.ID, discordgo.PermissionBanMembers) {
		b.sendEmbed(s, m.ChannelID, "❌ Not allowed", "You need the Ban Members permission.")
		return
	}
	targetID, rest := b.moderationTarget(m, args)
	parts := strings.SplitN(rest, " ", 2)
	duration, err := time.ParseDuration(parts[0])
	if targetID == "" || err != nil || duration <= 0 {
		b.sendEmbed(s, m.ChannelID, "❌ Invalid usage", fmt.Sprintf("Usage: `%stempban @user <duration> [reason]` (e.g. `24h`, `30m`)", b.conf.Discord.Prefix))
		return
	}
	reason := "No reason provided"
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		reason = strings.TrimSpace(parts[1])
	}

	if err := s.GuildBanCreateWithReason(m.GuildID, targetID, reason, 0); err != nil {
		b.logger.Errorf(providers.TypeBot, "Failed to tempban %s: %s", targetID, err)
		b.sendEmbed(s, m.ChannelID, "❌ Tempban failed", "Could not ban that member.")
		return
	}

	guildID := m.GuildID
	time.AfterFunc(duration, func() {
		// The ban may already be gone if a moderator lifted it by hand.
		if err := s.GuildBanDelete(guildID, targetID); err != nil {
			b.logger.Warnf(providers.TypeBot, "Tempban expiry for %s: %s", targetID, err)
			return
		}
		b.logger.Infof(providers.TypeBot, "Tempban expired for %s in %s", targetID, guildID)
	})

	b.logger.Infof(providers.TypeBot, "Tempbanned %s in %s for %s (by %s): %s", targetID, m.GuildID, duration, m.Author.ID, reason)
	b.sendEmbed(s, m.ChannelID, "⏳ Member tempbanned", fmt.Sprintf("<@%s> was banned for **%s**.\n**Reason:** %s", targetID, duration, reason))
}

// moderationTarget extracts the mentioned user and the trailing free
// text from a moderation command invocation.
func (b *Bot) moderationTarget(m *discordgo.MessageCreate, args string) (targetID, rest string) {
	if len(m.Mentions) == 0 {
		return "", ""
	}
	targetID = m.Mentions[0].ID

	rest = args
	for _, prefix := range []string{"<@" + targetID + ">", "<@!" + targetID + ">"} {
		rest = strings.TrimPrefix(rest, prefix)
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		rest = "No reason provided"
	}
	return targetID, rest
}
